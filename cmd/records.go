package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jjenkins/covidash/internal/render"
)

var recordsToken string

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List snapshots saved in the records store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(log)
		defer cancel()

		dashboard := newDashboard(cfg, nil, log)
		if recordsToken != "" {
			dashboard.Login(recordsToken)
		}
		renderer := render.New(cfg.LanguageTag())

		records, err := dashboard.Records(ctx)
		if err != nil {
			return errors.New(renderer.ErrorFor(err, "records").Message)
		}

		out := cmd.OutOrStdout()
		view := renderer.RecordList(records)
		if view.Empty {
			fmt.Fprintln(out, view.Message)
			return nil
		}
		for _, r := range view.Records {
			fmt.Fprintf(out, "%s  %-24s %s (%s)  cases %s  deaths %s\n", r.ID, r.Country, r.CapturedAt, r.Age, r.Cases, r.Deaths)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recordsCmd)
	recordsCmd.Flags().StringVar(&recordsToken, "token", "", "Bearer token sent to the records store")
}
