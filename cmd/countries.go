package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jjenkins/covidash/internal/render"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List countries from the directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(log)
		defer cancel()

		dashboard := newDashboard(cfg, nil, log)
		countries, err := dashboard.LoadCountries(ctx)
		if err != nil {
			return errors.New(render.New(cfg.LanguageTag()).ErrorFor(err, "countries").Message)
		}

		out := cmd.OutOrStdout()
		for _, c := range countries {
			fmt.Fprintf(out, "%-4s %s\n", c.Code, c.Name)
		}
		log.WithField("count", len(countries)).Debug("Listed countries")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countriesCmd)
}
