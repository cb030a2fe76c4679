package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jjenkins/covidash/internal/render"
	"github.com/jjenkins/covidash/internal/service"
)

var snapshotSave bool
var snapshotToken string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <country>",
	Short: "Fetch and print a country's merged snapshot",
	Long: `Snapshot looks a country up in the directory, fetches its COVID-19
statistics and prints the merged snapshot.

The country may be given as its two-letter code or its name.

Examples:
  # Print the snapshot for France
  covidash snapshot FR

  # Save it to the records store
  covidash snapshot "Côte d'Ivoire" --save

  # Save with a bearer token
  covidash snapshot PE --save --token $TOKEN`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().BoolVar(&snapshotSave, "save", false, "Save the snapshot to the records store")
	snapshotCmd.Flags().StringVar(&snapshotToken, "token", "", "Bearer token sent with --save")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	dashboard := newDashboard(cfg, service.NoopMetrics{}, log)
	renderer := render.New(cfg.LanguageTag())

	if _, err := dashboard.LoadCountries(ctx); err != nil {
		return errors.New(renderer.ErrorFor(err, "countries").Message)
	}

	snap, err := dashboard.Select(ctx, args[0])
	if err != nil {
		name := args[0]
		if meta, ok := dashboard.Find(args[0]); ok {
			name = meta.Name
		}
		return errors.New(renderer.ErrorFor(err, name).Message)
	}

	view := renderer.Snapshot(snap)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", view.Country, view.Region)
	fmt.Fprintf(out, "  Population:  %s\n", view.Population)
	fmt.Fprintf(out, "  Capital:     %s\n", view.Capital)
	fmt.Fprintf(out, "  Currency:    %s\n", view.Currency)
	fmt.Fprintf(out, "  Cases:       %s (today %s)\n", view.Cases, view.TodayCases)
	fmt.Fprintf(out, "  Active:      %s\n", view.Active)
	fmt.Fprintf(out, "  Deaths:      %s (today %s)\n", view.Deaths, view.TodayDeaths)
	fmt.Fprintf(out, "  Recovered:   %s\n", view.Recovered)
	fmt.Fprintf(out, "  Updated:     %s\n", view.Updated)
	fmt.Fprintf(out, "  Captured:    %s\n", view.CapturedAt)

	if !snapshotSave {
		return nil
	}

	if snapshotToken != "" {
		dashboard.Login(snapshotToken)
	}
	record, err := dashboard.Save(ctx)
	if err != nil {
		return errors.New(renderer.ErrorFor(err, "saving the snapshot").Message)
	}
	fmt.Fprintf(out, "Saved as %s\n", record.ID)
	return nil
}
