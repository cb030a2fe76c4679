package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jjenkins/covidash/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply records store migrations",
	Long: `Migrate applies pending schema migrations to the database named by
DATABASE_URL. serve also migrates on startup; this command is for
preparing a database ahead of time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		if !cfg.StoreEnabled() {
			return errors.New("DATABASE_URL environment variable is required")
		}

		ctx, cancel := signalContext(log)
		defer cancel()

		db, dialect, err := store.NewDB(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		applied, err := store.Migrate(ctx, db, dialect)
		if err != nil {
			return err
		}

		count, err := store.NewRecordStore(db).CountRecords(ctx)
		if err != nil {
			return err
		}
		log.WithField("dialect", dialect).Infof("Applied %d migrations, %d records stored", applied, count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
