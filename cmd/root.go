package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jjenkins/covidash/internal/config"
	"github.com/jjenkins/covidash/internal/logging"
	"github.com/jjenkins/covidash/internal/service"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "covidash",
	Short: "Country COVID-19 dashboard",
	Long: `covidash shows live COVID-19 statistics next to static country data,
and saves timestamped snapshots to a records store.

Country data comes from the REST Countries directory and statistics from
disease.sh. Snapshots are kept by the records API, which this binary can
host itself when DATABASE_URL is set.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./covidash.yaml when present)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("loglevel"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("covidash")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
			os.Exit(1)
		}
	}
}

// setup loads the configuration and builds the logger every command uses
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}

	log, err := logging.New(os.Stderr, cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	if used := viper.ConfigFileUsed(); used != "" {
		log.WithField("file", used).Debug("Using config file")
	}
	return cfg, log, nil
}

// newDashboard wires the clients named by cfg into a Dashboard
func newDashboard(cfg *config.Config, metrics service.Metrics, log logrus.FieldLogger) *service.Dashboard {
	return service.NewDashboard(
		service.NewDirectoryClient(cfg.Directory.URL, cfg.LanguageTag(), log),
		service.NewStatsClient(cfg.Stats.URL, metrics, log),
		service.NewRecordsClient(cfg.Records.URL, metrics, log),
		service.NewAggregator(),
		metrics,
		log,
	)
}

// signalContext is cancelled on the first interrupt or terminate signal
func signalContext(log logrus.FieldLogger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			log.Info("Received interrupt signal, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
