package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alabanza/alabanza/config"
	"github.com/alabanza/alabanza/logging"
)

// rootOptions carries the persistent flags and what PersistentPreRunE
// builds from them
type rootOptions struct {
	configPath string
	verbose    bool
	logFormat  string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "alabanza",
		Short: "Worship repertoire manager with chord transposition",
		Long: `alabanza keeps a worship team's songs and set lists and transposes the
chords embedded in their lyrics to any key.

Run "alabanza serve" to start the HTTP API and live session, or use the
transpose/key/distance commands directly on song files.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logFormat != "" {
				cfg.Logging.Format = opts.logFormat
			}
			if opts.verbose {
				cfg.Logging.Level = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			opts.cfg = cfg

			return initLogger(cfg.Logging)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", ".alabanza/config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log encoding (console, json)")

	rootCmd.AddCommand(
		newTransposeCmd(opts),
		newKeyCmd(opts),
		newDistanceCmd(),
		newKeysCmd(),
		newServeCmd(opts),
	)

	return rootCmd
}

func initLogger(cfg config.LoggingConfig) error {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	var logger *logging.DefaultLogger
	switch cfg.Format {
	case "json":
		logger = logging.NewJSONLogger()
	case "", "console":
		logger = logging.NewDefaultLogger()
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)
	return nil
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
