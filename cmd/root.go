// Package cmd defines the amon command line interface.
package cmd

import (
	"fmt"
	"os"

	"amon/internal/config"
	"amon/internal/engine"
	"amon/internal/observability"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagHeadless bool
	flagUsername string
	flagPassword string
	flagBaseURL  string

	cfg *config.Config
	eng *engine.Engine
)

var rootCmd = &cobra.Command{
	Use:   "amon",
	Short: "amon automates the HR portal's attendance workflows",
	Long: `amon drives the HR portal in a headless browser: it logs in,
submits work-from-office regularizations and work-from-home leaves,
and keeps a reconciled local snapshot of attendance history.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var opts []config.Option
		if cmd.Flags().Changed("headless") {
			opts = append(opts, config.WithHeadless(flagHeadless))
		}
		if flagUsername != "" || flagPassword != "" {
			opts = append(opts, config.WithCredentials(flagUsername, flagPassword))
		}
		if flagBaseURL != "" {
			opts = append(opts, config.WithBaseURL(flagBaseURL))
		}

		var err error
		cfg, err = config.Load(opts...)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		observability.Init(cfg.LogLevel, cfg.LogFile)
		observability.L().Info("starting amon", zap.String("version", Version))

		eng = engine.New(cfg, observability.L())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if eng != nil {
			eng.Close()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagHeadless, "headless", true, "run the browser headless")
	rootCmd.PersistentFlags().StringVar(&flagUsername, "username", "", "portal username (overrides AMON_USERNAME)")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "portal password (overrides AMON_PASSWORD)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "portal base URL")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
