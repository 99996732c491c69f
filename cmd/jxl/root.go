package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	logLevel string
	logger   *slog.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "jxl",
		Short:         "Decode JPEG XL codestreams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger()
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	viper.SetEnvPrefix("jxl")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("log-level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.AddCommand(newDecodeCmd(), newInfoCmd())
	return cmd
}

// initLogger builds the process-wide slog.Logger from the bound
// log-level flag/env var, using tint's handler for readable, colorized
// CLI output.
func initLogger() error {
	level := viper.GetString("log-level")
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return err
	}
	logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: lvl}))
	slog.SetDefault(logger)
	return nil
}
