package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	// Missing .env is fine, explicit env vars still apply.
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	root := newRootCmd(log)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(log zerolog.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sentinel",
		Short: "PortSentinel - predictive portfolio risk monitor",
		Long: `PortSentinel watches a portfolio for early warning signs: sector
concentration, correlation divergences, price patterns, and news-driven
risks assessed by a language model.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "configs/config.yaml", "Configuration file path")
	rootCmd.PersistentFlags().StringP("portfolio", "p", "", "Path to portfolio JSON file")
	rootCmd.PersistentFlags().StringP("model", "m", "", "LLM model to use")

	rootCmd.AddCommand(newCheckCmd(log))
	rootCmd.AddCommand(newMonitorCmd(log))

	return rootCmd
}
