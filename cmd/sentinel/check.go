package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"PortSentinel/internal/analysis"
	"PortSentinel/internal/analyzer"
	"PortSentinel/internal/model"
	"PortSentinel/internal/pattern"
)

func newCheckCmd(log zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a one-time portfolio risk check",
		RunE: func(cmd *cobra.Command, args []string) error {
			tickersFlag, _ := cmd.Flags().GetString("tickers")
			save, _ := cmd.Flags().GetBool("save")
			verbose, _ := cmd.Flags().GetBool("verbose")
			return runCheck(cmd, log, tickersFlag, save, verbose)
		},
	}

	cmd.Flags().StringP("tickers", "t", "", "Comma-separated tickers to check")
	cmd.Flags().BoolP("save", "s", false, "Save alerts to file")
	cmd.Flags().BoolP("verbose", "v", false, "Verbose output")

	return cmd
}

func runCheck(cmd *cobra.Command, log zerolog.Logger, tickersFlag string, save, verbose bool) error {
	rule := strings.Repeat("=", 70)
	fmt.Println(rule)
	fmt.Println("PORTSENTINEL: Predictive Portfolio Risk Monitor")
	fmt.Printf("Timestamp: %s\n", time.Now().Format("2006-01-02 15:04:05 MST"))
	fmt.Println(rule)

	a, err := buildApp(cmd, log)
	if err != nil {
		return err
	}
	defer a.close()

	if tickersFlag != "" {
		var tickers []string
		for _, t := range strings.Split(tickersFlag, ",") {
			tickers = append(tickers, strings.ToUpper(strings.TrimSpace(t)))
		}
		filtered, err := filterPortfolio(a.portfolio, tickers)
		if err != nil {
			return err
		}
		a.portfolio = filtered
		fmt.Printf("Filtering to: %s\n", strings.Join(a.portfolio.Tickers(), ", "))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Println("\n[1/4] Gathering market data...")
	a.recordDivergences()
	patterns := a.patterns.DetectAll(a.portfolio.Tickers())

	fmt.Printf("[2/4] Analyzing risks with %s...\n", a.cfg.LLM.Model)
	assessment, err := a.analyzer.Analyze(ctx, a.portfolio)
	if err != nil {
		return err
	}
	if err := a.recorder.RecordAssessment(assessment); err != nil {
		log.Error().Err(err).Msg("record assessment")
	}

	fmt.Println("[3/4] Analyzing sector concentration...")
	conc := a.concentration.Analyze(a.portfolio)
	if err := a.recorder.RecordConcentration(conc); err != nil {
		log.Error().Err(err).Msg("record concentration")
	}

	fmt.Println("[4/4] Generating report...")
	fmt.Println(analyzer.FormatReport(assessment, a.portfolio))
	fmt.Println(analysis.FormatReport(conc))

	if len(patterns) > 0 && verbose {
		fmt.Println(pattern.FormatForLLM(patterns))
	}

	a.notifier.AddFromAssessment(assessment)
	for _, al := range a.notifier.Alerts(model.AlertInfo) {
		if err := a.recorder.RecordAlert(&al); err != nil {
			log.Error().Err(err).Msg("record alert")
		}
	}
	fmt.Println("\n" + a.notifier.Summary())

	if save {
		path, err := a.notifier.Save()
		if err != nil {
			return err
		}
		fmt.Printf("Alerts saved to: %s\n", path)
	}

	if verbose {
		fmt.Println("\n" + strings.Repeat("-", 70))
		fmt.Println("VERBOSE: Raw Assessment Data")
		fmt.Println(strings.Repeat("-", 70))
		raw, err := json.MarshalIndent(assessment, "", "  ")
		if err == nil {
			fmt.Println(string(raw))
		}
	}

	return nil
}
