package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"PortSentinel/internal/alert"
	"PortSentinel/internal/analysis"
	"PortSentinel/internal/analyzer"
	"PortSentinel/internal/collector"
	"PortSentinel/internal/config"
	"PortSentinel/internal/correlation"
	"PortSentinel/internal/llm"
	"PortSentinel/internal/model"
	"PortSentinel/internal/monitor"
	"PortSentinel/internal/pattern"
	"PortSentinel/internal/portfolio"
	"PortSentinel/internal/recorder"
)

// app bundles the wired components shared by the check and monitor
// commands.
type app struct {
	cfg           *config.Config
	portfolio     *model.Portfolio
	analyzer      *analyzer.Analyzer
	concentration *analysis.ConcentrationAnalyzer
	tracker       *correlation.Tracker
	patterns      *pattern.Detector
	notifier      *alert.Notifier
	telegram      *alert.TelegramSender
	recorder      recorder.Recorder
	log           zerolog.Logger
}

func buildApp(cmd *cobra.Command, log zerolog.Logger) (*app, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Flag overrides beat config and env.
	if v, _ := cmd.Flags().GetString("portfolio"); v != "" {
		cfg.Portfolio.Path = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.LLM.Model = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	p, err := portfolio.Load(cfg.Portfolio.Path)
	if err != nil {
		return nil, err
	}
	log.Info().Str("portfolio", p.Name).Strs("tickers", p.Tickers()).Msg("portfolio loaded")

	fetcher := collector.NewYahooFetcher()
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	tracker := correlation.NewTracker(fetcher, correlation.DefaultTable(), log)
	detector := pattern.NewDetector(fetcher, log)

	provider, err := llm.NewProvider(llm.Options{Model: cfg.LLM.Model}, cfg.LLM.AnthropicKey, cfg.LLM.OpenAIKey)
	if err != nil {
		return nil, err
	}

	tavily := monitor.NewTavilyClient(cfg.Search.TavilyKey, log)
	perplexity := monitor.NewPerplexityClient(cfg.Search.PerplexityKey, log)
	news := monitor.NewNewsScanner(tavily, perplexity, log)
	calendar := monitor.NewEventCalendar(tavily, log)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("sqlite recorder unavailable, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	return &app{
		cfg:           cfg,
		portfolio:     p,
		analyzer:      analyzer.New(provider, news, calendar, tracker, log),
		concentration: analysis.NewConcentrationAnalyzer(),
		tracker:       tracker,
		patterns:      detector,
		notifier:      alert.NewNotifier(cfg.Alerts.Dir, log),
		telegram:      alert.NewTelegramSender(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log),
		recorder:      rec,
		log:           log,
	}, nil
}

func (a *app) close() {
	if err := a.recorder.Close(); err != nil {
		a.log.Error().Err(err).Msg("close recorder")
	}
}

// filterPortfolio narrows the portfolio to the requested tickers.
func filterPortfolio(p *model.Portfolio, tickers []string) (*model.Portfolio, error) {
	if len(tickers) == 0 {
		return p, nil
	}

	want := make(map[string]bool)
	for _, t := range tickers {
		want[t] = true
	}

	filtered := &model.Portfolio{Name: p.Name}
	for _, h := range p.Holdings {
		if want[h.Ticker] {
			filtered.Holdings = append(filtered.Holdings, h)
		}
	}
	if len(filtered.Holdings) == 0 {
		return nil, fmt.Errorf("none of the specified tickers found in portfolio")
	}
	return filtered, nil
}

// recordDivergences persists current divergences for the watch set.
func (a *app) recordDivergences() {
	for _, d := range a.tracker.DetectDivergences(a.portfolio.WatchTickers()) {
		if err := a.recorder.RecordDivergence(&d); err != nil {
			a.log.Error().Err(err).Msg("record divergence")
		}
	}
}
