package alert

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"PortSentinel/internal/model"
)

const summaryMaxLen = 200

// Notifier queues alerts for delivery and persists them to disk.
type Notifier struct {
	mu        sync.Mutex
	alerts    []model.Alert
	alertsDir string
	now       func() time.Time
	log       zerolog.Logger
}

// NewNotifier creates a notifier writing alert files under alertsDir.
func NewNotifier(alertsDir string, log zerolog.Logger) *Notifier {
	return &Notifier{
		alertsDir: alertsDir,
		now:       time.Now,
		log:       log.With().Str("component", "alert").Logger(),
	}
}

// Add queues an alert. A missing ID is filled in.
func (n *Notifier) Add(a model.Alert) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = n.now()
	}
	n.mu.Lock()
	n.alerts = append(n.alerts, a)
	n.mu.Unlock()
}

// AddFromRisk queues an alert derived from one analyzed risk.
func (n *Notifier) AddFromRisk(risk model.Risk) {
	summary := risk.Description
	if len(summary) > summaryMaxLen {
		summary = summary[:summaryMaxLen] + "..."
	}
	n.Add(model.Alert{
		Level:             model.AlertLevelForSeverity(risk.Severity),
		AffectedHoldings:  risk.AffectedHoldings,
		Title:             risk.Title,
		Summary:           summary,
		RecommendedAction: string(risk.RecommendedAction),
		Details:           risk.Description,
	})
}

// AddFromAssessment queues one alert per risk in the assessment.
func (n *Notifier) AddFromAssessment(assessment *model.RiskAssessment) {
	for _, risk := range assessment.Risks {
		n.AddFromRisk(risk)
	}
}

// Alerts returns queued alerts at or above the minimum level.
func (n *Notifier) Alerts(minLevel model.AlertLevel) []model.Alert {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []model.Alert
	for _, a := range n.alerts {
		if a.Level.AtLeast(minLevel) {
			out = append(out, a)
		}
	}
	return out
}

// Clear drops all queued alerts.
func (n *Notifier) Clear() {
	n.mu.Lock()
	n.alerts = nil
	n.mu.Unlock()
}

var levelIcons = map[model.AlertLevel]string{
	model.AlertInfo:     "[i]",
	model.AlertWatch:    "[~]",
	model.AlertWarning:  "[!]",
	model.AlertCritical: "[!!!]",
}

// RenderConsole formats queued alerts at or above minLevel for terminal
// output.
func (n *Notifier) RenderConsole(minLevel model.AlertLevel) string {
	alerts := n.Alerts(minLevel)
	if len(alerts) == 0 {
		return "\n[OK] No alerts to report.\n"
	}

	rule := strings.Repeat("=", 60)
	var b strings.Builder
	b.WriteString("\n" + rule + "\nALERTS\n" + rule + "\n")

	for _, a := range alerts {
		icon, ok := levelIcons[a.Level]
		if !ok {
			icon = "[?]"
		}
		b.WriteString(fmt.Sprintf("\n%s %s: %s\n", icon, strings.ToUpper(string(a.Level)), a.Title))
		b.WriteString(fmt.Sprintf("    Holdings: %s\n", strings.Join(a.AffectedHoldings, ", ")))
		b.WriteString(fmt.Sprintf("    %s\n", a.Summary))
		b.WriteString(fmt.Sprintf("    Action: %s\n", a.RecommendedAction))
	}
	b.WriteString("\n" + rule + "\n")
	return b.String()
}

// Summary returns a one-line count of queued alerts by level.
func (n *Notifier) Summary() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	counts := make(map[model.AlertLevel]int)
	for _, a := range n.alerts {
		counts[a.Level]++
	}
	return fmt.Sprintf("Alerts: %d CRITICAL | %d WARNING | %d WATCH | %d INFO",
		counts[model.AlertCritical], counts[model.AlertWarning],
		counts[model.AlertWatch], counts[model.AlertInfo])
}

type alertFile struct {
	Generated  time.Time     `json:"generated"`
	AlertCount int           `json:"alert_count"`
	Alerts     []model.Alert `json:"alerts"`
}

// Save writes queued alerts to a timestamped JSON file and returns its
// path.
func (n *Notifier) Save() (string, error) {
	if err := os.MkdirAll(n.alertsDir, 0o755); err != nil {
		return "", fmt.Errorf("create alerts dir: %w", err)
	}

	n.mu.Lock()
	file := alertFile{
		Generated:  n.now(),
		AlertCount: len(n.alerts),
		Alerts:     n.alerts,
	}
	n.mu.Unlock()

	path := filepath.Join(n.alertsDir, fmt.Sprintf("alerts_%s.json", file.Generated.Format("20060102_150405")))
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode alerts: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write alerts %s: %w", path, err)
	}
	n.log.Info().Str("path", path).Int("count", file.AlertCount).Msg("alerts saved")
	return path, nil
}

// Load reads alerts back from a saved file.
func Load(path string) ([]model.Alert, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alerts %s: %w", path, err)
	}
	var file alertFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse alerts %s: %w", path, err)
	}
	return file.Alerts, nil
}
