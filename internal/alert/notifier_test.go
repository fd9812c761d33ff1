package alert

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortSentinel/internal/model"
)

func newTestNotifier(t *testing.T) *Notifier {
	t.Helper()
	n := NewNotifier(t.TempDir(), zerolog.Nop())
	n.now = func() time.Time { return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC) }
	return n
}

func TestAddFromRisk_MapsSeverityToLevel(t *testing.T) {
	cases := []struct {
		severity model.RiskSeverity
		level    model.AlertLevel
	}{
		{model.RiskCritical, model.AlertCritical},
		{model.RiskHigh, model.AlertWarning},
		{model.RiskMedium, model.AlertWatch},
		{model.RiskLow, model.AlertInfo},
	}

	for _, tc := range cases {
		n := newTestNotifier(t)
		n.AddFromRisk(model.Risk{Title: "t", Severity: tc.severity})

		alerts := n.Alerts(model.AlertInfo)
		require.Len(t, alerts, 1)
		assert.Equal(t, tc.level, alerts[0].Level)
		assert.NotEmpty(t, alerts[0].ID)
	}
}

func TestAddFromRisk_TruncatesSummary(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}

	n := newTestNotifier(t)
	n.AddFromRisk(model.Risk{Title: "t", Severity: model.RiskLow, Description: string(long)})

	a := n.Alerts(model.AlertInfo)[0]
	assert.Len(t, a.Summary, 203) // 200 chars plus ellipsis
	assert.Equal(t, string(long), a.Details)
}

func TestAlerts_FiltersByMinLevel(t *testing.T) {
	n := newTestNotifier(t)
	n.Add(model.Alert{Title: "info", Level: model.AlertInfo})
	n.Add(model.Alert{Title: "watch", Level: model.AlertWatch})
	n.Add(model.Alert{Title: "critical", Level: model.AlertCritical})

	assert.Len(t, n.Alerts(model.AlertInfo), 3)
	assert.Len(t, n.Alerts(model.AlertWatch), 2)

	critical := n.Alerts(model.AlertCritical)
	require.Len(t, critical, 1)
	assert.Equal(t, "critical", critical[0].Title)
}

func TestAddFromAssessment(t *testing.T) {
	n := newTestNotifier(t)
	n.AddFromAssessment(&model.RiskAssessment{Risks: []model.Risk{
		{Title: "a", Severity: model.RiskHigh},
		{Title: "b", Severity: model.RiskLow},
	}})

	assert.Len(t, n.Alerts(model.AlertInfo), 2)
	assert.Equal(t, "Alerts: 0 CRITICAL | 1 WARNING | 0 WATCH | 1 INFO", n.Summary())
}

func TestSaveAndLoad(t *testing.T) {
	n := newTestNotifier(t)
	n.Add(model.Alert{
		Title:             "Dollar strength",
		Level:             model.AlertWarning,
		AffectedHoldings:  []string{"GLD"},
		RecommendedAction: "HEDGE",
	})

	path, err := n.Save()
	require.NoError(t, err)
	assert.Contains(t, path, "alerts_20260302_093000.json")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Dollar strength", loaded[0].Title)
	assert.Equal(t, model.AlertWarning, loaded[0].Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/alerts.json")
	assert.Error(t, err)
}

func TestRenderConsole(t *testing.T) {
	n := newTestNotifier(t)

	assert.Contains(t, n.RenderConsole(model.AlertInfo), "[OK] No alerts to report.")

	n.Add(model.Alert{
		Title:             "Streak risk",
		Level:             model.AlertCritical,
		AffectedHoldings:  []string{"QQQ"},
		Summary:           "7 up days in a row",
		RecommendedAction: "WATCH",
	})

	out := n.RenderConsole(model.AlertInfo)
	assert.Contains(t, out, "[!!!] CRITICAL: Streak risk")
	assert.Contains(t, out, "Holdings: QQQ")
	assert.Contains(t, out, "Action: WATCH")
}

func TestClear(t *testing.T) {
	n := newTestNotifier(t)
	n.Add(model.Alert{Title: "x", Level: model.AlertInfo})
	n.Clear()
	assert.Empty(t, n.Alerts(model.AlertInfo))
}
