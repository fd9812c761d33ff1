package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"PortSentinel/internal/model"
)

// SQLiteRecorder persists analysis history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the monitor writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS assessments (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			market_regime TEXT,
			overall_risk  TEXT,
			risk_count    INTEGER,
			safe_holdings TEXT,
			summary       TEXT,
			risks_json    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_ts ON assessments(timestamp)`,

		`CREATE TABLE IF NOT EXISTS divergences (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			asset1     TEXT,
			asset2     TEXT,
			corr_type  TEXT,
			severity   TEXT,
			expected   TEXT,
			actual     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_divergences_ts ON divergences(timestamp)`,

		`CREATE TABLE IF NOT EXISTS concentrations (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			total_value    TEXT,
			sector_count   INTEGER,
			top_sector     TEXT,
			top_weight_pct REAL,
			hhi            REAL,
			warning_count  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_concentrations_ts ON concentrations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			alert_id   TEXT,
			level      TEXT,
			holdings   TEXT,
			title      TEXT,
			action     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAssessment(assessment *model.RiskAssessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	risksJSON, err := json.Marshal(assessment.Risks)
	if err != nil {
		return fmt.Errorf("encode risks: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO assessments
		(timestamp, market_regime, overall_risk, risk_count, safe_holdings, summary, risks_json)
		VALUES (?,?,?,?,?,?,?)`,
		assessment.Timestamp.Unix(), assessment.MarketRegime, assessment.OverallRisk,
		len(assessment.Risks), strings.Join(assessment.SafeHoldings, ","),
		assessment.Summary, string(risksJSON),
	)
	return err
}

func (r *SQLiteRecorder) RecordDivergence(d *model.Divergence) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO divergences
		(timestamp, asset1, asset2, corr_type, severity, expected, actual)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), d.Asset1, d.Asset2, string(d.Type),
		d.Severity, d.ExpectedBehavior, d.ActualBehavior,
	)
	return err
}

func (r *SQLiteRecorder) RecordConcentration(a *model.ConcentrationAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var topSector string
	var topWeight float64
	if len(a.SectorBreakdown) > 0 {
		topSector = a.SectorBreakdown[0].Sector
		topWeight = a.SectorBreakdown[0].WeightPct
	}

	_, err := r.db.Exec(`INSERT INTO concentrations
		(timestamp, total_value, sector_count, top_sector, top_weight_pct, hhi, warning_count)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), a.TotalValue.String(), len(a.SectorBreakdown),
		topSector, topWeight, a.HerfindahlIndex, len(a.Warnings),
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(a *model.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alerts
		(timestamp, alert_id, level, holdings, title, action)
		VALUES (?,?,?,?,?,?)`,
		a.Timestamp.Unix(), a.ID, string(a.Level),
		strings.Join(a.AffectedHoldings, ","), a.Title, a.RecommendedAction,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
