package correlation

import (
	"strings"

	"PortSentinel/internal/model"
)

// Entry is one expected pairwise relationship.
type Entry struct {
	Asset1 string
	Asset2 string
	Type   model.CorrelationType
}

// Table is an immutable, ordered set of expected asset relationships.
// Iteration order is the declaration order, so detection output is
// deterministic.
type Table struct {
	entries []Entry
}

// NewTable builds a table from entries, normalizing tickers to upper case.
func NewTable(entries ...Entry) *Table {
	normalized := make([]Entry, len(entries))
	for i, e := range entries {
		normalized[i] = Entry{
			Asset1: strings.ToUpper(e.Asset1),
			Asset2: strings.ToUpper(e.Asset2),
			Type:   e.Type,
		}
	}
	return &Table{entries: normalized}
}

// DefaultTable returns the built-in relationship table for common assets.
func DefaultTable() *Table {
	return NewTable(
		// Precious metals vs dollar strength
		Entry{"GLD", "DXY", model.CorrelationNegative},
		Entry{"SLV", "DXY", model.CorrelationNegative},
		Entry{"GLD", "UUP", model.CorrelationNegative},
		Entry{"SLV", "UUP", model.CorrelationNegative},

		// Gold and silver move together
		Entry{"GLD", "SLV", model.CorrelationPositive},

		// Tech and growth
		Entry{"QQQ", "SPY", model.CorrelationPositive},
		Entry{"QQQ", "AAPL", model.CorrelationPositive},
		Entry{"QQQ", "NVDA", model.CorrelationPositive},

		// Precious metals and long bonds both benefit from rate cuts
		Entry{"GLD", "TLT", model.CorrelationPositive},
		Entry{"SLV", "TLT", model.CorrelationPositive},
	)
}

// Entries returns the table entries in declaration order.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Lookup returns the expected relationship for an unordered ticker pair.
func (t *Table) Lookup(a, b string) (model.CorrelationType, bool) {
	a, b = strings.ToUpper(a), strings.ToUpper(b)
	for _, e := range t.entries {
		if (e.Asset1 == a && e.Asset2 == b) || (e.Asset1 == b && e.Asset2 == a) {
			return e.Type, true
		}
	}
	return "", false
}
