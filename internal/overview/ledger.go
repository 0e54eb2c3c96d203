package overview

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is the part of an expense the overview needs.
type Entry struct {
	CategoryID string
	Amount     decimal.Decimal
	SpentAt    time.Time
}

// Ledger holds the expenses of one request, loaded in a single batch.
type Ledger struct {
	entries []Entry
}

// NewLedger wraps entries. The slice is not copied.
func NewLedger(entries []Entry) *Ledger {
	return &Ledger{entries: entries}
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Within returns direct sums restricted to entries spent inside p.
func (l *Ledger) Within(p Period) Summer {
	return l.sum(p.Contains)
}

// All returns direct sums over every entry.
func (l *Ledger) All() Summer {
	return l.sum(func(time.Time) bool { return true })
}

func (l *Ledger) sum(keep func(time.Time) bool) Summer {
	sums := make(map[string]decimal.Decimal)
	for _, e := range l.entries {
		if !keep(e.SpentAt) {
			continue
		}
		sums[e.CategoryID] = sums[e.CategoryID].Add(e.Amount)
	}
	return SummerFunc(func(categoryID string) decimal.Decimal {
		return sums[categoryID]
	})
}
