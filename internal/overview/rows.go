package overview

import "time"

// ValueRow is one line of the overview: a period and its value cells.
type ValueRow struct {
	Period Period
	Values []Value
}

// BuildValueRows aggregates the whole project once per period. Every period
// yields a row, including periods without any expense.
func BuildValueRows(t *Tree, ledger *Ledger, periods []Period) ([]ValueRow, error) {
	rows := make([]ValueRow, 0, len(periods))
	for _, p := range periods {
		values, err := BuildValues(t, nil, ledger.Within(p))
		if err != nil {
			return nil, err
		}
		rows = append(rows, ValueRow{Period: p, Values: values})
	}
	return rows, nil
}

// PeriodGroup is the set of items that fall into one period.
type PeriodGroup[T any] struct {
	Period Period
	Items  []T
}

// GroupByPeriod buckets items by the period containing at(item). Periods that
// end up empty are left out, unlike BuildValueRows. Items outside every period
// are dropped. Item order inside a bucket is preserved.
func GroupByPeriod[T any](periods []Period, items []T, at func(T) time.Time) []PeriodGroup[T] {
	buckets := make([][]T, len(periods))
	for _, item := range items {
		ts := at(item)
		for i, p := range periods {
			if p.Contains(ts) {
				buckets[i] = append(buckets[i], item)
				break
			}
		}
	}

	var groups []PeriodGroup[T]
	for i, p := range periods {
		if len(buckets[i]) == 0 {
			continue
		}
		groups = append(groups, PeriodGroup[T]{Period: p, Items: buckets[i]})
	}
	return groups
}
