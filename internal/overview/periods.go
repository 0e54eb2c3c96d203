package overview

import (
	"errors"
	"time"
)

// MaxPeriods caps how many months one overview may span.
const MaxPeriods = 240

// ErrInvalidRange is returned for a period request that cannot be satisfied:
// a non-positive amount, a start after the end, or too many months.
var ErrInvalidRange = errors.New("overview: invalid period range")

// Period is the half-open window [Start, End) of one calendar month.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Label renders the period the way the overview shows it, e.g. "Apr22".
func (p Period) Label() string { return p.Start.Format("Jan06") }

// LastDay is the last calendar day inside the window.
func (p Period) LastDay() time.Time { return p.End.AddDate(0, 0, -1) }

// GeneratePeriods returns consecutive calendar-month windows, oldest first.
//
// Without bounds it covers the trailing amount months ending with the month of
// now. With from it covers from's month through to's month (or now's month),
// both inclusive, and amount is ignored. With only to, the trailing amount
// months end with to's month. All windows use now's location.
func GeneratePeriods(amount int, from, to *time.Time, now time.Time) ([]Period, error) {
	loc := now.Location()
	last := monthStart(now)
	if to != nil {
		last = monthStart(to.In(loc))
	}

	var first time.Time
	if from != nil {
		first = monthStart(from.In(loc))
		if first.After(last) {
			return nil, ErrInvalidRange
		}
	} else {
		if amount < 1 || amount > MaxPeriods {
			return nil, ErrInvalidRange
		}
		first = last.AddDate(0, -(amount - 1), 0)
	}

	var periods []Period
	for start := first; !start.After(last); start = start.AddDate(0, 1, 0) {
		if len(periods) == MaxPeriods {
			return nil, ErrInvalidRange
		}
		periods = append(periods, Period{Start: start, End: start.AddDate(0, 1, 0)})
	}
	return periods, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
