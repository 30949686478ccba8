package models

import (
	"strings"
	"time"

	"fjacquet/betterment-ynab/internal/dateutils"
)

// EarliestKeyword is the cutoff value that disables date filtering.
const EarliestKeyword = "earliest"

// Cutoff is the threshold a transaction's completion time must exceed to be
// kept. The zero value is the earliest sentinel and admits everything.
type Cutoff struct {
	at  time.Time
	set bool
}

// Earliest returns the sentinel cutoff.
func Earliest() Cutoff {
	return Cutoff{}
}

// CutoffAt returns a cutoff at t.
func CutoffAt(t time.Time) Cutoff {
	return Cutoff{at: t, set: true}
}

// ParseCutoff accepts "earliest" (or an empty string), a YYYY-MM-DD date
// meaning midnight of that day, or a YYYY-MM-DD HH:MM:SS timestamp.
func ParseCutoff(s string) (Cutoff, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, EarliestKeyword) {
		return Earliest(), nil
	}
	t, err := dateutils.ParseDay(s)
	if err != nil {
		return Cutoff{}, err
	}
	return CutoffAt(t), nil
}

// IsEarliest reports whether the cutoff is the sentinel.
func (c Cutoff) IsEarliest() bool {
	return !c.set
}

// Admits reports whether t is strictly after the cutoff. A timestamp equal to
// the cutoff is rejected.
func (c Cutoff) Admits(t time.Time) bool {
	if !c.set {
		return true
	}
	return t.After(c.at)
}

func (c Cutoff) String() string {
	if !c.set {
		return EarliestKeyword
	}
	if c.at.Equal(c.at.Truncate(24 * time.Hour)) {
		return c.at.Format(dateutils.LayoutISO)
	}
	return c.at.Format(dateutils.LayoutISODateTime)
}
