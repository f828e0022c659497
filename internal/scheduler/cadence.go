package scheduler

import (
	"fmt"
	"time"

	agerrors "polymarket-agent/internal/errors"
)

// cadenceKind enumerates the closed set of supported cadences.
type cadenceKind int

const (
	cadenceInvalid cadenceKind = iota
	cadenceHourly
	cadenceDaily
	cadenceWeekly
)

// Cadence describes how often a job fires. The zero value is invalid so a
// forgotten cadence fails at registration rather than silently never firing.
type Cadence struct {
	kind    cadenceKind
	weekday time.Weekday
}

// Hourly fires once an hour.
func Hourly() Cadence {
	return Cadence{kind: cadenceHourly}
}

// Daily fires once a day.
func Daily() Cadence {
	return Cadence{kind: cadenceDaily}
}

// WeeklyOn fires once a week on the given weekday, at the clock time of the
// previous fire (or of registration for the first fire).
func WeeklyOn(weekday time.Weekday) Cadence {
	return Cadence{kind: cadenceWeekly, weekday: weekday}
}

func (c Cadence) validate() error {
	switch c.kind {
	case cadenceHourly, cadenceDaily, cadenceWeekly:
		return nil
	default:
		return agerrors.ErrUnknownCadence
	}
}

// Next returns the fire instant strictly after the given time. Because the
// result is always in the future relative to its input, recomputing after a
// late fire yields exactly one catch-up execution, never a burst.
func (c Cadence) Next(after time.Time) time.Time {
	switch c.kind {
	case cadenceHourly:
		return after.Add(time.Hour)
	case cadenceDaily:
		return after.AddDate(0, 0, 1)
	case cadenceWeekly:
		days := (int(c.weekday) - int(after.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return after.AddDate(0, 0, days)
	default:
		return time.Time{}
	}
}

// String returns a human-readable cadence description.
func (c Cadence) String() string {
	switch c.kind {
	case cadenceHourly:
		return "hourly"
	case cadenceDaily:
		return "daily"
	case cadenceWeekly:
		return fmt.Sprintf("weekly on %s", c.weekday)
	default:
		return "invalid"
	}
}
