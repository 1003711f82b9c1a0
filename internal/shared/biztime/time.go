// Package biztime provides utilities for business timezone calculations.
// All storage and transport use UTC. The business timezone is only used for
// calculating date boundaries (start of day, start of next day).
//
// Design principles:
// - All time storage is in UTC
// - Calendar-day checks (the digest's "once per day") must use the configured
//   business timezone, never the host's ambient local timezone
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is used when no business timezone is configured.
const DefaultTimezone = "UTC"

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
// An empty tz falls back to UTC.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// Location returns the business timezone location, auto-initializing with the
// default when Init has not run.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns the start of day (00:00:00) in the business timezone,
// converted to UTC for storage and queries.
func StartOfDayUTC(t time.Time) time.Time {
	bizTime := t.In(Location())
	startOfDay := time.Date(bizTime.Year(), bizTime.Month(), bizTime.Day(), 0, 0, 0, 0, Location())
	return startOfDay.UTC()
}

// StartOfNextDayUTC returns the start of the following business day in UTC.
// Together with StartOfDayUTC it forms the half-open interval [start, next)
// used for once-per-day checks.
func StartOfNextDayUTC(t time.Time) time.Time {
	bizTime := t.In(Location())
	nextDay := time.Date(bizTime.Year(), bizTime.Month(), bizTime.Day()+1, 0, 0, 0, 0, Location())
	return nextDay.UTC()
}

// SameBusinessDay reports whether a and b fall on the same calendar day in
// the business timezone.
func SameBusinessDay(a, b time.Time) bool {
	la := a.In(Location())
	lb := b.In(Location())
	return la.Year() == lb.Year() && la.YearDay() == lb.YearDay()
}

// ToBizTimezone converts a UTC time to the business timezone for display.
func ToBizTimezone(t time.Time) time.Time {
	return t.In(Location())
}

// FormatInBizTimezone formats a UTC time as a string in the business timezone.
func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
