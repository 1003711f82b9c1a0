package recurrence

import "time"

// Advance computes the next fire time from the rule's scheduled time, not
// from the moment it actually ran, so slow job runs never drift the cadence.
//
// Month and year steps use raw calendar arithmetic: Go normalizes overflow,
// so Jan 31 + 1 month lands on Mar 3 (Mar 2 in leap years). That shift is
// accepted behavior and pinned by tests.
//
// An unknown frequency advances one day. That keeps a malformed rule from
// staying due forever and flooding every scheduler pass.
func Advance(from time.Time, freq Frequency, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	switch freq {
	case FrequencyDaily:
		return from.AddDate(0, 0, interval)
	case FrequencyWeekly:
		return from.AddDate(0, 0, interval*7)
	case FrequencyMonthly:
		return from.AddDate(0, interval, 0)
	case FrequencyQuarterly:
		return from.AddDate(0, interval*3, 0)
	case FrequencyYearly:
		return from.AddDate(interval, 0, 0)
	default:
		return from.AddDate(0, 0, 1)
	}
}
