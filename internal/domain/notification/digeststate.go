package notification

import (
	"fmt"
	"time"

	"sitedesk/internal/shared/biztime"
)

// DigestState tracks the last successful digest run per user. One row per
// user; lastRunAt only ever moves forward.
type DigestState struct {
	userID    uint
	lastRunAt *time.Time
}

func NewDigestState(userID uint) (*DigestState, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	return &DigestState{userID: userID}, nil
}

func ReconstructDigestState(userID uint, lastRunAt *time.Time) (*DigestState, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	return &DigestState{userID: userID, lastRunAt: lastRunAt}, nil
}

func (s *DigestState) UserID() uint {
	return s.userID
}

func (s *DigestState) LastRunAt() *time.Time {
	return s.lastRunAt
}

// AlreadyRanOn reports whether a digest already ran on now's business-
// timezone calendar day. Makes dailyRefresh safe to call on every page load.
func (s *DigestState) AlreadyRanOn(now time.Time) bool {
	if s.lastRunAt == nil {
		return false
	}
	start := biztime.StartOfDayUTC(now)
	next := biztime.StartOfNextDayUTC(now)
	return !s.lastRunAt.Before(start) && s.lastRunAt.Before(next)
}

// ActivityWindowStart returns the lower bound for "updated while away":
// the last run when there was one, else 24 hours before now.
func (s *DigestState) ActivityWindowStart(now time.Time) time.Time {
	if s.lastRunAt != nil {
		return *s.lastRunAt
	}
	return now.Add(-24 * time.Hour)
}

// RecordRun advances lastRunAt, refusing to move backwards.
func (s *DigestState) RecordRun(runAt time.Time) error {
	runAt = runAt.UTC()
	if s.lastRunAt != nil && runAt.Before(*s.lastRunAt) {
		return fmt.Errorf("digest state cannot move backwards")
	}
	s.lastRunAt = &runAt
	return nil
}
