package recurrence

import (
	"fmt"
	"time"
)

// Rule periodically spawns a ticket from a template ticket. Firing and
// rescheduling happen in one transaction so a rule can never fire twice for
// the same cycle.
type Rule struct {
	id               uint
	templateTicketID uint
	frequency        Frequency
	intervalValue    int
	nextScheduledAt  time.Time
	lastGeneratedAt  *time.Time
	endsAt           *time.Time
	isActive         bool
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

func NewRule(templateTicketID uint, frequency Frequency, intervalValue int, firstScheduledAt time.Time, endsAt *time.Time) (*Rule, error) {
	if templateTicketID == 0 {
		return nil, fmt.Errorf("template ticket ID is required")
	}
	if !frequency.IsValid() {
		return nil, fmt.Errorf("invalid frequency: %s", frequency)
	}
	if intervalValue < 1 {
		return nil, fmt.Errorf("interval value must be at least 1")
	}
	if firstScheduledAt.IsZero() {
		return nil, fmt.Errorf("first scheduled time is required")
	}
	if endsAt != nil && endsAt.Before(firstScheduledAt) {
		return nil, fmt.Errorf("end time precedes first scheduled time")
	}

	now := time.Now().UTC()
	return &Rule{
		templateTicketID: templateTicketID,
		frequency:        frequency,
		intervalValue:    intervalValue,
		nextScheduledAt:  firstScheduledAt.UTC(),
		endsAt:           endsAt,
		isActive:         true,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func ReconstructRule(
	id uint,
	templateTicketID uint,
	frequency Frequency,
	intervalValue int,
	nextScheduledAt time.Time,
	lastGeneratedAt *time.Time,
	endsAt *time.Time,
	isActive bool,
	version int,
	createdAt, updatedAt time.Time,
) (*Rule, error) {
	if id == 0 {
		return nil, fmt.Errorf("rule ID cannot be zero")
	}
	if templateTicketID == 0 {
		return nil, fmt.Errorf("template ticket ID is required")
	}
	// Frequency is deliberately not re-validated here. Stored rows may carry
	// values written before validation tightened, and Advance falls back to
	// one day for anything it does not recognize. Rejecting the row would
	// keep it due forever and stall the scheduler pass.
	return &Rule{
		id:               id,
		templateTicketID: templateTicketID,
		frequency:        frequency,
		intervalValue:    intervalValue,
		nextScheduledAt:  nextScheduledAt,
		lastGeneratedAt:  lastGeneratedAt,
		endsAt:           endsAt,
		isActive:         isActive,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (r *Rule) ID() uint {
	return r.id
}

func (r *Rule) TemplateTicketID() uint {
	return r.templateTicketID
}

func (r *Rule) Frequency() Frequency {
	return r.frequency
}

func (r *Rule) IntervalValue() int {
	return r.intervalValue
}

func (r *Rule) NextScheduledAt() time.Time {
	return r.nextScheduledAt
}

func (r *Rule) LastGeneratedAt() *time.Time {
	return r.lastGeneratedAt
}

func (r *Rule) EndsAt() *time.Time {
	return r.endsAt
}

func (r *Rule) IsActive() bool {
	return r.isActive
}

func (r *Rule) Version() int {
	return r.version
}

func (r *Rule) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Rule) UpdatedAt() time.Time {
	return r.updatedAt
}

func (r *Rule) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("rule ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("rule ID cannot be zero")
	}
	r.id = id
	return nil
}

// IsDue reports whether the rule should fire at the given instant.
func (r *Rule) IsDue(now time.Time) bool {
	return r.isActive && !r.nextScheduledAt.After(now)
}

// MarkFired advances the schedule after a successful spawn. The next fire
// time derives from the previous scheduled time; firedAt only records when
// the spawn actually happened. A rule whose next fire would pass its end
// date deactivates instead of staying due.
func (r *Rule) MarkFired(firedAt time.Time) {
	fired := firedAt.UTC()
	r.lastGeneratedAt = &fired
	r.nextScheduledAt = Advance(r.nextScheduledAt, r.frequency, r.intervalValue)
	if r.endsAt != nil && r.nextScheduledAt.After(*r.endsAt) {
		r.isActive = false
	}
	r.updatedAt = fired
	r.version++
}

// Deactivate stops the rule without deleting it.
func (r *Rule) Deactivate() {
	if !r.isActive {
		return
	}
	r.isActive = false
	r.updatedAt = time.Now().UTC()
	r.version++
}
