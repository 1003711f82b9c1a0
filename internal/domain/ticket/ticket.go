package ticket

import (
	"fmt"
	"time"

	vo "sitedesk/internal/domain/ticket/valueobjects"
)

// AutoGeneratedPrefix marks the description of tickets spawned by the
// recurrence engine.
const AutoGeneratedPrefix = "[Auto-generated] "

type Ticket struct {
	id               uint
	number           string
	title            string
	description      string
	priority         vo.Priority
	status           vo.TicketStatus
	source           vo.Source
	siteID           uint
	creatorID        uint
	assigneeID       *uint
	recurrenceRuleID *uint
	dueDate          *time.Time
	metadata         map[string]interface{}
	version          int
	createdAt        time.Time
	updatedAt        time.Time
	closedAt         *time.Time
}

func NewTicket(
	title string,
	description string,
	priority vo.Priority,
	siteID uint,
	creatorID uint,
	dueDate *time.Time,
) (*Ticket, error) {
	if len(title) == 0 {
		return nil, fmt.Errorf("title is required")
	}
	if len(title) > 200 {
		return nil, fmt.Errorf("title exceeds maximum length of 200 characters")
	}
	if len(description) > 5000 {
		return nil, fmt.Errorf("description exceeds maximum length of 5000 characters")
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if siteID == 0 {
		return nil, fmt.Errorf("site ID is required")
	}
	if creatorID == 0 {
		return nil, fmt.Errorf("creator ID is required")
	}

	now := time.Now().UTC()
	return &Ticket{
		title:       title,
		description: description,
		priority:    priority,
		status:      vo.StatusNew,
		source:      vo.SourceManual,
		siteID:      siteID,
		creatorID:   creatorID,
		dueDate:     dueDate,
		metadata:    make(map[string]interface{}),
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// NewFromTemplate builds the ticket a recurrence rule spawns: title,
// priority, site and assignment copy over, the description is prefixed to
// mark machine generation, and the spawned ticket links back to its rule.
func NewFromTemplate(template *Ticket, ruleID uint, dueDate *time.Time) (*Ticket, error) {
	if template == nil {
		return nil, fmt.Errorf("template ticket is required")
	}
	if ruleID == 0 {
		return nil, fmt.Errorf("rule ID is required")
	}

	now := time.Now().UTC()
	t := &Ticket{
		title:            template.title,
		description:      AutoGeneratedPrefix + template.description,
		priority:         template.priority,
		status:           vo.StatusNew,
		source:           vo.SourceRecurring,
		siteID:           template.siteID,
		creatorID:        template.creatorID,
		recurrenceRuleID: &ruleID,
		dueDate:          dueDate,
		metadata:         make(map[string]interface{}),
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}
	if template.assigneeID != nil {
		assignee := *template.assigneeID
		t.assigneeID = &assignee
	}
	return t, nil
}

func ReconstructTicket(
	id uint,
	number string,
	title string,
	description string,
	priority vo.Priority,
	status vo.TicketStatus,
	source vo.Source,
	siteID uint,
	creatorID uint,
	assigneeID *uint,
	recurrenceRuleID *uint,
	dueDate *time.Time,
	metadata map[string]interface{},
	version int,
	createdAt, updatedAt time.Time,
	closedAt *time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if len(number) == 0 {
		return nil, fmt.Errorf("ticket number is required")
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status")
	}
	if !source.IsValid() {
		return nil, fmt.Errorf("invalid source")
	}

	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &Ticket{
		id:               id,
		number:           number,
		title:            title,
		description:      description,
		priority:         priority,
		status:           status,
		source:           source,
		siteID:           siteID,
		creatorID:        creatorID,
		assigneeID:       assigneeID,
		recurrenceRuleID: recurrenceRuleID,
		dueDate:          dueDate,
		metadata:         metadata,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
		closedAt:         closedAt,
	}, nil
}

func (t *Ticket) ID() uint {
	return t.id
}

func (t *Ticket) Number() string {
	return t.number
}

func (t *Ticket) Title() string {
	return t.title
}

func (t *Ticket) Description() string {
	return t.description
}

func (t *Ticket) Priority() vo.Priority {
	return t.priority
}

func (t *Ticket) Status() vo.TicketStatus {
	return t.status
}

func (t *Ticket) Source() vo.Source {
	return t.source
}

func (t *Ticket) SiteID() uint {
	return t.siteID
}

func (t *Ticket) CreatorID() uint {
	return t.creatorID
}

func (t *Ticket) AssigneeID() *uint {
	return t.assigneeID
}

func (t *Ticket) RecurrenceRuleID() *uint {
	return t.recurrenceRuleID
}

func (t *Ticket) DueDate() *time.Time {
	return t.dueDate
}

func (t *Ticket) Metadata() map[string]interface{} {
	metadataCopy := make(map[string]interface{}, len(t.metadata))
	for k, v := range t.metadata {
		metadataCopy[k] = v
	}
	return metadataCopy
}

func (t *Ticket) Version() int {
	return t.version
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Ticket) ClosedAt() *time.Time {
	return t.closedAt
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

// SetNumber attaches the allocated identifier. A ticket is never persisted
// without one, and the number never changes once set.
func (t *Ticket) SetNumber(number string) error {
	if len(t.number) > 0 {
		return fmt.Errorf("ticket number is already set")
	}
	if len(number) == 0 {
		return fmt.Errorf("ticket number cannot be empty")
	}
	t.number = number
	return nil
}

func (t *Ticket) AssignTo(assigneeID uint) error {
	if assigneeID == 0 {
		return fmt.Errorf("assignee ID cannot be zero")
	}

	t.assigneeID = &assigneeID
	t.updatedAt = time.Now().UTC()
	t.version++

	if t.status.IsNew() {
		t.status = vo.StatusOpen
	}
	return nil
}

func (t *Ticket) ChangeStatus(newStatus vo.TicketStatus) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("invalid status: %s", newStatus)
	}
	if t.status == newStatus {
		return nil
	}
	if !t.status.CanTransitionTo(newStatus) {
		return fmt.Errorf("cannot transition from %s to %s", t.status, newStatus)
	}

	t.status = newStatus
	now := time.Now().UTC()
	t.updatedAt = now
	t.version++

	if newStatus.IsClosed() && t.closedAt == nil {
		t.closedAt = &now
	}
	if newStatus == vo.StatusReopened {
		t.closedAt = nil
	}
	return nil
}

func (t *Ticket) ChangePriority(newPriority vo.Priority) error {
	if !newPriority.IsValid() {
		return fmt.Errorf("invalid priority: %s", newPriority)
	}
	if t.priority == newPriority {
		return nil
	}

	t.priority = newPriority
	t.updatedAt = time.Now().UTC()
	t.version++
	return nil
}

func (t *Ticket) ChangeDueDate(dueDate *time.Time) {
	t.dueDate = dueDate
	t.updatedAt = time.Now().UTC()
	t.version++
}

func (t *Ticket) Close(reason string) error {
	if len(reason) == 0 {
		return fmt.Errorf("close reason is required")
	}
	if t.status.IsClosed() {
		return nil
	}
	if !t.status.CanTransitionTo(vo.StatusClosed) {
		return fmt.Errorf("cannot close ticket with status %s", t.status)
	}

	now := time.Now().UTC()
	t.status = vo.StatusClosed
	t.closedAt = &now
	t.updatedAt = now
	t.version++
	return nil
}

// IsOpenWork reports whether the ticket still needs attention; digest
// queries only look at open work.
func (t *Ticket) IsOpenWork() bool {
	return !t.status.IsTerminal()
}
