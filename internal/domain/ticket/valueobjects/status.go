package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusNew        TicketStatus = "new"
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
	StatusReopened   TicketStatus = "reopened"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusNew:        true,
	StatusOpen:       true,
	StatusInProgress: true,
	StatusResolved:   true,
	StatusClosed:     true,
	StatusReopened:   true,
}

var ticketStatusTransitions = map[TicketStatus][]TicketStatus{
	StatusNew: {
		StatusOpen,
		StatusClosed,
	},
	StatusOpen: {
		StatusInProgress,
		StatusResolved,
		StatusClosed,
	},
	StatusInProgress: {
		StatusResolved,
		StatusClosed,
	},
	StatusResolved: {
		StatusClosed,
		StatusReopened,
	},
	StatusClosed: {
		StatusReopened,
	},
	StatusReopened: {
		StatusOpen,
		StatusInProgress,
		StatusClosed,
	},
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) CanTransitionTo(newStatus TicketStatus) bool {
	for _, allowed := range ticketStatusTransitions[ts] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

func (ts TicketStatus) IsNew() bool {
	return ts == StatusNew
}

func (ts TicketStatus) IsResolved() bool {
	return ts == StatusResolved
}

func (ts TicketStatus) IsClosed() bool {
	return ts == StatusClosed
}

// IsTerminal reports whether the ticket no longer counts as open work.
// Digest queries exclude terminal tickets.
func (ts TicketStatus) IsTerminal() bool {
	return ts == StatusClosed || ts == StatusResolved
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
