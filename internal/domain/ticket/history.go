package ticket

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// HistoryEntry records one change to a ticket: who did it, when, and which
// fields moved. The digest engine reads these to build activity summaries.
type HistoryEntry struct {
	id            uint
	ticketID      uint
	actorID       uint
	changedFields map[string]string
	createdAt     time.Time
}

func NewHistoryEntry(ticketID, actorID uint, changedFields map[string]string) (*HistoryEntry, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if actorID == 0 {
		return nil, fmt.Errorf("actor ID is required")
	}
	if len(changedFields) == 0 {
		return nil, fmt.Errorf("at least one changed field is required")
	}
	return &HistoryEntry{
		ticketID:      ticketID,
		actorID:       actorID,
		changedFields: changedFields,
		createdAt:     time.Now().UTC(),
	}, nil
}

func ReconstructHistoryEntry(id, ticketID, actorID uint, changedFields map[string]string, createdAt time.Time) (*HistoryEntry, error) {
	if id == 0 {
		return nil, fmt.Errorf("history entry ID cannot be zero")
	}
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if changedFields == nil {
		changedFields = make(map[string]string)
	}
	return &HistoryEntry{
		id:            id,
		ticketID:      ticketID,
		actorID:       actorID,
		changedFields: changedFields,
		createdAt:     createdAt,
	}, nil
}

func (h *HistoryEntry) ID() uint {
	return h.id
}

func (h *HistoryEntry) TicketID() uint {
	return h.ticketID
}

func (h *HistoryEntry) ActorID() uint {
	return h.actorID
}

func (h *HistoryEntry) ChangedFields() map[string]string {
	fieldsCopy := make(map[string]string, len(h.changedFields))
	for k, v := range h.changedFields {
		fieldsCopy[k] = v
	}
	return fieldsCopy
}

func (h *HistoryEntry) CreatedAt() time.Time {
	return h.createdAt
}

func (h *HistoryEntry) SetID(id uint) error {
	if h.id != 0 {
		return fmt.Errorf("history entry ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("history entry ID cannot be zero")
	}
	h.id = id
	return nil
}

// Summary renders the changed fields as a stable, human-readable line,
// e.g. "priority: high, status: in_progress".
func (h *HistoryEntry) Summary() string {
	keys := make([]string, 0, len(h.changedFields))
	for k := range h.changedFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, h.changedFields[k]))
	}
	return strings.Join(parts, ", ")
}
