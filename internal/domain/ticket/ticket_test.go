package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "sitedesk/internal/domain/ticket/valueobjects"
)

func newTestTicket(t *testing.T) *Ticket {
	tk, err := NewTicket("Inverter fault", "String 4 reports ground fault", vo.PriorityHigh, 3, 1, nil)
	require.NoError(t, err)
	return tk
}

func TestNewTicket(t *testing.T) {
	tk := newTestTicket(t)

	assert.Equal(t, vo.StatusNew, tk.Status())
	assert.Equal(t, vo.SourceManual, tk.Source())
	assert.Equal(t, uint(3), tk.SiteID())
	assert.Equal(t, uint(1), tk.CreatorID())
	assert.Empty(t, tk.Number())
	assert.Equal(t, 1, tk.Version())
}

func TestNewTicket_Validation(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		priority  vo.Priority
		siteID    uint
		creatorID uint
	}{
		{"empty title", "", vo.PriorityLow, 1, 1},
		{"invalid priority", "ok", vo.Priority("critical"), 1, 1},
		{"missing site", "ok", vo.PriorityLow, 0, 1},
		{"missing creator", "ok", vo.PriorityLow, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTicket(tt.title, "desc", tt.priority, tt.siteID, tt.creatorID, nil)
			assert.Error(t, err)
		})
	}
}

func TestNewFromTemplate(t *testing.T) {
	template := newTestTicket(t)
	require.NoError(t, template.AssignTo(9))

	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	spawned, err := NewFromTemplate(template, 42, &due)
	require.NoError(t, err)

	assert.Equal(t, template.Title(), spawned.Title())
	assert.Equal(t, AutoGeneratedPrefix+template.Description(), spawned.Description())
	assert.Equal(t, vo.SourceRecurring, spawned.Source())
	assert.True(t, spawned.Source().IsMachineGenerated())
	require.NotNil(t, spawned.RecurrenceRuleID())
	assert.Equal(t, uint(42), *spawned.RecurrenceRuleID())
	require.NotNil(t, spawned.AssigneeID())
	assert.Equal(t, uint(9), *spawned.AssigneeID())
	require.NotNil(t, spawned.DueDate())
	assert.Equal(t, due, *spawned.DueDate())
	assert.Equal(t, vo.StatusNew, spawned.Status())
}

func TestTicket_SetNumberOnce(t *testing.T) {
	tk := newTestTicket(t)

	require.NoError(t, tk.SetNumber("MEAD00001"))
	assert.Equal(t, "MEAD00001", tk.Number())

	err := tk.SetNumber("MEAD00002")
	assert.Error(t, err)
	assert.Equal(t, "MEAD00001", tk.Number())
}

func TestTicket_StatusTransitions(t *testing.T) {
	tk := newTestTicket(t)

	require.NoError(t, tk.AssignTo(5))
	assert.Equal(t, vo.StatusOpen, tk.Status())

	require.NoError(t, tk.ChangeStatus(vo.StatusInProgress))
	require.NoError(t, tk.ChangeStatus(vo.StatusResolved))
	assert.False(t, tk.IsOpenWork())

	err := tk.ChangeStatus(vo.StatusInProgress)
	assert.Error(t, err)

	require.NoError(t, tk.ChangeStatus(vo.StatusClosed))
	assert.NotNil(t, tk.ClosedAt())

	require.NoError(t, tk.ChangeStatus(vo.StatusReopened))
	assert.Nil(t, tk.ClosedAt())
	assert.True(t, tk.IsOpenWork())
}

func TestTicket_Close(t *testing.T) {
	tk := newTestTicket(t)

	err := tk.Close("")
	assert.Error(t, err)

	require.NoError(t, tk.Close("duplicate of MEAD00007"))
	assert.Equal(t, vo.StatusClosed, tk.Status())
	assert.NotNil(t, tk.ClosedAt())

	// Closing twice is a no-op.
	require.NoError(t, tk.Close("again"))
}

func TestHistoryEntry_Summary(t *testing.T) {
	entry, err := NewHistoryEntry(10, 2, map[string]string{
		"status":   "in_progress",
		"priority": "urgent",
	})
	require.NoError(t, err)

	assert.Equal(t, "priority: urgent, status: in_progress", entry.Summary())
}

func TestNewHistoryEntry_Validation(t *testing.T) {
	_, err := NewHistoryEntry(0, 2, map[string]string{"status": "open"})
	assert.Error(t, err)

	_, err = NewHistoryEntry(10, 0, map[string]string{"status": "open"})
	assert.Error(t, err)

	_, err = NewHistoryEntry(10, 2, nil)
	assert.Error(t, err)
}
