package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitedesk/internal/domain/ticket"
	vo "sitedesk/internal/domain/ticket/valueobjects"
	"sitedesk/internal/shared/errors"
)

func createTestTicket(t *testing.T, title string, priority vo.Priority, siteID uint) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket(title, "test description", priority, siteID, 1, nil)
	require.NoError(t, err)
	return tk
}

func TestTicketRepository_Save(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewTicketRepository(gormDB)
	ctx := tenantCtx(testTenantA)

	t.Run("save new ticket successfully", func(t *testing.T) {
		tk := createTestTicket(t, "Inverter fault", vo.PriorityHigh, 1)
		require.NoError(t, tk.SetNumber("MEAD00001"))

		err := repo.Save(ctx, tk)
		assert.NoError(t, err)
		assert.NotZero(t, tk.ID())
	})

	t.Run("round trip preserves fields", func(t *testing.T) {
		due := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		tk, err := ticket.NewTicket("Panel cleaning", "quarterly cleaning", vo.PriorityMedium, 1, 1, &due)
		require.NoError(t, err)
		require.NoError(t, tk.SetNumber("MEAD00002"))
		require.NoError(t, repo.Save(ctx, tk))

		found, err := repo.GetByNumber(ctx, "MEAD00002")
		require.NoError(t, err)
		assert.Equal(t, tk.Title(), found.Title())
		assert.Equal(t, vo.PriorityMedium, found.Priority())
		assert.Equal(t, vo.StatusNew, found.Status())
		assert.Equal(t, vo.SourceManual, found.Source())
		require.NotNil(t, found.DueDate())
		assert.True(t, found.DueDate().Equal(due))
	})

	t.Run("duplicate number fails with conflict", func(t *testing.T) {
		tk1 := createTestTicket(t, "First", vo.PriorityLow, 1)
		require.NoError(t, tk1.SetNumber("MEAD00099"))
		require.NoError(t, repo.Save(ctx, tk1))

		tk2 := createTestTicket(t, "Second", vo.PriorityLow, 1)
		require.NoError(t, tk2.SetNumber("MEAD00099"))
		err := repo.Save(ctx, tk2)
		assert.True(t, errors.IsConflictError(err))
	})
}

func TestTicketRepository_TenantIsolation(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewTicketRepository(gormDB)

	tk := createTestTicket(t, "Tenant A ticket", vo.PriorityHigh, 1)
	require.NoError(t, tk.SetNumber("MEAD00001"))
	require.NoError(t, repo.Save(tenantCtx(testTenantA), tk))

	t.Run("other tenant cannot read by ID", func(t *testing.T) {
		_, err := repo.GetByID(tenantCtx(testTenantB), tk.ID())
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("other tenant cannot read by number", func(t *testing.T) {
		_, err := repo.GetByNumber(tenantCtx(testTenantB), "MEAD00001")
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("other tenant list is empty", func(t *testing.T) {
		list, total, err := repo.List(tenantCtx(testTenantB), ticket.TicketFilter{})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, list)
	})

	t.Run("owner still sees the ticket", func(t *testing.T) {
		found, err := repo.GetByID(tenantCtx(testTenantA), tk.ID())
		require.NoError(t, err)
		assert.Equal(t, "MEAD00001", found.Number())
	})
}

func TestTicketRepository_List(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewTicketRepository(gormDB)
	ctx := tenantCtx(testTenantA)

	numbers := []string{"LIST00001", "LIST00002", "LIST00003"}
	for i, priority := range []vo.Priority{vo.PriorityHigh, vo.PriorityHigh, vo.PriorityLow} {
		tk := createTestTicket(t, "Ticket", priority, uint(i%2+1))
		require.NoError(t, tk.SetNumber(numbers[i]))
		require.NoError(t, repo.Save(ctx, tk))
	}

	t.Run("filter by priority", func(t *testing.T) {
		high := vo.PriorityHigh
		list, total, err := repo.List(ctx, ticket.TicketFilter{Priority: &high})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 2)
	})

	t.Run("filter by site", func(t *testing.T) {
		siteID := uint(2)
		_, total, err := repo.List(ctx, ticket.TicketFilter{SiteID: &siteID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("pagination caps page size", func(t *testing.T) {
		list, total, err := repo.List(ctx, ticket.TicketFilter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, list, 2)
	})
}

func TestTicketRepository_FindDueSoon(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewTicketRepository(gormDB)
	ctx := tenantCtx(testTenantA)

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	until := now.AddDate(0, 0, 7)
	assignee := uint(42)

	makeAssigned := func(number string, due *time.Time) *ticket.Ticket {
		tk, err := ticket.NewTicket("Assigned work", "", vo.PriorityMedium, 1, 1, due)
		require.NoError(t, err)
		require.NoError(t, tk.SetNumber(number))
		require.NoError(t, tk.AssignTo(assignee))
		require.NoError(t, repo.Save(ctx, tk))
		return tk
	}

	inWindow := now.AddDate(0, 0, 3)
	tooLate := now.AddDate(0, 0, 10)
	makeAssigned("DUE00001", &inWindow)
	makeAssigned("DUE00002", &tooLate)
	makeAssigned("DUE00003", nil)

	closed := makeAssigned("DUE00004", &inWindow)
	require.NoError(t, closed.ChangeStatus(vo.StatusInProgress))
	require.NoError(t, closed.ChangeStatus(vo.StatusResolved))
	require.NoError(t, repo.Update(ctx, closed))

	other, err := ticket.NewTicket("Someone else", "", vo.PriorityMedium, 1, 1, &inWindow)
	require.NoError(t, err)
	require.NoError(t, other.SetNumber("DUE00005"))
	require.NoError(t, other.AssignTo(7))
	require.NoError(t, repo.Save(ctx, other))

	found, err := repo.FindDueSoon(ctx, assignee, now, until)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "DUE00001", found[0].Number())
}
