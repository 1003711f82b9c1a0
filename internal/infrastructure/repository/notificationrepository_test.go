package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitedesk/internal/domain/notification"
	vo "sitedesk/internal/domain/notification/valueobjects"
	"sitedesk/internal/shared/errors"
)

func createTestNotification(t *testing.T, userID uint, notifType vo.NotificationType, title string) *notification.Notification {
	t.Helper()
	n, err := notification.NewNotification(userID, notifType, title, "message body", nil)
	require.NoError(t, err)
	return n
}

func TestNotificationRepository_Create(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewNotificationRepository(gormDB)
	ctx := tenantCtx(testTenantA)

	t.Run("create assigns ID", func(t *testing.T) {
		n := createTestNotification(t, 1, vo.TypeTicketAssigned, "Ticket assigned")
		require.NoError(t, repo.Create(ctx, n))
		assert.NotZero(t, n.ID())
	})

	t.Run("bulk create assigns all IDs", func(t *testing.T) {
		batch := []*notification.Notification{
			createTestNotification(t, 2, vo.TypeTicketDueSoon, "Due soon"),
			createTestNotification(t, 2, vo.TypeTicketActivityDigest, "Activity"),
		}
		require.NoError(t, repo.BulkCreate(ctx, batch))
		for _, n := range batch {
			assert.NotZero(t, n.ID())
		}
	})

	t.Run("bulk create with empty slice is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.BulkCreate(ctx, nil))
	})
}

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewNotificationRepository(gormDB)
	ctx := tenantCtx(testTenantA)

	n := createTestNotification(t, 1, vo.TypeSystem, "Maintenance window")
	require.NoError(t, repo.Create(ctx, n))

	count, err := repo.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.MarkAsRead(ctx, n.ID()))

	count, err = repo.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = repo.MarkAsRead(ctx, n.ID())
	assert.True(t, errors.IsNotFoundError(err))
}

func TestNotificationRepository_DeleteByUserAndTypes(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewNotificationRepository(gormDB)
	ctx := tenantCtx(testTenantA)

	seed := []*notification.Notification{
		createTestNotification(t, 1, vo.TypeTicketDueSoon, "Due soon 1"),
		createTestNotification(t, 1, vo.TypeTicketDueSoon, "Due soon 2"),
		createTestNotification(t, 1, vo.TypeTicketActivityDigest, "Activity"),
		createTestNotification(t, 1, vo.TypeTicketAssigned, "Assigned"),
		createTestNotification(t, 2, vo.TypeTicketDueSoon, "Other user"),
	}
	require.NoError(t, repo.BulkCreate(ctx, seed))

	require.NoError(t, repo.DeleteByUserAndTypes(ctx, 1, vo.DigestTypes()))

	t.Run("digest types for the user are gone", func(t *testing.T) {
		remaining, total, err := repo.ListByUserID(ctx, 1, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, remaining, 1)
		assert.Equal(t, vo.TypeTicketAssigned, remaining[0].Type())
	})

	t.Run("other users keep their notifications", func(t *testing.T) {
		_, total, err := repo.ListByUserID(ctx, 2, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("empty type list is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.DeleteByUserAndTypes(ctx, 1, nil))
	})
}

func TestNotificationRepository_TenantIsolation(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewNotificationRepository(gormDB)

	n := createTestNotification(t, 1, vo.TypeSystem, "Tenant A only")
	require.NoError(t, repo.Create(tenantCtx(testTenantA), n))

	_, err := repo.GetByID(tenantCtx(testTenantB), n.ID())
	assert.True(t, errors.IsNotFoundError(err))

	count, err := repo.CountUnread(tenantCtx(testTenantB), 1)
	require.NoError(t, err)
	assert.Zero(t, count)
}
