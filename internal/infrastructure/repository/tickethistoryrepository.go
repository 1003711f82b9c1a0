package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sitedesk/internal/domain/ticket"
	vo "sitedesk/internal/domain/ticket/valueobjects"
	"sitedesk/internal/infrastructure/persistence/mappers"
	"sitedesk/internal/infrastructure/persistence/models"
	"sitedesk/internal/shared/constants"
	"sitedesk/internal/shared/db"
)

type TicketHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.TicketHistoryMapper
}

func NewTicketHistoryRepository(gormDB *gorm.DB) ticket.HistoryRepository {
	return &TicketHistoryRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewTicketHistoryMapper(),
	}
}

func (r *TicketHistoryRepositoryImpl) Save(ctx context.Context, entry *ticket.HistoryEntry) error {
	model, err := r.mapper.ToModel(entry)
	if err != nil {
		return fmt.Errorf("failed to map history entry to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create history entry: %w", err)
	}

	if err := entry.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set history entry ID: %w", err)
	}

	return nil
}

func (r *TicketHistoryRepositoryImpl) GetByTicketID(ctx context.Context, ticketID uint) ([]*ticket.HistoryEntry, error) {
	var modelList []*models.TicketHistoryModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("ticket_id = ?", ticketID).
		Order("created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get history by ticket ID: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, fmt.Errorf("failed to map history models to entities: %w", err)
	}

	return entities, nil
}

// FindRecentForAssignee joins through the ticket table so only activity on
// the user's open tickets comes back. The user's own edits are excluded;
// nobody needs a digest of their own actions.
func (r *TicketHistoryRepositoryImpl) FindRecentForAssignee(ctx context.Context, assigneeID uint, since time.Time) ([]*ticket.HistoryEntry, error) {
	var modelList []*models.TicketHistoryModel

	historyTable := constants.TableTicketHistory
	ticketsTable := constants.TableTickets

	err := db.GetTxFromContext(ctx, r.db).
		Joins(fmt.Sprintf("JOIN %s ON %s.id = %s.ticket_id AND %s.deleted_at IS NULL",
			ticketsTable, ticketsTable, historyTable, ticketsTable)).
		Where(fmt.Sprintf("%s.assignee_id = ?", ticketsTable), assigneeID).
		Where(fmt.Sprintf("%s.status NOT IN ?", ticketsTable),
			[]string{vo.StatusResolved.String(), vo.StatusClosed.String()}).
		Where(fmt.Sprintf("%s.actor_id <> ?", historyTable), assigneeID).
		Where(fmt.Sprintf("%s.created_at > ?", historyTable), since).
		Order(fmt.Sprintf("%s.created_at DESC", historyTable)).
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recent history for assignee: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, fmt.Errorf("failed to map history models to entities: %w", err)
	}

	return entities, nil
}
