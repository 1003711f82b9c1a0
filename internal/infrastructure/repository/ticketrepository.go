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
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/tenant"
)

type TicketRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(gormDB *gorm.DB) ticket.TicketRepository {
	return &TicketRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepositoryImpl) Save(ctx context.Context, t *ticket.Ticket) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return fmt.Errorf("failed to map ticket entity to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError(fmt.Sprintf("ticket number %s already exists", t.Number()))
		}
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	if err := t.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set ticket ID: %w", err)
	}

	return nil
}

func (r *TicketRepositoryImpl) Update(ctx context.Context, t *ticket.Ticket) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return fmt.Errorf("failed to map ticket entity to model: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("ticket not found")
	}

	return nil
}

func (r *TicketRepositoryImpl) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	var model models.TicketModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, ticketID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("ticket not found")
		}
		return nil, fmt.Errorf("failed to get ticket by ID: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map ticket model to entity: %w", err)
	}

	return entity, nil
}

func (r *TicketRepositoryImpl) GetByNumber(ctx context.Context, number string) (*ticket.Ticket, error) {
	var model models.TicketModel

	if err := db.GetTxFromContext(ctx, r.db).Where("number = ?", number).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("ticket not found")
		}
		return nil, fmt.Errorf("failed to get ticket by number: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map ticket model to entity: %w", err)
	}

	return entity, nil
}

func (r *TicketRepositoryImpl) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.TicketModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", filter.Priority.String())
	}
	if filter.Source != nil {
		query = query.Where("source = ?", filter.Source.String())
	}
	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}
	if filter.CreatorID != nil {
		query = query.Where("creator_id = ?", *filter.CreatorID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var modelList []*models.TicketModel
	if err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map ticket models to entities: %w", err)
	}

	return entities, total, nil
}

func (r *TicketRepositoryImpl) FindDueSoon(ctx context.Context, assigneeID uint, from, until time.Time) ([]*ticket.Ticket, error) {
	var modelList []*models.TicketModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("assignee_id = ?", assigneeID).
		Where("status NOT IN ?", []string{vo.StatusResolved.String(), vo.StatusClosed.String()}).
		Where("due_date >= ? AND due_date < ?", from, until).
		Order("due_date ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find due soon tickets: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, fmt.Errorf("failed to map ticket models to entities: %w", err)
	}

	return entities, nil
}

func (r *TicketRepositoryImpl) FindOpenAssignees(ctx context.Context) ([]ticket.AssigneeRef, error) {
	if !tenant.IsSystemScope(ctx) {
		return nil, errors.NewForbiddenError("open assignee listing requires system scope")
	}

	var rows []struct {
		TenantID   string
		AssigneeID uint
	}

	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.TicketModel{}).
		Distinct("tenant_id", "assignee_id").
		Where("assignee_id IS NOT NULL").
		Where("status NOT IN ?", []string{vo.StatusResolved.String(), vo.StatusClosed.String()}).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find open assignees: %w", err)
	}

	refs := make([]ticket.AssigneeRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, ticket.AssigneeRef{
			TenantID: tenant.ID(row.TenantID),
			UserID:   row.AssigneeID,
		})
	}
	return refs, nil
}
