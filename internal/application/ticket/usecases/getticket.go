package usecases

import (
	"context"
	"time"

	"sitedesk/internal/domain/ticket"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/logger"
)

type TicketDetail struct {
	TicketID         uint
	Number           string
	Title            string
	Description      string
	Priority         string
	Status           string
	Source           string
	SiteID           uint
	CreatorID        uint
	AssigneeID       *uint
	RecurrenceRuleID *uint
	DueDate          *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ClosedAt         *time.Time
}

type GetTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewGetTicketUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *GetTicketUseCase) ByID(ctx context.Context, ticketID uint) (*TicketDetail, error) {
	if ticketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	t, err := uc.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return toTicketDetail(t), nil
}

func (uc *GetTicketUseCase) ByNumber(ctx context.Context, number string) (*TicketDetail, error) {
	if len(number) == 0 {
		return nil, errors.NewValidationError("ticket number is required")
	}

	t, err := uc.ticketRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return toTicketDetail(t), nil
}

func toTicketDetail(t *ticket.Ticket) *TicketDetail {
	return &TicketDetail{
		TicketID:         t.ID(),
		Number:           t.Number(),
		Title:            t.Title(),
		Description:      t.Description(),
		Priority:         t.Priority().String(),
		Status:           t.Status().String(),
		Source:           t.Source().String(),
		SiteID:           t.SiteID(),
		CreatorID:        t.CreatorID(),
		AssigneeID:       t.AssigneeID(),
		RecurrenceRuleID: t.RecurrenceRuleID(),
		DueDate:          t.DueDate(),
		CreatedAt:        t.CreatedAt(),
		UpdatedAt:        t.UpdatedAt(),
		ClosedAt:         t.ClosedAt(),
	}
}
