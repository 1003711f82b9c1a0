package usecases

import (
	"context"

	"sitedesk/internal/domain/ticket"
	vo "sitedesk/internal/domain/ticket/valueobjects"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/logger"
)

type ListTicketsQuery struct {
	Status     string
	Priority   string
	Source     string
	SiteID     *uint
	CreatorID  *uint
	AssigneeID *uint
	Page       int
	PageSize   int
}

type ListTicketsResult struct {
	Tickets  []*TicketDetail
	Total    int64
	Page     int
	PageSize int
}

type ListTicketsUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewListTicketsUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error) {
	filter := ticket.TicketFilter{
		SiteID:     query.SiteID,
		CreatorID:  query.CreatorID,
		AssigneeID: query.AssigneeID,
		Page:       query.Page,
		PageSize:   query.PageSize,
	}

	if query.Status != "" {
		status, err := vo.NewTicketStatus(query.Status)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Status = &status
	}
	if query.Priority != "" {
		priority, err := vo.NewPriority(query.Priority)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Priority = &priority
	}
	if query.Source != "" {
		source, err := vo.NewSource(query.Source)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Source = &source
	}

	tickets, total, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "error", err)
		return nil, err
	}

	details := make([]*TicketDetail, 0, len(tickets))
	for _, t := range tickets {
		details = append(details, toTicketDetail(t))
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return &ListTicketsResult{
		Tickets:  details,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
