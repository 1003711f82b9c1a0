package usecases

import (
	"context"
	"time"

	"sitedesk/internal/domain/site"
	"sitedesk/internal/domain/ticket"
	vo "sitedesk/internal/domain/ticket/valueobjects"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/logger"
	"sitedesk/internal/shared/tenant"
)

type CreateTicketCommand struct {
	Title       string
	Description string
	Priority    string
	SiteID      uint
	CreatorID   uint
	DueDate     *time.Time
}

type CreateTicketResult struct {
	TicketID  uint
	Number    string
	Status    string
	CreatedAt time.Time
}

// CreateTicketUseCase creates a ticket inside one transaction: the site's
// sequence allocation and the ticket insert commit or roll back together, so
// a failed creation never burns a visible gap in the site's numbering and a
// failed allocation never leaves a ticket without a number.
type CreateTicketUseCase struct {
	txManager  *db.TransactionManager
	siteRepo   site.SiteRepository
	allocator  site.SequenceAllocator
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewCreateTicketUseCase(
	txManager *db.TransactionManager,
	siteRepo site.SiteRepository,
	allocator site.SequenceAllocator,
	ticketRepo ticket.TicketRepository,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		txManager:  txManager,
		siteRepo:   siteRepo,
		allocator:  allocator,
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error) {
	tenantID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("executing create ticket use case",
		"title", cmd.Title, "site_id", cmd.SiteID, "creator_id", cmd.CreatorID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid create ticket command", "error", err)
		return nil, err
	}

	newTicket, err := ticket.NewTicket(
		cmd.Title,
		cmd.Description,
		vo.Priority(cmd.Priority),
		cmd.SiteID,
		cmd.CreatorID,
		cmd.DueDate,
	)
	if err != nil {
		uc.logger.Errorw("failed to create ticket entity", "error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	err = uc.txManager.RunInTenant(ctx, tenantID, func(txCtx context.Context) error {
		siteEntity, err := uc.siteRepo.GetByID(txCtx, cmd.SiteID)
		if err != nil {
			return err
		}

		allocation, err := uc.allocator.Allocate(txCtx, siteEntity.ID(), siteEntity.Name())
		if err != nil {
			return err
		}

		if err := newTicket.SetNumber(allocation.Identifier); err != nil {
			return errors.NewInternalError(err.Error())
		}

		return uc.ticketRepo.Save(txCtx, newTicket)
	})
	if err != nil {
		uc.logger.Errorw("failed to create ticket", "error", err)
		return nil, err
	}

	uc.logger.Infow("ticket created successfully",
		"ticket_id", newTicket.ID(), "number", newTicket.Number())

	return &CreateTicketResult{
		TicketID:  newTicket.ID(),
		Number:    newTicket.Number(),
		Status:    newTicket.Status().String(),
		CreatedAt: newTicket.CreatedAt(),
	}, nil
}

func (uc *CreateTicketUseCase) validateCommand(cmd CreateTicketCommand) error {
	if len(cmd.Title) == 0 {
		return errors.NewValidationError("title is required")
	}
	if len(cmd.Title) > 200 {
		return errors.NewValidationError("title exceeds maximum length of 200 characters")
	}
	if len(cmd.Description) > 5000 {
		return errors.NewValidationError("description exceeds maximum length of 5000 characters")
	}
	if cmd.SiteID == 0 {
		return errors.NewValidationError("site ID is required")
	}
	if cmd.CreatorID == 0 {
		return errors.NewValidationError("creator ID is required")
	}
	if !vo.Priority(cmd.Priority).IsValid() {
		return errors.NewValidationError("invalid priority")
	}
	return nil
}
