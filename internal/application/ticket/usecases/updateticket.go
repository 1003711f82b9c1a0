package usecases

import (
	"context"
	"time"

	"sitedesk/internal/domain/ticket"
	vo "sitedesk/internal/domain/ticket/valueobjects"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/logger"
	"sitedesk/internal/shared/tenant"
)

type UpdateTicketCommand struct {
	TicketID   uint
	ActorID    uint
	Status     *string
	Priority   *string
	AssigneeID *uint
	DueDate    *time.Time
	ClearDue   bool
}

type UpdateTicketResult struct {
	TicketID  uint
	Status    string
	Priority  string
	UpdatedAt time.Time
}

// UpdateTicketUseCase applies field changes to a ticket and records a
// history entry for them in the same transaction. The history rows are what
// the activity digest later summarizes.
type UpdateTicketUseCase struct {
	txManager   *db.TransactionManager
	ticketRepo  ticket.TicketRepository
	historyRepo ticket.HistoryRepository
	logger      logger.Interface
}

func NewUpdateTicketUseCase(
	txManager *db.TransactionManager,
	ticketRepo ticket.TicketRepository,
	historyRepo ticket.HistoryRepository,
	logger logger.Interface,
) *UpdateTicketUseCase {
	return &UpdateTicketUseCase{
		txManager:   txManager,
		ticketRepo:  ticketRepo,
		historyRepo: historyRepo,
		logger:      logger,
	}
}

func (uc *UpdateTicketUseCase) Execute(ctx context.Context, cmd UpdateTicketCommand) (*UpdateTicketResult, error) {
	tenantID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}
	if cmd.ActorID == 0 {
		return nil, errors.NewValidationError("actor ID is required")
	}

	var result *UpdateTicketResult
	err = uc.txManager.RunInTenant(ctx, tenantID, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByID(txCtx, cmd.TicketID)
		if err != nil {
			return err
		}

		changed := make(map[string]string)

		if cmd.Status != nil {
			newStatus, err := vo.NewTicketStatus(*cmd.Status)
			if err != nil {
				return errors.NewValidationError(err.Error())
			}
			if t.Status() != newStatus {
				if err := t.ChangeStatus(newStatus); err != nil {
					return errors.NewValidationError(err.Error())
				}
				changed["status"] = newStatus.String()
			}
		}

		if cmd.Priority != nil {
			newPriority, err := vo.NewPriority(*cmd.Priority)
			if err != nil {
				return errors.NewValidationError(err.Error())
			}
			if t.Priority() != newPriority {
				if err := t.ChangePriority(newPriority); err != nil {
					return errors.NewValidationError(err.Error())
				}
				changed["priority"] = newPriority.String()
			}
		}

		if cmd.AssigneeID != nil {
			if err := t.AssignTo(*cmd.AssigneeID); err != nil {
				return errors.NewValidationError(err.Error())
			}
			changed["assignee"] = "reassigned"
		}

		if cmd.ClearDue {
			t.ChangeDueDate(nil)
			changed["due_date"] = "cleared"
		} else if cmd.DueDate != nil {
			t.ChangeDueDate(cmd.DueDate)
			changed["due_date"] = cmd.DueDate.UTC().Format(time.RFC3339)
		}

		if len(changed) == 0 {
			result = &UpdateTicketResult{
				TicketID:  t.ID(),
				Status:    t.Status().String(),
				Priority:  t.Priority().String(),
				UpdatedAt: t.UpdatedAt(),
			}
			return nil
		}

		if err := uc.ticketRepo.Update(txCtx, t); err != nil {
			return err
		}

		entry, err := ticket.NewHistoryEntry(t.ID(), cmd.ActorID, changed)
		if err != nil {
			return errors.NewInternalError(err.Error())
		}
		if err := uc.historyRepo.Save(txCtx, entry); err != nil {
			return err
		}

		result = &UpdateTicketResult{
			TicketID:  t.ID(),
			Status:    t.Status().String(),
			Priority:  t.Priority().String(),
			UpdatedAt: t.UpdatedAt(),
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to update ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	uc.logger.Infow("ticket updated", "ticket_id", cmd.TicketID)
	return result, nil
}
