package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sitedesk/internal/domain/notification"
	notifvo "sitedesk/internal/domain/notification/valueobjects"
	"sitedesk/internal/domain/ticket"
	"sitedesk/internal/infrastructure/email"
	"sitedesk/internal/shared/biztime"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/logger"
	"sitedesk/internal/shared/services/markdown"
	"sitedesk/internal/shared/tenant"
)

// dueSoonWindowDays is how far ahead the digest looks for upcoming due dates.
const dueSoonWindowDays = 7

type DailyDigestCommand struct {
	UserID uint
	Email  string
	Now    time.Time
}

type DailyDigestResult struct {
	Ran           bool
	DueSoonCount  int
	ActivityCount int
}

// DailyDigestUseCase builds a user's daily notification digest. The whole
// refresh runs in one transaction keyed on the per-user digest state row, so
// calling it on every page load is safe: the first call of a business day
// does the work, every later call sees the state row and returns without
// writing. Each run replaces the previous digest notifications instead of
// stacking on top of them.
type DailyDigestUseCase struct {
	txManager       *db.TransactionManager
	ticketRepo      ticket.TicketRepository
	historyRepo     ticket.HistoryRepository
	notifRepo       notification.NotificationRepository
	digestStateRepo notification.DigestStateRepository
	markdownSvc     markdown.Service
	mailer          *email.DigestMailer
	logger          logger.Interface
}

func NewDailyDigestUseCase(
	txManager *db.TransactionManager,
	ticketRepo ticket.TicketRepository,
	historyRepo ticket.HistoryRepository,
	notifRepo notification.NotificationRepository,
	digestStateRepo notification.DigestStateRepository,
	markdownSvc markdown.Service,
	mailer *email.DigestMailer,
	logger logger.Interface,
) *DailyDigestUseCase {
	return &DailyDigestUseCase{
		txManager:       txManager,
		ticketRepo:      ticketRepo,
		historyRepo:     historyRepo,
		notifRepo:       notifRepo,
		digestStateRepo: digestStateRepo,
		markdownSvc:     markdownSvc,
		mailer:          mailer,
		logger:          logger,
	}
}

func (uc *DailyDigestUseCase) Execute(ctx context.Context, cmd DailyDigestCommand) (*DailyDigestResult, error) {
	tenantID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if cmd.UserID == 0 {
		return nil, errors.NewValidationError("user ID is required")
	}

	now := cmd.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	result := &DailyDigestResult{}
	var digestBody string

	err = uc.txManager.RunInTenant(ctx, tenantID, func(txCtx context.Context) error {
		state, err := uc.digestStateRepo.GetByUserID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		if state == nil {
			state, err = notification.NewDigestState(cmd.UserID)
			if err != nil {
				return errors.NewInternalError(err.Error())
			}
		}

		if state.AlreadyRanOn(now) {
			return nil
		}

		dueSoonStart := biztime.StartOfDayUTC(now)
		dueSoonEnd := dueSoonStart.AddDate(0, 0, dueSoonWindowDays)
		dueSoon, err := uc.ticketRepo.FindDueSoon(txCtx, cmd.UserID, dueSoonStart, dueSoonEnd)
		if err != nil {
			return err
		}

		recent, err := uc.historyRepo.FindRecentForAssignee(txCtx, cmd.UserID, state.ActivityWindowStart(now))
		if err != nil {
			return err
		}
		activity := latestEntryPerTicket(recent)

		notifications, err := uc.buildNotifications(cmd.UserID, dueSoon, activity, now)
		if err != nil {
			return err
		}

		if err := uc.notifRepo.DeleteByUserAndTypes(txCtx, cmd.UserID, notifvo.DigestTypes()); err != nil {
			return err
		}
		if err := uc.notifRepo.BulkCreate(txCtx, notifications); err != nil {
			return err
		}
		if err := uc.digestStateRepo.RecordRun(txCtx, cmd.UserID, now); err != nil {
			return err
		}

		result.Ran = true
		result.DueSoonCount = len(dueSoon)
		result.ActivityCount = len(activity)
		digestBody = renderDigestMarkdown(dueSoon, activity)
		return nil
	})
	if err != nil {
		uc.logger.Errorw("daily digest failed", "user_id", cmd.UserID, "error", err)
		return nil, err
	}

	if result.Ran {
		uc.logger.Infow("daily digest generated",
			"user_id", cmd.UserID,
			"due_soon", result.DueSoonCount,
			"activity", result.ActivityCount)
		uc.sendDigestEmail(cmd.Email, digestBody, now)
	}

	return result, nil
}

// latestEntryPerTicket keeps only the newest history entry for each ticket.
// Input is ordered newest first, so the first entry seen per ticket wins.
func latestEntryPerTicket(entries []*ticket.HistoryEntry) []*ticket.HistoryEntry {
	seen := make(map[uint]bool, len(entries))
	latest := make([]*ticket.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if seen[entry.TicketID()] {
			continue
		}
		seen[entry.TicketID()] = true
		latest = append(latest, entry)
	}
	return latest
}

func (uc *DailyDigestUseCase) buildNotifications(
	userID uint,
	dueSoon []*ticket.Ticket,
	activity []*ticket.HistoryEntry,
	now time.Time,
) ([]*notification.Notification, error) {
	notifications := make([]*notification.Notification, 0, len(dueSoon)+len(activity))

	for _, t := range dueSoon {
		ticketID := t.ID()
		title := fmt.Sprintf("Ticket %s due soon", t.Number())
		message := fmt.Sprintf("**%s** is due %s.", t.Title(), biztime.FormatInBizTimezone(*t.DueDate(), "Jan 2"))
		n, err := notification.NewNotification(userID, notifvo.TypeTicketDueSoon, title, message, &ticketID)
		if err != nil {
			return nil, errors.NewInternalError(err.Error())
		}
		notifications = append(notifications, n)
	}

	for _, entry := range activity {
		ticketID := entry.TicketID()
		title := "Ticket updated while you were away"
		message := fmt.Sprintf("Latest change: %s", entry.Summary())
		n, err := notification.NewNotification(userID, notifvo.TypeTicketActivityDigest, title, message, &ticketID)
		if err != nil {
			return nil, errors.NewInternalError(err.Error())
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}

func renderDigestMarkdown(dueSoon []*ticket.Ticket, activity []*ticket.HistoryEntry) string {
	var b strings.Builder

	b.WriteString("## Your daily ticket digest\n\n")

	if len(dueSoon) > 0 {
		b.WriteString("### Due soon\n\n")
		for _, t := range dueSoon {
			fmt.Fprintf(&b, "- **%s** %s (due %s)\n",
				t.Number(), t.Title(), biztime.FormatInBizTimezone(*t.DueDate(), "Jan 2"))
		}
		b.WriteString("\n")
	}

	if len(activity) > 0 {
		b.WriteString("### Updated while you were away\n\n")
		for _, entry := range activity {
			fmt.Fprintf(&b, "- Ticket #%d: %s\n", entry.TicketID(), entry.Summary())
		}
		b.WriteString("\n")
	}

	if len(dueSoon) == 0 && len(activity) == 0 {
		b.WriteString("Nothing needs your attention today.\n")
	}

	return b.String()
}

// sendDigestEmail delivers the digest by email after the transaction
// committed. Failures are logged and swallowed; the in-app digest is the
// source of truth.
func (uc *DailyDigestUseCase) sendDigestEmail(to string, body string, now time.Time) {
	if uc.mailer == nil || !uc.mailer.Enabled() || to == "" {
		return
	}

	htmlBody, err := uc.markdownSvc.ToHTMLSanitized(body)
	if err != nil {
		uc.logger.Warnw("failed to render digest email", "error", err)
		return
	}

	subject := fmt.Sprintf("Your ticket digest for %s", biztime.FormatInBizTimezone(now, "January 2"))
	if err := uc.mailer.SendDigest(to, subject, htmlBody, body); err != nil {
		uc.logger.Warnw("failed to send digest email", "error", err)
	}
}
