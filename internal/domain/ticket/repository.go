package ticket

import (
	"context"
	"time"

	vo "sitedesk/internal/domain/ticket/valueobjects"
	"sitedesk/internal/shared/tenant"
)

// AssigneeRef identifies a user inside a tenant. The digest sweep uses it to
// fan work out across tenants.
type AssigneeRef struct {
	TenantID tenant.ID
	UserID   uint
}

type TicketRepository interface {
	Save(ctx context.Context, ticket *Ticket) error
	Update(ctx context.Context, ticket *Ticket) error
	GetByID(ctx context.Context, ticketID uint) (*Ticket, error)
	GetByNumber(ctx context.Context, number string) (*Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*Ticket, int64, error)
	// FindDueSoon returns open tickets assigned to the user with a due date
	// inside [from, until). Feeds the due-soon digest.
	FindDueSoon(ctx context.Context, assigneeID uint, from, until time.Time) ([]*Ticket, error)
	// FindOpenAssignees returns the distinct assignees of non-terminal
	// tickets across all tenants. Callers must hold system scope; the digest
	// sweep is the only expected caller.
	FindOpenAssignees(ctx context.Context) ([]AssigneeRef, error)
}

type TicketFilter struct {
	Status     *vo.TicketStatus
	Priority   *vo.Priority
	Source     *vo.Source
	SiteID     *uint
	CreatorID  *uint
	AssigneeID *uint
	Page       int
	PageSize   int
}

type HistoryRepository interface {
	Save(ctx context.Context, entry *HistoryEntry) error
	GetByTicketID(ctx context.Context, ticketID uint) ([]*HistoryEntry, error)
	// FindRecentForAssignee returns history entries recorded after since on
	// open tickets assigned to the user, excluding the user's own actions,
	// newest first. Feeds the activity digest.
	FindRecentForAssignee(ctx context.Context, assigneeID uint, since time.Time) ([]*HistoryEntry, error)
}
