package dto

import (
	"time"

	"sitedesk/internal/application/ticket/usecases"
)

// toUTCPtr converts a *time.Time to UTC if not nil.
func toUTCPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

type CreateTicketRequest struct {
	Title       string     `json:"title" binding:"required" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Priority    string     `json:"priority" binding:"required" validate:"required,oneof=low medium high"`
	SiteID      uint       `json:"site_id" binding:"required" validate:"required,gt=0"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (r *CreateTicketRequest) ToCommand(creatorID uint) usecases.CreateTicketCommand {
	return usecases.CreateTicketCommand{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		SiteID:      r.SiteID,
		CreatorID:   creatorID,
		DueDate:     toUTCPtr(r.DueDate),
	}
}

type UpdateTicketRequest struct {
	Status     *string    `json:"status,omitempty" validate:"omitempty,oneof=new open in_progress resolved closed reopened"`
	Priority   *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	AssigneeID *uint      `json:"assignee_id,omitempty" validate:"omitempty,gt=0"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	ClearDue   bool       `json:"clear_due,omitempty"`
}

func (r *UpdateTicketRequest) ToCommand(ticketID, actorID uint) usecases.UpdateTicketCommand {
	return usecases.UpdateTicketCommand{
		TicketID:   ticketID,
		ActorID:    actorID,
		Status:     r.Status,
		Priority:   r.Priority,
		AssigneeID: r.AssigneeID,
		DueDate:    toUTCPtr(r.DueDate),
		ClearDue:   r.ClearDue,
	}
}

type TicketResponse struct {
	ID          uint       `json:"id"`
	Number      string     `json:"number"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Source      string     `json:"source"`
	SiteID      uint       `json:"site_id"`
	CreatorID   uint       `json:"creator_id"`
	AssigneeID  *uint      `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func TicketResponseFromDetail(d *usecases.TicketDetail) *TicketResponse {
	if d == nil {
		return nil
	}
	return &TicketResponse{
		ID:          d.TicketID,
		Number:      d.Number,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
		Source:      d.Source,
		SiteID:      d.SiteID,
		CreatorID:   d.CreatorID,
		AssigneeID:  d.AssigneeID,
		DueDate:     d.DueDate,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func TicketResponsesFromDetails(details []*usecases.TicketDetail) []*TicketResponse {
	out := make([]*TicketResponse, 0, len(details))
	for _, d := range details {
		out = append(out, TicketResponseFromDetail(d))
	}
	return out
}
