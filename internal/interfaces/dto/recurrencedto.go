package dto

import (
	"time"

	"sitedesk/internal/application/recurrence/usecases"
)

type CreateRuleRequest struct {
	TemplateTicketID uint       `json:"template_ticket_id" binding:"required" validate:"required,gt=0"`
	Frequency        string     `json:"frequency" binding:"required" validate:"required,oneof=daily weekly monthly"`
	IntervalValue    int        `json:"interval_value" validate:"omitempty,gte=1,lte=365"`
	FirstScheduledAt time.Time  `json:"first_scheduled_at" binding:"required"`
	EndsAt           *time.Time `json:"ends_at,omitempty"`
}

func (r *CreateRuleRequest) ToCommand() usecases.CreateRuleCommand {
	interval := r.IntervalValue
	if interval == 0 {
		interval = 1
	}
	return usecases.CreateRuleCommand{
		TemplateTicketID: r.TemplateTicketID,
		Frequency:        r.Frequency,
		IntervalValue:    interval,
		FirstScheduledAt: r.FirstScheduledAt.UTC(),
		EndsAt:           toUTCPtr(r.EndsAt),
	}
}

type RuleResponse struct {
	ID              uint      `json:"id"`
	NextScheduledAt time.Time `json:"next_scheduled_at"`
}
