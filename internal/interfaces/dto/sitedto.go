package dto

import (
	"time"

	"sitedesk/internal/application/site/usecases"
)

type CreateSiteRequest struct {
	Name    string `json:"name" binding:"required" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"max=500"`
}

func (r *CreateSiteRequest) ToCommand() usecases.CreateSiteCommand {
	return usecases.CreateSiteCommand{
		Name:    r.Name,
		Address: r.Address,
	}
}

type SiteResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Status    string    `json:"status,omitempty"`
	Prefix    string    `json:"prefix"`
	CreatedAt time.Time `json:"created_at"`
}

func SiteResponsesFromItems(items []*usecases.SiteItem) []*SiteResponse {
	out := make([]*SiteResponse, 0, len(items))
	for _, item := range items {
		out = append(out, &SiteResponse{
			ID:        item.SiteID,
			Name:      item.Name,
			Address:   item.Address,
			Status:    item.Status,
			Prefix:    item.Prefix,
			CreatedAt: item.CreatedAt,
		})
	}
	return out
}
