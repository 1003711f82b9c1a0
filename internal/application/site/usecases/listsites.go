package usecases

import (
	"context"
	"time"

	"sitedesk/internal/domain/site"
	"sitedesk/internal/shared/logger"
)

type SiteItem struct {
	SiteID    uint
	Name      string
	Address   string
	Status    string
	Prefix    string
	CreatedAt time.Time
}

type ListSitesResult struct {
	Sites []*SiteItem
	Total int64
}

type ListSitesUseCase struct {
	siteRepo site.SiteRepository
	logger   logger.Interface
}

func NewListSitesUseCase(siteRepo site.SiteRepository, logger logger.Interface) *ListSitesUseCase {
	return &ListSitesUseCase{
		siteRepo: siteRepo,
		logger:   logger,
	}
}

func (uc *ListSitesUseCase) Execute(ctx context.Context, limit, offset int) (*ListSitesResult, error) {
	sites, total, err := uc.siteRepo.List(ctx, limit, offset)
	if err != nil {
		uc.logger.Errorw("failed to list sites", "error", err)
		return nil, err
	}

	items := make([]*SiteItem, 0, len(sites))
	for _, s := range sites {
		items = append(items, &SiteItem{
			SiteID:    s.ID(),
			Name:      s.Name(),
			Address:   s.Address(),
			Status:    string(s.Status()),
			Prefix:    site.DerivePrefix(s.Name()),
			CreatedAt: s.CreatedAt(),
		})
	}

	return &ListSitesResult{Sites: items, Total: total}, nil
}
