package site

import "context"

type SiteRepository interface {
	Save(ctx context.Context, site *Site) error
	Update(ctx context.Context, site *Site) error
	GetByID(ctx context.Context, siteID uint) (*Site, error)
	List(ctx context.Context, limit, offset int) ([]*Site, int64, error)
}
