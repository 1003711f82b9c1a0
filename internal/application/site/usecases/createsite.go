package usecases

import (
	"context"
	"time"

	"sitedesk/internal/domain/site"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/logger"
	"sitedesk/internal/shared/tenant"
)

type CreateSiteCommand struct {
	Name    string
	Address string
}

type CreateSiteResult struct {
	SiteID    uint
	Name      string
	Prefix    string
	CreatedAt time.Time
}

type CreateSiteUseCase struct {
	txManager *db.TransactionManager
	siteRepo  site.SiteRepository
	logger    logger.Interface
}

func NewCreateSiteUseCase(txManager *db.TransactionManager, siteRepo site.SiteRepository, logger logger.Interface) *CreateSiteUseCase {
	return &CreateSiteUseCase{
		txManager: txManager,
		siteRepo:  siteRepo,
		logger:    logger,
	}
}

func (uc *CreateSiteUseCase) Execute(ctx context.Context, cmd CreateSiteCommand) (*CreateSiteResult, error) {
	tenantID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	newSite, err := site.NewSite(cmd.Name, cmd.Address)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = uc.txManager.RunInTenant(ctx, tenantID, func(txCtx context.Context) error {
		return uc.siteRepo.Save(txCtx, newSite)
	})
	if err != nil {
		uc.logger.Errorw("failed to create site", "name", cmd.Name, "error", err)
		return nil, err
	}

	uc.logger.Infow("site created", "site_id", newSite.ID(), "name", newSite.Name())
	return &CreateSiteResult{
		SiteID:    newSite.ID(),
		Name:      newSite.Name(),
		Prefix:    site.DerivePrefix(newSite.Name()),
		CreatedAt: newSite.CreatedAt(),
	}, nil
}
