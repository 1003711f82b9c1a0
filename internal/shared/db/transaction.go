// Package db provides database utilities including tenant-scoped transaction
// management and automatic tenant filtering.
package db

import (
	"context"

	"gorm.io/gorm"

	"sitedesk/internal/shared/tenant"
)

// txKey is the context key for storing transaction.
type txKey struct{}

// TransactionManager manages tenant-scoped database transactions.
type TransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a new TransactionManager.
func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTenant executes fn inside one transaction scoped to tenantID. Before
// fn runs, a transaction-local isolation marker is set so engine row-level
// policies restrict every statement to the tenant's rows; the automatic
// filter callbacks (RegisterTenantScope) cover engines without such policies.
// Any error from fn rolls the whole transaction back and propagates unchanged.
func (tm *TransactionManager) RunInTenant(ctx context.Context, tenantID tenant.ID, fn func(ctx context.Context) error) error {
	if tenantID.IsZero() {
		return tenant.ErrMissingTenant
	}
	ctx = tenant.NewContext(ctx, tenantID)
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := setTenantMarker(tx, tenantID); err != nil {
			return err
		}
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// RunInTransaction executes fn within a transaction without binding a tenant.
// Reserved for system-scope work (migrations, scheduler selection); callers
// must pass a context built with tenant.NewSystemContext.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// GetTx returns the transaction from context if available, otherwise returns the default DB.
func (tm *TransactionManager) GetTx(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return tm.db.WithContext(ctx)
}

// GetTxFromContext returns the transaction from context if available.
// This is a standalone function for use in repositories.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}

// setTenantMarker binds the tenant id to a transaction-scoped session value
// for engines whose row-level policies read it. The id is always bound as a
// statement parameter: tenant ids come from external auth material and are
// untrusted input.
func setTenantMarker(tx *gorm.DB, tenantID tenant.ID) error {
	switch tx.Dialector.Name() {
	case "mysql":
		return tx.Exec("SET @sitedesk_tenant_id = ?", tenantID.String()).Error
	case "postgres":
		return tx.Exec("SELECT set_config('sitedesk.tenant_id', ?, true)", tenantID.String()).Error
	default:
		// sqlite (tests) has no session variables; the callback filter in
		// tenantscope.go is the enforcement layer there.
		return nil
	}
}
