package db

import (
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/tenant"
)

// tenantFieldName is the schema field automatic scoping keys on. Models
// without it (none in this codebase's own tables) are left untouched.
const tenantFieldName = "TenantID"

// RegisterTenantScope installs callbacks that force every statement against a
// tenant-carrying model to stay inside the tenant bound to the context. A
// query that forgets its tenant filter still cannot cross the boundary, and a
// statement with no tenant in context is refused outright.
func RegisterTenantScope(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register("sitedesk:tenant_query", applyTenantFilter); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("sitedesk:tenant_row", applyTenantFilter); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("sitedesk:tenant_update", applyTenantFilter); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("sitedesk:tenant_delete", applyTenantFilter); err != nil {
		return err
	}
	return cb.Create().Before("gorm:create").Register("sitedesk:tenant_create", assignTenantOnCreate)
}

func tenantField(db *gorm.DB) *schema.Field {
	if db.Statement == nil || db.Statement.Schema == nil {
		return nil
	}
	return db.Statement.Schema.LookUpField(tenantFieldName)
}

func applyTenantFilter(db *gorm.DB) {
	field := tenantField(db)
	if field == nil {
		return
	}

	ctx := db.Statement.Context
	if tenant.IsSystemScope(ctx) {
		return
	}

	id, err := tenant.FromContext(ctx)
	if err != nil {
		_ = db.AddError(err)
		return
	}

	db.Statement.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: field.DBName},
			Value:  id.String(),
		},
	}})
}

func assignTenantOnCreate(db *gorm.DB) {
	field := tenantField(db)
	if field == nil {
		return
	}

	ctx := db.Statement.Context
	if tenant.IsSystemScope(ctx) {
		// System-scope writes must still carry an explicit per-row tenant.
		if hasZeroTenant(db, field) {
			_ = db.AddError(errors.NewInternalError("system-scope create without tenant id"))
		}
		return
	}

	id, err := tenant.FromContext(ctx)
	if err != nil {
		_ = db.AddError(err)
		return
	}

	switch db.Statement.ReflectValue.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < db.Statement.ReflectValue.Len(); i++ {
			if err := field.Set(ctx, db.Statement.ReflectValue.Index(i), id.String()); err != nil {
				_ = db.AddError(err)
				return
			}
		}
	case reflect.Struct:
		if err := field.Set(ctx, db.Statement.ReflectValue, id.String()); err != nil {
			_ = db.AddError(err)
		}
	}
}

func hasZeroTenant(db *gorm.DB, field *schema.Field) bool {
	rv := db.Statement.ReflectValue
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if _, isZero := field.ValueOf(db.Statement.Context, rv.Index(i)); isZero {
				return true
			}
		}
		return false
	case reflect.Struct:
		_, isZero := field.ValueOf(db.Statement.Context, rv)
		return isZero
	default:
		return false
	}
}
