// Package tenant carries the active tenant identity through context.
// Every data-access operation in sitedesk runs against exactly one tenant;
// the db layer refuses statements whose context has no tenant attached.
package tenant

import (
	"context"
	"fmt"

	"sitedesk/internal/shared/errors"
)

// ID identifies one isolation boundary. Tenant ids originate from external
// auth material and must always be bound as statement parameters, never
// concatenated into SQL text.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return id == ""
}

// ErrMissingTenant is returned when a tenant-scoped operation runs without a
// tenant in context.
var ErrMissingTenant = errors.NewForbiddenError("no tenant in request context")

type ctxKey struct{}

type systemScopeKey struct{}

// NewContext returns a child context carrying the tenant id.
func NewContext(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the tenant id, or ErrMissingTenant if absent.
func FromContext(ctx context.Context) (ID, error) {
	id, ok := ctx.Value(ctxKey{}).(ID)
	if !ok || id.IsZero() {
		return "", ErrMissingTenant
	}
	return id, nil
}

// MustFromContext extracts the tenant id and panics if absent. Only for call
// sites that run strictly below the tenant middleware or RunInTenant.
func MustFromContext(ctx context.Context) ID {
	id, err := FromContext(ctx)
	if err != nil {
		panic(fmt.Sprintf("tenant: %v", err))
	}
	return id
}

// NewSystemContext marks the context as system-scoped: tenant filtering is
// suspended for reads so schedulers can select work across tenants. Writes
// performed under system scope still require an explicit tenant id per row.
// Only the recurrence and digest job selection paths use this.
func NewSystemContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, systemScopeKey{}, true)
}

// IsSystemScope reports whether cross-tenant reads are permitted.
func IsSystemScope(ctx context.Context) bool {
	ok, _ := ctx.Value(systemScopeKey{}).(bool)
	return ok
}
