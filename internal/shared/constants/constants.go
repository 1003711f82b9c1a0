package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXTenantID     = "X-Tenant-ID"
	HeaderXUserID       = "X-User-ID"
	HeaderXUserEmail    = "X-User-Email"
	HeaderXForwardedFor = "X-Forwarded-For"

	// Context keys (gin context, not context.Context)
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableTickets        = "tickets"
	TableTicketHistory  = "ticket_history"
	TableSites          = "sites"
	TableSiteSequences  = "site_sequences"
	TableRecurrenceRule = "recurrence_rules"
	TableNotifications  = "notifications"
	TableDigestStates   = "notification_digest_states"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgValidationFailed    = "Validation failed"
	ErrMsgConflict            = "Resource already exists"
)
