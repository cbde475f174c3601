package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 200

	// Database table names
	TablePanels             = "panels"
	TableResellers          = "resellers"
	TableResellerConfigs    = "reseller_configs"
	TableConfigEvents       = "reseller_config_events"
	TableAuditLogs          = "audit_logs"
	TableWalletTransactions = "wallet_transactions"
	TableSettings           = "system_settings"

	// Gin context keys
	ContextKeyActor     = "actor"
	ContextKeyRequestID = "request_id"

	// Actor types recorded on audit logs
	ActorTypeAdmin    = "admin"
	ActorTypeReseller = "reseller"

	// Audit target types
	TargetTypeReseller       = "reseller"
	TargetTypeResellerConfig = "reseller_config"

	// Byte units
	MiB = int64(1) << 20
	GiB = int64(1) << 30

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgValidationFailed    = "Validation failed"
)
