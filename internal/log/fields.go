package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldUserID      = "user_id"
	FieldEntity      = "entity"
	FieldEntityID    = "entity_id"
	FieldKey         = "key"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldPeriod      = "period"
	FieldUtilization = "utilization"
	FieldCount       = "count"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentStorage   = "storage"
	ComponentRepo      = "repo"
	ComponentSeed      = "seed"
	ComponentAggregate = "aggregate"
	ComponentBus       = "bus"
	ComponentAlerts    = "alerts"
	ComponentNotify    = "notify"
	ComponentWorker    = "worker"
	ComponentBackend   = "backend"
)

// Operations defines standard operation names.
const (
	OpRead      = "read"
	OpWrite     = "write"
	OpRemove    = "remove"
	OpUpsert    = "upsert"
	OpList      = "list"
	OpSeed      = "seed"
	OpPublish   = "publish"
	OpConsume   = "consume"
	OpSummarize = "summarize"
	OpEvaluate  = "evaluate"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
