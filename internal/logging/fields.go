package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldChatID     = "chat_id"
	FieldUserID     = "user_id"
	FieldCommand    = "command"
	FieldPlayer     = "player"
	FieldStore      = "store"
	FieldOp         = "op"
	FieldTransport  = "transport"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
)
