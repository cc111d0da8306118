package metrics

// Attribute keys shared by the otel instruments.
const (
	AttrMethod  = "method"
	AttrPath    = "path"
	AttrStatus  = "status"
	AttrStore   = "store"
	AttrOp      = "op"
	AttrAPICall = "api_method"
	AttrEvent   = "event"
)

// Session lifecycle events tracked by the recorder.
const (
	SessionStarted   = "started"
	SessionFinalized = "finalized"
	SessionCancelled = "cancelled"
	SessionReplaced  = "replaced"
	SessionRejected  = "rejected"
)
