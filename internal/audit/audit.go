package audit

import "context"

// Actions recorded against credit report resources.
const (
	ActionFileUpload  = "file_upload"
	ActionFileProcess = "file_process"
	ActionReportView  = "report_view"
)

// Event is one audit-trail entry.
type Event struct {
	Action      string
	Actor       string
	Description string
	Resource    string
	ResourceID  string
	Metadata    map[string]any
}

// Logger records audit events. Emission is fire-and-forget: implementations
// must never let a failed write propagate into the operation being audited.
type Logger interface {
	Log(ctx context.Context, event Event)
}
