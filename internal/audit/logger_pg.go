package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"creditreport-backend/internal/shared/telemetry"
)

// PGLogger persists audit events in Postgres. Insert failures are logged
// and swallowed so auditing never rolls back the audited operation.
type PGLogger struct {
	DB *sql.DB
}

// Log inserts the event.
func (l *PGLogger) Log(ctx context.Context, event Event) {
	const query = `
INSERT INTO audit_logs (id, action, actor, description, resource, resource_id, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var metadata []byte
	if event.Metadata != nil {
		var err error
		metadata, err = json.Marshal(event.Metadata)
		if err != nil {
			telemetry.Error("audit.marshal_failed", map[string]any{
				"action": event.Action,
				"error":  err.Error(),
			})
			metadata = nil
		}
	}

	var resourceID sql.NullString
	if event.ResourceID != "" {
		resourceID = sql.NullString{String: event.ResourceID, Valid: true}
	}

	_, err := l.DB.ExecContext(
		ctx,
		query,
		uuid.NewString(),
		event.Action,
		event.Actor,
		event.Description,
		event.Resource,
		resourceID,
		metadata,
		time.Now().UTC(),
	)
	if err != nil {
		telemetry.Error("audit.write_failed", map[string]any{
			"action":      event.Action,
			"resource_id": event.ResourceID,
			"error":       err.Error(),
		})
	}
}

var _ Logger = (*PGLogger)(nil)
