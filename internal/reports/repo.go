package reports

import (
	"context"
	"time"

	"creditreport-backend/internal/xmltree"
)

// Repo defines persistence operations for credit reports. Records are keyed
// by ingestion id; no multi-record transactions are required.
type Repo interface {
	Create(ctx context.Context, report CreditReport) error
	// Get fetches a report without an ownership filter; orchestrator use only.
	Get(ctx context.Context, reportID string) (CreditReport, error)
	// GetByUser fetches a report, enforcing ownership.
	GetByUser(ctx context.Context, userID, reportID string) (CreditReport, error)
	UpdateStatus(ctx context.Context, reportID, status, processingError string) error
	UpdateExtracted(ctx context.Context, reportID string, data ExtractedData, rawTree xmltree.Node, processedAt time.Time) error
}
