package reports

import (
	"context"
	"sync"
	"time"

	"creditreport-backend/internal/xmltree"
)

// MemoryRepo is an in-memory implementation of Repo, used in dev mode and
// tests when no database is configured.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]CreditReport // reportID -> report
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]CreditReport),
	}
}

// Create stores a new report record.
func (r *MemoryRepo) Create(ctx context.Context, report CreditReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[report.ID] = report
	return nil
}

// Get returns a report by id without ownership filtering.
func (r *MemoryRepo) Get(ctx context.Context, reportID string) (CreditReport, error) {
	if err := ctx.Err(); err != nil {
		return CreditReport{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.data[reportID]
	if !ok {
		return CreditReport{}, ErrNotFound
	}
	return report, nil
}

// GetByUser returns a report by id for a user.
func (r *MemoryRepo) GetByUser(ctx context.Context, userID, reportID string) (CreditReport, error) {
	report, err := r.Get(ctx, reportID)
	if err != nil {
		return CreditReport{}, err
	}
	if report.UserID != userID {
		return CreditReport{}, ErrNotFound
	}
	return report, nil
}

// UpdateStatus sets the processing status and optional error message.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, reportID, status, processingError string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.data[reportID]
	if !ok {
		return ErrNotFound
	}
	report.Status = status
	report.ProcessingError = processingError
	r.data[reportID] = report
	return nil
}

// UpdateExtracted stores the extracted record and raw tree, and marks the
// report processed.
func (r *MemoryRepo) UpdateExtracted(ctx context.Context, reportID string, data ExtractedData, rawTree xmltree.Node, processedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.data[reportID]
	if !ok {
		return ErrNotFound
	}
	report.Extracted = &data
	report.RawTree = rawTree
	report.Status = StatusProcessed
	report.ProcessingError = ""
	report.ProcessedAt = &processedAt
	r.data[reportID] = report
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
