package reports

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"creditreport-backend/internal/audit"
	"creditreport-backend/internal/shared/metrics"
	"creditreport-backend/internal/shared/telemetry"
	"creditreport-backend/internal/shared/util"
	"creditreport-backend/internal/xmltree"
)

// Service owns the per-document ingestion state machine:
// uploaded -> processing -> {processed, failed}. Only the service mutates a
// record between those transitions, so no locking is needed on the record
// during processing.
type Service struct {
	Repo  Repo
	Audit audit.Logger
}

var (
	ulidMu      sync.Mutex
	ulidEntropy = ulid.Monotonic(rand.Reader, 0)
)

func newReportID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()
	return ulid.MustNew(ulid.Now(), ulidEntropy).String()
}

// Upload creates the ingestion record in StatusUploaded and kicks off
// asynchronous processing. It returns as soon as the record is durably
// created; callers observe extraction progress via GetStatus.
func (s *Service) Upload(ctx context.Context, userID, fileName, mimeType string, size int64, raw []byte) (CreditReport, error) {
	if userID == "" || strings.TrimSpace(fileName) == "" {
		return CreditReport{}, ErrInvalidInput
	}
	fileName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return CreditReport{}, ErrInvalidInput
	}

	report := CreditReport{
		ID:               uuid.NewString(),
		ReportID:         newReportID(),
		UserID:           userID,
		FileName:         fileName,
		OriginalFileName: fileName,
		MimeType:         mimeType,
		FileSize:         size,
		Status:           StatusUploaded,
		UploadedAt:       time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, report); err != nil {
		return CreditReport{}, err
	}

	s.auditLog(ctx, audit.Event{
		Action:      audit.ActionFileUpload,
		Actor:       userID,
		Description: fmt.Sprintf("User uploaded XML file: %s", fileName),
		Resource:    "CreditReport",
		ResourceID:  report.ID,
		Metadata: map[string]any{
			"fileName": fileName,
			"fileSize": size,
			"reportId": report.ReportID,
		},
	})

	go s.processAsync(context.Background(), raw, report.ID, userID)

	return report, nil
}

func (s *Service) processAsync(ctx context.Context, raw []byte, reportID, userID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failReport(ctx, reportID, userID, "", fmt.Errorf("panic: %v", r), nil)
		}
	}()
	s.ProcessUpload(ctx, raw, reportID, userID)
}

// ProcessUpload runs one extraction for the given ingestion record. The
// processing transition persists before parsing starts, so status is
// observable mid-flight and never silently stuck at uploaded.
func (s *Service) ProcessUpload(ctx context.Context, raw []byte, reportID, userID string) {
	report, err := s.Repo.Get(ctx, reportID)
	if err != nil {
		// Nothing to update; the record was never created or has been removed.
		telemetry.Error("ingestion.report_missing", map[string]any{
			"report_id": reportID,
			"user_id":   userID,
			"error":     err.Error(),
		})
		return
	}

	startedAt := time.Now().UTC()
	if err := s.Repo.UpdateStatus(ctx, reportID, StatusProcessing, ""); err != nil {
		s.failReport(ctx, reportID, userID, report.FileName, fmt.Errorf("set processing failed: %w", err), &startedAt)
		return
	}
	metrics.IncIngestionStarted()
	telemetry.Info("ingestion.status", map[string]any{
		"report_id":         reportID,
		"user_id":           userID,
		"status":            StatusProcessing,
		"status_transition": "uploaded->processing",
	})

	tree, err := xmltree.Parse(raw)
	if err != nil {
		s.failReport(ctx, reportID, userID, report.FileName, err, &startedAt)
		return
	}

	data, err := extractReport(tree)
	if err != nil {
		s.failReport(ctx, reportID, userID, report.FileName, err, &startedAt)
		return
	}

	processedAt := time.Now().UTC()
	if err := s.Repo.UpdateExtracted(ctx, reportID, data, tree, processedAt); err != nil {
		s.failReport(ctx, reportID, userID, report.FileName, fmt.Errorf("persist extracted data: %w", err), &startedAt)
		return
	}
	metrics.IncIngestionProcessed()
	metrics.ObserveIngestionDurationMs(durationMs(startedAt, processedAt))

	s.auditLog(ctx, audit.Event{
		Action:      audit.ActionFileProcess,
		Actor:       userID,
		Description: fmt.Sprintf("XML file processed successfully: %s", report.FileName),
		Resource:    "CreditReport",
		ResourceID:  reportID,
		Metadata: map[string]any{
			"reportId":          report.ReportID,
			"accountsProcessed": len(data.CreditAccounts),
			"pan":               data.BasicDetails.PAN,
		},
	})
	telemetry.Info("ingestion.status", map[string]any{
		"report_id":         reportID,
		"user_id":           userID,
		"status":            StatusProcessed,
		"status_transition": "processing->processed",
		"accounts":          len(data.CreditAccounts),
		"duration_ms":       durationMs(startedAt, processedAt),
	})
}

func (s *Service) failReport(ctx context.Context, reportID, userID, fileName string, cause error, startedAt *time.Time) {
	if err := s.Repo.UpdateStatus(context.Background(), reportID, StatusFailed, cause.Error()); err != nil {
		telemetry.Error("ingestion.fail_update_failed", map[string]any{
			"report_id": reportID,
			"error":     err.Error(),
			"cause":     cause.Error(),
		})
	}
	metrics.IncIngestionFailed()
	completedAt := time.Now().UTC()
	if startedAt != nil {
		metrics.ObserveIngestionDurationMs(durationMs(*startedAt, completedAt))
	}

	s.auditLog(ctx, audit.Event{
		Action:      audit.ActionFileProcess,
		Actor:       userID,
		Description: fmt.Sprintf("XML file processing failed: %s", cause.Error()),
		Resource:    "CreditReport",
		ResourceID:  reportID,
		Metadata: map[string]any{
			"error":    cause.Error(),
			"fileName": fileName,
		},
	})
	telemetry.Info("ingestion.status", map[string]any{
		"report_id":         reportID,
		"user_id":           userID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error":             cause.Error(),
	})
}

// GetStatus returns the pollable processing status of an ingestion record,
// enforcing ownership.
func (s *Service) GetStatus(ctx context.Context, userID, reportID string) (CreditReport, error) {
	if userID == "" || reportID == "" {
		return CreditReport{}, ErrInvalidInput
	}
	return s.Repo.GetByUser(ctx, userID, reportID)
}

// Get returns the full report for its owner and records a view audit event.
func (s *Service) Get(ctx context.Context, userID, reportID string) (CreditReport, error) {
	if userID == "" || reportID == "" {
		return CreditReport{}, ErrInvalidInput
	}
	report, err := s.Repo.GetByUser(ctx, userID, reportID)
	if err != nil {
		return CreditReport{}, err
	}

	s.auditLog(ctx, audit.Event{
		Action:      audit.ActionReportView,
		Actor:       userID,
		Description: fmt.Sprintf("User viewed report: %s", report.ReportID),
		Resource:    "CreditReport",
		ResourceID:  report.ID,
	})
	return report, nil
}

func (s *Service) auditLog(ctx context.Context, event audit.Event) {
	if s.Audit == nil {
		return
	}
	s.Audit.Log(ctx, event)
}

func durationMs(start, end time.Time) float64 {
	if end.Before(start) {
		return 0
	}
	return float64(end.Sub(start).Microseconds()) / 1000.0
}
