package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"creditreport-backend/internal/xmltree"
)

// PGRepo implements Repo using Postgres. Extracted data and the retained
// raw tree are stored as jsonb.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new credit report record.
func (r *PGRepo) Create(ctx context.Context, report CreditReport) error {
	const query = `
INSERT INTO credit_reports (
    id,
    report_id,
    user_id,
    file_name,
    original_file_name,
    mime_type,
    file_size,
    status,
    processing_error,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULL, $9)`

	originalName := report.OriginalFileName
	if originalName == "" {
		originalName = report.FileName
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		report.ID,
		report.ReportID,
		report.UserID,
		report.FileName,
		originalName,
		report.MimeType,
		report.FileSize,
		report.Status,
		report.UploadedAt,
	)
	return err
}

// Get fetches a report by id without ownership filtering.
func (r *PGRepo) Get(ctx context.Context, reportID string) (CreditReport, error) {
	const query = selectColumns + `
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, reportID))
}

// GetByUser fetches a report by id, enforcing ownership.
func (r *PGRepo) GetByUser(ctx context.Context, userID, reportID string) (CreditReport, error) {
	const query = selectColumns + `
WHERE id = $1 AND user_id = $2
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, reportID, userID))
}

// UpdateStatus sets the processing status and optional error message.
func (r *PGRepo) UpdateStatus(ctx context.Context, reportID, status, processingError string) error {
	const query = `
UPDATE credit_reports
SET status = $1, processing_error = $2
WHERE id = $3`
	var errMsg sql.NullString
	if processingError != "" {
		errMsg = sql.NullString{String: processingError, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query, status, errMsg, reportID)
	return err
}

// UpdateExtracted stores the extracted record plus raw tree and marks the
// report processed.
func (r *PGRepo) UpdateExtracted(ctx context.Context, reportID string, data ExtractedData, rawTree xmltree.Node, processedAt time.Time) error {
	const query = `
UPDATE credit_reports
SET status = $1, processing_error = NULL, extracted_data = $2, raw_tree = $3, processed_at = $4
WHERE id = $5`

	extractedJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}
	treeJSON, err := json.Marshal(rawTree)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query, StatusProcessed, extractedJSON, treeJSON, processedAt, reportID)
	return err
}

const selectColumns = `
SELECT id, report_id, user_id, file_name, original_file_name, mime_type, file_size, status, processing_error, extracted_data, raw_tree, uploaded_at, processed_at
FROM credit_reports`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (CreditReport, error) {
	var report CreditReport
	var originalName sql.NullString
	var processingError sql.NullString
	var extractedJSON []byte
	var treeJSON []byte
	var processedAt sql.NullTime

	err := row.Scan(
		&report.ID,
		&report.ReportID,
		&report.UserID,
		&report.FileName,
		&originalName,
		&report.MimeType,
		&report.FileSize,
		&report.Status,
		&processingError,
		&extractedJSON,
		&treeJSON,
		&report.UploadedAt,
		&processedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CreditReport{}, ErrNotFound
		}
		return CreditReport{}, err
	}
	if originalName.Valid {
		report.OriginalFileName = originalName.String
	}
	if processingError.Valid {
		report.ProcessingError = processingError.String
	}
	if len(extractedJSON) > 0 {
		var data ExtractedData
		if err := json.Unmarshal(extractedJSON, &data); err != nil {
			return CreditReport{}, err
		}
		report.Extracted = &data
	}
	if len(treeJSON) > 0 {
		var tree xmltree.Node
		if err := json.Unmarshal(treeJSON, &tree); err != nil {
			return CreditReport{}, err
		}
		report.RawTree = tree
	}
	if processedAt.Valid {
		report.ProcessedAt = &processedAt.Time
	}
	return report, nil
}

var _ Repo = (*PGRepo)(nil)
