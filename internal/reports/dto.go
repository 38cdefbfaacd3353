package reports

import "time"

// UploadResponse acknowledges an accepted upload; extraction continues in
// the background.
type UploadResponse struct {
	ReportID string `json:"reportId"`
	UploadID string `json:"uploadId"`
	Status   string `json:"status"`
}

// StatusResponse is the pollable processing status of one ingestion record.
type StatusResponse struct {
	ReportID    string     `json:"reportId"`
	Status      string     `json:"status"`
	FileName    string     `json:"fileName"`
	UploadedAt  time.Time  `json:"uploadedAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// ReportResponse is the outward-facing representation of a full report.
type ReportResponse struct {
	ReportID    string         `json:"reportId"`
	UploadID    string         `json:"uploadId"`
	FileName    string         `json:"fileName"`
	Status      string         `json:"status"`
	Error       string         `json:"error,omitempty"`
	UploadedAt  time.Time      `json:"uploadedAt"`
	ProcessedAt *time.Time     `json:"processedAt,omitempty"`
	Data        *ExtractedData `json:"data,omitempty"`
}

func toStatusResponse(report CreditReport) StatusResponse {
	return StatusResponse{
		ReportID:    report.ID,
		Status:      report.Status,
		FileName:    report.FileName,
		UploadedAt:  report.UploadedAt,
		ProcessedAt: report.ProcessedAt,
		Error:       report.ProcessingError,
	}
}

func toReportResponse(report CreditReport) ReportResponse {
	return ReportResponse{
		ReportID:    report.ID,
		UploadID:    report.ReportID,
		FileName:    report.FileName,
		Status:      report.Status,
		Error:       report.ProcessingError,
		UploadedAt:  report.UploadedAt,
		ProcessedAt: report.ProcessedAt,
		Data:        report.Extracted,
	}
}
