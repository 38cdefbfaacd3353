package audit

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGLoggerInsertsEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	logger := &PGLogger{DB: db}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(
			sqlmock.AnyArg(), // id
			ActionFileUpload,
			"guest:alice",
			"User uploaded XML file: report.xml",
			"CreditReport",
			"rep-1",
			sqlmock.AnyArg(), // metadata
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	logger.Log(context.Background(), Event{
		Action:      ActionFileUpload,
		Actor:       "guest:alice",
		Description: "User uploaded XML file: report.xml",
		Resource:    "CreditReport",
		ResourceID:  "rep-1",
		Metadata:    map[string]any{"fileName": "report.xml"},
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGLoggerSwallowsInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	logger := &PGLogger{DB: db}

	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnError(context.DeadlineExceeded)

	// Must not panic or propagate; auditing never fails the audited call.
	logger.Log(context.Background(), Event{Action: ActionReportView, Actor: "guest:alice"})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestMemoryLoggerCopiesEvents(t *testing.T) {
	logger := NewMemoryLogger()
	logger.Log(context.Background(), Event{Action: ActionFileProcess, Actor: "guest:alice"})

	events := logger.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	events[0].Actor = "mutated"

	if logger.Events()[0].Actor != "guest:alice" {
		t.Fatalf("Events must return a copy")
	}
}
