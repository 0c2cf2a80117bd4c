package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusMemoryStore(t *testing.T) {
	svc := NewService(nil, func() int { return 3 })
	payload, ok := svc.Status(context.Background())
	if !ok {
		t.Fatalf("expected healthy")
	}
	if payload["store"] != "memory" || payload["sessions"] != 3 {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestStatusDatabasePing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("down"))

	svc := NewService(db, nil)
	if payload, ok := svc.Status(context.Background()); !ok || payload["database"] != "ok" {
		t.Fatalf("expected healthy database, got %v", payload)
	}
	if payload, ok := svc.Status(context.Background()); ok || payload["ok"] != false {
		t.Fatalf("expected unhealthy database, got %v", payload)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
