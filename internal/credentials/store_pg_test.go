package credentials

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-roaster/internal/shared/util"
)

func TestPGStorePutUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("INSERT INTO client_settings").
		WithArgs(util.HashUserKey("client-1"), APIKey, "sk-test").
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := &PGStore{DB: db}
	if err := store.Put(context.Background(), "client-1", APIKey, "sk-test"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT value").
		WithArgs(util.HashUserKey("client-1"), APIKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("sk-stored"))
	mock.ExpectQuery("SELECT value").
		WithArgs(util.HashUserKey("client-2"), APIKey).
		WillReturnError(sql.ErrNoRows)

	store := &PGStore{DB: db}
	got, err := store.Get(context.Background(), "client-1", APIKey)
	if err != nil || got != "sk-stored" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if _, err := store.Get(context.Background(), "client-2", APIKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("DELETE FROM client_settings").
		WithArgs(util.HashUserKey("client-1"), APIKey).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := Save(context.Background(), &PGStore{DB: db}, "client-1", APIKey, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
