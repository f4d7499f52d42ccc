package sandbox

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

var recordColumns = []string{"id", "name", "username", "email", "phone", "website", "company_name", "first_name", "last_name", "created_at", "updated_at"}

func TestPGRepoCreateReturnsID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO directory_users").
		WithArgs("Ada Lovelace", nil, "ada@x.com", nil, nil, "R&D", "Ada", "Lovelace").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(11, now, now))

	rec, err := repo.Create(context.Background(), Record{Name: "Ada Lovelace", Email: "ada@x.com", CompanyName: "R&D", FirstName: "Ada", LastName: "Lovelace"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.ID != 11 {
		t.Fatalf("expected id 11, got %d", rec.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListScansNullableColumns(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM directory_users ORDER BY id").
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow(1, "Mary Ann Doe", "jane", "j@x.com", nil, nil, "Acme", "Mary Ann", "Doe", now, now).
			AddRow(2, "Solo", nil, "s@x.com", nil, nil, nil, nil, nil, now, now))

	recs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].CompanyName != "Acme" || recs[0].Username != "jane" {
		t.Fatalf("unexpected first record %+v", recs[0])
	}
	if recs[0].FirstName != "Mary Ann" || recs[0].LastName != "Doe" {
		t.Fatalf("unexpected name split %+v", recs[0])
	}
	if recs[1].CompanyName != "" || recs[1].FirstName != "" {
		t.Fatalf("expected empty company, got %q", recs[1].CompanyName)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("UPDATE directory_users SET").
		WithArgs(int64(99), "A B", nil, "a@b.c", nil, nil, nil, nil, nil).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), Record{ID: 99, Name: "A B", Email: "a@b.c"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM directory_users").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM directory_users").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(context.Background(), 4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetMissing(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM directory_users WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(recordColumns))

	if _, err := repo.Get(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
