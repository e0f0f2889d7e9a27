package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T, driver string) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Repository{db: db, driver: driver}, mock
}

func TestReplaceBallot_RollsBackOnInsertError(t *testing.T) {
	repo, mock := newMockRepo(t, DriverSQLite)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM votes").WithArgs(7, 1).WillReturnResult(sqlmock.NewResult(0, 2))
	prep := mock.ExpectPrepare("INSERT INTO votes")
	prep.ExpectExec().WithArgs(7, 1, 101, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs(7, 1, 102, 2).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.ReplaceBallot(context.Background(), 7, 1, []int{101, 102})
	if err == nil || err.Error() != "disk full" {
		t.Errorf("expected disk full error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReplaceBallot_PostgresPlaceholders(t *testing.T) {
	repo, mock := newMockRepo(t, DriverPostgres)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM votes WHERE warwick_id = \$1 AND position_id = \$2`).WithArgs(7, 1).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(`VALUES \(\$1, \$2, \$3, \$4\)`)
	prep.ExpectExec().WithArgs(7, 1, 101, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.ReplaceBallot(context.Background(), 7, 1, []int{101}); err != nil {
		t.Errorf("ReplaceBallot failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSetElected_RollsBackWhenSetFails(t *testing.T) {
	repo, mock := newMockRepo(t, DriverSQLite)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE candidates SET elected = FALSE").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`UPDATE candidates SET elected = TRUE WHERE warwick_id IN \(\?, \?\)`).
		WithArgs(101, 102).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	if err := repo.SetElected(context.Background(), []int{101, 102}); err == nil {
		t.Error("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSetElected_BeginError(t *testing.T) {
	repo, mock := newMockRepo(t, DriverSQLite)

	mock.ExpectBegin().WillReturnError(errors.New("busy"))

	if err := repo.SetElected(context.Background(), []int{101}); err == nil {
		t.Error("expected error from begin, got nil")
	}
}

func TestTogglePosition_NoRowsRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t, DriverSQLite)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE exec_positions SET open = NOT open").WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.TogglePosition(context.Background(), 5)
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListVotes_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t, DriverSQLite)

	rows := sqlmock.NewRows([]string{"warwick_id", "position_id", "candidate_id", "ranking"}).
		AddRow("not-a-number", 1, 101, 1)
	mock.ExpectQuery("SELECT (.+) FROM votes").WillReturnRows(rows)

	if _, err := repo.ListVotes(context.Background()); err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}

func TestListPositions_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t, DriverSQLite)

	mock.ExpectQuery("SELECT (.+) FROM exec_positions").WillReturnError(errors.New("no such table"))

	if _, err := repo.ListPositions(context.Background()); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestListCandidates_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t, DriverSQLite)

	rows := sqlmock.NewRows([]string{"warwick_id", "name", "elected"}).AddRow("x", "Ada", false)
	mock.ExpectQuery("SELECT (.+) FROM candidates").WillReturnRows(rows)

	if _, err := repo.ListCandidates(context.Background()); err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}
