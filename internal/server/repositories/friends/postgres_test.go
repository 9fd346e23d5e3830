package friends

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/snapfeed/internal/common"
	"github.com/dmitrijs2005/snapfeed/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow("e-1", time.Now())
	mock.ExpectQuery(`INSERT\s+INTO\s+friends`).
		WithArgs("alice", "bob").
		WillReturnRows(rows)

	edge, err := repo.Create(context.Background(), &models.FriendEdge{UserID: "alice", FriendID: "bob"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if edge.ID != "e-1" || edge.UserID != "alice" || edge.FriendID != "bob" {
		t.Fatalf("unexpected edge: %+v", edge)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+friends`).
		WithArgs("alice", "bob").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_friends_user_friend"})

	_, err := repo.Create(context.Background(), &models.FriendEdge{UserID: "alice", FriendID: "bob"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected common.ErrorAlreadyExists, got %v", err)
	}
}

func TestListOutgoing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "friend_id", "created_at"}).
		AddRow("e-1", "alice", "bob", time.Now()).
		AddRow("e-2", "alice", "carol", time.Now())
	mock.ExpectQuery(`SELECT\s+id,\s*user_id,\s*friend_id,\s*created_at\s+FROM\s+friends\s+WHERE\s+user_id`).
		WithArgs("alice").
		WillReturnRows(rows)

	edges, err := repo.ListOutgoing(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListOutgoing error: %v", err)
	}
	if len(edges) != 2 || edges[0].FriendID != "bob" || edges[1].FriendID != "carol" {
		t.Fatalf("unexpected edges: %+v", edges)
	}
}

func TestListOutgoing_NoEdges(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "friend_id", "created_at"})
	mock.ExpectQuery(`SELECT\s+id,\s*user_id,\s*friend_id,\s*created_at\s+FROM\s+friends\s+WHERE\s+user_id`).
		WithArgs("loner").
		WillReturnRows(rows)

	edges, err := repo.ListOutgoing(context.Background(), "loner")
	if err != nil {
		t.Fatalf("ListOutgoing error: %v", err)
	}
	if len(edges) != 0 {
		t.Fatalf("expected no edges, got %+v", edges)
	}
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+EXISTS`).
		WithArgs("alice", "bob").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !exists {
		t.Fatalf("expected edge to exist")
	}

	mock.ExpectQuery(`SELECT\s+EXISTS`).
		WithArgs("bob", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err = repo.Exists(context.Background(), "bob", "alice")
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if exists {
		t.Fatalf("reverse direction must be independent")
	}
}
