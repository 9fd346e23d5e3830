package friends

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snapfeed/internal/common"
	"github.com/dmitrijs2005/snapfeed/internal/dbx"
	"github.com/dmitrijs2005/snapfeed/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, edge *models.FriendEdge) (*models.FriendEdge, error) {

	query :=
		`INSERT INTO friends (user_id, friend_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, edge.UserID, edge.FriendID).Scan(&edge.ID, &edge.CreatedAt)

	if err != nil {
		// the unique index closes the check-then-insert race window
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return edge, nil
}

func (r *PostgresRepository) ListOutgoing(ctx context.Context, userID string) ([]*models.FriendEdge, error) {
	query :=
		`SELECT id, user_id, friend_id, created_at FROM friends
		 WHERE user_id = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.FriendEdge
	for rows.Next() {
		edge := &models.FriendEdge{}
		if err := rows.Scan(&edge.ID, &edge.UserID, &edge.FriendID, &edge.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, edge)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userID string, friendID string) (bool, error) {
	query :=
		`SELECT EXISTS (
		    SELECT 1 FROM friends WHERE user_id = $1 AND friend_id = $2
		 )`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, friendID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
