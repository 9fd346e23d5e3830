package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snapfeed/internal/common"
	"github.com/dmitrijs2005/snapfeed/internal/dbx"
	"github.com/dmitrijs2005/snapfeed/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// photos are stored as a jsonb array; the stdlib pgx driver has no native
// scan for text[], so the list goes through encoding/json
func marshalPhotos(photos []string) ([]byte, error) {
	if photos == nil {
		photos = []string{}
	}
	return json.Marshal(photos)
}

func scanPost(row interface {
	Scan(dest ...any) error
}) (*models.Post, error) {
	post := &models.Post{}
	var photos []byte
	if err := row.Scan(&post.ID, &post.Description, &photos, &post.UserID, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(photos, &post.Photos); err != nil {
		return nil, fmt.Errorf("photos decode error: %w", err)
	}
	return post, nil
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {

	photos, err := marshalPhotos(post.Photos)
	if err != nil {
		return nil, fmt.Errorf("photos encode error: %w", err)
	}

	query :=
		`INSERT INTO posts (description, photos, user_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query, post.Description, photos, post.UserID).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query :=
		`SELECT id, description, photos, user_id, created_at, updated_at FROM posts
		 WHERE id = $1
		 `

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) List(ctx context.Context, offset int, limit int) ([]*models.Post, int, error) {

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query :=
		`SELECT id, description, photos, user_id, created_at, updated_at FROM posts
		 ORDER BY created_at DESC
		 OFFSET $1 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}

func (r *PostgresRepository) UpdateDescription(ctx context.Context, id string, description string) (*models.Post, error) {
	query :=
		`UPDATE posts SET description = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING id, description, photos, user_id, created_at, updated_at
		 `

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id, description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}
