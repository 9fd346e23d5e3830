// Package posts implements the post registry: photo posts with a
// description, an ordered list of photo URLs and an author.
package posts

import (
	"context"

	"github.com/dmitrijs2005/snapfeed/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// List returns a page of posts ordered by creation time, newest first,
	// together with the total row count.
	List(ctx context.Context, offset int, limit int) ([]*models.Post, int, error)
	UpdateDescription(ctx context.Context, id string, description string) (*models.Post, error)
}
