// Package users implements the identity store: user records keyed by a
// unique email.
package users

import (
	"context"

	"github.com/dmitrijs2005/snapfeed/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Search returns users whose name or email contains q
	// case-insensitively, excluding excludeID, ordered by (name, id).
	Search(ctx context.Context, q string, excludeID string) ([]*models.User, error)
}
