// Package friends implements the relationship store: directed friend edges
// between user ids. At most one edge exists per ordered (user, friend) pair;
// the reverse direction is an independent edge.
package friends

import (
	"context"

	"github.com/dmitrijs2005/snapfeed/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, edge *models.FriendEdge) (*models.FriendEdge, error)
	// ListOutgoing returns every edge initiated by userID. Ordering is not
	// significant.
	ListOutgoing(ctx context.Context, userID string) ([]*models.FriendEdge, error)
	Exists(ctx context.Context, userID string, friendID string) (bool, error)
}
