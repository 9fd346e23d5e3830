package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/snapfeed/internal/dbx"
	"github.com/dmitrijs2005/snapfeed/internal/server/repositories/friends"
	"github.com/dmitrijs2005/snapfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/snapfeed/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX (a live connection
// or an open transaction) and exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Friends(db dbx.DBTX) friends.Repository
	Posts(db dbx.DBTX) posts.Repository
}
