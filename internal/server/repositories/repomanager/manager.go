// Package repomanager hands out repositories bound to a DB handle or an
// open transaction, and bootstraps the Postgres schema.
package repomanager

import (
	"github.com/pkalnins/gallery/internal/dbx"
	"github.com/pkalnins/gallery/internal/server/repositories/posts"
	"github.com/pkalnins/gallery/internal/server/repositories/users"
)

// RepositoryManager produces repositories over the given handle, which may be
// a *sql.DB or an in-flight *sql.Tx.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Posts(db dbx.DBTX) posts.Repository
}
