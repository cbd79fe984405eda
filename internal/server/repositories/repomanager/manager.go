package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bhojanbox/internal/dbx"
	"github.com/dmitrijs2005/bhojanbox/internal/server/repositories/carts"
	"github.com/dmitrijs2005/bhojanbox/internal/server/repositories/menu"
	"github.com/dmitrijs2005/bhojanbox/internal/server/repositories/orders"
	"github.com/dmitrijs2005/bhojanbox/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code runs
// against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Menu(db dbx.DBTX) menu.Repository
	Carts(db dbx.DBTX) carts.Repository
	Orders(db dbx.DBTX) orders.Repository
}
