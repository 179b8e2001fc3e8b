package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/healthkeeper/internal/dbx"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/healthrecords"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/medications"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DB handle or transaction
// and owns the schema bootstrap.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	HealthRecords(db dbx.DBTX) healthrecords.Repository
	Medications(db dbx.DBTX) medications.Repository
}
