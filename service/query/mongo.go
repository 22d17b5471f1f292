package query

/*
	Description:
		Package `query` provides interface for querying mongo db
		It wraps https://github.com/mongodb/mongo-go-driver
		https://godoc.org/go.mongodb.org/mongo-driver/mongo
*/

import (
	"fmt"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")
)

// UpsertOp is an upsert operation.
type UpsertOp struct {
	Selector interface{}
	Updater  interface{}
}

// Index describes a mongo index by its ordered keys, "-" prefix for descending
type Index struct {
	Keys   []string
	Unique bool
}

//Mongo abstract the mongo layer.
type Mongo interface {
	// Insert inserts a new document to the table
	Insert(context ctx.Ctx, table domain.Table, insert interface{}) error

	// FindOne get data from the table
	FindOne(context ctx.Ctx, table domain.Table, query, result interface{}) error

	// Upsert update an entry , if the selector is already exist.
	// Upsert insert an entry , if the selector is not exist.
	Upsert(context ctx.Ctx, table domain.Table, selector, update interface{}) error

	// Search sort order by `sort` argument (ex "timestamp" ascending, or "-timestamp" descending)
	// if `sort` is "", the sort action is skipped, and the MongoDB does not guarantee the order of query results.
	// limit 0 means no limit
	Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	//RemoveAll remove all entries matching the selector from the table
	RemoveAll(context ctx.Ctx, table domain.Table, selector interface{}) (removedCnt int64, err error)

	// BulkUpsert performs multiple upsert operations.
	BulkUpsert(context ctx.Ctx, table domain.Table, BulkOps []UpsertOp) (matchedCnt int64, modifiedCnt int64, err error)

	// EnsureIndexes creates the indexes if they are missing
	EnsureIndexes(context ctx.Ctx, table domain.Table, indexes []Index) error

	RunWithTransaction(context ctx.Ctx, run func(ctx.Ctx) error) error
}
