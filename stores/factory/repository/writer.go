package repository

import (
	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/service/query"
)

// writer groups upserts per table into one bulk write, removes run in order
type writer struct {
	c       ctx.Ctx
	q       query.Mongo
	tables  []domain.Table
	upserts map[domain.Table][]query.UpsertOp
	removes []removeOp
}

type removeOp struct {
	table    domain.Table
	selector interface{}
}

func newWriter(c ctx.Ctx, q query.Mongo) *writer {
	return &writer{c: c, q: q, upserts: map[domain.Table][]query.UpsertOp{}}
}

func (w *writer) upsert(table domain.Table, selector, doc interface{}) {
	if _, ok := w.upserts[table]; !ok {
		w.tables = append(w.tables, table)
	}
	w.upserts[table] = append(w.upserts[table], query.UpsertOp{Selector: selector, Updater: doc})
}

func (w *writer) remove(table domain.Table, selector interface{}) {
	w.removes = append(w.removes, removeOp{table, selector})
}

func (w *writer) flush() error {
	for _, table := range w.tables {
		if _, _, err := w.q.BulkUpsert(w.c, table, w.upserts[table]); err != nil {
			w.c.WithField("err", err).WithField("table", table).Error("q.BulkUpsert failed")
			return err
		}
	}
	for _, op := range w.removes {
		if _, err := w.q.RemoveAll(w.c, op.table, op.selector); err != nil {
			w.c.WithField("err", err).WithField("table", op.table).Error("q.RemoveAll failed")
			return err
		}
	}
	return nil
}
