package query

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/database/mongoclient"
	"github.com/kreana/goapi/base/log"
	"github.com/kreana/goapi/base/metrics"
	"github.com/kreana/goapi/domain"
)

const (
	queryMaxTime      = 20 * time.Second
	slowLogThreshold  = 500 * time.Millisecond
	transactionTokens = 10
)

var (
	timeNow = time.Now
)

type impl struct {
	client *mongoclient.Client
	met    metrics.Service
	tokens chan int
}

// New initializes an impl
func New(client *mongoclient.Client, met metrics.Service) Mongo {
	tokens := make(chan int, transactionTokens)
	for i := 0; i < transactionTokens; i++ {
		tokens <- i + 1
	}
	return &impl{
		client: client,
		met:    met,
		tokens: tokens,
	}
}

func (im *impl) logerr(context ctx.Ctx, msg string, err error) {
	im.met.BumpSum("err", 1)
	context.WithFields(log.Fields{"err": err}).Error(msg)
}

func (im *impl) coll(table domain.Table) *mongo.Collection {
	return im.client.Database(im.client.DbName).Collection(string(table))
}

func (im *impl) Insert(context ctx.Ctx, table domain.Table, insert interface{}) error {
	defer im.met.BumpTime("time", "func", "insert", "table", string(table)).End()
	defer slowLog(context, string(table), "insert", nil, nil)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table": table,
	})

	if _, err := im.coll(table).InsertOne(context, insert); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		im.logerr(context, "Insert: InsertOne failed", err)
		return err
	}

	return nil
}

func (im *impl) FindOne(context ctx.Ctx, table domain.Table, query, result interface{}) error {
	defer im.met.BumpTime("time", "func", "findone", "table", string(table)).End()
	defer slowLog(context, string(table), "findone", query, nil)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table": table,
		"query": query,
	})

	findOneOpts := options.FindOne().SetMaxTime(queryMaxTime)
	res := im.coll(table).FindOne(context, query, findOneOpts)

	if err := res.Decode(result); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		im.logerr(context, "FindOne: FindOne error", err)
		return err
	}
	return nil
}

func (im *impl) Upsert(context ctx.Ctx, table domain.Table, selector, update interface{}) error {
	defer im.met.BumpTime("time", "func", "upsert", "table", string(table)).End()
	defer slowLog(context, string(table), "upsert", selector, nil)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table":    table,
		"selector": selector,
	})

	replaceOpts := options.Replace().SetUpsert(true)
	if _, err := im.coll(table).ReplaceOne(context, selector, update, replaceOpts); err != nil {
		im.logerr(context, "Upsert: ReplaceOne failed", err)
		return err
	}
	return nil
}

func getSortOption(sortStrings ...string) bson.D {
	res := bson.D{}
	for _, sort := range sortStrings {
		if sort == "" {
			continue
		}
		if sort[0] == '-' {
			res = append(res, bson.E{Key: sort[1:], Value: -1})
		} else {
			res = append(res, bson.E{Key: sort, Value: 1})
		}
	}

	return res
}

func (im *impl) Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error {
	defer im.met.BumpTime("time", "func", "search", "table", string(table)).End()
	defer slowLog(context, string(table), "search", query, sort)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table": table,
		"query": query,
	})

	findOpts := options.Find().SetMaxTime(queryMaxTime)
	findOpts.SetSkip(int64(offset))
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}
	if sortOpt := getSortOption(sort); len(sortOpt) > 0 {
		findOpts.SetSort(sortOpt)
	}
	cursor, err := im.coll(table).Find(context, query, findOpts)
	if err != nil {
		im.logerr(context, "Search: Find failed", err)
		return err
	}
	defer cursor.Close(context)

	if err := cursor.All(context, results); err != nil {
		im.logerr(context, "Search: cursor.All failed", err)
		return err
	}
	return nil
}

func (im *impl) RemoveAll(context ctx.Ctx, table domain.Table, selector interface{}) (int64, error) {
	defer im.met.BumpTime("time", "func", "removeAll", "table", string(table)).End()
	defer slowLog(context, string(table), "removeAll", selector, nil)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table":    table,
		"selector": selector,
	})

	res, err := im.coll(table).DeleteMany(context, selector)
	if err != nil {
		im.logerr(context, "RemoveAll: DeleteMany failed", err)
		return 0, err
	}

	return res.DeletedCount, nil
}

func (im *impl) BulkUpsert(context ctx.Ctx, table domain.Table, upsertOps []UpsertOp) (matchedCnt int64, modifiedCnt int64, err error) {
	defer im.met.BumpTime("time", "func", "bulkUpsert", "table", string(table)).End()
	im.met.BumpHistogram("bulk.size", float64(len(upsertOps)), "table", string(table))

	if len(upsertOps) == 0 {
		return 0, 0, nil
	}

	// ordered so later ops on the same document win
	bulkWriteOpts := options.BulkWrite().SetOrdered(true)
	models := make([]mongo.WriteModel, 0, len(upsertOps))
	for _, op := range upsertOps {
		models = append(models, mongo.NewReplaceOneModel().SetFilter(op.Selector).SetReplacement(op.Updater).SetUpsert(true))
	}
	res, err := im.coll(table).BulkWrite(context, models, bulkWriteOpts)
	if err != nil {
		im.logerr(context, "BulkUpsert: BulkWrite failed", err)
		return 0, 0, err
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

func (im *impl) EnsureIndexes(context ctx.Ctx, table domain.Table, indexes []Index) error {
	if len(indexes) == 0 {
		return nil
	}
	models := make([]mongo.IndexModel, 0, len(indexes))
	for _, idx := range indexes {
		models = append(models, mongo.IndexModel{
			Keys:    getSortOption(idx.Keys...),
			Options: options.Index().SetUnique(idx.Unique),
		})
	}
	if _, err := im.coll(table).Indexes().CreateMany(context, models); err != nil {
		im.logerr(ctx.WithValue(context, "table", table), "EnsureIndexes: CreateMany failed", err)
		return err
	}
	return nil
}

func (im *impl) RunWithTransaction(context ctx.Ctx, run func(ctx.Ctx) error) error {
	defer im.met.BumpTime("time", "func", "transaction").End()

	var token int
	select {
	case <-context.Done():
		return context.Err()
	case token = <-im.tokens:
	}
	defer func() {
		im.tokens <- token
	}()

	session, err := im.client.StartSession()
	if err != nil {
		im.logerr(context, "RunWithTransaction: StartSession failed", err)
		return err
	}
	defer session.EndSession(context)

	fn := func(sessCtx mongo.SessionContext) (interface{}, error) {
		c := ctx.Ctx{
			Context: sessCtx,
			Logger:  context.Logger,
		}
		return nil, run(c)
	}
	_, err = session.WithTransaction(context, fn)
	return err
}

func slowLog(context ctx.Ctx, table, action string, query interface{}, sort interface{}) func() {
	start := timeNow()

	return func() {
		elapsed := time.Since(start)
		if elapsed >= slowLogThreshold {
			context.WithFields(log.Fields{
				"table":      table,
				"action":     action,
				"startTime":  start.Unix(),
				"durationMs": elapsed.Milliseconds(),
				"query":      query,
				"sort":       sort,
			}).Warn("mongo slowlog")
		}
	}
}
