package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
	"github.com/kreana/goapi/service/query"
)

var indexes = map[domain.Table][]query.Index{
	domain.TableCreatorTokens: {{Keys: []string{"id"}, Unique: true}},
	domain.TableHoldings: {
		{Keys: []string{"tokenId", "owner"}, Unique: true},
		{Keys: []string{"owner", "tokenId"}},
	},
	domain.TableOperators:    {{Keys: []string{"owner", "operator"}, Unique: true}},
	domain.TableBids:         {{Keys: []string{"nftAddress", "bidder"}, Unique: true}},
	domain.TableBalances:     {{Keys: []string{"address"}, Unique: true}},
	domain.TableCollections:  {{Keys: []string{"address"}, Unique: true}},
	domain.TableNfts:         {{Keys: []string{"collection", "tokenId"}, Unique: true}, {Keys: []string{"owner"}}},
	domain.TableNftOperators: {{Keys: []string{"collection", "owner", "operator"}, Unique: true}},
	domain.TableReceipts:     {{Keys: []string{"txHash"}, Unique: true}, {Keys: []string{"-blockNumber"}}},
}

// EnsureIndexes creates the unique keys every ledger table is upserted by
func EnsureIndexes(c ctx.Ctx, q query.Mongo) error {
	for table, idx := range indexes {
		if err := q.EnsureIndexes(c, table, idx); err != nil {
			c.WithField("err", err).WithField("table", table).Error("q.EnsureIndexes failed")
			return err
		}
	}
	return nil
}

type impl struct {
	q query.Mongo
}

func New(q query.Mongo) factory.Repo {
	return &impl{q}
}

func (im *impl) Load(c ctx.Ctx) (*factory.Snapshot, error) {
	meta := metaModel{}
	if err := im.q.FindOne(c, domain.TableLedgerMeta, bson.M{"_id": metaId}, &meta); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}

	snap := &factory.Snapshot{}
	var err error
	if snap.Meta, err = meta.toDomain(); err != nil {
		c.WithField("err", err).Error("meta.toDomain failed")
		return nil, err
	}

	tokens := []creatorTokenModel{}
	if err := im.search(c, domain.TableCreatorTokens, "id", &tokens); err != nil {
		return nil, err
	}
	for _, m := range tokens {
		tok, err := m.toDomain()
		if err != nil {
			c.WithField("err", err).WithField("id", m.Id).Error("creatorToken.toDomain failed")
			return nil, err
		}
		snap.CreatorTokens = append(snap.CreatorTokens, tok)
	}

	holdings := []holdingModel{}
	if err := im.search(c, domain.TableHoldings, "", &holdings); err != nil {
		return nil, err
	}
	for _, m := range holdings {
		snap.Holdings = append(snap.Holdings, factory.Holding{TokenId: m.TokenId, Owner: m.Owner, Amount: m.Amount})
	}

	operators := []operatorModel{}
	if err := im.search(c, domain.TableOperators, "", &operators); err != nil {
		return nil, err
	}
	for _, m := range operators {
		snap.Operators = append(snap.Operators, factory.OperatorApproval{Owner: m.Owner, Operator: m.Operator, Approved: true})
	}

	bids := []bidModel{}
	if err := im.search(c, domain.TableBids, "", &bids); err != nil {
		return nil, err
	}
	for _, m := range bids {
		bid, err := m.toDomain()
		if err != nil {
			c.WithField("err", err).WithField("bidder", m.Bidder).Error("bid.toDomain failed")
			return nil, err
		}
		snap.Bids = append(snap.Bids, bid)
	}

	balances := []balanceModel{}
	if err := im.search(c, domain.TableBalances, "", &balances); err != nil {
		return nil, err
	}
	for _, m := range balances {
		amount, err := parseWei(m.Amount)
		if err != nil {
			c.WithField("err", err).WithField("address", m.Address).Error("parseWei failed")
			return nil, err
		}
		snap.Balances = append(snap.Balances, factory.Balance{Address: m.Address, Amount: amount})
	}

	collections := []collectionModel{}
	if err := im.search(c, domain.TableCollections, "", &collections); err != nil {
		return nil, err
	}
	for _, m := range collections {
		snap.Collections = append(snap.Collections, factory.Collection(m))
	}

	nfts := []nftModel{}
	if err := im.search(c, domain.TableNfts, "", &nfts); err != nil {
		return nil, err
	}
	for _, m := range nfts {
		snap.Nfts = append(snap.Nfts, factory.Nft(m))
	}

	nftOperators := []operatorModel{}
	if err := im.search(c, domain.TableNftOperators, "", &nftOperators); err != nil {
		return nil, err
	}
	for _, m := range nftOperators {
		snap.NftOperators = append(snap.NftOperators, factory.NftOperatorApproval{
			Collection: m.Collection,
			Owner:      m.Owner,
			Operator:   m.Operator,
			Approved:   true,
		})
	}
	return snap, nil
}

func (im *impl) search(c ctx.Ctx, table domain.Table, sort string, results interface{}) error {
	if err := im.q.Search(c, table, 0, 0, sort, bson.M{}, results); err != nil {
		c.WithField("err", err).WithField("table", table).Error("q.Search failed")
		return err
	}
	return nil
}

// Commit writes the change set in one mongo transaction, zero holdings, revoked
// approvals and cleared bids are removed
func (im *impl) Commit(c ctx.Ctx, cs *factory.ChangeSet) error {
	return im.q.RunWithTransaction(c, func(c ctx.Ctx) error {
		if cs.Meta != nil {
			if err := im.q.Upsert(c, domain.TableLedgerMeta, bson.M{"_id": metaId}, toMetaModel(cs.Meta)); err != nil {
				c.WithField("err", err).Error("q.Upsert meta failed")
				return err
			}
		}

		w := newWriter(c, im.q)
		for _, tok := range cs.CreatorTokens {
			w.upsert(domain.TableCreatorTokens, bson.M{"id": tok.Id}, toCreatorTokenModel(tok))
		}
		for _, h := range cs.Holdings {
			sel := bson.M{"tokenId": h.TokenId, "owner": h.Owner}
			if h.Amount == 0 {
				w.remove(domain.TableHoldings, sel)
			} else {
				w.upsert(domain.TableHoldings, sel, holdingModel(h))
			}
		}
		for _, o := range cs.Operators {
			sel := bson.M{"owner": o.Owner, "operator": o.Operator}
			if o.Approved {
				w.upsert(domain.TableOperators, sel, operatorModel{Owner: o.Owner, Operator: o.Operator})
			} else {
				w.remove(domain.TableOperators, sel)
			}
		}
		for _, b := range cs.Bids {
			sel := bson.M{"nftAddress": b.Key.NftAddress, "bidder": b.Key.Bidder}
			if b.Bid == nil {
				w.remove(domain.TableBids, sel)
			} else {
				w.upsert(domain.TableBids, sel, toBidModel(b.Bid))
			}
		}
		for _, b := range cs.Balances {
			sel := bson.M{"address": b.Address}
			if b.Amount == nil || b.Amount.Sign() == 0 {
				w.remove(domain.TableBalances, sel)
			} else {
				w.upsert(domain.TableBalances, sel, balanceModel{Address: b.Address, Amount: b.Amount.String()})
			}
		}
		for _, col := range cs.Collections {
			w.upsert(domain.TableCollections, bson.M{"address": col.Address}, collectionModel(col))
		}
		for _, n := range cs.Nfts {
			sel := bson.M{"collection": n.Key.Collection, "tokenId": n.Key.TokenId}
			if n.Nft == nil {
				w.remove(domain.TableNfts, sel)
			} else {
				w.upsert(domain.TableNfts, sel, nftModel(*n.Nft))
			}
		}
		for _, o := range cs.NftOperators {
			sel := bson.M{"collection": o.Collection, "owner": o.Owner, "operator": o.Operator}
			if o.Approved {
				w.upsert(domain.TableNftOperators, sel, operatorModel{Collection: o.Collection, Owner: o.Owner, Operator: o.Operator})
			} else {
				w.remove(domain.TableNftOperators, sel)
			}
		}
		if err := w.flush(); err != nil {
			return err
		}

		if cs.Receipt != nil {
			if err := im.q.Insert(c, domain.TableReceipts, cs.Receipt); err != nil {
				c.WithField("err", err).Error("q.Insert receipt failed")
				return err
			}
		}
		return nil
	})
}

func (im *impl) FindReceipt(c ctx.Ctx, txHash domain.TxHash) (*factory.Receipt, error) {
	res := receiptModel{}
	if err := im.q.FindOne(c, domain.TableReceipts, bson.M{"txHash": txHash}, &res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res.toDomain(), nil
}
