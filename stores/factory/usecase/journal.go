package usecase

import (
	"math/big"
	"sort"

	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

// tx journals every write to the state so it can be reverted, and remembers
// which records it touched so it can produce a change set.
type tx struct {
	s           *state
	msg         factory.Msg
	factoryAddr domain.Address
	undo        []func()
	logs        []factory.Log

	dirtyMeta         bool
	dirtyTokens       map[uint64]bool
	dirtyHoldings     map[holdingKey]bool
	dirtyOperators    map[operatorKey]bool
	dirtyBids         map[factory.BidKey]bool
	dirtyBalances     map[domain.Address]bool
	dirtyCollections  map[domain.Address]bool
	dirtyNfts         map[factory.NftKey]bool
	dirtyNftOperators map[nftOperatorKey]bool
}

func newTx(s *state, msg factory.Msg, factoryAddr domain.Address) *tx {
	return &tx{
		s:                 s,
		msg:               msg,
		factoryAddr:       factoryAddr,
		dirtyTokens:       map[uint64]bool{},
		dirtyHoldings:     map[holdingKey]bool{},
		dirtyOperators:    map[operatorKey]bool{},
		dirtyBids:         map[factory.BidKey]bool{},
		dirtyBalances:     map[domain.Address]bool{},
		dirtyCollections:  map[domain.Address]bool{},
		dirtyNfts:         map[factory.NftKey]bool{},
		dirtyNftOperators: map[nftOperatorKey]bool{},
	}
}

func (t *tx) factoryAddress() domain.Address {
	return t.factoryAddr
}

func (t *tx) revert() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.logs = nil
}

func (t *tx) emit(name factory.EventName, args interface{}) {
	t.logs = append(t.logs, factory.Log{Name: name, Index: len(t.logs), Args: args})
}

func (t *tx) updateMeta(fn func(m *factory.Meta)) {
	old := t.s.meta
	m := old
	fn(&m)
	t.s.meta = m
	t.dirtyMeta = true
	t.undo = append(t.undo, func() { t.s.meta = old })
}

func (t *tx) addToken(tok *factory.CreatorToken) {
	t.s.tokens = append(t.s.tokens, tok)
	t.dirtyTokens[tok.Id] = true
	t.undo = append(t.undo, func() { t.s.tokens = t.s.tokens[:len(t.s.tokens)-1] })
}

func (t *tx) putToken(tok *factory.CreatorToken) {
	old := t.s.tokens[tok.Id]
	t.s.tokens[tok.Id] = tok
	t.dirtyTokens[tok.Id] = true
	t.undo = append(t.undo, func() { t.s.tokens[tok.Id] = old })
}

func (t *tx) setHolding(id uint64, owner domain.Address, amount uint64) {
	old := t.s.holding(id, owner)
	t.s.setHolding(id, owner, amount)
	t.dirtyHoldings[holdingKey{id, owner}] = true
	t.undo = append(t.undo, func() { t.s.setHolding(id, owner, old) })
}

func (t *tx) setOperator(owner, operator domain.Address, approved bool) {
	k := operatorKey{owner, operator}
	old := t.s.operators[k]
	setFlag(t.s.operators, k, approved)
	t.dirtyOperators[k] = true
	t.undo = append(t.undo, func() { setFlag(t.s.operators, k, old) })
}

func setFlag[K comparable](m map[K]bool, k K, v bool) {
	if v {
		m[k] = true
	} else {
		delete(m, k)
	}
}

func (t *tx) setBid(key factory.BidKey, bid *factory.Bid) {
	old, existed := t.s.bids[key]
	if bid == nil {
		delete(t.s.bids, key)
	} else {
		t.s.bids[key] = bid
	}
	t.dirtyBids[key] = true
	t.undo = append(t.undo, func() {
		if existed {
			t.s.bids[key] = old
		} else {
			delete(t.s.bids, key)
		}
	})
}

func (t *tx) setBalance(addr domain.Address, amount *big.Int) {
	old, existed := t.s.balances[addr]
	if amount.Sign() == 0 {
		delete(t.s.balances, addr)
	} else {
		t.s.balances[addr] = amount
	}
	t.dirtyBalances[addr] = true
	t.undo = append(t.undo, func() {
		if existed {
			t.s.balances[addr] = old
		} else {
			delete(t.s.balances, addr)
		}
	})
}

func (t *tx) credit(addr domain.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	t.setBalance(addr, new(big.Int).Add(t.s.balance(addr), amount))
}

func (t *tx) debit(addr domain.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	bal := t.s.balance(addr)
	if bal.Cmp(amount) < 0 {
		return domain.ErrInsufficientBalance
	}
	t.setBalance(addr, new(big.Int).Sub(bal, amount))
	return nil
}

// transfer moves native value between two accounts
func (t *tx) transfer(from, to domain.Address, amount *big.Int) error {
	if err := t.debit(from, amount); err != nil {
		return err
	}
	t.credit(to, amount)
	return nil
}

func (t *tx) setCollection(col *factory.Collection) {
	old, existed := t.s.collections[col.Address]
	t.s.collections[col.Address] = col
	t.dirtyCollections[col.Address] = true
	t.undo = append(t.undo, func() {
		if existed {
			t.s.collections[col.Address] = old
		} else {
			delete(t.s.collections, col.Address)
		}
	})
}

func (t *tx) setNft(nft *factory.Nft) {
	key := nft.Key()
	old, existed := t.s.nfts[key]
	t.s.nfts[key] = nft
	t.dirtyNfts[key] = true
	t.undo = append(t.undo, func() {
		if existed {
			t.s.nfts[key] = old
		} else {
			delete(t.s.nfts, key)
		}
	})
}

func (t *tx) setNftOperator(collection, owner, operator domain.Address, approved bool) {
	k := nftOperatorKey{collection, owner, operator}
	old := t.s.nftOperators[k]
	setFlag(t.s.nftOperators, k, approved)
	t.dirtyNftOperators[k] = true
	t.undo = append(t.undo, func() { setFlag(t.s.nftOperators, k, old) })
}

// changeSet collects the final value of every touched record, sorted so the
// same transaction always produces the same writes
func (t *tx) changeSet(receipt *factory.Receipt) *factory.ChangeSet {
	cs := &factory.ChangeSet{Receipt: receipt}
	if t.dirtyMeta {
		m := t.s.meta
		cs.Meta = &m
	}

	for id := range t.dirtyTokens {
		if tok, ok := t.s.token(id); ok {
			cs.CreatorTokens = append(cs.CreatorTokens, *tok)
		}
	}
	sort.Slice(cs.CreatorTokens, func(i, j int) bool { return cs.CreatorTokens[i].Id < cs.CreatorTokens[j].Id })

	for k := range t.dirtyHoldings {
		cs.Holdings = append(cs.Holdings, factory.Holding{TokenId: k.id, Owner: k.owner, Amount: t.s.holding(k.id, k.owner)})
	}
	sort.Slice(cs.Holdings, func(i, j int) bool {
		a, b := cs.Holdings[i], cs.Holdings[j]
		if a.TokenId != b.TokenId {
			return a.TokenId < b.TokenId
		}
		return a.Owner < b.Owner
	})

	for k := range t.dirtyOperators {
		cs.Operators = append(cs.Operators, factory.OperatorApproval{Owner: k.owner, Operator: k.operator, Approved: t.s.operators[k]})
	}
	sort.Slice(cs.Operators, func(i, j int) bool {
		a, b := cs.Operators[i], cs.Operators[j]
		if a.Owner != b.Owner {
			return a.Owner < b.Owner
		}
		return a.Operator < b.Operator
	})

	for k := range t.dirtyBids {
		cs.Bids = append(cs.Bids, factory.BidChange{Key: k, Bid: t.s.bids[k]})
	}
	sort.Slice(cs.Bids, func(i, j int) bool {
		a, b := cs.Bids[i].Key, cs.Bids[j].Key
		if a.NftAddress != b.NftAddress {
			return a.NftAddress < b.NftAddress
		}
		return a.Bidder < b.Bidder
	})

	for addr := range t.dirtyBalances {
		cs.Balances = append(cs.Balances, factory.Balance{Address: addr, Amount: t.s.balance(addr)})
	}
	sort.Slice(cs.Balances, func(i, j int) bool { return cs.Balances[i].Address < cs.Balances[j].Address })

	for addr := range t.dirtyCollections {
		if col, ok := t.s.collections[addr]; ok {
			cs.Collections = append(cs.Collections, *col)
		}
	}
	sort.Slice(cs.Collections, func(i, j int) bool { return cs.Collections[i].Address < cs.Collections[j].Address })

	for k := range t.dirtyNfts {
		cs.Nfts = append(cs.Nfts, factory.NftChange{Key: k, Nft: t.s.nfts[k]})
	}
	sort.Slice(cs.Nfts, func(i, j int) bool {
		a, b := cs.Nfts[i].Key, cs.Nfts[j].Key
		if a.Collection != b.Collection {
			return a.Collection < b.Collection
		}
		return a.TokenId < b.TokenId
	})

	for k := range t.dirtyNftOperators {
		cs.NftOperators = append(cs.NftOperators, factory.NftOperatorApproval{
			Collection: k.collection,
			Owner:      k.owner,
			Operator:   k.operator,
			Approved:   t.s.nftOperators[k],
		})
	}
	sort.Slice(cs.NftOperators, func(i, j int) bool {
		a, b := cs.NftOperators[i], cs.NftOperators[j]
		if a.Collection != b.Collection {
			return a.Collection < b.Collection
		}
		if a.Owner != b.Owner {
			return a.Owner < b.Owner
		}
		return a.Operator < b.Operator
	})

	return cs
}
