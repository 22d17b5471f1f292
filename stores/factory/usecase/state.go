package usecase

import (
	"math/big"

	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

type holdingKey struct {
	id    uint64
	owner domain.Address
}

type operatorKey struct {
	owner    domain.Address
	operator domain.Address
}

type nftOperatorKey struct {
	collection domain.Address
	owner      domain.Address
	operator   domain.Address
}

// state is the in-memory ledger. Records stored by pointer and *big.Int values
// are never mutated in place, writers replace them through a tx.
type state struct {
	meta            factory.Meta
	tokens          []*factory.CreatorToken
	tokenHoldership map[uint64]map[domain.Address]uint64
	userToHoldings  map[domain.Address]map[uint64]uint64
	operators       map[operatorKey]bool
	bids            map[factory.BidKey]*factory.Bid
	balances        map[domain.Address]*big.Int
	collections     map[domain.Address]*factory.Collection
	nfts            map[factory.NftKey]*factory.Nft
	nftOperators    map[nftOperatorKey]bool
}

func newState() *state {
	return &state{
		meta: factory.Meta{
			Params:            factory.DefaultParams(),
			TotalPlatformFees: new(big.Int),
			PlatformFeesOwed:  new(big.Int),
			EscrowTotal:       new(big.Int),
			ReserveTotal:      new(big.Int),
		},
		tokenHoldership: map[uint64]map[domain.Address]uint64{},
		userToHoldings:  map[domain.Address]map[uint64]uint64{},
		operators:       map[operatorKey]bool{},
		bids:            map[factory.BidKey]*factory.Bid{},
		balances:        map[domain.Address]*big.Int{},
		collections:     map[domain.Address]*factory.Collection{},
		nfts:            map[factory.NftKey]*factory.Nft{},
		nftOperators:    map[nftOperatorKey]bool{},
	}
}

func stateFromSnapshot(snap *factory.Snapshot) *state {
	s := newState()
	s.meta = snap.Meta
	orZero(&s.meta.TotalPlatformFees)
	orZero(&s.meta.PlatformFeesOwed)
	orZero(&s.meta.EscrowTotal)
	orZero(&s.meta.ReserveTotal)

	s.tokens = make([]*factory.CreatorToken, snap.Meta.CreatorTokenCount)
	for i := range snap.CreatorTokens {
		tok := snap.CreatorTokens[i]
		orZero(&tok.LastPrice)
		orZero(&tok.Reserve)
		if tok.Id < uint64(len(s.tokens)) {
			s.tokens[tok.Id] = &tok
		}
	}
	for _, h := range snap.Holdings {
		s.setHolding(h.TokenId, h.Owner, h.Amount)
	}
	for _, o := range snap.Operators {
		if o.Approved {
			s.operators[operatorKey{o.Owner, o.Operator}] = true
		}
	}
	for i := range snap.Bids {
		b := snap.Bids[i]
		s.bids[b.Key()] = &b
	}
	for _, b := range snap.Balances {
		s.balances[b.Address] = b.Amount
	}
	for i := range snap.Collections {
		c := snap.Collections[i]
		s.collections[c.Address] = &c
	}
	for i := range snap.Nfts {
		n := snap.Nfts[i]
		s.nfts[n.Key()] = &n
	}
	for _, o := range snap.NftOperators {
		if o.Approved {
			s.nftOperators[nftOperatorKey{o.Collection, o.Owner, o.Operator}] = true
		}
	}
	return s
}

func orZero(v **big.Int) {
	if *v == nil {
		*v = new(big.Int)
	}
}

func (s *state) token(id uint64) (*factory.CreatorToken, bool) {
	if id >= uint64(len(s.tokens)) || s.tokens[id] == nil {
		return nil, false
	}
	return s.tokens[id], true
}

func (s *state) holding(id uint64, owner domain.Address) uint64 {
	return s.tokenHoldership[id][owner]
}

// setHolding keeps both mirrors equal, zero balances are dropped
func (s *state) setHolding(id uint64, owner domain.Address, amount uint64) {
	if amount == 0 {
		if m, ok := s.tokenHoldership[id]; ok {
			delete(m, owner)
			if len(m) == 0 {
				delete(s.tokenHoldership, id)
			}
		}
		if m, ok := s.userToHoldings[owner]; ok {
			delete(m, id)
			if len(m) == 0 {
				delete(s.userToHoldings, owner)
			}
		}
		return
	}
	if _, ok := s.tokenHoldership[id]; !ok {
		s.tokenHoldership[id] = map[domain.Address]uint64{}
	}
	if _, ok := s.userToHoldings[owner]; !ok {
		s.userToHoldings[owner] = map[uint64]uint64{}
	}
	s.tokenHoldership[id][owner] = amount
	s.userToHoldings[owner][id] = amount
}

func (s *state) balance(addr domain.Address) *big.Int {
	if b, ok := s.balances[addr]; ok {
		return b
	}
	return domain.Big0
}

func (s *state) isOperator(owner, operator domain.Address) bool {
	return s.operators[operatorKey{owner, operator}]
}

func (s *state) isNftOperator(collection, owner, operator domain.Address) bool {
	return s.nftOperators[nftOperatorKey{collection, owner, operator}]
}
