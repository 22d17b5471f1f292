package usecase

import (
	"math/big"
	"sort"

	"golang.org/x/xerrors"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

func (im *impl) SubmitBid(c ctx.Ctx, msg factory.Msg, nftAddress domain.Address, quantity uint64) (*factory.Receipt, error) {
	payload := map[string]interface{}{"nftAddress": nftAddress, "quantity": quantity}
	return im.execute(c, msg, "submitBid", true, payload, func(t *tx) error {
		nft, err := normAddress("nftAddress", nftAddress)
		if err != nil {
			return err
		}
		if _, ok := t.s.collections[nft]; !ok {
			return xerrors.Errorf("collection %s is not registered: %w", nft, domain.ErrCollectionMismatch)
		}
		if quantity == 0 {
			return xerrors.Errorf("quantity must be positive: %w", domain.ErrInvalidAmount)
		}
		if t.msg.Value.Sign() == 0 {
			return xerrors.Errorf("bid without value: %w", domain.ErrInsufficientValue)
		}
		priceEach := perUnit(t.msg.Value, quantity)
		if priceEach.Sign() == 0 {
			return xerrors.Errorf("value below one wei per unit: %w", domain.ErrInsufficientValue)
		}

		key := factory.BidKey{Bidder: t.msg.Sender, NftAddress: nft}
		if _, ok := t.s.bids[key]; ok {
			return domain.ErrDuplicateBid
		}

		bid := &factory.Bid{
			Bidder:       t.msg.Sender,
			NftAddress:   nft,
			WeiPriceEach: priceEach,
			Quantity:     quantity,
			TokenId:      "0",
			Escrow:       t.msg.Value,
		}
		t.setBid(key, bid)
		t.addEscrow(t.msg.Value)
		t.emit(factory.EventNewBid, bidArgs(bid))
		return nil
	})
}

func (im *impl) CancelBid(c ctx.Ctx, msg factory.Msg, nftAddress domain.Address) (*factory.Receipt, error) {
	payload := map[string]interface{}{"nftAddress": nftAddress}
	return im.execute(c, msg, "cancelBid", false, payload, func(t *tx) error {
		nft, err := normAddress("nftAddress", nftAddress)
		if err != nil {
			return err
		}
		key := factory.BidKey{Bidder: t.msg.Sender, NftAddress: nft}
		bid, ok := t.s.bids[key]
		if !ok {
			return domain.ErrBidNotFound
		}

		if err := t.releaseEscrow(t.msg.Sender, bid.Escrow); err != nil {
			return err
		}
		t.setBid(key, nil)
		t.emit(factory.EventCancelBid, bidArgs(bid))
		return nil
	})
}

func (im *impl) HitBid(c ctx.Ctx, msg factory.Msg, bidder, nftAddress domain.Address, tokenId domain.TokenId, priceEach *big.Int) (*factory.Receipt, error) {
	payload := map[string]interface{}{
		"bidder":     bidder,
		"nftAddress": nftAddress,
		"tokenId":    tokenId,
		"priceEach":  bigString(priceEach),
	}
	return im.execute(c, msg, "hitBid", false, payload, func(t *tx) error {
		return t.hitBid(bidder, nftAddress, tokenId, priceEach)
	})
}

func (im *impl) HitMultipleBids(c ctx.Ctx, msg factory.Msg, bidders []domain.Address, nftAddress domain.Address, tokenIds []domain.TokenId, priceEach *big.Int) (*factory.Receipt, error) {
	payload := map[string]interface{}{
		"bidders":    bidders,
		"nftAddress": nftAddress,
		"tokenIds":   tokenIds,
		"priceEach":  bigString(priceEach),
	}
	return im.execute(c, msg, "hitMultipleBids", false, payload, func(t *tx) error {
		if len(bidders) == 0 || len(bidders) != len(tokenIds) {
			return xerrors.Errorf("%d bidders for %d tokens: %w", len(bidders), len(tokenIds), domain.ErrArrayLengthMismatch)
		}
		for i := range bidders {
			if err := t.hitBid(bidders[i], nftAddress, tokenIds[i], priceEach); err != nil {
				return xerrors.Errorf("fill %d: %w", i, err)
			}
		}
		return nil
	})
}

// hitBid sells one NFT of the sender into the bid of bidder
func (t *tx) hitBid(bidder, nftAddress domain.Address, tokenId domain.TokenId, priceEach *big.Int) error {
	bidder, err := normAddress("bidder", bidder)
	if err != nil {
		return err
	}
	nftAddress, err = normAddress("nftAddress", nftAddress)
	if err != nil {
		return err
	}
	tokenId, err = normTokenId(tokenId)
	if err != nil {
		return err
	}
	if priceEach == nil {
		return xerrors.Errorf("missing price: %w", domain.ErrPriceMismatch)
	}

	key := factory.BidKey{Bidder: bidder, NftAddress: nftAddress}
	bid, ok := t.s.bids[key]
	if !ok {
		return domain.ErrBidNotFound
	}
	if _, ok := t.s.collections[nftAddress]; !ok {
		return xerrors.Errorf("collection %s is not registered: %w", nftAddress, domain.ErrCollectionMismatch)
	}
	nft, ok := t.s.nfts[factory.NftKey{Collection: nftAddress, TokenId: tokenId}]
	if !ok {
		return xerrors.Errorf("token %s not in %s: %w", tokenId, nftAddress, domain.ErrCollectionMismatch)
	}
	if priceEach.Cmp(bid.WeiPriceEach) != 0 {
		return xerrors.Errorf("expected %s got %s: %w", bid.WeiPriceEach, priceEach, domain.ErrPriceMismatch)
	}
	seller := t.msg.Sender
	if nft.Owner != seller {
		return domain.ErrNotTokenOwner
	}
	if nft.Approved != t.factoryAddress() && !t.s.isNftOperator(nftAddress, seller, t.factoryAddress()) {
		return xerrors.Errorf("factory may not transfer token %s: %w", tokenId, domain.ErrNotApproved)
	}

	t.transferNft(nft, bidder)

	fee := t.s.meta.Params.FeeProceeds(priceEach)
	if err := t.transfer(t.factoryAddress(), seller, new(big.Int).Sub(priceEach, fee)); err != nil {
		return err
	}
	t.addPlatformFees(fee)
	t.addEscrow(new(big.Int).Neg(priceEach))

	left := *bid
	left.Quantity--
	left.Escrow = new(big.Int).Sub(bid.Escrow, priceEach)
	left.TokenId = tokenId
	if left.Quantity == 0 {
		if err := t.releaseEscrow(bidder, left.Escrow); err != nil {
			return err
		}
		t.setBid(key, nil)
	} else {
		t.setBid(key, &left)
	}

	t.emit(factory.EventNewTrade, factory.TradeArgs{
		BidderAddress: bidder,
		SellerAddress: seller,
		NftAddress:    nftAddress,
		WeiPriceEach:  priceEach.String(),
		Quantity:      1,
		TokenId:       tokenId,
	})
	return nil
}

// releaseEscrow pays escrowed value back out of the factory
func (t *tx) releaseEscrow(to domain.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if err := t.transfer(t.factoryAddress(), to, amount); err != nil {
		return err
	}
	t.addEscrow(new(big.Int).Neg(amount))
	return nil
}

func bidArgs(b *factory.Bid) factory.BidArgs {
	return factory.BidArgs{
		BidderAddress: b.Bidder,
		NftAddress:    b.NftAddress,
		WeiPriceEach:  b.WeiPriceEach.String(),
		Quantity:      b.Quantity,
		TokenId:       b.TokenId,
	}
}

func bigString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func (im *impl) GetBid(c ctx.Ctx, bidder, nftAddress domain.Address) (*factory.Bid, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	bid, ok := im.state.bids[factory.BidKey{Bidder: bidder.ToLower(), NftAddress: nftAddress.ToLower()}]
	if !ok {
		return nil, domain.ErrBidNotFound
	}
	res := *bid
	return &res, nil
}

// ListBids returns the active bids on a collection, every bid when nftAddress is empty
func (im *impl) ListBids(c ctx.Ctx, nftAddress domain.Address) ([]factory.Bid, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	nft := nftAddress.ToLower()
	res := []factory.Bid{}
	for k, b := range im.state.bids {
		if nft.IsEmpty() || k.NftAddress == nft {
			res = append(res, *b)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].NftAddress != res[j].NftAddress {
			return res[i].NftAddress < res[j].NftAddress
		}
		return res[i].Bidder < res[j].Bidder
	})
	return res, nil
}
