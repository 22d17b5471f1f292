package usecase

import (
	"golang.org/x/xerrors"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

func (im *impl) RegisterCollection(c ctx.Ctx, msg factory.Msg, address domain.Address, name, symbol string) (*factory.Receipt, error) {
	payload := map[string]interface{}{"address": address, "name": name, "symbol": symbol}
	return im.execute(c, msg, "registerCollection", false, payload, func(t *tx) error {
		if err := t.onlyOwner(); err != nil {
			return err
		}
		address, err := normAddress("address", address)
		if err != nil {
			return err
		}
		if address == domain.EmptyAddress || address == t.factoryAddress() {
			return xerrors.Errorf("collection %s: %w", address, domain.ErrInvalidAddress)
		}
		if _, ok := t.s.collections[address]; ok {
			return xerrors.Errorf("collection %s already registered: %w", address, domain.ErrConflict)
		}
		col := &factory.Collection{
			Address: address,
			Name:    name,
			Symbol:  symbol,
			Admin:   t.msg.Sender,
		}
		t.setCollection(col)
		t.emit(factory.EventCollectionRegistered, factory.CollectionArgs{
			Address: col.Address,
			Name:    col.Name,
			Symbol:  col.Symbol,
			Admin:   col.Admin,
		})
		return nil
	})
}

func (im *impl) MintNft(c ctx.Ctx, msg factory.Msg, collection, to domain.Address, tokenId domain.TokenId) (*factory.Receipt, error) {
	payload := map[string]interface{}{"collection": collection, "to": to, "tokenId": tokenId}
	return im.execute(c, msg, "mintNft", false, payload, func(t *tx) error {
		col, err := t.collection(collection)
		if err != nil {
			return err
		}
		if t.msg.Sender != col.Admin {
			return xerrors.Errorf("sender is not the admin of %s: %w", col.Address, domain.ErrUnauthorized)
		}
		to, err := normAddress("to", to)
		if err != nil {
			return err
		}
		if to == domain.EmptyAddress {
			return xerrors.Errorf("mint to the zero address: %w", domain.ErrInvalidAddress)
		}
		tokenId, err := normTokenId(tokenId)
		if err != nil {
			return err
		}
		key := factory.NftKey{Collection: col.Address, TokenId: tokenId}
		if _, ok := t.s.nfts[key]; ok {
			return xerrors.Errorf("token %s of %s exists: %w", tokenId, col.Address, domain.ErrConflict)
		}
		t.setNft(&factory.Nft{Collection: col.Address, TokenId: tokenId, Owner: to, Approved: domain.EmptyAddress})
		t.emit(factory.EventNftTransfer, factory.NftTransferArgs{
			Collection: col.Address,
			From:       domain.EmptyAddress,
			To:         to,
			TokenId:    tokenId,
		})
		return nil
	})
}

// ApproveNft lets approved transfer one token, the zero address clears the approval
func (im *impl) ApproveNft(c ctx.Ctx, msg factory.Msg, collection, approved domain.Address, tokenId domain.TokenId) (*factory.Receipt, error) {
	payload := map[string]interface{}{"collection": collection, "approved": approved, "tokenId": tokenId}
	return im.execute(c, msg, "approveNft", false, payload, func(t *tx) error {
		nft, err := t.nft(collection, tokenId)
		if err != nil {
			return err
		}
		approved, err := normAddress("approved", approved)
		if err != nil {
			return err
		}
		sender := t.msg.Sender
		if sender != nft.Owner && !t.s.isNftOperator(nft.Collection, nft.Owner, sender) {
			return xerrors.Errorf("sender may not approve token %s: %w", nft.TokenId, domain.ErrNotTokenOwner)
		}
		if approved == nft.Owner {
			return domain.ErrSelfApproval
		}
		next := *nft
		next.Approved = approved
		t.setNft(&next)
		t.emit(factory.EventNftApproval, factory.NftApprovalArgs{
			Collection: nft.Collection,
			Owner:      nft.Owner,
			Approved:   approved,
			TokenId:    nft.TokenId,
		})
		return nil
	})
}

func (im *impl) SetNftApprovalForAll(c ctx.Ctx, msg factory.Msg, collection, operator domain.Address, approved bool) (*factory.Receipt, error) {
	payload := map[string]interface{}{"collection": collection, "operator": operator, "approved": approved}
	return im.execute(c, msg, "setNftApprovalForAll", false, payload, func(t *tx) error {
		col, err := t.collection(collection)
		if err != nil {
			return err
		}
		operator, err := normAddress("operator", operator)
		if err != nil {
			return err
		}
		if operator == t.msg.Sender {
			return domain.ErrSelfApproval
		}
		t.setNftOperator(col.Address, t.msg.Sender, operator, approved)
		t.emit(factory.EventNftApprovalForAll, factory.ApprovalForAllArgs{
			Collection: col.Address,
			Owner:      t.msg.Sender,
			Operator:   operator,
			Approved:   approved,
		})
		return nil
	})
}

func (t *tx) collection(address domain.Address) (*factory.Collection, error) {
	address, err := normAddress("collection", address)
	if err != nil {
		return nil, err
	}
	col, ok := t.s.collections[address]
	if !ok {
		return nil, xerrors.Errorf("collection %s: %w", address, domain.ErrNotFound)
	}
	return col, nil
}

func (t *tx) nft(collection domain.Address, tokenId domain.TokenId) (*factory.Nft, error) {
	col, err := t.collection(collection)
	if err != nil {
		return nil, err
	}
	tokenId, err = normTokenId(tokenId)
	if err != nil {
		return nil, err
	}
	nft, ok := t.s.nfts[factory.NftKey{Collection: col.Address, TokenId: tokenId}]
	if !ok {
		return nil, xerrors.Errorf("token %s of %s: %w", tokenId, col.Address, domain.ErrNotFound)
	}
	return nft, nil
}

// transferNft moves nft to a new owner and clears its per token approval
func (t *tx) transferNft(nft *factory.Nft, to domain.Address) {
	next := *nft
	next.Owner = to
	next.Approved = domain.EmptyAddress
	t.setNft(&next)
	t.emit(factory.EventNftTransfer, factory.NftTransferArgs{
		Collection: nft.Collection,
		From:       nft.Owner,
		To:         to,
		TokenId:    nft.TokenId,
	})
}

func (im *impl) GetCollection(c ctx.Ctx, address domain.Address) (*factory.Collection, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	col, ok := im.state.collections[address.ToLower()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	res := *col
	return &res, nil
}

func (im *impl) OwnerOf(c ctx.Ctx, collection domain.Address, tokenId domain.TokenId) (domain.Address, error) {
	tokenId, err := normTokenId(tokenId)
	if err != nil {
		return "", err
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	nft, ok := im.state.nfts[factory.NftKey{Collection: collection.ToLower(), TokenId: tokenId}]
	if !ok {
		return "", domain.ErrNotFound
	}
	return nft.Owner, nil
}
