package usecase

import (
	"math/big"

	"golang.org/x/xerrors"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

func (im *impl) CreateCreatorToken(c ctx.Ctx, msg factory.Msg, params factory.CreateCreatorTokenParams) (*factory.Receipt, error) {
	return im.execute(c, msg, "createCreatorToken", false, params, func(t *tx) error {
		creator := t.msg.Sender
		if !params.Creator.IsEmpty() {
			var err error
			if creator, err = normAddress("creator", params.Creator); err != nil {
				return err
			}
		}
		if params.Name == "" || params.Symbol == "" {
			return xerrors.Errorf("name and symbol are required: %w", domain.ErrBadParamInput)
		}

		tok := &factory.CreatorToken{
			Id:             t.s.meta.CreatorTokenCount,
			CreatorAddress: creator,
			Name:           params.Name,
			Symbol:         params.Symbol,
			Description:    params.Description,
			LastPrice:      new(big.Int),
			Reserve:        new(big.Int),
			SellMargin:     t.s.meta.Params.ProfitMargin,
		}
		t.addToken(tok)
		t.updateMeta(func(m *factory.Meta) { m.CreatorTokenCount++ })
		t.emit(factory.EventNewCreatorToken, creatorTokenArgs(tok))
		return nil
	})
}

func (im *impl) BuyCreatorToken(c ctx.Ctx, msg factory.Msg, id uint64, amount uint64) (*factory.Receipt, error) {
	payload := map[string]interface{}{"tokenId": id, "amount": amount}
	return im.execute(c, msg, "buyCreatorToken", true, payload, func(t *tx) error {
		tok, err := t.token(id)
		if err != nil {
			return err
		}
		if amount == 0 || tok.Outstanding+amount < tok.Outstanding {
			return xerrors.Errorf("amount %d: %w", amount, domain.ErrInvalidAmount)
		}

		p := t.s.meta.Params
		net := p.CurveSum(tok.Outstanding, amount)
		fee := p.FeeProceeds(net)
		total := new(big.Int).Add(net, fee)
		if t.msg.Value.Cmp(total) != 0 {
			return xerrors.Errorf("expected %s wei got %s: %w", total, t.msg.Value, domain.ErrIncorrectValue)
		}

		next := *tok
		if tok.Outstanding == 0 {
			next.SellMargin = p.ProfitMargin
		}
		next.Outstanding += amount
		if next.Outstanding > next.MaxSupply {
			next.MaxSupply = next.Outstanding
		}

		// the reserve takes what selling the new units back will refund, the creator
		// share comes out of the rest and whatever is left stays as treasury surplus
		sp := sellParams(p, &next)
		reserveIn := new(big.Int).Sub(sp.SellLiability(next.Outstanding), sp.SellLiability(tok.Outstanding))
		share := creatorShare(p, tok, amount)
		if available := new(big.Int).Sub(net, reserveIn); share.Cmp(available) > 0 {
			share = available
		}
		if err := t.transfer(t.factoryAddress(), tok.CreatorAddress, share); err != nil {
			return err
		}
		t.addPlatformFees(fee)
		t.addReserve(reserveIn)

		next.LastPrice = perUnit(net, amount)
		next.Reserve = new(big.Int).Add(tok.Reserve, reserveIn)
		t.putToken(&next)

		buyer := t.msg.Sender
		t.setHolding(id, buyer, t.s.holding(id, buyer)+amount)

		t.emit(factory.EventTransferSingle, factory.TransferSingleArgs{
			Operator: buyer,
			From:     domain.EmptyAddress,
			To:       buyer,
			Id:       id,
			Value:    amount,
		})
		t.emit(factory.EventCreatorTokenTransaction, factory.CreatorTokenTransactionArgs{
			Account:         buyer,
			Amount:          amount,
			TransactionType: factory.TransactionTypeBuy,
			TokenId:         id,
			Name:            tok.Name,
			Symbol:          tok.Symbol,
			Value:           total.String(),
		})
		return nil
	})
}

func (im *impl) SellCreatorToken(c ctx.Ctx, msg factory.Msg, id uint64, amount uint64, account domain.Address) (*factory.Receipt, error) {
	payload := map[string]interface{}{"tokenId": id, "amount": amount, "account": account}
	return im.execute(c, msg, "sellCreatorToken", false, payload, func(t *tx) error {
		seller := t.msg.Sender
		if !account.IsEmpty() {
			var err error
			if seller, err = normAddress("account", account); err != nil {
				return err
			}
		}
		tok, err := t.token(id)
		if err != nil {
			return err
		}
		if amount == 0 {
			return xerrors.Errorf("amount %d: %w", amount, domain.ErrInvalidAmount)
		}
		if err := t.onlyOwnerOrOperator(seller); err != nil {
			return err
		}
		held := t.s.holding(id, seller)
		if held < amount {
			return xerrors.Errorf("holds %d of %d: %w", held, amount, domain.ErrInsufficientHoldings)
		}

		refund := sellParams(t.s.meta.Params, tok).SellProceeds(tok.Outstanding, amount)
		if tok.Reserve.Cmp(refund) < 0 {
			return xerrors.Errorf("reserve %s below refund %s: %w", tok.Reserve, refund, domain.ErrInsufficientLiquidity)
		}
		if err := t.transfer(t.factoryAddress(), seller, refund); err != nil {
			return err
		}
		t.addReserve(new(big.Int).Neg(refund))

		next := *tok
		next.Outstanding -= amount
		next.LastPrice = perUnit(refund, amount)
		next.Reserve = new(big.Int).Sub(tok.Reserve, refund)
		t.putToken(&next)
		t.setHolding(id, seller, held-amount)

		t.emit(factory.EventTransferSingle, factory.TransferSingleArgs{
			Operator: t.msg.Sender,
			From:     seller,
			To:       domain.EmptyAddress,
			Id:       id,
			Value:    amount,
		})
		t.emit(factory.EventCreatorTokenTransaction, factory.CreatorTokenTransactionArgs{
			Account:         seller,
			Amount:          amount,
			TransactionType: factory.TransactionTypeSell,
			TokenId:         id,
			Name:            tok.Name,
			Symbol:          tok.Symbol,
			Value:           refund.String(),
		})
		return nil
	})
}

func (im *impl) UpdateCreatorToken(c ctx.Ctx, msg factory.Msg, id uint64, patch factory.CreatorTokenPatch) (*factory.Receipt, error) {
	payload := map[string]interface{}{"tokenId": id, "patch": patch}
	return im.execute(c, msg, "updateCreatorToken", false, payload, func(t *tx) error {
		tok, err := t.token(id)
		if err != nil {
			return err
		}
		if t.msg.Sender != tok.CreatorAddress {
			return xerrors.Errorf("sender is not the creator of %d: %w", id, domain.ErrUnauthorized)
		}
		if patch.IsEmpty() {
			return xerrors.Errorf("empty patch: %w", domain.ErrBadParamInput)
		}

		next := *tok
		if patch.CreatorAddress != nil {
			if next.CreatorAddress, err = normAddress("creatorAddress", *patch.CreatorAddress); err != nil {
				return err
			}
		}
		if patch.Name != nil {
			if *patch.Name == "" {
				return xerrors.Errorf("empty name: %w", domain.ErrBadParamInput)
			}
			next.Name = *patch.Name
		}
		if patch.Symbol != nil {
			if *patch.Symbol == "" {
				return xerrors.Errorf("empty symbol: %w", domain.ErrBadParamInput)
			}
			next.Symbol = *patch.Symbol
		}
		if patch.Description != nil {
			next.Description = *patch.Description
		}
		t.putToken(&next)
		t.emit(factory.EventCreatorTokenUpdated, creatorTokenArgs(&next))
		return nil
	})
}

func (im *impl) ChangeAddress(c ctx.Ctx, msg factory.Msg, id uint64, creator domain.Address) (*factory.Receipt, error) {
	return im.UpdateCreatorToken(c, msg, id, factory.CreatorTokenPatch{CreatorAddress: &creator})
}

func (im *impl) ChangeName(c ctx.Ctx, msg factory.Msg, id uint64, name string) (*factory.Receipt, error) {
	return im.UpdateCreatorToken(c, msg, id, factory.CreatorTokenPatch{Name: &name})
}

func (im *impl) ChangeSymbol(c ctx.Ctx, msg factory.Msg, id uint64, symbol string) (*factory.Receipt, error) {
	return im.UpdateCreatorToken(c, msg, id, factory.CreatorTokenPatch{Symbol: &symbol})
}

func (im *impl) ChangeDescription(c ctx.Ctx, msg factory.Msg, id uint64, description string) (*factory.Receipt, error) {
	return im.UpdateCreatorToken(c, msg, id, factory.CreatorTokenPatch{Description: &description})
}

func (t *tx) token(id uint64) (*factory.CreatorToken, error) {
	tok, ok := t.s.token(id)
	if !ok {
		return nil, xerrors.Errorf("creator token %d: %w", id, domain.ErrNotFound)
	}
	return tok, nil
}

func creatorTokenArgs(tok *factory.CreatorToken) factory.CreatorTokenArgs {
	return factory.CreatorTokenArgs{
		TokenId:        tok.Id,
		CreatorAddress: tok.CreatorAddress,
		Name:           tok.Name,
		Symbol:         tok.Symbol,
		Description:    tok.Description,
		Verified:       tok.Verified,
		Outstanding:    tok.Outstanding,
		MaxSupply:      tok.MaxSupply,
	}
}

func (im *impl) BuyProceeds(c ctx.Ctx, id uint64, amount uint64) (*big.Int, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	tok, ok := im.state.token(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return im.state.meta.Params.CurveSum(tok.Outstanding, amount), nil
}

func (im *impl) FeeProceeds(c ctx.Ctx, netProceeds *big.Int) *big.Int {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.state.meta.Params.FeeProceeds(netProceeds)
}

func (im *impl) TotalProceeds(c ctx.Ctx, id uint64, amount uint64) (*big.Int, error) {
	q, err := im.Quote(c, id, amount)
	if err != nil {
		return nil, err
	}
	return q.TotalProceeds, nil
}

func (im *impl) SellProceeds(c ctx.Ctx, id uint64, amount uint64) (*big.Int, error) {
	q, err := im.Quote(c, id, amount)
	if err != nil {
		return nil, err
	}
	if q.SellProceeds == nil {
		return nil, xerrors.Errorf("amount %d exceeds outstanding: %w", amount, domain.ErrInvalidAmount)
	}
	return q.SellProceeds, nil
}

func (im *impl) Quote(c ctx.Ctx, id uint64, amount uint64) (*factory.Quote, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	tok, ok := im.state.token(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := im.state.meta.Params
	net := p.CurveSum(tok.Outstanding, amount)
	fee := p.FeeProceeds(net)
	q := &factory.Quote{
		TokenId:       id,
		Amount:        amount,
		BuyProceeds:   net,
		FeeProceeds:   fee,
		TotalProceeds: new(big.Int).Add(net, fee),
	}
	if amount <= tok.Outstanding {
		q.SellProceeds = sellParams(p, tok).SellProceeds(tok.Outstanding, amount)
	}
	return q, nil
}
