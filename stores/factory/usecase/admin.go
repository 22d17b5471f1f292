package usecase

import (
	"math/big"

	"golang.org/x/xerrors"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

func (t *tx) addEscrow(delta *big.Int) {
	t.updateMeta(func(m *factory.Meta) { m.EscrowTotal = new(big.Int).Add(m.EscrowTotal, delta) })
}

func (t *tx) addReserve(delta *big.Int) {
	t.updateMeta(func(m *factory.Meta) { m.ReserveTotal = new(big.Int).Add(m.ReserveTotal, delta) })
}

func (t *tx) addPlatformFees(fee *big.Int) {
	if fee.Sign() == 0 {
		return
	}
	t.updateMeta(func(m *factory.Meta) {
		m.TotalPlatformFees = new(big.Int).Add(m.TotalPlatformFees, fee)
		m.PlatformFeesOwed = new(big.Int).Add(m.PlatformFeesOwed, fee)
	})
}

// surplus is the factory balance nobody has a claim on
func surplus(s *state, factoryAddr domain.Address) *big.Int {
	res := new(big.Int).Set(s.balance(factoryAddr))
	res.Sub(res, s.meta.EscrowTotal)
	res.Sub(res, s.meta.PlatformFeesOwed)
	res.Sub(res, s.meta.ReserveTotal)
	return res
}

func (im *impl) ChangePlatformFee(c ctx.Ctx, msg factory.Msg, fee uint64) (*factory.Receipt, error) {
	payload := map[string]interface{}{"platformFee": fee}
	return im.execute(c, msg, "changePlatformFee", false, payload, func(t *tx) error {
		if err := t.onlyOwner(); err != nil {
			return err
		}
		old := t.s.meta.Params.PlatformFee
		if fee > t.s.meta.Params.MaxPlatformFee {
			return xerrors.Errorf("fee %d above %d: %w", fee, t.s.meta.Params.MaxPlatformFee, domain.ErrFeeExceedsCap)
		}
		t.updateMeta(func(m *factory.Meta) { m.Params.PlatformFee = fee })
		t.emit(factory.EventPlatformFeeChanged, factory.ParamChangedArgs{Old: old, New: fee})
		return nil
	})
}

func (im *impl) ChangeProfitMargin(c ctx.Ctx, msg factory.Msg, margin uint64) (*factory.Receipt, error) {
	payload := map[string]interface{}{"profitMargin": margin}
	return im.execute(c, msg, "changeProfitMargin", false, payload, func(t *tx) error {
		if err := t.onlyOwner(); err != nil {
			return err
		}
		if margin > domain.BasisPoints {
			return xerrors.Errorf("margin %d above %d: %w", margin, domain.BasisPoints, domain.ErrBadParamInput)
		}
		old := t.s.meta.Params.ProfitMargin
		t.updateMeta(func(m *factory.Meta) { m.Params.ProfitMargin = margin })
		t.emit(factory.EventProfitMarginChanged, factory.ParamChangedArgs{Old: old, New: margin})
		return nil
	})
}

func (im *impl) ChangeVerification(c ctx.Ctx, msg factory.Msg, id uint64, verified bool) (*factory.Receipt, error) {
	payload := map[string]interface{}{"tokenId": id, "verified": verified}
	return im.execute(c, msg, "changeVerification", false, payload, func(t *tx) error {
		if err := t.onlyOwner(); err != nil {
			return err
		}
		tok, err := t.token(id)
		if err != nil {
			return err
		}
		next := *tok
		next.Verified = verified
		t.putToken(&next)
		t.emit(factory.EventVerificationChanged, factory.VerificationArgs{TokenId: id, Verified: verified})
		return nil
	})
}

func (im *impl) PayoutPlatformFees(c ctx.Ctx, msg factory.Msg, to domain.Address) (*factory.Receipt, error) {
	payload := map[string]interface{}{"to": to}
	return im.execute(c, msg, "payoutPlatformFees", false, payload, func(t *tx) error {
		if err := t.onlyOwner(); err != nil {
			return err
		}
		to, err := normAddress("to", to)
		if err != nil {
			return err
		}
		owed := t.s.meta.PlatformFeesOwed
		if err := t.transfer(t.factoryAddress(), to, owed); err != nil {
			return err
		}
		t.updateMeta(func(m *factory.Meta) { m.PlatformFeesOwed = new(big.Int) })
		t.emit(factory.EventPlatformFeesPaidOut, factory.ValueTransferArgs{From: t.factoryAddress(), To: to, Amount: owed.String()})
		return nil
	})
}

func (im *impl) Withdraw(c ctx.Ctx, msg factory.Msg, to domain.Address) (*factory.Receipt, error) {
	payload := map[string]interface{}{"to": to}
	return im.execute(c, msg, "withdraw", false, payload, func(t *tx) error {
		if err := t.onlyOwner(); err != nil {
			return err
		}
		to, err := normAddress("to", to)
		if err != nil {
			return err
		}
		amount := surplus(t.s, t.factoryAddress())
		if amount.Sign() < 0 {
			// claims above the balance mean the books are broken, refuse to move anything
			return xerrors.Errorf("factory short by %s: %w", new(big.Int).Neg(amount), domain.ErrInsufficientLiquidity)
		}
		if err := t.transfer(t.factoryAddress(), to, amount); err != nil {
			return err
		}
		t.emit(factory.EventWithdrawal, factory.ValueTransferArgs{From: t.factoryAddress(), To: to, Amount: amount.String()})
		return nil
	})
}

func (im *impl) TransferOwnership(c ctx.Ctx, msg factory.Msg, newOwner domain.Address) (*factory.Receipt, error) {
	payload := map[string]interface{}{"newOwner": newOwner}
	return im.execute(c, msg, "transferOwnership", false, payload, func(t *tx) error {
		if err := t.onlyOwner(); err != nil {
			return err
		}
		owner, err := normAddress("newOwner", newOwner)
		if err != nil {
			return err
		}
		if owner == domain.EmptyAddress {
			return xerrors.Errorf("owner can not be the zero address: %w", domain.ErrInvalidAddress)
		}
		prev := t.s.meta.Owner
		t.updateMeta(func(m *factory.Meta) { m.Owner = owner })
		t.emit(factory.EventOwnershipTransferred, factory.OwnershipTransferredArgs{PreviousOwner: prev, NewOwner: owner})
		return nil
	})
}

func (im *impl) Fund(c ctx.Ctx, msg factory.Msg, account domain.Address, amount *big.Int) (*factory.Receipt, error) {
	payload := map[string]interface{}{"account": account, "amount": bigString(amount)}
	return im.execute(c, msg, "fund", false, payload, func(t *tx) error {
		if err := t.onlyOwner(); err != nil {
			return err
		}
		account, err := normAddress("account", account)
		if err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return xerrors.Errorf("fund amount: %w", domain.ErrInvalidAmount)
		}
		t.credit(account, amount)
		t.emit(factory.EventFunded, factory.ValueTransferArgs{To: account, Amount: amount.String()})
		return nil
	})
}

func (im *impl) Receive(c ctx.Ctx, msg factory.Msg) (*factory.Receipt, error) {
	return im.execute(c, msg, "receive", true, map[string]interface{}{}, func(t *tx) error {
		if t.msg.Value.Sign() == 0 {
			return domain.ErrInsufficientValue
		}
		t.emit(factory.EventReceived, factory.ValueTransferArgs{From: t.msg.Sender, To: t.factoryAddress(), Amount: t.msg.Value.String()})
		return nil
	})
}

func (im *impl) TotalPlatformFees(c ctx.Ctx) *big.Int {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return new(big.Int).Set(im.state.meta.TotalPlatformFees)
}

func (im *impl) PlatformFeesOwed(c ctx.Ctx) *big.Int {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return new(big.Int).Set(im.state.meta.PlatformFeesOwed)
}

func (im *impl) TotalValueLocked(c ctx.Ctx) *big.Int {
	return im.BalanceOfNative(c, im.factoryAddress)
}

func (im *impl) Treasury(c ctx.Ctx) factory.Treasury {
	im.mu.RLock()
	defer im.mu.RUnlock()
	m := im.state.meta
	return factory.Treasury{
		TotalPlatformFees: new(big.Int).Set(m.TotalPlatformFees),
		PlatformFeesOwed:  new(big.Int).Set(m.PlatformFeesOwed),
		EscrowTotal:       new(big.Int).Set(m.EscrowTotal),
		ReserveTotal:      new(big.Int).Set(m.ReserveTotal),
		TotalValueLocked:  new(big.Int).Set(im.state.balance(im.factoryAddress)),
		Surplus:           surplus(im.state, im.factoryAddress),
	}
}

func (im *impl) Params(c ctx.Ctx) factory.Params {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.state.meta.Params
}

func (im *impl) Owner(c ctx.Ctx) domain.Address {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.state.meta.Owner
}

func (im *impl) FactoryAddress() domain.Address {
	return im.factoryAddress
}

func (im *impl) BalanceOfNative(c ctx.Ctx, account domain.Address) *big.Int {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return new(big.Int).Set(im.state.balance(account.ToLower()))
}
