package usecase

import (
	"sort"

	"golang.org/x/xerrors"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

func (im *impl) SafeTransferFrom(c ctx.Ctx, msg factory.Msg, from, to domain.Address, id uint64, amount uint64, data []byte) (*factory.Receipt, error) {
	payload := map[string]interface{}{"from": from, "to": to, "id": id, "amount": amount, "data": data}
	return im.execute(c, msg, "safeTransferFrom", false, payload, func(t *tx) error {
		from, to, err := t.transferParties(from, to)
		if err != nil {
			return err
		}
		if err := t.moveHolding(from, to, id, amount); err != nil {
			return err
		}
		t.emit(factory.EventTransferSingle, factory.TransferSingleArgs{
			Operator: t.msg.Sender,
			From:     from,
			To:       to,
			Id:       id,
			Value:    amount,
		})
		return nil
	})
}

func (im *impl) SafeBatchTransferFrom(c ctx.Ctx, msg factory.Msg, from, to domain.Address, ids []uint64, amounts []uint64, data []byte) (*factory.Receipt, error) {
	payload := map[string]interface{}{"from": from, "to": to, "ids": ids, "amounts": amounts, "data": data}
	return im.execute(c, msg, "safeBatchTransferFrom", false, payload, func(t *tx) error {
		if len(ids) != len(amounts) {
			return xerrors.Errorf("%d ids for %d amounts: %w", len(ids), len(amounts), domain.ErrArrayLengthMismatch)
		}
		from, to, err := t.transferParties(from, to)
		if err != nil {
			return err
		}
		for i := range ids {
			if err := t.moveHolding(from, to, ids[i], amounts[i]); err != nil {
				return xerrors.Errorf("transfer %d: %w", i, err)
			}
		}
		t.emit(factory.EventTransferBatch, factory.TransferBatchArgs{
			Operator: t.msg.Sender,
			From:     from,
			To:       to,
			Ids:      ids,
			Values:   amounts,
		})
		return nil
	})
}

func (im *impl) SetApprovalForAll(c ctx.Ctx, msg factory.Msg, operator domain.Address, approved bool) (*factory.Receipt, error) {
	payload := map[string]interface{}{"operator": operator, "approved": approved}
	return im.execute(c, msg, "setApprovalForAll", false, payload, func(t *tx) error {
		operator, err := normAddress("operator", operator)
		if err != nil {
			return err
		}
		if operator == t.msg.Sender {
			return domain.ErrSelfApproval
		}
		t.setOperator(t.msg.Sender, operator, approved)
		t.emit(factory.EventApprovalForAll, factory.ApprovalForAllArgs{
			Owner:    t.msg.Sender,
			Operator: operator,
			Approved: approved,
		})
		return nil
	})
}

func (t *tx) transferParties(from, to domain.Address) (domain.Address, domain.Address, error) {
	from, err := normAddress("from", from)
	if err != nil {
		return "", "", err
	}
	to, err = normAddress("to", to)
	if err != nil {
		return "", "", err
	}
	if to == domain.EmptyAddress {
		return "", "", xerrors.Errorf("transfer to the zero address: %w", domain.ErrInvalidAddress)
	}
	if err := t.onlyOwnerOrOperator(from); err != nil {
		return "", "", err
	}
	return from, to, nil
}

// onlyOwnerOrOperator allows the holder itself or an operator it approved
func (t *tx) onlyOwnerOrOperator(holder domain.Address) error {
	if t.msg.Sender != holder && !t.s.isOperator(holder, t.msg.Sender) {
		return xerrors.Errorf("%s is not approved for %s: %w", t.msg.Sender, holder, domain.ErrUnauthorized)
	}
	return nil
}

func (t *tx) moveHolding(from, to domain.Address, id, amount uint64) error {
	if _, err := t.token(id); err != nil {
		return err
	}
	held := t.s.holding(id, from)
	if held < amount {
		return xerrors.Errorf("holds %d of %d: %w", held, amount, domain.ErrInsufficientHoldings)
	}
	if from == to || amount == 0 {
		return nil
	}
	t.setHolding(id, from, held-amount)
	t.setHolding(id, to, t.s.holding(id, to)+amount)
	return nil
}

func (im *impl) IsApprovedForAll(c ctx.Ctx, owner, operator domain.Address) bool {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.state.isOperator(owner.ToLower(), operator.ToLower())
}

func (im *impl) UserToHoldings(c ctx.Ctx, user domain.Address, id uint64) uint64 {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.state.userToHoldings[user.ToLower()][id]
}

func (im *impl) TokenHoldership(c ctx.Ctx, id uint64, user domain.Address) uint64 {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.state.tokenHoldership[id][user.ToLower()]
}

func (im *impl) BalanceOf(c ctx.Ctx, account domain.Address, id uint64) uint64 {
	return im.TokenHoldership(c, id, account)
}

func (im *impl) BalanceOfBatch(c ctx.Ctx, accounts []domain.Address, ids []uint64) ([]uint64, error) {
	if len(accounts) != len(ids) {
		return nil, domain.ErrArrayLengthMismatch
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	res := make([]uint64, len(ids))
	for i := range ids {
		res[i] = im.state.holding(ids[i], accounts[i].ToLower())
	}
	return res, nil
}

func (im *impl) ListHolders(c ctx.Ctx, id uint64) ([]factory.Holding, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	if _, ok := im.state.token(id); !ok {
		return nil, domain.ErrNotFound
	}
	res := []factory.Holding{}
	for owner, amount := range im.state.tokenHoldership[id] {
		res = append(res, factory.Holding{TokenId: id, Owner: owner, Amount: amount})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Owner < res[j].Owner })
	return res, nil
}

func (im *impl) ListHoldings(c ctx.Ctx, user domain.Address) []factory.Holding {
	im.mu.RLock()
	defer im.mu.RUnlock()
	owner := user.ToLower()
	res := []factory.Holding{}
	for id, amount := range im.state.userToHoldings[owner] {
		res = append(res, factory.Holding{TokenId: id, Owner: owner, Amount: amount})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].TokenId < res[j].TokenId })
	return res
}
