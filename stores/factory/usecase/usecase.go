package usecase

import (
	"encoding/json"
	"errors"
	"math/big"
	"sort"
	"sync"
	"time"

	"golang.org/x/xerrors"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/ethereum"
	"github.com/kreana/goapi/base/log"
	"github.com/kreana/goapi/base/metrics"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

const (
	methodGenesis = "genesis"
)

var (
	timeNow = time.Now
)

// Config of the ledger
type Config struct {
	// FactoryAddress is the account holding escrow, reserves and fees
	FactoryAddress domain.Address
	Genesis        factory.Genesis
}

type impl struct {
	mu             sync.RWMutex
	state          *state
	factoryAddress domain.Address

	repo      factory.Repo
	publisher factory.Publisher
	met       metrics.Service
}

// New loads the committed state from repo, applying genesis when it is empty
func New(c ctx.Ctx, cfg Config, repo factory.Repo, publisher factory.Publisher) (factory.UseCase, error) {
	if !cfg.FactoryAddress.IsValid() {
		return nil, xerrors.Errorf("factory address %q: %w", cfg.FactoryAddress, domain.ErrInvalidAddress)
	}
	im := &impl{
		factoryAddress: cfg.FactoryAddress.ToLower(),
		repo:           repo,
		publisher:      publisher,
		met:            metrics.New("factory"),
	}

	snap, err := repo.Load(c)
	if errors.Is(err, domain.ErrNotFound) {
		if err := im.applyGenesis(c, cfg.Genesis); err != nil {
			c.WithField("err", err).Error("applyGenesis failed")
			return nil, err
		}
		return im, nil
	} else if err != nil {
		c.WithField("err", err).Error("repo.Load failed")
		return nil, err
	}

	im.state = stateFromSnapshot(snap)
	c.WithFields(log.Fields{
		"blockNumber":   im.state.meta.BlockNumber,
		"creatorTokens": im.state.meta.CreatorTokenCount,
		"bids":          len(im.state.bids),
	}).Info("ledger state loaded")
	return im, nil
}

func (im *impl) applyGenesis(c ctx.Ctx, g factory.Genesis) error {
	if !g.Owner.IsValid() {
		return xerrors.Errorf("genesis owner %q: %w", g.Owner, domain.ErrInvalidAddress)
	}
	params := g.Params
	if params.BasePrice == nil || params.Slope == nil {
		params = factory.DefaultParams()
	}
	if params.PlatformFee > params.MaxPlatformFee {
		return xerrors.Errorf("genesis platform fee: %w", domain.ErrFeeExceedsCap)
	}
	if params.ProfitMargin > domain.BasisPoints {
		return xerrors.Errorf("genesis profit margin: %w", domain.ErrBadParamInput)
	}

	im.state = newState()
	owner := g.Owner.ToLower()
	_, err := im.execute(c, factory.NewMsg(owner), methodGenesis, false, g, func(t *tx) error {
		t.updateMeta(func(m *factory.Meta) {
			m.Owner = owner
			m.Params = params
		})
		addrs := make([]domain.Address, 0, len(g.Allocations))
		for addr := range g.Allocations {
			addrs = append(addrs, addr)
		}
		sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
		for _, addr := range addrs {
			amount := g.Allocations[addr]
			if !addr.IsValid() {
				return xerrors.Errorf("genesis allocation %q: %w", addr, domain.ErrInvalidAddress)
			}
			if amount == nil || amount.Sign() < 0 {
				return xerrors.Errorf("genesis allocation %q: %w", addr, domain.ErrInvalidAmount)
			}
			t.credit(addr.ToLower(), amount)
			t.emit(factory.EventFunded, factory.ValueTransferArgs{To: addr.ToLower(), Amount: amount.String()})
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.WithFields(log.Fields{"owner": owner, "allocations": len(g.Allocations)}).Info("genesis applied")
	return nil
}

func normalizeMsg(msg factory.Msg) (factory.Msg, error) {
	if !msg.Sender.IsValid() {
		return msg, xerrors.Errorf("sender %q: %w", msg.Sender, domain.ErrInvalidAddress)
	}
	msg.Sender = msg.Sender.ToLower()
	if msg.Value == nil {
		msg.Value = new(big.Int)
	} else if msg.Value.Sign() < 0 {
		return msg, domain.ErrInvalidAmount
	}
	return msg, nil
}

// execute runs fn as one transaction. Writes are serialized, a failing fn or
// commit reverts every change fn made. Non payable methods reject msg.Value.
func (im *impl) execute(c ctx.Ctx, msg factory.Msg, method string, payable bool, payload interface{}, fn func(t *tx) error) (*factory.Receipt, error) {
	defer im.met.BumpTime("tx.time", "method", method).End()

	msg, err := normalizeMsg(msg)
	if err != nil {
		return nil, err
	}
	if !payable && msg.Value.Sign() > 0 {
		return nil, xerrors.Errorf("%s is not payable: %w", method, domain.ErrIncorrectValue)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		c.WithField("err", err).Error("json.Marshal failed")
		return nil, err
	}
	c = ctx.WithLogFields(c, log.Fields{"method": method, "sender": msg.Sender})

	im.mu.Lock()
	defer im.mu.Unlock()

	t := newTx(im.state, msg, im.factoryAddress)
	if err := t.transfer(msg.Sender, im.factoryAddress, msg.Value); err != nil {
		return nil, im.fail(c, t, method, err)
	}
	if err := fn(t); err != nil {
		return nil, im.fail(c, t, method, err)
	}

	var bn uint64
	t.updateMeta(func(m *factory.Meta) {
		m.BlockNumber++
		bn = m.BlockNumber
	})
	receipt := &factory.Receipt{
		TxHash:      domain.TxHash(ethereum.TxHash(bn, string(msg.Sender), method, data)),
		BlockNumber: domain.BlockNumber(bn),
		From:        msg.Sender,
		Method:      method,
		Value:       msg.Value.String(),
		Status:      factory.ReceiptStatusSuccess,
		Logs:        t.logs,
		Timestamp:   timeNow().UTC(),
	}
	if receipt.Logs == nil {
		receipt.Logs = []factory.Log{}
	}

	if err := im.repo.Commit(c, t.changeSet(receipt)); err != nil {
		t.revert()
		c.WithField("err", err).Error("repo.Commit failed")
		im.met.BumpSum("tx.err", 1, "method", method, "reason", "commit")
		return nil, xerrors.Errorf("commit %s: %w", method, err)
	}

	im.met.BumpSum("tx.ok", 1, "method", method)
	c.WithFields(log.Fields{"txHash": receipt.TxHash, "blockNumber": bn, "logs": len(receipt.Logs)}).Info("tx committed")
	im.publisher.Publish(c, receipt)
	return receipt, nil
}

func (im *impl) fail(c ctx.Ctx, t *tx, method string, err error) error {
	t.revert()
	if domain.IsRevert(err) {
		im.met.BumpSum("tx.revert", 1, "method", method)
		c.WithField("reason", err.Error()).Info("tx reverted")
	} else {
		im.met.BumpSum("tx.err", 1, "method", method, "reason", "internal")
		c.WithField("err", err).Error("tx failed")
	}
	return err
}

func (t *tx) onlyOwner() error {
	if t.msg.Sender != t.s.meta.Owner {
		return xerrors.Errorf("sender is not the owner: %w", domain.ErrUnauthorized)
	}
	return nil
}

// normAddress validates and lower cases an address argument
func normAddress(field string, a domain.Address) (domain.Address, error) {
	if !a.IsValid() {
		return "", xerrors.Errorf("%s %q: %w", field, a, domain.ErrInvalidAddress)
	}
	return a.ToLower(), nil
}

// normTokenId returns the canonical base 10 form of an NFT token id
func normTokenId(id domain.TokenId) (domain.TokenId, error) {
	v, ok := new(big.Int).SetString(string(id), 10)
	if !ok || v.Sign() < 0 {
		return "", xerrors.Errorf("token id %q: %w", id, domain.ErrBadParamInput)
	}
	return domain.TokenId(v.String()), nil
}
