package usecase

import (
	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

func (im *impl) CreatorTokens(c ctx.Ctx, id uint64) (*factory.CreatorToken, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	tok, ok := im.state.token(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	res := *tok
	return &res, nil
}

func (im *impl) ListCreatorTokens(c ctx.Ctx) []factory.CreatorToken {
	im.mu.RLock()
	defer im.mu.RUnlock()
	res := make([]factory.CreatorToken, 0, len(im.state.tokens))
	for _, tok := range im.state.tokens {
		if tok != nil {
			res = append(res, *tok)
		}
	}
	return res
}

func (im *impl) GetCreatorTokenCount(c ctx.Ctx) uint64 {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.state.meta.CreatorTokenCount
}

func (im *impl) GetReceipt(c ctx.Ctx, txHash domain.TxHash) (*factory.Receipt, error) {
	r, err := im.repo.FindReceipt(c, txHash.ToLower())
	if err != nil {
		c.WithField("err", err).WithField("txHash", txHash).Warn("repo.FindReceipt failed")
		return nil, err
	}
	return r, nil
}
