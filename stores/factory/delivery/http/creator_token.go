package http

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/delivery"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

// CreateCreatorToken godoc
//
//	@Summary		Create a creator token
//	@Description	Only the owner may set creatorAddress to someone other than the caller
//	@Tags			creator-tokens
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	factory.Receipt
//	@Failure		400
//	@Failure		403
//	@Router			/creator-tokens [post]
func (h *handler) createCreatorToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		// CreatorAddress defaults to the caller
		CreatorAddress domain.Address `json:"creatorAddress" validate:"omitempty,address"`
		Name           string         `json:"name" validate:"required"`
		Symbol         string         `json:"symbol" validate:"required"`
		Description    string         `json:"description"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.CreateCreatorToken(ctx, msg, factory.CreateCreatorTokenParams{
		Creator:     p.CreatorAddress,
		Name:        p.Name,
		Symbol:      p.Symbol,
		Description: p.Description,
	})
	return respond(c, r, err)
}

func (h *handler) updateCreatorToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := tokenIdParam(c)
	if err != nil {
		return badRequest(c, err)
	}

	type params struct {
		CreatorAddress *domain.Address `json:"creatorAddress" validate:"omitempty,address"`
		Name           *string         `json:"name"`
		Symbol         *string         `json:"symbol"`
		Description    *string         `json:"description"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.UpdateCreatorToken(ctx, msg, id, factory.CreatorTokenPatch{
		CreatorAddress: p.CreatorAddress,
		Name:           p.Name,
		Symbol:         p.Symbol,
		Description:    p.Description,
	})
	return respond(c, r, err)
}

// BuyCreatorToken godoc
//
//	@Summary		Buy creator token units along the bonding curve
//	@Description	value must equal the total proceeds returned by /creator-tokens/{id}/quote
//	@Tags			creator-tokens
//	@Accept			json
//	@Produce		json
//	@Param			id	path		int	true	"creator token id"
//	@Success		200	{object}	factory.Receipt
//	@Failure		400
//	@Failure		404
//	@Router			/creator-tokens/{id}/buy [post]
func (h *handler) buyCreatorToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := tokenIdParam(c)
	if err != nil {
		return badRequest(c, err)
	}

	type params struct {
		Amount uint64 `json:"amount"`
		// Value must equal the total proceeds of the quote
		Value string `json:"value" validate:"required,wei"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, p.Value)
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.BuyCreatorToken(ctx, msg, id, p.Amount)
	return respond(c, r, err)
}

// SellCreatorToken godoc
//
//	@Summary	Sell creator token units back to the reserve
//	@Tags		creator-tokens
//	@Accept		json
//	@Produce	json
//	@Param		id	path		int	true	"creator token id"
//	@Success	200	{object}	factory.Receipt
//	@Failure	400
//	@Failure	403
//	@Router		/creator-tokens/{id}/sell [post]
func (h *handler) sellCreatorToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := tokenIdParam(c)
	if err != nil {
		return badRequest(c, err)
	}

	type params struct {
		Amount uint64 `json:"amount"`
		// Account defaults to the caller, an operator sells on its behalf
		Account domain.Address `json:"account" validate:"omitempty,address"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.SellCreatorToken(ctx, msg, id, p.Amount, p.Account)
	return respond(c, r, err)
}

func (h *handler) safeTransferFrom(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		From   domain.Address `json:"from" validate:"required,address"`
		To     domain.Address `json:"to" validate:"required,address"`
		Id     uint64         `json:"id"`
		Amount uint64         `json:"amount"`
		Data   string         `json:"data"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.SafeTransferFrom(ctx, msg, p.From, p.To, p.Id, p.Amount, common.FromHex(p.Data))
	return respond(c, r, err)
}

func (h *handler) safeBatchTransferFrom(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		From    domain.Address `json:"from" validate:"required,address"`
		To      domain.Address `json:"to" validate:"required,address"`
		Ids     []uint64       `json:"ids"`
		Amounts []uint64       `json:"amounts"`
		Data    string         `json:"data"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.SafeBatchTransferFrom(ctx, msg, p.From, p.To, p.Ids, p.Amounts, common.FromHex(p.Data))
	return respond(c, r, err)
}

func (h *handler) setApprovalForAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Operator domain.Address `json:"operator" validate:"required,address"`
		Approved bool           `json:"approved"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.SetApprovalForAll(ctx, msg, p.Operator, p.Approved)
	return respond(c, r, err)
}

func (h *handler) isApprovedForAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	approved := h.factory.IsApprovedForAll(ctx, addressParam(c, "owner"), addressParam(c, "operator"))
	return delivery.MakeJsonResp(c, http.StatusOK, approved)
}

func (h *handler) listCreatorTokens(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	tokens := h.factory.ListCreatorTokens(ctx)
	res := make([]creatorTokenView, 0, len(tokens))
	for i := range tokens {
		res = append(res, toCreatorTokenView(&tokens[i]))
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// GetCreatorToken godoc
//
//	@Tags		creator-tokens
//	@Produce	json
//	@Param		id	path		int	true	"creator token id"	example(0)
//	@Success	200	{object}	creatorTokenView
//	@Failure	400
//	@Failure	404
//	@Router		/creator-tokens/{id} [get]
func (h *handler) getCreatorToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := tokenIdParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	tok, err := h.factory.CreatorTokens(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toCreatorTokenView(tok))
}

// Quote godoc
//
//	@Summary		Price a buy and a sell of amount units
//	@Description	sellProceeds is omitted when amount exceeds the outstanding supply
//	@Tags			creator-tokens
//	@Produce		json
//	@Param			id		path		int	true	"creator token id"
//	@Param			amount	query		int	true	"units to trade"	example(10)
//	@Success		200		{object}	quoteView
//	@Failure		400
//	@Failure		404
//	@Router			/creator-tokens/{id}/quote [get]
func (h *handler) quote(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := tokenIdParam(c)
	if err != nil {
		return badRequest(c, err)
	}

	type params struct {
		Amount uint64 `query:"amount" validate:"gt=0"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}

	q, err := h.factory.Quote(ctx, id, p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toQuoteView(q))
}

func (h *handler) listHolders(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := tokenIdParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	holders, err := h.factory.ListHolders(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toHoldingViews(holders))
}

func (h *handler) balanceOfBatch(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Accounts []domain.Address `query:"accounts" validate:"dive,address"`
		Ids      []uint64         `query:"ids"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}

	balances, err := h.factory.BalanceOfBatch(ctx, p.Accounts, p.Ids)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, balances)
}

func (h *handler) listHoldings(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	holdings := h.factory.ListHoldings(ctx, addressParam(c, "address"))
	return delivery.MakeJsonResp(c, http.StatusOK, toHoldingViews(holdings))
}

func (h *handler) balanceOfNative(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	address := addressParam(c, "address")
	balance := h.factory.BalanceOfNative(ctx, address)
	return delivery.MakeJsonResp(c, http.StatusOK, balanceView{
		Address:    address.ToLower(),
		Balance:    weiString(balance),
		BalanceEth: domain.WeiToEther(balance),
	})
}
