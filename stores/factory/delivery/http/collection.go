package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/delivery"
	"github.com/kreana/goapi/domain"
)

// RegisterCollection godoc
//
//	@Summary	Register an NFT collection, owner only
//	@Tags		collections
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	factory.Receipt
//	@Failure	400
//	@Failure	403
//	@Router		/collections [post]
func (h *handler) registerCollection(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Address domain.Address `json:"address" validate:"required,address"`
		Name    string         `json:"name" validate:"required"`
		Symbol  string         `json:"symbol" validate:"required"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.RegisterCollection(ctx, msg, p.Address, p.Name, p.Symbol)
	return respond(c, r, err)
}

// GetCollection godoc
//
//	@Tags		collections
//	@Produce	json
//	@Param		address	path		string	true	"collection address"	example(0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d)
//	@Success	200		{object}	collectionView
//	@Failure	400
//	@Failure	404
//	@Router		/collections/{address} [get]
func (h *handler) getCollection(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	coll, err := h.factory.GetCollection(ctx, addressParam(c, "address"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, collectionView(*coll))
}

// MintNft godoc
//
//	@Summary	Mint an NFT of a registered collection, collection admin only
//	@Tags		collections
//	@Accept		json
//	@Produce	json
//	@Param		address	path		string	true	"collection address"
//	@Success	200		{object}	factory.Receipt
//	@Failure	400
//	@Failure	403
//	@Failure	404
//	@Router		/collections/{address}/tokens [post]
func (h *handler) mintNft(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		To      domain.Address `json:"to" validate:"required,address"`
		TokenId domain.TokenId `json:"tokenId" validate:"required"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.MintNft(ctx, msg, addressParam(c, "address"), p.To, p.TokenId)
	return respond(c, r, err)
}

func (h *handler) ownerOf(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	collection := addressParam(c, "address")
	tokenId := domain.TokenId(c.Param("tokenId"))
	owner, err := h.factory.OwnerOf(ctx, collection, tokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nftOwnerView{
		Collection: collection.ToLower(),
		TokenId:    tokenId,
		Owner:      owner,
	})
}

func (h *handler) approveNft(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		// Approved is cleared with the zero address
		Approved domain.Address `json:"approved" validate:"required,address"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.ApproveNft(ctx, msg, addressParam(c, "address"), p.Approved, domain.TokenId(c.Param("tokenId")))
	return respond(c, r, err)
}

func (h *handler) setNftApprovalForAll(c echo.Context) error {
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

	r, err := h.factory.SetNftApprovalForAll(ctx, msg, addressParam(c, "address"), p.Operator, p.Approved)
	return respond(c, r, err)
}
