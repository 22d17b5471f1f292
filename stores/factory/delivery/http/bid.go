package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/delivery"
	"github.com/kreana/goapi/domain"
)

// SubmitBid godoc
//
//	@Summary		Submit a bid
//	@Description	Escrows value from the caller and bids value/quantity wei on each NFT of a registered collection
//	@Tags			bids
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string	true	"Bearer token"
//	@Success		200				{object}	factory.Receipt
//	@Failure		400
//	@Failure		401
//	@Router			/bids [post]
func (h *handler) submitBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		NftAddress domain.Address `json:"nftAddress" validate:"required,address"`
		Quantity   uint64         `json:"quantity"`
		// Value is the escrowed wei, Value/Quantity becomes the price of each NFT
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

	r, err := h.factory.SubmitBid(ctx, msg, p.NftAddress, p.Quantity)
	return respond(c, r, err)
}

// CancelBid godoc
//
//	@Summary	Cancel the caller's bid and refund the escrow
//	@Tags		bids
//	@Produce	json
//	@Param		nftAddress	path		string	true	"collection address"	example(0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d)
//	@Success	200			{object}	factory.Receipt
//	@Failure	400
//	@Failure	404
//	@Router		/bids/{nftAddress} [delete]
func (h *handler) cancelBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}
	r, err := h.factory.CancelBid(ctx, msg, addressParam(c, "nftAddress"))
	return respond(c, r, err)
}

// HitBid godoc
//
//	@Summary		Sell an NFT into a bid
//	@Description	The caller must own tokenId and have approved the factory, priceEach must equal the bid price
//	@Tags			bids
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	factory.Receipt
//	@Failure		400
//	@Failure		403
//	@Router			/bids/hit [post]
func (h *handler) hitBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Bidder     domain.Address `json:"bidder" validate:"required,address"`
		NftAddress domain.Address `json:"nftAddress" validate:"required,address"`
		TokenId    domain.TokenId `json:"tokenId" validate:"required"`
		PriceEach  string         `json:"priceEach" validate:"required,wei"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	priceEach, err := parseWei("priceEach", p.PriceEach)
	if err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.HitBid(ctx, msg, p.Bidder, p.NftAddress, p.TokenId, priceEach)
	return respond(c, r, err)
}

// HitMultipleBids godoc
//
//	@Summary	Sell several NFTs into several bids, all or nothing
//	@Tags		bids
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	factory.Receipt
//	@Failure	400
//	@Failure	403
//	@Router		/bids/hit-multiple [post]
func (h *handler) hitMultipleBids(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Bidders    []domain.Address `json:"bidders" validate:"dive,address"`
		NftAddress domain.Address   `json:"nftAddress" validate:"required,address"`
		TokenIds   []domain.TokenId `json:"tokenIds"`
		PriceEach  string           `json:"priceEach" validate:"required,wei"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	priceEach, err := parseWei("priceEach", p.PriceEach)
	if err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.HitMultipleBids(ctx, msg, p.Bidders, p.NftAddress, p.TokenIds, priceEach)
	return respond(c, r, err)
}

// GetBid godoc
//
//	@Tags		bids
//	@Produce	json
//	@Param		bidder		path		string	true	"bidder address"
//	@Param		nftAddress	path		string	true	"collection address"
//	@Success	200			{object}	bidView
//	@Failure	400
//	@Failure	404
//	@Router		/bids/{bidder}/{nftAddress} [get]
func (h *handler) getBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	bid, err := h.factory.GetBid(ctx, addressParam(c, "bidder"), addressParam(c, "nftAddress"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toBidView(bid))
}

// ListBids godoc
//
//	@Summary	List open bids
//	@Tags		bids
//	@Produce	json
//	@Param		nftAddress	query		string	false	"only bids on this collection"	example(0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d)
//	@Success	200			{array}		bidView
//	@Failure	400
//	@Router		/bids [get]
func (h *handler) listBids(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		NftAddress domain.Address `query:"nftAddress" validate:"omitempty,address"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}

	bids, err := h.factory.ListBids(ctx, p.NftAddress)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	res := make([]bidView, 0, len(bids))
	for i := range bids {
		res = append(res, toBidView(&bids[i]))
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
