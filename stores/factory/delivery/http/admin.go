package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/delivery"
	"github.com/kreana/goapi/domain"
)

// ChangePlatformFee godoc
//
//	@Summary	Change the platform fee in basis points, owner only
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	factory.Receipt
//	@Failure	400
//	@Failure	403
//	@Router		/admin/platform-fee [put]
func (h *handler) changePlatformFee(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		// Fee in basis points
		Fee uint64 `json:"fee"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.ChangePlatformFee(ctx, msg, p.Fee)
	return respond(c, r, err)
}

func (h *handler) changeProfitMargin(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		// Margin in basis points
		Margin uint64 `json:"margin"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.ChangeProfitMargin(ctx, msg, p.Margin)
	return respond(c, r, err)
}

func (h *handler) changeVerification(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := tokenIdParam(c)
	if err != nil {
		return badRequest(c, err)
	}

	type params struct {
		Verified bool `json:"verified"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.ChangeVerification(ctx, msg, id, p.Verified)
	return respond(c, r, err)
}

type recipientParams struct {
	To domain.Address `json:"to" validate:"required,address"`
}

func (h *handler) payoutPlatformFees(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &recipientParams{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.PayoutPlatformFees(ctx, msg, p.To)
	return respond(c, r, err)
}

func (h *handler) withdraw(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &recipientParams{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.Withdraw(ctx, msg, p.To)
	return respond(c, r, err)
}

func (h *handler) fund(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Account domain.Address `json:"account" validate:"required,address"`
		Amount  string         `json:"amount" validate:"required,wei"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	amount, err := parseWei("amount", p.Amount)
	if err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.Fund(ctx, msg, p.Account, amount)
	return respond(c, r, err)
}

func (h *handler) transferOwnership(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		NewOwner domain.Address `json:"newOwner" validate:"required,address"`
	}

	p := &params{}
	if err := bind(c, p); err != nil {
		return badRequest(c, err)
	}
	msg, err := msgOf(c, "")
	if err != nil {
		return badRequest(c, err)
	}

	r, err := h.factory.TransferOwnership(ctx, msg, p.NewOwner)
	return respond(c, r, err)
}

func (h *handler) receive(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
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

	r, err := h.factory.Receive(ctx, msg)
	return respond(c, r, err)
}

// Treasury godoc
//
//	@Summary		Get the factory books
//	@Description	totalValueLocked is the factory balance, surplus is what /admin/withdraw can sweep
//	@Tags			treasury
//	@Produce		json
//	@Success		200	{object}	treasuryView
//	@Router			/treasury [get]
func (h *handler) treasury(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	t := h.factory.Treasury(ctx)
	return delivery.MakeJsonResp(c, http.StatusOK, treasuryView{
		Owner:               h.factory.Owner(ctx),
		FactoryAddress:      h.factory.FactoryAddress(),
		TotalPlatformFees:   weiString(t.TotalPlatformFees),
		PlatformFeesOwed:    weiString(t.PlatformFeesOwed),
		EscrowTotal:         weiString(t.EscrowTotal),
		ReserveTotal:        weiString(t.ReserveTotal),
		TotalValueLocked:    weiString(t.TotalValueLocked),
		TotalValueLockedEth: domain.WeiToEther(t.TotalValueLocked),
		Surplus:             weiString(t.Surplus),
		Params:              toParamsView(h.factory.Params(ctx)),
	})
}
