package http

import (
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/xerrors"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/delivery"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
	"github.com/kreana/goapi/middleware"
	"github.com/kreana/goapi/service/cache/provider"
	authMiddleware "github.com/kreana/goapi/stores/auth/delivery/http/middleware"
)

// receipts never change once committed
const receiptCacheTTL = 10 * time.Minute

type handler struct {
	factory factory.UseCase
}

func New(
	e *echo.Echo,
	factory factory.UseCase,
	authMiddleware *authMiddleware.AuthMiddleware,
	receiptCache provider.Provider,
) {
	h := &handler{factory}
	auth := authMiddleware.Auth()

	bids := e.Group("/bids")
	bids.GET("", h.listBids)
	bids.POST("", h.submitBid, auth)
	bids.POST("/hit", h.hitBid, auth)
	bids.POST("/hit-multiple", h.hitMultipleBids, auth)
	bids.DELETE("/:nftAddress", h.cancelBid, auth, middleware.IsValidAddress("nftAddress"))
	bids.GET("/:bidder/:nftAddress", h.getBid, middleware.IsValidAddress("bidder"), middleware.IsValidAddress("nftAddress"))

	tokens := e.Group("/creator-tokens")
	tokens.GET("", h.listCreatorTokens)
	tokens.POST("", h.createCreatorToken, auth)
	tokens.GET("/balances", h.balanceOfBatch)
	tokens.GET("/:id", h.getCreatorToken)
	tokens.PATCH("/:id", h.updateCreatorToken, auth)
	tokens.GET("/:id/quote", h.quote)
	tokens.GET("/:id/holders", h.listHolders)
	tokens.POST("/:id/buy", h.buyCreatorToken, auth)
	tokens.POST("/:id/sell", h.sellCreatorToken, auth)

	e.POST("/transfers", h.safeTransferFrom, auth)
	e.POST("/transfers/batch", h.safeBatchTransferFrom, auth)
	e.PUT("/approvals", h.setApprovalForAll, auth)
	e.GET("/approvals/:owner/:operator", h.isApprovedForAll, middleware.IsValidAddress("owner"), middleware.IsValidAddress("operator"))

	accounts := e.Group("/accounts/:address", middleware.IsValidAddress("address"))
	accounts.GET("/holdings", h.listHoldings)
	accounts.GET("/balance", h.balanceOfNative)

	admin := e.Group("/admin", auth, authMiddleware.IsOwner())
	admin.PUT("/platform-fee", h.changePlatformFee)
	admin.PUT("/profit-margin", h.changeProfitMargin)
	admin.PUT("/creator-tokens/:id/verification", h.changeVerification)
	admin.POST("/payout", h.payoutPlatformFees)
	admin.POST("/withdraw", h.withdraw)
	admin.POST("/fund", h.fund)
	admin.PUT("/owner", h.transferOwnership)

	e.GET("/treasury", h.treasury)
	e.POST("/treasury/receive", h.receive, auth)

	collections := e.Group("/collections")
	collections.POST("", h.registerCollection, auth, authMiddleware.IsOwner())
	collections.GET("/:address", h.getCollection, middleware.IsValidAddress("address"))
	collections.POST("/:address/tokens", h.mintNft, auth, middleware.IsValidAddress("address"))
	collections.GET("/:address/tokens/:tokenId", h.ownerOf, middleware.IsValidAddress("address"))
	collections.PUT("/:address/tokens/:tokenId/approval", h.approveNft, auth, middleware.IsValidAddress("address"))
	collections.PUT("/:address/approvals", h.setNftApprovalForAll, auth, middleware.IsValidAddress("address"))

	e.GET("/receipts/:txHash", h.getReceipt, middleware.CacheHttp(receiptCache, receiptCacheTTL))
}

// bind decodes the request and runs the struct validators
func bind(c echo.Context, p interface{}) error {
	if err := c.Bind(p); err != nil {
		return err
	}
	return c.Validate(p)
}

func sender(c echo.Context) domain.Address {
	address, _ := c.Get("address").(domain.Address)
	return address
}

// msgOf builds the transaction message of the authenticated caller, value is an optional wei string
func msgOf(c echo.Context, value string) (factory.Msg, error) {
	msg := factory.NewMsg(sender(c))
	if value == "" {
		return msg, nil
	}
	v, err := domain.ParseWei(value)
	if err != nil {
		return msg, err
	}
	return msg.WithValue(v), nil
}

func parseWei(name, s string) (*big.Int, error) {
	v, err := domain.ParseWei(s)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func tokenIdParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, xerrors.Errorf("token id %q: %w", c.Param("id"), domain.ErrBadParamInput)
	}
	return id, nil
}

func addressParam(c echo.Context, name string) domain.Address {
	return domain.Address(c.Param(name))
}

// respond writes the receipt of a transaction or the error it reverted with
func respond(c echo.Context, receipt *factory.Receipt, err error) error {
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, receipt)
}

func badRequest(c echo.Context, err error) error {
	return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
}

// GetReceipt godoc
//
//	@Tags		receipts
//	@Produce	json
//	@Param		txHash	path		string	true	"transaction hash"
//	@Success	200		{object}	factory.Receipt
//	@Failure	404
//	@Router		/receipts/{txHash} [get]
func (h *handler) getReceipt(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	r, err := h.factory.GetReceipt(ctx, domain.TxHash(c.Param("txHash")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, r)
}
