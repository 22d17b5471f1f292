package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/delivery"
	"github.com/kreana/goapi/domain"
)

type authHandler struct {
	auth               domain.AuthUsecase
	signingMsgTemplate string
}

func New(e *echo.Echo, auth domain.AuthUsecase, template string) {
	handler := &authHandler{
		auth:               auth,
		signingMsgTemplate: template,
	}
	g := e.Group("/auth")
	g.POST("/nonce", handler.nonce)
	g.POST("/sign", handler.sign)
	g.GET("/signingMsgTemplate", handler.getSigningMsgTemplate)
}

// nonce
//
//	@Summary		Get login nonce
//	@Description	Stores a nonce for the address and returns the message to personal_sign
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Success		201	{object}	object{data=object{nonce=string,message=string}}
//	@Failure		400
//	@Router			/auth/nonce [post]
func (h *authHandler) nonce(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Address domain.Address `json:"address" validate:"required,address"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	nonce, msg, err := h.auth.GenerateNonce(ctx, p.Address)
	if err != nil {
		ctx.WithField("err", err).Error("auth.GenerateNonce failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	res := struct {
		Nonce   string `json:"nonce"`
		Message string `json:"message"`
	}{nonce, msg}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

// sign
//
//	@Summary		Get access token
//	@Description	Verifies the signed login message and creates an access token for the address
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Success		201		{object}	object{data=string}
//	@Failure		400
//	@Failure		401
//	@Router			/auth/sign [post]
func (h *authHandler) sign(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Address   domain.Address `json:"address" validate:"required,address"`
		Signature string         `json:"signature" validate:"required"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if tkn, err := h.auth.Login(ctx, p.Address, p.Signature); err != nil {
		ctx.WithField("err", err).Warn("auth.Login failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, tkn)
	}
}

// getSigningMsgTemplate
//
//	@Summary		Get signature template
//	@Description	Replace %s with nonce fetched from /auth/nonce to build signing message
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	object{msg=string}	"signing message template"
//	@Router			/auth/signingMsgTemplate [get]
func (h *authHandler) getSigningMsgTemplate(c echo.Context) error {
	res := struct {
		Msg string `json:"template"`
	}{
		Msg: h.signingMsgTemplate,
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
