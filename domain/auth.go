package domain

import (
	"github.com/golang-jwt/jwt"

	"github.com/kreana/goapi/base/ctx"
)

type JwtCustomClaims struct {
	Address string `json:"address"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	// GenerateNonce stores a fresh login nonce for the address and returns the message to sign
	GenerateNonce(ctx ctx.Ctx, address Address) (nonce string, message string, err error)
	// Login verifies the signed message and issues a session token
	Login(ctx ctx.Ctx, address Address, signature string) (string, error)
	SignToken(ctx ctx.Ctx, address Address) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (address Address, err error)
}
