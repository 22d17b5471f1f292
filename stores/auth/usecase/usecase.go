package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/ethereum"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/keys"
	"github.com/kreana/goapi/service/cache/provider"
)

const (
	nonceTTL = 5 * time.Minute
	tokenTTL = 24 * time.Hour
)

var (
	timeNow = time.Now
)

type Config struct {
	JwtSecret string
	// SigningMsgTemplate is signed with the nonce substituted for its %s
	SigningMsgTemplate string
	Nonces             provider.Provider
}

type impl struct {
	jwtSecret []byte
	template  string
	nonces    provider.Provider
}

func New(cfg Config) domain.AuthUsecase {
	return &impl{
		jwtSecret: []byte(cfg.JwtSecret),
		template:  cfg.SigningMsgTemplate,
		nonces:    cfg.Nonces,
	}
}

func nonceKey(address domain.Address) string {
	return keys.RedisKey(keys.PfxNonce, address.ToLowerStr())
}

func (im *impl) message(nonce string) string {
	return fmt.Sprintf(im.template, nonce)
}

func (im *impl) GenerateNonce(c ctx.Ctx, address domain.Address) (string, string, error) {
	if !address.IsValid() {
		return "", "", xerrors.Errorf("address %q: %w", address, domain.ErrInvalidAddress)
	}
	nonce := uuid.NewString()
	if err := im.nonces.Set(c, nonceKey(address), []byte(nonce), nonceTTL); err != nil {
		c.WithField("err", err).Error("nonces.Set failed")
		return "", "", err
	}
	return nonce, im.message(nonce), nil
}

// Login consumes the nonce of address, a nonce verifies one signature at most
func (im *impl) Login(c ctx.Ctx, address domain.Address, signature string) (string, error) {
	if !address.IsValid() {
		return "", xerrors.Errorf("address %q: %w", address, domain.ErrInvalidAddress)
	}
	nonce, err := im.nonces.Take(c, nonceKey(address))
	if err == provider.ErrNotFound {
		return "", xerrors.Errorf("no pending nonce: %w", domain.ErrUnauthenticated)
	} else if err != nil {
		c.WithField("err", err).Error("nonces.Take failed")
		return "", err
	}

	ok, err := ethereum.ValidateMsgSignature([]byte(im.message(string(nonce))), signature, string(address))
	if err != nil {
		c.WithField("err", err).Info("ethereum.ValidateMsgSignature failed")
		return "", xerrors.Errorf("%v: %w", err, domain.ErrInvalidSignature)
	}
	if !ok {
		return "", domain.ErrInvalidSignature
	}
	return im.SignToken(c, address)
}

func (im *impl) SignToken(c ctx.Ctx, address domain.Address) (string, error) {
	claims := domain.JwtCustomClaims{
		Address: address.ToLowerStr(),
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  timeNow().Unix(),
			ExpiresAt: timeNow().Add(tokenTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		c.WithField("err", err).Error("token.SignedString failed")
		return "", err
	} else {
		return ss, nil
	}
}

func (im *impl) ParseToken(c ctx.Ctx, str string) (domain.Address, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})

	if err == nil {
		if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid {
			return domain.Address(strings.ToLower(claims.Address)), nil
		}
	}
	return "", xerrors.Errorf("%v: %w", err, domain.ErrUnauthenticated)
}
