package healthcheck

import (
	"github.com/kreana/goapi/base/ctx"
)

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	Check(context ctx.Ctx) error
}

// HealthCheckRepo is repository layer of healthCheck
type HealthCheckRepo interface {
	PingDB(context ctx.Ctx) error
	// PingCache writes a short lived key to the nonce cache
	PingCache(context ctx.Ctx) error
}
