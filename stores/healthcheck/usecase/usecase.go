package usecase

import (
	"golang.org/x/xerrors"

	"github.com/kreana/goapi/base/ctx"
	hcdomain "github.com/kreana/goapi/domain/healthcheck"
)

type impl struct {
	repo hcdomain.HealthCheckRepo
}

// New creates new healthCheckUsecase object representation of HealthCheckUsecase interface
func New(repo hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repo: repo,
	}
}

func (im *impl) Check(context ctx.Ctx) error {
	if err := im.repo.PingDB(context); err != nil {
		return xerrors.Errorf("mongo: %w", err)
	}
	if err := im.repo.PingCache(context); err != nil {
		return xerrors.Errorf("cache: %w", err)
	}
	return nil
}
