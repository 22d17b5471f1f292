package ctx

import (
	"context"
	"time"

	log "github.com/kreana/goapi/base/log"
)

// Ctx carries the request scoped context together with a logger
// decorated with the values stored in it.
type Ctx struct {
	context.Context
	log.Logger
}

func Background() Ctx {
	return Ctx{
		Context: context.Background(),
		Logger:  log.Log(),
	}
}

// From wraps a plain context, useful at library boundaries.
func From(c context.Context) Ctx {
	return Ctx{
		Context: c,
		Logger:  log.Log(),
	}
}

func WithValue(parent Ctx, key string, val interface{}) Ctx {
	return Ctx{
		Context: context.WithValue(parent, key, val),
		Logger:  parent.Logger.WithField(key, val),
	}
}

func WithValues(parent Ctx, kvs map[string]interface{}) Ctx {
	c := parent
	for k, v := range kvs {
		c = WithValue(c, k, v)
	}
	return c
}

// WithLogFields only decorates the logger, the values are not stored in the context.
func WithLogFields(parent Ctx, fields log.Fields) Ctx {
	return Ctx{
		Context: parent.Context,
		Logger:  parent.Logger.WithFields(fields),
	}
}

func WithCancel(parent Ctx) (Ctx, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	return Ctx{
		Context: ctx,
		Logger:  parent.Logger,
	}, cancel
}

func WithTimeout(parent Ctx, timeout time.Duration) (Ctx, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return Ctx{
		Context: ctx,
		Logger:  parent.Logger,
	}, cancel
}
