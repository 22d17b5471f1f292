package goroutine

import (
	"github.com/kreana/goapi/base/log"
	"github.com/kreana/goapi/base/utils"
)

type PanicEvent struct {
	Name  string
	Panic interface{}
	Stack []byte
}

type recoverableGoOptions struct {
	name           string
	beforeStart    func()
	afterEnded     func()
	afterRecovered func(panic interface{}, stack []byte)
}

type RecoverableGoOptionsFunc = func(*recoverableGoOptions)

func WithName(name string) RecoverableGoOptionsFunc {
	return func(options *recoverableGoOptions) {
		options.name = name
	}
}

func WithBeforeStart(f func()) RecoverableGoOptionsFunc {
	return func(options *recoverableGoOptions) {
		options.beforeStart = f
	}
}

func WithAfterEnded(f func()) RecoverableGoOptionsFunc {
	return func(options *recoverableGoOptions) {
		options.afterEnded = f
	}
}

func WithAfterRecovered(f func(panic interface{}, stack []byte)) RecoverableGoOptionsFunc {
	return func(options *recoverableGoOptions) {
		options.afterRecovered = f
	}
}

// RecoverableGo runs f in a new goroutine. The returned channel receives the
// panic if f panics, otherwise it is closed when f returns.
func RecoverableGo(f func(), fns ...RecoverableGoOptionsFunc) <-chan *PanicEvent {
	opts := recoverableGoOptions{}
	for _, fn := range fns {
		fn(&opts)
	}

	panicChan := make(chan *PanicEvent, 1)

	go func() {
		defer func() {
			if opts.afterEnded != nil {
				opts.afterEnded()
			}

			if p := recover(); p != nil {
				stack := utils.Stack(3)

				log.Log().WithFields(log.Fields{
					"name":  opts.name,
					"err":   p,
					"stack": string(stack),
				}).Error("panic")

				if opts.afterRecovered != nil {
					opts.afterRecovered(p, stack)
				}

				panicChan <- &PanicEvent{opts.name, p, stack}
			}
			close(panicChan)
		}()

		if opts.beforeStart != nil {
			opts.beforeStart()
		}

		f()
	}()

	return panicChan
}
