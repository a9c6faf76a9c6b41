// Package event is a synchronous in-process dispatcher. Listeners run in the
// caller's goroutine, in registration order, after the state change they
// describe has been committed.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any)

// Dispatcher maps event names to listeners.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Listen registers handler for name.
func (d *Dispatcher) Listen(name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], handler)
}

// Fire calls every listener of name. A panicking listener is logged and
// does not stop the others or the caller.
func (d *Dispatcher) Fire(ctx context.Context, name string, payload any) {
	if d == nil {
		return
	}
	d.mu.RLock()
	hs := append([]Handler(nil), d.handlers[name]...)
	d.mu.RUnlock()

	for _, h := range hs {
		d.call(ctx, name, h, payload)
	}
}

func (d *Dispatcher) call(ctx context.Context, name string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event listener panicked", "event", name, "error", fmt.Sprint(r))
		}
	}()
	h(ctx, payload)
}
