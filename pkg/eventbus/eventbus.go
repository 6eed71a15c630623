// Package eventbus dispatches domain events to handlers chosen by their
// parameter types.
package eventbus

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rendiciones/rendiciones/pkg/serrors"
)

type EventBus interface {
	Publish(args ...any)
	PublishE(args ...any) error
	Subscribe(handler any)
	Unsubscribe(handler any)
	Clear()
	SubscribersCount() int
}

var (
	ErrNoSubscribers        = serrors.NewError("EVENTBUS_NO_SUBSCRIBERS", "no matching subscribers", "")
	ErrInvalidHandlerReturn = serrors.NewError("EVENTBUS_INVALID_HANDLER_RETURN", "invalid handler return signature", "")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type bus struct {
	log      *logrus.Entry
	mu       sync.RWMutex
	handlers []reflect.Value
}

// NewEventPublisher returns an in-process bus. Handlers run synchronously in
// subscription order.
func NewEventPublisher(log *logrus.Logger) EventBus {
	b := &bus{}
	if log != nil {
		b.log = log.WithField("component", "eventbus")
	}
	return b
}

// MatchSignature reports whether handler can be called with args.
func MatchSignature(handler any, args []any) bool {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func || t.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		param := t.In(i)
		if arg == nil {
			switch param.Kind() {
			case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func:
				continue
			}
			return false
		}
		if !reflect.TypeOf(arg).AssignableTo(param) {
			return false
		}
	}
	return true
}

// Publish calls every matching handler. Panics are recovered and logged;
// returned errors are logged and dropped.
func (b *bus) Publish(args ...any) {
	handled, errs := b.dispatch(args)
	for _, err := range errs {
		b.logError(err)
	}
	if handled == 0 && b.log != nil {
		b.log.Warnf("eventbus.Publish: no matching subscribers for event with args: %v", args)
	}
}

// PublishE is Publish surfacing handler errors and panics to the caller.
func (b *bus) PublishE(args ...any) error {
	matched, errs := b.dispatch(args)
	if matched == 0 && len(errs) == 0 {
		return ErrNoSubscribers
	}
	return errors.Join(errs...)
}

func (b *bus) Subscribe(handler any) {
	v := reflect.ValueOf(handler)
	if v.Kind() != reflect.Func {
		panic("eventbus: handler must be a function")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, v)
}

func (b *bus) Unsubscribe(handler any) {
	ptr := reflect.ValueOf(handler).Pointer()
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, h := range b.handlers {
		if h.Pointer() == ptr {
			b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
			return
		}
	}
}

func (b *bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = nil
}

func (b *bus) SubscribersCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// dispatch returns the number of handlers that completed without panicking
// and the errors collected along the way.
func (b *bus) dispatch(args []any) (int, []error) {
	b.mu.RLock()
	handlers := append([]reflect.Value(nil), b.handlers...)
	b.mu.RUnlock()

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = reflect.ValueOf(arg)
	}
	var (
		completed int
		errs      []error
	)
	for _, h := range handlers {
		if !MatchSignature(h.Interface(), args) {
			continue
		}
		for i, arg := range args {
			if arg == nil {
				in[i] = reflect.Zero(h.Type().In(i))
			}
		}
		if err := call(h, in, args); err != nil {
			errs = append(errs, err)
			if errors.Is(err, errPanicked) {
				continue
			}
		}
		completed++
	}
	return completed, errs
}

var errPanicked = errors.New("handler panicked")

func call(h reflect.Value, in []reflect.Value, args []any) (err error) {
	name := h.Type().String()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("eventbus: handler %s %w with args %v: %v", name, errPanicked, args, r)
		}
	}()
	out := h.Call(in)
	switch {
	case len(out) == 0:
		return nil
	case len(out) > 1:
		return fmt.Errorf("%w: handler %s returned %d values", ErrInvalidHandlerReturn, name, len(out))
	case out[0].Type() != errorType:
		return fmt.Errorf("%w: handler %s return type is %s", ErrInvalidHandlerReturn, name, out[0].Type())
	case out[0].IsNil():
		return nil
	}
	return out[0].Interface().(error)
}

func (b *bus) logError(err error) {
	if b.log == nil {
		return
	}
	b.log.WithError(err).Error("eventbus: handler failed")
}
