package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Event is a published message.
type Event struct {
	Topic   Topic
	Payload any
	Time    time.Time
}

// HandlerFunc handles a delivered event.
type HandlerFunc func(ctx context.Context, ev Event) error

// Bus delivers events synchronously to matching subscriptions.
//
// Bus is safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	subs []*Subscription

	onError func(error)
	now     func() time.Time
}

// Option configures a Bus.
type Option func(*Bus)

// WithErrorHandler sets the hook that receives handler errors and
// recovered panics as *HandlerError.
func WithErrorHandler(fn func(error)) Option {
	return func(b *Bus) {
		b.onError = fn
	}
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBus creates a new event bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		onError: func(error) {},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn for every topic matching pattern.
func (b *Bus) Subscribe(pattern Topic, fn HandlerFunc) (*Subscription, error) {
	if !pattern.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}
	if fn == nil {
		return nil, ErrNilHandler
	}

	sub := newSubscription(b, pattern, fn)

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return sub, nil
}

// Publish delivers payload to every active subscription matching topic.
// Handler errors do not stop delivery to later subscribers.
func (b *Bus) Publish(ctx context.Context, topic Topic, payload any) error {
	if !topic.Valid() || topic.IsPattern() {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, topic)
	}

	ev := Event{Topic: topic, Payload: payload, Time: b.now()}
	for _, sub := range b.match(topic) {
		if !sub.IsActive() {
			continue
		}
		if err := sub.deliver(ctx, ev); err != nil {
			b.onError(err)
		}
	}
	return nil
}

// Count returns the number of registered subscriptions.
func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) match(topic Topic) []*Subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*Subscription
	for _, sub := range b.subs {
		if topic.Matches(sub.pattern) {
			out = append(out, sub)
		}
	}
	return out
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}
