// Package event provides a small synchronous publish/subscribe bus.
//
// Topics are dot separated ("buffer.changed", "find.status"). Subscription
// patterns may use "*" to match exactly one segment and "**" to match zero
// or more segments:
//
//	bus := event.NewBus()
//
//	sub, _ := bus.Subscribe("find.*", func(ctx context.Context, ev event.Event) error {
//	    fmt.Println(ev.Topic, ev.Payload)
//	    return nil
//	})
//	defer sub.Cancel()
//
//	bus.Publish(ctx, "find.status", status)
//
// Handlers run on the publishing goroutine in subscription order. A panic in
// a handler is recovered and reported, with any handler error, to the
// error hook configured with WithErrorHandler.
package event
