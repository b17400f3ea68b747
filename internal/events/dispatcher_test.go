package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherInvokesSubscribedHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var created, updated int
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		created++
		return nil
	})
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		created++
		return nil
	})
	d.Subscribe(EventTicketUpdated, func(ctx context.Context, e Event) error {
		updated++
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCreated}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if created != 2 {
		t.Errorf("created handlers invoked %d times, want 2", created)
	}
	if updated != 0 {
		t.Errorf("updated handler invoked for a created event")
	}
}

func TestDispatcherJoinsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()

	boom := errors.New("boom")
	var after int
	d.Subscribe(EventTicketAssigned, func(ctx context.Context, e Event) error {
		return boom
	})
	d.Subscribe(EventTicketAssigned, func(ctx context.Context, e Event) error {
		after++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketAssigned})
	if !errors.Is(err, boom) {
		t.Fatalf("Publish error = %v, want wrapped boom", err)
	}
	if after != 1 {
		t.Errorf("handler after the failing one did not run")
	}
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	if err := d.Publish(context.Background(), Event{Type: EventUserRegistered}); err != nil {
		t.Fatalf("Publish with no subscribers: %v", err)
	}
}
