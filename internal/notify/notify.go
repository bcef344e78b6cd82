// Package notify sends transactional emails outside the request path.
// Callers hand an Email to the Dispatcher and return immediately; the
// configured Sender runs on its own goroutine and failures are only logged.
package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Email is the payload understood by the email service.
type Email struct {
	To      string `json:"email"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// Sender delivers one email.  Implementations: queue.Publisher (enqueue
// for cmd/notifier) and MailClient (direct HTTP call).
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, e Email) error

func (f SenderFunc) Send(ctx context.Context, e Email) error { return f(ctx, e) }

// Dispatcher runs sends in the background with a per-send timeout.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher returns a Dispatcher using sender.  A nil sender turns
// Dispatch into a no-op.
func NewDispatcher(sender Sender, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{sender: sender, timeout: timeout}
}

// Dispatch schedules e for delivery and returns without waiting.  The
// send does not inherit any request context so it survives the response.
func (d *Dispatcher) Dispatch(e Email) {
	if d == nil || d.sender == nil || e.To == "" {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("notify: sender panic: %v", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.sender.Send(ctx, e); err != nil {
			log.Printf("notify: send %q to %s failed: %v", e.Subject, e.To, err)
		}
	}()
}

// Wait blocks until in-flight sends finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Welcome is sent after a successful signup.
func Welcome(to, name string) Email {
	return Email{
		To:      to,
		Subject: "Welcome aboard",
		Content: fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now sign in and start exploring events.", name),
	}
}

// BookingConfirmation is sent after a booking commits.
func BookingConfirmation(to, name, eventName string, tickets int, amount int64) Email {
	return Email{
		To:      to,
		Subject: "Booking confirmed: " + eventName,
		Content: fmt.Sprintf("Hi %s,\n\nYour booking for %s is confirmed.\nTickets: %d\nAmount paid: %d\n",
			name, eventName, tickets, amount),
	}
}
