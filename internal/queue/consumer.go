package queue

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/tourist-event-booking/internal/notify"
)

// Consumer drains the email queue into a notify.Sender (the HTTP mail
// client in cmd/notifier).
type Consumer struct {
    URL     string
    Queue   string
    Sender  notify.Sender
    Timeout time.Duration
}

// Run connects, consumes and reconnects with exponential backoff until
// ctx is cancelled.  It returns ctx.Err() on shutdown.
func (c *Consumer) Run(ctx context.Context) error {
    if c.Queue == "" {
        c.Queue = DefaultQueue
    }
    if c.Timeout <= 0 {
        c.Timeout = 15 * time.Second
    }

    backoff := time.Second
    for {
        if err := ctx.Err(); err != nil {
            return err
        }
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            log.Printf("email-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Printf("email-consumer: consume loop ended: %v; reconnecting", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(10, 0, false); err != nil {
        log.Printf("email-consumer: set QoS failed: %v", err)
    }
    if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            c.deliver(ctx, d)
        }
    }
}

// acker is the part of amqp.Delivery the consumer uses.
type acker interface {
    Ack(multiple bool) error
    Nack(multiple, requeue bool) error
}

func (c *Consumer) deliver(ctx context.Context, d amqp.Delivery) {
    c.handle(ctx, d.Body, d.Redelivered, d)
}

// handle sends one job.  Malformed jobs are dropped.  A failed send is
// requeued once and dropped after the redelivery also fails.
func (c *Consumer) handle(ctx context.Context, body []byte, redelivered bool, a acker) {
    job, err := decodeJob(body)
    if err != nil {
        log.Printf("email-consumer: drop message: %v", err)
        _ = a.Nack(false, false)
        return
    }
    sctx, cancel := context.WithTimeout(ctx, c.Timeout)
    defer cancel()
    if err := c.Sender.Send(sctx, job.Email); err != nil {
        log.Printf("email-consumer: job %s to %s failed: %v", job.ID, job.Email.To, err)
        _ = a.Nack(false, !redelivered)
        return
    }
    _ = a.Ack(false)
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
