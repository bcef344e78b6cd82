// Command notifier drains the outbound email queue and hands each job to
// the mail service over HTTP.  It runs next to the API when NOTIFY_MODE is
// "amqp".
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/tourist-event-booking/internal/config"
	"github.com/iliyamo/tourist-event-booking/internal/notify"
	"github.com/iliyamo/tourist-event-booking/internal/queue"
)

func main() {
	// Only the notify settings are needed here, so the database and JWT
	// variables the API requires are not enforced.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("notifier: .env not loaded: %v", err)
	}
	cfg := config.LoadNotifyConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{
		URL:     cfg.AMQPURL,
		Queue:   cfg.Queue,
		Sender:  notify.NewMailClient(cfg.EmailServiceURL),
		Timeout: 15 * time.Second,
	}
	log.Printf("notifier: consuming %q -> %s", cfg.Queue, cfg.EmailServiceURL)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("notifier: %v", err)
	}
	log.Printf("notifier: stopped")
}
