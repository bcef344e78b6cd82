package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"                   // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // stock echo middleware
	"github.com/labstack/gommon/log"                // echo's logger

	"github.com/iliyamo/tourist-event-booking/internal/config"     // env config loader
	"github.com/iliyamo/tourist-event-booking/internal/database"   // MySQL connection + schema
	"github.com/iliyamo/tourist-event-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/tourist-event-booking/internal/middleware" // cache, rate limit
	"github.com/iliyamo/tourist-event-booking/internal/notify"     // async email dispatch
	"github.com/iliyamo/tourist-event-booking/internal/queue"      // RabbitMQ publisher
	"github.com/iliyamo/tourist-event-booking/internal/repository" // stores
	"github.com/iliyamo/tourist-event-booking/internal/router"     // route registration
	"github.com/iliyamo/tourist-event-booking/internal/service"    // business rules
)

func main() {
	cfg := config.Load() // Load environment config

	e := echo.New()
	e.HideBanner = true
	if cfg.Env == "prod" {
		e.Logger.SetLevel(log.INFO)
	} else {
		e.Logger.SetLevel(log.DEBUG)
	}
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Validator = handler.NewValidator()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		e.Logger.Fatalf("db: %v", err)
	}
	defer db.Close()
	if cfg.DBMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			e.Logger.Fatalf("db migrate: %v", err)
		}
		e.Logger.Info("db: schema applied")
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		e.Logger.Warnf("redis unavailable at %s: catalog cache off, rate limiting per process", cfg.Redis.Addr)
	} else {
		defer rdb.Close()
	}

	// Outbound email: straight to the mail service, or through RabbitMQ
	// for cmd/notifier to deliver.
	var sender notify.Sender
	var publisher *queue.Publisher
	switch cfg.Notify.Mode {
	case "amqp":
		publisher = queue.NewPublisher(cfg.Notify.AMQPURL, cfg.Notify.Queue)
		sender = publisher
	case "http":
		sender = notify.NewMailClient(cfg.Notify.EmailServiceURL)
	case "off":
	default:
		e.Logger.Warnf("unknown NOTIFY_MODE %q, emails disabled", cfg.Notify.Mode)
	}
	dispatcher := notify.NewDispatcher(sender, 10*time.Second)
	purger := middleware.NewCacheInvalidator(cfg.Cache, rdb)

	users := repository.NewUserRepo(db)
	events := repository.NewEventRepo(db)
	bookings := repository.NewBookingRepo(db)

	authSvc := service.NewAuthService(users, dispatcher, cfg.JWTSecret, cfg.TokenTTLMin, cfg.BcryptCost)
	bookingSvc := service.NewBookingService(users, bookings, dispatcher, purger)
	eventSvc := service.NewEventService(events, purger)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				c.Logger().Infof("%s %s %d %s id=%s ip=%s err=%v", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.RemoteIP, v.Error)
				return nil
			}
			c.Logger().Infof("%s %s %d %s id=%s ip=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.RemoteIP)
			return nil
		},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.NewTokenBucket(cfg.RateLimit, rdb))

	authH := handler.NewAuthHandler(authSvc)
	eventH := handler.NewEventHandler(eventSvc)
	router.RegisterRoutes(e, handler.Health(db), eventH, authH, middleware.NewRedisCache(cfg.Cache, rdb))
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterTourist(e, handler.NewBookingHandler(bookingSvc), cfg.JWTSecret)
	router.RegisterBusiness(e, eventH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	e.Logger.Infof("listening on %s (env=%s, notify=%s)", addr, cfg.Env, cfg.Notify.Mode)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Errorf("shutdown: %v", err)
	}
	if err := dispatcher.Wait(ctx); err != nil {
		e.Logger.Warnf("pending emails not sent: %v", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			e.Logger.Warnf("amqp close: %v", err)
		}
	}
}
