package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nats-io/nats.go"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/scm/dashboard-gateway/internal/api"
	"github.com/scm/dashboard-gateway/internal/api/metrics"
	"github.com/scm/dashboard-gateway/internal/core/access"
	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/notification"
	"github.com/scm/dashboard-gateway/internal/core/ports"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
	"github.com/scm/dashboard-gateway/internal/core/service"
	mongostore "github.com/scm/dashboard-gateway/internal/infrastructure/db/mongo"
	redisstore "github.com/scm/dashboard-gateway/internal/infrastructure/db/redis"
	"github.com/scm/dashboard-gateway/internal/infrastructure/queue"
	"github.com/scm/dashboard-gateway/internal/infrastructure/remote"
	"github.com/scm/dashboard-gateway/internal/infrastructure/stream"
	"github.com/scm/dashboard-gateway/internal/pkg/config"
	"github.com/scm/dashboard-gateway/pkg/logger"
)

const (
	shutdownTimeout   = 10 * time.Second
	demoAlertInterval = 2 * time.Minute

	cacheSweepInterval = time.Minute
	cacheIdleTimeout   = 10 * time.Minute
)

// App owns every long-lived component of the gateway.
type App struct {
	cfg *config.Config
	log zerolog.Logger

	cache      *querysync.Client
	echo       *echo.Echo
	dispatcher *queue.Dispatcher
	subscriber *stream.Subscriber
	demo       *remote.Demo

	mongoClient *mongo.Client
	redis       *goredis.Client
	nats        *nats.Conn
}

// NewApp connects the configured backends and wires the services. Redis,
// MongoDB and NATS are optional.
func NewApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	var (
		tokens ports.TokenStore
		dedup  service.DedupChecker
		audit  ports.AuditRepository
		infra  api.Infra
	)

	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			ClientName: appName,
		})
		if err != nil {
			return nil, err
		}
		a.redis = rdb
		infra.Redis = rdb
		tokens = redisstore.NewTokenStore(rdb)
		dedup = redisstore.NewDedupChecker(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	} else {
		log.Warn().Msg("REDIS_ADDR not set: logout revocation and push dedup disabled")
	}

	if cfg.Mongo.URI != "" {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  appName,
		})
		if err != nil {
			return nil, err
		}
		a.mongoClient = client
		infra.Mongo = db
		repo := mongostore.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		audit = repo
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
	} else {
		log.Warn().Msg("MONGO_URI not set: audit trail disabled")
	}

	var backend ports.RemoteAPI
	if cfg.DemoMode {
		demo, err := remote.NewDemo(cfg.JWTSecret)
		if err != nil {
			return nil, err
		}
		a.demo = demo
		backend = demo
		log.Warn().Msg("demo mode: serving in-memory data")
	} else {
		backend = remote.NewClient(remote.Config{BaseURL: cfg.Remote.URL, Timeout: cfg.Remote.Timeout}, log)
	}

	a.cache = querysync.New(logger.Component("querysync"), metrics.Recorder{})
	stores := notification.NewRegistry()
	policies := service.DefaultPolicies(cfg.SystemStatusPoll)

	notifications := service.NewNotificationService(backend, a.cache, stores, policies, audit, log)
	svc := api.Services{
		Auth:          service.NewAuthService(backend, tokens, stores, a.cache, cfg.JWTSecret, log),
		Dashboard:     service.NewDashboardService(backend, a.cache, policies),
		Indicators:    service.NewIndicatorService(backend, a.cache, policies),
		Simulations:   service.NewSimulationService(backend, a.cache, policies, audit, log),
		Notifications: notifications,
		Users:         service.NewUserService(backend, a.cache, policies, audit, log),
		System:        service.NewSystemService(backend, a.cache, policies),
	}

	events := service.NewEventService(notifications, a.cache, dedup, metrics.Recorder{}, log)
	a.dispatcher = queue.NewDispatcher(cfg.DispatchWorkers, events, logger.Component("dispatcher"))
	metrics.RegisterQueueDepth(a.dispatcher.Depth)

	if cfg.NATS.URL != "" {
		streamCfg := stream.Config{
			URL:     cfg.NATS.URL,
			Subject: cfg.NATS.Subject,
			Queue:   cfg.NATS.Queue,
			Name:    appName,
		}
		nc, err := stream.Connect(streamCfg, log)
		if err != nil {
			return nil, err
		}
		a.nats = nc
		infra.NATS = nc
		a.subscriber = stream.NewSubscriber(nc, streamCfg, a.dispatcher, log)
	} else {
		log.Warn().Msg("NATS_URL not set: push channel disabled")
	}

	a.echo = api.NewRouter(svc, access.DefaultTable(), infra, log)
	ok = true
	return a, nil
}

// Run serves HTTP and the push pipeline until ctx is cancelled, then shuts
// the server down and waits for the workers.
func (a *App) Run(ctx context.Context) error {
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	a.dispatcher.Start(workerCtx)
	a.cache.StartJanitor(cacheSweepInterval, cacheIdleTimeout)

	if a.subscriber != nil {
		if err := a.subscriber.Start(workerCtx); err != nil {
			return err
		}
	}
	if a.demo != nil {
		go a.runDemoAlerts(workerCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.Port).Str("env", a.cfg.Env).Msg("gateway listening")
		if err := a.echo.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
		a.log.Error().Err(serveErr).Msg("http server stopped")
	}

	// Open status streams only end with their watches.
	a.cache.StopWatches()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.echo.Shutdown(shutdownCtx); err != nil {
		a.log.Warn().Err(err).Msg("http shutdown")
	}

	// Drain the subscriber before stopping the workers it feeds.
	if a.subscriber != nil {
		if err := a.subscriber.Close(); err != nil {
			a.log.Warn().Err(err).Msg("nats drain")
		}
	}
	stopWorkers()
	a.dispatcher.Wait()

	a.log.Info().Msg("gateway stopped")
	return serveErr
}

// Close releases the cache client and backend connections. Safe on a
// partially built App.
func (a *App) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
	if a.nats != nil {
		a.nats.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("redis close")
		}
	}
	if a.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}
}

// runDemoAlerts plays the backend's part in demo mode: it adds a notification
// to the admin feed and pushes it through the dispatcher.
func (a *App) runDemoAlerts(ctx context.Context) {
	alerts := []struct {
		kind  domain.NotificationKind
		title string
		body  string
	}{
		{domain.KindWarning, "Congestion rising", "Average speed on the ring road dropped below 20 km/h."},
		{domain.KindInfo, "Tram schedule updated", "Line 3 runs every 6 minutes until 20:00."},
		{domain.KindError, "Sensor offline", "Counting station 14 stopped reporting."},
		{domain.KindSuccess, "Simulation finished", "The weekly traffic flow model completed."},
	}

	ticker := time.NewTicker(demoAlertInterval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		alert := alerts[i%len(alerts)]
		n := a.demo.Notify(remote.DemoAccounts[0].Username, alert.kind, alert.title, alert.body)
		err := a.dispatcher.Enqueue(ctx, ports.PushEvent{
			Type:         ports.PushNotification,
			User:         remote.DemoAccounts[0].Username,
			Notification: &n,
		})
		if err != nil && ctx.Err() == nil {
			a.log.Warn().Err(err).Msg("demo alert not enqueued")
		}
	}
}
