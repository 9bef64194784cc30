package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/twmb/franz-go/pkg/kgo"

	"filingcontrol/internal/assessment"
	assessmenthandler "filingcontrol/internal/assessment/handler"
	assessmentmetrics "filingcontrol/internal/assessment/metrics"
	"filingcontrol/internal/compliance"
	compliancehandler "filingcontrol/internal/compliance/handler"
	"filingcontrol/internal/jwttoken"
	"filingcontrol/internal/monitor"
	monitorhandler "filingcontrol/internal/monitor/handler"
	monitormetrics "filingcontrol/internal/monitor/metrics"
	"filingcontrol/internal/notification"
	"filingcontrol/internal/notification/dispatch"
	notificationhandler "filingcontrol/internal/notification/handler"
	"filingcontrol/internal/platform/config"
	"filingcontrol/internal/platform/httpserver"
	"filingcontrol/internal/platform/logger"
	platformmetrics "filingcontrol/internal/platform/metrics"
	platformredis "filingcontrol/internal/platform/redis"
	httptransport "filingcontrol/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	stores, cleanup, err := buildStores(cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	runLock, redisClose := buildRunLock(cfg, log)
	defer redisClose()

	assessmentSvc := assessment.NewService(stores.users, stores.entities, stores.assessments, log)
	complianceSvc := compliance.NewService(stores.states, stores.entities, log)
	notificationSvc := notification.NewService(stores.events, stores.entities, log)
	monitorSvc := monitor.NewService(stores.entities, stores.assessments, stores.states,
		stores.events, runLock, log, monitormetrics.New())

	handlers := httptransport.Handlers{
		Assessment:   assessmenthandler.New(assessmentSvc, log, assessmentmetrics.New()),
		Compliance:   compliancehandler.New(complianceSvc, log),
		Notification: notificationhandler.New(notificationSvc, log),
		Monitor:      monitorhandler.New(monitorSvc, log, cfg.MonitorSecret),
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "filingcontrol", "filingcontrol-api")
	router := httptransport.NewRouter(handlers, jwttoken.NewJWTServiceAdapter(jwtService),
		log, platformmetrics.New())

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopDispatcher := startDispatcher(rootCtx, cfg, stores.events, log)
	defer stopDispatcher()

	srv := httpserver.New(cfg.Addr, router)
	go func() {
		log.Info("starting filingcontrol", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-rootCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// storeSet bundles the persistence layer behind one wiring decision:
// Postgres when DATABASE_URL is set, in-memory otherwise.
type storeSet struct {
	users       assessment.UserStore
	entities    assessment.EntityStore
	assessments assessment.Store
	states      compliance.StateStore
	events      notification.Store
}

func buildStores(cfg config.Server, log *slog.Logger) (*storeSet, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		return &storeSet{
			users:       assessment.NewInMemoryUserStore(),
			entities:    assessment.NewInMemoryEntityStore(),
			assessments: assessment.NewInMemoryAssessmentStore(),
			states:      compliance.NewInMemoryStateStore(),
			events:      notification.NewInMemoryStore(),
		}, func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	return &storeSet{
		users:       assessment.NewPostgresUserStore(db),
		entities:    assessment.NewPostgresEntityStore(db),
		assessments: assessment.NewPostgresAssessmentStore(db),
		states:      compliance.NewPostgresStateStore(db),
		events:      notification.NewPostgresStore(db),
	}, func() { db.Close() }, nil
}

func buildRunLock(cfg config.Server, log *slog.Logger) (monitor.RunLock, func()) {
	client, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable, falling back to in-process run lock", "error", err)
		return monitor.NoopRunLock{}, func() {}
	}
	if client == nil {
		log.Warn("REDIS_URL not set, monitor runs are not serialized across instances")
		return monitor.NoopRunLock{}, func() {}
	}
	return monitor.NewRedisRunLock(client.Client), func() { client.Close() }
}

func startDispatcher(ctx context.Context, cfg config.Server, events notification.Store, log *slog.Logger) func() {
	if len(cfg.KafkaSeeds) == 0 || cfg.DispatchInterval <= 0 {
		log.Warn("KAFKA_SEEDS not set, notification dispatch disabled")
		return func() {}
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.KafkaSeeds...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		log.Error("kafka unavailable, notification dispatch disabled", "error", err)
		return func() {}
	}

	dispatcher := dispatch.New(events, client, log)
	go func() {
		if err := dispatcher.Run(ctx, cfg.DispatchInterval); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("notification dispatcher stopped", "error", err)
		}
	}()
	return client.Close
}
