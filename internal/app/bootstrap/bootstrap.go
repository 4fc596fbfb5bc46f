package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	electionengine "suffrage/contexts/election-lifecycle/election-engine"
	electionpostgres "suffrage/contexts/election-lifecycle/election-engine/adapters/postgres"
	electionworkers "suffrage/contexts/election-lifecycle/election-engine/application/workers"
	accesscontrol "suffrage/contexts/identity-access/access-control"
	accesspostgres "suffrage/contexts/identity-access/access-control/adapters/postgres"
	accessworkers "suffrage/contexts/identity-access/access-control/application/workers"
	accessentities "suffrage/contexts/identity-access/access-control/domain/entities"
	contractsv1 "suffrage/contracts/gen/events/v1"
	"suffrage/internal/platform/config"
	"suffrage/internal/platform/db"
	"suffrage/internal/platform/httpserver"
	"suffrage/internal/platform/messaging"
	"suffrage/internal/shared/events"
	"suffrage/internal/shared/outbox"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	accessRelay   accessworkers.OutboxRelay
	electionRelay electionworkers.OutboxRelay
	relayAccess   bool
	relayElection bool
	policy        outbox.RelayPolicy
	logger        *slog.Logger
}

// topicRouter maps event types onto context topics before handing envelopes
// to the bus. Relay workers pass the event type as the publish key.
type topicRouter struct {
	bus *messaging.Kafka
}

func (t topicRouter) Publish(ctx context.Context, eventType string, event contractsv1.Envelope) error {
	return t.bus.Publish(ctx, events.TopicFor(eventType), event)
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	accessRepo := accesspostgres.NewRepository(pg.DB, logger)
	accessModule := accesscontrol.NewModule(accesscontrol.Dependencies{
		Repository: accessRepo,
		Outbox:     accessRepo,
		IDGen:      accesspostgres.UUIDGenerator{},
		Logger:     logger,
	})

	if err := seedSuperAdmin(context.Background(), cfg, accessRepo, logger); err != nil {
		_ = pg.Close()
		return nil, err
	}

	electionRepo := electionpostgres.NewRepository(pg.DB, logger)
	engineModule := electionengine.NewModule(electionengine.Dependencies{
		Elections:     electionRepo,
		Candidates:    electionRepo,
		Registrations: electionRepo,
		Ballots:       electionRepo,
		Access:        electionRepo,
		Outbox:        electionRepo,
		IDGen:         electionpostgres.UUIDGenerator{},
		Logger:        logger,
	})

	server := httpserver.New(accessModule, engineModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	router := topicRouter{bus: kafka}
	policy := outbox.DefaultRelayPolicy()

	accessRepo := accesspostgres.NewRepository(pg.DB, logger)
	electionRepo := electionpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		accessRelay: accessworkers.OutboxRelay{
			Outbox:    accessRepo,
			Publisher: router,
			Clock:     accesspostgres.SystemClock{},
			BatchSize: policy.BatchSize,
			Logger:    logger,
		},
		electionRelay: electionworkers.OutboxRelay{
			Outbox:    electionRepo,
			Publisher: router,
			Clock:     electionpostgres.SystemClock{},
			BatchSize: policy.BatchSize,
			Logger:    logger,
		},
		relayAccess:   cfg.EnableAccessOutboxRelay,
		relayElection: cfg.EnableElectionOutboxRelay,
		policy:        policy,
		logger:        logger,
	}, nil
}

// seedSuperAdmin grants super_admin to the configured bootstrap principal.
// The grant is idempotent, so restarting does not duplicate it.
func seedSuperAdmin(ctx context.Context, cfg config.Config, repo *accesspostgres.Repository, logger *slog.Logger) error {
	principal := strings.TrimSpace(cfg.BootstrapSuperAdmin)
	if principal == "" {
		return nil
	}
	err := repo.SaveGrant(ctx, accessentities.RoleGrant{
		Role:      accessentities.RoleSuperAdmin,
		Principal: principal,
		GrantedBy: "bootstrap",
		GrantedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	logger.Info("bootstrap super admin ensured",
		"event", "bootstrap_super_admin_ensured",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"principal", principal,
	)
	return nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.policy.Interval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.policy.Interval.String(),
	)

	for {
		if w.relayAccess {
			if err := w.accessRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.relayElection {
			if err := w.electionRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
