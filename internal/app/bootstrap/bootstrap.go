package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	campaignservice "cliprewards/contexts/clipping-rewards/campaign-service"
	campaignpostgres "cliprewards/contexts/clipping-rewards/campaign-service/adapters/postgres"
	platformgateway "cliprewards/contexts/clipping-rewards/platform-gateway"
	submissionservice "cliprewards/contexts/clipping-rewards/submission-service"
	submissionpostgres "cliprewards/contexts/clipping-rewards/submission-service/adapters/postgres"
	submissionworkers "cliprewards/contexts/clipping-rewards/submission-service/application/workers"
	submissionports "cliprewards/contexts/clipping-rewards/submission-service/ports"
	walletservice "cliprewards/contexts/finance-core/wallet-service"
	walletpostgres "cliprewards/contexts/finance-core/wallet-service/adapters/postgres"
	connectedaccounts "cliprewards/contexts/identity-access/connected-accounts"
	accountpostgres "cliprewards/contexts/identity-access/connected-accounts/adapters/postgres"
	accountapp "cliprewards/contexts/identity-access/connected-accounts/application"
	"cliprewards/internal/platform/config"
	"cliprewards/internal/platform/db"
	"cliprewards/internal/platform/httpserver"
	"cliprewards/internal/platform/messaging"
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
	reconcile     submissionworkers.ReconcileJob
	outboxRelay   submissionworkers.OutboxRelay
	approvalAudit submissionworkers.ApprovalAuditConsumer
	pollInterval  time.Duration
	logger        *slog.Logger
}

// credentialBridge adapts the connected-accounts service to the credential
// port the reconciliation engine consumes.
type credentialBridge struct {
	accounts accountapp.Service
}

func (b credentialBridge) ResolveAccount(ctx context.Context, userID string, platform string) (submissionports.ConnectedAccountRef, error) {
	account, err := b.accounts.GetAccount(ctx, userID, platform)
	if err != nil {
		return submissionports.ConnectedAccountRef{}, err
	}
	return submissionports.ConnectedAccountRef{
		AccountID: account.AccountID,
		Active:    account.Active(),
	}, nil
}

func (b credentialBridge) AccessToken(ctx context.Context, userID string, platform string) (string, error) {
	return b.accounts.AccessToken(ctx, userID, platform)
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

	submissions, accounts, campaigns, wallet, _, err := buildModules(cfg, pg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	server := httpserver.New(
		submissions,
		campaigns,
		wallet,
		accounts.Admins,
		cfg.ReconcileSecret,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
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

	submissions, _, _, _, _, err := buildModules(cfg, pg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	return &WorkerApp{
		postgres:      pg,
		reconcile:     submissions.Reconcile,
		outboxRelay:   submissions.OutboxRelay,
		approvalAudit: submissions.ApprovalAudit,
		pollInterval:  cfg.WorkerPollInterval,
		logger:        logger,
	}, nil
}

func buildModules(
	cfg config.Config,
	pg *db.Postgres,
	logger *slog.Logger,
) (
	submissionservice.Module,
	connectedaccounts.Module,
	campaignservice.Module,
	walletservice.Module,
	*messaging.Kafka,
	error,
) {
	sealer, err := accountapp.NewAESSealer(cfg.CredentialKeyHex)
	if err != nil {
		return submissionservice.Module{}, connectedaccounts.Module{}, campaignservice.Module{},
			walletservice.Module{}, nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return submissionservice.Module{}, connectedaccounts.Module{}, campaignservice.Module{},
			walletservice.Module{}, nil, err
	}

	accounts := connectedaccounts.NewModule(connectedaccounts.Dependencies{
		Repository:   accountpostgres.NewRepository(pg.DB, logger),
		Sealer:       sealer,
		Clock:        accountpostgres.SystemClock{},
		IDGen:        accountpostgres.UUIDGenerator{},
		AdminUserIDs: cfg.AdminUserIDs,
		Logger:       logger,
	})

	gateway := platformgateway.NewRegistry(platformgateway.Config{
		YouTubeAPIKey: cfg.YouTubeAPIKey,
		Timeout:       cfg.FetchTimeout,
		Logger:        logger,
	})

	campaigns := campaignservice.NewModule(campaignservice.Dependencies{
		Repository: campaignpostgres.NewRepository(pg.DB, logger),
		Platforms:  gateway,
		Clock:      campaignpostgres.SystemClock{},
		IDGen:      campaignpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	submissionRepo := submissionpostgres.NewRepository(pg.DB, logger)
	submissions := submissionservice.NewModule(submissionservice.Dependencies{
		Repository:           submissionRepo,
		Campaigns:            submissionRepo,
		Credentials:          credentialBridge{accounts: accounts.Service},
		Views:                gateway,
		Clock:                submissionpostgres.SystemClock{},
		IDGen:                submissionpostgres.UUIDGenerator{},
		Outbox:               submissionRepo,
		OutboxRepository:     submissionRepo,
		Publisher:            kafka,
		Subscriber:           kafka,
		ReconcileBatchSize:   cfg.ReconcileBatchSize,
		ReconcileConcurrency: cfg.ReconcileConcurrency,
		FetchTimeout:         cfg.FetchTimeout,
		ReconcileDisabled:    !cfg.EnableReconcileJob,
		OutboxRelayDisabled:  !cfg.EnableOutboxRelay,
		Logger:               logger,
	})

	wallet := walletservice.NewModule(walletservice.Dependencies{
		Repository: walletpostgres.NewRepository(pg.DB, logger),
		Logger:     logger,
	})

	return submissions, accounts, campaigns, wallet, kafka, nil
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
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	if err := w.approvalAudit.Start(ctx); err != nil {
		return err
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		// A failed cycle is logged inside the job and retried next tick;
		// only candidate enumeration failures surface here and still keep
		// the loop alive.
		if _, err := w.reconcile.RunOnce(ctx); err != nil {
			w.logger.Error("reconcile cycle failed",
				"event", "worker_reconcile_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			w.logger.Error("outbox relay cycle failed",
				"event", "worker_outbox_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
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
