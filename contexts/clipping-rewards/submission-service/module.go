package submissionservice

import (
	"log/slog"
	"time"

	httpadapter "cliprewards/contexts/clipping-rewards/submission-service/adapters/http"
	"cliprewards/contexts/clipping-rewards/submission-service/adapters/memory"
	"cliprewards/contexts/clipping-rewards/submission-service/application/commands"
	"cliprewards/contexts/clipping-rewards/submission-service/application/queries"
	"cliprewards/contexts/clipping-rewards/submission-service/application/workers"
	"cliprewards/contexts/clipping-rewards/submission-service/ports"
)

type Module struct {
	Handler       httpadapter.Handler
	Reconcile     workers.ReconcileJob
	OutboxRelay   workers.OutboxRelay
	ApprovalAudit workers.ApprovalAuditConsumer
	Store         *memory.Store
}

type Dependencies struct {
	Repository           ports.Repository
	Campaigns            ports.CampaignReader
	Credentials          ports.CredentialStore
	Views                ports.ViewSource
	Clock                ports.Clock
	IDGen                ports.IDGenerator
	Outbox               ports.OutboxWriter
	OutboxRepository     ports.OutboxRepository
	Publisher            ports.EventPublisher
	Subscriber           ports.EventSubscriber
	ReconcileBatchSize   int
	ReconcileConcurrency int
	FetchTimeout         time.Duration
	ReconcileDisabled    bool
	OutboxRelayDisabled  bool
	Logger               *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createSubmission := commands.CreateSubmissionUseCase{
		Repository:  deps.Repository,
		Campaigns:   deps.Campaigns,
		Credentials: deps.Credentials,
		Views:       deps.Views,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Outbox:      deps.Outbox,
		Logger:      deps.Logger,
	}
	rejectSubmission := commands.RejectSubmissionUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Outbox:     deps.Outbox,
		Logger:     deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Repository: deps.Repository,
		Campaigns:  deps.Campaigns,
		Logger:     deps.Logger,
	}
	reconcile := workers.ReconcileJob{
		Repository:   deps.Repository,
		Credentials:  deps.Credentials,
		Views:        deps.Views,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		Outbox:       deps.Outbox,
		BatchSize:    deps.ReconcileBatchSize,
		Concurrency:  deps.ReconcileConcurrency,
		FetchTimeout: deps.FetchTimeout,
		Disabled:     deps.ReconcileDisabled,
		Logger:       deps.Logger,
	}

	module := Module{
		Handler: httpadapter.Handler{
			CreateSubmission: createSubmission,
			RejectSubmission: rejectSubmission,
			Reconcile:        reconcile,
			Queries:          queryUseCase,
			Logger:           deps.Logger,
		},
		Reconcile: reconcile,
		ApprovalAudit: workers.ApprovalAuditConsumer{
			Events: deps.Subscriber,
			Logger: deps.Logger,
		},
	}
	if deps.OutboxRepository != nil && deps.Publisher != nil {
		module.OutboxRelay = workers.OutboxRelay{
			Outbox:    deps.OutboxRepository,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			BatchSize: deps.ReconcileBatchSize,
			Disabled:  deps.OutboxRelayDisabled,
			Logger:    deps.Logger,
		}
	}
	return module
}

// NewInMemoryModule wires the module on the in-memory store. Callers seed
// campaigns through module.Store before serving requests.
func NewInMemoryModule(deps Dependencies) Module {
	store := memory.NewStore()
	deps.Repository = store
	if deps.Campaigns == nil {
		deps.Campaigns = store
	}
	deps.Outbox = store
	deps.OutboxRepository = store
	if deps.Clock == nil {
		deps.Clock = memory.SystemClock{}
	}
	if deps.IDGen == nil {
		deps.IDGen = memory.UUIDGenerator{}
	}
	module := NewModule(deps)
	module.Store = store
	return module
}
