package connectedaccounts

import (
	"log/slog"

	"cliprewards/contexts/identity-access/connected-accounts/adapters/memory"
	"cliprewards/contexts/identity-access/connected-accounts/application"
	"cliprewards/contexts/identity-access/connected-accounts/ports"
)

type Module struct {
	Service application.Service
	Admins  ports.AdminDirectory
	Store   *memory.Store
}

type Dependencies struct {
	Repository   ports.Repository
	Sealer       ports.TokenSealer
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	AdminUserIDs []string
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Repository: deps.Repository,
			Sealer:     deps.Sealer,
			Clock:      deps.Clock,
			IDGen:      deps.IDGen,
			Logger:     deps.Logger,
		},
		Admins: application.NewStaticAdminDirectory(deps.AdminUserIDs),
	}
}

func NewInMemoryModule(deps Dependencies) Module {
	store := memory.NewStore()
	deps.Repository = store
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
