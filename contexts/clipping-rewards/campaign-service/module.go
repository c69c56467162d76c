package campaignservice

import (
	"log/slog"

	httpadapter "cliprewards/contexts/clipping-rewards/campaign-service/adapters/http"
	"cliprewards/contexts/clipping-rewards/campaign-service/adapters/memory"
	"cliprewards/contexts/clipping-rewards/campaign-service/application/commands"
	"cliprewards/contexts/clipping-rewards/campaign-service/application/queries"
	"cliprewards/contexts/clipping-rewards/campaign-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Platforms  ports.PlatformCatalog
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createCampaign := commands.CreateCampaignUseCase{
		Repository: deps.Repository,
		Platforms:  deps.Platforms,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	changeStatus := commands.ChangeStatusUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateCampaign: createCampaign,
			ChangeStatus:   changeStatus,
			Queries:        queryUseCase,
			Logger:         deps.Logger,
		},
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
