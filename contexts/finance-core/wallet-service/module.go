package walletservice

import (
	"log/slog"

	httpadapter "cliprewards/contexts/finance-core/wallet-service/adapters/http"
	"cliprewards/contexts/finance-core/wallet-service/adapters/memory"
	"cliprewards/contexts/finance-core/wallet-service/application/queries"
	"cliprewards/contexts/finance-core/wallet-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Queries: queries.QueryUseCase{
				Repository: deps.Repository,
				Logger:     deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
