package accesscontrol

import (
	"log/slog"

	httpadapter "suffrage/contexts/identity-access/access-control/adapters/http"
	"suffrage/contexts/identity-access/access-control/adapters/memory"
	"suffrage/contexts/identity-access/access-control/application/commands"
	"suffrage/contexts/identity-access/access-control/application/queries"
	"suffrage/contexts/identity-access/access-control/ports"
)

// Module is the access-control composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Checks  queries.CheckRoleUseCase
	Store   *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Repository ports.Repository
	Outbox     ports.OutboxWriter
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// NewModule wires access-control use cases and the transport handler.
func NewModule(deps Dependencies) Module {
	roles := commands.RoleUseCase{
		Repository: deps.Repository,
		Outbox:     deps.Outbox,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	organizations := commands.OrganizationUseCase{
		Repository: deps.Repository,
		Outbox:     deps.Outbox,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	checks := queries.CheckRoleUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Roles:         roles,
			Organizations: organizations,
			Checks:        checks,
			Logger:        deps.Logger,
		},
		Checks: checks,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters. The bootstrap principal is seeded with super_admin.
func NewInMemoryModule(bootstrapPrincipal string, logger *slog.Logger) Module {
	store := memory.NewStore(bootstrapPrincipal)
	module := NewModule(Dependencies{
		Repository: store,
		Outbox:     store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
