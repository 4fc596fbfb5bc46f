package electionengine

import (
	"log/slog"

	httpadapter "suffrage/contexts/election-lifecycle/election-engine/adapters/http"
	"suffrage/contexts/election-lifecycle/election-engine/adapters/memory"
	"suffrage/contexts/election-lifecycle/election-engine/application/commands"
	"suffrage/contexts/election-lifecycle/election-engine/application/queries"
	"suffrage/contexts/election-lifecycle/election-engine/ports"
)

// Module is the election-engine composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Elections     ports.ElectionRepository
	Candidates    ports.CandidateRepository
	Registrations ports.RegistrationRepository
	Ballots       ports.BallotRepository
	Access        ports.AccessDirectory
	Outbox        ports.OutboxWriter
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

// NewModule wires election-engine use cases, queries, and the transport
// handler.
func NewModule(deps Dependencies) Module {
	elections := commands.ElectionUseCase{
		Elections:  deps.Elections,
		Candidates: deps.Candidates,
		Access:     deps.Access,
		Outbox:     deps.Outbox,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	candidates := commands.CandidateUseCase{
		Elections:  deps.Elections,
		Candidates: deps.Candidates,
		Access:     deps.Access,
		Outbox:     deps.Outbox,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	registrations := commands.RegistrationUseCase{
		Elections:     deps.Elections,
		Registrations: deps.Registrations,
		Access:        deps.Access,
		Outbox:        deps.Outbox,
		IDGen:         deps.IDGen,
		Logger:        deps.Logger,
	}
	ballots := commands.BallotUseCase{
		Elections:     deps.Elections,
		Candidates:    deps.Candidates,
		Registrations: deps.Registrations,
		Ballots:       deps.Ballots,
		Outbox:        deps.Outbox,
		IDGen:         deps.IDGen,
		Logger:        deps.Logger,
	}
	finalizer := commands.FinalizeUseCase{
		Elections:  deps.Elections,
		Candidates: deps.Candidates,
		Access:     deps.Access,
		Outbox:     deps.Outbox,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	electionReads := queries.ElectionQueries{
		Elections:  deps.Elections,
		Candidates: deps.Candidates,
		Logger:     deps.Logger,
	}
	resultReads := queries.ResultsQueries{
		Elections:  deps.Elections,
		Candidates: deps.Candidates,
		Logger:     deps.Logger,
	}
	voterReads := queries.VoterQueries{
		Elections:     deps.Elections,
		Registrations: deps.Registrations,
		Ballots:       deps.Ballots,
		Logger:        deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Elections:     elections,
			Candidates:    candidates,
			Registrations: registrations,
			Ballots:       ballots,
			Finalizer:     finalizer,
			ElectionReads: electionReads,
			ResultReads:   resultReads,
			VoterReads:    voterReads,
			Logger:        deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters. Role and organization projections are seeded through the exposed
// Store.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Elections:     store,
		Candidates:    store,
		Registrations: store,
		Ballots:       store,
		Access:        store,
		Outbox:        store,
		IDGen:         store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
