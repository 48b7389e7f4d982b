package components

import (
	"course-triage/internal/infra/readstore"
	"course-triage/internal/infra/repository"
	"course-triage/internal/infra/uow"
	"course-triage/internal/usecase/commands"
	"course-triage/internal/usecase/queries"
	"course-triage/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			repository.NewSettingsRepository,
			fx.As(new(commands.SettingsRepository)),
		),
		fx.Annotate(
			readstore.NewRequestReadStore,
			fx.As(new(queries.RequestReadStore)),
		),
	),
)
