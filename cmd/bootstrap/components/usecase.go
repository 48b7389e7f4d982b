package components

import (
	"course-triage/internal/infra/platform"
	"course-triage/internal/pkg/clock"
	"course-triage/internal/pkg/config"
	"course-triage/internal/usecase/commands"
	"course-triage/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		NewPlatformClient,
		fx.As(new(commands.CoursePlatform)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewQuotaEvaluator,
		commands.NewTemplateProvisioner,
		commands.NewTriageCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewRequestQueries,
	),
)

func NewPlatformClient(cfg config.Config) *platform.Client {
	return platform.NewClient(cfg.Platform)
}
