package components

import (
	"time"

	"probook/internal/domain/bonus"
	"probook/internal/domain/schedule"
	"probook/internal/pkg/clock"
	"probook/internal/pkg/config"
	"probook/internal/usecase/commands"
	"probook/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewPlanner,
	NewBonusPolicy,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewBookingQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewPricingEngine,
		commands.NewBookingCommands,
	),
)

func NewPlanner(cfg config.Config) (*schedule.Planner, error) {
	return schedule.NewPlanner(time.Duration(cfg.Booking.SlotWidthMin) * time.Minute)
}

func NewBonusPolicy(cfg config.Config) (*bonus.Policy, error) {
	return bonus.NewPolicy(
		cfg.Booking.BonusEarnPercent,
		int64(cfg.Booking.BonusPointValueCents),
		cfg.Booking.BonusExpiryMonths,
	)
}
