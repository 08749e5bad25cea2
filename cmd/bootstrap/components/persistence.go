package components

import (
	"probook/internal/infra/db"
	"probook/internal/infra/readstore"
	"probook/internal/infra/uow"
	"probook/internal/usecase/commands"
	"probook/internal/usecase/queries"
	"probook/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		// UnitOfWork
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewScheduleReadStore,
			fx.As(new(queries.ScheduleReadStore)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
			fx.As(new(queries.OccupancyReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(commands.UserReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
