package forestry

import (
	"embed"

	"github.com/silvacore/patrimony/modules/forestry/infrastructure/persistence"
	"github.com/silvacore/patrimony/modules/forestry/presentation/controllers"
	"github.com/silvacore/patrimony/modules/forestry/services"
	"github.com/silvacore/patrimony/pkg/application"
)

//go:embed infrastructure/persistence/schema
var migrationFiles embed.FS

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "forestry"
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles)

	estateRepo := persistence.NewEstateRepository()
	compartmentRepo := persistence.NewCompartmentRepository()
	standRepo := persistence.NewStandRepository()
	plotRepo := persistence.NewPlotRepository()
	leafAssetRepo := persistence.NewLeafAssetRepository()

	estateSvc := services.NewEstateService(estateRepo, compartmentRepo, app.EventPublisher())

	app.RegisterServices(
		estateSvc,
		services.NewCompartmentService(compartmentRepo, estateRepo, standRepo, app.EventPublisher()),
		services.NewStandService(standRepo, compartmentRepo, plotRepo, app.EventPublisher()),
		services.NewPlotService(plotRepo, standRepo, app.EventPublisher()),
		services.NewLeafAssetService(leafAssetRepo, standRepo),
		services.NewExportService(estateRepo, compartmentRepo, standRepo, plotRepo),
		services.NewImportService(estateSvc, estateRepo),
	)

	app.RegisterControllers(
		controllers.NewForestryController(app),
		controllers.NewTransferController(app),
		controllers.NewLeafAssetController(app),
	)

	return nil
}
