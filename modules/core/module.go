package core

import (
	"embed"

	"github.com/silvacore/patrimony/modules/core/infrastructure/persistence"
	"github.com/silvacore/patrimony/modules/core/presentation/controllers"
	coremiddleware "github.com/silvacore/patrimony/modules/core/presentation/middleware"
	"github.com/silvacore/patrimony/modules/core/services"
	"github.com/silvacore/patrimony/pkg/application"
)

//go:embed infrastructure/persistence/schema
var migrationFiles embed.FS

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "core"
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles)

	userRepo := persistence.NewUserRepository()
	orgRepo := persistence.NewOrganizationRepository()
	scopeService := services.NewScopeService(userRepo, orgRepo)

	app.RegisterServices(
		scopeService,
		services.NewOrganizationService(orgRepo),
	)

	app.RegisterMiddleware(coremiddleware.WithIdentity(scopeService))

	app.RegisterControllers(
		controllers.NewHealthController(app),
		controllers.NewOrganizationController(app),
	)

	return nil
}
