package audit

import (
	"embed"

	"github.com/silvacore/patrimony/modules/audit/handlers"
	"github.com/silvacore/patrimony/modules/audit/infrastructure/persistence"
	"github.com/silvacore/patrimony/modules/audit/presentation/controllers"
	"github.com/silvacore/patrimony/modules/audit/services"
	"github.com/silvacore/patrimony/pkg/application"
)

//go:embed infrastructure/persistence/schema
var migrationFiles embed.FS

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "audit"
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles)

	auditService := services.NewAuditService(persistence.NewAuditRecordRepository(), app.Logger())
	app.RegisterServices(auditService)

	handlers.RegisterForestryHandlers(app.EventPublisher(), auditService)

	app.RegisterControllers(controllers.NewAuditController(app))

	return nil
}
