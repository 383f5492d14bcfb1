package hrm

import (
	"github.com/nordwind/backoffice/modules/hrm/importer"
	"github.com/nordwind/backoffice/modules/hrm/infrastructure/persistence"
	"github.com/nordwind/backoffice/modules/hrm/presentation/controllers"
	"github.com/nordwind/backoffice/modules/hrm/services"
	"github.com/nordwind/backoffice/pkg/application"
	"github.com/nordwind/backoffice/pkg/configuration"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()
	repo := persistence.NewEmployeeRepository()
	app.RegisterServices(
		services.NewEmployeeService(repo, app.EventPublisher()),
		services.NewImportService(
			repo,
			app.EventPublisher(),
			conf.Import.MaxRows,
			importer.Options{
				UseEmployeeCodeAsPassword: conf.Import.UseEmployeeCodeAsPassword,
				DefaultInitialPassword:    conf.Import.DefaultInitialPassword,
			},
		),
	)
	app.RegisterControllers(
		controllers.NewImportController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "hrm"
}
