package modules

import (
	"github.com/nordwind/backoffice/modules/hrm"
	"github.com/nordwind/backoffice/pkg/application"
)

var BuiltInModules = []application.Module{
	hrm.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
