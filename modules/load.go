package modules

import (
	"github.com/silvacore/patrimony/modules/audit"
	"github.com/silvacore/patrimony/modules/core"
	"github.com/silvacore/patrimony/modules/forestry"
	"github.com/silvacore/patrimony/pkg/application"
)

// BuiltInModules lists every module the server loads, in registration
// order: core must come first so identity middleware and scope
// resolution exist before the feature modules mount their routes.
func BuiltInModules() []application.Module {
	return []application.Module{
		core.NewModule(),
		forestry.NewModule(),
		audit.NewModule(),
	}
}
