package controllers_fx

import (
	"go.uber.org/fx"

	"routeprocessing/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewRouteProcessingController))
