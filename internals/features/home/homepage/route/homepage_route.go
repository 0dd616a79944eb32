package route

import (
	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/features/home/homepage/controller"
	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	"kursusku_backend/internals/upstream"
)

func HomepageAllRoutes(router fiber.Router, up *upstream.Client, mirror *mirrorsvc.MirrorService) {
	ctrl := controller.NewHomepageController(up, mirror)
	router.Get("/homepage", ctrl.GetHomepage)
}

func HomepageAdminRoutes(router fiber.Router, up *upstream.Client, mirror *mirrorsvc.MirrorService) {
	ctrl := controller.NewHomepageController(up, mirror)
	router.Put("/homepage", ctrl.UpdateHomepage)
}
