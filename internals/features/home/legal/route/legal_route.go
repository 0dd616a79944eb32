package route

import (
	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/features/home/legal/controller"
	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	"kursusku_backend/internals/upstream"
)

func LegalAllRoutes(router fiber.Router, up *upstream.Client, mirror *mirrorsvc.MirrorService) {
	ctrl := controller.NewLegalController(up, mirror)
	router.Get("/privacy", ctrl.GetPrivacy)
	router.Get("/terms", ctrl.GetTerms)
}

func LegalAdminRoutes(router fiber.Router, up *upstream.Client, mirror *mirrorsvc.MirrorService) {
	ctrl := controller.NewLegalController(up, mirror)
	router.Put("/privacy", ctrl.UpdatePrivacy)
	router.Put("/terms", ctrl.UpdateTerms)
}
