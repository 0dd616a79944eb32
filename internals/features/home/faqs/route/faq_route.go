package route

import (
	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/features/home/faqs/controller"
	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	"kursusku_backend/internals/upstream"
)

func FaqAllRoutes(router fiber.Router, up *upstream.Client, mirror *mirrorsvc.MirrorService) {
	ctrl := controller.NewFaqController(up, mirror)
	router.Get("/faqs", ctrl.GetAllFaqs)
}

func FaqAdminRoutes(router fiber.Router, up *upstream.Client, mirror *mirrorsvc.MirrorService) {
	ctrl := controller.NewFaqController(up, mirror)
	router.Post("/faqs", ctrl.CreateFaq)
	router.Put("/faqs/:id", ctrl.UpdateFaq)
	router.Delete("/faqs/:id", ctrl.DeleteFaq)
}
