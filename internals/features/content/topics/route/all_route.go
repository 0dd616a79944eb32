package route

import (
	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/features/content/topics/controller"
	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	"kursusku_backend/internals/upstream"
)

// TopicAllRoutes registers the public read endpoints.
func TopicAllRoutes(router fiber.Router, up *upstream.Client, mirror *mirrorsvc.MirrorService) {
	ctrl := controller.NewTopicController(up, mirror)

	router.Get("/topics", ctrl.GetAllTopics)
	router.Get("/topics/:id", ctrl.GetTopicByID)
}
