package route

import (
	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/features/content/topics/controller"
	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	"kursusku_backend/internals/upstream"
)

// TopicAdminRoutes registers topic authoring for the dashboard.
func TopicAdminRoutes(router fiber.Router, up *upstream.Client, mirror *mirrorsvc.MirrorService) {
	ctrl := controller.NewTopicController(up, mirror)

	router.Get("/topics", ctrl.GetAllTopics)
	router.Get("/topics/:id", ctrl.GetTopicByID)
	router.Post("/topics", ctrl.CreateTopic)
	router.Put("/topics/:id", ctrl.UpdateTopic)
	router.Delete("/topics/:id", ctrl.DeleteTopic)

	router.Post("/topics/:id/modules/:moduleId/videos", ctrl.RegisterVideo)
	router.Post("/topics/:id/modules/:moduleId/videos/batch", ctrl.UploadVideoBatch)
}
