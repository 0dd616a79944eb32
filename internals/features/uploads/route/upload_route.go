package route

import (
	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/features/uploads/controller"
	osshelper "kursusku_backend/internals/helpers/oss"
	"kursusku_backend/internals/middlewares"
)

// UploadAdminRoutes registers media upload endpoints. oss may be nil when
// storage env vars are absent; the controller answers 503 in that case.
func UploadAdminRoutes(router fiber.Router, oss *osshelper.OSSService) {
	ctrl := controller.NewUploadController(oss)
	router.Post("/uploads/thumbnail", middlewares.UploadRateLimiter(), ctrl.UploadThumbnail)
}
