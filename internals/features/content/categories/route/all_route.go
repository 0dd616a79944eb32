package route

import (
	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/features/content/categories/controller"
	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	"kursusku_backend/internals/upstream"
)

// CategoryAllRoutes registers the public read endpoints.
func CategoryAllRoutes(router fiber.Router, up *upstream.Client, mirror *mirrorsvc.MirrorService) {
	catCtrl := controller.NewCategoryController(up, mirror)
	subCtrl := controller.NewSubcategoryController(up, mirror)

	router.Get("/categories", catCtrl.GetAllCategories)
	router.Get("/subcategories", subCtrl.GetSubcategories)
}
