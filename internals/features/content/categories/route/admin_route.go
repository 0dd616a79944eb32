package route

import (
	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/features/content/categories/controller"
	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	"kursusku_backend/internals/upstream"
)

// CategoryAdminRoutes registers category management for the dashboard.
func CategoryAdminRoutes(router fiber.Router, up *upstream.Client, mirror *mirrorsvc.MirrorService) {
	catCtrl := controller.NewCategoryController(up, mirror)
	subCtrl := controller.NewSubcategoryController(up, mirror)

	router.Post("/categories", catCtrl.CreateCategory)
	router.Put("/categories/:id", catCtrl.UpdateCategory)
	router.Delete("/categories/:id", catCtrl.DeleteCategory)

	router.Post("/subcategories", subCtrl.CreateSubcategory)
	router.Put("/subcategories/:id", subCtrl.UpdateSubcategory)
	router.Delete("/subcategories/:id", subCtrl.DeleteSubcategory)
}
