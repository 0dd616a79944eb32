package controller

import (
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/features/content/categories/dto"
	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	helper "kursusku_backend/internals/helpers"
	"kursusku_backend/internals/seeds"
	"kursusku_backend/internals/upstream"
)

type SubcategoryController struct {
	Upstream *upstream.Client
	Mirror   *mirrorsvc.MirrorService
}

func NewSubcategoryController(up *upstream.Client, mirror *mirrorsvc.MirrorService) *SubcategoryController {
	return &SubcategoryController{Upstream: up, Mirror: mirror}
}

// ======================
// Get Subcategories (by category)
// ======================
func (ctrl *SubcategoryController) GetSubcategories(c *fiber.Ctx) error {
	categoryID := c.Query("categoryId")
	if categoryID == "" {
		return helper.Error(c, fiber.StatusBadRequest, "categoryId is required")
	}
	q := url.Values{}
	q.Set("categoryId", categoryID)
	q.Set("fetchAll", "true")
	key := "subcategories/" + categoryID
	return helper.RelayGet(c, ctrl.Upstream, ctrl.Mirror, key, "/api/subcategories", q, func() interface{} {
		return seeds.Subcategories(categoryID)
	})
}

// ======================
// Create Subcategory
// ======================
func (ctrl *SubcategoryController) CreateSubcategory(c *fiber.Ctx) error {
	var body dto.CreateSubcategoryRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}
	payload, _ := sonic.Marshal(body)
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodPost, "/api/subcategories", payload)
}

// ======================
// Update Subcategory
// ======================
func (ctrl *SubcategoryController) UpdateSubcategory(c *fiber.Ctx) error {
	var body dto.UpdateSubcategoryRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}
	payload, _ := sonic.Marshal(body)
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodPut, "/api/subcategories/"+c.Params("id"), payload)
}

// ======================
// Delete Subcategory
// ======================
func (ctrl *SubcategoryController) DeleteSubcategory(c *fiber.Ctx) error {
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodDelete, "/api/subcategories/"+c.Params("id"), nil)
}
