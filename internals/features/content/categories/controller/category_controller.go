package controller

import (
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/features/content/categories/dto"
	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	helper "kursusku_backend/internals/helpers"
	"kursusku_backend/internals/seeds"
	"kursusku_backend/internals/upstream"
)

var validate = validator.New()

type CategoryController struct {
	Upstream *upstream.Client
	Mirror   *mirrorsvc.MirrorService
}

func NewCategoryController(up *upstream.Client, mirror *mirrorsvc.MirrorService) *CategoryController {
	return &CategoryController{Upstream: up, Mirror: mirror}
}

// ======================
// Get All Categories
// ======================
func (ctrl *CategoryController) GetAllCategories(c *fiber.Ctx) error {
	q := url.Values{}
	q.Set("fetchAll", "true")
	return helper.RelayGet(c, ctrl.Upstream, ctrl.Mirror, "categories", "/api/categories", q, func() interface{} {
		return seeds.Categories()
	})
}

// ======================
// Create Category
// ======================
func (ctrl *CategoryController) CreateCategory(c *fiber.Ctx) error {
	var body dto.CreateCategoryRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}
	payload, _ := sonic.Marshal(body)
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodPost, "/api/categories", payload)
}

// ======================
// Update Category
// ======================
func (ctrl *CategoryController) UpdateCategory(c *fiber.Ctx) error {
	var body dto.UpdateCategoryRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}
	payload, _ := sonic.Marshal(body)
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodPut, "/api/categories/"+c.Params("id"), payload)
}

// ======================
// Delete Category
// ======================
func (ctrl *CategoryController) DeleteCategory(c *fiber.Ctx) error {
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodDelete, "/api/categories/"+c.Params("id"), nil)
}
