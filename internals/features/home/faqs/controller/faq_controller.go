package controller

import (
	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/features/home/faqs/dto"
	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	helper "kursusku_backend/internals/helpers"
	"kursusku_backend/internals/seeds"
	"kursusku_backend/internals/upstream"
)

var validate = validator.New()

type FaqController struct {
	Upstream *upstream.Client
	Mirror   *mirrorsvc.MirrorService
}

func NewFaqController(up *upstream.Client, mirror *mirrorsvc.MirrorService) *FaqController {
	return &FaqController{Upstream: up, Mirror: mirror}
}

// ======================
// Get All FAQs
// ======================
func (ctrl *FaqController) GetAllFaqs(c *fiber.Ctx) error {
	return helper.RelayGet(c, ctrl.Upstream, ctrl.Mirror, "faqs", "/api/faqs", nil, func() interface{} {
		return seeds.FAQs()
	})
}

// ======================
// Create FAQ
// ======================
func (ctrl *FaqController) CreateFaq(c *fiber.Ctx) error {
	var body dto.CreateFaqRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}
	payload, _ := sonic.Marshal(body)
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodPost, "/api/faqs", payload)
}

// ======================
// Update FAQ
// ======================
func (ctrl *FaqController) UpdateFaq(c *fiber.Ctx) error {
	var body dto.UpdateFaqRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}
	payload, _ := sonic.Marshal(body)
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodPut, "/api/faqs/"+c.Params("id"), payload)
}

// ======================
// Delete FAQ
// ======================
func (ctrl *FaqController) DeleteFaq(c *fiber.Ctx) error {
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodDelete, "/api/faqs/"+c.Params("id"), nil)
}
