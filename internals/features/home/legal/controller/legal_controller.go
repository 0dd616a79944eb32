package controller

import (
	"github.com/gofiber/fiber/v2"

	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	helper "kursusku_backend/internals/helpers"
	"kursusku_backend/internals/seeds"
	"kursusku_backend/internals/upstream"
)

type LegalController struct {
	Upstream *upstream.Client
	Mirror   *mirrorsvc.MirrorService
}

func NewLegalController(up *upstream.Client, mirror *mirrorsvc.MirrorService) *LegalController {
	return &LegalController{Upstream: up, Mirror: mirror}
}

// ======================
// Privacy Policy
// ======================
func (ctrl *LegalController) GetPrivacy(c *fiber.Ctx) error {
	return helper.RelayGet(c, ctrl.Upstream, ctrl.Mirror, "legal/privacy", "/api/privacy", nil, func() interface{} {
		return seeds.Privacy()
	})
}

func (ctrl *LegalController) UpdatePrivacy(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Empty request body")
	}
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodPut, "/api/privacy", c.Body())
}

// ======================
// Terms of Service
// ======================
func (ctrl *LegalController) GetTerms(c *fiber.Ctx) error {
	return helper.RelayGet(c, ctrl.Upstream, ctrl.Mirror, "legal/terms", "/api/terms", nil, func() interface{} {
		return seeds.Terms()
	})
}

func (ctrl *LegalController) UpdateTerms(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Empty request body")
	}
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodPut, "/api/terms", c.Body())
}
