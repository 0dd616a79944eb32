package controller

import (
	"github.com/gofiber/fiber/v2"

	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	helper "kursusku_backend/internals/helpers"
	"kursusku_backend/internals/seeds"
	"kursusku_backend/internals/upstream"
)

type HomepageController struct {
	Upstream *upstream.Client
	Mirror   *mirrorsvc.MirrorService
}

func NewHomepageController(up *upstream.Client, mirror *mirrorsvc.MirrorService) *HomepageController {
	return &HomepageController{Upstream: up, Mirror: mirror}
}

// ======================
// Get Homepage Content
// ======================
func (ctrl *HomepageController) GetHomepage(c *fiber.Ctx) error {
	return helper.RelayGet(c, ctrl.Upstream, ctrl.Mirror, "homepage", "/api/homepage", nil, func() interface{} {
		return seeds.HomepageContent()
	})
}

// ======================
// Update Homepage Content
// ======================
func (ctrl *HomepageController) UpdateHomepage(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Empty request body")
	}
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodPut, "/api/homepage", c.Body())
}
