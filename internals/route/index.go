// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	categoryRoute "kursusku_backend/internals/features/content/categories/route"
	topicRoute "kursusku_backend/internals/features/content/topics/route"
	faqRoute "kursusku_backend/internals/features/home/faqs/route"
	homepageRoute "kursusku_backend/internals/features/home/homepage/route"
	legalRoute "kursusku_backend/internals/features/home/legal/route"
	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	uploadRoute "kursusku_backend/internals/features/uploads/route"
	osshelper "kursusku_backend/internals/helpers/oss"
	authmw "kursusku_backend/internals/middlewares/auth"
	"kursusku_backend/internals/upstream"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, up *upstream.Client) {
	startTime = time.Now()

	mirror := mirrorsvc.NewMirrorService(db)

	var oss *osshelper.OSSService
	if svc, err := osshelper.NewOSSServiceFromEnv("media"); err != nil {
		log.Println("[WARNING] OSS disabled:", err)
	} else {
		oss = svc
	}

	// ===================== GROUPS =====================

	// PUBLIC → no auth, read only
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api")

	// ADMIN → dashboard JWT + admin role
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authmw.AuthMiddleware(),
		authmw.AdminOnly(),
	)

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting Content routes...")
	categoryRoute.CategoryAllRoutes(public, up, mirror)
	categoryRoute.CategoryAdminRoutes(admin, up, mirror)
	topicRoute.TopicAllRoutes(public, up, mirror)
	topicRoute.TopicAdminRoutes(admin, up, mirror)

	log.Println("[INFO] Mounting Home routes...")
	homepageRoute.HomepageAllRoutes(public, up, mirror)
	homepageRoute.HomepageAdminRoutes(admin, up, mirror)
	faqRoute.FaqAllRoutes(public, up, mirror)
	faqRoute.FaqAdminRoutes(admin, up, mirror)
	legalRoute.LegalAllRoutes(public, up, mirror)
	legalRoute.LegalAdminRoutes(admin, up, mirror)

	log.Println("[INFO] Mounting Upload routes...")
	uploadRoute.UploadAdminRoutes(admin, oss)

	app.Get("/uptime", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"uptime": time.Since(startTime).String()})
	})
}
