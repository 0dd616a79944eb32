package controller

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/constants"
	helper "kursusku_backend/internals/helpers"
	osshelper "kursusku_backend/internals/helpers/oss"
)

type UploadController struct {
	OSS *osshelper.OSSService
}

func NewUploadController(oss *osshelper.OSSService) *UploadController {
	return &UploadController{OSS: oss}
}

// ======================
// Upload Thumbnail (image → WebP → OSS)
// ======================
func (ctrl *UploadController) UploadThumbnail(c *fiber.Ctx) error {
	if ctrl.OSS == nil {
		return helper.Error(c, fiber.StatusServiceUnavailable, "Object storage is not configured")
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Missing image file")
	}
	if fh.Size > constants.MaxThumbnailBytes {
		return helper.Error(c, fiber.StatusRequestEntityTooLarge, "Image exceeds the 5MB limit")
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && !constants.AllowedImageMIMEs[ct] {
		return helper.Error(c, fiber.StatusUnsupportedMediaType, "Only JPEG, PNG, or WebP images are accepted")
	}

	src, err := fh.Open()
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Cannot read uploaded file")
	}
	defer src.Close()
	raw, err := io.ReadAll(src)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Cannot read uploaded file")
	}

	webpBytes, err := osshelper.ConvertImageToWebP(raw, fh.Filename)
	if err != nil {
		return helper.Error(c, fiber.StatusUnsupportedMediaType, "Cannot decode image: "+err.Error())
	}

	name := strings.TrimSuffix(fh.Filename, "."+extOf(fh.Filename)) + ".webp"
	key, err := ctrl.OSS.UploadBytesToDir("thumbnails", name, webpBytes, "image/webp")
	if err != nil {
		return helper.Error(c, fiber.StatusBadGateway, "Upload to storage failed")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, fiber.Map{
		"url": ctrl.OSS.PublicURL(key),
	})
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return ""
}
