package controller

import (
	"net/url"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/constants"
	"kursusku_backend/internals/features/content/topics/dto"
	mirrorsvc "kursusku_backend/internals/features/mirror/service"
	helper "kursusku_backend/internals/helpers"
	"kursusku_backend/internals/upstream"
)

var validate = validator.New()

type TopicController struct {
	Upstream *upstream.Client
	Mirror   *mirrorsvc.MirrorService
}

func NewTopicController(up *upstream.Client, mirror *mirrorsvc.MirrorService) *TopicController {
	return &TopicController{Upstream: up, Mirror: mirror}
}

// ======================
// Get All Topics
// ======================
func (ctrl *TopicController) GetAllTopics(c *fiber.Ctx) error {
	p := helper.ParsePage(c, helper.AdminPageOpts)
	q := url.Values{}
	q.Set("page", ifEmpty(c.Query("page"), "1"))
	q.Set("limit", ifEmpty(c.Query("limit"), strconv.Itoa(p.PerPage)))
	if s := c.Query("status"); s != "" {
		q.Set("status", s)
	}
	if cat := c.Query("categoryId"); cat != "" {
		q.Set("categoryId", cat)
	}
	if search := c.Query("search"); search != "" {
		q.Set("search", search)
	}
	// Lists are not mirrored per filter combination; only the unfiltered
	// first page is worth keeping as a fallback.
	key := ""
	if len(q) == 2 && q.Get("page") == "1" {
		key = "topics"
	}
	return helper.RelayGet(c, ctrl.Upstream, ctrl.Mirror, key, "/api/topics", q, func() interface{} {
		return []interface{}{}
	})
}

// ======================
// Get Topic by ID
// ======================
func (ctrl *TopicController) GetTopicByID(c *fiber.Ctx) error {
	id := c.Params("id")
	return helper.RelayGet(c, ctrl.Upstream, ctrl.Mirror, "topics/"+id, "/api/topics/"+id, nil, nil)
}

// ======================
// Create Topic
// ======================
func (ctrl *TopicController) CreateTopic(c *fiber.Ctx) error {
	var body dto.TopicRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	body.Normalize()
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}
	payload, _ := sonic.Marshal(body)
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodPost, "/api/topics", payload)
}

// ======================
// Update Topic
// ======================
func (ctrl *TopicController) UpdateTopic(c *fiber.Ctx) error {
	var body dto.TopicRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	body.Normalize()
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}
	payload, _ := sonic.Marshal(body)
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodPut, "/api/topics/"+c.Params("id"), payload)
}

// ======================
// Delete Topic
// ======================
func (ctrl *TopicController) DeleteTopic(c *fiber.Ctx) error {
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodDelete, "/api/topics/"+c.Params("id"), nil)
}

// ======================
// Register Video (URL-based)
// ======================
func (ctrl *TopicController) RegisterVideo(c *fiber.Ctx) error {
	var body dto.RegisterVideoRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}
	payload, _ := sonic.Marshal(body)
	path := "/api/topics/" + c.Params("id") + "/modules/" + c.Params("moduleId") + "/videos"
	return helper.RelayWrite(c, ctrl.Upstream, fiber.MethodPost, path, payload)
}

// ======================
// Upload Video Batch (multipart passthrough)
// ======================
func (ctrl *TopicController) UploadVideoBatch(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid multipart form")
	}

	files := form.File["videos"]
	if len(files) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "No video files in request")
	}

	var total int64
	for _, fh := range files {
		ct := fh.Header.Get("Content-Type")
		if !constants.AllowedVideoMIME(ct) {
			return helper.Error(c, fiber.StatusUnsupportedMediaType, "Only video files are accepted: "+fh.Filename)
		}
		if fh.Size > constants.MaxVideoBytes {
			return helper.Error(c, fiber.StatusRequestEntityTooLarge, "Video exceeds the 100MB per-file limit: "+fh.Filename)
		}
		total += fh.Size
	}
	if total > constants.MaxVideoBatchBytes {
		return helper.Error(c, fiber.StatusRequestEntityTooLarge, "Batch exceeds the 500MB request limit")
	}

	path := "/api/topics/" + c.Params("id") + "/modules/" + c.Params("moduleId") + "/videos/batch"
	status, body, err := ctrl.Upstream.SendMultipart(c.UserContext(), path, form)
	if err != nil {
		return helper.Error(c, fiber.StatusServiceUnavailable, "Content backend unavailable")
	}
	return helper.Relay(c, status, body)
}

func ifEmpty(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
