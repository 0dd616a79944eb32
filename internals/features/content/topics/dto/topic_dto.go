package dto

import (
	helper "kursusku_backend/internals/helpers"
	"kursusku_backend/pkg/authoring"
)

// TopicRequest is the create/update body accepted from the dashboard. It
// mirrors the backend wire shape; the gateway validates it and relays.
type TopicRequest struct {
	Title              string             `json:"title" validate:"required,min=3,max=200"`
	Slug               string             `json:"slug" validate:"omitempty,max=200"`
	Emoji              string             `json:"emoji" validate:"omitempty,max=8"`
	CategoryID         string             `json:"categoryId" validate:"required"`
	SubcategoryID      string             `json:"subcategoryId" validate:"omitempty"`
	Difficulty         string             `json:"difficulty" validate:"required,oneof=beginner intermediate advanced expert"`
	DurationHours      *float64           `json:"durationHours" validate:"omitempty,gte=0"`
	Description        string             `json:"description"`
	LearningObjectives string             `json:"learningObjectives"`
	Prerequisites      string             `json:"prerequisites"`
	IsFree             bool               `json:"isFree"`
	Price              float64            `json:"price" validate:"gte=0"`
	Tags               []string           `json:"tags" validate:"omitempty,dive,min=1"`
	Status             string             `json:"status" validate:"omitempty,oneof=draft published archived"`
	TargetAudience     []string           `json:"targetAudience"`
	ThumbnailURL       string             `json:"thumbnailUrl" validate:"omitempty,url"`
	MetaTitle          string             `json:"metaTitle" validate:"omitempty,max=70"`
	MetaDescription    string             `json:"metaDescription" validate:"omitempty,max=160"`
	Featured           bool               `json:"featured"`
	Modules            []authoring.Module `json:"modules"`
}

// Normalize fills derived fields before the request goes upstream.
func (r *TopicRequest) Normalize() {
	if r.Slug == "" {
		r.Slug = helper.GenerateSlug(r.Title)
	}
	if r.Status == "" {
		r.Status = "draft"
	}
	if r.IsFree {
		r.Price = 0
	}
}

type RegisterVideoRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl" validate:"required,url"`
	VideoType   string `json:"videoType" validate:"omitempty,oneof=youtube external file"`
	Duration    string `json:"duration" validate:"omitempty"`
	Order       int    `json:"order" validate:"gte=0"`
	IsPreview   bool   `json:"isPreview"`
	Transcript  string `json:"transcript"`
}
