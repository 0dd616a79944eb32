// Package authoring implements the topic authoring workflow used by the admin
// dashboard: a draft aggregate for a topic and its modules/videos, a lookup
// cache for category reference data, and the two-phase save orchestrator that
// persists drafts against the content backend.
package authoring

// Wire types below follow the backend contract (camelCase JSON), not the
// gateway's internal column naming.

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

type TopicStatus string

const (
	StatusDraft     TopicStatus = "draft"
	StatusPublished TopicStatus = "published"
	StatusArchived  TopicStatus = "archived"
)

// Category doubles for subcategories; the backend returns the same shape for both.
type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Emoji      string `json:"emoji"`
	CategoryID string `json:"categoryId,omitempty"` // parent, set on subcategories
}

const categoryStatusActive = "Active"

// Topic is the full aggregate as fetched from the backend.
type Topic struct {
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	Slug               string      `json:"slug"`
	Emoji              string      `json:"emoji,omitempty"`
	CategoryID         string      `json:"categoryId"`
	SubcategoryID      string      `json:"subcategoryId,omitempty"`
	CategoryName       string      `json:"categoryName,omitempty"`
	SubcategoryName    string      `json:"subcategoryName,omitempty"`
	Difficulty         Difficulty  `json:"difficulty"`
	DurationHours      *float64    `json:"durationHours,omitempty"`
	Description        string      `json:"description"`
	LearningObjectives string      `json:"learningObjectives"`
	Prerequisites      string      `json:"prerequisites,omitempty"`
	IsFree             bool        `json:"isFree"`
	Price              float64     `json:"price"`
	Tags               []string    `json:"tags,omitempty"`
	Status             TopicStatus `json:"status"`
	TargetAudience     []string    `json:"targetAudience,omitempty"`
	ThumbnailURL       string      `json:"thumbnailUrl,omitempty"`
	MetaTitle          string      `json:"metaTitle,omitempty"`
	MetaDescription    string      `json:"metaDescription,omitempty"`
	Featured           bool        `json:"featured"`
	Modules            []Module    `json:"modules,omitempty"`
}

type Module struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	Order           int     `json:"order"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Videos          []Video `json:"videos,omitempty"`
}

type Video struct {
	ID           string `json:"id,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Duration     string `json:"duration,omitempty"` // minutes, as reported by the backend
	Order        int    `json:"order"`
	VideoType    string `json:"videoType,omitempty"`
	VideoURL     string `json:"videoUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	IsPreview    bool   `json:"isPreview"`
	Transcript   string `json:"transcript,omitempty"`
}

// UploadedVideo is one entry of a batch-upload response after normalization.
type UploadedVideo struct {
	ID              string `json:"id"`
	VideoURL        string `json:"videoUrl"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
}

// TargetAudiences is the fixed vocabulary accepted for topic target audiences.
var TargetAudiences = []string{
	"students",
	"professionals",
	"hobbyists",
	"educators",
	"researchers",
}

func ValidAudience(v string) bool {
	for _, a := range TargetAudiences {
		if a == v {
			return true
		}
	}
	return false
}
