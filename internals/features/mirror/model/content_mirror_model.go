package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ContentMirrorModel stores the last successful upstream response per read
// endpoint, so the gateway can keep serving content while the backend is down.
type ContentMirrorModel struct {
	MirrorID        uuid.UUID      `gorm:"column:mirror_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"mirror_id"`
	MirrorKey       string         `gorm:"column:mirror_key;type:varchar(512);uniqueIndex;not null" json:"mirror_key"`
	MirrorPayload   datatypes.JSON `gorm:"column:mirror_payload;type:jsonb;not null" json:"mirror_payload"`
	MirrorFetchedAt time.Time      `gorm:"column:mirror_fetched_at;autoUpdateTime" json:"mirror_fetched_at"`
}

func (ContentMirrorModel) TableName() string {
	return "content_mirrors"
}
