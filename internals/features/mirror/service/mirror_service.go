package service

import (
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kursusku_backend/internals/features/mirror/model"
)

// MirrorService is the write-through cache over content_mirrors. All methods
// are nil-safe: without a database the gateway simply has no mirror.
type MirrorService struct {
	DB *gorm.DB
}

func NewMirrorService(db *gorm.DB) *MirrorService {
	return &MirrorService{DB: db}
}

// Store upserts the payload for a read endpoint. Best effort: a mirror write
// must never fail a request that the upstream already answered.
func (s *MirrorService) Store(key string, payload []byte) {
	if s == nil || s.DB == nil || len(payload) == 0 {
		return
	}
	row := model.ContentMirrorModel{
		MirrorKey:     key,
		MirrorPayload: payload,
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "mirror_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"mirror_payload", "mirror_fetched_at"}),
	}).Create(&row).Error
	if err != nil {
		log.Printf("[WARN] mirror store %q: %v", key, err)
	}
}

// Load returns the mirrored payload for a key, if any.
func (s *MirrorService) Load(key string) ([]byte, bool) {
	if s == nil || s.DB == nil {
		return nil, false
	}
	var row model.ContentMirrorModel
	if err := s.DB.First(&row, "mirror_key = ?", key).Error; err != nil {
		return nil, false
	}
	return row.MirrorPayload, true
}
