package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventImageModel struct {
	EventImageID      uuid.UUID `gorm:"column:event_image_id;type:uuid;primaryKey" json:"event_image_id"`
	EventImageEventID uuid.UUID `gorm:"column:event_image_event_id;type:uuid;not null;index" json:"event_image_event_id"`
	EventImagePath    string    `gorm:"column:event_image_path;not null" json:"event_image_path"`
	EventImageIsMain  bool      `gorm:"column:event_image_is_main;not null;default:false" json:"event_image_is_main"`
	EventImageOrder   int       `gorm:"column:event_image_order;not null;default:0" json:"event_image_order"`
	EventImageCreated time.Time `gorm:"column:event_image_created_at;autoCreateTime" json:"event_image_created_at"`
}

func (EventImageModel) TableName() string {
	return "event_images"
}

func (m *EventImageModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventImageID == uuid.Nil {
		m.EventImageID = uuid.New()
	}
	return nil
}
