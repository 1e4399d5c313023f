package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe origin values. User-authored and imported external recipes share
// one table; Source tells them apart.
const (
	SourceUser     = "user"
	SourceExternal = "external"
)

type Recipe struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Ingredients  string         `gorm:"type:text;not null" json:"ingredients"`
	Instructions string         `gorm:"type:text;not null" json:"instructions"`
	ImageURL     string         `gorm:"size:512" json:"image_url"`
	Source       string         `gorm:"size:20;not null;default:'user'" json:"source"`
	ExternalID   int64          `gorm:"index" json:"external_id,omitempty"`
	UserID       uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Source == "" {
		r.Source = SourceUser
	}
	return nil
}
