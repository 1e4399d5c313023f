package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedRecipe links a user to a recipe they bookmarked. The composite unique
// index makes the store itself reject duplicate (user, recipe) pairs, so
// concurrent saves cannot produce two rows. Unsave is a hard delete; there
// is no soft-delete column here.
type SavedRecipe struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_recipes_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_recipes_user_recipe;index" json:"recipe_id"`
}

func (SavedRecipe) TableName() string {
	return "saved_recipes"
}

func (s *SavedRecipe) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
