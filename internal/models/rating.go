package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is a single household member's thumbs up/down on a recipe.
type Rating struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_recipe_user" json:"recipe_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_recipe_user" json:"user_id"`
	ThumbsUp      bool      `gorm:"not null" json:"rating"`
	Feedback      string    `gorm:"type:text" json:"feedback"`
	Modifications string    `gorm:"type:text" json:"modifications"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
