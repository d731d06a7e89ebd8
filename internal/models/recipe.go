package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Difficulty is the self-reported effort level of a recipe.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Ingredient is stored inline with a recipe snapshot.
type Ingredient struct {
	Name     string           `json:"name" validate:"required,max=200"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Unit     string           `json:"unit,omitempty" validate:"max=50"`
	Category string           `json:"category,omitempty" validate:"max=50"`
	Optional bool             `json:"optional"`
}

// RecipeContent is everything that gets versioned. Recipe carries the current copy and every
// RecipeVersion carries an immutable one.
type RecipeContent struct {
	Title           string                          `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Description     string                          `gorm:"type:text" json:"description"`
	PrepTimeMinutes *int                            `json:"prep_time_minutes" validate:"omitempty,gte=0"`
	CookTimeMinutes *int                            `json:"cook_time_minutes" validate:"omitempty,gte=0"`
	Servings        *int                            `json:"servings" validate:"omitempty,gt=0"`
	Difficulty      Difficulty                      `gorm:"size:20" json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Ingredients     datatypes.JSONSlice[Ingredient] `gorm:"not null" json:"ingredients" validate:"dive"`
	Instructions    string                          `gorm:"type:text" json:"instructions"`
	Tags            datatypes.JSONSlice[string]     `json:"tags" validate:"dive,max=50"`
	SourceURL       string                          `gorm:"size:500" json:"source_url,omitempty" validate:"omitempty,url,max=500"`
}

// TotalTimeMinutes sums prep and cook time, treating unset values as zero.
func (c RecipeContent) TotalTimeMinutes() int {
	total := 0
	if c.PrepTimeMinutes != nil {
		total += *c.PrepTimeMinutes
	}
	if c.CookTimeMinutes != nil {
		total += *c.CookTimeMinutes
	}
	return total
}

// NativeServings is the serving count the ingredient quantities are written for.
func (c RecipeContent) NativeServings() int {
	if c.Servings == nil || *c.Servings <= 0 {
		return 1
	}
	return *c.Servings
}

type Recipe struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeContent
	CurrentVersion int              `gorm:"not null" json:"current_version"`
	TimesCooked    int              `gorm:"not null" json:"times_cooked"`
	LastCookedDate *time.Time       `gorm:"type:date" json:"last_cooked_date"`
	IsDeleted      bool             `gorm:"not null;index" json:"-"`
	CreatedBy      uuid.UUID        `gorm:"type:uuid;not null" json:"created_by"`
	Embedding      *pgvector.Vector `gorm:"type:vector(3)" json:"-"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeVersion is an immutable snapshot. (recipe_id, version_number) is unique.
type RecipeVersion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_versions_recipe_number" json:"recipe_id"`
	VersionNumber int       `gorm:"not null;uniqueIndex:idx_recipe_versions_recipe_number" json:"version_number"`
	RecipeContent
	ChangeDescription string    `gorm:"type:text" json:"change_description,omitempty"`
	CreatedBy         uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
}

func (v *RecipeVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
