package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MenuPlan is one household week, identified by its Monday.
type MenuPlan struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	WeekStartDate time.Time     `gorm:"type:date;not null;index" json:"week_start_date"`
	Name          string        `gorm:"size:200" json:"name"`
	IsActive      bool          `gorm:"not null" json:"is_active"`
	CreatedBy     uuid.UUID     `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Meals         []PlannedMeal `gorm:"-" json:"meals,omitempty"`
}

func (p *MenuPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PlannedMeal moves from planned to cooked exactly once.
type PlannedMeal struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	MenuPlanID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"menu_plan_id"`
	RecipeID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipe_id"`
	MealDate        time.Time  `gorm:"type:date;not null" json:"meal_date"`
	MealType        MealType   `gorm:"size:20;not null" json:"meal_type"`
	ServingsPlanned int        `gorm:"not null" json:"servings_planned"`
	Notes           string     `gorm:"type:text" json:"notes"`
	Cooked          bool       `gorm:"not null" json:"cooked"`
	CookedDate      *time.Time `json:"cooked_date"`
	CookedBy        *uuid.UUID `gorm:"type:uuid" json:"cooked_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (m *PlannedMeal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ShoppingListCheck remembers that a derived shopping-list line was ticked off.
type ShoppingListCheck struct {
	MenuPlanID uuid.UUID `gorm:"type:uuid;primaryKey" json:"menu_plan_id"`
	ItemKey    string    `gorm:"size:300;primaryKey" json:"item_key"`
	CheckedBy  uuid.UUID `gorm:"type:uuid;not null" json:"checked_by"`
	CheckedAt  time.Time `gorm:"not null" json:"checked_at"`
}
