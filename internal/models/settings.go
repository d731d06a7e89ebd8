package models

import (
	"time"

	"github.com/google/uuid"
)

// SettingsRowID is the primary key of the only app_settings row.
const SettingsRowID = 1

// AppSettings holds household-wide tunables. Admins edit them; the core only reads snapshots.
type AppSettings struct {
	ID                       int        `gorm:"primaryKey;autoIncrement:false" json:"-"`
	FavoritesThreshold       float64    `gorm:"not null" json:"favorites_threshold"`
	FavoritesMinRaters       int        `gorm:"not null" json:"favorites_min_raters"`
	RotationPeriodDays       int        `gorm:"not null" json:"rotation_period_days"`
	LowStockThresholdPercent float64    `gorm:"not null" json:"low_stock_threshold_percent"`
	ExpirationWarningDays    int        `gorm:"not null" json:"expiration_warning_days"`
	UpdatedBy                *uuid.UUID `gorm:"type:uuid" json:"updated_by,omitempty"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

func (AppSettings) TableName() string {
	return "app_settings"
}

// DefaultAppSettings is what the household gets before an admin saves anything.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		ID:                       SettingsRowID,
		FavoritesThreshold:       0.75,
		FavoritesMinRaters:       3,
		RotationPeriodDays:       14,
		LowStockThresholdPercent: 0.20,
		ExpirationWarningDays:    7,
	}
}

// All lists every persisted model, in dependency order, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&Recipe{},
		&RecipeVersion{},
		&InventoryItem{},
		&InventoryHistory{},
		&Rating{},
		&MenuPlan{},
		&PlannedMeal{},
		&ShoppingListCheck{},
		&AppSettings{},
		&Notification{},
	}
}
