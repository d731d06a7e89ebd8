package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
)

type settingsRepo struct {
	db *gorm.DB
}

func (r *settingsRepo) Get(ctx context.Context) (*models.AppSettings, error) {
	var settings models.AppSettings
	if err := r.db.WithContext(ctx).First(&settings, "id = ?", models.SettingsRowID).Error; err != nil {
		return nil, translate(err)
	}
	return &settings, nil
}

func (r *settingsRepo) Save(ctx context.Context, settings *models.AppSettings) error {
	settings.ID = models.SettingsRowID
	return translate(r.db.WithContext(ctx).Save(settings).Error)
}
