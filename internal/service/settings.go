package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
)

// SettingsProvider hands out the current AppSettings as a value. Callers take one snapshot per
// operation and never cache it.
type SettingsProvider interface {
	Current(ctx context.Context) (models.AppSettings, error)
}

// SettingsUpdate carries the fields an admin wants to change. Nil means unchanged.
type SettingsUpdate struct {
	FavoritesThreshold       *float64 `json:"favorites_threshold" validate:"omitempty,gt=0,lte=1"`
	FavoritesMinRaters       *int     `json:"favorites_min_raters" validate:"omitempty,gte=1"`
	RotationPeriodDays       *int     `json:"rotation_period_days" validate:"omitempty,gte=1"`
	LowStockThresholdPercent *float64 `json:"low_stock_threshold_percent" validate:"omitempty,gt=0,lte=1"`
	ExpirationWarningDays    *int     `json:"expiration_warning_days" validate:"omitempty,gte=0"`
}

type SettingsService struct {
	store repository.Store
	log   *logger.Logger
	now   func() time.Time
}

var _ SettingsProvider = (*SettingsService)(nil)
var _ ISettingsService = (*SettingsService)(nil)

func NewSettingsService(store repository.Store, baseLog *logger.Logger) *SettingsService {
	return &SettingsService{
		store: store,
		log:   baseLog.With("service", "SettingsService"),
		now:   time.Now,
	}
}

// Current falls back to the defaults until an admin has saved settings.
func (s *SettingsService) Current(ctx context.Context) (models.AppSettings, error) {
	settings, err := s.store.Settings().Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return models.DefaultAppSettings(), nil
	}
	if err != nil {
		return models.AppSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return *settings, nil
}

func (s *SettingsService) Update(ctx context.Context, actor uuid.UUID, update SettingsUpdate) (*models.AppSettings, error) {
	if err := validateStruct(update); err != nil {
		return nil, err
	}

	var saved models.AppSettings
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		current, err := tx.Settings().Get(ctx)
		if errors.Is(err, repository.ErrNotFound) {
			defaults := models.DefaultAppSettings()
			current = &defaults
		} else if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		if update.FavoritesThreshold != nil {
			current.FavoritesThreshold = *update.FavoritesThreshold
		}
		if update.FavoritesMinRaters != nil {
			current.FavoritesMinRaters = *update.FavoritesMinRaters
		}
		if update.RotationPeriodDays != nil {
			current.RotationPeriodDays = *update.RotationPeriodDays
		}
		if update.LowStockThresholdPercent != nil {
			current.LowStockThresholdPercent = *update.LowStockThresholdPercent
		}
		if update.ExpirationWarningDays != nil {
			current.ExpirationWarningDays = *update.ExpirationWarningDays
		}
		current.UpdatedBy = &actor
		current.UpdatedAt = s.now()

		if err := tx.Settings().Save(ctx, current); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		saved = *current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("settings updated", "actor", actor)
	return &saved, nil
}
