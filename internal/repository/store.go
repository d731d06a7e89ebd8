package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
)

type gormStore struct {
	db  *gorm.DB
	log *logger.Logger
}

var _ Store = (*gormStore)(nil)

// NewStore returns a Store backed by db. The connection should be opened with
// TranslateError so unique violations surface as ErrConflict.
func NewStore(db *gorm.DB, baseLog *logger.Logger) Store {
	return &gormStore{db: db, log: baseLog.With("component", "Store")}
}

func (s *gormStore) Recipes() RecipeRepository                   { return &recipeRepo{db: s.db} }
func (s *gormStore) RecipeVersions() RecipeVersionRepository     { return &recipeVersionRepo{db: s.db} }
func (s *gormStore) InventoryItems() InventoryItemRepository     { return &inventoryItemRepo{db: s.db} }
func (s *gormStore) InventoryHistory() InventoryHistoryRepository { return &inventoryHistoryRepo{db: s.db} }
func (s *gormStore) Ratings() RatingRepository                   { return &ratingRepo{db: s.db} }
func (s *gormStore) MenuPlans() MenuPlanRepository               { return &menuPlanRepo{db: s.db} }
func (s *gormStore) PlannedMeals() PlannedMealRepository         { return &plannedMealRepo{db: s.db} }
func (s *gormStore) ShoppingListChecks() ShoppingListCheckRepository {
	return &shoppingListCheckRepo{db: s.db}
}
func (s *gormStore) Settings() SettingsRepository { return &settingsRepo{db: s.db} }
func (s *gormStore) Notifications() NotificationRepository {
	return &notificationRepo{db: s.db}
}
func (s *gormStore) Statistics() StatisticsRepository { return &statisticsRepo{db: s.db} }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx, log: s.log})
	})
	if err != nil {
		s.log.Debug("transaction rolled back", "error", err)
	}
	return err
}

// translate maps driver-level errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	return err
}

// forUpdate adds a row lock on PostgreSQL. SQLite has no row locks; its writers are
// serialized by the database lock instead.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

func deleted(result *gorm.DB) error {
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
