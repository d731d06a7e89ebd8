// Package repository persists the meal-planner entities. Services only see the interfaces
// declared here; the gorm-backed implementation lives alongside them.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
)

var (
	// ErrNotFound is returned by every Get* method when no row matches.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record already exists")
)

type RecipeFilter struct {
	Search          string
	SearchEmbedding *pgvector.Vector
	Tag             string
	Difficulty      models.Difficulty
	IncludeDeleted  bool
	// Limit <= 0 means no limit.
	Limit  int
	Offset int
}

type RecipeRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	GetMany(ctx context.Context, ids []uuid.UUID) ([]models.Recipe, error)
	List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error)
	Save(ctx context.Context, recipe *models.Recipe) error
}

// RecipeVersionRepository is append-only; there is no delete.
type RecipeVersionRepository interface {
	Create(ctx context.Context, version *models.RecipeVersion) error
	Get(ctx context.Context, recipeID uuid.UUID, number int) (*models.RecipeVersion, error)
	ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]models.RecipeVersion, error)
	MaxVersion(ctx context.Context, recipeID uuid.UUID) (int, error)
}

type InventoryFilter struct {
	Location        models.Location
	Category        string
	Search          string
	HasMinimumStock bool
	HasExpiration   bool
}

type InventoryItemRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	// FindByName returns the oldest item whose normalized name equals normalizedName.
	FindByName(ctx context.Context, normalizedName string) (*models.InventoryItem, error)
	// ListByName returns every item with that normalized name, oldest first.
	ListByName(ctx context.Context, normalizedName string) ([]models.InventoryItem, error)
	List(ctx context.Context, filter InventoryFilter) ([]models.InventoryItem, error)
	Save(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InventoryHistoryRepository is append-only; there is no update or delete.
type InventoryHistoryRepository interface {
	Create(ctx context.Context, entry *models.InventoryHistory) error
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.InventoryHistory, error)
}

// RatingCounts is the raw tally behind a rating summary.
type RatingCounts struct {
	ThumbsUp   int64
	ThumbsDown int64
}

type RatingRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Rating, error)
	FindByRecipeAndUser(ctx context.Context, recipeID, userID uuid.UUID) (*models.Rating, error)
	ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]models.Rating, error)
	// CountsByRecipe tallies ratings for the given recipes, or for every recipe when ids is empty.
	CountsByRecipe(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]RatingCounts, error)
	Create(ctx context.Context, rating *models.Rating) error
	Save(ctx context.Context, rating *models.Rating) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MenuPlanFilter struct {
	WeekStart  *time.Time
	ActiveOnly bool
}

type MenuPlanRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.MenuPlan, error)
	List(ctx context.Context, filter MenuPlanFilter) ([]models.MenuPlan, error)
	Save(ctx context.Context, plan *models.MenuPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PlannedMealRepository interface {
	Get(ctx context.Context, planID, mealID uuid.UUID) (*models.PlannedMeal, error)
	GetForUpdate(ctx context.Context, planID, mealID uuid.UUID) (*models.PlannedMeal, error)
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]models.PlannedMeal, error)
	Save(ctx context.Context, meal *models.PlannedMeal) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPlan(ctx context.Context, planID uuid.UUID, uncookedOnly bool) error
	// ListUpcoming returns uncooked meals of active plans dated from..to inclusive, soonest first.
	ListUpcoming(ctx context.Context, from, to time.Time) ([]models.PlannedMeal, error)
}

type ShoppingListCheckRepository interface {
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]models.ShoppingListCheck, error)
	// Save inserts or refreshes the check for (plan, key).
	Save(ctx context.Context, check *models.ShoppingListCheck) error
	Delete(ctx context.Context, planID uuid.UUID, itemKey string) error
	DeleteByPlan(ctx context.Context, planID uuid.UUID) error
}

type SettingsRepository interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	Save(ctx context.Context, settings *models.AppSettings) error
}

type NotificationFilter struct {
	UnreadOnly bool
	// Limit <= 0 means no limit.
	Limit int
}

// NotificationRepository only ever reads or writes one user's notifications; a row owned by
// someone else behaves as if it did not exist.
type NotificationRepository interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID, filter NotificationFilter) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	HasUnread(ctx context.Context, userID uuid.UUID, kind models.NotificationType, subject string) (bool, error)
	Create(ctx context.Context, notification *models.Notification) error
	Save(ctx context.Context, notification *models.Notification) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type Totals struct {
	Recipes        int64
	MenuPlans      int64
	InventoryItems int64
	Ratings        int64
	Raters         int64
}

// StatisticsRepository answers the aggregate questions behind the admin dashboard.
type StatisticsRepository interface {
	Totals(ctx context.Context) (Totals, error)
	MostCooked(ctx context.Context, limit int) ([]models.Recipe, error)
	DifficultyCounts(ctx context.Context) (map[models.Difficulty]int64, error)
	// RecipeCreationTimes lists created_at for every recipe that is not deleted.
	RecipeCreationTimes(ctx context.Context) ([]time.Time, error)
}

// Store hands out repositories bound to one connection or transaction.
type Store interface {
	Recipes() RecipeRepository
	RecipeVersions() RecipeVersionRepository
	InventoryItems() InventoryItemRepository
	InventoryHistory() InventoryHistoryRepository
	Ratings() RatingRepository
	MenuPlans() MenuPlanRepository
	PlannedMeals() PlannedMealRepository
	ShoppingListChecks() ShoppingListCheckRepository
	Settings() SettingsRepository
	Notifications() NotificationRepository
	Statistics() StatisticsRepository
	// Transaction runs fn with a Store whose repositories share one database transaction.
	// Returning an error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
