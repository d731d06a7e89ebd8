package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/types"
)

// IRecipeService defines the interface for versioned recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, actor uuid.UUID, content models.RecipeContent) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, actor, id uuid.UUID, content models.RecipeContent, changeDescription string) (*models.Recipe, error)
	RevertRecipe(ctx context.Context, actor, id uuid.UUID, versionNumber int) (*models.Recipe, error)
	RecordCooked(ctx context.Context, id uuid.UUID, cookedDate time.Time) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, actor, id uuid.UUID) error
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	ListRecipes(ctx context.Context, filter RecipeListFilter) (*RecipePage, error)
	ListVersions(ctx context.Context, id uuid.UUID) ([]models.RecipeVersion, error)
	GetVersion(ctx context.Context, id uuid.UUID, versionNumber int) (*models.RecipeVersion, error)
}

// IInventoryService defines the interface for the inventory ledger
type IInventoryService interface {
	CreateItem(ctx context.Context, actor uuid.UUID, input InventoryItemInput) (*models.InventoryItem, error)
	UpdateItem(ctx context.Context, actor, id uuid.UUID, input InventoryItemInput) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, actor, id uuid.UUID) error
	GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	ListItems(ctx context.Context, filter repository.InventoryFilter) ([]models.InventoryItem, error)
	Adjust(ctx context.Context, actor, id uuid.UUID, delta decimal.Decimal, changeType models.ChangeType, reason string) (*AdjustResult, error)
	DeductForRecipe(ctx context.Context, actor uuid.UUID, ingredients []models.Ingredient, servingsRatio decimal.Decimal, reason string) (*DeductionResult, error)
	LowStock(ctx context.Context) ([]models.InventoryItem, error)
	ExpiringWithin(ctx context.Context, days *int) ([]ExpiringItem, error)
	History(ctx context.Context, id uuid.UUID) ([]models.InventoryHistory, error)
}

// IRatingService defines the interface for household ratings
type IRatingService interface {
	Rate(ctx context.Context, recipeID, userID uuid.UUID, thumbsUp bool, feedback, modifications string) (*models.Rating, error)
	UpdateRating(ctx context.Context, ratingID, userID uuid.UUID, update RatingUpdate) (*models.Rating, error)
	DeleteRating(ctx context.Context, ratingID, userID uuid.UUID) error
	ListRatings(ctx context.Context, recipeID uuid.UUID) ([]models.Rating, error)
	Summary(ctx context.Context, recipeID uuid.UUID) (*RatingSummary, error)
	Summaries(ctx context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID]RatingSummary, error)
}

type ISettingsService interface {
	SettingsProvider
	Update(ctx context.Context, actor uuid.UUID, update SettingsUpdate) (*models.AppSettings, error)
}

type IShoppingListService interface {
	Generate(ctx context.Context, planID uuid.UUID, opts ShoppingListOptions) (*ShoppingList, error)
	SetChecked(ctx context.Context, actor, planID uuid.UUID, itemKey string, checked, addToInventory bool) (*ShoppingListCheckResult, error)
}

type ISuggestionService interface {
	Suggest(ctx context.Context, strategy Strategy, limit int) ([]Suggestion, error)
}

// IMenuPlanService defines the interface for weekly plans and the cook transition
type IMenuPlanService interface {
	CreatePlan(ctx context.Context, actor uuid.UUID, input MenuPlanInput) (*models.MenuPlan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*models.MenuPlan, error)
	ListPlans(ctx context.Context, weekStart *time.Time, activeOnly bool) ([]models.MenuPlan, error)
	UpdatePlan(ctx context.Context, actor, id uuid.UUID, update MenuPlanUpdate) (*models.MenuPlan, error)
	DeletePlan(ctx context.Context, actor, id uuid.UUID) error
	AddMeal(ctx context.Context, actor, planID uuid.UUID, input PlannedMealInput) (*models.PlannedMeal, error)
	RemoveMeal(ctx context.Context, actor, planID, mealID uuid.UUID) error
	MarkCooked(ctx context.Context, actor, planID, mealID uuid.UUID) (*MarkCookedResult, error)
}

type ITokenService interface {
	GenerateToken(userID uuid.UUID, role string, ttl time.Duration) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// INotificationService defines the interface for per-user notifications
type INotificationService interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) (*NotificationList, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	GenerateLowStock(ctx context.Context, userID uuid.UUID) (int, error)
	GenerateExpiring(ctx context.Context, userID uuid.UUID, days int) (int, error)
	GenerateMealReminders(ctx context.Context, userID uuid.UUID, days int) (int, error)
}

type IStatisticsService interface {
	Snapshot(ctx context.Context) (*Statistics, error)
}
