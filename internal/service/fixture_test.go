package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/testhelpers"
)

// testNow is a Friday in October, so the current week starts on 2026-10-12.
var testNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

var testMonday = time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)

type fixture struct {
	ctx           context.Context
	db            *gorm.DB
	store         repository.Store
	settings      *SettingsService
	recipes       *RecipeService
	inventory     *InventoryService
	ratings       *RatingService
	plans         *MenuPlanService
	shopping      *ShoppingListService
	suggestions   *SuggestionService
	notifications *NotificationService
	statistics    *StatisticsService
	actor         uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithDB(t, testhelpers.NewSQLiteDB(t))
}

func newFixtureWithDB(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	log := logger.Nop()
	store := repository.NewStore(db, log)

	settings := NewSettingsService(store, log)
	recipes := NewRecipeService(store, log)
	inventory := NewInventoryService(store, settings, log)
	ratings := NewRatingService(store, settings, log)
	notifications := NewNotificationService(store, inventory, log)
	recipes.NotifyUpdatesTo(notifications)
	f := &fixture{
		ctx:           context.Background(),
		db:            db,
		store:         store,
		settings:      settings,
		recipes:       recipes,
		inventory:     inventory,
		ratings:       ratings,
		plans:         NewMenuPlanService(store, recipes, inventory, log),
		shopping:      NewShoppingListService(store, inventory, log),
		suggestions:   NewSuggestionService(store, ratings, settings, log),
		notifications: notifications,
		statistics:    NewStatisticsService(store, inventory, ratings, log),
		actor:         uuid.New(),
	}
	clock := func() time.Time { return testNow }
	f.settings.now = clock
	f.inventory.now = clock
	f.plans.now = clock
	f.shopping.now = clock
	f.suggestions.now = clock
	f.notifications.now = clock
	f.statistics.now = clock
	return f
}

func qty(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(n int) *int {
	return &n
}

func ingredient(name, quantity, unit string) models.Ingredient {
	ing := models.Ingredient{Name: name, Unit: unit}
	if quantity != "" {
		ing.Quantity = qty(quantity)
	}
	return ing
}

func (f *fixture) recipe(t *testing.T, title string, servings int, ingredients ...models.Ingredient) *models.Recipe {
	t.Helper()
	content := models.RecipeContent{
		Title:       title,
		Ingredients: datatypes.JSONSlice[models.Ingredient](ingredients),
	}
	if servings > 0 {
		content.Servings = intPtr(servings)
	}
	recipe, err := f.recipes.CreateRecipe(f.ctx, f.actor, content)
	require.NoError(t, err)
	return recipe
}

func (f *fixture) item(t *testing.T, name, quantity, unit string) *models.InventoryItem {
	t.Helper()
	item, err := f.inventory.CreateItem(f.ctx, f.actor, InventoryItemInput{
		Name:     name,
		Quantity: *qty(quantity),
		Unit:     unit,
	})
	require.NoError(t, err)
	return item
}

func (f *fixture) plan(t *testing.T, meals ...PlannedMealInput) *models.MenuPlan {
	t.Helper()
	plan, err := f.plans.CreatePlan(f.ctx, f.actor, MenuPlanInput{
		WeekStartDate: testMonday,
		Name:          "Test week",
		IsActive:      true,
		Meals:         meals,
	})
	require.NoError(t, err)
	return plan
}

func meal(recipeID uuid.UUID, dayOffset int, servings int) PlannedMealInput {
	return PlannedMealInput{
		RecipeID:        recipeID,
		MealDate:        testMonday.AddDate(0, 0, dayOffset),
		MealType:        models.MealDinner,
		ServingsPlanned: servings,
	}
}

func (f *fixture) quantityOf(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	item, err := f.inventory.GetItem(f.ctx, id)
	require.NoError(t, err)
	return item.Quantity
}

func decEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
