package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-mealplanner/backend/config"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/database"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

//go:embed seed.json
var seedData []byte

type seedFile struct {
	Recipes   []models.RecipeContent       `json:"recipes"`
	Inventory []service.InventoryItemInput `json:"inventory"`
}

// seedUserID owns everything the seeder creates.
var seedUserID = uuid.MustParse("5eed0000-0000-4000-8000-000000000001")

func main() {
	withPlan := flag.Bool("plan", true, "Also create a menu plan for the current week")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	if err := seed(context.Background(), cfg, appLog, *withPlan); err != nil {
		appLog.Fatal("seeding failed", "error", err)
	}
}

func seed(ctx context.Context, cfg *config.Config, appLog *logger.Logger, withPlan bool) error {
	var data seedFile
	if err := json.Unmarshal(seedData, &data); err != nil {
		return fmt.Errorf("failed to parse seed data: %w", err)
	}

	db, err := database.Open(ctx, cfg, appLog)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()
	if err := database.Migrate(ctx, db, cfg.MigrationsDir, appLog); err != nil {
		return err
	}

	store := repository.NewStore(db, appLog)
	settings := service.NewSettingsService(store, appLog)
	recipes := service.NewRecipeService(store, appLog)
	inventory := service.NewInventoryService(store, settings, appLog)
	plans := service.NewMenuPlanService(store, recipes, inventory, appLog)

	var created []*models.Recipe
	for _, content := range data.Recipes {
		recipe, err := recipes.CreateRecipe(ctx, seedUserID, content)
		if err != nil {
			return fmt.Errorf("failed to create recipe %q: %w", content.Title, err)
		}
		created = append(created, recipe)
		appLog.Info("created recipe", "id", recipe.ID, "title", recipe.Title)
	}

	for _, input := range data.Inventory {
		item, err := inventory.CreateItem(ctx, seedUserID, input)
		if err != nil {
			return fmt.Errorf("failed to create inventory item %q: %w", input.Name, err)
		}
		appLog.Info("created inventory item", "id", item.ID, "name", item.Name)
	}

	if !withPlan || len(created) == 0 {
		return nil
	}

	monday := startOfWeek(time.Now())
	mealTypes := []models.MealType{models.MealDinner, models.MealBreakfast}
	input := service.MenuPlanInput{
		WeekStartDate: monday,
		Name:          "Seeded week",
		IsActive:      true,
	}
	for i, recipe := range created {
		input.Meals = append(input.Meals, service.PlannedMealInput{
			RecipeID: recipe.ID,
			MealDate: monday.AddDate(0, 0, i),
			MealType: mealTypes[i%len(mealTypes)],
		})
	}
	plan, err := plans.CreatePlan(ctx, seedUserID, input)
	if err != nil {
		return fmt.Errorf("failed to create menu plan: %w", err)
	}
	appLog.Info("created menu plan", "id", plan.ID, "week_start_date", monday.Format("2006-01-02"), "meals", len(plan.Meals))
	return nil
}

func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
