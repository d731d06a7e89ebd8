package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
)

type PlannedMealInput struct {
	RecipeID        uuid.UUID       `json:"recipe_id" validate:"required"`
	MealDate        time.Time       `json:"meal_date" validate:"required"`
	MealType        models.MealType `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
	ServingsPlanned int             `json:"servings_planned" validate:"gte=0,lte=100"`
	Notes           string          `json:"notes" validate:"max=1000"`
}

type MenuPlanInput struct {
	WeekStartDate time.Time          `json:"week_start_date" validate:"required"`
	Name          string             `json:"name" validate:"max=200"`
	IsActive      bool               `json:"is_active"`
	Meals         []PlannedMealInput `json:"meals" validate:"dive"`
}

// MenuPlanUpdate leaves nil fields untouched. A non-nil Meals replaces every uncooked meal;
// cooked meals always survive.
type MenuPlanUpdate struct {
	Name     *string             `json:"name" validate:"omitempty,max=200"`
	IsActive *bool               `json:"is_active"`
	Meals    *[]PlannedMealInput `json:"meals" validate:"omitempty,dive"`
}

type MarkCookedResult struct {
	Meal                 *models.PlannedMeal        `json:"meal"`
	AlreadyCooked        bool                       `json:"already_cooked"`
	InventoryChanges     []InventoryChange          `json:"inventory_changes"`
	UnmatchedIngredients []string                   `json:"unmatched_ingredients"`
	Warnings             []InsufficientStockWarning `json:"warnings"`
}

type MenuPlanService struct {
	store     repository.Store
	recipes   *RecipeService
	inventory *InventoryService
	log       *logger.Logger
	now       func() time.Time
}

var _ IMenuPlanService = (*MenuPlanService)(nil)

func NewMenuPlanService(store repository.Store, recipes *RecipeService, inventory *InventoryService, baseLog *logger.Logger) *MenuPlanService {
	return &MenuPlanService{
		store:     store,
		recipes:   recipes,
		inventory: inventory,
		log:       baseLog.With("service", "MenuPlanService"),
		now:       time.Now,
	}
}

func (s *MenuPlanService) CreatePlan(ctx context.Context, actor uuid.UUID, input MenuPlanInput) (*models.MenuPlan, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	week := dateOnly(input.WeekStartDate)
	if week.Weekday() != time.Monday {
		return nil, invalid("week_start_date", "must be a Monday")
	}

	plan := &models.MenuPlan{
		WeekStartDate: week,
		Name:          strings.TrimSpace(input.Name),
		IsActive:      input.IsActive,
		CreatedBy:     actor,
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.MenuPlans().Save(ctx, plan); err != nil {
			return fmt.Errorf("failed to create menu plan: %w", err)
		}
		meals, err := s.insertMeals(ctx, tx, plan, input.Meals)
		if err != nil {
			return err
		}
		plan.Meals = meals
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("menu plan created", "plan_id", plan.ID, "week_start_date", week.Format(time.DateOnly), "meals", len(plan.Meals))
	return plan, nil
}

func (s *MenuPlanService) GetPlan(ctx context.Context, id uuid.UUID) (*models.MenuPlan, error) {
	plan, err := s.store.MenuPlans().Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "menu plan", id)
	}
	meals, err := s.store.PlannedMeals().ListByPlan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load planned meals: %w", err)
	}
	plan.Meals = nonNilMeals(meals)
	return plan, nil
}

// ListPlans returns plans newest week first, each with its meals.
func (s *MenuPlanService) ListPlans(ctx context.Context, weekStart *time.Time, activeOnly bool) ([]models.MenuPlan, error) {
	filter := repository.MenuPlanFilter{ActiveOnly: activeOnly}
	if weekStart != nil {
		week := dateOnly(*weekStart)
		filter.WeekStart = &week
	}
	plans, err := s.store.MenuPlans().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu plans: %w", err)
	}
	for i := range plans {
		meals, err := s.store.PlannedMeals().ListByPlan(ctx, plans[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load planned meals: %w", err)
		}
		plans[i].Meals = nonNilMeals(meals)
	}
	if plans == nil {
		plans = []models.MenuPlan{}
	}
	return plans, nil
}

func (s *MenuPlanService) UpdatePlan(ctx context.Context, actor, id uuid.UUID, update MenuPlanUpdate) (*models.MenuPlan, error) {
	if err := validateStruct(update); err != nil {
		return nil, err
	}

	var plan *models.MenuPlan
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		plan, err = tx.MenuPlans().Get(ctx, id)
		if err != nil {
			return lookupErr(err, "menu plan", id)
		}
		if update.Name != nil {
			plan.Name = strings.TrimSpace(*update.Name)
		}
		if update.IsActive != nil {
			plan.IsActive = *update.IsActive
		}
		if err := tx.MenuPlans().Save(ctx, plan); err != nil {
			return fmt.Errorf("failed to update menu plan: %w", err)
		}

		if update.Meals != nil {
			if err := tx.PlannedMeals().DeleteByPlan(ctx, id, true); err != nil {
				return fmt.Errorf("failed to clear planned meals: %w", err)
			}
			if _, err := s.insertMeals(ctx, tx, plan, *update.Meals); err != nil {
				return err
			}
		}

		meals, err := tx.PlannedMeals().ListByPlan(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load planned meals: %w", err)
		}
		plan.Meals = nonNilMeals(meals)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("menu plan updated", "plan_id", id, "actor", actor)
	return plan, nil
}

func (s *MenuPlanService) DeletePlan(ctx context.Context, actor, id uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.MenuPlans().Get(ctx, id); err != nil {
			return lookupErr(err, "menu plan", id)
		}
		if err := tx.ShoppingListChecks().DeleteByPlan(ctx, id); err != nil {
			return fmt.Errorf("failed to delete shopping list checks: %w", err)
		}
		if err := tx.PlannedMeals().DeleteByPlan(ctx, id, false); err != nil {
			return fmt.Errorf("failed to delete planned meals: %w", err)
		}
		if err := tx.MenuPlans().Delete(ctx, id); err != nil {
			return lookupErr(err, "menu plan", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("menu plan deleted", "plan_id", id, "actor", actor)
	return nil
}

func (s *MenuPlanService) AddMeal(ctx context.Context, actor, planID uuid.UUID, input PlannedMealInput) (*models.PlannedMeal, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	var meal *models.PlannedMeal
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		plan, err := tx.MenuPlans().Get(ctx, planID)
		if err != nil {
			return lookupErr(err, "menu plan", planID)
		}
		meals, err := s.insertMeals(ctx, tx, plan, []PlannedMealInput{input})
		if err != nil {
			return err
		}
		meal = &meals[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meal, nil
}

func (s *MenuPlanService) RemoveMeal(ctx context.Context, actor, planID, mealID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.PlannedMeals().GetForUpdate(ctx, planID, mealID); err != nil {
			return lookupErr(err, "planned meal", mealID)
		}
		if err := tx.PlannedMeals().Delete(ctx, mealID); err != nil {
			return lookupErr(err, "planned meal", mealID)
		}
		return nil
	})
}

// MarkCooked moves a meal from planned to cooked. Inventory deduction, the recipe's cook
// statistics and the meal flag commit together. Calling it again on a cooked meal changes
// nothing and reports AlreadyCooked.
func (s *MenuPlanService) MarkCooked(ctx context.Context, actor, planID, mealID uuid.UUID) (*MarkCookedResult, error) {
	result := &MarkCookedResult{
		InventoryChanges:     []InventoryChange{},
		UnmatchedIngredients: []string{},
		Warnings:             []InsufficientStockWarning{},
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		meal, err := tx.PlannedMeals().GetForUpdate(ctx, planID, mealID)
		if err != nil {
			return lookupErr(err, "planned meal", mealID)
		}
		result.Meal = meal
		if meal.Cooked {
			result.AlreadyCooked = true
			return nil
		}

		recipe, err := tx.Recipes().Get(ctx, meal.RecipeID)
		if err != nil {
			return lookupErr(err, "recipe", meal.RecipeID)
		}
		if recipe.IsDeleted {
			return notFound("recipe", meal.RecipeID)
		}

		ratio := servingsRatio(meal.ServingsPlanned, recipe.NativeServings())
		deduction, err := s.inventory.deductForRecipe(ctx, tx, actor, recipe.Ingredients, ratio, "Used for "+recipe.Title)
		if err != nil {
			return err
		}
		if _, err := s.recipes.recordCooked(ctx, tx, recipe.ID, meal.MealDate); err != nil {
			return err
		}

		cookedAt := s.now()
		meal.Cooked = true
		meal.CookedDate = &cookedAt
		meal.CookedBy = &actor
		if err := tx.PlannedMeals().Save(ctx, meal); err != nil {
			return fmt.Errorf("failed to mark meal cooked: %w", err)
		}

		result.InventoryChanges = deduction.Changes
		result.UnmatchedIngredients = deduction.Unmatched
		result.Warnings = deduction.Warnings
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyCooked {
		s.log.Info("meal cooked",
			"plan_id", planID,
			"meal_id", mealID,
			"actor", actor,
			"inventory_changes", len(result.InventoryChanges),
			"warnings", len(result.Warnings),
		)
	}
	return result, nil
}

// insertMeals validates each input against the plan's week and a live recipe before saving.
func (s *MenuPlanService) insertMeals(ctx context.Context, tx repository.Store, plan *models.MenuPlan, inputs []PlannedMealInput) ([]models.PlannedMeal, error) {
	weekStart := dateOnly(plan.WeekStartDate)
	weekEnd := weekStart.AddDate(0, 0, 6)

	meals := make([]models.PlannedMeal, 0, len(inputs))
	for i, input := range inputs {
		field := fmt.Sprintf("meals[%d]", i)
		date := dateOnly(input.MealDate)
		if date.Before(weekStart) || date.After(weekEnd) {
			return nil, invalid(field+".meal_date", fmt.Sprintf("must fall between %s and %s",
				weekStart.Format(time.DateOnly), weekEnd.Format(time.DateOnly)))
		}

		recipe, err := tx.Recipes().Get(ctx, input.RecipeID)
		if err != nil {
			return nil, lookupErr(err, "recipe", input.RecipeID)
		}
		if recipe.IsDeleted {
			return nil, notFound("recipe", input.RecipeID)
		}

		servings := input.ServingsPlanned
		if servings == 0 {
			servings = recipe.NativeServings()
		}
		meal := models.PlannedMeal{
			MenuPlanID:      plan.ID,
			RecipeID:        recipe.ID,
			MealDate:        date,
			MealType:        input.MealType,
			ServingsPlanned: servings,
			Notes:           strings.TrimSpace(input.Notes),
		}
		if err := tx.PlannedMeals().Save(ctx, &meal); err != nil {
			return nil, fmt.Errorf("failed to save planned meal: %w", err)
		}
		meals = append(meals, meal)
	}
	return meals, nil
}

func nonNilMeals(meals []models.PlannedMeal) []models.PlannedMeal {
	if meals == nil {
		return []models.PlannedMeal{}
	}
	return meals
}
