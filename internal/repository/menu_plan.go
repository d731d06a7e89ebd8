package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
)

type menuPlanRepo struct {
	db *gorm.DB
}

func (r *menuPlanRepo) Get(ctx context.Context, id uuid.UUID) (*models.MenuPlan, error) {
	var plan models.MenuPlan
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

func (r *menuPlanRepo) List(ctx context.Context, filter MenuPlanFilter) ([]models.MenuPlan, error) {
	q := r.db.WithContext(ctx)
	if filter.WeekStart != nil {
		q = q.Where("week_start_date = ?", *filter.WeekStart)
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}

	var plans []models.MenuPlan
	if err := q.Order("week_start_date DESC").Order("created_at DESC").Order("id").Find(&plans).Error; err != nil {
		return nil, translate(err)
	}
	return plans, nil
}

func (r *menuPlanRepo) Save(ctx context.Context, plan *models.MenuPlan) error {
	return translate(r.db.WithContext(ctx).Save(plan).Error)
}

func (r *menuPlanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.MenuPlan{}, "id = ?", id))
}

type plannedMealRepo struct {
	db *gorm.DB
}

func (r *plannedMealRepo) Get(ctx context.Context, planID, mealID uuid.UUID) (*models.PlannedMeal, error) {
	var meal models.PlannedMeal
	err := r.db.WithContext(ctx).
		Where("id = ? AND menu_plan_id = ?", mealID, planID).
		First(&meal).Error
	if err != nil {
		return nil, translate(err)
	}
	return &meal, nil
}

func (r *plannedMealRepo) GetForUpdate(ctx context.Context, planID, mealID uuid.UUID) (*models.PlannedMeal, error) {
	var meal models.PlannedMeal
	err := forUpdate(r.db.WithContext(ctx)).
		Where("id = ? AND menu_plan_id = ?", mealID, planID).
		First(&meal).Error
	if err != nil {
		return nil, translate(err)
	}
	return &meal, nil
}

func (r *plannedMealRepo) ListByPlan(ctx context.Context, planID uuid.UUID) ([]models.PlannedMeal, error) {
	var meals []models.PlannedMeal
	err := r.db.WithContext(ctx).
		Where("menu_plan_id = ?", planID).
		Order("meal_date").
		Order("created_at").
		Order("id").
		Find(&meals).Error
	if err != nil {
		return nil, translate(err)
	}
	return meals, nil
}

func (r *plannedMealRepo) Save(ctx context.Context, meal *models.PlannedMeal) error {
	return translate(r.db.WithContext(ctx).Save(meal).Error)
}

func (r *plannedMealRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.PlannedMeal{}, "id = ?", id))
}

func (r *plannedMealRepo) DeleteByPlan(ctx context.Context, planID uuid.UUID, uncookedOnly bool) error {
	q := r.db.WithContext(ctx).Where("menu_plan_id = ?", planID)
	if uncookedOnly {
		q = q.Where("cooked = ?", false)
	}
	return translate(q.Delete(&models.PlannedMeal{}).Error)
}

func (r *plannedMealRepo) ListUpcoming(ctx context.Context, from, to time.Time) ([]models.PlannedMeal, error) {
	var meals []models.PlannedMeal
	err := r.db.WithContext(ctx).
		Joins("JOIN menu_plans ON menu_plans.id = planned_meals.menu_plan_id").
		Where("menu_plans.is_active = ? AND planned_meals.cooked = ?", true, false).
		Where("planned_meals.meal_date >= ? AND planned_meals.meal_date <= ?", from, to).
		Order("planned_meals.meal_date").
		Order("planned_meals.id").
		Find(&meals).Error
	if err != nil {
		return nil, translate(err)
	}
	return meals, nil
}

type shoppingListCheckRepo struct {
	db *gorm.DB
}

func (r *shoppingListCheckRepo) ListByPlan(ctx context.Context, planID uuid.UUID) ([]models.ShoppingListCheck, error) {
	var checks []models.ShoppingListCheck
	if err := r.db.WithContext(ctx).Where("menu_plan_id = ?", planID).Find(&checks).Error; err != nil {
		return nil, translate(err)
	}
	return checks, nil
}

func (r *shoppingListCheckRepo) Save(ctx context.Context, check *models.ShoppingListCheck) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "menu_plan_id"}, {Name: "item_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"checked_by", "checked_at"}),
		}).
		Create(check).Error
	return translate(err)
}

func (r *shoppingListCheckRepo) Delete(ctx context.Context, planID uuid.UUID, itemKey string) error {
	err := r.db.WithContext(ctx).
		Where("menu_plan_id = ? AND item_key = ?", planID, itemKey).
		Delete(&models.ShoppingListCheck{}).Error
	return translate(err)
}

func (r *shoppingListCheckRepo) DeleteByPlan(ctx context.Context, planID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Where("menu_plan_id = ?", planID).Delete(&models.ShoppingListCheck{}).Error)
}
