package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
)

type statisticsRepo struct {
	db *gorm.DB
}

func (r *statisticsRepo) Totals(ctx context.Context) (Totals, error) {
	var totals Totals
	db := r.db.WithContext(ctx)
	counts := []struct {
		query *gorm.DB
		dst   *int64
	}{
		{db.Model(&models.Recipe{}).Where("is_deleted = ?", false), &totals.Recipes},
		{db.Model(&models.MenuPlan{}), &totals.MenuPlans},
		{db.Model(&models.InventoryItem{}), &totals.InventoryItems},
		{db.Model(&models.Rating{}), &totals.Ratings},
		{db.Model(&models.Rating{}).Distinct("user_id"), &totals.Raters},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return Totals{}, translate(err)
		}
	}
	return totals, nil
}

func (r *statisticsRepo) MostCooked(ctx context.Context, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Where("is_deleted = ? AND times_cooked > ?", false, 0).
		Order("times_cooked DESC").
		Order("id").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, translate(err)
	}
	return recipes, nil
}

func (r *statisticsRepo) DifficultyCounts(ctx context.Context) (map[models.Difficulty]int64, error) {
	var rows []struct {
		Difficulty models.Difficulty
		Count      int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("difficulty, COUNT(*) AS count").
		Where("is_deleted = ? AND difficulty IS NOT NULL AND difficulty <> ?", false, "").
		Group("difficulty").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	counts := make(map[models.Difficulty]int64, len(rows))
	for _, row := range rows {
		counts[row.Difficulty] = row.Count
	}
	return counts, nil
}

func (r *statisticsRepo) RecipeCreationTimes(ctx context.Context) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("is_deleted = ?", false).
		Pluck("created_at", &times).Error
	if err != nil {
		return nil, translate(err)
	}
	return times, nil
}
