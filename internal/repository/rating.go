package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
)

type ratingRepo struct {
	db *gorm.DB
}

func (r *ratingRepo) Get(ctx context.Context, id uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).First(&rating, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &rating, nil
}

func (r *ratingRepo) FindByRecipeAndUser(ctx context.Context, recipeID, userID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		First(&rating).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rating, nil
}

func (r *ratingRepo) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Order("id").
		Find(&ratings).Error
	if err != nil {
		return nil, translate(err)
	}
	return ratings, nil
}

func (r *ratingRepo) CountsByRecipe(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]RatingCounts, error) {
	var rows []struct {
		RecipeID uuid.UUID
		Total    int64
		Up       int64
	}
	q := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("recipe_id, COUNT(*) AS total, SUM(CASE WHEN thumbs_up = ? THEN 1 ELSE 0 END) AS up", true).
		Group("recipe_id")
	if len(ids) > 0 {
		q = q.Where("recipe_id IN ?", ids)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}

	counts := make(map[uuid.UUID]RatingCounts, len(rows))
	for _, row := range rows {
		counts[row.RecipeID] = RatingCounts{ThumbsUp: row.Up, ThumbsDown: row.Total - row.Up}
	}
	return counts, nil
}

func (r *ratingRepo) Create(ctx context.Context, rating *models.Rating) error {
	return translate(r.db.WithContext(ctx).Create(rating).Error)
}

func (r *ratingRepo) Save(ctx context.Context, rating *models.Rating) error {
	return translate(r.db.WithContext(ctx).Save(rating).Error)
}

func (r *ratingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.Rating{}, "id = ?", id))
}
