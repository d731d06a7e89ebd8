package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
)

const maxFeedbackLength = 2000

// RatingSummary is the favorite computation for one recipe. ThumbsUpRatio is nil when nobody
// has rated the recipe.
type RatingSummary struct {
	RecipeID        uuid.UUID `json:"recipe_id"`
	ThumbsUpCount   int64     `json:"thumbs_up_count"`
	ThumbsDownCount int64     `json:"thumbs_down_count"`
	TotalRatings    int64     `json:"total_ratings"`
	ThumbsUpRatio   *float64  `json:"thumbs_up_ratio"`
	IsFavorite      bool      `json:"is_favorite"`
}

// RatingUpdate edits a rating in place. Nil fields are left alone.
type RatingUpdate struct {
	ThumbsUp      *bool
	Feedback      *string
	Modifications *string
}

type RatingService struct {
	store    repository.Store
	settings SettingsProvider
	log      *logger.Logger
}

var _ IRatingService = (*RatingService)(nil)

func NewRatingService(store repository.Store, settings SettingsProvider, baseLog *logger.Logger) *RatingService {
	return &RatingService{
		store:    store,
		settings: settings,
		log:      baseLog.With("service", "RatingService"),
	}
}

// Rate stores userID's opinion of a recipe. A second call from the same user overwrites the
// first rather than adding another row.
func (s *RatingService) Rate(ctx context.Context, recipeID, userID uuid.UUID, thumbsUp bool, feedback, modifications string) (*models.Rating, error) {
	if userID == uuid.Nil {
		return nil, invalid("user_id", "is required")
	}
	if err := checkFeedback(feedback, modifications); err != nil {
		return nil, err
	}

	var rating *models.Rating
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		recipe, err := tx.Recipes().Get(ctx, recipeID)
		if err != nil {
			return lookupErr(err, "recipe", recipeID)
		}
		if recipe.IsDeleted {
			return notFound("recipe", recipeID)
		}

		existing, err := tx.Ratings().FindByRecipeAndUser(ctx, recipeID, userID)
		switch {
		case err == nil:
			existing.ThumbsUp = thumbsUp
			existing.Feedback = feedback
			existing.Modifications = modifications
			if err := tx.Ratings().Save(ctx, existing); err != nil {
				return fmt.Errorf("failed to update rating: %w", err)
			}
			rating = existing
			return nil
		case errors.Is(err, repository.ErrNotFound):
			rating = &models.Rating{
				RecipeID:      recipeID,
				UserID:        userID,
				ThumbsUp:      thumbsUp,
				Feedback:      feedback,
				Modifications: modifications,
			}
			return s.insert(ctx, tx, rating)
		default:
			return fmt.Errorf("failed to load rating: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return rating, nil
}

func (s *RatingService) insert(ctx context.Context, tx repository.Store, rating *models.Rating) error {
	err := tx.Ratings().Create(ctx, rating)
	if errors.Is(err, repository.ErrConflict) {
		return &ConflictError{Message: "user has already rated this recipe"}
	}
	if err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

// UpdateRating only lets the author touch their rating; anyone else gets NotFound.
func (s *RatingService) UpdateRating(ctx context.Context, ratingID, userID uuid.UUID, update RatingUpdate) (*models.Rating, error) {
	feedback, modifications := "", ""
	if update.Feedback != nil {
		feedback = *update.Feedback
	}
	if update.Modifications != nil {
		modifications = *update.Modifications
	}
	if err := checkFeedback(feedback, modifications); err != nil {
		return nil, err
	}

	var rating *models.Rating
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		rating, err = ownedRating(ctx, tx, ratingID, userID)
		if err != nil {
			return err
		}
		if update.ThumbsUp != nil {
			rating.ThumbsUp = *update.ThumbsUp
		}
		if update.Feedback != nil {
			rating.Feedback = feedback
		}
		if update.Modifications != nil {
			rating.Modifications = modifications
		}
		if err := tx.Ratings().Save(ctx, rating); err != nil {
			return fmt.Errorf("failed to update rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rating, nil
}

// DeleteRating removes the row outright; ratings keep no history.
func (s *RatingService) DeleteRating(ctx context.Context, ratingID, userID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := ownedRating(ctx, tx, ratingID, userID); err != nil {
			return err
		}
		if err := tx.Ratings().Delete(ctx, ratingID); err != nil {
			return lookupErr(err, "rating", ratingID)
		}
		return nil
	})
}

func (s *RatingService) ListRatings(ctx context.Context, recipeID uuid.UUID) ([]models.Rating, error) {
	if _, err := s.activeRecipe(ctx, recipeID); err != nil {
		return nil, err
	}
	ratings, err := s.store.Ratings().ListByRecipe(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}
	return ratings, nil
}

func (s *RatingService) Summary(ctx context.Context, recipeID uuid.UUID) (*RatingSummary, error) {
	if _, err := s.activeRecipe(ctx, recipeID); err != nil {
		return nil, err
	}
	summaries, err := s.Summaries(ctx, []uuid.UUID{recipeID})
	if err != nil {
		return nil, err
	}
	summary := summaries[recipeID]
	return &summary, nil
}

// Summaries computes summaries for many recipes with one settings snapshot. Recipes nobody
// rated still get an entry.
func (s *RatingService) Summaries(ctx context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID]RatingSummary, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.Ratings().CountsByRecipe(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}

	out := make(map[uuid.UUID]RatingSummary, len(recipeIDs))
	for _, id := range recipeIDs {
		out[id] = summarize(id, counts[id], settings)
	}
	return out, nil
}

// summarize never divides by zero: with no ratings the ratio stays nil and the recipe is not a
// favorite.
func summarize(recipeID uuid.UUID, counts repository.RatingCounts, settings models.AppSettings) RatingSummary {
	summary := RatingSummary{
		RecipeID:        recipeID,
		ThumbsUpCount:   counts.ThumbsUp,
		ThumbsDownCount: counts.ThumbsDown,
		TotalRatings:    counts.ThumbsUp + counts.ThumbsDown,
	}
	if summary.TotalRatings == 0 {
		return summary
	}
	ratio := float64(summary.ThumbsUpCount) / float64(summary.TotalRatings)
	summary.ThumbsUpRatio = &ratio
	summary.IsFavorite = summary.TotalRatings >= int64(settings.FavoritesMinRaters) &&
		ratio >= settings.FavoritesThreshold
	return summary
}

func (s *RatingService) activeRecipe(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.store.Recipes().Get(ctx, recipeID)
	if err != nil {
		return nil, lookupErr(err, "recipe", recipeID)
	}
	if recipe.IsDeleted {
		return nil, notFound("recipe", recipeID)
	}
	return recipe, nil
}

func ownedRating(ctx context.Context, tx repository.Store, ratingID, userID uuid.UUID) (*models.Rating, error) {
	rating, err := tx.Ratings().Get(ctx, ratingID)
	if err != nil {
		return nil, lookupErr(err, "rating", ratingID)
	}
	if rating.UserID != userID {
		return nil, notFound("rating", ratingID)
	}
	return rating, nil
}

func checkFeedback(feedback, modifications string) error {
	if len(strings.TrimSpace(feedback)) > maxFeedbackLength {
		return invalid("feedback", fmt.Sprintf("must be at most %d characters", maxFeedbackLength))
	}
	if len(strings.TrimSpace(modifications)) > maxFeedbackLength {
		return invalid("modifications", fmt.Sprintf("must be at most %d characters", maxFeedbackLength))
	}
	return nil
}
