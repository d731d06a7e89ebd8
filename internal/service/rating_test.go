package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateIsOneRowPerUser(t *testing.T) {
	f := newFixture(t)
	recipe := f.recipe(t, "Tacos", 4)
	user := uuid.New()

	first, err := f.ratings.Rate(f.ctx, recipe.ID, user, true, "great", "")
	require.NoError(t, err)
	second, err := f.ratings.Rate(f.ctx, recipe.ID, user, false, "too spicy", "less chili")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	ratings, err := f.ratings.ListRatings(f.ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.False(t, ratings[0].ThumbsUp)
	assert.Equal(t, "too spicy", ratings[0].Feedback)
	assert.Equal(t, "less chili", ratings[0].Modifications)
}

func TestRateRejectsDeletedRecipeAndLongFeedback(t *testing.T) {
	f := newFixture(t)
	recipe := f.recipe(t, "Tacos", 4)

	_, err := f.ratings.Rate(f.ctx, recipe.ID, uuid.New(), true, strings.Repeat("x", maxFeedbackLength+1), "")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.recipes.DeleteRecipe(f.ctx, f.actor, recipe.ID))
	_, err = f.ratings.Rate(f.ctx, recipe.ID, uuid.New(), true, "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFavoriteNeedsThresholdAndEnoughRaters(t *testing.T) {
	f := newFixture(t)
	recipe := f.recipe(t, "Lasagna", 6)
	for _, up := range []bool{true, true, true, false} {
		_, err := f.ratings.Rate(f.ctx, recipe.ID, uuid.New(), up, "", "")
		require.NoError(t, err)
	}

	summary, err := f.ratings.Summary(f.ctx, recipe.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, summary.ThumbsUpCount)
	assert.EqualValues(t, 1, summary.ThumbsDownCount)
	assert.EqualValues(t, 4, summary.TotalRatings)
	require.NotNil(t, summary.ThumbsUpRatio)
	assert.InDelta(t, 0.75, *summary.ThumbsUpRatio, 1e-9)
	assert.True(t, summary.IsFavorite)

	_, err = f.settings.Update(f.ctx, f.actor, SettingsUpdate{FavoritesMinRaters: intPtr(5)})
	require.NoError(t, err)

	summary, err = f.ratings.Summary(f.ctx, recipe.ID)
	require.NoError(t, err)
	assert.False(t, summary.IsFavorite)
}

func TestSummaryWithoutRatings(t *testing.T) {
	f := newFixture(t)
	recipe := f.recipe(t, "Plain Rice", 2)

	summary, err := f.ratings.Summary(f.ctx, recipe.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalRatings)
	assert.Nil(t, summary.ThumbsUpRatio)
	assert.False(t, summary.IsFavorite)
}

func TestOnlyTheAuthorCanChangeARating(t *testing.T) {
	f := newFixture(t)
	recipe := f.recipe(t, "Tacos", 4)
	author, stranger := uuid.New(), uuid.New()

	rating, err := f.ratings.Rate(f.ctx, recipe.ID, author, true, "", "")
	require.NoError(t, err)

	down := false
	_, err = f.ratings.UpdateRating(f.ctx, rating.ID, stranger, RatingUpdate{ThumbsUp: &down})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.ratings.DeleteRating(f.ctx, rating.ID, stranger), ErrNotFound)

	note := "needs salt"
	updated, err := f.ratings.UpdateRating(f.ctx, rating.ID, author, RatingUpdate{ThumbsUp: &down, Feedback: &note})
	require.NoError(t, err)
	assert.False(t, updated.ThumbsUp)
	assert.Equal(t, "needs salt", updated.Feedback)

	require.NoError(t, f.ratings.DeleteRating(f.ctx, rating.ID, author))
	ratings, err := f.ratings.ListRatings(f.ctx, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, ratings)
}
