package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
)

func TestSettingsDefaultUntilSaved(t *testing.T) {
	f := newFixture(t)

	current, err := f.settings.Current(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAppSettings(), current)
}

func TestSettingsUpdateIsPartial(t *testing.T) {
	f := newFixture(t)

	threshold := 0.6
	saved, err := f.settings.Update(f.ctx, f.actor, SettingsUpdate{
		FavoritesThreshold: &threshold,
		RotationPeriodDays: intPtr(21),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.6, saved.FavoritesThreshold)
	assert.Equal(t, 21, saved.RotationPeriodDays)
	assert.Equal(t, 3, saved.FavoritesMinRaters)
	require.NotNil(t, saved.UpdatedBy)
	assert.Equal(t, f.actor, *saved.UpdatedBy)

	current, err := f.settings.Current(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 21, current.RotationPeriodDays)
	assert.Equal(t, 7, current.ExpirationWarningDays)
}

func TestSettingsUpdateValidation(t *testing.T) {
	f := newFixture(t)

	tooHigh := 1.5
	_, err := f.settings.Update(f.ctx, f.actor, SettingsUpdate{FavoritesThreshold: &tooHigh})
	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "favorites_threshold", verr.Field)

	_, err = f.settings.Update(f.ctx, f.actor, SettingsUpdate{RotationPeriodDays: intPtr(0)})
	assert.ErrorIs(t, err, ErrValidation)
}
