package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
)

func TestCreateRecipeStartsAtVersionOne(t *testing.T) {
	f := newFixture(t)

	recipe, err := f.recipes.CreateRecipe(f.ctx, f.actor, models.RecipeContent{
		Title:       "  Shakshuka ",
		Difficulty:  "Easy",
		Ingredients: datatypes.JSONSlice[models.Ingredient]{ingredient(" Eggs ", "4", "each")},
		Tags:        datatypes.JSONSlice[string]{"Breakfast", "breakfast", " Vegetarian"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, recipe.CurrentVersion)
	assert.Equal(t, "Shakshuka", recipe.Title)
	assert.Equal(t, models.DifficultyEasy, recipe.Difficulty)
	assert.Equal(t, []string{"breakfast", "vegetarian"}, []string(recipe.Tags))
	assert.Equal(t, "Eggs", recipe.Ingredients[0].Name)
	assert.NotNil(t, recipe.Embedding)

	versions, err := f.recipes.ListVersions(f.ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].VersionNumber)
	assert.Equal(t, "Initial version", versions[0].ChangeDescription)
	assert.Equal(t, "Shakshuka", versions[0].Title)
}

func TestCreateRecipeValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name      string
		content   models.RecipeContent
		wantField string
	}{
		{
			name:      "missing title",
			content:   models.RecipeContent{Title: "   "},
			wantField: "title",
		},
		{
			name:      "zero servings",
			content:   models.RecipeContent{Title: "Soup", Servings: intPtr(0)},
			wantField: "servings",
		},
		{
			name:      "unknown difficulty",
			content:   models.RecipeContent{Title: "Soup", Difficulty: "extreme"},
			wantField: "difficulty",
		},
		{
			name: "negative ingredient quantity",
			content: models.RecipeContent{
				Title:       "Soup",
				Ingredients: datatypes.JSONSlice[models.Ingredient]{ingredient("Salt", "-1", "g")},
			},
			wantField: "ingredients[0].quantity",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.recipes.CreateRecipe(f.ctx, f.actor, tt.content)
			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestUpdateAndRevertKeepVersionsContiguous(t *testing.T) {
	f := newFixture(t)
	recipe := f.recipe(t, "Chili", 4, ingredient("Beans", "400", "g"))

	for _, title := range []string{"Chili v2", "Chili v3"} {
		updated, err := f.recipes.UpdateRecipe(f.ctx, f.actor, recipe.ID, models.RecipeContent{Title: title}, "tweak")
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
	}

	reverted, err := f.recipes.RevertRecipe(f.ctx, f.actor, recipe.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, reverted.CurrentVersion)
	assert.Equal(t, "Chili", reverted.Title)
	require.Len(t, reverted.Ingredients, 1)
	assert.Equal(t, "Beans", reverted.Ingredients[0].Name)

	versions, err := f.recipes.ListVersions(f.ctx, recipe.ID)
	require.NoError(t, err)
	numbers := make([]int, len(versions))
	for i, v := range versions {
		numbers[i] = v.VersionNumber
	}
	assert.Equal(t, []int{4, 3, 2, 1}, numbers)
	assert.Equal(t, "Reverted to version 1", versions[0].ChangeDescription)

	// Old snapshots are untouched by later edits.
	v2, err := f.recipes.GetVersion(f.ctx, recipe.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "Chili v2", v2.Title)
	assert.Empty(t, v2.Ingredients)

	current, err := f.recipes.GetRecipe(f.ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, current.CurrentVersion)
}

func TestRevertToUnknownVersion(t *testing.T) {
	f := newFixture(t)
	recipe := f.recipe(t, "Chili", 4)

	_, err := f.recipes.RevertRecipe(f.ctx, f.actor, recipe.ID, 7)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.recipes.GetVersion(f.ctx, recipe.ID, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletedRecipesAreHiddenButAuditable(t *testing.T) {
	f := newFixture(t)
	kept := f.recipe(t, "Kept", 2)
	gone := f.recipe(t, "Gone", 2)

	require.NoError(t, f.recipes.DeleteRecipe(f.ctx, f.actor, gone.ID))

	_, err := f.recipes.GetRecipe(f.ctx, gone.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.recipes.UpdateRecipe(f.ctx, f.actor, gone.ID, models.RecipeContent{Title: "Back"}, "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.recipes.DeleteRecipe(f.ctx, f.actor, gone.ID), ErrNotFound)

	page, err := f.recipes.ListRecipes(f.ctx, RecipeListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, kept.ID, page.Recipes[0].ID)
	assert.EqualValues(t, 1, page.Total)

	versions, err := f.recipes.ListVersions(f.ctx, gone.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestListRecipesFilters(t *testing.T) {
	f := newFixture(t)
	_, err := f.recipes.CreateRecipe(f.ctx, f.actor, models.RecipeContent{
		Title: "Summer Salad", Difficulty: models.DifficultyEasy, Tags: datatypes.JSONSlice[string]{"summer"},
	})
	require.NoError(t, err)
	_, err = f.recipes.CreateRecipe(f.ctx, f.actor, models.RecipeContent{
		Title: "Winter Roast", Difficulty: models.DifficultyHard, Tags: datatypes.JSONSlice[string]{"winter"},
	})
	require.NoError(t, err)

	page, err := f.recipes.ListRecipes(f.ctx, RecipeListFilter{Tag: "Summer"})
	require.NoError(t, err)
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, "Summer Salad", page.Recipes[0].Title)

	page, err = f.recipes.ListRecipes(f.ctx, RecipeListFilter{Search: "roast"})
	require.NoError(t, err)
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, "Winter Roast", page.Recipes[0].Title)

	page, err = f.recipes.ListRecipes(f.ctx, RecipeListFilter{Difficulty: models.DifficultyHard, Limit: 500})
	require.NoError(t, err)
	assert.Len(t, page.Recipes, 1)
	assert.Equal(t, maxPageSize, page.Limit)

	_, err = f.recipes.ListRecipes(f.ctx, RecipeListFilter{Difficulty: "extreme"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordCookedNeverMovesBackwards(t *testing.T) {
	f := newFixture(t)
	recipe := f.recipe(t, "Stew", 4)

	later := time.Date(2026, time.October, 10, 18, 30, 0, 0, time.UTC)
	earlier := later.AddDate(0, 0, -5)

	_, err := f.recipes.RecordCooked(f.ctx, recipe.ID, later)
	require.NoError(t, err)
	updated, err := f.recipes.RecordCooked(f.ctx, recipe.ID, earlier)
	require.NoError(t, err)

	assert.Equal(t, 2, updated.TimesCooked)
	require.NotNil(t, updated.LastCookedDate)
	assert.Equal(t, "2026-10-10", updated.LastCookedDate.Format(time.DateOnly))

	_, err = f.recipes.RecordCooked(f.ctx, uuid.New(), later)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRecipesRanksTitleMatchesFirst(t *testing.T) {
	f := newFixture(t)
	pie := f.recipeWith(t, models.RecipeContent{Title: "Hearty Pie", Description: "A stew under pastry"})
	beef := f.recipeWith(t, models.RecipeContent{Title: "Beef Stew"})
	pot := f.recipeWith(t, models.RecipeContent{Title: "Stew Pot"})
	f.recipeWith(t, models.RecipeContent{Title: "Salad"})

	page, err := f.recipes.ListRecipes(f.ctx, RecipeListFilter{Search: "STEW"})
	require.NoError(t, err)
	require.Len(t, page.Recipes, 3)
	assert.Equal(t, pot.ID, page.Recipes[0].ID)
	assert.Equal(t, beef.ID, page.Recipes[1].ID)
	assert.Equal(t, pie.ID, page.Recipes[2].ID)
}
