package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

func TestCreateRecipe(t *testing.T) {
	a := newTestAPI(t, nil)
	created := &models.Recipe{ID: uuid.New(), CurrentVersion: 1}
	created.Title = "Leek Soup"
	a.recipes.On("CreateRecipe", mock.Anything, a.userID, mock.MatchedBy(func(c models.RecipeContent) bool {
		return c.Title == "Leek Soup" && len(c.Ingredients) == 1 && c.Ingredients[0].Quantity.String() == "2"
	})).Return(created, nil)

	w := a.do(t, memberToken, http.MethodPost, "/api/v1/recipes", `{
		"title": "Leek Soup",
		"servings": 4,
		"ingredients": [{"name": "Leeks", "quantity": 2}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, created.ID.String(), body["id"])
	assert.Equal(t, "Leek Soup", body["title"])
}

func TestCreateRecipeRejections(t *testing.T) {
	a := newTestAPI(t, nil)
	a.recipes.On("CreateRecipe", mock.Anything, a.userID, mock.Anything).
		Return(nil, &service.ValidationError{Field: "title", Message: "is required"})

	w := a.do(t, memberToken, http.MethodPost, "/api/v1/recipes", `{"title": ""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "title", body["field"])
	assert.Equal(t, "title: is required", body["error"])

	w = a.do(t, memberToken, http.MethodPost, "/api/v1/recipes", `{"title": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRecipe(t *testing.T) {
	a := newTestAPI(t, nil)
	id := uuid.New()
	a.recipes.On("GetRecipe", mock.Anything, id).Return(nil, fmt.Errorf("lookup: %w", service.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, a.do(t, memberToken, http.MethodGet, "/api/v1/recipes/"+id.String(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, memberToken, http.MethodGet, "/api/v1/recipes/not-a-uuid", nil).Code)
}

func TestListRecipesPassesFilters(t *testing.T) {
	a := newTestAPI(t, nil)
	a.recipes.On("ListRecipes", mock.Anything, service.RecipeListFilter{
		Search:     "soup",
		Tag:        "winter",
		Difficulty: models.DifficultyEasy,
		Page:       2,
		Limit:      5,
	}).Return(&service.RecipePage{Recipes: []models.Recipe{}, Total: 7, Page: 2, Limit: 5}, nil)

	w := a.do(t, memberToken, http.MethodGet, "/api/v1/recipes?q=soup&tag=winter&difficulty=easy&page=2&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7.0, decode(t, w)["total"])

	w = a.do(t, memberToken, http.MethodGet, "/api/v1/recipes?page=two", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "page", decode(t, w)["field"])
}

func TestRecipeVersions(t *testing.T) {
	a := newTestAPI(t, nil)
	id := uuid.New()
	a.recipes.On("ListVersions", mock.Anything, id).Return([]models.RecipeVersion{{RecipeID: id, VersionNumber: 2}, {RecipeID: id, VersionNumber: 1}}, nil)
	a.recipes.On("GetVersion", mock.Anything, id, 3).Return(nil, service.ErrNotFound)
	a.recipes.On("RevertRecipe", mock.Anything, a.userID, id, 1).Return(&models.Recipe{ID: id, CurrentVersion: 3}, nil)

	w := a.do(t, memberToken, http.MethodGet, "/api/v1/recipes/"+id.String()+"/versions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["versions"], 2)

	assert.Equal(t, http.StatusNotFound, a.do(t, memberToken, http.MethodGet, "/api/v1/recipes/"+id.String()+"/versions/3", nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, memberToken, http.MethodGet, "/api/v1/recipes/"+id.String()+"/versions/0", nil).Code)

	w = a.do(t, memberToken, http.MethodPost, "/api/v1/recipes/"+id.String()+"/revert", map[string]int{"version_number": 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, decode(t, w)["current_version"])

	w = a.do(t, memberToken, http.MethodPost, "/api/v1/recipes/"+id.String()+"/revert", map[string]int{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteRecipe(t *testing.T) {
	a := newTestAPI(t, nil)
	id := uuid.New()
	a.recipes.On("DeleteRecipe", mock.Anything, a.userID, id).Return(nil)

	w := a.do(t, memberToken, http.MethodDelete, "/api/v1/recipes/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRatingRoutes(t *testing.T) {
	a := newTestAPI(t, nil)
	recipeID, ratingID := uuid.New(), uuid.New()
	a.ratings.On("Rate", mock.Anything, recipeID, a.userID, false, "too salty", "").
		Return(&models.Rating{ID: ratingID, RecipeID: recipeID, UserID: a.userID}, nil)
	a.ratings.On("DeleteRating", mock.Anything, ratingID, a.userID).Return(service.ErrNotFound)
	ratio := 0.75
	a.ratings.On("Summary", mock.Anything, recipeID).
		Return(&service.RatingSummary{ThumbsUpCount: 3, ThumbsDownCount: 1, TotalRatings: 4, ThumbsUpRatio: &ratio, IsFavorite: true}, nil)

	w := a.do(t, memberToken, http.MethodPost, "/api/v1/recipes/"+recipeID.String()+"/ratings",
		map[string]interface{}{"rating": false, "feedback": "too salty"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ratingID.String(), decode(t, w)["id"])

	w = a.do(t, memberToken, http.MethodPost, "/api/v1/recipes/"+recipeID.String()+"/ratings",
		map[string]interface{}{"feedback": "forgot the thumb"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, memberToken, http.MethodDelete, "/api/v1/ratings/"+ratingID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, memberToken, http.MethodGet, "/api/v1/recipes/"+recipeID.String()+"/ratings/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["is_favorite"])
}
