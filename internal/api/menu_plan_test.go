package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

var monday = time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)

func TestCreateMenuPlan(t *testing.T) {
	a := newTestAPI(t, nil)
	recipeID := uuid.New()
	a.plans.On("CreatePlan", mock.Anything, a.userID, mock.MatchedBy(func(in service.MenuPlanInput) bool {
		return in.WeekStartDate.Equal(monday) &&
			in.IsActive &&
			len(in.Meals) == 1 &&
			in.Meals[0].RecipeID == recipeID &&
			in.Meals[0].MealDate.Equal(monday.AddDate(0, 0, 2)) &&
			in.Meals[0].MealType == models.MealDinner
	})).Return(&models.MenuPlan{ID: uuid.New(), WeekStartDate: monday, IsActive: true}, nil)

	w := a.do(t, memberToken, http.MethodPost, "/api/v1/menu-plans", map[string]interface{}{
		"week_start_date": "2026-10-12",
		"meals": []map[string]interface{}{
			{"recipe_id": recipeID, "meal_date": "2026-10-14", "meal_type": "dinner"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["is_active"])
}

func TestCreateMenuPlanSurfacesValidation(t *testing.T) {
	a := newTestAPI(t, nil)
	a.plans.On("CreatePlan", mock.Anything, a.userID, mock.Anything).
		Return(nil, &service.ValidationError{Field: "week_start_date", Message: "must be a Monday"})

	w := a.do(t, memberToken, http.MethodPost, "/api/v1/menu-plans", map[string]interface{}{"week_start_date": "2026-10-13"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "week_start_date", decode(t, w)["field"])
}

func TestListMenuPlans(t *testing.T) {
	a := newTestAPI(t, nil)
	a.plans.On("ListPlans", mock.Anything, mock.MatchedBy(func(w *time.Time) bool {
		return w != nil && w.Equal(monday)
	}), true).Return([]models.MenuPlan{}, nil)

	w := a.do(t, memberToken, http.MethodGet, "/api/v1/menu-plans?week_start=2026-10-12&active=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w)["menu_plans"])

	w = a.do(t, memberToken, http.MethodGet, "/api/v1/menu-plans?week_start=next-monday", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "week_start", decode(t, w)["field"])
}

func TestUpdateMenuPlanOnlyReplacesMealsWhenSent(t *testing.T) {
	a := newTestAPI(t, nil)
	id := uuid.New()
	a.plans.On("UpdatePlan", mock.Anything, a.userID, id, mock.MatchedBy(func(u service.MenuPlanUpdate) bool {
		return u.Name != nil && *u.Name == "Holiday week" && u.Meals == nil && u.IsActive == nil
	})).Return(&models.MenuPlan{ID: id, Name: "Holiday week"}, nil).Once()
	a.plans.On("UpdatePlan", mock.Anything, a.userID, id, mock.MatchedBy(func(u service.MenuPlanUpdate) bool {
		return u.Meals != nil && len(*u.Meals) == 0
	})).Return(&models.MenuPlan{ID: id}, nil).Once()

	w := a.do(t, memberToken, http.MethodPut, "/api/v1/menu-plans/"+id.String(), map[string]interface{}{"name": "Holiday week"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, memberToken, http.MethodPut, "/api/v1/menu-plans/"+id.String(), map[string]interface{}{"meals": []interface{}{}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestMarkCooked(t *testing.T) {
	a := newTestAPI(t, nil)
	planID, mealID := uuid.New(), uuid.New()
	a.plans.On("MarkCooked", mock.Anything, a.userID, planID, mealID).Return(&service.MarkCookedResult{
		Meal:                 &models.PlannedMeal{ID: mealID, MenuPlanID: planID, Cooked: true},
		AlreadyCooked:        true,
		InventoryChanges:     []service.InventoryChange{},
		UnmatchedIngredients: []string{},
		Warnings:             []service.InsufficientStockWarning{},
	}, nil)
	a.plans.On("MarkCooked", mock.Anything, a.userID, planID, mock.Anything).Return(nil, service.ErrNotFound)

	path := "/api/v1/menu-plans/" + planID.String() + "/meals/"
	w := a.do(t, memberToken, http.MethodPost, path+mealID.String()+"/cook", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["already_cooked"])
	assert.Equal(t, []interface{}{}, body["inventory_changes"])

	w = a.do(t, memberToken, http.MethodPost, path+uuid.New().String()+"/cook", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, memberToken, http.MethodPost, path+"nope/cook", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShoppingListRoutes(t *testing.T) {
	a := newTestAPI(t, nil)
	planID := uuid.New()
	a.shopping.On("Generate", mock.Anything, planID, service.ShoppingListOptions{ShowAll: true, Grouped: true}).
		Return(&service.ShoppingList{MenuPlanID: planID, Items: []service.ShoppingListItem{}}, nil)
	a.shopping.On("SetChecked", mock.Anything, a.userID, planID, "flour|g", true, true).
		Return(&service.ShoppingListCheckResult{
			Item:          service.ShoppingListItem{Key: "flour|g", Quantity: decimal.NewFromInt(350), Checked: true},
			InventoryItem: &models.InventoryItem{Name: "Flour", Quantity: decimal.NewFromInt(500)},
		}, nil)

	w := a.do(t, memberToken, http.MethodGet, "/api/v1/menu-plans/"+planID.String()+"/shopping-list?show_all=true&grouped=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, planID.String(), decode(t, w)["menu_plan_id"])

	path := "/api/v1/menu-plans/" + planID.String() + "/shopping-list/items/flour%7Cg"
	w = a.do(t, memberToken, http.MethodPut, path, map[string]interface{}{"checked": true, "add_to_inventory": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	item := decode(t, w)["item"].(map[string]interface{})
	assert.Equal(t, true, item["checked"])

	w = a.do(t, memberToken, http.MethodPut, path, map[string]interface{}{"add_to_inventory": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
