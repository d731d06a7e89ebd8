package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
)

func TestCreatePlanRequiresMonday(t *testing.T) {
	f := newFixture(t)

	_, err := f.plans.CreatePlan(f.ctx, f.actor, MenuPlanInput{WeekStartDate: testMonday.AddDate(0, 0, 1)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "week_start_date", verr.Field)
}

func TestPlannedMealsMustFallInsideTheWeek(t *testing.T) {
	f := newFixture(t)
	recipe := f.recipe(t, "Chili", 4)

	for _, offset := range []int{-1, 7} {
		_, err := f.plans.CreatePlan(f.ctx, f.actor, MenuPlanInput{
			WeekStartDate: testMonday,
			Meals:         []PlannedMealInput{meal(recipe.ID, 0, 2), meal(recipe.ID, offset, 2)},
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "meals[1].meal_date", verr.Field)
	}

	plans, err := f.plans.ListPlans(f.ctx, nil, false)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestPlannedMealsNeedALiveRecipe(t *testing.T) {
	f := newFixture(t)
	recipe := f.recipe(t, "Chili", 4)
	require.NoError(t, f.recipes.DeleteRecipe(f.ctx, f.actor, recipe.ID))

	_, err := f.plans.CreatePlan(f.ctx, f.actor, MenuPlanInput{
		WeekStartDate: testMonday,
		Meals:         []PlannedMealInput{meal(recipe.ID, 0, 2)},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	plan := f.plan(t)
	_, err = f.plans.AddMeal(f.ctx, f.actor, plan.ID, meal(uuid.New(), 0, 2))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlannedServingsDefaultToTheRecipe(t *testing.T) {
	f := newFixture(t)
	recipe := f.recipe(t, "Chili", 4)

	plan := f.plan(t, meal(recipe.ID, 2, 0))
	require.Len(t, plan.Meals, 1)
	assert.Equal(t, 4, plan.Meals[0].ServingsPlanned)

	added, err := f.plans.AddMeal(f.ctx, f.actor, plan.ID, meal(recipe.ID, 3, 6))
	require.NoError(t, err)
	assert.Equal(t, 6, added.ServingsPlanned)

	fetched, err := f.plans.GetPlan(f.ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, fetched.Meals, 2)
}

func TestListPlans(t *testing.T) {
	f := newFixture(t)
	current := f.plan(t)
	next, err := f.plans.CreatePlan(f.ctx, f.actor, MenuPlanInput{WeekStartDate: testMonday.AddDate(0, 0, 7)})
	require.NoError(t, err)

	plans, err := f.plans.ListPlans(f.ctx, nil, false)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, next.ID, plans[0].ID)
	assert.Equal(t, current.ID, plans[1].ID)

	plans, err = f.plans.ListPlans(f.ctx, nil, true)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, current.ID, plans[0].ID)

	week := testMonday.AddDate(0, 0, 7)
	plans, err = f.plans.ListPlans(f.ctx, &week, false)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, next.ID, plans[0].ID)
}

func TestMarkCookedDeductsOnce(t *testing.T) {
	f := newFixture(t)
	flour := f.item(t, "Flour", "500", "g")
	bread := f.recipe(t, "Bread", 2, ingredient("Flour", "100", "g"), ingredient("Yeast", "7", "g"))
	plan := f.plan(t, meal(bread.ID, 2, 4))
	mealID := plan.Meals[0].ID

	result, err := f.plans.MarkCooked(f.ctx, f.actor, plan.ID, mealID)
	require.NoError(t, err)
	assert.False(t, result.AlreadyCooked)
	assert.True(t, result.Meal.Cooked)
	require.NotNil(t, result.Meal.CookedDate)
	assert.True(t, testNow.Equal(*result.Meal.CookedDate))
	require.Len(t, result.InventoryChanges, 1)
	decEqual(t, "200", result.InventoryChanges[0].QuantityDeducted)
	assert.Equal(t, []string{"Yeast"}, result.UnmatchedIngredients)
	assert.Empty(t, result.Warnings)

	again, err := f.plans.MarkCooked(f.ctx, f.actor, plan.ID, mealID)
	require.NoError(t, err)
	assert.True(t, again.AlreadyCooked)
	assert.Empty(t, again.InventoryChanges)

	decEqual(t, "300", f.quantityOf(t, flour.ID))

	cooked, err := f.recipes.GetRecipe(f.ctx, bread.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cooked.TimesCooked)
	require.NotNil(t, cooked.LastCookedDate)
	assert.True(t, testMonday.AddDate(0, 0, 2).Equal(*cooked.LastCookedDate))

	history, err := f.inventory.History(f.ctx, flour.ID)
	require.NoError(t, err)
	var reasons []string
	for _, h := range history {
		reasons = append(reasons, h.Reason)
	}
	assert.Contains(t, reasons, "Used for Bread")
}

func TestMarkCookedOnDeletedRecipeChangesNothing(t *testing.T) {
	f := newFixture(t)
	flour := f.item(t, "Flour", "500", "g")
	bread := f.recipe(t, "Bread", 2, ingredient("Flour", "100", "g"))
	plan := f.plan(t, meal(bread.ID, 0, 2))
	require.NoError(t, f.recipes.DeleteRecipe(f.ctx, f.actor, bread.ID))

	_, err := f.plans.MarkCooked(f.ctx, f.actor, plan.ID, plan.Meals[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	decEqual(t, "500", f.quantityOf(t, flour.ID))
	fetched, err := f.plans.GetPlan(f.ctx, plan.ID)
	require.NoError(t, err)
	assert.False(t, fetched.Meals[0].Cooked)
}

func TestMarkCookedChecksThePlan(t *testing.T) {
	f := newFixture(t)
	bread := f.recipe(t, "Bread", 2)
	plan := f.plan(t, meal(bread.ID, 0, 2))

	_, err := f.plans.MarkCooked(f.ctx, f.actor, uuid.New(), plan.Meals[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.plans.MarkCooked(f.ctx, f.actor, plan.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePlanKeepsCookedMeals(t *testing.T) {
	f := newFixture(t)
	soup := f.recipe(t, "Soup", 2)
	salad := f.recipe(t, "Salad", 2)
	curry := f.recipe(t, "Curry", 4)
	plan := f.plan(t, meal(soup.ID, 0, 2), meal(salad.ID, 1, 2))

	_, err := f.plans.MarkCooked(f.ctx, f.actor, plan.ID, plan.Meals[0].ID)
	require.NoError(t, err)

	name := "Busy week"
	inactive := false
	replacement := []PlannedMealInput{meal(curry.ID, 3, 4)}
	updated, err := f.plans.UpdatePlan(f.ctx, f.actor, plan.ID, MenuPlanUpdate{
		Name:     &name,
		IsActive: &inactive,
		Meals:    &replacement,
	})
	require.NoError(t, err)

	assert.Equal(t, "Busy week", updated.Name)
	assert.False(t, updated.IsActive)
	require.Len(t, updated.Meals, 2)
	assert.Equal(t, soup.ID, updated.Meals[0].RecipeID)
	assert.True(t, updated.Meals[0].Cooked)
	assert.Equal(t, curry.ID, updated.Meals[1].RecipeID)
	assert.False(t, updated.Meals[1].Cooked)
}

func TestRemoveMeal(t *testing.T) {
	f := newFixture(t)
	soup := f.recipe(t, "Soup", 2)
	plan := f.plan(t, meal(soup.ID, 0, 2), meal(soup.ID, 1, 2))
	cooked := plan.Meals[0].ID

	_, err := f.plans.MarkCooked(f.ctx, f.actor, plan.ID, cooked)
	require.NoError(t, err)

	assert.ErrorIs(t, f.plans.RemoveMeal(f.ctx, f.actor, uuid.New(), cooked), ErrNotFound)
	require.NoError(t, f.plans.RemoveMeal(f.ctx, f.actor, plan.ID, cooked))
	assert.ErrorIs(t, f.plans.RemoveMeal(f.ctx, f.actor, plan.ID, cooked), ErrNotFound)

	fetched, err := f.plans.GetPlan(f.ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Meals, 1)
	assert.Equal(t, plan.Meals[1].ID, fetched.Meals[0].ID)
}

func TestDeletePlanRemovesMealsAndChecks(t *testing.T) {
	f := newFixture(t)
	soup := f.recipe(t, "Soup", 2, ingredient("Leeks", "2", ""))
	plan := f.plan(t, meal(soup.ID, 0, 2))

	_, err := f.shopping.SetChecked(f.ctx, f.actor, plan.ID, "leeks|", true, false)
	require.NoError(t, err)

	require.NoError(t, f.plans.DeletePlan(f.ctx, f.actor, plan.ID))

	_, err = f.plans.GetPlan(f.ctx, plan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	meals, err := f.store.PlannedMeals().ListByPlan(f.ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, meals)
	checks, err := f.store.ShoppingListChecks().ListByPlan(f.ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, checks)

	assert.ErrorIs(t, f.plans.DeletePlan(f.ctx, f.actor, plan.ID), ErrNotFound)

	_, err = f.recipes.GetRecipe(f.ctx, soup.ID)
	require.NoError(t, err)
}

func TestMealTypeValidation(t *testing.T) {
	f := newFixture(t)
	soup := f.recipe(t, "Soup", 2)
	plan := f.plan(t)

	input := meal(soup.ID, 0, 2)
	input.MealType = models.MealType("brunch")
	_, err := f.plans.AddMeal(f.ctx, f.actor, plan.ID, input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "meal_type", verr.Field)
}
