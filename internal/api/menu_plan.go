package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/types"
)

type MenuPlanHandler struct {
	plans    service.IMenuPlanService
	shopping service.IShoppingListService
}

func NewMenuPlanHandler(plans service.IMenuPlanService, shopping service.IShoppingListService) *MenuPlanHandler {
	return &MenuPlanHandler{plans: plans, shopping: shopping}
}

func (h *MenuPlanHandler) RegisterRoutes(read, write *gin.RouterGroup) {
	read.GET("/menu-plans", h.ListPlans)
	read.GET("/menu-plans/:id", h.GetPlan)
	read.GET("/menu-plans/:id/shopping-list", h.ShoppingList)

	write.POST("/menu-plans", h.CreatePlan)
	write.PUT("/menu-plans/:id", h.UpdatePlan)
	write.DELETE("/menu-plans/:id", h.DeletePlan)
	write.POST("/menu-plans/:id/meals", h.AddMeal)
	write.DELETE("/menu-plans/:id/meals/:mealId", h.RemoveMeal)
	write.POST("/menu-plans/:id/meals/:mealId/cook", h.MarkCooked)
	write.PUT("/menu-plans/:id/shopping-list/items/:key", h.SetChecked)
}

func (h *MenuPlanHandler) ListPlans(c *gin.Context) {
	week, ok := queryDate(c, "week_start")
	if !ok {
		return
	}
	var weekStart *time.Time
	if week != nil {
		weekStart = &week.Time
	}
	plans, err := h.plans.ListPlans(c.Request.Context(), weekStart, queryBool(c, "active"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu_plans": plans})
}

func (h *MenuPlanHandler) GetPlan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	plan, err := h.plans.GetPlan(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MenuPlanHandler) CreatePlan(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req types.MenuPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	input := service.MenuPlanInput{
		WeekStartDate: req.WeekStartDate.Time,
		Name:          req.Name,
		IsActive:      true,
		Meals:         mealInputs(req.Meals),
	}
	if req.IsActive != nil {
		input.IsActive = *req.IsActive
	}
	plan, err := h.plans.CreatePlan(c.Request.Context(), userID, input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *MenuPlanHandler) UpdatePlan(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateMenuPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	update := service.MenuPlanUpdate{Name: req.Name, IsActive: req.IsActive}
	if req.Meals != nil {
		meals := mealInputs(*req.Meals)
		update.Meals = &meals
	}
	plan, err := h.plans.UpdatePlan(c.Request.Context(), userID, id, update)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MenuPlanHandler) DeletePlan(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.plans.DeletePlan(c.Request.Context(), userID, id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MenuPlanHandler) AddMeal(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.PlannedMealRequest
	if !bindJSON(c, &req) {
		return
	}
	meal, err := h.plans.AddMeal(c.Request.Context(), userID, planID, mealInput(req))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (h *MenuPlanHandler) RemoveMeal(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return
	}
	if err := h.plans.RemoveMeal(c.Request.Context(), userID, planID, mealID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkCooked is safe to retry: a second call reports already_cooked and deducts nothing.
func (h *MenuPlanHandler) MarkCooked(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return
	}
	result, err := h.plans.MarkCooked(c.Request.Context(), userID, planID, mealID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MenuPlanHandler) ShoppingList(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.shopping.Generate(c.Request.Context(), planID, service.ShoppingListOptions{
		ShowAll: queryBool(c, "show_all"),
		Grouped: queryBool(c, "grouped"),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *MenuPlanHandler) SetChecked(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.ShoppingListCheckRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.shopping.SetChecked(c.Request.Context(), userID, planID, c.Param("key"), *req.Checked, req.AddToInventory)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func mealInputs(reqs []types.PlannedMealRequest) []service.PlannedMealInput {
	inputs := make([]service.PlannedMealInput, len(reqs))
	for i, req := range reqs {
		inputs[i] = mealInput(req)
	}
	return inputs
}

func mealInput(req types.PlannedMealRequest) service.PlannedMealInput {
	return service.PlannedMealInput{
		RecipeID:        req.RecipeID,
		MealDate:        req.MealDate.Time,
		MealType:        req.MealType,
		ServingsPlanned: req.ServingsPlanned,
		Notes:           req.Notes,
	}
}
