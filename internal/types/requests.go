package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
)

// RecipeRequest is the body for creating or editing a recipe. Content rules are checked by
// the recipe service.
type RecipeRequest struct {
	models.RecipeContent
	ChangeDescription string `json:"change_description"`
}

type RevertRecipeRequest struct {
	VersionNumber int `json:"version_number" binding:"required,gte=1"`
}

type InventoryItemRequest struct {
	Name           string           `json:"name" binding:"required"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Unit           string           `json:"unit"`
	Category       string           `json:"category"`
	Location       models.Location  `json:"location"`
	ExpirationDate *Date            `json:"expiration_date"`
	MinimumStock   *decimal.Decimal `json:"minimum_stock"`
	Notes          string           `json:"notes"`
}

type AdjustInventoryRequest struct {
	QuantityChange decimal.Decimal   `json:"quantity_change"`
	ChangeType     models.ChangeType `json:"change_type" binding:"required"`
	Reason         string            `json:"reason" binding:"max=500"`
}

type RatingRequest struct {
	ThumbsUp      *bool  `json:"rating" binding:"required"`
	Feedback      string `json:"feedback"`
	Modifications string `json:"modifications"`
}

type UpdateRatingRequest struct {
	ThumbsUp      *bool   `json:"rating"`
	Feedback      *string `json:"feedback"`
	Modifications *string `json:"modifications"`
}

type PlannedMealRequest struct {
	RecipeID        uuid.UUID       `json:"recipe_id" binding:"required"`
	MealDate        Date            `json:"meal_date"`
	MealType        models.MealType `json:"meal_type" binding:"required"`
	ServingsPlanned int             `json:"servings_planned"`
	Notes           string          `json:"notes"`
}

type MenuPlanRequest struct {
	WeekStartDate Date                 `json:"week_start_date"`
	Name          string               `json:"name"`
	IsActive      *bool                `json:"is_active"`
	Meals         []PlannedMealRequest `json:"meals"`
}

type UpdateMenuPlanRequest struct {
	Name     *string               `json:"name"`
	IsActive *bool                 `json:"is_active"`
	Meals    *[]PlannedMealRequest `json:"meals"`
}

type ShoppingListCheckRequest struct {
	Checked        *bool `json:"checked" binding:"required"`
	AddToInventory bool  `json:"add_to_inventory"`
}
