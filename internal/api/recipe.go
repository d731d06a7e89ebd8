package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/types"
)

type RecipeHandler struct {
	recipes service.IRecipeService
}

func NewRecipeHandler(recipes service.IRecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// RegisterRoutes mounts read routes on read and writes on write, which callers may rate limit.
func (h *RecipeHandler) RegisterRoutes(read, write *gin.RouterGroup) {
	read.GET("/recipes", h.ListRecipes)
	read.GET("/recipes/:id", h.GetRecipe)
	read.GET("/recipes/:id/versions", h.ListVersions)
	read.GET("/recipes/:id/versions/:version", h.GetVersion)

	write.POST("/recipes", h.CreateRecipe)
	write.PUT("/recipes/:id", h.UpdateRecipe)
	write.POST("/recipes/:id/revert", h.RevertRecipe)
	write.DELETE("/recipes/:id", h.DeleteRecipe)
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	result, err := h.recipes.ListRecipes(c.Request.Context(), service.RecipeListFilter{
		Search:     c.Query("q"),
		Tag:        c.Query("tag"),
		Difficulty: models.Difficulty(c.Query("difficulty")),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, req.RecipeContent)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), userID, id, req.RecipeContent, req.ChangeDescription)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) RevertRecipe(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.RevertRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipes.RevertRecipe(c.Request.Context(), userID, id, req.VersionNumber)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) ListVersions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	versions, err := h.recipes.ListVersions(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

func (h *RecipeHandler) GetVersion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	number, err := strconv.Atoi(c.Param("version"))
	if err != nil || number < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version"})
		return
	}
	version, err := h.recipes.GetVersion(c.Request.Context(), id, number)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, version)
}
