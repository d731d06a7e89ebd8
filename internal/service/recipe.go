package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// RecipeListFilter narrows ListRecipes. Page is 1-based.
type RecipeListFilter struct {
	Search     string
	Tag        string
	Difficulty models.Difficulty
	Page       int
	Limit      int
}

type RecipePage struct {
	Recipes []models.Recipe `json:"recipes"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// RecipeService owns recipe content and its append-only version history.
type RecipeService struct {
	store    repository.Store
	log      *logger.Logger
	notifier *NotificationService
}

var _ IRecipeService = (*RecipeService)(nil)

func NewRecipeService(store repository.Store, baseLog *logger.Logger) *RecipeService {
	return &RecipeService{
		store: store,
		log:   baseLog.With("service", "RecipeService"),
	}
}

// NotifyUpdatesTo makes every new version after the first raise recipe_update notifications
// through n, in the same transaction as the version itself.
func (s *RecipeService) NotifyUpdatesTo(n *NotificationService) {
	s.notifier = n
}

func (s *RecipeService) CreateRecipe(ctx context.Context, actor uuid.UUID, content models.RecipeContent) (*models.Recipe, error) {
	content, err := prepareContent(content)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		RecipeContent:  content,
		CurrentVersion: 1,
		CreatedBy:      actor,
		Embedding:      recipeEmbedding(content),
	}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Recipes().Save(ctx, recipe); err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		version := &models.RecipeVersion{
			RecipeID:          recipe.ID,
			VersionNumber:     1,
			RecipeContent:     cloneContent(content),
			ChangeDescription: "Initial version",
			CreatedBy:         actor,
		}
		if err := tx.RecipeVersions().Create(ctx, version); err != nil {
			return fmt.Errorf("failed to create recipe version: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("recipe created", "recipe_id", recipe.ID, "actor", actor)
	return recipe, nil
}

func (s *RecipeService) UpdateRecipe(ctx context.Context, actor, id uuid.UUID, content models.RecipeContent, changeDescription string) (*models.Recipe, error) {
	content, err := prepareContent(content)
	if err != nil {
		return nil, err
	}

	var recipe *models.Recipe
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		recipe, err = lockActiveRecipe(ctx, tx, id)
		if err != nil {
			return err
		}
		_, err = s.appendVersion(ctx, tx, recipe, content, strings.TrimSpace(changeDescription), actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("recipe updated", "recipe_id", id, "version", recipe.CurrentVersion, "actor", actor)
	return recipe, nil
}

// RevertRecipe re-publishes an old snapshot as the next version number.
func (s *RecipeService) RevertRecipe(ctx context.Context, actor, id uuid.UUID, versionNumber int) (*models.Recipe, error) {
	var recipe *models.Recipe
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		recipe, err = lockActiveRecipe(ctx, tx, id)
		if err != nil {
			return err
		}
		old, err := tx.RecipeVersions().Get(ctx, id, versionNumber)
		if err != nil {
			return lookupErr(err, "recipe version", fmt.Sprintf("%s@%d", id, versionNumber))
		}
		_, err = s.appendVersion(ctx, tx, recipe, old.RecipeContent, fmt.Sprintf("Reverted to version %d", versionNumber), actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("recipe reverted", "recipe_id", id, "from_version", versionNumber, "version", recipe.CurrentVersion, "actor", actor)
	return recipe, nil
}

func (s *RecipeService) appendVersion(ctx context.Context, tx repository.Store, recipe *models.Recipe, content models.RecipeContent, description string, actor uuid.UUID) (*models.RecipeVersion, error) {
	latest, err := tx.RecipeVersions().MaxVersion(ctx, recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read latest version: %w", err)
	}

	version := &models.RecipeVersion{
		RecipeID:          recipe.ID,
		VersionNumber:     latest + 1,
		RecipeContent:     cloneContent(content),
		ChangeDescription: description,
		CreatedBy:         actor,
	}
	if err := tx.RecipeVersions().Create(ctx, version); err != nil {
		return nil, fmt.Errorf("failed to create recipe version: %w", err)
	}

	recipe.RecipeContent = cloneContent(content)
	recipe.CurrentVersion = version.VersionNumber
	recipe.Embedding = recipeEmbedding(content)
	if err := tx.Recipes().Save(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	if s.notifier != nil {
		if err := s.notifier.recipeUpdated(ctx, tx, recipe, actor); err != nil {
			return nil, err
		}
	}
	return version, nil
}

// RecordCooked bumps the cook statistics in its own transaction.
func (s *RecipeService) RecordCooked(ctx context.Context, id uuid.UUID, cookedDate time.Time) (*models.Recipe, error) {
	var recipe *models.Recipe
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		recipe, err = s.recordCooked(ctx, tx, id, cookedDate)
		return err
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// recordCooked must run inside tx. last_cooked_date never moves backwards.
func (s *RecipeService) recordCooked(ctx context.Context, tx repository.Store, id uuid.UUID, cookedDate time.Time) (*models.Recipe, error) {
	recipe, err := lockActiveRecipe(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	cooked := dateOnly(cookedDate)
	recipe.TimesCooked++
	if recipe.LastCookedDate == nil || cooked.After(dateOnly(*recipe.LastCookedDate)) {
		recipe.LastCookedDate = &cooked
	}
	if err := tx.Recipes().Save(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to record cook: %w", err)
	}
	return recipe, nil
}

func (s *RecipeService) DeleteRecipe(ctx context.Context, actor, id uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		recipe, err := lockActiveRecipe(ctx, tx, id)
		if err != nil {
			return err
		}
		recipe.IsDeleted = true
		if err := tx.Recipes().Save(ctx, recipe); err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("recipe deleted", "recipe_id", id, "actor", actor)
	return nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.store.Recipes().Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "recipe", id)
	}
	if recipe.IsDeleted {
		return nil, notFound("recipe", id)
	}
	return recipe, nil
}

func (s *RecipeService) ListRecipes(ctx context.Context, filter RecipeListFilter) (*RecipePage, error) {
	if filter.Difficulty != "" {
		switch filter.Difficulty {
		case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		default:
			return nil, invalid("difficulty", "must be one of: easy, medium, hard")
		}
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	repoFilter := repository.RecipeFilter{
		Search:     filter.Search,
		Tag:        filter.Tag,
		Difficulty: filter.Difficulty,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		vec := GenerateEmbedding(search)
		repoFilter.SearchEmbedding = &vec
	}

	recipes, total, err := s.store.Recipes().List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return &RecipePage{Recipes: recipes, Total: total, Page: page, Limit: limit}, nil
}

// ListVersions works for deleted recipes too so history stays auditable.
func (s *RecipeService) ListVersions(ctx context.Context, id uuid.UUID) ([]models.RecipeVersion, error) {
	if _, err := s.store.Recipes().Get(ctx, id); err != nil {
		return nil, lookupErr(err, "recipe", id)
	}
	versions, err := s.store.RecipeVersions().ListByRecipe(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe versions: %w", err)
	}
	return versions, nil
}

func (s *RecipeService) GetVersion(ctx context.Context, id uuid.UUID, versionNumber int) (*models.RecipeVersion, error) {
	version, err := s.store.RecipeVersions().Get(ctx, id, versionNumber)
	if err != nil {
		return nil, lookupErr(err, "recipe version", fmt.Sprintf("%s@%d", id, versionNumber))
	}
	return version, nil
}

func lockActiveRecipe(ctx context.Context, tx repository.Store, id uuid.UUID) (*models.Recipe, error) {
	recipe, err := tx.Recipes().GetForUpdate(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "recipe", id)
	}
	if recipe.IsDeleted {
		return nil, notFound("recipe", id)
	}
	return recipe, nil
}

// prepareContent trims and lowercases what needs it, then validates.
func prepareContent(content models.RecipeContent) (models.RecipeContent, error) {
	content.Title = strings.TrimSpace(content.Title)
	content.Description = strings.TrimSpace(content.Description)
	content.Instructions = strings.TrimSpace(content.Instructions)
	content.SourceURL = strings.TrimSpace(content.SourceURL)
	content.Difficulty = models.Difficulty(strings.ToLower(strings.TrimSpace(string(content.Difficulty))))

	ingredients := make(datatypes.JSONSlice[models.Ingredient], 0, len(content.Ingredients))
	for _, ing := range content.Ingredients {
		ing.Name = strings.TrimSpace(ing.Name)
		ing.Unit = strings.TrimSpace(ing.Unit)
		ing.Category = strings.TrimSpace(ing.Category)
		ingredients = append(ingredients, ing)
	}
	content.Ingredients = ingredients

	seen := make(map[string]bool, len(content.Tags))
	tags := make(datatypes.JSONSlice[string], 0, len(content.Tags))
	for _, tag := range content.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	content.Tags = tags

	if err := validateStruct(content); err != nil {
		return content, err
	}
	for i, ing := range content.Ingredients {
		if ing.Quantity != nil && ing.Quantity.IsNegative() {
			return content, invalid(fmt.Sprintf("ingredients[%d].quantity", i), "must not be negative")
		}
	}
	return content, nil
}

func cloneContent(content models.RecipeContent) models.RecipeContent {
	out := content
	out.Ingredients = append(datatypes.JSONSlice[models.Ingredient]{}, content.Ingredients...)
	out.Tags = append(datatypes.JSONSlice[string]{}, content.Tags...)
	return out
}
