package repository

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
)

type recipeRepo struct {
	db *gorm.DB
}

func (r *recipeRepo) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (r *recipeRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := forUpdate(r.db.WithContext(ctx)).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (r *recipeRepo) GetMany(ctx context.Context, ids []uuid.UUID) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var recipes []models.Recipe
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, translate(err)
	}
	return recipes, nil
}

func (r *recipeRepo) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if !filter.IncludeDeleted {
			db = db.Where("is_deleted = ?", false)
		}
		if filter.Difficulty != "" {
			db = db.Where("difficulty = ?", filter.Difficulty)
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			db = db.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
		}
		if tag := strings.ToLower(strings.TrimSpace(filter.Tag)); tag != "" {
			db = hasTag(db, tag)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	q := r.db.WithContext(ctx).Scopes(scope)
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		q = orderByRelevance(q, search, filter.SearchEmbedding)
	} else {
		q = q.Order("created_at DESC").Order("id")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, translate(err)
	}
	return recipes, total, nil
}

// orderByRelevance puts title matches ahead of description-only matches, earlier title matches
// first. On PostgreSQL the embedding distance breaks ties between equal title positions; newest
// then ID settle the rest.
func orderByRelevance(db *gorm.DB, search string, embedding *pgvector.Vector) *gorm.DB {
	position := "INSTR(LOWER(title), ?)"
	if isPostgres(db) {
		position = "STRPOS(LOWER(title), ?)"
	}
	sql := "CASE WHEN " + position + " = 0 THEN 1 ELSE 0 END, " + position
	vars := []interface{}{search, search}
	if embedding != nil && isPostgres(db) {
		sql += ", embedding <-> CAST(? AS vector)"
		vars = append(vars, *embedding)
	}
	return db.Clauses(clause.OrderBy{Expression: clause.Expr{
		SQL:                sql + ", created_at DESC, id",
		Vars:               vars,
		WithoutParentheses: true,
	}})
}

func hasTag(db *gorm.DB, tag string) *gorm.DB {
	if isPostgres(db) {
		encoded, err := json.Marshal([]string{tag})
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		return db.Where("tags @> CAST(? AS jsonb)", string(encoded))
	}
	return db.Where("EXISTS (SELECT 1 FROM json_each(recipes.tags) WHERE json_each.value = ?)", tag)
}

func (r *recipeRepo) Save(ctx context.Context, recipe *models.Recipe) error {
	return translate(r.db.WithContext(ctx).Save(recipe).Error)
}

type recipeVersionRepo struct {
	db *gorm.DB
}

func (r *recipeVersionRepo) Create(ctx context.Context, version *models.RecipeVersion) error {
	return translate(r.db.WithContext(ctx).Create(version).Error)
}

func (r *recipeVersionRepo) Get(ctx context.Context, recipeID uuid.UUID, number int) (*models.RecipeVersion, error) {
	var version models.RecipeVersion
	err := r.db.WithContext(ctx).
		Where("recipe_id = ? AND version_number = ?", recipeID, number).
		First(&version).Error
	if err != nil {
		return nil, translate(err)
	}
	return &version, nil
}

func (r *recipeVersionRepo) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]models.RecipeVersion, error) {
	var versions []models.RecipeVersion
	err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("version_number DESC").
		Find(&versions).Error
	if err != nil {
		return nil, translate(err)
	}
	return versions, nil
}

func (r *recipeVersionRepo) MaxVersion(ctx context.Context, recipeID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&models.RecipeVersion{}).
		Where("recipe_id = ?", recipeID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, translate(err)
	}
	return max, nil
}
