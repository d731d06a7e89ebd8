package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
)

type inventoryItemRepo struct {
	db *gorm.DB
}

func (r *inventoryItemRepo) Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *inventoryItemRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := forUpdate(r.db.WithContext(ctx)).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *inventoryItemRepo) FindByName(ctx context.Context, normalizedName string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("normalized_name = ?", normalizedName).
		Order("created_at").
		Order("id").
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *inventoryItemRepo) ListByName(ctx context.Context, normalizedName string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("normalized_name = ?", normalizedName).
		Order("created_at").
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *inventoryItemRepo) List(ctx context.Context, filter InventoryFilter) ([]models.InventoryItem, error) {
	q := r.db.WithContext(ctx)
	if filter.Location != "" {
		q = q.Where("location = ?", filter.Location)
	}
	if filter.Category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(filter.Category))
	}
	if search := models.NormalizeName(filter.Search); search != "" {
		q = q.Where("normalized_name LIKE ?", "%"+search+"%")
	}
	if filter.HasMinimumStock {
		q = q.Where("minimum_stock IS NOT NULL")
	}
	if filter.HasExpiration {
		q = q.Where("expiration_date IS NOT NULL")
	}

	var items []models.InventoryItem
	if err := q.Order("normalized_name").Order("created_at").Order("id").Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *inventoryItemRepo) Save(ctx context.Context, item *models.InventoryItem) error {
	return translate(r.db.WithContext(ctx).Save(item).Error)
}

func (r *inventoryItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.InventoryItem{}, "id = ?", id))
}

type inventoryHistoryRepo struct {
	db *gorm.DB
}

func (r *inventoryHistoryRepo) Create(ctx context.Context, entry *models.InventoryHistory) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *inventoryHistoryRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.InventoryHistory, error) {
	var entries []models.InventoryHistory
	err := r.db.WithContext(ctx).
		Where("inventory_item_id = ?", itemID).
		Order("changed_at DESC").
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, translate(err)
	}
	return entries, nil
}
