package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
)

const (
	reasonInitialStock = "Initial inventory"
	reasonManualEdit   = "Manual adjustment"
)

// InventoryItemInput is the editable part of an inventory item.
type InventoryItemInput struct {
	Name           string           `json:"name" validate:"required,max=200"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Unit           string           `json:"unit" validate:"max=50"`
	Category       string           `json:"category" validate:"max=50"`
	Location       models.Location  `json:"location" validate:"omitempty,oneof=pantry fridge freezer other"`
	ExpirationDate *time.Time       `json:"expiration_date"`
	MinimumStock   *decimal.Decimal `json:"minimum_stock"`
	Notes          string           `json:"notes"`
}

// AdjustResult is one realized ledger mutation. Warning is set when the request was clamped.
type AdjustResult struct {
	Item    *models.InventoryItem     `json:"item"`
	History *models.InventoryHistory  `json:"history"`
	Warning *InsufficientStockWarning `json:"warning,omitempty"`
}

// InventoryChange is what a recipe deduction did to one item.
type InventoryChange struct {
	ItemID           uuid.UUID       `json:"item_id"`
	ItemName         string          `json:"item_name"`
	Ingredient       string          `json:"ingredient"`
	QuantityDeducted decimal.Decimal `json:"quantity_deducted"`
	QuantityBefore   decimal.Decimal `json:"quantity_before"`
	QuantityAfter    decimal.Decimal `json:"quantity_after"`
	Unit             string          `json:"unit,omitempty"`
}

type DeductionResult struct {
	Changes   []InventoryChange          `json:"inventory_changes"`
	Unmatched []string                   `json:"unmatched_ingredients"`
	Warnings  []InsufficientStockWarning `json:"warnings"`
}

type ExpiringItem struct {
	models.InventoryItem
	DaysUntilExpiration int `json:"days_until_expiration"`
}

// InventoryService is the stock ledger. Every quantity change goes through adjustLocked so
// that each mutation writes exactly one history row.
type InventoryService struct {
	store    repository.Store
	settings SettingsProvider
	log      *logger.Logger
	now      func() time.Time
}

var _ IInventoryService = (*InventoryService)(nil)

func NewInventoryService(store repository.Store, settings SettingsProvider, baseLog *logger.Logger) *InventoryService {
	return &InventoryService{
		store:    store,
		settings: settings,
		log:      baseLog.With("service", "InventoryService"),
		now:      time.Now,
	}
}

func (s *InventoryService) CreateItem(ctx context.Context, actor uuid.UUID, input InventoryItemInput) (*models.InventoryItem, error) {
	if err := validateItemInput(&input); err != nil {
		return nil, err
	}

	item := &models.InventoryItem{CreatedBy: actor}
	applyItemInput(item, input)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		return s.createLocked(ctx, tx, actor, item, reasonInitialStock)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("inventory item created", "item_id", item.ID, "name", item.Name, "actor", actor)
	return item, nil
}

// createLocked inserts item and logs its opening stock as a purchase.
func (s *InventoryService) createLocked(ctx context.Context, tx repository.Store, actor uuid.UUID, item *models.InventoryItem, reason string) error {
	if err := tx.InventoryItems().Save(ctx, item); err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return s.appendHistory(ctx, tx, item, models.ChangePurchased, decimal.Zero, item.Quantity, reason, actor)
}

// UpdateItem replaces the editable fields. A quantity change is logged as a manual adjustment.
func (s *InventoryService) UpdateItem(ctx context.Context, actor, id uuid.UUID, input InventoryItemInput) (*models.InventoryItem, error) {
	if err := validateItemInput(&input); err != nil {
		return nil, err
	}

	var item *models.InventoryItem
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		item, err = tx.InventoryItems().GetForUpdate(ctx, id)
		if err != nil {
			return lookupErr(err, "inventory item", id)
		}
		before := item.Quantity
		applyItemInput(item, input)
		if err := tx.InventoryItems().Save(ctx, item); err != nil {
			return fmt.Errorf("failed to update inventory item: %w", err)
		}
		if before.Equal(item.Quantity) {
			return nil
		}
		return s.appendHistory(ctx, tx, item, models.ChangeAdjusted, before, item.Quantity, reasonManualEdit, actor)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes the item. Its history rows stay for audit.
func (s *InventoryService) DeleteItem(ctx context.Context, actor, id uuid.UUID) error {
	if err := s.store.InventoryItems().Delete(ctx, id); err != nil {
		return lookupErr(err, "inventory item", id)
	}
	s.log.Info("inventory item deleted", "item_id", id, "actor", actor)
	return nil
}

func (s *InventoryService) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.store.InventoryItems().Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "inventory item", id)
	}
	return item, nil
}

func (s *InventoryService) ListItems(ctx context.Context, filter repository.InventoryFilter) ([]models.InventoryItem, error) {
	items, err := s.store.InventoryItems().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	if items == nil {
		items = []models.InventoryItem{}
	}
	return items, nil
}

// Adjust applies delta to an item. Going below zero clamps and returns a warning instead of
// failing.
func (s *InventoryService) Adjust(ctx context.Context, actor, id uuid.UUID, delta decimal.Decimal, changeType models.ChangeType, reason string) (*AdjustResult, error) {
	if !changeType.Valid() {
		return nil, invalid("change_type", "must be one of: purchased, used, expired, adjusted, auto_deducted")
	}
	if len(reason) > 500 {
		return nil, invalid("reason", "must be at most 500 characters")
	}

	var result *AdjustResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		item, err := tx.InventoryItems().GetForUpdate(ctx, id)
		if err != nil {
			return lookupErr(err, "inventory item", id)
		}
		result, err = s.adjustLocked(ctx, tx, item, delta, changeType, reason, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	if result.Warning != nil {
		s.log.Warn("inventory adjustment clamped", "item_id", id, "requested", result.Warning.Requested, "available", result.Warning.Available)
	}
	return result, nil
}

// adjustLocked expects item to be row-locked by the caller's transaction.
func (s *InventoryService) adjustLocked(ctx context.Context, tx repository.Store, item *models.InventoryItem, delta decimal.Decimal, changeType models.ChangeType, reason string, actor uuid.UUID) (*AdjustResult, error) {
	before := item.Quantity
	after := before.Add(delta)

	var warning *InsufficientStockWarning
	if after.IsNegative() {
		warning = &InsufficientStockWarning{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Requested: delta.Neg(),
			Available: before,
			Unit:      item.Unit,
		}
		after = decimal.Zero
	}

	item.Quantity = after
	if err := tx.InventoryItems().Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update inventory quantity: %w", err)
	}
	entry := s.historyEntry(item, changeType, before, after, reason, actor)
	if err := tx.InventoryHistory().Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record inventory history: %w", err)
	}
	return &AdjustResult{Item: item, History: entry, Warning: warning}, nil
}

func (s *InventoryService) appendHistory(ctx context.Context, tx repository.Store, item *models.InventoryItem, changeType models.ChangeType, before, after decimal.Decimal, reason string, actor uuid.UUID) error {
	if err := tx.InventoryHistory().Create(ctx, s.historyEntry(item, changeType, before, after, reason, actor)); err != nil {
		return fmt.Errorf("failed to record inventory history: %w", err)
	}
	return nil
}

func (s *InventoryService) historyEntry(item *models.InventoryItem, changeType models.ChangeType, before, after decimal.Decimal, reason string, actor uuid.UUID) *models.InventoryHistory {
	return &models.InventoryHistory{
		InventoryItemID: item.ID,
		ItemName:        item.Name,
		ChangeType:      changeType,
		QuantityBefore:  before,
		QuantityAfter:   after,
		QuantityChange:  after.Sub(before),
		Reason:          reason,
		ChangedBy:       actor,
		ChangedAt:       s.now(),
	}
}

// DeductForRecipe runs deductForRecipe in its own transaction.
func (s *InventoryService) DeductForRecipe(ctx context.Context, actor uuid.UUID, ingredients []models.Ingredient, servingsRatio decimal.Decimal, reason string) (*DeductionResult, error) {
	if !servingsRatio.IsPositive() {
		return nil, invalid("servings_ratio", "must be greater than 0")
	}
	var result *DeductionResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		result, err = s.deductForRecipe(ctx, tx, actor, ingredients, servingsRatio, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// deductForRecipe subtracts scaled ingredient quantities from matching items. Items are locked
// in ID order before any write so two concurrent cooks cannot deadlock on shared ingredients;
// changes are then applied and reported in ingredient order.
func (s *InventoryService) deductForRecipe(ctx context.Context, tx repository.Store, actor uuid.UUID, ingredients []models.Ingredient, servingsRatio decimal.Decimal, reason string) (*DeductionResult, error) {
	result := &DeductionResult{
		Changes:   []InventoryChange{},
		Unmatched: []string{},
		Warnings:  []InsufficientStockWarning{},
	}

	type pending struct {
		ingredient models.Ingredient
		itemID     uuid.UUID
		amount     decimal.Decimal
	}
	var plan []pending
	var lockOrder []uuid.UUID
	seen := make(map[uuid.UUID]bool)

	for _, ing := range ingredients {
		if ing.Optional {
			continue
		}
		if ing.Quantity == nil || strings.TrimSpace(ing.Name) == "" {
			result.Unmatched = append(result.Unmatched, ing.Name)
			continue
		}
		amount := ing.Quantity.Mul(servingsRatio).Round(3)
		if !amount.IsPositive() {
			result.Unmatched = append(result.Unmatched, ing.Name)
			continue
		}
		item, err := tx.InventoryItems().FindByName(ctx, models.NormalizeName(ing.Name))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				result.Unmatched = append(result.Unmatched, ing.Name)
				continue
			}
			return nil, fmt.Errorf("failed to match ingredient %q: %w", ing.Name, err)
		}
		plan = append(plan, pending{ingredient: ing, itemID: item.ID, amount: amount})
		if !seen[item.ID] {
			seen[item.ID] = true
			lockOrder = append(lockOrder, item.ID)
		}
	}

	sort.Slice(lockOrder, func(i, j int) bool { return lockOrder[i].String() < lockOrder[j].String() })
	locked := make(map[uuid.UUID]*models.InventoryItem, len(lockOrder))
	for _, id := range lockOrder {
		item, err := tx.InventoryItems().GetForUpdate(ctx, id)
		if err != nil {
			return nil, lookupErr(err, "inventory item", id)
		}
		locked[id] = item
	}

	for _, p := range plan {
		item := locked[p.itemID]
		adjusted, err := s.adjustLocked(ctx, tx, item, p.amount.Neg(), models.ChangeAutoDeducted, reason, actor)
		if err != nil {
			return nil, err
		}
		h := adjusted.History
		result.Changes = append(result.Changes, InventoryChange{
			ItemID:           item.ID,
			ItemName:         item.Name,
			Ingredient:       p.ingredient.Name,
			QuantityDeducted: h.QuantityChange.Neg(),
			QuantityBefore:   h.QuantityBefore,
			QuantityAfter:    h.QuantityAfter,
			Unit:             item.Unit,
		})
		if adjusted.Warning != nil {
			result.Warnings = append(result.Warnings, *adjusted.Warning)
		}
	}
	return result, nil
}

// restockLocked adds quantity to the item matching name in a compatible unit, creating one
// when nothing matches.
func (s *InventoryService) restockLocked(ctx context.Context, tx repository.Store, actor uuid.UUID, name, unit, category string, quantity decimal.Decimal, reason string) (*models.InventoryItem, error) {
	candidates, err := tx.InventoryItems().ListByName(ctx, models.NormalizeName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to match inventory item %q: %w", name, err)
	}
	if existing, ok := matchUnit(candidates, unit); ok {
		item, err := tx.InventoryItems().GetForUpdate(ctx, existing.ID)
		if err != nil {
			return nil, lookupErr(err, "inventory item", existing.ID)
		}
		result, err := s.adjustLocked(ctx, tx, item, quantity, models.ChangePurchased, reason, actor)
		if err != nil {
			return nil, err
		}
		return result.Item, nil
	}

	if category == "" {
		category = defaultCategory
	}
	item := &models.InventoryItem{
		Name:      strings.TrimSpace(name),
		Quantity:  quantity,
		Unit:      unit,
		Category:  category,
		Location:  models.LocationPantry,
		CreatedBy: actor,
	}
	if err := s.createLocked(ctx, tx, actor, item, reason); err != nil {
		return nil, err
	}
	return item, nil
}

// matchUnit picks the oldest item stocked in exactly unit, falling back to the oldest one where
// either side has no unit. Items in any other unit never match; quantities are not converted.
func matchUnit(items []models.InventoryItem, unit string) (models.InventoryItem, bool) {
	if item, ok := findUnit(items, unit, true); ok {
		return item, true
	}
	return findUnit(items, unit, false)
}

func findUnit(items []models.InventoryItem, unit string, exact bool) (models.InventoryItem, bool) {
	want := models.NormalizeName(unit)
	for _, item := range items {
		have := models.NormalizeName(item.Unit)
		if have == want || (!exact && (have == "" || want == "")) {
			return item, true
		}
	}
	return models.InventoryItem{}, false
}

// LowStock lists items at or below their configured fraction of minimum stock.
func (s *InventoryService) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.store.InventoryItems().List(ctx, repository.InventoryFilter{HasMinimumStock: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	threshold := decimal.NewFromFloat(settings.LowStockThresholdPercent)
	low := []models.InventoryItem{}
	for _, item := range items {
		if item.MinimumStock == nil {
			continue
		}
		if item.Quantity.LessThanOrEqual(item.MinimumStock.Mul(threshold)) {
			low = append(low, item)
		}
	}
	return low, nil
}

// ExpiringWithin lists items expiring today through days from today, soonest first. A nil days
// uses the configured warning window.
func (s *InventoryService) ExpiringWithin(ctx context.Context, days *int) ([]ExpiringItem, error) {
	window := 0
	if days != nil {
		if *days < 0 {
			return nil, invalid("days", "must not be negative")
		}
		window = *days
	} else {
		settings, err := s.settings.Current(ctx)
		if err != nil {
			return nil, err
		}
		window = settings.ExpirationWarningDays
	}

	items, err := s.store.InventoryItems().List(ctx, repository.InventoryFilter{HasExpiration: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	today := s.now()
	expiring := []ExpiringItem{}
	for _, item := range items {
		if item.ExpirationDate == nil {
			continue
		}
		left := daysBetween(today, *item.ExpirationDate)
		if left < 0 || left > window {
			continue
		}
		expiring = append(expiring, ExpiringItem{InventoryItem: item, DaysUntilExpiration: left})
	}
	sort.SliceStable(expiring, func(i, j int) bool {
		if expiring[i].DaysUntilExpiration != expiring[j].DaysUntilExpiration {
			return expiring[i].DaysUntilExpiration < expiring[j].DaysUntilExpiration
		}
		return expiring[i].ID.String() < expiring[j].ID.String()
	})
	return expiring, nil
}

// History returns the item's ledger, newest first.
func (s *InventoryService) History(ctx context.Context, id uuid.UUID) ([]models.InventoryHistory, error) {
	if _, err := s.store.InventoryItems().Get(ctx, id); err != nil {
		return nil, lookupErr(err, "inventory item", id)
	}
	entries, err := s.store.InventoryHistory().ListByItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory history: %w", err)
	}
	return entries, nil
}

func validateItemInput(input *InventoryItemInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Unit = strings.TrimSpace(input.Unit)
	input.Category = strings.TrimSpace(input.Category)
	if err := validateStruct(input); err != nil {
		return err
	}
	if input.Quantity.IsNegative() {
		return invalid("quantity", "must not be negative")
	}
	if input.MinimumStock != nil && input.MinimumStock.IsNegative() {
		return invalid("minimum_stock", "must not be negative")
	}
	return nil
}

func applyItemInput(item *models.InventoryItem, input InventoryItemInput) {
	item.Name = input.Name
	item.Quantity = input.Quantity
	item.Unit = input.Unit
	item.Category = input.Category
	item.Location = input.Location
	if item.Location == "" {
		item.Location = models.LocationPantry
	}
	if input.ExpirationDate != nil {
		d := dateOnly(*input.ExpirationDate)
		item.ExpirationDate = &d
	} else {
		item.ExpirationDate = nil
	}
	item.MinimumStock = input.MinimumStock
	item.Notes = input.Notes
}
