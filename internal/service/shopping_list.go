package service

import (
	"context"
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
	defaultCategory        = "other"
	reasonShoppingPurchase = "Shopping list purchase"
)

type ShoppingListOptions struct {
	// ShowAll keeps lines that are already covered by inventory, flagged in_stock.
	ShowAll bool
	// Grouped sorts by category and fills ShoppingList.Groups.
	Grouped bool
}

type ShoppingListItem struct {
	ID               uuid.UUID       `json:"id"`
	Key              string          `json:"key"`
	Name             string          `json:"name"`
	Quantity         decimal.Decimal `json:"quantity"`
	Unit             string          `json:"unit"`
	Category         string          `json:"category"`
	NeededForRecipes []uuid.UUID     `json:"needed_for_recipes"`
	RecipeTitles     []string        `json:"recipe_titles"`
	InStock          bool            `json:"in_stock"`
	Checked          bool            `json:"checked"`
}

type ShoppingListGroup struct {
	Category string             `json:"category"`
	Items    []ShoppingListItem `json:"items"`
}

type ShoppingList struct {
	MenuPlanID    uuid.UUID           `json:"menu_plan_id"`
	WeekStartDate time.Time           `json:"week_start_date"`
	Items         []ShoppingListItem  `json:"items"`
	Groups        []ShoppingListGroup `json:"groups,omitempty"`
}

type ShoppingListCheckResult struct {
	Item          ShoppingListItem      `json:"item"`
	InventoryItem *models.InventoryItem `json:"inventory_item,omitempty"`
}

// ShoppingListService derives shopping lists from a plan's uncooked meals. Lists are never
// stored; only the checked flags are.
type ShoppingListService struct {
	store     repository.Store
	inventory *InventoryService
	log       *logger.Logger
	now       func() time.Time
}

var _ IShoppingListService = (*ShoppingListService)(nil)

func NewShoppingListService(store repository.Store, inventory *InventoryService, baseLog *logger.Logger) *ShoppingListService {
	return &ShoppingListService{
		store:     store,
		inventory: inventory,
		log:       baseLog.With("service", "ShoppingListService"),
		now:       time.Now,
	}
}

func (s *ShoppingListService) Generate(ctx context.Context, planID uuid.UUID, opts ShoppingListOptions) (*ShoppingList, error) {
	return s.build(ctx, s.store, planID, opts)
}

// SetChecked ticks or unticks a line. With addToInventory, ticking also books the line's
// quantity into inventory as a purchase.
func (s *ShoppingListService) SetChecked(ctx context.Context, actor, planID uuid.UUID, itemKey string, checked, addToInventory bool) (*ShoppingListCheckResult, error) {
	var result *ShoppingListCheckResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		list, err := s.build(ctx, tx, planID, ShoppingListOptions{ShowAll: true})
		if err != nil {
			return err
		}
		var item *ShoppingListItem
		for i := range list.Items {
			if list.Items[i].Key == itemKey {
				item = &list.Items[i]
				break
			}
		}
		if item == nil {
			return notFound("shopping list item", itemKey)
		}

		result = &ShoppingListCheckResult{}
		if !checked {
			if err := tx.ShoppingListChecks().Delete(ctx, planID, itemKey); err != nil {
				return fmt.Errorf("failed to clear shopping list check: %w", err)
			}
			item.Checked = false
			result.Item = *item
			return nil
		}

		check := &models.ShoppingListCheck{MenuPlanID: planID, ItemKey: itemKey, CheckedBy: actor, CheckedAt: s.now()}
		if err := tx.ShoppingListChecks().Save(ctx, check); err != nil {
			return fmt.Errorf("failed to save shopping list check: %w", err)
		}
		if addToInventory && item.Quantity.IsPositive() {
			restocked, err := s.inventory.restockLocked(ctx, tx, actor, item.Name, item.Unit, item.Category, item.Quantity, reasonShoppingPurchase)
			if err != nil {
				return err
			}
			result.InventoryItem = restocked
		}
		item.Checked = true
		result.Item = *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type shoppingLine struct {
	key        string
	name       string
	unit       string
	category   string
	quantity   decimal.Decimal
	quantified bool
	recipeIDs  []uuid.UUID
	titles     []string
}

func (s *ShoppingListService) build(ctx context.Context, st repository.Store, planID uuid.UUID, opts ShoppingListOptions) (*ShoppingList, error) {
	plan, err := st.MenuPlans().Get(ctx, planID)
	if err != nil {
		return nil, lookupErr(err, "menu plan", planID)
	}
	meals, err := st.PlannedMeals().ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load planned meals: %w", err)
	}

	var recipeIDs []uuid.UUID
	for _, meal := range meals {
		if !meal.Cooked {
			recipeIDs = append(recipeIDs, meal.RecipeID)
		}
	}
	recipes, err := st.Recipes().GetMany(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	byID := make(map[uuid.UUID]models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	items, err := st.InventoryItems().List(ctx, repository.InventoryFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	checks, err := st.ShoppingListChecks().ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list checks: %w", err)
	}
	checked := make(map[string]bool, len(checks))
	for _, c := range checks {
		checked[c.ItemKey] = true
	}

	lines := aggregateLines(meals, byID)
	stock := allocateStock(lines, items)

	out := &ShoppingList{MenuPlanID: plan.ID, WeekStartDate: plan.WeekStartDate, Items: []ShoppingListItem{}}
	for _, line := range lines {
		match, found := stock[line.key]

		needed := decimal.Zero
		var inStock bool
		if line.quantified {
			needed = decimal.Max(line.quantity.Sub(match.available), decimal.Zero)
			inStock = !needed.IsPositive()
		} else {
			inStock = found && match.available.IsPositive()
		}
		if inStock && !opts.ShowAll {
			continue
		}

		out.Items = append(out.Items, ShoppingListItem{
			ID:               uuid.NewSHA1(plan.ID, []byte(line.key)),
			Key:              line.key,
			Name:             line.name,
			Quantity:         needed,
			Unit:             line.unit,
			Category:         line.category,
			NeededForRecipes: line.recipeIDs,
			RecipeTitles:     line.titles,
			InStock:          inStock,
			Checked:          checked[line.key],
		})
	}

	sortShoppingItems(out.Items, opts.Grouped)
	if opts.Grouped {
		out.Groups = groupByCategory(out.Items)
	}
	return out, nil
}

// aggregateLines sums scaled ingredient quantities per (name, unit) across uncooked meals of
// live recipes. Lines keep first-seen order; category is the first one any ingredient declares.
func aggregateLines(meals []models.PlannedMeal, recipes map[uuid.UUID]models.Recipe) []*shoppingLine {
	var order []*shoppingLine
	lines := make(map[string]*shoppingLine)

	for _, meal := range meals {
		if meal.Cooked {
			continue
		}
		recipe, ok := recipes[meal.RecipeID]
		if !ok || recipe.IsDeleted {
			continue
		}
		ratio := servingsRatio(meal.ServingsPlanned, recipe.NativeServings())

		for _, ing := range recipe.Ingredients {
			name := strings.TrimSpace(ing.Name)
			if ing.Optional || name == "" {
				continue
			}
			key := shoppingKey(name, ing.Unit)
			line, ok := lines[key]
			if !ok {
				line = &shoppingLine{key: key, name: name, unit: strings.TrimSpace(ing.Unit)}
				lines[key] = line
				order = append(order, line)
			}
			if ing.Quantity != nil {
				line.quantity = line.quantity.Add(ing.Quantity.Mul(ratio).Round(3))
				line.quantified = true
			}
			if line.category == "" && strings.TrimSpace(ing.Category) != "" {
				line.category = strings.ToLower(strings.TrimSpace(ing.Category))
			}
			if !containsID(line.recipeIDs, recipe.ID) {
				line.recipeIDs = append(line.recipeIDs, recipe.ID)
				line.titles = append(line.titles, recipe.Title)
			}
		}
	}

	for _, line := range order {
		if line.category == "" {
			line.category = defaultCategory
		}
	}
	return order
}

func shoppingKey(name, unit string) string {
	return models.NormalizeName(name) + "|" + models.NormalizeName(unit)
}

type stockMatch struct {
	itemID    uuid.UUID
	available decimal.Decimal
}

// allocateStock decides how much inventory each line may count as on hand. A line only draws
// from an item of the same name in a compatible unit, and an item's quantity is shared out so
// two lines never count the same stock. Lines in the item's exact unit draw first.
func allocateStock(lines []*shoppingLine, items []models.InventoryItem) map[string]stockMatch {
	byName := make(map[string][]models.InventoryItem)
	for _, item := range items {
		key := models.NormalizeName(item.Name)
		byName[key] = append(byName[key], item)
	}
	for _, candidates := range byName {
		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID.String() < b.ID.String()
		})
	}

	remaining := make(map[uuid.UUID]decimal.Decimal)
	out := make(map[string]stockMatch, len(lines))
	for _, exact := range []bool{true, false} {
		for _, line := range lines {
			if _, done := out[line.key]; done {
				continue
			}
			item, ok := findUnit(byName[models.NormalizeName(line.name)], line.unit, exact)
			if !ok {
				continue
			}
			left, seen := remaining[item.ID]
			if !seen {
				left = decimal.Max(item.Quantity, decimal.Zero)
			}
			out[line.key] = stockMatch{itemID: item.ID, available: left}
			if line.quantified {
				left = left.Sub(decimal.Min(line.quantity, left))
			}
			remaining[item.ID] = left
		}
	}
	return out
}

func sortShoppingItems(items []ShoppingListItem, byCategory bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if byCategory && a.Category != b.Category {
			return a.Category < b.Category
		}
		if an, bn := models.NormalizeName(a.Name), models.NormalizeName(b.Name); an != bn {
			return an < bn
		}
		return a.Key < b.Key
	})
}

func groupByCategory(items []ShoppingListItem) []ShoppingListGroup {
	var groups []ShoppingListGroup
	for _, item := range items {
		if n := len(groups); n > 0 && groups[n-1].Category == item.Category {
			groups[n-1].Items = append(groups[n-1].Items, item)
			continue
		}
		groups = append(groups, ShoppingListGroup{Category: item.Category, Items: []ShoppingListItem{item}})
	}
	return groups
}

// servingsRatio scales a recipe written for native servings to planned servings.
func servingsRatio(planned, native int) decimal.Decimal {
	if native <= 0 {
		native = 1
	}
	if planned <= 0 {
		planned = native
	}
	return decimal.NewFromInt(int64(planned)).Div(decimal.NewFromInt(int64(native)))
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
