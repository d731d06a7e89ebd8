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
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
)

func TestCreateInventoryItem(t *testing.T) {
	a := newTestAPI(t, nil)
	expires := time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)
	a.inventory.On("CreateItem", mock.Anything, a.userID, mock.MatchedBy(func(in service.InventoryItemInput) bool {
		return in.Name == "Milk" &&
			in.Quantity.Equal(decimal.RequireFromString("1.5")) &&
			in.Location == models.LocationFridge &&
			in.ExpirationDate != nil && in.ExpirationDate.Equal(expires)
	})).Return(&models.InventoryItem{ID: uuid.New(), Name: "Milk"}, nil)

	w := a.do(t, memberToken, http.MethodPost, "/api/v1/inventory", map[string]interface{}{
		"name":            "Milk",
		"quantity":        "1.5",
		"unit":            "l",
		"location":        "fridge",
		"expiration_date": "2026-10-20",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Milk", decode(t, w)["name"])

	w = a.do(t, memberToken, http.MethodPost, "/api/v1/inventory", map[string]interface{}{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, memberToken, http.MethodPost, "/api/v1/inventory", map[string]interface{}{
		"name": "Milk", "expiration_date": "20/10/2026",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdjustInventory(t *testing.T) {
	a := newTestAPI(t, nil)
	id := uuid.New()
	item := &models.InventoryItem{ID: id, Name: "Eggs", Quantity: decimal.Zero}
	a.inventory.On("Adjust", mock.Anything, a.userID, id,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(-10)) }),
		models.ChangeUsed, "omelette",
	).Return(&service.AdjustResult{
		Item: item,
		Warning: &service.InsufficientStockWarning{
			ItemID: id, ItemName: "Eggs", Requested: decimal.NewFromInt(10), Available: decimal.NewFromInt(4),
		},
	}, nil)

	w := a.do(t, memberToken, http.MethodPost, "/api/v1/inventory/"+id.String()+"/adjust", map[string]interface{}{
		"quantity_change": -10,
		"change_type":     "used",
		"reason":          "omelette",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	warning := decode(t, w)["warning"].(map[string]interface{})
	assert.Equal(t, "Eggs", warning["item_name"])

	w = a.do(t, memberToken, http.MethodPost, "/api/v1/inventory/"+id.String()+"/adjust", map[string]interface{}{
		"quantity_change": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryQueries(t *testing.T) {
	a := newTestAPI(t, nil)
	a.inventory.On("ListItems", mock.Anything, repository.InventoryFilter{
		Location: models.LocationFreezer,
		Search:   "peas",
	}).Return([]models.InventoryItem{{Name: "Peas"}}, nil)
	a.inventory.On("LowStock", mock.Anything).Return([]models.InventoryItem{}, nil)
	a.inventory.On("ExpiringWithin", mock.Anything, mock.MatchedBy(func(d *int) bool { return d == nil })).
		Return([]service.ExpiringItem{}, nil).Once()
	a.inventory.On("ExpiringWithin", mock.Anything, mock.MatchedBy(func(d *int) bool { return d != nil && *d == 3 })).
		Return([]service.ExpiringItem{{InventoryItem: models.InventoryItem{Name: "Milk"}, DaysUntilExpiration: 1}}, nil).Once()

	w := a.do(t, memberToken, http.MethodGet, "/api/v1/inventory?location=freezer&q=peas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"], 1)

	w = a.do(t, memberToken, http.MethodGet, "/api/v1/inventory/low-stock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w)["items"])

	w = a.do(t, memberToken, http.MethodGet, "/api/v1/inventory/expiring", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, memberToken, http.MethodGet, "/api/v1/inventory/expiring?days=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, 1.0, items[0].(map[string]interface{})["days_until_expiration"])

	w = a.do(t, memberToken, http.MethodGet, "/api/v1/inventory/expiring?days=soon", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryHistoryAndDelete(t *testing.T) {
	a := newTestAPI(t, nil)
	id := uuid.New()
	a.inventory.On("History", mock.Anything, id).Return([]models.InventoryHistory{
		{InventoryItemID: id, ChangeType: models.ChangePurchased, Reason: "Initial inventory"},
	}, nil)
	a.inventory.On("DeleteItem", mock.Anything, a.userID, id).Return(nil)

	w := a.do(t, memberToken, http.MethodGet, "/api/v1/inventory/"+id.String()+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["history"], 1)

	w = a.do(t, memberToken, http.MethodDelete, "/api/v1/inventory/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
