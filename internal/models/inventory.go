package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ChangeType classifies an inventory history entry.
type ChangeType string

const (
	ChangePurchased    ChangeType = "purchased"
	ChangeUsed         ChangeType = "used"
	ChangeExpired      ChangeType = "expired"
	ChangeAdjusted     ChangeType = "adjusted"
	ChangeAutoDeducted ChangeType = "auto_deducted"
)

// Valid reports whether c is one of the known change types.
func (c ChangeType) Valid() bool {
	switch c {
	case ChangePurchased, ChangeUsed, ChangeExpired, ChangeAdjusted, ChangeAutoDeducted:
		return true
	}
	return false
}

// Location is where an item is stored in the household.
type Location string

const (
	LocationPantry  Location = "pantry"
	LocationFridge  Location = "fridge"
	LocationFreezer Location = "freezer"
	LocationOther   Location = "other"
)

// NormalizeName is the single matching rule between ingredient names and inventory items:
// case-insensitive, surrounding whitespace trimmed and inner whitespace collapsed.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

type InventoryItem struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string           `gorm:"size:200;not null" json:"name"`
	NormalizedName string           `gorm:"size:200;not null;index" json:"-"`
	Quantity       decimal.Decimal  `gorm:"type:numeric(12,3);not null" json:"quantity"`
	Unit           string           `gorm:"size:50" json:"unit"`
	Category       string           `gorm:"size:50" json:"category"`
	Location       Location         `gorm:"size:20;not null" json:"location"`
	ExpirationDate *time.Time       `gorm:"type:date" json:"expiration_date"`
	MinimumStock   *decimal.Decimal `gorm:"type:numeric(12,3)" json:"minimum_stock"`
	Notes          string           `gorm:"type:text" json:"notes"`
	CreatedBy      uuid.UUID        `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i *InventoryItem) BeforeSave(tx *gorm.DB) error {
	i.NormalizedName = NormalizeName(i.Name)
	return nil
}

// InventoryHistory is append-only. Rows outlive the item they describe.
type InventoryHistory struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"inventory_item_id"`
	ItemName        string          `gorm:"size:200;not null" json:"item_name"`
	ChangeType      ChangeType      `gorm:"size:20;not null" json:"change_type"`
	QuantityBefore  decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"quantity_before"`
	QuantityAfter   decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"quantity_after"`
	QuantityChange  decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"quantity_change"`
	Reason          string          `gorm:"size:500" json:"reason"`
	ChangedBy       uuid.UUID       `gorm:"type:uuid;not null" json:"changed_by"`
	ChangedAt       time.Time       `gorm:"not null;index" json:"changed_at"`
}

func (InventoryHistory) TableName() string {
	return "inventory_history"
}

func (h *InventoryHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
