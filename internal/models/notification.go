package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationLowStock     NotificationType = "low_stock"
	NotificationExpiring     NotificationType = "expiring"
	NotificationMealReminder NotificationType = "meal_reminder"
	NotificationRecipeUpdate NotificationType = "recipe_update"
	NotificationSystem       NotificationType = "system"
)

// Notification is an alert addressed to one user. Subject names the thing it is about
// (an inventory item, a planned meal, a recipe version) so generators can skip alerts the
// user has not read yet.
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      NotificationType `gorm:"size:50;not null;index" json:"type"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Link      string           `gorm:"size:255" json:"link,omitempty"`
	Subject   string           `gorm:"size:255;not null;index" json:"-"`
	IsRead    bool             `gorm:"not null;index" json:"is_read"`
	CreatedAt time.Time        `gorm:"index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
