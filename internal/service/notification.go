package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 100
	defaultExpiringDays      = 3
	maxExpiringDays          = 14
	defaultReminderDays      = 1
	maxReminderDays          = 7
)

type NotificationList struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
	Total         int                   `json:"total"`
}

// NotificationService stores per-user alerts and derives new ones on request from the
// inventory ledger, upcoming meals and recipe versions. Generators never repeat an alert the
// user has not read yet.
type NotificationService struct {
	store     repository.Store
	inventory *InventoryService
	log       *logger.Logger
	now       func() time.Time
}

var _ INotificationService = (*NotificationService)(nil)

func NewNotificationService(store repository.Store, inventory *InventoryService, baseLog *logger.Logger) *NotificationService {
	return &NotificationService{
		store:     store,
		inventory: inventory,
		log:       baseLog.With("service", "NotificationService"),
		now:       time.Now,
	}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) (*NotificationList, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	notifications, err := s.store.Notifications().List(ctx, userID, repository.NotificationFilter{UnreadOnly: unreadOnly, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	unread, err := s.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NotificationList{Notifications: notifications, UnreadCount: unread, Total: len(notifications)}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.store.Notifications().CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags one of userID's notifications as read. Other users' notifications are
// NotFound.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	var notification *models.Notification
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		notification, err = tx.Notifications().Get(ctx, userID, id)
		if err != nil {
			return lookupErr(err, "notification", id)
		}
		if notification.IsRead {
			return nil
		}
		notification.IsRead = true
		if err := tx.Notifications().Save(ctx, notification); err != nil {
			return fmt.Errorf("failed to mark notification read: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.store.Notifications().MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return count, nil
}

func (s *NotificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.store.Notifications().Delete(ctx, userID, id); err != nil {
		return lookupErr(err, "notification", id)
	}
	return nil
}

// GenerateLowStock alerts userID about every low-stock item.
func (s *NotificationService) GenerateLowStock(ctx context.Context, userID uuid.UUID) (int, error) {
	items, err := s.inventory.LowStock(ctx)
	if err != nil {
		return 0, err
	}
	pending := make([]models.Notification, 0, len(items))
	for _, item := range items {
		minimum := ""
		if item.MinimumStock != nil {
			minimum = item.MinimumStock.String()
		}
		pending = append(pending, models.Notification{
			Type:    models.NotificationLowStock,
			Title:   "Low Stock: " + item.Name,
			Message: fmt.Sprintf("%s is running low. Current: %s, minimum: %s.", item.Name, withUnit(item.Quantity.String(), item.Unit), withUnit(minimum, item.Unit)),
			Link:    "/inventory",
			Subject: "inventory:" + item.ID.String(),
		})
	}
	return s.deliver(ctx, userID, pending)
}

// GenerateExpiring alerts userID about items expiring within days (default 3, at most 14).
func (s *NotificationService) GenerateExpiring(ctx context.Context, userID uuid.UUID, days int) (int, error) {
	days, err := windowDays(days, defaultExpiringDays, maxExpiringDays)
	if err != nil {
		return 0, err
	}
	items, err := s.inventory.ExpiringWithin(ctx, &days)
	if err != nil {
		return 0, err
	}
	pending := make([]models.Notification, 0, len(items))
	for _, item := range items {
		urgency := "today"
		if item.DaysUntilExpiration > 0 {
			urgency = fmt.Sprintf("in %d days", item.DaysUntilExpiration)
		}
		pending = append(pending, models.Notification{
			Type:    models.NotificationExpiring,
			Title:   "Expiring Soon: " + item.Name,
			Message: fmt.Sprintf("%s expires %s (%s).", item.Name, urgency, item.ExpirationDate.Format(time.DateOnly)),
			Link:    "/inventory",
			Subject: "inventory:" + item.ID.String(),
		})
	}
	return s.deliver(ctx, userID, pending)
}

// GenerateMealReminders alerts userID about uncooked meals of active plans from today through
// days ahead (default 1, at most 7).
func (s *NotificationService) GenerateMealReminders(ctx context.Context, userID uuid.UUID, days int) (int, error) {
	days, err := windowDays(days, defaultReminderDays, maxReminderDays)
	if err != nil {
		return 0, err
	}
	today := dateOnly(s.now())
	meals, err := s.store.PlannedMeals().ListUpcoming(ctx, today, today.AddDate(0, 0, days))
	if err != nil {
		return 0, fmt.Errorf("failed to load upcoming meals: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(meals))
	for _, meal := range meals {
		ids = append(ids, meal.RecipeID)
	}
	recipes, err := s.store.Recipes().GetMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to load recipes: %w", err)
	}
	titles := make(map[uuid.UUID]string, len(recipes))
	for _, r := range recipes {
		if !r.IsDeleted {
			titles[r.ID] = r.Title
		}
	}

	pending := make([]models.Notification, 0, len(meals))
	for _, meal := range meals {
		title, ok := titles[meal.RecipeID]
		if !ok {
			continue
		}
		var timing string
		switch left := daysBetween(today, meal.MealDate); left {
		case 0:
			timing = "today"
		case 1:
			timing = "tomorrow"
		default:
			timing = fmt.Sprintf("in %d days", left)
		}
		mealType := string(meal.MealType)
		pending = append(pending, models.Notification{
			Type:    models.NotificationMealReminder,
			Title:   "Meal Reminder: " + capitalize(mealType),
			Message: fmt.Sprintf("%s is planned for %s %s (%s).", title, mealType, timing, meal.MealDate.Format(time.DateOnly)),
			Link:    "/menu-plans/" + meal.MenuPlanID.String(),
			Subject: "meal:" + meal.ID.String(),
		})
	}
	return s.deliver(ctx, userID, pending)
}

// recipeUpdated tells everyone who rated the recipe, except the editor, about its new version.
// It runs inside the transaction that wrote the version.
func (s *NotificationService) recipeUpdated(ctx context.Context, tx repository.Store, recipe *models.Recipe, actor uuid.UUID) error {
	ratings, err := tx.Ratings().ListByRecipe(ctx, recipe.ID)
	if err != nil {
		return fmt.Errorf("failed to load raters: %w", err)
	}
	for _, rating := range ratings {
		if rating.UserID == actor {
			continue
		}
		notification := &models.Notification{
			UserID:  rating.UserID,
			Type:    models.NotificationRecipeUpdate,
			Title:   "Recipe Updated: " + recipe.Title,
			Message: fmt.Sprintf("%s has been updated to version %d.", recipe.Title, recipe.CurrentVersion),
			Link:    "/recipes/" + recipe.ID.String(),
			Subject: fmt.Sprintf("recipe:%s@%d", recipe.ID, recipe.CurrentVersion),
		}
		if err := tx.Notifications().Create(ctx, notification); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
	}
	return nil
}

// deliver stores each pending notification for userID unless an unread one about the same
// subject already exists.
func (s *NotificationService) deliver(ctx context.Context, userID uuid.UUID, pending []models.Notification) (int, error) {
	if userID == uuid.Nil {
		return 0, invalid("user_id", "is required")
	}
	created := 0
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		created = 0
		for i := range pending {
			n := pending[i]
			exists, err := tx.Notifications().HasUnread(ctx, userID, n.Type, n.Subject)
			if err != nil {
				return fmt.Errorf("failed to check notifications: %w", err)
			}
			if exists {
				continue
			}
			n.UserID = userID
			if err := tx.Notifications().Create(ctx, &n); err != nil {
				return fmt.Errorf("failed to create notification: %w", err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if created > 0 {
		s.log.Info("notifications generated", "user_id", userID, "count", created)
	}
	return created, nil
}

func windowDays(days, fallback, upper int) (int, error) {
	if days == 0 {
		return fallback, nil
	}
	if days < 1 || days > upper {
		return 0, invalid("days", fmt.Sprintf("must be between 1 and %d", upper))
	}
	return days, nil
}

func withUnit(quantity, unit string) string {
	return strings.TrimSpace(quantity + " " + unit)
}

func capitalize(s string) string {
	if s == "" {
		return "Meal"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
