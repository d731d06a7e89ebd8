package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
)

type notificationRepo struct {
	db *gorm.DB
}

func (r *notificationRepo) Get(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&notification).Error
	if err != nil {
		return nil, translate(err)
	}
	return &notification, nil
}

func (r *notificationRepo) List(ctx context.Context, userID uuid.UUID, filter NotificationFilter) ([]models.Notification, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var notifications []models.Notification
	if err := q.Order("created_at DESC").Order("id").Find(&notifications).Error; err != nil {
		return nil, translate(err)
	}
	return notifications, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, translate(err)
}

func (r *notificationRepo) HasUnread(ctx context.Context, userID uuid.UUID, kind models.NotificationType, subject string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND type = ? AND subject = ? AND is_read = ?", userID, kind, subject, false).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *notificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	return translate(r.db.WithContext(ctx).Create(notification).Error)
}

func (r *notificationRepo) Save(ctx context.Context, notification *models.Notification) error {
	return translate(r.db.WithContext(ctx).Save(notification).Error)
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, translate(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *notificationRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{}))
}
