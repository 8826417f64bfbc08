package repository

import (
	"context"

	"github.com/flrdepot/crm-backend/internal/model"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListRecent(ctx context.Context, kind model.NotificationType, limit int) ([]model.Notification, error)
	SetDB(db *gorm.DB)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListRecent returns the newest alerts, optionally narrowed to one type.
func (r *notificationRepository) ListRecent(ctx context.Context, kind model.NotificationType, limit int) ([]model.Notification, error) {
	var list []model.Notification
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.db.WithContext(ctx).Model(&model.Notification{})
	if kind != "" {
		q = q.Where("type = ?", kind)
	}
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *notificationRepository) SetDB(db *gorm.DB) {
	r.db = db
}
