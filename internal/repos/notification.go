package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, notifications []*types.Notification) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, unreadOnly bool) ([]*types.Notification, error)
	MarkRead(ctx context.Context, tx *gorm.DB, notificationID, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) Create(ctx context.Context, tx *gorm.DB, notifications []*types.Notification) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(notifications) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&notifications).Error
}

func (r *notificationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, unreadOnly bool) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	var results []*types.Notification
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, notificationID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true).Error
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}
