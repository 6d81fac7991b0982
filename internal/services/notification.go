package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/repos"
	"github.com/larsgeorge/ontos-sub000/internal/requestdata"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type NotificationService interface {
	ListMine(ctx context.Context, unreadOnly bool) ([]*types.Notification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context) error
}

type notificationService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.NotificationRepo
}

func NewNotificationService(db *gorm.DB, log *logger.Logger, repo repos.NotificationRepo) NotificationService {
	return &notificationService{
		db:   db,
		log:  log.With("service", "NotificationService"),
		repo: repo,
	}
}

func (ns *notificationService) ListMine(ctx context.Context, unreadOnly bool) ([]*types.Notification, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Newf(http.StatusUnauthorized, "not_authenticated", "not authenticated")
	}
	return ns.repo.ListByUser(ctx, nil, rd.UserID, unreadOnly)
}

func (ns *notificationService) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.Newf(http.StatusUnauthorized, "not_authenticated", "not authenticated")
	}
	return ns.repo.MarkRead(ctx, nil, notificationID, rd.UserID)
}

func (ns *notificationService) MarkAllRead(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.Newf(http.StatusUnauthorized, "not_authenticated", "not authenticated")
	}
	return ns.repo.MarkAllRead(ctx, nil, rd.UserID)
}
