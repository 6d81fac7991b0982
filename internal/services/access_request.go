package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/permissions"
	"github.com/larsgeorge/ontos-sub000/internal/repos"
	"github.com/larsgeorge/ontos-sub000/internal/requestdata"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

// minRequestMessageLen is the shortest acceptable justification on an access
// request.
const minRequestMessageLen = 10

type AccessRequestService interface {
	Submit(ctx context.Context, feature, level, message string) (*types.AccessRequest, error)
	List(ctx context.Context, status string) ([]*types.AccessRequest, error)
	Approve(ctx context.Context, requestID uuid.UUID) (*types.AccessRequest, error)
	Deny(ctx context.Context, requestID uuid.UUID) (*types.AccessRequest, error)
}

type accessRequestService struct {
	db                *gorm.DB
	log               *logger.Logger
	requestRepo       repos.AccessRequestRepo
	grantRepo         repos.UserPermissionRepo
	userRepo          repos.UserRepo
	notificationRepo  repos.NotificationRepo
	auditService      AuditService
	permissionService PermissionService
}

func NewAccessRequestService(
	db *gorm.DB,
	log *logger.Logger,
	requestRepo repos.AccessRequestRepo,
	grantRepo repos.UserPermissionRepo,
	userRepo repos.UserRepo,
	notificationRepo repos.NotificationRepo,
	auditService AuditService,
	permissionService PermissionService,
) AccessRequestService {
	return &accessRequestService{
		db:                db,
		log:               log.With("service", "AccessRequestService"),
		requestRepo:       requestRepo,
		grantRepo:         grantRepo,
		userRepo:          userRepo,
		notificationRepo:  notificationRepo,
		auditService:      auditService,
		permissionService: permissionService,
	}
}

func (as *accessRequestService) Submit(ctx context.Context, feature, level, message string) (*types.AccessRequest, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Newf(http.StatusUnauthorized, "not_authenticated", "not authenticated")
	}
	message = strings.TrimSpace(message)
	if len(message) < minRequestMessageLen {
		return nil, apierr.New(http.StatusBadRequest, "message_too_short",
			fmt.Errorf("message must be at least %d characters", minRequestMessageLen))
	}
	if feature == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_feature", "a feature is required")
	}
	requested := permissions.ParseLevel(level)
	if requested == permissions.LevelNone {
		return nil, apierr.Newf(http.StatusBadRequest, "invalid_level", "requested level %q is not grantable", level)
	}

	var created *types.AccessRequest
	txErr := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = as.requestRepo.Create(ctx, tx, &types.AccessRequest{
			RequesterID: rd.UserID,
			Feature:     feature,
			Level:       requested.String(),
			Message:     message,
			Status:      types.AccessRequestPending,
		})
		if err != nil {
			return fmt.Errorf("create access request: %w", err)
		}

		admins, err := as.userRepo.ListAdmins(ctx, tx)
		if err != nil {
			return fmt.Errorf("list admins: %w", err)
		}
		notifications := make([]*types.Notification, 0, len(admins))
		for _, admin := range admins {
			notifications = append(notifications, &types.Notification{
				UserID:  admin.ID,
				Type:    "access-request",
				Title:   "New access request",
				Message: fmt.Sprintf("%s requested %s access to %s", rd.Email, requested.String(), feature),
			})
		}
		if len(notifications) > 0 {
			if err := as.notificationRepo.Create(ctx, tx, notifications); err != nil {
				return fmt.Errorf("notify admins: %w", err)
			}
		}

		as.auditService.Record(ctx, tx, "submit", "access-request", created.ID.String(), true, map[string]any{
			"feature": feature,
			"level":   requested.String(),
		})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return created, nil
}

func (as *accessRequestService) List(ctx context.Context, status string) ([]*types.AccessRequest, error) {
	return as.requestRepo.List(ctx, nil, status)
}

func (as *accessRequestService) Approve(ctx context.Context, requestID uuid.UUID) (*types.AccessRequest, error) {
	return as.decide(ctx, requestID, types.AccessRequestApproved)
}

func (as *accessRequestService) Deny(ctx context.Context, requestID uuid.UUID) (*types.AccessRequest, error) {
	return as.decide(ctx, requestID, types.AccessRequestDenied)
}

func (as *accessRequestService) decide(ctx context.Context, requestID uuid.UUID, status string) (*types.AccessRequest, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Newf(http.StatusUnauthorized, "not_authenticated", "not authenticated")
	}
	request, err := as.requestRepo.GetByID(ctx, nil, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apierr.Newf(http.StatusNotFound, "request_not_found", "access request %s not found", requestID)
	}
	if request.Status != types.AccessRequestPending {
		return nil, apierr.Newf(http.StatusConflict, "request_already_decided", "access request is already %s", request.Status)
	}

	now := time.Now()
	deciderID := rd.UserID
	request.Status = status
	request.DecidedBy = &deciderID
	request.DecidedAt = &now

	txErr := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.requestRepo.Update(ctx, tx, request); err != nil {
			return fmt.Errorf("update access request: %w", err)
		}
		if status == types.AccessRequestApproved {
			if err := as.grantRepo.Upsert(ctx, tx, &types.UserPermission{
				UserID:  request.RequesterID,
				Feature: request.Feature,
				Level:   request.Level,
			}); err != nil {
				return fmt.Errorf("grant permission: %w", err)
			}
		}
		if err := as.notificationRepo.Create(ctx, tx, []*types.Notification{{
			UserID:  request.RequesterID,
			Type:    "access-request-decision",
			Title:   fmt.Sprintf("Access request %s", status),
			Message: fmt.Sprintf("Your request for %s access to %s was %s", request.Level, request.Feature, status),
		}}); err != nil {
			return fmt.Errorf("notify requester: %w", err)
		}
		as.auditService.Record(ctx, tx, status, "access-request", request.ID.String(), true, map[string]any{
			"feature":   request.Feature,
			"level":     request.Level,
			"requester": request.RequesterID.String(),
		})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	if status == types.AccessRequestApproved && as.permissionService != nil {
		as.permissionService.InvalidateUser(request.RequesterID)
	}
	return request, nil
}
