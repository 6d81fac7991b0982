package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/clients/redis"
	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/repos"
	"github.com/larsgeorge/ontos-sub000/internal/requestdata"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

// linkableEntityTypes are the catalog entities a concept can annotate.
var linkableEntityTypes = map[string]bool{
	"data-contract": true,
	"project":       true,
	"team":          true,
	"dataset":       true,
	"column":        true,
}

type SemanticLinkService interface {
	Create(ctx context.Context, link *types.SemanticLink) (*types.SemanticLink, error)
	ListByIRI(ctx context.Context, iri string) ([]*types.SemanticLink, error)
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*types.SemanticLink, error)
	Delete(ctx context.Context, linkID uuid.UUID) error
}

type semanticLinkService struct {
	db           *gorm.DB
	log          *logger.Logger
	linkRepo     repos.SemanticLinkRepo
	termRepo     repos.GlossaryTermRepo
	auditService AuditService
	model        SemanticModelService
	bus          redis.CatalogBus
}

func NewSemanticLinkService(
	db *gorm.DB,
	log *logger.Logger,
	linkRepo repos.SemanticLinkRepo,
	termRepo repos.GlossaryTermRepo,
	auditService AuditService,
	model SemanticModelService,
	bus redis.CatalogBus,
) SemanticLinkService {
	return &semanticLinkService{
		db:           db,
		log:          log.With("service", "SemanticLinkService"),
		linkRepo:     linkRepo,
		termRepo:     termRepo,
		auditService: auditService,
		model:        model,
		bus:          bus,
	}
}

func (ls *semanticLinkService) Create(ctx context.Context, link *types.SemanticLink) (*types.SemanticLink, error) {
	link.IRI = strings.TrimSpace(link.IRI)
	link.EntityID = strings.TrimSpace(link.EntityID)
	if link.IRI == "" || link.EntityID == "" || link.EntityType == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_fields", "iri, entity_id and entity_type are required")
	}
	if !linkableEntityTypes[link.EntityType] {
		return nil, apierr.Newf(http.StatusBadRequest, "unknown_entity_type", "cannot link entity type %q", link.EntityType)
	}
	exists, err := ls.termRepo.IRIExists(ctx, nil, link.IRI)
	if err != nil {
		return nil, fmt.Errorf("check term iri: %w", err)
	}
	if !exists {
		return nil, apierr.Newf(http.StatusNotFound, "term_not_found", "no glossary term with IRI %q", link.IRI)
	}

	if rd := requestdata.GetRequestData(ctx); rd != nil && link.CreatedBy == uuid.Nil {
		link.CreatedBy = rd.UserID
	}

	var created *types.SemanticLink
	txErr := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err = ls.linkRepo.Create(ctx, tx, link)
		if err != nil {
			return fmt.Errorf("create semantic link: %w", err)
		}
		ls.auditService.Record(ctx, tx, "create", "semantic-link", created.ID.String(), true, map[string]any{
			"iri":         created.IRI,
			"entity_type": created.EntityType,
			"entity_id":   created.EntityID,
		})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	ls.publishMutation(ctx, created)
	return created, nil
}

func (ls *semanticLinkService) ListByIRI(ctx context.Context, iri string) ([]*types.SemanticLink, error) {
	return ls.linkRepo.ListByIRI(ctx, nil, iri)
}

func (ls *semanticLinkService) ListByEntity(ctx context.Context, entityType, entityID string) ([]*types.SemanticLink, error) {
	return ls.linkRepo.ListByEntity(ctx, nil, entityType, entityID)
}

func (ls *semanticLinkService) Delete(ctx context.Context, linkID uuid.UUID) error {
	link, err := ls.linkRepo.GetByID(ctx, nil, linkID)
	if err != nil {
		return err
	}
	if link == nil {
		return apierr.Newf(http.StatusNotFound, "link_not_found", "semantic link %s not found", linkID)
	}
	txErr := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ls.linkRepo.Delete(ctx, tx, linkID); err != nil {
			return fmt.Errorf("delete semantic link: %w", err)
		}
		ls.auditService.Record(ctx, tx, "delete", "semantic-link", linkID.String(), true, map[string]any{"iri": link.IRI})
		return nil
	})
	if txErr != nil {
		return txErr
	}
	ls.publishMutation(ctx, link)
	return nil
}

func (ls *semanticLinkService) publishMutation(ctx context.Context, link *types.SemanticLink) {
	if ls.model != nil {
		ls.model.Invalidate()
	}
	if ls.bus == nil {
		return
	}
	if err := ls.bus.Publish(ctx, redis.Event{
		Type:       redis.EventEntityMutated,
		EntityType: "semantic-link",
		EntityID:   link.ID.String(),
	}); err != nil {
		ls.log.Warn("Failed to publish semantic link mutation", "error", err)
	}
}
