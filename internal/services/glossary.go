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
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type GlossaryService interface {
	Create(ctx context.Context, term *types.GlossaryTerm) (*types.GlossaryTerm, error)
	GetByID(ctx context.Context, termID uuid.UUID) (*types.GlossaryTerm, error)
	GetByIRI(ctx context.Context, iri string) (*types.GlossaryTerm, error)
	List(ctx context.Context) ([]*types.GlossaryTerm, error)
	Update(ctx context.Context, term *types.GlossaryTerm) (*types.GlossaryTerm, error)
	Delete(ctx context.Context, termID uuid.UUID) error
}

type glossaryService struct {
	db           *gorm.DB
	log          *logger.Logger
	termRepo     repos.GlossaryTermRepo
	auditService AuditService
	model        SemanticModelService
	bus          redis.CatalogBus
}

func NewGlossaryService(
	db *gorm.DB,
	log *logger.Logger,
	termRepo repos.GlossaryTermRepo,
	auditService AuditService,
	model SemanticModelService,
	bus redis.CatalogBus,
) GlossaryService {
	return &glossaryService{
		db:           db,
		log:          log.With("service", "GlossaryService"),
		termRepo:     termRepo,
		auditService: auditService,
		model:        model,
		bus:          bus,
	}
}

func (gs *glossaryService) Create(ctx context.Context, term *types.GlossaryTerm) (*types.GlossaryTerm, error) {
	term.IRI = strings.TrimSpace(term.IRI)
	if term.IRI == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_iri", "a term IRI is required")
	}
	if term.Kind == "" {
		term.Kind = "concept"
	}
	exists, err := gs.termRepo.IRIExists(ctx, nil, term.IRI)
	if err != nil {
		return nil, fmt.Errorf("check term iri: %w", err)
	}
	if exists {
		return nil, apierr.Newf(http.StatusConflict, "duplicate_term", "a term with IRI %q already exists", term.IRI)
	}

	var created *types.GlossaryTerm
	txErr := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err = gs.termRepo.Create(ctx, tx, term)
		if err != nil {
			return fmt.Errorf("create glossary term: %w", err)
		}
		gs.auditService.Record(ctx, tx, "create", "glossary-term", created.ID.String(), true, map[string]any{"iri": created.IRI})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	gs.publishMutation(ctx, created.ID)
	return created, nil
}

func (gs *glossaryService) GetByID(ctx context.Context, termID uuid.UUID) (*types.GlossaryTerm, error) {
	term, err := gs.termRepo.GetByID(ctx, nil, termID)
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, apierr.Newf(http.StatusNotFound, "term_not_found", "glossary term %s not found", termID)
	}
	return term, nil
}

func (gs *glossaryService) GetByIRI(ctx context.Context, iri string) (*types.GlossaryTerm, error) {
	term, err := gs.termRepo.GetByIRI(ctx, nil, iri)
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, apierr.Newf(http.StatusNotFound, "term_not_found", "glossary term %q not found", iri)
	}
	return term, nil
}

func (gs *glossaryService) List(ctx context.Context) ([]*types.GlossaryTerm, error) {
	return gs.termRepo.List(ctx, nil)
}

func (gs *glossaryService) Update(ctx context.Context, term *types.GlossaryTerm) (*types.GlossaryTerm, error) {
	existing, err := gs.GetByID(ctx, term.ID)
	if err != nil {
		return nil, err
	}
	// IRIs are identifiers; renames would orphan semantic links.
	term.IRI = existing.IRI

	txErr := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := gs.termRepo.Update(ctx, tx, term); err != nil {
			return fmt.Errorf("update glossary term: %w", err)
		}
		gs.auditService.Record(ctx, tx, "update", "glossary-term", term.ID.String(), true, map[string]any{"iri": term.IRI})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	gs.publishMutation(ctx, term.ID)
	return term, nil
}

func (gs *glossaryService) Delete(ctx context.Context, termID uuid.UUID) error {
	term, err := gs.GetByID(ctx, termID)
	if err != nil {
		return err
	}
	txErr := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := gs.termRepo.Delete(ctx, tx, termID); err != nil {
			return fmt.Errorf("delete glossary term: %w", err)
		}
		gs.auditService.Record(ctx, tx, "delete", "glossary-term", termID.String(), true, map[string]any{"iri": term.IRI})
		return nil
	})
	if txErr != nil {
		return txErr
	}
	gs.publishMutation(ctx, termID)
	return nil
}

// publishMutation drops the local concept index snapshot and lets other
// instances drop theirs.
func (gs *glossaryService) publishMutation(ctx context.Context, termID uuid.UUID) {
	if gs.model != nil {
		gs.model.Invalidate()
	}
	if gs.bus == nil {
		return
	}
	if err := gs.bus.Publish(ctx, redis.Event{
		Type:       redis.EventEntityMutated,
		EntityType: "glossary-term",
		EntityID:   termID.String(),
	}); err != nil {
		gs.log.Warn("Failed to publish glossary mutation", "error", err)
	}
}
