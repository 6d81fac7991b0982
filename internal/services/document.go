package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/clients/gcp"
	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/repos"
	"github.com/larsgeorge/ontos-sub000/internal/requestdata"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

// EntityExtrasService handles the note, links and attached documents of any
// catalog entity.
type EntityExtrasService interface {
	UpsertNote(ctx context.Context, entityType, entityID, content string) (*types.EntityNote, error)
	GetNote(ctx context.Context, entityType, entityID string) (*types.EntityNote, error)

	AddLink(ctx context.Context, entityType, entityID, url, title string) (*types.EntityLink, error)
	ListLinks(ctx context.Context, entityType, entityID string) ([]*types.EntityLink, error)
	DeleteLink(ctx context.Context, linkID uuid.UUID) error

	UploadDocument(ctx context.Context, entityType, entityID, filename, contentType string, size int64, file io.Reader) (*types.EntityDocument, error)
	ListDocuments(ctx context.Context, entityType, entityID string) ([]*types.EntityDocument, error)
	DeleteDocument(ctx context.Context, docID uuid.UUID) error
}

type entityExtrasService struct {
	db            *gorm.DB
	log           *logger.Logger
	noteRepo      repos.EntityNoteRepo
	linkRepo      repos.EntityLinkRepo
	documentRepo  repos.EntityDocumentRepo
	bucketService gcp.BucketService
	auditService  AuditService
}

func NewEntityExtrasService(
	db *gorm.DB,
	log *logger.Logger,
	noteRepo repos.EntityNoteRepo,
	linkRepo repos.EntityLinkRepo,
	documentRepo repos.EntityDocumentRepo,
	bucketService gcp.BucketService,
	auditService AuditService,
) EntityExtrasService {
	return &entityExtrasService{
		db:            db,
		log:           log.With("service", "EntityExtrasService"),
		noteRepo:      noteRepo,
		linkRepo:      linkRepo,
		documentRepo:  documentRepo,
		bucketService: bucketService,
		auditService:  auditService,
	}
}

func (es *entityExtrasService) UpsertNote(ctx context.Context, entityType, entityID, content string) (*types.EntityNote, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Newf(http.StatusUnauthorized, "not_authenticated", "not authenticated")
	}
	if entityType == "" || entityID == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_entity", "entity_type and entity_id are required")
	}
	note := &types.EntityNote{
		EntityType: entityType,
		EntityID:   entityID,
		Content:    content,
		UpdatedBy:  rd.UserID,
	}
	txErr := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := es.noteRepo.Upsert(ctx, tx, note); err != nil {
			return fmt.Errorf("upsert note: %w", err)
		}
		es.auditService.Record(ctx, tx, "note", entityType, entityID, true, nil)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return note, nil
}

func (es *entityExtrasService) GetNote(ctx context.Context, entityType, entityID string) (*types.EntityNote, error) {
	return es.noteRepo.GetByEntity(ctx, nil, entityType, entityID)
}

func (es *entityExtrasService) AddLink(ctx context.Context, entityType, entityID, rawURL, title string) (*types.EntityLink, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Newf(http.StatusUnauthorized, "not_authenticated", "not authenticated")
	}
	if entityType == "" || entityID == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_entity", "entity_type and entity_id are required")
	}
	rawURL = strings.TrimSpace(rawURL)
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "invalid_url", "a valid absolute URL is required")
	}
	link := &types.EntityLink{
		EntityType: entityType,
		EntityID:   entityID,
		URL:        rawURL,
		Title:      strings.TrimSpace(title),
		CreatedBy:  rd.UserID,
	}
	txErr := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := es.linkRepo.Create(ctx, tx, link)
		if err != nil {
			return fmt.Errorf("create link: %w", err)
		}
		link = created
		es.auditService.Record(ctx, tx, "add-link", entityType, entityID, true, map[string]any{"url": rawURL})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return link, nil
}

func (es *entityExtrasService) ListLinks(ctx context.Context, entityType, entityID string) ([]*types.EntityLink, error) {
	return es.linkRepo.ListByEntity(ctx, nil, entityType, entityID)
}

func (es *entityExtrasService) DeleteLink(ctx context.Context, linkID uuid.UUID) error {
	link, err := es.linkRepo.GetByID(ctx, nil, linkID)
	if err != nil {
		return err
	}
	if link == nil {
		return apierr.Newf(http.StatusNotFound, "link_not_found", "link %s not found", linkID)
	}
	return es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := es.linkRepo.Delete(ctx, tx, linkID); err != nil {
			return fmt.Errorf("delete link: %w", err)
		}
		es.auditService.Record(ctx, tx, "delete-link", link.EntityType, link.EntityID, true, map[string]any{"url": link.URL})
		return nil
	})
}

func (es *entityExtrasService) UploadDocument(ctx context.Context, entityType, entityID, filename, contentType string, size int64, file io.Reader) (*types.EntityDocument, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Newf(http.StatusUnauthorized, "not_authenticated", "not authenticated")
	}
	filename = path.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == "/" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_filename", "a filename is required")
	}
	if es.bucketService == nil {
		return nil, apierr.Newf(http.StatusServiceUnavailable, "storage_unavailable", "document storage is not configured")
	}

	docID := uuid.New()
	key := fmt.Sprintf("documents/%s/%s/%s/%s", entityType, entityID, docID.String(), filename)
	if err := es.bucketService.UploadFile(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	doc := &types.EntityDocument{
		ID:          docID,
		EntityType:  entityType,
		EntityID:    entityID,
		Filename:    filename,
		BucketKey:   key,
		URL:         es.bucketService.GetPublicURL(key),
		ContentType: contentType,
		SizeBytes:   size,
		UploadedBy:  rd.UserID,
	}
	txErr := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := es.documentRepo.Create(ctx, tx, doc)
		if err != nil {
			return fmt.Errorf("record document: %w", err)
		}
		doc = created
		es.auditService.Record(ctx, tx, "upload-document", entityType, entityID, true, map[string]any{"filename": filename})
		return nil
	})
	if txErr != nil {
		// The object is already in the bucket; best effort cleanup.
		if delErr := es.bucketService.DeleteFile(ctx, key); delErr != nil {
			es.log.Warn("Failed to clean up orphaned document object", "key", key, "error", delErr)
		}
		return nil, txErr
	}
	return doc, nil
}

func (es *entityExtrasService) ListDocuments(ctx context.Context, entityType, entityID string) ([]*types.EntityDocument, error) {
	return es.documentRepo.ListByEntity(ctx, nil, entityType, entityID)
}

func (es *entityExtrasService) DeleteDocument(ctx context.Context, docID uuid.UUID) error {
	doc, err := es.documentRepo.GetByID(ctx, nil, docID)
	if err != nil {
		return err
	}
	if doc == nil {
		return apierr.Newf(http.StatusNotFound, "document_not_found", "document %s not found", docID)
	}
	txErr := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := es.documentRepo.Delete(ctx, tx, docID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		es.auditService.Record(ctx, tx, "delete-document", doc.EntityType, doc.EntityID, true, map[string]any{"filename": doc.Filename})
		return nil
	})
	if txErr != nil {
		return txErr
	}
	if es.bucketService != nil {
		if err := es.bucketService.DeleteFile(ctx, doc.BucketKey); err != nil {
			es.log.Warn("Failed to delete document object", "key", doc.BucketKey, "error", err)
		}
	}
	return nil
}
