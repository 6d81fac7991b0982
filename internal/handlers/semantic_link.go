package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/larsgeorge/ontos-sub000/internal/services"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type SemanticLinkHandler struct {
	linkService services.SemanticLinkService
}

func NewSemanticLinkHandler(linkService services.SemanticLinkService) *SemanticLinkHandler {
	return &SemanticLinkHandler{linkService: linkService}
}

type semanticLinkRequest struct {
	IRI        string `json:"iri" binding:"required"`
	EntityType string `json:"entity_type" binding:"required"`
	EntityID   string `json:"entity_id" binding:"required"`
}

func (lh *SemanticLinkHandler) Create(c *gin.Context) {
	var req semanticLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	created, err := lh.linkService.Create(c.Request.Context(), &types.SemanticLink{
		IRI:        req.IRI,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"link": created})
}

// List filters by iri or by entity_type+entity_id; exactly one axis is
// required.
func (lh *SemanticLinkHandler) List(c *gin.Context) {
	iri := c.Query("iri")
	entityType := c.Query("entity_type")
	entityID := c.Query("entity_id")

	switch {
	case iri != "":
		links, err := lh.linkService.ListByIRI(c.Request.Context(), iri)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"links": links})
	case entityType != "" && entityID != "":
		links, err := lh.linkService.ListByEntity(c.Request.Context(), entityType, entityID)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"links": links})
	default:
		RespondError(c, http.StatusBadRequest, "missing_filter", fmt.Errorf("either iri or entity_type and entity_id are required"))
	}
}

// ListByIRI serves the path-parameter form; the IRI segment is URL-encoded.
func (lh *SemanticLinkHandler) ListByIRI(c *gin.Context) {
	iri, err := url.PathUnescape(c.Param("iri"))
	if err != nil || iri == "" {
		RespondError(c, http.StatusBadRequest, "invalid_iri", fmt.Errorf("a URL-encoded iri path segment is required"))
		return
	}
	links, err := lh.linkService.ListByIRI(c.Request.Context(), iri)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"links": links})
}

func (lh *SemanticLinkHandler) Delete(c *gin.Context) {
	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := lh.linkService.Delete(c.Request.Context(), linkID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
