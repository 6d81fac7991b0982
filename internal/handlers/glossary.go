package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/larsgeorge/ontos-sub000/internal/services"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type GlossaryHandler struct {
	glossaryService services.GlossaryService
}

func NewGlossaryHandler(glossaryService services.GlossaryService) *GlossaryHandler {
	return &GlossaryHandler{glossaryService: glossaryService}
}

type glossaryTermRequest struct {
	IRI          string   `json:"iri" binding:"required"`
	Label        string   `json:"label"`
	Kind         string   `json:"kind"`
	TaxonomyName string   `json:"taxonomy_name"`
	Comment      string   `json:"comment"`
	ParentIRIs   []string `json:"parent_iris"`
	ChildIRIs    []string `json:"child_iris"`
	SourceCtx    string   `json:"source_context"`
}

func (req glossaryTermRequest) toTerm() (*types.GlossaryTerm, error) {
	term := &types.GlossaryTerm{
		IRI:          req.IRI,
		Label:        req.Label,
		Kind:         req.Kind,
		TaxonomyName: req.TaxonomyName,
		Comment:      req.Comment,
		SourceCtx:    req.SourceCtx,
	}
	if req.ParentIRIs != nil {
		raw, err := json.Marshal(req.ParentIRIs)
		if err != nil {
			return nil, err
		}
		term.ParentIRIs = datatypes.JSON(raw)
	}
	if req.ChildIRIs != nil {
		raw, err := json.Marshal(req.ChildIRIs)
		if err != nil {
			return nil, err
		}
		term.ChildIRIs = datatypes.JSON(raw)
	}
	return term, nil
}

func (gh *GlossaryHandler) Create(c *gin.Context) {
	var req glossaryTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	term, err := req.toTerm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	created, err := gh.glossaryService.Create(c.Request.Context(), term)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"term": created})
}

func (gh *GlossaryHandler) Get(c *gin.Context) {
	termID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	term, err := gh.glossaryService.GetByID(c.Request.Context(), termID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"term": term})
}

func (gh *GlossaryHandler) List(c *gin.Context) {
	terms, err := gh.glossaryService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"terms": terms})
}

func (gh *GlossaryHandler) Update(c *gin.Context) {
	termID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req glossaryTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	term, err := req.toTerm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	term.ID = termID
	updated, err := gh.glossaryService.Update(c.Request.Context(), term)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"term": updated})
}

func (gh *GlossaryHandler) Delete(c *gin.Context) {
	termID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := gh.glossaryService.Delete(c.Request.Context(), termID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
