package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/larsgeorge/ontos-sub000/internal/services"
)

type SemanticModelHandler struct {
	modelService services.SemanticModelService
}

func NewSemanticModelHandler(modelService services.SemanticModelService) *SemanticModelHandler {
	return &SemanticModelHandler{modelService: modelService}
}

// ConceptsGrouped returns every indexed concept, bucketed by taxonomy.
func (sh *SemanticModelHandler) ConceptsGrouped(c *gin.Context) {
	grouped, err := sh.modelService.GroupedConcepts(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"taxonomies": grouped})
}

func (sh *SemanticModelHandler) Roots(c *gin.Context) {
	roots, err := sh.modelService.Roots(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"concepts": roots})
}

func (sh *SemanticModelHandler) Children(c *gin.Context) {
	iri := c.Query("iri")
	if iri == "" {
		RespondError(c, http.StatusBadRequest, "missing_iri", fmt.Errorf("an iri query parameter is required"))
		return
	}
	children, err := sh.modelService.ChildrenOf(c.Request.Context(), iri)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"concepts": children})
}

// Hierarchy accepts the IRI either URL-encoded as a path segment or as an
// ?iri= query parameter (IRIs with slashes need the latter).
func (sh *SemanticModelHandler) Hierarchy(c *gin.Context) {
	iri := c.Query("iri")
	if iri == "" {
		if raw := c.Param("iri"); raw != "" {
			if decoded, err := url.PathUnescape(raw); err == nil {
				iri = decoded
			}
		}
	}
	if iri == "" {
		RespondError(c, http.StatusBadRequest, "missing_iri", fmt.Errorf("an iri is required"))
		return
	}
	view, err := sh.modelService.Hierarchy(c.Request.Context(), iri)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

func (sh *SemanticModelHandler) Neighbors(c *gin.Context) {
	iri := c.Query("iri")
	if iri == "" {
		RespondError(c, http.StatusBadRequest, "missing_iri", fmt.Errorf("an iri query parameter is required"))
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = parsed
	}
	neighbors, err := sh.modelService.Neighbors(c.Request.Context(), iri, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"neighbors": neighbors})
}

type modelQueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// Query runs a read-only graph query. GET passes it as ?query=, POST in the
// body.
func (sh *SemanticModelHandler) QueryGET(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		RespondError(c, http.StatusBadRequest, "missing_query", fmt.Errorf("a query parameter is required"))
		return
	}
	sh.runQuery(c, query)
}

func (sh *SemanticModelHandler) QueryPOST(c *gin.Context) {
	var req modelQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	sh.runQuery(c, req.Query)
}

func (sh *SemanticModelHandler) runQuery(c *gin.Context, query string) {
	results, err := sh.modelService.Query(c.Request.Context(), query)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"results": results})
}
