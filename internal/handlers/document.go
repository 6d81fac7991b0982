package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/larsgeorge/ontos-sub000/internal/services"
)

type EntityExtrasHandler struct {
	extrasService services.EntityExtrasService
}

func NewEntityExtrasHandler(extrasService services.EntityExtrasService) *EntityExtrasHandler {
	return &EntityExtrasHandler{extrasService: extrasService}
}

type noteRequest struct {
	Content string `json:"content"`
}

func (eh *EntityExtrasHandler) UpsertNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	note, err := eh.extrasService.UpsertNote(c.Request.Context(), c.Param("entityType"), c.Param("entityId"), req.Content)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"note": note})
}

func (eh *EntityExtrasHandler) GetNote(c *gin.Context) {
	note, err := eh.extrasService.GetNote(c.Request.Context(), c.Param("entityType"), c.Param("entityId"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"note": note})
}

type linkRequest struct {
	URL   string `json:"url" binding:"required"`
	Title string `json:"title"`
}

func (eh *EntityExtrasHandler) AddLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	link, err := eh.extrasService.AddLink(c.Request.Context(), c.Param("entityType"), c.Param("entityId"), req.URL, req.Title)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"link": link})
}

func (eh *EntityExtrasHandler) ListLinks(c *gin.Context) {
	links, err := eh.extrasService.ListLinks(c.Request.Context(), c.Param("entityType"), c.Param("entityId"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"links": links})
}

func (eh *EntityExtrasHandler) DeleteLink(c *gin.Context) {
	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := eh.extrasService.DeleteLink(c.Request.Context(), linkID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}

func (eh *EntityExtrasHandler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("a file form field is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer file.Close()

	doc, err := eh.extrasService.UploadDocument(
		c.Request.Context(),
		c.Param("entityType"),
		c.Param("entityId"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"document": doc})
}

func (eh *EntityExtrasHandler) ListDocuments(c *gin.Context) {
	docs, err := eh.extrasService.ListDocuments(c.Request.Context(), c.Param("entityType"), c.Param("entityId"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"documents": docs})
}

func (eh *EntityExtrasHandler) DeleteDocument(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := eh.extrasService.DeleteDocument(c.Request.Context(), docID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
