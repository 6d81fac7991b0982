package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/larsgeorge/ontos-sub000/internal/services"
)

type AccessRequestHandler struct {
	requestService services.AccessRequestService
}

func NewAccessRequestHandler(requestService services.AccessRequestService) *AccessRequestHandler {
	return &AccessRequestHandler{requestService: requestService}
}

type accessRequestBody struct {
	Feature string `json:"feature" binding:"required"`
	Level   string `json:"level" binding:"required"`
	Message string `json:"message"`
}

func (rh *AccessRequestHandler) Submit(c *gin.Context) {
	var req accessRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	created, err := rh.requestService.Submit(c.Request.Context(), req.Feature, req.Level, req.Message)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"request": created})
}

func (rh *AccessRequestHandler) List(c *gin.Context) {
	requests, err := rh.requestService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"requests": requests})
}

func (rh *AccessRequestHandler) Approve(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	request, err := rh.requestService.Approve(c.Request.Context(), requestID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"request": request})
}

func (rh *AccessRequestHandler) Deny(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	request, err := rh.requestService.Deny(c.Request.Context(), requestID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"request": request})
}
