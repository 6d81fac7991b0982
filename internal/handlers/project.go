package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/larsgeorge/ontos-sub000/internal/services"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type ProjectHandler struct {
	projectService services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type projectRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	TeamID      *string `json:"team_id"`
}

func (ph *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	project := &types.Project{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.TeamID != nil {
		teamID, err := uuid.Parse(*req.TeamID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_team_id", err)
			return
		}
		project.TeamID = &teamID
	}
	created, err := ph.projectService.Create(c.Request.Context(), project)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"project": created})
}

func (ph *ProjectHandler) Get(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	project, err := ph.projectService.GetByID(c.Request.Context(), projectID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"project": project})
}

func (ph *ProjectHandler) List(c *gin.Context) {
	projects, err := ph.projectService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"projects": projects})
}

func (ph *ProjectHandler) Update(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	existing, err := ph.projectService.GetByID(c.Request.Context(), projectID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	existing.Title = req.Title
	existing.Description = req.Description
	if req.TeamID != nil {
		teamID, err := uuid.Parse(*req.TeamID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_team_id", err)
			return
		}
		existing.TeamID = &teamID
	}
	updated, err := ph.projectService.Update(c.Request.Context(), existing)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"project": updated})
}

func (ph *ProjectHandler) Delete(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := ph.projectService.Delete(c.Request.Context(), projectID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
