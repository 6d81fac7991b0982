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

type SettingsHandler struct {
	settingsService services.SettingsService
}

func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (sh *SettingsHandler) ListRoles(c *gin.Context) {
	roles, err := sh.settingsService.ListRoles(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"roles": roles})
}

type roleRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Features    map[string]string `json:"features"`
}

func (req roleRequest) toRole() (*types.Role, error) {
	role := &types.Role{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Features != nil {
		raw, err := json.Marshal(req.Features)
		if err != nil {
			return nil, err
		}
		role.FeaturePermissions = datatypes.JSON(raw)
	}
	return role, nil
}

func (sh *SettingsHandler) CreateRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	role, err := req.toRole()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	created, err := sh.settingsService.CreateRole(c.Request.Context(), role)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"role": created})
}

func (sh *SettingsHandler) UpdateRole(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	role, err := req.toRole()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	role.ID = roleID
	updated, err := sh.settingsService.UpdateRole(c.Request.Context(), role)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"role": updated})
}

func (sh *SettingsHandler) DeleteRole(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := sh.settingsService.DeleteRole(c.Request.Context(), roleID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
