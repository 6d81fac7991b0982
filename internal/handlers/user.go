package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/larsgeorge/ontos-sub000/internal/requestdata"
	"github.com/larsgeorge/ontos-sub000/internal/services"
)

type UserHandler struct {
	userService       services.UserService
	permissionService services.PermissionService
}

func NewUserHandler(userService services.UserService, permissionService services.PermissionService) *UserHandler {
	return &UserHandler{userService: userService, permissionService: permissionService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "not_authenticated", fmt.Errorf("not authenticated"))
		return
	}
	me, err := uh.userService.GetByID(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	me.Password = ""
	RespondOK(c, gin.H{"me": me})
}

func (uh *UserHandler) ListUsers(c *gin.Context) {
	users, err := uh.userService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	for _, u := range users {
		u.Password = ""
	}
	RespondOK(c, gin.H{"users": users})
}

// GetPermissions returns the caller's effective feature levels, the role
// catalog and any applied override in one payload.
func (uh *UserHandler) GetPermissions(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "not_authenticated", fmt.Errorf("not authenticated"))
		return
	}
	store, err := uh.permissionService.StoreFor(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	levels := map[string]string{}
	for feature, level := range store.Permissions() {
		levels[feature] = level.String()
	}
	RespondOK(c, gin.H{
		"permissions":      levels,
		"roles":            store.Roles(),
		"applied_override": store.AppliedOverride(),
		"is_admin":         rd.IsAdmin,
	})
}

// GetRoleOverride reports the caller's applied override, if any.
func (uh *UserHandler) GetRoleOverride(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "not_authenticated", fmt.Errorf("not authenticated"))
		return
	}
	store, err := uh.permissionService.StoreFor(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"applied_override": store.AppliedOverride()})
}

type roleOverrideRequest struct {
	RoleID string `json:"role_id" binding:"required"`
}

// SetRoleOverride applies a "view as role" override for the calling admin.
func (uh *UserHandler) SetRoleOverride(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "not_authenticated", fmt.Errorf("not authenticated"))
		return
	}
	if !rd.IsAdmin {
		RespondError(c, http.StatusForbidden, "admin_only", fmt.Errorf("only admins can apply a role override"))
		return
	}
	var req roleOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	roleID, err := uuid.Parse(req.RoleID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_role_id", err)
		return
	}
	if err := uh.permissionService.SetRoleOverride(c.Request.Context(), rd.UserID, &roleID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"applied_override": roleID})
}

func (uh *UserHandler) ClearRoleOverride(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "not_authenticated", fmt.Errorf("not authenticated"))
		return
	}
	if err := uh.permissionService.SetRoleOverride(c.Request.Context(), rd.UserID, nil); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"applied_override": nil})
}
