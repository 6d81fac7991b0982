package app

import (
	"github.com/gin-gonic/gin"

	"github.com/larsgeorge/ontos-sub000/internal/server"
)

func wireRouter(cfg Config, h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:          cfg.ServiceName,
		AuthMiddleware:       m.Auth,
		PermissionMiddleware: m.Permission,
		AuthHandler:          h.Auth,
		UserHandler:          h.User,
		ProjectHandler:       h.Project,
		TeamHandler:          h.Team,
		ContractHandler:      h.Contract,
		GlossaryHandler:      h.Glossary,
		SemanticModelHandler: h.SemanticModel,
		SemanticLinkHandler:  h.SemanticLink,
		AuditHandler:         h.Audit,
		AccessRequestHandler: h.AccessRequest,
		NotificationHandler:  h.Notification,
		SettingsHandler:      h.Settings,
		EntityExtrasHandler:  h.EntityExtras,
	})
}
