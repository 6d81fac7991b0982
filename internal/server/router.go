package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/larsgeorge/ontos-sub000/internal/handlers"
	"github.com/larsgeorge/ontos-sub000/internal/middleware"
	"github.com/larsgeorge/ontos-sub000/internal/permissions"
)

type RouterConfig struct {
	ServiceName string

	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware

	AuthHandler          *handlers.AuthHandler
	UserHandler          *handlers.UserHandler
	ProjectHandler       *handlers.ProjectHandler
	TeamHandler          *handlers.TeamHandler
	ContractHandler      *handlers.DataContractHandler
	GlossaryHandler      *handlers.GlossaryHandler
	SemanticModelHandler *handlers.SemanticModelHandler
	SemanticLinkHandler  *handlers.SemanticLinkHandler
	AuditHandler         *handlers.AuditHandler
	AccessRequestHandler *handlers.AccessRequestHandler
	NotificationHandler  *handlers.NotificationHandler
	SettingsHandler      *handlers.SettingsHandler
	EntityExtrasHandler  *handlers.EntityExtrasHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/api/auth/register", cfg.AuthHandler.Register)
	router.POST("/api/auth/login", cfg.AuthHandler.Login)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	api.POST("/auth/logout", cfg.AuthHandler.Logout)

	// User
	api.GET("/user/me", cfg.UserHandler.GetMe)
	api.GET("/user/permissions", cfg.UserHandler.GetPermissions)
	api.GET("/user/role-override", cfg.UserHandler.GetRoleOverride)
	api.POST("/user/role-override", cfg.UserHandler.SetRoleOverride)
	api.DELETE("/user/role-override", cfg.UserHandler.ClearRoleOverride)
	api.GET("/users", cfg.PermissionMiddleware.RequireAdmin(), cfg.UserHandler.ListUsers)

	// Semantic models
	models := api.Group("/semantic-models",
		cfg.PermissionMiddleware.Require(permissions.FeatureSemanticModels, permissions.LevelReadOnly))
	{
		models.GET("/concepts-grouped", cfg.SemanticModelHandler.ConceptsGrouped)
		models.GET("/concepts/roots", cfg.SemanticModelHandler.Roots)
		models.GET("/concepts/children", cfg.SemanticModelHandler.Children)
		models.GET("/concepts/hierarchy", cfg.SemanticModelHandler.Hierarchy)
		models.GET("/concepts/:iri/hierarchy", cfg.SemanticModelHandler.Hierarchy)
		models.GET("/neighbors", cfg.SemanticModelHandler.Neighbors)
		models.GET("/query", cfg.SemanticModelHandler.QueryGET)
		models.POST("/query", cfg.SemanticModelHandler.QueryPOST)
	}

	// Semantic links
	links := api.Group("/semantic-links",
		cfg.PermissionMiddleware.Require(permissions.FeatureSemanticModels, permissions.LevelReadOnly))
	{
		links.GET("/", cfg.SemanticLinkHandler.List)
		links.GET("/iri/:iri", cfg.SemanticLinkHandler.ListByIRI)
		links.POST("/",
			cfg.PermissionMiddleware.Require(permissions.FeatureSemanticModels, permissions.LevelReadWrite),
			cfg.SemanticLinkHandler.Create)
		links.DELETE("/:id",
			cfg.PermissionMiddleware.Require(permissions.FeatureSemanticModels, permissions.LevelReadWrite),
			cfg.SemanticLinkHandler.Delete)
	}

	// Business glossary
	glossary := api.Group("/glossary",
		cfg.PermissionMiddleware.Require(permissions.FeatureGlossary, permissions.LevelReadOnly))
	{
		glossary.GET("/terms", cfg.GlossaryHandler.List)
		glossary.GET("/terms/:id", cfg.GlossaryHandler.Get)
		glossary.POST("/terms",
			cfg.PermissionMiddleware.Require(permissions.FeatureGlossary, permissions.LevelReadWrite),
			cfg.GlossaryHandler.Create)
		glossary.PUT("/terms/:id",
			cfg.PermissionMiddleware.Require(permissions.FeatureGlossary, permissions.LevelReadWrite),
			cfg.GlossaryHandler.Update)
		glossary.DELETE("/terms/:id",
			cfg.PermissionMiddleware.Require(permissions.FeatureGlossary, permissions.LevelReadWrite),
			cfg.GlossaryHandler.Delete)
	}

	// Projects
	projects := api.Group("/projects",
		cfg.PermissionMiddleware.Require(permissions.FeatureProjects, permissions.LevelReadOnly))
	{
		projects.GET("/", cfg.ProjectHandler.List)
		projects.GET("/:id", cfg.ProjectHandler.Get)
		projects.POST("/",
			cfg.PermissionMiddleware.Require(permissions.FeatureProjects, permissions.LevelReadWrite),
			cfg.ProjectHandler.Create)
		projects.PUT("/:id",
			cfg.PermissionMiddleware.Require(permissions.FeatureProjects, permissions.LevelReadWrite),
			cfg.ProjectHandler.Update)
		projects.DELETE("/:id",
			cfg.PermissionMiddleware.Require(permissions.FeatureProjects, permissions.LevelAdmin),
			cfg.ProjectHandler.Delete)
	}

	// Teams
	teams := api.Group("/teams",
		cfg.PermissionMiddleware.Require(permissions.FeatureTeams, permissions.LevelReadOnly))
	{
		teams.GET("/", cfg.TeamHandler.List)
		teams.GET("/:id", cfg.TeamHandler.Get)
		teams.GET("/:id/members", cfg.TeamHandler.ListMembers)
		teams.POST("/",
			cfg.PermissionMiddleware.Require(permissions.FeatureTeams, permissions.LevelReadWrite),
			cfg.TeamHandler.Create)
		teams.PUT("/:id",
			cfg.PermissionMiddleware.Require(permissions.FeatureTeams, permissions.LevelReadWrite),
			cfg.TeamHandler.Update)
		teams.DELETE("/:id",
			cfg.PermissionMiddleware.Require(permissions.FeatureTeams, permissions.LevelAdmin),
			cfg.TeamHandler.Delete)
		teams.POST("/:id/members",
			cfg.PermissionMiddleware.Require(permissions.FeatureTeams, permissions.LevelReadWrite),
			cfg.TeamHandler.AddMember)
		teams.DELETE("/:id/members/:userId",
			cfg.PermissionMiddleware.Require(permissions.FeatureTeams, permissions.LevelReadWrite),
			cfg.TeamHandler.RemoveMember)
	}

	// Data contracts
	contracts := api.Group("/data-contracts",
		cfg.PermissionMiddleware.Require(permissions.FeatureDataContracts, permissions.LevelReadOnly))
	{
		contracts.GET("/", cfg.ContractHandler.List)
		contracts.GET("/:id", cfg.ContractHandler.Get)
		contracts.POST("/",
			cfg.PermissionMiddleware.Require(permissions.FeatureDataContracts, permissions.LevelReadWrite),
			cfg.ContractHandler.Create)
		contracts.PUT("/:id",
			cfg.PermissionMiddleware.Require(permissions.FeatureDataContracts, permissions.LevelReadWrite),
			cfg.ContractHandler.Update)
		contracts.POST("/:id/status",
			cfg.PermissionMiddleware.Require(permissions.FeatureDataContracts, permissions.LevelReadWrite),
			cfg.ContractHandler.UpdateStatus)
		contracts.DELETE("/:id",
			cfg.PermissionMiddleware.Require(permissions.FeatureDataContracts, permissions.LevelAdmin),
			cfg.ContractHandler.Delete)
	}

	// Notes, links and documents on any entity
	extras := api.Group("/entities/:entityType/:entityId")
	{
		extras.GET("/note", cfg.EntityExtrasHandler.GetNote)
		extras.PUT("/note", cfg.EntityExtrasHandler.UpsertNote)
		extras.GET("/links", cfg.EntityExtrasHandler.ListLinks)
		extras.POST("/links", cfg.EntityExtrasHandler.AddLink)
		extras.GET("/documents", cfg.EntityExtrasHandler.ListDocuments)
		extras.POST("/documents", cfg.EntityExtrasHandler.UploadDocument)
	}
	api.DELETE("/links/:id", cfg.EntityExtrasHandler.DeleteLink)
	api.DELETE("/documents/:id", cfg.EntityExtrasHandler.DeleteDocument)

	// Audit trail
	api.GET("/audit",
		cfg.PermissionMiddleware.Require(permissions.FeatureAudit, permissions.LevelReadOnly),
		cfg.AuditHandler.List)

	// Access requests
	api.POST("/access-requests", cfg.AccessRequestHandler.Submit)
	api.GET("/access-requests", cfg.PermissionMiddleware.RequireAdmin(), cfg.AccessRequestHandler.List)
	api.POST("/access-requests/:id/approve", cfg.PermissionMiddleware.RequireAdmin(), cfg.AccessRequestHandler.Approve)
	api.POST("/access-requests/:id/deny", cfg.PermissionMiddleware.RequireAdmin(), cfg.AccessRequestHandler.Deny)

	// Notifications
	api.GET("/notifications", cfg.NotificationHandler.List)
	api.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
	api.POST("/notifications/read-all", cfg.NotificationHandler.MarkAllRead)

	// Settings
	settings := api.Group("/settings",
		cfg.PermissionMiddleware.Require(permissions.FeatureSettings, permissions.LevelReadOnly))
	{
		settings.GET("/roles", cfg.SettingsHandler.ListRoles)
		settings.POST("/roles",
			cfg.PermissionMiddleware.Require(permissions.FeatureSettings, permissions.LevelAdmin),
			cfg.SettingsHandler.CreateRole)
		settings.PUT("/roles/:id",
			cfg.PermissionMiddleware.Require(permissions.FeatureSettings, permissions.LevelAdmin),
			cfg.SettingsHandler.UpdateRole)
		settings.DELETE("/roles/:id",
			cfg.PermissionMiddleware.Require(permissions.FeatureSettings, permissions.LevelAdmin),
			cfg.SettingsHandler.DeleteRole)
	}

	return router
}
