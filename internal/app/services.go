package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/services"
)

type Services struct {
	Auth          services.AuthService
	User          services.UserService
	Avatar        services.AvatarService
	Audit         services.AuditService
	Project       services.ProjectService
	Team          services.TeamService
	DataContract  services.DataContractService
	Glossary      services.GlossaryService
	SemanticModel services.SemanticModelService
	SemanticLink  services.SemanticLinkService
	Permission    services.PermissionService
	AccessRequest services.AccessRequestService
	Notification  services.NotificationService
	Settings      services.SettingsService
	EntityExtras  services.EntityExtrasService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) (Services, error) {
	log.Info("Wiring services...")

	var avatar services.AvatarService
	if c.Bucket != nil {
		built, err := services.NewAvatarService(log, c.Bucket)
		if err != nil {
			return Services{}, fmt.Errorf("init avatar service: %w", err)
		}
		avatar = built
	}

	audit := services.NewAuditService(db, log, r.AuditLog)
	auth := services.NewAuthService(db, log, r.User, r.UserToken, avatar, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	user := services.NewUserService(db, log, r.User)
	permission := services.NewPermissionService(db, log, r.Role, r.RoleOverride, r.UserPermission, r.User, audit, c.CatalogBus)
	project := services.NewProjectService(db, log, r.Project, audit, c.CatalogBus)
	team := services.NewTeamService(db, log, r.Team, r.User, avatar, audit, c.CatalogBus)
	contract := services.NewDataContractService(db, log, r.DataContract, audit, c.CatalogBus)
	model := services.NewSemanticModelService(db, log, r.GlossaryTerm, c.ConceptGraph)
	glossary := services.NewGlossaryService(db, log, r.GlossaryTerm, audit, model, c.CatalogBus)
	link := services.NewSemanticLinkService(db, log, r.SemanticLink, r.GlossaryTerm, audit, model, c.CatalogBus)
	accessRequest := services.NewAccessRequestService(db, log, r.AccessRequest, r.UserPermission, r.User, r.Notification, audit, permission)
	notification := services.NewNotificationService(db, log, r.Notification)
	settings := services.NewSettingsService(db, log, r.Role, audit, permission, c.CatalogBus)
	extras := services.NewEntityExtrasService(db, log, r.EntityNote, r.EntityLink, r.EntityDocument, c.Bucket, audit)

	return Services{
		Auth:          auth,
		User:          user,
		Avatar:        avatar,
		Audit:         audit,
		Project:       project,
		Team:          team,
		DataContract:  contract,
		Glossary:      glossary,
		SemanticModel: model,
		SemanticLink:  link,
		Permission:    permission,
		AccessRequest: accessRequest,
		Notification:  notification,
		Settings:      settings,
		EntityExtras:  extras,
	}, nil
}
