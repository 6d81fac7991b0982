package app

import (
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/repos"
)

type Repos struct {
	User           repos.UserRepo
	UserToken      repos.UserTokenRepo
	Team           repos.TeamRepo
	Project        repos.ProjectRepo
	DataContract   repos.DataContractRepo
	GlossaryTerm   repos.GlossaryTermRepo
	SemanticLink   repos.SemanticLinkRepo
	AuditLog       repos.AuditLogRepo
	Role           repos.RoleRepo
	RoleOverride   repos.RoleOverrideRepo
	UserPermission repos.UserPermissionRepo
	AccessRequest  repos.AccessRequestRepo
	Notification   repos.NotificationRepo
	EntityNote     repos.EntityNoteRepo
	EntityLink     repos.EntityLinkRepo
	EntityDocument repos.EntityDocumentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		UserToken:      repos.NewUserTokenRepo(db, log),
		Team:           repos.NewTeamRepo(db, log),
		Project:        repos.NewProjectRepo(db, log),
		DataContract:   repos.NewDataContractRepo(db, log),
		GlossaryTerm:   repos.NewGlossaryTermRepo(db, log),
		SemanticLink:   repos.NewSemanticLinkRepo(db, log),
		AuditLog:       repos.NewAuditLogRepo(db, log),
		Role:           repos.NewRoleRepo(db, log),
		RoleOverride:   repos.NewRoleOverrideRepo(db, log),
		UserPermission: repos.NewUserPermissionRepo(db, log),
		AccessRequest:  repos.NewAccessRequestRepo(db, log),
		Notification:   repos.NewNotificationRepo(db, log),
		EntityNote:     repos.NewEntityNoteRepo(db, log),
		EntityLink:     repos.NewEntityLinkRepo(db, log),
		EntityDocument: repos.NewEntityDocumentRepo(db, log),
	}
}
