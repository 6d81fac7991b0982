package app

import (
	"github.com/larsgeorge/ontos-sub000/internal/handlers"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	User          *handlers.UserHandler
	Project       *handlers.ProjectHandler
	Team          *handlers.TeamHandler
	Contract      *handlers.DataContractHandler
	Glossary      *handlers.GlossaryHandler
	SemanticModel *handlers.SemanticModelHandler
	SemanticLink  *handlers.SemanticLinkHandler
	Audit         *handlers.AuditHandler
	AccessRequest *handlers.AccessRequestHandler
	Notification  *handlers.NotificationHandler
	Settings      *handlers.SettingsHandler
	EntityExtras  *handlers.EntityExtrasHandler
}

func wireHandlers(s Services) Handlers {
	return Handlers{
		Auth:          handlers.NewAuthHandler(s.Auth),
		User:          handlers.NewUserHandler(s.User, s.Permission),
		Project:       handlers.NewProjectHandler(s.Project),
		Team:          handlers.NewTeamHandler(s.Team),
		Contract:      handlers.NewDataContractHandler(s.DataContract),
		Glossary:      handlers.NewGlossaryHandler(s.Glossary),
		SemanticModel: handlers.NewSemanticModelHandler(s.SemanticModel),
		SemanticLink:  handlers.NewSemanticLinkHandler(s.SemanticLink),
		Audit:         handlers.NewAuditHandler(s.Audit),
		AccessRequest: handlers.NewAccessRequestHandler(s.AccessRequest),
		Notification:  handlers.NewNotificationHandler(s.Notification),
		Settings:      handlers.NewSettingsHandler(s.Settings),
		EntityExtras:  handlers.NewEntityExtrasHandler(s.EntityExtras),
	}
}
