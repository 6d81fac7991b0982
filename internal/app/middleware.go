package app

import (
	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/middleware"
)

type Middleware struct {
	Auth       *middleware.AuthMiddleware
	Permission *middleware.PermissionMiddleware
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	return Middleware{
		Auth:       middleware.NewAuthMiddleware(log, s.Auth),
		Permission: middleware.NewPermissionMiddleware(log, s.Permission),
	}
}
