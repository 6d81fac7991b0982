package app

import (
	"time"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/utils"
)

type Config struct {
	ServiceName     string
	Environment     string
	Version         string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	RoleSeedFile    string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	return Config{
		ServiceName:     utils.GetEnv("SERVICE_NAME", "ontos", log),
		Environment:     utils.GetEnv("ENVIRONMENT", "development", log),
		Version:         utils.GetEnv("SERVICE_VERSION", "dev", log),
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		RoleSeedFile:    utils.GetEnv("ROLE_SEED_FILE", "", log),
	}
}
