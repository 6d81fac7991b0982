package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/clients/redis"
	"github.com/larsgeorge/ontos-sub000/internal/db"
	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/observability"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services

	cancel       context.CancelFunc
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clients := wireClients(log)
	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, clients)
	if err != nil {
		log.Sync()
		return nil, err
	}

	if cfg.RoleSeedFile != "" {
		if err := serviceset.Permission.SeedRolesFromFile(context.Background(), cfg.RoleSeedFile); err != nil {
			log.Warn("Role seeding failed", "error", err, "file", cfg.RoleSeedFile)
		}
	}

	handlerset := wireHandlers(serviceset)
	middlewareset := wireMiddleware(log, serviceset)
	router := wireRouter(cfg, handlerset, middlewareset)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Clients:  clients,
		Services: serviceset,
	}, nil
}

// Start launches the background pieces: tracing and the catalog event
// forwarder that invalidates cached permission and concept snapshots when
// another instance mutates shared state.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.otelShutdown = observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		ServiceName: a.Cfg.ServiceName,
		Environment: a.Cfg.Environment,
		Version:     a.Cfg.Version,
	})

	if a.Clients.CatalogBus != nil {
		err := a.Clients.CatalogBus.StartForwarder(ctx, func(event redis.Event) {
			switch event.Type {
			case redis.EventRoleOverrideChanged:
				if userID, err := uuid.Parse(event.UserID); err == nil {
					a.Services.Permission.InvalidateUser(userID)
				}
			case redis.EventRolesChanged:
				a.Services.Permission.InvalidateAll()
			case redis.EventEntityMutated:
				if event.EntityType == "glossary-term" || event.EntityType == "semantic-link" {
					a.Services.SemanticModel.Invalidate()
				}
			}
		})
		if err != nil {
			a.Log.Warn("Catalog event forwarder failed to start", "error", err)
		}
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Clients.CatalogBus != nil {
		if err := a.Clients.CatalogBus.Close(); err != nil {
			a.Log.Warn("catalog bus close failed", "error", err)
		}
	}
	if a.Clients.Neo4j != nil {
		if err := a.Clients.Neo4j.Close(context.Background()); err != nil {
			a.Log.Warn("neo4j close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
