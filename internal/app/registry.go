package app

import (
	"database/sql"
	"fmt"
	"time"

	"go-payrun/internal/catalog"
	"go-payrun/internal/commandcenter"
	"go-payrun/internal/config"
	"go-payrun/internal/disbursement"
	"go-payrun/internal/draft"
	"go-payrun/internal/engine"
	"go-payrun/internal/gateway"
	"go-payrun/internal/history"
	"go-payrun/internal/messaging/kafka"
	"go-payrun/internal/middleware"
	"go-payrun/internal/preview"
	"go-payrun/internal/rbac"
	"go-payrun/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Modules holds the services other entry points (the consumer) reuse.
type Modules struct {
	CommandCenter commandcenter.Service
	Drafts        draft.Service
	Disbursement  disbursement.Service
}

func newDraftRepository(cfg config.DraftConfig, gormDB *gorm.DB, rdb *redis.Client) (draft.Repository, error) {
	switch cfg.Store {
	case config.DraftStoreRedis:
		return draft.NewRedisRepository(rdb, cfg.TTL), nil
	case config.DraftStorePostgres:
		return draft.NewGormRepository(gormDB, cfg.TTL), nil
	case config.DraftStoreMemory:
		return draft.NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unknown draft store %q", cfg.Store)
	}
}

func buildModules(
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) (Modules, rbac.Service, *handlers, error) {
	// --- Repositories ---
	draftRepo, err := newDraftRepository(cfg.Draft, gormDB, rdb)
	if err != nil {
		return Modules{}, nil, nil, err
	}
	runRepo := disbursement.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	rbacRepo := rbac.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewDefaultEnforcer()
	if err != nil {
		return Modules{}, nil, nil, err
	}
	rbacService, err := rbac.NewService(rbacRepo, enforcer, logger)
	if err != nil {
		return Modules{}, nil, nil, err
	}

	// --- Services ---
	engineClient := engine.NewClient(cfg.Engine.BaseURL, cfg.Engine.Timeout, logger)
	catalogService := catalog.NewService(engineClient, rdb, time.Hour, logger)
	commandCenterService := commandcenter.NewService(engineClient, rdb, cfg.CommandCenter.CacheTTL, cfg.CommandCenter.PageSize, logger)
	draftService := draft.NewService(draftRepo, commandCenterService, catalogService, logger)
	previewService := preview.NewService(engineClient, draftService, logger)
	disbursementService := disbursement.NewService(disbursement.Dependencies{
		DB:            db,
		Runs:          runRepo,
		Outbox:        outboxRepo,
		Engine:        engineClient,
		Drafts:        draftService,
		CommandCenter: commandCenterService,
		Redirect:      gateway.NewFormInitiator(),
		Defaults: gateway.Defaults{
			FormURL:          cfg.Gateway.FormURL,
			SignedFieldNames: cfg.Gateway.SignedFieldNames,
		},
		Authorizer: rbacService,
	}, logger)
	historyService := history.NewService(engineClient, logger)

	// --- Handlers ---
	h := &handlers{
		catalog:       catalog.NewHandler(catalogService, logger),
		commandCenter: commandcenter.NewHandler(commandCenterService, logger),
		draft:         draft.NewHandler(draftService, logger),
		preview:       preview.NewHandler(previewService, logger),
		disbursement:  disbursement.NewHandler(disbursementService, logger),
		history:       history.NewHandler(historyService, logger),
		rbac:          rbac.NewHandler(rbacService),
	}

	return Modules{CommandCenter: commandCenterService, Drafts: draftService, Disbursement: disbursementService}, rbacService, h, nil
}

type handlers struct {
	catalog       *catalog.Handler
	commandCenter *commandcenter.Handler
	draft         *draft.Handler
	preview       *preview.Handler
	disbursement  *disbursement.Handler
	history       *history.Handler
	rbac          *rbac.Handler
}

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	_, rbacService, h, err := buildModules(cfg, db, gormDB, rdb, logger)
	if err != nil {
		return err
	}

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.RateLimitByIP(rate.Limit(cfg.RateLimit.PerIPPerSecond), cfg.RateLimit.PerIPBurst))
	{
		commandcenter.RegisterRoutes(api, h.commandCenter, rbacService, logger)
		catalog.RegisterRoutes(api, h.catalog, rbacService, logger)
		draft.RegisterRoutes(api, h.draft, rbacService, logger)
		preview.RegisterRoutes(api, h.preview, rbacService, cfg.RateLimit, logger)
		disbursement.RegisterRoutes(api, h.disbursement, rbacService, rdb, logger)
		history.RegisterRoutes(api, h.history, rbacService, logger)
		rbac.RegisterRoutes(api, h.rbac)
	}

	return nil
}
