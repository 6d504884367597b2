package main

import (
	"context"
	"log"
	"os"
	"strings"

	"backoffice/internal/access"
	"backoffice/internal/adesk"
	"backoffice/internal/bitrix"
	"backoffice/internal/database"
	"backoffice/internal/handler"
	"backoffice/internal/middleware"
	"backoffice/internal/records"
	"backoffice/internal/schema"
	"backoffice/internal/service"
	"backoffice/internal/sync"
	"backoffice/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewConnection(buildDSN())
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	if err := database.Seed(db); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("connected to postgres")

	// External clients are optional; unset env leaves them nil and the sync
	// endpoints report "not configured".
	var crmClient bitrix.Client
	if url := os.Getenv("BITRIX_WEBHOOK_URL"); url != "" {
		crmClient = bitrix.New(url)
	}
	var adeskClient adesk.Client
	if token := os.Getenv("ADESK_API_TOKEN"); token != "" {
		adeskClient = adesk.New(envOr("ADESK_API_URL", "https://api.adesk.ru"), token)
	}

	wsHub := ws.NewHub(logger)
	go wsHub.Run()

	store := records.NewStore(db, schema.Default(), logger)
	gate := access.NewGate(db, logger)
	auditService := service.NewAuditService(db, logger)
	store.SetChangeHook(func(ctx context.Context, ch records.Change) {
		auditService.RecordChange(ctx, ch)
		wsHub.NotifyChange(ch)
	})

	settingsService := service.NewSettingsService(db, store)
	authService := service.NewAuthService(db, gate, auditService)
	roleService := service.NewRoleService(db, gate)
	userService := service.NewUserService(db)
	contractService := service.NewContractService(store, settingsService)
	stageService := service.NewStageService(store, settingsService)
	brigadeService := service.NewBrigadeService(store, settingsService)
	planFactService := service.NewPlanFactService(db, store)
	salesService := service.NewSalesService(db, store, settingsService, crmClient, logger)
	dashboardService := service.NewDashboardService(db)
	adeskService := service.NewAdeskService(store)
	syncService := sync.NewService(db, store, salesService, adeskClient, logger)

	if spec := os.Getenv("SYNC_CRON"); spec != "" {
		if _, err := syncService.Schedule(spec); err != nil {
			logger.Fatal("cron schedule failed", zap.String("spec", spec), zap.Error(err))
		}
		logger.Info("sync schedule registered", zap.String("spec", spec))
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	origins := envOr("CORS_ORIGINS", "http://localhost:5173")
	corsConfig.AllowOrigins = strings.Split(origins, ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})
	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	api := router.Group("/api")
	handler.NewAuthHandler(authService).RegisterRoutes(api)
	handler.NewAccessHandler(gate, roleService, userService).RegisterRoutes(api)
	handler.NewContractHandler(gate, contractService).RegisterRoutes(api)
	handler.NewStageHandler(gate, stageService).RegisterRoutes(api)
	handler.NewBrigadeHandler(gate, brigadeService).RegisterRoutes(api)
	handler.NewSettingsHandler(gate, settingsService).RegisterRoutes(api)
	handler.NewPlanFactHandler(gate, planFactService).RegisterRoutes(api)
	handler.NewSalesHandler(gate, salesService).RegisterRoutes(api)
	handler.NewDashboardHandler(gate, dashboardService).RegisterRoutes(api)
	handler.NewAdeskHandler(gate, adeskService).RegisterRoutes(api)
	handler.NewSyncHandler(gate, syncService).RegisterRoutes(api)
	handler.NewAuditHandler(gate, auditService).RegisterRoutes(api)

	port := envOr("PORT", "8080")
	logger.Info("server listening", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger() (*zap.Logger, error) {
	if gin.Mode() == gin.ReleaseMode {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func buildDSN() string {
	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := envOr("DB_USER", "postgres")
	password := envOr("DB_PASSWORD", "postgres")
	name := envOr("DB_NAME", "backoffice")
	sslMode := envOr("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + password + "@" + host + ":" + port + "/" + name + "?sslmode=" + sslMode
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
