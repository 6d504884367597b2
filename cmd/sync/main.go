// Command sync runs the external sync jobs from the command line:
//
//	sync -job bitrix -year 2025 -month 6
//	sync -job adesk
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"backoffice/internal/adesk"
	"backoffice/internal/bitrix"
	"backoffice/internal/database"
	"backoffice/internal/records"
	"backoffice/internal/schema"
	"backoffice/internal/service"
	"backoffice/internal/sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	job := flag.String("job", "bitrix", "which sync to run: bitrix or adesk")
	year := flag.Int("year", time.Now().Year(), "year to sync (bitrix)")
	month := flag.Int("month", int(time.Now().Month()), "month to sync (bitrix)")
	flag.Parse()

	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewConnection(buildDSN())
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	var crmClient bitrix.Client
	if url := os.Getenv("BITRIX_WEBHOOK_URL"); url != "" {
		crmClient = bitrix.New(url)
	}
	var adeskClient adesk.Client
	if token := os.Getenv("ADESK_API_TOKEN"); token != "" {
		adeskClient = adesk.New(envOr("ADESK_API_URL", "https://api.adesk.ru"), token)
	}

	store := records.NewStore(db, schema.Default(), logger)
	settingsService := service.NewSettingsService(db, store)
	salesService := service.NewSalesService(db, store, settingsService, crmClient, logger)
	syncService := sync.NewService(db, store, salesService, adeskClient, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var result *sync.Result
	switch *job {
	case "bitrix":
		result, err = syncService.RunBitrix(ctx, *year, *month)
	case "adesk":
		result, err = syncService.RunAdesk(ctx)
	default:
		logger.Fatal("unknown job", zap.String("job", *job))
	}
	if err != nil {
		logger.Fatal("sync failed", zap.String("job", *job), zap.Error(err))
	}

	fmt.Printf("%s sync finished: %d processed, %d errors\n", *job, result.Processed, len(result.Errors))
	for _, e := range result.Errors {
		fmt.Printf("  - %s\n", e)
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
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
