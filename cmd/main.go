package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"TourMex-App/internal/domain/repository"
	"TourMex-App/internal/domain/service"
	"TourMex-App/internal/handler"
	"TourMex-App/internal/infrastructure/database"
	"TourMex-App/internal/infrastructure/denue"
	fsinfra "TourMex-App/internal/infrastructure/firestore"
	repoimpl "TourMex-App/internal/repository"
	"TourMex-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	ctx := context.Background()

	cfg := loadPipelineConfig()
	provider, cleanup, err := buildProvider(ctx, cfg.CellSizeMeters)
	if err != nil {
		log.Fatalf("POIプロバイダ初期化失敗: %v", err)
	}
	defer cleanup()

	pipeline := service.NewMapPipeline(provider, cfg)
	pipeline.Start(ctx)
	defer pipeline.Close()

	mapUseCase := usecase.NewMapUseCase(pipeline)
	mapHandler := handler.NewMapHandler(mapUseCase)

	r := gin.Default()
	mapHandler.RegisterRoutes(r)
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "TourMex-App"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("TourMex-App map server starting on :%s...\n", port)
	log.Fatal(r.Run(":" + port))
}

// loadPipelineConfig は環境変数からパイプライン設定を読み込む（未設定ならデフォルト値）
func loadPipelineConfig() service.PipelineConfig {
	cfg := service.DefaultPipelineConfig()

	if v := os.Getenv("GRID_CELL_SIZE_METERS"); v != "" {
		if size, err := strconv.ParseFloat(v, 64); err == nil && size > 0 {
			cfg.CellSizeMeters = size
		}
	}
	if v := os.Getenv("VIEWPORT_DEBOUNCE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			cfg.ViewportDebounce = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("LOCATION_DEBOUNCE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			cfg.LocationDebounce = time.Duration(ms) * time.Millisecond
		}
	}

	return cfg
}

// buildProvider はPOI_PROVIDER環境変数に応じたPOIプロバイダを組み立てる
// denue（デフォルト） | postgres | supabase | firestore
func buildProvider(ctx context.Context, cellSizeMeters float64) (repository.POIProvider, func(), error) {
	noop := func() {}

	switch os.Getenv("POI_PROVIDER") {
	case "", "denue":
		token := os.Getenv("DENUE_API_TOKEN")
		if token == "" {
			return nil, noop, fmt.Errorf("DENUE_API_TOKEN環境変数が設定されていません")
		}
		fmt.Println("✅ DENUEプロバイダを使用")
		return denue.NewClient(token), noop, nil

	case "postgres":
		client, err := database.NewPostgreSQLClientWithRetry(5, 2*time.Second)
		if err != nil {
			return nil, noop, err
		}
		if err := client.HealthCheck(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("PostgreSQLヘルスチェック失敗: %w", err)
		}
		fmt.Println("✅ PostgreSQL/PostGISプロバイダを使用")
		return repoimpl.NewPostgresPOIsProvider(client), func() { client.Close() }, nil

	case "supabase":
		client, err := database.NewSupabaseClient()
		if err != nil {
			return nil, noop, err
		}
		if err := client.HealthCheck(); err != nil {
			return nil, noop, fmt.Errorf("Supabaseヘルスチェック失敗: %w", err)
		}
		fmt.Println("✅ Supabaseプロバイダを使用")
		return repoimpl.NewSupabasePOIsProvider(client), noop, nil

	case "firestore":
		projectID := os.Getenv("FIRESTORE_PROJECT_ID")
		if projectID == "" {
			return nil, noop, fmt.Errorf("FIRESTORE_PROJECT_ID環境変数が設定されていません")
		}
		client, err := fsinfra.NewFirestoreClient(ctx, projectID)
		if err != nil {
			return nil, noop, err
		}
		fmt.Println("✅ Firestoreプロバイダを使用")
		return repoimpl.NewFirestoreGridCellsProvider(client, cellSizeMeters), func() { client.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("未知のPOI_PROVIDER: %s", os.Getenv("POI_PROVIDER"))
	}
}
