package repository

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TourMex-App/internal/domain/helper"
	"TourMex-App/internal/domain/model"
	"TourMex-App/internal/infrastructure/database"
	fsinfra "TourMex-App/internal/infrastructure/firestore"
)

// ライブバックエンドが必要な統合テスト
// 対応する環境変数が設定されていない場合はスキップする

var integrationCenter = model.LatLng{Lat: 19.4326, Lng: -99.1332}

func TestPostgresPOIsProvider_FetchByCategory(t *testing.T) {
	godotenv.Load("../../.env")
	if os.Getenv("DATABASE_URL") == "" && os.Getenv("SUPABASE_URL") == "" {
		t.Skip("DATABASE_URLが設定されていないためスキップ")
	}

	client, err := database.NewPostgreSQLClient()
	require.NoError(t, err)
	defer client.Close()

	provider := NewPostgresPOIsProvider(client)
	pois, err := provider.FetchByCategory(context.Background(), model.CategoryFood, integrationCenter, 2500)

	require.NoError(t, err)
	assert.NotNil(t, pois, "該当なしでもnilではなく空スライスを返す")
	for _, poi := range pois {
		assert.Equal(t, model.CategoryFood, poi.Category)
		assert.LessOrEqual(t, helper.HaversineDistanceMeters(integrationCenter, poi.ToLatLng()), 2500.0)
	}
}

func TestSupabasePOIsProvider_FetchByCategory(t *testing.T) {
	godotenv.Load("../../.env")
	if os.Getenv("SUPABASE_URL") == "" || os.Getenv("SUPABASE_ANON_KEY") == "" {
		t.Skip("SUPABASE_URL/SUPABASE_ANON_KEYが設定されていないためスキップ")
	}

	client, err := database.NewSupabaseClient()
	require.NoError(t, err)

	provider := NewSupabasePOIsProvider(client)
	pois, err := provider.FetchByCategory(context.Background(), model.CategoryCultural, integrationCenter, 2500)

	require.NoError(t, err)
	assert.NotNil(t, pois)
	for _, poi := range pois {
		assert.Equal(t, model.CategoryCultural, poi.Category)
	}
}

func TestFirestoreGridCellsProvider_FetchByCategory(t *testing.T) {
	godotenv.Load("../../.env")
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_IDが設定されていないためスキップ")
	}

	ctx := context.Background()
	client, err := fsinfra.NewFirestoreClient(ctx, projectID)
	require.NoError(t, err)
	defer client.Close()

	provider := NewFirestoreGridCellsProvider(client, 2500).(*FirestoreGridCellsProvider)

	keys, err := provider.ListCellKeys(ctx)
	require.NoError(t, err)
	t.Logf("登録済みグリッドセル数: %d", len(keys))

	pois, err := provider.FetchByCategory(ctx, model.CategoryFood, integrationCenter, 2500)
	require.NoError(t, err)
	assert.NotNil(t, pois, "ドキュメントが存在しないセルは空の結果になる")
}
