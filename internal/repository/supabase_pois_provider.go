package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"TourMex-App/internal/domain/helper"
	"TourMex-App/internal/domain/model"
	"TourMex-App/internal/domain/repository"
	"TourMex-App/internal/infrastructure/database"
)

// SupabasePOIsProvider はPostgREST経由でPOIを検索するプロバイダの実装
// PostGIS関数を直接呼べないため、境界ボックスで粗く絞ってから
// ハバーサイン距離でクライアント側の半径絞り込みを行う
type SupabasePOIsProvider struct {
	client *database.SupabaseClient
}

func NewSupabasePOIsProvider(client *database.SupabaseClient) repository.POIProvider {
	return &SupabasePOIsProvider{
		client: client,
	}
}

// FetchByCategory はカテゴリ一致のPOIを取得して半径で絞り込む
func (p *SupabasePOIsProvider) FetchByCategory(ctx context.Context, category string, center model.LatLng, radiusMeters int) ([]*model.POI, error) {
	data, _, err := p.client.GetClient().From("pois").
		Select("*", "exact", false).
		Eq("category", category).
		Execute()
	if err != nil {
		return nil, repository.NewProviderError(category, fmt.Errorf("POIデータの取得失敗: %w", err))
	}

	var pois []*model.POI
	if err := json.Unmarshal(data, &pois); err != nil {
		return nil, repository.NewProviderError(category, fmt.Errorf("POIデータのJSONアンマーシャル失敗: %w", err))
	}

	// 境界ボックスで粗く絞り込んでからハバーサイン距離で確定する
	bound := SearchBound(center, radiusMeters)
	var inBound []*model.POI
	for _, poi := range pois {
		latLng := poi.ToLatLng()
		if latLng.Lng >= bound.Min.Lon() && latLng.Lng <= bound.Max.Lon() &&
			latLng.Lat >= bound.Min.Lat() && latLng.Lat <= bound.Max.Lat() {
			inBound = append(inBound, poi)
		}
	}

	filtered := helper.FilterByRadius(inBound, center, radiusMeters)
	if filtered == nil {
		filtered = []*model.POI{}
	}
	return filtered, nil
}
