package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"TourMex-App/internal/domain/model"
	"TourMex-App/internal/domain/repository"
	"TourMex-App/internal/infrastructure/database"
)

// PostgresPOIsProvider はPostGISの地理検索を使ったPOIプロバイダの実装
type PostgresPOIsProvider struct {
	client *database.PostgreSQLClient
}

func NewPostgresPOIsProvider(client *database.PostgreSQLClient) repository.POIProvider {
	return &PostgresPOIsProvider{
		client: client,
	}
}

// poiResult PostGIS関数の結果を受け取るための構造体
type poiResult struct {
	ID          string
	Name        string
	Category    string
	Location    string
	Description sql.NullString
	Address     sql.NullString
	PhoneNumber sql.NullString
	Website     sql.NullString
}

// toPOI poiResultをmodel.POIに変換
func (r *poiResult) toPOI() (*model.POI, error) {
	var location model.Geometry
	if err := json.Unmarshal([]byte(r.Location), &location); err != nil {
		return nil, fmt.Errorf("location JSONBパースエラー: %w", err)
	}

	poi := &model.POI{
		ID:       r.ID,
		Name:     r.Name,
		Category: r.Category,
		Location: &location,
	}

	if r.Description.Valid {
		poi.Description = &r.Description.String
	}
	if r.Address.Valid {
		poi.Address = &r.Address.String
	}
	if r.PhoneNumber.Valid {
		poi.PhoneNumber = &r.PhoneNumber.String
	}
	if r.Website.Valid {
		poi.Website = &r.Website.String
	}

	return poi, nil
}

// FetchByCategory はST_DWithinで半径内のカテゴリ一致POIを検索する
func (p *PostgresPOIsProvider) FetchByCategory(ctx context.Context, category string, center model.LatLng, radiusMeters int) ([]*model.POI, error) {
	query := `
		SELECT
			p.id, p.name, p.category,
			ST_AsGeoJSON(p.location)::jsonb as location,
			p.description, p.address, p.phone_number, p.website
		FROM pois p
		WHERE ST_DWithin(
			ST_GeogFromText('POINT(' || $2 || ' ' || $1 || ')'),
			p.location::geography,
			$3
		)
		AND p.category = $4
		ORDER BY ST_Distance(
			ST_GeogFromText('POINT(' || $2 || ' ' || $1 || ')'),
			p.location::geography
		)
		LIMIT 100
	`

	rows, err := p.client.DB.QueryContext(ctx, query, center.Lat, center.Lng, radiusMeters, category)
	if err != nil {
		return nil, repository.NewProviderError(category, fmt.Errorf("カテゴリ別POI検索失敗: %w", err))
	}
	defer rows.Close()

	var pois []*model.POI
	for rows.Next() {
		var result poiResult
		err := rows.Scan(&result.ID, &result.Name, &result.Category, &result.Location,
			&result.Description, &result.Address, &result.PhoneNumber, &result.Website)
		if err != nil {
			return nil, repository.NewProviderError(category, fmt.Errorf("POIデータスキャンエラー: %w", err))
		}

		poi, err := result.toPOI()
		if err != nil {
			return nil, repository.NewProviderError(category, err)
		}
		pois = append(pois, poi)
	}

	if err := rows.Err(); err != nil {
		return nil, repository.NewProviderError(category, fmt.Errorf("行イテレーション中のエラー: %w", err))
	}

	if pois == nil {
		pois = []*model.POI{}
	}
	return pois, nil
}
