package repository

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/iterator"

	"TourMex-App/internal/domain/helper"
	"TourMex-App/internal/domain/model"
	"TourMex-App/internal/domain/repository"
	fsinfra "TourMex-App/internal/infrastructure/firestore"
)

const gridCellsCollection = "grid_cells"

// FirestoreGridCellsProvider はグリッドセル単位のFirestoreドキュメントからPOIを取得するプロバイダ
// 1セル = 1ドキュメント（ID = セルキー）で、セル内のPOI配列を保持する構造を前提とする
type FirestoreGridCellsProvider struct {
	client         *fsinfra.FirestoreClient
	cellSizeMeters float64
}

func NewFirestoreGridCellsProvider(client *fsinfra.FirestoreClient, cellSizeMeters float64) repository.POIProvider {
	return &FirestoreGridCellsProvider{
		client:         client,
		cellSizeMeters: cellSizeMeters,
	}
}

// FetchByCategory は中心座標の属するセルのドキュメントを引き、カテゴリと半径で絞り込む
// ドキュメントが存在しないセルは空の結果として扱う
func (p *FirestoreGridCellsProvider) FetchByCategory(ctx context.Context, category string, center model.LatLng, radiusMeters int) ([]*model.POI, error) {
	cell := helper.CellKeyForCoordinate(center, p.cellSizeMeters)

	snap, err := p.client.GetClient().Collection(gridCellsCollection).Doc(cell.String()).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return []*model.POI{}, nil
		}
		return nil, repository.NewProviderError(category, fmt.Errorf("グリッドセル%sのドキュメント取得失敗: %w", cell, err))
	}

	var doc model.GridCellDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, repository.NewProviderError(category, fmt.Errorf("グリッドセル%sのドキュメント変換失敗: %w", cell, err))
	}

	var matched []*model.POI
	for _, poi := range doc.POIs {
		if poi != nil && poi.Category == category {
			matched = append(matched, poi)
		}
	}

	filtered := helper.FilterByRadius(matched, center, radiusMeters)
	if filtered == nil {
		filtered = []*model.POI{}
	}
	return filtered, nil
}

// ListCellKeys は登録済みの全セルキーを返す（運用時の確認用）
func (p *FirestoreGridCellsProvider) ListCellKeys(ctx context.Context) ([]string, error) {
	iter := p.client.GetClient().Collection(gridCellsCollection).Documents(ctx)
	defer iter.Stop()

	var keys []string
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("グリッドセル一覧の取得失敗: %w", err)
		}
		keys = append(keys, snap.Ref.ID)
	}
	return keys, nil
}

// isNotFound はFirestoreのNotFoundエラーかを判定する
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	status := err.Error()
	return strings.Contains(status, "NotFound") || strings.Contains(status, "not found")
}
