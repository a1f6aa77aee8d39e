package repository

import (
	"context"
	"fmt"

	"TourMex-App/internal/domain/model"
)

// POIProvider は外部データソースからカテゴリ別にPOIを取得する狭い契約
// リトライ・バックオフはプロバイダ側の責務で、エンジンは関知しない
// 該当スポットが存在しない場合はエラーではなく空スライスを返すこと
type POIProvider interface {
	FetchByCategory(ctx context.Context, category string, center model.LatLng, radiusMeters int) ([]*model.POI, error)
}

// ProviderError はプロバイダのネットワーク/パース失敗を表すエラー
// 1カテゴリ分のフェッチだけが失敗したことを示し、致命的ではない
type ProviderError struct {
	Category string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("カテゴリ %s のPOI取得に失敗: %v", e.Category, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError は新しいProviderErrorを作成する
func NewProviderError(category string, err error) *ProviderError {
	return &ProviderError{Category: category, Err: err}
}
