package usecase

import (
	"fmt"

	"TourMex-App/internal/domain/model"
	"TourMex-App/internal/domain/service"
)

// MapStatus はマップエンジンの現在の状態
type MapStatus struct {
	Loading          bool         `json:"loading"`
	VisibleCount     int          `json:"visible_count"`
	FetchedCellCount int          `json:"fetched_cell_count"`
	CachedPairCount  int          `json:"cached_pair_count"`
	ActiveCategories []string     `json:"active_categories"`
	Center           model.LatLng `json:"center"`
	Advisory         string       `json:"advisory,omitempty"`
}

// MapUseCase はマップパイプラインをHTTP層へ公開するアプリケーション層
type MapUseCase interface {
	// GetVisibleLocations は可視出力（蓄積POI ∩ アクティブフィルタ）を返す
	GetVisibleLocations() []*model.POI

	// GetStatus はローディング状態や件数などのステータスを返す
	GetStatus() *MapStatus

	// UpdateViewport はビューポート変更シグナルを通知する
	UpdateViewport(center model.LatLng) error

	// ChangeLocation はシミュレーション位置の変更シグナルを通知する
	ChangeLocation(center model.LatLng) error

	// ToggleFilter はカテゴリフィルタを切り替える
	ToggleFilter(category string) error

	// SetFilters はアクティブなカテゴリ集合を置き換える
	SetFilters(categories []string) error

	// GetFilters は現在アクティブなカテゴリを返す
	GetFilters() []string
}

// mapUseCaseImpl はMapUseCaseの実装
type mapUseCaseImpl struct {
	pipeline *service.MapPipeline
}

// NewMapUseCase は新しいMapUseCaseインスタンスを作成
func NewMapUseCase(pipeline *service.MapPipeline) MapUseCase {
	return &mapUseCaseImpl{
		pipeline: pipeline,
	}
}

func (u *mapUseCaseImpl) GetVisibleLocations() []*model.POI {
	return u.pipeline.VisibleOutput()
}

func (u *mapUseCaseImpl) GetStatus() *MapStatus {
	return &MapStatus{
		Loading:          u.pipeline.Loading(),
		VisibleCount:     len(u.pipeline.VisibleOutput()),
		FetchedCellCount: u.pipeline.FetchedCellCount(),
		CachedPairCount:  u.pipeline.CachedPairCount(),
		ActiveCategories: u.pipeline.ActiveCategories(),
		Center:           u.pipeline.Center(),
		Advisory:         u.pipeline.LastAdvisory(),
	}
}

func (u *mapUseCaseImpl) UpdateViewport(center model.LatLng) error {
	if err := validateLatLng(center); err != nil {
		return err
	}
	u.pipeline.UpdateViewport(center)
	return nil
}

func (u *mapUseCaseImpl) ChangeLocation(center model.LatLng) error {
	if err := validateLatLng(center); err != nil {
		return err
	}
	u.pipeline.ChangeLocation(center)
	return nil
}

func (u *mapUseCaseImpl) ToggleFilter(category string) error {
	if !model.IsValidCategory(category) {
		return fmt.Errorf("未知のカテゴリ: %s", category)
	}
	u.pipeline.ToggleFilter(category)
	return nil
}

func (u *mapUseCaseImpl) SetFilters(categories []string) error {
	for _, category := range categories {
		if !model.IsValidCategory(category) {
			return fmt.Errorf("未知のカテゴリ: %s", category)
		}
	}
	u.pipeline.SetFilters(categories)
	return nil
}

func (u *mapUseCaseImpl) GetFilters() []string {
	return u.pipeline.ActiveCategories()
}

func validateLatLng(center model.LatLng) error {
	if center.Lat < -90 || center.Lat > 90 {
		return fmt.Errorf("緯度が範囲外です: %f", center.Lat)
	}
	if center.Lng < -180 || center.Lng > 180 {
		return fmt.Errorf("経度が範囲外です: %f", center.Lng)
	}
	return nil
}
