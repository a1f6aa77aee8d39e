package repository

import (
	"github.com/paulmach/orb"

	"TourMex-App/internal/domain/helper"
	"TourMex-App/internal/domain/model"
)

// GeoPoint PostGIS POINT 型の JSON 表現
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// LatLngToGeoPoint model.LatLng を PostGIS POINT 形式に変換
func LatLngToGeoPoint(latLng model.LatLng) *GeoPoint {
	// orb.Point は [lng, lat] 順
	point := orb.Point{latLng.Lng, latLng.Lat}

	return &GeoPoint{
		Type:        "Point",
		Coordinates: []float64{point.Lon(), point.Lat()},
	}
}

// GeoPointToLatLng PostGIS POINT を model.LatLng に変換
func GeoPointToLatLng(geoPoint *GeoPoint) model.LatLng {
	if geoPoint == nil || len(geoPoint.Coordinates) < 2 {
		return model.LatLng{}
	}

	point := orb.Point{geoPoint.Coordinates[0], geoPoint.Coordinates[1]}
	return model.LatLng{Lat: point.Lat(), Lng: point.Lon()}
}

// SearchBound 中心と半径からプレフィルタ用の境界ボックスを作成
// PostGISを使えないバックエンド（PostgRESTなど）で矩形絞り込みに使用する
func SearchBound(center model.LatLng, radiusMeters int) orb.Bound {
	delta := helper.AngularDeltaForCellSize(float64(radiusMeters))
	centerPoint := orb.Point{center.Lng, center.Lat}

	bound := orb.Bound{
		Min: orb.Point{centerPoint.Lon() - delta, centerPoint.Lat() - delta},
		Max: orb.Point{centerPoint.Lon() + delta, centerPoint.Lat() + delta},
	}
	return bound.Extend(centerPoint)
}
