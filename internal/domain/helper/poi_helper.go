package helper

import (
	"math"

	"TourMex-App/internal/domain/model"
)

const earthRadiusKm = 6371.0

// HaversineDistance は2地点間の距離を計算する (km)
func HaversineDistance(p1, p2 model.LatLng) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lng1 := p1.Lng * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	lng2 := p2.Lng * math.Pi / 180
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// HaversineDistanceMeters は2地点間の距離を計算する (m)
func HaversineDistanceMeters(p1, p2 model.LatLng) float64 {
	return HaversineDistance(p1, p2) * 1000.0
}

// FilterByActiveCategories は有効なカテゴリのPOIのみを抽出する
// 可視出力の再投影に使用する（順序は入力を保持）
func FilterByActiveCategories(pois []*model.POI, active map[string]bool) []*model.POI {
	filtered := make([]*model.POI, 0, len(pois))
	for _, p := range pois {
		if p != nil && active[p.Category] {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// FilterByRadius は中心から指定距離以内のPOIのみを抽出する
// クライアント側で半径を絞り込むプロバイダ実装で使用する
func FilterByRadius(pois []*model.POI, center model.LatLng, radiusMeters int) []*model.POI {
	var filtered []*model.POI
	for _, p := range pois {
		if p == nil {
			continue
		}
		if HaversineDistanceMeters(center, p.ToLatLng()) <= float64(radiusMeters) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
