package helper

import (
	"math"

	"TourMex-App/internal/domain/model"
)

// metersPerDegree は緯度1度あたりの地表距離の近似値 (m)
// セルサイズ（地表距離）と角度分解能の変換に使用する
const metersPerDegree = 111320.0

// AngularDeltaForCellSize はセルの地表サイズ (m) を角度分解能 (度) に変換する
func AngularDeltaForCellSize(cellSizeMeters float64) float64 {
	return cellSizeMeters / metersPerDegree
}

// CellKeyForCoordinate は座標をグリッドセルキーに写像する純粋関数
// 同一セル内の座標は常に同じキーになり、セル境界をまたぐと異なるキーになる
// Int変換ではなくmath.Floorを使うことで、0度線付近でもセルが重ならない
func CellKeyForCoordinate(coord model.LatLng, cellSizeMeters float64) model.CellKey {
	delta := AngularDeltaForCellSize(cellSizeMeters)
	return model.CellKey{
		LatIdx: int(math.Floor(coord.Lat / delta)),
		LonIdx: int(math.Floor(coord.Lng / delta)),
	}
}

// CellCenter はセルキーからセル中心の座標を復元する
// Firestoreプロバイダがセルキー単位でドキュメントを引く際に使用する
func CellCenter(key model.CellKey, cellSizeMeters float64) model.LatLng {
	delta := AngularDeltaForCellSize(cellSizeMeters)
	return model.LatLng{
		Lat: (float64(key.LatIdx) + 0.5) * delta,
		Lng: (float64(key.LonIdx) + 0.5) * delta,
	}
}
