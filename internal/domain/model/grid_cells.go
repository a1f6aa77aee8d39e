package model

import "fmt"

// CellKey は座標を固定の角度分解能で切り捨てて得られるグリッドセル識別子
// 同一セル内の座標は常に同じキーになる
type CellKey struct {
	LatIdx int `json:"lat_idx"`
	LonIdx int `json:"lon_idx"`
}

// String はFirestoreドキュメントIDやログに使う文字列表現を返す
func (k CellKey) String() string {
	return fmt.Sprintf("%d_%d", k.LatIdx, k.LonIdx)
}

// CacheKey は結果キャッシュの複合キー（セル × カテゴリ）
type CacheKey struct {
	Cell     CellKey
	Category string
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s-%s", k.Cell, k.Category)
}

// GridCellDocument Firestoreのグリッドセルドキュメント
// 1セル = 1ドキュメントで、そのセル内のPOI配列を保持する
type GridCellDocument struct {
	ID   string `json:"id"`   // ドキュメントID（CellKey.String()と一致）
	POIs []*POI `json:"pois"` // そのグリッド内のPOI配列
}
