package model

// LatLng 緯度経度を表す基本的な型（グリッド計算や周辺検索で使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// POI Point of Interest（マップに表示するスポット）を表すモデル
// プロバイダから取得した後はセッション内で不変として扱う
type POI struct {
	ID          string    `json:"id" db:"id"`                               // プロバイダが割り当てる安定したスポットID
	Name        string    `json:"name" db:"name"`                           // スポット名
	Category    string    `json:"category" db:"category"`                   // カテゴリ（固定の列挙から1つ）
	Location    *Geometry `json:"location" db:"location"`                   // 位置情報（PostGIS GEOMETRY型）
	Description *string   `json:"description,omitempty" db:"description"`   // 説明（NULLABLE）
	Address     *string   `json:"address,omitempty" db:"address"`           // 住所（NULLABLE）
	PhoneNumber *string   `json:"phone_number,omitempty" db:"phone_number"` // 電話番号（NULLABLE）
	Website     *string   `json:"website,omitempty" db:"website"`           // WebサイトURL（NULLABLE）
	ImageName   string    `json:"image_name,omitempty" db:"image_name"`     // 表示用画像名

	// 女子スポーツ振興に取り組むスポットかどうか（NULLABLE、大会関連メタデータ）
	PromotesWomenInSports *bool `json:"promotes_women_in_sports,omitempty" db:"promotes_women_in_sports"`
}

// ToLatLng POIの位置情報をLatLng型に変換
func (p *POI) ToLatLng() LatLng {
	if p.Location != nil && len(p.Location.Coordinates) >= 2 {
		return LatLng{
			Lat: p.Location.Coordinates[1], // latitude
			Lng: p.Location.Coordinates[0], // longitude
		}
	}
	return LatLng{}
}

// GetWebsite Webサイトが存在する場合は値を、存在しない場合は空文字列を返す
func (p *POI) GetWebsite() string {
	if p.Website != nil {
		return *p.Website
	}
	return ""
}

// SetWebsite WebサイトURLを設定する（空文字列の場合はnilのまま保持）
func (p *POI) SetWebsite(url string) {
	if url != "" {
		p.Website = &url
	}
}

// HasWebsite WebサイトURLが設定されているかチェック
func (p *POI) HasWebsite() bool {
	return p.Website != nil && *p.Website != ""
}

// IsWomenInSportsPromoter 女子スポーツ振興スポットとして登録されているかチェック
func (p *POI) IsWomenInSportsPromoter() bool {
	return p.PromotesWomenInSports != nil && *p.PromotesWomenInSports
}

// Geometry PostGIS GEOMETRY型に対応する構造体
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

type Location struct {
	Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

// ToGeometry Location を PostGIS GEOMETRY 型に変換
func (l *Location) ToGeometry() *Geometry {
	return &Geometry{
		Type:        "Point",
		Coordinates: []float64{l.Longitude, l.Latitude},
	}
}

// FromGeometry PostGIS GEOMETRY 型から Location に変換
func (l *Location) FromGeometry(g *Geometry) {
	if g != nil && len(g.Coordinates) >= 2 {
		l.Longitude = g.Coordinates[0]
		l.Latitude = g.Coordinates[1]
	}
}

// ToLatLng Location を LatLng 型に変換
func (l *Location) ToLatLng() LatLng {
	return LatLng{Lat: l.Latitude, Lng: l.Longitude}
}

// NewPOI 緯度経度から位置情報付きのPOIを作成する便利コンストラクタ
func NewPOI(id, name, category string, lat, lng float64) *POI {
	loc := Location{Latitude: lat, Longitude: lng}
	return &POI{
		ID:       id,
		Name:     name,
		Category: category,
		Location: loc.ToGeometry(),
	}
}
