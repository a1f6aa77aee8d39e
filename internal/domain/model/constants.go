package model

// CategoryConstants はマップ機能で使用するPOIカテゴリの定数
// DENUEなどのプロバイダから取得するスポットは必ずこのいずれかに分類される
const (
	CategoryFood          = "food"
	CategoryCultural      = "cultural"
	CategorySouvenirs     = "souvenirs"
	CategoryEntertainment = "entertainment"
	CategoryStadium       = "stadium"
	CategoryShop          = "shop"
	CategoryOthers        = "others"
)

// CategoryNameMap はカテゴリIDから表示名（スペイン語）へのマッピング
var CategoryNameMap = map[string]string{
	CategoryFood:          "Comida",
	CategoryCultural:      "Cultura",
	CategorySouvenirs:     "Artesanías",
	CategoryEntertainment: "Entretenimiento",
	CategoryStadium:       "Estadios",
	CategoryShop:          "Tiendas",
	CategoryOthers:        "Otros",
}

// GetCategoryDisplayName はカテゴリIDから表示名を取得する
func GetCategoryDisplayName(category string) string {
	if name, ok := CategoryNameMap[category]; ok {
		return name
	}
	return category // デフォルトはそのまま返す
}

// GetAllCategories は全カテゴリの一覧を取得する
func GetAllCategories() []string {
	return []string{
		CategoryFood,
		CategoryCultural,
		CategorySouvenirs,
		CategoryEntertainment,
		CategoryStadium,
		CategoryShop,
		CategoryOthers,
	}
}

// IsValidCategory はカテゴリIDが固定の列挙に含まれるかチェック
func IsValidCategory(category string) bool {
	_, ok := CategoryNameMap[category]
	return ok
}
