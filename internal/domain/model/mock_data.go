package model

// strPtr 定数文字列からポインタを作るための小さなヘルパー
func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

// SampleLocations は最初のフェッチが完了するまでマップが空にならないための組み込みシードデータ
// メキシコシティ中心部の代表的なスポット
var SampleLocations = []*POI{
	{
		ID:          "museo_frida_001",
		Name:        "Museo Frida Kahlo",
		Category:    CategoryCultural,
		Location:    (&Location{Latitude: 19.3551, Longitude: -99.1620}).ToGeometry(),
		Description: strPtr("Casa Azul, museo dedicado a la vida y obra de Frida Kahlo"),
		Address:     strPtr("Londres 247, Del Carmen, Coyoacán"),
		PhoneNumber: strPtr("+52 55 5554 5999"),
		Website:     strPtr("https://museofridakahlo.org.mx"),
		ImageName:   "museo_frida",
	},
	{
		ID:          "tacos_guero_001",
		Name:        "Tacos El Güero",
		Category:    CategoryFood,
		Location:    (&Location{Latitude: 19.4326, Longitude: -99.1332}).ToGeometry(),
		Description: strPtr("Tacos tradicionales de la Ciudad de México"),
		Address:     strPtr("Av. Insurgentes Sur 1235"),
		PhoneNumber: strPtr("+52 55 1234 5678"),
		ImageName:   "tacos_guero",
	},
	{
		ID:          "estadio_azteca_001",
		Name:        "Estadio Azteca",
		Category:    CategoryStadium,
		Location:    (&Location{Latitude: 19.3029, Longitude: -99.1506}).ToGeometry(),
		Description: strPtr("Estadio icónico, sede de dos finales de Copa Mundial"),
		Address:     strPtr("Calz. de Tlalpan 3465, Sta. Úrsula Coapa"),
		PhoneNumber: strPtr("+52 55 5617 8080"),
		Website:     strPtr("https://estadioazteca.com.mx"),
		ImageName:   "estadio_azteca",

		PromotesWomenInSports: boolPtr(true),
	},
	{
		ID:          "mercado_artesanias_001",
		Name:        "Mercado de Artesanías",
		Category:    CategorySouvenirs,
		Location:    (&Location{Latitude: 19.4270, Longitude: -99.1677}).ToGeometry(),
		Description: strPtr("Mercado tradicional con artesanías mexicanas"),
		Address:     strPtr("Londres 154, Zona Rosa"),
		ImageName:   "mercado_artesanias",
	},
	{
		ID:          "bar_faena_001",
		Name:        "Bar La Faena",
		Category:    CategoryEntertainment,
		Location:    (&Location{Latitude: 19.4285, Longitude: -99.1640}).ToGeometry(),
		Description: strPtr("Bar popular con ambiente vibrante"),
		Address:     strPtr("Calle Amberes 78, Juárez"),
		PhoneNumber: strPtr("+52 55 9876 5432"),
		ImageName:   "bar_faena",
	},
}

// DefaultCenter はシミュレーション位置が届く前の初期ビューポート中心（メキシコシティ ソカロ周辺）
var DefaultCenter = LatLng{Lat: 19.4326, Lng: -99.1332}
