package denue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"TourMex-App/internal/domain/model"
	"TourMex-App/internal/domain/repository"
)

const defaultBaseURL = "https://www.inegi.org.mx/app/api/denue/v1/consulta"

// categorySearchTerms はアプリのカテゴリをDENUE（INEGI事業所ディレクトリ）の検索語に対応付ける
var categorySearchTerms = map[string]string{
	model.CategoryFood:          "restaurantes",
	model.CategoryCultural:      "museos",
	model.CategorySouvenirs:     "artesanias",
	model.CategoryEntertainment: "bares",
	model.CategoryStadium:       "estadios",
	model.CategoryShop:          "comercio al por menor",
	model.CategoryOthers:        "servicios",
}

// Client はINEGIのDENUE APIを使用したPOIプロバイダの実装
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient は新しいDENUEクライアントを作成する
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL はテスト用にエンドポイントを差し替えられるコンストラクタ
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// denueBusiness はDENUE APIのレスポンス項目
// 緯度経度も文字列で返ってくる点に注意
type denueBusiness struct {
	ID            string `json:"Id"`
	Nombre        string `json:"Nombre"`
	Razon         string `json:"Razon_social"`
	ClaseActivdad string `json:"Clase_actividad"`
	Calle         string `json:"Calle"`
	Colonia       string `json:"Colonia"`
	Telefono      string `json:"Telefono"`
	SitioInternet string `json:"Sitio_internet"`
	Latitud       string `json:"Latitud"`
	Longitud      string `json:"Longitud"`
}

// FetchByCategory はDENUEのBuscarエンドポイントでカテゴリ別の事業所を検索する
// 該当なし（404）は失敗ではなく空の結果として扱う
func (c *Client) FetchByCategory(ctx context.Context, category string, center model.LatLng, radiusMeters int) ([]*model.POI, error) {
	term, ok := categorySearchTerms[category]
	if !ok {
		return nil, repository.NewProviderError(category, fmt.Errorf("未知のカテゴリ: %s", category))
	}

	// Buscar/{検索語}/{緯度,経度}/{半径m}/{トークン}
	reqURL := fmt.Sprintf("%s/Buscar/%s/%.6f,%.6f/%d/%s",
		c.baseURL, url.PathEscape(term), center.Lat, center.Lng, radiusMeters, c.token)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, repository.NewProviderError(category, fmt.Errorf("リクエストの作成に失敗: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, repository.NewProviderError(category, fmt.Errorf("APIリクエストに失敗: %w", err))
	}
	defer resp.Body.Close()

	// DENUEは該当事業所がない場合404を返す
	if resp.StatusCode == http.StatusNotFound {
		return []*model.POI{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, repository.NewProviderError(category, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status))
	}

	var businesses []denueBusiness
	if err := json.NewDecoder(resp.Body).Decode(&businesses); err != nil {
		return nil, repository.NewProviderError(category, fmt.Errorf("JSONのパースに失敗: %w", err))
	}

	return c.toPOIs(category, businesses), nil
}

// toPOIs はDENUEレスポンスをドメインモデルに変換する
// 座標をパースできない項目はスキップする
func (c *Client) toPOIs(category string, businesses []denueBusiness) []*model.POI {
	pois := make([]*model.POI, 0, len(businesses))
	for _, b := range businesses {
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(b.Latitud), 64)
		lng, errLng := strconv.ParseFloat(strings.TrimSpace(b.Longitud), 64)
		if errLat != nil || errLng != nil || b.ID == "" {
			continue
		}

		poi := model.NewPOI(b.ID, b.Nombre, category, lat, lng)
		if b.ClaseActivdad != "" {
			desc := b.ClaseActivdad
			poi.Description = &desc
		}
		if b.Calle != "" {
			addr := b.Calle
			if b.Colonia != "" {
				addr = addr + ", " + b.Colonia
			}
			poi.Address = &addr
		}
		if b.Telefono != "" {
			tel := b.Telefono
			poi.PhoneNumber = &tel
		}
		poi.SetWebsite(b.SitioInternet)

		pois = append(pois, poi)
	}
	return pois
}
