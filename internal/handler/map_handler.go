package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"TourMex-App/internal/domain/model"
	"TourMex-App/internal/usecase"
)

// MapHandler マップ機能に関するHTTPハンドラー
// モバイルクライアントのマップサーフェスが消費するエンドポイント群
type MapHandler struct {
	mapUseCase usecase.MapUseCase
}

// NewMapHandler MapHandlerの新しいインスタンスを作成
func NewMapHandler(mapUseCase usecase.MapUseCase) *MapHandler {
	return &MapHandler{
		mapUseCase: mapUseCase,
	}
}

// RegisterRoutes はマップ関連のルートを登録する
func (h *MapHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/map")
	{
		api.GET("/locations", h.GetLocations)
		api.GET("/status", h.GetStatus)
		api.POST("/viewport", h.UpdateViewport)
		api.POST("/location", h.ChangeLocation)
		api.GET("/filters", h.GetFilters)
		api.PUT("/filters", h.SetFilters)
		api.POST("/filters/:category/toggle", h.ToggleFilter)
	}
}

// coordinateRequest ビューポート・位置変更リクエストのボディ
// 赤道・本初子午線上の座標0はバリデーション上有効なので、
// 欠落との区別のためポインタで受ける
type coordinateRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// GetLocations GET /api/map/locations - 現在の可視出力を取得
func (h *MapHandler) GetLocations(c *gin.Context) {
	locations := h.mapUseCase.GetVisibleLocations()
	c.JSON(http.StatusOK, gin.H{
		"locations": locations,
		"count":     len(locations),
	})
}

// GetStatus GET /api/map/status - エンジンのステータスを取得
func (h *MapHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.mapUseCase.GetStatus())
}

// UpdateViewport POST /api/map/viewport - ビューポート変更シグナル
func (h *MapHandler) UpdateViewport(c *gin.Context) {
	var req coordinateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	if err := h.mapUseCase.UpdateViewport(model.LatLng{Lat: *req.Lat, Lng: *req.Lng}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_coordinate",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// ChangeLocation POST /api/map/location - シミュレーション位置の変更シグナル
func (h *MapHandler) ChangeLocation(c *gin.Context) {
	var req coordinateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	if err := h.mapUseCase.ChangeLocation(model.LatLng{Lat: *req.Lat, Lng: *req.Lng}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_coordinate",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// GetFilters GET /api/map/filters - アクティブなカテゴリ一覧を取得
func (h *MapHandler) GetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"active":     h.mapUseCase.GetFilters(),
		"categories": model.GetAllCategories(),
	})
}

// filtersRequest フィルタ集合置き換えリクエストのボディ
type filtersRequest struct {
	Active []string `json:"active"`
}

// SetFilters PUT /api/map/filters - アクティブなカテゴリ集合を置き換え
func (h *MapHandler) SetFilters(c *gin.Context) {
	var req filtersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	if err := h.mapUseCase.SetFilters(req.Active); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_category",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"active": h.mapUseCase.GetFilters()})
}

// ToggleFilter POST /api/map/filters/:category/toggle - カテゴリフィルタの切り替え
func (h *MapHandler) ToggleFilter(c *gin.Context) {
	category := c.Param("category")

	if err := h.mapUseCase.ToggleFilter(category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_category",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"toggled": category})
}
