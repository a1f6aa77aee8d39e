package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"TourMex-App/internal/domain/model"
)

func TestHaversineDistance(t *testing.T) {
	// ソカロ → フリーダ・カーロ博物館 はおよそ9km
	zocalo := model.LatLng{Lat: 19.4326, Lng: -99.1332}
	fridaKahlo := model.LatLng{Lat: 19.3551, Lng: -99.1620}

	distance := HaversineDistance(zocalo, fridaKahlo)
	assert.InDelta(t, 9.1, distance, 1.0)

	// 同一地点は距離0
	assert.Equal(t, 0.0, HaversineDistance(zocalo, zocalo))
}

func TestFilterByActiveCategories(t *testing.T) {
	pois := []*model.POI{
		model.NewPOI("a", "Tacos", model.CategoryFood, 19.43, -99.13),
		model.NewPOI("b", "Museo", model.CategoryCultural, 19.43, -99.13),
		model.NewPOI("c", "Bar", model.CategoryEntertainment, 19.43, -99.13),
	}

	active := map[string]bool{
		model.CategoryFood:     true,
		model.CategoryCultural: true,
	}

	filtered := FilterByActiveCategories(pois, active)
	assert.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].ID)
	assert.Equal(t, "b", filtered[1].ID)
}

func TestFilterByRadius(t *testing.T) {
	center := model.LatLng{Lat: 19.4326, Lng: -99.1332}
	pois := []*model.POI{
		model.NewPOI("near", "Cerca", model.CategoryFood, 19.4330, -99.1335), // 数十m
		model.NewPOI("far", "Lejos", model.CategoryFood, 19.3029, -99.1506),  // 約15km
	}

	filtered := FilterByRadius(pois, center, 2500)
	assert.Len(t, filtered, 1)
	assert.Equal(t, "near", filtered[0].ID)
}
