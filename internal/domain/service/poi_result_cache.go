package service

import (
	"sync"

	"TourMex-App/internal/domain/model"
)

// POIResultCache は (セルキー, カテゴリ) → フェッチ済みPOI集合のキャッシュ
// プロセス生存期間中は追記のみで、エビクションは行わない
// 空の結果も正常なエントリとして保持し、無駄な再フェッチを防ぐ
type POIResultCache struct {
	mu      sync.RWMutex
	entries map[model.CacheKey][]*model.POI
}

// NewPOIResultCache は空のキャッシュを作成する
func NewPOIResultCache() *POIResultCache {
	return &POIResultCache{
		entries: make(map[model.CacheKey][]*model.POI),
	}
}

// Get はキャッシュ済みの結果集合を返す。I/Oは一切発生しない
func (c *POIResultCache) Get(cell model.CellKey, category string) ([]*model.POI, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pois, ok := c.entries[model.CacheKey{Cell: cell, Category: category}]
	return pois, ok
}

// Put は結果集合を保存する。冪等な上書きで、既存値とのマージは行わない
// （重複排除済みの内容を渡すのは呼び出し側の責務）
func (c *POIResultCache) Put(cell model.CellKey, category string, pois []*model.POI) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]*model.POI, len(pois))
	copy(stored, pois)
	c.entries[model.CacheKey{Cell: cell, Category: category}] = stored
}

// Size は保持しているエントリ数を返す
func (c *POIResultCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
