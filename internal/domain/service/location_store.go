package service

import (
	"sync"

	"TourMex-App/internal/domain/model"
)

// LocationStore はセッション中に蓄積したPOI集合の唯一の所有者
// すべての変更と読み取りを単一のミューテックスで直列化し、
// 並行するカテゴリ別フェッチからのマージでもPOIが失われたり重複したりしないことを保証する
type LocationStore struct {
	mu    sync.Mutex
	order []*model.POI        // マージ順を保持した蓄積POIリスト
	seen  map[string]struct{} // 既知のPOI ID（同一性キー）
}

// NewLocationStore は空のLocationStoreを作成する
func NewLocationStore() *LocationStore {
	return &LocationStore{
		seen: make(map[string]struct{}),
	}
}

// Merge はまだ存在しない同一性キーのPOIのみを挿入する
// 既存エントリは決して上書きされない（セッション内でPOIは不変）
func (s *LocationStore) Merge(newPOIs []*model.POI) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, poi := range newPOIs {
		if poi == nil || poi.ID == "" {
			continue
		}
		if _, ok := s.seen[poi.ID]; ok {
			continue
		}
		s.seen[poi.ID] = struct{}{}
		s.order = append(s.order, poi)
	}
}

// Snapshot は現在の蓄積集合の一貫したコピーを返す
// 途中までのマージが見えることはない
func (s *LocationStore) Snapshot() []*model.POI {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]*model.POI, len(s.order))
	copy(snapshot, s.order)
	return snapshot
}

// Len は蓄積済みPOI数を返す
func (s *LocationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Reset は蓄積したPOIをすべて破棄する
// 位置が大きく変わって過去の結果が無意味になったときに使用する
func (s *LocationStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.seen = make(map[string]struct{})
}
