package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"TourMex-App/internal/domain/model"
)

func makePOIs(prefix string, category string, count int) []*model.POI {
	pois := make([]*model.POI, count)
	for i := 0; i < count; i++ {
		pois[i] = model.NewPOI(fmt.Sprintf("%s_%03d", prefix, i), prefix, category, 19.43, -99.13)
	}
	return pois
}

func TestLocationStore_MergeAndSnapshot(t *testing.T) {
	store := NewLocationStore()

	store.Merge(makePOIs("food", model.CategoryFood, 3))
	assert.Equal(t, 3, store.Len())

	snapshot := store.Snapshot()
	assert.Len(t, snapshot, 3)
}

func TestLocationStore_MergeIsIdempotent(t *testing.T) {
	store := NewLocationStore()
	pois := makePOIs("food", model.CategoryFood, 5)

	store.Merge(pois)
	first := store.Snapshot()

	// 同じ集合をもう一度マージしてもスナップショットは変わらない
	store.Merge(pois)
	second := store.Snapshot()

	assert.Equal(t, first, second)
	assert.Equal(t, 5, store.Len())
}

func TestLocationStore_NeverOverwritesExisting(t *testing.T) {
	store := NewLocationStore()

	original := model.NewPOI("poi_1", "Original", model.CategoryFood, 19.43, -99.13)
	imposter := model.NewPOI("poi_1", "Imposter", model.CategoryCultural, 19.44, -99.14)

	store.Merge([]*model.POI{original})
	store.Merge([]*model.POI{imposter})

	snapshot := store.Snapshot()
	assert.Len(t, snapshot, 1)
	assert.Equal(t, "Original", snapshot[0].Name, "既存エントリは上書きされない")
}

func TestLocationStore_ConcurrentDisjointMerges(t *testing.T) {
	// 同一性キーが互いに素なN個の並行マージ後、
	// スナップショットは正確に全入力の和集合になる（欠落も重複もなし）
	store := NewLocationStore()

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			store.Merge(makePOIs(fmt.Sprintf("w%02d", worker), model.CategoryFood, perWorker))
		}(w)
	}
	wg.Wait()

	snapshot := store.Snapshot()
	assert.Len(t, snapshot, workers*perWorker)

	ids := make(map[string]struct{}, len(snapshot))
	for _, poi := range snapshot {
		ids[poi.ID] = struct{}{}
	}
	assert.Len(t, ids, workers*perWorker, "同一性キーの重複なし")
}

func TestLocationStore_ConcurrentOverlappingMerges(t *testing.T) {
	// プロバイダの挙動不良で複数カテゴリが同じPOIを返しても、
	// ストアには同一性キーごとに1エントリしか残らない
	store := NewLocationStore()
	shared := makePOIs("shared", model.CategoryFood, 20)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Merge(shared)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, store.Len())
}

func TestLocationStore_Reset(t *testing.T) {
	store := NewLocationStore()
	store.Merge(makePOIs("food", model.CategoryFood, 4))

	store.Reset()
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.Snapshot())

	// リセット後は同じIDを再度マージできる
	store.Merge(makePOIs("food", model.CategoryFood, 4))
	assert.Equal(t, 4, store.Len())
}
