package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TourMex-App/internal/domain/model"
)

// stubProvider は呼び出し回数を記録するテスト用プロバイダ
type stubProvider struct {
	mu      sync.Mutex
	calls   map[string]int
	results map[string][]*model.POI
	errs    map[string]error
	block   chan struct{} // 非nilならクローズまでフェッチをブロックする
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		calls:   make(map[string]int),
		results: make(map[string][]*model.POI),
		errs:    make(map[string]error),
	}
}

func (s *stubProvider) FetchByCategory(ctx context.Context, category string, center model.LatLng, radiusMeters int) ([]*model.POI, error) {
	s.mu.Lock()
	s.calls[category]++
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.errs[category]; ok {
		return nil, err
	}
	return s.results[category], nil
}

func (s *stubProvider) callCount(category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[category]
}

func (s *stubProvider) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// waitForIdle は処理中のフェッチがなくなるまで待つ
func waitForIdle(t *testing.T, o *FetchOrchestrator) {
	t.Helper()
	require.Eventually(t, func() bool {
		return o.InFlight() == 0
	}, 2*time.Second, 5*time.Millisecond)
}

var testCenter = model.LatLng{Lat: 19.4326, Lng: -99.1332}

func newTestOrchestrator(provider *stubProvider) (*FetchOrchestrator, *LocationStore, *POIResultCache) {
	store := NewLocationStore()
	cache := NewPOIResultCache()
	return NewFetchOrchestrator(provider, store, cache, 2500), store, cache
}

func TestFetchOrchestrator_RefreshScenario(t *testing.T) {
	// シナリオ: ソカロ中心、セル2500m、カテゴリ{food, cultural}
	// 初回リフレッシュはプロバイダを各カテゴリ1回ずつ計2回呼び、ストアは5件になる
	// 同じ中心での2回目のリフレッシュはプロバイダを一切呼ばない
	provider := newStubProvider()
	provider.results[model.CategoryFood] = makePOIs("food", model.CategoryFood, 3)
	provider.results[model.CategoryCultural] = makePOIs("cultural", model.CategoryCultural, 2)

	orchestrator, store, _ := newTestOrchestrator(provider)
	ctx := context.Background()
	categories := []string{model.CategoryFood, model.CategoryCultural}

	orchestrator.Refresh(ctx, testCenter, categories)
	waitForIdle(t, orchestrator)

	assert.Equal(t, 1, provider.callCount(model.CategoryFood))
	assert.Equal(t, 1, provider.callCount(model.CategoryCultural))
	assert.Equal(t, 5, store.Len())
	assert.Equal(t, 1, orchestrator.FetchedCellCount())

	orchestrator.Refresh(ctx, testCenter, categories)
	waitForIdle(t, orchestrator)

	assert.Equal(t, 2, provider.totalCalls(), "2回目のリフレッシュはプロバイダを呼ばない")
	assert.Equal(t, 5, store.Len())
}

func TestFetchOrchestrator_SlowDriftWithinCellIsNoop(t *testing.T) {
	// 同一セル内でゆっくり動くビューポートはセルあたり1サイクルに収まる
	provider := newStubProvider()
	provider.results[model.CategoryFood] = makePOIs("food", model.CategoryFood, 1)

	orchestrator, _, _ := newTestOrchestrator(provider)
	ctx := context.Background()

	orchestrator.Refresh(ctx, testCenter, []string{model.CategoryFood})
	waitForIdle(t, orchestrator)

	drifted := model.LatLng{Lat: testCenter.Lat + 0.001, Lng: testCenter.Lng - 0.001}
	orchestrator.Refresh(ctx, drifted, []string{model.CategoryFood})
	waitForIdle(t, orchestrator)

	assert.Equal(t, 1, provider.totalCalls())
	assert.Equal(t, 1, orchestrator.FetchedCellCount())
}

func TestFetchOrchestrator_CacheHitAfterSessionReset(t *testing.T) {
	// セッションリセットはキャッシュを保持するため、
	// 同じセルを再訪してもプロバイダは再度呼ばれない
	provider := newStubProvider()
	provider.results[model.CategoryFood] = makePOIs("food", model.CategoryFood, 3)

	orchestrator, store, cache := newTestOrchestrator(provider)
	ctx := context.Background()

	orchestrator.Refresh(ctx, testCenter, []string{model.CategoryFood})
	waitForIdle(t, orchestrator)
	assert.Equal(t, 3, store.Len())

	orchestrator.ResetSession()
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 1, cache.Size(), "キャッシュはリセット後も保持される")

	orchestrator.Refresh(ctx, testCenter, []string{model.CategoryFood})
	waitForIdle(t, orchestrator)

	assert.Equal(t, 1, provider.totalCalls(), "キャッシュヒットでプロバイダは呼ばれない")
	assert.Equal(t, 3, store.Len(), "キャッシュからストアへ再マージされる")
}

func TestFetchOrchestrator_RefreshCategoryFetchesOnlyThatPair(t *testing.T) {
	// フィルタの新規有効化は該当カテゴリだけをフェッチし、セル全体の再フェッチはしない
	provider := newStubProvider()
	provider.results[model.CategoryFood] = makePOIs("food", model.CategoryFood, 2)
	provider.results[model.CategoryCultural] = makePOIs("cultural", model.CategoryCultural, 1)

	orchestrator, store, _ := newTestOrchestrator(provider)
	ctx := context.Background()

	orchestrator.Refresh(ctx, testCenter, []string{model.CategoryFood})
	waitForIdle(t, orchestrator)

	orchestrator.RefreshCategory(ctx, testCenter, model.CategoryCultural)
	waitForIdle(t, orchestrator)

	assert.Equal(t, 1, provider.callCount(model.CategoryFood))
	assert.Equal(t, 1, provider.callCount(model.CategoryCultural))
	assert.Equal(t, 3, store.Len())

	// 既にフェッチ済みのペアはno-op
	orchestrator.RefreshCategory(ctx, testCenter, model.CategoryCultural)
	waitForIdle(t, orchestrator)
	assert.Equal(t, 1, provider.callCount(model.CategoryCultural))
}

func TestFetchOrchestrator_ProviderFailureIsNonFatal(t *testing.T) {
	// 1カテゴリの失敗は通知されるが、兄弟フェッチには影響しない
	// 失敗したペアはキャッシュに残らず、セッションリセット後の再訪で再試行される
	provider := newStubProvider()
	provider.errs[model.CategoryFood] = errors.New("network timeout")
	provider.results[model.CategoryCultural] = makePOIs("cultural", model.CategoryCultural, 2)

	orchestrator, store, cache := newTestOrchestrator(provider)

	var mu sync.Mutex
	var advisories []string
	orchestrator.SetCallbacks(nil, func(category string, err error) {
		mu.Lock()
		advisories = append(advisories, category)
		mu.Unlock()
	})

	ctx := context.Background()
	orchestrator.Refresh(ctx, testCenter, []string{model.CategoryFood, model.CategoryCultural})
	waitForIdle(t, orchestrator)

	assert.Equal(t, 2, store.Len(), "culturalの結果は失敗の影響を受けない")
	assert.Equal(t, 1, cache.Size(), "失敗したペアはキャッシュされない")

	mu.Lock()
	assert.Equal(t, []string{model.CategoryFood}, advisories)
	mu.Unlock()

	// リセット後の再訪でfoodだけ再試行される（culturalはキャッシュヒット）
	provider.mu.Lock()
	delete(provider.errs, model.CategoryFood)
	provider.results[model.CategoryFood] = makePOIs("food", model.CategoryFood, 1)
	provider.mu.Unlock()

	orchestrator.ResetSession()
	orchestrator.Refresh(ctx, testCenter, []string{model.CategoryFood, model.CategoryCultural})
	waitForIdle(t, orchestrator)

	assert.Equal(t, 2, provider.callCount(model.CategoryFood))
	assert.Equal(t, 1, provider.callCount(model.CategoryCultural))
	assert.Equal(t, 3, store.Len())
}

func TestFetchOrchestrator_StaleGenerationDiscarded(t *testing.T) {
	// 位置リセット中に解決した旧世代のフェッチ結果はストアに現れない
	provider := newStubProvider()
	provider.results[model.CategoryFood] = makePOIs("food", model.CategoryFood, 3)
	provider.block = make(chan struct{})

	orchestrator, store, cache := newTestOrchestrator(provider)
	ctx := context.Background()

	orchestrator.Refresh(ctx, testCenter, []string{model.CategoryFood})

	// フェッチが処理中のままセッションをリセット
	orchestrator.ResetSession()

	// ブロックを解除して旧世代のフェッチを完了させる
	close(provider.block)
	waitForIdle(t, orchestrator)

	assert.Equal(t, 0, store.Len(), "旧世代の結果はリセット後のストアに現れない")
	assert.Equal(t, 1, cache.Size(), "キャッシュ書き込みは位置に依存しないため行われる")

	// 再訪時はキャッシュヒットで現行世代にマージされる
	orchestrator.Refresh(ctx, testCenter, []string{model.CategoryFood})
	waitForIdle(t, orchestrator)
	assert.Equal(t, 1, provider.totalCalls())
	assert.Equal(t, 3, store.Len())
}

func TestFetchOrchestrator_EmptyResultIsCached(t *testing.T) {
	// 空の結果は正常なキャッシュエントリとなり、無駄な再フェッチを防ぐ
	provider := newStubProvider()
	provider.results[model.CategoryStadium] = []*model.POI{}

	orchestrator, store, cache := newTestOrchestrator(provider)
	ctx := context.Background()

	orchestrator.Refresh(ctx, testCenter, []string{model.CategoryStadium})
	waitForIdle(t, orchestrator)

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 1, cache.Size())

	orchestrator.ResetSession()
	orchestrator.Refresh(ctx, testCenter, []string{model.CategoryStadium})
	waitForIdle(t, orchestrator)

	assert.Equal(t, 1, provider.totalCalls(), "空の結果もキャッシュヒットになる")
}

func TestFetchOrchestrator_UpdateCallbackPerCompletion(t *testing.T) {
	// 再投影コールバックはフェッチ完了ごとに呼ばれ、部分的な結果が段階的に届く
	provider := newStubProvider()
	provider.results[model.CategoryFood] = makePOIs("food", model.CategoryFood, 1)
	provider.results[model.CategoryCultural] = makePOIs("cultural", model.CategoryCultural, 1)

	orchestrator, _, _ := newTestOrchestrator(provider)

	var mu sync.Mutex
	updates := 0
	orchestrator.SetCallbacks(func() {
		mu.Lock()
		updates++
		mu.Unlock()
	}, nil)

	orchestrator.Refresh(context.Background(), testCenter, []string{model.CategoryFood, model.CategoryCultural})
	waitForIdle(t, orchestrator)

	mu.Lock()
	assert.Equal(t, 2, updates)
	mu.Unlock()
}

func TestFetchOrchestrator_OverlappingIdentityAcrossCategories(t *testing.T) {
	// 複数カテゴリが同じ同一性キーのPOIを返しても、ストアには1件だけ残る
	shared := model.NewPOI("dup_001", "Duplicado", model.CategoryFood, 19.43, -99.13)
	provider := newStubProvider()
	provider.results[model.CategoryFood] = []*model.POI{shared, model.NewPOI("f_1", "Tacos", model.CategoryFood, 19.43, -99.13)}
	provider.results[model.CategoryCultural] = []*model.POI{shared}

	orchestrator, store, _ := newTestOrchestrator(provider)

	orchestrator.Refresh(context.Background(), testCenter, []string{model.CategoryFood, model.CategoryCultural})
	waitForIdle(t, orchestrator)

	assert.Equal(t, 2, store.Len())
}
