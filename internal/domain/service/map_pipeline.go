package service

import (
	"context"
	"log"
	"sync"
	"time"

	"TourMex-App/internal/domain/helper"
	"TourMex-App/internal/domain/model"
	"TourMex-App/internal/domain/repository"
)

// AdvisoryMessage はカテゴリ別フェッチ失敗時のユーザー向けメッセージ
const AdvisoryMessage = "Could not load some local businesses. Please check your connection."

// PipelineConfig はマップパイプラインの設定値
type PipelineConfig struct {
	CellSizeMeters    float64       // グリッドセルの地表サイズ (m)
	ViewportDebounce  time.Duration // ビューポート変更のデバウンス間隔
	LocationDebounce  time.Duration // 位置変更のデバウンス間隔
	DefaultCenter     model.LatLng  // 初期ビューポート中心
	SeedLocations     []*model.POI  // 初回フェッチ完了前に表示するシードデータ
	InitialCategories []string      // 初期のアクティブカテゴリ（nilなら全カテゴリ）
}

// DefaultPipelineConfig は本番デフォルトの設定を返す
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		CellSizeMeters:   2500,
		ViewportDebounce: 750 * time.Millisecond,
		LocationDebounce: 300 * time.Millisecond,
		DefaultCenter:    model.DefaultCenter,
		SeedLocations:    model.SampleLocations,
	}
}

// filterEvent はフィルタ変更イベント
// toggleが非空なら単一カテゴリのトグル、replaceが非nilならアクティブ集合の置き換え
type filterEvent struct {
	toggle  string
	replace []string
}

// MapPipeline は3つの独立したシグナル源（ビューポート・フィルタ・位置）を監視し、
// デバウンスを挟んでFetchOrchestratorを駆動するリアクティブパイプライン
// ビューポートと位置はデバウンスされ、フィルタ操作は即時反映される
type MapPipeline struct {
	orchestrator *FetchOrchestrator
	store        *LocationStore
	cache        *POIResultCache
	cfg          PipelineConfig

	viewportCh chan model.LatLng
	locationCh chan model.LatLng
	filterCh   chan filterEvent

	mu            sync.Mutex
	activeFilters map[string]bool
	center        model.LatLng
	visible       []*model.POI
	lastAdvisory  string
	subscribers   []chan []*model.POI

	done      chan struct{}
	closeOnce sync.Once
}

// NewMapPipeline はプロバイダと設定からパイプライン一式を組み立てる
// 初期状態: 全カテゴリ有効、フェッチ済み集合は空、ストアはシードデータのみ
func NewMapPipeline(provider repository.POIProvider, cfg PipelineConfig) *MapPipeline {
	store := NewLocationStore()
	cache := NewPOIResultCache()
	orchestrator := NewFetchOrchestrator(provider, store, cache, cfg.CellSizeMeters)

	initial := cfg.InitialCategories
	if initial == nil {
		initial = model.GetAllCategories()
	}
	activeFilters := make(map[string]bool)
	for _, category := range initial {
		activeFilters[category] = true
	}

	p := &MapPipeline{
		orchestrator:  orchestrator,
		store:         store,
		cache:         cache,
		cfg:           cfg,
		viewportCh:    make(chan model.LatLng, 1),
		locationCh:    make(chan model.LatLng, 1),
		filterCh:      make(chan filterEvent, 8),
		activeFilters: activeFilters,
		center:        cfg.DefaultCenter,
		done:          make(chan struct{}),
	}
	orchestrator.SetCallbacks(p.republish, p.recordAdvisory)

	store.Merge(cfg.SeedLocations)
	return p
}

// Start は可視出力を初期化し、デフォルト中心の初回フェッチを起動してイベントループを開始する
func (p *MapPipeline) Start(ctx context.Context) {
	p.republish()
	p.orchestrator.Refresh(ctx, p.Center(), p.ActiveCategories())
	go p.run(ctx)
}

// Close はイベントループを停止する
func (p *MapPipeline) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
}

// UpdateViewport はビューポート変更シグナルを通知する（最新値のみ保持、ブロックしない）
func (p *MapPipeline) UpdateViewport(center model.LatLng) {
	sendLatest(p.viewportCh, center)
}

// ChangeLocation はシミュレーション/実位置の変更シグナルを通知する
func (p *MapPipeline) ChangeLocation(center model.LatLng) {
	sendLatest(p.locationCh, center)
}

// ToggleFilter はカテゴリフィルタのON/OFFを切り替える
// カテゴリの新規有効化は現在セルに対するカテゴリ単位フェッチをトリガーする
// 無効化は可視出力の再投影のみで、蓄積・キャッシュ済みデータは破棄しない
func (p *MapPipeline) ToggleFilter(category string) {
	select {
	case p.filterCh <- filterEvent{toggle: category}:
	case <-p.done:
	}
}

// SetFilters はアクティブなカテゴリ集合を置き換える
func (p *MapPipeline) SetFilters(categories []string) {
	select {
	case p.filterCh <- filterEvent{replace: categories}:
	case <-p.done:
	}
}

// VisibleOutput は現在の可視出力（蓄積POI ∩ アクティブフィルタ）を返す
func (p *MapPipeline) VisibleOutput() []*model.POI {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*model.POI, len(p.visible))
	copy(out, p.visible)
	return out
}

// ActiveCategories は現在アクティブなカテゴリを固定の列挙順で返す
func (p *MapPipeline) ActiveCategories() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var active []string
	for _, category := range model.GetAllCategories() {
		if p.activeFilters[category] {
			active = append(active, category)
		}
	}
	return active
}

// Center は現在のビューポート中心を返す
func (p *MapPipeline) Center() model.LatLng {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.center
}

// Loading は処理中のフェッチがあるかを返す
func (p *MapPipeline) Loading() bool {
	return p.orchestrator.InFlight() > 0
}

// LastAdvisory は直近のカテゴリフェッチ失敗の通知メッセージを返す（なければ空文字列）
func (p *MapPipeline) LastAdvisory() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastAdvisory
}

// FetchedCellCount はフェッチ済みセル数を返す（ステータス表示用）
func (p *MapPipeline) FetchedCellCount() int {
	return p.orchestrator.FetchedCellCount()
}

// CachedPairCount はキャッシュ済みの (セル, カテゴリ) ペア数を返す
func (p *MapPipeline) CachedPairCount() int {
	return p.cache.Size()
}

// Subscribe は可視出力の購読チャネルを返す
// 消費が遅い購読者には古い値を捨てて常に最新の集合を届ける
// 同一集合が繰り返し届くことがあるため、購読側は冪等な再描画を前提とすること
func (p *MapPipeline) Subscribe() <-chan []*model.POI {
	ch := make(chan []*model.POI, 1)

	p.mu.Lock()
	p.subscribers = append(p.subscribers, ch)
	current := p.visible
	p.mu.Unlock()

	publishLatest(ch, current)
	return ch
}

// run はパイプラインのイベントループ
// 各シグナル源のデバウンスはtime.Timerのリセットで実現する
func (p *MapPipeline) run(ctx context.Context) {
	viewportTimer := newStoppedTimer()
	locationTimer := newStoppedTimer()

	var pendingViewport, pendingLocation model.LatLng

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return

		case center := <-p.viewportCh:
			pendingViewport = center
			resetTimer(viewportTimer, p.cfg.ViewportDebounce)

		case center := <-p.locationCh:
			pendingLocation = center
			resetTimer(locationTimer, p.cfg.LocationDebounce)

		case ev := <-p.filterCh:
			p.handleFilterEvent(ctx, ev)

		case <-viewportTimer.C:
			p.setCenter(pendingViewport)
			p.orchestrator.Refresh(ctx, pendingViewport, p.ActiveCategories())

		case <-locationTimer.C:
			log.Printf("📍 位置変更を検出: (%.4f, %.4f)", pendingLocation.Lat, pendingLocation.Lng)
			p.orchestrator.ResetSession()
			p.setCenter(pendingLocation)
			p.republish()
			p.orchestrator.Refresh(ctx, pendingLocation, p.ActiveCategories())
		}
	}
}

// handleFilterEvent はフィルタ変更を即時反映する（デバウンスなし）
func (p *MapPipeline) handleFilterEvent(ctx context.Context, ev filterEvent) {
	var newlyEnabled []string

	p.mu.Lock()
	if ev.toggle != "" {
		enabled := !p.activeFilters[ev.toggle]
		p.activeFilters[ev.toggle] = enabled
		if enabled {
			newlyEnabled = append(newlyEnabled, ev.toggle)
		}
	} else {
		requested := make(map[string]bool, len(ev.replace))
		for _, category := range ev.replace {
			requested[category] = true
		}
		for _, category := range model.GetAllCategories() {
			if requested[category] && !p.activeFilters[category] {
				newlyEnabled = append(newlyEnabled, category)
			}
			p.activeFilters[category] = requested[category]
		}
	}
	center := p.center
	p.mu.Unlock()

	p.republish()

	for _, category := range newlyEnabled {
		p.orchestrator.RefreshCategory(ctx, center, category)
	}
}

// republish は可視出力を再計算して購読者へ配信する
// フェッチ完了ごとに呼ばれるため、部分的な結果も段階的に表示される
// スナップショット取得はp.muの中で行い、並行する再投影同士が
// 古いスナップショットで新しい可視出力を巻き戻さないようにする
func (p *MapPipeline) republish() {
	p.mu.Lock()
	snapshot := p.store.Snapshot()
	visible := helper.FilterByActiveCategories(snapshot, p.activeFilters)
	p.visible = visible
	subs := make([]chan []*model.POI, len(p.subscribers))
	copy(subs, p.subscribers)
	p.mu.Unlock()

	for _, ch := range subs {
		publishLatest(ch, visible)
	}
}

// recordAdvisory はカテゴリフェッチ失敗の非致命通知を記録する
func (p *MapPipeline) recordAdvisory(category string, err error) {
	p.mu.Lock()
	p.lastAdvisory = AdvisoryMessage
	p.mu.Unlock()
}

func (p *MapPipeline) setCenter(center model.LatLng) {
	p.mu.Lock()
	p.center = center
	p.mu.Unlock()
}

// sendLatest は容量1のチャネルに最新値だけを残して送信する
func sendLatest(ch chan model.LatLng, v model.LatLng) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// publishLatest は購読チャネルの古い値を捨てて最新の集合を届ける
func publishLatest(ch chan []*model.POI, visible []*model.POI) {
	for {
		select {
		case ch <- visible:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// newStoppedTimer は発火待ちでない停止状態のタイマーを作る
func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}
	return t
}

// resetTimer はタイマーを安全にリセットする（デバウンスの心臓部）
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
