package service

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"TourMex-App/internal/domain/helper"
	"TourMex-App/internal/domain/model"
	"TourMex-App/internal/domain/repository"
)

// FetchOrchestrator はビューポート中心とアクティブなカテゴリから
// 未取得の (セル, カテゴリ) ペアを差分計算し、カテゴリごとに並行フェッチを起動する
// 各結果は LocationStore と POIResultCache にマージされ、完了ごとに再投影が走る
type FetchOrchestrator struct {
	provider       repository.POIProvider
	store          *LocationStore
	cache          *POIResultCache
	cellSizeMeters float64

	mu           sync.Mutex
	fetchedCells map[model.CellKey]struct{}  // フェッチサイクルを起動済みのセル
	fetchedPairs map[model.CacheKey]struct{} // フェッチを起動済みの (セル, カテゴリ) ペア
	generation   uint64                      // 位置リセットごとに増える世代カウンタ
	inFlight     int

	onUpdate   func()                           // フェッチ完了ごとの再投影コールバック
	onAdvisory func(category string, err error) // カテゴリ単位の非致命エラー通知
}

// NewFetchOrchestrator は新しいオーケストレータを作成する
func NewFetchOrchestrator(provider repository.POIProvider, store *LocationStore, cache *POIResultCache, cellSizeMeters float64) *FetchOrchestrator {
	return &FetchOrchestrator{
		provider:       provider,
		store:          store,
		cache:          cache,
		cellSizeMeters: cellSizeMeters,
		fetchedCells:   make(map[model.CellKey]struct{}),
		fetchedPairs:   make(map[model.CacheKey]struct{}),
	}
}

// SetCallbacks は再投影とエラー通知のコールバックを設定する
// パイプラインの初期化時に一度だけ呼び出すこと
func (o *FetchOrchestrator) SetCallbacks(onUpdate func(), onAdvisory func(category string, err error)) {
	o.onUpdate = onUpdate
	o.onAdvisory = onAdvisory
}

// CellSizeMeters は設定されたセルの地表サイズを返す
func (o *FetchOrchestrator) CellSizeMeters() float64 {
	return o.cellSizeMeters
}

// Refresh は現在のビューポート中心に対するフルフェッチサイクルを実行する
// 中心セルが既にフェッチ済みなら即座にno-opで返るため、
// 静止またはゆっくり移動するビューポートの仕事量はセルあたり1サイクルに収まる
// 起動したフェッチの完了は待たず、各完了が独立に再投影をトリガーする
func (o *FetchOrchestrator) Refresh(ctx context.Context, center model.LatLng, activeCategories []string) {
	cell := helper.CellKeyForCoordinate(center, o.cellSizeMeters)

	o.mu.Lock()
	if _, ok := o.fetchedCells[cell]; ok {
		o.mu.Unlock()
		return
	}
	o.fetchedCells[cell] = struct{}{}
	gen := o.generation

	var launched []string
	for _, category := range activeCategories {
		key := model.CacheKey{Cell: cell, Category: category}
		if _, ok := o.fetchedPairs[key]; ok {
			continue
		}
		o.fetchedPairs[key] = struct{}{}
		launched = append(launched, category)
	}
	o.inFlight += len(launched)
	o.mu.Unlock()

	if len(launched) == 0 {
		return
	}

	cycleID := uuid.New().String()[:8]
	log.Printf("🚀 フェッチサイクル開始 [%s]: セル%s, %dカテゴリを並行取得", cycleID, cell, len(launched))

	var wg sync.WaitGroup
	for _, category := range launched {
		wg.Add(1)
		go func(cat string) {
			defer wg.Done()
			o.loadBusinesses(ctx, gen, cell, cat, center)
		}(category)
	}

	// 完了ログ用に別goroutineでjoinする（呼び出し側はブロックしない）
	go func() {
		wg.Wait()
		log.Printf("✅ フェッチサイクル完了 [%s]: セル%s", cycleID, cell)
	}()
}

// RefreshCategory はフィルタが新たに有効化されたカテゴリだけを現在セルについてフェッチする
// 差分キーはセル単位ではなく (セル, カテゴリ) ペア単位
func (o *FetchOrchestrator) RefreshCategory(ctx context.Context, center model.LatLng, category string) {
	cell := helper.CellKeyForCoordinate(center, o.cellSizeMeters)
	key := model.CacheKey{Cell: cell, Category: category}

	o.mu.Lock()
	if _, ok := o.fetchedPairs[key]; ok {
		o.mu.Unlock()
		return
	}
	o.fetchedPairs[key] = struct{}{}
	gen := o.generation
	o.inFlight++
	o.mu.Unlock()

	log.Printf("🔍 カテゴリ追加フェッチ: セル%s, カテゴリ%s", cell, category)
	go o.loadBusinesses(ctx, gen, cell, category, center)
}

// ResetSession は位置ジャンプ後にフェッチ済みセル集合と世代を初期化し、蓄積POIを破棄する
// 結果キャッシュは位置に依存しないため保持される
// 世代カウンタの更新とストアのリセットを同じクリティカルセクションで行うことで、
// 旧世代の処理中フェッチがリセット後のストアを再汚染しないことを保証する
func (o *FetchOrchestrator) ResetSession() {
	o.mu.Lock()
	o.generation++
	o.fetchedCells = make(map[model.CellKey]struct{})
	o.fetchedPairs = make(map[model.CacheKey]struct{})
	o.store.Reset()
	gen := o.generation
	o.mu.Unlock()

	log.Printf("🔄 セッションリセット: 世代%d", gen)
}

// InFlight は処理中のフェッチ数を返す（ローディング表示用）
func (o *FetchOrchestrator) InFlight() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight
}

// FetchedCellCount はフェッチサイクルを起動済みのセル数を返す
func (o *FetchOrchestrator) FetchedCellCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.fetchedCells)
}

// loadBusinesses は1カテゴリ分のフェッチを実行する
// キャッシュヒット時はプロバイダを呼ばずにマージのみ行う
// 失敗時はペアを未取得に戻して通知し、兄弟フェッチには影響させない
func (o *FetchOrchestrator) loadBusinesses(ctx context.Context, gen uint64, cell model.CellKey, category string, center model.LatLng) {
	// 再投影を済ませてから処理中カウントを下げる
	// （カウントが0になった時点で可視出力は最新であることを保証する）
	defer func() {
		if o.onUpdate != nil {
			o.onUpdate()
		}
		o.mu.Lock()
		o.inFlight--
		o.mu.Unlock()
	}()

	if cached, ok := o.cache.Get(cell, category); ok {
		o.mergeIfCurrent(gen, cached)
		return
	}

	pois, err := o.provider.FetchByCategory(ctx, category, center, int(o.cellSizeMeters))
	if err != nil {
		o.mu.Lock()
		delete(o.fetchedPairs, model.CacheKey{Cell: cell, Category: category})
		o.mu.Unlock()

		log.Printf("⚠️  カテゴリ%sのフェッチ失敗: %v", category, err)
		if o.onAdvisory != nil {
			o.onAdvisory(category, err)
		}
		return
	}

	// 空の結果も正常なエントリとして保存し、同じペアの再フェッチを防ぐ
	// キャッシュは位置に依存しないので、世代が古くても書き込んで問題ない
	o.cache.Put(cell, category, pois)
	o.mergeIfCurrent(gen, pois)
}

// mergeIfCurrent は世代が現行の場合のみストアへマージする
// 世代チェックとマージを同じクリティカルセクションで行い、
// ResetSessionとの競合で旧位置のPOIが混入しないようにする
func (o *FetchOrchestrator) mergeIfCurrent(gen uint64, pois []*model.POI) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation {
		log.Printf("🕑 旧世代(%d)のフェッチ結果%d件を破棄", gen, len(pois))
		return
	}
	o.store.Merge(pois)
}
