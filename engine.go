package newsrec

import (
	"context"
	"log/slog"
	"time"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/feed"
	"github.com/rushteam/newsrec/pipeline"
	"github.com/rushteam/newsrec/recall"
	"github.com/rushteam/newsrec/vector"
)

// Request 是一次 Feed 请求的入参（来自 API 层的 GET 语义：幂等、无副作用）。
type Request struct {
	UserID string

	// PageSize 页大小 M，0 取默认值。
	PageSize int

	// Diversity 多样性滑杆 λ ∈ [0,1]，越界直接拒绝。
	Diversity float64

	// Topics 可选话题过滤。
	Topics []string
}

// Engine 是推荐引擎门面：画像获取、质心构建、Pipeline 执行、响应装配。
// 请求之间无共享可变状态，可任意并发调用 Recommend。
type Engine struct {
	Features core.FeatureService
	Centroid *recall.CentroidBuilder
	Pipeline *pipeline.Pipeline
	Logger   *slog.Logger

	refreshers []*core.Refresher
}

// NewEngine 创建推荐引擎。centroid 可为 nil（纯冷启动模式）。
func NewEngine(features core.FeatureService, centroid *recall.CentroidBuilder, p *pipeline.Pipeline) *Engine {
	return &Engine{
		Features: features,
		Centroid: centroid,
		Pipeline: p,
		Logger:   slog.Default(),
	}
}

// Recommend 执行一次 Feed 请求。
//
// 错误约定：只有参数非法会返回错误；画像缺失、特征超时、召回源故障
// 都在内部降级，通过响应的 Diagnostic 透出。
func (e *Engine) Recommend(ctx context.Context, req *Request) (*feed.Page, error) {
	rctx := core.NewRecommendContext(req.UserID)
	if req.PageSize > 0 {
		rctx.PageSize = req.PageSize
	}
	rctx.Diversity = req.Diversity
	rctx.TopicFilter = req.Topics
	if err := rctx.Validate(); err != nil {
		return nil, err
	}

	rctx.User = e.loadProfile(ctx, req.UserID)

	items, err := e.Pipeline.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}
	return feed.BuildPage(rctx, items), nil
}

// loadProfile 获取画像并构建兴趣质心。任何失败都降级为匿名画像，
// 冷启动路径保证语料非空时仍有 Feed。
func (e *Engine) loadProfile(ctx context.Context, userID string) *core.UserProfile {
	profile := core.AnonymousProfile(userID)
	if e.Features != nil {
		p, err := e.Features.GetUserProfile(ctx, userID)
		if err != nil {
			e.Logger.Warn("profile fetch failed, serving anonymous", "user_id", userID, "err", err)
		} else if p != nil {
			profile = p
		}
	}
	if e.Centroid != nil && !profile.Anonymous {
		if err := e.Centroid.Build(ctx, profile); err != nil {
			e.Logger.Warn("centroid build failed, cold-start path", "user_id", userID, "err", err)
		}
	}
	return profile
}

// StartRefreshers 启动后台快照重建（trending 榜、向量索引），
// 独立于请求关键路径。Close 时停止。
func (e *Engine) StartRefreshers(ctx context.Context, rs ...*core.Refresher) {
	for _, r := range rs {
		r.Start(ctx)
		e.refreshers = append(e.refreshers, r)
	}
}

// Close 停止后台重建并释放特征服务资源。
func (e *Engine) Close() error {
	for _, r := range e.refreshers {
		r.Stop()
	}
	e.refreshers = nil
	if e.Features != nil {
		return e.Features.Close()
	}
	return nil
}

// NewTrendingRefresher 构建 trending 榜的周期重建任务。
func NewTrendingRefresher(corpus core.CorpusStore, snap *core.SnapshotHolder[recall.TrendingScores], interval time.Duration) *core.Refresher {
	cfg := core.DefaultConfig()
	return &core.Refresher{
		Name:     "trending",
		Interval: interval,
		Build: func(ctx context.Context) error {
			s, err := recall.BuildTrendingScores(ctx, corpus, time.Now(), cfg.TrendingWindow, cfg.TrendingHalflife)
			if err != nil {
				return err
			}
			snap.Swap(s)
			return nil
		},
	}
}

// NewIndexRefresher 构建向量索引的周期重建任务：
// 扫描 recency 窗口内的语料，全量重建内存索引后原子替换。
func NewIndexRefresher(corpus core.CorpusStore, index *vector.MemoryIndex, interval time.Duration, window time.Duration, limit int) *core.Refresher {
	return &core.Refresher{
		Name:     "vector-index",
		Interval: interval,
		Build: func(ctx context.Context) error {
			articles, err := corpus.ListRecent(ctx, time.Now().Add(-window), limit)
			if err != nil {
				return err
			}
			vectors := make(map[string][]float64, len(articles))
			for _, a := range articles {
				if a.HasFeatures() {
					vectors[a.ID] = a.Embedding
				}
			}
			index.Rebuild(vectors)
			return nil
		},
	}
}
