package recall

import (
	"context"
	"time"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pkg/vectormath"
)

// Recency 是时效召回源：时间窗内按发布时间降序取 TopK。
// 唯一一个直接从语料带出完整 Meta 的源，因此也是特征存储超时降级
// （recency-only feed）的底线来源。
type Recency struct {
	Corpus core.CorpusStore

	// Window 召回时间窗，默认 72h。
	Window time.Duration

	// Halflife 原始分的时间衰减半衰期，默认 24h。
	Halflife time.Duration

	// Now 注入时钟（测试用），为空取 time.Now。
	Now func() time.Time
}

func (r *Recency) Name() string { return "recall.recency" }

func (r *Recency) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Recency) Recall(ctx context.Context, _ *core.RecommendContext, limit int) ([]*core.Item, error) {
	if r.Corpus == nil || limit <= 0 {
		return nil, nil
	}
	window := r.Window
	if window <= 0 {
		window = 72 * time.Hour
	}
	halflife := r.Halflife
	if halflife <= 0 {
		halflife = 24 * time.Hour
	}

	now := r.now()
	articles, err := r.Corpus.ListRecent(ctx, now.Add(-window), limit)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(articles))
	for _, a := range articles {
		if !a.HasFeatures() {
			continue
		}
		it := core.NewItemFromArticle(a)
		it.Score = vectormath.Decay(a.AgeHours(now), halflife.Hours())
		out = append(out, it)
	}
	return out, nil
}
