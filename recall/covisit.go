package recall

import (
	"context"
	"sort"
	"time"

	"github.com/rushteam/newsrec/core"
)

// CoVisit 是协同共现召回源：以用户近期正反馈文章为种子，
// 取"交互过种子的用户还交互了什么"，按共现权重聚合。
// 无历史（冷启动）直接返回空。
type CoVisit struct {
	Interactions core.InteractionStore

	// Window 共现统计回看窗口，默认 7 天。
	Window time.Duration

	// SeedLimit 最多取多少篇种子文章，默认 10。
	SeedLimit int

	// Now 注入时钟（测试用）。
	Now func() time.Time
}

func (r *CoVisit) Name() string { return "recall.covisit" }

func (r *CoVisit) Recall(ctx context.Context, rctx *core.RecommendContext, limit int) ([]*core.Item, error) {
	if r.Interactions == nil || limit <= 0 {
		return nil, nil
	}
	if rctx == nil || !rctx.User.HasHistory() {
		return nil, nil
	}

	window := r.Window
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	seedLimit := r.SeedLimit
	if seedLimit <= 0 {
		seedLimit = 10
	}
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	since := now.Add(-window)

	seeds := rctx.User.RecentArticles
	if len(seeds) > seedLimit {
		seeds = seeds[:seedLimit]
	}
	seen := make(map[string]bool, len(rctx.User.RecentArticles))
	for _, id := range rctx.User.RecentArticles {
		seen[id] = true
	}

	// 逐种子取共现并累加权重；单个种子出错只跳过该种子
	weights := make(map[string]float64)
	for _, seed := range seeds {
		co, err := r.Interactions.GetCoInteracted(ctx, seed, since, limit)
		if err != nil {
			continue
		}
		for id, w := range co {
			if seen[id] {
				continue
			}
			weights[id] += w
		}
	}
	if len(weights) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(weights))
	var max float64
	for id, w := range weights {
		ids = append(ids, id)
		if w > max {
			max = w
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		wi, wj := weights[ids[i]], weights[ids[j]]
		if wi != wj {
			return wi > wj
		}
		return ids[i] < ids[j]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		if max > 0 {
			it.Score = weights[id] / max
		}
		out = append(out, it)
	}
	return out, nil
}
