package recall

import (
	"context"
	"sort"
	"time"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pkg/vectormath"
)

// TrendingScores 是一份不可变的热度快照：交互速度按指数衰减聚合。
// 由后台 Refresher 周期重建，请求侧只读。
type TrendingScores struct {
	// Ranked 按分数降序的文章 id（同分按 id 升序，保证确定性）。
	Ranked []string

	// Scores 原始热度分。
	Scores map[string]float64

	// Max 最高分，用于归一。
	Max float64

	BuiltAt time.Time
}

// BuildTrendingScores 扫描 window 内的曝光+点击事件，
// 按 exp(-age/halflife) 衰减累加出每篇文章的热度。
// 只在快照重建路径上调用，不在请求热路径。
func BuildTrendingScores(ctx context.Context, corpus core.CorpusStore, now time.Time, window, halflife time.Duration) (*TrendingScores, error) {
	events, err := corpus.ListRecentEvents(ctx, now.Add(-window))
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64)
	for _, ev := range events {
		if ev.Type != core.EventImpression && ev.Type != core.EventClick {
			continue
		}
		age := now.Sub(ev.Timestamp).Hours()
		scores[ev.ArticleID] += vectormath.Decay(age, halflife.Hours())
	}

	snap := &TrendingScores{
		Ranked:  make([]string, 0, len(scores)),
		Scores:  scores,
		BuiltAt: now,
	}
	for id, s := range scores {
		snap.Ranked = append(snap.Ranked, id)
		if s > snap.Max {
			snap.Max = s
		}
	}
	sort.Slice(snap.Ranked, func(i, j int) bool {
		si, sj := scores[snap.Ranked[i]], scores[snap.Ranked[j]]
		if si != sj {
			return si > sj
		}
		return snap.Ranked[i] < snap.Ranked[j]
	})
	return snap, nil
}

// Trending 是热门召回源。
// 读取优先级：
//   - Snapshot（进程内原子快照，标准路径）
//   - Store 的有序集合（例如离线任务写好的 Redis zset）兜底
type Trending struct {
	Snapshot *core.SnapshotHolder[TrendingScores]

	Store core.KeyValueStore
	Key   string // zset key，默认 "trending:articles"
}

func (r *Trending) Name() string { return "recall.trending" }

func (r *Trending) Recall(ctx context.Context, _ *core.RecommendContext, limit int) ([]*core.Item, error) {
	if limit <= 0 {
		return nil, nil
	}

	if r.Snapshot != nil {
		if snap := r.Snapshot.Load(); snap != nil && len(snap.Ranked) > 0 {
			return r.fromSnapshot(snap, limit), nil
		}
	}

	if r.Store != nil {
		return r.fromStore(ctx, limit)
	}
	return nil, nil
}

func (r *Trending) fromSnapshot(snap *TrendingScores, limit int) []*core.Item {
	n := limit
	if n > len(snap.Ranked) {
		n = len(snap.Ranked)
	}
	out := make([]*core.Item, 0, n)
	for _, id := range snap.Ranked[:n] {
		it := core.NewItem(id)
		if snap.Max > 0 {
			it.Score = snap.Scores[id] / snap.Max
		}
		out = append(out, it)
	}
	return out
}

func (r *Trending) fromStore(ctx context.Context, limit int) ([]*core.Item, error) {
	key := r.Key
	if key == "" {
		key = "trending:articles"
	}
	members, err := r.Store.ZRange(ctx, key, 0, int64(limit-1))
	if err != nil {
		return nil, err
	}
	out := make([]*core.Item, 0, len(members))
	for i, id := range members {
		it := core.NewItem(id)
		// zset 只有排名可靠，分数按名次线性归一
		it.Score = 1 - float64(i)/float64(limit)
		out = append(out, it)
	}
	return out, nil
}
