package recall

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pipeline"
)

// Generator 是候选生成 Node：按配比并发 fan-out 四路召回源，
// 去重合并、截断到目标池大小，并批量补全文章特征。
//
// 冷启动：无质心时 similarity 份额、无历史时 covisit 份额
// 由 recency+trending 均分吸收，权重和恒为 1。
//
// 降级：特征存储超时不失败请求，保留自带 Meta 的 recency 候选，
// 置 Diag.Degraded；特征部分缺失的候选直接剔除并计入 Diag.Missing。
type Generator struct {
	Recency    Source
	Trending   Source
	Similarity Source
	CoVisit    Source

	Features core.FeatureService
	Fanout   *Fanout

	// PoolSize 目标池大小 N；PoolCap 硬上限。
	PoolSize int
	PoolCap  int

	// Mix 基准配比，为零值时取等权 0.25。
	Mix core.MixWeights
}

var _ pipeline.Node = (*Generator)(nil)

func (g *Generator) Name() string { return "recall.generator" }

func (g *Generator) Kind() pipeline.Kind { return pipeline.KindRecall }

func (g *Generator) Process(ctx context.Context, rctx *core.RecommendContext, _ []*core.Item) ([]*core.Item, error) {
	poolSize := g.PoolSize
	if poolSize <= 0 {
		poolSize = 200
	}
	poolCap := g.PoolCap
	if poolCap <= 0 {
		poolCap = 500
	}
	if poolSize > poolCap {
		poolSize = poolCap
	}

	mix := g.mixFor(rctx)
	diag := rctx.Diagnostics()
	diag.Mix = map[string]float64{
		TagRecency:    mix.Recency,
		TagTrending:   mix.Trending,
		TagSimilarity: mix.Similarity,
		TagCoVisit:    mix.CoVisit,
	}

	tasks := []task{
		{Source: g.Recency, Tag: TagRecency, Limit: quota(mix.Recency, poolSize)},
		{Source: g.Trending, Tag: TagTrending, Limit: quota(mix.Trending, poolSize)},
		{Source: g.Similarity, Tag: TagSimilarity, Limit: quota(mix.Similarity, poolSize)},
		{Source: g.CoVisit, Tag: TagCoVisit, Limit: quota(mix.CoVisit, poolSize)},
	}

	fanout := g.Fanout
	if fanout == nil {
		fanout = &Fanout{}
	}
	raw := fanout.Run(ctx, rctx, tasks)

	pool := dedup(raw)
	sortPool(pool)
	if len(pool) > poolSize {
		pool = pool[:poolSize]
	}

	pool, err := g.enrich(ctx, rctx, pool)
	if err != nil {
		return nil, err
	}

	diag.PoolSize = len(pool)
	return pool, nil
}

// mixFor 计算本次请求的实际配比：冷启动份额重分配。
func (g *Generator) mixFor(rctx *core.RecommendContext) core.MixWeights {
	mix := g.Mix
	if mix.Recency+mix.Trending+mix.Similarity+mix.CoVisit == 0 {
		mix = core.MixWeights{Recency: 0.25, Trending: 0.25, Similarity: 0.25, CoVisit: 0.25}
	}

	var orphan float64
	user := rctx.User
	if !user.HasCentroid() {
		orphan += mix.Similarity
		mix.Similarity = 0
		rctx.Diagnostics().ColdStart = true
	}
	if !user.HasHistory() {
		orphan += mix.CoVisit
		mix.CoVisit = 0
	}
	if orphan > 0 {
		mix.Recency += orphan / 2
		mix.Trending += orphan / 2
	}
	return mix
}

// quota 把权重换算为配额，向上取整避免小权重饿死。
func quota(weight float64, poolSize int) int {
	if weight <= 0 {
		return 0
	}
	return int(math.Ceil(weight * float64(poolSize)))
}

// dedup 跨源去重：同一文章保留最高分，recall_source label 合并累积。
func dedup(items []*core.Item) []*core.Item {
	merged := make(map[string]*core.Item, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		old, ok := merged[it.ID]
		if !ok {
			merged[it.ID] = it
			order = append(order, it.ID)
			continue
		}
		if lbl, ok := it.GetLabel(core.LabelRecallSource); ok {
			old.PutLabel(core.LabelRecallSource, lbl)
		}
		if it.Score > old.Score {
			it.Labels = old.Labels
			merged[it.ID] = it
		}
	}
	out := make([]*core.Item, 0, len(merged))
	for _, id := range order {
		out = append(out, merged[id])
	}
	return out
}

// sortPool 分数降序、同分按 id 升序，保证确定性。
func sortPool(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
}

// enrich 批量补全文章特征：缺失剔除，超时降级为 recency-only。
func (g *Generator) enrich(ctx context.Context, rctx *core.RecommendContext, pool []*core.Item) ([]*core.Item, error) {
	if g.Features == nil || len(pool) == 0 {
		return pool, nil
	}
	diag := rctx.Diagnostics()

	// 只补没带 Meta 的候选（recency 候选从语料直接带出）
	need := make([]string, 0, len(pool))
	for _, it := range pool {
		if len(it.Embedding()) == 0 {
			need = append(need, it.ID)
		}
	}
	if len(need) == 0 {
		return pool, nil
	}

	result, err := g.Features.BatchGetArticleFeatures(ctx, need)
	if err != nil {
		if errors.Is(err, core.ErrFeatureTimeout) {
			diag.Degraded = true
			return keepRecency(pool), nil
		}
		return nil, err
	}

	out := pool[:0]
	for _, it := range pool {
		if len(it.Embedding()) > 0 {
			out = append(out, it)
			continue
		}
		feat, ok := result.Features[it.ID]
		if !ok {
			diag.Missing++
			continue
		}
		it.CopyMetaFrom(feat)
		out = append(out, it)
	}
	return out, nil
}

// keepRecency 特征超时降级路径：只保留自带完整 Meta 的 recency 候选。
// 合并后的 recall_source 可能是 'trending|recency' 形态，按包含判断。
func keepRecency(pool []*core.Item) []*core.Item {
	out := make([]*core.Item, 0, len(pool))
	for _, it := range pool {
		if !fromRecency(it) {
			continue
		}
		if len(it.Embedding()) > 0 {
			out = append(out, it)
		}
	}
	return out
}

func fromRecency(it *core.Item) bool {
	lbl, ok := it.GetLabel(core.LabelRecallSource)
	if !ok {
		return false
	}
	for _, seg := range strings.Split(lbl.Value, "|") {
		if seg == TagRecency {
			return true
		}
	}
	return false
}
