// Package rerank 提供排序结果上的重排 Node：MMR 多样性与 TopN 截断。
package rerank

import (
	"context"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pipeline"
	"github.com/rushteam/newsrec/pkg/vectormath"
)

// MMR 是最大边际相关（Maximal Marginal Relevance）多样性重排 Node。
//
// 贪心选 M 条，每步最大化：
//
//	(1-λ)*rankScore - λ*maxSimToSelected
//
// λ 取请求的 Diversity 滑杆：0 退化为纯排序截断（逐条选分数最高者，
// 结果与 TopN 等价），1 只看话题分散。
//
// 相似度：两篇文章向量的余弦；任一方缺向量回退话题 Jaccard。
type MMR struct {
	// PageSize 目标条数 M，请求 PageSize > 0 时以请求为准。
	PageSize int
}

func NewMMR(pageSize int) *MMR {
	return &MMR{PageSize: pageSize}
}

var _ pipeline.Node = (*MMR)(nil)

func (n *MMR) Name() string { return "rerank.mmr" }

func (n *MMR) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *MMR) Process(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	size := n.PageSize
	if rctx.PageSize > 0 {
		size = rctx.PageSize
	}
	if size <= 0 {
		size = core.DefaultPageSize
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lambda := rctx.Diversity
	if lambda == 0 {
		// 纯相关性：输入已有序，直接截断
		if len(items) > size {
			items = items[:size]
		}
		return items, nil
	}

	selected := make([]*core.Item, 0, size)
	remaining := append([]*core.Item(nil), items...)

	for len(selected) < size && len(remaining) > 0 {
		bestIdx := 0
		bestObj := mmrObjective(lambda, remaining[0], selected)
		for i := 1; i < len(remaining); i++ {
			obj := mmrObjective(lambda, remaining[i], selected)
			// 同目标值保输入序（即排序名次），保证确定性
			if obj > bestObj {
				bestIdx, bestObj = i, obj
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected, nil
}

func mmrObjective(lambda float64, cand *core.Item, selected []*core.Item) float64 {
	var maxSim float64
	for _, s := range selected {
		if sim := itemSimilarity(cand, s); sim > maxSim {
			maxSim = sim
		}
	}
	return (1-lambda)*cand.Score - lambda*maxSim
}

// itemSimilarity 两篇文章的内容相似度：向量余弦，缺向量回退话题 Jaccard。
func itemSimilarity(a, b *core.Item) float64 {
	ea, eb := a.Embedding(), b.Embedding()
	if len(ea) > 0 && len(eb) > 0 {
		return vectormath.Cosine(ea, eb)
	}
	return vectormath.Jaccard(a.Topics(), b.Topics())
}
