package rerank

import (
	"context"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pipeline"
)

// TopN 是纯截断重排 Node：保留前 N 条，不改变顺序。
// 用于不需要多样性的场景（例如 explain 调试管线）。
type TopN struct {
	N int
}

func NewTopN(n int) *TopN { return &TopN{N: n} }

var _ pipeline.Node = (*TopN)(nil)

func (n *TopN) Name() string { return "rerank.topn" }

func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(_ context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	size := n.N
	if size <= 0 && rctx != nil {
		size = rctx.PageSize
	}
	if size > 0 && len(items) > size {
		items = items[:size]
	}
	return items, nil
}
