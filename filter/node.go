package filter

import (
	"context"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pipeline"
	"github.com/rushteam/newsrec/pkg/utils"
)

// Node 串行执行一组 Filter，剔除命中的候选。
//
// 失败语义：单个过滤器出错按"未命中"放行——过滤器是锦上添花，
// 不能因为它拖垮整个 Feed。
type Node struct {
	Filters []Filter
}

func NewNode(filters ...Filter) *Node {
	return &Node{Filters: filters}
}

var _ pipeline.Node = (*Node)(nil)

func (n *Node) Name() string { return "filter.chain" }

func (n *Node) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Node) Process(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := items[:0]
	for _, it := range items {
		if filtered, by := n.filtered(ctx, rctx, it); filtered {
			it.PutLabel(core.LabelFiltered, utils.Label{Value: by, Source: "filter"})
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (n *Node) filtered(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, string) {
	for _, f := range n.Filters {
		hit, err := f.ShouldFilter(ctx, rctx, item)
		if err != nil {
			continue
		}
		if hit {
			return true, f.Name()
		}
	}
	return false, ""
}
