package pipeline

import (
	"context"

	"github.com/rushteam/newsrec/core"
)

// Pipeline 是 newsrec 的核心抽象：把推荐逻辑拆成可组合的 Node 链。
// Feed 请求的标准链路：recall → filter → rank → rerank → assemble。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			// 请求被取消：丢弃在途结果，Item 本就是请求级临时对象
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
