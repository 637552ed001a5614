// Package filter 提供候选过滤：话题过滤、已读排除与 CEL 规则过滤。
package filter

import (
	"context"

	"github.com/rushteam/newsrec/core"
)

// Filter 判断单条候选是否应被剔除。
// 返回 (true, nil) 表示剔除；出错时由 Node 决定降级策略（保守放行）。
type Filter interface {
	Name() string
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
