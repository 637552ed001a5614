package recall

import (
	"context"

	"github.com/rushteam/newsrec/core"
)

// 候选来源 tag，写入 LabelRecallSource，随 Feed 响应透出。
const (
	TagRecency    = "recency"
	TagTrending   = "trending"
	TagSimilarity = "similarity"
	TagCoVisit    = "covisit"
)

// Source 表示一个可复用的召回源（recency/trending/similarity/covisit/...）。
// 你可以把它理解为“可并发 fan-out 的策略单元”。
//
// limit 是本次请求分给该源的配额（目标池 N 的加权份额）。
// 约定：返回的 Item 原始分归一到 [0,1]，跨源去重时按分数择优；
// 数据不足时返回少于 limit 的结果甚至空结果，都不是错误。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext, limit int) ([]*core.Item, error)
}
