package filter

import (
	"context"

	"github.com/rushteam/newsrec/core"
)

// TopicFilter 按请求的话题过滤条件保留候选：
// rctx.TopicFilter 非空时，只保留话题有交集的文章。
type TopicFilter struct{}

func (f *TopicFilter) Name() string { return "filter.topic" }

func (f *TopicFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if rctx == nil || len(rctx.TopicFilter) == 0 {
		return false, nil
	}
	want := make(map[string]bool, len(rctx.TopicFilter))
	for _, t := range rctx.TopicFilter {
		want[t] = true
	}
	for _, t := range item.Topics() {
		if want[t] {
			return false, nil
		}
	}
	return true, nil
}
