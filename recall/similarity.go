package recall

import (
	"context"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/vector"
)

// Similarity 是相似度召回源：用户兴趣质心在向量索引里的近邻。
// 无质心（冷启动）直接返回空，配额由 Generator 重新分配。
type Similarity struct {
	Index vector.Index
}

func (r *Similarity) Name() string { return "recall.similarity" }

func (r *Similarity) Recall(ctx context.Context, rctx *core.RecommendContext, limit int) ([]*core.Item, error) {
	if r.Index == nil || limit <= 0 {
		return nil, nil
	}
	if rctx == nil || !rctx.User.HasCentroid() {
		return nil, nil
	}

	ids, scores, err := r.Index.Search(ctx, rctx.User.Centroid, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(ids))
	for i, id := range ids {
		it := core.NewItem(id)
		// 余弦相似度落在 [-1,1]，压到 [0,1] 与其他源对齐
		it.Score = (scores[i] + 1) / 2
		out = append(out, it)
	}
	return out, nil
}
