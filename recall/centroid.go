package recall

import (
	"context"
	"sort"
	"time"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pkg/vectormath"
)

// CentroidBuilder 在请求路径上构建用户兴趣质心：
// 回看窗口内正反馈文章的 Embedding 按行为权重加权平均。
// 产出写回 UserProfile.Centroid / RecentArticles，供相似度召回
// 与排序公式的 relevance 项使用。
type CentroidBuilder struct {
	Interactions core.InteractionStore
	Features     core.FeatureService

	// Window 正反馈回看窗口，默认 30 天。
	Window time.Duration

	// MaxArticles 参与质心的文章上限，默认 50。
	MaxArticles int

	// Now 注入时钟（测试用）。
	Now func() time.Time
}

// Build 填充 profile 的质心与近期文章列表。
// 无交互历史不是错误：质心保持为空，走冷启动路径。
func (b *CentroidBuilder) Build(ctx context.Context, profile *core.UserProfile) error {
	if b.Interactions == nil || b.Features == nil || profile == nil || profile.UserID == "" {
		return nil
	}

	window := b.Window
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}
	maxArticles := b.MaxArticles
	if maxArticles <= 0 {
		maxArticles = 50
	}
	now := time.Now()
	if b.Now != nil {
		now = b.Now()
	}

	weights, err := b.Interactions.GetUserArticles(ctx, profile.UserID, now.Add(-window))
	if err != nil {
		return err
	}
	if len(weights) == 0 {
		return nil
	}

	// 权重降序截断，保证质心反映最强的正反馈
	ids := make([]string, 0, len(weights))
	for id := range weights {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		wi, wj := weights[ids[i]], weights[ids[j]]
		if wi != wj {
			return wi > wj
		}
		return ids[i] < ids[j]
	})
	if len(ids) > maxArticles {
		ids = ids[:maxArticles]
	}

	result, err := b.Features.BatchGetArticleFeatures(ctx, ids)
	if err != nil {
		return err
	}

	vectors := make([][]float64, 0, len(ids))
	ws := make([]float64, 0, len(ids))
	for _, id := range ids {
		feat, ok := result.Features[id]
		if !ok || len(feat.Embedding) == 0 {
			continue
		}
		vectors = append(vectors, feat.Embedding)
		ws = append(ws, weights[id])
	}

	profile.RecentArticles = ids
	profile.Centroid = vectormath.WeightedMean(vectors, ws)
	return nil
}
