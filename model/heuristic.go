package model

import (
	"time"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pkg/vectormath"
)

// Heuristic 是启发式线性打分模型：
//
//	base = w_r*relevance + w_c*credibility/100 + w_t*exp(-age/halflife)
//
// relevance 取用户质心与文章向量的余弦；冷启动（无质心）回退到
// 偏好话题与文章话题的 Jaccard 重合度。
type Heuristic struct {
	Weights  core.RankWeights
	Halflife time.Duration // 时间衰减半衰期，默认 48h
}

// NewHeuristic 以默认权重构建模型。
func NewHeuristic() *Heuristic {
	cfg := core.DefaultConfig()
	return &Heuristic{Weights: cfg.Rank, Halflife: cfg.RankHalflife}
}

var _ Model = (*Heuristic)(nil)

func (m *Heuristic) Name() string { return "model.heuristic" }

func (m *Heuristic) Score(rctx *core.RecommendContext, item *core.Item, now time.Time) float64 {
	halflife := m.Halflife
	if halflife <= 0 {
		halflife = 48 * time.Hour
	}

	relevance := m.relevance(rctx, item)
	credibility := item.Credibility() / 100

	var decay float64
	if at := item.PublishedAt(); !at.IsZero() {
		decay = vectormath.Decay(now.Sub(at).Hours(), halflife.Hours())
	}

	return m.Weights.Relevance*relevance +
		m.Weights.Credibility*credibility +
		m.Weights.Recency*decay
}

func (m *Heuristic) relevance(rctx *core.RecommendContext, item *core.Item) float64 {
	user := rctx.User
	if user.HasCentroid() {
		if emb := item.Embedding(); len(emb) > 0 {
			return vectormath.Cosine(user.Centroid, emb)
		}
		return 0
	}
	// 冷启动回退：话题重合度
	if user != nil && len(user.PreferredTopics) > 0 {
		return vectormath.Jaccard(user.PreferredTopics, item.Topics())
	}
	return 0
}
