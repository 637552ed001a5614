// Package rank 提供排序 Node：模型逐条打基础分，Node 负责跨候选的
// 来源域名重复惩罚与确定性排序。
package rank

import (
	"context"
	"sort"
	"time"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/model"
	"github.com/rushteam/newsrec/pipeline"
	"github.com/rushteam/newsrec/pkg/utils"
)

// Node 对候选池打分排序。
//
// 惩罚项：基础分排序后自上而下扫描，同一来源域名在上方已出现
// 超过 MaxPerDomain 次的候选扣 PenaltyWeight，然后整体重排一次。
// 惩罚是软约束（压低名次），硬上限由 feed 装配阶段执行。
type Node struct {
	Model model.Model

	// PenaltyWeight 重复来源惩罚权重 w_p，默认 0.3。
	PenaltyWeight float64

	// MaxPerDomain 免惩罚的同域名出现次数，默认 2。
	MaxPerDomain int

	// Now 注入时钟（测试用）。
	Now func() time.Time
}

func NewNode(m model.Model) *Node {
	cfg := core.DefaultConfig()
	return &Node{
		Model:         m,
		PenaltyWeight: cfg.Rank.Penalty,
		MaxPerDomain:  2,
	}
}

var _ pipeline.Node = (*Node)(nil)

func (n *Node) Name() string { return "rank.linear" }

func (n *Node) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *Node) Process(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}
	maxPerDomain := n.MaxPerDomain
	if maxPerDomain <= 0 {
		maxPerDomain = 2
	}

	for _, it := range items {
		it.Score = n.Model.Score(rctx, it, now)
		it.PutLabel(core.LabelRankModel, utils.Label{Value: n.Model.Name(), Source: "rank"})
	}
	sortRanked(items)

	// 惩罚按基础分名次自上而下结算，然后整体重排一次
	seen := make(map[string]int)
	for _, it := range items {
		domain := it.SourceDomain()
		if domain != "" && seen[domain] > maxPerDomain {
			it.Score -= n.PenaltyWeight
		}
		if domain != "" {
			seen[domain]++
		}
	}
	sortRanked(items)

	// 完整排序池留给装配阶段做 source-cap 回填
	if rctx.Params == nil {
		rctx.Params = make(map[string]any)
	}
	rctx.Params[core.ParamRankedPool] = append([]*core.Item(nil), items...)

	return items, nil
}

// sortRanked 分数降序，同分按发布时间降序、再按 id 升序。
func sortRanked(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		ti, tj := items[i].PublishedAt(), items[j].PublishedAt()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return items[i].ID < items[j].ID
	})
}
