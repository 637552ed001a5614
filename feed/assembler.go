// Package feed 提供 Feed 装配：来源域名硬上限、回填保量、赞助位注入，
// 以及最终响应页的构建。
package feed

import (
	"context"
	"sort"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pipeline"
	"github.com/rushteam/newsrec/pkg/utils"
)

// SponsoredSlot 是一个赞助位：固定位置 + 候选。
// 候选自带分数（由投放侧评估），注入前过相关性下限。
type SponsoredSlot struct {
	// Position 页内位置（0-based）。
	Position int
	Item     *core.Item
}

// Assembler 是 Feed 装配 Node：多样性重排结果上执行业务约束。
//
// 规则：
//  1. 来源域名硬上限 MaxPerDomain（默认 3），超出剔除；
//  2. 剔除导致页不足 M 时，从完整排序池回填次优候选（不看来源），
//     候选池有 ≥M 篇去重文章时页必须满 M；
//  3. 赞助位仅当分数 ≥ 有机页分数中位数时注入，否则跳过该位，
//     绝不塞不相关内容。
type Assembler struct {
	// MaxPerDomain 单一来源域名上限，默认 3。
	MaxPerDomain int

	// Sponsored 配置的赞助位，默认为空。
	Sponsored []SponsoredSlot
}

func NewAssembler() *Assembler {
	return &Assembler{MaxPerDomain: core.DefaultConfig().MaxPerDomain}
}

var _ pipeline.Node = (*Assembler)(nil)

func (a *Assembler) Name() string { return "feed.assembler" }

func (a *Assembler) Kind() pipeline.Kind { return pipeline.KindAssemble }

func (a *Assembler) Process(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	size := rctx.PageSize
	if size <= 0 {
		size = core.DefaultPageSize
	}
	maxPerDomain := a.MaxPerDomain
	if maxPerDomain <= 0 {
		maxPerDomain = core.DefaultConfig().MaxPerDomain
	}

	page, capped := applySourceCap(items, maxPerDomain)
	page = a.backfill(rctx, page, capped, size)
	page = a.injectSponsored(page, size)

	for i, it := range page {
		it.Rank = i + 1
	}
	return page, nil
}

// applySourceCap 按来源域名硬上限剔除，保持顺序，返回被剔除的 id 集合。
func applySourceCap(items []*core.Item, maxPerDomain int) ([]*core.Item, map[string]bool) {
	out := make([]*core.Item, 0, len(items))
	seen := make(map[string]int)
	capped := make(map[string]bool)
	for _, it := range items {
		domain := it.SourceDomain()
		if domain != "" && seen[domain] >= maxPerDomain {
			capped[it.ID] = true
			continue
		}
		if domain != "" {
			seen[domain]++
		}
		out = append(out, it)
	}
	return out, capped
}

// backfill 从完整排序池补齐到 size：按排序名次取未入页候选，不看来源。
// 被 source-cap 剔除的候选放到最后兜底——优先用别的文章，
// 但"页满 M"优先级高于来源上限。
func (a *Assembler) backfill(rctx *core.RecommendContext, page []*core.Item, capped map[string]bool, size int) []*core.Item {
	if len(page) >= size {
		return page[:size]
	}
	pool, _ := rctx.Params[core.ParamRankedPool].([]*core.Item)
	if len(pool) == 0 {
		return page
	}

	inPage := make(map[string]bool, len(page))
	for _, it := range page {
		inPage[it.ID] = true
	}
	for _, skipCapped := range []bool{true, false} {
		for _, it := range pool {
			if len(page) >= size {
				return page
			}
			if inPage[it.ID] || (skipCapped && capped[it.ID]) {
				continue
			}
			inPage[it.ID] = true
			page = append(page, it)
		}
	}
	return page
}

// injectSponsored 注入赞助位：分数达到有机页中位数下限才上位。
func (a *Assembler) injectSponsored(page []*core.Item, size int) []*core.Item {
	if len(a.Sponsored) == 0 || len(page) == 0 {
		return page
	}
	floor := medianScore(page)

	slots := append([]SponsoredSlot(nil), a.Sponsored...)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Position < slots[j].Position })

	for _, slot := range slots {
		if slot.Item == nil || slot.Item.Score < floor {
			continue
		}
		it := slot.Item
		it.PutLabel(core.LabelSponsored, utils.Label{Value: "1", Source: "feed"})

		pos := slot.Position
		if pos < 0 {
			pos = 0
		}
		if pos > len(page) {
			pos = len(page)
		}
		page = append(page, nil)
		copy(page[pos+1:], page[pos:])
		page[pos] = it
		if len(page) > size {
			page = page[:size]
		}
	}
	return page
}

// medianScore 有机页分数中位数（偶数取中间两值均值）。
func medianScore(page []*core.Item) float64 {
	scores := make([]float64, len(page))
	for i, it := range page {
		scores[i] = it.Score
	}
	sort.Float64s(scores)
	n := len(scores)
	if n%2 == 1 {
		return scores[n/2]
	}
	return (scores[n/2-1] + scores[n/2]) / 2
}
