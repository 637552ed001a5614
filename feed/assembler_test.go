package feed

import (
	"context"
	"testing"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pkg/utils"
)

func pageItem(id, domain string, score float64) *core.Item {
	it := core.NewItem(id)
	it.Score = score
	it.Meta[core.MetaSourceDomain] = domain
	return it
}

func feedCtx(pageSize int, pool []*core.Item) *core.RecommendContext {
	rctx := core.NewRecommendContext("u1")
	rctx.PageSize = pageSize
	if pool != nil {
		rctx.Params[core.ParamRankedPool] = pool
	}
	return rctx
}

func TestAssemblerSourceCap(t *testing.T) {
	items := []*core.Item{
		pageItem("a1", "dup.com", 0.9),
		pageItem("a2", "dup.com", 0.8),
		pageItem("a3", "dup.com", 0.7),
		pageItem("a4", "dup.com", 0.6), // 第 4 条同域名，硬上限剔除
		pageItem("b1", "other.com", 0.5),
	}
	a := NewAssembler()
	got, err := a.Process(context.Background(), feedCtx(5, nil), items)
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range got {
		if it.ID == "a4" {
			t.Fatal("a4 should be dropped by source cap")
		}
	}
	if len(got) != 4 {
		t.Errorf("page = %d items, want 4", len(got))
	}
}

// source-cap 剔除后不足 M，从完整排序池回填，页必须保量。
func TestAssemblerBackfillGuarantee(t *testing.T) {
	diversified := []*core.Item{
		pageItem("a1", "dup.com", 0.9),
		pageItem("a2", "dup.com", 0.8),
		pageItem("a3", "dup.com", 0.7),
		pageItem("a4", "dup.com", 0.6),
	}
	pool := append(append([]*core.Item(nil), diversified...),
		pageItem("extra1", "dup.com", 0.5),
		pageItem("extra2", "x.com", 0.4),
	)

	a := NewAssembler()
	got, err := a.Process(context.Background(), feedCtx(4, pool), diversified)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("page = %d items, want backfilled to 4", len(got))
	}
	// 回填不看来源：名次最高的未入页候选 extra1 补位
	if got[3].ID != "extra1" {
		t.Errorf("backfill item = %s, want extra1 (next-best in ranked pool)", got[3].ID)
	}
}

func TestAssemblerRanksAreExplicit(t *testing.T) {
	items := []*core.Item{
		pageItem("a", "x.com", 0.9),
		pageItem("b", "y.com", 0.8),
	}
	a := NewAssembler()
	got, err := a.Process(context.Background(), feedCtx(2, nil), items)
	if err != nil {
		t.Fatal(err)
	}
	for i, it := range got {
		if it.Rank != i+1 {
			t.Errorf("item %s rank = %d, want %d", it.ID, it.Rank, i+1)
		}
	}
}

// 赞助位：分数达到有机页中位数才注入，不达标跳过。
func TestAssemblerSponsoredFloor(t *testing.T) {
	organic := []*core.Item{
		pageItem("a", "x.com", 0.9),
		pageItem("b", "y.com", 0.7),
		pageItem("c", "z.com", 0.5),
	}
	// 中位数 0.7
	tests := []struct {
		name     string
		score    float64
		injected bool
	}{
		{"above floor", 0.8, true},
		{"at floor", 0.7, true},
		{"below floor", 0.3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]*core.Item, len(organic))
			for i, it := range organic {
				items[i] = pageItem(it.ID, it.SourceDomain(), it.Score)
			}
			a := NewAssembler()
			a.Sponsored = []SponsoredSlot{{Position: 1, Item: pageItem("sp", "ads.com", tt.score)}}

			got, err := a.Process(context.Background(), feedCtx(3, nil), items)
			if err != nil {
				t.Fatal(err)
			}
			found := false
			for _, it := range got {
				if it.ID == "sp" {
					found = true
					if _, ok := it.GetLabel(core.LabelSponsored); !ok {
						t.Error("sponsored item missing label")
					}
				}
			}
			if found != tt.injected {
				t.Errorf("sponsored injected = %v, want %v (page %v)", found, tt.injected, ids(got))
			}
			if len(got) > 3 {
				t.Errorf("page grew beyond M: %d", len(got))
			}
		})
	}
}

func TestBuildPage(t *testing.T) {
	rctx := feedCtx(2, nil)
	rctx.Diag.PoolSize = 42
	rctx.Diag.ColdStart = true

	a := pageItem("a", "x.com", 0.9)
	a.Rank = 1
	a.PutLabel(core.LabelRecallSource, utils.Label{Value: "recency", Source: "recall"})

	page := BuildPage(rctx, []*core.Item{a})
	if page.UserID != "u1" || len(page.Items) != 1 {
		t.Fatalf("page = %+v", page)
	}
	got := page.Items[0]
	if got.ArticleID != "a" || got.Rank != 1 || got.SourceTag != "recency" {
		t.Errorf("feed item = %+v", got)
	}
	if page.Diag.PoolSize != 42 || !page.Diag.ColdStart {
		t.Errorf("diagnostic = %+v", page.Diag)
	}
}

func ids(items []*core.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
