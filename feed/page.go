package feed

import "github.com/rushteam/newsrec/core"

// FeedItem 是响应里的一条结果：排名、分数、来源 tag，
// 支撑前端的 "why this" 解释。
type FeedItem struct {
	ArticleID string  `json:"article_id"`
	Rank      int     `json:"rank"`
	Score     float64 `json:"score"`
	SourceTag string  `json:"source_tag"`
	Sponsored bool    `json:"sponsored,omitempty"`
}

// Diagnostic 是 Feed 级诊断信息。
type Diagnostic struct {
	PoolSize  int                `json:"pool_size"`
	Mix       map[string]float64 `json:"mix"`
	ColdStart bool               `json:"cold_start"`
	Degraded  bool               `json:"degraded,omitempty"`
	Missing   int                `json:"missing_features,omitempty"`
}

// Page 是一次 Feed 请求的最终响应。
type Page struct {
	UserID string     `json:"user_id"`
	Items  []FeedItem `json:"items"`
	Diag   Diagnostic `json:"diagnostic"`
}

// BuildPage 把装配后的 Item 列表转为响应页。
func BuildPage(rctx *core.RecommendContext, items []*core.Item) *Page {
	page := &Page{
		UserID: rctx.UserID,
		Items:  make([]FeedItem, 0, len(items)),
	}
	for _, it := range items {
		fi := FeedItem{
			ArticleID: it.ID,
			Rank:      it.Rank,
			Score:     it.Score,
			SourceTag: it.RecallSource(),
		}
		if _, ok := it.GetLabel(core.LabelSponsored); ok {
			fi.Sponsored = true
		}
		page.Items = append(page.Items, fi)
	}
	if d := rctx.Diag; d != nil {
		page.Diag = Diagnostic{
			PoolSize:  d.PoolSize,
			Mix:       d.Mix,
			ColdStart: d.ColdStart,
			Degraded:  d.Degraded,
			Missing:   d.Missing,
		}
	}
	return page
}
