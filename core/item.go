package core

import (
	"time"

	"github.com/rushteam/newsrec/pkg/conv"
	"github.com/rushteam/newsrec/pkg/utils"
)

// Item Meta 的约定 key。召回源从文章/特征记录填充，排序与重排读取。
const (
	MetaEmbedding    = "embedding"
	MetaTopics       = "topics"
	MetaSourceDomain = "source_domain"
	MetaPublishedAt  = "published_at"
	MetaCredibility  = "credibility"
)

// 约定 Label key。
const (
	LabelRecallSource = "recall_source" // 候选来源 tag：recency / trending / similarity / covisit
	LabelRankModel    = "rank_model"
	LabelSponsored    = "sponsored"
	LabelFiltered     = "filtered"
)

// Item 是推荐链路中的统一承载结构：特征、分数、元信息、标签。
// 候选分/排序结果都落在这里：仅存活于单次 Feed 请求，不做持久化。
// Labels 用于解释与策略驱动；Score 用于排序决策；Rank 由 feed 装配阶段写入。
type Item struct {
	ID       string
	Score    float64
	Rank     int
	Features map[string]float64
	Meta     map[string]any
	Labels   map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:       id,
		Score:    0,
		Features: make(map[string]float64),
		Meta:     make(map[string]any),
		Labels:   make(map[string]utils.Label),
	}
}

// NewItemFromFeatures 以文章特征记录构建 Item，填充约定 Meta。
func NewItemFromFeatures(f *ArticleFeatures) *Item {
	it := NewItem(f.ArticleID)
	it.Meta[MetaEmbedding] = f.Embedding
	it.Meta[MetaTopics] = f.Topics
	it.Meta[MetaSourceDomain] = f.SourceDomain
	it.Meta[MetaPublishedAt] = f.PublishedAt
	it.Meta[MetaCredibility] = f.Credibility
	return it
}

// NewItemFromArticle 以文章构建 Item，填充约定 Meta。
func NewItemFromArticle(a *Article) *Item {
	it := NewItem(a.ID)
	it.Meta[MetaEmbedding] = a.Embedding
	it.Meta[MetaTopics] = a.Topics
	it.Meta[MetaSourceDomain] = a.SourceDomain
	it.Meta[MetaPublishedAt] = a.PublishedAt
	it.Meta[MetaCredibility] = a.Credibility
	return it
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 获取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}

// RecallSource 返回候选来源 tag（可能是 'a|b' 合并形态，取首个）。
func (it *Item) RecallSource() string {
	lbl, ok := it.GetLabel(LabelRecallSource)
	if !ok {
		return ""
	}
	for i := 0; i < len(lbl.Value); i++ {
		if lbl.Value[i] == '|' {
			return lbl.Value[:i]
		}
	}
	return lbl.Value
}

// Embedding 从 Meta 读取文章向量，缺失时返回 nil。
func (it *Item) Embedding() []float64 {
	if it.Meta == nil {
		return nil
	}
	return conv.SliceAnyToFloat64(it.Meta[MetaEmbedding])
}

// Topics 从 Meta 读取话题集合。
func (it *Item) Topics() []string {
	if it.Meta == nil {
		return nil
	}
	if ts, ok := it.Meta[MetaTopics].([]string); ok {
		return ts
	}
	return conv.SliceAnyToString(it.Meta[MetaTopics])
}

// SourceDomain 从 Meta 读取来源域名。
func (it *Item) SourceDomain() string {
	if it.Meta == nil {
		return ""
	}
	s, _ := conv.ToString(it.Meta[MetaSourceDomain])
	return s
}

// PublishedAt 从 Meta 读取发布时间，缺失时返回零值。
func (it *Item) PublishedAt() time.Time {
	if it.Meta == nil {
		return time.Time{}
	}
	if ts, ok := it.Meta[MetaPublishedAt].(time.Time); ok {
		return ts
	}
	return time.Time{}
}

// Credibility 从 Meta 读取可信度评分（[0,100]）。
func (it *Item) Credibility() float64 {
	if it.Meta == nil {
		return 0
	}
	f, _ := conv.ToFloat64(it.Meta[MetaCredibility])
	return f
}

// CopyMetaFrom 从特征记录补全缺失的约定 Meta（召回源只带 ID 时用）。
func (it *Item) CopyMetaFrom(f *ArticleFeatures) {
	if f == nil {
		return
	}
	if it.Meta == nil {
		it.Meta = make(map[string]any)
	}
	if _, ok := it.Meta[MetaEmbedding]; !ok {
		it.Meta[MetaEmbedding] = f.Embedding
	}
	if _, ok := it.Meta[MetaTopics]; !ok {
		it.Meta[MetaTopics] = f.Topics
	}
	if _, ok := it.Meta[MetaSourceDomain]; !ok {
		it.Meta[MetaSourceDomain] = f.SourceDomain
	}
	if _, ok := it.Meta[MetaPublishedAt]; !ok {
		it.Meta[MetaPublishedAt] = f.PublishedAt
	}
	if _, ok := it.Meta[MetaCredibility]; !ok {
		it.Meta[MetaCredibility] = f.Credibility
	}
}
