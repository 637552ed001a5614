package core

import "time"

// EmbeddingDim 是 NLP 管线产出的文章向量维度约定。
// 仅在存储边界校验，不在类型层面强制。
const EmbeddingDim = 384

// Article 是新闻语料中的一篇文章。
// 由外部 ingestion 创建；Embedding 与 Credibility 由外部 NLP 管线回填，
// 回填后除重打分外不可变。
type Article struct {
	ID           string    // 不透明字符串 ID
	Title        string
	Body         string
	PublishedAt  time.Time
	SourceDomain string    // 来源域名，feed 装配的 source-cap 以此为键
	Topics       []string  // 话题集合，顺序无意义
	Credibility  float64   // 可信度评分，[0, 100]
	Embedding    []float64 // 语义向量，维度约定为 EmbeddingDim
}

// HasFeatures 判断文章是否具备参与召回/排序的特征。
// 缺 Embedding 或 Credibility 未回填（0 视为未回填以外的合法值，这里以
// Embedding 为准）的文章在候选生成阶段被排除，而不是用默认值参与排序。
func (a *Article) HasFeatures() bool {
	if a == nil {
		return false
	}
	return len(a.Embedding) > 0
}

// AgeHours 返回文章发布至 now 的小时数，未来时间按 0 计。
func (a *Article) AgeHours(now time.Time) float64 {
	if a == nil || a.PublishedAt.IsZero() {
		return 0
	}
	age := now.Sub(a.PublishedAt).Hours()
	if age < 0 {
		return 0
	}
	return age
}

// HasTopic 判断文章是否带有指定话题。
func (a *Article) HasTopic(topic string) bool {
	if a == nil {
		return false
	}
	for _, t := range a.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// ArticleFeatures 是特征存储返回的单篇文章特征记录（只读路径）。
type ArticleFeatures struct {
	ArticleID    string
	Embedding    []float64
	Credibility  float64
	Topics       []string
	SourceDomain string
	PublishedAt  time.Time
}

// Complete 判断特征记录是否完整（可参与排序）。
func (f *ArticleFeatures) Complete() bool {
	return f != nil && len(f.Embedding) > 0
}
