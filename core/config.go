package core

import "time"

// RankWeights 是启发式线性排序公式的权重。
// score = Relevance*relevance + Credibility*cred_norm + Recency*decay - Penalty*penalty
type RankWeights struct {
	Relevance   float64 `yaml:"relevance" json:"relevance"`
	Credibility float64 `yaml:"credibility" json:"credibility"`
	Recency     float64 `yaml:"recency" json:"recency"`
	Penalty     float64 `yaml:"penalty" json:"penalty"`
}

// MixWeights 是召回源配比（recency/trending/similarity/covisit）。
// 冷启动时 Similarity/CoVisit 份额由 recency+trending 均分吸收。
type MixWeights struct {
	Recency    float64 `yaml:"recency" json:"recency"`
	Trending   float64 `yaml:"trending" json:"trending"`
	Similarity float64 `yaml:"similarity" json:"similarity"`
	CoVisit    float64 `yaml:"covisit" json:"covisit"`
}

// Config 集中所有可调常量。这些数值是合理默认而非硬编码约定，
// 全部集中在这里以便调参。
type Config struct {
	PoolSize         int           // 候选池目标大小 N
	PoolCap          int           // 候选池硬上限
	PageSize         int           // Feed 页大小 M
	MaxPerDomain     int           // 最终页内单一来源域名上限
	RecencyWindow    time.Duration // recency 召回时间窗
	RecencyHalflife  time.Duration // recency 原始分衰减半衰期
	TrendingWindow   time.Duration // trending 统计窗口
	TrendingHalflife time.Duration // trending 衰减半衰期
	RankHalflife     time.Duration // 排序公式的时间衰减半衰期
	CentroidWindow   time.Duration // 质心取正反馈的回看窗口
	FeatureTimeout   time.Duration // 特征存储调用预算
	SourceTimeout    time.Duration // 单个召回源超时
	Rank             RankWeights
	Mix              MixWeights
}

// DefaultConfig 返回默认参数。
func DefaultConfig() Config {
	return Config{
		PoolSize:         200,
		PoolCap:          500,
		PageSize:         DefaultPageSize,
		MaxPerDomain:     3,
		RecencyWindow:    72 * time.Hour,
		RecencyHalflife:  24 * time.Hour,
		TrendingWindow:   24 * time.Hour,
		TrendingHalflife: 6 * time.Hour,
		RankHalflife:     48 * time.Hour,
		CentroidWindow:   30 * 24 * time.Hour,
		FeatureTimeout:   150 * time.Millisecond,
		SourceTimeout:    time.Second,
		Rank: RankWeights{
			Relevance:   0.5,
			Credibility: 0.2,
			Recency:     0.25,
			Penalty:     0.3,
		},
		Mix: MixWeights{
			Recency:    0.25,
			Trending:   0.25,
			Similarity: 0.25,
			CoVisit:    0.25,
		},
	}
}
