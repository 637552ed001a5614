// Package config 把 YAML/JSON 管线配置装配为可执行 Pipeline：
// 注册全部内置 Node 构建器，注入存储/特征/索引等基础设施依赖。
package config

import (
	"time"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/feed"
	"github.com/rushteam/newsrec/filter"
	"github.com/rushteam/newsrec/model"
	"github.com/rushteam/newsrec/pipeline"
	"github.com/rushteam/newsrec/pkg/conv"
	"github.com/rushteam/newsrec/rank"
	"github.com/rushteam/newsrec/recall"
	"github.com/rushteam/newsrec/rerank"
	"github.com/rushteam/newsrec/vector"
)

// Deps 是 Node 构建所需的基础设施依赖，由应用装配层注入。
// 任一依赖为 nil 时对应召回源/过滤器退化为空实现。
type Deps struct {
	Corpus       core.CorpusStore
	Interactions core.InteractionStore
	Features     core.FeatureService
	Index        vector.Index
	Store        core.KeyValueStore
	Trending     *core.SnapshotHolder[recall.TrendingScores]
}

// DefaultFactory 返回注册了全部内置 Node 的工厂。
//
// 支持的 node type 与配置项：
//
//	recall.generator: pool_size / pool_cap / source_timeout_ms /
//	                  mix_recency / mix_trending / mix_similarity / mix_covisit
//	filter.chain:     topic / exposed / rules（CEL 表达式列表）
//	rank.linear:      w_relevance / w_credibility / w_recency / w_penalty /
//	                  halflife_hours / max_per_domain
//	rerank.mmr:       page_size
//	rerank.topn:      n
//	feed.assembler:   max_per_domain
func DefaultFactory(deps Deps) *pipeline.NodeFactory {
	f := pipeline.NewNodeFactory()
	cfg := core.DefaultConfig()

	f.Register("recall.generator", func(c map[string]any) (pipeline.Node, error) {
		gen := &recall.Generator{
			Recency:    &recall.Recency{Corpus: deps.Corpus, Window: cfg.RecencyWindow, Halflife: cfg.RecencyHalflife},
			Trending:   &recall.Trending{Snapshot: deps.Trending, Store: deps.Store},
			Similarity: &recall.Similarity{Index: deps.Index},
			CoVisit:    &recall.CoVisit{Interactions: deps.Interactions},
			Features:   deps.Features,
			Fanout: &recall.Fanout{
				Timeout: time.Duration(conv.ConfigGetInt64(c, "source_timeout_ms", cfg.SourceTimeout.Milliseconds())) * time.Millisecond,
			},
			PoolSize: int(conv.ConfigGetInt64(c, "pool_size", int64(cfg.PoolSize))),
			PoolCap:  int(conv.ConfigGetInt64(c, "pool_cap", int64(cfg.PoolCap))),
			Mix: core.MixWeights{
				Recency:    conv.ConfigGetFloat64(c, "mix_recency", cfg.Mix.Recency),
				Trending:   conv.ConfigGetFloat64(c, "mix_trending", cfg.Mix.Trending),
				Similarity: conv.ConfigGetFloat64(c, "mix_similarity", cfg.Mix.Similarity),
				CoVisit:    conv.ConfigGetFloat64(c, "mix_covisit", cfg.Mix.CoVisit),
			},
		}
		return gen, nil
	})

	f.Register("filter.chain", func(c map[string]any) (pipeline.Node, error) {
		var filters []filter.Filter
		if conv.ConfigGet(c, "topic", true) {
			filters = append(filters, &filter.TopicFilter{})
		}
		if conv.ConfigGet(c, "exposed", true) {
			filters = append(filters, &filter.ExposedFilter{Store: deps.Store})
		}
		for _, expr := range conv.SliceAnyToString(c["rules"]) {
			rf, err := filter.NewRuleFilter(expr)
			if err != nil {
				return nil, err
			}
			filters = append(filters, rf)
		}
		return filter.NewNode(filters...), nil
	})

	f.Register("rank.linear", func(c map[string]any) (pipeline.Node, error) {
		m := &model.Heuristic{
			Weights: core.RankWeights{
				Relevance:   conv.ConfigGetFloat64(c, "w_relevance", cfg.Rank.Relevance),
				Credibility: conv.ConfigGetFloat64(c, "w_credibility", cfg.Rank.Credibility),
				Recency:     conv.ConfigGetFloat64(c, "w_recency", cfg.Rank.Recency),
				Penalty:     conv.ConfigGetFloat64(c, "w_penalty", cfg.Rank.Penalty),
			},
			Halflife: time.Duration(conv.ConfigGetFloat64(c, "halflife_hours", cfg.RankHalflife.Hours()) * float64(time.Hour)),
		}
		node := rank.NewNode(m)
		node.PenaltyWeight = m.Weights.Penalty
		node.MaxPerDomain = int(conv.ConfigGetInt64(c, "max_per_domain", 2))
		return node, nil
	})

	f.Register("rank.lr", func(c map[string]any) (pipeline.Node, error) {
		weights := conv.MapToFloat64(conv.ConfigGet(c, "weights", map[string]any{}))
		bias := conv.ConfigGetFloat64(c, "bias", 0)
		return rank.NewNode(model.NewLR(weights, bias)), nil
	})

	f.Register("rerank.mmr", func(c map[string]any) (pipeline.Node, error) {
		return rerank.NewMMR(int(conv.ConfigGetInt64(c, "page_size", int64(cfg.PageSize)))), nil
	})

	f.Register("rerank.topn", func(c map[string]any) (pipeline.Node, error) {
		return rerank.NewTopN(int(conv.ConfigGetInt64(c, "n", int64(cfg.PageSize)))), nil
	})

	f.Register("feed.assembler", func(c map[string]any) (pipeline.Node, error) {
		a := feed.NewAssembler()
		a.MaxPerDomain = int(conv.ConfigGetInt64(c, "max_per_domain", int64(cfg.MaxPerDomain)))
		return a, nil
	})

	return f
}
