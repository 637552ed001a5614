package config

import (
	"testing"

	"github.com/rushteam/newsrec/pipeline"
)

func TestDefaultFactoryBuildsAllNodeTypes(t *testing.T) {
	f := DefaultFactory(Deps{})

	tests := []struct {
		nodeType string
		config   map[string]any
		kind     pipeline.Kind
	}{
		{"recall.generator", map[string]any{"pool_size": 100}, pipeline.KindRecall},
		{"filter.chain", map[string]any{"topic": true, "exposed": false}, pipeline.KindFilter},
		{"rank.linear", map[string]any{"w_relevance": 0.6}, pipeline.KindRank},
		{"rank.lr", map[string]any{"weights": map[string]any{"ctr": 1.5}, "bias": 0.1}, pipeline.KindRank},
		{"rerank.mmr", map[string]any{"page_size": 10}, pipeline.KindReRank},
		{"rerank.topn", map[string]any{"n": 5}, pipeline.KindReRank},
		{"feed.assembler", map[string]any{"max_per_domain": 2}, pipeline.KindAssemble},
	}
	for _, tt := range tests {
		t.Run(tt.nodeType, func(t *testing.T) {
			node, err := f.Build(tt.nodeType, tt.config)
			if err != nil {
				t.Fatal(err)
			}
			if node.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", node.Kind(), tt.kind)
			}
		})
	}
}

func TestDefaultFactoryRejectsBadRule(t *testing.T) {
	f := DefaultFactory(Deps{})
	_, err := f.Build("filter.chain", map[string]any{
		"rules": []any{`item.score <`},
	})
	if err == nil {
		t.Fatal("invalid CEL rule should fail node build")
	}
}

func TestBuildPipelineFromConfig(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Name = "feed"
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{
		{Type: "recall.generator"},
		{Type: "filter.chain"},
		{Type: "rank.linear"},
		{Type: "rerank.mmr"},
		{Type: "feed.assembler"},
	}

	p, err := cfg.BuildPipeline(DefaultFactory(Deps{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Nodes) != 5 {
		t.Errorf("pipeline nodes = %d, want 5", len(p.Nodes))
	}
}
