package pipeline

import (
	"context"
	"testing"

	"github.com/rushteam/newsrec/core"
)

type appendNode struct {
	id string
}

func (n *appendNode) Name() string { return "test." + n.id }

func (n *appendNode) Kind() Kind { return KindPostProcess }

func (n *appendNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return append(items, core.NewItem(n.id)), nil
}

func TestPipelineRunsNodesInOrder(t *testing.T) {
	p := &Pipeline{Nodes: []Node{&appendNode{id: "a"}, &appendNode{id: "b"}}}
	rctx := core.NewRecommendContext("u1")

	got, err := p.Run(context.Background(), rctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("result = %v, want nodes applied in order", got)
	}
}

func TestPipelineCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Pipeline{Nodes: []Node{&appendNode{id: "a"}}}
	if _, err := p.Run(ctx, core.NewRecommendContext("u1"), nil); err == nil {
		t.Fatal("cancelled context should abort the pipeline")
	}
}

func TestBuildPipelineUnknownNode(t *testing.T) {
	cfg := &Config{}
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "does.not.exist"}}

	if _, err := cfg.BuildPipeline(NewNodeFactory()); err == nil {
		t.Fatal("unknown node type should fail the build")
	}
}
