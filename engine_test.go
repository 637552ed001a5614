package newsrec

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/newsrec/config"
	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/feature"
	"github.com/rushteam/newsrec/pipeline"
	"github.com/rushteam/newsrec/recall"
	"github.com/rushteam/newsrec/vector"
)

type memCorpus struct {
	articles []*core.Article
}

func (c *memCorpus) Name() string { return "mem" }

func (c *memCorpus) ListRecent(_ context.Context, since time.Time, limit int) ([]*core.Article, error) {
	var out []*core.Article
	for _, a := range c.articles {
		if a.PublishedAt.After(since) {
			out = append(out, a)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (c *memCorpus) GetArticles(_ context.Context, ids []string) ([]*core.Article, error) {
	var out []*core.Article
	for _, a := range c.articles {
		for _, id := range ids {
			if a.ID == id {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (c *memCorpus) ListRecentEvents(context.Context, time.Time) ([]*core.InteractionEvent, error) {
	return nil, nil
}

func testCorpus(now time.Time) *memCorpus {
	return &memCorpus{articles: []*core.Article{
		{ID: "A", Title: "chip", SourceDomain: "t1.com", PublishedAt: now.Add(-time.Hour),
			Topics: []string{"tech"}, Credibility: 90, Embedding: []float64{1, 0}},
		{ID: "B", Title: "cup", SourceDomain: "s1.com", PublishedAt: now.Add(-2 * time.Hour),
			Topics: []string{"sports"}, Credibility: 40, Embedding: []float64{0, 1}},
		{ID: "C", Title: "runtime", SourceDomain: "t2.com", PublishedAt: now.Add(-3 * time.Hour),
			Topics: []string{"tech"}, Credibility: 70, Embedding: []float64{0.9, 0.1}},
	}}
}

func testEngine(t *testing.T, provider *feature.MemoryProvider) *Engine {
	t.Helper()
	now := time.Now()
	features := feature.NewService(provider)

	deps := config.Deps{
		Corpus:   testCorpus(now),
		Features: features,
		Index:    vector.NewMemoryIndex(),
		Trending: &core.SnapshotHolder[recall.TrendingScores]{},
	}

	cfg := &pipeline.Config{}
	cfg.Pipeline.Name = "feed"
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{
		{Type: "recall.generator"},
		{Type: "filter.chain"},
		{Type: "rank.linear"},
		{Type: "rerank.mmr"},
		{Type: "feed.assembler"},
	}
	p, err := cfg.BuildPipeline(config.DefaultFactory(deps))
	if err != nil {
		t.Fatal(err)
	}
	return NewEngine(features, nil, p)
}

func TestRecommendRejectsInvalidDiversity(t *testing.T) {
	engine := testEngine(t, feature.NewMemoryProvider())
	_, err := engine.Recommend(context.Background(), &Request{UserID: "u1", Diversity: 1.4})
	if !core.IsInvalidParameter(err) {
		t.Fatalf("err = %v, want INVALID_PARAMETER", err)
	}
}

// 零历史用户：语料非空时必须仍有 Feed（冷启动兜底）。
func TestRecommendColdStartNonEmpty(t *testing.T) {
	engine := testEngine(t, feature.NewMemoryProvider())
	page, err := engine.Recommend(context.Background(), &Request{UserID: "ghost", PageSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) == 0 {
		t.Fatal("cold-start user got empty feed from non-empty corpus")
	}
	if !page.Diag.ColdStart {
		t.Error("cold-start flag not surfaced in diagnostic")
	}
	for i, it := range page.Items {
		if it.Rank != i+1 {
			t.Errorf("rank %d = %d", i, it.Rank)
		}
		if it.SourceTag == "" {
			t.Errorf("item %s missing source tag", it.ArticleID)
		}
	}
}

// tech 偏好 + λ=0：默认公式下期望 A, C, B。
func TestRecommendTechUserOrder(t *testing.T) {
	provider := feature.NewMemoryProvider()
	p := core.NewUserProfile("u1")
	p.PreferredTopics = []string{"tech"}
	provider.PutProfile(p)

	engine := testEngine(t, provider)
	page, err := engine.Recommend(context.Background(), &Request{UserID: "u1", PageSize: 3})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"A", "C", "B"}
	if len(page.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(page.Items))
	}
	for i, id := range want {
		if page.Items[i].ArticleID != id {
			t.Fatalf("position %d = %s, want %s (%+v)", i, page.Items[i].ArticleID, id, page.Items)
		}
	}
}

// λ=1、M=2：多样性把 B 提到 C 之前。
func TestRecommendDiversityPromotes(t *testing.T) {
	provider := feature.NewMemoryProvider()
	p := core.NewUserProfile("u1")
	p.PreferredTopics = []string{"tech"}
	provider.PutProfile(p)

	engine := testEngine(t, provider)
	page, err := engine.Recommend(context.Background(), &Request{UserID: "u1", PageSize: 2, Diversity: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(page.Items))
	}
	if page.Items[0].ArticleID != "A" || page.Items[1].ArticleID != "B" {
		t.Errorf("order = [%s %s], want [A B]",
			page.Items[0].ArticleID, page.Items[1].ArticleID)
	}
}

func TestRecommendTopicFilter(t *testing.T) {
	engine := testEngine(t, feature.NewMemoryProvider())
	page, err := engine.Recommend(context.Background(), &Request{
		UserID:   "u1",
		PageSize: 10,
		Topics:   []string{"sports"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.Items[0].ArticleID != "B" {
		t.Fatalf("topic-filtered feed = %+v, want only B", page.Items)
	}
}
