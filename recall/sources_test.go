package recall

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/newsrec/core"
)

type fakeInteractions struct {
	userArticles map[string]map[string]float64 // userID -> articleID -> weight
	coVisits     map[string]map[string]float64 // seed articleID -> other -> weight
}

func (f *fakeInteractions) Name() string { return "fake" }

func (f *fakeInteractions) GetUserArticles(_ context.Context, userID string, _ time.Time) (map[string]float64, error) {
	return f.userArticles[userID], nil
}

func (f *fakeInteractions) GetCoInteracted(_ context.Context, articleID string, _ time.Time, _ int) (map[string]float64, error) {
	return f.coVisits[articleID], nil
}

func TestRecencyScoresDecay(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	corpus := &fakeCorpus{articles: []*core.Article{
		{ID: "new", PublishedAt: now.Add(-time.Hour), Embedding: []float64{1}, Credibility: 50},
		{ID: "old", PublishedAt: now.Add(-48 * time.Hour), Embedding: []float64{1}, Credibility: 50},
		{ID: "noembed", PublishedAt: now.Add(-time.Hour), Credibility: 50},
	}}
	src := &Recency{Corpus: corpus, Now: func() time.Time { return now }}

	got, err := src.Recall(context.Background(), anonCtx(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("recall = %d items, want 2 (no-embedding article excluded)", len(got))
	}
	if got[0].ID != "new" || got[0].Score <= got[1].Score {
		t.Errorf("newer article should score higher: %s=%v vs %s=%v",
			got[0].ID, got[0].Score, got[1].ID, got[1].Score)
	}
	if got[0].SourceDomain() == "" && len(got[0].Embedding()) == 0 {
		t.Error("recency items must carry article meta")
	}
}

func TestSimilarityColdStartEmpty(t *testing.T) {
	src := &Similarity{Index: nil}
	rctx := anonCtx()
	got, err := src.Recall(context.Background(), rctx, 5)
	if err != nil || len(got) != 0 {
		t.Errorf("no centroid should return empty, got %v err %v", got, err)
	}
}

func TestCoVisitAggregatesSeeds(t *testing.T) {
	rctx := core.NewRecommendContext("u1")
	rctx.User = core.NewUserProfile("u1")
	rctx.User.RecentArticles = []string{"s1", "s2"}

	src := &CoVisit{Interactions: &fakeInteractions{coVisits: map[string]map[string]float64{
		"s1": {"x": 2, "y": 1, "s2": 5}, // 已读 s2 不能再出现
		"s2": {"x": 3},
	}}}

	got, err := src.Recall(context.Background(), rctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("recall = %v, want [x y]", got)
	}
	if got[0].ID != "x" || got[0].Score != 1 {
		t.Errorf("top = %s score=%v, want x with normalized 1", got[0].ID, got[0].Score)
	}
	if got[1].ID != "y" {
		t.Errorf("second = %s, want y", got[1].ID)
	}
}

func TestCoVisitNoHistoryEmpty(t *testing.T) {
	src := &CoVisit{Interactions: &fakeInteractions{}}
	got, err := src.Recall(context.Background(), anonCtx(), 5)
	if err != nil || len(got) != 0 {
		t.Errorf("no history should return empty, got %v err %v", got, err)
	}
}

func TestCentroidBuilderWeightedMean(t *testing.T) {
	interactions := &fakeInteractions{userArticles: map[string]map[string]float64{
		"u1": {"a1": 3, "a2": 1},
	}}
	features := &fakeFeatures{features: map[string]*core.ArticleFeatures{
		"a1": {ArticleID: "a1", Embedding: []float64{1, 0}, Credibility: 50, PublishedAt: time.Now()},
		"a2": {ArticleID: "a2", Embedding: []float64{0, 1}, Credibility: 50, PublishedAt: time.Now()},
	}}
	b := &CentroidBuilder{Interactions: interactions, Features: features}

	profile := core.NewUserProfile("u1")
	if err := b.Build(context.Background(), profile); err != nil {
		t.Fatal(err)
	}
	if !profile.HasCentroid() {
		t.Fatal("centroid not built")
	}
	if profile.Centroid[0] != 0.75 || profile.Centroid[1] != 0.25 {
		t.Errorf("centroid = %v, want [0.75 0.25]", profile.Centroid)
	}
	if len(profile.RecentArticles) != 2 || profile.RecentArticles[0] != "a1" {
		t.Errorf("recent articles = %v, want weight-ordered [a1 a2]", profile.RecentArticles)
	}
}

func TestCentroidBuilderNoHistory(t *testing.T) {
	b := &CentroidBuilder{
		Interactions: &fakeInteractions{},
		Features:     &fakeFeatures{},
	}
	profile := core.NewUserProfile("u1")
	if err := b.Build(context.Background(), profile); err != nil {
		t.Fatalf("no history is not an error: %v", err)
	}
	if profile.HasCentroid() {
		t.Error("centroid should stay empty for cold-start user")
	}
}
