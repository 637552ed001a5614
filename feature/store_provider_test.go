package feature

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/store"
)

func TestStoreProviderProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()
	p := &StoreProvider{Store: kv}

	profile := core.NewUserProfile("u1")
	profile.PreferredTopics = []string{"tech", "ai"}
	profile.RecentArticles = []string{"a1"}
	profile.Prefs.Summary = core.SummaryShort
	if err := p.PutUserProfile(ctx, profile); err != nil {
		t.Fatal(err)
	}

	got, err := p.GetUserProfile(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.PreferredTopics) != 2 || got.PreferredTopics[0] != "tech" {
		t.Errorf("topics = %v", got.PreferredTopics)
	}
	if len(got.RecentArticles) != 1 || got.Prefs.Summary != core.SummaryShort {
		t.Errorf("profile = %+v", got)
	}
}

func TestStoreProviderProfileNotFound(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	p := &StoreProvider{Store: kv}

	if _, err := p.GetUserProfile(context.Background(), "ghost"); !errors.Is(err, core.ErrProfileNotFound) {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestStoreProviderArticleFeatures(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()
	p := &StoreProvider{Store: kv}

	published := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	if err := p.PutArticleFeatures(ctx, &core.ArticleFeatures{
		ArticleID:    "a1",
		Embedding:    []float64{0.5, 0.5},
		Credibility:  85,
		Topics:       []string{"tech"},
		SourceDomain: "news.example.com",
		PublishedAt:  published,
	}); err != nil {
		t.Fatal(err)
	}

	got, err := p.BatchGetArticleFeatures(ctx, []string{"a1", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("result = %v, want only a1", got)
	}
	f := got["a1"]
	if len(f.Embedding) != 2 || f.Credibility != 85 || f.SourceDomain != "news.example.com" {
		t.Errorf("features = %+v", f)
	}
	if !f.PublishedAt.Equal(published) {
		t.Errorf("published_at = %v, want %v", f.PublishedAt, published)
	}
}
