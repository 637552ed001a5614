package core

import (
	"testing"
	"time"

	"github.com/rushteam/newsrec/pkg/utils"
)

func TestItemLabelMerge(t *testing.T) {
	it := NewItem("a1")
	it.PutLabel(LabelRecallSource, utils.Label{Value: "recency", Source: "recall"})
	it.PutLabel(LabelRecallSource, utils.Label{Value: "trending", Source: "recall"})

	lbl, ok := it.GetLabel(LabelRecallSource)
	if !ok {
		t.Fatal("label not found after put")
	}
	if lbl.Value != "recency|trending" {
		t.Errorf("merged value = %q, want %q", lbl.Value, "recency|trending")
	}
	if got := it.RecallSource(); got != "recency" {
		t.Errorf("RecallSource() = %q, want first segment %q", got, "recency")
	}
}

func TestItemMetaAccessors(t *testing.T) {
	published := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	a := &Article{
		ID:           "a1",
		Title:        "t",
		SourceDomain: "news.example.com",
		PublishedAt:  published,
		Topics:       []string{"tech", "ai"},
		Credibility:  85,
		Embedding:    []float64{0.1, 0.2},
	}

	it := NewItemFromArticle(a)
	if got := it.SourceDomain(); got != "news.example.com" {
		t.Errorf("SourceDomain() = %q", got)
	}
	if got := it.Credibility(); got != 85 {
		t.Errorf("Credibility() = %v", got)
	}
	if got := it.PublishedAt(); !got.Equal(published) {
		t.Errorf("PublishedAt() = %v", got)
	}
	if got := it.Topics(); len(got) != 2 || got[0] != "tech" {
		t.Errorf("Topics() = %v", got)
	}
	if got := it.Embedding(); len(got) != 2 {
		t.Errorf("Embedding() = %v", got)
	}
}

func TestCopyMetaFromKeepsExisting(t *testing.T) {
	it := NewItem("a1")
	it.Meta[MetaCredibility] = 99.0

	it.CopyMetaFrom(&ArticleFeatures{
		ArticleID:   "a1",
		Credibility: 10,
		Embedding:   []float64{1},
	})
	if got := it.Credibility(); got != 99 {
		t.Errorf("existing meta overwritten: credibility = %v, want 99", got)
	}
	if got := it.Embedding(); len(got) != 1 {
		t.Errorf("missing meta not filled: embedding = %v", got)
	}
}
