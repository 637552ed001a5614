package store

import (
	"context"
	"testing"

	"github.com/rushteam/newsrec/core"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	if _, err := m.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("missing key err = %v, want store NOT_FOUND", err)
	}

	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get = %q err %v", got, err)
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("deleted key err = %v, want store NOT_FOUND", err)
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	if err := m.BatchSet(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}); err != nil {
		t.Fatal(err)
	}
	got, err := m.BatchGet(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got["a"]) != "1" {
		t.Errorf("BatchGet = %v", got)
	}
}

func TestMemoryStoreZSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	for member, score := range map[string]float64{"low": 1, "high": 9, "mid": 5} {
		if err := m.ZAdd(ctx, "board", score, member); err != nil {
			t.Fatal(err)
		}
	}

	got, err := m.ZRange(ctx, "board", 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "high" || got[1] != "mid" {
		t.Errorf("ZRange = %v, want [high mid]", got)
	}

	score, err := m.ZScore(ctx, "board", "mid")
	if err != nil || score != 5 {
		t.Errorf("ZScore = %v err %v", score, err)
	}
	if _, err := m.ZScore(ctx, "board", "ghost"); !core.IsStoreNotFound(err) {
		t.Errorf("ghost member err = %v", err)
	}
}

func TestMemoryStoreHash(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	if err := m.HSet(ctx, "article:a1", "credibility", []byte("85")); err != nil {
		t.Fatal(err)
	}
	got, err := m.HGet(ctx, "article:a1", "credibility")
	if err != nil || string(got) != "85" {
		t.Errorf("HGet = %q err %v", got, err)
	}

	all, err := m.HGetAll(ctx, "article:a1")
	if err != nil || len(all) != 1 {
		t.Errorf("HGetAll = %v err %v", all, err)
	}
}
