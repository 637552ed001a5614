package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSnapshotHolderSwap(t *testing.T) {
	var h SnapshotHolder[int]
	if h.Load() != nil {
		t.Fatal("empty holder should return nil")
	}

	v := 42
	h.Swap(&v)
	if got := h.Load(); got == nil || *got != 42 {
		t.Fatalf("Load() = %v, want 42", got)
	}
}

func TestSnapshotHolderConcurrentReaders(t *testing.T) {
	var h SnapshotHolder[[]string]
	h.Swap(&[]string{"a"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				snap := h.Load()
				if snap == nil || len(*snap) == 0 {
					t.Error("reader observed empty snapshot")
					return
				}
			}
		}()
	}
	for i := 0; i < 100; i++ {
		h.Swap(&[]string{"a", "b"})
	}
	wg.Wait()
}

func TestRefresherKeepsPreviousOnFailure(t *testing.T) {
	var h SnapshotHolder[int]
	calls := 0
	r := &Refresher{
		Name:     "test",
		Interval: 5 * time.Millisecond,
		Build: func(ctx context.Context) error {
			calls++
			if calls == 1 {
				v := 1
				h.Swap(&v)
				return nil
			}
			return context.DeadlineExceeded
		},
	}
	r.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	r.Stop()

	if got := h.Load(); got == nil || *got != 1 {
		t.Fatalf("failed rebuild should keep previous snapshot, got %v", got)
	}
	if calls < 2 {
		t.Errorf("expected periodic rebuild attempts, got %d calls", calls)
	}
}
