package feature

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/newsrec/core"
)

// slowProvider 阻塞到 deadline，模拟特征存储抖动。
type slowProvider struct{}

func (p *slowProvider) Name() string { return "slow" }

func (p *slowProvider) GetUserProfile(ctx context.Context, userID string) (*core.UserProfile, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (p *slowProvider) BatchGetArticleFeatures(ctx context.Context, ids []string) (map[string]*core.ArticleFeatures, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestProfileNotFoundFallsBackToAnonymous(t *testing.T) {
	svc := NewService(NewMemoryProvider())
	profile, err := svc.GetUserProfile(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("NOT_FOUND must not surface as error: %v", err)
	}
	if !profile.Anonymous {
		t.Error("missing profile should degrade to anonymous")
	}
	if profile.UserID != "ghost" {
		t.Errorf("user id = %q", profile.UserID)
	}
}

func TestProfileFound(t *testing.T) {
	provider := NewMemoryProvider()
	p := core.NewUserProfile("u1")
	p.PreferredTopics = []string{"tech"}
	provider.PutProfile(p)

	svc := NewService(provider)
	got, err := svc.GetUserProfile(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Anonymous || len(got.PreferredTopics) != 1 {
		t.Errorf("profile = %+v", got)
	}
}

func TestTimeoutSurfacesDomainError(t *testing.T) {
	svc := &Service{Provider: &slowProvider{}, Timeout: 5 * time.Millisecond}

	if _, err := svc.GetUserProfile(context.Background(), "u1"); !errors.Is(err, core.ErrFeatureTimeout) {
		t.Errorf("profile read err = %v, want ErrFeatureTimeout", err)
	}
	if _, err := svc.BatchGetArticleFeatures(context.Background(), []string{"a1"}); !errors.Is(err, core.ErrFeatureTimeout) {
		t.Errorf("batch read err = %v, want ErrFeatureTimeout", err)
	}
}

func TestBatchPartialResult(t *testing.T) {
	provider := NewMemoryProvider()
	provider.PutArticleFeatures(&core.ArticleFeatures{
		ArticleID:   "a1",
		Embedding:   []float64{1},
		Credibility: 80,
		PublishedAt: time.Now(),
	})
	// a2 缺 embedding：Complete 不成立，按缺失处理
	provider.PutArticleFeatures(&core.ArticleFeatures{
		ArticleID:   "a2",
		Credibility: 60,
		PublishedAt: time.Now(),
	})

	svc := NewService(provider)
	result, err := svc.BatchGetArticleFeatures(context.Background(), []string{"a1", "a2", "a3"})
	if err != nil {
		t.Fatalf("partial miss must not error: %v", err)
	}
	if len(result.Features) != 1 || result.Features["a1"] == nil {
		t.Errorf("features = %v", result.Features)
	}
	if len(result.Missing) != 2 {
		t.Errorf("missing = %v, want [a2 a3]", result.Missing)
	}
	if !result.Partial() {
		t.Error("Partial() should be true")
	}
	if got := svc.Monitor.MissingCount(); got != 2 {
		t.Errorf("monitor missing count = %d, want 2", got)
	}
}

func TestBatchEmptyInput(t *testing.T) {
	svc := NewService(NewMemoryProvider())
	result, err := svc.BatchGetArticleFeatures(context.Background(), nil)
	if err != nil || result.Partial() {
		t.Errorf("empty batch: result=%v err=%v", result, err)
	}
}
