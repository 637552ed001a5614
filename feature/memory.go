package feature

import (
	"context"
	"sync"

	"github.com/rushteam/newsrec/core"
)

// MemoryProvider 是内存实现的特征提供者，用于测试/开发/原型。
type MemoryProvider struct {
	mu       sync.RWMutex
	profiles map[string]*core.UserProfile
	features map[string]*core.ArticleFeatures
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		profiles: make(map[string]*core.UserProfile),
		features: make(map[string]*core.ArticleFeatures),
	}
}

var _ Provider = (*MemoryProvider)(nil)

func (p *MemoryProvider) Name() string { return "memory" }

// PutProfile 写入画像（同一 user id 覆盖：每用户至多一份）。
func (p *MemoryProvider) PutProfile(profile *core.UserProfile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiles[profile.UserID] = profile
}

// PutArticleFeatures 写入文章特征。
func (p *MemoryProvider) PutArticleFeatures(f *core.ArticleFeatures) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.features[f.ArticleID] = f
}

func (p *MemoryProvider) GetUserProfile(ctx context.Context, userID string) (*core.UserProfile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	profile, ok := p.profiles[userID]
	if !ok {
		return nil, core.ErrProfileNotFound
	}
	return profile, nil
}

func (p *MemoryProvider) BatchGetArticleFeatures(ctx context.Context, articleIDs []string) (map[string]*core.ArticleFeatures, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	result := make(map[string]*core.ArticleFeatures, len(articleIDs))
	for _, id := range articleIDs {
		if f, ok := p.features[id]; ok {
			result[id] = f
		}
	}
	return result, nil
}
