package feature

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rushteam/newsrec/core"
)

// StoreProvider 是基于 core.KeyValueStore 的特征提供者（Redis/Memory 均可）。
//
// 存储布局：
//   - 用户画像：key "profile:{userID}"，JSON
//   - 文章特征：hash "article:{articleID}"，字段见 field* 常量
type StoreProvider struct {
	Store core.KeyValueStore

	// ProfilePrefix 默认 "profile"。
	ProfilePrefix string

	// ArticlePrefix 默认 "article"。
	ArticlePrefix string
}

const (
	fieldEmbedding   = "embedding"
	fieldCredibility = "credibility"
	fieldTopics      = "topics"
	fieldDomain      = "source_domain"
	fieldPublishedAt = "published_at"
)

var _ Provider = (*StoreProvider)(nil)

func (p *StoreProvider) Name() string {
	if p.Store == nil {
		return "kv"
	}
	return "kv." + p.Store.Name()
}

func (p *StoreProvider) profileKey(userID string) string {
	prefix := p.ProfilePrefix
	if prefix == "" {
		prefix = "profile"
	}
	return prefix + ":" + userID
}

func (p *StoreProvider) articleKey(articleID string) string {
	prefix := p.ArticlePrefix
	if prefix == "" {
		prefix = "article"
	}
	return prefix + ":" + articleID
}

// storedProfile 是画像的存储形态。
type storedProfile struct {
	UserID          string   `json:"user_id"`
	PreferredTopics []string `json:"preferred_topics"`
	AudioEnabled    bool     `json:"audio_enabled"`
	SummaryLength   string   `json:"summary_length"`
	Language        string   `json:"language"`
	Notification    string   `json:"notification_frequency"`
	RecentArticles  []string `json:"recent_articles"`
}

func (p *StoreProvider) GetUserProfile(ctx context.Context, userID string) (*core.UserProfile, error) {
	data, err := p.Store.Get(ctx, p.profileKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.ErrProfileNotFound
		}
		return nil, err
	}

	var sp storedProfile
	if err := json.Unmarshal(data, &sp); err != nil {
		return nil, fmt.Errorf("decode profile %q: %w", userID, err)
	}

	profile := core.NewUserProfile(userID)
	profile.PreferredTopics = sp.PreferredTopics
	profile.RecentArticles = sp.RecentArticles
	profile.Prefs = core.ReadingPrefs{
		AudioEnabled: sp.AudioEnabled,
		Summary:      core.SummaryLength(sp.SummaryLength),
		Language:     sp.Language,
		Notification: core.NotificationFrequency(sp.Notification),
	}
	return profile, nil
}

// PutUserProfile 写入画像（同一 user id 覆盖写，保证至多一份）。
// 写路径给离线画像构建任务使用，不在请求热路径。
func (p *StoreProvider) PutUserProfile(ctx context.Context, profile *core.UserProfile) error {
	sp := storedProfile{
		UserID:          profile.UserID,
		PreferredTopics: profile.PreferredTopics,
		AudioEnabled:    profile.Prefs.AudioEnabled,
		SummaryLength:   string(profile.Prefs.Summary),
		Language:        profile.Prefs.Language,
		Notification:    string(profile.Prefs.Notification),
		RecentArticles:  profile.RecentArticles,
	}
	data, err := json.Marshal(sp)
	if err != nil {
		return fmt.Errorf("encode profile %q: %w", profile.UserID, err)
	}
	return p.Store.Set(ctx, p.profileKey(profile.UserID), data)
}

func (p *StoreProvider) BatchGetArticleFeatures(ctx context.Context, articleIDs []string) (map[string]*core.ArticleFeatures, error) {
	result := make(map[string]*core.ArticleFeatures, len(articleIDs))
	for _, id := range articleIDs {
		fields, err := p.Store.HGetAll(ctx, p.articleKey(id))
		if err != nil {
			if core.IsStoreNotFound(err) {
				continue
			}
			return nil, err
		}
		f := decodeArticleFeatures(id, fields)
		if f.Complete() {
			result[id] = f
		}
	}
	return result, nil
}

// PutArticleFeatures 写入文章特征 hash（NLP 管线回填路径）。
func (p *StoreProvider) PutArticleFeatures(ctx context.Context, f *core.ArticleFeatures) error {
	key := p.articleKey(f.ArticleID)
	embedding, err := json.Marshal(f.Embedding)
	if err != nil {
		return fmt.Errorf("encode embedding %q: %w", f.ArticleID, err)
	}
	topics, err := json.Marshal(f.Topics)
	if err != nil {
		return fmt.Errorf("encode topics %q: %w", f.ArticleID, err)
	}
	if err := p.Store.HSet(ctx, key, fieldEmbedding, embedding); err != nil {
		return err
	}
	if err := p.Store.HSet(ctx, key, fieldCredibility, []byte(fmt.Sprintf("%g", f.Credibility))); err != nil {
		return err
	}
	if err := p.Store.HSet(ctx, key, fieldTopics, topics); err != nil {
		return err
	}
	if err := p.Store.HSet(ctx, key, fieldDomain, []byte(f.SourceDomain)); err != nil {
		return err
	}
	return p.Store.HSet(ctx, key, fieldPublishedAt, []byte(f.PublishedAt.UTC().Format(timeLayout)))
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func decodeArticleFeatures(id string, fields map[string][]byte) *core.ArticleFeatures {
	f := &core.ArticleFeatures{ArticleID: id}
	if v, ok := fields[fieldEmbedding]; ok {
		_ = json.Unmarshal(v, &f.Embedding)
	}
	if v, ok := fields[fieldCredibility]; ok {
		_, _ = fmt.Sscanf(string(v), "%g", &f.Credibility)
	}
	if v, ok := fields[fieldTopics]; ok {
		_ = json.Unmarshal(v, &f.Topics)
	}
	if v, ok := fields[fieldDomain]; ok {
		f.SourceDomain = string(v)
	}
	if v, ok := fields[fieldPublishedAt]; ok {
		if ts, err := parseTime(string(v)); err == nil {
			f.PublishedAt = ts
		}
	}
	return f
}
