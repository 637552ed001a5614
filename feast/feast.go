// Package feast 提供基于 Feast Feature Store 官方 Go SDK 的特征提供者。
//
// Feast 是一个开源 Feature Store：离线特征用于训练，在线特征用于实时预测。
// newsrec 只消费在线路径：用户画像与文章特征由离线管线物化到 Feast
// Online Store，这里通过 gRPC Feature Server 读取。
//
// 参考：https://github.com/feast-dev/feast
package feast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/newsrec/core"
)

// 特征视图与字段约定（离线物化管线保持一致）。
const (
	userView    = "user_profile"
	articleView = "article_features"

	featPreferredTopics = userView + ":preferred_topics" // JSON string
	featLanguage        = userView + ":language"
	featSummaryLength   = userView + ":summary_length"

	featEmbedding   = articleView + ":embedding"     // JSON string
	featCredibility = articleView + ":credibility"   // double
	featTopics      = articleView + ":topics"        // JSON string
	featDomain      = articleView + ":source_domain" // string
	featPublishedAt = articleView + ":published_at"  // RFC3339 string
)

// Provider 实现 feature.Provider，从 Feast Online Store 读取画像与文章特征。
type Provider struct {
	client  *feastsdk.GrpcClient
	Project string
}

// NewProvider 连接 Feast Feature Server（gRPC，默认端口 6565）。
// token 非空时使用静态 Token 认证。
func NewProvider(host string, port int, project, token string) (*Provider, error) {
	if port == 0 {
		port = 6565
	}
	var client *feastsdk.GrpcClient
	var err error
	if token != "" {
		security := feastsdk.SecurityConfig{
			EnableTLS:  false,
			Credential: feastsdk.NewStaticCredential(token),
		}
		client, err = feastsdk.NewSecureGrpcClient(host, port, security)
	} else {
		client, err = feastsdk.NewGrpcClient(host, port)
	}
	if err != nil {
		return nil, fmt.Errorf("connect feast %s:%d: %w", host, port, err)
	}
	return &Provider{client: client, Project: project}, nil
}

func (p *Provider) Name() string { return "feast" }

func (p *Provider) Close() error {
	p.client = nil
	return nil
}

func (p *Provider) getOnline(ctx context.Context, features []string, entity string, ids []string) ([]feastsdk.Row, error) {
	rows := make([]feastsdk.Row, len(ids))
	for i, id := range ids {
		rows[i] = feastsdk.Row{entity: feastsdk.StrVal(id)}
	}
	resp, err := p.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: features,
		Entities: rows,
		Project:  p.Project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}
	out := resp.Rows()
	if len(out) != len(ids) {
		return nil, fmt.Errorf("feast response row count mismatch: expected %d, got %d", len(ids), len(out))
	}
	return out, nil
}

// GetUserProfile 读取用户画像；Feast 无该实体的特征值时视为画像不存在。
func (p *Provider) GetUserProfile(ctx context.Context, userID string) (*core.UserProfile, error) {
	rows, err := p.getOnline(ctx,
		[]string{featPreferredTopics, featLanguage, featSummaryLength},
		"user_id", []string{userID})
	if err != nil {
		return nil, err
	}
	row := rows[0]

	topicsJSON := stringVal(row[featPreferredTopics])
	if topicsJSON == "" {
		return nil, core.ErrProfileNotFound
	}

	profile := core.NewUserProfile(userID)
	_ = json.Unmarshal([]byte(topicsJSON), &profile.PreferredTopics)
	profile.Prefs.Language = stringVal(row[featLanguage])
	profile.Prefs.Summary = core.SummaryLength(stringVal(row[featSummaryLength]))
	return profile, nil
}

// BatchGetArticleFeatures 批量读取文章特征，缺 embedding 的记录跳过。
func (p *Provider) BatchGetArticleFeatures(ctx context.Context, articleIDs []string) (map[string]*core.ArticleFeatures, error) {
	if len(articleIDs) == 0 {
		return map[string]*core.ArticleFeatures{}, nil
	}
	rows, err := p.getOnline(ctx,
		[]string{featEmbedding, featCredibility, featTopics, featDomain, featPublishedAt},
		"article_id", articleIDs)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*core.ArticleFeatures, len(articleIDs))
	for i, id := range articleIDs {
		row := rows[i]
		f := &core.ArticleFeatures{ArticleID: id}
		if embJSON := stringVal(row[featEmbedding]); embJSON != "" {
			_ = json.Unmarshal([]byte(embJSON), &f.Embedding)
		}
		f.Credibility = doubleVal(row[featCredibility])
		if topicsJSON := stringVal(row[featTopics]); topicsJSON != "" {
			_ = json.Unmarshal([]byte(topicsJSON), &f.Topics)
		}
		f.SourceDomain = stringVal(row[featDomain])
		if ts := stringVal(row[featPublishedAt]); ts != "" {
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				f.PublishedAt = parsed
			}
		}
		if f.Complete() {
			result[id] = f
		}
	}
	return result, nil
}

// stringVal 从 Feast Value 提取字符串，缺失/类型不符返回 ""。
func stringVal(v *feasttypes.Value) string {
	if v == nil {
		return ""
	}
	return v.GetStringVal()
}

// doubleVal 从 Feast Value 提取数值，兼容 double/float/int64。
func doubleVal(v *feasttypes.Value) float64 {
	if v == nil {
		return 0
	}
	if d := v.GetDoubleVal(); d != 0 {
		return d
	}
	if f := v.GetFloatVal(); f != 0 {
		return float64(f)
	}
	return float64(v.GetInt64Val())
}
