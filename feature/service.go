package feature

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rushteam/newsrec/core"
)

// Provider 是特征来源的抽象接口，采用策略模式。
// 不同的特征源（Memory、KV Store、SQLite、Feast）实现此接口。
//
// 错误约定：画像不存在返回 core.ErrProfileNotFound（由 Service 降级）；
// 文章特征缺失通过结果集缺项表达，不作为错误。
type Provider interface {
	// Name 返回提供者名称
	Name() string

	// GetUserProfile 获取用户画像
	GetUserProfile(ctx context.Context, userID string) (*core.UserProfile, error)

	// BatchGetArticleFeatures 批量获取文章特征，只返回特征完整的记录
	BatchGetArticleFeatures(ctx context.Context, articleIDs []string) (map[string]*core.ArticleFeatures, error)
}

// Service 是 core.FeatureService 的标准实现：在 Provider 之上叠加
// 时间预算、画像降级与缺失监控。
//
// 行为：
//   - 每次调用带 Timeout（默认 150ms）deadline；超时返回 TIMEOUT 领域错误，
//     由 Engine 降级候选源，不使整个请求失败
//   - 画像 NOT_FOUND：降级为匿名画像（零话题偏好、无质心），错误不透出
//   - 批量特征部分缺失：剔除并计入 Monitor，通过 FeatureResult.Missing 透出
type Service struct {
	Provider Provider

	// Timeout 是单次存储调用的时间预算，0 取 DefaultTimeout。
	Timeout time.Duration

	// Monitor 记录特征缺失率等指标，可为 nil。
	Monitor *Monitor

	// Logger 为空时使用 slog.Default()。
	Logger *slog.Logger
}

// DefaultTimeout 是特征存储调用的默认时间预算。
const DefaultTimeout = 150 * time.Millisecond

var _ core.FeatureService = (*Service)(nil)

// NewService 创建带默认预算的特征服务。
func NewService(provider Provider) *Service {
	return &Service{
		Provider: provider,
		Timeout:  DefaultTimeout,
		Monitor:  NewMonitor(),
	}
}

func (s *Service) Name() string {
	if s.Provider == nil {
		return "feature"
	}
	return "feature." + s.Provider.Name()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Service) budget(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// GetUserProfile 获取用户画像；NOT_FOUND 本地降级为匿名画像。
// 超时返回 core.ErrFeatureTimeout。
func (s *Service) GetUserProfile(ctx context.Context, userID string) (*core.UserProfile, error) {
	cctx, cancel := s.budget(ctx)
	defer cancel()

	profile, err := s.Provider.GetUserProfile(cctx, userID)
	if err == nil {
		return profile, nil
	}
	if core.IsNotFound(err) {
		// 匿名降级：不是错误，新用户的正常路径
		return core.AnonymousProfile(userID), nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(cctx.Err(), context.DeadlineExceeded) {
		s.logger().Warn("feature store deadline exceeded on profile read",
			"provider", s.Provider.Name(), "user_id", userID)
		return nil, core.ErrFeatureTimeout
	}
	return nil, err
}

// BatchGetArticleFeatures 批量获取文章特征。
// 部分缺失是常态：缺项进入 Missing 并计入监控，不作为错误返回。
func (s *Service) BatchGetArticleFeatures(ctx context.Context, articleIDs []string) (*core.FeatureResult, error) {
	result := &core.FeatureResult{Features: make(map[string]*core.ArticleFeatures, len(articleIDs))}
	if len(articleIDs) == 0 {
		return result, nil
	}

	cctx, cancel := s.budget(ctx)
	defer cancel()

	if s.Monitor != nil {
		s.Monitor.RecordBatch()
	}
	found, err := s.Provider.BatchGetArticleFeatures(cctx, articleIDs)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(cctx.Err(), context.DeadlineExceeded) {
			s.logger().Warn("feature store deadline exceeded on batch read",
				"provider", s.Provider.Name(), "batch", len(articleIDs))
			return nil, core.ErrFeatureTimeout
		}
		return nil, err
	}

	for _, id := range articleIDs {
		f, ok := found[id]
		if !ok || !f.Complete() {
			result.Missing = append(result.Missing, id)
			if s.Monitor != nil {
				s.Monitor.RecordMissing(id)
			}
			continue
		}
		result.Features[id] = f
	}
	return result, nil
}

func (s *Service) Close() error {
	if closer, ok := s.Provider.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
