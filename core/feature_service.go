package core

import "context"

// FeatureResult 是批量文章特征读取的结果。
// 部分 id 缺特征是常态而非异常：Missing 记录被剔除的 id，
// 调用方据此回填诊断/监控，但不中断请求。
type FeatureResult struct {
	// Features key 为文章 ID，只包含特征完整的记录。
	Features map[string]*ArticleFeatures

	// Missing 是没有特征记录或 Embedding 缺失而被剔除的 id。
	Missing []string
}

// Partial 判断本次批量读取是否有缺失。
func (r *FeatureResult) Partial() bool {
	return r != nil && len(r.Missing) > 0
}

// FeatureService 是特征存储访问器的领域接口（Feature Store Accessor）。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（feature / feast）实现
//   - 纯读路径，无副作用
//   - 调用必须有时间预算（实现方负责 deadline；超时返回 TIMEOUT，
//     由 Engine 降级为 recency-only 召回而不是请求失败）
//
// 错误约定：
//   - 用户画像缺失：实现方本地降级为 AnonymousProfile，不返回错误
//   - 文章特征部分缺失：通过 FeatureResult.Missing 表达，不作为 error
type FeatureService interface {
	// Name 返回特征服务名称（用于日志/监控）
	Name() string

	// GetUserProfile 获取用户画像；NOT_FOUND 时返回匿名画像（Anonymous=true）。
	GetUserProfile(ctx context.Context, userID string) (*UserProfile, error)

	// BatchGetArticleFeatures 批量获取文章特征（推荐使用，减少网络往返）。
	BatchGetArticleFeatures(ctx context.Context, articleIDs []string) (*FeatureResult, error)

	// Close 关闭特征服务，释放资源
	Close() error
}

// 特征模块错误定义
var (
	// ErrProfileNotFound 表示用户画像不存在（实现内部使用，不向 Engine 透出）
	ErrProfileNotFound = NewDomainError(ModuleFeature, ErrorCodeNotFound, "feature: user profile not found")

	// ErrFeatureTimeout 表示特征存储调用超出时间预算
	ErrFeatureTimeout = NewDomainError(ModuleFeature, ErrorCodeTimeout, "feature: store deadline exceeded")
)
