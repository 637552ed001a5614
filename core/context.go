package core

import (
	"fmt"

	"github.com/rushteam/newsrec/pkg/utils"
)

// Diagnostics 是单次 Feed 请求的诊断信息，随响应透出。
// 各阶段在 Pipeline 执行过程中回填。
type Diagnostics struct {
	PoolSize  int                // 进入多样性重排前的候选池大小
	Mix       map[string]float64 // 实际使用的召回源权重
	ColdStart bool               // 无质心冷启动
	Degraded  bool               // 特征存储超时降级（recency-only）
	Missing   int                // 批量特征缺失被剔除的文章数
}

// RecommendContext 承载用户/请求信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string
	Scene  string // 场景标识，例如 "feed"

	// User 是强类型用户画像；特征服务 NOT_FOUND 时为匿名画像，绝不为 nil
	// （Engine 保证）。
	User *UserProfile

	// PageSize 是最终 Feed 页大小 M。
	PageSize int

	// Diversity 是多样性滑杆 λ ∈ [0,1]：0 = 纯相关性排序，1 = 最大话题分散。
	Diversity float64

	// TopicFilter 非空时只保留话题有交集的文章。
	TopicFilter []string

	// Labels 是用户级标签，可驱动整个 Pipeline 行为。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（device_type、query 等）。
	Params map[string]any

	// Diag 诊断信息，Engine 初始化，各 Node 回填。
	Diag *Diagnostics
}

// DefaultPageSize 是 Feed 页大小默认值 M。
const DefaultPageSize = 20

// ParamRankedPool 是 Params 里完整排序池的约定 key：
// 排序 Node 写入，Feed 装配阶段 source-cap 回填时读取。
const ParamRankedPool = "_ranked_pool"

// NewRecommendContext 创建一个带默认页大小的请求上下文。
func NewRecommendContext(userID string) *RecommendContext {
	return &RecommendContext{
		UserID:   userID,
		Scene:    "feed",
		PageSize: DefaultPageSize,
		Params:   make(map[string]any),
		Diag:     &Diagnostics{Mix: make(map[string]float64)},
	}
}

// Validate 校验请求参数，非法时返回 INVALID_PARAMETER。
// 注意：λ 越界是拒绝而不是静默 clamp。
func (rctx *RecommendContext) Validate() error {
	if rctx == nil {
		return NewDomainError(ModuleCore, ErrorCodeInvalidParameter, "recommend context is nil")
	}
	if rctx.PageSize <= 0 {
		return NewDomainError(ModuleCore, ErrorCodeInvalidParameter,
			fmt.Sprintf("page size must be positive, got %d", rctx.PageSize))
	}
	if rctx.Diversity < 0 || rctx.Diversity > 1 {
		return NewDomainError(ModuleCore, ErrorCodeInvalidParameter,
			fmt.Sprintf("diversity must be in [0,1], got %g", rctx.Diversity))
	}
	return nil
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// Diagnostics 返回诊断信息（懒初始化，Node 里可直接用）。
func (rctx *RecommendContext) Diagnostics() *Diagnostics {
	if rctx.Diag == nil {
		rctx.Diag = &Diagnostics{Mix: make(map[string]float64)}
	}
	return rctx.Diag
}
