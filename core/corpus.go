package core

import (
	"context"
	"time"
)

// CorpusStore 是文章语料的领域读接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store.SQLiteStore 等）实现
//   - 纯读路径：语料写入是外部 ingestion 的职责
//
// 实现约定：缺 Embedding 的文章由实现方直接排除（HasFeatures 不成立的
// 文章不进入候选生成，而不是带默认值参与排序）。
type CorpusStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// ListRecent 返回发布时间晚于 since 的文章，按发布时间降序，至多 limit 篇。
	ListRecent(ctx context.Context, since time.Time, limit int) ([]*Article, error)

	// GetArticles 批量读取文章；缺失的 id 直接跳过，不报错。
	GetArticles(ctx context.Context, ids []string) ([]*Article, error)

	// ListRecentEvents 返回 since 之后的交互事件（trending 快照重建用，
	// 不在请求热路径上调用）。
	ListRecentEvents(ctx context.Context, since time.Time) ([]*InteractionEvent, error)
}

// InteractionStore 是用户-文章交互数据的领域读接口，驱动质心构建与协同召回。
//
// 与 CorpusStore 分离：交互数据与语料常落在不同后端。
type InteractionStore interface {
	// Name 返回存储后端名称
	Name() string

	// GetUserArticles 返回用户 since 之后正反馈过的文章及行为权重。
	// 返回 map[articleID]weight，权重按 EventWeight 累积。
	GetUserArticles(ctx context.Context, userID string, since time.Time) (map[string]float64, error)

	// GetCoInteracted 返回与指定文章共现交互的其他文章及共现权重
	// （交互过 articleID 的用户还交互了什么）。
	GetCoInteracted(ctx context.Context, articleID string, since time.Time, limit int) (map[string]float64, error)
}
