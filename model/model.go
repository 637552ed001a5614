// Package model 提供排序打分模型。
//
// 契约是 (id, score) 接口而不是模型结构：启发式线性模型与学习型模型
// 可以互换，只要输出同样的打分语义。
package model

import (
	"time"

	"github.com/rushteam/newsrec/core"
)

// Model 是逐条候选的打分模型。
// 跨候选的状态（例如来源域名重复惩罚）属于排序 Node，不在模型内。
type Model interface {
	Name() string

	// Score 对单条候选打基础分。now 由调用方统一注入，
	// 保证同一次请求内所有候选用同一个时钟。
	Score(rctx *core.RecommendContext, item *core.Item, now time.Time) float64
}
