package recall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pkg/utils"
)

// Fanout 并发执行多个召回源并汇总结果，支持超时与限流。
//
// 失败语义：单个源超时或出错时降级为空结果，绝不中断其他源——
// 宁可 Feed 小一点，也不要没有 Feed。
type Fanout struct {
	Timeout       time.Duration // 每个召回源的超时时间（0 表示不限制）
	MaxConcurrent int           // 最大并发数（0 表示无限制）
}

// task 是一次 fanout 的执行单元。
type task struct {
	Source Source
	Tag    string // 写入 recall_source label 的来源 tag
	Limit  int    // 本次配额
}

// Run 并发执行所有 task，返回合并后的未去重结果。
func (f *Fanout) Run(ctx context.Context, rctx *core.RecommendContext, tasks []task) []*core.Item {
	if len(tasks) == 0 {
		return nil
	}

	var (
		mu  sync.Mutex
		all []*core.Item
	)
	eg, egctx := errgroup.WithContext(ctx)
	if f.MaxConcurrent > 0 {
		eg.SetLimit(f.MaxConcurrent)
	}

	for _, t := range tasks {
		t := t
		if t.Source == nil || t.Limit <= 0 {
			continue
		}
		eg.Go(func() error {
			recallCtx := egctx
			if f.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egctx, f.Timeout)
				defer cancel()
			}

			items, err := t.Source.Recall(recallCtx, rctx, t.Limit)
			if err != nil {
				// 超时或错误时该源降级为空，不中断其他召回源
				return nil
			}

			// 记录召回来源 label，方便 explain / 观测
			for _, it := range items {
				it.PutLabel(core.LabelRecallSource, utils.Label{Value: t.Tag, Source: "recall"})
			}

			mu.Lock()
			all = append(all, items...)
			mu.Unlock()
			return nil
		})
	}

	// Go 闭包永远返回 nil，这里的 Wait 只作同步
	_ = eg.Wait()
	return all
}
