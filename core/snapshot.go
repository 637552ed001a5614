package core

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// SnapshotHolder 持有一份不可变快照，读写都是原子指针操作。
//
// trending 榜、向量索引这类周期性重建的全局缓存都通过它暴露给请求路径：
// 请求侧永远读到一份完整快照，不会观察到半更新状态；重建侧构建完整的
// 新快照后整体替换。请求热路径上没有锁。
type SnapshotHolder[T any] struct {
	p atomic.Pointer[T]
}

// Load 返回当前快照，可能为 nil（尚未完成首次构建）。
// 返回值是只读约定：调用方不得修改。
func (h *SnapshotHolder[T]) Load() *T {
	return h.p.Load()
}

// Swap 原子替换快照。
func (h *SnapshotHolder[T]) Swap(v *T) {
	h.p.Store(v)
}

// Refresher 按固定间隔在后台重建快照，独立于任何请求的关键路径。
// 构建失败时保留上一份快照继续服务，仅记日志。
type Refresher struct {
	// Name 用于日志标识，例如 "trending" / "vector-index"。
	Name string

	// Interval 重建间隔。
	Interval time.Duration

	// Build 执行一次重建并完成快照替换。
	Build func(ctx context.Context) error

	// Logger 为空时使用 slog.Default()。
	Logger *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// Start 立即执行一次构建，然后启动后台循环。
// 首次构建失败不阻止循环启动（下个周期重试）。
func (r *Refresher) Start(ctx context.Context) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	if err := r.Build(ctx); err != nil {
		logger.Warn("snapshot build failed", "refresher", r.Name, "err", err)
	}

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.Build(ctx); err != nil {
					logger.Warn("snapshot rebuild failed, keeping previous snapshot",
						"refresher", r.Name, "err", err)
				}
			}
		}
	}()
}

// Stop 停止后台循环并等待退出。
func (r *Refresher) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}
