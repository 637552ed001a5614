package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/newsrec/core"
)

// ExposedFilter 排除用户已经看过的文章。
// 两路数据：画像里的近期正反馈列表（请求内免 IO），
// 加上可选的曝光有序集合（离线任务写入 exposed:{userID}）。
type ExposedFilter struct {
	// Store 曝光历史存储，可为 nil（只用画像数据）。
	Store core.KeyValueStore

	// KeyPrefix 曝光集合 key 前缀，默认 "exposed"。
	KeyPrefix string

	// MaxFetch 单次读取曝光集合的上限，默认 500。
	MaxFetch int64
}

func (f *ExposedFilter) Name() string { return "filter.exposed" }

func (f *ExposedFilter) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if rctx == nil || rctx.UserID == "" {
		return false, nil
	}

	if rctx.User != nil {
		for _, id := range rctx.User.RecentArticles {
			if id == item.ID {
				return true, nil
			}
		}
	}

	if f.Store == nil {
		return false, nil
	}
	prefix := f.KeyPrefix
	if prefix == "" {
		prefix = "exposed"
	}
	maxFetch := f.MaxFetch
	if maxFetch <= 0 {
		maxFetch = 500
	}

	// 单次请求内反复查同一集合，结果缓存在请求级 Params 里
	cacheKey := "_exposed_set"
	set, ok := rctx.Params[cacheKey].(map[string]bool)
	if !ok {
		ids, err := f.Store.ZRange(ctx, fmt.Sprintf("%s:%s", prefix, rctx.UserID), 0, maxFetch-1)
		if err != nil {
			if core.IsStoreNotFound(err) {
				err = nil
			}
			if err != nil {
				return false, err
			}
		}
		set = make(map[string]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		if rctx.Params == nil {
			rctx.Params = make(map[string]any)
		}
		rctx.Params[cacheKey] = set
	}
	return set[item.ID], nil
}
