// Package store 提供存储接口的具体实现。
// 注意：此包只包含实现，接口定义在 core 包
// （core.Store / core.KeyValueStore / core.CorpusStore / core.InteractionStore）。
//
// 示例：
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
//	corpus, _ := store.OpenSQLite("news.db")
package store
