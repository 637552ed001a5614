// Package vector 提供文章 Embedding 索引：相似召回（ANN）与 MMR 冗余度
// 计算的底座。接口面向近似检索设计，内存实现用暴力余弦兜底；
// 语料规模上来后可替换为 Milvus/FAISS 一类的向量库实现。
package vector

import "context"

// Index 是向量索引的抽象接口。
type Index interface {
	// Name 返回索引名称（用于日志/监控）
	Name() string

	// Search 返回与 query 最相似的 topK 个文章 id 及相似度（降序）。
	// 索引为空时返回空结果，不报错。
	Search(ctx context.Context, query []float64, topK int) ([]string, []float64, error)

	// GetVector 按文章 id 取向量，缺失时返回 nil。
	GetVector(ctx context.Context, articleID string) ([]float64, error)

	// Size 返回索引内向量条数。
	Size() int
}
