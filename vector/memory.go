package vector

import (
	"context"
	"sort"

	"github.com/rushteam/newsrec/core"
	"github.com/rushteam/newsrec/pkg/vectormath"
)

// indexData 是一份不可变的索引快照。
type indexData struct {
	ids     []string             // 确定性遍历顺序
	vectors map[string][]float64 // articleID -> embedding
}

// MemoryIndex 是内存实现的向量索引：暴力余弦检索。
//
// 并发模型：检索侧读原子快照；Rebuild 构建完整新快照后整体替换，
// 请求永远不会观察到半更新的索引。复杂度 O(corpus) 的扫描只发生在
// 这里（ANN/索引查找边界内），候选生成的其余部分与语料规模无关。
type MemoryIndex struct {
	snap core.SnapshotHolder[indexData]
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

var _ Index = (*MemoryIndex)(nil)

func (m *MemoryIndex) Name() string { return "vector.memory" }

// Rebuild 以全量向量构建新快照并原子替换。
// 由后台 Refresher 周期调用，不在请求关键路径上。
func (m *MemoryIndex) Rebuild(vectors map[string][]float64) {
	data := &indexData{
		ids:     make([]string, 0, len(vectors)),
		vectors: make(map[string][]float64, len(vectors)),
	}
	for id, vec := range vectors {
		if len(vec) == 0 {
			continue
		}
		data.ids = append(data.ids, id)
		data.vectors[id] = vec
	}
	sort.Strings(data.ids)
	m.snap.Swap(data)
}

func (m *MemoryIndex) Search(ctx context.Context, query []float64, topK int) ([]string, []float64, error) {
	data := m.snap.Load()
	if data == nil || len(data.ids) == 0 || len(query) == 0 || topK <= 0 {
		return nil, nil, nil
	}

	type scored struct {
		id    string
		score float64
	}
	results := make([]scored, 0, len(data.ids))
	for _, id := range data.ids {
		sim := vectormath.Cosine(query, data.vectors[id])
		results = append(results, scored{id: id, score: sim})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].id < results[j].id
	})
	if len(results) > topK {
		results = results[:topK]
	}

	ids := make([]string, len(results))
	scores := make([]float64, len(results))
	for i, r := range results {
		ids[i] = r.id
		scores[i] = r.score
	}
	return ids, scores, nil
}

func (m *MemoryIndex) GetVector(ctx context.Context, articleID string) ([]float64, error) {
	data := m.snap.Load()
	if data == nil {
		return nil, nil
	}
	return data.vectors[articleID], nil
}

func (m *MemoryIndex) Size() int {
	data := m.snap.Load()
	if data == nil {
		return 0
	}
	return len(data.ids)
}
