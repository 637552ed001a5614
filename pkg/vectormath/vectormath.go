// Package vectormath 提供推荐链路共用的向量/集合相似度原语。
// recall（相似召回）、rank（相关性打分）、rerank（MMR 冗余度）都依赖这里的实现，
// 避免各模块各自维护一份 cosine。
package vectormath

import "math"

// Cosine 计算两个向量的余弦相似度。
// 维度不一致或任一向量为零向量时返回 0。
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Jaccard 计算两个字符串集合的 Jaccard 系数。
// 任一集合为空时返回 0。用于无 Embedding 时的话题重合度兜底。
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	inter := 0
	union := len(set)
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := set[s]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// WeightedMean 计算一组向量的加权平均（质心）。
// 权重和为 0 或向量维度不一致时返回 nil。
func WeightedMean(vectors [][]float64, weights []float64) []float64 {
	if len(vectors) == 0 || len(vectors) != len(weights) {
		return nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil
	}
	sum := make([]float64, dim)
	var total float64
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil
		}
		w := weights[i]
		if w <= 0 {
			continue
		}
		total += w
		for j := range vec {
			sum[j] += vec[j] * w
		}
	}
	if total == 0 {
		return nil
	}
	for j := range sum {
		sum[j] /= total
	}
	return sum
}

// Decay 计算指数时间衰减 exp(-age/halflife)，age/halflife 单位一致即可。
// halflife <= 0 时退化为 1（不衰减）。
func Decay(age, halflife float64) float64 {
	if halflife <= 0 {
		return 1
	}
	if age < 0 {
		age = 0
	}
	return math.Exp(-age / halflife)
}
