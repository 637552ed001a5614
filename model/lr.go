package model

import (
	"math"
	"time"

	"github.com/rushteam/newsrec/core"
)

// LR 是逻辑回归打分模型：对 Item.Features 做加权求和过 sigmoid。
// 作为 Heuristic 的可替换实现存在（学习型模型接入位），
// 权重由离线训练导出，这里只做在线推理。
type LR struct {
	// Weights key 为特征名；候选缺该特征按 0 处理。
	Weights map[string]float64
	Bias    float64
}

func NewLR(weights map[string]float64, bias float64) *LR {
	return &LR{Weights: weights, Bias: bias}
}

var _ Model = (*LR)(nil)

func (m *LR) Name() string { return "model.lr" }

func (m *LR) Score(_ *core.RecommendContext, item *core.Item, _ time.Time) float64 {
	z := m.Bias
	for name, w := range m.Weights {
		z += w * item.Features[name]
	}
	return 1 / (1 + math.Exp(-z))
}
