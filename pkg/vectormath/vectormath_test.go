package vectormath

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 0}, []float64{1, 0}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"dim mismatch", []float64{1, 0}, []float64{1}, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"tech"}, []string{"tech"}, 1},
		{"disjoint", []string{"tech"}, []string{"sports"}, 0},
		{"partial", []string{"tech", "ai"}, []string{"ai", "sports"}, 1.0 / 3},
		{"empty side", []string{"tech"}, nil, 0},
		{"duplicates ignored", []string{"tech", "tech"}, []string{"tech"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Jaccard(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("Jaccard() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecay(t *testing.T) {
	if got := Decay(0, 48); !almostEqual(got, 1) {
		t.Errorf("Decay(0) = %v, want 1", got)
	}
	if got := Decay(48, 48); !almostEqual(got, math.Exp(-1)) {
		t.Errorf("Decay(halflife) = %v, want e^-1", got)
	}
	if got := Decay(10, 0); !almostEqual(got, 1) {
		t.Errorf("Decay with zero halflife = %v, want 1", got)
	}
	if got := Decay(-5, 48); !almostEqual(got, 1) {
		t.Errorf("negative age should clamp to 0, got %v", got)
	}
}

func TestWeightedMean(t *testing.T) {
	got := WeightedMean([][]float64{{1, 0}, {0, 1}}, []float64{3, 1})
	if got == nil || !almostEqual(got[0], 0.75) || !almostEqual(got[1], 0.25) {
		t.Errorf("WeightedMean() = %v, want [0.75 0.25]", got)
	}

	if got := WeightedMean([][]float64{{1, 0}, {0, 1}}, []float64{0, 0}); got != nil {
		t.Errorf("zero total weight should return nil, got %v", got)
	}
	if got := WeightedMean([][]float64{{1, 0}, {0}}, []float64{1, 1}); got != nil {
		t.Errorf("dim mismatch should return nil, got %v", got)
	}
}
