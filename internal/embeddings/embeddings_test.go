package embeddings

import (
	"math"
	"testing"
)

func TestNorm(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector
		expected float64
	}{
		{name: "zero vector", v: Vector{0, 0, 0}, expected: 0},
		{name: "unit axis", v: Vector{0, 1, 0}, expected: 1},
		{name: "3-4-5 triangle", v: Vector{3, 4}, expected: 5},
		{name: "empty", v: Vector{}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := norm(tt.v); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("got %f, want %f", got, tt.expected)
			}
		})
	}
}
