package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyRating(t *testing.T) {
	tests := []struct {
		name        string
		score       int
		count       int
		rating      int
		wantScore   int
		wantCount   int
		wantAverage float64
	}{
		{name: "first rating", score: 0, count: 0, rating: 5, wantScore: 5, wantCount: 1, wantAverage: 5},
		{name: "running average", score: 38, count: 8, rating: 5, wantScore: 43, wantCount: 9, wantAverage: 43.0 / 9.0},
		{name: "milestone boundary", score: 43, count: 9, rating: 5, wantScore: 48, wantCount: 10, wantAverage: 4.8},
		{name: "low rating drags average", score: 20, count: 4, rating: 1, wantScore: 21, wantCount: 5, wantAverage: 4.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, count, average := ApplyRating(tt.score, tt.count, tt.rating)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantCount, count)
			assert.InDelta(t, tt.wantAverage, average, 1e-9)
		})
	}
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 0.0, Average(0, 0))
	assert.InDelta(t, 4.8, Average(48, 10), 1e-9)
	assert.InDelta(t, 4.75, Average(38, 8), 1e-9)
}
