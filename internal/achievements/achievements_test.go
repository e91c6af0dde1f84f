package achievements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		metric   Metric
		oldValue int
		newValue int
		unlocked []string
		want     []string
	}{
		{
			name:     "first completion unlocks first_quest_completed",
			metric:   MetricQuestsCompleted,
			oldValue: 0,
			newValue: 1,
			want:     []string{FirstQuestCompleted},
		},
		{
			name:     "no threshold crossed",
			metric:   MetricQuestsCompleted,
			oldValue: 1,
			newValue: 2,
			want:     nil,
		},
		{
			name:     "giver reaches three completions",
			metric:   MetricQuestsGivenCompleted,
			oldValue: 2,
			newValue: 3,
			want:     []string{QuestGiver1},
		},
		{
			name:     "giver reaches ten completions",
			metric:   MetricQuestsGivenCompleted,
			oldValue: 9,
			newValue: 10,
			want:     []string{QuestGiver2},
		},
		{
			name:     "batch correction jumps past a threshold",
			metric:   MetricQuestsGivenCompleted,
			oldValue: 1,
			newValue: 5,
			want:     []string{QuestGiver1},
		},
		{
			name:     "batch correction crosses two thresholds at once",
			metric:   MetricQuestsCompleted,
			oldValue: 0,
			newValue: 6,
			want:     []string{FirstQuestCompleted, SeasonedQuester1},
		},
		{
			name:     "threshold equal to old value does not re-qualify",
			metric:   MetricQuestsGivenCompleted,
			oldValue: 3,
			newValue: 4,
			want:     nil,
		},
		{
			name:     "already unlocked ids are excluded",
			metric:   MetricQuestsCompleted,
			oldValue: 4,
			newValue: 5,
			unlocked: []string{SeasonedQuester1},
			want:     nil,
		},
		{
			name:     "metric mismatch earns nothing",
			metric:   MetricQuestsCompleted,
			oldValue: 2,
			newValue: 3,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.metric, tt.oldValue, tt.newValue, tt.unlocked)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateRepeatedCallsNeverDuplicate(t *testing.T) {
	unlocked := []string{}
	for i := 0; i < 20; i++ {
		earned := Evaluate(MetricQuestsCompleted, i, i+1, unlocked)
		for _, id := range earned {
			assert.NotContains(t, unlocked, id)
			unlocked = append(unlocked, id)
		}
	}
	assert.ElementsMatch(t,
		[]string{FirstQuestCompleted, SeasonedQuester1, SeasonedQuester2},
		unlocked,
	)
}

func TestEvaluateRating(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		average  float64
		unlocked []string
		want     []string
	}{
		{name: "below count threshold", count: 9, average: 4.9, want: nil},
		{name: "below average threshold", count: 12, average: 4.7, want: nil},
		{name: "exactly at both thresholds", count: 10, average: 4.8, want: []string{TopRated}},
		{name: "well above thresholds", count: 30, average: 5.0, want: []string{TopRated}},
		{name: "already unlocked", count: 15, average: 4.9, unlocked: []string{TopRated}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateRating(tt.count, tt.average, tt.unlocked)
			assert.Equal(t, tt.want, got)
		})
	}
}
