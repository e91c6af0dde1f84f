// file: internal/achievements/achievements.go
package achievements

// Achievement ids tracked by the engine. Display metadata (names, icons)
// lives with the presentation layer, not here.
const (
	FirstQuestCompleted = "first_quest_completed"
	SeasonedQuester1    = "seasoned_quester_1"
	SeasonedQuester2    = "seasoned_quester_2"
	QuestGiver1         = "quest_giver_1"
	QuestGiver2         = "quest_giver_2"
	TopRated            = "top_rated"
)

// Metric names a counter rule can track
type Metric string

const (
	MetricQuestsCompleted      Metric = "questsCompleted"
	MetricQuestsGivenCompleted Metric = "questsGivenCompleted"
)

// Rule declares a counter milestone: the achievement unlocks the first time
// the tracked metric crosses Threshold.
type Rule struct {
	ID        string
	Metric    Metric
	Threshold int
}

// Rules is the full milestone table. Declarative on purpose: adding an
// achievement is a new row, not a new branch.
var Rules = []Rule{
	{ID: FirstQuestCompleted, Metric: MetricQuestsCompleted, Threshold: 1},
	{ID: SeasonedQuester1, Metric: MetricQuestsCompleted, Threshold: 5},
	{ID: SeasonedQuester2, Metric: MetricQuestsCompleted, Threshold: 15},
	{ID: QuestGiver1, Metric: MetricQuestsGivenCompleted, Threshold: 3},
	{ID: QuestGiver2, Metric: MetricQuestsGivenCompleted, Threshold: 10},
}

// Evaluate returns the achievements newly earned when metric moves from
// oldValue to newValue. A rule qualifies when its threshold lies in the
// half-open interval (oldValue, newValue]; the range test keeps milestones
// from being skipped forever when a counter jumps by more than one (batch
// corrections), which an equality check would silently allow.
func Evaluate(metric Metric, oldValue, newValue int, alreadyUnlocked []string) []string {
	var earned []string
	for _, rule := range Rules {
		if rule.Metric != metric {
			continue
		}
		if rule.Threshold <= oldValue || rule.Threshold > newValue {
			continue
		}
		if contains(alreadyUnlocked, rule.ID) {
			continue
		}
		earned = append(earned, rule.ID)
	}
	return earned
}

// Rating milestone thresholds for the top_rated achievement
const (
	topRatedMinRatings = 10
	topRatedMinAverage = 4.8
)

// EvaluateRating returns the rating-milestone achievements earned at the
// given rating count and running average.
func EvaluateRating(ratingCount int, average float64, alreadyUnlocked []string) []string {
	if ratingCount < topRatedMinRatings || average < topRatedMinAverage {
		return nil
	}
	if contains(alreadyUnlocked, TopRated) {
		return nil
	}
	return []string{TopRated}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
