// file: internal/services/reputation.go
package services

// ApplyRating folds one rating into a user's running aggregate and returns
// the new score, count, and average.
func ApplyRating(score, count, rating int) (newScore, newCount int, newAverage float64) {
	newScore = score + rating
	newCount = count + 1
	newAverage = float64(newScore) / float64(newCount)
	return newScore, newCount, newAverage
}

// Average derives the running average rating; 0 when no ratings applied
func Average(score, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(score) / float64(count)
}
