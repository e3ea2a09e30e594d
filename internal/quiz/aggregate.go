package quiz

import (
	"math"

	"github.com/abhisek/smartstudy/internal/study"
)

// Stats summarizes a set of attempts.
type Stats struct {
	Count int
	Mean  int // round(average percentage)
	Best  int // max percentage
}

// Aggregate computes Stats over attempts in any order. It reports false
// for an empty input, where mean and best are undefined.
func Aggregate(attempts []study.Attempt) (Stats, bool) {
	if len(attempts) == 0 {
		return Stats{}, false
	}

	sum, best := 0, attempts[0].Percentage
	for _, a := range attempts {
		sum += a.Percentage
		best = max(best, a.Percentage)
	}
	return Stats{
		Count: len(attempts),
		Mean:  int(math.Round(float64(sum) / float64(len(attempts)))),
		Best:  best,
	}, true
}
