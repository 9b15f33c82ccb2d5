package document

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// NormalizeScores converts per-question scoring weights into integer point
// values on the 100-point scale. When the raw sum is positive and not already
// 100, every weight is rescaled by 100/sum and rounded to the nearest
// integer; rounding drift in the total is accepted and never corrected. A
// zero raw sum leaves every score at zero.
func NormalizeScores(d *Document) map[string]int {
	weights := make([]float64, 0)
	ids := make([]string, 0)
	for i := range d.Sections {
		for j := range d.Sections[i].Questions {
			q := &d.Sections[i].Questions[j]
			ids = append(ids, q.ID)
			weights = append(weights, q.Scoring)
		}
	}

	scores := make(map[string]int, len(ids))
	if len(ids) == 0 {
		return scores
	}

	sum, err := stats.Sum(weights)
	if err != nil || sum <= 0 {
		for _, id := range ids {
			scores[id] = 0
		}
		return scores
	}

	factor := 1.0
	if sum != 100 {
		factor = 100 / sum
	}
	for i, id := range ids {
		scores[id] = int(math.Round(weights[i] * factor))
	}
	return scores
}

// ValidateScoring checks that every questionScores key refers to a question
// that actually exists in the document.
func ValidateScoring(d *Document, rules *ScoringRules) error {
	for id := range rules.QuestionScores {
		if d.FindQuestion(id) == nil {
			return fmt.Errorf("scoring references unknown question %s", id)
		}
	}
	return nil
}
