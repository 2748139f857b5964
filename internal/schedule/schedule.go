package schedule

import (
	"github.com/pairdeck/pairdeck/internal/domain"
)

// Params holds the tuning constants for the scheduling policy.
// The defaults are conventional starting points and can be overridden
// through configuration.
type Params struct {
	LearningThreshold int `koanf:"learning_threshold" validate:"gte=1"` // consecutive correct recalls needed to graduate
	LearningInterval  int `koanf:"learning_interval" validate:"gte=1"`  // interval while in the learning loop
	ReviewInterval    int `koanf:"review_interval" validate:"gte=1"`    // interval granted on graduation
	GrowthFactor      int `koanf:"growth_factor" validate:"gte=2"`      // interval multiplier per correct review
	MaxInterval       int `koanf:"max_interval" validate:"gte=1"`       // interval growth cap
	MasteryThreshold  int `koanf:"mastery_threshold" validate:"gte=1"`  // strength at which a pair is mastered
	LapsePenalty      int `koanf:"lapse_penalty" validate:"gte=0"`      // strength lost on an incorrect recall
}

// DefaultParams provides a set of sensible default parameters to start with.
func DefaultParams() *Params {
	return &Params{
		LearningThreshold: 2,
		LearningInterval:  1,
		ReviewInterval:    2,
		GrowthFactor:      2,
		MaxInterval:       90,
		MasteryThreshold:  10,
		LapsePenalty:      2,
	}
}

// NextDue selects the pair to present at the given tick: suspended pairs
// and pairs due in the future are skipped, the rest are ordered by
// ascending DueAt with ties broken by ascending ID. The second return is
// false when nothing is due. The function performs no mutation, so
// repeated calls with the same input return the same pair.
func NextDue(pairs []domain.Pair, tick int64) (domain.Pair, bool) {
	var best domain.Pair
	found := false
	for _, p := range pairs {
		if !p.Due(tick) {
			continue
		}
		if !found || p.DueAt < best.DueAt || (p.DueAt == best.DueAt && p.ID < best.ID) {
			best = p
			found = true
		}
	}
	if !found {
		return domain.Pair{}, false
	}
	return best.Clone(), true
}

// Review applies one graded recall to the pair at the given tick and
// returns the updated copy. The input pair is not mutated. DueAt is
// always recomputed, never left stale.
func (p *Params) Review(pair domain.Pair, correct bool, tick int64) domain.Pair {
	out := pair.Clone()
	out.SetLastReviewedAt(tick)

	if correct {
		out.ConsecutiveCorrect++
		out.ConsecutiveIncorrect = 0
	} else {
		out.ConsecutiveIncorrect++
		out.ConsecutiveCorrect = 0
	}

	switch out.State {
	case domain.New:
		// First reported outcome enters the learning loop regardless
		// of correctness.
		out.State = domain.Learning
		p.stepLearning(&out)
	case domain.Learning:
		p.stepLearning(&out)
	case domain.Review, domain.Mastered:
		if correct {
			p.stepReviewCorrect(&out)
		} else {
			p.lapse(&out)
		}
	}

	out.DueAt = tick + int64(out.IntervalUnits)
	return out
}

// stepLearning keeps the pair in the short-interval loop until enough
// consecutive correct recalls accumulate, then graduates it to Review.
func (p *Params) stepLearning(pair *domain.Pair) {
	if pair.ConsecutiveCorrect >= p.LearningThreshold {
		pair.State = domain.Review
		pair.IntervalUnits = p.ReviewInterval
		pair.ConsecutiveCorrect = 0
		pair.ConsecutiveIncorrect = 0
		return
	}
	pair.IntervalUnits = p.LearningInterval
}

// stepReviewCorrect grows the interval and strength after a correct
// recall in Review or Mastered, promoting to Mastered once strength
// crosses the threshold.
func (p *Params) stepReviewCorrect(pair *domain.Pair) {
	pair.Strength++
	next := pair.IntervalUnits * p.GrowthFactor
	if next > p.MaxInterval {
		next = p.MaxInterval
	}
	if next <= pair.IntervalUnits && pair.IntervalUnits < p.MaxInterval {
		// A zero interval would never grow under multiplication alone.
		next = pair.IntervalUnits + 1
	}
	pair.IntervalUnits = next
	if pair.State == domain.Review && pair.Strength >= p.MasteryThreshold {
		pair.State = domain.Mastered
	}
}

// lapse demotes the pair to the learning loop after an incorrect recall,
// paying the strength penalty and resetting the interval.
func (p *Params) lapse(pair *domain.Pair) {
	pair.State = domain.Learning
	pair.Strength -= p.LapsePenalty
	if pair.Strength < 0 {
		pair.Strength = 0
	}
	pair.IntervalUnits = p.LearningInterval
	pair.ConsecutiveCorrect = 0
	pair.ConsecutiveIncorrect = 0
}
