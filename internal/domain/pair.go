package domain

// Pair represents a single key/value learning item together with its
// scheduling state. The Key and Value are opaque to the scheduler.
type Pair struct {
	ID                   int64  `json:"id"`
	Key                  string `json:"key"`
	Value                string `json:"value"`
	State                State  `json:"state"`
	Suspended            bool   `json:"suspended"`
	Strength             int    `json:"strength"`
	IntervalUnits        int    `json:"interval_units"`
	DueAt                int64  `json:"due_at"`
	LastReviewedAt       *int64 `json:"last_reviewed_at"` // nil before first review.
	ConsecutiveCorrect   int    `json:"consecutive_correct"`
	ConsecutiveIncorrect int    `json:"consecutive_incorrect"`
}

// Clone returns a deep copy of the pair. Pointer fields are copied by value.
func (p Pair) Clone() Pair {
	out := p
	if p.LastReviewedAt != nil {
		v := *p.LastReviewedAt
		out.LastReviewedAt = &v
	}
	return out
}

// SetLastReviewedAt records the tick of the most recent review.
func (p *Pair) SetLastReviewedAt(tick int64) {
	p.LastReviewedAt = &tick
}

// Due reports whether the pair is eligible for review at the given tick.
// Suspended pairs are never due.
func (p Pair) Due(tick int64) bool {
	return !p.Suspended && p.DueAt <= tick
}
