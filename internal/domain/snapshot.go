package domain

// Snapshot is the full durable state of a deck: every pair plus the
// logical clock and the next id to assign. It is what the persistence
// layer serializes and what a deck can be rebuilt from.
type Snapshot struct {
	Pairs       []Pair `json:"pairs"`
	CurrentTick int64  `json:"current_tick"`
	NextID      int64  `json:"next_id"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Pairs = make([]Pair, len(s.Pairs))
	for i, p := range s.Pairs {
		out.Pairs[i] = p.Clone()
	}
	return out
}
