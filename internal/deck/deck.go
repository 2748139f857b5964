package deck

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pairdeck/pairdeck/internal/domain"
	"github.com/pairdeck/pairdeck/internal/schedule"
)

// Deck owns a set of pairs and a logical clock. It is a single-owner
// in-memory structure: all mutation goes through its methods, and it is
// not safe for concurrent use without external locking.
type Deck struct {
	pairs  map[int64]domain.Pair
	tick   int64
	nextID int64
	params *schedule.Params
}

// New creates an empty deck. A nil params uses schedule.DefaultParams.
func New(params *schedule.Params) *Deck {
	if params == nil {
		params = schedule.DefaultParams()
	}
	return &Deck{
		pairs:  make(map[int64]domain.Pair),
		nextID: 1,
		params: params,
	}
}

// AddPair adds a new key/value pair and returns its id. The pair starts
// in the New state, due immediately. Empty or blank key/value is rejected.
func (d *Deck) AddPair(key, value string) (int64, error) {
	if strings.TrimSpace(key) == "" {
		return 0, fmt.Errorf("%w: empty key", domain.ErrValidation)
	}
	if strings.TrimSpace(value) == "" {
		return 0, fmt.Errorf("%w: empty value", domain.ErrValidation)
	}
	id := d.nextID
	d.nextID++
	d.pairs[id] = domain.Pair{
		ID:    id,
		Key:   key,
		Value: value,
		State: domain.New,
		DueAt: d.tick,
	}
	return id, nil
}

// RemovePair permanently deletes the pair with the given id.
func (d *Deck) RemovePair(id int64) error {
	if _, ok := d.pairs[id]; !ok {
		return fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	delete(d.pairs, id)
	return nil
}

// Pair returns a copy of the pair with the given id.
func (d *Deck) Pair(id int64) (domain.Pair, error) {
	p, ok := d.pairs[id]
	if !ok {
		return domain.Pair{}, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	return p.Clone(), nil
}

// Len returns the number of pairs in the deck.
func (d *Deck) Len() int {
	return len(d.pairs)
}

// CurrentTick returns the deck's logical clock.
func (d *Deck) CurrentTick() int64 {
	return d.tick
}

// AdvanceTick moves the logical clock forward by n ticks. The clock is
// advanced explicitly by the caller, never by the scheduler; n must be
// at least 1.
func (d *Deck) AdvanceTick(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: tick advance %d, need at least 1", domain.ErrValidation, n)
	}
	d.tick += int64(n)
	return nil
}

// Suspend removes the pair from due selection without touching its
// learning progress. Suspending an already suspended pair is an error.
func (d *Deck) Suspend(id int64) error {
	p, ok := d.pairs[id]
	if !ok {
		return fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	if p.Suspended {
		return fmt.Errorf("%w: pair %d is already suspended", domain.ErrInvalidState, id)
	}
	p.Suspended = true
	d.pairs[id] = p
	return nil
}

// Reactivate returns a suspended pair to circulation, due at the current
// tick. Reactivating a pair that is not suspended is an error.
func (d *Deck) Reactivate(id int64) error {
	p, ok := d.pairs[id]
	if !ok {
		return fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	if !p.Suspended {
		return fmt.Errorf("%w: pair %d is not suspended", domain.ErrInvalidState, id)
	}
	p.Suspended = false
	p.DueAt = d.tick
	d.pairs[id] = p
	return nil
}

// NextDue returns the pair to present next, or false when nothing is
// due. Read-only and idempotent: without an intervening ReportOutcome or
// AdvanceTick, repeated calls return the same pair.
func (d *Deck) NextDue() (domain.Pair, bool) {
	return schedule.NextDue(d.pairList(), d.tick)
}

// ReportOutcome applies a graded recall to the pair with the given id
// and returns the updated pair. A suspended pair must be reactivated
// before its outcomes can be reported. The update is all-or-nothing: on
// error no field of the pair has changed.
func (d *Deck) ReportOutcome(id int64, correct bool) (domain.Pair, error) {
	p, ok := d.pairs[id]
	if !ok {
		return domain.Pair{}, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	if p.Suspended {
		return domain.Pair{}, fmt.Errorf("%w: pair %d is suspended", domain.ErrInvalidState, id)
	}
	updated := d.params.Review(p, correct, d.tick)
	d.pairs[id] = updated
	return updated.Clone(), nil
}

// Snapshot returns the deck's full state: a deep copy of every pair,
// sorted by id, plus the clock and the next id to assign.
func (d *Deck) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Pairs:       d.pairList(),
		CurrentTick: d.tick,
		NextID:      d.nextID,
	}
}

// FromSnapshot rebuilds a deck from a previously produced snapshot,
// validating the invariants a well-formed deck upholds. A nil params
// uses schedule.DefaultParams.
func FromSnapshot(snap domain.Snapshot, params *schedule.Params) (*Deck, error) {
	if snap.CurrentTick < 0 {
		return nil, fmt.Errorf("%w: negative tick %d", domain.ErrValidation, snap.CurrentTick)
	}
	nextID := snap.NextID
	if nextID < 1 {
		nextID = 1
	}
	d := New(params)
	d.tick = snap.CurrentTick
	for _, p := range snap.Pairs {
		if err := validatePair(p); err != nil {
			return nil, err
		}
		if _, dup := d.pairs[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", domain.ErrValidation, p.ID)
		}
		d.pairs[p.ID] = p.Clone()
		if p.ID >= nextID {
			nextID = p.ID + 1
		}
	}
	d.nextID = nextID
	return d, nil
}

func validatePair(p domain.Pair) error {
	switch {
	case p.ID < 1:
		return fmt.Errorf("%w: pair id %d", domain.ErrValidation, p.ID)
	case strings.TrimSpace(p.Key) == "":
		return fmt.Errorf("%w: pair %d has empty key", domain.ErrValidation, p.ID)
	case strings.TrimSpace(p.Value) == "":
		return fmt.Errorf("%w: pair %d has empty value", domain.ErrValidation, p.ID)
	case !p.State.IsValid():
		return fmt.Errorf("%w: pair %d has invalid state %d", domain.ErrValidation, p.ID, int(p.State))
	case p.Strength < 0:
		return fmt.Errorf("%w: pair %d has negative strength %d", domain.ErrValidation, p.ID, p.Strength)
	case p.IntervalUnits < 0:
		return fmt.Errorf("%w: pair %d has negative interval %d", domain.ErrValidation, p.ID, p.IntervalUnits)
	case p.DueAt < 0:
		return fmt.Errorf("%w: pair %d has negative due tick %d", domain.ErrValidation, p.ID, p.DueAt)
	}
	return nil
}

// pairList returns deep copies of all pairs sorted by id.
func (d *Deck) pairList() []domain.Pair {
	out := make([]domain.Pair, 0, len(d.pairs))
	for _, p := range d.pairs {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
