package engine

// Queue holds the upcoming piece kinds with a fixed lookahead.
// It is refilled from its Randomizer whenever it drops below capacity.
type Queue struct {
	table     []Kind
	lookahead int
	rnd       Randomizer
	items     []Kind
}

// NewQueue creates a queue of the given lookahead, filled immediately.
func NewQueue(table []Kind, lookahead int, rnd Randomizer) (*Queue, error) {
	if len(table) == 0 {
		return nil, ErrEmptyPieceTable
	}
	if lookahead <= 0 {
		return nil, ConfigError{Field: "queue.lookahead", Message: "must be at least 1"}
	}
	if rnd == nil {
		return nil, ConfigError{Field: "queue.randomizer", Message: "randomizer is required"}
	}

	q := &Queue{
		table:     append([]Kind(nil), table...),
		lookahead: lookahead,
		rnd:       rnd,
		items:     make([]Kind, 0, lookahead),
	}
	q.fill()
	return q, nil
}

func (q *Queue) fill() {
	for len(q.items) < q.lookahead {
		q.items = append(q.items, q.rnd.Draw(q.table))
	}
}

// Lookahead returns the queue capacity.
func (q *Queue) Lookahead() int {
	return q.lookahead
}

// Len returns the number of queued kinds.
func (q *Queue) Len() int {
	return len(q.items)
}

// PeekNext returns a copy of the next n kinds, front first.
// n is clamped to the lookahead.
func (q *Queue) PeekNext(n int) []Kind {
	n = max(0, min(n, len(q.items)))
	return append([]Kind(nil), q.items[:n]...)
}

// Consume removes and returns the front kind and refills the queue.
func (q *Queue) Consume() (Kind, error) {
	if len(q.table) == 0 {
		return 0, ErrEmptyPieceTable
	}
	q.fill()

	front := q.items[0]
	copy(q.items, q.items[1:])
	q.items = q.items[:len(q.items)-1]
	q.fill()
	return front, nil
}

// Reset discards the queued kinds and draws a fresh lookahead.
func (q *Queue) Reset() {
	q.items = q.items[:0]
	q.fill()
}
