package engine

import "math/rand"

// Randomizer picks the next piece kind from a table.
type Randomizer interface {
	Draw(table []Kind) Kind
}

// UniformRandomizer draws every kind independently with equal probability.
// There is no protection against repeats or droughts.
type UniformRandomizer struct {
	rng *rand.Rand
}

// NewUniformRandomizer creates a uniform randomizer seeded for reproducible
// sequences.
func NewUniformRandomizer(seed int64) *UniformRandomizer {
	return &UniformRandomizer{rng: rand.New(rand.NewSource(seed))}
}

// Draw returns a uniformly random kind from table.
func (r *UniformRandomizer) Draw(table []Kind) Kind {
	return table[r.rng.Intn(len(table))]
}

// BagRandomizer deals every kind of the table once, in shuffled order,
// before refilling the bag.
type BagRandomizer struct {
	rng *rand.Rand
	bag []Kind
}

// NewBagRandomizer creates a bag randomizer seeded for reproducible sequences.
func NewBagRandomizer(seed int64) *BagRandomizer {
	return &BagRandomizer{rng: rand.New(rand.NewSource(seed))}
}

// Draw returns the next kind from the current bag, refilling it when empty.
func (r *BagRandomizer) Draw(table []Kind) Kind {
	if len(r.bag) == 0 {
		r.bag = append(r.bag[:0], table...)
		r.rng.Shuffle(len(r.bag), func(i, j int) {
			r.bag[i], r.bag[j] = r.bag[j], r.bag[i]
		})
	}
	k := r.bag[0]
	r.bag = r.bag[1:]
	return k
}
