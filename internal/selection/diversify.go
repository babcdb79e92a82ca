package selection

import "math/rand"

// Diversifier reorders chunks so question content does not follow document
// order. The same seed always yields the same order.
type Diversifier struct {
	Seed int64
}

// NewDiversifier creates a diversifier with the given seed.
func NewDiversifier(seed int64) Diversifier {
	return Diversifier{Seed: seed}
}

// Shuffle returns a shuffled copy of chunks; the input is left untouched.
func (d Diversifier) Shuffle(chunks []string) []string {
	out := append([]string(nil), chunks...)
	rng := rand.New(rand.NewSource(d.Seed))
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
