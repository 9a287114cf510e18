package session

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/studydeck/internal/studyset"
)

// NewRand returns a random source seeded with the current time.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// shuffleItems returns a shuffled copy of items. A nil rnd keeps order.
func shuffleItems(rnd *rand.Rand, items []studyset.Item) []studyset.Item {
	out := make([]studyset.Item, len(items))
	copy(out, items)
	if rnd == nil {
		return out
	}
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// shuffleStrings returns a shuffled copy of values. A nil rnd keeps order.
func shuffleStrings(rnd *rand.Rand, values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	if rnd == nil {
		return out
	}
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
