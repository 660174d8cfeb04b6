package game

import (
	"fmt"
	"sync"

	"composer-pasta-bot/internal/model"
)

// DefaultComposerSplit is the percentage of draws that ask about a composer.
// Earlier versions of the game used 80; the current balance is an even split.
const DefaultComposerSplit = 50

// Rand is the random source used to pick questions.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Select picks a question. A threshold in [0,100) is drawn; below
// composerSplit a random composer is chosen, otherwise a random pasta.
// When one catalog is empty the other is always used.
func Select(composers, pastas []string, rng Rand, composerSplit int) (Question, error) {
	if len(composers) == 0 && len(pastas) == 0 {
		return Question{}, ErrEmptyCatalog
	}

	useComposer := rng.Intn(100) < composerSplit
	switch {
	case len(composers) == 0:
		useComposer = false
	case len(pastas) == 0:
		useComposer = true
	}

	if useComposer {
		return Question{Category: model.CategoryComposer, Name: composers[rng.Intn(len(composers))]}, nil
	}
	return Question{Category: model.CategoryPasta, Name: pastas[rng.Intn(len(pastas))]}, nil
}

// Selector binds the catalog names, random source and split used by a running bot.
type Selector struct {
	composers     []string
	pastas        []string
	rng           Rand
	composerSplit int
	mu            sync.Mutex
}

// NewSelector creates a Selector. The name lists should be sorted so that
// a seeded source gives reproducible questions.
func NewSelector(composers, pastas []string, rng Rand, composerSplit int) (*Selector, error) {
	if composerSplit < 0 || composerSplit > 100 {
		return nil, fmt.Errorf("composer split must be between 0 and 100, got %d", composerSplit)
	}
	return &Selector{
		composers:     composers,
		pastas:        pastas,
		rng:           rng,
		composerSplit: composerSplit,
	}, nil
}

// Next picks the next question. It is safe for concurrent use.
func (s *Selector) Next() (Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Select(s.composers, s.pastas, s.rng, s.composerSplit)
}
