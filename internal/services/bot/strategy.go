package bot

import (
	"fmt"

	"github.com/mcoot/memorygame-go/internal/dependencies/random"
	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/services/board"
)

// Strategy defines how a bot chooses which card to flip
type Strategy interface {
	// ChooseCard selects the next card to flip in the session
	ChooseCard(session *board.Session) int
	// Observe is called with every card the bot turns face up
	Observe(idx, value int)
}

// NewStrategy builds a fresh strategy by name. Strategies hold per-game
// state, so each session needs its own instance.
func NewStrategy(name string, rnd random.Random) (Strategy, error) {
	switch name {
	case model.BotStrategyRandom:
		return NewRandomStrategy(rnd), nil
	case model.BotStrategyMemory:
		return NewMemoryStrategy(rnd), nil
	default:
		return nil, fmt.Errorf("unknown bot strategy: %s", name)
	}
}

// RandomStrategy flips random selectable cards and remembers nothing
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseCard picks a random card that is neither matched nor face up
func (s *RandomStrategy) ChooseCard(session *board.Session) int {
	selectable := session.Selectable()
	if len(selectable) == 0 {
		return -1
	}
	return selectable[s.random.Intn(len(selectable))]
}

// Observe does nothing
func (s *RandomStrategy) Observe(int, int) {}

// MemoryStrategy remembers every revealed card and completes known pairs
// before exploring unseen cards
type MemoryStrategy struct {
	random random.Random
	seen   map[int]int // card index -> value
}

// NewMemoryStrategy creates a new MemoryStrategy
func NewMemoryStrategy(rnd random.Random) *MemoryStrategy {
	return &MemoryStrategy{
		random: rnd,
		seen:   make(map[int]int),
	}
}

// Observe records the value of a revealed card
func (s *MemoryStrategy) Observe(idx, value int) {
	s.seen[idx] = value
}

// ChooseCard plays the partner of the face-up card if known, then any known
// pair, then an unseen card
func (s *MemoryStrategy) ChooseCard(session *board.Session) int {
	selectable := session.Selectable()
	if len(selectable) == 0 {
		return -1
	}

	if pending, ok := session.Pending(); ok {
		if partner, found := s.knownPartner(selectable, pending); found {
			return partner
		}
	} else if first, found := s.knownPair(selectable); found {
		return first
	}

	unseen := make([]int, 0, len(selectable))
	for _, idx := range selectable {
		if _, ok := s.seen[idx]; !ok {
			unseen = append(unseen, idx)
		}
	}
	if len(unseen) > 0 {
		return unseen[s.random.Intn(len(unseen))]
	}
	return selectable[s.random.Intn(len(selectable))]
}

// knownPartner finds a selectable card known to share the value of idx
func (s *MemoryStrategy) knownPartner(selectable []int, idx int) (int, bool) {
	value, ok := s.seen[idx]
	if !ok {
		return 0, false
	}
	for _, candidate := range selectable {
		if v, ok := s.seen[candidate]; ok && v == value {
			return candidate, true
		}
	}
	return 0, false
}

// knownPair finds the lowest selectable card whose partner is also known
func (s *MemoryStrategy) knownPair(selectable []int) (int, bool) {
	firstByValue := make(map[int]int)
	for _, idx := range selectable {
		v, ok := s.seen[idx]
		if !ok {
			continue
		}
		if first, dup := firstByValue[v]; dup {
			return first, true
		}
		firstByValue[v] = idx
	}
	return 0, false
}
