package dealer

import (
	"fmt"
	"math/rand"

	"Blackjack/internal/game/card"
)

const (
	DeckSize = 52
	MinDecks = 1
	MaxDecks = 8
)

// Shoe is a multi-deck card source. Cards are popped from the top (end of
// the slice); the shoe refills and reshuffles itself when a draw finds it
// empty or below the reshuffle threshold.
type Shoe struct {
	decks     int
	threshold float64
	cards     []card.Card
	total     int
	rnd       *rand.Rand
}

func NewShoe(decks int, threshold float64, seed int64) (*Shoe, error) {
	if decks < MinDecks || decks > MaxDecks {
		return nil, fmt.Errorf("dealer: number of decks must be between %d and %d, got %d", MinDecks, MaxDecks, decks)
	}
	s := &Shoe{
		decks:     decks,
		threshold: threshold,
		rnd:       rand.New(rand.NewSource(seed)),
	}
	s.Reset()
	return s, nil
}

// Reset rebuilds every deck in the shoe and shuffles the lot.
func (s *Shoe) Reset() {
	s.cards = s.makeShoe()
	s.total = len(s.cards)
	s.Shuffle()
}

func (s *Shoe) makeShoe() []card.Card {
	cards := make([]card.Card, 0, DeckSize*s.decks)
	for i := 0; i < s.decks; i++ {
		for _, suit := range card.Suits {
			for _, rank := range card.Ranks {
				cards = append(cards, card.New(rank, suit))
			}
		}
	}
	return cards
}

// Shuffle reorders the remaining cards with a Fisher-Yates shuffle.
func (s *Shoe) Shuffle() {
	s.rnd.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// Draw never fails: an empty or depleted shoe is reset before drawing.
func (s *Shoe) Draw() card.Card {
	if s.IsEmpty() || s.NeedsReshuffle() {
		s.Reset()
	}
	last := len(s.cards) - 1
	c := s.cards[last]
	s.cards = s.cards[:last]
	return c
}

// NeedsReshuffle reports whether remaining <= floor(total * threshold).
func (s *Shoe) NeedsReshuffle() bool {
	return len(s.cards) <= int(float64(s.total)*s.threshold)
}

func (s *Shoe) Remaining() int { return len(s.cards) }

func (s *Shoe) Total() int { return s.total }

func (s *Shoe) IsEmpty() bool { return len(s.cards) == 0 }

// Penetration is the fraction of the shoe dealt since the last shuffle.
func (s *Shoe) Penetration() float64 {
	if s.total == 0 {
		return 0
	}
	return 1 - float64(len(s.cards))/float64(s.total)
}
