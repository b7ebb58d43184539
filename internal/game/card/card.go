package card

import (
	"fmt"
	"strings"
)

type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in deck-building order.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

var suitSymbols = []string{"♠", "♥", "♦", "♣"}

func (s Suit) String() string {
	if s < 0 || int(s) >= len(suitSymbols) {
		return "?"
	}
	return suitSymbols[s]
}

// IsRed reports whether the suit is hearts or diamonds.
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// Ranks lists every rank in deck-building order.
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

var rankSymbols = map[Rank]string{
	Ace: "A", Jack: "J", Queen: "Q", King: "K",
}

func (r Rank) String() string {
	if s, ok := rankSymbols[r]; ok {
		return s
	}
	if r >= Two && r <= Ten {
		return fmt.Sprintf("%d", int(r))
	}
	return "?"
}

// Value is the base blackjack value of the rank. Aces count 11 here;
// hand valuation demotes them to 1 when needed.
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

// IsFace reports whether the rank is a jack, queen or king.
func (r Rank) IsFace() bool {
	return r == Jack || r == Queen || r == King
}

// Card is a plain value; duplicates across decks are indistinguishable.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func New(r Rank, s Suit) Card {
	return Card{Rank: r, Suit: s}
}

func (c Card) Value() int {
	return c.Rank.Value()
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Parse reads the display form produced by String, e.g. "A♠" or "10♥".
// Suit letters (S, H, D, C) are accepted as well.
func Parse(s string) (Card, error) {
	s = strings.TrimSpace(s)
	for i, sym := range suitSymbols {
		if strings.HasSuffix(s, sym) {
			return parseRank(strings.TrimSuffix(s, sym), Suit(i))
		}
	}
	if len(s) >= 2 {
		suit, ok := map[byte]Suit{'S': Spades, 'H': Hearts, 'D': Diamonds, 'C': Clubs}[s[len(s)-1]&^0x20]
		if ok {
			return parseRank(s[:len(s)-1], suit)
		}
	}
	return Card{}, fmt.Errorf("card: cannot parse %q", s)
}

func parseRank(s string, suit Suit) (Card, error) {
	for _, r := range Ranks {
		if strings.EqualFold(r.String(), s) {
			return Card{Rank: r, Suit: suit}, nil
		}
	}
	return Card{}, fmt.Errorf("card: unknown rank %q", s)
}

// MustParse is Parse for fixtures; it panics on malformed input.
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}
