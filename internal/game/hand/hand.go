package hand

import (
	"encoding/json"

	"Blackjack/internal/game/card"
	"Blackjack/internal/game/rules"
)

const blackjack = 21

// Hand is a mutable card list owned by a single session. Its value is
// recomputed from the cards on every call.
type Hand struct {
	cards       []card.Card
	doubledDown bool
	surrendered bool
	fromSplit   bool
	splitAces   bool
}

func New() *Hand {
	return &Hand{}
}

// NewSplit creates a hand produced by splitting a pair.
func NewSplit(splitAces bool) *Hand {
	return &Hand{fromSplit: true, splitAces: splitAces}
}

// Cards returns a copy of the cards in deal order.
func (h *Hand) Cards() []card.Card {
	out := make([]card.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

func (h *Hand) Len() int { return len(h.cards) }

func (h *Hand) DoubledDown() bool { return h.doubledDown }
func (h *Hand) Surrendered() bool { return h.surrendered }
func (h *Hand) FromSplit() bool   { return h.fromSplit }
func (h *Hand) SplitAces() bool   { return h.splitAces }

// total returns the best total and how many aces still count as 11.
func (h *Hand) total() (int, int) {
	sum, aces := 0, 0
	for _, c := range h.cards {
		sum += c.Value()
		if c.Rank == card.Ace {
			aces++
		}
	}
	for sum > blackjack && aces > 0 {
		sum -= 10
		aces--
	}
	return sum, aces
}

// Value is the best total that does not bust, or the lowest total when
// every ace already counts as one.
func (h *Hand) Value() int {
	v, _ := h.total()
	return v
}

// IsSoft reports whether an ace still counts as 11.
func (h *Hand) IsSoft() bool {
	v, soft := h.total()
	return soft > 0 && v <= blackjack
}

func (h *Hand) IsBust() bool {
	return h.Value() > blackjack
}

// IsBlackjack is a natural: two cards worth 21 that did not come from a split.
func (h *Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Value() == blackjack && !h.fromSplit
}

func (h *Hand) IsPair() bool {
	return len(h.cards) == 2 && h.cards[0].Rank == h.cards[1].Rank
}

func (h *Hand) CanDoubleDown(rule rules.DoubleDownRule, allowAfterSplit bool) bool {
	if len(h.cards) != 2 || h.doubledDown {
		return false
	}
	if h.fromSplit && !allowAfterSplit {
		return false
	}
	return rule.Allows(h.Value())
}

func (h *Hand) Add(c card.Card) {
	h.cards = append(h.cards, c)
}

// FirstCard returns the first dealt card, if any.
func (h *Hand) FirstCard() (card.Card, bool) {
	if len(h.cards) == 0 {
		return card.Card{}, false
	}
	return h.cards[0], true
}

// CardAt returns the card at position i, if any.
func (h *Hand) CardAt(i int) (card.Card, bool) {
	if i < 0 || i >= len(h.cards) {
		return card.Card{}, false
	}
	return h.cards[i], true
}

// RemoveLast pops the most recently added card. Used when splitting.
func (h *Hand) RemoveLast() (card.Card, bool) {
	if len(h.cards) == 0 {
		return card.Card{}, false
	}
	last := len(h.cards) - 1
	c := h.cards[last]
	h.cards = h.cards[:last]
	return c, true
}

func (h *Hand) MarkDoubledDown() { h.doubledDown = true }
func (h *Hand) MarkSurrendered() { h.surrendered = true }

// Clear drops the cards and both action flags. Split provenance is kept.
func (h *Hand) Clear() {
	h.cards = nil
	h.doubledDown = false
	h.surrendered = false
}

type handJSON struct {
	Cards       []card.Card `json:"cards"`
	DoubledDown bool        `json:"doubledDown,omitempty"`
	Surrendered bool        `json:"surrendered,omitempty"`
	FromSplit   bool        `json:"fromSplit,omitempty"`
	SplitAces   bool        `json:"splitAces,omitempty"`
}

func (h *Hand) MarshalJSON() ([]byte, error) {
	cards := h.cards
	if cards == nil {
		cards = []card.Card{}
	}
	return json.Marshal(handJSON{
		Cards:       cards,
		DoubledDown: h.doubledDown,
		Surrendered: h.surrendered,
		FromSplit:   h.fromSplit,
		SplitAces:   h.splitAces,
	})
}

func (h *Hand) UnmarshalJSON(data []byte) error {
	var v handJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*h = Hand{
		cards:       v.Cards,
		doubledDown: v.DoubledDown,
		surrendered: v.Surrendered,
		fromSplit:   v.FromSplit,
		splitAces:   v.SplitAces,
	}
	return nil
}
