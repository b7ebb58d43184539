package rules

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidConfig = errors.New("rules: invalid configuration")

// DoubleDownRule restricts which two-card totals may double.
type DoubleDownRule int

const (
	AnyTwoCards DoubleDownRule = iota
	NineTenEleven
	TenEleven
	ElevenOnly
)

var doubleDownNames = []string{"ANY_TWO_CARDS", "NINE_TEN_ELEVEN", "TEN_ELEVEN", "ELEVEN_ONLY"}

func (r DoubleDownRule) String() string {
	if r < 0 || int(r) >= len(doubleDownNames) {
		return "UNKNOWN"
	}
	return doubleDownNames[r]
}

// Label is the lower-case display form, e.g. "nine ten eleven".
func (r DoubleDownRule) Label() string {
	return strings.ToLower(strings.ReplaceAll(r.String(), "_", " "))
}

// Allows reports whether a two-card total may double under the rule.
func (r DoubleDownRule) Allows(total int) bool {
	switch r {
	case AnyTwoCards:
		return true
	case NineTenEleven:
		return total >= 9 && total <= 11
	case TenEleven:
		return total == 10 || total == 11
	case ElevenOnly:
		return total == 11
	}
	return false
}

func ParseDoubleDownRule(s string) (DoubleDownRule, error) {
	for i, name := range doubleDownNames {
		if strings.EqualFold(normalize(s), name) {
			return DoubleDownRule(i), nil
		}
	}
	return AnyTwoCards, fmt.Errorf("%w: unknown double down rule %q", ErrInvalidConfig, s)
}

type SurrenderType int

const (
	SurrenderNone SurrenderType = iota
	SurrenderEarly
	SurrenderLate
)

var surrenderNames = []string{"NONE", "EARLY", "LATE"}

func (s SurrenderType) String() string {
	if s < 0 || int(s) >= len(surrenderNames) {
		return "UNKNOWN"
	}
	return surrenderNames[s]
}

func (s SurrenderType) Label() string {
	return strings.ToLower(s.String())
}

func ParseSurrenderType(s string) (SurrenderType, error) {
	for i, name := range surrenderNames {
		if strings.EqualFold(normalize(s), name) {
			return SurrenderType(i), nil
		}
	}
	return SurrenderNone, fmt.Errorf("%w: unknown surrender type %q", ErrInvalidConfig, s)
}

func normalize(s string) string {
	return strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s))
}

// Config is the ruleset a manager hands to every session it creates.
// It is passed by value, so sessions never observe later edits.
type Config struct {
	NumberOfDecks         int
	ReshuffleThreshold    float64
	DealerStandsOnSoft17  bool
	DealerPeeks           bool
	AllowDoubleDown       bool
	DoubleDownOn          DoubleDownRule
	AllowDoubleAfterSplit bool
	AllowSplit            bool
	MaxSplitHands         int
	AllowResplitAces      bool
	AllowHitSplitAces     bool
	AllowSurrender        bool
	SurrenderType         SurrenderType
	AllowInsurance        bool
	AllowEvenMoney        bool
	BlackjackPayout       float64
	InsurancePayout       float64
	FiveCardCharlie       bool
	CharlieCardCount      int
}

// DefaultConfig returns standard casino rules.
func DefaultConfig() Config {
	return Config{
		NumberOfDecks:         1,
		ReshuffleThreshold:    0.25,
		DealerStandsOnSoft17:  true,
		DealerPeeks:           true,
		AllowDoubleDown:       true,
		DoubleDownOn:          AnyTwoCards,
		AllowDoubleAfterSplit: true,
		AllowSplit:            true,
		MaxSplitHands:         4,
		AllowResplitAces:      false,
		AllowHitSplitAces:     false,
		AllowSurrender:        true,
		SurrenderType:         SurrenderLate,
		AllowInsurance:        true,
		AllowEvenMoney:        true,
		BlackjackPayout:       1.5,
		InsurancePayout:       2.0,
		FiveCardCharlie:       false,
		CharlieCardCount:      5,
	}
}

// New validates c and returns it unchanged on success.
func New(c Config) (Config, error) {
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.NumberOfDecks < 1 || c.NumberOfDecks > 8 {
		return fmt.Errorf("%w: number of decks must be between 1 and 8, got %d", ErrInvalidConfig, c.NumberOfDecks)
	}
	if !(c.BlackjackPayout > 0) {
		return fmt.Errorf("%w: blackjack payout must be positive, got %g", ErrInvalidConfig, c.BlackjackPayout)
	}
	if c.MaxSplitHands < 2 || c.MaxSplitHands > 4 {
		return fmt.Errorf("%w: max split hands must be between 2 and 4, got %d", ErrInvalidConfig, c.MaxSplitHands)
	}
	// written so NaN fails
	if !(c.ReshuffleThreshold >= 0.1 && c.ReshuffleThreshold <= 0.5) {
		return fmt.Errorf("%w: reshuffle threshold must be between 0.1 and 0.5, got %g", ErrInvalidConfig, c.ReshuffleThreshold)
	}
	if c.CharlieCardCount < 5 || c.CharlieCardCount > 7 {
		return fmt.Errorf("%w: charlie card count must be between 5 and 7, got %d", ErrInvalidConfig, c.CharlieCardCount)
	}
	return nil
}

// BlackjackPayoutLabel renders the payout as a ratio for rule summaries.
func (c Config) BlackjackPayoutLabel() string {
	switch c.BlackjackPayout {
	case 1.5:
		return "3:2"
	case 1.2:
		return "6:5"
	case 1:
		return "1:1"
	case 2:
		return "2:1"
	}
	return fmt.Sprintf("%gx", c.BlackjackPayout)
}
