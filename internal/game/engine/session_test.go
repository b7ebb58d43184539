package engine

import (
	"math/rand"
	"testing"

	"Blackjack/internal/game/card"
	"Blackjack/internal/game/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stackedShoe deals cards in the given order, then an endless run of twos.
type stackedShoe struct {
	cards  []card.Card
	resets int
}

func stack(cards ...string) *stackedShoe {
	s := &stackedShoe{}
	for _, c := range cards {
		s.cards = append(s.cards, card.MustParse(c))
	}
	return s
}

func (s *stackedShoe) Draw() card.Card {
	if len(s.cards) == 0 {
		return card.New(card.Two, card.Clubs)
	}
	c := s.cards[0]
	s.cards = s.cards[1:]
	return c
}

func (s *stackedShoe) NeedsReshuffle() bool { return false }
func (s *stackedShoe) Reset()               { s.resets++ }

func plainRules() rules.Config {
	c := rules.DefaultConfig()
	c.AllowInsurance = false
	c.DealerPeeks = false
	return c
}

// newSession deals in the order player, dealer, player, dealer, then any
// extra cards for later draws.
func newSession(t *testing.T, cfg rules.Config, cards ...string) *Session {
	t.Helper()
	s, err := NewSession("player-1", cfg, WithShoe(stack(cards...)))
	require.NoError(t, err)
	return s
}

func requireResult(t *testing.T, s *Session, want Result) {
	t.Helper()
	got, ok := s.Result()
	require.True(t, ok, "round should be settled")
	assert.Equal(t, want, got)
}

func TestNewSessionDealsFourCards(t *testing.T) {
	s, err := NewSession("p", rules.DefaultConfig(), WithSeed(42))
	require.NoError(t, err)

	assert.Equal(t, 1, s.HandCount())
	assert.Equal(t, 2, s.PlayerHands()[0].Len())
	assert.Equal(t, 2, s.DealerHand().Len())
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, "p", s.PlayerID())
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := rules.DefaultConfig()
	cfg.NumberOfDecks = 0
	_, err := NewSession("p", cfg)
	assert.ErrorIs(t, err, rules.ErrInvalidConfig)
}

func TestStandWinsAgainstDealerSeventeen(t *testing.T) {
	s := newSession(t, plainRules(), "K♠", "9♥", "Q♦", "8♣")
	require.True(t, s.IsPlayerTurn())

	assert.True(t, s.Stand())
	assert.True(t, s.IsFinished())
	assert.Equal(t, 2, s.DealerHand().Len(), "dealer stands on 17")
	requireResult(t, s, ResultPlayerWin)
	assert.Equal(t, 1.0, s.HandResults()[0].Payout)
}

func TestHitBustSkipsDealer(t *testing.T) {
	s := newSession(t, plainRules(), "10♠", "9♥", "6♦", "7♣", "K♥")

	assert.True(t, s.Hit())
	assert.True(t, s.IsFinished())
	assert.Equal(t, 2, s.DealerHand().Len())
	requireResult(t, s, ResultPlayerBust)
	assert.Equal(t, -1.0, s.TotalPayout())
}

func TestHitKeepsTurn(t *testing.T) {
	s := newSession(t, plainRules(), "2♠", "9♥", "3♦", "7♣", "4♥")

	assert.True(t, s.Hit())
	assert.True(t, s.IsPlayerTurn())
	assert.Equal(t, 9, s.CurrentHand().Value())
}

func TestDoubleDownDrawsOneCard(t *testing.T) {
	s := newSession(t, plainRules(), "5♠", "9♥", "6♦", "7♣", "10♥", "8♠")

	require.True(t, s.CanDoubleDown())
	assert.True(t, s.DoubleDown())
	assert.True(t, s.IsFinished())

	h := s.PlayerHands()[0]
	assert.Equal(t, 3, h.Len())
	assert.True(t, h.DoubledDown())
	assert.Equal(t, 3, s.DealerHand().Len())
	requireResult(t, s, ResultDealerBust)
	assert.Equal(t, 2.0, s.HandResults()[0].Payout)
}

func TestDoubleDownRespectsRule(t *testing.T) {
	cfg := plainRules()
	cfg.DoubleDownOn = rules.ElevenOnly
	s := newSession(t, cfg, "4♠", "9♥", "6♦", "7♣")

	assert.False(t, s.CanDoubleDown())
	assert.False(t, s.DoubleDown())
	assert.True(t, s.IsPlayerTurn())
	assert.Equal(t, 2, s.CurrentHand().Len())
	assert.False(t, s.CurrentHand().DoubledDown())

	cfg.AllowDoubleDown = false
	cfg.DoubleDownOn = rules.AnyTwoCards
	s = newSession(t, cfg, "5♠", "9♥", "6♦", "7♣")
	assert.False(t, s.DoubleDown())
}

func TestSplitEights(t *testing.T) {
	s := newSession(t, plainRules(), "8♠", "5♥", "8♦", "10♣", "3♠", "2♥")

	require.True(t, s.CanSplit())
	assert.True(t, s.Split())
	assert.Equal(t, 2, s.HandCount())
	assert.Equal(t, 0, s.CurrentHandIndex())
	assert.True(t, s.IsPlayerTurn())

	hands := s.PlayerHands()
	assert.Equal(t, []card.Card{card.MustParse("8♠"), card.MustParse("2♥")}, hands[0].Cards())
	assert.Equal(t, []card.Card{card.MustParse("8♦"), card.MustParse("3♠")}, hands[1].Cards())
	assert.True(t, hands[0].FromSplit())
	assert.True(t, hands[1].FromSplit())
	assert.False(t, hands[0].SplitAces())
}

func TestSplitHandsPlayInOrder(t *testing.T) {
	s := newSession(t, plainRules(), "8♠", "10♥", "8♦", "7♣", "3♠", "2♥", "K♦")

	require.True(t, s.Split())
	assert.True(t, s.Stand())
	assert.Equal(t, 1, s.CurrentHandIndex())
	assert.Equal(t, 2, s.CurrentHandNumber())
	assert.True(t, s.IsPlayerTurn())

	assert.True(t, s.Hit())
	assert.Equal(t, 21, s.CurrentHand().Value())
	assert.False(t, s.CurrentHand().IsBlackjack())
	assert.True(t, s.Stand())
	assert.True(t, s.IsFinished())

	results := s.HandResults()
	require.Len(t, results, 2)
	assert.Equal(t, ResultDealerWin, results[0].Result)
	assert.Equal(t, ResultPlayerWin, results[1].Result)
	requireResult(t, s, ResultDealerWin)
	assert.Equal(t, 0.0, s.TotalPayout())
}

func TestSplitLimit(t *testing.T) {
	cfg := plainRules()
	cfg.MaxSplitHands = 2
	s := newSession(t, cfg, "8♠", "10♥", "8♦", "7♣", "8♥", "8♣")

	require.True(t, s.Split())
	assert.True(t, s.CurrentHand().IsPair())
	assert.False(t, s.CanSplit())
	assert.False(t, s.Split())
	assert.Equal(t, 2, s.HandCount())

	cfg.AllowSplit = false
	s = newSession(t, cfg, "8♠", "10♥", "8♦", "7♣")
	assert.False(t, s.Split())
}

func TestResplitUpToFourHands(t *testing.T) {
	s := newSession(t, plainRules(), "8♠", "10♥", "8♦", "7♣", "8♥", "8♣", "8♠", "8♦", "8♥", "8♣")

	assert.True(t, s.Split())
	assert.True(t, s.Split())
	assert.True(t, s.Split())
	assert.Equal(t, 4, s.HandCount())
	assert.False(t, s.Split())
}

func TestSplitAcesGetOneCardEach(t *testing.T) {
	s := newSession(t, plainRules(), "A♠", "9♥", "A♦", "7♣", "K♠", "5♥", "10♦")

	require.True(t, s.Split())
	assert.True(t, s.IsFinished(), "split aces stand automatically")
	require.Equal(t, 2, s.HandCount())

	hands := s.PlayerHands()
	assert.True(t, hands[0].SplitAces())
	assert.True(t, hands[1].SplitAces())
	assert.False(t, hands[1].IsBlackjack(), "21 after a split is not a natural")

	results := s.HandResults()
	assert.Equal(t, ResultDealerBust, results[0].Result)
	assert.Equal(t, ResultDealerBust, results[1].Result)
	assert.Equal(t, 1.0, results[1].Payout)
}

func TestHitSplitAcesWhenAllowed(t *testing.T) {
	cfg := plainRules()
	cfg.AllowHitSplitAces = true
	s := newSession(t, cfg, "A♠", "9♥", "A♦", "7♣", "5♥", "A♥")

	require.True(t, s.Split())
	assert.True(t, s.IsPlayerTurn())
	assert.True(t, s.CanHit())
	assert.True(t, s.CurrentHand().IsPair())
	assert.False(t, s.CanSplit(), "re-splitting aces is off by default")

	cfg.AllowResplitAces = true
	s = newSession(t, cfg, "A♠", "9♥", "A♦", "7♣", "5♥", "A♥")
	require.True(t, s.Split())
	assert.True(t, s.CanSplit())
}

func TestSurrenderLate(t *testing.T) {
	s := newSession(t, plainRules(), "10♠", "9♥", "6♦", "7♣")

	require.True(t, s.CanSurrender())
	assert.True(t, s.Surrender())
	assert.True(t, s.IsFinished())
	assert.Equal(t, 2, s.DealerHand().Len())
	requireResult(t, s, ResultSurrendered)
	assert.Equal(t, -0.5, s.HandResults()[0].Payout)
}

func TestSurrenderRestrictions(t *testing.T) {
	cfg := plainRules()
	cfg.SurrenderType = rules.SurrenderNone
	s := newSession(t, cfg, "10♠", "9♥", "6♦", "7♣")
	assert.False(t, s.Surrender())

	cfg = plainRules()
	cfg.AllowSurrender = false
	s = newSession(t, cfg, "10♠", "9♥", "6♦", "7♣")
	assert.False(t, s.Surrender())

	s = newSession(t, plainRules(), "2♠", "9♥", "3♦", "7♣", "4♥")
	require.True(t, s.Hit())
	assert.False(t, s.Surrender(), "only on the first two cards")

	s = newSession(t, plainRules(), "8♠", "9♥", "8♦", "7♣", "3♠", "2♥")
	require.True(t, s.Split())
	assert.False(t, s.Surrender(), "not after a split")
	assert.True(t, s.IsPlayerTurn())
}

func TestInsuranceOfferedOnDealerAce(t *testing.T) {
	cfg := rules.DefaultConfig()
	s := newSession(t, cfg, "10♠", "K♥", "7♦", "A♣")

	assert.True(t, s.IsWaitingForInsurance())
	assert.True(t, s.InsuranceOffered())
	assert.False(t, s.CanHit())
	assert.False(t, s.Hit())
	assert.False(t, s.Stand())

	assert.True(t, s.TakeInsurance())
	assert.True(t, s.IsFinished())
	assert.True(t, s.DealerHasBlackjack())
	requireResult(t, s, ResultDealerWin)
	assert.Equal(t, 2.0, s.InsurancePayout())
	assert.Equal(t, 1.0, s.TotalPayout())
	assert.False(t, s.DeclineInsurance(), "decision already made")
}

func TestInsuranceDeclinedWithoutDealerBlackjack(t *testing.T) {
	s := newSession(t, rules.DefaultConfig(), "10♠", "5♥", "7♦", "A♣", "10♥", "2♠")

	require.True(t, s.DeclineInsurance())
	assert.True(t, s.IsPlayerTurn())
	assert.False(t, s.DealerHasBlackjack())

	require.True(t, s.Stand())
	assert.Equal(t, 18, s.DealerHand().Value())
	requireResult(t, s, ResultDealerWin)
	assert.Equal(t, 0.0, s.InsurancePayout())
}

func TestInsuranceLostWhenNoDealerBlackjack(t *testing.T) {
	s := newSession(t, rules.DefaultConfig(), "10♠", "5♥", "9♦", "A♣")

	require.True(t, s.TakeInsurance())
	assert.True(t, s.IsPlayerTurn())
	assert.Equal(t, -0.5, s.InsurancePayout())
}

func TestInsuranceThenPlayerBlackjack(t *testing.T) {
	s := newSession(t, rules.DefaultConfig(), "A♠", "5♥", "K♦", "A♣", "10♥", "2♠")

	require.True(t, s.DeclineInsurance())
	assert.True(t, s.IsFinished(), "a natural skips straight to the dealer")
	requireResult(t, s, ResultPlayerBlackjack)
	assert.Equal(t, 1.5, s.HandResults()[0].Payout)
}

func TestEvenMoney(t *testing.T) {
	s := newSession(t, rules.DefaultConfig(), "A♠", "K♥", "K♦", "A♣")

	require.True(t, s.CanTakeEvenMoney())
	assert.True(t, s.TakeEvenMoney())
	assert.True(t, s.IsFinished())
	assert.True(t, s.EvenMoneyTaken())
	requireResult(t, s, ResultPlayerBlackjack)
	assert.Equal(t, 1.0, s.TotalPayout())

	cfg := rules.DefaultConfig()
	cfg.AllowEvenMoney = false
	s = newSession(t, cfg, "A♠", "K♥", "K♦", "A♣")
	assert.False(t, s.TakeEvenMoney())
	assert.True(t, s.IsWaitingForInsurance())

	s = newSession(t, rules.DefaultConfig(), "10♠", "K♥", "7♦", "A♣")
	assert.False(t, s.TakeEvenMoney(), "needs a player blackjack")
}

func TestDealerPeekEndsRound(t *testing.T) {
	cfg := rules.DefaultConfig()
	cfg.AllowInsurance = false

	s := newSession(t, cfg, "10♠", "K♥", "7♦", "A♣")
	assert.True(t, s.IsFinished())
	assert.True(t, s.DealerHasBlackjack())
	requireResult(t, s, ResultDealerWin)

	s = newSession(t, cfg, "10♠", "A♥", "7♦", "Q♣")
	assert.True(t, s.IsFinished())
	requireResult(t, s, ResultDealerWin)
}

func TestNoPeekLetsPlayerAct(t *testing.T) {
	s := newSession(t, plainRules(), "10♠", "A♥", "7♦", "Q♣")

	assert.True(t, s.IsPlayerTurn())
	require.True(t, s.Stand())
	assert.Equal(t, 2, s.DealerHand().Len())
	requireResult(t, s, ResultDealerWin)
}

func TestPlayerBlackjackSkipsTurn(t *testing.T) {
	s := newSession(t, plainRules(), "A♠", "9♥", "K♦", "7♣", "5♥")

	assert.True(t, s.IsFinished())
	assert.Equal(t, 21, s.DealerHand().Value())
	requireResult(t, s, ResultPlayerBlackjack)
	assert.Equal(t, 1.5, s.HandResults()[0].Payout)
}

func TestBothBlackjackPush(t *testing.T) {
	s := newSession(t, plainRules(), "A♠", "K♥", "K♦", "A♣")

	assert.True(t, s.IsFinished())
	requireResult(t, s, ResultPush)
	assert.Equal(t, 0.0, s.TotalPayout())
}

func TestDealerSoftSeventeen(t *testing.T) {
	cfg := plainRules()
	s := newSession(t, cfg, "10♠", "6♥", "8♦", "A♣", "2♠")
	require.True(t, s.Stand())
	assert.Equal(t, 17, s.DealerHand().Value())
	requireResult(t, s, ResultPlayerWin)

	cfg.DealerStandsOnSoft17 = false
	s = newSession(t, cfg, "10♠", "6♥", "8♦", "A♣", "2♠")
	require.True(t, s.Stand())
	assert.Equal(t, 19, s.DealerHand().Value())
	requireResult(t, s, ResultDealerWin)

	// hard 17 never draws
	s = newSession(t, cfg, "10♠", "10♥", "8♦", "7♣", "2♠")
	require.True(t, s.Stand())
	assert.Equal(t, 2, s.DealerHand().Len())
}

func TestFiveCardCharlie(t *testing.T) {
	cfg := plainRules()
	cfg.FiveCardCharlie = true
	s := newSession(t, cfg, "2♠", "10♥", "3♦", "8♣", "2♥", "2♦", "3♣")

	require.True(t, s.Hit())
	require.True(t, s.Hit())
	assert.True(t, s.IsPlayerTurn())
	require.True(t, s.Hit())
	assert.True(t, s.IsFinished(), "fifth card ends the hand")
	assert.Equal(t, 12, s.PlayerHands()[0].Value())
	requireResult(t, s, ResultPlayerWin)
	assert.Equal(t, 1.0, s.TotalPayout())
}

func TestFinishedSessionRejectsActions(t *testing.T) {
	s := newSession(t, plainRules(), "K♠", "9♥", "Q♦", "8♣")
	require.True(t, s.Stand())

	assert.False(t, s.Hit())
	assert.False(t, s.Stand())
	assert.False(t, s.DoubleDown())
	assert.False(t, s.Split())
	assert.False(t, s.Surrender())
	assert.False(t, s.TakeInsurance())
	assert.False(t, s.DeclineInsurance())
	assert.False(t, s.TakeEvenMoney())
	assert.Equal(t, StateFinished, s.State())
}

func TestViewHidesHoleCard(t *testing.T) {
	s := newSession(t, plainRules(), "K♠", "9♥", "Q♦", "8♣")

	v := s.View()
	assert.Equal(t, StatePlayerTurn, v.State)
	assert.Equal(t, []card.Card{card.MustParse("8♣")}, v.Dealer.Cards)
	assert.Equal(t, 1, v.Dealer.Hidden)
	assert.Equal(t, 8, v.Dealer.Value)
	assert.True(t, v.Actions.Hit)
	assert.True(t, v.Actions.Stand)
	assert.Empty(t, v.Result)

	require.True(t, s.Stand())
	v = s.View()
	assert.Len(t, v.Dealer.Cards, 2)
	assert.Zero(t, v.Dealer.Hidden)
	assert.Equal(t, ResultPlayerWin, v.Result)
	assert.Equal(t, ResultPlayerWin, v.Hands[0].Result)
	assert.Equal(t, 1.0, v.TotalPayout)
	assert.False(t, v.Actions.Stand)
}

// Random play must always settle with one result per hand.
func TestRandomPlayAlwaysFinishes(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	cfg := rules.DefaultConfig()
	cfg.NumberOfDecks = 6
	cfg.FiveCardCharlie = true

	for i := 0; i < 2000; i++ {
		s, err := NewSession("p", cfg, WithSeed(int64(i)))
		require.NoError(t, err)

		for steps := 0; !s.IsFinished(); steps++ {
			require.Less(t, steps, 100)
			if s.IsWaitingForInsurance() {
				if rnd.Intn(2) == 0 {
					s.TakeInsurance()
				} else {
					s.DeclineInsurance()
				}
				continue
			}
			require.True(t, s.IsPlayerTurn())
			switch rnd.Intn(5) {
			case 0:
				s.Hit()
			case 1:
				s.DoubleDown()
			case 2:
				s.Split()
			case 3:
				s.Surrender()
			default:
				s.Stand()
			}
		}

		require.Len(t, s.HandResults(), s.HandCount())
		assert.LessOrEqual(t, s.HandCount(), cfg.MaxSplitHands)
		if !s.DealerHasBlackjack() && s.DealerHand().Len() > 2 {
			assert.GreaterOrEqual(t, s.DealerHand().Value(), 17)
		}
	}
}
