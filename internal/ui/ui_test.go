package ui

import (
	"regexp"
	"testing"

	"Blackjack/internal/game/card"
	"Blackjack/internal/game/engine"
	"Blackjack/internal/game/manager"
	"Blackjack/internal/game/rules"

	"github.com/stretchr/testify/assert"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string { return ansi.ReplaceAllString(s, "") }

func cards(ss ...string) []card.Card {
	out := make([]card.Card, 0, len(ss))
	for _, s := range ss {
		out = append(out, card.MustParse(s))
	}
	return out
}

func TestHandHidesHoleCard(t *testing.T) {
	h := engine.HandView{Cards: cards("K♠"), Hidden: 1}
	assert.Equal(t, "[??] [K♠]", plain(Hand(h)))
	assert.Equal(t, "(empty)", plain(Hand(engine.HandView{})))
}

func TestDisplayPlayerTurn(t *testing.T) {
	v := engine.View{
		State: engine.StatePlayerTurn,
		Hands: []engine.HandView{{Cards: cards("A♠", "6♥"), Value: 17, Soft: true}},
		Dealer: engine.HandView{
			Cards: cards("9♣"), Hidden: 1, Value: 9,
		},
		Actions: engine.Actions{Hit: true, Stand: true, Double: true},
	}

	out := plain(Display(v))
	assert.Contains(t, out, "Your Hand (17) (soft):")
	assert.Contains(t, out, "[A♠] [6♥]")
	assert.Contains(t, out, "Dealer shows:")
	assert.Contains(t, out, "[??] [9♣]")
	assert.Contains(t, out, "[HIT] [STAND] [DOUBLE]")
	assert.NotContains(t, out, "[SPLIT]")
}

func TestDisplaySplitHands(t *testing.T) {
	v := engine.View{
		State:       engine.StatePlayerTurn,
		CurrentHand: 1,
		Hands: []engine.HandView{
			{Cards: cards("8♠", "3♦"), Value: 11, DoubledDown: true},
			{Cards: cards("8♥", "2♣"), Value: 10},
		},
		Dealer:  engine.HandView{Cards: cards("6♣"), Hidden: 1},
		Actions: engine.Actions{Stand: true},
	}

	out := plain(Display(v))
	assert.Contains(t, out, "Hand 1 (11) [DOUBLED]:")
	assert.Contains(t, out, "Hand 2 (active) (10):")
}

func TestDisplayInsurancePrompt(t *testing.T) {
	v := engine.View{
		State:   engine.StateWaitingForInsurance,
		Hands:   []engine.HandView{{Cards: cards("A♠", "K♥"), Value: 21}},
		Dealer:  engine.HandView{Cards: cards("A♣"), Hidden: 1},
		Actions: engine.Actions{Insurance: true, EvenMoney: true},
	}

	out := plain(Display(v))
	assert.Contains(t, out, "Dealer shows an Ace!")
	assert.Contains(t, out, "[YES - Take Insurance]")
	assert.Contains(t, out, "[EVEN MONEY]")
}

func TestDisplayFinished(t *testing.T) {
	v := engine.View{
		State:  engine.StateFinished,
		Hands:  []engine.HandView{{Cards: cards("K♠", "Q♥"), Value: 20, Result: engine.ResultPlayerWin}},
		Dealer: engine.HandView{Cards: cards("10♣", "7♦"), Value: 17},
		Result: engine.ResultPlayerWin,
	}

	out := plain(Display(v))
	assert.Contains(t, out, "Dealer's Hand (17):")
	assert.Contains(t, out, ">>> You win! <<<")
	assert.Contains(t, out, "[Play Again]")
}

func TestDisplayFinishedSplit(t *testing.T) {
	v := engine.View{
		State: engine.StateFinished,
		Hands: []engine.HandView{
			{Value: 19, Result: engine.ResultPlayerWin},
			{Value: 24, Result: engine.ResultPlayerBust},
		},
		Dealer: engine.HandView{Value: 18},
		Result: engine.ResultPlayerWin,
	}

	out := plain(Display(v))
	assert.Contains(t, out, "Hand 1: You win!")
	assert.Contains(t, out, "Hand 2: Bust! You lose!")
	assert.NotContains(t, out, ">>>")
}

func TestResultText(t *testing.T) {
	assert.Equal(t, "Push! It's a tie!", ResultText(engine.ResultPush))
	assert.Equal(t, "Surrendered (half bet returned)", ResultText(engine.ResultSurrendered))
	assert.Equal(t, "Dealer busts! You win!", ResultText(engine.ResultDealerBust))
}

func TestStats(t *testing.T) {
	out := plain(Stats(manager.PlayerStats{Wins: 3, Losses: 1, CurrentWinStreak: 0, BestWinStreak: 3}))
	assert.Contains(t, out, "Games Played: 4")
	assert.Contains(t, out, "Wins: 3 (75.0%)")
	assert.Contains(t, out, "Best Streak: 3")

	assert.Contains(t, plain(Stats(manager.PlayerStats{})), "Wins: 0 (N/A)")
}

func TestRules(t *testing.T) {
	cfg := rules.DefaultConfig()
	out := plain(Rules(cfg))
	assert.Contains(t, out, "House Rules")
	assert.Contains(t, out, "Decks: 1")
	assert.Contains(t, out, "Blackjack pays: 3:2")
	assert.Contains(t, out, "Dealer: Stands on soft 17")
	assert.Contains(t, out, "Double down: Yes (any two cards)")
	assert.Contains(t, out, "Split: Yes (up to 4 hands)")
	assert.Contains(t, out, "Surrender: late surrender")
	assert.Contains(t, out, "Insurance: Yes (pays 2:1)")
	assert.NotContains(t, out, "Charlie")

	cfg.BlackjackPayout = 1.2
	cfg.DealerStandsOnSoft17 = false
	cfg.AllowSurrender = false
	cfg.FiveCardCharlie = true
	out = plain(Rules(cfg))
	assert.Contains(t, out, "Blackjack pays: 6:5")
	assert.Contains(t, out, "Dealer: Hits on soft 17")
	assert.Contains(t, out, "Surrender: No")
	assert.Contains(t, out, "5 Card Charlie: Yes")
}

func TestLegacy(t *testing.T) {
	assert.Equal(t, "alice just got a BLACKJACK!", plain(Legacy("&6alice &ejust got a &l&6BLACKJACK&r!")))
	assert.Equal(t, "salt & pepper", plain(Legacy("salt & pepper")))
	assert.Equal(t, "trailing &", plain(Legacy("trailing &")))
}
