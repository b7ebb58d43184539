// Package ui renders rounds, stats and house rules as styled terminal text.
package ui

import (
	"fmt"
	"strings"

	"Blackjack/internal/game/card"
	"Blackjack/internal/game/engine"
	"Blackjack/internal/game/manager"
	"Blackjack/internal/game/rules"

	"github.com/charmbracelet/lipgloss"
)

var (
	gold     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00"))
	yellow   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF55"))
	green    = lipgloss.NewStyle().Foreground(lipgloss.Color("#55FF55"))
	red      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	aqua     = lipgloss.NewStyle().Foreground(lipgloss.Color("#55FFFF"))
	gray     = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	darkGray = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	white    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	purple   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF55FF"))
	bold     = lipgloss.NewStyle().Bold(true)
)

const dividerText = "═══════════════════════════════"

func divider() string { return gold.Render(dividerText) }

func Card(c card.Card) string {
	if c.Suit.IsRed() {
		return red.Render("[" + c.String() + "]")
	}
	return white.Render("[" + c.String() + "]")
}

func HiddenCard() string { return darkGray.Render("[??]") }

// Hand renders cards side by side, then one hidden marker per face-down card.
func Hand(h engine.HandView) string {
	if len(h.Cards) == 0 && h.Hidden == 0 {
		return gray.Render("(empty)")
	}
	parts := make([]string, 0, len(h.Cards)+h.Hidden)
	for i := 0; i < h.Hidden; i++ {
		parts = append(parts, HiddenCard())
	}
	for _, c := range h.Cards {
		parts = append(parts, Card(c))
	}
	return strings.Join(parts, " ")
}

func handSection(label string, labelStyle lipgloss.Style, h engine.HandView, showSoft bool) string {
	var extra string
	if h.DoubledDown {
		extra += " [DOUBLED]"
	}
	if h.Surrendered {
		extra += " [SURRENDERED]"
	}
	if showSoft && h.Soft {
		extra += " (soft)"
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(label + " "))
	b.WriteString(white.Render(fmt.Sprintf("(%d)", h.Value)))
	if extra != "" {
		b.WriteString(gray.Render(extra))
	}
	b.WriteString(labelStyle.Render(":"))
	b.WriteString("\n  ")
	b.WriteString(Hand(h))
	b.WriteString("\n")
	return b.String()
}

// GameState shows every player hand and the dealer. The dealer's hole
// card is hidden by the view itself until the round is over.
func GameState(v engine.View) string {
	var b strings.Builder
	b.WriteString(divider())
	b.WriteString("\n")

	if len(v.Hands) == 1 {
		b.WriteString(handSection("Your Hand", yellow, v.Hands[0], true))
	} else {
		for i, h := range v.Hands {
			active := i == v.CurrentHand && v.State == engine.StatePlayerTurn
			label := fmt.Sprintf("Hand %d", i+1)
			style := yellow
			if active {
				label += " (active)"
				style = green
			}
			b.WriteString(handSection(label, style, h, false))
		}
	}
	b.WriteString("\n")

	if v.Dealer.Hidden == 0 {
		b.WriteString(handSection("Dealer's Hand", yellow, v.Dealer, true))
	} else {
		b.WriteString(yellow.Render("Dealer shows:"))
		b.WriteString("\n  ")
		b.WriteString(Hand(v.Dealer))
		b.WriteString("\n")
	}
	return b.String()
}

// Actions lists the commands the player may type next.
func Actions(v engine.View) string {
	var buttons []string
	if v.Actions.Hit {
		buttons = append(buttons, bold.Inherit(green).Render("[HIT]"))
	}
	buttons = append(buttons, bold.Inherit(red).Render("[STAND]"))
	if v.Actions.Double {
		buttons = append(buttons, bold.Inherit(gold).Render("[DOUBLE]"))
	}
	if v.Actions.Split {
		buttons = append(buttons, bold.Inherit(aqua).Render("[SPLIT]"))
	}
	if v.Actions.Surrender {
		buttons = append(buttons, bold.Inherit(gray).Render("[SURRENDER]"))
	}
	return "\n  " + strings.Join(buttons, " ") + "\n" + divider()
}

func InsurancePrompt(v engine.View) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(bold.Inherit(gold).Render("Dealer shows an Ace!"))
	b.WriteString("\n")
	b.WriteString(yellow.Render("Would you like insurance?"))
	b.WriteString("\n\n  ")
	b.WriteString(bold.Inherit(green).Render("[YES - Take Insurance]"))
	b.WriteString(" ")
	b.WriteString(bold.Inherit(red).Render("[NO - Decline]"))
	if v.Actions.EvenMoney {
		b.WriteString(" ")
		b.WriteString(bold.Inherit(gold).Render("[EVEN MONEY]"))
	}
	b.WriteString("\n")
	b.WriteString(divider())
	return b.String()
}

// ResultText is the headline for a result.
func ResultText(r engine.Result) string {
	switch r {
	case engine.ResultPlayerBlackjack:
		return "BLACKJACK! You win!"
	case engine.ResultPlayerWin:
		return "You win!"
	case engine.ResultDealerBust:
		return "Dealer busts! You win!"
	case engine.ResultDealerWin:
		return "Dealer wins!"
	case engine.ResultPlayerBust:
		return "Bust! You lose!"
	case engine.ResultPush:
		return "Push! It's a tie!"
	case engine.ResultSurrendered:
		return "Surrendered (half bet returned)"
	}
	return string(r)
}

func resultStyle(r engine.Result) lipgloss.Style {
	switch r {
	case engine.ResultPlayerBlackjack:
		return gold
	case engine.ResultPlayerWin, engine.ResultDealerBust:
		return green
	case engine.ResultPush:
		return yellow
	case engine.ResultSurrendered:
		return gray
	}
	return red
}

func Result(r engine.Result) string {
	return "\n" + bold.Inherit(resultStyle(r)).Render(">>> "+ResultText(r)+" <<<") +
		"\n" + divider() +
		"\n" + bold.Inherit(aqua).Render("[Play Again]")
}

// MultiHandResults lists each split hand's outcome.
func MultiHandResults(v engine.View) string {
	var b strings.Builder
	b.WriteString("\n")
	for i, h := range v.Hands {
		b.WriteString(yellow.Render(fmt.Sprintf("Hand %d: ", i+1)))
		b.WriteString(resultStyle(h.Result).Render(ResultText(h.Result)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(divider())
	b.WriteString("\n")
	b.WriteString(bold.Inherit(aqua).Render("[Play Again]"))
	return b.String()
}

// Display is the full screen for a view: table, then whatever the player
// needs next.
func Display(v engine.View) string {
	out := GameState(v)
	switch v.State {
	case engine.StateWaitingForInsurance:
		out += InsurancePrompt(v)
	case engine.StatePlayerTurn:
		out += Actions(v)
	case engine.StateFinished:
		if len(v.Hands) > 1 {
			out += MultiHandResults(v)
		} else if v.Result != "" {
			out += Result(v.Result)
		}
	}
	return out
}

func statLine(label string, value int, style lipgloss.Style, suffix string) string {
	line := white.Render("  "+label+": ") + style.Render(fmt.Sprint(value))
	if suffix != "" {
		line += gray.Render(suffix)
	}
	return line + "\n"
}

func Stats(st manager.PlayerStats) string {
	rate := "N/A"
	if st.GamesPlayed() > 0 {
		rate = fmt.Sprintf("%.1f%%", st.WinRate())
	}

	var b strings.Builder
	b.WriteString(divider() + "\n")
	b.WriteString(bold.Inherit(yellow).Render("       Blackjack Stats") + "\n")
	b.WriteString(divider() + "\n")
	b.WriteString(statLine("Games Played", st.GamesPlayed(), aqua, ""))
	b.WriteString(statLine("Wins", st.Wins, green, " ("+rate+")"))
	b.WriteString(statLine("Losses", st.Losses, red, ""))
	b.WriteString(statLine("Pushes", st.Pushes, yellow, ""))
	b.WriteString(statLine("Surrenders", st.Surrenders, gray, ""))
	b.WriteString(statLine("Blackjacks", st.Blackjacks, gold, ""))
	b.WriteString(statLine("Current Streak", st.CurrentWinStreak, purple, ""))
	b.WriteString(statLine("Best Streak", st.BestWinStreak, purple, ""))
	b.WriteString(divider())
	return b.String()
}

func ruleLine(label, value string, style lipgloss.Style) string {
	return white.Render("  "+label+": ") + style.Render(value) + "\n"
}

// Rules is the "House Rules" summary.
func Rules(cfg rules.Config) string {
	var b strings.Builder
	b.WriteString(divider() + "\n")
	b.WriteString(bold.Inherit(yellow).Render("       House Rules") + "\n")
	b.WriteString(divider() + "\n")

	b.WriteString(ruleLine("Decks", fmt.Sprint(cfg.NumberOfDecks), aqua))

	label := cfg.BlackjackPayoutLabel()
	payStyle := red
	if label == "3:2" {
		payStyle = green
	}
	b.WriteString(ruleLine("Blackjack pays", label, payStyle))

	if cfg.DealerStandsOnSoft17 {
		b.WriteString(ruleLine("Dealer", "Stands on soft 17", green))
	} else {
		b.WriteString(ruleLine("Dealer", "Hits on soft 17", yellow))
	}

	if cfg.AllowDoubleDown {
		b.WriteString(ruleLine("Double down", "Yes ("+cfg.DoubleDownOn.Label()+")", green))
	} else {
		b.WriteString(ruleLine("Double down", "No", red))
	}

	if cfg.AllowSplit {
		b.WriteString(ruleLine("Split", fmt.Sprintf("Yes (up to %d hands)", cfg.MaxSplitHands), green))
	} else {
		b.WriteString(ruleLine("Split", "No", red))
	}

	if cfg.AllowSurrender && cfg.SurrenderType != rules.SurrenderNone {
		b.WriteString(ruleLine("Surrender", cfg.SurrenderType.Label()+" surrender", yellow))
	} else {
		b.WriteString(ruleLine("Surrender", "No", red))
	}

	if cfg.AllowInsurance {
		b.WriteString(ruleLine("Insurance", "Yes (pays 2:1)", yellow))
	} else {
		b.WriteString(ruleLine("Insurance", "No", red))
	}

	if cfg.FiveCardCharlie {
		b.WriteString(ruleLine(fmt.Sprintf("%d Card Charlie", cfg.CharlieCardCount), "Yes", green))
	}
	b.WriteString(divider())
	return b.String()
}
