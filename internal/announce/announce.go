package announce

import (
	"regexp"
	"strconv"
	"strings"

	"Blackjack/internal/game/engine"
	"Blackjack/internal/game/manager"
	"Blackjack/internal/utils"
)

// Sink delivers announcement text. Messages may carry "&"-style colour
// codes; use Plain to strip them.
type Sink interface {
	Broadcast(message string)
	Whisper(playerID, message string)
}

type Template struct {
	Enabled bool   `mapstructure:"enabled"`
	Message string `mapstructure:"message"`
}

type StreakTemplate struct {
	Enabled   bool   `mapstructure:"enabled"`
	Message   string `mapstructure:"message"`
	Threshold int    `mapstructure:"threshold"`
}

type Config struct {
	// BroadcastEnabled sends announcements to everyone; otherwise only
	// the player who triggered them hears about it.
	BroadcastEnabled bool           `mapstructure:"broadcastEnabled"`
	Blackjack        Template       `mapstructure:"blackjack"`
	Win              Template       `mapstructure:"win"`
	DealerBust       Template       `mapstructure:"dealerBust"`
	WinStreak        StreakTemplate `mapstructure:"winStreak"`
}

func DefaultConfig() Config {
	return Config{
		BroadcastEnabled: true,
		Blackjack: Template{
			Enabled: true,
			Message: "&6%player% &ejust got a &6BLACKJACK&e!",
		},
		Win: Template{
			Enabled: false,
			Message: "&a%player% &2won at blackjack!",
		},
		DealerBust: Template{
			Enabled: false,
			Message: "&a%player%'s &2dealer busted!",
		},
		WinStreak: StreakTemplate{
			Enabled:   true,
			Message:   "&6%player% &eis on a &6%streak%-win streak &eat blackjack!",
			Threshold: 3,
		},
	}
}

type Announcer struct {
	cfg  Config
	sink Sink
}

func New(cfg Config, sink Sink) *Announcer {
	return &Announcer{cfg: cfg, sink: sink}
}

func (a *Announcer) Config() Config {
	return a.cfg
}

func (a *Announcer) Blackjack(player string) {
	a.announce(player, a.cfg.Blackjack.Enabled, a.cfg.Blackjack.Message, nil)
}

func (a *Announcer) Win(player string) {
	a.announce(player, a.cfg.Win.Enabled, a.cfg.Win.Message, nil)
}

func (a *Announcer) DealerBust(player string) {
	a.announce(player, a.cfg.DealerBust.Enabled, a.cfg.DealerBust.Message, nil)
}

// WinStreak stays quiet below the configured threshold.
func (a *Announcer) WinStreak(player string, streak int) {
	if streak < a.cfg.WinStreak.Threshold {
		return
	}
	a.announce(player, a.cfg.WinStreak.Enabled, a.cfg.WinStreak.Message, map[string]string{
		"%streak%": strconv.Itoa(streak),
	})
}

// RoundEnded announces whatever a settled round earned.
func (a *Announcer) RoundEnded(player string, res manager.EndResult) {
	switch res.Result {
	case engine.ResultPlayerBlackjack:
		a.Blackjack(player)
	case engine.ResultDealerBust:
		a.DealerBust(player)
		a.Win(player)
	case engine.ResultPlayerWin:
		a.Win(player)
	}

	if res.WinStreak > 0 {
		a.WinStreak(player, res.WinStreak)
	}
}

func (a *Announcer) announce(player string, enabled bool, message string, extra map[string]string) {
	if !enabled || message == "" || a.sink == nil {
		return
	}
	msg := strings.ReplaceAll(message, "%player%", player)
	for k, v := range extra {
		msg = strings.ReplaceAll(msg, k, v)
	}

	utils.Log.Debug("announce", "player", player, "message", Plain(msg))
	if a.cfg.BroadcastEnabled {
		a.sink.Broadcast(msg)
	} else {
		a.sink.Whisper(player, msg)
	}
}

var colourCode = regexp.MustCompile(`&[0-9a-fk-orA-FK-OR]`)

// Plain removes "&" colour and format codes.
func Plain(message string) string {
	return colourCode.ReplaceAllString(message, "")
}
