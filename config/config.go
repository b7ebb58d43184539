package config

import (
	"fmt"
	"strings"

	"Blackjack/internal/announce"
	"Blackjack/internal/game/rules"

	"github.com/spf13/viper"
)

const DefaultPath = "config/config.yaml"

type Config struct {
	Server struct {
		Port string
	}
	Log struct {
		Level string
	}
	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
		Channel  string
	}
	JWT struct {
		Secret string
	}
	Gameplay      Gameplay
	Announcements announce.Config
	JoinMessage   announce.JoinConfig `mapstructure:"joinMessage"`
}

// Gameplay mirrors rules.Config with the enums spelled as strings.
type Gameplay struct {
	NumberOfDecks         int     `mapstructure:"numberOfDecks"`
	ReshuffleThreshold    float64 `mapstructure:"reshuffleThreshold"`
	DealerStandsOnSoft17  bool    `mapstructure:"dealerStandsOnSoft17"`
	DealerPeeks           bool    `mapstructure:"dealerPeeks"`
	AllowDoubleDown       bool    `mapstructure:"allowDoubleDown"`
	DoubleDownOn          string  `mapstructure:"doubleDownOn"`
	AllowDoubleAfterSplit bool    `mapstructure:"allowDoubleAfterSplit"`
	AllowSplit            bool    `mapstructure:"allowSplit"`
	MaxSplitHands         int     `mapstructure:"maxSplitHands"`
	AllowResplitAces      bool    `mapstructure:"allowResplitAces"`
	AllowHitSplitAces     bool    `mapstructure:"allowHitSplitAces"`
	AllowSurrender        bool    `mapstructure:"allowSurrender"`
	SurrenderType         string  `mapstructure:"surrenderType"`
	AllowInsurance        bool    `mapstructure:"allowInsurance"`
	AllowEvenMoney        bool    `mapstructure:"allowEvenMoney"`
	BlackjackPayout       float64 `mapstructure:"blackjackPayout"`
	InsurancePayout       float64 `mapstructure:"insurancePayout"`
	FiveCardCharlie       bool    `mapstructure:"fiveCardCharlie"`
	CharlieCardCount      int     `mapstructure:"charlieCardCount"`
}

// Rules converts and validates the gameplay section.
func (g Gameplay) Rules() (rules.Config, error) {
	dd, err := rules.ParseDoubleDownRule(g.DoubleDownOn)
	if err != nil {
		return rules.Config{}, err
	}
	st, err := rules.ParseSurrenderType(g.SurrenderType)
	if err != nil {
		return rules.Config{}, err
	}
	return rules.New(rules.Config{
		NumberOfDecks:         g.NumberOfDecks,
		ReshuffleThreshold:    g.ReshuffleThreshold,
		DealerStandsOnSoft17:  g.DealerStandsOnSoft17,
		DealerPeeks:           g.DealerPeeks,
		AllowDoubleDown:       g.AllowDoubleDown,
		DoubleDownOn:          dd,
		AllowDoubleAfterSplit: g.AllowDoubleAfterSplit,
		AllowSplit:            g.AllowSplit,
		MaxSplitHands:         g.MaxSplitHands,
		AllowResplitAces:      g.AllowResplitAces,
		AllowHitSplitAces:     g.AllowHitSplitAces,
		AllowSurrender:        g.AllowSurrender,
		SurrenderType:         st,
		AllowInsurance:        g.AllowInsurance,
		AllowEvenMoney:        g.AllowEvenMoney,
		BlackjackPayout:       g.BlackjackPayout,
		InsurancePayout:       g.InsurancePayout,
		FiveCardCharlie:       g.FiveCardCharlie,
		CharlieCardCount:      g.CharlieCardCount,
	})
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("log.level", "info")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", announce.DefaultChannel)

	v.SetDefault("jwt.secret", "change-me")

	r := rules.DefaultConfig()
	v.SetDefault("gameplay.numberOfDecks", r.NumberOfDecks)
	v.SetDefault("gameplay.reshuffleThreshold", r.ReshuffleThreshold)
	v.SetDefault("gameplay.dealerStandsOnSoft17", r.DealerStandsOnSoft17)
	v.SetDefault("gameplay.dealerPeeks", r.DealerPeeks)
	v.SetDefault("gameplay.allowDoubleDown", r.AllowDoubleDown)
	v.SetDefault("gameplay.doubleDownOn", r.DoubleDownOn.String())
	v.SetDefault("gameplay.allowDoubleAfterSplit", r.AllowDoubleAfterSplit)
	v.SetDefault("gameplay.allowSplit", r.AllowSplit)
	v.SetDefault("gameplay.maxSplitHands", r.MaxSplitHands)
	v.SetDefault("gameplay.allowResplitAces", r.AllowResplitAces)
	v.SetDefault("gameplay.allowHitSplitAces", r.AllowHitSplitAces)
	v.SetDefault("gameplay.allowSurrender", r.AllowSurrender)
	v.SetDefault("gameplay.surrenderType", r.SurrenderType.String())
	v.SetDefault("gameplay.allowInsurance", r.AllowInsurance)
	v.SetDefault("gameplay.allowEvenMoney", r.AllowEvenMoney)
	v.SetDefault("gameplay.blackjackPayout", r.BlackjackPayout)
	v.SetDefault("gameplay.insurancePayout", r.InsurancePayout)
	v.SetDefault("gameplay.fiveCardCharlie", r.FiveCardCharlie)
	v.SetDefault("gameplay.charlieCardCount", r.CharlieCardCount)

	a := announce.DefaultConfig()
	v.SetDefault("announcements.broadcastEnabled", a.BroadcastEnabled)
	v.SetDefault("announcements.blackjack.enabled", a.Blackjack.Enabled)
	v.SetDefault("announcements.blackjack.message", a.Blackjack.Message)
	v.SetDefault("announcements.win.enabled", a.Win.Enabled)
	v.SetDefault("announcements.win.message", a.Win.Message)
	v.SetDefault("announcements.dealerBust.enabled", a.DealerBust.Enabled)
	v.SetDefault("announcements.dealerBust.message", a.DealerBust.Message)
	v.SetDefault("announcements.winStreak.enabled", a.WinStreak.Enabled)
	v.SetDefault("announcements.winStreak.message", a.WinStreak.Message)
	v.SetDefault("announcements.winStreak.threshold", a.WinStreak.Threshold)

	j := announce.DefaultJoinConfig()
	v.SetDefault("joinMessage.enabled", j.Enabled)
	v.SetDefault("joinMessage.messages", j.Messages)
}

// Default is the configuration with no file and no environment.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Load reads path (YAML) over the defaults. BJ_-prefixed environment
// variables override both, e.g. BJ_SERVER_PORT or BJ_REDIS_ENABLED.
// When the file cannot be read or parsed the defaults are returned along
// with the error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("BJ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	v.SetConfigFile(path)
	readErr := v.ReadInConfig()
	if readErr != nil {
		readErr = fmt.Errorf("read config %s: %w", path, readErr)
	}

	if err := v.Unmarshal(&c); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if readErr != nil {
		return c, readErr
	}
	return c, nil
}
