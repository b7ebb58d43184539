package command

import (
	"fmt"
	"strings"
	"sync"

	"Blackjack/internal/announce"
	"Blackjack/internal/game/engine"
	"Blackjack/internal/game/manager"
	"Blackjack/internal/game/rules"
	"Blackjack/internal/utils"
)

var (
	Subcommands      = []string{"start", "hit", "stand", "double", "split", "surrender", "insurance", "evenmoney", "stats", "rules", "help"}
	InsuranceOptions = []string{"yes", "no"}
)

const (
	errNoGame         = "You don't have an active game! Use /bj to start one."
	errInsuranceFirst = "You must decide on insurance first!"
	errNotYourTurn    = "It's not your turn!"
	errUnknown        = "Unknown subcommand. Use: /bj [start|hit|stand|double|split|surrender|insurance|evenmoney|stats|rules|help]"
)

// Reply is everything one command produced for the player.
type Reply struct {
	Notices []string             `json:"notices,omitempty"`
	Error   string               `json:"error,omitempty"`
	View    *engine.View         `json:"view,omitempty"`
	End     *manager.EndResult   `json:"end,omitempty"`
	Stats   *manager.PlayerStats `json:"stats,omitempty"`
	Rules   *rules.Config        `json:"rules,omitempty"`
	Help    []string             `json:"help,omitempty"`
}

func (r *Reply) notice(format string, a ...any) {
	r.Notices = append(r.Notices, fmt.Sprintf(format, a...))
}

func errorReply(msg string) Reply {
	return Reply{Error: msg}
}

// Dispatcher runs /bj commands. Commands from one player are serialized;
// different players run in parallel.
type Dispatcher struct {
	games *manager.GameManager
	ann   *announce.Announcer
	// player → *sync.Mutex. Never pruned: one entry per player for the life
	// of the process, the same lifetime as the manager's stats.
	locks sync.Map
}

// NewDispatcher takes an optional announcer; nil disables announcements.
func NewDispatcher(games *manager.GameManager, ann *announce.Announcer) *Dispatcher {
	return &Dispatcher{games: games, ann: ann}
}

func (d *Dispatcher) lock(player string) func() {
	v, _ := d.locks.LoadOrStore(player, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Execute runs one command line (without the leading "/bj") for player.
// An empty line starts a new round.
func (d *Dispatcher) Execute(player string, args []string) Reply {
	sub := "start"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}

	unlock := d.lock(player)
	defer unlock()

	switch sub {
	case "start":
		return d.start(player)
	case "hit":
		return d.act(player, d.hit)
	case "stand":
		return d.act(player, d.stand)
	case "double":
		return d.act(player, d.double)
	case "split":
		return d.act(player, d.split)
	case "surrender":
		return d.act(player, d.surrender)
	case "insurance":
		var decision string
		if len(args) > 1 {
			decision = args[1]
		}
		return d.insurance(player, decision)
	case "evenmoney":
		return d.evenMoney(player)
	case "stats":
		st := d.games.Stats(player)
		return Reply{Stats: &st}
	case "rules":
		cfg := d.games.Config()
		return Reply{Rules: &cfg}
	case "help":
		return Reply{Help: helpLines}
	}
	return errorReply(errUnknown)
}

var helpLines = []string{
	"/bj              start a new round",
	"/bj hit          draw a card",
	"/bj stand        end the current hand",
	"/bj double       double the bet and draw one card",
	"/bj split        split a pair into two hands",
	"/bj surrender    give up half the bet",
	"/bj insurance yes|no",
	"/bj evenmoney    take 1:1 on a blackjack against an ace",
	"/bj stats        your statistics",
	"/bj rules        house rules",
}

func (d *Dispatcher) start(player string) Reply {
	if d.games.Has(player) {
		d.games.EndGame(player)
	}

	s, err := d.games.StartGame(player)
	if err != nil {
		utils.Log.Error("start game failed", "player", player, "err", err)
		return errorReply("Could not start a game.")
	}
	utils.Log.Info("round started", "player", player, "round", s.ID())

	var r Reply
	r.notice("Starting a new game of Blackjack!")
	d.finishIfDone(player, s, &r)
	return r
}

// act runs a player-turn action after the guards every one of them shares.
func (d *Dispatcher) act(player string, fn func(*engine.Session, *Reply)) Reply {
	s, ok := d.games.Get(player)
	if !ok {
		return errorReply(errNoGame)
	}
	if s.IsWaitingForInsurance() {
		return errorReply(errInsuranceFirst + " Use /bj insurance yes or /bj insurance no")
	}
	if !s.IsPlayerTurn() {
		return errorReply(errNotYourTurn)
	}

	var r Reply
	fn(s, &r)
	if r.Error != "" {
		return r
	}
	d.finishIfDone(player, s, &r)
	return r
}

func (d *Dispatcher) hit(s *engine.Session, r *Reply) {
	if !s.Hit() {
		r.Error = "You can't hit right now (split aces only get one card)."
	}
}

func (d *Dispatcher) stand(s *engine.Session, r *Reply) {
	if !s.Stand() {
		r.Error = errNotYourTurn
	}
}

func (d *Dispatcher) double(s *engine.Session, r *Reply) {
	if !s.DoubleDown() {
		r.Error = "You can't double down right now. Double is only available on your first two cards."
		return
	}
	r.notice("Doubled down! Drawing one card...")
}

func (d *Dispatcher) split(s *engine.Session, r *Reply) {
	if !s.Split() {
		r.Error = "You can't split right now. Split is only available when you have a pair."
		return
	}
	r.notice("Split! Now playing hand %d of %d", s.CurrentHandNumber(), s.HandCount())
}

func (d *Dispatcher) surrender(s *engine.Session, r *Reply) {
	if !s.Surrender() {
		r.Error = "You can't surrender right now. Surrender is only available on your first two cards."
		return
	}
	r.notice("Surrendered. Half your bet has been returned.")
}

func (d *Dispatcher) insurance(player, decision string) Reply {
	s, ok := d.games.Get(player)
	if !ok {
		return errorReply(errNoGame)
	}
	if !s.IsWaitingForInsurance() {
		return errorReply("Insurance is not being offered right now.")
	}

	var r Reply
	switch strings.ToLower(decision) {
	case "yes", "y":
		s.TakeInsurance()
		r.notice("Insurance taken!")
	case "no", "n":
		s.DeclineInsurance()
		r.notice("Insurance declined.")
	default:
		return errorReply("Usage: /bj insurance yes or /bj insurance no")
	}

	if s.IsFinished() && s.DealerHasBlackjack() {
		if s.InsuranceTaken() {
			r.notice("Dealer has Blackjack! Insurance pays 2:1.")
		} else {
			r.notice("Dealer has Blackjack!")
		}
	}
	d.finishIfDone(player, s, &r)
	return r
}

func (d *Dispatcher) evenMoney(player string) Reply {
	s, ok := d.games.Get(player)
	if !ok {
		return errorReply(errNoGame)
	}
	if !s.TakeEvenMoney() {
		return errorReply("Even money is only offered on a blackjack against a dealer ace.")
	}

	var r Reply
	r.notice("Even money taken! Paid 1:1.")
	d.finishIfDone(player, s, &r)
	return r
}

// finishIfDone snapshots the table and, once the round is over, settles it
// and announces the result.
func (d *Dispatcher) finishIfDone(player string, s *engine.Session, r *Reply) {
	v := s.View()
	r.View = &v
	if !s.IsFinished() {
		return
	}

	res, ok := d.games.EndGame(player)
	if !ok {
		return
	}
	r.End = &res
	utils.Log.Info("round finished",
		"player", player,
		"round", s.ID(),
		"result", res.Result,
		"payout", s.TotalPayout(),
		"streak", res.WinStreak,
	)
	if d.ann != nil {
		d.ann.RoundEnded(player, res)
	}
}

// Complete suggests the next word for a partially typed command line.
func Complete(args []string) []string {
	switch {
	case len(args) == 1:
		return withPrefix(Subcommands, args[0])
	case len(args) == 2 && strings.EqualFold(args[0], "insurance"):
		return withPrefix(InsuranceOptions, args[1])
	}
	return []string{}
}

func withPrefix(options []string, prefix string) []string {
	out := []string{}
	p := strings.ToLower(prefix)
	for _, o := range options {
		if strings.HasPrefix(o, p) {
			out = append(out, o)
		}
	}
	return out
}
