package engine

import (
	"time"

	"Blackjack/internal/game/card"
	"Blackjack/internal/game/dealer"
	"Blackjack/internal/game/hand"
	"Blackjack/internal/game/rules"

	"github.com/google/uuid"
)

// ---------------------
//        STATES
// ---------------------

type State string

const (
	StateWaitingForInsurance State = "WAITING_FOR_INSURANCE"
	StatePlayerTurn          State = "PLAYER_TURN"
	StateDealerTurn          State = "DEALER_TURN"
	StateFinished            State = "FINISHED"
)

// Shoe is the card source a session deals from. *dealer.Shoe satisfies it.
type Shoe interface {
	Draw() card.Card
	NeedsReshuffle() bool
	Reset()
}

type Option func(*Session)

// WithShoe replaces the session's own shoe, e.g. with a stacked deck in tests.
func WithShoe(s Shoe) Option {
	return func(sess *Session) { sess.shoe = s }
}

// WithSeed seeds the session's shoe shuffle.
func WithSeed(seed int64) Option {
	return func(sess *Session) { sess.seed = seed }
}

// ---------------------
//       SESSION
// ---------------------

// Session is one player's round. It deals on construction and moves
// through insurance, player turns, the dealer turn and settlement; it
// reaches StateFinished exactly once.
//
// A session is not safe for concurrent use; callers serialize actions
// per player.
type Session struct {
	id       string
	playerID string
	cfg      rules.Config
	shoe     Shoe
	seed     int64

	hands   []*hand.Hand
	current int
	dealer  *hand.Hand
	state   State

	insuranceOffered bool
	insuranceTaken   bool
	dealerBlackjack  bool
	evenMoneyTaken   bool

	results []HandResult
}

func NewSession(playerID string, cfg rules.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		id:       uuid.NewString(),
		playerID: playerID,
		cfg:      cfg,
		seed:     time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.shoe == nil {
		shoe, err := dealer.NewShoe(cfg.NumberOfDecks, cfg.ReshuffleThreshold, s.seed)
		if err != nil {
			return nil, err
		}
		s.shoe = shoe
	}
	s.startRound()
	return s, nil
}

// startRound deals player, dealer, player, dealer and settles anything
// that needs no player input.
func (s *Session) startRound() {
	if s.shoe.NeedsReshuffle() {
		s.shoe.Reset()
	}

	s.hands = []*hand.Hand{hand.New()}
	s.current = 0
	s.dealer = hand.New()
	s.state = StatePlayerTurn
	s.results = nil
	s.insuranceOffered = false
	s.insuranceTaken = false
	s.dealerBlackjack = false
	s.evenMoneyTaken = false

	player := s.hands[0]
	player.Add(s.shoe.Draw())
	s.dealer.Add(s.shoe.Draw())
	player.Add(s.shoe.Draw())
	s.dealer.Add(s.shoe.Draw())

	if up, ok := s.UpCard(); ok && s.cfg.AllowInsurance && up.Rank == card.Ace {
		s.insuranceOffered = true
		s.state = StateWaitingForInsurance
		return
	}

	s.checkDealerBlackjackAndProceed()
}

func (s *Session) checkDealerBlackjackAndProceed() {
	if up, ok := s.UpCard(); ok && s.cfg.DealerPeeks {
		peek := up.Rank == card.Ace || up.Value() == 10
		if peek && s.dealer.IsBlackjack() {
			s.dealerBlackjack = true
			s.finish()
			return
		}
	}

	if s.CurrentHand().IsBlackjack() {
		s.playDealerTurn()
	}
}

// ---------------------
//      INSURANCE
// ---------------------

func (s *Session) TakeInsurance() bool {
	if s.state != StateWaitingForInsurance {
		return false
	}
	s.insuranceTaken = true
	s.proceedAfterInsuranceDecision()
	return true
}

func (s *Session) DeclineInsurance() bool {
	if s.state != StateWaitingForInsurance {
		return false
	}
	s.insuranceTaken = false
	s.proceedAfterInsuranceDecision()
	return true
}

// TakeEvenMoney settles a player blackjack against a dealer ace at 1:1
// without waiting for the dealer's hole card.
func (s *Session) TakeEvenMoney() bool {
	if !s.CanTakeEvenMoney() {
		return false
	}
	s.evenMoneyTaken = true
	s.dealerBlackjack = s.dealer.IsBlackjack()
	s.finish()
	return true
}

func (s *Session) proceedAfterInsuranceDecision() {
	if s.dealer.IsBlackjack() {
		s.dealerBlackjack = true
		s.finish()
		return
	}

	s.state = StatePlayerTurn
	if s.CurrentHand().IsBlackjack() {
		s.playDealerTurn()
	}
}

// ---------------------
//    PLAYER ACTIONS
// ---------------------

// Hit draws one card into the current hand. A bust or a Charlie ends the
// hand's turn.
func (s *Session) Hit() bool {
	if !s.CanHit() {
		return false
	}
	h := s.CurrentHand()
	h.Add(s.shoe.Draw())

	if h.IsBust() || (s.cfg.FiveCardCharlie && h.Len() >= s.cfg.CharlieCardCount) {
		s.advanceToNextHandOrDealer()
	}
	return true
}

func (s *Session) Stand() bool {
	if !s.IsPlayerTurn() {
		return false
	}
	s.advanceToNextHandOrDealer()
	return true
}

// DoubleDown doubles the stake, draws exactly one card and ends the hand.
func (s *Session) DoubleDown() bool {
	if !s.CanDoubleDown() {
		return false
	}
	h := s.CurrentHand()
	h.MarkDoubledDown()
	h.Add(s.shoe.Draw())
	s.advanceToNextHandOrDealer()
	return true
}

// Split moves the second card of a pair into a new hand placed right after
// the current one and deals a fresh card to both.
func (s *Session) Split() bool {
	if !s.CanSplit() {
		return false
	}
	h := s.CurrentHand()
	second, _ := h.RemoveLast()
	first, _ := h.FirstCard()
	aces := first.Rank == card.Ace

	added := hand.NewSplit(aces)
	added.Add(second)
	added.Add(s.shoe.Draw())

	replaced := hand.NewSplit(aces)
	replaced.Add(first)
	replaced.Add(s.shoe.Draw())
	s.hands[s.current] = replaced

	s.hands = append(s.hands, nil)
	copy(s.hands[s.current+2:], s.hands[s.current+1:])
	s.hands[s.current+1] = added

	if aces && !s.cfg.AllowHitSplitAces {
		s.advanceToNextHandOrDealer()
	}
	return true
}

// Surrender forfeits half the stake and ends the whole round.
func (s *Session) Surrender() bool {
	if !s.CanSurrender() {
		return false
	}
	s.CurrentHand().MarkSurrendered()
	s.finish()
	return true
}

// ---------------------
//      GAME FLOW
// ---------------------

func (s *Session) advanceToNextHandOrDealer() {
	for s.current < len(s.hands)-1 {
		s.current++
		if !s.lockedSplitAces(s.CurrentHand()) {
			return
		}
	}
	s.playDealerTurn()
}

// lockedSplitAces reports whether h is a split-aces hand that may not take
// more cards.
func (s *Session) lockedSplitAces(h *hand.Hand) bool {
	return h.SplitAces() && !s.cfg.AllowHitSplitAces && h.Len() >= 2
}

func (s *Session) playDealerTurn() {
	s.state = StateDealerTurn

	for _, h := range s.hands {
		if !h.IsBust() && !h.Surrendered() {
			for s.shouldDealerHit() {
				s.dealer.Add(s.shoe.Draw())
			}
			break
		}
	}
	s.finish()
}

func (s *Session) shouldDealerHit() bool {
	v := s.dealer.Value()
	switch {
	case v >= 18:
		return false
	case v <= 16:
		return true
	}
	// soft 17
	return !s.cfg.DealerStandsOnSoft17 && s.dealer.IsSoft()
}

func (s *Session) finish() {
	s.state = StateFinished
	s.determineAllResults()
}

// ---------------------
//       QUERIES
// ---------------------

func (s *Session) ID() string           { return s.id }
func (s *Session) PlayerID() string     { return s.playerID }
func (s *Session) Config() rules.Config { return s.cfg }
func (s *Session) State() State         { return s.state }

func (s *Session) IsPlayerTurn() bool          { return s.state == StatePlayerTurn }
func (s *Session) IsWaitingForInsurance() bool { return s.state == StateWaitingForInsurance }
func (s *Session) IsFinished() bool            { return s.state == StateFinished }

func (s *Session) InsuranceOffered() bool   { return s.insuranceOffered }
func (s *Session) InsuranceTaken() bool     { return s.insuranceTaken }
func (s *Session) DealerHasBlackjack() bool { return s.dealerBlackjack }
func (s *Session) EvenMoneyTaken() bool     { return s.evenMoneyTaken }

// PlayerHands returns the player's hands in play order.
func (s *Session) PlayerHands() []*hand.Hand {
	out := make([]*hand.Hand, len(s.hands))
	copy(out, s.hands)
	return out
}

// CurrentHand is the hand being played, falling back to the first hand.
func (s *Session) CurrentHand() *hand.Hand {
	if s.current >= 0 && s.current < len(s.hands) {
		return s.hands[s.current]
	}
	return s.hands[0]
}

func (s *Session) CurrentHandIndex() int { return s.current }

// CurrentHandNumber is 1-based for display.
func (s *Session) CurrentHandNumber() int { return s.current + 1 }

func (s *Session) HandCount() int { return len(s.hands) }

func (s *Session) DealerHand() *hand.Hand { return s.dealer }

// UpCard is the dealer's visible card; the first dealer card stays face down.
func (s *Session) UpCard() (card.Card, bool) {
	return s.dealer.CardAt(1)
}

// HandResults is empty until the round is finished.
func (s *Session) HandResults() []HandResult {
	out := make([]HandResult, len(s.results))
	copy(out, s.results)
	return out
}

// Result is the first hand's outcome, the one reported for the round.
func (s *Session) Result() (Result, bool) {
	if len(s.results) == 0 {
		return "", false
	}
	return s.results[0].Result, true
}

func (s *Session) InsurancePayout() float64 {
	switch {
	case s.insuranceTaken && s.dealerBlackjack:
		return s.cfg.InsurancePayout
	case s.insuranceTaken:
		return -0.5
	}
	return 0
}

// TotalPayout sums every hand's payout and the insurance side bet.
func (s *Session) TotalPayout() float64 {
	total := s.InsurancePayout()
	for _, r := range s.results {
		total += r.Payout
	}
	return total
}

func (s *Session) CanHit() bool {
	if !s.IsPlayerTurn() {
		return false
	}
	return !s.lockedSplitAces(s.CurrentHand())
}

func (s *Session) CanDoubleDown() bool {
	if !s.IsPlayerTurn() || !s.cfg.AllowDoubleDown {
		return false
	}
	return s.CurrentHand().CanDoubleDown(s.cfg.DoubleDownOn, s.cfg.AllowDoubleAfterSplit)
}

func (s *Session) CanSplit() bool {
	if !s.IsPlayerTurn() || !s.cfg.AllowSplit {
		return false
	}
	h := s.CurrentHand()
	if !h.IsPair() || len(s.hands) >= s.cfg.MaxSplitHands {
		return false
	}
	return !h.SplitAces() || s.cfg.AllowResplitAces
}

func (s *Session) CanSurrender() bool {
	if !s.IsPlayerTurn() || !s.cfg.AllowSurrender || s.cfg.SurrenderType == rules.SurrenderNone {
		return false
	}
	h := s.CurrentHand()
	return h.Len() == 2 && !h.FromSplit()
}

func (s *Session) CanTakeEvenMoney() bool {
	return s.state == StateWaitingForInsurance && s.cfg.AllowEvenMoney && s.hands[0].IsBlackjack()
}
