package engine

import "Blackjack/internal/game/hand"

// Result is the outcome of a single player hand.
type Result string

const (
	ResultPlayerWin       Result = "PLAYER_WIN"
	ResultDealerWin       Result = "DEALER_WIN"
	ResultPush            Result = "PUSH"
	ResultPlayerBlackjack Result = "PLAYER_BLACKJACK"
	ResultPlayerBust      Result = "PLAYER_BUST"
	ResultDealerBust      Result = "DEALER_BUST"
	ResultSurrendered     Result = "SURRENDERED"
)

func (r Result) String() string {
	return string(r)
}

// IsWin is true for every result that pays the player.
func (r Result) IsWin() bool {
	return r == ResultPlayerWin || r == ResultDealerBust || r == ResultPlayerBlackjack
}

// IsLoss is true for results that take the full stake.
func (r Result) IsLoss() bool {
	return r == ResultDealerWin || r == ResultPlayerBust
}

// HandResult pairs a settled hand with its outcome and payout multiplier
// (1.0 win, 1.5 blackjack at 3:2, -0.5 surrender, -1.0 loss, doubled when
// the hand doubled down).
type HandResult struct {
	Hand   *hand.Hand `json:"hand"`
	Result Result     `json:"result"`
	Payout float64    `json:"payout"`
}

func (s *Session) determineAllResults() {
	s.results = s.results[:0]
	for _, h := range s.hands {
		r := s.determineHandResult(h)
		s.results = append(s.results, HandResult{
			Hand:   h,
			Result: r,
			Payout: s.calculatePayout(h, r),
		})
	}
}

func (s *Session) determineHandResult(h *hand.Hand) Result {
	if h.Surrendered() {
		return ResultSurrendered
	}
	if s.evenMoneyTaken {
		return ResultPlayerBlackjack
	}
	if s.cfg.FiveCardCharlie && h.Len() >= s.cfg.CharlieCardCount && !h.IsBust() {
		return ResultPlayerWin
	}

	switch {
	case h.IsBlackjack() && s.dealer.IsBlackjack():
		return ResultPush
	case h.IsBlackjack():
		return ResultPlayerBlackjack
	case s.dealer.IsBlackjack():
		return ResultDealerWin
	case h.IsBust():
		return ResultPlayerBust
	case s.dealer.IsBust():
		return ResultDealerBust
	case h.Value() > s.dealer.Value():
		return ResultPlayerWin
	case s.dealer.Value() > h.Value():
		return ResultDealerWin
	default:
		return ResultPush
	}
}

func (s *Session) calculatePayout(h *hand.Hand, r Result) float64 {
	if s.evenMoneyTaken {
		return 1.0
	}
	multiplier := 1.0
	if h.DoubledDown() {
		multiplier = 2.0
	}

	switch r {
	case ResultPlayerBlackjack:
		return s.cfg.BlackjackPayout * multiplier
	case ResultPlayerWin, ResultDealerBust:
		return 1.0 * multiplier
	case ResultSurrendered:
		return -0.5
	case ResultPlayerBust, ResultDealerWin:
		return -1.0 * multiplier
	}
	return 0
}
