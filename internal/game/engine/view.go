package engine

import (
	"Blackjack/internal/game/card"
	"Blackjack/internal/game/hand"
)

// HandView is a read-only snapshot of one hand.
type HandView struct {
	Cards       []card.Card `json:"cards"`
	Hidden      int         `json:"hidden,omitempty"`
	Value       int         `json:"value"`
	Soft        bool        `json:"soft,omitempty"`
	Bust        bool        `json:"bust,omitempty"`
	Blackjack   bool        `json:"blackjack,omitempty"`
	DoubledDown bool        `json:"doubledDown,omitempty"`
	Surrendered bool        `json:"surrendered,omitempty"`
	FromSplit   bool        `json:"fromSplit,omitempty"`
	Result      Result      `json:"result,omitempty"`
	Payout      float64     `json:"payout"`
}

// Actions lists what the player may do right now.
type Actions struct {
	Hit       bool `json:"hit"`
	Stand     bool `json:"stand"`
	Double    bool `json:"double"`
	Split     bool `json:"split"`
	Surrender bool `json:"surrender"`
	Insurance bool `json:"insurance"`
	EvenMoney bool `json:"evenMoney"`
}

// View is what a front-end may show the player. The dealer's hole card
// stays hidden until the round is finished.
type View struct {
	RoundID          string     `json:"roundId"`
	PlayerID         string     `json:"playerId"`
	State            State      `json:"state"`
	Hands            []HandView `json:"hands"`
	CurrentHand      int        `json:"currentHand"`
	Dealer           HandView   `json:"dealer"`
	Actions          Actions    `json:"actions"`
	InsuranceOffered bool       `json:"insuranceOffered"`
	InsuranceTaken   bool       `json:"insuranceTaken"`
	DealerBlackjack  bool       `json:"dealerBlackjack"`
	EvenMoney        bool       `json:"evenMoney"`
	Result           Result     `json:"result,omitempty"`
	InsurancePayout  float64    `json:"insurancePayout"`
	TotalPayout      float64    `json:"totalPayout"`
}

func viewHand(h *hand.Hand) HandView {
	return HandView{
		Cards:       h.Cards(),
		Value:       h.Value(),
		Soft:        h.IsSoft(),
		Bust:        h.IsBust(),
		Blackjack:   h.IsBlackjack(),
		DoubledDown: h.DoubledDown(),
		Surrendered: h.Surrendered(),
		FromSplit:   h.FromSplit(),
	}
}

func (s *Session) View() View {
	v := View{
		RoundID:          s.id,
		PlayerID:         s.playerID,
		State:            s.state,
		CurrentHand:      s.current,
		InsuranceOffered: s.insuranceOffered,
		InsuranceTaken:   s.insuranceTaken,
		DealerBlackjack:  s.dealerBlackjack,
		EvenMoney:        s.evenMoneyTaken,
		Actions: Actions{
			Hit:       s.CanHit(),
			Stand:     s.IsPlayerTurn(),
			Double:    s.CanDoubleDown(),
			Split:     s.CanSplit(),
			Surrender: s.CanSurrender(),
			Insurance: s.IsWaitingForInsurance(),
			EvenMoney: s.CanTakeEvenMoney(),
		},
	}

	for i, h := range s.hands {
		hv := viewHand(h)
		if i < len(s.results) {
			hv.Result = s.results[i].Result
			hv.Payout = s.results[i].Payout
		}
		v.Hands = append(v.Hands, hv)
	}

	if s.IsFinished() {
		v.Dealer = viewHand(s.dealer)
		if r, ok := s.Result(); ok {
			v.Result = r
		}
		v.InsurancePayout = s.InsurancePayout()
		v.TotalPayout = s.TotalPayout()
	} else {
		up := hand.New()
		if c, ok := s.UpCard(); ok {
			up.Add(c)
		}
		v.Dealer = viewHand(up)
		v.Dealer.Hidden = s.dealer.Len() - up.Len()
	}
	return v
}
