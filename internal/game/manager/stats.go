package manager

import "Blackjack/internal/game/engine"

// PlayerStats accumulates a player's results across rounds.
type PlayerStats struct {
	Wins             int `json:"wins"`
	Losses           int `json:"losses"`
	Pushes           int `json:"pushes"`
	Blackjacks       int `json:"blackjacks"`
	Surrenders       int `json:"surrenders"`
	CurrentWinStreak int `json:"currentWinStreak"`
	BestWinStreak    int `json:"bestWinStreak"`
}

func (s PlayerStats) GamesPlayed() int {
	return s.Wins + s.Losses + s.Pushes + s.Surrenders
}

// WinRate is the percentage of games won, 0 before the first game.
func (s PlayerStats) WinRate() float64 {
	if s.GamesPlayed() == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed()) * 100
}

// RecordResult folds one round result in and returns the win streak.
func (s *PlayerStats) RecordResult(r engine.Result) int {
	switch r {
	case engine.ResultPlayerWin, engine.ResultDealerBust:
		s.Wins++
		s.CurrentWinStreak++
	case engine.ResultPlayerBlackjack:
		s.Wins++
		s.Blackjacks++
		s.CurrentWinStreak++
	case engine.ResultDealerWin, engine.ResultPlayerBust:
		s.Losses++
		s.CurrentWinStreak = 0
	case engine.ResultPush:
		s.Pushes++
	case engine.ResultSurrendered:
		s.Surrenders++
		s.CurrentWinStreak = 0
	}
	s.BestWinStreak = max(s.BestWinStreak, s.CurrentWinStreak)
	return s.CurrentWinStreak
}
