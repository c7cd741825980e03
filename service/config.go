package service

import (
	"time"

	"casino/game"
)

// Per-service config structs. The wiring layer builds these from the global
// configuration; tests construct them inline.

// LedgerConfig tunes the wallet service.
type LedgerConfig struct {
	StartingBalance int64
}

// RouletteConfig tunes the wheel game.
type RouletteConfig struct {
	MinBet          int64
	MaxBet          int64
	LossFeePct      int64
	StartingBalance int64
}

// SlotsConfig tunes the reel game.
type SlotsConfig struct {
	MinBet          int64
	MaxBet          int64
	StartingBalance int64
}

// BlackjackConfig tunes the card duel.
type BlackjackConfig struct {
	MinBet           int64
	MaxBet           int64
	DealerHitsSoft17 bool
	AllowDouble      bool
	AllowSurrender   bool
	SessionTTL       time.Duration
	StartingBalance  int64
}

// HoldemConfig tunes the heads-up game and its scripted opponent.
type HoldemConfig struct {
	MinAnte         int64
	MaxBet          int64
	Opponent        game.OpponentPolicy
	SessionTTL      time.Duration
	StartingBalance int64
}

// LoanConfig tunes the loan shark.
type LoanConfig struct {
	MinPrincipal      int64
	MaxPrincipal      int64
	DailyInterestPct  int64
	OriginationFeePct int64
	StartingBalance   int64
}

// IncomeConfig tunes daily claims and relief grants.
type IncomeConfig struct {
	DailyAmount      int64
	DailyCooldown    time.Duration
	DailyStreakGrace time.Duration
	StreakBonuses    map[int]int64
	BegPayout        int64
	BegCooldown      time.Duration
	BegMaxWallet     int64
	StartingBalance  int64
}
