package models

import (
	"casino/game"
)

// RouletteResult is the settlement of one spin, returned to the caller.
type RouletteResult struct {
	Bet        int64
	Wager      string
	Pocket     game.Pocket
	Payout     int64
	LossFee    int64
	Net        int64
	NewBalance int64
}

// SlotsResult is the settlement of one reel spin.
type SlotsResult struct {
	Bet        int64
	Reels      [3]game.Symbol
	Payout     int64
	Net        int64
	NewBalance int64
	Jackpot    bool
}

// BlackjackRound is the player-facing state after starting a hand or applying
// a move. While Settled is false the dealer's hole card stays hidden and the
// hand is still live.
type BlackjackRound struct {
	Bet          int64
	Player       []game.Card
	Dealer       []game.Card
	RevealDealer bool
	Doubled      bool
	Settled      bool
	Outcome      GameOutcome
	Payout       int64
	Net          int64
	NewBalance   int64
	Note         string
}

// HoldemRound is the player-facing state after starting a hand or applying a
// move. OpponentHole is only populated once Settled.
type HoldemRound struct {
	Ante         int64
	Stage        game.Stage
	Community    []game.Card
	PlayerHole   []game.Card
	OpponentHole []game.Card
	Pot          int64
	ToCall       int64
	Invested     int64
	LastAction   string
	Settled      bool
	Outcome      GameOutcome
	Payout       int64
	Net          int64
	NewBalance   int64
}

// DailyResult is the settlement of a daily claim.
type DailyResult struct {
	Amount     int64
	Bonus      int64
	Streak     int
	NewBalance int64
}

// BegResult is the settlement of a relief grant.
type BegResult struct {
	Amount     int64
	NewBalance int64
}

// LoanReceipt is returned when a loan is taken.
type LoanReceipt struct {
	Principal  int64
	Fee        int64
	Received   int64
	Owed       int64
	NewBalance int64
}

// RepayResult is returned from a loan repayment.
type RepayResult struct {
	Paid       int64
	Owed       int64
	NewBalance int64
	Settled    bool
}
