package models

import (
	"casino/game"
)

// BlackjackSession is the server-held state of one blackjack hand between the
// player's moves. The stake has already left the wallet when the session
// exists; Bet doubles at most once.
type BlackjackSession struct {
	Key     AccountKey
	Bet     int64
	Deck    *game.Deck
	Player  []game.Card
	Dealer  []game.Card
	Doubled bool
}

// FirstDecision reports whether double and surrender are still available:
// only before any hit, with the original two cards.
func (s *BlackjackSession) FirstDecision() bool {
	return len(s.Player) == 2 && !s.Doubled
}

// HoldemSession is the server-held state of one heads-up hand. The five
// community cards are pre-drawn and revealed by stage.
type HoldemSession struct {
	Key              AccountKey
	Ante             int64
	Deck             *game.Deck
	PlayerHole       []game.Card
	OpponentHole     []game.Card
	Board            []game.Card
	Stage            game.Stage
	Pot              int64
	ToCallPlayer     int64
	ToCallOpponent   int64
	InvestedPlayer   int64
	InvestedOpponent int64
	LastAction       string
}

// Community returns the board cards revealed at the current stage.
func (s *HoldemSession) Community() []game.Card {
	return game.CommunityForStage(s.Board, s.Stage)
}
