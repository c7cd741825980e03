package models

// GameFamily identifies which game a stats row or session belongs to.
type GameFamily string

const (
	GameRoulette  GameFamily = "roulette"
	GameSlots     GameFamily = "slots"
	GameBlackjack GameFamily = "blackjack"
	GameHoldem    GameFamily = "holdem"
)

// GameStats is an account's lifetime record for one game family.
type GameStats struct {
	GuildID    int64      `db:"guild_id"`
	UserID     int64      `db:"user_id"`
	Game       GameFamily `db:"game"`
	Plays      int64      `db:"plays"`
	Wins       int64      `db:"wins"`
	Losses     int64      `db:"losses"`
	Pushes     int64      `db:"pushes"`
	Wagered    int64      `db:"wagered"`
	Profit     int64      `db:"profit"`
	BiggestWin int64      `db:"biggest_win"`
}

// GameOutcome classifies a settled game for stats bookkeeping.
type GameOutcome string

const (
	OutcomeWin  GameOutcome = "win"
	OutcomeLoss GameOutcome = "loss"
	OutcomePush GameOutcome = "push"
)

// GameResultRecord is the stats delta applied inside a settlement transaction.
type GameResultRecord struct {
	Game    GameFamily
	Outcome GameOutcome
	Wagered int64
	Net     int64
}

// ScoreboardEntry is one leaderboard row.
type ScoreboardEntry struct {
	UserID  int64
	Balance int64
	Profit  int64
	Wins    int64
}

// UserStats is the full per-account stats snapshot.
type UserStats struct {
	Account *Account
	Games   []*GameStats
}
