package service

import (
	"context"
	"time"

	"casino/events"
	"casino/game"
	"casino/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetOrCreate retrieves an account, creating it with the initial balance
	// on first reference. The bool reports whether the account was created.
	GetOrCreate(ctx context.Context, guildID, userID int64, initialBalance int64) (*models.Account, bool, error)

	// Get retrieves an account, or nil if it does not exist
	Get(ctx context.Context, guildID, userID int64) (*models.Account, error)

	// AddBalance credits an account atomically
	AddBalance(ctx context.Context, guildID, userID int64, amount int64) error

	// DeductBalance debits an account atomically, failing with
	// ErrInsufficientFunds when the balance cannot cover the amount
	DeductBalance(ctx context.Context, guildID, userID int64, amount int64) error

	// UpdateDailyClaim stamps the daily claim time and streak
	UpdateDailyClaim(ctx context.Context, guildID, userID int64, claimedAt time.Time, streak int) error

	// UpdateBegTime stamps the last beg time
	UpdateBegTime(ctx context.Context, guildID, userID int64, beggedAt time.Time) error

	// Scoreboard returns the guild's richest accounts with aggregate game stats
	Scoreboard(ctx context.Context, guildID int64, limit int) ([]*models.ScoreboardEntry, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByAccount returns the most recent balance history for an account
	GetByAccount(ctx context.Context, guildID, userID int64, limit int) ([]*models.BalanceHistory, error)
}

// GameStatsRepository defines the interface for per-game lifetime records
type GameStatsRepository interface {
	// ApplyResult folds one settled round into the account's stats row
	ApplyResult(ctx context.Context, guildID, userID int64, result *models.GameResultRecord) error

	// GetByAccount returns all stats rows for an account
	GetByAccount(ctx context.Context, guildID, userID int64) ([]*models.GameStats, error)
}

// LoanRepository defines the interface for loan data access
type LoanRepository interface {
	// Get retrieves an account's loan, or nil if none is outstanding
	Get(ctx context.Context, guildID, userID int64) (*models.Loan, error)

	// Upsert inserts or replaces an account's loan
	Upsert(ctx context.Context, loan *models.Loan) error

	// Delete removes an account's loan
	Delete(ctx context.Context, guildID, userID int64) error
}

// LedgerService defines the interface for wallet operations
type LedgerService interface {
	// GetOrCreateAccount retrieves an account, seeding it on first reference
	GetOrCreateAccount(ctx context.Context, guildID, userID int64) (*models.Account, error)

	// Grant credits an account by administrative action
	Grant(ctx context.Context, guildID, userID int64, amount int64) (*models.Account, error)

	// Confiscate debits an account by administrative action, clamped to the
	// available balance
	Confiscate(ctx context.Context, guildID, userID int64, amount int64) (*models.Account, error)

	// History returns recent balance changes for an account
	History(ctx context.Context, guildID, userID int64, limit int) ([]*models.BalanceHistory, error)
}

// RouletteService defines the interface for roulette wagers
type RouletteService interface {
	// PlaceColorBet wagers on red or black
	PlaceColorBet(ctx context.Context, guildID, userID int64, color game.PocketColor, amount int64) (*models.RouletteResult, error)

	// PlaceNumberBet wagers on a single pocket
	PlaceNumberBet(ctx context.Context, guildID, userID int64, pocket game.Pocket, amount int64) (*models.RouletteResult, error)
}

// SlotsService defines the interface for slot machine spins
type SlotsService interface {
	// Spin settles one three-reel spin
	Spin(ctx context.Context, guildID, userID int64, amount int64) (*models.SlotsResult, error)
}

// BlackjackService defines the interface for blackjack hands
type BlackjackService interface {
	// Start deals a new hand, taking the bet up front
	Start(ctx context.Context, guildID, userID int64, bet int64) (*models.BlackjackRound, error)

	// Hit draws a card for the player
	Hit(ctx context.Context, guildID, userID int64) (*models.BlackjackRound, error)

	// Stand ends the player's turn and plays out the dealer
	Stand(ctx context.Context, guildID, userID int64) (*models.BlackjackRound, error)

	// Double doubles the bet, draws exactly one card, and stands
	Double(ctx context.Context, guildID, userID int64) (*models.BlackjackRound, error)

	// Surrender forfeits the hand for half the bet back
	Surrender(ctx context.Context, guildID, userID int64) (*models.BlackjackRound, error)

	// StartJanitor launches the background sweep for idle sessions
	StartJanitor(ctx context.Context, interval time.Duration)
}

// HoldemService defines the interface for heads-up hold'em hands
type HoldemService interface {
	// Start posts the ante for both seats and deals a new hand
	Start(ctx context.Context, guildID, userID int64, ante int64) (*models.HoldemRound, error)

	// CheckCall checks when nothing is owed, otherwise calls
	CheckCall(ctx context.Context, guildID, userID int64) (*models.HoldemRound, error)

	// Raise puts in the amount owed plus a raise on top
	Raise(ctx context.Context, guildID, userID int64, amount int64) (*models.HoldemRound, error)

	// Fold concedes the pot to the opponent
	Fold(ctx context.Context, guildID, userID int64) (*models.HoldemRound, error)

	// StartJanitor launches the background sweep for idle sessions
	StartJanitor(ctx context.Context, interval time.Duration)
}

// LoanService defines the interface for the loan shark
type LoanService interface {
	// Take opens a loan, disbursing the principal minus the origination fee
	Take(ctx context.Context, guildID, userID int64, amount int64) (*models.LoanReceipt, error)

	// Status returns the loan with interest accrued through now, or ErrNoLoan
	Status(ctx context.Context, guildID, userID int64) (*models.Loan, error)

	// Repay pays down the loan, clamped to the balance and the amount owed
	Repay(ctx context.Context, guildID, userID int64, amount int64) (*models.RepayResult, error)
}

// IncomeService defines the interface for non-wager income
type IncomeService interface {
	// ClaimDaily grants the daily reward with streak bonuses
	ClaimDaily(ctx context.Context, guildID, userID int64) (*models.DailyResult, error)

	// Beg grants pocket change to the nearly broke
	Beg(ctx context.Context, guildID, userID int64) (*models.BegResult, error)
}

// StatsService defines the interface for statistics operations
type StatsService interface {
	// Scoreboard returns the guild's top accounts
	Scoreboard(ctx context.Context, guildID int64, limit int) ([]*models.ScoreboardEntry, error)

	// GetUserStats returns the full stats snapshot for an account
	GetUserStats(ctx context.Context, guildID, userID int64) (*models.UserStats, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	GameStatsRepository() GameStatsRepository
	LoanRepository() LoanRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
