package repository

import (
	"context"
	"fmt"
	"time"

	"casino/database"
	"casino/models"
	"casino/service"
	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `guild_id, user_id, balance, last_daily, daily_streak, last_beg, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.GuildID,
		&a.UserID,
		&a.Balance,
		&a.LastDaily,
		&a.DailyStreak,
		&a.LastBeg,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Get retrieves an account, or nil if it does not exist
func (r *AccountRepository) Get(ctx context.Context, guildID, userID int64) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE guild_id = $1 AND user_id = $2
	`

	account, err := scanAccount(r.q.QueryRow(ctx, query, guildID, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d/%d: %w", guildID, userID, err)
	}
	return account, nil
}

// GetOrCreate retrieves an account, creating it with the initial balance on
// first reference. The bool reports whether the account was created.
func (r *AccountRepository) GetOrCreate(ctx context.Context, guildID, userID int64, initialBalance int64) (*models.Account, bool, error) {
	// The no-op update makes RETURNING yield the row on conflict as well,
	// so one round trip covers both paths.
	query := `
		INSERT INTO accounts (guild_id, user_id, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, user_id) DO UPDATE SET user_id = accounts.user_id
		RETURNING ` + accountColumns + `, (xmax = 0) AS inserted
	`

	var a models.Account
	var inserted bool
	err := r.q.QueryRow(ctx, query, guildID, userID, initialBalance).Scan(
		&a.GuildID,
		&a.UserID,
		&a.Balance,
		&a.LastDaily,
		&a.DailyStreak,
		&a.LastBeg,
		&a.CreatedAt,
		&a.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get or create account %d/%d: %w", guildID, userID, err)
	}
	return &a, inserted, nil
}

// AddBalance credits an account atomically
func (r *AccountRepository) AddBalance(ctx context.Context, guildID, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE guild_id = $2 AND user_id = $3
	`

	result, err := r.q.Exec(ctx, query, amount, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to add balance for account %d/%d: %w", guildID, userID, err)
	}
	if result.RowsAffected() == 0 {
		return service.ErrAccountNotFound
	}
	return nil
}

// DeductBalance debits an account atomically, failing with
// ErrInsufficientFunds when the balance cannot cover the amount
func (r *AccountRepository) DeductBalance(ctx context.Context, guildID, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE accounts
		SET balance = balance - $1, updated_at = NOW()
		WHERE guild_id = $2 AND user_id = $3 AND balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to deduct balance for account %d/%d: %w", guildID, userID, err)
	}
	if result.RowsAffected() == 0 {
		account, err := r.Get(ctx, guildID, userID)
		if err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if account == nil {
			return service.ErrAccountNotFound
		}
		return fmt.Errorf("%w: have %d, need %d", service.ErrInsufficientFunds, account.Balance, amount)
	}
	return nil
}

// UpdateDailyClaim stamps the daily claim time and streak
func (r *AccountRepository) UpdateDailyClaim(ctx context.Context, guildID, userID int64, claimedAt time.Time, streak int) error {
	query := `
		UPDATE accounts
		SET last_daily = $1, daily_streak = $2, updated_at = NOW()
		WHERE guild_id = $3 AND user_id = $4
	`

	result, err := r.q.Exec(ctx, query, claimedAt, streak, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to update daily claim for account %d/%d: %w", guildID, userID, err)
	}
	if result.RowsAffected() == 0 {
		return service.ErrAccountNotFound
	}
	return nil
}

// UpdateBegTime stamps the last beg time
func (r *AccountRepository) UpdateBegTime(ctx context.Context, guildID, userID int64, beggedAt time.Time) error {
	query := `
		UPDATE accounts
		SET last_beg = $1, updated_at = NOW()
		WHERE guild_id = $2 AND user_id = $3
	`

	result, err := r.q.Exec(ctx, query, beggedAt, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to update beg time for account %d/%d: %w", guildID, userID, err)
	}
	if result.RowsAffected() == 0 {
		return service.ErrAccountNotFound
	}
	return nil
}

// Scoreboard returns the guild's richest accounts with aggregate game stats
func (r *AccountRepository) Scoreboard(ctx context.Context, guildID int64, limit int) ([]*models.ScoreboardEntry, error) {
	query := `
		SELECT
			a.user_id,
			a.balance,
			COALESCE(SUM(gs.profit), 0) AS profit,
			COALESCE(SUM(gs.wins), 0) AS wins
		FROM accounts a
		LEFT JOIN game_stats gs
			ON gs.guild_id = a.guild_id AND gs.user_id = a.user_id
		WHERE a.guild_id = $1
		GROUP BY a.user_id, a.balance
		ORDER BY a.balance DESC, a.user_id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get scoreboard for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var entries []*models.ScoreboardEntry
	for rows.Next() {
		var e models.ScoreboardEntry
		if err := rows.Scan(&e.UserID, &e.Balance, &e.Profit, &e.Wins); err != nil {
			return nil, fmt.Errorf("failed to scan scoreboard entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scoreboard: %w", err)
	}
	return entries, nil
}
