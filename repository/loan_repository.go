package repository

import (
	"context"
	"fmt"

	"casino/database"
	"casino/models"
	"github.com/jackc/pgx/v5"
)

// LoanRepository implements the LoanRepository interface
type LoanRepository struct {
	q queryable
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *database.DB) *LoanRepository {
	return &LoanRepository{q: db.Pool}
}

// newLoanRepositoryWithTx creates a new loan repository with a transaction
func newLoanRepositoryWithTx(tx queryable) *LoanRepository {
	return &LoanRepository{q: tx}
}

// Get retrieves an account's loan, or nil if none is outstanding
func (r *LoanRepository) Get(ctx context.Context, guildID, userID int64) (*models.Loan, error) {
	query := `
		SELECT guild_id, user_id, principal, owed, daily_interest_pct, origination_fee_pct, opened_at, last_accrual
		FROM loans
		WHERE guild_id = $1 AND user_id = $2
	`

	var loan models.Loan
	err := r.q.QueryRow(ctx, query, guildID, userID).Scan(
		&loan.GuildID,
		&loan.UserID,
		&loan.Principal,
		&loan.Owed,
		&loan.DailyInterestPct,
		&loan.OriginationFeePct,
		&loan.OpenedAt,
		&loan.LastAccrual,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan for account %d/%d: %w", guildID, userID, err)
	}
	return &loan, nil
}

// Upsert inserts or replaces an account's loan
func (r *LoanRepository) Upsert(ctx context.Context, loan *models.Loan) error {
	query := `
		INSERT INTO loans (guild_id, user_id, principal, owed, daily_interest_pct, origination_fee_pct, opened_at, last_accrual)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (guild_id, user_id) DO UPDATE SET
			principal = EXCLUDED.principal,
			owed = EXCLUDED.owed,
			daily_interest_pct = EXCLUDED.daily_interest_pct,
			origination_fee_pct = EXCLUDED.origination_fee_pct,
			opened_at = EXCLUDED.opened_at,
			last_accrual = EXCLUDED.last_accrual
	`

	_, err := r.q.Exec(ctx, query,
		loan.GuildID,
		loan.UserID,
		loan.Principal,
		loan.Owed,
		loan.DailyInterestPct,
		loan.OriginationFeePct,
		loan.OpenedAt,
		loan.LastAccrual,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert loan for account %d/%d: %w", loan.GuildID, loan.UserID, err)
	}
	return nil
}

// Delete removes an account's loan
func (r *LoanRepository) Delete(ctx context.Context, guildID, userID int64) error {
	query := `DELETE FROM loans WHERE guild_id = $1 AND user_id = $2`

	_, err := r.q.Exec(ctx, query, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete loan for account %d/%d: %w", guildID, userID, err)
	}
	return nil
}
