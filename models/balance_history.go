package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeRouletteWin   TransactionType = "roulette_win"
	TransactionTypeRouletteLoss  TransactionType = "roulette_loss"
	TransactionTypeSlotsWin      TransactionType = "slots_win"
	TransactionTypeSlotsLoss     TransactionType = "slots_loss"
	TransactionTypeBlackjack     TransactionType = "blackjack"
	TransactionTypeHoldem        TransactionType = "holdem"
	TransactionTypeHoldemRefund  TransactionType = "holdem_refund"
	TransactionTypeDaily         TransactionType = "daily"
	TransactionTypeBeg           TransactionType = "beg"
	TransactionTypeLoanDisburse  TransactionType = "loan_disburse"
	TransactionTypeLoanRepayment TransactionType = "loan_repayment"
	TransactionTypeAdminGrant    TransactionType = "admin_grant"
	TransactionTypeAdminTake     TransactionType = "admin_take"
	TransactionTypeInitial       TransactionType = "initial"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	GuildID             int64           `db:"guild_id"`
	UserID              int64           `db:"user_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}
