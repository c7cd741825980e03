package service

import (
	"context"
	"fmt"

	"casino/events"
	"casino/models"
)

// RecordBalanceChange records a balance history entry and emits the balance
// change event. This is the single entry point for all balance changes.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	// Flushed to the main bus only after the transaction commits
	uow.EventBus().Publish(events.BalanceChangeEvent{
		GuildID:         history.GuildID,
		UserID:          history.UserID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	})
	return nil
}

// recordGameResult folds a settled round into the account's lifetime stats
// and emits the settlement event consumed by leaderboard/achievement layers.
func recordGameResult(ctx context.Context, uow UnitOfWork, guildID, userID int64, result *models.GameResultRecord) error {
	if err := uow.GameStatsRepository().ApplyResult(ctx, guildID, userID, result); err != nil {
		return fmt.Errorf("failed to apply game result: %w", err)
	}

	uow.EventBus().Publish(events.GameSettledEvent{
		GuildID: guildID,
		UserID:  userID,
		Game:    result.Game,
		Outcome: result.Outcome,
		Wagered: result.Wagered,
		Net:     result.Net,
	})
	return nil
}

// getOrCreateAccount fetches the account inside the current unit of work,
// seeding it with the starting balance and an initial history row on first
// reference.
func getOrCreateAccount(ctx context.Context, uow UnitOfWork, guildID, userID int64, startingBalance int64) (*models.Account, error) {
	account, created, err := uow.AccountRepository().GetOrCreate(ctx, guildID, userID, startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if created {
		err := RecordBalanceChange(ctx, uow, &models.BalanceHistory{
			GuildID:         guildID,
			UserID:          userID,
			BalanceBefore:   0,
			BalanceAfter:    account.Balance,
			ChangeAmount:    account.Balance,
			TransactionType: models.TransactionTypeInitial,
		})
		if err != nil {
			return nil, err
		}
	}
	return account, nil
}
