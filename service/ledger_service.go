package service

import (
	"context"
	"fmt"

	"casino/models"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
	cfg        LedgerConfig
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory, cfg LedgerConfig) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
		cfg:        cfg,
	}
}

func (s *ledgerService) GetOrCreateAccount(ctx context.Context, guildID, userID int64) (*models.Account, error) {
	var account *models.Account
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		account, err = getOrCreateAccount(ctx, uow, guildID, userID, s.cfg.StartingBalance)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *ledgerService) Grant(ctx context.Context, guildID, userID int64, amount int64) (*models.Account, error) {
	if amount <= 0 {
		return nil, NewValidationError("grant amount must be positive, got %d", amount)
	}

	var account *models.Account
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		account, err = getOrCreateAccount(ctx, uow, guildID, userID, s.cfg.StartingBalance)
		if err != nil {
			return err
		}

		if err := uow.AccountRepository().AddBalance(ctx, guildID, userID, amount); err != nil {
			return fmt.Errorf("failed to credit account: %w", err)
		}

		return RecordBalanceChange(ctx, uow, &models.BalanceHistory{
			GuildID:         guildID,
			UserID:          userID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    account.Balance + amount,
			ChangeAmount:    amount,
			TransactionType: models.TransactionTypeAdminGrant,
		})
	})
	if err != nil {
		return nil, err
	}

	account.Balance += amount
	return account, nil
}

func (s *ledgerService) Confiscate(ctx context.Context, guildID, userID int64, amount int64) (*models.Account, error) {
	if amount <= 0 {
		return nil, NewValidationError("confiscate amount must be positive, got %d", amount)
	}

	var account *models.Account
	var taken int64
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		account, err = getOrCreateAccount(ctx, uow, guildID, userID, s.cfg.StartingBalance)
		if err != nil {
			return err
		}

		// Clamped: taking more than the wallet holds empties it instead of failing
		taken = amount
		if taken > account.Balance {
			taken = account.Balance
		}
		if taken == 0 {
			return nil
		}

		if err := uow.AccountRepository().DeductBalance(ctx, guildID, userID, taken); err != nil {
			return fmt.Errorf("failed to debit account: %w", err)
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceHistory{
			GuildID:         guildID,
			UserID:          userID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    account.Balance - taken,
			ChangeAmount:    -taken,
			TransactionType: models.TransactionTypeAdminTake,
		})
	})
	if err != nil {
		return nil, err
	}

	account.Balance -= taken
	return account, nil
}

func (s *ledgerService) History(ctx context.Context, guildID, userID int64, limit int) ([]*models.BalanceHistory, error) {
	var histories []*models.BalanceHistory
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		histories, err = uow.BalanceHistoryRepository().GetByAccount(ctx, guildID, userID, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return histories, nil
}
