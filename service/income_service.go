package service

import (
	"context"
	"fmt"
	"time"

	"casino/events"
	"casino/models"
)

type incomeService struct {
	uowFactory UnitOfWorkFactory
	cfg        IncomeConfig
	now        func() time.Time
}

// NewIncomeService creates a new income service
func NewIncomeService(uowFactory UnitOfWorkFactory, cfg IncomeConfig) IncomeService {
	return &incomeService{
		uowFactory: uowFactory,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *incomeService) ClaimDaily(ctx context.Context, guildID, userID int64) (*models.DailyResult, error) {
	var result *models.DailyResult
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := getOrCreateAccount(ctx, uow, guildID, userID, s.cfg.StartingBalance)
		if err != nil {
			return err
		}

		now := s.now()
		sinceLast := now.Sub(account.LastDaily)
		if sinceLast < s.cfg.DailyCooldown {
			remaining := (s.cfg.DailyCooldown - sinceLast).Round(time.Minute)
			return NewValidationError("daily already claimed; next claim in %s", remaining)
		}

		// A claim within the grace window extends the streak, otherwise it resets
		streak := 1
		if sinceLast <= s.cfg.DailyStreakGrace {
			streak = account.DailyStreak + 1
		}
		bonus := s.cfg.StreakBonuses[streak]
		amount := s.cfg.DailyAmount + bonus

		if err := uow.AccountRepository().AddBalance(ctx, guildID, userID, amount); err != nil {
			return fmt.Errorf("failed to credit daily reward: %w", err)
		}
		if err := uow.AccountRepository().UpdateDailyClaim(ctx, guildID, userID, now, streak); err != nil {
			return err
		}
		err = RecordBalanceChange(ctx, uow, &models.BalanceHistory{
			GuildID:         guildID,
			UserID:          userID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    account.Balance + amount,
			ChangeAmount:    amount,
			TransactionType: models.TransactionTypeDaily,
			TransactionMetadata: map[string]any{
				"streak": streak,
				"bonus":  bonus,
			},
		})
		if err != nil {
			return err
		}

		uow.EventBus().Publish(events.DailyClaimedEvent{
			GuildID: guildID,
			UserID:  userID,
			Amount:  amount,
			Streak:  streak,
		})

		result = &models.DailyResult{
			Amount:     amount,
			Bonus:      bonus,
			Streak:     streak,
			NewBalance: account.Balance + amount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *incomeService) Beg(ctx context.Context, guildID, userID int64) (*models.BegResult, error) {
	var result *models.BegResult
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := getOrCreateAccount(ctx, uow, guildID, userID, s.cfg.StartingBalance)
		if err != nil {
			return err
		}

		if account.Balance >= s.cfg.BegMaxWallet {
			return NewValidationError("begging only works below %d coins", s.cfg.BegMaxWallet)
		}

		now := s.now()
		if sinceLast := now.Sub(account.LastBeg); sinceLast < s.cfg.BegCooldown {
			remaining := (s.cfg.BegCooldown - sinceLast).Round(time.Minute)
			return NewValidationError("too soon to beg again; try in %s", remaining)
		}

		if err := uow.AccountRepository().AddBalance(ctx, guildID, userID, s.cfg.BegPayout); err != nil {
			return fmt.Errorf("failed to credit relief grant: %w", err)
		}
		if err := uow.AccountRepository().UpdateBegTime(ctx, guildID, userID, now); err != nil {
			return err
		}
		err = RecordBalanceChange(ctx, uow, &models.BalanceHistory{
			GuildID:         guildID,
			UserID:          userID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    account.Balance + s.cfg.BegPayout,
			ChangeAmount:    s.cfg.BegPayout,
			TransactionType: models.TransactionTypeBeg,
		})
		if err != nil {
			return err
		}

		result = &models.BegResult{
			Amount:     s.cfg.BegPayout,
			NewBalance: account.Balance + s.cfg.BegPayout,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
