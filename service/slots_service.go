package service

import (
	"context"
	"fmt"

	"casino/game"
	"casino/models"
)

type slotsService struct {
	uowFactory UnitOfWorkFactory
	rng        game.RNG
	cfg        SlotsConfig
}

// NewSlotsService creates a new slots service
func NewSlotsService(uowFactory UnitOfWorkFactory, rng game.RNG, cfg SlotsConfig) SlotsService {
	return &slotsService{
		uowFactory: uowFactory,
		rng:        rng,
		cfg:        cfg,
	}
}

func (s *slotsService) Spin(ctx context.Context, guildID, userID int64, amount int64) (*models.SlotsResult, error) {
	if amount < s.cfg.MinBet || amount > s.cfg.MaxBet {
		return nil, NewValidationError("bet must be between %d and %d", s.cfg.MinBet, s.cfg.MaxBet)
	}

	var result *models.SlotsResult
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := getOrCreateAccount(ctx, uow, guildID, userID, s.cfg.StartingBalance)
		if err != nil {
			return err
		}
		if account.Balance < amount {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, account.Balance, amount)
		}

		reels := game.SpinReels(s.rng)
		payout := game.SlotsPayout(reels, amount)

		var net int64
		var txType models.TransactionType
		var outcome models.GameOutcome

		if payout > 0 {
			net = payout - amount
			txType = models.TransactionTypeSlotsWin
			outcome = models.OutcomeWin
			if err := uow.AccountRepository().AddBalance(ctx, guildID, userID, net); err != nil {
				return fmt.Errorf("failed to credit winnings: %w", err)
			}
		} else {
			net = -amount
			txType = models.TransactionTypeSlotsLoss
			outcome = models.OutcomeLoss
			if err := uow.AccountRepository().DeductBalance(ctx, guildID, userID, amount); err != nil {
				return fmt.Errorf("failed to debit stake: %w", err)
			}
		}

		newBalance := account.Balance + net
		err = RecordBalanceChange(ctx, uow, &models.BalanceHistory{
			GuildID:         guildID,
			UserID:          userID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    newBalance,
			ChangeAmount:    net,
			TransactionType: txType,
			TransactionMetadata: map[string]any{
				"reels":  fmt.Sprintf("%s%s%s", reels[0], reels[1], reels[2]),
				"payout": payout,
			},
		})
		if err != nil {
			return err
		}

		err = recordGameResult(ctx, uow, guildID, userID, &models.GameResultRecord{
			Game:    models.GameSlots,
			Outcome: outcome,
			Wagered: amount,
			Net:     net,
		})
		if err != nil {
			return err
		}

		result = &models.SlotsResult{
			Bet:        amount,
			Reels:      reels,
			Payout:     payout,
			Net:        net,
			NewBalance: newBalance,
			Jackpot:    payout > 0 && reels[0] == game.JackpotSymbol,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
