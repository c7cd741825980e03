package service

import (
	"context"
	"fmt"

	"casino/game"
	"casino/models"
)

// Total-return multipliers for the American wheel.
const (
	rouletteColorMultiplier  = 3
	rouletteNumberMultiplier = 36
)

type rouletteService struct {
	uowFactory UnitOfWorkFactory
	rng        game.RNG
	cfg        RouletteConfig
}

// NewRouletteService creates a new roulette service
func NewRouletteService(uowFactory UnitOfWorkFactory, rng game.RNG, cfg RouletteConfig) RouletteService {
	return &rouletteService{
		uowFactory: uowFactory,
		rng:        rng,
		cfg:        cfg,
	}
}

func (s *rouletteService) PlaceColorBet(ctx context.Context, guildID, userID int64, color game.PocketColor, amount int64) (*models.RouletteResult, error) {
	if color != game.Red && color != game.Black {
		return nil, NewValidationError("color must be red or black")
	}
	return s.settle(ctx, guildID, userID, amount, string(color), func(pocket game.Pocket) int64 {
		if pocket.Color() == color {
			return amount * rouletteColorMultiplier
		}
		return 0
	})
}

func (s *rouletteService) PlaceNumberBet(ctx context.Context, guildID, userID int64, pocket game.Pocket, amount int64) (*models.RouletteResult, error) {
	if pocket < 0 || pocket >= game.WheelPockets {
		return nil, NewValidationError("pocket must be 00, 0 or 1-36")
	}
	return s.settle(ctx, guildID, userID, amount, pocket.String(), func(drawn game.Pocket) int64 {
		if drawn == pocket {
			return amount * rouletteNumberMultiplier
		}
		return 0
	})
}

// settle runs one spin as a single atomic unit of work: validate, draw,
// move money, record history and stats, commit.
func (s *rouletteService) settle(ctx context.Context, guildID, userID int64, amount int64, wager string, payoutFor func(game.Pocket) int64) (*models.RouletteResult, error) {
	if amount < s.cfg.MinBet || amount > s.cfg.MaxBet {
		return nil, NewValidationError("bet must be between %d and %d", s.cfg.MinBet, s.cfg.MaxBet)
	}

	var result *models.RouletteResult
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := getOrCreateAccount(ctx, uow, guildID, userID, s.cfg.StartingBalance)
		if err != nil {
			return err
		}
		if account.Balance < amount {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, account.Balance, amount)
		}

		pocket := game.SpinWheel(s.rng)
		payout := payoutFor(pocket)

		var net, fee int64
		var txType models.TransactionType
		var outcome models.GameOutcome

		if payout > 0 {
			net = payout - amount
			txType = models.TransactionTypeRouletteWin
			outcome = models.OutcomeWin
			if err := uow.AccountRepository().AddBalance(ctx, guildID, userID, net); err != nil {
				return fmt.Errorf("failed to credit winnings: %w", err)
			}
		} else {
			// Loss fee applies only on losses, clamped so the balance stays >= 0
			fee = amount * s.cfg.LossFeePct / 100
			if remaining := account.Balance - amount; fee > remaining {
				fee = remaining
			}
			net = -(amount + fee)
			txType = models.TransactionTypeRouletteLoss
			outcome = models.OutcomeLoss
			if err := uow.AccountRepository().DeductBalance(ctx, guildID, userID, amount+fee); err != nil {
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
				"wager":  wager,
				"pocket": pocket.String(),
				"payout": payout,
			},
		})
		if err != nil {
			return err
		}

		err = recordGameResult(ctx, uow, guildID, userID, &models.GameResultRecord{
			Game:    models.GameRoulette,
			Outcome: outcome,
			Wagered: amount,
			Net:     net,
		})
		if err != nil {
			return err
		}

		result = &models.RouletteResult{
			Bet:        amount,
			Wager:      wager,
			Pocket:     pocket,
			Payout:     payout,
			LossFee:    fee,
			Net:        net,
			NewBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
