package service

import (
	"context"
	"fmt"
	"time"

	"casino/events"
	"casino/models"
)

type loanService struct {
	uowFactory UnitOfWorkFactory
	cfg        LoanConfig
	now        func() time.Time
}

// NewLoanService creates a new loan service
func NewLoanService(uowFactory UnitOfWorkFactory, cfg LoanConfig) LoanService {
	return &loanService{
		uowFactory: uowFactory,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *loanService) Take(ctx context.Context, guildID, userID int64, amount int64) (*models.LoanReceipt, error) {
	if amount < s.cfg.MinPrincipal || amount > s.cfg.MaxPrincipal {
		return nil, NewValidationError("loan principal must be between %d and %d", s.cfg.MinPrincipal, s.cfg.MaxPrincipal)
	}

	var receipt *models.LoanReceipt
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := getOrCreateAccount(ctx, uow, guildID, userID, s.cfg.StartingBalance)
		if err != nil {
			return err
		}

		existing, err := uow.LoanRepository().Get(ctx, guildID, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrLoanActive
		}

		// The origination fee is withheld from the disbursement, not added to
		// the owed balance: pure house revenue taken up front.
		fee := amount * s.cfg.OriginationFeePct / 100
		disbursed := amount - fee

		if err := uow.AccountRepository().AddBalance(ctx, guildID, userID, disbursed); err != nil {
			return fmt.Errorf("failed to disburse loan: %w", err)
		}
		err = RecordBalanceChange(ctx, uow, &models.BalanceHistory{
			GuildID:         guildID,
			UserID:          userID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    account.Balance + disbursed,
			ChangeAmount:    disbursed,
			TransactionType: models.TransactionTypeLoanDisburse,
			TransactionMetadata: map[string]any{
				"principal": amount,
				"fee":       fee,
			},
		})
		if err != nil {
			return err
		}

		now := s.now()
		loan := &models.Loan{
			GuildID:           guildID,
			UserID:            userID,
			Principal:         amount,
			Owed:              amount,
			DailyInterestPct:  s.cfg.DailyInterestPct,
			OriginationFeePct: s.cfg.OriginationFeePct,
			OpenedAt:          now,
			LastAccrual:       now,
		}
		if err := uow.LoanRepository().Upsert(ctx, loan); err != nil {
			return err
		}

		uow.EventBus().Publish(events.LoanOpenedEvent{
			GuildID:   guildID,
			UserID:    userID,
			Principal: amount,
			Disbursed: disbursed,
			Owed:      amount,
		})

		receipt = &models.LoanReceipt{
			Principal:  amount,
			Fee:        fee,
			Received:   disbursed,
			Owed:       amount,
			NewBalance: account.Balance + disbursed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (s *loanService) Status(ctx context.Context, guildID, userID int64) (*models.Loan, error) {
	var loan *models.Loan
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		loan, err = uow.LoanRepository().Get(ctx, guildID, userID)
		if err != nil {
			return err
		}
		if loan == nil {
			return ErrNoLoan
		}

		// Interest accrues before every read of the owed balance
		if days := loan.Accrue(s.now()); days > 0 {
			if err := uow.LoanRepository().Upsert(ctx, loan); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *loanService) Repay(ctx context.Context, guildID, userID int64, amount int64) (*models.RepayResult, error) {
	if amount <= 0 {
		return nil, NewValidationError("repayment amount must be positive, got %d", amount)
	}

	var result *models.RepayResult
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := getOrCreateAccount(ctx, uow, guildID, userID, s.cfg.StartingBalance)
		if err != nil {
			return err
		}

		loan, err := uow.LoanRepository().Get(ctx, guildID, userID)
		if err != nil {
			return err
		}
		if loan == nil {
			return ErrNoLoan
		}

		loan.Accrue(s.now())

		// Payment clamps to what the wallet holds and what is owed
		pay := amount
		if pay > account.Balance {
			pay = account.Balance
		}
		if pay > loan.Owed {
			pay = loan.Owed
		}
		if pay <= 0 {
			return fmt.Errorf("%w: have %d", ErrInsufficientFunds, account.Balance)
		}

		if err := uow.AccountRepository().DeductBalance(ctx, guildID, userID, pay); err != nil {
			return fmt.Errorf("failed to debit repayment: %w", err)
		}
		err = RecordBalanceChange(ctx, uow, &models.BalanceHistory{
			GuildID:         guildID,
			UserID:          userID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    account.Balance - pay,
			ChangeAmount:    -pay,
			TransactionType: models.TransactionTypeLoanRepayment,
			TransactionMetadata: map[string]any{
				"owed_before": loan.Owed,
				"owed_after":  loan.Owed - pay,
			},
		})
		if err != nil {
			return err
		}

		loan.Owed -= pay
		settled := loan.Owed == 0
		if settled {
			// A fully repaid loan is equivalent to no loan
			if err := uow.LoanRepository().Delete(ctx, guildID, userID); err != nil {
				return err
			}
			uow.EventBus().Publish(events.LoanClosedEvent{
				GuildID:   guildID,
				UserID:    userID,
				Principal: loan.Principal,
				TotalPaid: pay,
			})
		} else {
			if err := uow.LoanRepository().Upsert(ctx, loan); err != nil {
				return err
			}
		}

		result = &models.RepayResult{
			Paid:       pay,
			Owed:       loan.Owed,
			NewBalance: account.Balance - pay,
			Settled:    settled,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
