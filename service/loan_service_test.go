package service

import (
	"context"
	"testing"
	"time"

	"casino/events"
	"casino/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func loanTestConfig() LoanConfig {
	return LoanConfig{
		MinPrincipal:      100,
		MaxPrincipal:      10000,
		DailyInterestPct:  25,
		OriginationFeePct: 10,
		StartingBalance:   1000,
	}
}

func newLoanService(m *serviceMocks, now time.Time) *loanService {
	svc := NewLoanService(m.factory, loanTestConfig()).(*loanService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestLoanTakeWithholdsFee(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newServiceMocks()
	svc := newLoanService(m, now)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 500}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.loans.On("Get", ctx, int64(1), int64(2)).Return(nil, nil)
	// 10% fee withheld up front; the full principal is owed
	m.accounts.On("AddBalance", ctx, int64(1), int64(2), int64(900)).Return(nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeLoanDisburse && h.ChangeAmount == 900
	})).Return(nil)
	m.loans.On("Upsert", ctx, mock.MatchedBy(func(l *models.Loan) bool {
		return l.Principal == 1000 && l.Owed == 1000 && l.OpenedAt.Equal(now) && l.LastAccrual.Equal(now)
	})).Return(nil)
	m.expectCommit()

	receipt, err := svc.Take(ctx, 1, 2, 1000)

	assert.NoError(t, err)
	assert.Equal(t, int64(100), receipt.Fee)
	assert.Equal(t, int64(900), receipt.Received)
	assert.Equal(t, int64(1000), receipt.Owed)
	assert.Equal(t, int64(1400), receipt.NewBalance)

	opened := false
	for _, e := range m.uow.PublishedEvents() {
		if _, ok := e.(events.LoanOpenedEvent); ok {
			opened = true
		}
	}
	assert.True(t, opened)
	m.assertExpectations(t)
}

func TestLoanTakeRejectsSecondLoan(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newServiceMocks()
	svc := newLoanService(m, now)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 500}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.loans.On("Get", ctx, int64(1), int64(2)).Return(&models.Loan{Owed: 200}, nil)

	_, err := svc.Take(ctx, 1, 2, 1000)

	assert.ErrorIs(t, err, ErrLoanActive)
	m.uow.AssertNotCalled(t, "Commit")
}

func TestLoanTakeRejectsPrincipalOutsideBounds(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newLoanService(m, time.Now())

	_, err := svc.Take(ctx, 1, 2, 50)
	assert.True(t, IsValidationError(err))

	_, err = svc.Take(ctx, 1, 2, 50000)
	assert.True(t, IsValidationError(err))

	m.factory.AssertNotCalled(t, "Create")
}

func TestLoanStatusAccruesInterest(t *testing.T) {
	ctx := context.Background()
	opened := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newServiceMocks()
	svc := newLoanService(m, opened.Add(2*24*time.Hour))

	m.loans.On("Get", ctx, int64(1), int64(2)).Return(&models.Loan{
		GuildID:          1,
		UserID:           2,
		Principal:        1000,
		Owed:             1000,
		DailyInterestPct: 25,
		OpenedAt:         opened,
		LastAccrual:      opened,
	}, nil)
	// 1000 -> 1250 -> 1562 over two whole days
	m.loans.On("Upsert", ctx, mock.MatchedBy(func(l *models.Loan) bool {
		return l.Owed == 1562
	})).Return(nil)
	m.expectCommit()

	loan, err := svc.Status(ctx, 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, int64(1562), loan.Owed)
	m.assertExpectations(t)
}

func TestLoanStatusWithoutLoan(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newLoanService(m, time.Now())

	m.loans.On("Get", ctx, int64(1), int64(2)).Return(nil, nil)

	_, err := svc.Status(ctx, 1, 2)

	assert.ErrorIs(t, err, ErrNoLoan)
}

func TestLoanRepayClampsToBalanceAndOwed(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newServiceMocks()
	svc := newLoanService(m, now)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 300}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.loans.On("Get", ctx, int64(1), int64(2)).Return(&models.Loan{
		GuildID: 1, UserID: 2, Principal: 1000, Owed: 500,
		DailyInterestPct: 25, OpenedAt: now, LastAccrual: now,
	}, nil)
	// Asked for 1000, wallet holds 300
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), int64(300)).Return(nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeLoanRepayment && h.ChangeAmount == -300
	})).Return(nil)
	m.loans.On("Upsert", ctx, mock.MatchedBy(func(l *models.Loan) bool {
		return l.Owed == 200
	})).Return(nil)
	m.expectCommit()

	result, err := svc.Repay(ctx, 1, 2, 1000)

	assert.NoError(t, err)
	assert.Equal(t, int64(300), result.Paid)
	assert.Equal(t, int64(200), result.Owed)
	assert.Equal(t, int64(0), result.NewBalance)
	assert.False(t, result.Settled)
	m.assertExpectations(t)
}

func TestLoanRepayInFullClosesLoan(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newServiceMocks()
	svc := newLoanService(m, now)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 1000}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.loans.On("Get", ctx, int64(1), int64(2)).Return(&models.Loan{
		GuildID: 1, UserID: 2, Principal: 1000, Owed: 200,
		DailyInterestPct: 25, OpenedAt: now, LastAccrual: now,
	}, nil)
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), int64(200)).Return(nil)
	m.history.On("Record", ctx, mock.Anything).Return(nil)
	m.loans.On("Delete", ctx, int64(1), int64(2)).Return(nil)
	m.expectCommit()

	result, err := svc.Repay(ctx, 1, 2, 500)

	assert.NoError(t, err)
	assert.Equal(t, int64(200), result.Paid)
	assert.Equal(t, int64(0), result.Owed)
	assert.True(t, result.Settled)

	closed := false
	for _, e := range m.uow.PublishedEvents() {
		if _, ok := e.(events.LoanClosedEvent); ok {
			closed = true
		}
	}
	assert.True(t, closed)
	m.assertExpectations(t)
}

func TestLoanRepayWithEmptyWallet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newServiceMocks()
	svc := newLoanService(m, now)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 0}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.loans.On("Get", ctx, int64(1), int64(2)).Return(&models.Loan{
		GuildID: 1, UserID: 2, Owed: 500, DailyInterestPct: 25,
		OpenedAt: now, LastAccrual: now,
	}, nil)

	_, err := svc.Repay(ctx, 1, 2, 100)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	m.uow.AssertNotCalled(t, "Commit")
}

func TestLoanRepayWithoutLoan(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newLoanService(m, time.Now())

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 1000}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.loans.On("Get", ctx, int64(1), int64(2)).Return(nil, nil)

	_, err := svc.Repay(ctx, 1, 2, 100)

	assert.ErrorIs(t, err, ErrNoLoan)
}
