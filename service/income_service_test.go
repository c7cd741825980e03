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

func incomeTestConfig() IncomeConfig {
	return IncomeConfig{
		DailyAmount:      500,
		DailyCooldown:    24 * time.Hour,
		DailyStreakGrace: 48 * time.Hour,
		StreakBonuses:    map[int]int64{3: 100, 7: 500},
		BegPayout:        50,
		BegCooldown:      time.Hour,
		BegMaxWallet:     100,
		StartingBalance:  1000,
	}
}

func newIncomeService(m *serviceMocks, now time.Time) *incomeService {
	svc := NewIncomeService(m.factory, incomeTestConfig()).(*incomeService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestDailyFirstClaim(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newServiceMocks()
	svc := newIncomeService(m, now)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 1000}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.accounts.On("AddBalance", ctx, int64(1), int64(2), int64(500)).Return(nil)
	m.accounts.On("UpdateDailyClaim", ctx, int64(1), int64(2), now, 1).Return(nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeDaily && h.ChangeAmount == 500
	})).Return(nil)
	m.expectCommit()

	result, err := svc.ClaimDaily(ctx, 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, int64(500), result.Amount)
	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, int64(1500), result.NewBalance)

	claimed := false
	for _, e := range m.uow.PublishedEvents() {
		if _, ok := e.(events.DailyClaimedEvent); ok {
			claimed = true
		}
	}
	assert.True(t, claimed)
	m.assertExpectations(t)
}

func TestDailyWithinCooldown(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newServiceMocks()
	svc := newIncomeService(m, now)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 1000, LastDaily: now.Add(-time.Hour)}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)

	_, err := svc.ClaimDaily(ctx, 1, 2)

	assert.True(t, IsValidationError(err))
	m.uow.AssertNotCalled(t, "Commit")
}

func TestDailyStreakExtendsWithinGrace(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newServiceMocks()
	svc := newIncomeService(m, now)

	// 30h since last claim: past the cooldown, inside the 48h grace
	account := &models.Account{
		GuildID: 1, UserID: 2, Balance: 1000,
		LastDaily: now.Add(-30 * time.Hour), DailyStreak: 6,
	}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	// Streak 7 pays the 500 bonus on top of the base amount
	m.accounts.On("AddBalance", ctx, int64(1), int64(2), int64(1000)).Return(nil)
	m.accounts.On("UpdateDailyClaim", ctx, int64(1), int64(2), now, 7).Return(nil)
	m.history.On("Record", ctx, mock.Anything).Return(nil)
	m.expectCommit()

	result, err := svc.ClaimDaily(ctx, 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, 7, result.Streak)
	assert.Equal(t, int64(500), result.Bonus)
	assert.Equal(t, int64(1000), result.Amount)
	m.assertExpectations(t)
}

func TestDailyStreakResetsPastGrace(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newServiceMocks()
	svc := newIncomeService(m, now)

	account := &models.Account{
		GuildID: 1, UserID: 2, Balance: 1000,
		LastDaily: now.Add(-72 * time.Hour), DailyStreak: 6,
	}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.accounts.On("AddBalance", ctx, int64(1), int64(2), int64(500)).Return(nil)
	m.accounts.On("UpdateDailyClaim", ctx, int64(1), int64(2), now, 1).Return(nil)
	m.history.On("Record", ctx, mock.Anything).Return(nil)
	m.expectCommit()

	result, err := svc.ClaimDaily(ctx, 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, int64(0), result.Bonus)
	m.assertExpectations(t)
}

func TestBegPaysTheBroke(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newServiceMocks()
	svc := newIncomeService(m, now)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 30}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.accounts.On("AddBalance", ctx, int64(1), int64(2), int64(50)).Return(nil)
	m.accounts.On("UpdateBegTime", ctx, int64(1), int64(2), now).Return(nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeBeg && h.ChangeAmount == 50
	})).Return(nil)
	m.expectCommit()

	result, err := svc.Beg(ctx, 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, int64(50), result.Amount)
	assert.Equal(t, int64(80), result.NewBalance)
	m.assertExpectations(t)
}

func TestBegRejectsTheComfortable(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newIncomeService(m, time.Now())

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 100}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)

	_, err := svc.Beg(ctx, 1, 2)

	assert.True(t, IsValidationError(err))
	m.uow.AssertNotCalled(t, "Commit")
}

func TestBegWithinCooldown(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newServiceMocks()
	svc := newIncomeService(m, now)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 30, LastBeg: now.Add(-10 * time.Minute)}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)

	_, err := svc.Beg(ctx, 1, 2)

	assert.True(t, IsValidationError(err))
	m.uow.AssertNotCalled(t, "Commit")
}
