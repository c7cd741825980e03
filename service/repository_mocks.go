package service

import (
	"context"
	"time"

	"casino/events"
	"casino/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetOrCreate(ctx context.Context, guildID, userID int64, initialBalance int64) (*models.Account, bool, error) {
	args := m.Called(ctx, guildID, userID, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Account), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) Get(ctx context.Context, guildID, userID int64) (*models.Account, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) AddBalance(ctx context.Context, guildID, userID int64, amount int64) error {
	args := m.Called(ctx, guildID, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) DeductBalance(ctx context.Context, guildID, userID int64, amount int64) error {
	args := m.Called(ctx, guildID, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateDailyClaim(ctx context.Context, guildID, userID int64, claimedAt time.Time, streak int) error {
	args := m.Called(ctx, guildID, userID, claimedAt, streak)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateBegTime(ctx context.Context, guildID, userID int64, beggedAt time.Time) error {
	args := m.Called(ctx, guildID, userID, beggedAt)
	return args.Error(0)
}

func (m *MockAccountRepository) Scoreboard(ctx context.Context, guildID int64, limit int) ([]*models.ScoreboardEntry, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScoreboardEntry), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByAccount(ctx context.Context, guildID, userID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, guildID, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// MockGameStatsRepository is a mock implementation of GameStatsRepository
type MockGameStatsRepository struct {
	mock.Mock
}

func (m *MockGameStatsRepository) ApplyResult(ctx context.Context, guildID, userID int64, result *models.GameResultRecord) error {
	args := m.Called(ctx, guildID, userID, result)
	return args.Error(0)
}

func (m *MockGameStatsRepository) GetByAccount(ctx context.Context, guildID, userID int64) ([]*models.GameStats, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameStats), args.Error(1)
}

// MockLoanRepository is a mock implementation of LoanRepository
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Get(ctx context.Context, guildID, userID int64) (*models.Loan, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockLoanRepository) Upsert(ctx context.Context, loan *models.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) Delete(ctx context.Context, guildID, userID int64) error {
	args := m.Called(ctx, guildID, userID)
	return args.Error(0)
}

// RecordingEventPublisher collects published events for assertions.
type RecordingEventPublisher struct {
	Events []events.Event
}

func (p *RecordingEventPublisher) Publish(event events.Event) {
	p.Events = append(p.Events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// plain fields set via SetRepositories; Begin/Commit/Rollback go through the
// expectation machinery.
type MockUnitOfWork struct {
	mock.Mock
	accountRepo AccountRepository
	historyRepo BalanceHistoryRepository
	statsRepo   GameStatsRepository
	loanRepo    LoanRepository
	eventBus    *RecordingEventPublisher
}

// SetRepositories wires the mock repositories into this unit of work and
// installs a recording event publisher.
func (m *MockUnitOfWork) SetRepositories(accounts AccountRepository, history BalanceHistoryRepository, stats GameStatsRepository, loans LoanRepository) {
	m.accountRepo = accounts
	m.historyRepo = history
	m.statsRepo = stats
	m.loanRepo = loans
	m.eventBus = &RecordingEventPublisher{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return m.historyRepo
}

func (m *MockUnitOfWork) GameStatsRepository() GameStatsRepository {
	return m.statsRepo
}

func (m *MockUnitOfWork) LoanRepository() LoanRepository {
	return m.loanRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// PublishedEvents returns the events published through this unit of work.
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	return m.eventBus.Events
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
