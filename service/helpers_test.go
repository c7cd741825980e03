package service

import (
	"testing"

	"casino/game"

	"github.com/stretchr/testify/mock"
)

// scriptRNG returns a fixed sequence of Intn results and leaves shuffles
// untouched, so stacked decks deal in construction order.
type scriptRNG struct {
	rolls []int
}

func (s *scriptRNG) Intn(n int) int {
	if len(s.rolls) == 0 {
		return 0
	}
	r := s.rolls[0]
	s.rolls = s.rolls[1:]
	return r % n
}

func (s *scriptRNG) Shuffle(n int, swap func(i, j int)) {}

func card(r game.Rank, s game.Suit) game.Card {
	return game.Card{Rank: r, Suit: s}
}

// serviceMocks bundles the unit-of-work wiring every service test needs.
// Begin and Rollback succeed by default; tests add Commit and repository
// expectations themselves.
type serviceMocks struct {
	factory  *MockUnitOfWorkFactory
	uow      *MockUnitOfWork
	accounts *MockAccountRepository
	history  *MockBalanceHistoryRepository
	stats    *MockGameStatsRepository
	loans    *MockLoanRepository
}

func newServiceMocks() *serviceMocks {
	m := &serviceMocks{
		factory:  new(MockUnitOfWorkFactory),
		uow:      new(MockUnitOfWork),
		accounts: new(MockAccountRepository),
		history:  new(MockBalanceHistoryRepository),
		stats:    new(MockGameStatsRepository),
		loans:    new(MockLoanRepository),
	}
	m.uow.SetRepositories(m.accounts, m.history, m.stats, m.loans)
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", mock.Anything).Return(nil)
	m.uow.On("Rollback").Return(nil)
	return m
}

func (m *serviceMocks) expectCommit() {
	m.uow.On("Commit").Return(nil)
}

func (m *serviceMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.factory.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.accounts.AssertExpectations(t)
	m.history.AssertExpectations(t)
	m.stats.AssertExpectations(t)
	m.loans.AssertExpectations(t)
}
