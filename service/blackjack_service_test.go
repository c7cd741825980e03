package service

import (
	"context"
	"testing"
	"time"

	"casino/game"
	"casino/models"
	"casino/sessions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func blackjackTestConfig() BlackjackConfig {
	return BlackjackConfig{
		MinBet:          10,
		MaxBet:          1000,
		AllowDouble:     true,
		AllowSurrender:  true,
		SessionTTL:      time.Minute,
		StartingBalance: 1000,
	}
}

// newBlackjackWithDeck builds a service dealing the given cards in order:
// player, player, dealer, dealer, then draws.
func newBlackjackWithDeck(m *serviceMocks, cfg BlackjackConfig, cards ...game.Card) *blackjackService {
	svc := NewBlackjackService(m.factory, &scriptRNG{}, cfg).(*blackjackService)
	svc.newDeck = func(game.RNG) *game.Deck {
		return game.DeckFrom(cards...)
	}
	return svc
}

func TestBlackjackNaturalPaysThreeToTwo(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newBlackjackWithDeck(m, blackjackTestConfig(),
		card(game.Ace, game.Spades), card(game.King, game.Hearts),
		card(9, game.Diamonds), card(7, game.Clubs),
	)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 1000}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), int64(100)).Return(nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.ChangeAmount == -100 && h.TransactionMetadata["phase"] == "deal"
	})).Return(nil)
	// Stake back plus 3:2
	m.accounts.On("AddBalance", ctx, int64(1), int64(2), int64(250)).Return(nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.ChangeAmount == 250 && h.TransactionMetadata["phase"] == "settle"
	})).Return(nil)
	m.stats.On("ApplyResult", ctx, int64(1), int64(2), mock.MatchedBy(func(r *models.GameResultRecord) bool {
		return r.Game == models.GameBlackjack && r.Outcome == models.OutcomeWin &&
			r.Wagered == 100 && r.Net == 150
	})).Return(nil)
	m.expectCommit()

	round, err := svc.Start(ctx, 1, 2, 100)

	assert.NoError(t, err)
	assert.True(t, round.Settled)
	assert.Equal(t, "natural", round.Note)
	assert.Equal(t, int64(250), round.Payout)
	assert.Equal(t, int64(1150), round.NewBalance)
	m.assertExpectations(t)

	// Resolved on the deal, so no session remains
	_, err = svc.Hit(ctx, 1, 2)
	assert.ErrorIs(t, err, sessions.ErrNoActiveSession)
}

func TestBlackjackBothNaturalsPush(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newBlackjackWithDeck(m, blackjackTestConfig(),
		card(game.Ace, game.Spades), card(game.Queen, game.Hearts),
		card(game.Ace, game.Diamonds), card(game.King, game.Clubs),
	)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 1000}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), int64(100)).Return(nil)
	m.accounts.On("AddBalance", ctx, int64(1), int64(2), int64(100)).Return(nil)
	m.history.On("Record", ctx, mock.Anything).Return(nil)
	m.stats.On("ApplyResult", ctx, int64(1), int64(2), mock.MatchedBy(func(r *models.GameResultRecord) bool {
		return r.Outcome == models.OutcomePush && r.Net == 0
	})).Return(nil)
	m.expectCommit()

	round, err := svc.Start(ctx, 1, 2, 100)

	assert.NoError(t, err)
	assert.True(t, round.Settled)
	assert.Equal(t, models.OutcomePush, round.Outcome)
	assert.Equal(t, int64(1000), round.NewBalance)
	m.assertExpectations(t)
}

func TestBlackjackHitBust(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newBlackjackWithDeck(m, blackjackTestConfig(),
		card(10, game.Spades), card(6, game.Hearts),
		card(10, game.Diamonds), card(9, game.Clubs),
		card(game.King, game.Spades),
	)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 1000}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), int64(100)).Return(nil)
	m.history.On("Record", ctx, mock.Anything).Return(nil)
	m.expectCommit()

	round, err := svc.Start(ctx, 1, 2, 100)
	assert.NoError(t, err)
	assert.False(t, round.Settled)
	assert.False(t, round.RevealDealer)

	// The bust settlement runs in its own transaction against the live balance
	m.accounts.On("Get", ctx, int64(1), int64(2)).
		Return(&models.Account{GuildID: 1, UserID: 2, Balance: 900}, nil)
	m.stats.On("ApplyResult", ctx, int64(1), int64(2), mock.MatchedBy(func(r *models.GameResultRecord) bool {
		return r.Outcome == models.OutcomeLoss && r.Wagered == 100 && r.Net == -100
	})).Return(nil)

	round, err = svc.Hit(ctx, 1, 2)

	assert.NoError(t, err)
	assert.True(t, round.Settled)
	assert.Equal(t, "bust", round.Note)
	assert.Equal(t, int64(900), round.NewBalance)
	assert.Len(t, round.Player, 3)
	m.assertExpectations(t)

	_, err = svc.Stand(ctx, 1, 2)
	assert.ErrorIs(t, err, sessions.ErrNoActiveSession)
}

func TestBlackjackStandBeatsDealer(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	// Player 19, dealer 16 draws a 2 for 18
	svc := newBlackjackWithDeck(m, blackjackTestConfig(),
		card(10, game.Spades), card(9, game.Hearts),
		card(10, game.Diamonds), card(6, game.Clubs),
		card(2, game.Spades),
	)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 1000}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), int64(100)).Return(nil)
	m.history.On("Record", ctx, mock.Anything).Return(nil)
	m.expectCommit()

	_, err := svc.Start(ctx, 1, 2, 100)
	assert.NoError(t, err)

	m.accounts.On("Get", ctx, int64(1), int64(2)).
		Return(&models.Account{GuildID: 1, UserID: 2, Balance: 900}, nil)
	m.accounts.On("AddBalance", ctx, int64(1), int64(2), int64(200)).Return(nil)
	m.stats.On("ApplyResult", ctx, int64(1), int64(2), mock.MatchedBy(func(r *models.GameResultRecord) bool {
		return r.Outcome == models.OutcomeWin && r.Net == 100
	})).Return(nil)

	round, err := svc.Stand(ctx, 1, 2)

	assert.NoError(t, err)
	assert.True(t, round.Settled)
	assert.True(t, round.RevealDealer)
	assert.Len(t, round.Dealer, 3)
	assert.Equal(t, int64(1100), round.NewBalance)
	m.assertExpectations(t)
}

func TestBlackjackDoubleWin(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	// Player 11 doubles into 21, dealer stands on 17
	svc := newBlackjackWithDeck(m, blackjackTestConfig(),
		card(5, game.Spades), card(6, game.Hearts),
		card(10, game.Diamonds), card(7, game.Clubs),
		card(10, game.Spades),
	)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 1000}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), int64(100)).Return(nil)
	m.history.On("Record", ctx, mock.Anything).Return(nil)
	m.expectCommit()

	_, err := svc.Start(ctx, 1, 2, 100)
	assert.NoError(t, err)

	m.accounts.On("Get", ctx, int64(1), int64(2)).
		Return(&models.Account{GuildID: 1, UserID: 2, Balance: 900}, nil)
	m.accounts.On("AddBalance", ctx, int64(1), int64(2), int64(400)).Return(nil)
	m.stats.On("ApplyResult", ctx, int64(1), int64(2), mock.MatchedBy(func(r *models.GameResultRecord) bool {
		return r.Outcome == models.OutcomeWin && r.Wagered == 200 && r.Net == 200
	})).Return(nil)

	round, err := svc.Double(ctx, 1, 2)

	assert.NoError(t, err)
	assert.True(t, round.Settled)
	assert.True(t, round.Doubled)
	assert.Equal(t, int64(200), round.Bet)
	assert.Equal(t, int64(400), round.Payout)
	assert.Equal(t, int64(1200), round.NewBalance)
	m.assertExpectations(t)
}

func TestBlackjackDoubleOnlyOnFirstDecision(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newBlackjackWithDeck(m, blackjackTestConfig(),
		card(2, game.Spades), card(3, game.Hearts),
		card(10, game.Diamonds), card(7, game.Clubs),
		card(4, game.Spades),
	)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 1000}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), int64(100)).Return(nil)
	m.history.On("Record", ctx, mock.Anything).Return(nil)
	m.expectCommit()

	_, err := svc.Start(ctx, 1, 2, 100)
	assert.NoError(t, err)

	_, err = svc.Hit(ctx, 1, 2)
	assert.NoError(t, err)

	_, err = svc.Double(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrInvalidMove)

	_, err = svc.Surrender(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestBlackjackSurrenderReturnsHalf(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newBlackjackWithDeck(m, blackjackTestConfig(),
		card(10, game.Spades), card(6, game.Hearts),
		card(game.Ace, game.Diamonds), card(9, game.Clubs),
	)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 1000}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), int64(100)).Return(nil)
	m.history.On("Record", ctx, mock.Anything).Return(nil)
	m.expectCommit()

	_, err := svc.Start(ctx, 1, 2, 100)
	assert.NoError(t, err)

	m.accounts.On("Get", ctx, int64(1), int64(2)).
		Return(&models.Account{GuildID: 1, UserID: 2, Balance: 900}, nil)
	m.accounts.On("AddBalance", ctx, int64(1), int64(2), int64(50)).Return(nil)
	m.stats.On("ApplyResult", ctx, int64(1), int64(2), mock.MatchedBy(func(r *models.GameResultRecord) bool {
		return r.Outcome == models.OutcomeLoss && r.Net == -50
	})).Return(nil)

	round, err := svc.Surrender(ctx, 1, 2)

	assert.NoError(t, err)
	assert.True(t, round.Settled)
	assert.Equal(t, "surrender", round.Note)
	assert.Equal(t, int64(950), round.NewBalance)
	m.assertExpectations(t)
}

func TestBlackjackSecondStartRejected(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newBlackjackWithDeck(m, blackjackTestConfig(),
		card(10, game.Spades), card(6, game.Hearts),
		card(10, game.Diamonds), card(7, game.Clubs),
	)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 1000}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), int64(100)).Return(nil)
	m.history.On("Record", ctx, mock.Anything).Return(nil)
	m.expectCommit()

	_, err := svc.Start(ctx, 1, 2, 100)
	assert.NoError(t, err)

	_, err = svc.Start(ctx, 1, 2, 100)
	assert.ErrorIs(t, err, sessions.ErrSessionActive)
}

func TestBlackjackFailedDealKeepsNoSession(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newBlackjackWithDeck(m, blackjackTestConfig(),
		card(10, game.Spades), card(6, game.Hearts),
		card(10, game.Diamonds), card(7, game.Clubs),
	)

	account := &models.Account{GuildID: 1, UserID: 2, Balance: 50}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)

	_, err := svc.Start(ctx, 1, 2, 100)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// The rejected deal must not leave a session blocking the next one
	_, err = svc.Hit(ctx, 1, 2)
	assert.ErrorIs(t, err, sessions.ErrNoActiveSession)
	m.uow.AssertNotCalled(t, "Commit")
}
