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

// passiveOpponent always checks behind and calls any bet.
var passiveOpponent = game.OpponentPolicy{CallMaxPctOfPot: 100}

// timidOpponent folds to any bet.
var timidOpponent = game.OpponentPolicy{}

func holdemTestConfig(policy game.OpponentPolicy) HoldemConfig {
	return HoldemConfig{
		MinAnte:         10,
		MaxBet:          500,
		Opponent:        policy,
		SessionTTL:      time.Minute,
		StartingBalance: 1000,
	}
}

// newHoldemWithDeck builds a service dealing the given cards in order: two
// player hole cards, two opponent hole cards, five board cards.
func newHoldemWithDeck(m *serviceMocks, cfg HoldemConfig, cards ...game.Card) *holdemService {
	svc := NewHoldemService(m.factory, &scriptRNG{}, cfg).(*holdemService)
	svc.newDeck = func(game.RNG) *game.Deck {
		return game.DeckFrom(cards...)
	}
	return svc
}

// quietBoard has no flush or straight potential worth noticing.
func quietBoard() []game.Card {
	return []game.Card{
		card(game.King, game.Spades), card(game.Queen, game.Hearts),
		card(9, game.Diamonds), card(5, game.Spades), card(7, game.Clubs),
	}
}

func startHoldemHand(t *testing.T, ctx context.Context, m *serviceMocks, svc *holdemService, ante int64) *models.HoldemRound {
	t.Helper()
	account := &models.Account{GuildID: 1, UserID: 2, Balance: 1000}
	m.accounts.On("GetOrCreate", ctx, int64(1), int64(2), int64(1000)).Return(account, false, nil)
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), ante).Return(nil).Once()
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionMetadata["phase"] == "ante" && h.ChangeAmount == -ante
	})).Return(nil)
	m.expectCommit()

	round, err := svc.Start(ctx, 1, 2, ante)
	assert.NoError(t, err)
	return round
}

func TestHoldemStartPostsAntes(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newHoldemWithDeck(m, holdemTestConfig(passiveOpponent), append([]game.Card{
		card(game.Ace, game.Spades), card(game.Ace, game.Hearts),
		card(2, game.Clubs), card(3, game.Diamonds),
	}, quietBoard()...)...)

	round := startHoldemHand(t, ctx, m, svc, 50)

	// The opponent matches the ante from house funds
	assert.Equal(t, int64(100), round.Pot)
	assert.Equal(t, game.Preflop, round.Stage)
	assert.Equal(t, int64(50), round.Invested)
	assert.Equal(t, int64(0), round.ToCall)
	assert.Empty(t, round.Community)
	assert.Len(t, round.PlayerHole, 2)
	assert.Empty(t, round.OpponentHole)
	m.assertExpectations(t)
}

func TestHoldemRaiseCalledGrowsPot(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newHoldemWithDeck(m, holdemTestConfig(passiveOpponent), append([]game.Card{
		card(game.Ace, game.Spades), card(game.Ace, game.Hearts),
		card(2, game.Clubs), card(3, game.Diamonds),
	}, quietBoard()...)...)

	startHoldemHand(t, ctx, m, svc, 50)

	// The 30 wager only leaves the wallet once the opponent's call locks it in
	m.accounts.On("Get", ctx, int64(1), int64(2)).
		Return(&models.Account{GuildID: 1, UserID: 2, Balance: 950}, nil)
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), int64(30)).Return(nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionMetadata["phase"] == "raise" && h.ChangeAmount == -30
	})).Return(nil)

	round, err := svc.Raise(ctx, 1, 2, 30)

	assert.NoError(t, err)
	assert.False(t, round.Settled)
	assert.Equal(t, int64(160), round.Pot)
	assert.Equal(t, game.Flop, round.Stage)
	assert.Equal(t, int64(80), round.Invested)
	assert.Len(t, round.Community, 3)
	m.assertExpectations(t)
}

func TestHoldemOpponentFoldAwardsPot(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newHoldemWithDeck(m, holdemTestConfig(timidOpponent), append([]game.Card{
		card(game.Ace, game.Spades), card(game.Ace, game.Hearts),
		card(2, game.Clubs), card(3, game.Diamonds),
	}, quietBoard()...)...)

	startHoldemHand(t, ctx, m, svc, 50)

	m.accounts.On("Get", ctx, int64(1), int64(2)).
		Return(&models.Account{GuildID: 1, UserID: 2, Balance: 950}, nil)
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), int64(30)).Return(nil)
	m.accounts.On("AddBalance", ctx, int64(1), int64(2), int64(130)).Return(nil)
	m.history.On("Record", ctx, mock.Anything).Return(nil)
	m.stats.On("ApplyResult", ctx, int64(1), int64(2), mock.MatchedBy(func(r *models.GameResultRecord) bool {
		return r.Game == models.GameHoldem && r.Outcome == models.OutcomeWin &&
			r.Wagered == 80 && r.Net == 50
	})).Return(nil)

	round, err := svc.Raise(ctx, 1, 2, 30)

	assert.NoError(t, err)
	assert.True(t, round.Settled)
	assert.Equal(t, models.OutcomeWin, round.Outcome)
	assert.Equal(t, int64(130), round.Payout)
	assert.Equal(t, int64(1050), round.NewBalance)
	// A fold never shows the opponent's cards
	assert.Empty(t, round.OpponentHole)
	m.assertExpectations(t)

	_, err = svc.CheckCall(ctx, 1, 2)
	assert.ErrorIs(t, err, sessions.ErrNoActiveSession)
}

func TestHoldemOpponentBetsAgainAfterCall(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	// Always raises when nothing is owed, so the player's call hands the
	// action straight back to another bet
	aggressive := game.OpponentPolicy{CallMaxPctOfPot: 100, RaiseChancePct: 100, RaisePctOfPot: 40}
	svc := newHoldemWithDeck(m, holdemTestConfig(aggressive), append([]game.Card{
		card(game.Ace, game.Spades), card(game.Ace, game.Hearts),
		card(2, game.Clubs), card(3, game.Diamonds),
	}, quietBoard()...)...)

	startHoldemHand(t, ctx, m, svc, 50)

	// Player checks, opponent bets 50 (40% of 100, floored at the ante)
	round, err := svc.CheckCall(ctx, 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(50), round.ToCall)
	assert.Equal(t, int64(150), round.Pot)

	m.accounts.On("Get", ctx, int64(1), int64(2)).
		Return(&models.Account{GuildID: 1, UserID: 2, Balance: 950}, nil)
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), int64(50)).Return(nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionMetadata["phase"] == "call" && h.ChangeAmount == -50
	})).Return(nil)

	// The call clears the owed amount but the opponent bets right back,
	// so the street does not advance
	round, err = svc.CheckCall(ctx, 1, 2)

	assert.NoError(t, err)
	assert.False(t, round.Settled)
	assert.Equal(t, game.Preflop, round.Stage)
	assert.Equal(t, int64(80), round.ToCall)
	assert.Equal(t, int64(280), round.Pot)
	assert.Equal(t, int64(100), round.Invested)
	m.assertExpectations(t)
}

func TestHoldemCallAdvancesWhenOpponentChecks(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	cfg := holdemTestConfig(game.OpponentPolicy{CallMaxPctOfPot: 100, RaiseChancePct: 50, RaisePctOfPot: 40})
	// First roll triggers the opponent's bet, second has it check behind
	svc := NewHoldemService(m.factory, &scriptRNG{rolls: []int{0, 99}}, cfg).(*holdemService)
	svc.newDeck = func(game.RNG) *game.Deck {
		return game.DeckFrom(append([]game.Card{
			card(game.Ace, game.Spades), card(game.Ace, game.Hearts),
			card(2, game.Clubs), card(3, game.Diamonds),
		}, quietBoard()...)...)
	}

	startHoldemHand(t, ctx, m, svc, 50)

	round, err := svc.CheckCall(ctx, 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(50), round.ToCall)

	m.accounts.On("Get", ctx, int64(1), int64(2)).
		Return(&models.Account{GuildID: 1, UserID: 2, Balance: 950}, nil)
	m.accounts.On("DeductBalance", ctx, int64(1), int64(2), int64(50)).Return(nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionMetadata["phase"] == "call" && h.ChangeAmount == -50
	})).Return(nil)

	round, err = svc.CheckCall(ctx, 1, 2)

	assert.NoError(t, err)
	assert.False(t, round.Settled)
	assert.Equal(t, game.Flop, round.Stage)
	assert.Equal(t, int64(0), round.ToCall)
	assert.Equal(t, int64(200), round.Pot)
	assert.Len(t, round.Community, 3)
	m.assertExpectations(t)
}

func TestHoldemShowdownWin(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	// Aces against rags on a dry board
	svc := newHoldemWithDeck(m, holdemTestConfig(passiveOpponent), append([]game.Card{
		card(game.Ace, game.Spades), card(game.Ace, game.Hearts),
		card(2, game.Clubs), card(3, game.Diamonds),
	}, quietBoard()...)...)

	startHoldemHand(t, ctx, m, svc, 50)

	// Three check-check streets reach the river without touching the wallet
	for i := 0; i < 3; i++ {
		round, err := svc.CheckCall(ctx, 1, 2)
		assert.NoError(t, err)
		assert.False(t, round.Settled)
	}

	m.accounts.On("Get", ctx, int64(1), int64(2)).
		Return(&models.Account{GuildID: 1, UserID: 2, Balance: 950}, nil)
	m.accounts.On("AddBalance", ctx, int64(1), int64(2), int64(100)).Return(nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionMetadata["phase"] == "settle" && h.ChangeAmount == 100
	})).Return(nil)
	m.stats.On("ApplyResult", ctx, int64(1), int64(2), mock.MatchedBy(func(r *models.GameResultRecord) bool {
		return r.Outcome == models.OutcomeWin && r.Wagered == 50 && r.Net == 50
	})).Return(nil)

	round, err := svc.CheckCall(ctx, 1, 2)

	assert.NoError(t, err)
	assert.True(t, round.Settled)
	assert.Equal(t, models.OutcomeWin, round.Outcome)
	assert.Equal(t, int64(100), round.Payout)
	assert.Equal(t, int64(1050), round.NewBalance)
	assert.Len(t, round.OpponentHole, 2)
	assert.Len(t, round.Community, 5)
	m.assertExpectations(t)
}

func TestHoldemShowdownPushReturnsInvested(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	// Both seats play the broadway straight on the board
	svc := newHoldemWithDeck(m, holdemTestConfig(passiveOpponent),
		card(2, game.Clubs), card(3, game.Clubs),
		card(2, game.Hearts), card(3, game.Hearts),
		card(game.Ace, game.Spades), card(game.King, game.Spades),
		card(game.Queen, game.Diamonds), card(game.Jack, game.Diamonds),
		card(10, game.Hearts),
	)

	startHoldemHand(t, ctx, m, svc, 50)

	for i := 0; i < 3; i++ {
		_, err := svc.CheckCall(ctx, 1, 2)
		assert.NoError(t, err)
	}

	m.accounts.On("Get", ctx, int64(1), int64(2)).
		Return(&models.Account{GuildID: 1, UserID: 2, Balance: 950}, nil)
	m.accounts.On("AddBalance", ctx, int64(1), int64(2), int64(50)).Return(nil)
	m.history.On("Record", ctx, mock.Anything).Return(nil)
	m.stats.On("ApplyResult", ctx, int64(1), int64(2), mock.MatchedBy(func(r *models.GameResultRecord) bool {
		return r.Outcome == models.OutcomePush && r.Net == 0
	})).Return(nil)

	round, err := svc.CheckCall(ctx, 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, models.OutcomePush, round.Outcome)
	assert.Equal(t, int64(50), round.Payout)
	assert.Equal(t, int64(1000), round.NewBalance)
	m.assertExpectations(t)
}

func TestHoldemFoldForfeitsAnte(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := newHoldemWithDeck(m, holdemTestConfig(passiveOpponent), append([]game.Card{
		card(game.Ace, game.Spades), card(game.Ace, game.Hearts),
		card(2, game.Clubs), card(3, game.Diamonds),
	}, quietBoard()...)...)

	startHoldemHand(t, ctx, m, svc, 50)

	m.accounts.On("Get", ctx, int64(1), int64(2)).
		Return(&models.Account{GuildID: 1, UserID: 2, Balance: 950}, nil)
	m.stats.On("ApplyResult", ctx, int64(1), int64(2), mock.MatchedBy(func(r *models.GameResultRecord) bool {
		return r.Outcome == models.OutcomeLoss && r.Wagered == 50 && r.Net == -50
	})).Return(nil)

	round, err := svc.Fold(ctx, 1, 2)

	assert.NoError(t, err)
	assert.True(t, round.Settled)
	assert.Equal(t, models.OutcomeLoss, round.Outcome)
	assert.Equal(t, int64(0), round.Payout)
	assert.Equal(t, int64(950), round.NewBalance)
	m.assertExpectations(t)
}

func TestHoldemRaiseRejectsBadAmounts(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := NewHoldemService(m.factory, &scriptRNG{}, holdemTestConfig(passiveOpponent))

	_, err := svc.Raise(ctx, 1, 2, 0)
	assert.True(t, IsValidationError(err))

	_, err = svc.Raise(ctx, 1, 2, 1000)
	assert.True(t, IsValidationError(err))

	m.factory.AssertNotCalled(t, "Create")
}

func TestHoldemIdleExpiryRefundsInvested(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	cfg := holdemTestConfig(passiveOpponent)
	cfg.SessionTTL = 10 * time.Millisecond
	svc := newHoldemWithDeck(m, cfg, append([]game.Card{
		card(game.Ace, game.Spades), card(game.Ace, game.Hearts),
		card(2, game.Clubs), card(3, game.Diamonds),
	}, quietBoard()...)...)

	startHoldemHand(t, ctx, m, svc, 50)

	// Eviction hands the invested stake back as a push
	m.accounts.On("Get", mock.Anything, int64(1), int64(2)).
		Return(&models.Account{GuildID: 1, UserID: 2, Balance: 950}, nil)
	m.accounts.On("AddBalance", mock.Anything, int64(1), int64(2), int64(50)).Return(nil)
	m.history.On("Record", mock.Anything, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeHoldemRefund && h.ChangeAmount == 50
	})).Return(nil)
	m.stats.On("ApplyResult", mock.Anything, int64(1), int64(2), mock.MatchedBy(func(r *models.GameResultRecord) bool {
		return r.Outcome == models.OutcomePush && r.Net == 0
	})).Return(nil)

	time.Sleep(30 * time.Millisecond)

	_, err := svc.CheckCall(ctx, 1, 2)
	assert.ErrorIs(t, err, sessions.ErrNoActiveSession)
	m.assertExpectations(t)
}
