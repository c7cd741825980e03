package service

import (
	"context"
	"fmt"
	"time"

	"casino/game"
	"casino/models"
	"casino/sessions"
	log "github.com/sirupsen/logrus"
)

type holdemService struct {
	uowFactory UnitOfWorkFactory
	rng        game.RNG
	cfg        HoldemConfig
	registry   *sessions.Registry[models.AccountKey, models.HoldemSession]
	newDeck    func(game.RNG) *game.Deck
}

// NewHoldemService creates a new heads-up hold'em service with its own
// session registry. Call StartJanitor to enable background idle sweeping.
func NewHoldemService(uowFactory UnitOfWorkFactory, rng game.RNG, cfg HoldemConfig) HoldemService {
	s := &holdemService{
		uowFactory: uowFactory,
		rng:        rng,
		cfg:        cfg,
		newDeck:    game.NewDeck,
	}
	// An abandoned negotiation must not cost more than folding would have:
	// idle expiry returns the player's invested stake as a push.
	s.registry = sessions.NewRegistry[models.AccountKey, models.HoldemSession](cfg.SessionTTL, s.refundExpired)
	return s
}

// StartJanitor launches the background sweep for idle sessions.
func (s *holdemService) StartJanitor(ctx context.Context, interval time.Duration) {
	s.registry.StartJanitor(ctx, interval)
}

func (s *holdemService) Start(ctx context.Context, guildID, userID int64, ante int64) (*models.HoldemRound, error) {
	if ante < s.cfg.MinAnte || ante > s.cfg.MaxBet {
		return nil, NewValidationError("ante must be between %d and %d", s.cfg.MinAnte, s.cfg.MaxBet)
	}

	key := models.AccountKey{GuildID: guildID, UserID: userID}
	var round *models.HoldemRound

	err := s.registry.Start(key, func() (*models.HoldemSession, error) {
		var sess *models.HoldemSession
		err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
			account, err := getOrCreateAccount(ctx, uow, guildID, userID, s.cfg.StartingBalance)
			if err != nil {
				return err
			}
			if account.Balance < ante {
				return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, account.Balance, ante)
			}

			if err := uow.AccountRepository().DeductBalance(ctx, guildID, userID, ante); err != nil {
				return fmt.Errorf("failed to debit ante: %w", err)
			}
			return RecordBalanceChange(ctx, uow, &models.BalanceHistory{
				GuildID:             guildID,
				UserID:              userID,
				BalanceBefore:       account.Balance,
				BalanceAfter:        account.Balance - ante,
				ChangeAmount:        -ante,
				TransactionType:     models.TransactionTypeHoldem,
				TransactionMetadata: map[string]any{"phase": "ante"},
			})
		})
		if err != nil {
			return nil, err
		}

		deck := s.newDeck(s.rng)
		sess = &models.HoldemSession{
			Key:              key,
			Ante:             ante,
			Deck:             deck,
			PlayerHole:       []game.Card{deck.Draw(), deck.Draw()},
			OpponentHole:     []game.Card{deck.Draw(), deck.Draw()},
			Board:            []game.Card{deck.Draw(), deck.Draw(), deck.Draw(), deck.Draw(), deck.Draw()},
			Stage:            game.Preflop,
			Pot:              2 * ante, // opponent matches the ante from house funds
			InvestedPlayer:   ante,
			InvestedOpponent: ante,
			LastAction:       "antes posted",
		}
		round = liveHoldemRound(sess)
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	return round, nil
}

func (s *holdemService) CheckCall(ctx context.Context, guildID, userID int64) (*models.HoldemRound, error) {
	return s.apply(ctx, guildID, userID, func(sess *models.HoldemSession) (*models.HoldemRound, bool, error) {
		if sess.ToCallPlayer > 0 {
			return s.playerCall(ctx, sess)
		}
		return s.playerCheck(ctx, sess)
	})
}

func (s *holdemService) Raise(ctx context.Context, guildID, userID int64, amount int64) (*models.HoldemRound, error) {
	if amount <= 0 {
		return nil, NewValidationError("raise amount must be positive, got %d", amount)
	}
	if amount > s.cfg.MaxBet {
		return nil, NewValidationError("raise amount cannot exceed %d", s.cfg.MaxBet)
	}
	return s.apply(ctx, guildID, userID, func(sess *models.HoldemSession) (*models.HoldemRound, bool, error) {
		return s.playerRaise(ctx, sess, amount)
	})
}

func (s *holdemService) Fold(ctx context.Context, guildID, userID int64) (*models.HoldemRound, error) {
	return s.apply(ctx, guildID, userID, func(sess *models.HoldemSession) (*models.HoldemRound, bool, error) {
		st := *sess
		st.LastAction = "you folded"
		round, err := s.settle(ctx, &st, 0, 0, models.OutcomeLoss, false)
		if err != nil {
			return nil, false, err
		}
		return round, true, nil
	})
}

func (s *holdemService) apply(ctx context.Context, guildID, userID int64, fn func(*models.HoldemSession) (*models.HoldemRound, bool, error)) (*models.HoldemRound, error) {
	key := models.AccountKey{GuildID: guildID, UserID: userID}
	var round *models.HoldemRound

	err := s.registry.Do(key, func(sess *models.HoldemSession) (bool, error) {
		r, done, err := fn(sess)
		if err != nil {
			return false, err
		}
		round = r
		return done, nil
	})
	if err != nil {
		return nil, err
	}
	return round, nil
}

// playerCall matches the outstanding bet. Both owed amounts clear and the
// opponent acts again with nothing owed, so it may bet right back.
func (s *holdemService) playerCall(ctx context.Context, sess *models.HoldemSession) (*models.HoldemRound, bool, error) {
	amount := sess.ToCallPlayer
	st := *sess
	st.Pot += amount
	st.InvestedPlayer += amount
	st.ToCallPlayer = 0
	st.ToCallOpponent = 0
	st.LastAction = fmt.Sprintf("you called %d", amount)

	if s.cfg.Opponent.Decide(s.rng, st.Pot, 0) == game.OpponentRaise {
		bet := s.cfg.Opponent.RaiseAmount(st.Pot, st.Ante, s.cfg.MaxBet)
		st.Pot += bet
		st.InvestedOpponent += bet
		st.ToCallPlayer = bet
		st.LastAction = fmt.Sprintf("you called %d, opponent bet %d", amount, bet)
		if err := s.debitIntoPot(ctx, st.Key, amount, "call"); err != nil {
			return nil, false, err
		}
		*sess = st
		return liveHoldemRound(sess), false, nil
	}

	if advanceStage(&st) {
		round, err := s.showdown(ctx, &st, amount)
		if err != nil {
			return nil, false, err
		}
		return round, true, nil
	}

	if err := s.debitIntoPot(ctx, st.Key, amount, "call"); err != nil {
		return nil, false, err
	}
	*sess = st
	return liveHoldemRound(sess), false, nil
}

// playerCheck passes the action to the opponent with nothing owed.
func (s *holdemService) playerCheck(ctx context.Context, sess *models.HoldemSession) (*models.HoldemRound, bool, error) {
	st := *sess
	st.LastAction = "you checked"

	if s.cfg.Opponent.Decide(s.rng, st.Pot, 0) == game.OpponentRaise {
		amt := s.cfg.Opponent.RaiseAmount(st.Pot, st.Ante, s.cfg.MaxBet)
		st.Pot += amt
		st.InvestedOpponent += amt
		st.ToCallPlayer = amt
		st.LastAction = fmt.Sprintf("opponent bet %d", amt)
		*sess = st
		return liveHoldemRound(sess), false, nil
	}

	st.LastAction = "opponent checked"
	if advanceStage(&st) {
		round, err := s.showdown(ctx, &st, 0)
		if err != nil {
			return nil, false, err
		}
		return round, true, nil
	}
	*sess = st
	return liveHoldemRound(sess), false, nil
}

// playerRaise puts in the outstanding call plus amount on top, then lets the
// opponent respond.
func (s *holdemService) playerRaise(ctx context.Context, sess *models.HoldemSession, amount int64) (*models.HoldemRound, bool, error) {
	cost := sess.ToCallPlayer + amount
	st := *sess
	st.Pot += cost
	st.InvestedPlayer += cost
	st.ToCallPlayer = 0
	st.ToCallOpponent = amount
	st.LastAction = fmt.Sprintf("you bet %d", amount)

	switch s.cfg.Opponent.Decide(s.rng, st.Pot, amount) {
	case game.OpponentFold:
		st.ToCallOpponent = 0
		st.LastAction = fmt.Sprintf("you bet %d, opponent folded", amount)
		round, err := s.settle(ctx, &st, cost, st.Pot, models.OutcomeWin, false)
		if err != nil {
			return nil, false, err
		}
		return round, true, nil

	case game.OpponentRaise:
		raise := s.cfg.Opponent.RaiseAmount(st.Pot, st.Ante, s.cfg.MaxBet)
		st.Pot += amount + raise
		st.InvestedOpponent += amount + raise
		st.ToCallOpponent = 0
		st.ToCallPlayer = raise
		st.LastAction = fmt.Sprintf("you bet %d, opponent raised %d", amount, raise)
		if err := s.debitIntoPot(ctx, st.Key, cost, "raise"); err != nil {
			return nil, false, err
		}
		*sess = st
		return liveHoldemRound(sess), false, nil

	default: // call
		st.Pot += amount
		st.InvestedOpponent += amount
		st.ToCallOpponent = 0
		st.LastAction = fmt.Sprintf("you bet %d, opponent called", amount)
		if advanceStage(&st) {
			round, err := s.showdown(ctx, &st, cost)
			if err != nil {
				return nil, false, err
			}
			return round, true, nil
		}
		if err := s.debitIntoPot(ctx, st.Key, cost, "raise"); err != nil {
			return nil, false, err
		}
		*sess = st
		return liveHoldemRound(sess), false, nil
	}
}

// showdown compares best five-card hands over hole plus board. pendingDebit
// is a player wager from this same action not yet taken from the wallet.
func (s *holdemService) showdown(ctx context.Context, st *models.HoldemSession, pendingDebit int64) (*models.HoldemRound, error) {
	playerRank := game.EvaluateBest(append(copyCards(st.PlayerHole), st.Board...))
	opponentRank := game.EvaluateBest(append(copyCards(st.OpponentHole), st.Board...))

	var credit int64
	var outcome models.GameOutcome
	switch cmp := playerRank.Compare(opponentRank); {
	case cmp > 0:
		credit = st.Pot
		outcome = models.OutcomeWin
		st.LastAction = fmt.Sprintf("showdown: %s beats %s", playerRank.Category, opponentRank.Category)
	case cmp < 0:
		credit = 0
		outcome = models.OutcomeLoss
		st.LastAction = fmt.Sprintf("showdown: %s loses to %s", playerRank.Category, opponentRank.Category)
	default:
		// Push: each side takes back its own investment
		credit = st.InvestedPlayer
		outcome = models.OutcomePush
		st.LastAction = "showdown: push"
	}

	return s.settle(ctx, st, pendingDebit, credit, outcome, true)
}

// settle runs one terminal resolution as a single unit of work: take any
// pending wager, pay out the credit, record history and stats.
func (s *holdemService) settle(ctx context.Context, st *models.HoldemSession, pendingDebit, credit int64, outcome models.GameOutcome, reveal bool) (*models.HoldemRound, error) {
	net := credit - st.InvestedPlayer
	var balance int64
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := uow.AccountRepository().Get(ctx, st.Key.GuildID, st.Key.UserID)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return ErrAccountNotFound
		}
		balance = account.Balance

		if pendingDebit > 0 {
			if balance < pendingDebit {
				return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, balance, pendingDebit)
			}
			if err := uow.AccountRepository().DeductBalance(ctx, st.Key.GuildID, st.Key.UserID, pendingDebit); err != nil {
				return fmt.Errorf("failed to debit wager: %w", err)
			}
			err := RecordBalanceChange(ctx, uow, &models.BalanceHistory{
				GuildID:             st.Key.GuildID,
				UserID:              st.Key.UserID,
				BalanceBefore:       balance,
				BalanceAfter:        balance - pendingDebit,
				ChangeAmount:        -pendingDebit,
				TransactionType:     models.TransactionTypeHoldem,
				TransactionMetadata: map[string]any{"phase": "wager"},
			})
			if err != nil {
				return err
			}
			balance -= pendingDebit
		}

		if credit > 0 {
			if err := uow.AccountRepository().AddBalance(ctx, st.Key.GuildID, st.Key.UserID, credit); err != nil {
				return fmt.Errorf("failed to credit payout: %w", err)
			}
			err := RecordBalanceChange(ctx, uow, &models.BalanceHistory{
				GuildID:         st.Key.GuildID,
				UserID:          st.Key.UserID,
				BalanceBefore:   balance,
				BalanceAfter:    balance + credit,
				ChangeAmount:    credit,
				TransactionType: models.TransactionTypeHoldem,
				TransactionMetadata: map[string]any{
					"phase":   "settle",
					"outcome": string(outcome),
				},
			})
			if err != nil {
				return err
			}
			balance += credit
		}

		return recordGameResult(ctx, uow, st.Key.GuildID, st.Key.UserID, &models.GameResultRecord{
			Game:    models.GameHoldem,
			Outcome: outcome,
			Wagered: st.InvestedPlayer,
			Net:     net,
		})
	})
	if err != nil {
		return nil, err
	}

	round := liveHoldemRound(st)
	round.Settled = true
	round.Outcome = outcome
	round.Payout = credit
	round.Net = net
	round.NewBalance = balance
	if reveal {
		round.OpponentHole = copyCards(st.OpponentHole)
		round.Community = copyCards(st.Board)
	}
	return round, nil
}

// refundExpired is the registry eviction hook: the invested stake comes back
// as a push.
func (s *holdemService) refundExpired(key models.AccountKey, sess *models.HoldemSession) {
	ctx := context.Background()
	logger := log.WithFields(log.Fields{
		"guildID":  key.GuildID,
		"userID":   key.UserID,
		"invested": sess.InvestedPlayer,
	})

	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := uow.AccountRepository().Get(ctx, key.GuildID, key.UserID)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return ErrAccountNotFound
		}

		if err := uow.AccountRepository().AddBalance(ctx, key.GuildID, key.UserID, sess.InvestedPlayer); err != nil {
			return fmt.Errorf("failed to refund stake: %w", err)
		}
		err = RecordBalanceChange(ctx, uow, &models.BalanceHistory{
			GuildID:         key.GuildID,
			UserID:          key.UserID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    account.Balance + sess.InvestedPlayer,
			ChangeAmount:    sess.InvestedPlayer,
			TransactionType: models.TransactionTypeHoldemRefund,
		})
		if err != nil {
			return err
		}
		return recordGameResult(ctx, uow, key.GuildID, key.UserID, &models.GameResultRecord{
			Game:    models.GameHoldem,
			Outcome: models.OutcomePush,
			Wagered: sess.InvestedPlayer,
			Net:     0,
		})
	})
	if err != nil {
		logger.WithError(err).Error("Failed to refund idle-expired hold'em session")
		return
	}
	logger.Info("Refunded idle-expired hold'em session")
}

// debitIntoPot moves a mid-hand wager from the wallet into the pot.
func (s *holdemService) debitIntoPot(ctx context.Context, key models.AccountKey, amount int64, phase string) error {
	if amount <= 0 {
		return nil
	}

	return runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := uow.AccountRepository().Get(ctx, key.GuildID, key.UserID)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return ErrAccountNotFound
		}
		if account.Balance < amount {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, account.Balance, amount)
		}

		if err := uow.AccountRepository().DeductBalance(ctx, key.GuildID, key.UserID, amount); err != nil {
			return fmt.Errorf("failed to debit wager: %w", err)
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceHistory{
			GuildID:             key.GuildID,
			UserID:              key.UserID,
			BalanceBefore:       account.Balance,
			BalanceAfter:        account.Balance - amount,
			ChangeAmount:        -amount,
			TransactionType:     models.TransactionTypeHoldem,
			TransactionMetadata: map[string]any{"phase": phase},
		})
	})
}

// advanceStage moves to the next betting round once nothing is owed on either
// side. Returns true when the hand reaches showdown.
func advanceStage(st *models.HoldemSession) bool {
	if st.Stage >= game.River {
		st.Stage = game.Showdown
		return true
	}
	st.Stage++
	return false
}

func liveHoldemRound(sess *models.HoldemSession) *models.HoldemRound {
	return &models.HoldemRound{
		Ante:       sess.Ante,
		Stage:      sess.Stage,
		Community:  copyCards(sess.Community()),
		PlayerHole: copyCards(sess.PlayerHole),
		Pot:        sess.Pot,
		ToCall:     sess.ToCallPlayer,
		Invested:   sess.InvestedPlayer,
		LastAction: sess.LastAction,
	}
}
