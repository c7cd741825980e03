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

type blackjackMove int

const (
	moveHit blackjackMove = iota
	moveStand
	moveDouble
	moveSurrender
)

type blackjackService struct {
	uowFactory UnitOfWorkFactory
	rng        game.RNG
	cfg        BlackjackConfig
	registry   *sessions.Registry[models.AccountKey, models.BlackjackSession]
	newDeck    func(game.RNG) *game.Deck
}

// NewBlackjackService creates a new blackjack service with its own session
// registry. Call StartJanitor to enable background idle sweeping.
func NewBlackjackService(uowFactory UnitOfWorkFactory, rng game.RNG, cfg BlackjackConfig) BlackjackService {
	s := &blackjackService{
		uowFactory: uowFactory,
		rng:        rng,
		cfg:        cfg,
		newDeck:    game.NewDeck,
	}
	// An expired hand forfeits nothing further: the stake already moved when
	// the hand was dealt, so eviction only drops the session.
	s.registry = sessions.NewRegistry[models.AccountKey, models.BlackjackSession](cfg.SessionTTL, func(key models.AccountKey, sess *models.BlackjackSession) {
		log.WithFields(log.Fields{
			"guildID": key.GuildID,
			"userID":  key.UserID,
			"bet":     sess.Bet,
		}).Info("Blackjack session expired idle")
	})
	return s
}

// StartJanitor launches the background sweep for idle sessions.
func (s *blackjackService) StartJanitor(ctx context.Context, interval time.Duration) {
	s.registry.StartJanitor(ctx, interval)
}

func (s *blackjackService) Start(ctx context.Context, guildID, userID int64, bet int64) (*models.BlackjackRound, error) {
	if bet < s.cfg.MinBet || bet > s.cfg.MaxBet {
		return nil, NewValidationError("bet must be between %d and %d", s.cfg.MinBet, s.cfg.MaxBet)
	}

	key := models.AccountKey{GuildID: guildID, UserID: userID}
	var round *models.BlackjackRound

	err := s.registry.Start(key, func() (*models.BlackjackSession, error) {
		var sess *models.BlackjackSession
		err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
			sess = nil

			account, err := getOrCreateAccount(ctx, uow, guildID, userID, s.cfg.StartingBalance)
			if err != nil {
				return err
			}
			if account.Balance < bet {
				return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, account.Balance, bet)
			}

			// The stake leaves the wallet before any card is revealed
			if err := uow.AccountRepository().DeductBalance(ctx, guildID, userID, bet); err != nil {
				return fmt.Errorf("failed to debit stake: %w", err)
			}
			err = RecordBalanceChange(ctx, uow, &models.BalanceHistory{
				GuildID:             guildID,
				UserID:              userID,
				BalanceBefore:       account.Balance,
				BalanceAfter:        account.Balance - bet,
				ChangeAmount:        -bet,
				TransactionType:     models.TransactionTypeBlackjack,
				TransactionMetadata: map[string]any{"phase": "deal"},
			})
			if err != nil {
				return err
			}

			deck := s.newDeck(s.rng)
			dealt := &models.BlackjackSession{
				Key:    key,
				Bet:    bet,
				Deck:   deck,
				Player: []game.Card{deck.Draw(), deck.Draw()},
				Dealer: []game.Card{deck.Draw(), deck.Draw()},
			}

			if game.IsNatural(dealt.Player) {
				// Instant resolution, no session kept
				credit := dealt.Bet + dealt.Bet*3/2
				outcome := models.OutcomeWin
				note := "natural"
				if game.IsNatural(dealt.Dealer) {
					credit = dealt.Bet
					outcome = models.OutcomePush
					note = "both naturals"
				}
				round, err = s.settleInUow(ctx, uow, dealt.Key, blackjackSettlement{
					bet:     dealt.Bet,
					credit:  credit,
					outcome: outcome,
					player:  dealt.Player,
					dealer:  dealt.Dealer,
					note:    note,
				}, account.Balance-bet)
				return err
			}

			round = liveBlackjackRound(dealt)
			sess = dealt
			return nil
		})
		if err != nil {
			return nil, err
		}
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	return round, nil
}

func (s *blackjackService) Hit(ctx context.Context, guildID, userID int64) (*models.BlackjackRound, error) {
	return s.apply(ctx, guildID, userID, moveHit)
}

func (s *blackjackService) Stand(ctx context.Context, guildID, userID int64) (*models.BlackjackRound, error) {
	return s.apply(ctx, guildID, userID, moveStand)
}

func (s *blackjackService) Double(ctx context.Context, guildID, userID int64) (*models.BlackjackRound, error) {
	return s.apply(ctx, guildID, userID, moveDouble)
}

func (s *blackjackService) Surrender(ctx context.Context, guildID, userID int64) (*models.BlackjackRound, error) {
	return s.apply(ctx, guildID, userID, moveSurrender)
}

func (s *blackjackService) apply(ctx context.Context, guildID, userID int64, move blackjackMove) (*models.BlackjackRound, error) {
	key := models.AccountKey{GuildID: guildID, UserID: userID}
	var round *models.BlackjackRound

	err := s.registry.Do(key, func(sess *models.BlackjackSession) (bool, error) {
		r, done, err := s.step(ctx, sess, move)
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

// step advances one hand by one move. The session is only mutated after any
// settlement transaction has committed.
func (s *blackjackService) step(ctx context.Context, sess *models.BlackjackSession, move blackjackMove) (*models.BlackjackRound, bool, error) {
	switch move {
	case moveHit:
		deck := sess.Deck.Clone()
		player := append(copyCards(sess.Player), deck.Draw())

		if game.HandValue(player) > 21 {
			round, err := s.settle(ctx, sess.Key, blackjackSettlement{
				bet:     sess.Bet,
				credit:  0,
				outcome: models.OutcomeLoss,
				player:  player,
				dealer:  sess.Dealer,
				doubled: sess.Doubled,
				note:    "bust",
			})
			if err != nil {
				return nil, false, err
			}
			return round, true, nil
		}

		sess.Deck = deck
		sess.Player = player
		return liveBlackjackRound(sess), false, nil

	case moveStand:
		round, err := s.dealerTurn(ctx, sess, sess.Player, sess.Bet, 0)
		if err != nil {
			return nil, false, err
		}
		return round, true, nil

	case moveDouble:
		if !s.cfg.AllowDouble || !sess.FirstDecision() {
			return nil, false, ErrInvalidMove
		}
		deck := sess.Deck.Clone()
		player := append(copyCards(sess.Player), deck.Draw())
		doubledBet := sess.Bet * 2

		if game.HandValue(player) > 21 {
			round, err := s.settle(ctx, sess.Key, blackjackSettlement{
				bet:        doubledBet,
				extraDebit: sess.Bet,
				credit:     0,
				outcome:    models.OutcomeLoss,
				player:     player,
				dealer:     sess.Dealer,
				doubled:    true,
				note:       "bust",
			})
			if err != nil {
				return nil, false, err
			}
			return round, true, nil
		}

		// One card then forced stand
		sessCopy := *sess
		sessCopy.Deck = deck
		round, err := s.dealerTurn(ctx, &sessCopy, player, doubledBet, sess.Bet)
		if err != nil {
			return nil, false, err
		}
		return round, true, nil

	case moveSurrender:
		if !s.cfg.AllowSurrender || !sess.FirstDecision() {
			return nil, false, ErrInvalidMove
		}
		round, err := s.settle(ctx, sess.Key, blackjackSettlement{
			bet:     sess.Bet,
			credit:  sess.Bet / 2,
			outcome: models.OutcomeLoss,
			player:  sess.Player,
			dealer:  sess.Dealer,
			note:    "surrender",
		})
		if err != nil {
			return nil, false, err
		}
		return round, true, nil
	}

	return nil, false, ErrInvalidMove
}

// dealerTurn plays out the dealer against the given player hand and settles.
// extraDebit carries the additional stake of a double.
func (s *blackjackService) dealerTurn(ctx context.Context, sess *models.BlackjackSession, player []game.Card, bet, extraDebit int64) (*models.BlackjackRound, error) {
	deck := sess.Deck.Clone()
	dealer := game.DealerPlay(deck, copyCards(sess.Dealer), s.cfg.DealerHitsSoft17)

	pv, dv := game.HandValue(player), game.HandValue(dealer)
	var credit int64
	var outcome models.GameOutcome
	var note string
	switch {
	case dv > 21:
		credit, outcome, note = 2*bet, models.OutcomeWin, "dealer bust"
	case pv > dv:
		credit, outcome, note = 2*bet, models.OutcomeWin, ""
	case pv == dv:
		credit, outcome, note = bet, models.OutcomePush, "push"
	default:
		credit, outcome = 0, models.OutcomeLoss
	}

	return s.settle(ctx, sess.Key, blackjackSettlement{
		bet:        bet,
		extraDebit: extraDebit,
		credit:     credit,
		outcome:    outcome,
		player:     player,
		dealer:     dealer,
		doubled:    extraDebit > 0 || sess.Doubled,
		note:       note,
	})
}

// blackjackSettlement is one terminal resolution: bet is the total stake
// already (or about to be, via extraDebit) taken; credit is the total return.
type blackjackSettlement struct {
	bet        int64
	extraDebit int64
	credit     int64
	outcome    models.GameOutcome
	player     []game.Card
	dealer     []game.Card
	doubled    bool
	note       string
}

func (s *blackjackService) settle(ctx context.Context, key models.AccountKey, st blackjackSettlement) (*models.BlackjackRound, error) {
	var round *models.BlackjackRound
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := uow.AccountRepository().Get(ctx, key.GuildID, key.UserID)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return ErrAccountNotFound
		}

		round, err = s.settleInUow(ctx, uow, key, st, account.Balance)
		return err
	})
	if err != nil {
		return nil, err
	}
	return round, nil
}

// settleInUow applies a settlement inside an already-open unit of work.
// balance is the account balance before this settlement's mutations.
func (s *blackjackService) settleInUow(ctx context.Context, uow UnitOfWork, key models.AccountKey, st blackjackSettlement, balance int64) (*models.BlackjackRound, error) {
	if st.extraDebit > 0 {
		if balance < st.extraDebit {
			return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, balance, st.extraDebit)
		}
		if err := uow.AccountRepository().DeductBalance(ctx, key.GuildID, key.UserID, st.extraDebit); err != nil {
			return nil, fmt.Errorf("failed to debit double stake: %w", err)
		}
		err := RecordBalanceChange(ctx, uow, &models.BalanceHistory{
			GuildID:             key.GuildID,
			UserID:              key.UserID,
			BalanceBefore:       balance,
			BalanceAfter:        balance - st.extraDebit,
			ChangeAmount:        -st.extraDebit,
			TransactionType:     models.TransactionTypeBlackjack,
			TransactionMetadata: map[string]any{"phase": "double"},
		})
		if err != nil {
			return nil, err
		}
		balance -= st.extraDebit
	}

	if st.credit > 0 {
		if err := uow.AccountRepository().AddBalance(ctx, key.GuildID, key.UserID, st.credit); err != nil {
			return nil, fmt.Errorf("failed to credit payout: %w", err)
		}
		err := RecordBalanceChange(ctx, uow, &models.BalanceHistory{
			GuildID:         key.GuildID,
			UserID:          key.UserID,
			BalanceBefore:   balance,
			BalanceAfter:    balance + st.credit,
			ChangeAmount:    st.credit,
			TransactionType: models.TransactionTypeBlackjack,
			TransactionMetadata: map[string]any{
				"phase":   "settle",
				"outcome": string(st.outcome),
			},
		})
		if err != nil {
			return nil, err
		}
		balance += st.credit
	}

	net := st.credit - st.bet
	err := recordGameResult(ctx, uow, key.GuildID, key.UserID, &models.GameResultRecord{
		Game:    models.GameBlackjack,
		Outcome: st.outcome,
		Wagered: st.bet,
		Net:     net,
	})
	if err != nil {
		return nil, err
	}

	return &models.BlackjackRound{
		Bet:          st.bet,
		Player:       st.player,
		Dealer:       st.dealer,
		RevealDealer: true,
		Doubled:      st.doubled,
		Settled:      true,
		Outcome:      st.outcome,
		Payout:       st.credit,
		Net:          net,
		NewBalance:   balance,
		Note:         st.note,
	}, nil
}

func liveBlackjackRound(sess *models.BlackjackSession) *models.BlackjackRound {
	return &models.BlackjackRound{
		Bet:     sess.Bet,
		Player:  copyCards(sess.Player),
		Dealer:  copyCards(sess.Dealer),
		Doubled: sess.Doubled,
	}
}

func copyCards(cards []game.Card) []game.Card {
	return append([]game.Card(nil), cards...)
}
