package service

import (
	"context"

	"casino/models"
)

type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{uowFactory: uowFactory}
}

func (s *statsService) Scoreboard(ctx context.Context, guildID int64, limit int) ([]*models.ScoreboardEntry, error) {
	var entries []*models.ScoreboardEntry
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		entries, err = uow.AccountRepository().Scoreboard(ctx, guildID, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *statsService) GetUserStats(ctx context.Context, guildID, userID int64) (*models.UserStats, error) {
	var stats *models.UserStats
	err := runInTransaction(ctx, s.uowFactory, func(uow UnitOfWork) error {
		account, err := uow.AccountRepository().Get(ctx, guildID, userID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}

		games, err := uow.GameStatsRepository().GetByAccount(ctx, guildID, userID)
		if err != nil {
			return err
		}

		stats = &models.UserStats{
			Account: account,
			Games:   games,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
