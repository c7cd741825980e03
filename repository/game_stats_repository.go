package repository

import (
	"context"
	"fmt"

	"casino/database"
	"casino/models"
)

// GameStatsRepository implements the GameStatsRepository interface
type GameStatsRepository struct {
	q queryable
}

// NewGameStatsRepository creates a new game stats repository
func NewGameStatsRepository(db *database.DB) *GameStatsRepository {
	return &GameStatsRepository{q: db.Pool}
}

// newGameStatsRepositoryWithTx creates a new game stats repository with a transaction
func newGameStatsRepositoryWithTx(tx queryable) *GameStatsRepository {
	return &GameStatsRepository{q: tx}
}

// ApplyResult folds one settled round into the account's stats row
func (r *GameStatsRepository) ApplyResult(ctx context.Context, guildID, userID int64, result *models.GameResultRecord) error {
	var wins, losses, pushes int64
	switch result.Outcome {
	case models.OutcomeWin:
		wins = 1
	case models.OutcomeLoss:
		losses = 1
	case models.OutcomePush:
		pushes = 1
	default:
		return fmt.Errorf("unknown game outcome %q", result.Outcome)
	}

	query := `
		INSERT INTO game_stats (guild_id, user_id, game, plays, wins, losses, pushes, wagered, profit, biggest_win)
		VALUES ($1, $2, $3, 1, $4, $5, $6, $7, $8, GREATEST($8, 0))
		ON CONFLICT (guild_id, user_id, game) DO UPDATE SET
			plays = game_stats.plays + 1,
			wins = game_stats.wins + $4,
			losses = game_stats.losses + $5,
			pushes = game_stats.pushes + $6,
			wagered = game_stats.wagered + $7,
			profit = game_stats.profit + $8,
			biggest_win = GREATEST(game_stats.biggest_win, $8)
	`

	_, err := r.q.Exec(ctx, query,
		guildID,
		userID,
		result.Game,
		wins,
		losses,
		pushes,
		result.Wagered,
		result.Net,
	)
	if err != nil {
		return fmt.Errorf("failed to apply %s result for account %d/%d: %w", result.Game, guildID, userID, err)
	}
	return nil
}

// GetByAccount returns all stats rows for an account
func (r *GameStatsRepository) GetByAccount(ctx context.Context, guildID, userID int64) ([]*models.GameStats, error) {
	query := `
		SELECT guild_id, user_id, game, plays, wins, losses, pushes, wagered, profit, biggest_win
		FROM game_stats
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY game
	`

	rows, err := r.q.Query(ctx, query, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game stats for account %d/%d: %w", guildID, userID, err)
	}
	defer rows.Close()

	var stats []*models.GameStats
	for rows.Next() {
		var s models.GameStats
		err := rows.Scan(
			&s.GuildID,
			&s.UserID,
			&s.Game,
			&s.Plays,
			&s.Wins,
			&s.Losses,
			&s.Pushes,
			&s.Wagered,
			&s.Profit,
			&s.BiggestWin,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game stats: %w", err)
		}
		stats = append(stats, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game stats: %w", err)
	}
	return stats, nil
}
