package models

import (
	"time"
)

// Account is a player's wallet within one community (Discord guild). Accounts
// are created lazily on first reference and never deleted.
type Account struct {
	GuildID     int64     `db:"guild_id"`
	UserID      int64     `db:"user_id"`
	Balance     int64     `db:"balance"`
	LastDaily   time.Time `db:"last_daily"`
	DailyStreak int       `db:"daily_streak"`
	LastBeg     time.Time `db:"last_beg"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// AccountKey identifies an account and its sessions.
type AccountKey struct {
	GuildID int64
	UserID  int64
}

func (a *Account) Key() AccountKey {
	return AccountKey{GuildID: a.GuildID, UserID: a.UserID}
}
