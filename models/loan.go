package models

import (
	"time"
)

// Loan is an account's outstanding high-interest debt. At most one active loan
// exists per account; a loan whose owed balance hits zero is deleted.
type Loan struct {
	GuildID           int64     `db:"guild_id"`
	UserID            int64     `db:"user_id"`
	Principal         int64     `db:"principal"`
	Owed              int64     `db:"owed"`
	DailyInterestPct  int64     `db:"daily_interest_pct"`
	OriginationFeePct int64     `db:"origination_fee_pct"`
	OpenedAt          time.Time `db:"opened_at"`
	LastAccrual       time.Time `db:"last_accrual"`
}

// Accrue applies whole-day compound interest elapsed since the last accrual
// and returns the number of days charged. Each full day adds
// floor(owed * rate / 100); LastAccrual advances by exactly the accrued days
// so fractional-day remainders keep counting.
func (l *Loan) Accrue(now time.Time) int {
	if l.Owed <= 0 {
		return 0
	}
	last := l.LastAccrual
	if last.IsZero() {
		last = l.OpenedAt
	}
	if last.IsZero() || now.Before(last) {
		return 0
	}

	days := int64(now.Sub(last) / (24 * time.Hour))
	if days <= 0 {
		return 0
	}
	for i := int64(0); i < days; i++ {
		l.Owed += l.Owed * l.DailyInterestPct / 100
	}
	l.LastAccrual = last.Add(time.Duration(days) * 24 * time.Hour)
	return int(days)
}
