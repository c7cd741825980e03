package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"casino/game"
	"casino/service"
	"casino/sessions"
)

// Embed colors matching Discord's palette
const (
	ColorPrimary = 0x5865F2
	ColorSuccess = 0x57F287
	ColorDanger  = 0xED4245
	ColorWarning = 0xFEE75C
)

// FormatBalance formats a chip amount with comma separators
func FormatBalance(amount int64) string {
	str := fmt.Sprintf("%d", amount)
	if amount < 0 {
		str = str[1:]
	}

	var result []string
	for i := len(str); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		result = append([]string{str[start:i]}, result...)
	}

	formatted := strings.Join(result, ",")
	if amount < 0 {
		return "-" + formatted
	}
	return formatted
}

// FormatDiscordTimestamp renders a time as a Discord relative timestamp
func FormatDiscordTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

// formatCards renders a hand for an embed field.
func formatCards(cards []game.Card) string {
	if len(cards) == 0 {
		return "—"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = "`" + c.String() + "`"
	}
	return strings.Join(parts, " ")
}

// formatNet renders a signed chip delta with its sign always shown.
func formatNet(net int64) string {
	if net >= 0 {
		return "+" + FormatBalance(net)
	}
	return "-" + FormatBalance(-net)
}

// titleCase uppercases the first letter of an ASCII word.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// userMessage translates a service error into something safe to show the
// player. The bool reports whether the error was one of the expected domain
// errors; anything else should be logged and masked.
func userMessage(err error) (string, bool) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr.Message, true
	}

	switch {
	case errors.Is(err, service.ErrInsufficientFunds):
		return "You don't have enough chips for that.", true
	case errors.Is(err, service.ErrNoLoan):
		return "You don't have a loan outstanding.", true
	case errors.Is(err, service.ErrLoanActive):
		return "You already have a loan outstanding. Repay it first.", true
	case errors.Is(err, service.ErrInvalidMove):
		return "That move isn't available right now.", true
	case errors.Is(err, service.ErrAccountNotFound):
		return "No account found. Play a game or claim your daily to open one.", true
	case errors.Is(err, sessions.ErrSessionActive):
		return "You already have a hand in progress. Finish it first.", true
	case errors.Is(err, sessions.ErrNoActiveSession):
		return "You don't have a hand in progress. It may have expired.", true
	}

	return "", false
}
