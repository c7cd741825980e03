package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Something went wrong. Please try again.")
		return
	}

	account, err := b.ledgerService.GetOrCreateAccount(context.Background(), guildID, userID)
	if err != nil {
		log.Errorf("Error getting account: %v", err)
		b.respondWithError(s, i, "Failed to retrieve your balance. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "💰 Balance",
		Description: fmt.Sprintf("**%s** chips", FormatBalance(account.Balance)),
		Color:       ColorPrimary,
	}

	history, err := b.ledgerService.History(context.Background(), guildID, userID, 5)
	if err != nil {
		log.Errorf("Error getting balance history: %v", err)
	} else if len(history) > 0 {
		var sb strings.Builder
		for _, entry := range history {
			sb.WriteString(fmt.Sprintf("%s `%s` %s\n",
				FormatDiscordTimestamp(entry.CreatedAt), entry.TransactionType, formatNet(entry.ChangeAmount)))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Recent Activity",
			Value: sb.String(),
		})
	}

	b.respondWithEmbed(s, i, embed, nil)
}

func (b *Bot) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Something went wrong. Please try again.")
		return
	}

	result, err := b.incomeService.ClaimDaily(context.Background(), guildID, userID)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			b.respondWithError(s, i, msg)
			return
		}
		log.Errorf("Error claiming daily: %v", err)
		b.respondWithError(s, i, "Failed to claim your daily. Please try again.")
		return
	}

	description := fmt.Sprintf("You claimed **%s** chips!", FormatBalance(result.Amount))
	if result.Bonus > 0 {
		description += fmt.Sprintf("\nIncludes a **%s** chip streak bonus.", FormatBalance(result.Bonus))
	}
	embed := &discordgo.MessageEmbed{
		Title:       "📅 Daily Claimed",
		Description: description,
		Color:       ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Streak", Value: fmt.Sprintf("%d day(s)", result.Streak), Inline: true},
			{Name: "Balance", Value: FormatBalance(result.NewBalance), Inline: true},
		},
	}
	b.respondWithEmbed(s, i, embed, nil)
}

func (b *Bot) handleBeg(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Something went wrong. Please try again.")
		return
	}

	result, err := b.incomeService.Beg(context.Background(), guildID, userID)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			b.respondWithError(s, i, msg)
			return
		}
		log.Errorf("Error begging: %v", err)
		b.respondWithError(s, i, "Failed to beg. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🙏 Charity",
		Description: fmt.Sprintf("A passerby takes pity and drops **%s** chips in your cup.", FormatBalance(result.Amount)),
		Color:       ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Balance", Value: FormatBalance(result.NewBalance), Inline: true},
		},
	}
	b.respondWithEmbed(s, i, embed, nil)
}

func (b *Bot) handleLoan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Something went wrong. Please try again.")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Missing subcommand.")
		return
	}
	sub := options[0]

	switch sub.Name {
	case "take":
		b.handleLoanTake(s, i, guildID, userID, sub.Options[0].IntValue())
	case "status":
		b.handleLoanStatus(s, i, guildID, userID)
	case "repay":
		b.handleLoanRepay(s, i, guildID, userID, sub.Options[0].IntValue())
	}
}

func (b *Bot) handleLoanTake(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID, amount int64) {
	receipt, err := b.loanService.Take(context.Background(), guildID, userID, amount)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			b.respondWithError(s, i, msg)
			return
		}
		log.Errorf("Error taking loan: %v", err)
		b.respondWithError(s, i, "Failed to take the loan. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🦈 Loan Taken",
		Description: fmt.Sprintf("The loan shark hands over **%s** chips (**%s** fee withheld).",
			FormatBalance(receipt.Received), FormatBalance(receipt.Fee)),
		Color: ColorWarning,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Principal", Value: FormatBalance(receipt.Principal), Inline: true},
			{Name: "Owed", Value: FormatBalance(receipt.Owed), Inline: true},
			{Name: "Balance", Value: FormatBalance(receipt.NewBalance), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Interest compounds daily. Repay with /loan repay.",
		},
	}
	b.respondWithEmbed(s, i, embed, nil)
}

func (b *Bot) handleLoanStatus(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID int64) {
	loan, err := b.loanService.Status(context.Background(), guildID, userID)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			b.respondWithError(s, i, msg)
			return
		}
		log.Errorf("Error getting loan status: %v", err)
		b.respondWithError(s, i, "Failed to check your loan. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🦈 Loan Status",
		Color: ColorWarning,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Principal", Value: FormatBalance(loan.Principal), Inline: true},
			{Name: "Owed", Value: FormatBalance(loan.Owed), Inline: true},
			{Name: "Daily Interest", Value: fmt.Sprintf("%d%%", loan.DailyInterestPct), Inline: true},
			{Name: "Taken", Value: FormatDiscordTimestamp(loan.OpenedAt), Inline: true},
		},
	}
	b.respondWithEmbed(s, i, embed, nil)
}

func (b *Bot) handleLoanRepay(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID, amount int64) {
	result, err := b.loanService.Repay(context.Background(), guildID, userID, amount)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			b.respondWithError(s, i, msg)
			return
		}
		log.Errorf("Error repaying loan: %v", err)
		b.respondWithError(s, i, "Failed to repay the loan. Please try again.")
		return
	}

	var description string
	color := ColorWarning
	if result.Settled {
		description = fmt.Sprintf("You paid **%s** chips and settled your debt. The shark nods approvingly.", FormatBalance(result.Paid))
		color = ColorSuccess
	} else {
		description = fmt.Sprintf("You paid **%s** chips. **%s** still owed.", FormatBalance(result.Paid), FormatBalance(result.Owed))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🦈 Loan Repayment",
		Description: description,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Balance", Value: FormatBalance(result.NewBalance), Inline: true},
		},
	}
	b.respondWithEmbed(s, i, embed, nil)
}

func (b *Bot) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Something went wrong. Please try again.")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Missing subcommand.")
		return
	}

	switch options[0].Name {
	case "scoreboard":
		b.handleScoreboard(s, i, guildID)
	case "me":
		b.handleUserStats(s, i, guildID, userID)
	}
}

func (b *Bot) handleScoreboard(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	entries, err := b.statsService.Scoreboard(context.Background(), guildID, 10)
	if err != nil {
		log.Errorf("Error getting scoreboard: %v", err)
		b.respondWithError(s, i, "Failed to load the scoreboard. Please try again.")
		return
	}
	if len(entries) == 0 {
		b.respondWithContent(s, i, "Nobody has gambled here yet. Be the first!")
		return
	}

	var sb strings.Builder
	sb.WriteString("```\n")
	sb.WriteString(fmt.Sprintf("%-4s %-20s %12s %10s\n", "#", "Player", "Balance", "Profit"))
	sb.WriteString(strings.Repeat("-", 50) + "\n")
	for idx, entry := range entries {
		rank := fmt.Sprintf("%d.", idx+1)
		switch idx {
		case 0:
			rank = "🥇"
		case 1:
			rank = "🥈"
		case 2:
			rank = "🥉"
		}
		name := GetDisplayNameInt64(s, i.GuildID, entry.UserID)
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		sb.WriteString(fmt.Sprintf("%-4s %-20s %12s %10s\n",
			rank, name, FormatBalance(entry.Balance), formatNet(entry.Profit)))
	}
	sb.WriteString("```")

	embed := &discordgo.MessageEmbed{
		Title:       "🏆 High Rollers",
		Description: sb.String(),
		Color:       ColorPrimary,
	}
	b.respondWithEmbed(s, i, embed, nil)
}

func (b *Bot) handleUserStats(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID int64) {
	stats, err := b.statsService.GetUserStats(context.Background(), guildID, userID)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			b.respondWithError(s, i, msg)
			return
		}
		log.Errorf("Error getting user stats: %v", err)
		b.respondWithError(s, i, "Failed to load your stats. Please try again.")
		return
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Balance", Value: FormatBalance(stats.Account.Balance), Inline: true},
	}
	for _, g := range stats.Games {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: titleCase(string(g.Game)),
			Value: fmt.Sprintf("%d played · %dW/%dL/%dP\nProfit: %s · Best win: %s",
				g.Plays, g.Wins, g.Losses, g.Pushes, formatNet(g.Profit), FormatBalance(g.BiggestWin)),
			Inline: true,
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("📊 %s's Record", GetDisplayNameInt64(s, i.GuildID, userID)),
		Color:  ColorPrimary,
		Fields: fields,
	}
	b.respondWithEmbed(s, i, embed, nil)
}

func (b *Bot) handleAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !hasAdminPermission(i) {
		b.respondWithError(s, i, "You need administrator permission for that.")
		return
	}

	guildID, _, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Something went wrong. Please try again.")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Missing subcommand.")
		return
	}
	sub := options[0]

	var targetID int64
	var amount int64
	for _, opt := range sub.Options {
		switch opt.Name {
		case "user":
			targetID, err = strconv.ParseInt(opt.UserValue(nil).ID, 10, 64)
			if err != nil {
				b.respondWithError(s, i, "Invalid user.")
				return
			}
		case "amount":
			amount = opt.IntValue()
		}
	}

	switch sub.Name {
	case "grant":
		account, err := b.ledgerService.Grant(context.Background(), guildID, targetID, amount)
		if err != nil {
			if msg, ok := userMessage(err); ok {
				b.respondWithError(s, i, msg)
				return
			}
			log.Errorf("Error granting chips: %v", err)
			b.respondWithError(s, i, "Failed to grant chips. Please try again.")
			return
		}
		b.respondWithContent(s, i, fmt.Sprintf("Granted **%s** chips to %s. New balance: **%s**.",
			FormatBalance(amount), GetDisplayNameInt64(s, i.GuildID, targetID), FormatBalance(account.Balance)))
	case "confiscate":
		account, err := b.ledgerService.Confiscate(context.Background(), guildID, targetID, amount)
		if err != nil {
			if msg, ok := userMessage(err); ok {
				b.respondWithError(s, i, msg)
				return
			}
			log.Errorf("Error confiscating chips: %v", err)
			b.respondWithError(s, i, "Failed to confiscate chips. Please try again.")
			return
		}
		b.respondWithContent(s, i, fmt.Sprintf("Confiscated chips from %s. New balance: **%s**.",
			GetDisplayNameInt64(s, i.GuildID, targetID), FormatBalance(account.Balance)))
	}
}
