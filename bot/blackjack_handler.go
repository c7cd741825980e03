package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"casino/game"
	"casino/models"

	"github.com/bwmarrin/discordgo"
)

const (
	blackjackHitID       = "bj_hit"
	blackjackStandID     = "bj_stand"
	blackjackDoubleID    = "bj_double"
	blackjackSurrenderID = "bj_surrender"
)

func (b *Bot) handleBlackjackStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Something went wrong. Please try again.")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Missing bet.")
		return
	}
	bet := options[0].IntValue()

	round, err := b.blackjackService.Start(context.Background(), guildID, userID, bet)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			b.respondWithError(s, i, msg)
			return
		}
		log.Errorf("Error starting blackjack: %v", err)
		b.respondWithError(s, i, "Failed to deal. Please try again.")
		return
	}

	b.respondWithEmbed(s, i, blackjackEmbed(round), blackjackComponents(round))
}

func (b *Bot) handleBlackjackInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	customID := i.MessageComponentData().CustomID
	if customID != blackjackHitID && customID != blackjackStandID &&
		customID != blackjackDoubleID && customID != blackjackSurrenderID {
		return
	}

	guildID, userID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Something went wrong. Please try again.")
		return
	}

	var round *models.BlackjackRound
	switch customID {
	case blackjackHitID:
		round, err = b.blackjackService.Hit(context.Background(), guildID, userID)
	case blackjackStandID:
		round, err = b.blackjackService.Stand(context.Background(), guildID, userID)
	case blackjackDoubleID:
		round, err = b.blackjackService.Double(context.Background(), guildID, userID)
	case blackjackSurrenderID:
		round, err = b.blackjackService.Surrender(context.Background(), guildID, userID)
	}

	if err != nil {
		if msg, ok := userMessage(err); ok {
			b.respondWithError(s, i, msg)
			return
		}
		log.Errorf("Error applying blackjack move: %v", err)
		b.respondWithError(s, i, "Failed to apply your move. Please try again.")
		return
	}

	b.updateWithEmbed(s, i, blackjackEmbed(round), blackjackComponents(round))
}

func blackjackEmbed(round *models.BlackjackRound) *discordgo.MessageEmbed {
	playerValue := game.HandValue(round.Player)

	var dealerField string
	if round.RevealDealer {
		dealerField = fmt.Sprintf("%s (%d)", formatCards(round.Dealer), game.HandValue(round.Dealer))
	} else {
		dealerField = fmt.Sprintf("`%s` `🂠`", round.Dealer[0])
	}

	embed := &discordgo.MessageEmbed{
		Title: "🃏 Blackjack",
		Color: ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Your Hand", Value: fmt.Sprintf("%s (%d)", formatCards(round.Player), playerValue)},
			{Name: "Dealer", Value: dealerField},
			{Name: "Bet", Value: FormatBalance(round.Bet), Inline: true},
		},
	}

	if !round.Settled {
		embed.Description = "Your move."
		return embed
	}

	switch round.Outcome {
	case models.OutcomeWin:
		embed.Color = ColorSuccess
	case models.OutcomeLoss:
		embed.Color = ColorDanger
	default:
		embed.Color = ColorWarning
	}
	embed.Description = round.Note
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Net", Value: formatNet(round.Net), Inline: true},
		&discordgo.MessageEmbedField{Name: "Balance", Value: FormatBalance(round.NewBalance), Inline: true},
	)
	return embed
}

// blackjackComponents returns the action row for a live hand, or nil once the
// hand is settled.
func blackjackComponents(round *models.BlackjackRound) []discordgo.MessageComponent {
	if round.Settled {
		return nil
	}

	buttons := []discordgo.MessageComponent{
		discordgo.Button{Label: "Hit", Style: discordgo.PrimaryButton, CustomID: blackjackHitID},
		discordgo.Button{Label: "Stand", Style: discordgo.SecondaryButton, CustomID: blackjackStandID},
	}
	// Double and surrender are only legal before the first hit.
	if len(round.Player) == 2 && !round.Doubled {
		buttons = append(buttons,
			discordgo.Button{Label: "Double", Style: discordgo.SuccessButton, CustomID: blackjackDoubleID},
			discordgo.Button{Label: "Surrender", Style: discordgo.DangerButton, CustomID: blackjackSurrenderID},
		)
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}
