package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"casino/models"

	"github.com/bwmarrin/discordgo"
)

const (
	holdemCheckID    = "hold_check"
	holdemRaiseID    = "hold_raise"
	holdemFoldID     = "hold_fold"
	holdemRaiseModal = "hold_raise_modal"
	holdemRaiseInput = "hold_raise_amount"
)

func (b *Bot) handleHoldemStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Something went wrong. Please try again.")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		b.respondWithError(s, i, "Missing ante.")
		return
	}
	ante := options[0].IntValue()

	round, err := b.holdemService.Start(context.Background(), guildID, userID, ante)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			b.respondWithError(s, i, msg)
			return
		}
		log.Errorf("Error starting holdem: %v", err)
		b.respondWithError(s, i, "Failed to deal. Please try again.")
		return
	}

	b.respondWithEmbed(s, i, holdemEmbed(round), holdemComponents(round))
}

func (b *Bot) handleHoldemInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		b.handleHoldemComponent(s, i)
	case discordgo.InteractionModalSubmit:
		b.handleHoldemRaiseSubmit(s, i)
	}
}

func (b *Bot) handleHoldemComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if customID != holdemCheckID && customID != holdemRaiseID && customID != holdemFoldID {
		return
	}

	guildID, userID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Something went wrong. Please try again.")
		return
	}

	// Raise opens a modal to collect the amount.
	if customID == holdemRaiseID {
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseModal,
			Data: &discordgo.InteractionResponseData{
				CustomID: holdemRaiseModal,
				Title:    "Raise",
				Components: []discordgo.MessageComponent{
					discordgo.ActionsRow{Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    holdemRaiseInput,
							Label:       "Amount to raise by",
							Style:       discordgo.TextInputShort,
							Placeholder: "50",
							Required:    true,
							MaxLength:   10,
						},
					}},
				},
			},
		})
		if err != nil {
			log.Errorf("Error opening raise modal: %v", err)
		}
		return
	}

	var round *models.HoldemRound
	switch customID {
	case holdemCheckID:
		round, err = b.holdemService.CheckCall(context.Background(), guildID, userID)
	case holdemFoldID:
		round, err = b.holdemService.Fold(context.Background(), guildID, userID)
	}

	if err != nil {
		if msg, ok := userMessage(err); ok {
			b.respondWithError(s, i, msg)
			return
		}
		log.Errorf("Error applying holdem action: %v", err)
		b.respondWithError(s, i, "Failed to apply your action. Please try again.")
		return
	}

	b.updateWithEmbed(s, i, holdemEmbed(round), holdemComponents(round))
}

func (b *Bot) handleHoldemRaiseSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	if data.CustomID != holdemRaiseModal {
		return
	}

	guildID, userID, err := interactionIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		b.respondWithError(s, i, "Something went wrong. Please try again.")
		return
	}

	var raw string
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionsRow.Components {
			if input, ok := comp.(*discordgo.TextInput); ok && input.CustomID == holdemRaiseInput {
				raw = input.Value
			}
		}
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || amount <= 0 {
		b.respondWithError(s, i, "Enter a positive whole number of chips.")
		return
	}

	round, err := b.holdemService.Raise(context.Background(), guildID, userID, amount)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			b.respondWithError(s, i, msg)
			return
		}
		log.Errorf("Error raising: %v", err)
		b.respondWithError(s, i, "Failed to raise. Please try again.")
		return
	}

	b.respondWithEmbed(s, i, holdemEmbed(round), holdemComponents(round))
}

func holdemEmbed(round *models.HoldemRound) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Your Hole Cards", Value: formatCards(round.PlayerHole)},
		{Name: "Board", Value: formatCards(round.Community)},
		{Name: "Pot", Value: FormatBalance(round.Pot), Inline: true},
		{Name: "Stage", Value: round.Stage.String(), Inline: true},
	}

	embed := &discordgo.MessageEmbed{
		Title:  "♠️ Hold'em",
		Color:  ColorPrimary,
		Fields: fields,
	}

	if !round.Settled {
		if round.LastAction != "" {
			embed.Description = round.LastAction
		}
		if round.ToCall > 0 {
			embed.Fields = append(embed.Fields,
				&discordgo.MessageEmbedField{Name: "To Call", Value: FormatBalance(round.ToCall), Inline: true})
		}
		return embed
	}

	if len(round.OpponentHole) > 0 {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Opponent's Hole Cards", Value: formatCards(round.OpponentHole)})
	}

	switch round.Outcome {
	case models.OutcomeWin:
		embed.Color = ColorSuccess
		embed.Description = fmt.Sprintf("%s\nYou take the pot: **%s** chips.", round.LastAction, FormatBalance(round.Payout))
	case models.OutcomeLoss:
		embed.Color = ColorDanger
		embed.Description = fmt.Sprintf("%s\nThe house takes the pot.", round.LastAction)
	default:
		embed.Color = ColorWarning
		embed.Description = fmt.Sprintf("%s\nSplit pot — your **%s** chips come back.", round.LastAction, FormatBalance(round.Payout))
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Net", Value: formatNet(round.Net), Inline: true},
		&discordgo.MessageEmbedField{Name: "Balance", Value: FormatBalance(round.NewBalance), Inline: true},
	)
	return embed
}

func holdemComponents(round *models.HoldemRound) []discordgo.MessageComponent {
	if round.Settled {
		return nil
	}

	checkLabel := "Check"
	if round.ToCall > 0 {
		checkLabel = fmt.Sprintf("Call %s", FormatBalance(round.ToCall))
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: checkLabel, Style: discordgo.PrimaryButton, CustomID: holdemCheckID},
			discordgo.Button{Label: "Raise", Style: discordgo.SuccessButton, CustomID: holdemRaiseID},
			discordgo.Button{Label: "Fold", Style: discordgo.DangerButton, CustomID: holdemFoldID},
		}},
	}
}
