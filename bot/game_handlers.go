package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"casino/game"
	"casino/models"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleRoulette(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	var wager string
	var bet int64
	for _, opt := range sub.Options {
		switch opt.Name {
		case "color", "pocket":
			wager = opt.StringValue()
		case "bet":
			bet = opt.IntValue()
		}
	}

	var result *models.RouletteResult
	switch sub.Name {
	case "color":
		color, perr := game.ParseColor(wager)
		if perr != nil {
			b.respondWithError(s, i, perr.Error())
			return
		}
		result, err = b.rouletteService.PlaceColorBet(context.Background(), guildID, userID, color, bet)
	case "number":
		pocket, perr := game.ParsePocket(wager)
		if perr != nil {
			b.respondWithError(s, i, perr.Error())
			return
		}
		result, err = b.rouletteService.PlaceNumberBet(context.Background(), guildID, userID, pocket, bet)
	default:
		b.respondWithError(s, i, "Unknown roulette wager.")
		return
	}

	if err != nil {
		if msg, ok := userMessage(err); ok {
			b.respondWithError(s, i, msg)
			return
		}
		log.Errorf("Error placing roulette bet: %v", err)
		b.respondWithError(s, i, "Failed to place your bet. Please try again.")
		return
	}

	b.respondWithEmbed(s, i, rouletteEmbed(result), nil)
}

func rouletteEmbed(result *models.RouletteResult) *discordgo.MessageEmbed {
	landed := fmt.Sprintf("%s %s", pocketEmoji(result.Pocket), result.Pocket.String())

	var description string
	color := ColorDanger
	if result.Payout > 0 {
		description = fmt.Sprintf("The ball lands on **%s** — you win **%s** chips!",
			landed, FormatBalance(result.Payout))
		color = ColorSuccess
	} else {
		description = fmt.Sprintf("The ball lands on **%s** — your bet is lost.", landed)
		if result.LossFee > 0 {
			description += fmt.Sprintf("\nThe house tacks on a **%s** chip table fee.", FormatBalance(result.LossFee))
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "🎡 Roulette",
		Description: description,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wager", Value: fmt.Sprintf("%s on %s", FormatBalance(result.Bet), result.Wager), Inline: true},
			{Name: "Net", Value: formatNet(result.Net), Inline: true},
			{Name: "Balance", Value: FormatBalance(result.NewBalance), Inline: true},
		},
	}
}

func pocketEmoji(p game.Pocket) string {
	switch p.Color() {
	case game.Red:
		return "🔴"
	case game.Black:
		return "⚫"
	default:
		return "🟢"
	}
}

func (b *Bot) handleSlots(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	result, err := b.slotsService.Spin(context.Background(), guildID, userID, bet)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			b.respondWithError(s, i, msg)
			return
		}
		log.Errorf("Error spinning slots: %v", err)
		b.respondWithError(s, i, "Failed to spin. Please try again.")
		return
	}

	b.respondWithEmbed(s, i, slotsEmbed(result), nil)
}

func slotsEmbed(result *models.SlotsResult) *discordgo.MessageEmbed {
	reels := fmt.Sprintf("┃ %s ┃ %s ┃ %s ┃", result.Reels[0], result.Reels[1], result.Reels[2])

	var description string
	color := ColorDanger
	switch {
	case result.Jackpot:
		description = fmt.Sprintf("%s\n\n👑 **JACKPOT!** You win **%s** chips!", reels, FormatBalance(result.Payout))
		color = ColorWarning
	case result.Payout > 0:
		description = fmt.Sprintf("%s\n\nThree of a kind! You win **%s** chips!", reels, FormatBalance(result.Payout))
		color = ColorSuccess
	default:
		description = fmt.Sprintf("%s\n\nNo match. Better luck next spin.", reels)
	}

	return &discordgo.MessageEmbed{
		Title:       "🎰 Slots",
		Description: description,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bet", Value: FormatBalance(result.Bet), Inline: true},
			{Name: "Net", Value: formatNet(result.Net), Inline: true},
			{Name: "Balance", Value: FormatBalance(result.NewBalance), Inline: true},
		},
	}
}
