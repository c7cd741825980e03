package bot

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your chip balance",
		},
		{
			Name:        "daily",
			Description: "Claim your daily chips",
		},
		{
			Name:        "beg",
			Description: "Beg for chips when you're broke",
		},
		{
			Name:        "roulette",
			Description: "Spin the roulette wheel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "color",
					Description: "Bet on red or black",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "color",
							Description: "The color to bet on",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Red", Value: "red"},
								{Name: "Black", Value: "black"},
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "bet",
							Description: "Amount of chips to wager",
							Required:    true,
							MinValue:    &minBetOption,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "number",
					Description: "Bet on a single pocket (0-36 or 00)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "pocket",
							Description: "The pocket to bet on",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "bet",
							Description: "Amount of chips to wager",
							Required:    true,
							MinValue:    &minBetOption,
						},
					},
				},
			},
		},
		{
			Name:        "slots",
			Description: "Pull the slot machine",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Amount of chips to wager",
					Required:    true,
					MinValue:    &minBetOption,
				},
			},
		},
		{
			Name:        "blackjack",
			Description: "Play a hand of blackjack against the dealer",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Amount of chips to wager",
					Required:    true,
					MinValue:    &minBetOption,
				},
			},
		},
		{
			Name:        "holdem",
			Description: "Play heads-up hold'em against the house",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "ante",
					Description: "Ante to post",
					Required:    true,
					MinValue:    &minBetOption,
				},
			},
		},
		{
			Name:        "loan",
			Description: "Borrow chips from the house",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "take",
					Description: "Take out a loan",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Principal to borrow",
							Required:    true,
							MinValue:    &minBetOption,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Check what you currently owe",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "repay",
					Description: "Pay down your loan",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Amount to repay",
							Required:    true,
							MinValue:    &minBetOption,
						},
					},
				},
			},
		},
		{
			Name:        "stats",
			Description: "Gambling statistics",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "scoreboard",
					Description: "Show the richest gamblers in this server",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "me",
					Description: "Show your own gambling record",
				},
			},
		},
		{
			Name:        "admin",
			Description: "Administrative chip management",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "grant",
					Description: "Grant chips to a user",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "The user to grant chips to",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Amount of chips",
							Required:    true,
							MinValue:    &minBetOption,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "confiscate",
					Description: "Take chips from a user",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "The user to take chips from",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Amount of chips",
							Required:    true,
							MinValue:    &minBetOption,
						},
					},
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create command %s: %w", cmd.Name, err)
		}
		log.Infof("Registered command: /%s", cmd.Name)
	}

	return nil
}

var minBetOption = float64(1)
