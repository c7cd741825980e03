package bot

import (
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"casino/events"
	"casino/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

type Bot struct {
	config           Config
	session          *discordgo.Session
	ledgerService    service.LedgerService
	rouletteService  service.RouletteService
	slotsService     service.SlotsService
	blackjackService service.BlackjackService
	holdemService    service.HoldemService
	loanService      service.LoanService
	incomeService    service.IncomeService
	statsService     service.StatsService
	eventBus         *events.Bus
}

func New(config Config, ledgerService service.LedgerService, rouletteService service.RouletteService, slotsService service.SlotsService, blackjackService service.BlackjackService, holdemService service.HoldemService, loanService service.LoanService, incomeService service.IncomeService, statsService service.StatsService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	bot := &Bot{
		config:           config,
		session:          dg,
		ledgerService:    ledgerService,
		rouletteService:  rouletteService,
		slotsService:     slotsService,
		blackjackService: blackjackService,
		holdemService:    holdemService,
		loanService:      loanService,
		incomeService:    incomeService,
		statsService:     statsService,
		eventBus:         eventBus,
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register component interaction handlers
	dg.AddHandler(bot.handleBlackjackInteraction)
	dg.AddHandler(bot.handleHoldemInteraction)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance":
		b.handleBalance(s, i)
	case "daily":
		b.handleDaily(s, i)
	case "beg":
		b.handleBeg(s, i)
	case "roulette":
		b.handleRoulette(s, i)
	case "slots":
		b.handleSlots(s, i)
	case "blackjack":
		b.handleBlackjackStart(s, i)
	case "holdem":
		b.handleHoldemStart(s, i)
	case "loan":
		b.handleLoan(s, i)
	case "stats":
		b.handleStats(s, i)
	case "admin":
		b.handleAdmin(s, i)
	}
}

// interactionIDs extracts the guild and member identifiers the services key on.
func interactionIDs(i *discordgo.InteractionCreate) (guildID, userID int64, err error) {
	guildID, err = strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid guild ID %q: %w", i.GuildID, err)
	}
	if i.Member == nil || i.Member.User == nil {
		return 0, 0, fmt.Errorf("interaction has no member")
	}
	userID, err = strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid user ID %q: %w", i.Member.User.ID, err)
	}
	return guildID, userID, nil
}

func (b *Bot) respondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

func (b *Bot) respondWithContent(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
	if err != nil {
		log.Errorf("Error responding to command: %v", err)
	}
}

func (b *Bot) respondWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.Errorf("Error responding to command: %v", err)
	}
}

// updateWithEmbed rewrites the message a component interaction came from.
func (b *Bot) updateWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.Errorf("Error updating interaction message: %v", err)
	}
}

// GetDisplayName returns the server-specific display name for a user,
// falling back to username when no nickname is set.
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	member, err := s.GuildMember(guildID, userID)
	if err == nil && member != nil {
		if member.Nick != "" {
			return member.Nick
		}
		if member.User != nil {
			return member.User.Username
		}
	}

	user, err := s.User(userID)
	if err == nil && user != nil {
		return user.Username
	}

	return "Unknown"
}

// GetDisplayNameInt64 is a convenience wrapper that accepts int64 user IDs
func GetDisplayNameInt64(s *discordgo.Session, guildID string, userID int64) string {
	return GetDisplayName(s, guildID, strconv.FormatInt(userID, 10))
}

// hasAdminPermission reports whether the invoking member may use admin commands.
func hasAdminPermission(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	return i.Member.Permissions&discordgo.PermissionAdministrator != 0
}
