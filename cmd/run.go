package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"casino/api"
	"casino/bot"
	"casino/config"
	"casino/database"
	"casino/events"
	"casino/game"
	"casino/repository"
	"casino/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting casino bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	log.Println("Initializing event bus...")
	eventBus := events.NewBus()
	log.Println("Event bus initialized successfully")

	// Initialize unit of work factory
	log.Println("Initializing unit of work factory...")
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	log.Println("Unit of work factory initialized successfully")

	// Initialize services
	log.Println("Initializing services...")
	rng := game.NewRNG()
	ledgerService := service.NewLedgerService(uowFactory, cfg.Ledger())
	rouletteService := service.NewRouletteService(uowFactory, rng, cfg.Roulette())
	slotsService := service.NewSlotsService(uowFactory, rng, cfg.Slots())
	blackjackService := service.NewBlackjackService(uowFactory, rng, cfg.Blackjack())
	holdemService := service.NewHoldemService(uowFactory, rng, cfg.Holdem())
	loanService := service.NewLoanService(uowFactory, cfg.Loan())
	incomeService := service.NewIncomeService(uowFactory, cfg.Income())
	statsService := service.NewStatsService(uowFactory)
	log.Println("Services initialized successfully")

	// Start background sweeps for abandoned game sessions
	blackjackService.StartJanitor(ctx, time.Minute)
	holdemService.StartJanitor(ctx, time.Minute)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.DiscordGuildID,
	}
	discordBot, err := bot.New(botConfig, ledgerService, rouletteService, slotsService, blackjackService, holdemService, loanService, incomeService, statsService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Start the health probe server
	httpServer := api.NewServer(cfg.HTTPAddr, db)
	go func() {
		log.Printf("Health server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Health server error: %v", err)
		}
	}()

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down health server: %v", err)
	}

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
