package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"casino/game"
	"casino/service"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// HTTP probe endpoint
	HTTPAddr string

	// Economy settings
	StartingBalance int64

	// Wheel game
	RouletteMinBet     int64
	RouletteMaxBet     int64
	RouletteLossFeePct int64

	// Reel game
	SlotsMinBet int64
	SlotsMaxBet int64

	// Card duel
	BlackjackMinBet  int64
	BlackjackMaxBet  int64
	DealerHitsSoft17 bool
	AllowDouble      bool
	AllowSurrender   bool
	BlackjackTimeout time.Duration

	// Heads-up game and its scripted opponent
	HoldemMinAnte            int64
	HoldemMaxBet             int64
	HoldemTimeout            time.Duration
	HoldemCallMaxPctOfPot    int
	HoldemRaiseChancePct     int
	HoldemRaisePctOfPot      int
	HoldemRaiseInsteadPct    int
	HoldemCallDespiteOddsPct int

	// Loan shark
	LoanMinPrincipal      int64
	LoanMaxPrincipal      int64
	LoanDailyInterestPct  int64
	LoanOriginationFeePct int64

	// Non-wager income
	DailyAmount      int64
	DailyCooldown    time.Duration
	DailyStreakGrace time.Duration
	StreakBonuses    map[int]int64
	BegPayout        int64
	BegCooldown      time.Duration
	BegMaxWallet     int64

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A local .env is a development convenience; absence is not an error
	_ = godotenv.Load()

	config := &Config{
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		HTTPAddr:       ":8080",

		StartingBalance: 1000,

		RouletteMinBet:     10,
		RouletteMaxBet:     100000,
		RouletteLossFeePct: 5,

		SlotsMinBet: 10,
		SlotsMaxBet: 100000,

		BlackjackMinBet:  10,
		BlackjackMaxBet:  10000,
		DealerHitsSoft17: false,
		AllowDouble:      true,
		AllowSurrender:   true,
		BlackjackTimeout: 5 * time.Minute,

		HoldemMinAnte:            10,
		HoldemMaxBet:             10000,
		HoldemTimeout:            5 * time.Minute,
		HoldemCallMaxPctOfPot:    60,
		HoldemRaiseChancePct:     12,
		HoldemRaisePctOfPot:      40,
		HoldemRaiseInsteadPct:    10,
		HoldemCallDespiteOddsPct: 25,

		LoanMinPrincipal:      100,
		LoanMaxPrincipal:      100000,
		LoanDailyInterestPct:  25,
		LoanOriginationFeePct: 10,

		DailyAmount:      250,
		DailyCooldown:    24 * time.Hour,
		DailyStreakGrace: 48 * time.Hour,
		StreakBonuses:    map[int]int64{3: 100, 7: 250, 14: 500, 30: 1500},
		BegPayout:        50,
		BegCooldown:      time.Hour,
		BegMaxWallet:     10,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		config.HTTPAddr = addr
	}
	overrideInt64(&config.StartingBalance, "STARTING_BALANCE")
	overrideInt64(&config.RouletteMinBet, "ROULETTE_MIN_BET")
	overrideInt64(&config.RouletteMaxBet, "ROULETTE_MAX_BET")
	overrideInt64(&config.RouletteLossFeePct, "ROULETTE_LOSS_FEE_PCT")
	overrideInt64(&config.SlotsMinBet, "SLOTS_MIN_BET")
	overrideInt64(&config.SlotsMaxBet, "SLOTS_MAX_BET")
	overrideInt64(&config.BlackjackMinBet, "BLACKJACK_MIN_BET")
	overrideInt64(&config.BlackjackMaxBet, "BLACKJACK_MAX_BET")
	overrideInt64(&config.HoldemMinAnte, "HOLDEM_MIN_ANTE")
	overrideInt64(&config.HoldemMaxBet, "HOLDEM_MAX_BET")
	overrideInt64(&config.LoanMinPrincipal, "LOAN_MIN_PRINCIPAL")
	overrideInt64(&config.LoanMaxPrincipal, "LOAN_MAX_PRINCIPAL")
	overrideInt64(&config.LoanDailyInterestPct, "LOAN_DAILY_INTEREST_PCT")
	overrideInt64(&config.LoanOriginationFeePct, "LOAN_ORIGINATION_FEE_PCT")
	overrideInt64(&config.DailyAmount, "DAILY_AMOUNT")
	overrideInt64(&config.BegPayout, "BEG_PAYOUT")
	overrideInt64(&config.BegMaxWallet, "BEG_MAX_WALLET")
	overrideDuration(&config.BlackjackTimeout, "BLACKJACK_TIMEOUT")
	overrideDuration(&config.HoldemTimeout, "HOLDEM_TIMEOUT")
	overrideDuration(&config.DailyCooldown, "DAILY_COOLDOWN")
	overrideDuration(&config.BegCooldown, "BEG_COOLDOWN")
	if v := os.Getenv("DEALER_HITS_SOFT_17"); v != "" {
		config.DealerHitsSoft17 = v == "true"
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

func overrideInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = parsed
		}
	}
}

func overrideDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

// Per-service config builders. Services take narrow structs so tests can
// construct them inline.

func (c *Config) Ledger() service.LedgerConfig {
	return service.LedgerConfig{StartingBalance: c.StartingBalance}
}

func (c *Config) Roulette() service.RouletteConfig {
	return service.RouletteConfig{
		MinBet:          c.RouletteMinBet,
		MaxBet:          c.RouletteMaxBet,
		LossFeePct:      c.RouletteLossFeePct,
		StartingBalance: c.StartingBalance,
	}
}

func (c *Config) Slots() service.SlotsConfig {
	return service.SlotsConfig{
		MinBet:          c.SlotsMinBet,
		MaxBet:          c.SlotsMaxBet,
		StartingBalance: c.StartingBalance,
	}
}

func (c *Config) Blackjack() service.BlackjackConfig {
	return service.BlackjackConfig{
		MinBet:           c.BlackjackMinBet,
		MaxBet:           c.BlackjackMaxBet,
		DealerHitsSoft17: c.DealerHitsSoft17,
		AllowDouble:      c.AllowDouble,
		AllowSurrender:   c.AllowSurrender,
		SessionTTL:       c.BlackjackTimeout,
		StartingBalance:  c.StartingBalance,
	}
}

func (c *Config) Holdem() service.HoldemConfig {
	return service.HoldemConfig{
		MinAnte: c.HoldemMinAnte,
		MaxBet:  c.HoldemMaxBet,
		Opponent: game.OpponentPolicy{
			CallMaxPctOfPot:       c.HoldemCallMaxPctOfPot,
			RaiseChancePct:        c.HoldemRaiseChancePct,
			RaisePctOfPot:         c.HoldemRaisePctOfPot,
			RaiseInsteadOfCallPct: c.HoldemRaiseInsteadPct,
			CallDespiteOddsPct:    c.HoldemCallDespiteOddsPct,
		},
		SessionTTL:      c.HoldemTimeout,
		StartingBalance: c.StartingBalance,
	}
}

func (c *Config) Loan() service.LoanConfig {
	return service.LoanConfig{
		MinPrincipal:      c.LoanMinPrincipal,
		MaxPrincipal:      c.LoanMaxPrincipal,
		DailyInterestPct:  c.LoanDailyInterestPct,
		OriginationFeePct: c.LoanOriginationFeePct,
		StartingBalance:   c.StartingBalance,
	}
}

func (c *Config) Income() service.IncomeConfig {
	return service.IncomeConfig{
		DailyAmount:      c.DailyAmount,
		DailyCooldown:    c.DailyCooldown,
		DailyStreakGrace: c.DailyStreakGrace,
		StreakBonuses:    c.StreakBonuses,
		BegPayout:        c.BegPayout,
		BegCooldown:      c.BegCooldown,
		BegMaxWallet:     c.BegMaxWallet,
		StartingBalance:  c.StartingBalance,
	}
}
