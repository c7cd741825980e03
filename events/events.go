package events

import (
	"context"
	"sync"

	"casino/models"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeGameSettled   EventType = "game_settled"
	EventTypeLoanOpened    EventType = "loan_opened"
	EventTypeLoanClosed    EventType = "loan_closed"
	EventTypeDailyClaimed  EventType = "daily_claimed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	GuildID         int64
	UserID          int64
	OldBalance      int64
	NewBalance      int64
	TransactionType models.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// GameSettledEvent represents a finished game round
type GameSettledEvent struct {
	GuildID int64
	UserID  int64
	Game    models.GameFamily
	Outcome models.GameOutcome
	Wagered int64
	Net     int64
}

func (e GameSettledEvent) Type() EventType {
	return EventTypeGameSettled
}

// LoanOpenedEvent represents a new loan being taken out
type LoanOpenedEvent struct {
	GuildID   int64
	UserID    int64
	Principal int64
	Disbursed int64
	Owed      int64
}

func (e LoanOpenedEvent) Type() EventType {
	return EventTypeLoanOpened
}

// LoanClosedEvent represents a loan being fully repaid
type LoanClosedEvent struct {
	GuildID   int64
	UserID    int64
	Principal int64
	TotalPaid int64
}

func (e LoanClosedEvent) Type() EventType {
	return EventTypeLoanClosed
}

// DailyClaimedEvent represents a daily reward claim
type DailyClaimedEvent struct {
	GuildID int64
	UserID  int64
	Amount  int64
	Streak  int
}

func (e DailyClaimedEvent) Type() EventType {
	return EventTypeDailyClaimed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events outlive the transaction context that produced them
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
