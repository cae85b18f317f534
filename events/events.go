package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/jaffarkeikei/vector-markets/models"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBetPlaced      EventType = "bet_placed"
	EventTypeBetSettled     EventType = "bet_settled"
	EventTypeBalanceChanged EventType = "balance_changed"
	EventTypeMatchSettled   EventType = "match_settled"
	EventTypeUserCreated    EventType = "user_created"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BetPlacedEvent represents a bet that was accepted
type BetPlacedEvent struct {
	BetID           string
	UserID          string
	OutcomeID       string
	Stake           int64
	Odds            float64
	PotentialReturn int64
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// BetSettledEvent represents a bet reaching a terminal status
type BetSettledEvent struct {
	BetID        string
	UserID       string
	MatchID      string
	Status       models.BetStatus
	Stake        int64
	ActualReturn int64
}

func (e BetSettledEvent) Type() EventType {
	return EventTypeBetSettled
}

// BalanceChangedEvent represents a funds movement on a user's ledger
type BalanceChangedEvent struct {
	UserID          string
	TransactionType models.TransactionType
	Amount          int64
}

func (e BalanceChangedEvent) Type() EventType {
	return EventTypeBalanceChanged
}

// MatchSettledEvent represents a finished match whose markets were settled
type MatchSettledEvent struct {
	MatchID     string
	HomeScore   int
	AwayScore   int
	BetsSettled int
}

func (e MatchSettledEvent) Type() EventType {
	return EventTypeMatchSettled
}

// UserCreatedEvent represents a wallet connecting for the first time
type UserCreatedEvent struct {
	UserID        string
	WalletAddress string
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
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

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after the database commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit. Events are emitted with a
// background context because they outlive the transaction's context.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
