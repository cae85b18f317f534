package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"github.com/jaffarkeikei/vector-markets/events"
)

// messageWriter is the subset of kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// betSettledMessage is the wire format published for downstream consumers
type betSettledMessage struct {
	BetID        string `json:"betId"`
	UserID       string `json:"userId"`
	MatchID      string `json:"matchId"`
	Status       string `json:"status"`
	Stake        int64  `json:"stake"`
	ActualReturn int64  `json:"actualReturn"`
}

// Publisher forwards settlement events to Kafka
type Publisher struct {
	writer messageWriter
}

// NewPublisher creates a settlement event publisher
func NewPublisher(writer messageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// Subscribe attaches the publisher to the event bus
func (p *Publisher) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBetSettled, p.handleBetSettled)
}

func (p *Publisher) handleBetSettled(ctx context.Context, event events.Event) {
	settled, ok := event.(events.BetSettledEvent)
	if !ok {
		return
	}

	payload, err := json.Marshal(betSettledMessage{
		BetID:        settled.BetID,
		UserID:       settled.UserID,
		MatchID:      settled.MatchID,
		Status:       string(settled.Status),
		Stake:        settled.Stake,
		ActualReturn: settled.ActualReturn,
	})
	if err != nil {
		log.WithField("error", err).Error("Failed to encode bet settled event")
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(settled.BetID),
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		log.WithFields(log.Fields{
			"betID": settled.BetID,
			"error": err,
		}).Error("Failed to publish bet settled event")
	}
}

// Close releases the underlying writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}
