package feed

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"github.com/jaffarkeikei/vector-markets/metrics"
	"github.com/jaffarkeikei/vector-markets/service"
)

// MatchResult is the wire format of a results feed message
type MatchResult struct {
	MatchID   string `json:"matchId"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
}

// Settler is the settlement entry point the consumer drives
type Settler interface {
	SettleMatch(ctx context.Context, matchID string, homeScore, awayScore int) error
}

// messageReader is the subset of kafka.Reader the consumer uses
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer drives settlement from the external results feed. Messages are
// committed on success or on a terminal anomaly (malformed payload,
// unknown match); transient failures leave the offset uncommitted so the
// message is redelivered after a restart. Settlement is idempotent, so
// redelivery is safe.
type Consumer struct {
	reader  messageReader
	settler Settler
}

// NewConsumer creates a results feed consumer
func NewConsumer(reader messageReader, settler Settler) *Consumer {
	return &Consumer{reader: reader, settler: settler}
}

// Run consumes until the context is cancelled
func (c *Consumer) Run(ctx context.Context) error {
	log.Info("Results feed consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if c.handle(ctx, msg.Value) {
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				log.WithField("error", err).Error("Failed to commit feed offset")
			}
		}
	}
}

// handle processes one message and reports whether its offset should be
// committed
func (c *Consumer) handle(ctx context.Context, value []byte) bool {
	var result MatchResult
	if err := json.Unmarshal(value, &result); err != nil {
		log.WithFields(log.Fields{
			"payload": string(value),
			"error":   err,
		}).Error("Malformed results feed message")
		metrics.ResultsConsumed.WithLabelValues("malformed").Inc()
		return true
	}

	err := c.settler.SettleMatch(ctx, result.MatchID, result.HomeScore, result.AwayScore)
	if err == nil {
		metrics.ResultsConsumed.WithLabelValues("settled").Inc()
		return true
	}

	if errors.Is(err, service.ErrMatchNotFound) {
		log.WithField("matchID", result.MatchID).Error("Results feed referenced unknown match")
		metrics.ResultsConsumed.WithLabelValues("unknown_match").Inc()
		return true
	}

	log.WithFields(log.Fields{
		"matchID": result.MatchID,
		"error":   err,
	}).Error("Failed to settle match from results feed")
	metrics.ResultsConsumed.WithLabelValues("error").Inc()
	return false
}

// Close releases the underlying reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
