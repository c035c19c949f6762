package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/trogers1052/trade-journal/internal/journal"
	"github.com/trogers1052/trade-journal/internal/models"
)

// TeamTradeStore defines the database operations the consumer needs
type TeamTradeStore interface {
	TeamTradeExists(eventID, source string) (bool, error)
	CreateTeamTrade(t *models.TeamTrade) error
	CreateEntry(ownerID string, e *models.Entry) error
	UpdateTeamTradeEntryID(teamTradeID, entryID int) error
}

// Consumer ingests trades shared from collaborative trading rooms. Each
// accepted event is recorded as a raw team trade for dedupe/audit and
// materialized as a journal entry flagged is_team_trade for its owner.
type Consumer struct {
	reader *kafka.Reader
	store  TeamTradeStore
	log    zerolog.Logger
}

// NewConsumer creates a new Kafka consumer for team-trade events
func NewConsumer(brokers []string, topic, groupID string, store TeamTradeStore, log zerolog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader: reader,
		store:  store,
		log:    log.With().Str("component", "team-trade-consumer").Logger(),
	}
}

// Start begins consuming messages until the context is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info().Str("topic", c.reader.Config().Topic).Msg("starting consumer")

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // context cancelled, normal shutdown
				}
				c.log.Error().Err(err).Msg("failed to read message")
				continue
			}

			if err := c.processMessage(msg); err != nil {
				c.log.Error().Err(err).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("failed to process message")
				// keep consuming; a bad message must not wedge the topic
			}
		}
	}
}

func (c *Consumer) processMessage(msg kafka.Message) error {
	var event models.TeamTradeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal team trade event: %w", err)
	}

	if event.EventType != "TEAM_TRADE_SHARED" {
		c.log.Debug().Str("event_type", event.EventType).Msg("ignoring event")
		return nil
	}

	exists, err := c.store.TeamTradeExists(event.EventID, event.Source)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate team trade: %w", err)
	}
	if exists {
		c.log.Debug().
			Str("event_id", event.EventID).
			Str("source", event.Source).
			Msg("team trade already ingested, skipping")
		return nil
	}

	teamTrade, err := c.convertEvent(event)
	if err != nil {
		return fmt.Errorf("failed to convert team trade event: %w", err)
	}

	entry := &models.Entry{
		Symbol:       teamTrade.Symbol,
		EntryPrice:   teamTrade.EntryPrice,
		EntryDate:    teamTrade.EntryDate,
		CurrentPrice: teamTrade.CurrentPrice,
		Quantity:     teamTrade.Quantity,
		Status:       models.StatusOpen,
		Remarks:      event.Data.Remarks,
		IsTeamTrade:  true,
	}
	journal.NormalizeEntry(entry)
	if errs := journal.ValidateEntry(entry); len(errs) > 0 {
		return fmt.Errorf("team trade rejected: %w", errs)
	}
	teamTrade.Symbol = entry.Symbol

	if err := c.store.CreateTeamTrade(teamTrade); err != nil {
		return fmt.Errorf("failed to save team trade: %w", err)
	}

	if err := c.store.CreateEntry(teamTrade.OwnerID, entry); err != nil {
		return fmt.Errorf("failed to create entry from team trade: %w", err)
	}

	if err := c.store.UpdateTeamTradeEntryID(teamTrade.ID, entry.ID); err != nil {
		return fmt.Errorf("failed to link team trade to entry: %w", err)
	}

	c.log.Info().
		Str("owner_id", teamTrade.OwnerID).
		Str("symbol", teamTrade.Symbol).
		Int("entry_id", entry.ID).
		Str("event_id", event.EventID).
		Msg("ingested team trade")

	return nil
}

// convertEvent maps a TeamTradeEvent to a TeamTrade model
func (c *Consumer) convertEvent(event models.TeamTradeEvent) (*models.TeamTrade, error) {
	data := event.Data

	if data.OwnerID == "" {
		return nil, fmt.Errorf("team trade event missing owner_id")
	}

	entryPrice, err := decimal.NewFromString(data.EntryPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid entry price %s: %w", data.EntryPrice, err)
	}

	currentPrice := entryPrice
	if data.CurrentPrice != "" {
		currentPrice, err = decimal.NewFromString(data.CurrentPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid current price %s: %w", data.CurrentPrice, err)
		}
	}

	quantity := 1
	if data.Quantity != "" {
		quantity, err = strconv.Atoi(data.Quantity)
		if err != nil || quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity %s", data.Quantity)
		}
	}

	entryDate := time.Now()
	if data.EntryDate != nil && *data.EntryDate != "" {
		entryDate, err = time.Parse(time.RFC3339, *data.EntryDate)
		if err != nil {
			// some rooms serialize dates without a timezone
			entryDate, err = time.Parse("2006-01-02T15:04:05", *data.EntryDate)
			if err != nil {
				entryDate = time.Now()
			}
		}
	}

	return &models.TeamTrade{
		EventID:      event.EventID,
		Source:       event.Source,
		OwnerID:      data.OwnerID,
		Symbol:       data.Symbol,
		EntryPrice:   entryPrice,
		CurrentPrice: currentPrice,
		Quantity:     quantity,
		EntryDate:    entryDate,
	}, nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
