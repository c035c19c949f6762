package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/trade-journal/internal/models"
)

// MockStore implements TeamTradeStore for testing
type MockStore struct {
	teamTrades map[string]*models.TeamTrade // key: eventID+source
	entries    []*models.Entry
	nextID     int

	CreateEntryCalls int
}

func NewMockStore() *MockStore {
	return &MockStore{
		teamTrades: make(map[string]*models.TeamTrade),
		nextID:     1,
	}
}

func (m *MockStore) TeamTradeExists(eventID, source string) (bool, error) {
	_, exists := m.teamTrades[eventID+":"+source]
	return exists, nil
}

func (m *MockStore) CreateTeamTrade(t *models.TeamTrade) error {
	t.ID = m.nextID
	m.nextID++
	m.teamTrades[t.EventID+":"+t.Source] = t
	return nil
}

func (m *MockStore) CreateEntry(ownerID string, e *models.Entry) error {
	m.CreateEntryCalls++
	e.ID = m.nextID
	m.nextID++
	e.OwnerID = ownerID
	m.entries = append(m.entries, e)
	return nil
}

func (m *MockStore) UpdateTeamTradeEntryID(teamTradeID, entryID int) error {
	for _, tt := range m.teamTrades {
		if tt.ID == teamTradeID {
			tt.EntryID = &entryID
			break
		}
	}
	return nil
}

func newTestConsumer(store TeamTradeStore) *Consumer {
	return &Consumer{store: store, log: zerolog.Nop()}
}

func teamTradeMessage(t *testing.T, event models.TeamTradeEvent) kafka.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Key: []byte(event.Data.OwnerID), Value: data}
}

func sharedTradeEvent(eventID, ownerID, symbol string) models.TeamTradeEvent {
	entryDate := time.Now().Add(-24 * time.Hour).Format(time.RFC3339)
	return models.TeamTradeEvent{
		EventType: "TEAM_TRADE_SHARED",
		EventID:   eventID,
		Source:    "alpha-room",
		Data: models.TeamTradeEventData{
			OwnerID:      ownerID,
			Symbol:       symbol,
			EntryPrice:   "150.00",
			CurrentPrice: "155.50",
			Quantity:     "10",
			EntryDate:    &entryDate,
		},
		Timestamp: time.Now(),
	}
}

func TestConsumerProcessMessage(t *testing.T) {
	t.Run("shared trade creates team trade and entry", func(t *testing.T) {
		store := NewMockStore()
		c := newTestConsumer(store)

		err := c.processMessage(teamTradeMessage(t, sharedTradeEvent("evt-1", "user-1", "aapl")))
		require.NoError(t, err)

		require.Equal(t, 1, store.CreateEntryCalls)
		entry := store.entries[0]
		assert.Equal(t, "user-1", entry.OwnerID)
		assert.Equal(t, "AAPL", entry.Symbol, "symbol is normalized")
		assert.Equal(t, models.StatusOpen, entry.Status)
		assert.True(t, entry.IsTeamTrade)
		assert.Equal(t, 10, entry.Quantity)
		assert.True(t, decimal.NewFromFloat(150).Equal(entry.EntryPrice))

		tt := store.teamTrades["evt-1:alpha-room"]
		require.NotNil(t, tt)
		require.NotNil(t, tt.EntryID, "team trade is linked to its entry")
		assert.Equal(t, entry.ID, *tt.EntryID)
	})

	t.Run("duplicate event is skipped", func(t *testing.T) {
		store := NewMockStore()
		c := newTestConsumer(store)

		msg := teamTradeMessage(t, sharedTradeEvent("evt-2", "user-1", "MSFT"))
		require.NoError(t, c.processMessage(msg))
		require.NoError(t, c.processMessage(msg))

		assert.Equal(t, 1, store.CreateEntryCalls)
	})

	t.Run("other event types are ignored", func(t *testing.T) {
		store := NewMockStore()
		c := newTestConsumer(store)

		event := sharedTradeEvent("evt-3", "user-1", "NVDA")
		event.EventType = "TEAM_CHAT"
		require.NoError(t, c.processMessage(teamTradeMessage(t, event)))

		assert.Equal(t, 0, store.CreateEntryCalls)
	})

	t.Run("missing owner is rejected", func(t *testing.T) {
		store := NewMockStore()
		c := newTestConsumer(store)

		event := sharedTradeEvent("evt-4", "", "NVDA")
		err := c.processMessage(teamTradeMessage(t, event))
		require.Error(t, err)
		assert.Equal(t, 0, store.CreateEntryCalls)
	})

	t.Run("invalid price is rejected", func(t *testing.T) {
		store := NewMockStore()
		c := newTestConsumer(store)

		event := sharedTradeEvent("evt-5", "user-1", "NVDA")
		event.Data.EntryPrice = "not-a-price"
		err := c.processMessage(teamTradeMessage(t, event))
		require.Error(t, err)
		assert.Equal(t, 0, store.CreateEntryCalls)
	})

	t.Run("invalid quantity is rejected", func(t *testing.T) {
		store := NewMockStore()
		c := newTestConsumer(store)

		event := sharedTradeEvent("evt-6", "user-1", "NVDA")
		event.Data.Quantity = "-3"
		err := c.processMessage(teamTradeMessage(t, event))
		require.Error(t, err)
		assert.Equal(t, 0, store.CreateEntryCalls)
	})

	t.Run("malformed json is rejected without creating anything", func(t *testing.T) {
		store := NewMockStore()
		c := newTestConsumer(store)

		err := c.processMessage(kafka.Message{Value: []byte("{not json")})
		require.Error(t, err)
		assert.Equal(t, 0, store.CreateEntryCalls)
	})

	t.Run("missing current price falls back to entry price", func(t *testing.T) {
		store := NewMockStore()
		c := newTestConsumer(store)

		event := sharedTradeEvent("evt-7", "user-1", "AMD")
		event.Data.CurrentPrice = ""
		require.NoError(t, c.processMessage(teamTradeMessage(t, event)))

		entry := store.entries[0]
		assert.True(t, entry.EntryPrice.Equal(entry.CurrentPrice))
	})
}
