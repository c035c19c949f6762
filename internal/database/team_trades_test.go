package database

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/trade-journal/internal/models"
)

func TestTeamTradesRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("CreateTeamTrade creates audit record", func(t *testing.T) {
		testDB.TruncateAll(t)

		trade := teamTrade("evt-1", "alice")
		err := testDB.CreateTeamTrade(trade)
		require.NoError(t, err)
		assert.NotZero(t, trade.ID)
		assert.False(t, trade.CreatedAt.IsZero())
	})

	t.Run("TeamTradeExists dedupes by event id and source", func(t *testing.T) {
		testDB.TruncateAll(t)

		require.NoError(t, testDB.CreateTeamTrade(teamTrade("evt-1", "alice")))

		exists, err := testDB.TeamTradeExists("evt-1", "alice")
		require.NoError(t, err)
		assert.True(t, exists)

		// same event id from a different source is a different event
		exists, err = testDB.TeamTradeExists("evt-1", "bob")
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = testDB.TeamTradeExists("evt-2", "alice")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate event violates unique constraint", func(t *testing.T) {
		testDB.TruncateAll(t)

		require.NoError(t, testDB.CreateTeamTrade(teamTrade("evt-1", "alice")))
		err := testDB.CreateTeamTrade(teamTrade("evt-1", "alice"))
		assert.Error(t, err)
	})

	t.Run("UpdateTeamTradeEntryID links to journal entry", func(t *testing.T) {
		testDB.TruncateAll(t)

		entry := openEntry("AAPL", 150, 155, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, testDB.CreateEntry("user-a", entry))

		trade := teamTrade("evt-1", "alice")
		require.NoError(t, testDB.CreateTeamTrade(trade))

		require.NoError(t, testDB.UpdateTeamTradeEntryID(trade.ID, entry.ID))

		trades, err := testDB.GetTeamTradesByOwner("user-a", 10)
		require.NoError(t, err)
		require.Len(t, trades, 1)
		require.NotNil(t, trades[0].EntryID)
		assert.Equal(t, entry.ID, *trades[0].EntryID)
	})

	t.Run("UpdateTeamTradeEntryID errors on missing trade", func(t *testing.T) {
		testDB.TruncateAll(t)

		entry := openEntry("AAPL", 150, 155, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, testDB.CreateEntry("user-a", entry))

		err := testDB.UpdateTeamTradeEntryID(99999, entry.ID)
		assert.Error(t, err)
	})

	t.Run("GetTeamTradesByOwner scopes to the owner", func(t *testing.T) {
		testDB.TruncateAll(t)

		require.NoError(t, testDB.CreateTeamTrade(teamTrade("evt-1", "alice")))

		other := teamTrade("evt-2", "alice")
		other.OwnerID = "user-b"
		require.NoError(t, testDB.CreateTeamTrade(other))

		trades, err := testDB.GetTeamTradesByOwner("user-a", 10)
		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, "evt-1", trades[0].EventID)
	})

	t.Run("deleting the entry clears the link", func(t *testing.T) {
		testDB.TruncateAll(t)

		entry := openEntry("AAPL", 150, 155, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, testDB.CreateEntry("user-a", entry))

		trade := teamTrade("evt-1", "alice")
		require.NoError(t, testDB.CreateTeamTrade(trade))
		require.NoError(t, testDB.UpdateTeamTradeEntryID(trade.ID, entry.ID))

		require.NoError(t, testDB.DeleteEntry("user-a", entry.ID))

		trades, err := testDB.GetTeamTradesByOwner("user-a", 10)
		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Nil(t, trades[0].EntryID) // ON DELETE SET NULL keeps the audit row
	})
}

func teamTrade(eventID, source string) *models.TeamTrade {
	return &models.TeamTrade{
		EventID:      eventID,
		Source:       source,
		OwnerID:      "user-a",
		Symbol:       "AAPL",
		EntryPrice:   decimal.NewFromFloat(150.00),
		CurrentPrice: decimal.NewFromFloat(155.00),
		Quantity:     10,
		EntryDate:    time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
}
