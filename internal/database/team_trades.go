package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/trogers1052/trade-journal/internal/models"
)

// CreateTeamTrade inserts the raw audit record for an ingested
// team-trade event
func (db *DB) CreateTeamTrade(t *models.TeamTrade) error {
	query := `
		INSERT INTO team_trades (
			event_id, source, owner_id, symbol, entry_price, current_price,
			quantity, entry_date, entry_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	now := time.Now()

	err := db.conn.QueryRow(query,
		t.EventID, t.Source, t.OwnerID, t.Symbol, t.EntryPrice, t.CurrentPrice,
		t.Quantity, t.EntryDate, t.EntryID, now,
	).Scan(&t.ID)

	if err != nil {
		return fmt.Errorf("failed to create team trade: %w", err)
	}
	t.CreatedAt = now
	return nil
}

// TeamTradeExists checks whether an event was already ingested, keyed by
// (event_id, source), so redelivered Kafka messages are idempotent
func (db *DB) TeamTradeExists(eventID, source string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM team_trades WHERE event_id = $1 AND source = $2)`
	var exists bool
	err := db.conn.QueryRow(query, eventID, source).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check team trade existence: %w", err)
	}
	return exists, nil
}

// UpdateTeamTradeEntryID links an ingested team trade to the journal
// entry it produced
func (db *DB) UpdateTeamTradeEntryID(teamTradeID, entryID int) error {
	result, err := db.conn.Exec(`UPDATE team_trades SET entry_id = $2 WHERE id = $1`, teamTradeID, entryID)
	if err != nil {
		return fmt.Errorf("failed to link team trade: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("team trade not found: %d", teamTradeID)
	}
	return nil
}

// GetTeamTradesByOwner retrieves the owner's ingested team trades,
// newest first
func (db *DB) GetTeamTradesByOwner(ownerID string, limit int) ([]*models.TeamTrade, error) {
	query := `
		SELECT id, event_id, source, owner_id, symbol, entry_price, current_price,
		       quantity, entry_date, entry_id, created_at
		FROM team_trades
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := db.conn.Query(query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query team trades: %w", err)
	}
	defer rows.Close()

	var trades []*models.TeamTrade
	for rows.Next() {
		var t models.TeamTrade
		var entryID sql.NullInt64

		err := rows.Scan(
			&t.ID, &t.EventID, &t.Source, &t.OwnerID, &t.Symbol, &t.EntryPrice, &t.CurrentPrice,
			&t.Quantity, &t.EntryDate, &entryID, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team trade: %w", err)
		}

		if entryID.Valid {
			id := int(entryID.Int64)
			t.EntryID = &id
		}
		trades = append(trades, &t)
	}

	return trades, nil
}
