package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/journal"
	"github.com/trogers1052/trade-journal/internal/models"
)

const focusStockColumns = `id, owner_id, symbol, target_price, current_price, reason,
	       date_added, trade_taken, trade_date, notes,
	       potential_return, potential_return_pct, created_at, updated_at`

// CreateFocusStock adds a watchlist item for the owner
func (db *DB) CreateFocusStock(ownerID string, f *models.FocusStock) error {
	journal.ComputeFocusDerived(f)

	query := `
		INSERT INTO focus_stocks (
			owner_id, symbol, target_price, current_price, reason,
			date_added, trade_taken, trade_date, notes,
			potential_return, potential_return_pct, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	now := time.Now()

	err := db.conn.QueryRow(query,
		ownerID, f.Symbol, f.TargetPrice, f.CurrentPrice, f.Reason,
		f.DateAdded, f.TradeTaken, f.TradeDate, f.Notes,
		f.PotentialReturn, f.PotentialReturnPct, now, now,
	).Scan(&f.ID)

	if err != nil {
		return fmt.Errorf("failed to create focus stock: %w", err)
	}
	f.OwnerID = ownerID
	f.CreatedAt = now
	f.UpdatedAt = now
	return nil
}

// GetFocusStockByID retrieves one watchlist item scoped to the owner
func (db *DB) GetFocusStockByID(ownerID string, id int) (*models.FocusStock, error) {
	query := `SELECT ` + focusStockColumns + ` FROM focus_stocks WHERE id = $1 AND owner_id = $2`
	return db.scanSingleFocusStock(db.conn.QueryRow(query, id, ownerID))
}

// ListFocusStocks retrieves the owner's watchlist, newest first
func (db *DB) ListFocusStocks(ownerID string) ([]*models.FocusStock, error) {
	query := `SELECT ` + focusStockColumns + ` FROM focus_stocks WHERE owner_id = $1 ORDER BY date_added DESC, id DESC`
	return db.scanFocusStocks(db.conn.Query(query, ownerID))
}

// UpdateFocusStock updates a watchlist item scoped to the owner
func (db *DB) UpdateFocusStock(ownerID string, f *models.FocusStock) error {
	journal.ComputeFocusDerived(f)

	query := `
		UPDATE focus_stocks SET
			symbol = $3, target_price = $4, current_price = $5, reason = $6,
			date_added = $7, trade_taken = $8, trade_date = $9, notes = $10,
			potential_return = $11, potential_return_pct = $12, updated_at = $13
		WHERE id = $1 AND owner_id = $2
	`
	now := time.Now()
	result, err := db.conn.Exec(query,
		f.ID, ownerID, f.Symbol, f.TargetPrice, f.CurrentPrice, f.Reason,
		f.DateAdded, f.TradeTaken, f.TradeDate, f.Notes,
		f.PotentialReturn, f.PotentialReturnPct, now,
	)
	if err != nil {
		return fmt.Errorf("failed to update focus stock: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrFocusStockNotFound
	}
	f.UpdatedAt = now
	return nil
}

// DeleteFocusStock removes a watchlist item scoped to the owner
func (db *DB) DeleteFocusStock(ownerID string, id int) error {
	result, err := db.conn.Exec(`DELETE FROM focus_stocks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete focus stock: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrFocusStockNotFound
	}
	return nil
}

func (db *DB) scanSingleFocusStock(row *sql.Row) (*models.FocusStock, error) {
	var f models.FocusStock
	var tradeDate sql.NullTime
	var notes sql.NullString

	err := row.Scan(
		&f.ID, &f.OwnerID, &f.Symbol, &f.TargetPrice, &f.CurrentPrice, &f.Reason,
		&f.DateAdded, &f.TradeTaken, &tradeDate, &notes,
		&f.PotentialReturn, &f.PotentialReturnPct, &f.CreatedAt, &f.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrFocusStockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get focus stock: %w", err)
	}

	if tradeDate.Valid {
		f.TradeDate = &tradeDate.Time
	}
	if notes.Valid {
		f.Notes = notes.String
	}
	return &f, nil
}

func (db *DB) scanFocusStocks(rows *sql.Rows, err error) ([]*models.FocusStock, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query focus stocks: %w", err)
	}
	defer rows.Close()

	var stocks []*models.FocusStock
	for rows.Next() {
		var f models.FocusStock
		var tradeDate sql.NullTime
		var notes sql.NullString

		err := rows.Scan(
			&f.ID, &f.OwnerID, &f.Symbol, &f.TargetPrice, &f.CurrentPrice, &f.Reason,
			&f.DateAdded, &f.TradeTaken, &tradeDate, &notes,
			&f.PotentialReturn, &f.PotentialReturnPct, &f.CreatedAt, &f.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan focus stock: %w", err)
		}

		if tradeDate.Valid {
			f.TradeDate = &tradeDate.Time
		}
		if notes.Valid {
			f.Notes = notes.String
		}
		stocks = append(stocks, &f)
	}

	return stocks, nil
}

// FocusStockStats is the aggregated summary of one owner's watchlist
type FocusStockStats struct {
	TotalStocks        int             `json:"total_stocks"`
	PendingStocks      int             `json:"pending_stocks"`
	TakenStocks        int             `json:"taken_stocks"`
	AvgPotentialReturn decimal.Decimal `json:"avg_potential_return_pct"`
	ConversionRate     decimal.Decimal `json:"conversion_rate"`
}

// GetFocusStockStats returns aggregated watchlist statistics for the
// owner. The average potential return covers pending items only; taken
// items already converted into trades and no longer represent potential.
func (db *DB) GetFocusStockStats(ownerID string) (*FocusStockStats, error) {
	query := `
		SELECT
			COUNT(*) as total_stocks,
			COUNT(*) FILTER (WHERE NOT trade_taken) as pending_stocks,
			COUNT(*) FILTER (WHERE trade_taken) as taken_stocks,
			COALESCE(AVG(potential_return_pct) FILTER (WHERE NOT trade_taken), 0) as avg_potential_return_pct
		FROM focus_stocks
		WHERE owner_id = $1
	`
	var stats FocusStockStats
	err := db.conn.QueryRow(query, ownerID).Scan(
		&stats.TotalStocks, &stats.PendingStocks, &stats.TakenStocks,
		&stats.AvgPotentialReturn,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get focus stock stats: %w", err)
	}

	stats.ConversionRate = decimal.Zero
	if stats.TotalStocks > 0 {
		stats.ConversionRate = decimal.NewFromInt(int64(stats.TakenStocks)).
			Div(decimal.NewFromInt(int64(stats.TotalStocks))).
			Mul(decimal.NewFromInt(100))
	}

	return &stats, nil
}
