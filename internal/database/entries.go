package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/trade-journal/internal/journal"
	"github.com/trogers1052/trade-journal/internal/models"
)

const entryColumns = `id, owner_id, symbol, entry_price, entry_date, current_price,
	       quantity, status, exit_price, exit_date, pnl, pnl_pct,
	       report_month, report_month_name, report_year, remarks, is_team_trade,
	       created_at, updated_at`

// CreateEntry inserts a new journal entry for the owner. Derived fields
// are recomputed here so no write path can persist stale values.
func (db *DB) CreateEntry(ownerID string, e *models.Entry) error {
	journal.ComputeDerived(e)

	query := `
		INSERT INTO entries (
			owner_id, symbol, entry_price, entry_date, current_price,
			quantity, status, exit_price, exit_date, pnl, pnl_pct,
			report_month, report_month_name, report_year, remarks, is_team_trade,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
		RETURNING id
	`
	now := time.Now()

	err := db.conn.QueryRow(query,
		ownerID, e.Symbol, e.EntryPrice, e.EntryDate, e.CurrentPrice,
		e.Quantity, e.Status, e.ExitPrice, e.ExitDate, e.Pnl, e.PnlPct,
		e.ReportMonth, e.ReportMonthName, e.ReportYear, e.Remarks, e.IsTeamTrade,
		now, now,
	).Scan(&e.ID)

	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	e.OwnerID = ownerID
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

// GetEntryByID retrieves one entry scoped to the owner
func (db *DB) GetEntryByID(ownerID string, id int) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1 AND owner_id = $2`
	return db.scanSingleEntry(db.conn.QueryRow(query, id, ownerID))
}

// EntryFilter narrows ListEntries results. Zero values mean "no filter".
type EntryFilter struct {
	Status string
	Symbol string
	Year   int
	Month  int
	Limit  int
	Offset int
}

// ListEntries retrieves the owner's entries, newest entry date first
func (db *DB) ListEntries(ownerID string, filter EntryFilter) ([]*models.Entry, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + entryColumns + ` FROM entries WHERE owner_id = $1`)
	args := []interface{}{ownerID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		sb.WriteString(" AND status = $" + strconv.Itoa(len(args)))
	}
	if filter.Symbol != "" {
		args = append(args, strings.ToUpper(filter.Symbol))
		sb.WriteString(" AND symbol = $" + strconv.Itoa(len(args)))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		sb.WriteString(" AND report_year = $" + strconv.Itoa(len(args)))
	}
	if filter.Month != 0 {
		args = append(args, filter.Month)
		sb.WriteString(" AND report_month = $" + strconv.Itoa(len(args)))
	}

	sb.WriteString(" ORDER BY entry_date DESC, id DESC")

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}

	return db.scanEntries(db.conn.Query(sb.String(), args...))
}

// UpdateEntry updates an existing entry scoped to the owner. Derived
// fields are recomputed from the submitted source fields.
func (db *DB) UpdateEntry(ownerID string, e *models.Entry) error {
	journal.ComputeDerived(e)

	query := `
		UPDATE entries SET
			symbol = $3, entry_price = $4, entry_date = $5, current_price = $6,
			quantity = $7, status = $8, exit_price = $9, exit_date = $10,
			pnl = $11, pnl_pct = $12, report_month = $13, report_month_name = $14,
			report_year = $15, remarks = $16, is_team_trade = $17, updated_at = $18
		WHERE id = $1 AND owner_id = $2
	`
	now := time.Now()
	result, err := db.conn.Exec(query,
		e.ID, ownerID, e.Symbol, e.EntryPrice, e.EntryDate, e.CurrentPrice,
		e.Quantity, e.Status, e.ExitPrice, e.ExitDate,
		e.Pnl, e.PnlPct, e.ReportMonth, e.ReportMonthName,
		e.ReportYear, e.Remarks, e.IsTeamTrade, now,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}
	e.UpdatedAt = now
	return nil
}

// DeleteEntry removes an entry scoped to the owner
func (db *DB) DeleteEntry(ownerID string, id int) error {
	result, err := db.conn.Exec(`DELETE FROM entries WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (db *DB) scanSingleEntry(row *sql.Row) (*models.Entry, error) {
	var e models.Entry
	var exitPrice sql.NullString
	var exitDate sql.NullTime
	var remarks sql.NullString

	err := row.Scan(
		&e.ID, &e.OwnerID, &e.Symbol, &e.EntryPrice, &e.EntryDate, &e.CurrentPrice,
		&e.Quantity, &e.Status, &exitPrice, &exitDate, &e.Pnl, &e.PnlPct,
		&e.ReportMonth, &e.ReportMonthName, &e.ReportYear, &remarks, &e.IsTeamTrade,
		&e.CreatedAt, &e.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	applyEntryNulls(&e, exitPrice, exitDate, remarks)
	return &e, nil
}

func (db *DB) scanEntries(rows *sql.Rows, err error) ([]*models.Entry, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		var e models.Entry
		var exitPrice sql.NullString
		var exitDate sql.NullTime
		var remarks sql.NullString

		err := rows.Scan(
			&e.ID, &e.OwnerID, &e.Symbol, &e.EntryPrice, &e.EntryDate, &e.CurrentPrice,
			&e.Quantity, &e.Status, &exitPrice, &exitDate, &e.Pnl, &e.PnlPct,
			&e.ReportMonth, &e.ReportMonthName, &e.ReportYear, &remarks, &e.IsTeamTrade,
			&e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}

		applyEntryNulls(&e, exitPrice, exitDate, remarks)
		entries = append(entries, &e)
	}

	return entries, nil
}

func applyEntryNulls(e *models.Entry, exitPrice sql.NullString, exitDate sql.NullTime, remarks sql.NullString) {
	if exitPrice.Valid {
		p, _ := decimal.NewFromString(exitPrice.String)
		e.ExitPrice = &p
	}
	if exitDate.Valid {
		e.ExitDate = &exitDate.Time
	}
	if remarks.Valid {
		e.Remarks = remarks.String
	}
}

// EntryStats is the aggregated summary of one owner's journal
type EntryStats struct {
	TotalEntries  int             `json:"total_entries"`
	OpenEntries   int             `json:"open_entries"`
	ClosedEntries int             `json:"closed_entries"`
	TotalPnl      decimal.Decimal `json:"total_pnl"`
	AvgPnlPct     decimal.Decimal `json:"avg_pnl_pct"`
	TeamTrades    int             `json:"team_trades"`
}

// GetEntryStats returns aggregated statistics over the owner's entries.
// An owner with no entries gets a zero-filled record, never an error.
func (db *DB) GetEntryStats(ownerID string) (*EntryStats, error) {
	query := `
		SELECT
			COUNT(*) as total_entries,
			COUNT(*) FILTER (WHERE status = 'open') as open_entries,
			COUNT(*) FILTER (WHERE status = 'closed') as closed_entries,
			COALESCE(SUM(pnl), 0) as total_pnl,
			COALESCE(AVG(pnl_pct), 0) as avg_pnl_pct,
			COUNT(*) FILTER (WHERE is_team_trade) as team_trades
		FROM entries
		WHERE owner_id = $1
	`
	var stats EntryStats
	err := db.conn.QueryRow(query, ownerID).Scan(
		&stats.TotalEntries, &stats.OpenEntries, &stats.ClosedEntries,
		&stats.TotalPnl, &stats.AvgPnlPct, &stats.TeamTrades,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry stats: %w", err)
	}

	return &stats, nil
}

// MonthlyPerformance is one month's bucket of an owner's results.
// Month is the numeric grouping and ordering key; MonthName is display
// only, so buckets always come back in chronological order.
type MonthlyPerformance struct {
	Month     int             `json:"month"`
	MonthName string          `json:"month_name"`
	TotalPnl  decimal.Decimal `json:"total_pnl"`
	Entries   int             `json:"entries"`
	AvgPnlPct decimal.Decimal `json:"avg_pnl_pct"`
}

// GetMonthlyPerformance returns per-month aggregates for the owner's
// entries in the given report year, ordered by month ascending.
func (db *DB) GetMonthlyPerformance(ownerID string, year int) ([]*MonthlyPerformance, error) {
	query := `
		SELECT
			report_month,
			MIN(report_month_name) as month_name,
			COALESCE(SUM(pnl), 0) as total_pnl,
			COUNT(*) as entries,
			COALESCE(AVG(pnl_pct), 0) as avg_pnl_pct
		FROM entries
		WHERE owner_id = $1 AND report_year = $2
		GROUP BY report_month
		ORDER BY report_month ASC
	`
	rows, err := db.conn.Query(query, ownerID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly performance: %w", err)
	}
	defer rows.Close()

	var months []*MonthlyPerformance
	for rows.Next() {
		var m MonthlyPerformance
		if err := rows.Scan(&m.Month, &m.MonthName, &m.TotalPnl, &m.Entries, &m.AvgPnlPct); err != nil {
			return nil, fmt.Errorf("failed to scan monthly performance: %w", err)
		}
		months = append(months, &m)
	}

	return months, nil
}
