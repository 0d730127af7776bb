package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"offsetsdb/internal/query"
)

// ChartRepo fetches the thin row shapes the binning engine consumes. The
// store only filters; bin assignment and aggregation happen in memory.
type ChartRepo struct {
	DB *sql.DB
}

// ProjectRow carries everything the project-side charts bin on.
type ProjectRow struct {
	ProjectID string
	ListedAt  *time.Time
	Category  []string
	Issued    *float64
	Retired   *float64
}

func (r ChartRepo) ProjectRows(ctx context.Context, clauses []query.Clause) ([]ProjectRow, error) {
	where, args := whereSQL(clauses)
	q := `SELECT project.project_id, project.listed_at, project.category, project.issued, project.retired
		FROM project` + where

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query project chart rows")
	}
	defer rows.Close()

	var out []ProjectRow
	for rows.Next() {
		var row ProjectRow
		var listedAt sql.NullTime
		var category any
		var issued, retired sql.NullFloat64
		if err := rows.Scan(&row.ProjectID, &listedAt, &category, &issued, &retired); err != nil {
			return nil, errors.Wrap(err, "scan project chart row")
		}
		if listedAt.Valid {
			t := listedAt.Time
			row.ListedAt = &t
		}
		row.Category = stringList(category)
		row.Issued = nullFloat(issued)
		row.Retired = nullFloat(retired)
		out = append(out, row)
	}
	return out, rows.Err()
}

// CreditRow is one credit transaction joined with its project's categories.
type CreditRow struct {
	ID              int64
	TransactionDate *time.Time
	Quantity        *float64
	Category        []string
}

func (r ChartRepo) CreditRows(ctx context.Context, clauses []query.Clause) ([]CreditRow, error) {
	where, args := whereSQL(clauses)
	q := `SELECT credit.id, credit.transaction_date, credit.quantity, project.category
		FROM credit JOIN project ON credit.project_id = project.project_id` + where

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query credit chart rows")
	}
	defer rows.Close()

	var out []CreditRow
	for rows.Next() {
		var row CreditRow
		var txDate sql.NullTime
		var quantity sql.NullFloat64
		var category any
		if err := rows.Scan(&row.ID, &txDate, &quantity, &category); err != nil {
			return nil, errors.Wrap(err, "scan credit chart row")
		}
		if txDate.Valid {
			t := txDate.Time
			row.TransactionDate = &t
		}
		row.Quantity = nullFloat(quantity)
		row.Category = stringList(category)
		out = append(out, row)
	}
	return out, rows.Err()
}
