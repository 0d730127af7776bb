package repositories

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"offsetsdb/internal/models"
	"offsetsdb/internal/query"
)

type CreditRepo struct {
	DB *sql.DB
}

// List returns one page of credits with their project context. The join is
// an outer join: credits without a matching project still list.
func (r CreditRepo) List(ctx context.Context, clauses []query.Clause, order []query.OrderKey, limit, offset int) ([]models.Credit, error) {
	where, args := whereSQL(clauses)
	q := `SELECT credit.id, credit.project_id, credit.quantity, credit.vintage,
		credit.transaction_date, credit.transaction_type, project.category
		FROM credit LEFT JOIN project ON credit.project_id = project.project_id` +
		where + orderSQL(order) + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query credits")
	}
	defer rows.Close()

	var out []models.Credit
	for rows.Next() {
		var c models.Credit
		var projectID, txType sql.NullString
		var vintage sql.NullInt64
		var txDate sql.NullTime
		var category any
		if err := rows.Scan(&c.ID, &projectID, &c.Quantity, &vintage, &txDate, &txType, &category); err != nil {
			return nil, errors.Wrap(err, "scan credit")
		}
		c.ProjectID = nullString(projectID)
		if vintage.Valid {
			v := int(vintage.Int64)
			c.Vintage = &v
		}
		c.TransactionDate = nullDate(txDate)
		c.TransactionType = nullString(txType)
		c.Projects = []models.CreditProject{{ProjectID: c.ProjectID, Category: stringList(category)}}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r CreditRepo) CountDistinct(ctx context.Context, clauses []query.Clause) (int, error) {
	where, args := whereSQL(clauses)
	q := `SELECT count(DISTINCT credit.id)
		FROM credit LEFT JOIN project ON credit.project_id = project.project_id` + where

	var total int
	if err := r.DB.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "count credits")
	}
	return total, nil
}
