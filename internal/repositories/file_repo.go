package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"offsetsdb/internal/models"
	"offsetsdb/internal/query"
	"offsetsdb/internal/utils"
)

const fileColumns = "file.id, file.url, file.content_hash, file.status, file.error, file.recorded_at, file.category"

type FileRepo struct {
	DB *sql.DB
}

func (r FileRepo) List(ctx context.Context, clauses []query.Clause, order []query.OrderKey, limit, offset int) ([]models.File, error) {
	where, args := whereSQL(clauses)
	q := "SELECT " + fileColumns + " FROM file" + where + orderSQL(order) + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query files")
	}
	defer rows.Close()

	var out []models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r FileRepo) CountDistinct(ctx context.Context, clauses []query.Clause) (int, error) {
	where, args := whereSQL(clauses)
	q := "SELECT count(DISTINCT file.id) FROM file" + where

	var total int
	if err := r.DB.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "count files")
	}
	return total, nil
}

func (r FileRepo) Get(ctx context.Context, id int64) (models.File, error) {
	q := "SELECT " + fileColumns + " FROM file WHERE file.id = ?"
	return scanFile(r.DB.QueryRowContext(ctx, q, id))
}

// Insert records a submitted file as pending and returns it with its id.
func (r FileRepo) Insert(ctx context.Context, url, category string) (models.File, error) {
	now := utils.NowUTC()
	q := `INSERT INTO file (id, url, status, recorded_at, category)
		VALUES (nextval('file_id_seq'), ?, ?, ?, ?) RETURNING id`

	var id int64
	if err := r.DB.QueryRowContext(ctx, q, url, models.FileStatusPending, now, category).Scan(&id); err != nil {
		return models.File{}, errors.Wrap(err, "insert file")
	}
	return models.File{
		ID:         id,
		URL:        url,
		Status:     models.FileStatusPending,
		RecordedAt: now.Format(time.RFC3339),
		Category:   category,
	}, nil
}

// UpdateStatus flips a file to success/failure once ingestion finishes.
func (r FileRepo) UpdateStatus(ctx context.Context, id int64, status string, ingestErr error) error {
	var errMsg any
	if ingestErr != nil {
		errMsg = ingestErr.Error()
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE file SET status = ?, error = ?, recorded_at = ? WHERE id = ?",
		status, errMsg, utils.NowUTC(), id)
	return errors.Wrap(err, "update file status")
}

// LatestSuccessByCategory reports the newest successful ingestion per data
// category, for the health endpoint.
func (r FileRepo) LatestSuccessByCategory(ctx context.Context) (map[string]string, error) {
	q := `SELECT category, max(recorded_at) FROM file
		WHERE status = ? AND category IN (?, ?, ?)
		GROUP BY category`

	rows, err := r.DB.QueryContext(ctx, q, models.FileStatusSuccess,
		models.FileCategoryProjects, models.FileCategoryCredits, models.FileCategoryClips)
	if err != nil {
		return nil, errors.Wrap(err, "query latest ingestions")
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var category string
		var recordedAt time.Time
		if err := rows.Scan(&category, &recordedAt); err != nil {
			return nil, errors.Wrap(err, "scan latest ingestion")
		}
		out[category] = recordedAt.UTC().Format("Mon, Jan 02 2006 15:04:05 UTC")
	}
	return out, rows.Err()
}

func scanFile(row rowScanner) (models.File, error) {
	var f models.File
	var hash, errMsg sql.NullString
	var recordedAt time.Time
	if err := row.Scan(&f.ID, &f.URL, &hash, &f.Status, &errMsg, &recordedAt, &f.Category); err != nil {
		return models.File{}, err
	}
	f.ContentHash = nullString(hash)
	f.Error = nullString(errMsg)
	f.RecordedAt = recordedAt.UTC().Format(time.RFC3339)
	return f, nil
}
