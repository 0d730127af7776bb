package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"offsetsdb/internal/models"
	"offsetsdb/internal/query"
)

type ClipRepo struct {
	DB *sql.DB
}

// List returns one page of clips. Filters may reference the clip/project
// association, so the page is selected DISTINCT over the join.
func (r ClipRepo) List(ctx context.Context, clauses []query.Clause, order []query.OrderKey, limit, offset int) ([]models.Clip, error) {
	where, args := whereSQL(clauses)
	q := `SELECT DISTINCT clip.id, clip.date, clip.title, clip.url, clip.source, clip.tags,
		clip.notes, clip.is_waybacked, clip.type
		FROM clip
		LEFT JOIN clipproject ON clip.id = clipproject.clip_id
		LEFT JOIN project ON clipproject.project_id = project.project_id` +
		where + orderSQL(order) + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query clips")
	}
	defer rows.Close()

	var out []models.Clip
	for rows.Next() {
		var c models.Clip
		var date sql.NullTime
		var title, url, source, notes sql.NullString
		var tags any
		var waybacked sql.NullBool
		if err := rows.Scan(&c.ID, &date, &title, &url, &source, &tags, &notes, &waybacked, &c.Type); err != nil {
			return nil, errors.Wrap(err, "scan clip")
		}
		c.Date = nullDate(date)
		c.Title = nullString(title)
		c.URL = nullString(url)
		c.Source = nullString(source)
		c.Tags = stringList(tags)
		c.Notes = nullString(notes)
		c.IsWaybacked = nullBool(waybacked)
		c.ProjectIDs = []string{}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r ClipRepo) CountDistinct(ctx context.Context, clauses []query.Clause) (int, error) {
	where, args := whereSQL(clauses)
	q := `SELECT count(DISTINCT clip.id)
		FROM clip
		LEFT JOIN clipproject ON clip.id = clipproject.clip_id
		LEFT JOIN project ON clipproject.project_id = project.project_id` + where

	var total int
	if err := r.DB.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "count clips")
	}
	return total, nil
}

// ProjectIDsFor returns associated project ids per clip id.
func (r ClipRepo) ProjectIDsFor(ctx context.Context, clipIDs []int64) (map[int64][]string, error) {
	out := map[int64][]string{}
	if len(clipIDs) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(clipIDs)), ",")
	q := "SELECT clip_id, project_id FROM clipproject WHERE clip_id IN (" + placeholders + ") ORDER BY clip_id, project_id"
	args := make([]any, len(clipIDs))
	for i, id := range clipIDs {
		args[i] = id
	}

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query clip projects")
	}
	defer rows.Close()

	for rows.Next() {
		var clipID int64
		var projectID string
		if err := rows.Scan(&clipID, &projectID); err != nil {
			return nil, errors.Wrap(err, "scan clip project")
		}
		out[clipID] = append(out[clipID], projectID)
	}
	return out, rows.Err()
}
