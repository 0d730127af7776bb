package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"offsetsdb/internal/models"
	"offsetsdb/internal/query"
)

const projectColumns = `project.project_id, project.name, project.registry, project.proponent,
	project.protocol, project.category, project.status, project.country, project.listed_at,
	project.is_compliance, project.retired, project.issued, project.project_url`

type ProjectRepo struct {
	DB *sql.DB
}

// List returns one page of projects matching the clauses.
func (r ProjectRepo) List(ctx context.Context, clauses []query.Clause, order []query.OrderKey, limit, offset int) ([]models.Project, error) {
	where, args := whereSQL(clauses)
	q := "SELECT " + projectColumns + " FROM project" + where + orderSQL(order) + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query projects")
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountDistinct counts matching projects on the primary key; joins upstream
// can multiply rows, distinctness keeps the page math honest.
func (r ProjectRepo) CountDistinct(ctx context.Context, clauses []query.Clause) (int, error) {
	where, args := whereSQL(clauses)
	q := "SELECT count(DISTINCT project.project_id) FROM project" + where

	var total int
	if err := r.DB.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "count projects")
	}
	return total, nil
}

// Get fetches a single project by id, sql.ErrNoRows when absent.
func (r ProjectRepo) Get(ctx context.Context, projectID string) (models.Project, error) {
	q := "SELECT " + projectColumns + " FROM project WHERE project.project_id = ?"
	row := r.DB.QueryRowContext(ctx, q, projectID)
	return scanProject(row)
}

// ClipsFor returns published clips grouped by project id for attachment to
// a page of projects.
func (r ProjectRepo) ClipsFor(ctx context.Context, projectIDs []string) (map[string][]models.Clip, error) {
	out := map[string][]models.Clip{}
	if len(projectIDs) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(projectIDs)), ",")
	q := `SELECT clipproject.project_id, clip.id, clip.date, clip.title, clip.url, clip.source,
		clip.tags, clip.notes, clip.is_waybacked, clip.type
		FROM clip JOIN clipproject ON clip.id = clipproject.clip_id
		WHERE clipproject.project_id IN (` + placeholders + `)
		ORDER BY clip.date DESC NULLS LAST, clip.id ASC`

	args := make([]any, len(projectIDs))
	for i, id := range projectIDs {
		args[i] = id
	}
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query project clips")
	}
	defer rows.Close()

	for rows.Next() {
		var projectID string
		var c models.Clip
		var date sql.NullTime
		var title, url, source, notes sql.NullString
		var tags any
		var waybacked sql.NullBool
		if err := rows.Scan(&projectID, &c.ID, &date, &title, &url, &source, &tags, &notes, &waybacked, &c.Type); err != nil {
			return nil, errors.Wrap(err, "scan project clip")
		}
		c.Date = nullDate(date)
		c.Title = nullString(title)
		c.URL = nullString(url)
		c.Source = nullString(source)
		c.Tags = stringList(tags)
		c.Notes = nullString(notes)
		c.IsWaybacked = nullBool(waybacked)
		out[projectID] = append(out[projectID], c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (models.Project, error) {
	var p models.Project
	var name, proponent, status, country, projectURL sql.NullString
	var protocol, category any
	var listedAt sql.NullTime
	var isCompliance sql.NullBool
	var retired, issued sql.NullInt64

	err := row.Scan(&p.ProjectID, &name, &p.Registry, &proponent, &protocol, &category,
		&status, &country, &listedAt, &isCompliance, &retired, &issued, &projectURL)
	if err != nil {
		return models.Project{}, err
	}

	p.Name = nullString(name)
	p.Proponent = nullString(proponent)
	p.Protocol = stringList(protocol)
	p.Category = stringList(category)
	p.Status = nullString(status)
	p.Country = nullString(country)
	p.ListedAt = nullDate(listedAt)
	p.IsCompliance = nullBool(isCompliance)
	p.Retired = nullInt(retired)
	p.Issued = nullInt(issued)
	p.ProjectURL = nullString(projectURL)
	p.Clips = []models.Clip{}
	return p, nil
}
