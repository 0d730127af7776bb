package ingest

import (
	"context"
	"database/sql"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"offsetsdb/internal/cache"
	"offsetsdb/internal/models"
	"offsetsdb/internal/repositories"
	"offsetsdb/internal/utils"
)

// registryPrefixes maps the leading letters of a project id to the registry
// that issued it. Used when credits reference projects the project feed
// does not carry yet.
var registryPrefixes = map[string]string{
	"VCS":  "verra",
	"ACR":  "american-carbon-registry",
	"CAR":  "climate-action-reserve",
	"GLD":  "gold-standard",
	"GS":   "gold-standard",
	"ART":  "art-trees",
	"NONE": "none",
}

// Ingestor loads submitted parquet files into the database. Each load is a
// full replace of the target table inside one transaction.
type Ingestor struct {
	DB    *sql.DB
	Files repositories.FileRepo
	Cache cache.Store
}

// Process runs a single pending file to completion and records the outcome
// on the file row. A load failure is reported on the row, not returned; the
// caller only sees errors writing the status itself.
func (ing Ingestor) Process(ctx context.Context, file models.File) error {
	err := ing.load(ctx, file)
	status := models.FileStatusSuccess
	if err != nil {
		status = models.FileStatusFailure
		utils.LogEvent("", "ingest", "load_failed", file.URL+": "+err.Error())
	}
	if uerr := ing.Files.UpdateStatus(ctx, file.ID, status, err); uerr != nil {
		return uerr
	}
	if err == nil && ing.Cache != nil {
		if cerr := ing.Cache.Clear(ctx); cerr != nil {
			utils.LogEvent("", "ingest", "cache_clear_failed", cerr.Error())
		}
	}
	return nil
}

func (ing Ingestor) load(ctx context.Context, file models.File) error {
	switch file.Category {
	case models.FileCategoryProjects:
		return ing.replaceTable(ctx, "project", projectLoadSQL, file.URL, ing.backfillOrphanProjects)
	case models.FileCategoryCredits:
		return ing.replaceTable(ctx, "credit", creditLoadSQL, file.URL, ing.backfillOrphanProjects)
	case models.FileCategoryClips:
		return ing.loadClips(ctx, file.URL)
	default:
		return errors.Errorf("unknown file category %q", file.Category)
	}
}

const projectLoadSQL = `INSERT INTO project
	(project_id, name, registry, proponent, protocol, category, status, country,
	 listed_at, is_compliance, retired, issued, project_url)
	SELECT project_id, name, registry, proponent, protocol, category, status, country,
	 listed_at, is_compliance, retired, issued, project_url
	FROM read_parquet(?)`

const creditLoadSQL = `INSERT INTO credit
	(id, project_id, quantity, vintage, transaction_date, transaction_type)
	SELECT row_number() OVER () + (SELECT coalesce(max(id), 0) FROM credit),
	 project_id, quantity, vintage, transaction_date, transaction_type
	FROM read_parquet(?)`

func (ing Ingestor) replaceTable(ctx context.Context, table, loadSQL, url string, after func(context.Context, *sql.Tx) error) error {
	tx, err := ing.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin load")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return errors.Wrapf(err, "truncate %s", table)
	}
	if _, err := tx.ExecContext(ctx, loadSQL, url); err != nil {
		return errors.Wrapf(err, "load %s", table)
	}
	if after != nil {
		if err := after(ctx, tx); err != nil {
			return err
		}
	}
	return errors.Wrap(tx.Commit(), "commit load")
}

func (ing Ingestor) loadClips(ctx context.Context, url string) error {
	tx, err := ing.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin load")
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM clipproject", "DELETE FROM clip"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "truncate clips")
		}
	}
	const clipSQL = `INSERT INTO clip (id, date, title, url, source, tags, notes, is_waybacked, type)
		SELECT id, date, title, url, source, tags, notes, is_waybacked, type
		FROM read_parquet(?)`
	if _, err := tx.ExecContext(ctx, clipSQL, url); err != nil {
		return errors.Wrap(err, "load clip")
	}
	const linkSQL = `INSERT INTO clipproject (clip_id, project_id)
		SELECT id, unnest(project_ids) FROM read_parquet(?)
		WHERE project_ids IS NOT NULL`
	if _, err := tx.ExecContext(ctx, linkSQL, url); err != nil {
		return errors.Wrap(err, "load clip projects")
	}
	return errors.Wrap(tx.Commit(), "commit load")
}

// backfillOrphanProjects inserts a bare project row for every project id
// that credits reference but the project table lacks, so joins and per
// project charts still see those credits.
func (ing Ingestor) backfillOrphanProjects(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, `SELECT DISTINCT credit.project_id FROM credit
		WHERE credit.project_id IS NOT NULL
		AND credit.project_id NOT IN (SELECT project_id FROM project)`)
	if err != nil {
		return errors.Wrap(err, "query orphan credits")
	}
	defer rows.Close()

	var orphans []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return errors.Wrap(err, "scan orphan credit")
		}
		orphans = append(orphans, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range orphans {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO project (project_id, registry, category) VALUES (?, ?, ['unknown'])",
			id, RegistryForProjectID(id))
		if err != nil {
			return errors.Wrapf(err, "backfill project %s", id)
		}
	}
	return nil
}

// RegistryForProjectID resolves the issuing registry from a project id's
// letter prefix, "unknown" when the prefix is not recognized.
func RegistryForProjectID(projectID string) string {
	prefix := strings.ToUpper(strings.TrimRightFunc(projectID, unicode.IsDigit))
	if registry, ok := registryPrefixes[prefix]; ok {
		return registry
	}
	return "unknown"
}
