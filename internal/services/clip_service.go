package services

import (
	"context"
	"strings"

	"offsetsdb/internal/models"
	"offsetsdb/internal/query"
	"offsetsdb/internal/repositories"
)

type ClipService struct {
	Repo repositories.ClipRepo
}

// List returns one page of clips with their associated project ids resolved
// in a second query keyed on the page's clip ids.
func (s ClipService) List(ctx context.Context, q ListQuery) ([]models.Clip, int, error) {
	if err := q.Page.Validate(); err != nil {
		return nil, 0, err
	}
	clauses, err := query.BuildFilters(q.Filters)
	if err != nil {
		return nil, 0, err
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		// Clip search spans the associated project id and the clip title.
		clauses = append(clauses, query.Clause{
			Expr: "(clipproject.project_id ILIKE ? OR clip.title ILIKE ?)",
			Args: []any{"%" + term + "%", "%" + term + "%"},
		})
	}
	order, err := query.PlanSort(q.Sort, models.Clips)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.Repo.CountDistinct(ctx, clauses)
	if err != nil {
		return nil, 0, err
	}
	clips, err := s.Repo.List(ctx, clauses, order, q.Page.PerPage, q.Page.Offset())
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(clips))
	for _, c := range clips {
		ids = append(ids, c.ID)
	}
	projects, err := s.Repo.ProjectIDsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range clips {
		if p, ok := projects[clips[i].ID]; ok {
			clips[i].ProjectIDs = p
		}
	}
	return clips, total, nil
}
