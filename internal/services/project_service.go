package services

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"offsetsdb/internal/domain"
	"offsetsdb/internal/models"
	"offsetsdb/internal/query"
	"offsetsdb/internal/repositories"
)

type ProjectService struct {
	Repo    repositories.ProjectRepo
	Aliases query.AliasExpander
}

// List returns one page of projects with their clips attached, plus the
// total match count for the pagination envelope.
func (s ProjectService) List(ctx context.Context, q ListQuery) ([]models.Project, int, error) {
	if err := q.Page.Validate(); err != nil {
		return nil, 0, err
	}
	clauses, err := buildClauses(q, models.Projects, s.Aliases)
	if err != nil {
		return nil, 0, err
	}
	order, err := query.PlanSort(q.Sort, models.Projects)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.Repo.CountDistinct(ctx, clauses)
	if err != nil {
		return nil, 0, err
	}
	projects, err := s.Repo.List(ctx, clauses, order, q.Page.PerPage, q.Page.Offset())
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachClips(ctx, projects); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (s ProjectService) Get(ctx context.Context, projectID string) (models.Project, error) {
	p, err := s.Repo.Get(ctx, projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, domain.NotFoundError{Resource: "project " + projectID, Err: err}
	}
	if err != nil {
		return models.Project{}, err
	}
	projects := []models.Project{p}
	if err := s.attachClips(ctx, projects); err != nil {
		return models.Project{}, err
	}
	return projects[0], nil
}

func (s ProjectService) attachClips(ctx context.Context, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ProjectID)
	}
	clips, err := s.Repo.ClipsFor(ctx, ids)
	if err != nil {
		return err
	}
	for i := range projects {
		if c, ok := clips[projects[i].ProjectID]; ok {
			projects[i].Clips = c
		}
	}
	return nil
}
