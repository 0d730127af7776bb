package services

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"offsetsdb/internal/domain"
	"offsetsdb/internal/ingest"
	"offsetsdb/internal/models"
	"offsetsdb/internal/query"
	"offsetsdb/internal/repositories"
	"offsetsdb/internal/utils"
)

type FileService struct {
	Repo     repositories.FileRepo
	Ingestor ingest.Ingestor
}

// FileInput is one submitted file: where to fetch it and which table it
// replaces.
type FileInput struct {
	URL      string `json:"url" binding:"required"`
	Category string `json:"category" binding:"required"`
}

func (s FileService) List(ctx context.Context, q ListQuery) ([]models.File, int, error) {
	if err := q.Page.Validate(); err != nil {
		return nil, 0, err
	}
	clauses, err := query.BuildFilters(q.Filters)
	if err != nil {
		return nil, 0, err
	}
	order, err := query.PlanSort(q.Sort, models.Files)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.Repo.CountDistinct(ctx, clauses)
	if err != nil {
		return nil, 0, err
	}
	files, err := s.Repo.List(ctx, clauses, order, q.Page.PerPage, q.Page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

func (s FileService) Get(ctx context.Context, id int64) (models.File, error) {
	f, err := s.Repo.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.File{}, domain.NotFoundError{Resource: "file", Err: err}
	}
	return f, err
}

// Submit records the files as pending and starts processing them in the
// background. The response carries the pending rows; clients poll the file
// status for the outcome.
func (s FileService) Submit(ctx context.Context, inputs []FileInput) ([]models.File, error) {
	if len(inputs) == 0 {
		return nil, domain.ValidationError{Field: "files", Msg: "at least one file is required"}
	}
	for _, in := range inputs {
		switch in.Category {
		case models.FileCategoryProjects, models.FileCategoryCredits, models.FileCategoryClips:
		default:
			return nil, domain.ValidationError{Field: "category", Msg: "must be one of [projects, credits, clips]"}
		}
	}

	files := make([]models.File, 0, len(inputs))
	for _, in := range inputs {
		f, err := s.Repo.Insert(ctx, in.URL, in.Category)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	// Loads run detached from the request; their lifetime is the process.
	go func(pending []models.File) {
		for _, f := range pending {
			if err := s.Ingestor.Process(context.Background(), f); err != nil {
				utils.LogEvent("", "files", "process_failed", err.Error())
			}
		}
	}(files)

	return files, nil
}
