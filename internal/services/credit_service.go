package services

import (
	"context"

	"offsetsdb/internal/models"
	"offsetsdb/internal/query"
	"offsetsdb/internal/repositories"
)

type CreditService struct {
	Repo    repositories.CreditRepo
	Aliases query.AliasExpander
}

func (s CreditService) List(ctx context.Context, q ListQuery) ([]models.Credit, int, error) {
	if err := q.Page.Validate(); err != nil {
		return nil, 0, err
	}
	clauses, err := buildClauses(q, models.Credits, s.Aliases)
	if err != nil {
		return nil, 0, err
	}
	order, err := query.PlanSort(q.Sort, models.Credits)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.Repo.CountDistinct(ctx, clauses)
	if err != nil {
		return nil, 0, err
	}
	credits, err := s.Repo.List(ctx, clauses, order, q.Page.PerPage, q.Page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return credits, total, nil
}
