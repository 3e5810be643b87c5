package storage

import (
	"context"

	"morphogen/internal/model"
)

// Store persists mapping targets, batch runs and the phenotype summaries
// of each run.
type Store interface {
	Init(ctx context.Context) error
	SaveTarget(ctx context.Context, target model.Target) error
	GetTarget(ctx context.Context, name string) (model.Target, bool, error)
	ListTargets(ctx context.Context) ([]string, error)
	SaveRun(ctx context.Context, run model.Run) error
	GetRun(ctx context.Context, id string) (model.Run, bool, error)
	ListRuns(ctx context.Context) ([]model.Run, error)
	SavePhenotypes(ctx context.Context, runID string, phenotypes []model.Phenotype) error
	GetPhenotypes(ctx context.Context, runID string) ([]model.Phenotype, bool, error)
}
