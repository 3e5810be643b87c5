// Package morphogen is the public entry point for mapping genotypes onto
// voxel-based soft robots through grammar-described pipelines.
package morphogen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"morphogen/internal/batch"
	"morphogen/internal/builder"
	"morphogen/internal/genotype"
	"morphogen/internal/grammar"
	"morphogen/internal/grid"
	"morphogen/internal/map2rec"
	"morphogen/internal/model"
	"morphogen/internal/render"
	"morphogen/internal/robot"
	"morphogen/internal/stats"
	"morphogen/internal/storage"
)

const defaultDBPath = "morphogen.db"

var (
	ErrTargetNotFound = errors.New("target not found")
	ErrRunNotFound    = errors.New("run not found")
)

type Options struct {
	StoreKind string
	DBPath    string
	Workers   int
	Logger    *slog.Logger
	// Registerer receives the batch metrics; nil disables them.
	Registerer prometheus.Registerer
}

type Client struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *batch.Metrics
	workers int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	c := &Client{store: store, logger: logger, workers: max(opts.Workers, 1)}
	if opts.Registerer != nil {
		c.metrics, err = batch.NewMetrics(opts.Registerer)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Kinds lists the pipeline stage kinds and the patterns they accept.
func Kinds() map[string]string {
	out := map[string]string{}
	for kind, pattern := range grammar.Patterns() {
		out[kind.String()] = pattern
	}
	return out
}

// SaveTarget stores a target under its name.
func (c *Client) SaveTarget(ctx context.Context, rec map2rec.TargetRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("target name is required")
	}
	target, err := map2rec.ToModel(rec)
	if err != nil {
		return err
	}
	return c.store.SaveTarget(ctx, target)
}

func (c *Client) Targets(ctx context.Context) ([]string, error) {
	return c.store.ListTargets(ctx)
}

// Target returns a stored target as an explicit record.
func (c *Client) Target(ctx context.Context, name string) (map2rec.TargetRecord, error) {
	target, ok, err := c.store.GetTarget(ctx, name)
	if err != nil {
		return map2rec.TargetRecord{}, err
	}
	if !ok {
		return map2rec.TargetRecord{}, fmt.Errorf("%w: %s", ErrTargetNotFound, name)
	}
	return map2rec.FromModel(target), nil
}

// resolveBody turns a request target into a body. A bare name refers to a
// stored target.
func (c *Client) resolveBody(ctx context.Context, rec map2rec.TargetRecord) (robot.Body, error) {
	if rec.Shape == "" && len(rec.Voxels) == 0 && rec.Name != "" {
		stored, err := c.Target(ctx, rec.Name)
		if err != nil {
			return nil, err
		}
		rec = stored
	}
	return map2rec.Body(rec)
}

type pipeline struct {
	builder builder.Builder[any, any]
	target  *robot.Robot
	example any
}

func (c *Client) prepare(ctx context.Context, name string, target map2rec.TargetRecord) (pipeline, error) {
	body, err := c.resolveBody(ctx, target)
	if err != nil {
		return pipeline{}, err
	}
	b, err := grammar.Build(name)
	if err != nil {
		return pipeline{}, err
	}
	proto := robot.Prototype(body)
	example, err := b.ExampleFor(proto)
	if err != nil {
		return pipeline{}, fmt.Errorf("pipeline %s: %w", name, err)
	}
	return pipeline{builder: b, target: proto, example: example}, nil
}

type ExampleRequest struct {
	Pipeline string
	Target   map2rec.TargetRecord
}

type ExampleSummary struct {
	Pipeline string
	Type     string
	Length   int
	Example  any
}

// Example reports the genotype shape a pipeline needs for a target.
func (c *Client) Example(ctx context.Context, req ExampleRequest) (ExampleSummary, error) {
	p, err := c.prepare(ctx, req.Pipeline, req.Target)
	if err != nil {
		return ExampleSummary{}, err
	}
	n, err := genotype.Length(p.example)
	if err != nil {
		return ExampleSummary{}, err
	}
	return ExampleSummary{Pipeline: req.Pipeline, Type: builder.TypeName(p.example), Length: n, Example: p.example}, nil
}

type MapRequest struct {
	Pipeline  string
	Target    map2rec.TargetRecord
	Count     int
	Seed      int64
	Genotypes [][]float64
	Workers   int
}

// RequestFromRecord adapts a loaded request file.
func RequestFromRecord(rec map2rec.RequestRecord) MapRequest {
	return MapRequest{
		Pipeline:  rec.Pipeline,
		Target:    rec.Target,
		Count:     rec.Count,
		Seed:      rec.Seed,
		Genotypes: rec.Genotypes,
		Workers:   rec.Workers,
	}
}

type MapSummary struct {
	Run        model.Run
	Phenotypes []model.Phenotype
	Robots     []*robot.Robot
}

// Map maps a batch of genotypes and stores the run with one phenotype
// record per genotype. Explicit genotypes are flat real vectors reshaped to
// the pipeline's example; otherwise Count genotypes are sampled from Seed.
func (c *Client) Map(ctx context.Context, req MapRequest) (MapSummary, error) {
	p, err := c.prepare(ctx, req.Pipeline, req.Target)
	if err != nil {
		return MapSummary{}, err
	}
	genotypes, err := genotypesFor(p.example, req)
	if err != nil {
		return MapSummary{}, err
	}
	mapper, err := p.builder.BuildFor(p.target)
	if err != nil {
		return MapSummary{}, fmt.Errorf("pipeline %s: %w", req.Pipeline, err)
	}
	length, err := genotype.Length(p.example)
	if err != nil {
		return MapSummary{}, err
	}

	workers := req.Workers
	if workers <= 0 {
		workers = c.workers
	}
	runner := &batch.Runner{Workers: workers, Logger: c.logger, Metrics: c.metrics}
	started := time.Now().UTC()
	results, summary, err := runner.Map(ctx, mapper, genotypes)
	if err != nil {
		return MapSummary{}, err
	}

	run := model.Run{
		VersionedRecord: storage.Versioned(),
		ID:              uuid.NewString(),
		Pipeline:        req.Pipeline,
		Target:          req.Target.Name,
		GenotypeLength:  length,
		Requested:       summary.Requested,
		Succeeded:       summary.Succeeded,
		Failed:          summary.Failed,
		StartedAt:       started,
		Duration:        summary.Elapsed,
	}
	out := MapSummary{Run: run, Phenotypes: make([]model.Phenotype, 0, len(results)), Robots: make([]*robot.Robot, len(results))}
	for _, res := range results {
		rec := model.Phenotype{VersionedRecord: storage.Versioned(), ID: uuid.NewString(), RunID: run.ID, Index: res.Index}
		if res.Err != nil {
			rec.Error = res.Err.Error()
		} else if r, ok := res.Phenotype.(*robot.Robot); ok {
			describe(&rec, r)
			out.Robots[res.Index] = r
		}
		out.Phenotypes = append(out.Phenotypes, rec)
	}

	if err := c.store.SaveRun(ctx, run); err != nil {
		return MapSummary{}, err
	}
	if err := c.store.SavePhenotypes(ctx, run.ID, out.Phenotypes); err != nil {
		return MapSummary{}, err
	}
	c.logger.Info("run stored", "run_id", run.ID, "pipeline", run.Pipeline, "succeeded", run.Succeeded, "failed", run.Failed)
	return out, nil
}

func genotypesFor(example any, req MapRequest) ([]any, error) {
	if len(req.Genotypes) > 0 {
		out := make([]any, 0, len(req.Genotypes))
		for i, values := range req.Genotypes {
			g, err := genotype.FromReals(example, values)
			if err != nil {
				return nil, fmt.Errorf("genotype %d: %w", i, err)
			}
			out = append(out, g)
		}
		return out, nil
	}
	if req.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", req.Count)
	}
	rng := rand.New(rand.NewSource(req.Seed))
	out := make([]any, 0, req.Count)
	for range req.Count {
		g, err := genotype.Random(example, rng)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func describe(rec *model.Phenotype, r *robot.Robot) {
	rec.Width = r.Body.W()
	rec.Height = r.Body.H()
	rec.Voxels = r.Body.Count()
	for _, v := range r.Body.Values() {
		rec.Sensors += v.InputDimension()
	}
	if r.Controller != nil {
		rec.Controller = r.Controller.Kind()
	}
	rec.Minimap = render.Minimap(r.Body)
}

type RunsRequest struct {
	Limit int
}

// Runs lists stored runs, newest first.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]model.Run, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })
	if len(runs) > req.Limit {
		runs = runs[:req.Limit]
	}
	return runs, nil
}

type PhenotypesRequest struct {
	RunID  string
	Latest bool
}

func (c *Client) Phenotypes(ctx context.Context, req PhenotypesRequest) ([]model.Phenotype, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	phenotypes, ok, err := c.store.GetPhenotypes(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return phenotypes, nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if latest {
		runs, err := c.Runs(ctx, RunsRequest{Limit: 1})
		if err != nil {
			return "", err
		}
		if len(runs) == 0 {
			return "", ErrRunNotFound
		}
		return runs[0].ID, nil
	}
	if runID == "" {
		return "", errors.New("run id is required")
	}
	return runID, nil
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID   string
	Dir     string
	Summary stats.Summary
}

// Export writes the artifacts of a stored run under req.OutDir.
func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	if req.OutDir == "" {
		return ExportSummary{}, errors.New("output directory is required")
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return ExportSummary{}, err
	}
	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return ExportSummary{}, err
	}
	if !ok {
		return ExportSummary{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	phenotypes, err := c.Phenotypes(ctx, PhenotypesRequest{RunID: runID})
	if err != nil {
		return ExportSummary{}, err
	}
	dir, err := stats.WriteRunArtifacts(req.OutDir, run, phenotypes)
	if err != nil {
		return ExportSummary{}, fmt.Errorf("export run %s: %w", runID, err)
	}
	c.logger.Info("run exported", "run_id", runID, "dir", dir)
	return ExportSummary{RunID: runID, Dir: dir, Summary: stats.Summarize(phenotypes)}, nil
}

type ShowRequest struct {
	Pipeline string
	Target   map2rec.TargetRecord
	Seed     int64
	Steps    int
	TimeStep float64
}

type ShowSummary struct {
	Robot      *robot.Robot
	Actuations []*grid.Grid[float64]
}

// Show maps one random genotype and drives its controller with idle
// readings for Steps control steps.
func (c *Client) Show(ctx context.Context, req ShowRequest) (ShowSummary, error) {
	p, err := c.prepare(ctx, req.Pipeline, req.Target)
	if err != nil {
		return ShowSummary{}, err
	}
	g, err := genotype.Random(p.example, rand.New(rand.NewSource(req.Seed)))
	if err != nil {
		return ShowSummary{}, err
	}
	out, err := builder.Apply(p.builder, any(p.target), g)
	if err != nil {
		return ShowSummary{}, err
	}
	r, ok := out.(*robot.Robot)
	if !ok {
		return ShowSummary{}, fmt.Errorf("pipeline %s built %s, not a robot", req.Pipeline, builder.TypeName(out))
	}
	dt := req.TimeStep
	if dt <= 0 {
		dt = 0.1
	}
	summary := ShowSummary{Robot: r}
	readings := r.IdleReadings()
	for i := range req.Steps {
		if err := ctx.Err(); err != nil {
			return ShowSummary{}, err
		}
		act, err := r.Step(float64(i+1)*dt, readings)
		if err != nil {
			return ShowSummary{}, err
		}
		summary.Actuations = append(summary.Actuations, act)
	}
	return summary, nil
}
