package nn

import (
	"cmp"
	"fmt"
	"math"
	"math/rand"
	"slices"
)

type PruningCriterion string

const (
	PruneByWeight        PruningCriterion = "weight"
	PruneByAbsSignalMean PruningCriterion = "abs_signal_mean"
	PruneRandomly        PruningCriterion = "random"
)

// ParsePruningCriterion validates a criterion name.
func ParsePruningCriterion(name string) (PruningCriterion, error) {
	switch c := PruningCriterion(name); c {
	case PruneByWeight, PruneByAbsSignalMean, PruneRandomly:
		return c, nil
	}
	return "", fmt.Errorf("unsupported pruning criterion: %s", name)
}

// PruningSchedule describes a one-shot pruning event. At the first Apply
// with t >= Time, the Rate fraction of non-bias synapses with the lowest
// criterion score across the whole network is disabled.
type PruningSchedule struct {
	Time      float64
	Rate      float64
	Criterion PruningCriterion
	Seed      int64
}

// PruningPerceptron is a MultiLayerPerceptron that prunes itself once during
// its lifetime. Signal statistics and pruned weights are per instance; Clone
// starts again from the unpruned weights.
type PruningPerceptron struct {
	mlp      *MultiLayerPerceptron
	initial  []float64
	schedule PruningSchedule

	pruned    bool
	absSignal [][][]float64
	samples   int
}

func NewPruningPerceptron(activation string, nIn int, inner []int, nOut int, weights []float64, schedule PruningSchedule) (*PruningPerceptron, error) {
	if _, err := ParsePruningCriterion(string(schedule.Criterion)); err != nil {
		return nil, err
	}
	if schedule.Rate < 0 || schedule.Rate > 1 {
		return nil, fmt.Errorf("pruning rate must be in [0,1], got %g", schedule.Rate)
	}
	mlp, err := NewMultiLayerPerceptron(activation, nIn, inner, nOut, weights)
	if err != nil {
		return nil, err
	}
	return newPruning(mlp, schedule), nil
}

func newPruning(mlp *MultiLayerPerceptron, schedule PruningSchedule) *PruningPerceptron {
	abs := make([][][]float64, len(mlp.weights))
	for l, layer := range mlp.weights {
		abs[l] = make([][]float64, len(layer))
		for j, w := range layer {
			abs[l][j] = make([]float64, len(w))
		}
	}
	return &PruningPerceptron{mlp: mlp, initial: mlp.Weights(), schedule: schedule, absSignal: abs}
}

func (p *PruningPerceptron) InputDimension() int               { return p.mlp.InputDimension() }
func (p *PruningPerceptron) OutputDimension() int              { return p.mlp.OutputDimension() }
func (p *PruningPerceptron) Schedule() PruningSchedule         { return p.schedule }
func (p *PruningPerceptron) Pruned() bool                      { return p.pruned }
func (p *PruningPerceptron) Weights() []float64                { return p.mlp.Weights() }
func (p *PruningPerceptron) Perceptron() *MultiLayerPerceptron { return p.mlp.clone() }

func (p *PruningPerceptron) Apply(t float64, input []float64) ([]float64, error) {
	if err := CheckInput(p, input); err != nil {
		return nil, err
	}
	if !p.pruned && t >= p.schedule.Time {
		p.prune()
	}
	var visit func(l, j, k int, signal float64)
	if !p.pruned {
		p.samples++
		visit = func(l, j, k int, signal float64) {
			p.absSignal[l][j][k] += math.Abs(signal)
		}
	}
	values := forward(p.mlp.act, p.mlp.weights, input, visit)
	return values[len(values)-1], nil
}

func (p *PruningPerceptron) Clone() Function {
	mlp := p.mlp.clone()
	mlp.weights = unflatten(mlp.neurons, p.initial)
	return newPruning(mlp, p.schedule)
}

type synapse struct {
	l, j, k int
	score   float64
}

func (p *PruningPerceptron) prune() {
	p.pruned = true
	var synapses []synapse
	for l, layer := range p.mlp.weights {
		for j, w := range layer {
			for k := 1; k < len(w); k++ {
				synapses = append(synapses, synapse{l: l, j: j, k: k, score: p.score(l, j, k)})
			}
		}
	}
	if p.schedule.Criterion == PruneRandomly {
		rng := rand.New(rand.NewSource(p.schedule.Seed))
		rng.Shuffle(len(synapses), func(a, b int) { synapses[a], synapses[b] = synapses[b], synapses[a] })
	} else {
		slices.SortStableFunc(synapses, func(a, b synapse) int { return cmp.Compare(a.score, b.score) })
	}
	n := int(float64(len(synapses)) * p.schedule.Rate)
	for _, s := range synapses[:n] {
		p.mlp.weights[s.l][s.j][s.k] = 0
	}
}

func (p *PruningPerceptron) score(l, j, k int) float64 {
	switch p.schedule.Criterion {
	case PruneByAbsSignalMean:
		if p.samples == 0 {
			return 0
		}
		return p.absSignal[l][j][k] / float64(p.samples)
	case PruneByWeight:
		return math.Abs(p.mlp.weights[l][j][k])
	}
	return 0
}
