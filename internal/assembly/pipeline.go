package assembly

import (
	"morphogen/internal/builder"
	"morphogen/internal/nn"
	"morphogen/internal/phenotype"
	"morphogen/internal/robot"
)

// BodySizing is the perceptron used as body function by the
// body-and-brain pipelines.
var BodySizing = phenotype.Sizing{Ratio: 2, Layers: 3}

// BodyActivation is the activation of the body perceptron.
const BodyActivation = "sin"

// PairPipeline reads one flat vector as the weights of a body perceptron
// followed by those of a brain perceptron and hands both to pair.
func PairPipeline(pair builder.Builder[[]nn.Function, *robot.Robot], brain phenotype.Sizing, activation string) builder.Builder[[]float64, *robot.Robot] {
	functions := builder.Of([]builder.Builder[[]float64, nn.Function]{
		phenotype.MLP(BodySizing, BodyActivation),
		phenotype.MLP(brain, activation),
	})
	return builder.Compose(builder.Compose(pair, functions), builder.Merger[float64]())
}

// BodyAndHomoDistributedPipeline evolves body and homogeneous brain from a
// single real vector.
func BodyAndHomoDistributedPipeline(signals int, percentile float64, brain phenotype.Sizing, activation string) builder.Builder[[]float64, *robot.Robot] {
	return PairPipeline(BodyAndHomoDistributed(signals, percentile), brain, activation)
}
