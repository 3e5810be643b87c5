// Package phenotype sizes and builds the controller networks: perceptrons,
// pruning perceptrons and quantized spiking networks. Every builder shares
// the same layer pyramid and weight count.
package phenotype

import (
	"math"

	"morphogen/internal/builder"
	"morphogen/internal/nn"
)

// InnerNeurons computes the hidden layer sizes for a network with nIn inputs
// and nOut outputs. The widest layer has max(2, round(nIn*ratio)) neurons;
// the first half of the layers grows from nIn to it and the second half
// shrinks towards nOut in integer steps.
func InnerNeurons(nIn, nOut int, ratio float64, layers int) []int {
	inner := make([]int, max(layers, 0))
	center := max(2, int(math.Round(float64(nIn)*ratio)))
	switch {
	case layers > 1:
		half := layers / 2
		for i := 0; i < half; i++ {
			inner[i] = nIn + (center-nIn)/(half+1)*(i+1)
		}
		for i := half; i < layers; i++ {
			inner[i] = center + (nOut-center)/(half+1)*(i-half)
		}
	case layers == 1:
		inner[0] = center
	}
	return inner
}

// Sizing holds the topology parameters shared by all network builders.
type Sizing struct {
	Ratio  float64
	Layers int
}

// Topology returns the hidden layer sizes and total weight count for a
// network of the given arity.
func (s Sizing) Topology(nIn, nOut int) ([]int, int) {
	inner := InnerNeurons(nIn, nOut, s.Ratio, s.Layers)
	return inner, nn.CountWeights(nn.CountNeurons(nIn, inner, nOut))
}

type shaped interface {
	InputDimension() int
	OutputDimension() int
}

// weightsBuilder factors the common BuildFor/ExampleFor shape of the network
// builders: the genotype is a flat weight vector sized from the target's
// arity.
func weightsBuilder[F shaped](s Sizing, build func(nIn int, inner []int, nOut int, weights []float64) (F, error)) builder.Builder[[]float64, F] {
	return builder.Funcs[[]float64, F]{
		Build: func(target F) (builder.Mapper[[]float64, F], error) {
			nIn, nOut := target.InputDimension(), target.OutputDimension()
			inner, n := s.Topology(nIn, nOut)
			return func(weights []float64) (F, error) {
				if len(weights) != n {
					var zero F
					return zero, builder.Mismatch("weights", n, len(weights))
				}
				return build(nIn, inner, nOut, weights)
			}, nil
		},
		Example: func(target F) ([]float64, error) {
			_, n := s.Topology(target.InputDimension(), target.OutputDimension())
			return make([]float64, n), nil
		},
	}
}
