package phenotype

import (
	"morphogen/internal/builder"
	"morphogen/internal/nn"
	"morphogen/internal/snn"
)

// MLP builds a fixed-topology perceptron from a flat weight vector. An
// empty activation selects nn.DefaultActivation.
func MLP(s Sizing, activation string) builder.Builder[[]float64, nn.Function] {
	return weightsBuilder(s, func(nIn int, inner []int, nOut int, weights []float64) (nn.Function, error) {
		return nn.NewMultiLayerPerceptron(activation, nIn, inner, nOut, weights)
	})
}

// PruningMLP is MLP with a one-shot pruning schedule.
func PruningMLP(s Sizing, activation string, schedule nn.PruningSchedule) builder.Builder[[]float64, nn.Function] {
	return weightsBuilder(s, func(nIn int, inner []int, nOut int, weights []float64) (nn.Function, error) {
		return nn.NewPruningPerceptron(activation, nIn, inner, nOut, weights, schedule)
	})
}

// QuantizedMSN builds a spiking network working directly on spike trains.
func QuantizedMSN(s Sizing, neurons snn.NeuronFactory) builder.Builder[[]float64, snn.MultivariateFunction] {
	return weightsBuilder(s, func(nIn int, inner []int, nOut int, weights []float64) (snn.MultivariateFunction, error) {
		return snn.NewNetwork(nIn, inner, nOut, weights, neurons)
	})
}

// QuantizedMSNWithConverters wraps a spiking network with value/spike
// converters so it acts as a real valued function.
func QuantizedMSNWithConverters(s Sizing, neurons snn.NeuronFactory, encoder snn.Encoder, decoder snn.Decoder) builder.Builder[[]float64, nn.Function] {
	return weightsBuilder(s, func(nIn int, inner []int, nOut int, weights []float64) (nn.Function, error) {
		net, err := snn.NewNetwork(nIn, inner, nOut, weights, neurons)
		if err != nil {
			return nil, err
		}
		return snn.NewConvertedNetwork(net, encoder, decoder), nil
	})
}
