package grammar

import (
	"fmt"

	"morphogen/internal/assembly"
	"morphogen/internal/builder"
	"morphogen/internal/codec"
	"morphogen/internal/nn"
	"morphogen/internal/phenotype"
	"morphogen/internal/snn"
)

const (
	// BodyAndHomoDistBrain is the brain ratio of bodyAndHomoDist.
	BodyAndHomoDistBrain = 0.65
	// SensorSelectingBrain is the brain ratio of sensorAndBodyAndHomoDist
	// and sensorCentralized.
	SensorSelectingBrain = 1.5
	PhaseAmplitude       = 1.0
)

// Resolve builds the erased builder described by c.
func Resolve(c Config) (builder.Builder[any, any], error) {
	unsupported := func(err error) error {
		return &UnsupportedConfigurationError{Name: c.Name, Reason: err.Error()}
	}
	switch c.Kind {
	case KindBinary:
		return builder.Erase(codec.BinaryToReals(c.Value)), nil
	case KindTernary:
		return builder.Erase(codec.TernaryToReals(c.Value)), nil
	case KindFixedCentralized:
		return builder.Erase(assembly.FixedCentralized()), nil
	case KindFixedHomoDist:
		return builder.Erase(assembly.FixedHomoDistributed(c.Signals)), nil
	case KindFixedHomoNonDirDist:
		return builder.Erase(assembly.FixedHomoNonDirectionalDistributed(c.Signals)), nil
	case KindFixedHeteroDist:
		return builder.Erase(assembly.FixedHeteroDistributed(c.Signals)), nil
	case KindFixedHomoQuantSpikeDist, KindFixedHomoQuantSpikeNonDirDist, KindFixedHeteroQuantSpikeDist:
		conv, err := c.Converters.build()
		if err != nil {
			return nil, unsupported(err)
		}
		switch c.Kind {
		case KindFixedHeteroQuantSpikeDist:
			return builder.Erase(assembly.FixedHeteroSpikingDistributed(c.Signals, conv)), nil
		case KindFixedHomoQuantSpikeNonDirDist:
			return builder.Erase(assembly.FixedHomoSpikingDistributed(c.Signals, false, conv)), nil
		}
		return builder.Erase(assembly.FixedHomoSpikingDistributed(c.Signals, true, conv)), nil
	case KindFixedPhasesFunct:
		return builder.Erase(assembly.FixedPhaseFunction(c.Frequency, PhaseAmplitude)), nil
	case KindFixedPhases:
		return builder.Erase(assembly.FixedPhaseValues(c.Frequency, PhaseAmplitude)), nil
	case KindFixedPhasesAndFrequencies:
		return builder.Erase(assembly.FixedPhaseAndFrequencyValues(PhaseAmplitude)), nil
	case KindBodySin:
		return builder.Erase(assembly.BodyAndSinusoidal(c.MinFreq, c.MaxFreq, c.Fullness, assembly.AllComponents)), nil
	case KindBodyAndHomoDist:
		brain := phenotype.Sizing{Ratio: BodyAndHomoDistBrain, Layers: c.Layers}
		return builder.Erase(assembly.PairPipeline(assembly.BodyAndHomoDistributed(c.Signals, c.Fullness), brain, "")), nil
	case KindSensorAndBodyAndHomoDist:
		brain := phenotype.Sizing{Ratio: SensorSelectingBrain, Layers: c.Layers}
		return builder.Erase(assembly.PairPipeline(assembly.SensorAndBodyAndHomoDistributed(c.Signals, c.Fullness, c.Positions), brain, "")), nil
	case KindSensorCentralized:
		brain := phenotype.Sizing{Ratio: SensorSelectingBrain, Layers: c.Layers}
		return builder.Erase(assembly.PairPipeline(assembly.SensorCentralized(), brain, "")), nil
	case KindMLP:
		return builder.Erase(phenotype.MLP(phenotype.Sizing{Ratio: c.Ratio, Layers: c.Layers}, c.Activation)), nil
	case KindPruningMLP:
		return builder.Erase(phenotype.PruningMLP(phenotype.Sizing{Ratio: c.Ratio, Layers: c.Layers}, c.Activation, c.Pruning)), nil
	case KindQMSNd:
		factory, err := c.Neuron.factory(c.Layers)
		if err != nil {
			return nil, unsupported(err)
		}
		return builder.Erase(phenotype.QuantizedMSN(phenotype.Sizing{Ratio: c.Ratio, Layers: c.Layers}, factory)), nil
	case KindQMSN:
		factory, err := c.Neuron.factory(c.Layers)
		if err != nil {
			return nil, unsupported(err)
		}
		conv, err := c.Converters.build()
		if err != nil {
			return nil, unsupported(err)
		}
		return builder.Erase(phenotype.QuantizedMSNWithConverters(phenotype.Sizing{Ratio: c.Ratio, Layers: c.Layers}, factory, conv.Encoder, conv.Decoder)), nil
	case KindDirectNumGrid:
		return builder.Erase(codec.DirectNumbersGrid()), nil
	case KindFunctionNumGrid:
		return builder.Erase(codec.FunctionNumbersGrid()), nil
	case KindFunctionGrid, KindSpikingFunctionGrid:
		if c.Inner == nil {
			return nil, &UnsupportedConfigurationError{Name: c.Name, Reason: "missing inner stage"}
		}
		inner, err := Resolve(*c.Inner)
		if err != nil {
			return nil, err
		}
		if c.Kind == KindSpikingFunctionGrid {
			return builder.Erase(codec.SpikingFunctionGrid(builder.Restore[[]float64, snn.MultivariateFunction](inner))), nil
		}
		return builder.Erase(codec.FunctionGrid(builder.Restore[[]float64, nn.Function](inner))), nil
	}
	return nil, &UnsupportedConfigurationError{Name: c.Name, Reason: fmt.Sprintf("unknown kind %s", c.Kind)}
}

// Build parses and resolves a whole pipeline, composing its stages so that
// the leftmost one produces the final phenotype.
func Build(pipeline string) (builder.Builder[any, any], error) {
	configs, err := ParsePipeline(pipeline)
	if err != nil {
		return nil, err
	}
	var out builder.Builder[any, any]
	for i, c := range configs {
		stage, err := Resolve(c)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			out = stage
			continue
		}
		out = builder.ComposeErased(out, stage)
	}
	return out, nil
}

func (s ConverterSpec) build() (assembly.Converters, error) {
	encoder, err := snn.ParseEncoder(s.Encoder, s.InputFrequency)
	if err != nil {
		return assembly.Converters{}, err
	}
	decoder, err := snn.ParseDecoder(s.Decoder, s.OutputFrequency, s.Memory)
	if err != nil {
		return assembly.Converters{}, err
	}
	return assembly.Converters{Encoder: encoder, Decoder: decoder}, nil
}

// factory returns the neuron factory of a network with the given number of
// inner layers.
func (n NeuronSpec) factory(layers int) (snn.NeuronFactory, error) {
	lif := snn.DefaultLIFParams()
	if n.HasLIF {
		lif = snn.LIFParams{Rest: n.Rest, Threshold: n.Threshold, Lambda: n.Lambda}
	}
	theta := snn.DefaultTheta
	if n.HasTheta {
		theta = n.Theta
	}
	switch n.Model {
	case "lif":
		return snn.Uniform(snn.NewLIF(lif)), nil
	case "lif_h":
		return snn.Uniform(snn.NewLIFHomeostasis(lif, theta)), nil
	case "lif_h_output":
		return snn.HomeostaticOutput(lif, theta, layers), nil
	case "lif_h_io":
		return snn.HomeostaticIO(lif, theta, layers), nil
	case "iz":
		p, err := snn.ParseIzhikevichParams(n.Izhikevich)
		if err != nil {
			return nil, err
		}
		return snn.Uniform(snn.NewIzhikevich(p)), nil
	}
	return nil, fmt.Errorf("unsupported neuron model: %s", n.Model)
}
