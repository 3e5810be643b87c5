// Package grammar turns configuration names such as
// "fixedHomoDist-2<MLP-0.65-1" into composed builders. Every name parses
// into a tagged Config; pipelines join names with '<', the leftmost being
// the outermost stage.
package grammar

import (
	"errors"
	"fmt"
	"strings"

	"morphogen/internal/nn"
)

var ErrUnsupportedConfiguration = errors.New("unsupported configuration")

// UnsupportedConfigurationError reports a name no rule accepts, or a
// parameter a matching rule could not use.
type UnsupportedConfigurationError struct {
	Name   string
	Reason string
}

func (e *UnsupportedConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unsupported configuration %q", e.Name)
	}
	return fmt.Sprintf("unsupported configuration %q: %s", e.Name, e.Reason)
}

func (e *UnsupportedConfigurationError) Is(target error) bool {
	return target == ErrUnsupportedConfiguration
}

type Kind int

const (
	KindBinary Kind = iota
	KindTernary
	KindFixedCentralized
	KindFixedHomoDist
	KindFixedHomoNonDirDist
	KindFixedHeteroDist
	KindFixedHomoQuantSpikeDist
	KindFixedHomoQuantSpikeNonDirDist
	KindFixedHeteroQuantSpikeDist
	KindFixedPhasesFunct
	KindFixedPhases
	KindFixedPhasesAndFrequencies
	KindBodySin
	KindBodyAndHomoDist
	KindSensorAndBodyAndHomoDist
	KindSensorCentralized
	KindMLP
	KindPruningMLP
	KindQMSNd
	KindQMSN
	KindDirectNumGrid
	KindFunctionNumGrid
	KindFunctionGrid
	KindSpikingFunctionGrid
)

var kindNames = [...]string{
	KindBinary:                        "binary",
	KindTernary:                       "ternary",
	KindFixedCentralized:              "fixedCentralized",
	KindFixedHomoDist:                 "fixedHomoDist",
	KindFixedHomoNonDirDist:           "fixedHomoNonDirDist",
	KindFixedHeteroDist:               "fixedHeteroDist",
	KindFixedHomoQuantSpikeDist:       "fixedHomoQuantSpikeDist",
	KindFixedHomoQuantSpikeNonDirDist: "fixedHomoQuantSpikeNonDirDist",
	KindFixedHeteroQuantSpikeDist:     "fixedHeteroQuantSpikeDist",
	KindFixedPhasesFunct:              "fixedPhasesFunct",
	KindFixedPhases:                   "fixedPhases",
	KindFixedPhasesAndFrequencies:     "fixedPhasesAndFrequencies",
	KindBodySin:                       "bodySin",
	KindBodyAndHomoDist:               "bodyAndHomoDist",
	KindSensorAndBodyAndHomoDist:      "sensorAndBodyAndHomoDist",
	KindSensorCentralized:             "sensorCentralized",
	KindMLP:                           "MLP",
	KindPruningMLP:                    "pMLP",
	KindQMSNd:                         "QMSNd",
	KindQMSN:                          "QMSN",
	KindDirectNumGrid:                 "directNumGrid",
	KindFunctionNumGrid:               "functionNumGrid",
	KindFunctionGrid:                  "fGrid",
	KindSpikingFunctionGrid:           "snnQuantFuncGrid",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// NeuronSpec selects the spiking neuron model of every network position.
type NeuronSpec struct {
	// Model is one of lif, lif_h, lif_h_output, lif_h_io, iz.
	Model string
	// Rest, Threshold and Lambda are used when HasLIF is set.
	HasLIF    bool
	Rest      float64
	Threshold float64
	Lambda    float64
	// Theta is used when HasTheta is set.
	HasTheta bool
	Theta    float64
	// Izhikevich names the Izhikevich parameter set.
	Izhikevich string
}

// ConverterSpec names the real value to spike train converters.
type ConverterSpec struct {
	Encoder         string
	InputFrequency  float64
	Decoder         string
	Memory          int
	OutputFrequency float64
}

// Config is the parsed form of a single stage name. Only the fields of its
// Kind are meaningful.
type Config struct {
	Kind Kind
	Name string

	Value      float64
	Signals    int
	Frequency  float64
	Fullness   float64
	MinFreq    float64
	MaxFreq    float64
	Ratio      float64
	Layers     int
	Activation string
	Positions  bool
	Pruning    nn.PruningSchedule
	Neuron     NeuronSpec
	Converters ConverterSpec
	Inner      *Config
}

func (c Config) String() string { return c.Name }

// ParsePipeline parses a '<' separated list of stage names, outermost first.
func ParsePipeline(pipeline string) ([]Config, error) {
	if strings.TrimSpace(pipeline) == "" {
		return nil, &UnsupportedConfigurationError{Name: pipeline, Reason: "empty pipeline"}
	}
	parts := strings.Split(pipeline, "<")
	out := make([]Config, 0, len(parts))
	for _, part := range parts {
		cfg, err := Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}
