// Package snn implements quantized spiking networks: discrete-time neuron
// models, feed-forward spiking networks over spike trains and converters
// between real values and spike trains.
//
// Time inside one control window is split into a fixed number of sub-steps.
// A SpikeTrain holds the number of spikes emitted in each sub-step.
package snn

import "fmt"

// SpikeTrain counts spikes per sub-step of one control window.
type SpikeTrain []int

// Count returns the total number of spikes in the train.
func (s SpikeTrain) Count() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// DefaultResolution is the number of sub-steps per control window.
const DefaultResolution = 16

// Neuron is a stateful discrete-time spiking unit.
type Neuron interface {
	// Step integrates one sub-step of weighted input and reports a spike.
	Step(input float64) bool
	Reset()
	Clone() Neuron
}

// NeuronFactory builds the neuron at position index of layer. Layer 0 is the
// input layer and layer len(inner)+1 the output layer.
type NeuronFactory func(layer, index int) Neuron

// LIFParams configure a leaky integrate-and-fire neuron.
type LIFParams struct {
	Rest      float64
	Threshold float64
	Lambda    float64
}

func DefaultLIFParams() LIFParams {
	return LIFParams{Rest: 0, Threshold: 1, Lambda: 0.01}
}

// LIF is a leaky integrate-and-fire neuron: the membrane decays towards
// Rest by Lambda per sub-step and resets to Rest after a spike.
type LIF struct {
	LIFParams
	membrane float64
}

func NewLIF(p LIFParams) *LIF {
	return &LIF{LIFParams: p, membrane: p.Rest}
}

func (n *LIF) Step(input float64) bool {
	n.membrane += input
	n.membrane -= n.Lambda * (n.membrane - n.Rest)
	if n.membrane >= n.Threshold {
		n.membrane = n.Rest
		return true
	}
	return false
}

func (n *LIF) Membrane() float64 { return n.membrane }
func (n *LIF) Reset()            { n.membrane = n.Rest }
func (n *LIF) Clone() Neuron     { return NewLIF(n.LIFParams) }

// DefaultTheta is the threshold increment of homeostatic neurons.
const DefaultTheta = 0.2

// LIFHomeostasis raises its own threshold by Theta after every spike; the
// extra threshold decays by Lambda per sub-step.
type LIFHomeostasis struct {
	LIFParams
	Theta    float64
	membrane float64
	theta    float64
}

func NewLIFHomeostasis(p LIFParams, theta float64) *LIFHomeostasis {
	return &LIFHomeostasis{LIFParams: p, Theta: theta, membrane: p.Rest}
}

func (n *LIFHomeostasis) Step(input float64) bool {
	n.membrane += input
	n.membrane -= n.Lambda * (n.membrane - n.Rest)
	n.theta -= n.Lambda * n.theta
	if n.membrane >= n.Threshold+n.theta {
		n.membrane = n.Rest
		n.theta += n.Theta
		return true
	}
	return false
}

func (n *LIFHomeostasis) EffectiveThreshold() float64 { return n.Threshold + n.theta }

func (n *LIFHomeostasis) Reset() {
	n.membrane = n.Rest
	n.theta = 0
}

func (n *LIFHomeostasis) Clone() Neuron { return NewLIFHomeostasis(n.LIFParams, n.Theta) }

// IzhikevichParams are the a, b, c, d constants of the Izhikevich model.
type IzhikevichParams struct {
	A, B, C, D float64
}

// RegularSpiking is the regular-spiking cortical parameter set.
var RegularSpiking = IzhikevichParams{A: 0.02, B: 0.2, C: -65, D: 8}

// ParseIzhikevichParams resolves a named parameter set.
func ParseIzhikevichParams(name string) (IzhikevichParams, error) {
	switch name {
	case "", "regular_spiking_params":
		return RegularSpiking, nil
	}
	return IzhikevichParams{}, fmt.Errorf("unsupported izhikevich parameters: %s", name)
}

// DefaultInputGain scales weighted spike input into membrane current.
const DefaultInputGain = 10.0

type Izhikevich struct {
	IzhikevichParams
	InputGain float64
	v, u      float64
}

func NewIzhikevich(p IzhikevichParams) *Izhikevich {
	n := &Izhikevich{IzhikevichParams: p, InputGain: DefaultInputGain}
	n.Reset()
	return n
}

func (n *Izhikevich) Step(input float64) bool {
	current := input * n.InputGain
	// two half steps for numerical stability
	for range 2 {
		n.v += 0.5 * (0.04*n.v*n.v + 5*n.v + 140 - n.u + current)
	}
	n.u += n.A * (n.B*n.v - n.u)
	if n.v >= 30 {
		n.v = n.C
		n.u += n.D
		return true
	}
	return false
}

func (n *Izhikevich) Reset() {
	n.v = n.C
	n.u = n.B * n.C
}

func (n *Izhikevich) Clone() Neuron {
	c := NewIzhikevich(n.IzhikevichParams)
	c.InputGain = n.InputGain
	return c
}

// Uniform returns a factory cloning proto for every position.
func Uniform(proto Neuron) NeuronFactory {
	return func(int, int) Neuron { return proto.Clone() }
}

// HomeostaticOutput uses homeostatic neurons on the output layer only.
func HomeostaticOutput(p LIFParams, theta float64, nInner int) NeuronFactory {
	output := nInner + 1
	return func(layer, _ int) Neuron {
		if layer == output {
			return NewLIFHomeostasis(p, theta)
		}
		return NewLIF(p)
	}
}

// HomeostaticIO uses homeostatic neurons on both the input and output layers.
func HomeostaticIO(p LIFParams, theta float64, nInner int) NeuronFactory {
	output := nInner + 1
	return func(layer, _ int) Neuron {
		if layer == 0 || layer == output {
			return NewLIFHomeostasis(p, theta)
		}
		return NewLIF(p)
	}
}
