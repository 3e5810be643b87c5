package snn

import (
	"fmt"

	"morphogen/internal/builder"
	"morphogen/internal/nn"
)

// MultivariateFunction maps input spike trains to output spike trains over
// one control window. Implementations are stateful; use Clone per phenotype.
type MultivariateFunction interface {
	InputDimension() int
	OutputDimension() int
	Apply(t float64, inputs []SpikeTrain) ([]SpikeTrain, error)
	Clone() MultivariateFunction
}

// Prototype is a shape-only spiking function used as a builder target.
type Prototype struct {
	In  int
	Out int
}

func (p Prototype) InputDimension() int         { return p.In }
func (p Prototype) OutputDimension() int        { return p.Out }
func (p Prototype) Clone() MultivariateFunction { return p }

func (p Prototype) Apply(_ float64, inputs []SpikeTrain) ([]SpikeTrain, error) {
	if len(inputs) != p.In {
		return nil, builder.Mismatch("inputs", p.In, len(inputs))
	}
	out := make([]SpikeTrain, p.Out)
	for i := range out {
		out[i] = make(SpikeTrain, DefaultResolution)
	}
	return out, nil
}

// Network is a fully connected feed-forward spiking network with the same
// weight layout as nn.MultiLayerPerceptron. Input neurons receive the raw
// spike counts; every other neuron receives the bias plus the weighted
// spikes of the previous layer in the same sub-step.
type Network struct {
	neurons []int
	weights [][][]float64
	layers  [][]Neuron
	factory NeuronFactory
}

func NewNetwork(nIn int, inner []int, nOut int, weights []float64, factory NeuronFactory) (*Network, error) {
	if factory == nil {
		return nil, fmt.Errorf("neuron factory is required")
	}
	neurons := nn.CountNeurons(nIn, inner, nOut)
	expected := nn.CountWeights(neurons)
	if len(weights) != expected {
		return nil, builder.Mismatch("weights", expected, len(weights))
	}
	n := &Network{neurons: neurons, factory: factory}
	n.weights = make([][][]float64, len(neurons)-1)
	c := 0
	for l := range n.weights {
		n.weights[l] = make([][]float64, neurons[l+1])
		for j := range n.weights[l] {
			n.weights[l][j] = append([]float64(nil), weights[c:c+neurons[l]+1]...)
			c += neurons[l] + 1
		}
	}
	n.layers = buildLayers(neurons, factory)
	return n, nil
}

func buildLayers(neurons []int, factory NeuronFactory) [][]Neuron {
	layers := make([][]Neuron, len(neurons))
	for l, size := range neurons {
		layers[l] = make([]Neuron, size)
		for j := range layers[l] {
			layers[l][j] = factory(l, j)
		}
	}
	return layers
}

func (n *Network) InputDimension() int  { return n.neurons[0] }
func (n *Network) OutputDimension() int { return n.neurons[len(n.neurons)-1] }

// Neurons returns a copy of the per-layer neuron counts.
func (n *Network) Neurons() []int { return append([]int(nil), n.neurons...) }

// Neuron exposes the neuron at (layer, index), mainly for inspection.
func (n *Network) Neuron(layer, index int) Neuron { return n.layers[layer][index] }

func (n *Network) Apply(_ float64, inputs []SpikeTrain) ([]SpikeTrain, error) {
	if len(inputs) != n.InputDimension() {
		return nil, builder.Mismatch("inputs", n.InputDimension(), len(inputs))
	}
	steps := 0
	if len(inputs) > 0 {
		steps = len(inputs[0])
	}
	for i, in := range inputs {
		if len(in) != steps {
			return nil, fmt.Errorf("input %d: %w", i, builder.Mismatch("sub-steps", steps, len(in)))
		}
	}
	if steps == 0 {
		steps = DefaultResolution
	}

	out := make([]SpikeTrain, n.OutputDimension())
	for i := range out {
		out[i] = make(SpikeTrain, steps)
	}
	spikes := make([][]float64, len(n.neurons))
	for l, size := range n.neurons {
		spikes[l] = make([]float64, size)
	}
	for s := 0; s < steps; s++ {
		for j, neuron := range n.layers[0] {
			spikes[0][j] = fire(neuron, float64(inputs[j][s]))
		}
		for l, layer := range n.weights {
			for j, w := range layer {
				sum := w[0]
				for k, v := range spikes[l] {
					sum += v * w[k+1]
				}
				spikes[l+1][j] = fire(n.layers[l+1][j], sum)
			}
		}
		for j, v := range spikes[len(spikes)-1] {
			out[j][s] = int(v)
		}
	}
	return out, nil
}

func fire(neuron Neuron, input float64) float64 {
	if neuron.Step(input) {
		return 1
	}
	return 0
}

// Reset clears the state of every neuron.
func (n *Network) Reset() {
	for _, layer := range n.layers {
		for _, neuron := range layer {
			neuron.Reset()
		}
	}
}

func (n *Network) Clone() MultivariateFunction {
	c := &Network{
		neurons: append([]int(nil), n.neurons...),
		weights: make([][][]float64, len(n.weights)),
		factory: n.factory,
	}
	for l, layer := range n.weights {
		c.weights[l] = make([][]float64, len(layer))
		for j, w := range layer {
			c.weights[l][j] = append([]float64(nil), w...)
		}
	}
	c.layers = buildLayers(c.neurons, c.factory)
	return c
}
