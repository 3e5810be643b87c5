package nn

import (
	"fmt"

	"morphogen/internal/builder"
)

// MultiLayerPerceptron is a fully connected feed-forward network. Weights
// are stored per layer transition as [destination][1+source], with index 0
// holding the bias. The activation is applied to every non-input layer.
type MultiLayerPerceptron struct {
	activation string
	act        ActivationFunc
	neurons    []int
	weights    [][][]float64
}

// CountNeurons returns the per-layer neuron counts of a perceptron with the
// given inner layers.
func CountNeurons(nIn int, inner []int, nOut int) []int {
	neurons := make([]int, 0, len(inner)+2)
	neurons = append(neurons, nIn)
	neurons = append(neurons, inner...)
	return append(neurons, nOut)
}

// CountWeights returns the number of weights, biases included, of a fully
// connected network with the given layer sizes.
func CountWeights(neurons []int) int {
	n := 0
	for i := 0; i+1 < len(neurons); i++ {
		n += (neurons[i] + 1) * neurons[i+1]
	}
	return n
}

func NewMultiLayerPerceptron(activation string, nIn int, inner []int, nOut int, weights []float64) (*MultiLayerPerceptron, error) {
	if activation == "" {
		activation = DefaultActivation
	}
	act, err := GetActivation(activation)
	if err != nil {
		return nil, err
	}
	neurons := CountNeurons(nIn, inner, nOut)
	for i, n := range neurons {
		if n < 0 {
			return nil, fmt.Errorf("layer %d has negative size %d", i, n)
		}
	}
	expected := CountWeights(neurons)
	if len(weights) != expected {
		return nil, builder.Mismatch("weights", expected, len(weights))
	}
	return &MultiLayerPerceptron{
		activation: activation,
		act:        act,
		neurons:    neurons,
		weights:    unflatten(neurons, weights),
	}, nil
}

func unflatten(neurons []int, flat []float64) [][][]float64 {
	out := make([][][]float64, len(neurons)-1)
	c := 0
	for l := range out {
		out[l] = make([][]float64, neurons[l+1])
		for j := range out[l] {
			out[l][j] = append([]float64(nil), flat[c:c+neurons[l]+1]...)
			c += neurons[l] + 1
		}
	}
	return out
}

func flatten(weights [][][]float64) []float64 {
	var out []float64
	for _, layer := range weights {
		for _, w := range layer {
			out = append(out, w...)
		}
	}
	return out
}

func (m *MultiLayerPerceptron) InputDimension() int  { return m.neurons[0] }
func (m *MultiLayerPerceptron) OutputDimension() int { return m.neurons[len(m.neurons)-1] }
func (m *MultiLayerPerceptron) Activation() string   { return m.activation }

// Neurons returns a copy of the per-layer neuron counts.
func (m *MultiLayerPerceptron) Neurons() []int {
	return append([]int(nil), m.neurons...)
}

// Weights returns the flat weight vector in construction order.
func (m *MultiLayerPerceptron) Weights() []float64 {
	return flatten(m.weights)
}

func (m *MultiLayerPerceptron) Apply(_ float64, input []float64) ([]float64, error) {
	if err := CheckInput(m, input); err != nil {
		return nil, err
	}
	values := forward(m.act, m.weights, input, nil)
	return values[len(values)-1], nil
}

func (m *MultiLayerPerceptron) Clone() Function {
	return m.clone()
}

func (m *MultiLayerPerceptron) clone() *MultiLayerPerceptron {
	return &MultiLayerPerceptron{
		activation: m.activation,
		act:        m.act,
		neurons:    append([]int(nil), m.neurons...),
		weights:    unflatten(m.neurons, flatten(m.weights)),
	}
}

// forward propagates input and returns the activation values of every
// layer. visit, when set, observes each synapse signal (source value times
// weight; the bias source is 1).
func forward(act ActivationFunc, weights [][][]float64, input []float64, visit func(l, j, k int, signal float64)) [][]float64 {
	values := make([][]float64, len(weights)+1)
	values[0] = append([]float64(nil), input...)
	for l, layer := range weights {
		values[l+1] = make([]float64, len(layer))
		for j, w := range layer {
			sum := w[0]
			if visit != nil {
				visit(l, j, 0, w[0])
			}
			for k, v := range values[l] {
				s := v * w[k+1]
				if visit != nil {
					visit(l, j, k+1, s)
				}
				sum += s
			}
			values[l+1][j] = act(sum)
		}
	}
	return values
}
