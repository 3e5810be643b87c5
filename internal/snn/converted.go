package snn

import (
	"morphogen/internal/nn"
)

// ConvertedNetwork wraps a spiking function so it can be used as a real
// valued nn.Function. Each input has its own encoder and each output its
// own decoder; the control window spans from the previous Apply to t.
type ConvertedNetwork struct {
	net        MultivariateFunction
	encoder    Encoder
	decoder    Decoder
	encoders   []Encoder
	decoders   []Decoder
	resolution int
	last       float64
}

func NewConvertedNetwork(net MultivariateFunction, encoder Encoder, decoder Decoder) *ConvertedNetwork {
	c := &ConvertedNetwork{
		net:        net,
		encoder:    encoder,
		decoder:    decoder,
		resolution: DefaultResolution,
	}
	c.encoders = make([]Encoder, net.InputDimension())
	for i := range c.encoders {
		c.encoders[i] = encoder.Clone()
	}
	c.decoders = make([]Decoder, net.OutputDimension())
	for i := range c.decoders {
		c.decoders[i] = decoder.Clone()
	}
	return c
}

func (c *ConvertedNetwork) InputDimension() int           { return c.net.InputDimension() }
func (c *ConvertedNetwork) OutputDimension() int          { return c.net.OutputDimension() }
func (c *ConvertedNetwork) Network() MultivariateFunction { return c.net }

func (c *ConvertedNetwork) Apply(t float64, input []float64) ([]float64, error) {
	if err := nn.CheckInput(c, input); err != nil {
		return nil, err
	}
	w := Window{Start: c.last, End: t, Resolution: c.resolution}
	c.last = t
	trains := make([]SpikeTrain, len(input))
	for i, v := range input {
		trains[i] = c.encoders[i].Encode(v, w)
	}
	outTrains, err := c.net.Apply(t, trains)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(outTrains))
	for i, train := range outTrains {
		out[i] = c.decoders[i].Decode(train, w)
	}
	return out, nil
}

func (c *ConvertedNetwork) Clone() nn.Function {
	return NewConvertedNetwork(c.net.Clone(), c.encoder, c.decoder)
}
