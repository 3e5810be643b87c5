package snn

import (
	"fmt"
	"math"

	"morphogen/internal/nn"
)

const (
	DefaultMaxFrequency = 50.0
	DefaultMemory       = 5
)

// Window is the time span of one control step, divided into Resolution
// sub-steps.
type Window struct {
	Start      float64
	End        float64
	Resolution int
}

func (w Window) Duration() float64 { return w.End - w.Start }

// slot maps an absolute time inside the window to its sub-step index.
func (w Window) slot(t float64) int {
	i := int((t - w.Start) / w.Duration() * float64(w.Resolution))
	return min(max(i, 0), w.Resolution-1)
}

// Encoder turns a value in [-1, 1] into a spike train over a window.
type Encoder interface {
	Encode(value float64, w Window) SpikeTrain
	Clone() Encoder
}

// Decoder turns a spike train over a window into a value in [-1, 1].
type Decoder interface {
	Decode(train SpikeTrain, w Window) float64
	Clone() Decoder
}

// UniformEncoder emits evenly spaced spikes at a frequency growing linearly
// with the value, from MinFrequency at -1 to MaxFrequency at 1. Without
// memory the spike phase restarts at every window; with memory it continues
// from the last emitted spike.
type UniformEncoder struct {
	MinFrequency float64
	MaxFrequency float64
	Memory       bool

	started   bool
	lastSpike float64
}

func NewUniformEncoder(maxFrequency float64, memory bool) *UniformEncoder {
	if maxFrequency <= 0 {
		maxFrequency = DefaultMaxFrequency
	}
	return &UniformEncoder{MaxFrequency: maxFrequency, Memory: memory}
}

func (e *UniformEncoder) frequency(value float64) float64 {
	return e.MinFrequency + (e.MaxFrequency-e.MinFrequency)*(nn.Clip(value)+1)/2
}

func (e *UniformEncoder) Encode(value float64, w Window) SpikeTrain {
	train := make(SpikeTrain, w.Resolution)
	f := e.frequency(value)
	if w.Duration() <= 0 || f <= 0 || w.Resolution <= 0 {
		return train
	}
	period := 1 / f
	next := w.Start
	if e.Memory && e.started {
		next = math.Max(e.lastSpike+period, w.Start)
	}
	for k := 0; ; k++ {
		ts := next + float64(k)*period
		if ts >= w.End {
			break
		}
		train[w.slot(ts)]++
		e.lastSpike = ts
		e.started = true
	}
	return train
}

func (e *UniformEncoder) Clone() Encoder {
	return &UniformEncoder{MinFrequency: e.MinFrequency, MaxFrequency: e.MaxFrequency, Memory: e.Memory}
}

// AverageDecoder maps the mean spike frequency of the window from
// [MinFrequency, MaxFrequency] onto [-1, 1]. Empty windows decode to 0.
type AverageDecoder struct {
	MinFrequency float64
	MaxFrequency float64
}

func NewAverageDecoder(maxFrequency float64) *AverageDecoder {
	if maxFrequency <= 0 {
		maxFrequency = DefaultMaxFrequency
	}
	return &AverageDecoder{MaxFrequency: maxFrequency}
}

func (d *AverageDecoder) Decode(train SpikeTrain, w Window) float64 {
	if w.Duration() <= 0 {
		return 0
	}
	return scaleFrequency(float64(train.Count())/w.Duration(), d.MinFrequency, d.MaxFrequency)
}

func (d *AverageDecoder) Clone() Decoder {
	return &AverageDecoder{MinFrequency: d.MinFrequency, MaxFrequency: d.MaxFrequency}
}

// MovingAverageDecoder averages the spike frequency over the last Memory
// windows.
type MovingAverageDecoder struct {
	MinFrequency float64
	MaxFrequency float64
	Memory       int

	counts    []int
	durations []float64
}

func NewMovingAverageDecoder(maxFrequency float64, memory int) *MovingAverageDecoder {
	if maxFrequency <= 0 {
		maxFrequency = DefaultMaxFrequency
	}
	if memory <= 0 {
		memory = DefaultMemory
	}
	return &MovingAverageDecoder{MaxFrequency: maxFrequency, Memory: memory}
}

func (d *MovingAverageDecoder) Decode(train SpikeTrain, w Window) float64 {
	if w.Duration() > 0 {
		d.counts = append(d.counts, train.Count())
		d.durations = append(d.durations, w.Duration())
		if len(d.counts) > d.Memory {
			d.counts = d.counts[1:]
			d.durations = d.durations[1:]
		}
	}
	total, span := 0, 0.0
	for i := range d.counts {
		total += d.counts[i]
		span += d.durations[i]
	}
	if span <= 0 {
		return 0
	}
	return scaleFrequency(float64(total)/span, d.MinFrequency, d.MaxFrequency)
}

func (d *MovingAverageDecoder) Clone() Decoder {
	return &MovingAverageDecoder{MinFrequency: d.MinFrequency, MaxFrequency: d.MaxFrequency, Memory: d.Memory}
}

func scaleFrequency(f, minF, maxF float64) float64 {
	return nn.ScaleValue(nn.Sat(f, maxF, minF), maxF, minF)
}

// ParseEncoder resolves an encoder name (unif, unif_mem).
func ParseEncoder(name string, maxFrequency float64) (Encoder, error) {
	switch name {
	case "unif":
		return NewUniformEncoder(maxFrequency, false), nil
	case "unif_mem":
		return NewUniformEncoder(maxFrequency, true), nil
	}
	return nil, fmt.Errorf("unsupported spike encoder: %s", name)
}

// ParseDecoder resolves a decoder name (avg, avg_mem).
func ParseDecoder(name string, maxFrequency float64, memory int) (Decoder, error) {
	switch name {
	case "avg":
		return NewAverageDecoder(maxFrequency), nil
	case "avg_mem":
		return NewMovingAverageDecoder(maxFrequency, memory), nil
	}
	return nil, fmt.Errorf("unsupported spike decoder: %s", name)
}
