package grammar

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"morphogen/internal/nn"
)

const (
	num       = `\d+(?:\.\d+)?`
	signedNum = `-?\d+(?:\.\d+)?`
	lifParams = `(?:-(?P<rest>` + signedNum + `)-(?P<thresh>` + signedNum + `)-(?P<lambda>` + num + `)(?:-(?P<theta>` + num + `))?)?`
	izParams  = `(?:-(?P<iz>regular_spiking_params))?`
	convs     = `-(?P<iConv>unif|unif_mem)-(?P<iFreq>` + num + `)-(?P<oConv>avg|avg_mem)(?:-(?P<oMem>\d+))?-(?P<oFreq>` + num + `)`
)

// params holds the named groups of a match; absent optional groups are
// missing.
type params map[string]string

func (p params) has(key string) bool { return p[key] != "" }

func (p params) float(key string) float64 {
	v, _ := strconv.ParseFloat(p[key], 64)
	return v
}

func (p params) integer(key string) int {
	v, _ := strconv.Atoi(p[key])
	return v
}

type rule struct {
	kind    Kind
	pattern *regexp.Regexp
	fill    func(p params, c *Config) error
}

var ruleRegistry = struct {
	mu    sync.RWMutex
	rules []rule
}{}

func init() {
	initializeRules()
}

func register(kind Kind, pattern string, fill func(p params, c *Config) error) {
	ruleRegistry.mu.Lock()
	defer ruleRegistry.mu.Unlock()
	ruleRegistry.rules = append(ruleRegistry.rules, rule{
		kind:    kind,
		pattern: regexp.MustCompile("^" + pattern + "$"),
		fill:    fill,
	})
}

func none(params, *Config) error { return nil }

func signals(p params, c *Config) error {
	c.Signals = p.integer("signals")
	return nil
}

func sizing(p params, c *Config) {
	c.Ratio = p.float("ratio")
	c.Layers = p.integer("layers")
}

func converters(p params, c *Config) error {
	c.Converters = ConverterSpec{
		Encoder:         p["iConv"],
		InputFrequency:  p.float("iFreq"),
		Decoder:         p["oConv"],
		Memory:          p.integer("oMem"),
		OutputFrequency: p.float("oFreq"),
	}
	return nil
}

func neuron(p params, c *Config) error {
	c.Neuron = NeuronSpec{Model: p["spike"], Izhikevich: p["iz"]}
	if p.has("rest") {
		c.Neuron.HasLIF = true
		c.Neuron.Rest = p.float("rest")
		c.Neuron.Threshold = p.float("thresh")
		c.Neuron.Lambda = p.float("lambda")
	}
	if p.has("theta") {
		c.Neuron.HasTheta = true
		c.Neuron.Theta = p.float("theta")
	}
	return nil
}

func initializeRules() {
	register(KindBinary, `binary-(?P<value>`+num+`)`, func(p params, c *Config) error {
		c.Value = p.float("value")
		return nil
	})
	register(KindTernary, `ternary-(?P<value>`+num+`)`, func(p params, c *Config) error {
		c.Value = p.float("value")
		return nil
	})
	register(KindFixedCentralized, `fixedCentralized`, none)
	register(KindFixedHomoDist, `fixedHomoDist-(?P<signals>\d+)`, signals)
	register(KindFixedHomoNonDirDist, `fixedHomoNonDirDist-(?P<signals>\d+)`, signals)
	register(KindFixedHeteroDist, `fixedHeteroDist-(?P<signals>\d+)`, signals)
	spiking := func(p params, c *Config) error {
		if err := signals(p, c); err != nil {
			return err
		}
		return converters(p, c)
	}
	register(KindFixedHomoQuantSpikeDist, `fixedHomoQuantSpikeDist-(?P<signals>\d+)`+convs, spiking)
	register(KindFixedHomoQuantSpikeNonDirDist, `fixedHomoQuantSpikeNonDirDist-(?P<signals>\d+)`+convs, spiking)
	register(KindFixedHeteroQuantSpikeDist, `fixedHeteroQuantSpikeDist-(?P<signals>\d+)`+convs, spiking)
	frequency := func(p params, c *Config) error {
		c.Frequency = p.float("f")
		return nil
	}
	register(KindFixedPhasesFunct, `fixedPhasesFunct-(?P<f>\d+)`, frequency)
	register(KindFixedPhases, `fixedPhases-(?P<f>\d+)`, frequency)
	register(KindFixedPhasesAndFrequencies, `fixedPhasesAndFrequencies`, none)
	register(KindBodySin, `bodySin-(?P<fullness>`+num+`)-(?P<minF>`+num+`)-(?P<maxF>`+num+`)`, func(p params, c *Config) error {
		c.Fullness = p.float("fullness")
		c.MinFreq = p.float("minF")
		c.MaxFreq = p.float("maxF")
		if c.MinFreq > c.MaxFreq {
			return fmt.Errorf("minimum frequency %g above maximum %g", c.MinFreq, c.MaxFreq)
		}
		return nil
	})
	register(KindBodyAndHomoDist, `bodyAndHomoDist-(?P<fullness>`+num+`)-(?P<signals>\d+)-(?P<layers>\d+)`, func(p params, c *Config) error {
		c.Fullness = p.float("fullness")
		c.Signals = p.integer("signals")
		c.Layers = p.integer("layers")
		return nil
	})
	register(KindSensorAndBodyAndHomoDist, `sensorAndBodyAndHomoDist-(?P<fullness>`+num+`)-(?P<signals>\d+)-(?P<layers>\d+)-(?P<position>t|f)`, func(p params, c *Config) error {
		c.Fullness = p.float("fullness")
		c.Signals = p.integer("signals")
		c.Layers = p.integer("layers")
		c.Positions = p["position"] == "t"
		return nil
	})
	register(KindSensorCentralized, `sensorCentralized-(?P<layers>\d+)`, func(p params, c *Config) error {
		c.Layers = p.integer("layers")
		return nil
	})
	register(KindMLP, `MLP-(?P<ratio>`+num+`)-(?P<layers>\d+)(?:-(?P<act>sin|tanh|sigmoid|relu))?`, func(p params, c *Config) error {
		sizing(p, c)
		c.Activation = p["act"]
		if c.Activation == "" {
			c.Activation = nn.DefaultActivation
		}
		return nil
	})
	register(KindPruningMLP, `pMLP-(?P<ratio>`+num+`)-(?P<layers>\d+)-(?P<act>sin|tanh|sigmoid|relu)-(?P<time>`+num+`)-(?P<rate>0(?:\.\d+)?)-(?P<criterion>weight|abs_signal_mean|random)`, func(p params, c *Config) error {
		sizing(p, c)
		c.Activation = p["act"]
		criterion, err := nn.ParsePruningCriterion(p["criterion"])
		if err != nil {
			return err
		}
		c.Pruning = nn.PruningSchedule{Time: p.float("time"), Rate: p.float("rate"), Criterion: criterion}
		return nil
	})
	register(KindQMSNd, `QMSNd-(?P<ratio>`+num+`)-(?P<layers>\d+)-(?P<spike>lif|iz|lif_h)`+lifParams+izParams, func(p params, c *Config) error {
		sizing(p, c)
		return neuron(p, c)
	})
	register(KindQMSN, `QMSN-(?P<ratio>`+num+`)-(?P<layers>\d+)-(?P<spike>lif|iz|lif_h|lif_h_output|lif_h_io)`+lifParams+izParams+convs, func(p params, c *Config) error {
		sizing(p, c)
		if err := neuron(p, c); err != nil {
			return err
		}
		return converters(p, c)
	})
	register(KindDirectNumGrid, `directNumGrid`, none)
	register(KindFunctionNumGrid, `functionNumGrid`, none)
	inner := func(p params, c *Config) error {
		in, err := Parse(p["inner"])
		if err != nil {
			return err
		}
		c.Inner = &in
		return nil
	}
	register(KindFunctionGrid, `fGrid-(?P<inner>.+)`, inner)
	register(KindSpikingFunctionGrid, `snnQuantFuncGrid-(?P<inner>.+)`, inner)
}

// Parse turns a single stage name into its Config.
func Parse(name string) (Config, error) {
	ruleRegistry.mu.RLock()
	rules := ruleRegistry.rules
	ruleRegistry.mu.RUnlock()
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		p := params{}
		for i, group := range r.pattern.SubexpNames() {
			if group != "" && m[i] != "" {
				p[group] = m[i]
			}
		}
		c := Config{Kind: r.kind, Name: name}
		if err := r.fill(p, &c); err != nil {
			return Config{}, &UnsupportedConfigurationError{Name: name, Reason: err.Error()}
		}
		return c, nil
	}
	return Config{}, &UnsupportedConfigurationError{Name: name}
}

// Patterns lists every accepted name pattern, by kind.
func Patterns() map[Kind]string {
	ruleRegistry.mu.RLock()
	defer ruleRegistry.mu.RUnlock()
	out := make(map[Kind]string, len(ruleRegistry.rules))
	for _, r := range ruleRegistry.rules {
		s := r.pattern.String()
		out[r.kind] = s[1 : len(s)-1]
	}
	return out
}
