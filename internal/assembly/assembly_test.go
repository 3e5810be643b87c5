package assembly

import (
	"errors"
	"math"
	"strings"
	"testing"

	"morphogen/internal/builder"
	"morphogen/internal/grid"
	"morphogen/internal/nn"
	"morphogen/internal/phenotype"
	"morphogen/internal/robot"
	"morphogen/internal/snn"
)

// worm returns a 1-high robot with one cell per entry of dims, each voxel
// having a single sensor of that dimension.
func worm(dims ...int) *robot.Robot {
	b := grid.Generate(len(dims), 1, func(x, _ int) (robot.Voxel, bool) {
		return robot.NewVoxel(robot.Sensor{Kind: "s", Dims: dims[x]}), true
	})
	return robot.Prototype(b)
}

// choosy returns a 1-high robot whose voxels all carry sensors a and b.
func choosy(n int) *robot.Robot {
	b := grid.Generate(n, 1, func(_, _ int) (robot.Voxel, bool) {
		return robot.NewVoxel(robot.Sensor{Kind: "a", Dims: 1}, robot.Sensor{Kind: "b", Dims: 1}), true
	})
	return robot.Prototype(b)
}

func TestFixedCentralized(t *testing.T) {
	target := worm(2, 3)
	b := FixedCentralized()
	example, err := b.ExampleFor(target)
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	if example.InputDimension() != 5 || example.OutputDimension() != 2 {
		t.Fatalf("unexpected arity %d->%d", example.InputDimension(), example.OutputDimension())
	}
	r, err := builder.Apply(b, target, example)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if r.Controller.Kind() != "centralized" {
		t.Fatalf("unexpected controller %q", r.Controller.Kind())
	}
	if _, err := builder.Apply(b, target, nn.Function(nn.NewPrototype(4, 2))); !errors.Is(err, builder.ErrShapeMismatch) {
		t.Fatalf("expected mismatch, got=%v", err)
	}
	if _, err := b.BuildFor(robot.Prototype(grid.New[robot.Voxel](2, 2))); !errors.Is(err, builder.ErrEmptyTarget) {
		t.Fatalf("expected empty target, got=%v", err)
	}
}

func TestFixedHomoDistributedRejectsMixedSensors(t *testing.T) {
	_, err := FixedHomoDistributed(1).BuildFor(worm(3, 4))
	var mismatch *builder.CellShapeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected cell shape mismatch, got=%v", err)
	}
	msg := err.Error()
	for _, want := range []string{"(0,0)", "(1,0)", "3 inputs", "have 4"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
	if _, err := FixedHomoDistributed(1).ExampleFor(worm(3, 4)); !errors.Is(err, builder.ErrShapeMismatch) {
		t.Fatalf("expected example to fail too, got=%v", err)
	}
}

func TestFixedHomoDistributedArity(t *testing.T) {
	target := worm(3, 3, 3)
	directional, err := FixedHomoDistributed(2).ExampleFor(target)
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	if directional.InputDimension() != 11 || directional.OutputDimension() != 9 {
		t.Fatalf("unexpected directional arity %d->%d", directional.InputDimension(), directional.OutputDimension())
	}
	broadcast, _ := FixedHomoNonDirectionalDistributed(2).ExampleFor(target)
	if broadcast.InputDimension() != 11 || broadcast.OutputDimension() != 3 {
		t.Fatalf("unexpected non-directional arity %d->%d", broadcast.InputDimension(), broadcast.OutputDimension())
	}
	r, err := builder.Apply(FixedHomoDistributed(2), target, directional)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	d, ok := r.Controller.(*robot.DistributedSensing)
	if !ok {
		t.Fatalf("expected distributed controller, got=%T", r.Controller)
	}
	if d.Functions().Count() != 3 || !d.Directional() || d.Signals() != 2 {
		t.Fatalf("unexpected controller: %d functions", d.Functions().Count())
	}
	if _, err := r.Step(0.1, r.IdleReadings()); err != nil {
		t.Fatalf("step: %v", err)
	}
}

func TestFixedHeteroDistributed(t *testing.T) {
	target := worm(2, 4)
	b := FixedHeteroDistributed(1)
	example, err := b.ExampleFor(target)
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	if example.Value(0, 0).InputDimension() != 6 || example.Value(1, 0).InputDimension() != 8 {
		t.Fatalf("unexpected per-voxel inputs: %v", example.Entries())
	}
	if _, err := builder.Apply(b, target, example); err != nil {
		t.Fatalf("apply: %v", err)
	}
	swapped := grid.New[nn.Function](2, 1)
	swapped.Set(0, 0, example.Value(1, 0))
	swapped.Set(1, 0, example.Value(0, 0))
	_, err = builder.Apply(b, target, swapped)
	if !errors.Is(err, builder.ErrShapeMismatch) || !strings.Contains(err.Error(), "(0,0)") {
		t.Fatalf("expected mismatch at (0,0), got=%v", err)
	}
	if _, err := builder.Apply(b, target, grid.New[nn.Function](3, 1)); err == nil {
		t.Fatal("expected wrong grid size error")
	}
}

func TestSpikingDistributed(t *testing.T) {
	target := worm(2, 2)
	conv := Converters{Encoder: snn.NewUniformEncoder(0, true), Decoder: snn.NewMovingAverageDecoder(0, 0)}
	homo := FixedHomoSpikingDistributed(1, false, conv)
	example, err := homo.ExampleFor(target)
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	if example.InputDimension() != 6 || example.OutputDimension() != 2 {
		t.Fatalf("unexpected arity %d->%d", example.InputDimension(), example.OutputDimension())
	}
	r, err := builder.Apply(homo, target, example)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if r.Controller.Kind() != "spiking-distributed-nondirectional" {
		t.Fatalf("unexpected controller %q", r.Controller.Kind())
	}
	hetero := FixedHeteroSpikingDistributed(1, Converters{})
	functions, err := hetero.ExampleFor(target)
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	if _, err := builder.Apply(hetero, target, functions); err != nil {
		t.Fatalf("apply: %v", err)
	}
}

func xCoordinate(_ float64, in []float64) []float64 { return []float64{in[0]} }

func TestBodyAndHomoDistributed(t *testing.T) {
	target := worm(1, 1, 1)
	b := BodyAndHomoDistributed(1, 50)
	example, err := b.ExampleFor(target)
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	if len(example) != 2 || example[1].InputDimension() != 5 || example[1].OutputDimension() != 5 {
		t.Fatalf("unexpected example: %v", example)
	}
	field := nn.Stateless{In: 2, Out: 1, Fn: xCoordinate}
	r, err := builder.Apply(b, target, []nn.Function{field, example[1]})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if r.Body.W() != 2 || r.Body.Count() != 2 {
		t.Fatalf("expected the two right voxels, got %dx%d with %d", r.Body.W(), r.Body.H(), r.Body.Count())
	}
	empty := nn.Constant(2, -1)
	r, err = builder.Apply(BodyAndHomoDistributed(1, 0), target, []nn.Function{empty, example[1]})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if r.Body.W() != 1 || r.Body.H() != 1 || r.Body.Value(0, 0).InputDimension() != 1 {
		t.Fatalf("expected single prototype voxel, got=%v", r.Body.Entries())
	}
	if _, err := builder.Apply(b, target, example[:1]); !errors.Is(err, builder.ErrShapeMismatch) {
		t.Fatalf("expected pair mismatch, got=%v", err)
	}
	if _, err := builder.Apply(b, target, []nn.Function{nn.NewPrototype(2, 2), example[1]}); !errors.Is(err, builder.ErrShapeMismatch) {
		t.Fatalf("expected body arity mismatch, got=%v", err)
	}
}

// preference scores sensor a high on the right and sensor b on the left.
func preference(_ float64, in []float64) []float64 { return []float64{in[0], 1 - in[0]} }

func TestSensorAndBodyAndHomoDistributed(t *testing.T) {
	target := choosy(2)
	b := SensorAndBodyAndHomoDistributed(1, 0, true)
	example, err := b.ExampleFor(target)
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	if example[0].OutputDimension() != 2 || example[1].InputDimension() != 7 {
		t.Fatalf("unexpected example arity: body 2->%d brain %d->", example[0].OutputDimension(), example[1].InputDimension())
	}
	r, err := builder.Apply(b, target, []nn.Function{nn.Stateless{In: 2, Out: 2, Fn: preference}, example[1]})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	left, right := r.Body.Value(0, 0), r.Body.Value(1, 0)
	if left.Sensors[0].Kind != "b" || right.Sensors[0].Kind != "a" {
		t.Fatalf("unexpected sensors: %+v %+v", left, right)
	}
	if right.Sensors[1].Kind != robot.ConstantKind || right.Sensors[1].Constant[0] != 1 {
		t.Fatalf("expected position sensor, got=%+v", right.Sensors)
	}
	mixed := choosy(2)
	mixed.Body.Set(1, 0, robot.NewVoxel(robot.Sensor{Kind: "c", Dims: 3}))
	if _, err := b.BuildFor(mixed); !errors.Is(err, builder.ErrShapeMismatch) {
		t.Fatalf("expected sensor dimension mismatch, got=%v", err)
	}
	bare := robot.Prototype(grid.Filled(1, 1, robot.NewVoxel()))
	if _, err := b.BuildFor(bare); !errors.Is(err, builder.ErrEmptyTarget) {
		t.Fatalf("expected no sensors error, got=%v", err)
	}
}

func TestSensorCentralized(t *testing.T) {
	target := choosy(3)
	b := SensorCentralized()
	example, err := b.ExampleFor(target)
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	if example[1].InputDimension() != 3 || example[1].OutputDimension() != 3 {
		t.Fatalf("unexpected brain arity %d->%d", example[1].InputDimension(), example[1].OutputDimension())
	}
	r, err := builder.Apply(b, target, []nn.Function{nn.Stateless{In: 2, Out: 2, Fn: preference}, example[1]})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	kinds := ""
	for _, v := range r.Body.Values() {
		kinds += v.Sensors[0].Kind
	}
	if kinds != "baa" || r.Body.W() != 3 {
		t.Fatalf("unexpected sensor selection %q", kinds)
	}
}

func TestFixedPhases(t *testing.T) {
	target := worm(1, 1, 1)
	r, err := builder.Apply(FixedPhaseValues(1, 0.5), target, []float64{0, 1, 2})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	c := r.Controller.(*robot.TimeFunctions)
	if c.Kind() != "phase-sin" || c.Functions().Value(2, 0).Phase != 2 || c.Functions().Value(2, 0).Amplitude != 0.5 {
		t.Fatalf("unexpected sinusoids: %v", c.Functions().Entries())
	}
	if _, err := builder.Apply(FixedPhaseValues(1, 0.5), target, []float64{0, 1}); !errors.Is(err, builder.ErrShapeMismatch) {
		t.Fatalf("expected mismatch, got=%v", err)
	}

	r, err = builder.Apply(FixedPhaseFunction(1, 1), target, nn.Function(nn.Stateless{In: 2, Out: 1, Fn: xCoordinate}))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := r.Controller.(*robot.TimeFunctions).Functions().Value(1, 0).Phase; math.Abs(got-1.0/3) > 1e-12 {
		t.Fatalf("expected phase x/W, got=%f", got)
	}

	example, _ := FixedPhaseAndFrequencyValues(1).ExampleFor(target)
	if len(example) != 6 {
		t.Fatalf("expected 6 values, got=%d", len(example))
	}
	r, err = builder.Apply(FixedPhaseAndFrequencyValues(1), target, []float64{1, 0, 2, 0.5, 3, 1})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	s := r.Controller.(*robot.TimeFunctions).Functions().Value(1, 0)
	if s.Frequency != 2 || s.Phase != 0.5 {
		t.Fatalf("unexpected sinusoid: %+v", s)
	}
}

func TestBodyAndSinusoidal(t *testing.T) {
	target := worm(1, 1)
	b := BodyAndSinusoidal(0.5, 1.5, 0, []SinusoidComponent{Phase, Frequency})
	example, err := b.ExampleFor(target)
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	if len(example.Value(0, 0)) != 3 {
		t.Fatalf("expected 3 genes per cell, got=%d", len(example.Value(0, 0)))
	}
	genotype := grid.Filled(2, 1, []float64{1, 1, -1})
	r, err := builder.Apply(b, target, genotype)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	s := r.Controller.(*robot.TimeFunctions).Functions().Value(1, 0)
	if s.Frequency != 1.5 || s.Phase != 0 || s.Amplitude != 1 {
		t.Fatalf("unexpected sinusoid: %+v", s)
	}
	s = sinusoid([]float64{0}, nil, 0.5, 1.5)
	if s.Frequency != 1 || s.Phase != 0 || s.Amplitude != 1 {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if _, err := builder.Apply(b, target, grid.Filled(2, 1, []float64{1, 1})); !errors.Is(err, builder.ErrShapeMismatch) {
		t.Fatalf("expected per-cell mismatch, got=%v", err)
	}
}

func TestBodyAndHomoDistributedPipeline(t *testing.T) {
	target := worm(1, 1, 1)
	b := BodyAndHomoDistributedPipeline(1, 50, phenotype.Sizing{Ratio: 0.65, Layers: 1}, "tanh")
	example, err := b.ExampleFor(target)
	if err != nil {
		t.Fatalf("example: %v", err)
	}
	bodyExample, _ := phenotype.MLP(BodySizing, BodyActivation).ExampleFor(nn.NewPrototype(2, 1))
	brainExample, _ := phenotype.MLP(phenotype.Sizing{Ratio: 0.65, Layers: 1}, "tanh").ExampleFor(nn.NewPrototype(5, 5))
	if len(example) != len(bodyExample)+len(brainExample) {
		t.Fatalf("expected %d values, got=%d", len(bodyExample)+len(brainExample), len(example))
	}
	r, err := builder.Apply(b, target, example)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if r.Body.Count() != 3 {
		t.Fatalf("expected full body from flat field, got=%d", r.Body.Count())
	}
	if _, err := builder.Apply(b, target, example[1:]); !errors.Is(err, builder.ErrShapeMismatch) {
		t.Fatalf("expected mismatch, got=%v", err)
	}
}
