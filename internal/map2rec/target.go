package map2rec

import (
	"errors"
	"fmt"

	"morphogen/internal/grid"
	"morphogen/internal/model"
	"morphogen/internal/robot"
	"morphogen/internal/shape"
)

var ErrInvalidTarget = errors.New("invalid target")

// Body resolves a target record into a robot body. Named shapes take
// precedence over explicit voxels.
func Body(rec TargetRecord) (robot.Body, error) {
	if rec.Shape != "" {
		sensors := rec.Sensors
		if sensors == "" {
			sensors = DefaultSensorConfig
		}
		return shape.Build(rec.Shape, sensors)
	}
	if rec.Width <= 0 || rec.Height <= 0 {
		return nil, fmt.Errorf("%w %q: size %dx%d", ErrInvalidTarget, rec.Name, rec.Width, rec.Height)
	}
	if len(rec.Voxels) == 0 {
		return nil, fmt.Errorf("%w %q: no voxels", ErrInvalidTarget, rec.Name)
	}
	body := grid.New[robot.Voxel](rec.Width, rec.Height)
	for _, v := range rec.Voxels {
		if !body.InBounds(v.X, v.Y) {
			return nil, fmt.Errorf("%w %q: voxel (%d,%d) out of bounds", ErrInvalidTarget, rec.Name, v.X, v.Y)
		}
		if body.Present(v.X, v.Y) {
			return nil, fmt.Errorf("%w %q: duplicate voxel (%d,%d)", ErrInvalidTarget, rec.Name, v.X, v.Y)
		}
		sensors := make([]robot.Sensor, 0, len(v.Sensors))
		for _, s := range v.Sensors {
			sensor, err := toSensor(s)
			if err != nil {
				return nil, fmt.Errorf("%w %q: voxel (%d,%d): %w", ErrInvalidTarget, rec.Name, v.X, v.Y, err)
			}
			sensors = append(sensors, sensor)
		}
		body.Set(v.X, v.Y, robot.NewVoxel(sensors...))
	}
	return body, nil
}

func toSensor(s SensorRecord) (robot.Sensor, error) {
	if s.Kind == robot.ConstantKind {
		return robot.NewConstantSensor(s.Constant...), nil
	}
	if s.Dims <= 0 {
		return shape.NewSensor(s.Kind)
	}
	return robot.Sensor{Kind: s.Kind, Dims: s.Dims, Constant: append([]float64(nil), s.Constant...)}, nil
}

// FromBody describes a body as an explicit target record.
func FromBody(name string, body robot.Body) TargetRecord {
	out := TargetRecord{Name: name, Width: body.W(), Height: body.H()}
	for _, e := range body.Entries() {
		v := VoxelRecord{X: e.X, Y: e.Y, Sensors: make([]SensorRecord, 0, len(e.Value.Sensors))}
		for _, s := range e.Value.Sensors {
			v.Sensors = append(v.Sensors, SensorRecord{Kind: s.Kind, Dims: s.Dims, Constant: append([]float64(nil), s.Constant...)})
		}
		out.Voxels = append(out.Voxels, v)
	}
	return out
}

// ToModel resolves a target record into its persisted form.
func ToModel(rec TargetRecord) (model.Target, error) {
	body, err := Body(rec)
	if err != nil {
		return model.Target{}, err
	}
	explicit := FromBody(rec.Name, body)
	out := model.Target{
		VersionedRecord: model.VersionedRecord{SchemaVersion: SupportedSchemaVersion, CodecVersion: SupportedCodecVersion},
		Name:            rec.Name,
		Width:           explicit.Width,
		Height:          explicit.Height,
		Voxels:          make([]model.Voxel, 0, len(explicit.Voxels)),
	}
	for _, v := range explicit.Voxels {
		mv := model.Voxel{X: v.X, Y: v.Y, Sensors: make([]model.Sensor, 0, len(v.Sensors))}
		for _, s := range v.Sensors {
			mv.Sensors = append(mv.Sensors, model.Sensor{Kind: s.Kind, Dims: s.Dims, Constant: s.Constant})
		}
		out.Voxels = append(out.Voxels, mv)
	}
	return out, nil
}

// FromModel turns a persisted target back into an explicit record.
func FromModel(t model.Target) TargetRecord {
	out := TargetRecord{Name: t.Name, Width: t.Width, Height: t.Height, Voxels: make([]VoxelRecord, 0, len(t.Voxels))}
	for _, v := range t.Voxels {
		rv := VoxelRecord{X: v.X, Y: v.Y, Sensors: make([]SensorRecord, 0, len(v.Sensors))}
		for _, s := range v.Sensors {
			rv.Sensors = append(rv.Sensors, SensorRecord{Kind: s.Kind, Dims: s.Dims, Constant: append([]float64(nil), s.Constant...)})
		}
		out.Voxels = append(out.Voxels, rv)
	}
	return out
}
