package map2rec

// DefaultSensorConfig sensorizes named shapes given without a sensor
// configuration.
const DefaultSensorConfig = "uniform-t+a+vxy"

type SensorRecord struct {
	Kind     string    `json:"kind"`
	Dims     int       `json:"dims,omitempty"`
	Constant []float64 `json:"constant,omitempty"`
}

type VoxelRecord struct {
	X       int            `json:"x"`
	Y       int            `json:"y"`
	Sensors []SensorRecord `json:"sensors"`
}

// TargetRecord describes a body either by a named shape and sensor
// configuration or by an explicit list of voxels.
type TargetRecord struct {
	Name    string        `json:"name"`
	Shape   string        `json:"shape,omitempty"`
	Sensors string        `json:"sensors,omitempty"`
	Width   int           `json:"width,omitempty"`
	Height  int           `json:"height,omitempty"`
	Voxels  []VoxelRecord `json:"voxels,omitempty"`
}

// RequestRecord asks for a batch of genotypes to be mapped through one
// pipeline onto one target. Explicit Genotypes are flat real vectors; when
// absent, Count random genotypes are sampled from Seed.
type RequestRecord struct {
	Pipeline  string       `json:"pipeline"`
	Target    TargetRecord `json:"target"`
	Count     int          `json:"count"`
	Seed      int64        `json:"seed"`
	Genotypes [][]float64  `json:"genotypes,omitempty"`
	Workers   int          `json:"workers"`
	Store     string       `json:"store"`
}

func defaultSensorRecord() SensorRecord {
	return SensorRecord{}
}

func defaultVoxelRecord() VoxelRecord {
	return VoxelRecord{Sensors: []SensorRecord{}}
}

func defaultTargetRecord() TargetRecord {
	return TargetRecord{}
}

func defaultRequestRecord() RequestRecord {
	return RequestRecord{
		Target:  defaultTargetRecord(),
		Count:   1,
		Seed:    1,
		Workers: 1,
		Store:   "memory",
	}
}
