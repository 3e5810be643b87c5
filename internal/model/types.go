package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

type Sensor struct {
	Kind     string    `json:"kind"`
	Dims     int       `json:"dims"`
	Constant []float64 `json:"constant,omitempty"`
}

type Voxel struct {
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Sensors []Sensor `json:"sensors"`
}

// Target is a stored mapping target: a named body of sensing voxels.
type Target struct {
	VersionedRecord
	Name   string  `json:"name"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Voxels []Voxel `json:"voxels"`
}

// Run summarizes one batch of genotypes mapped through one pipeline.
type Run struct {
	VersionedRecord
	ID             string        `json:"id"`
	Pipeline       string        `json:"pipeline"`
	Target         string        `json:"target"`
	GenotypeLength int           `json:"genotype_length"`
	Requested      int           `json:"requested"`
	Succeeded      int           `json:"succeeded"`
	Failed         int           `json:"failed"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
}

// Phenotype describes the robot one genotype of a run mapped to, or the
// error it failed with.
type Phenotype struct {
	VersionedRecord
	ID         string `json:"id"`
	RunID      string `json:"run_id"`
	Index      int    `json:"index"`
	Controller string `json:"controller,omitempty"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Voxels     int    `json:"voxels"`
	Sensors    int    `json:"sensors"`
	Minimap    string `json:"minimap,omitempty"`
	Error      string `json:"error,omitempty"`
}
