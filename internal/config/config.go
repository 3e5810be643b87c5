// Package config loads target and request files. Plain YAML and JSON
// documents are decoded into generic maps and converted by map2rec; JSON
// record envelopes written by map2rec.EncodeRecord are decoded directly.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"morphogen/internal/grammar"
	"morphogen/internal/map2rec"
)

var ErrInvalidRequest = errors.New("invalid request")

// envelopeHeader detects map2rec record envelopes among config documents.
type envelopeHeader struct {
	SchemaVersion *int            `json:"schema_version"`
	Kind          string          `json:"kind"`
	Payload       json.RawMessage `json:"payload"`
}

func isEnvelope(data []byte) bool {
	var h envelopeHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return false
	}
	return h.SchemaVersion != nil && h.Kind != "" && len(h.Payload) > 0
}

// load reads path as a record of the given map2rec kind.
func load(path, kind string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if isEnvelope(data) {
		got, rec, err := map2rec.DecodeRecord(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		if got != kind {
			return nil, fmt.Errorf("%w: got %s record, want %s", map2rec.ErrUnsupportedKind, got, kind)
		}
		return rec, nil
	}
	raw, err := parseMap(data)
	if err != nil {
		return nil, err
	}
	return map2rec.Convert(kind, raw)
}

func parseMap(data []byte) (map[string]any, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return raw, nil
}

// LoadTarget reads a target file and checks that it resolves to a body.
func LoadTarget(path string) (map2rec.TargetRecord, error) {
	rec, err := load(path, "target")
	if err != nil {
		return map2rec.TargetRecord{}, fmt.Errorf("invalid target: %w", err)
	}
	return checkTarget(rec.(map2rec.TargetRecord))
}

func ParseTarget(raw map[string]any) (map2rec.TargetRecord, error) {
	rec, err := map2rec.Convert("target", raw)
	if err != nil {
		return map2rec.TargetRecord{}, fmt.Errorf("invalid target: %w", err)
	}
	return checkTarget(rec.(map2rec.TargetRecord))
}

func checkTarget(rec map2rec.TargetRecord) (map2rec.TargetRecord, error) {
	if rec.Name == "" {
		rec.Name = rec.Shape
	}
	if _, err := map2rec.Body(rec); err != nil {
		return rec, fmt.Errorf("invalid target: %w", err)
	}
	return rec, nil
}

// LoadRequest reads a request file and validates it.
func LoadRequest(path string) (map2rec.RequestRecord, error) {
	rec, err := load(path, "request")
	if err != nil {
		return map2rec.RequestRecord{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return checkRequest(rec.(map2rec.RequestRecord))
}

func ParseRequest(raw map[string]any) (map2rec.RequestRecord, error) {
	rec, err := map2rec.Convert("request", raw)
	if err != nil {
		return map2rec.RequestRecord{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return checkRequest(rec.(map2rec.RequestRecord))
}

func checkRequest(rec map2rec.RequestRecord) (map2rec.RequestRecord, error) {
	if rec.Target.Name == "" {
		rec.Target.Name = rec.Target.Shape
	}
	if err := ValidateRequest(rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// ValidateRequest checks a request before any genotype is mapped.
func ValidateRequest(rec map2rec.RequestRecord) error {
	if strings.TrimSpace(rec.Pipeline) == "" {
		return fmt.Errorf("%w: pipeline is required", ErrInvalidRequest)
	}
	if _, err := grammar.ParsePipeline(rec.Pipeline); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if _, err := map2rec.Body(rec.Target); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if rec.Count <= 0 && len(rec.Genotypes) == 0 {
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidRequest, rec.Count)
	}
	if rec.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidRequest, rec.Workers)
	}
	switch rec.Store {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("%w: unsupported store %q", ErrInvalidRequest, rec.Store)
	}
	return nil
}
