package map2rec

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	SupportedSchemaVersion = 1
	SupportedCodecVersion  = 1
)

var ErrRecordVersionMismatch = errors.New("record version mismatch")

type RecordEnvelope struct {
	SchemaVersion int             `json:"schema_version"`
	CodecVersion  int             `json:"codec_version"`
	Kind          string          `json:"kind"`
	Payload       json.RawMessage `json:"payload"`
}

func DefaultRecord(kind string) (any, error) {
	switch kind {
	case "sensor":
		return defaultSensorRecord(), nil
	case "voxel":
		return defaultVoxelRecord(), nil
	case "target":
		return defaultTargetRecord(), nil
	case "request":
		return defaultRequestRecord(), nil
	default:
		return nil, ErrUnsupportedKind
	}
}

func EncodeRecord(kind string, record any) ([]byte, error) {
	if _, err := DefaultRecord(kind); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	env := RecordEnvelope{
		SchemaVersion: SupportedSchemaVersion,
		CodecVersion:  SupportedCodecVersion,
		Kind:          kind,
		Payload:       payload,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", kind, err)
	}
	return data, nil
}

func DecodeRecord(data []byte) (string, any, error) {
	var env RecordEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, err
	}
	if env.SchemaVersion != SupportedSchemaVersion || env.CodecVersion != SupportedCodecVersion {
		return "", nil, fmt.Errorf("%w: schema=%d codec=%d", ErrRecordVersionMismatch, env.SchemaVersion, env.CodecVersion)
	}

	record, err := decodeRecordPayload(env.Kind, env.Payload)
	if err != nil {
		return "", nil, err
	}
	return env.Kind, record, nil
}

// decodeRecordPayload fills the default record of kind from payload, so
// fields missing from the payload keep their defaults.
func decodeRecordPayload(kind string, payload []byte) (any, error) {
	switch kind {
	case "sensor":
		return decodeInto(defaultSensorRecord(), payload)
	case "voxel":
		return decodeInto(defaultVoxelRecord(), payload)
	case "target":
		return decodeInto(defaultTargetRecord(), payload)
	case "request":
		return decodeInto(defaultRequestRecord(), payload)
	default:
		return nil, ErrUnsupportedKind
	}
}

func decodeInto[T any](rec T, payload []byte) (T, error) {
	if err := json.Unmarshal(payload, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}
