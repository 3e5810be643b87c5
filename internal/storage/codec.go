package storage

import (
	"encoding/json"
	"errors"

	"morphogen/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// Versioned is the record header written by this codec.
func Versioned() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodeTarget(t model.Target) ([]byte, error) {
	return json.Marshal(t)
}

func DecodeTarget(data []byte) (model.Target, error) {
	var target model.Target
	if err := json.Unmarshal(data, &target); err != nil {
		return model.Target{}, err
	}
	if err := checkVersion(target.VersionedRecord); err != nil {
		return model.Target{}, err
	}
	return target, nil
}

func EncodeRun(r model.Run) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.Run, error) {
	var run model.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return model.Run{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.Run{}, err
	}
	return run, nil
}

func EncodePhenotypes(records []model.Phenotype) ([]byte, error) {
	return json.Marshal(records)
}

func DecodePhenotypes(data []byte) ([]model.Phenotype, error) {
	var records []model.Phenotype
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	for _, record := range records {
		if err := checkVersion(record.VersionedRecord); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
