package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"morphogen/internal/map2rec"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTargetYAML(t *testing.T) {
	path := writeFile(t, "target.yaml", `
name: corner
width: 2
height: 2
voxels:
  - x: 0
    y: 0
    sensors: [t, a]
  - x: 1
    y: 0
    sensors:
      - kind: vxy
  - x: 0
    y: 1
    sensors: []
`)
	rec, err := LoadTarget(path)
	require.NoError(t, err)
	require.Equal(t, "corner", rec.Name)
	require.Len(t, rec.Voxels, 3)
	require.Equal(t, "vxy", rec.Voxels[1].Sensors[0].Kind)
}

func TestLoadTargetJSONShape(t *testing.T) {
	path := writeFile(t, "target.json", `{"shape": "comb-5x2", "sensors": "uniform-a"}`)
	rec, err := LoadTarget(path)
	require.NoError(t, err)
	require.Equal(t, "comb-5x2", rec.Name)
}

func TestLoadTargetRejectsInvalid(t *testing.T) {
	_, err := LoadTarget(writeFile(t, "bad.yaml", "shape: blob-2x2\n"))
	require.Error(t, err)

	_, err = LoadTarget(writeFile(t, "broken.yaml", "name: [unclosed\n"))
	require.ErrorContains(t, err, "failed to parse YAML")

	_, err = LoadTarget(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed to read config")
}

func TestLoadRequest(t *testing.T) {
	path := writeFile(t, "request.yaml", `
pipeline: fixedHomoDist-1<MLP-1-1
target: worm-5x1
count: 8
seed: 3
workers: 4
`)
	rec, err := LoadRequest(path)
	require.NoError(t, err)
	require.Equal(t, "fixedHomoDist-1<MLP-1-1", rec.Pipeline)
	require.Equal(t, "worm-5x1", rec.Target.Name)
	require.Equal(t, 8, rec.Count)
	require.EqualValues(t, 3, rec.Seed)
	require.Equal(t, 4, rec.Workers)
	require.Equal(t, "memory", rec.Store)
}

func TestParseRequestValidation(t *testing.T) {
	cases := map[string]map[string]any{
		"no pipeline":  {"target": "worm-3x1"},
		"bad pipeline": {"pipeline": "nothing-like-this", "target": "worm-3x1"},
		"bad target":   {"pipeline": "fixedPhases-1", "target": "blob-3x1"},
		"no count":     {"pipeline": "fixedPhases-1", "target": "worm-3x1", "count": 0},
		"no workers":   {"pipeline": "fixedPhases-1", "target": "worm-3x1", "workers": 0},
		"bad store":    {"pipeline": "fixedPhases-1", "target": "worm-3x1", "store": "redis"},
		"wrong type":   {"pipeline": 3},
	}
	for name, raw := range cases {
		_, err := ParseRequest(raw)
		require.ErrorIs(t, err, ErrInvalidRequest, name)
	}

	rec, err := ParseRequest(map[string]any{
		"pipeline":  "fixedPhases-1",
		"target":    "worm-3x1",
		"count":     0,
		"genotypes": []any{[]any{0.1, 0.2, 0.3}},
	})
	require.NoError(t, err)
	require.Len(t, rec.Genotypes, 1)
}

func TestLoadRecordEnvelopes(t *testing.T) {
	data, err := map2rec.EncodeRecord("target", map2rec.TargetRecord{Shape: "biped-4x3", Sensors: "uniform-t"})
	require.NoError(t, err)
	target, err := LoadTarget(writeFile(t, "target.json", string(data)))
	require.NoError(t, err)
	require.Equal(t, "biped-4x3", target.Name)
	require.Equal(t, "uniform-t", target.Sensors)

	data, err = map2rec.EncodeRecord("request", map[string]any{"pipeline": "fixedPhases-1", "target": map[string]any{"shape": "worm-3x1"}})
	require.NoError(t, err)
	req, err := LoadRequest(writeFile(t, "request.json", string(data)))
	require.NoError(t, err)
	require.Equal(t, "worm-3x1", req.Target.Name)
	require.Equal(t, 1, req.Count)
	require.Equal(t, "memory", req.Store)

	_, err = LoadRequest(writeFile(t, "target-as-request.json", string(mustEncodeTarget(t))))
	require.ErrorIs(t, err, map2rec.ErrUnsupportedKind)
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = LoadTarget(writeFile(t, "future.json", `{"schema_version":9,"codec_version":1,"kind":"target","payload":{}}`))
	require.ErrorIs(t, err, map2rec.ErrRecordVersionMismatch)
}

func mustEncodeTarget(t *testing.T) []byte {
	t.Helper()
	data, err := map2rec.EncodeRecord("target", map2rec.TargetRecord{Shape: "worm-2x1"})
	require.NoError(t, err)
	return data
}
