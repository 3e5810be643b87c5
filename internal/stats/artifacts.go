// Package stats summarizes mapping runs and writes their artifacts.
package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"morphogen/internal/model"
)

// Summary aggregates the phenotype records of one run.
type Summary struct {
	Total        int            `json:"total"`
	Failed       int            `json:"failed"`
	ByController map[string]int `json:"by_controller"`
	MinVoxels    int            `json:"min_voxels"`
	MaxVoxels    int            `json:"max_voxels"`
	MeanVoxels   float64        `json:"mean_voxels"`
	Errors       map[string]int `json:"errors,omitempty"`
}

// Summarize counts controllers and errors and the body sizes of the
// successfully mapped phenotypes.
func Summarize(phenotypes []model.Phenotype) Summary {
	s := Summary{Total: len(phenotypes), ByController: map[string]int{}}
	mapped, voxels := 0, 0
	for _, p := range phenotypes {
		if p.Error != "" {
			s.Failed++
			if s.Errors == nil {
				s.Errors = map[string]int{}
			}
			s.Errors[p.Error]++
			continue
		}
		s.ByController[p.Controller]++
		if mapped == 0 || p.Voxels < s.MinVoxels {
			s.MinVoxels = p.Voxels
		}
		s.MaxVoxels = max(s.MaxVoxels, p.Voxels)
		voxels += p.Voxels
		mapped++
	}
	if mapped > 0 {
		s.MeanVoxels = float64(voxels) / float64(mapped)
	}
	return s
}

// Controllers returns the controller kinds of s in name order.
func (s Summary) Controllers() []string {
	kinds := make([]string, 0, len(s.ByController))
	for kind := range s.ByController {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// WriteRunArtifacts writes run.json, summary.json, phenotypes.csv and
// minimaps.txt under baseDir/<run id> and returns that directory.
func WriteRunArtifacts(baseDir string, run model.Run, phenotypes []model.Phenotype) (string, error) {
	if run.ID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, run.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "run.json"), run); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "summary.json"), Summarize(phenotypes)); err != nil {
		return "", err
	}
	if err := writePhenotypesCSV(filepath.Join(runDir, "phenotypes.csv"), phenotypes); err != nil {
		return "", err
	}
	if err := writeMinimaps(filepath.Join(runDir, "minimaps.txt"), phenotypes); err != nil {
		return "", err
	}
	return runDir, nil
}

// ReadRun reads back the run.json of an artifact directory.
func ReadRun(baseDir, runID string) (model.Run, bool, error) {
	path := filepath.Join(baseDir, runID, "run.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Run{}, false, nil
		}
		return model.Run{}, false, err
	}
	var run model.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return model.Run{}, false, err
	}
	return run, true, nil
}

func writePhenotypesCSV(path string, phenotypes []model.Phenotype) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"index", "id", "controller", "width", "height", "voxels", "sensors", "error"}); err != nil {
		return err
	}
	for _, p := range phenotypes {
		record := []string{
			strconv.Itoa(p.Index),
			p.ID,
			p.Controller,
			strconv.Itoa(p.Width),
			strconv.Itoa(p.Height),
			strconv.Itoa(p.Voxels),
			strconv.Itoa(p.Sensors),
			p.Error,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

func writeMinimaps(path string, phenotypes []model.Phenotype) error {
	var b strings.Builder
	for _, p := range phenotypes {
		if p.Error != "" {
			continue
		}
		fmt.Fprintf(&b, "#%d %s %dx%d\n%s\n", p.Index, p.Controller, p.Width, p.Height, p.Minimap)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
