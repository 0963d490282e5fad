package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"revmeter/internal/model"
)

const (
	runIndexFile = "run_index.json"
	spectrumFile = "spectrum.csv"
)

type RunConfig struct {
	RunID      string `json:"run_id"`
	InputPath  string `json:"input_path"`
	Layout     string `json:"layout"`
	BatchSize  int    `json:"batch_size"`
	EventCount int    `json:"event_count"`
	TickCount  int    `json:"tick_count"`
}

type RunArtifacts struct {
	Config    RunConfig
	Estimates []model.TickEstimate
	Spectrum  []float32
}

type RunIndexEntry struct {
	RunID        string  `json:"run_id"`
	CreatedAtUTC string  `json:"created_at_utc"`
	Layout       string  `json:"layout"`
	EventCount   int     `json:"event_count"`
	TickCount    int     `json:"tick_count"`
	FinalRPM     float64 `json:"final_rpm"`
}

// WriteRunArtifacts writes one run's directory under baseDir: the run
// configuration, the per-tick estimates, and the last tick's spectrum.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "estimates.json"), artifacts.Estimates); err != nil {
		return "", err
	}
	if err := writeSpectrumCSV(filepath.Join(runDir, spectrumFile), artifacts.Spectrum); err != nil {
		return "", err
	}

	return runDir, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

func ReadRunConfig(baseDir, runID string) (RunConfig, bool, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runID, "config.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return RunConfig{}, false, nil
		}
		return RunConfig{}, false, err
	}
	var cfg RunConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, false, err
	}
	return cfg, true, nil
}

func ReadSpectrum(baseDir, runID string) ([]float32, bool, error) {
	file, err := os.Open(filepath.Join(baseDir, runID, spectrumFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, false, err
	}

	bins := make([]float32, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) != 2 {
			return nil, false, fmt.Errorf("spectrum row %d: expected 2 columns", i)
		}
		value, err := strconv.ParseFloat(row[1], 32)
		if err != nil {
			return nil, false, fmt.Errorf("spectrum row %d: %w", i, err)
		}
		bins = append(bins, float32(value))
	}
	return bins, true, nil
}

func writeSpectrumCSV(path string, bins []float32) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"bin", "value"}); err != nil {
		return err
	}
	for i, value := range bins {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(float64(value), 'g', -1, 32),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
