package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/asciilife/internal/analysis"
	"github.com/san-kum/asciilife/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statsFile    = "stats.csv"
	finalFile    = "final.txt"
)

var statsHeader = []string{"generation", "live_cells", "stagnant", "perturbed", "perturbed_cells", "entropy"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) BaseDir() string { return s.baseDir }

type RunMetadata struct {
	ID                   string             `json:"id"`
	Pattern              string             `json:"pattern"`
	Timestamp            time.Time          `json:"timestamp"`
	Width                int                `json:"width"`
	Height               int                `json:"height"`
	Boundary             string             `json:"boundary"`
	HistoryCapacity      int                `json:"history_capacity"`
	PerturbationFraction float64            `json:"perturbation_fraction"`
	DigitPrecision       int                `json:"digit_precision"`
	StartCursor          int                `json:"start_cursor"`
	Generations          int                `json:"generations"`
	Perturbations        int                `json:"perturbations"`
	Elapsed              float64            `json:"elapsed_seconds"`
	Metrics              map[string]float64 `json:"metrics"`
	Network              analysis.Network   `json:"network"`
}

// NewRunID returns "<pattern>_<unix>_<short uuid>".
func NewRunID(pattern string) string {
	return fmt.Sprintf("%s_%d_%s", pattern, time.Now().Unix(), uuid.NewString()[:8])
}

// Save writes a run directory: metadata.json, stats.csv and final.txt. The
// ID in meta is assigned when empty and returned.
func (s *Store) Save(meta RunMetadata, result *sim.Result, finalArt string) (string, error) {
	if meta.ID == "" {
		meta.ID = NewRunID(meta.Pattern)
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Generations = result.Generations
	meta.Perturbations = result.Perturbations
	meta.Elapsed = result.Elapsed.Seconds()
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	if err := writeStats(filepath.Join(runDir, statsFile), result.Stats); err != nil {
		return "", fmt.Errorf("write stats: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, finalFile), []byte(finalArt+"\n"), 0644); err != nil {
		return "", fmt.Errorf("write final frame: %w", err)
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStats(path string, stats []sim.Stat) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(statsHeader); err != nil {
		return err
	}
	for _, st := range stats {
		row := []string{
			strconv.Itoa(st.Generation),
			strconv.Itoa(st.LiveCells),
			strconv.FormatBool(st.Stagnant),
			strconv.FormatBool(st.Perturbed),
			strconv.Itoa(st.PerturbedCells),
			strconv.FormatUint(uint64(st.Entropy), 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns stored runs, newest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Latest returns the ID of the newest run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs in %s", s.baseDir)
	}
	return runs[0].ID, nil
}

func (s *Store) LoadStats(runID string) ([]sim.Stat, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Stat{}, nil
	}

	stats := make([]sim.Stat, 0, len(records)-1)
	for i, record := range records[1:] {
		st, err := parseStat(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", statsFile, i+2, err)
		}
		stats = append(stats, st)
	}
	return stats, nil
}

func parseStat(record []string) (sim.Stat, error) {
	if len(record) != len(statsHeader) {
		return sim.Stat{}, fmt.Errorf("expected %d fields, got %d", len(statsHeader), len(record))
	}

	var (
		st  sim.Stat
		err error
	)
	if st.Generation, err = strconv.Atoi(record[0]); err != nil {
		return st, err
	}
	if st.LiveCells, err = strconv.Atoi(record[1]); err != nil {
		return st, err
	}
	if st.Stagnant, err = strconv.ParseBool(record[2]); err != nil {
		return st, err
	}
	if st.Perturbed, err = strconv.ParseBool(record[3]); err != nil {
		return st, err
	}
	if st.PerturbedCells, err = strconv.Atoi(record[4]); err != nil {
		return st, err
	}
	entropy, err := strconv.ParseUint(record[5], 10, 32)
	if err != nil {
		return st, err
	}
	st.Entropy = uint32(entropy)
	return st, nil
}

func (s *Store) LoadFinal(runID string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, finalFile))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// ExportJSON writes a run's metadata and stats as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	stats, err := s.LoadStats(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*RunMetadata
		Stats []sim.Stat `json:"stats"`
	}{meta, stats})
}
