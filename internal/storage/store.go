package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/sortviz/internal/metrics"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	stepsFile    = "steps.csv"
)

// RunRecord summarizes one sort run. Sequence contents are never stored.
type RunRecord struct {
	ID          string        `json:"id"`
	Algorithm   string        `json:"algorithm"`
	Size        int           `json:"size"`
	SpeedMs     int           `json:"speed_ms"`
	Seed        int64         `json:"seed"`
	Outcome     string        `json:"outcome"`
	Comparisons uint64        `json:"comparisons"`
	Swaps       uint64        `json:"swaps"`
	Steps       int           `json:"steps"`
	Duration    time.Duration `json:"duration_ns"`
	Timestamp   time.Time     `json:"timestamp"`
	Error       string        `json:"error,omitempty"`
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Save writes rec and its counter timeline under a fresh run directory and
// returns the run ID. rec.ID and rec.Timestamp are filled in when empty.
func (s *Store) Save(rec RunRecord, points []metrics.Point) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	runDir, err := s.makeRunDir(&rec)
	if err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, stepsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSteps(csvFile, points); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *Store) makeRunDir(rec *RunRecord) (string, error) {
	base := rec.ID
	if base == "" {
		base = fmt.Sprintf("%s_%d", rec.Algorithm, rec.Timestamp.UnixMilli())
	}
	id := base
	for n := 1; ; n++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			rec.ID = id
			return dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

// List returns every readable run, oldest first. Unreadable directories are skipped.
func (s *Store) List() ([]RunRecord, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunRecord{}, nil
		}
		return nil, err
	}

	runs := make([]RunRecord, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *rec)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, filepath.Base(runID), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var rec RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", runID, err)
	}
	return &rec, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (*RunRecord, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound
	}
	return &runs[len(runs)-1], nil
}

func (s *Store) LoadSteps(runID string) ([]metrics.Point, error) {
	file, err := os.Open(filepath.Join(s.baseDir, filepath.Base(runID), stepsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()
	return ReadSteps(file)
}

var stepsHeader = []string{"step", "comparisons", "swaps", "sortedness", "inversions"}

func WriteSteps(w io.Writer, points []metrics.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(stepsHeader); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			strconv.Itoa(p.Step),
			strconv.FormatUint(p.Comparisons, 10),
			strconv.FormatUint(p.Swaps, 10),
			strconv.FormatFloat(p.Sortedness, 'f', 6, 64),
			strconv.Itoa(p.Inversions),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSteps parses a steps CSV. Malformed rows are skipped.
func ReadSteps(r io.Reader) ([]metrics.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []metrics.Point{}, nil
	}

	points := make([]metrics.Point, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(stepsHeader) {
			continue
		}
		step, err1 := strconv.Atoi(record[0])
		cmp, err2 := strconv.ParseUint(record[1], 10, 64)
		swp, err3 := strconv.ParseUint(record[2], 10, 64)
		srt, err4 := strconv.ParseFloat(record[3], 64)
		inv, err5 := strconv.Atoi(record[4])
		if err := errors.Join(err1, err2, err3, err4, err5); err != nil {
			continue
		}
		points = append(points, metrics.Point{
			Step:        step,
			Comparisons: cmp,
			Swaps:       swp,
			Sortedness:  srt,
			Inversions:  inv,
		})
	}
	return points, nil
}
