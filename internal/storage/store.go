// Package storage persists bench runs: run metadata as JSON and per-frame
// timings as CSV. Pixels are never stored.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/circlerender/internal/metrics"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Frames     int                `json:"frames"`
	Backend    string             `json:"backend"`
	Workers    int                `json:"workers"`
	Compositor string             `json:"compositor"`
	TileSize   int                `json:"tile_size"`
	Checksum   string             `json:"checksum,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// FrameRecord is one row of frames.csv. Times are in milliseconds.
type FrameRecord struct {
	Frame     int     `json:"frame"`
	ClearMS   float64 `json:"clear_ms"`
	AdvanceMS float64 `json:"advance_ms"`
	RenderMS  float64 `json:"render_ms"`
	Visible   int     `json:"visible"`
	Pairs     int     `json:"pairs"`
	Blends    int64   `json:"blends"`
}

func (r FrameRecord) TotalMS() float64 { return r.ClearMS + r.AdvanceMS + r.RenderMS }

var frameHeader = []string{"frame", "clear_ms", "advance_ms", "render_ms", "visible", "pairs", "blends"}

func RecordOf(s metrics.Sample) FrameRecord {
	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
	return FrameRecord{
		Frame:     s.Frame,
		ClearMS:   ms(s.Clear),
		AdvanceMS: ms(s.Advance),
		RenderMS:  ms(s.Render),
		Visible:   s.Stats.Visible,
		Pairs:     s.Stats.Pairs,
		Blends:    s.Stats.Blends,
	}
}

// Save writes a run under a fresh ID, filling meta.ID and meta.Timestamp.
func (s *Store) Save(meta RunMetadata, frames []FrameRecord) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	now := time.Now()
	var runID, runDir string
	for n := 0; ; n++ {
		runID = fmt.Sprintf("%s_%d", meta.Scene, now.UnixNano())
		if n > 0 {
			runID += "-" + strconv.Itoa(n)
		}
		runDir = filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Frames = len(frames)

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(frameHeader); err != nil {
		return "", err
	}
	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Frame),
			strconv.FormatFloat(f.ClearMS, 'f', 6, 64),
			strconv.FormatFloat(f.AdvanceMS, 'f', 6, 64),
			strconv.FormatFloat(f.RenderMS, 'f', 6, 64),
			strconv.Itoa(f.Visible),
			strconv.Itoa(f.Pairs),
			strconv.FormatInt(f.Blends, 10),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFrames reads frames.csv back. Malformed rows are skipped.
func (s *Store) LoadFrames(runID string) ([]FrameRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []FrameRecord{}, nil
	}

	frames := make([]FrameRecord, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(frameHeader) {
			continue
		}
		f, err := parseRecord(rec)
		if err != nil {
			continue
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseRecord(rec []string) (FrameRecord, error) {
	var f FrameRecord
	var err error
	if f.Frame, err = strconv.Atoi(rec[0]); err != nil {
		return f, err
	}
	if f.ClearMS, err = strconv.ParseFloat(rec[1], 64); err != nil {
		return f, err
	}
	if f.AdvanceMS, err = strconv.ParseFloat(rec[2], 64); err != nil {
		return f, err
	}
	if f.RenderMS, err = strconv.ParseFloat(rec[3], 64); err != nil {
		return f, err
	}
	if f.Visible, err = strconv.Atoi(rec[4]); err != nil {
		return f, err
	}
	if f.Pairs, err = strconv.Atoi(rec[5]); err != nil {
		return f, err
	}
	if f.Blends, err = strconv.ParseInt(rec[6], 10, 64); err != nil {
		return f, err
	}
	return f, nil
}

// FrameTimes returns the total time of each frame, for plotting.
func FrameTimes(frames []FrameRecord) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.TotalMS()
	}
	return out
}
