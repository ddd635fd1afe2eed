package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []FrameRecord `json:"frames"`
}

func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Frames: frames})
}

func (s *Store) ExportFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Export(file, runID); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
