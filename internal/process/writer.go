package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/snarg/atc-engine/internal/transcript"
)

// Writer stores preprocessed video transcripts as JSON files in an output
// directory, one file per video.
type Writer struct {
	outputDir string
}

// NewWriter creates a preprocessed-output writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// WriteVideo writes a preprocessed video to <outputDir>/<video_id>.json and
// returns the path. Atomic write: temp file + rename, so readers never see a
// partial file.
func (w *Writer) WriteVideo(v *transcript.ProcessedVideo) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", w.outputDir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", v.VideoID, err)
	}

	path := filepath.Join(w.outputDir, v.VideoID+".json")
	tmp, err := os.CreateTemp(w.outputDir, ".transcript-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename: %w", err)
	}
	return path, nil
}
