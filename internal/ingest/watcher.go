// Package ingest feeds the preprocessing pool from a transcript directory.
// The extraction collaborator drops one JSON file per video; the watcher
// picks up new files and, optionally, backfills the ones already present.
package ingest

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/snarg/atc-engine/internal/metrics"
	"github.com/snarg/atc-engine/internal/process"
	"github.com/snarg/atc-engine/internal/transcript"
)

// Watcher monitors a transcript directory for new JSON files and enqueues
// them on the preprocessing pool. Raw extraction dumps (*_raw.json) are
// skipped: only finalized transcripts are preprocessed.
type Watcher struct {
	pool     *process.Pool
	watchDir string
	backfill bool
	log      zerolog.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}

	// Debounce: coalesce rapid Create+Write events on the same file.
	debounceMu     sync.Mutex
	debounceTimers map[string]*time.Timer

	filesProcessed atomic.Int64
	filesSkipped   atomic.Int64
	status         atomic.Value // string: "starting", "backfilling", "watching", "stopped"
}

// Status describes the watcher for the health endpoint.
type Status struct {
	Status         string `json:"status"`
	WatchDir       string `json:"watch_dir"`
	FilesProcessed int64  `json:"files_processed"`
	FilesSkipped   int64  `json:"files_skipped"`
}

// NewWatcher creates a transcript-directory watcher feeding pool.
func NewWatcher(pool *process.Pool, watchDir string, backfill bool, log zerolog.Logger) *Watcher {
	w := &Watcher{
		pool:           pool,
		watchDir:       watchDir,
		backfill:       backfill,
		log:            log,
		done:           make(chan struct{}),
		debounceTimers: make(map[string]*time.Timer),
	}
	w.status.Store("starting")
	return w
}

// Start initializes the fsnotify watcher and begins watching. If backfill is
// enabled, existing transcript files are processed in a background goroutine
// oldest-first before the status flips to watching.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = fsw

	if err := fsw.Add(w.watchDir); err != nil {
		fsw.Close()
		return err
	}

	w.log.Info().Str("watch_dir", w.watchDir).Msg("transcript watcher initialized")

	go w.watchLoop()

	if w.backfill {
		go w.runBackfill()
	} else {
		w.status.Store("watching")
	}

	return nil
}

// Stop closes the fsnotify watcher.
func (w *Watcher) Stop() {
	w.status.Store("stopped")
	close(w.done)
	if w.watcher != nil {
		w.watcher.Close()
	}
	w.log.Info().
		Int64("files_processed", w.filesProcessed.Load()).
		Int64("files_skipped", w.filesSkipped.Load()).
		Msg("transcript watcher stopped")
}

// CurrentStatus returns the watcher state for the health endpoint.
func (w *Watcher) CurrentStatus() Status {
	s, _ := w.status.Load().(string)
	return Status{
		Status:         s,
		WatchDir:       w.watchDir,
		FilesProcessed: w.filesProcessed.Load(),
		FilesSkipped:   w.filesSkipped.Load(),
	}
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !IsTranscriptFile(event.Name) {
				continue
			}
			w.scheduleProcess(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("fsnotify error")
		}
	}
}

// scheduleProcess debounces file processing by 500ms so the file is fully
// written before reading.
func (w *Watcher) scheduleProcess(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if t, ok := w.debounceTimers[path]; ok {
		t.Reset(500 * time.Millisecond)
		return
	}

	w.debounceTimers[path] = time.AfterFunc(500*time.Millisecond, func() {
		w.debounceMu.Lock()
		delete(w.debounceTimers, path)
		w.debounceMu.Unlock()

		w.processFile(path)
	})
}

// processFile reads and parses a transcript file and enqueues it.
func (w *Watcher) processFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.log.Warn().Err(err).Str("path", path).Msg("failed to read transcript file")
		metrics.WatcherFilesTotal.WithLabelValues("read_error").Inc()
		return
	}

	var video transcript.VideoTranscript
	if err := json.Unmarshal(data, &video); err != nil {
		w.log.Warn().Err(err).Str("path", path).Msg("failed to parse transcript file")
		w.filesSkipped.Add(1)
		metrics.WatcherFilesTotal.WithLabelValues("parse_error").Inc()
		return
	}

	if video.VideoID == "" {
		video.VideoID = VideoIDFromPath(path)
	}
	if video.VideoID == "" || len(video.Segments) == 0 {
		w.filesSkipped.Add(1)
		metrics.WatcherFilesTotal.WithLabelValues("skipped").Inc()
		return
	}

	if !w.pool.Enqueue(process.Job{Source: path, Video: video}) {
		w.log.Warn().Str("path", path).Msg("processing queue full, dropping transcript")
		w.filesSkipped.Add(1)
		metrics.WatcherFilesTotal.WithLabelValues("queue_full").Inc()
		return
	}

	w.filesProcessed.Add(1)
	metrics.WatcherFilesTotal.WithLabelValues("enqueued").Inc()
}

// runBackfill scans the watch directory for existing transcript files and
// enqueues them oldest-first by modification time.
func (w *Watcher) runBackfill() {
	w.status.Store("backfilling")
	start := time.Now()

	type fileEntry struct {
		path    string
		modTime time.Time
	}
	var files []fileEntry

	_ = filepath.WalkDir(w.watchDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !IsTranscriptFile(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, fileEntry{path: path, modTime: info.ModTime()})
		return nil
	})

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	w.log.Info().Int("files", len(files)).Msg("backfill starting")

	for _, f := range files {
		select {
		case <-w.done:
			w.log.Info().Msg("backfill interrupted by shutdown")
			return
		default:
		}
		w.processFile(f.path)
	}

	w.status.Store("watching")
	w.log.Info().
		Int("files", len(files)).
		Dur("elapsed", time.Since(start)).
		Msg("backfill complete")
}

// IsTranscriptFile reports whether path names a finalized transcript:
// a .json file that is not a raw extraction dump.
func IsTranscriptFile(path string) bool {
	lower := strings.ToLower(filepath.Base(path))
	if !strings.HasSuffix(lower, ".json") {
		return false
	}
	return !strings.HasSuffix(strings.TrimSuffix(lower, ".json"), "_raw")
}

// VideoIDFromPath derives a video ID from a transcript filename:
// "data/transcripts/dQw4w9WgXcQ.json" -> "dQw4w9WgXcQ".
func VideoIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
