// Package process drives batch preprocessing: each job is one video
// transcript whose segments are filtered, normalized, persisted, and written
// out. Filtering and normalization are pure, so segments are processed
// independently and the pool scales with the worker count.
package process

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/snarg/atc-engine/internal/database"
	"github.com/snarg/atc-engine/internal/filter"
	"github.com/snarg/atc-engine/internal/metrics"
	"github.com/snarg/atc-engine/internal/normalize"
	"github.com/snarg/atc-engine/internal/transcript"
)

// Job is one video transcript to preprocess.
type Job struct {
	Source string // originating file path, for logging only
	Video  transcript.VideoTranscript
}

// QueueStats reports the current state of the processing queue.
type QueueStats struct {
	Pending   int   `json:"pending"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// Options configures the preprocessing worker pool.
type Options struct {
	DB         *database.DB // optional; nil disables persistence
	Writer     *Writer      // optional; nil disables file output
	Filter     *filter.Filter
	NormConfig normalize.Config
	Workers    int
	QueueSize  int
	Log        zerolog.Logger
}

// Pool manages preprocessing workers. The filter and normalizer config are
// shared read-only across workers; aggregate stats are the only shared
// mutable state and sit behind a mutex.
type Pool struct {
	jobs chan Job
	opts Options
	log  zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	completed atomic.Int64
	failed    atomic.Int64

	statsMu sync.Mutex
	stats   filter.Stats
}

// NewPool creates a preprocessing worker pool.
func NewPool(opts Options) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		jobs:   make(chan Job, opts.QueueSize),
		opts:   opts,
		log:    opts.Log,
		ctx:    ctx,
		cancel: cancel,
		stats:  filter.Stats{Reasons: make(map[string]int)},
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.opts.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.log.Info().Int("workers", p.opts.Workers).Int("queue_size", p.opts.QueueSize).Msg("preprocessing worker pool started")
}

// Stop signals workers to drain and waits for completion.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
	p.cancel()
	p.log.Info().
		Int64("completed", p.completed.Load()).
		Int64("failed", p.failed.Load()).
		Msg("preprocessing worker pool stopped")
}

// Enqueue adds a job to the queue. Returns false if the queue is full.
func (p *Pool) Enqueue(j Job) bool {
	select {
	case p.jobs <- j:
		return true
	default:
		return false
	}
}

// Stats returns current queue statistics.
func (p *Pool) Stats() QueueStats {
	return QueueStats{
		Pending:   len(p.jobs),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}

// FilterStats returns a copy of the aggregate filtering statistics across
// every segment processed so far.
func (p *Pool) FilterStats() filter.Stats {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()

	out := p.stats
	out.Reasons = make(map[string]int, len(p.stats.Reasons))
	for k, v := range p.stats.Reasons {
		out.Reasons[k] = v
	}
	if out.Total > 0 {
		out.ExclusionRate = float64(out.Excluded) / float64(out.Total)
	}
	return out
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	log := p.log.With().Int("worker", id).Logger()

	for job := range p.jobs {
		if err := p.processVideo(log, job); err != nil {
			p.failed.Add(1)
			log.Warn().Err(err).
				Str("video_id", job.Video.VideoID).
				Str("source", job.Source).
				Msg("preprocessing failed")
		} else {
			p.completed.Add(1)
		}
	}
}

// processVideo runs the filter-then-normalize flow over every segment of a
// video, persists survivors, records exclusions, and writes the preprocessed
// output file.
func (p *Pool) processVideo(log zerolog.Logger, job Job) error {
	start := time.Now()
	video := job.Video

	processed := transcript.ProcessedVideo{
		VideoID:           video.VideoID,
		PreprocessingDate: time.Now().UTC().Format(time.RFC3339),
	}

	for _, seg := range video.Segments {
		metrics.SegmentsProcessedTotal.Inc()

		// Filter evaluates the raw text; an excluded segment is never
		// normalized.
		decision := p.opts.Filter.ShouldExclude(seg.Transcript)
		p.recordDecision(decision)

		if decision.Excluded {
			processed.FilteredSegments++
			metrics.SegmentsExcludedTotal.WithLabelValues(reasonRule(decision.Reason)).Inc()
			if p.opts.DB != nil {
				if err := p.opts.DB.RecordExclusion(p.ctx, &database.ExclusionRow{
					VideoID:    video.VideoID,
					SegmentNum: seg.SegmentNum,
					Transcript: seg.Transcript,
					Reason:     decision.Reason,
				}); err != nil {
					return err
				}
			}
			continue
		}

		normStart := time.Now()
		normalized := normalize.Normalize(seg.Transcript, p.opts.NormConfig)
		metrics.NormalizeDuration.Observe(time.Since(normStart).Seconds())
		metrics.SegmentsNormalizedTotal.Inc()

		out := transcript.ProcessedSegment{
			Segment:            seg,
			OriginalTranscript: seg.Transcript,
		}
		out.Transcript = normalized
		processed.Segments = append(processed.Segments, out)

		if p.opts.DB != nil {
			if err := p.opts.DB.UpsertSegment(p.ctx, &database.SegmentRow{
				VideoID:            video.VideoID,
				SegmentNum:         seg.SegmentNum,
				StartTime:          seg.StartTime,
				EndTime:            seg.EndTime,
				Duration:           seg.Duration,
				TimestampRange:     seg.TimestampRange,
				Transcript:         normalized,
				OriginalTranscript: seg.Transcript,
			}); err != nil {
				return err
			}
		}
	}

	processed.TotalSegments = len(processed.Segments)

	if p.opts.Writer != nil {
		path, err := p.opts.Writer.WriteVideo(&processed)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Debug().Str("path", path).Msg("preprocessed output written")
	}

	metrics.VideosProcessedTotal.Inc()

	log.Debug().
		Str("video_id", video.VideoID).
		Int("segments", len(video.Segments)).
		Int("kept", processed.TotalSegments).
		Int("filtered", processed.FilteredSegments).
		Dur("duration_ms", time.Since(start)).
		Msg("video preprocessed")

	return nil
}

func (p *Pool) recordDecision(d filter.Decision) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()

	p.stats.Total++
	if d.Excluded {
		p.stats.Excluded++
		p.stats.Reasons[d.Reason]++
	} else {
		p.stats.Kept++
	}
}

// reasonRule maps an exact reason string to its rule category, the metrics
// label: "exclusion_tag: \[NO_ENG\]" -> "exclusion_tag".
func reasonRule(reason string) string {
	if rule, _, ok := strings.Cut(reason, ":"); ok {
		return rule
	}
	return reason
}
