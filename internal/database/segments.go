package database

import (
	"context"
	"fmt"
	"time"
)

// SegmentRow is the input for persisting a processed segment. Transcript
// holds the normalized text; OriginalTranscript is always the verbatim raw
// input, so provenance survives reprocessing.
type SegmentRow struct {
	VideoID            string
	SegmentNum         int
	StartTime          float64
	EndTime            float64
	Duration           float64
	TimestampRange     string
	Transcript         string
	OriginalTranscript string
}

// ExclusionRow records a filtered-out segment with the reason it was dropped.
type ExclusionRow struct {
	VideoID    string
	SegmentNum int
	Transcript string
	Reason     string
}

// SegmentAPI is the segment representation for API responses.
type SegmentAPI struct {
	VideoID            string    `json:"video_id"`
	SegmentNum         int       `json:"segment_num"`
	StartTime          float64   `json:"start_time"`
	EndTime            float64   `json:"end_time"`
	Duration           float64   `json:"duration"`
	Transcript         string    `json:"transcript"`
	OriginalTranscript string    `json:"original_transcript"`
	ProcessedAt        time.Time `json:"processed_at"`
}

// UpsertSegment inserts or replaces a processed segment, keyed on
// (video_id, segment_num). Reprocessing a video overwrites in place.
func (db *DB) UpsertSegment(ctx context.Context, row *SegmentRow) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO segments (
			video_id, segment_num, start_time, end_time, duration,
			timestamp_range, transcript, original_transcript, processed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (video_id, segment_num) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			duration = EXCLUDED.duration,
			timestamp_range = EXCLUDED.timestamp_range,
			transcript = EXCLUDED.transcript,
			original_transcript = EXCLUDED.original_transcript,
			processed_at = now()
	`,
		row.VideoID, row.SegmentNum, row.StartTime, row.EndTime, row.Duration,
		row.TimestampRange, row.Transcript, row.OriginalTranscript,
	)
	if err != nil {
		return fmt.Errorf("upsert segment %s/%d: %w", row.VideoID, row.SegmentNum, err)
	}
	return nil
}

// RecordExclusion stores a filter decision for later reporting.
func (db *DB) RecordExclusion(ctx context.Context, row *ExclusionRow) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO exclusions (video_id, segment_num, transcript, reason, excluded_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (video_id, segment_num) DO UPDATE SET
			transcript = EXCLUDED.transcript,
			reason = EXCLUDED.reason,
			excluded_at = now()
	`, row.VideoID, row.SegmentNum, row.Transcript, row.Reason)
	if err != nil {
		return fmt.Errorf("record exclusion %s/%d: %w", row.VideoID, row.SegmentNum, err)
	}
	return nil
}

// ListSegments returns processed segments for a video in segment order.
func (db *DB) ListSegments(ctx context.Context, videoID string, limit, offset int) ([]SegmentAPI, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT video_id, segment_num, start_time, end_time, duration,
		       transcript, original_transcript, processed_at
		FROM segments
		WHERE video_id = $1
		ORDER BY segment_num
		LIMIT $2 OFFSET $3
	`, videoID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	var out []SegmentAPI
	for rows.Next() {
		var s SegmentAPI
		if err := rows.Scan(
			&s.VideoID, &s.SegmentNum, &s.StartTime, &s.EndTime, &s.Duration,
			&s.Transcript, &s.OriginalTranscript, &s.ProcessedAt,
		); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// StoredStats aggregates the persisted processing outcome.
type StoredStats struct {
	Kept             int64          `json:"kept"`
	Excluded         int64          `json:"excluded"`
	ExclusionReasons map[string]int `json:"exclusion_reasons"`
}

// Stats counts stored segments and exclusions, with a per-reason histogram.
func (db *DB) Stats(ctx context.Context) (*StoredStats, error) {
	s := &StoredStats{ExclusionReasons: make(map[string]int)}

	err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM segments`).Scan(&s.Kept)
	if err != nil {
		return nil, fmt.Errorf("count segments: %w", err)
	}
	err = db.Pool.QueryRow(ctx, `SELECT count(*) FROM exclusions`).Scan(&s.Excluded)
	if err != nil {
		return nil, fmt.Errorf("count exclusions: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT reason, count(*) FROM exclusions GROUP BY reason ORDER BY count(*) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("exclusion reasons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reason string
		var n int
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, fmt.Errorf("scan reason: %w", err)
		}
		s.ExclusionReasons[reason] = n
	}
	return s, rows.Err()
}
