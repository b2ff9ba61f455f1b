// Package transcript defines the data records exchanged with the extraction
// and persistence collaborators.
package transcript

// Segment is the unit of work: one transmission as transcribed from a video.
// Immutable once created; Transcript is the raw text to be processed.
type Segment struct {
	VideoID        string  `json:"video_id,omitempty"`
	SegmentNum     int     `json:"segment_num"`
	StartTime      float64 `json:"start_time"`
	EndTime        float64 `json:"end_time"`
	Duration       float64 `json:"duration"`
	TimestampRange string  `json:"timestamp_range,omitempty"`
	Transcript     string  `json:"transcript"`
}

// VideoTranscript is the per-video structure produced by the extraction
// collaborator: an ordered sequence of segments.
type VideoTranscript struct {
	VideoID       string    `json:"video_id"`
	TotalSegments int       `json:"total_segments"`
	Segments      []Segment `json:"segments"`
}

// Result pairs normalized text with the verbatim original. The pairing is an
// invariant: provenance is never lost, every persisted segment carries both.
type Result struct {
	Normalized string `json:"transcript"`
	Original   string `json:"original_transcript"`
}

// ProcessedSegment is a segment after filtering and normalization, ready for
// the persistence collaborator. Transcript holds the normalized text and
// OriginalTranscript the raw input, matching the downstream field names.
type ProcessedSegment struct {
	Segment
	OriginalTranscript string `json:"original_transcript"`
}

// ProcessedVideo is the preprocessed counterpart of a VideoTranscript:
// surviving segments plus bookkeeping about what was dropped.
type ProcessedVideo struct {
	VideoID           string             `json:"video_id"`
	TotalSegments     int                `json:"total_segments"`
	FilteredSegments  int                `json:"filtered_segments"`
	PreprocessingDate string             `json:"preprocessing_date"`
	Segments          []ProcessedSegment `json:"segments"`
}
