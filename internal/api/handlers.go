package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snarg/atc-engine/internal/database"
	"github.com/snarg/atc-engine/internal/filter"
	"github.com/snarg/atc-engine/internal/normalize"
	"github.com/snarg/atc-engine/internal/process"
	"github.com/snarg/atc-engine/internal/transcript"
)

// Handlers serves the normalization and filtering endpoints. The filter and
// normalizer config are the same immutable instances the worker pool uses,
// so API responses always match batch behavior.
type Handlers struct {
	db         *database.DB
	pool       *process.Pool
	filter     *filter.Filter
	normConfig normalize.Config
}

func NewHandlers(db *database.DB, pool *process.Pool, f *filter.Filter, nc normalize.Config) *Handlers {
	return &Handlers{db: db, pool: pool, filter: f, normConfig: nc}
}

type normalizeRequest struct {
	Text  string   `json:"text"`
	Texts []string `json:"texts"`
}

// Normalize handles POST /api/v1/normalize: a single text or a batch.
func (h *Handlers) Normalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Texts != nil {
		results := make([]transcript.Result, len(req.Texts))
		for i, t := range req.Texts {
			results[i] = transcript.Result{
				Normalized: normalize.Normalize(t, h.normConfig),
				Original:   t,
			}
		}
		WriteJSON(w, http.StatusOK, map[string]any{"results": results})
		return
	}

	WriteJSON(w, http.StatusOK, transcript.Result{
		Normalized: normalize.Normalize(req.Text, h.normConfig),
		Original:   req.Text,
	})
}

// Filter handles POST /api/v1/filter: returns the exclusion decision for a
// single raw text.
func (h *Handlers) Filter(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	WriteJSON(w, http.StatusOK, h.filter.ShouldExclude(req.Text))
}

// FilterStats handles POST /api/v1/filter/stats: batch decision statistics
// for the supplied texts.
func (h *Handlers) FilterStats(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	WriteJSON(w, http.StatusOK, h.filter.FilterStats(req.Texts))
}

type statsResponse struct {
	Queue  process.QueueStats    `json:"queue"`
	Filter filter.Stats          `json:"filter"`
	Report string                `json:"report"`
	Stored *database.StoredStats `json:"stored,omitempty"`
}

// Stats handles GET /api/v1/stats: aggregate run statistics, a textual
// report, and the persisted counts when a database is configured.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	fs := h.pool.FilterStats()
	resp := statsResponse{
		Queue:  h.pool.Stats(),
		Filter: fs,
		Report: process.FormatStats(fs),
	}

	if h.db != nil {
		stored, err := h.db.Stats(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to read stored stats")
			return
		}
		resp.Stored = stored
	}

	WriteJSON(w, http.StatusOK, resp)
}

// Segments handles GET /api/v1/segments/{video_id}: persisted processed
// segments for one video.
func (h *Handlers) Segments(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		WriteError(w, http.StatusNotFound, "persistence not configured")
		return
	}

	p, err := ParsePagination(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	videoID := chi.URLParam(r, "video_id")
	segments, err := h.db.ListSegments(r.Context(), videoID, p.Limit, p.Offset)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to list segments")
		return
	}
	if segments == nil {
		segments = []database.SegmentAPI{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"video_id": videoID,
		"segments": segments,
	})
}
