// Package handler exposes extraction and keyword learning over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/docscan/internal/domain/extraction"
	"github.com/FACorreiaa/docscan/internal/domain/extraction/service"
	"github.com/FACorreiaa/docscan/internal/domain/learning"
)

// defaultMaxBodyBytes caps request bodies when no limit is configured.
const defaultMaxBodyBytes = 4 << 20

// ExtractRequest is the body of POST /v1/extract.
type ExtractRequest struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// LearnRequest is the body of POST /v1/keywords.
type LearnRequest struct {
	Keyword string `json:"keyword"`
}

// KeywordsResponse is the body of GET /v1/keywords.
type KeywordsResponse struct {
	Keywords []learning.KeywordWeight `json:"keywords"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ExtractionHandler implements the extraction HTTP endpoints
type ExtractionHandler struct {
	svc          *service.Service
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewExtractionHandler constructs a new handler
func NewExtractionHandler(svc *service.Service, logger *slog.Logger, maxBodyBytes int64) *ExtractionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &ExtractionHandler{svc: svc, logger: logger, maxBodyBytes: maxBodyBytes}
}

// Register mounts the endpoints on mux.
func (h *ExtractionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/extract", h.Extract)
	mux.HandleFunc("GET /v1/keywords", h.ListKeywords)
	mux.HandleFunc("POST /v1/keywords", h.LearnKeyword)
	mux.HandleFunc("DELETE /v1/keywords/{keyword}", h.ForgetKeyword)
}

// Extract runs one extraction. The document type is required and never inferred.
func (h *ExtractionHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if !h.decode(w, r, &req) {
		return
	}

	docType, err := extraction.ParseDocumentType(req.Type)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.svc.Extract(r.Context(), docType, req.Text)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("X-Extraction-ID", result.ID.String())
	h.writeJSON(w, http.StatusOK, result)
}

// ListKeywords returns the learned keywords, heaviest first.
func (h *ExtractionHandler) ListKeywords(w http.ResponseWriter, r *http.Request) {
	kws, err := h.svc.Keywords(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if kws == nil {
		kws = []learning.KeywordWeight{}
	}
	h.writeJSON(w, http.StatusOK, KeywordsResponse{Keywords: kws})
}

// LearnKeyword teaches a keyword or increments its weight.
func (h *ExtractionHandler) LearnKeyword(w http.ResponseWriter, r *http.Request) {
	var req LearnRequest
	if !h.decode(w, r, &req) {
		return
	}

	kw, err := h.svc.Learn(r.Context(), req.Keyword)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, kw)
}

// ForgetKeyword removes a learned keyword.
func (h *ExtractionHandler) ForgetKeyword(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Forget(r.Context(), r.PathValue("keyword")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ExtractionHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
			return false
		}
		h.writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return false
	}
	return true
}

func (h *ExtractionHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, extraction.ErrUnknownDocumentType), errors.Is(err, learning.ErrEmptyKeyword):
		h.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, learning.ErrKeywordNotFound):
		h.writeError(w, http.StatusNotFound, err)
	default:
		h.logger.Error("request failed", slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func (h *ExtractionHandler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *ExtractionHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", slog.Any("error", err))
	}
}
