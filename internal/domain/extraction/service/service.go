// Package service runs extractions against the learned-keyword store and records
// logs, traces and metrics around them.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/docscan/internal/domain/extraction"
	"github.com/FACorreiaa/docscan/internal/domain/learning"
	"github.com/FACorreiaa/docscan/pkg/metrics"
)

const tracerName = "github.com/FACorreiaa/docscan/internal/domain/extraction/service"

// Extraction is a dispatched result tagged with an id for log correlation.
type Extraction struct {
	ID   uuid.UUID               `json:"id"`
	Type extraction.DocumentType `json:"type"`
	extraction.Result
	// Degraded is set when learned keywords could not be loaded and only the static
	// confirm keywords were used.
	Degraded bool `json:"degraded,omitempty"`
}

// Service handles extraction and keyword learning
type Service struct {
	store   learning.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
	opts    []extraction.Option
}

// NewService creates a new extraction service. A nil store falls back to an empty
// in-memory store.
func NewService(store learning.Store, m *metrics.Metrics, logger *slog.Logger, opts ...extraction.Option) *Service {
	if store == nil {
		store = learning.NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
		opts:    opts,
	}
}

// Extract runs the extractor for docType over text. Bank advices are scored with a
// snapshot of the learned keywords taken before extraction starts.
func (s *Service) Extract(ctx context.Context, docType extraction.DocumentType, text string) (*Extraction, error) {
	ctx, span := s.tracer.Start(ctx, "extraction.Extract", trace.WithAttributes(
		attribute.String("document.type", docType.String()),
		attribute.Int("document.bytes", len(text)),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &Extraction{ID: uuid.New(), Type: docType}
	logger := s.logger.With(slog.String("extraction_id", out.ID.String()), slog.String("type", docType.String()))

	var learned []string
	if docType == extraction.BankAdvice {
		kws, err := s.store.Keywords(ctx)
		if err != nil {
			logger.Warn("learned keywords unavailable, using static keywords", slog.Any("error", err))
			s.metrics.IncKeywordSnapshotError()
			span.AddEvent("learned keywords unavailable")
			out.Degraded = true
		} else {
			learned = kws
		}
	}

	start := time.Now()
	result, err := extraction.Extract(docType, text, learned, s.opts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("extract %s: %w", docType, err)
	}
	elapsed := time.Since(start)

	out.Result = result
	s.metrics.ObserveExtraction(docType.String(), result.Warning != "", elapsed)
	if docType == extraction.BankAdvice {
		s.metrics.ObserveCandidates(len(result.Candidates))
	}
	if rec := result.Reconciliation; rec != nil && !rec.Consistent {
		s.metrics.IncMismatch()
		logger.Info("invoice total does not reconcile",
			slog.String("difference", rec.Difference.String()))
	}
	if result.Warning != "" {
		logger.Info("extraction finished with warning", slog.String("warning", result.Warning))
	}

	span.SetAttributes(
		attribute.String("extraction.id", out.ID.String()),
		attribute.String("extraction.total", result.Document.TotalAmount.String()),
		attribute.Int("extraction.learned_keywords", len(learned)),
	)
	logger.Debug("extraction finished",
		slog.String("total", result.Document.TotalAmount.String()),
		slog.Int("candidates", len(result.Candidates)),
		slog.Duration("elapsed", elapsed))

	return out, nil
}

// Learn teaches a confirm keyword, typically taken from a line the user marked as
// holding the real amount.
func (s *Service) Learn(ctx context.Context, keyword string) (*learning.KeywordWeight, error) {
	ctx, span := s.tracer.Start(ctx, "extraction.Learn")
	defer span.End()

	kw, err := s.store.Learn(ctx, keyword)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("learn keyword: %w", err)
	}
	s.metrics.IncLearned()
	s.logger.Info("keyword learned", slog.String("keyword", kw.Keyword), slog.Int("weight", kw.Weight))
	return kw, nil
}

// Keywords lists the learned keywords, heaviest first.
func (s *Service) Keywords(ctx context.Context) ([]learning.KeywordWeight, error) {
	kws, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}
	return kws, nil
}

// Forget removes a learned keyword.
func (s *Service) Forget(ctx context.Context, keyword string) error {
	if err := s.store.Delete(ctx, keyword); err != nil {
		return fmt.Errorf("forget keyword: %w", err)
	}
	s.logger.Info("keyword forgotten", slog.String("keyword", keyword))
	return nil
}
