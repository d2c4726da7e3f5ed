package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/openroster/affilscan/internal/core/domain"
	"github.com/openroster/affilscan/internal/core/ports/driven"
	"github.com/openroster/affilscan/internal/core/ports/driving"
	"github.com/openroster/affilscan/internal/dedupe"
	"github.com/openroster/affilscan/internal/logger"
	"github.com/openroster/affilscan/internal/sections"
)

// Ensure Pipeline implements the interface.
var _ driving.PipelineService = (*Pipeline)(nil)

// Pipeline runs documents through caching, section location, extraction,
// deduplication and reconciliation. Per-document failures end up in the
// document's result; a batch always runs to completion.
type Pipeline struct {
	cache      driven.FilingCache
	locator    *sections.Locator
	extractor  driven.AffiliationExtractor
	fallback   driven.AffiliationExtractor
	reconciler *Reconciler
	patterns   []string
}

// PipelineConfig assembles a pipeline's collaborators.
type PipelineConfig struct {
	// Cache persists raw document content.
	Cache driven.FilingCache

	// Locator finds biographical sections.
	Locator *sections.Locator

	// Extractor is the configured extraction variant.
	Extractor driven.AffiliationExtractor

	// Fallback runs when the configured variant fails; usually the
	// pattern variant. May be nil.
	Fallback driven.AffiliationExtractor

	// Reconciler merges claims into the roster.
	Reconciler *Reconciler

	// Patterns are the institution name patterns to scan for.
	Patterns []string
}

// NewPipeline creates a pipeline service.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		cache:      cfg.Cache,
		locator:    cfg.Locator,
		extractor:  cfg.Extractor,
		fallback:   cfg.Fallback,
		reconciler: cfg.Reconciler,
		patterns:   cfg.Patterns,
	}
}

// ProcessDocument caches the raw content and runs the full pipeline.
func (p *Pipeline) ProcessDocument(ctx context.Context, content string, meta domain.FilingMetadata) domain.DocumentResult {
	if content == "" {
		return skipped(meta, "empty document")
	}

	if err := p.cache.Set(ctx, meta.AccessionNo, content); err != nil {
		return skipped(meta, fmt.Sprintf("caching failed: %v", err))
	}

	return p.process(ctx, content, meta)
}

// ProcessCached processes a document already present in the cache.
func (p *Pipeline) ProcessCached(ctx context.Context, meta domain.FilingMetadata) domain.DocumentResult {
	content, err := p.cache.Get(ctx, meta.AccessionNo)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return skipped(meta, "not in cache")
		}
		return skipped(meta, fmt.Sprintf("cache read failed: %v", err))
	}
	return p.process(ctx, content, meta)
}

// ProcessBatch processes documents sequentially. Content supplied in
// contents (keyed by accession number) is used directly; everything else
// is read from the cache.
func (p *Pipeline) ProcessBatch(ctx context.Context, docs []domain.FilingMetadata, contents map[string]string) domain.BatchSummary {
	results := make([]domain.DocumentResult, 0, len(docs))
	for _, meta := range docs {
		logger.Info("processing %s", meta.AccessionNo)

		var result domain.DocumentResult
		if content, ok := contents[meta.AccessionNo]; ok {
			result = p.ProcessDocument(ctx, content, meta)
		} else {
			result = p.ProcessCached(ctx, meta)
		}

		if result.Status == domain.DocSkipped {
			logger.Warn("skipped %s: %s", meta.AccessionNo, result.Reason)
		}
		results = append(results, result)
	}
	return domain.Summarise(results)
}

// ExtractCached runs location, extraction and deduplication over a cached
// document and returns the claims without reconciling them.
func (p *Pipeline) ExtractCached(ctx context.Context, meta domain.FilingMetadata) ([]domain.AffiliationClaim, error) {
	content, err := p.cache.Get(ctx, meta.AccessionNo)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	var claims []domain.AffiliationClaim
	for _, sec := range p.locator.Locate(content) {
		claims = append(claims, p.extract(ctx, sec, meta)...)
	}
	return dedupe.Claims(claims), nil
}

// process runs location, extraction, deduplication and reconciliation.
func (p *Pipeline) process(ctx context.Context, content string, meta domain.FilingMetadata) domain.DocumentResult {
	secs := p.locator.Locate(content)
	if len(secs) == 0 {
		return skipped(meta, "no text content")
	}

	var claims []domain.AffiliationClaim
	for _, sec := range secs {
		claims = append(claims, p.extract(ctx, sec, meta)...)
	}

	claims = dedupe.Claims(claims)

	for _, claim := range claims {
		if _, err := p.reconciler.Reconcile(ctx, claim); err != nil {
			return skipped(meta, fmt.Sprintf("reconciling failed: %v", err))
		}
	}

	return domain.DocumentResult{
		DocumentRef: meta.AccessionNo,
		Status:      domain.DocProcessed,
		Claims:      len(claims),
		Sections:    len(secs),
	}
}

// extract runs the configured variant over one section, falling back to
// the secondary variant when it fails. A section both variants fail on
// contributes no claims; the document still processes.
func (p *Pipeline) extract(ctx context.Context, sec domain.BioSection, meta domain.FilingMetadata) []domain.AffiliationClaim {
	claims, err := p.extractor.Extract(ctx, sec.Text, p.patterns, meta)
	if err == nil {
		return claims
	}

	logger.Warn("%s extraction failed on section %q: %v", p.extractor.Name(), sec.Name, err)
	if p.fallback == nil {
		return nil
	}

	claims, err = p.fallback.Extract(ctx, sec.Text, p.patterns, meta)
	if err != nil {
		logger.Warn("%s fallback failed on section %q: %v", p.fallback.Name(), sec.Name, err)
		return nil
	}
	return claims
}

func skipped(meta domain.FilingMetadata, reason string) domain.DocumentResult {
	return domain.DocumentResult{
		DocumentRef: meta.AccessionNo,
		Status:      domain.DocSkipped,
		Reason:      reason,
	}
}
