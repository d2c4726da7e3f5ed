// Command affilscan scans regulatory filings for institution affiliations
// and maintains a roster of the people they name.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/openroster/affilscan/internal/adapters/driven/config/file"
	llmanthropic "github.com/openroster/affilscan/internal/adapters/driven/llm/anthropic"
	llmollama "github.com/openroster/affilscan/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/openroster/affilscan/internal/adapters/driven/llm/openai"
	"github.com/openroster/affilscan/internal/adapters/driven/storage/sqlite"
	"github.com/openroster/affilscan/internal/adapters/driving/cli"
	"github.com/openroster/affilscan/internal/core/ports/driven"
	"github.com/openroster/affilscan/internal/core/services"
	llmextractor "github.com/openroster/affilscan/internal/extractors/llm"
	"github.com/openroster/affilscan/internal/extractors/ner"
	"github.com/openroster/affilscan/internal/extractors/pattern"
	"github.com/openroster/affilscan/internal/fetch"
	"github.com/openroster/affilscan/internal/logger"
	"github.com/openroster/affilscan/internal/sections"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	ttl := cfg.GetInt(driven.ConfigKeyCacheTTLDays)
	if ttl <= 0 {
		ttl = sqlite.DefaultCacheTTLDays
	}
	cache := store.FilingCache(ttl)
	roster := store.RosterStore()

	institution := cfg.GetString(driven.ConfigKeyInstitutionName)
	patterns := cfg.GetStringSlice(driven.ConfigKeyInstitutionPatterns)
	if len(patterns) == 0 && institution != "" {
		patterns = []string{institution}
	}

	primary, fallback := buildExtractors(cfg)

	pipeline := services.NewPipeline(services.PipelineConfig{
		Cache:      cache,
		Locator:    sections.NewLocator(cfg.GetBool(driven.ConfigKeyScanTables)),
		Extractor:  primary,
		Fallback:   fallback,
		Reconciler: services.NewReconciler(roster, institution),
		Patterns:   patterns,
	})

	return cli.Execute(cli.Dependencies{
		Pipeline: pipeline,
		Cache:    cache,
		Config:   cfg,
		NewFetcher: func() (driven.FilingFetcher, error) {
			id, err := file.LoadIdentity("")
			if err != nil {
				return nil, err
			}
			return fetch.NewEDGARFetcher(fetch.Config{UserAgent: id.UserAgent()})
		},
	})
}

// buildExtractors selects the configured extraction variant. The pattern
// variant doubles as the runtime fallback for the other two.
func buildExtractors(cfg driven.ConfigStore) (primary, fallback driven.AffiliationExtractor) {
	patternExtractor := pattern.New()

	switch cfg.GetString(driven.ConfigKeyExtractorVariant) {
	case "ner":
		return ner.New(), patternExtractor
	case "llm":
		return llmextractor.New(buildLLMService(cfg)), patternExtractor
	default:
		return patternExtractor, nil
	}
}

// buildLLMService constructs the configured provider. A misconfigured
// provider yields a nil service; the delegated extractor reports that as
// unavailable and the pipeline falls back to the pattern variant.
func buildLLMService(cfg driven.ConfigStore) driven.LLMService {
	var (
		apiKey  = cfg.GetString(driven.ConfigKeyLLMAPIKey)
		model   = cfg.GetString(driven.ConfigKeyLLMModel)
		baseURL = cfg.GetString(driven.ConfigKeyLLMBaseURL)
	)

	switch cfg.GetString(driven.ConfigKeyLLMProvider) {
	case "anthropic":
		svc, err := llmanthropic.NewLLMService(llmanthropic.Config{
			APIKey:  apiKey,
			Model:   model,
			BaseURL: baseURL,
		})
		if err != nil {
			logger.Warn("anthropic service unavailable: %v", err)
			return nil
		}
		return pingLLM(svc)

	case "openai":
		svc, err := llmopenai.NewLLMService(llmopenai.LLMConfig{
			APIKey:  apiKey,
			Model:   model,
			BaseURL: baseURL,
		})
		if err != nil {
			logger.Warn("openai service unavailable: %v", err)
			return nil
		}
		return pingLLM(svc)

	case "ollama":
		return pingLLM(llmollama.NewLLMService(llmollama.LLMConfig{
			Model:   model,
			BaseURL: baseURL,
		}))
	}

	logger.Warn("no LLM provider configured")
	return nil
}

// pingLLM verifies the provider is reachable before the pipeline depends
// on it. An unreachable provider yields a nil service so the delegated
// extractor degrades to the pattern fallback.
func pingLLM(svc driven.LLMService) driven.LLMService {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		logger.Warn("LLM provider %s unreachable: %v", svc.ModelName(), err)
		svc.Close()
		return nil
	}
	return svc
}
