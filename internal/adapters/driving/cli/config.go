package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openroster/affilscan/internal/core/ports/driven"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and change the institution, cache, extractor and LLM settings.`,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and saves the config file.

Keys:
  institution.name       institution to scan for
  institution.patterns   comma-separated name patterns (regular expressions)
  cache.ttl_days         cache entry lifetime in days
  extractor.variant      pattern, ner or llm
  extractor.scan_tables  true to also scan tabular sections
  llm.provider           anthropic, openai or ollama
  llm.model              model identifier
  llm.api_key            provider API key
  llm.base_url           provider base URL override`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("[Institution]")
	cmd.Printf("  Name:     %s\n", orUnset(configStore.GetString(driven.ConfigKeyInstitutionName)))
	patterns := configStore.GetStringSlice(driven.ConfigKeyInstitutionPatterns)
	if len(patterns) == 0 {
		cmd.Println("  Patterns: (not set)")
	} else {
		cmd.Printf("  Patterns: %s\n", strings.Join(patterns, ", "))
	}
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  TTL days: %d\n", configStore.GetInt(driven.ConfigKeyCacheTTLDays))
	cmd.Println()

	cmd.Println("[Extractor]")
	cmd.Printf("  Variant:     %s\n", orUnset(configStore.GetString(driven.ConfigKeyExtractorVariant)))
	cmd.Printf("  Scan tables: %t\n", configStore.GetBool(driven.ConfigKeyScanTables))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", orUnset(configStore.GetString(driven.ConfigKeyLLMProvider)))
	cmd.Printf("  Model:    %s\n", orUnset(configStore.GetString(driven.ConfigKeyLLMModel)))
	if key := configStore.GetString(driven.ConfigKeyLLMAPIKey); key != "" {
		cmd.Printf("  API Key:  %s\n", maskAPIKey(key))
	} else {
		cmd.Println("  API Key:  (not set)")
	}
	if url := configStore.GetString(driven.ConfigKeyLLMBaseURL); url != "" {
		cmd.Printf("  Base URL: %s\n", url)
	}
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]

	value, err := parseConfigValue(key, raw)
	if err != nil {
		return err
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// parseConfigValue coerces the raw argument into the type the key expects.
func parseConfigValue(key, raw string) (any, error) {
	switch key {
	case driven.ConfigKeyCacheTTLDays:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer: %q", key, raw)
		}
		return n, nil

	case driven.ConfigKeyScanTables:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false: %q", key, raw)
		}
		return b, nil

	case driven.ConfigKeyInstitutionPatterns:
		parts := strings.Split(raw, ",")
		patterns := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		return patterns, nil

	case driven.ConfigKeyExtractorVariant:
		switch raw {
		case "pattern", "ner", "llm":
			return raw, nil
		}
		return nil, fmt.Errorf("unknown extractor variant %q", raw)

	case driven.ConfigKeyLLMProvider:
		switch raw {
		case "anthropic", "openai", "ollama":
			return raw, nil
		}
		return nil, fmt.Errorf("unknown LLM provider %q", raw)

	case driven.ConfigKeyInstitutionName,
		driven.ConfigKeyLLMModel,
		driven.ConfigKeyLLMAPIKey,
		driven.ConfigKeyLLMBaseURL:
		return raw, nil
	}

	return nil, fmt.Errorf("unknown config key %q", key)
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// maskAPIKey hides all but the first and last few characters of a key.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
