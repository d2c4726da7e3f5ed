package driven

// ConfigStore provides persistent configuration storage.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice configuration value.
	GetStringSlice(key string) []string

	// Set stores a configuration value.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load reads configuration from storage.
	Load() error
}

// Config keys for the scanning pipeline.
const (
	ConfigKeyInstitutionName     = "institution.name"
	ConfigKeyInstitutionPatterns = "institution.patterns"
	ConfigKeyCacheTTLDays        = "cache.ttl_days"
	ConfigKeyExtractorVariant    = "extractor.variant"
	ConfigKeyScanTables          = "extractor.scan_tables"
	ConfigKeyLLMProvider         = "llm.provider"
	ConfigKeyLLMModel            = "llm.model"
	ConfigKeyLLMAPIKey           = "llm.api_key"
	ConfigKeyLLMBaseURL          = "llm.base_url"
)
