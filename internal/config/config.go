package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DatasetConfig locates the question/answer dataset.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL        string  `yaml:"base_url"`
	APIKeyEnv      string  `yaml:"api_key_env"`
	Model          string  `yaml:"model"`
	TimeoutSecs    int     `yaml:"timeout_secs"`
	RequestsPerSec float64 `yaml:"requests_per_sec"`
	MaxRetries     int     `yaml:"max_retries"`
}

// RedisConfig contains connection details for the Redis embedding cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLSecs  int    `yaml:"ttl_secs"`
}

// CacheConfig selects the embedding cache backend.
type CacheConfig struct {
	Type     string       `yaml:"type"`
	Capacity int          `yaml:"capacity"`
	Redis    *RedisConfig `yaml:"redis,omitempty"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
	Cache  CacheConfig           `yaml:"cache"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	Addr       string `yaml:"addr"`
	Collection string `yaml:"collection"`
}

// StoreConfig selects the vector store behind the indexed matcher.
type StoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// MatcherConfig selects the similarity matcher and its acceptance threshold.
type MatcherConfig struct {
	Type      string      `yaml:"type"`
	Threshold float64     `yaml:"threshold"`
	Store     StoreConfig `yaml:"store"`
}

// LLMConfig configures the OpenAI-compatible chat answerer.
type LLMConfig struct {
	BaseURL        string  `yaml:"base_url"`
	APIKeyEnv      string  `yaml:"api_key_env"`
	Model          string  `yaml:"model"`
	TimeoutSecs    int     `yaml:"timeout_secs"`
	RequestsPerSec float64 `yaml:"requests_per_sec"`
}

// QAConfig selects the fallback answerer.
type QAConfig struct {
	Type             string     `yaml:"type"`
	SentencesPerSpan int        `yaml:"sentences_per_span"`
	OverlapSentences int        `yaml:"overlap_sentences"`
	LLM              *LLMConfig `yaml:"llm,omitempty"`
}

// ChatConfig configures the interactive front end.
type ChatConfig struct {
	UI          string `yaml:"ui"`
	ExitKeyword string `yaml:"exit_keyword"`
	Prompt      string `yaml:"prompt"`
}

// SummarizerConfig configures the dataset summary shown at startup.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Debug  bool   `yaml:"debug"`
	Output string `yaml:"output"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Dataset    DatasetConfig    `yaml:"dataset"`
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Matcher    MatcherConfig    `yaml:"matcher"`
	QA         QAConfig         `yaml:"qa"`
	Chat       ChatConfig       `yaml:"chat"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Log        LogConfig        `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/qabot/config.yaml.
// If neither exists, it writes defaults to ~/.config/qabot/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects unknown component types.
func (c *AppConfig) Validate() error {
	checks := []struct {
		field string
		value string
		valid []string
	}{
		{"embedder.type", c.Embedder.Type, []string{"tfidf", "openai"}},
		{"embedder.cache.type", c.Embedder.Cache.Type, []string{"none", "memory", "redis"}},
		{"matcher.type", c.Matcher.Type, []string{"linear", "indexed"}},
		{"matcher.store.type", c.Matcher.Store.Type, []string{"memory", "qdrant"}},
		{"qa.type", c.QA.Type, []string{"extractive", "llm"}},
		{"chat.ui", c.Chat.UI, []string{"console", "tui"}},
	}
	for _, ch := range checks {
		if !contains(ch.valid, ch.value) {
			return fmt.Errorf("unknown %s %q (want one of %v)", ch.field, ch.value, ch.valid)
		}
	}
	if c.Matcher.Threshold < -1 || c.Matcher.Threshold > 1 {
		return fmt.Errorf("matcher.threshold %v outside [-1, 1]", c.Matcher.Threshold)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qabot", "config.yaml"), nil
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Dataset.Path == "" {
		cfg.Dataset.Path = "dataset.json"
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		o := cfg.Embedder.OpenAI
		if o.BaseURL == "" {
			o.BaseURL = "https://api.openai.com/v1"
		}
		if o.APIKeyEnv == "" {
			o.APIKeyEnv = "OPENAI_API_KEY"
		}
		if o.Model == "" {
			o.Model = "text-embedding-3-small"
		}
		if o.TimeoutSecs == 0 {
			o.TimeoutSecs = 30
		}
		if o.MaxRetries == 0 {
			o.MaxRetries = 5
		}
	}
	if cfg.Embedder.Cache.Type == "" {
		cfg.Embedder.Cache.Type = "none"
	}
	if cfg.Embedder.Cache.Capacity == 0 {
		cfg.Embedder.Cache.Capacity = 1024
	}
	if cfg.Embedder.Cache.Type == "redis" && cfg.Embedder.Cache.Redis == nil {
		cfg.Embedder.Cache.Redis = &RedisConfig{}
	}
	if r := cfg.Embedder.Cache.Redis; r != nil && r.Addr == "" {
		r.Addr = "localhost:6379"
	}
	if cfg.Matcher.Type == "" {
		cfg.Matcher.Type = "linear"
	}
	if cfg.Matcher.Threshold == 0 {
		cfg.Matcher.Threshold = 0.9
	}
	if cfg.Matcher.Store.Type == "" {
		cfg.Matcher.Store.Type = "memory"
	}
	if cfg.Matcher.Store.Type == "qdrant" {
		if cfg.Matcher.Store.Qdrant == nil {
			cfg.Matcher.Store.Qdrant = &QdrantConfig{}
		}
		if cfg.Matcher.Store.Qdrant.Addr == "" {
			cfg.Matcher.Store.Qdrant.Addr = "localhost:6334"
		}
		if cfg.Matcher.Store.Qdrant.Collection == "" {
			cfg.Matcher.Store.Qdrant.Collection = "qabot"
		}
	}
	if cfg.QA.Type == "" {
		cfg.QA.Type = "extractive"
	}
	if cfg.QA.SentencesPerSpan == 0 {
		cfg.QA.SentencesPerSpan = 1
	}
	if cfg.QA.Type == "llm" {
		if cfg.QA.LLM == nil {
			cfg.QA.LLM = &LLMConfig{}
		}
		if cfg.QA.LLM.BaseURL == "" {
			cfg.QA.LLM.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.QA.LLM.APIKeyEnv == "" {
			cfg.QA.LLM.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.QA.LLM.Model == "" {
			cfg.QA.LLM.Model = "gpt-4o-mini"
		}
		if cfg.QA.LLM.TimeoutSecs == 0 {
			cfg.QA.LLM.TimeoutSecs = 90
		}
	}
	if cfg.Chat.UI == "" {
		cfg.Chat.UI = "console"
	}
	if cfg.Chat.ExitKeyword == "" {
		cfg.Chat.ExitKeyword = "exit"
	}
	if cfg.Chat.Prompt == "" {
		cfg.Chat.Prompt = "You: "
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 3
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
}
