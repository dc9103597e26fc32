package model

import "time"

// Config is the complete truthcheck configuration.
// It is loaded by viper (mapstructure tags) and written by `config init` (yaml tags).
type Config struct {
	FactCheck     ServiceConfig       `yaml:"fact_check" mapstructure:"fact_check"`
	ImageAnalysis ServiceConfig       `yaml:"image_analysis" mapstructure:"image_analysis"`
	KnowledgeBase KnowledgeBaseConfig `yaml:"knowledge_base" mapstructure:"knowledge_base"`
	News          NewsConfig          `yaml:"news" mapstructure:"news"`
	HTTP          HTTPConfig          `yaml:"http" mapstructure:"http"`
	RateLimiting  RateLimitConfig     `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	History       HistoryConfig       `yaml:"history" mapstructure:"history"`
	Storage       StorageConfig       `yaml:"storage" mapstructure:"storage"`
	Concurrency   ConcurrencyConfig   `yaml:"concurrency" mapstructure:"concurrency"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
}

// ServiceConfig points at one of the remote analysis services
type ServiceConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// KnowledgeBaseConfig configures the optional Wikipedia reference lookup
type KnowledgeBaseConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	SearchURL      string        `yaml:"search_url" mapstructure:"search_url"`
	ArticleBaseURL string        `yaml:"article_base_url" mapstructure:"article_base_url"`
	CacheTTL       time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"` // 0 disables the lookup cache
}

// NewsConfig holds the news search link template
type NewsConfig struct {
	SearchURL string `yaml:"search_url" mapstructure:"search_url"` // claim is appended as ?q=
}

// HTTPConfig configures outbound HTTP clients
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// RateLimitConfig limits outbound requests per host
type RateLimitConfig struct {
	RequestsPerSecond float64          `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int              `yaml:"burst_size" mapstructure:"burst_size"`
	Hosts             []HostRateConfig `yaml:"hosts,omitempty" mapstructure:"hosts"`
}

// HostRateConfig overrides the rate limit for one host (host[:port])
type HostRateConfig struct {
	Host              string  `yaml:"host" mapstructure:"host"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // 0 = unlimited
	BurstSize         int     `yaml:"burst_size,omitempty" mapstructure:"burst_size"`
}

// HistoryConfig configures the persisted fact-check history
type HistoryConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	MaxEntries int    `yaml:"max_entries" mapstructure:"max_entries"` // 0 = unbounded
}

// StorageConfig selects the history backend
type StorageConfig struct {
	Backend  string `yaml:"backend" mapstructure:"backend"` // file, sqlite, redis, memory
	Path     string `yaml:"path" mapstructure:"path"`       // directory (file) or database file (sqlite)
	RedisURL string `yaml:"redis_url,omitempty" mapstructure:"redis_url"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ServerConfig configures the fact-check backend started by `serve`
type ServerConfig struct {
	Addr            string  `yaml:"addr" mapstructure:"addr"`
	ClientRateLimit float64 `yaml:"client_rate_limit" mapstructure:"client_rate_limit"` // requests/sec per client IP, 0 = unlimited
}

// LLMConfig configures the model behind the fact-check backend
type LLMConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"`
	Model     string        `yaml:"model" mapstructure:"model"`
	BaseURL   string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	APIKey    string        `yaml:"-" mapstructure:"api_key"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// LogConfig configures the logrus logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		FactCheck:     ServiceConfig{BaseURL: "http://127.0.0.1:5000"},
		ImageAnalysis: ServiceConfig{BaseURL: "http://127.0.0.1:5001"},
		KnowledgeBase: KnowledgeBaseConfig{
			Enabled:        true,
			SearchURL:      "https://en.wikipedia.org/w/api.php",
			ArticleBaseURL: "https://en.wikipedia.org/wiki",
			CacheTTL:       10 * time.Minute,
		},
		News: NewsConfig{SearchURL: "https://news.google.com/search"},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "TruthCheck/0.1 (+https://github.com/ppiankov/truthcheck)",
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		History: HistoryConfig{
			Key:        "factHistory",
			MaxEntries: 100,
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    "~/.truthcheck/history",
		},
		Concurrency: ConcurrencyConfig{Workers: 4},
		Server: ServerConfig{
			Addr:            "127.0.0.1:5000",
			ClientRateLimit: 2,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   30 * time.Second,
			MaxTokens: 400,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
