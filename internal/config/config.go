package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort           = "8080"
	defaultChatModel      = "gpt-4o"
	defaultSummaryModel   = "gpt-4o-mini"
	defaultMaxRoundTrips  = 6
	defaultRequestTimeout = 30 * time.Second
	defaultNewsResults    = 5
	defaultRateLimitRPS   = 0
	defaultRateLimitBurst = 10
)

// Config is the service configuration. Values come from the optional YAML
// file named by CONFIG_FILE, then from the environment, which wins.
type Config struct {
	Port        string `yaml:"port"`
	FrontendURL string `yaml:"frontend_url"`

	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	OpenAIModel   string `yaml:"openai_model"`

	SummaryModel    string `yaml:"summary_model"`
	SummaryProvider string `yaml:"summary_provider"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`

	NewsProvider       string `yaml:"news_provider"`
	ExaAPIKey          string `yaml:"exa_api_key"`
	ExaBaseURL         string `yaml:"exa_base_url"`
	FinnhubAPIKey      string `yaml:"finnhub_api_key"`
	AlphaVantageAPIKey string `yaml:"alpha_vantage_api_key"`

	MaxRoundTrips  int           `yaml:"max_round_trips"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	NewsResults    int           `yaml:"news_results"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`

	LogFormat string `yaml:"log_format"`
	LogLevel  string `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		Port:            defaultPort,
		OpenAIModel:     defaultChatModel,
		SummaryModel:    defaultSummaryModel,
		SummaryProvider: "openai",
		NewsProvider:    "exa",
		MaxRoundTrips:   defaultMaxRoundTrips,
		RequestTimeout:  defaultRequestTimeout,
		NewsResults:     defaultNewsResults,
		RateLimitRPS:    defaultRateLimitRPS,
		RateLimitBurst:  defaultRateLimitBurst,
		LogFormat:       "json",
		LogLevel:        "info",
	}
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom builds the configuration with getenv as the environment source.
func LoadFrom(getenv func(string) string) (*Config, error) {
	cfg := defaults()

	if path := getenv("CONFIG_FILE"); path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"PORT":                  &c.Port,
		"FRONTEND_URL":          &c.FrontendURL,
		"OPENAI_API_KEY":        &c.OpenAIAPIKey,
		"OPENAI_BASE_URL":       &c.OpenAIBaseURL,
		"OPENAI_MODEL":          &c.OpenAIModel,
		"SUMMARY_MODEL":         &c.SummaryModel,
		"SUMMARY_PROVIDER":      &c.SummaryProvider,
		"ANTHROPIC_API_KEY":     &c.AnthropicAPIKey,
		"NEWS_PROVIDER":         &c.NewsProvider,
		"EXA_API_KEY":           &c.ExaAPIKey,
		"EXA_BASE_URL":          &c.ExaBaseURL,
		"FINNHUB_API_KEY":       &c.FinnhubAPIKey,
		"ALPHA_VANTAGE_API_KEY": &c.AlphaVantageAPIKey,
		"LOG_FORMAT":            &c.LogFormat,
		"LOG_LEVEL":             &c.LogLevel,
	}
	for key, dst := range strs {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MAX_ROUND_TRIPS":  &c.MaxRoundTrips,
		"NEWS_RESULTS":     &c.NewsResults,
		"RATE_LIMIT_BURST": &c.RateLimitBurst,
	}
	for key, dst := range ints {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
	}

	if v := strings.TrimSpace(getenv("RATE_LIMIT_RPS")); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPS %q: %w", v, err)
		}
		c.RateLimitRPS = rps
	}

	if v := strings.TrimSpace(getenv("REQUEST_TIMEOUT")); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", v, err)
		}
		c.RequestTimeout = d
	}
	return nil
}

// parseTimeout accepts a Go duration ("45s") or a plain number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func (c *Config) validate() error {
	if c.MaxRoundTrips < 1 {
		return fmt.Errorf("max round trips must be at least 1, got %d", c.MaxRoundTrips)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.NewsResults < 1 {
		return fmt.Errorf("news results must be at least 1, got %d", c.NewsResults)
	}

	c.SummaryProvider = strings.ToLower(c.SummaryProvider)
	switch c.SummaryProvider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown summary provider %q", c.SummaryProvider)
	}

	c.NewsProvider = strings.ToLower(c.NewsProvider)
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// AllowedOrigins is the CORS allow list: the local frontend plus FRONTEND_URL.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:3000"}
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	return origins
}
