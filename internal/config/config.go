// Package config loads and validates the crawler configuration from YAML,
// with usable defaults for every knob.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures everything required to initialise a crawl or an upload.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Crawl    CrawlConfig    `yaml:"crawl"`
	Browser  BrowserConfig  `yaml:"browser"`
	Delays   DelayConfig    `yaml:"delays"`
	Limits   LimitConfig    `yaml:"limits"`
	VectorDB VectorDBConfig `yaml:"vector_db"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// OutputConfig locates the corpus files.
type OutputConfig struct {
	Dir      string `yaml:"dir"`       // per-code files land here as <slug>.txt
	LawsFile string `yaml:"laws_file"` // single shared file for all laws
}

// CrawlConfig selects what to crawl.
type CrawlConfig struct {
	BaseURL string   `yaml:"base_url"`
	Codes   []string `yaml:"codes"` // slug allowlist; empty means all codes
}

// BrowserConfig controls the Chrome session.
type BrowserConfig struct {
	Headless          bool     `yaml:"headless"`
	UserAgent         string   `yaml:"user_agent"` // empty rotates the built-in pool
	NavigationTimeout Duration `yaml:"navigation_timeout"`
}

// DelayConfig bounds the randomized human delay inserted between steps.
type DelayConfig struct {
	Min Duration `yaml:"min"`
	Max Duration `yaml:"max"`
}

// LimitConfig caps a run for testing or resuming. Zero means unlimited
// (StartPage zero means page 1).
type LimitConfig struct {
	MaxArticles int `yaml:"max_articles"` // per code
	MaxPages    int `yaml:"max_pages"`    // laws index pages
	MaxLaws     int `yaml:"max_laws"`     // laws total
	StartPage   int `yaml:"start_page"`
}

// VectorDBConfig describes the Qdrant destination and the embedding
// service the uploader calls.
type VectorDBConfig struct {
	Endpoint     string `yaml:"endpoint"`
	APIKey       string `yaml:"api_key"`
	Collection   string `yaml:"collection"`
	EmbeddingURL string `yaml:"embedding_url"`
	BatchSize    int    `yaml:"batch_size"`
}

// LoggingConfig selects log verbosity and format.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Structured bool   `yaml:"structured"`
}

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		Output: OutputConfig{
			Dir:      "output",
			LawsFile: "output/federal_laws.txt",
		},
		Crawl: CrawlConfig{
			BaseURL: "https://legalacts.ru",
		},
		Browser: BrowserConfig{
			Headless:          true,
			NavigationTimeout: DurationFrom(45 * time.Second),
		},
		Delays: DelayConfig{
			Min: DurationFrom(300 * time.Millisecond),
			Max: DurationFrom(time.Second),
		},
		Limits: LimitConfig{
			StartPage: 1,
		},
		VectorDB: VectorDBConfig{
			Endpoint:  "http://127.0.0.1:6333",
			BatchSize: 256,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Structured: false,
		},
	}
}

// Load reads, merges, and validates configuration from a YAML file.
func Load(path string) (*Config, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer fh.Close()
	return LoadFromReader(fh)
}

// LoadFromReader decodes configuration from an arbitrary reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces required invariants.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Crawl.BaseURL) == "" {
		return errors.New("crawl.base_url must be set")
	}
	if !strings.HasPrefix(c.Crawl.BaseURL, "http://") && !strings.HasPrefix(c.Crawl.BaseURL, "https://") {
		return fmt.Errorf("crawl.base_url must be an http(s) URL (got %q)", c.Crawl.BaseURL)
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.New("output.dir must be set")
	}
	if strings.TrimSpace(c.Output.LawsFile) == "" {
		return errors.New("output.laws_file must be set")
	}
	if c.Delays.Min.Duration < 0 || c.Delays.Max.Duration < 0 {
		return errors.New("delays must not be negative")
	}
	if c.Delays.Max.Duration < c.Delays.Min.Duration {
		return fmt.Errorf("delays.max (%s) must not be below delays.min (%s)", c.Delays.Max, c.Delays.Min)
	}
	if c.Limits.MaxArticles < 0 || c.Limits.MaxPages < 0 || c.Limits.MaxLaws < 0 {
		return errors.New("limits must not be negative")
	}
	if c.Limits.StartPage < 1 {
		return fmt.Errorf("limits.start_page must be >= 1 (got %d)", c.Limits.StartPage)
	}
	if c.VectorDB.BatchSize <= 0 {
		return fmt.Errorf("vector_db.batch_size must be > 0 (got %d)", c.VectorDB.BatchSize)
	}
	return nil
}

func (c *Config) normalise() {
	c.Crawl.BaseURL = strings.TrimRight(strings.TrimSpace(c.Crawl.BaseURL), "/")
	c.Output.Dir = strings.TrimSpace(c.Output.Dir)
	c.Output.LawsFile = strings.TrimSpace(c.Output.LawsFile)
	c.Browser.UserAgent = strings.TrimSpace(c.Browser.UserAgent)
	c.VectorDB.Endpoint = strings.TrimRight(strings.TrimSpace(c.VectorDB.Endpoint), "/")
	c.VectorDB.EmbeddingURL = strings.TrimRight(strings.TrimSpace(c.VectorDB.EmbeddingURL), "/")
	if c.Limits.StartPage == 0 {
		c.Limits.StartPage = 1
	}
	if len(c.Crawl.Codes) > 0 {
		c.Crawl.Codes = dedupe(c.Crawl.Codes)
	}
}

func dedupe(values []string) []string {
	unique := make(map[string]struct{}, len(values))
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := unique[v]; ok {
			continue
		}
		unique[v] = struct{}{}
		cleaned = append(cleaned, v)
	}
	sort.Strings(cleaned)
	return cleaned
}
