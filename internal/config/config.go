package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/cvoutline/internal/outline"
	"github.com/dgallion1/cvoutline/internal/parser"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Source columns
	IDColumn     string   `yaml:"id_column"`
	ParentColumn string   `yaml:"parent_column"`
	RootSentinel string   `yaml:"root_sentinel"`
	Locales      []string `yaml:"locales"`
	Sheet        string   `yaml:"sheet"`

	// Rendering
	Locale     string   `yaml:"locale"`
	Roots      []string `yaml:"roots"`
	MaxDepth   int      `yaml:"max_depth"`
	StylesPath string   `yaml:"styles_path"`
	Output     string   `yaml:"output"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Job state
	JobTTL time.Duration `yaml:"job_ttl"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:           "8090",
		IDColumn:       "Id",
		ParentColumn:   "Parent",
		Locale:         "English",
		MaxDepth:       outline.DefaultMaxDepth,
		Output:         "CV.docx",
		WorkerCount:    4,
		MaxQueueSize:   100,
		MaxUploadBytes: 10485760, // 10MB
		JobTTL:         1 * time.Hour,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CVOUTLINE_CONFIG if set, then the environment.
func Load() (Config, error) {
	return LoadFile(os.Getenv("CVOUTLINE_CONFIG"))
}

// LoadFile is Load with an explicit config file path; empty means none.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	cfg.clamp()
	return cfg, nil
}

// MergeFile overlays the keys present in a YAML config file.
func (c *Config) MergeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = envOr("PORT", c.Port)
	c.APIKey = envOr("CVOUTLINE_API_KEY", c.APIKey)

	c.IDColumn = envOr("ID_COLUMN", c.IDColumn)
	c.ParentColumn = envOr("PARENT_COLUMN", c.ParentColumn)
	if v, ok := os.LookupEnv("ROOT_SENTINEL"); ok {
		c.RootSentinel = v
	}
	c.Locales = envList("LOCALES", c.Locales)
	c.Sheet = envOr("SHEET", c.Sheet)

	c.Locale = envOr("LOCALE", c.Locale)
	c.Roots = envList("ROOTS", c.Roots)
	c.MaxDepth = envInt("MAX_DEPTH", c.MaxDepth)
	c.StylesPath = envOr("STYLES_PATH", c.StylesPath)
	c.Output = envOr("OUTPUT", c.Output)

	c.WorkerCount = envInt("WORKER_COUNT", c.WorkerCount)
	c.MaxQueueSize = envInt("MAX_QUEUE_SIZE", c.MaxQueueSize)
	c.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.JobTTL = envDuration("JOB_TTL", c.JobTTL)
}

func (c *Config) clamp() {
	d := Defaults()
	if c.MaxDepth <= 0 {
		c.MaxDepth = d.MaxDepth
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.IDColumn) == "" {
		return fmt.Errorf("ID_COLUMN is required")
	}
	if strings.TrimSpace(c.ParentColumn) == "" {
		return fmt.Errorf("PARENT_COLUMN is required")
	}
	if c.IDColumn == c.ParentColumn {
		return fmt.Errorf("ID_COLUMN and PARENT_COLUMN must differ (both %q)", c.IDColumn)
	}
	if strings.TrimSpace(c.Locale) == "" {
		return fmt.Errorf("LOCALE is required")
	}
	return nil
}

// ParserOptions returns the reader settings. Heading-outline sources put
// their text under the active locale column.
func (c Config) ParserOptions() parser.Options {
	return parser.Options{
		IDColumn:     c.IDColumn,
		ParentColumn: c.ParentColumn,
		TextColumn:   c.Locale,
		RootSentinel: c.RootSentinel,
		Sheet:        c.Sheet,
	}
}

// OutlineOptions returns the core settings for the given style table.
func (c Config) OutlineOptions(styles outline.StyleTable) outline.Options {
	var roots []outline.ID
	for _, r := range c.Roots {
		roots = append(roots, outline.NormalizeID(r))
	}
	return outline.Options{
		Columns: outline.Columns{
			ID:      c.IDColumn,
			Parent:  c.ParentColumn,
			Locales: c.Locales,
		},
		RootSentinel: outline.NormalizeID(c.RootSentinel),
		Roots:        roots,
		Styles:       styles,
		Locale:       c.Locale,
		MaxDepth:     c.MaxDepth,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
