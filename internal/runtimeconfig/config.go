package runtimeconfig

import (
	"errors"
	"strings"
	"time"
)

// ErrMaxNestingDepthInvalid indicates a depth limit below one expansion.
var ErrMaxNestingDepthInvalid = errors.New("reusable config: max nesting depth must be at least 1")

// ErrSegmentTypeNameRequired indicates a segment registration without a type tag.
var ErrSegmentTypeNameRequired = errors.New("reusable config: segment type name is required")

// ErrSegmentTypeKindUnknown indicates a segment registration with an unsupported kind.
var ErrSegmentTypeKindUnknown = errors.New("reusable config: segment type kind is unknown")

// ErrSegmentTypeDuplicate indicates a segment type tag registered twice.
var ErrSegmentTypeDuplicate = errors.New("reusable config: segment type registered twice")

var ErrLoggingProviderRequired = errors.New("reusable config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("reusable config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("reusable config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("reusable config: logging format is invalid")
var ErrStorageProviderUnknown = errors.New("reusable config: storage provider is invalid")

// Segment kinds describe how a registered type tag is rendered.
const (
	SegmentKindText      = "text"
	SegmentKindReference = "reference"
	SegmentKindLayout    = "layout"
)

// DefaultMaxNestingDepth caps recursive reusable-block expansion.
const DefaultMaxNestingDepth = 5

// Config aggregates feature flags and adapter bindings for the module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled  bool
	Render   RenderConfig
	Segments []SegmentTypeConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Features Features
	Logging  LoggingConfig
}

// RenderConfig captures the depth cutoff and sanitization behaviour for the
// recursive renderer.
type RenderConfig struct {
	// MaxNestingDepth is the number of reusable-block expansions permitted
	// below a top-level render. It is read on every render call so a
	// configuration change takes effect on the next request.
	MaxNestingDepth int

	// SanitizeRichText runs rich_text segments through the HTML sanitizer.
	SanitizeRichText bool
}

// SegmentTypeConfig registers one content segment type tag with the renderer.
type SegmentTypeConfig struct {
	Name string
	Kind string
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
}

// CacheConfig captures cache behaviour toggles for repository reads.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// Features toggles module functionality.
type Features struct {
	Markdown bool
	Logger   bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults covering the stock segment
// types with sanitized rich text and in-memory storage.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Render: RenderConfig{
			MaxNestingDepth:  DefaultMaxNestingDepth,
			SanitizeRichText: true,
		},
		Segments: []SegmentTypeConfig{
			{Name: "rich_text", Kind: SegmentKindText},
			{Name: "raw_html", Kind: SegmentKindText},
			{Name: "markdown", Kind: SegmentKindText},
			{Name: "reusable_block", Kind: SegmentKindReference},
			{Name: "reusable_layout", Kind: SegmentKindLayout},
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Features: Features{
			Markdown: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks. Failures here are fatal
// at process start; render-time code assumes a validated configuration.
func (cfg Config) Validate() error {
	if cfg.Render.MaxNestingDepth < 1 {
		return ErrMaxNestingDepthInvalid
	}

	seen := make(map[string]struct{}, len(cfg.Segments))
	for _, segment := range cfg.Segments {
		name := strings.TrimSpace(strings.ToLower(segment.Name))
		if name == "" {
			return ErrSegmentTypeNameRequired
		}
		if _, dup := seen[name]; dup {
			return ErrSegmentTypeDuplicate
		}
		seen[name] = struct{}{}

		switch segment.Kind {
		case SegmentKindText, SegmentKindReference, SegmentKindLayout:
		default:
			return ErrSegmentTypeKindUnknown
		}
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Provider)) {
	case "", "memory", "bun":
	default:
		return ErrStorageProviderUnknown
	}

	if cfg.Features.Logger {
		if err := cfg.Logging.validate(); err != nil {
			return err
		}
	}

	return nil
}

func (lc LoggingConfig) validate() error {
	provider := strings.ToLower(strings.TrimSpace(lc.Provider))
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	switch provider {
	case "console", "gologger", "noop":
	default:
		return ErrLoggingProviderUnknown
	}

	switch strings.ToLower(strings.TrimSpace(lc.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return ErrLoggingLevelInvalid
	}

	switch strings.ToLower(strings.TrimSpace(lc.Format)) {
	case "", "json", "console", "pretty":
	default:
		return ErrLoggingFormatInvalid
	}

	return nil
}
