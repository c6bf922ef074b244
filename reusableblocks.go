package reusableblocks

import (
	"errors"
	"strings"

	"github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-reusable-blocks/blocks"
	internalblocks "github.com/goliatone/go-reusable-blocks/internal/blocks"
	"github.com/goliatone/go-reusable-blocks/internal/logging"
	"github.com/goliatone/go-reusable-blocks/internal/logging/gologger"
	internalrender "github.com/goliatone/go-reusable-blocks/internal/render"
	"github.com/goliatone/go-reusable-blocks/pkg/interfaces"
	"github.com/goliatone/go-reusable-blocks/render"
)

// ErrDatabaseRequired indicates the bun storage provider was selected
// without supplying a database connection.
var ErrDatabaseRequired = errors.New("reusableblocks: storage provider bun requires a database connection")

// ErrModuleDisabled indicates construction with Enabled set to false.
var ErrModuleDisabled = errors.New("reusableblocks: module is disabled by configuration")

// BlockService exports the block service contract.
type BlockService = blocks.Service

// RenderService exports the renderer contract.
type RenderService = render.Renderer

// SlotDetector exports the slot detection contract.
type SlotDetector = render.SlotDetector

// RenderContext exports the per-request render state.
type RenderContext = render.Context

// SlotInfo exports the detected slot descriptor.
type SlotInfo = render.SlotInfo

// DepthExceededHTML is the placeholder emitted when a render branch runs
// out of nesting budget.
const DepthExceededHTML = render.DepthExceededHTML

// Module is the top level reusable blocks runtime facade.
type Module struct {
	cfg      Config
	service  blocks.Service
	renderer *internalrender.Renderer
	slots    *internalrender.SlotEngine
	provider interfaces.LoggerProvider
}

type moduleDeps struct {
	db             *bun.DB
	repo           internalblocks.Repository
	loggerProvider interfaces.LoggerProvider
	cacheService   cache.CacheService
	keySerializer  cache.KeySerializer
}

// Option overrides a module dependency during construction.
type Option func(*moduleDeps)

// WithDB supplies the database connection backing the bun storage provider.
func WithDB(db *bun.DB) Option {
	return func(d *moduleDeps) {
		d.db = db
	}
}

// WithRepository replaces the storage layer entirely. It takes precedence
// over the configured storage provider.
func WithRepository(repo internalblocks.Repository) Option {
	return func(d *moduleDeps) {
		d.repo = repo
	}
}

// WithLoggerProvider replaces the logger provider assembled from the
// logging configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(d *moduleDeps) {
		d.loggerProvider = provider
	}
}

// WithCache supplies the cache service and key serializer used to wrap bun
// repository reads when caching is enabled.
func WithCache(service cache.CacheService, serializer cache.KeySerializer) Option {
	return func(d *moduleDeps) {
		d.cacheService = service
		d.keySerializer = serializer
	}
}

// New validates the configuration and assembles the module. Configuration
// problems are fatal here rather than surfacing later inside a render.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, ErrModuleDisabled
	}

	deps := &moduleDeps{}
	for _, opt := range opts {
		opt(deps)
	}

	provider, err := resolveLoggerProvider(cfg, deps)
	if err != nil {
		return nil, err
	}

	if len(cfg.Segments) == 0 {
		logging.ModuleLogger(provider, "").Warn("no segment types registered; stored content will not render")
	}

	repo, err := resolveRepository(cfg, deps)
	if err != nil {
		return nil, err
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	slots := internalrender.NewSlotEngine(
		internalrender.WithSlotLogger(logging.RenderLogger(provider)),
	)

	renderer := internalrender.New(repo,
		internalrender.WithRegistry(registry),
		internalrender.WithSlotEngine(slots),
		internalrender.WithLogger(logging.RenderLogger(provider)),
		internalrender.WithMaxDepth(func() int { return cfg.Render.MaxNestingDepth }),
	)

	service := internalblocks.NewService(repo,
		internalblocks.WithLogger(logging.BlocksLogger(provider)),
	)

	return &Module{
		cfg:      cfg,
		service:  service,
		renderer: renderer,
		slots:    slots,
		provider: provider,
	}, nil
}

// Blocks returns the configured block service.
func (m *Module) Blocks() BlockService {
	return m.service
}

// Renderer returns the configured block renderer.
func (m *Module) Renderer() RenderService {
	return m.renderer
}

// Slots returns the slot detector used by editing surfaces.
func (m *Module) Slots() SlotDetector {
	return m.slots
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	return m.cfg
}

func resolveLoggerProvider(cfg Config, deps *moduleDeps) (interfaces.LoggerProvider, error) {
	if deps.loggerProvider != nil {
		return deps.loggerProvider, nil
	}
	if !cfg.Features.Logger {
		return nil, nil
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Provider)) {
	case "noop":
		return nil, nil
	case "", "console", "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
	default:
		return nil, ErrLoggingProviderUnknown
	}
}

func resolveRepository(cfg Config, deps *moduleDeps) (internalblocks.Repository, error) {
	if deps.repo != nil {
		return deps.repo, nil
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Provider)) {
	case "", "memory":
		return internalblocks.NewMemoryRepository(), nil
	case "bun":
		if deps.db == nil {
			return nil, ErrDatabaseRequired
		}
		if cfg.Cache.Enabled && deps.cacheService != nil && deps.keySerializer != nil {
			return internalblocks.NewBunRepositoryWithCache(deps.db, deps.cacheService, deps.keySerializer), nil
		}
		return internalblocks.NewBunRepository(deps.db), nil
	default:
		return nil, ErrStorageProviderUnknown
	}
}

// buildRegistry turns segment type registrations into renderer definitions,
// attaching the built-in transforms for the stock text tags.
func buildRegistry(cfg Config) (*internalrender.Registry, error) {
	var markdown *internalrender.Markdown
	if cfg.Features.Markdown {
		markdown = internalrender.NewMarkdown()
	}

	var sanitizer *internalrender.Sanitizer
	if cfg.Render.SanitizeRichText {
		sanitizer = internalrender.NewSanitizer()
	}

	registry := internalrender.NewRegistry()
	for _, segment := range cfg.Segments {
		def := internalrender.SegmentDefinition{
			Name: segment.Name,
			Kind: segment.Kind,
		}

		switch strings.ToLower(strings.TrimSpace(segment.Name)) {
		case blocks.SegmentRichText:
			if sanitizer != nil {
				def.Transform = func(input string) (string, error) {
					return sanitizer.Sanitize(input), nil
				}
			}
		case blocks.SegmentMarkdown:
			if markdown == nil {
				// Markdown feature disabled: the tag stays unregistered
				// and degrades at render time.
				continue
			}
			def.Transform = markdown.Render
		}

		if err := registry.Register(def); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
