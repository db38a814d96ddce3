package stencil

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Engine provides the main API for working with template documents.
// Use New() to create a new engine instance.
//
// The cache holds classified lines only. Templates handed out by an engine
// always render with that engine's configuration, even when the cache is
// shared with engines configured differently.
type Engine struct {
	config *Config

	mu    sync.RWMutex
	cache *TemplateCache
}

// New creates a new template engine that follows the global configuration
// and shares the global cache.
func New() *Engine {
	return &Engine{
		cache: getDefaultCache(),
	}
}

// NewWithConfig creates a new template engine with custom configuration.
func NewWithConfig(config *Config) *Engine {
	config = NewConfigWithDefaults(config)
	return &Engine{
		config: config,
		cache: NewTemplateCacheWithConfig(CacheConfig{
			MaxSize: config.CacheMaxSize,
			TTL:     config.CacheTTL,
		}),
	}
}

// PrepareFile loads and classifies a template from a file path.
// The template is cached if caching is enabled in the configuration.
func (e *Engine) PrepareFile(path string) (*PreparedTemplate, error) {
	config := e.Config()
	cache := e.templateCache()

	if config.CacheMaxSize > 0 && cache != nil {
		if tmpl, ok := cache.Get(path); ok {
			return tmpl.withConfig(config), nil
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	defer file.Close()

	tmpl, err := prepare(file, config)
	if err != nil {
		return nil, fmt.Errorf("prepare %s: %w", path, err)
	}

	if config.CacheMaxSize > 0 && cache != nil {
		cache.Set(path, tmpl)
	}

	return tmpl, nil
}

// Prepare loads and classifies a template from an io.Reader.
func (e *Engine) Prepare(r io.Reader) (*PreparedTemplate, error) {
	return prepare(r, e.Config())
}

// Config returns the engine's configuration. Engines created with New()
// report the current global configuration.
func (e *Engine) Config() *Config {
	if e.config == nil {
		return GetGlobalConfig()
	}
	return e.config
}

// SetConfig updates the engine's configuration.
// Cache size changes only apply to engines created afterwards.
func (e *Engine) SetConfig(config *Config) {
	e.config = config
}

// ClearCache removes all templates from the cache.
func (e *Engine) ClearCache() {
	if cache := e.templateCache(); cache != nil {
		cache.Clear()
	}
}

func (e *Engine) templateCache() *TemplateCache {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cache
}

func (e *Engine) setTemplateCache(cache *TemplateCache) {
	e.mu.Lock()
	e.cache = cache
	e.mu.Unlock()
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithConfig returns an option that sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		e.config = NewConfigWithDefaults(config)
	}
}

// WithCache returns an option that replaces the engine cache with one of
// the given size (0 disables caching).
func WithCache(maxSize int) Option {
	return func(e *Engine) {
		config := *e.Config()
		config.CacheMaxSize = maxSize
		e.config = &config
		e.cache = NewTemplateCacheWithConfig(CacheConfig{MaxSize: maxSize, TTL: config.CacheTTL})
	}
}

// WithStrictMode returns an option that toggles strict rendering.
func WithStrictMode(strict bool) Option {
	return func(e *Engine) {
		config := *e.Config()
		config.StrictMode = strict
		e.config = &config
	}
}

// NewWithOptions creates a new engine with the specified options.
// Unless WithCache is given the engine gets its own cache sized from the
// resulting configuration.
func NewWithOptions(opts ...Option) *Engine {
	engine := &Engine{}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.cache == nil {
		config := engine.Config()
		engine.cache = NewTemplateCacheWithConfig(CacheConfig{
			MaxSize: config.CacheMaxSize,
			TTL:     config.CacheTTL,
		})
	}
	return engine
}

// DefaultEngine is the global default engine instance.
// It uses the global configuration and cache.
var DefaultEngine = New()

// Module-level convenience functions that use the default engine.

// PrepareFile loads and classifies a template from a file path using the default engine.
func PrepareFile(path string) (*PreparedTemplate, error) {
	return DefaultEngine.PrepareFile(path)
}

// Prepare loads and classifies a template from an io.Reader using the default engine.
func Prepare(r io.Reader) (*PreparedTemplate, error) {
	return DefaultEngine.Prepare(r)
}

// ClearCache clears the global template cache.
func ClearCache() {
	DefaultEngine.ClearCache()
}

// SetCacheConfig updates the global cache configuration.
// The default cache is rebuilt so the new limits take effect for
// DefaultEngine and engines created with New() afterwards. It is safe to call
// while DefaultEngine is in use.
func SetCacheConfig(maxSize int, ttl time.Duration) {
	config := GetGlobalConfig()
	config.CacheMaxSize = maxSize
	config.CacheTTL = ttl
	SetGlobalConfig(config)

	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: maxSize, TTL: ttl})

	defaultCacheMu.Lock()
	defer defaultCacheMu.Unlock()
	defaultCache = cache
	DefaultEngine.setTemplateCache(cache)
}
