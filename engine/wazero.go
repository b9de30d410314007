package engine

import (
	"context"
	"io"
	"os"
	"sort"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	wasmresource "github.com/wippyai/wasm-resource"
	"github.com/wippyai/wasm-resource/errors"
	"github.com/wippyai/wasm-resource/wasm"
)

// WazeroEngine loads WebAssembly binaries and exposes their custom sections
// as resources.
type WazeroEngine struct {
	runtime  wazero.Runtime
	cache    wazero.CompilationCache
	log      *zap.Logger
	scanOnly bool
	closed   atomic.Bool
}

// Config holds configuration for engine creation
type Config struct {
	// CacheDir enables wazero's on-disk compilation cache in the given
	// directory. Empty means no cache.
	CacheDir string

	// MemoryLimitPages caps the memory a module may declare, in 64KB pages.
	// Compilation rejects modules whose declared memory exceeds it; nothing
	// is instantiated, so no memory is allocated. 0 means wazero's default
	// of 65536 pages (4GB).
	MemoryLimitPages uint32

	// Interpreter selects wazero's interpreter instead of the compiler.
	Interpreter bool

	// ScanOnly skips wazero compilation. Binaries are only scanned for
	// sections, so invalid code bodies are not detected.
	ScanOnly bool
}

// NewWazeroEngine creates a new wazero-based engine
func NewWazeroEngine(ctx context.Context) (*WazeroEngine, error) {
	return NewWazeroEngineWithConfig(ctx, nil)
}

// NewWazeroEngineWithConfig creates a new engine with custom configuration
func NewWazeroEngineWithConfig(ctx context.Context, cfg *Config) (*WazeroEngine, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	var runtimeCfg wazero.RuntimeConfig
	if cfg.Interpreter {
		runtimeCfg = wazero.NewRuntimeConfigInterpreter()
	} else {
		runtimeCfg = wazero.NewRuntimeConfig()
	}
	runtimeCfg = runtimeCfg.WithCustomSections(true)

	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	e := &WazeroEngine{log: Logger(), scanOnly: cfg.ScanOnly}

	if cfg.CacheDir != "" {
		cache, err := wazero.NewCompilationCacheWithDir(cfg.CacheDir)
		if err != nil {
			return nil, errors.Load("open compilation cache", err)
		}
		e.cache = cache
		runtimeCfg = runtimeCfg.WithCompilationCache(cache)
	}

	e.runtime = wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	return e, nil
}

// LoadModule compiles a core module, or scans a component, and indexes its
// custom sections. Components are always scanned: wazero only compiles
// core modules.
func (e *WazeroEngine) LoadModule(ctx context.Context, wasmBytes []byte) (*WazeroModule, error) {
	if e.closed.Load() {
		return nil, errors.Closed("engine")
	}

	if e.scanOnly || isComponent(wasmBytes) {
		return e.scan(wasmBytes)
	}

	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile failed", err)
	}

	m := newModule(compiled.Name(), false)
	for _, cs := range compiled.CustomSections() {
		m.add(cs.Name(), cs.Data())
	}
	m.compiled = compiled

	if ce := e.log.Check(zap.DebugLevel, "module compiled"); ce != nil {
		ce.Write(zap.String("module", m.name), zap.Int("resources", len(m.order)))
	}
	return m, nil
}

// LoadFile reads path and loads it with LoadModule.
func (e *WazeroEngine) LoadFile(ctx context.Context, path string) (*WazeroModule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		loadErr := errors.Wrap(errors.PhaseLoad, errors.KindIO, err, "read module file")
		loadErr.Module = path
		return nil, loadErr
	}
	return e.LoadModule(ctx, data)
}

func (e *WazeroEngine) scan(wasmBytes []byte) (*WazeroModule, error) {
	parsed, err := wasm.ParseModule(wasmBytes)
	if err != nil {
		return nil, errors.Load("scan failed", errors.ParseFailed("module sections", err))
	}

	m := newModule(parsed.Name(), parsed.IsComponent())
	for _, cs := range parsed.CustomSections {
		if isNameSection(cs.Name) {
			continue
		}
		m.add(cs.Name, cs.Data)
	}

	if ce := e.log.Check(zap.DebugLevel, "module scanned"); ce != nil {
		ce.Write(
			zap.String("module", m.name),
			zap.Bool("component", m.component),
			zap.Int("resources", len(m.order)),
		)
	}
	return m, nil
}

// Close releases the runtime and the compilation cache.
func (e *WazeroEngine) Close(ctx context.Context) error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := e.runtime.Close(ctx)
	if e.cache != nil {
		if cerr := e.cache.Close(ctx); err == nil {
			err = cerr
		}
	}
	return err
}

// WazeroModule is a loaded binary with its custom sections indexed by name.
// Name sections are metadata and not listed as resources.
type WazeroModule struct {
	compiled  wazero.CompiledModule
	sections  map[string][]byte
	name      string
	order     []string
	component bool
	closed    atomic.Bool
}

var (
	_ wasmresource.Module         = (*WazeroModule)(nil)
	_ wasmresource.ResourceLister = (*WazeroModule)(nil)
)

func newModule(name string, component bool) *WazeroModule {
	return &WazeroModule{
		sections:  make(map[string][]byte),
		name:      name,
		component: component,
	}
}

// add records a custom section; the first section with a name wins.
func (m *WazeroModule) add(name string, data []byte) {
	if _, dup := m.sections[name]; dup {
		return
	}
	m.sections[name] = data
	m.order = append(m.order, name)
}

// Name returns the name recorded in the binary's name section, or "".
func (m *WazeroModule) Name() string {
	return m.name
}

// IsComponent reports whether the binary is a component.
func (m *WazeroModule) IsComponent() bool {
	return m.component
}

// OpenResource returns a stream over the named custom section.
func (m *WazeroModule) OpenResource(name string) (io.ReadCloser, error) {
	if m.closed.Load() {
		return nil, errors.Closed("module")
	}
	data, ok := m.sections[name]
	if !ok {
		return nil, wasmresource.ErrResourceNotExist
	}
	return wasmresource.NewStream(data), nil
}

// ResourceNames returns the sorted resource names.
func (m *WazeroModule) ResourceNames() []string {
	names := make([]string, len(m.order))
	copy(names, m.order)
	sort.Strings(names)
	return names
}

// Size returns the payload length of the named resource.
func (m *WazeroModule) Size(name string) (int, bool) {
	data, ok := m.sections[name]
	return len(data), ok
}

// Close releases the compiled module. Streams already open stay readable.
func (m *WazeroModule) Close(ctx context.Context) error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	if m.compiled != nil {
		return m.compiled.Close(ctx)
	}
	return nil
}

func isComponent(b []byte) bool {
	if len(b) < 8 {
		return false
	}
	version := uint32(b[4]) | uint32(b[5])<<8 | uint32(b[6])<<16 | uint32(b[7])<<24
	return version>>16 != 0
}

func isNameSection(name string) bool {
	return name == wasm.NameSection || name == wasm.ComponentNameSection
}
