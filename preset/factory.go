// Package preset parses shader preset files into ordered pass lists.
//
// Formats are provided by loaders registered on a Factory under one or more
// file extensions. The Factory is an explicit object owned by the caller;
// there is no package-level registry.
package preset

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/richinsley/goshaderpreset/shader"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ErrNoLoader is returned when no loader is registered for a path.
var ErrNoLoader = errors.New("no preset loader for file extension")

// Preset is the parsed content of a preset file.
type Preset struct {
	Path   string
	Passes []shader.Pass
}

// Loader parses one preset format.
type Loader interface {
	Load(path string, out *Preset) error
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string, out *Preset) error

func (f LoaderFunc) Load(path string, out *Preset) error { return f(path, out) }

// Factory maps file extensions to loaders.
type Factory struct {
	loaders map[string]Loader
	log     zerolog.Logger
}

// NewFactory returns an empty factory.
func NewFactory(logger zerolog.Logger) *Factory {
	return &Factory{
		loaders: make(map[string]Loader),
		log:     logger.With().Str("component", "presetfactory").Logger(),
	}
}

// NewDefaultFactory returns a factory with the glslp and structured loaders
// registered, both reading through fs.
func NewDefaultFactory(fs afero.Fs, logger zerolog.Logger) *Factory {
	f := NewFactory(logger)
	f.RegisterLoader(NewGLSLPLoader(fs), ".glslp")
	f.RegisterLoader(NewStructuredLoader(fs), StructuredExtensions...)
	return f
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// RegisterLoader installs loader for each extension, replacing any loader
// already registered for it.
func (f *Factory) RegisterLoader(loader Loader, extensions ...string) {
	for _, ext := range extensions {
		ext = normalizeExt(ext)
		if _, exists := f.loaders[ext]; exists {
			f.log.Warn().Str("extension", ext).Msg("replacing preset loader")
		}
		f.loaders[ext] = loader
	}
}

// UnregisterLoader removes the loaders bound to the given extensions.
func (f *Factory) UnregisterLoader(extensions ...string) {
	for _, ext := range extensions {
		delete(f.loaders, normalizeExt(ext))
	}
}

// match returns the loader whose extension is the longest suffix of path, so
// ".preset.yaml" wins over ".yaml".
func (f *Factory) match(path string) (Loader, bool) {
	lower := strings.ToLower(path)
	best := ""
	for ext := range f.loaders {
		if strings.HasSuffix(lower, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	if best == "" {
		return nil, false
	}
	return f.loaders[best], true
}

// LoadPreset parses path with the matching loader. out is reset first.
func (f *Factory) LoadPreset(path string, out *Preset) error {
	loader, ok := f.match(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoLoader, path)
	}
	*out = Preset{Path: path}
	if err := loader.Load(path, out); err != nil {
		*out = Preset{Path: path}
		return fmt.Errorf("failed to load preset %s: %w", path, err)
	}
	f.log.Debug().Str("path", path).Int("passes", len(out.Passes)).Msg("preset parsed")
	return nil
}

// HasLoaders reports whether any format is available.
func (f *Factory) HasLoaders() bool {
	return len(f.loaders) > 0
}

// CanLoadPreset reports whether a loader is registered for path. It does not
// touch the file.
func (f *Factory) CanLoadPreset(path string) bool {
	_, ok := f.match(path)
	return ok
}

// Extensions lists the registered extensions in sorted order.
func (f *Factory) Extensions() []string {
	exts := make([]string, 0, len(f.loaders))
	for ext := range f.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
