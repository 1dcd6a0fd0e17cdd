// Package watch reports edits to the files a shader preset is built from.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/richinsley/goshaderpreset/shader"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// PresetFiles lists the preset file, every pass source and every lookup
// texture, cleaned and without duplicates.
func PresetFiles(presetPath string, passes []shader.Pass) []string {
	seen := map[string]struct{}{}
	var files []string
	add := func(p string) {
		if p == "" {
			return
		}
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	add(presetPath)
	for _, pass := range passes {
		add(pass.SourcePath)
		for _, lut := range pass.Luts {
			add(lut.Path)
		}
	}
	return files
}

// Watcher sends on Reloads when a watched file changes. Directories are
// watched rather than files so that atomic saves by rename are seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	reloads  chan struct{}
	log      zerolog.Logger

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}
}

func New(logger zerolog.Logger, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  fw,
		debounce: debounce,
		reloads:  make(chan struct{}, 1),
		log:      logger.With().Str("component", "watch").Logger(),
		files:    map[string]struct{}{},
		dirs:     map[string]struct{}{},
	}, nil
}

// Reloads delivers at most one pending notification at a time.
func (w *Watcher) Reloads() <-chan struct{} {
	return w.reloads
}

// SetFiles replaces the watched set.
func (w *Watcher) SetFiles(files []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	nextFiles := map[string]struct{}{}
	nextDirs := map[string]struct{}{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		nextFiles[abs] = struct{}{}
		nextDirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range nextDirs {
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	for dir := range w.dirs {
		if _, ok := nextDirs[dir]; !ok {
			_ = w.watcher.Remove(dir)
		}
	}
	w.files = nextFiles
	w.dirs = nextDirs
	w.log.Debug().Int("files", len(nextFiles)).Int("dirs", len(nextDirs)).Msg("watch set updated")
	return nil
}

// Files returns the watched files in sorted order.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (w *Watcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[abs]
	return ok
}

// Run dispatches events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if !w.watched(ev.Name) {
				continue
			}
			w.log.Debug().Str("op", ev.Op.String()).Str("file", ev.Name).Msg("preset file changed")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case w.reloads <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
