package router

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/verte-zerg/studydeck/internal/logging"
)

// File keeps the fragment in a file so other processes can navigate a
// running program by rewriting it. Changes, local or external, arrive
// through an fsnotify watch on the parent directory. Consecutive
// identical contents are delivered once.
type File struct {
	path    string
	logger  *zap.Logger
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	last    string
	closed  bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	watches watchers
}

// OpenFile opens or creates the fragment file at path and starts
// watching it.
func OpenFile(path string, logger *zap.Logger) (*File, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return nil, err
		}
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	f := &File{
		path:    path,
		logger:  logging.OrNop(logger),
		watcher: watcher,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	f.last, _ = f.read()
	go f.run()
	return f, nil
}

// Path returns the fragment file path.
func (f *File) Path() string {
	return f.path
}

// Fragment implements FragmentStore.
func (f *File) Fragment() string {
	fragment, err := f.read()
	if err != nil {
		f.logger.Warn("failed to read route file", zap.String("path", f.path), zap.Error(err))
		return ""
	}
	return fragment
}

// SetFragment implements FragmentStore. The file is replaced atomically
// so watchers never observe a half-written route.
func (f *File) SetFragment(fragment string) error {
	return WriteFragmentFile(f.path, fragment)
}

// Watch implements FragmentStore.
func (f *File) Watch(fn func(string)) func() {
	return f.watches.add(fn)
}

// Close stops the watcher and waits for its goroutine to exit.
func (f *File) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()

	close(f.stopCh)
	<-f.doneCh
	return f.watcher.Close()
}

func (f *File) run() {
	defer close(f.doneCh)
	for {
		select {
		case <-f.stopCh:
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			f.handleEvent(event)
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn("route watcher error", zap.Error(err))
		}
	}
}

func (f *File) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != f.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	fragment, err := f.read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.logger.Warn("failed to read route file", zap.String("path", f.path), zap.Error(err))
		}
		return
	}
	f.mu.Lock()
	if fragment == f.last {
		f.mu.Unlock()
		return
	}
	f.last = fragment
	f.mu.Unlock()
	f.logger.Debug("route file changed", zap.String("fragment", fragment))
	f.watches.notify(fragment)
}

func (f *File) read() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", err
	}
	fragment := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(fragment, "\r"), nil
}

// WriteFragmentFile atomically replaces the fragment stored at path.
func WriteFragmentFile(path, fragment string) error {
	if strings.ContainsAny(fragment, "\r\n") {
		return fmt.Errorf("route must be a single line")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create route dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, ".route-*")
	if err != nil {
		return fmt.Errorf("failed to create temp route: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.WriteString(fragment + "\n"); err != nil {
		return fmt.Errorf("failed to write route: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close route: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write route: %w", err)
	}
	return nil
}
