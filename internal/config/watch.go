package config

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"Mistborn/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DebounceWindow is how long a file must stay quiet before it is reported.
const DebounceWindow = 100 * time.Millisecond

// Watcher reports yaml files written, created, renamed or removed in the
// watched directories.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
	done    chan struct{}
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	logger.Log.Debug("Watching tuning directories", zap.Strings("dirs", dirs))
	return watcher, nil
}

// Close stops the watcher. Events and Errors are closed once the run loop has
// exited, so readers never see a send on a closed channel.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	// pending holds the last event time per file; a file is reported once it
	// has been quiet for DebounceWindow, so multi step saves settle first
	pending := make(map[string]time.Time)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !IsYAML(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()
			if timer == nil {
				timer = time.NewTimer(DebounceWindow)
				fire = timer.C
			}
		case now := <-fire:
			var next time.Duration
			for name, last := range pending {
				quiet := now.Sub(last)
				if quiet < DebounceWindow {
					if wait := DebounceWindow - quiet; next == 0 || wait < next {
						next = wait
					}
					continue
				}
				delete(pending, name)
				select {
				case w.Events <- name:
				case <-w.closeCh:
					return
				}
			}
			if len(pending) > 0 {
				timer.Reset(next)
			} else {
				timer, fire = nil, nil
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				logger.Log.Warn("Dropped watcher error", zap.Error(err))
			}
		case <-w.closeCh:
			return
		}
	}
}

func IsYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Reloader reloads a tuning file whenever the Watcher reports it changed.
// Invalid edits are logged and the last good tuning stays in effect.
type Reloader struct {
	Path    string
	watcher *Watcher
	apply   func(Tuning)
}

// NewReloader watches the directory of path and calls apply with every valid
// reload. apply runs on the goroutine calling Poll.
func NewReloader(path string, apply func(Tuning)) (*Reloader, error) {
	w, err := NewWatcher(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	return &Reloader{Path: path, watcher: w, apply: apply}, nil
}

// Poll drains pending events without blocking and applies at most one reload.
// It reports whether a new tuning was applied.
func (r *Reloader) Poll() bool {
	changed := false
	for {
		select {
		case name, ok := <-r.watcher.Events:
			if !ok {
				return r.reload(changed)
			}
			if filepath.Clean(name) == filepath.Clean(r.Path) {
				changed = true
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return r.reload(changed)
			}
			logger.Log.Warn("Tuning watcher error", zap.Error(err))
		default:
			return r.reload(changed)
		}
	}
}

func (r *Reloader) reload(changed bool) bool {
	if !changed {
		return false
	}
	t, err := Load(r.Path)
	if err != nil {
		logger.Log.Error("Tuning reload rejected", zap.String("path", r.Path), zap.Error(err))
		return false
	}
	logger.Log.Info("Tuning reloaded", zap.String("path", r.Path))
	r.apply(t)
	return true
}

func (r *Reloader) Close() error {
	return r.watcher.Close()
}
