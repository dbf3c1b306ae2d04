package seed

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/fyrsmithlabs/taskwave/internal/logging"
	"github.com/fyrsmithlabs/taskwave/internal/task"
	"go.uber.org/zap"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

const defaultDebounce = 100 * time.Millisecond

// ReloadFunc receives a freshly loaded, valid seed.
type ReloadFunc func(ctx context.Context, tasks []task.Task)

// Watcher reloads a seed file whenever it is written or replaced.
//
// The parent directory is watched rather than the file so that editors which
// save by rename are still seen. Invalid files are logged and ignored.
type Watcher struct {
	path     string
	onReload ReloadFunc
	logger   *logging.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher
	started atomic.Bool
	stop    chan struct{}
	once    sync.Once
	done    chan struct{}
}

// NewWatcher creates a watcher for path. Call Start to begin watching.
func NewWatcher(path string, onReload ReloadFunc, logger *logging.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving seed path: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	return &Watcher{
		path:     abs,
		onReload: onReload,
		logger:   logger.Named("seed"),
		debounce: defaultDebounce,
		watcher:  fw,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching seed directory: %w", err)
	}
	w.started.Store(true)
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for it to exit. Safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.stop)
		_ = w.watcher.Close()
	})
	if w.started.Load() {
		<-w.done
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			w.reload(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "seed watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	tasks, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn(ctx, "ignoring invalid seed file", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.logger.Info(ctx, "seed file reloaded", zap.String("path", w.path), zap.Int("tasks", len(tasks)))
	w.onReload(ctx, tasks)
}
