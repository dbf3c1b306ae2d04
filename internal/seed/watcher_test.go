package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fyrsmithlabs/taskwave/internal/logging"
	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func startWatcher(t *testing.T, path string, logger *logging.Logger) <-chan []task.Task {
	t.Helper()
	reloads := make(chan []task.Task, 4)
	w, err := NewWatcher(path, func(_ context.Context, tasks []task.Task) {
		reloads <- tasks
	}, logger)
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond

	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(w.Stop)
	return reloads
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeSeed(t, "seed.yaml", yamlSeed)
	reloads := startWatcher(t, path, nil)

	updated := yamlSeed + `  - id: 3
    title: JavaScript Basics
    persona: Intern
    group: 3
    section: 1
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	select {
	case tasks := <-reloads:
		require.Len(t, tasks, 3)
		assert.Equal(t, "JavaScript Basics", tasks[2].Title)
	case <-time.After(5 * time.Second):
		t.Fatal("seed reload not observed")
	}
}

func TestWatcher_IgnoresInvalidFile(t *testing.T) {
	path := writeSeed(t, "seed.yaml", yamlSeed)
	logger := logging.NewTestLogger()
	reloads := startWatcher(t, path, logger.Logger)

	require.NoError(t, os.WriteFile(path, []byte("tasks:\n  - title: \"\"\n"), 0o600))

	select {
	case <-reloads:
		t.Fatal("invalid seed must not be applied")
	case <-time.After(300 * time.Millisecond):
	}
	logger.AssertLogged(t, zapcore.WarnLevel, "ignoring invalid seed file")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	path := writeSeed(t, "seed.yaml", yamlSeed)
	reloads := startWatcher(t, path, nil)

	other := filepath.Join(filepath.Dir(path), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("hello"), 0o600))

	select {
	case <-reloads:
		t.Fatal("unrelated file triggered reload")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "seed.yaml"), func(context.Context, []task.Task) {}, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		w.Stop()
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked")
	}
}
