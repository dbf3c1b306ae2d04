package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fyrsmithlabs/taskwave/internal/events"
	"github.com/fyrsmithlabs/taskwave/internal/logging"
	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/fyrsmithlabs/taskwave/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type fixture struct {
	svc      *Service
	recorder *events.Recorder
	metrics  *Metrics
	tel      *telemetry.TestTelemetry
	logger   *logging.TestLogger
}

func newFixture(t *testing.T, seed []task.Task, opts ...task.Option) *fixture {
	t.Helper()
	f := &fixture{
		recorder: &events.Recorder{},
		metrics:  NewMetricsWith(prometheus.NewRegistry()),
		tel:      telemetry.NewTestTelemetry(),
		logger:   logging.NewTestLogger(),
	}
	f.svc = New(task.NewStore(seed, opts...),
		WithPublisher(f.recorder),
		WithMetrics(f.metrics),
		WithTelemetry(f.tel.Telemetry),
		WithLogger(f.logger.Logger),
	)
	return f
}

func onboardingGroupOne() []task.Task {
	return []task.Task{
		{ID: 1, Title: "Initial Setup", Persona: "Intern", Group: 1, Section: 1},
		{ID: 2, Title: "Basic Introduction", Persona: "Intern", Group: 1, Section: 2},
	}
}

func TestService_Create(t *testing.T) {
	f := newFixture(t, nil)
	ctx := logging.WithRequestID(context.Background(), "req-1")

	created := f.svc.Create(ctx, CreateRequest{
		Title: "Write docs", Description: "Document the API", Persona: "Dev", Group: 1, Section: 2,
	})

	assert.Equal(t, 2, created.ID)
	assert.False(t, created.Completed)

	got, err := f.svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	require.Equal(t, []events.Type{events.TaskCreated}, f.recorder.Types())
	assert.Equal(t, "req-1", f.recorder.Events()[0].RequestID)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TasksCreated.WithLabelValues("api")))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.Tasks.WithLabelValues("active")))

	f.tel.AssertSpanExists(t, "tracker.Create")
	f.tel.AssertSpanAttribute(t, "tracker.Create", "task.id", int64(2))
	f.logger.AssertField(t, "task created", "task.id", int64(2))
}

func TestService_Get_NotFound(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_List(t *testing.T) {
	f := newFixture(t, onboardingGroupOne())
	ctx := context.Background()
	f.svc.CompleteByID(ctx, 1)

	assert.Len(t, f.svc.List(ctx, task.FilterAll), 2)
	active := f.svc.List(ctx, task.FilterActive)
	require.Len(t, active, 1)
	assert.Equal(t, 2, active[0].ID)
	completed := f.svc.List(ctx, task.FilterCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, 1, completed[0].ID)
}

func TestService_UpdateAndDelete(t *testing.T) {
	f := newFixture(t, onboardingGroupOne())
	ctx := context.Background()

	title := "Environment Setup"
	updated, ok := f.svc.Update(ctx, 1, task.Patch{Title: &title})
	require.True(t, ok)
	assert.Equal(t, "Environment Setup", updated.Title)
	assert.Equal(t, "Intern", updated.Persona)

	_, ok = f.svc.Update(ctx, 42, task.Patch{Title: &title})
	assert.False(t, ok)

	deleted, ok := f.svc.Delete(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, "Basic Introduction", deleted.Title)

	_, ok = f.svc.Delete(ctx, 2)
	assert.False(t, ok)

	assert.Equal(t, []events.Type{events.TaskUpdated, events.TaskDeleted}, f.recorder.Types())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Tasks.WithLabelValues("active")))
	f.tel.AssertSpanAttribute(t, "tracker.Delete", "found", true)
}

func TestService_CompleteUnlocksNextGroup(t *testing.T) {
	f := newFixture(t, onboardingGroupOne())
	ctx := context.Background()

	res := f.svc.Complete(ctx, "Initial Setup")
	require.True(t, res.Matched())
	assert.Nil(t, res.Unlocked)

	res = f.svc.Complete(ctx, "Basic Introduction")
	require.NotNil(t, res.Unlocked)
	assert.Equal(t, "Task 2-1", res.Unlocked.Title)
	assert.Equal(t, 2, res.Unlocked.Group)
	assert.Equal(t, 1, res.Unlocked.Section)
	assert.Equal(t, 3, res.Unlocked.ID)

	assert.Equal(t, []events.Type{
		events.TaskCompleted,
		events.TaskCompleted,
		events.GroupUnlocked,
	}, f.recorder.Types())
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.TasksCompleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.GroupsUnlocked))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TasksCreated.WithLabelValues("progression")))
	f.logger.AssertLogged(t, zapcore.InfoLevel, "group unlocked")
}

func TestService_CompleteUnknownTitle(t *testing.T) {
	t.Run("default evaluates group 0", func(t *testing.T) {
		f := newFixture(t, onboardingGroupOne())
		res := f.svc.Complete(context.Background(), "no such task")

		assert.False(t, res.Matched())
		require.NotNil(t, res.Unlocked)
		assert.Equal(t, "Task 1-1", res.Unlocked.Title)
		f.logger.AssertLogged(t, zapcore.WarnLevel, "matched no task")
	})

	t.Run("strict is a no-op", func(t *testing.T) {
		f := newFixture(t, onboardingGroupOne(), task.WithStrictCompletion(true))
		res := f.svc.Complete(context.Background(), "no such task")

		assert.True(t, res.Skipped)
		assert.Nil(t, res.Unlocked)
		assert.Empty(t, f.recorder.Types())
		assert.Len(t, f.svc.List(context.Background(), task.FilterAll), 2)
	})
}

func TestService_CompleteByIDUnknown(t *testing.T) {
	f := newFixture(t, onboardingGroupOne())
	res := f.svc.CompleteByID(context.Background(), 99)

	assert.True(t, res.Skipped)
	assert.Empty(t, f.recorder.Types())
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.TasksCompleted))
}

func TestService_PublishFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t, nil)
	f.recorder.Err = errors.New("nats down")

	created := f.svc.Create(context.Background(), CreateRequest{Title: "A", Group: 1, Section: 1})
	assert.Equal(t, 2, created.ID)
	f.logger.AssertLogged(t, zapcore.WarnLevel, "failed to publish event")
}

func TestService_ResetAndInitialize(t *testing.T) {
	f := newFixture(t, onboardingGroupOne())
	ctx := context.Background()

	f.svc.CompleteByID(ctx, 1)
	f.svc.Initialize(ctx)
	for _, tk := range f.svc.List(ctx, task.FilterAll) {
		assert.False(t, tk.Completed)
	}

	f.svc.Reset(ctx, nil)
	all := f.svc.List(ctx, task.FilterAll)
	require.Len(t, all, 1)
	assert.Equal(t, "First Task", all[0].Title)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.StoreResets))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TasksCreated.WithLabelValues("bootstrap")))

	evs := f.recorder.Events()
	last := evs[len(evs)-1]
	assert.Equal(t, events.StoreReset, last.Type)
	assert.Equal(t, 1, last.Count)
}

func TestService_Status(t *testing.T) {
	f := newFixture(t, task.Onboarding())
	ctx := context.Background()

	st := f.svc.Status(ctx)
	assert.Equal(t, 10, st.Total)
	assert.Equal(t, 10, st.Active)
	assert.Equal(t, 1, st.CurrentGroup)
	require.Len(t, st.Groups, 5)

	f.svc.Complete(ctx, "Initial Setup")
	f.svc.Complete(ctx, "Basic Introduction")

	st = f.svc.Status(ctx)
	assert.Equal(t, 2, st.Completed)
	assert.Equal(t, 9, st.Active) // Task 2-1 was unlocked
	assert.Equal(t, 2, st.CurrentGroup)
	assert.True(t, st.Groups[0].Done)
	assert.Equal(t, GroupProgress{Group: 2, Total: 3, Completed: 0}, st.Groups[1])
	assert.False(t, st.Strict)
}

func TestService_StatusAllDone(t *testing.T) {
	f := newFixture(t, []task.Task{{ID: 1, Title: "Only", Group: 1, Section: 1, Completed: true}})
	st := f.svc.Status(context.Background())
	assert.Equal(t, 0, st.CurrentGroup)
	assert.Equal(t, 1, st.Completed)
}

func TestService_ConcurrentCreates(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.Delete(context.Background(), 1)

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				f.svc.Create(context.Background(), CreateRequest{Title: "t", Group: 1, Section: 1})
			}
		}()
	}
	wg.Wait()

	all := f.svc.List(context.Background(), task.FilterAll)
	require.Len(t, all, workers*perWorker)
	seen := make(map[int]bool, len(all))
	for _, tk := range all {
		assert.False(t, seen[tk.ID], "duplicate id %d", tk.ID)
		seen[tk.ID] = true
	}
}

func TestNew_Defaults(t *testing.T) {
	svc := New(task.NewStore(nil))
	created := svc.Create(context.Background(), CreateRequest{Title: "A", Group: 1, Section: 1})
	assert.Equal(t, 2, created.ID)
}

func TestNewMetrics_Singleton(t *testing.T) {
	assert.Same(t, NewMetrics(), NewMetrics())
}
