// Package tracker serves the task store to concurrent callers.
//
// Service serializes every store call, traces and logs each operation,
// keeps Prometheus metrics current, and publishes a domain event for every
// mutation. Event publishing failures are logged and never fail the call.
package tracker

import (
	"context"
	"errors"
	"sync"

	"github.com/fyrsmithlabs/taskwave/internal/events"
	"github.com/fyrsmithlabs/taskwave/internal/logging"
	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/fyrsmithlabs/taskwave/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fyrsmithlabs/taskwave/internal/tracker"

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("task not found")

// CreateRequest holds the fields of a new task.
type CreateRequest struct {
	Title       string
	Description string
	Persona     string
	Group       int
	Section     int
}

// Service is a concurrency-safe front for a task.Store.
type Service struct {
	mu    sync.Mutex
	store *task.Store

	publisher events.Publisher
	logger    *logging.Logger
	tracer    trace.Tracer
	metrics   *Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTelemetry takes the tracer from tel.
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(s *Service) {
		s.tracer = tel.Tracer(instrumentationName)
	}
}

// WithMetrics sets the Prometheus metrics. Nil disables them.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New wraps store. Without options events are discarded, logs go nowhere,
// spans use the global tracer provider and metrics are off.
func New(store *task.Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: events.Nop{},
		logger:    logging.NewNop(),
		tracer:    otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("tracker")

	s.mu.Lock()
	s.refreshCounts()
	s.mu.Unlock()
	return s
}

// List returns the tasks matching f in store order.
func (s *Service) List(ctx context.Context, f task.Filter) []task.Task {
	_, span := s.tracer.Start(ctx, "tracker.List", trace.WithAttributes(
		attribute.String("filter", string(f)),
	))
	defer span.End()

	s.mu.Lock()
	tasks := s.store.List(f)
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("tasks.count", len(tasks)))
	return tasks
}

// Get returns the task with the given id.
func (s *Service) Get(ctx context.Context, id int) (task.Task, error) {
	_, span := s.tracer.Start(ctx, "tracker.Get", trace.WithAttributes(attribute.Int("task.id", id)))
	defer span.End()

	s.mu.Lock()
	t, ok := s.store.Get(id)
	s.mu.Unlock()

	if !ok {
		return task.Task{}, ErrNotFound
	}
	return t, nil
}

// Create appends a new task.
func (s *Service) Create(ctx context.Context, req CreateRequest) task.Task {
	ctx, span := s.tracer.Start(ctx, "tracker.Create", trace.WithAttributes(
		attribute.String("task.title", req.Title),
		attribute.Int("task.group", req.Group),
	))
	defer span.End()

	s.mu.Lock()
	t := s.store.Create(req.Title, req.Description, req.Persona, req.Group, req.Section)
	s.refreshCounts()
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("task.id", t.ID))
	s.metrics.created(task.OriginAPI)
	s.logger.Info(ctx, "task created",
		zap.Int("task.id", t.ID),
		zap.String("task.title", t.Title),
		zap.Int("task.group", t.Group),
		zap.Int("task.section", t.Section),
	)
	s.publish(ctx, events.New(ctx, events.TaskCreated, &t))
	return t
}

// Update merges p into the task with the given id. An unknown id is a no-op
// and reports false.
func (s *Service) Update(ctx context.Context, id int, p task.Patch) (task.Task, bool) {
	ctx, span := s.tracer.Start(ctx, "tracker.Update", trace.WithAttributes(
		attribute.Int("task.id", id),
		attribute.StringSlice("fields", p.Fields()),
	))
	defer span.End()

	s.mu.Lock()
	t, ok := s.store.Update(id, p)
	if ok {
		s.refreshCounts()
	}
	s.mu.Unlock()

	span.SetAttributes(attribute.Bool("found", ok))
	if !ok {
		s.logger.Debug(ctx, "update of unknown task ignored", zap.Int("task.id", id))
		return task.Task{}, false
	}

	s.logger.Info(ctx, "task updated", zap.Int("task.id", id), zap.Strings("fields", p.Fields()))
	s.publish(ctx, events.New(ctx, events.TaskUpdated, &t))
	return t, true
}

// Delete removes the task with the given id. An unknown id is a no-op and
// reports false.
func (s *Service) Delete(ctx context.Context, id int) (task.Task, bool) {
	ctx, span := s.tracer.Start(ctx, "tracker.Delete", trace.WithAttributes(attribute.Int("task.id", id)))
	defer span.End()

	s.mu.Lock()
	t, ok := s.store.Delete(id)
	if ok {
		s.refreshCounts()
	}
	s.mu.Unlock()

	span.SetAttributes(attribute.Bool("found", ok))
	if !ok {
		s.logger.Debug(ctx, "delete of unknown task ignored", zap.Int("task.id", id))
		return task.Task{}, false
	}

	s.logger.Info(ctx, "task deleted", zap.Int("task.id", id))
	s.publish(ctx, events.New(ctx, events.TaskDeleted, &t))
	return t, true
}

// Complete marks the first task titled title as completed and runs the
// progression rule.
func (s *Service) Complete(ctx context.Context, title string) task.CompletionResult {
	ctx, span := s.tracer.Start(ctx, "tracker.Complete", trace.WithAttributes(attribute.String("task.title", title)))
	defer span.End()

	s.mu.Lock()
	res := s.store.Complete(title)
	s.refreshCounts()
	s.mu.Unlock()

	s.afterCompletion(ctx, span, res)
	return res
}

// CompleteByID marks the task with the given id as completed and runs the
// progression rule. An unknown id is a no-op.
func (s *Service) CompleteByID(ctx context.Context, id int) task.CompletionResult {
	ctx, span := s.tracer.Start(ctx, "tracker.CompleteByID", trace.WithAttributes(attribute.Int("task.id", id)))
	defer span.End()

	s.mu.Lock()
	res := s.store.CompleteByID(id)
	s.refreshCounts()
	s.mu.Unlock()

	s.afterCompletion(ctx, span, res)
	return res
}

func (s *Service) afterCompletion(ctx context.Context, span trace.Span, res task.CompletionResult) {
	span.SetAttributes(
		attribute.Bool("matched", res.Matched()),
		attribute.Bool("skipped", res.Skipped),
		attribute.Int("task.group", res.Group),
		attribute.Bool("unlocked", res.Unlocked != nil),
	)

	if res.Matched() {
		s.metrics.completed()
		s.logger.Info(ctx, "task completed",
			zap.Int("task.id", res.Task.ID),
			zap.String("task.title", res.Task.Title),
			zap.Int("task.group", res.Group),
			zap.Bool("already_completed", res.AlreadyCompleted),
		)
		s.publish(ctx, events.New(ctx, events.TaskCompleted, res.Task))
	} else if !res.Skipped {
		s.logger.Warn(ctx, "completion matched no task; evaluated group 0")
	}

	if res.Unlocked != nil {
		s.metrics.created(task.OriginProgression)
		s.metrics.unlocked()
		s.logger.Info(ctx, "group unlocked",
			zap.Int("task.group", res.Unlocked.Group),
			zap.Int("task.id", res.Unlocked.ID),
			zap.String("task.title", res.Unlocked.Title),
		)
		s.publish(ctx, events.New(ctx, events.GroupUnlocked, res.Unlocked))
	}
}

// Initialize resets the store to its seed.
func (s *Service) Initialize(ctx context.Context) {
	s.mu.Lock()
	seed := s.store.Seed()
	s.mu.Unlock()
	s.Reset(ctx, seed)
}

// Reset replaces the seed and re-initializes the store.
func (s *Service) Reset(ctx context.Context, seed []task.Task) {
	ctx, span := s.tracer.Start(ctx, "tracker.Reset", trace.WithAttributes(attribute.Int("seed.count", len(seed))))
	defer span.End()

	s.mu.Lock()
	s.store.SetSeed(seed)
	s.store.Initialize()
	n := s.store.Len()
	s.refreshCounts()
	s.mu.Unlock()

	s.metrics.reset()
	if len(seed) == 0 {
		s.metrics.created(task.OriginBootstrap)
	}
	s.logger.Info(ctx, "store reset", zap.Int("seed.count", len(seed)), zap.Int("tasks", n))

	ev := events.New(ctx, events.StoreReset, nil)
	ev.Count = n
	s.publish(ctx, ev)
}

// Status summarizes the board.
func (s *Service) Status(ctx context.Context) Status {
	_, span := s.tracer.Start(ctx, "tracker.Status")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	st := summarize(s.store.ListAll(), s.store.Groups())
	st.Strict = s.store.Strict()
	return st
}

// refreshCounts updates the state gauge. Callers hold s.mu.
func (s *Service) refreshCounts() {
	if s.metrics == nil {
		return
	}
	all := s.store.ListAll()
	completed := 0
	for _, t := range all {
		if t.Completed {
			completed++
		}
	}
	s.metrics.setCounts(len(all)-completed, completed)
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn(ctx, "failed to publish event",
			zap.String("event.type", string(ev.Type)),
			zap.String("event.id", ev.ID),
			zap.Error(err),
		)
	}
}
