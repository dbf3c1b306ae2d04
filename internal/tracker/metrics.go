package tracker

import (
	"sync"

	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the tracker.
type Metrics struct {
	TasksCreated   *prometheus.CounterVec
	TasksCompleted prometheus.Counter
	GroupsUnlocked prometheus.Counter
	Tasks          *prometheus.GaugeVec
	StoreResets    prometheus.Counter
}

// NewMetrics returns the process-wide tracker metrics, registering them with
// the default registry on first use.
//
// Metrics:
//   - taskwave_tasks_created_total{origin} - tasks created via api, progression or bootstrap
//   - taskwave_tasks_completed_total - successful completions
//   - taskwave_groups_unlocked_total - next-group tasks created by the progression rule
//   - taskwave_tasks{state} - current active/completed task counts
//   - taskwave_store_resets_total - store re-initializations
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsWith(prometheus.DefaultRegisterer)
	})
	return globalMetrics
}

// NewMetricsWith registers a fresh set of tracker metrics with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TasksCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskwave_tasks_created_total",
				Help: "Total number of tasks created",
			},
			[]string{"origin"},
		),
		TasksCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "taskwave_tasks_completed_total",
			Help: "Total number of task completions",
		}),
		GroupsUnlocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "taskwave_groups_unlocked_total",
			Help: "Total number of groups unlocked by the progression rule",
		}),
		Tasks: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "taskwave_tasks",
				Help: "Current number of tasks by state",
			},
			[]string{"state"},
		),
		StoreResets: factory.NewCounter(prometheus.CounterOpts{
			Name: "taskwave_store_resets_total",
			Help: "Total number of store re-initializations",
		}),
	}
}

func (m *Metrics) created(origin task.Origin) {
	if m != nil {
		m.TasksCreated.WithLabelValues(string(origin)).Inc()
	}
}

func (m *Metrics) completed() {
	if m != nil {
		m.TasksCompleted.Inc()
	}
}

func (m *Metrics) unlocked() {
	if m != nil {
		m.GroupsUnlocked.Inc()
	}
}

func (m *Metrics) reset() {
	if m != nil {
		m.StoreResets.Inc()
	}
}

func (m *Metrics) setCounts(active, completed int) {
	if m != nil {
		m.Tasks.WithLabelValues("active").Set(float64(active))
		m.Tasks.WithLabelValues("completed").Set(float64(completed))
	}
}
