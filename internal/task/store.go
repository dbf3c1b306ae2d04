package task

import "sort"

const (
	bootstrapTitle       = "First Task"
	bootstrapDescription = "This is the first task."
	defaultPersona       = "User"
)

// Option configures a Store.
type Option func(*Store)

// WithStrictCompletion makes Complete a no-op for unmatched titles and for
// tasks that are already completed, instead of re-running the progression rule.
func WithStrictCompletion(strict bool) Option {
	return func(s *Store) {
		s.strict = strict
	}
}

// Store is an insertion-ordered, in-memory collection of tasks keyed by id.
type Store struct {
	seed   []Task
	order  []int
	byID   map[int]*Task
	strict bool
}

// NewStore creates a store that resets to seed on Initialize. The store is
// initialized before it is returned.
func NewStore(seed []Task, opts ...Option) *Store {
	s := &Store{
		seed: cloneTasks(seed),
		byID: make(map[int]*Task),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Initialize()
	return s
}

// SetSeed replaces the list Initialize resets to. It does not touch the
// current tasks.
func (s *Store) SetSeed(seed []Task) {
	s.seed = cloneTasks(seed)
}

// Initialize discards all tasks and reloads the seed. Seed tasks without an id
// are numbered after the highest seeded id; repeated ids keep the first
// occurrence. With an empty seed a single bootstrap task is created in
// group 1, section 1.
func (s *Store) Initialize() {
	s.order = s.order[:0]
	s.byID = make(map[int]*Task, len(s.seed))
	highest := 0
	for _, t := range s.seed {
		if t.ID > highest {
			highest = t.ID
		}
	}
	for i := range s.seed {
		t := s.seed[i]
		if t.ID <= 0 {
			highest++
			t.ID = highest
		} else if _, dup := s.byID[t.ID]; dup {
			continue
		}
		s.insert(&t)
	}
	if len(s.order) == 0 {
		s.Create(bootstrapTitle, bootstrapDescription, defaultPersona, 1, 1)
	}
}

// Strict reports whether strict completion is enabled.
func (s *Store) Strict() bool {
	return s.strict
}

// Seed returns a copy of the list Initialize resets to.
func (s *Store) Seed() []Task {
	return cloneTasks(s.seed)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.order)
}

// List returns copies of the tasks matching f, in store order.
func (s *Store) List(f Filter) []Task {
	switch f {
	case FilterActive:
		return s.ListActive()
	case FilterCompleted:
		return s.ListCompleted()
	default:
		return s.ListAll()
	}
}

// ListAll returns copies of every task in store order.
func (s *Store) ListAll() []Task {
	return s.collect(func(*Task) bool { return true })
}

// ListActive returns tasks that are not completed.
func (s *Store) ListActive() []Task {
	return s.collect(func(t *Task) bool { return !t.Completed })
}

// ListCompleted returns completed tasks.
func (s *Store) ListCompleted() []Task {
	return s.collect(func(t *Task) bool { return t.Completed })
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id int) (Task, bool) {
	t, ok := s.byID[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// Create appends a new, active task with the next id.
func (s *Store) Create(title, description, persona string, group, section int) Task {
	t := &Task{
		ID:          s.nextID(),
		Title:       title,
		Description: description,
		Persona:     persona,
		Group:       group,
		Section:     section,
	}
	s.insert(t)
	return *t
}

// Update merges p into the task with the given id. It reports whether the
// task exists; an unknown id changes nothing.
func (s *Store) Update(id int, p Patch) (Task, bool) {
	t, ok := s.byID[id]
	if !ok {
		return Task{}, false
	}
	p.apply(t)
	return *t, true
}

// Delete removes the task with the given id and reports whether it existed.
func (s *Store) Delete(id int) (Task, bool) {
	t, ok := s.byID[id]
	if !ok {
		return Task{}, false
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return *t, true
}

// Complete marks the first task titled title as completed and evaluates the
// progression rule for its group.
//
// Outside strict mode an unmatched title still evaluates the rule, against
// group 0, and completing an already completed task evaluates it again.
func (s *Store) Complete(title string) CompletionResult {
	var match *Task
	for _, id := range s.order {
		if t := s.byID[id]; t.Title == title {
			match = t
			break
		}
	}
	return s.complete(match)
}

// CompleteByID marks the task with the given id as completed and evaluates the
// progression rule for its group. An unknown id is a no-op.
func (s *Store) CompleteByID(id int) CompletionResult {
	t, ok := s.byID[id]
	if !ok {
		return CompletionResult{Skipped: true}
	}
	return s.complete(t)
}

func (s *Store) complete(match *Task) CompletionResult {
	var res CompletionResult
	if match != nil {
		res.AlreadyCompleted = match.Completed
		match.Completed = true
		done := *match
		res.Task = &done
		res.Group = match.Group
	}

	if s.strict && (match == nil || res.AlreadyCompleted) {
		res.Skipped = true
		return res
	}

	if unlocked, ok := s.progress(res.Group); ok {
		res.Unlocked = &unlocked
	}
	return res
}

// Groups returns the distinct groups present in the store, ascending.
func (s *Store) Groups() []int {
	seen := make(map[int]struct{})
	var groups []int
	for _, id := range s.order {
		g := s.byID[id].Group
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		groups = append(groups, g)
	}
	sort.Ints(groups)
	return groups
}

func (s *Store) nextID() int {
	highest := 0
	for id := range s.byID {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}

func (s *Store) insert(t *Task) {
	s.byID[t.ID] = t
	s.order = append(s.order, t.ID)
}

func (s *Store) collect(keep func(*Task) bool) []Task {
	out := make([]Task, 0, len(s.order))
	for _, id := range s.order {
		if t := s.byID[id]; keep(t) {
			out = append(out, *t)
		}
	}
	return out
}

func cloneTasks(in []Task) []Task {
	if len(in) == 0 {
		return nil
	}
	out := make([]Task, len(in))
	copy(out, in)
	return out
}
