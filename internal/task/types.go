package task

import (
	"fmt"
	"strings"
)

// Task is a single unit of work within a group.
type Task struct {
	ID          int    `json:"id" yaml:"id" toml:"id" koanf:"id"`
	Title       string `json:"title" yaml:"title" toml:"title" koanf:"title"`
	Description string `json:"description" yaml:"description" toml:"description" koanf:"description"`
	Persona     string `json:"persona" yaml:"persona" toml:"persona" koanf:"persona"`
	Group       int    `json:"group" yaml:"group" toml:"group" koanf:"group"`
	Section     int    `json:"section" yaml:"section" toml:"section" koanf:"section"`
	Completed   bool   `json:"completed" yaml:"completed" toml:"completed" koanf:"completed"`
}

// Patch carries a partial update. Nil fields are left untouched; the id
// is never patchable.
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Persona     *string `json:"persona,omitempty"`
	Group       *int    `json:"group,omitempty"`
	Section     *int    `json:"section,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Persona == nil &&
		p.Group == nil && p.Section == nil && p.Completed == nil
}

// Fields lists the names of the fields the patch sets, for logging.
func (p Patch) Fields() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.Persona != nil {
		fields = append(fields, "persona")
	}
	if p.Group != nil {
		fields = append(fields, "group")
	}
	if p.Section != nil {
		fields = append(fields, "section")
	}
	if p.Completed != nil {
		fields = append(fields, "completed")
	}
	return fields
}

func (p Patch) apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Persona != nil {
		t.Persona = *p.Persona
	}
	if p.Group != nil {
		t.Group = *p.Group
	}
	if p.Section != nil {
		t.Section = *p.Section
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// Filter selects which tasks a listing returns.
type Filter string

const (
	// FilterAll returns every task.
	FilterAll Filter = ""
	// FilterActive returns tasks that are not completed.
	FilterActive Filter = "active"
	// FilterCompleted returns completed tasks.
	FilterCompleted Filter = "completed"
)

// ParseFilter maps a query value onto a Filter. Unknown values select all
// tasks, matching the HTTP contract.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterActive:
		return FilterActive
	case FilterCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Origin records how a task came into being.
type Origin string

const (
	OriginAPI         Origin = "api"
	OriginProgression Origin = "progression"
	OriginBootstrap   Origin = "bootstrap"
)

// CompletionResult describes what a completion call did.
type CompletionResult struct {
	// Task is the completed task, or nil when nothing matched.
	Task *Task
	// Group is the group the progression rule evaluated.
	Group int
	// AlreadyCompleted is set when the matched task was completed before the call.
	AlreadyCompleted bool
	// Unlocked is the next-group task created by the progression rule, if any.
	Unlocked *Task
	// Skipped is set when the progression rule was not evaluated: an unknown id,
	// or strict mode refusing an unmatched or repeated completion.
	Skipped bool
}

// Matched reports whether the completion found a task.
func (r CompletionResult) Matched() bool {
	return r.Task != nil
}

// NextGroupTitle is the title the progression rule gives the first task of group g.
func NextGroupTitle(group int) string {
	return fmt.Sprintf("Task %d-1", group)
}

// NextGroupDescription is the description of the first task of group g.
func NextGroupDescription(group int) string {
	return fmt.Sprintf("Task in group %d, section 1.", group)
}
