// Package seed loads the task list a store resets to.
//
// A source is either a preset ("onboarding" or "empty") or a path to a YAML
// or TOML file holding a top-level "tasks" list:
//
//	tasks:
//	  - id: 1
//	    title: Initial Setup
//	    description: Set up the development environment.
//	    persona: Intern
//	    group: 1
//	    section: 1
package seed

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fyrsmithlabs/taskwave/internal/config"
	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxSeedFileSize = 4 * 1024 * 1024

var (
	// ErrUnsupportedFormat is returned for file extensions other than
	// .yaml, .yml and .toml.
	ErrUnsupportedFormat = errors.New("unsupported seed file format")

	// ErrInvalidSeed wraps every validation failure.
	ErrInvalidSeed = errors.New("invalid seed")
)

// IsPreset reports whether source names a built-in seed.
func IsPreset(source string) bool {
	return source == config.SeedOnboarding || source == config.SeedEmpty
}

// Load resolves source into a validated task list.
func Load(source string) ([]task.Task, error) {
	switch source {
	case config.SeedOnboarding:
		return task.Onboarding(), nil
	case config.SeedEmpty:
		return nil, nil
	}
	return LoadFile(source)
}

// LoadFile reads and validates a YAML or TOML seed file.
func LoadFile(path string) ([]task.Task, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat seed file: %w", err)
	}
	if info.Size() > maxSeedFileSize {
		return nil, fmt.Errorf("seed file too large: %d bytes (max %d)", info.Size(), maxSeedFileSize)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var tasks []task.Task
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		tasks, err = parseYAML(data)
	case ".toml":
		tasks, err = parseTOML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	if err := Validate(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func parseYAML(data []byte) ([]task.Task, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, err
	}
	var tasks []task.Task
	if err := k.Unmarshal("tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func parseTOML(data []byte) ([]task.Task, error) {
	var doc struct {
		Tasks []task.Task `toml:"tasks"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Tasks, nil
}

// Validate checks a seed list. An id of 0 means "assign one"; any other id
// must be positive and unique.
func Validate(tasks []task.Task) error {
	seen := make(map[int]bool, len(tasks))
	for i, t := range tasks {
		if strings.TrimSpace(t.Title) == "" {
			return fmt.Errorf("%w: task %d has an empty title", ErrInvalidSeed, i)
		}
		if t.ID < 0 {
			return fmt.Errorf("%w: task %q has negative id %d", ErrInvalidSeed, t.Title, t.ID)
		}
		if t.ID > 0 {
			if seen[t.ID] {
				return fmt.Errorf("%w: duplicate id %d", ErrInvalidSeed, t.ID)
			}
			seen[t.ID] = true
		}
		if t.Group < 1 {
			return fmt.Errorf("%w: task %q has group %d (must be >= 1)", ErrInvalidSeed, t.Title, t.Group)
		}
		if t.Section < 1 {
			return fmt.Errorf("%w: task %q has section %d (must be >= 1)", ErrInvalidSeed, t.Title, t.Section)
		}
	}
	return nil
}
