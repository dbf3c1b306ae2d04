package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlSeed = `tasks:
  - id: 1
    title: Initial Setup
    description: Set up the development environment.
    persona: Intern
    group: 1
    section: 1
  - id: 2
    title: Basic Git
    description: Learn basic Git commands.
    persona: Intern
    group: 2
    section: 1
`

const tomlSeed = `[[tasks]]
id = 1
title = "Initial Setup"
description = "Set up the development environment."
persona = "Intern"
group = 1
section = 1

[[tasks]]
title = "Basic Git"
persona = "Intern"
group = 2
section = 1
`

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Presets(t *testing.T) {
	tasks, err := Load("onboarding")
	require.NoError(t, err)
	assert.Len(t, tasks, 10)
	assert.Equal(t, task.Onboarding(), tasks)

	tasks, err = Load("empty")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	assert.True(t, IsPreset("onboarding"))
	assert.False(t, IsPreset("tasks.yaml"))
}

func TestLoadFile_YAML(t *testing.T) {
	for _, name := range []string{"seed.yaml", "seed.yml"} {
		t.Run(name, func(t *testing.T) {
			tasks, err := Load(writeSeed(t, name, yamlSeed))
			require.NoError(t, err)
			require.Len(t, tasks, 2)
			assert.Equal(t, task.Task{
				ID:          2,
				Title:       "Basic Git",
				Description: "Learn basic Git commands.",
				Persona:     "Intern",
				Group:       2,
				Section:     1,
			}, tasks[1])
		})
	}
}

func TestLoadFile_TOML(t *testing.T) {
	tasks, err := Load(writeSeed(t, "seed.toml", tomlSeed))
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Initial Setup", tasks[0].Title)
	assert.Equal(t, 0, tasks[1].ID)
	assert.Equal(t, 2, tasks[1].Group)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load(writeSeed(t, "seed.json", `{"tasks":[]}`))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeSeed(t, "seed.yaml", "tasks: [\n"))
		assert.Error(t, err)
	})

	t.Run("malformed toml", func(t *testing.T) {
		_, err := Load(writeSeed(t, "seed.toml", "[[tasks]\n"))
		assert.Error(t, err)
	})

	t.Run("invalid task", func(t *testing.T) {
		_, err := Load(writeSeed(t, "seed.yaml", "tasks:\n  - id: 1\n    title: x\n    group: 0\n    section: 1\n"))
		assert.ErrorIs(t, err, ErrInvalidSeed)
	})
}

func TestValidate(t *testing.T) {
	valid := task.Task{ID: 1, Title: "A", Group: 1, Section: 1}

	tests := []struct {
		name    string
		tasks   []task.Task
		wantErr bool
	}{
		{"empty list", nil, false},
		{"valid", []task.Task{valid}, false},
		{"zero ids are assigned later", []task.Task{{Title: "A", Group: 1, Section: 1}, {Title: "B", Group: 1, Section: 2}}, false},
		{"empty title", []task.Task{{ID: 1, Title: "  ", Group: 1, Section: 1}}, true},
		{"negative id", []task.Task{{ID: -1, Title: "A", Group: 1, Section: 1}}, true},
		{"duplicate id", []task.Task{valid, valid}, true},
		{"zero group", []task.Task{{ID: 1, Title: "A", Group: 0, Section: 1}}, true},
		{"zero section", []task.Task{{ID: 1, Title: "A", Group: 1, Section: 0}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tasks)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSeed)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_Onboarding(t *testing.T) {
	assert.NoError(t, Validate(task.Onboarding()))
}
