package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestStore_InitializeEmptySeed(t *testing.T) {
	s := NewStore(nil)

	all := s.ListAll()
	require.Len(t, all, 1)
	assert.Equal(t, Task{
		ID:          1,
		Title:       "First Task",
		Description: "This is the first task.",
		Persona:     "User",
		Group:       1,
		Section:     1,
	}, all[0])
}

func TestStore_InitializeResetsToSeed(t *testing.T) {
	s := NewStore(Onboarding())
	s.Create("Extra", "D", "P", 9, 1)
	s.Delete(1)
	s.Complete("Basic Git")

	s.Initialize()

	assert.Equal(t, Onboarding(), s.ListAll())
}

func TestStore_InitializeDoesNotAliasSeed(t *testing.T) {
	seed := []Task{{ID: 1, Title: "Initial Setup", Group: 1, Section: 1}}
	s := NewStore(seed)

	s.Complete("Initial Setup")
	s.Initialize()

	assert.False(t, seed[0].Completed)
	got, ok := s.Get(1)
	require.True(t, ok)
	assert.False(t, got.Completed)
}

func TestStore_InitializeSkipsDuplicateSeedIDs(t *testing.T) {
	s := NewStore([]Task{
		{ID: 1, Title: "A", Group: 1, Section: 1},
		{ID: 1, Title: "B", Group: 1, Section: 2},
	})

	all := s.ListAll()
	require.Len(t, all, 1)
	assert.Equal(t, "A", all[0].Title)
}

func TestStore_InitializeNumbersSeedTasksWithoutID(t *testing.T) {
	s := NewStore([]Task{
		{Title: "A", Group: 1, Section: 1},
		{ID: 4, Title: "B", Group: 1, Section: 2},
		{Title: "C", Group: 2, Section: 1},
	})

	all := s.ListAll()
	require.Len(t, all, 3)
	assert.Equal(t, []int{5, 4, 6}, []int{all[0].ID, all[1].ID, all[2].ID})
}

func TestStore_CreateAssignsNextID(t *testing.T) {
	t.Run("ids on an empty store start at 1", func(t *testing.T) {
		s := NewStore(nil)
		s.Delete(1)
		require.Zero(t, s.Len())

		first := s.Create("T", "D", "P", 1, 1)
		second := s.Create("T", "D", "P", 1, 1)

		assert.Equal(t, 1, first.ID)
		assert.Equal(t, 2, second.ID)
		assert.False(t, first.Completed)
	})

	t.Run("id is max existing id plus one", func(t *testing.T) {
		s := NewStore([]Task{
			{ID: 7, Title: "late", Group: 1, Section: 1},
			{ID: 3, Title: "early", Group: 1, Section: 2},
		})

		created := s.Create("T", "D", "P", 1, 3)

		assert.Equal(t, 8, created.ID)
	})

	t.Run("new task is appended in insertion order", func(t *testing.T) {
		s := NewStore(Onboarding())

		created := s.Create("Appended", "D", "P", 1, 1)

		all := s.ListAll()
		assert.Equal(t, created, all[len(all)-1])
	})
}

func TestStore_ActiveAndCompletedPartitionTasks(t *testing.T) {
	s := NewStore(Onboarding())
	s.Complete("Basic Introduction")
	s.Complete("Basic Git")
	s.Complete("Initial Setup")

	active := s.ListActive()
	completed := s.ListCompleted()

	assert.Equal(t, s.Len(), len(active)+len(completed))

	inActive := make(map[int]bool)
	for _, tk := range active {
		assert.False(t, tk.Completed)
		inActive[tk.ID] = true
	}
	for _, tk := range completed {
		assert.True(t, tk.Completed)
		assert.False(t, inActive[tk.ID], "task %d is both active and completed", tk.ID)
	}
}

func TestStore_List(t *testing.T) {
	s := NewStore(Onboarding())
	s.Complete("Basic Git")

	assert.Equal(t, s.ListAll(), s.List(FilterAll))
	assert.Equal(t, s.ListActive(), s.List(FilterActive))
	assert.Equal(t, s.ListCompleted(), s.List(FilterCompleted))
}

func TestStore_ListReturnsCopies(t *testing.T) {
	s := NewStore(Onboarding())

	all := s.ListAll()
	all[0].Title = "mutated"

	got, ok := s.Get(all[0].ID)
	require.True(t, ok)
	assert.Equal(t, "Initial Setup", got.Title)
}

func TestStore_Update(t *testing.T) {
	t.Run("title only changes title", func(t *testing.T) {
		s := NewStore(Onboarding())
		before, _ := s.Get(3)

		updated, ok := s.Update(3, Patch{Title: strPtr("X")})

		require.True(t, ok)
		want := before
		want.Title = "X"
		assert.Equal(t, want, updated)
		got, _ := s.Get(3)
		assert.Equal(t, want, got)
	})

	t.Run("every field except id is overwritable", func(t *testing.T) {
		s := NewStore(Onboarding())

		updated, ok := s.Update(2, Patch{
			Title:       strPtr("T"),
			Description: strPtr("D"),
			Persona:     strPtr("P"),
			Group:       intPtr(4),
			Section:     intPtr(9),
			Completed:   boolPtr(true),
		})

		require.True(t, ok)
		assert.Equal(t, Task{ID: 2, Title: "T", Description: "D", Persona: "P", Group: 4, Section: 9, Completed: true}, updated)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		s := NewStore(Onboarding())

		_, ok := s.Update(99, Patch{Title: strPtr("X")})

		assert.False(t, ok)
		assert.Equal(t, Onboarding(), s.ListAll())
	})

	t.Run("completing through update does not fire progression", func(t *testing.T) {
		s := NewStore([]Task{{ID: 1, Title: "Only", Group: 1, Section: 1}})

		s.Update(1, Patch{Completed: boolPtr(true)})

		assert.Equal(t, 1, s.Len())
	})
}

func TestStore_Delete(t *testing.T) {
	t.Run("removes exactly one task", func(t *testing.T) {
		s := NewStore(Onboarding())
		before := s.Len()

		removed, ok := s.Delete(4)

		require.True(t, ok)
		assert.Equal(t, "Git Collaboration", removed.Title)
		assert.Equal(t, before-1, s.Len())
		for _, tk := range s.ListAll() {
			assert.NotEqual(t, 4, tk.ID)
		}
		_, found := s.Get(4)
		assert.False(t, found)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		s := NewStore(Onboarding())

		_, ok := s.Delete(42)

		assert.False(t, ok)
		assert.Equal(t, Onboarding(), s.ListAll())
	})

	t.Run("deleting the highest id lets it be reused", func(t *testing.T) {
		s := NewStore(Onboarding())
		s.Delete(10)

		created := s.Create("T", "D", "P", 1, 1)

		assert.Equal(t, 10, created.ID)
	})
}

func TestStore_Groups(t *testing.T) {
	s := NewStore([]Task{
		{ID: 1, Title: "c", Group: 3, Section: 1},
		{ID: 2, Title: "a", Group: 1, Section: 1},
		{ID: 3, Title: "b", Group: 3, Section: 2},
	})

	assert.Equal(t, []int{1, 3}, s.Groups())
}

func TestSortByGroupSection(t *testing.T) {
	tasks := []Task{
		{ID: 1, Group: 2, Section: 1},
		{ID: 2, Group: 1, Section: 2},
		{ID: 3, Group: 1, Section: 1},
		{ID: 4, Group: 1, Section: 2},
	}

	SortByGroupSection(tasks)

	ids := make([]int, len(tasks))
	for i, tk := range tasks {
		ids[i] = tk.ID
	}
	assert.Equal(t, []int{3, 2, 4, 1}, ids)
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
	}{
		{"active", FilterActive},
		{"completed", FilterCompleted},
		{" Active ", FilterActive},
		{"", FilterAll},
		{"bogus", FilterAll},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFilter(tt.in))
		})
	}
}

func TestPatch_Fields(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	assert.Empty(t, Patch{}.Fields())

	p := Patch{Title: strPtr("x"), Completed: boolPtr(false)}
	assert.False(t, p.IsEmpty())
	assert.Equal(t, []string{"title", "completed"}, p.Fields())
}
