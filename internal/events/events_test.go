package events

import (
	"context"
	"errors"
	"testing"

	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CopiesTask(t *testing.T) {
	tk := &task.Task{ID: 1, Title: "First Task", Group: 1, Section: 1}
	ev := New(context.Background(), TaskCreated, tk)

	tk.Title = "changed"
	require.NotNil(t, ev.Task)
	assert.Equal(t, "First Task", ev.Task.Title)
	assert.Equal(t, 1, ev.Group)
	assert.Empty(t, ev.RequestID)
	assert.False(t, ev.Time.IsZero())
}

func TestNew_UniqueIDs(t *testing.T) {
	a := New(context.Background(), StoreReset, nil)
	b := New(context.Background(), StoreReset, nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Nil(t, a.Task)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()

	require.NoError(t, r.Publish(ctx, New(ctx, TaskCreated, nil)))
	require.NoError(t, r.Publish(ctx, New(ctx, TaskDeleted, nil)))
	assert.Equal(t, []Type{TaskCreated, TaskDeleted}, r.Types())
	assert.Len(t, r.Events(), 2)

	r.Err = errors.New("down")
	assert.Error(t, r.Publish(ctx, New(ctx, TaskUpdated, nil)))

	r.Reset()
	assert.Empty(t, r.Events())
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}
