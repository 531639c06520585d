package state

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineLifecycle(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	m := NewMachine("uddf", "log.uddf", 2048, func(job ImportJob) {
		mu.Lock()
		seen = append(seen, job.State)
		mu.Unlock()
	})

	_, err := uuid.Parse(m.ID())
	require.NoError(t, err)
	assert.Equal(t, StatePending, m.CurrentState())

	for _, event := range []string{EventRead, EventParse, EventSave} {
		require.NoError(t, m.Trigger(event))
	}
	m.Update(func(j *ImportJob) {
		j.Parsed = 3
		j.Saved = 3
	})
	require.NoError(t, m.Trigger(EventComplete))

	job := m.Job()
	assert.Equal(t, StateCompleted, job.State)
	assert.True(t, job.Done())
	assert.Equal(t, 3, job.Saved)
	assert.Equal(t, "log.uddf", job.FileName)
	assert.Equal(t, []string{StateReading, StateParsing, StateSaving, StateCompleted}, seen)
}

func TestMachineInvalidTransition(t *testing.T) {
	m := NewMachine("uddf", "log.uddf", 1, nil)

	assert.False(t, m.CanTransition(EventSave))
	assert.Error(t, m.Trigger(EventSave))
	assert.Equal(t, StatePending, m.CurrentState())
}

func TestMachineFail(t *testing.T) {
	for _, steps := range [][]string{
		{},
		{EventRead},
		{EventRead, EventParse},
		{EventRead, EventParse, EventSave},
	} {
		m := NewMachine("subsurface_csv", "log.csv", 1, nil)
		for _, e := range steps {
			require.NoError(t, m.Trigger(e))
		}

		require.NoError(t, m.Fail(errors.New("boom")))
		job := m.Job()
		assert.Equal(t, StateFailed, job.State)
		assert.Equal(t, "boom", job.Error)
		assert.True(t, job.Done())
	}
}

func TestMachineTerminalStates(t *testing.T) {
	m := NewMachine("uddf", "log.uddf", 1, nil)
	require.NoError(t, m.Fail(nil))
	assert.Error(t, m.Trigger(EventFail))
	assert.Error(t, m.Trigger(EventRead))
	assert.Empty(t, m.Job().Error)
}

func TestManager(t *testing.T) {
	var count int
	var mu sync.Mutex
	mgr := NewManager(2, func(job ImportJob) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	first := mgr.Create("uddf", "a.uddf", 1)
	require.NoError(t, first.Fail(errors.New("bad")))
	second := mgr.Create("uddf", "b.uddf", 1)
	third := mgr.Create("uddf", "c.uddf", 1)

	_, ok := mgr.Get(first.ID())
	assert.False(t, ok, "finished job is evicted first")
	got, ok := mgr.Get(second.ID())
	require.True(t, ok)
	assert.Same(t, second, got)
	_, ok = mgr.Get(third.ID())
	assert.True(t, ok)

	// 进行中的任务不会被移除
	mgr.Create("uddf", "d.uddf", 1)
	assert.Len(t, mgr.Jobs(), 3)
	assert.Equal(t, 1, count)
}

func TestManagerDefaultLimit(t *testing.T) {
	mgr := NewManager(0, nil)
	assert.Equal(t, DefaultJobLimit, mgr.limit)
}
