// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package swarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	registry := NewRegistry(RegistryConfig{})
	return NewService(ServiceConfig{Registry: registry})
}

func TestServiceCreateTask_ForcesPending(t *testing.T) {
	s := newTestService(t)
	task := s.CreateTask(Task{ID: "t1", Title: "work", Status: TaskInProgress, AssignedTo: "a1"})

	assert.Equal(t, TaskPending, task.Status)
	assert.Empty(t, task.AssignedTo)
}

func TestAutoAllocate_PriorityOrdering(t *testing.T) {
	s := newTestService(t)
	s.RegisterAgent(Agent{ID: "a1", Capabilities: []string{"python"}})
	s.CreateTask(Task{ID: "t-low", Title: "low", RequiredCapabilities: []string{"python"}, Priority: 3})
	s.CreateTask(Task{ID: "t-high", Title: "high", RequiredCapabilities: []string{"python"}, Priority: 9})
	s.CreateTask(Task{ID: "t-min", Title: "min", RequiredCapabilities: []string{"python"}, Priority: 1})

	assignments := s.AutoAllocate(0)

	// One agent, so only the highest-priority task is taken.
	require.Len(t, assignments, 1)
	assert.Equal(t, "t-high", assignments[0].TaskID)
	assert.Equal(t, "a1", assignments[0].AgentID)

	low, err := s.GetTaskStatus("t-low")
	require.NoError(t, err)
	assert.Equal(t, TaskPending, low.Status)
}

func TestAutoAllocate_AgentExclusivityWithinPass(t *testing.T) {
	s := newTestService(t)
	s.RegisterAgent(Agent{ID: "a1", Capabilities: []string{"go"}})
	s.RegisterAgent(Agent{ID: "a2", Capabilities: []string{"go"}})
	for _, id := range []string{"t1", "t2", "t3"} {
		s.CreateTask(Task{ID: id, Title: id, RequiredCapabilities: []string{"go"}, Priority: 5})
	}

	assignments := s.AutoAllocate(0)

	require.Len(t, assignments, 2)
	seen := map[string]int{}
	for _, a := range assignments {
		seen[a.AgentID]++
	}
	for agentID, count := range seen {
		assert.Equalf(t, 1, count, "agent %s assigned %d tasks in one pass", agentID, count)
	}
}

func TestAutoAllocate_SpecialistBeatsGeneralist(t *testing.T) {
	s := newTestService(t)
	// The generalist is registered first and would win an order tie.
	s.RegisterAgent(Agent{ID: "generalist", Capabilities: []string{"python", "go", "docker"}})
	s.RegisterAgent(Agent{ID: "specialist", Capabilities: []string{"python"}})
	s.CreateTask(Task{ID: "t1", Title: "work", RequiredCapabilities: []string{"python"}, Priority: 5})

	assignments := s.AutoAllocate(0)

	require.Len(t, assignments, 1)
	assert.Equal(t, "specialist", assignments[0].AgentID)
}

func TestAutoAllocate_ScoreTieBrokenByOrder(t *testing.T) {
	s := newTestService(t)
	s.RegisterAgent(Agent{ID: "first", Capabilities: []string{"go"}})
	s.RegisterAgent(Agent{ID: "second", Capabilities: []string{"go"}})
	s.CreateTask(Task{ID: "t1", Title: "work", RequiredCapabilities: []string{"go"}, Priority: 5})

	assignments := s.AutoAllocate(0)

	require.Len(t, assignments, 1)
	assert.Equal(t, "first", assignments[0].AgentID)
}

func TestAutoAllocate_MaxAllocations(t *testing.T) {
	s := newTestService(t)
	for _, id := range []string{"a1", "a2", "a3"} {
		s.RegisterAgent(Agent{ID: id, Capabilities: []string{"go"}})
	}
	s.CreateTask(Task{ID: "t1", Title: "one", RequiredCapabilities: []string{"go"}, Priority: 9})
	s.CreateTask(Task{ID: "t2", Title: "two", RequiredCapabilities: []string{"go"}, Priority: 8})
	s.CreateTask(Task{ID: "t3", Title: "three", RequiredCapabilities: []string{"go"}, Priority: 7})

	assignments := s.AutoAllocate(2)

	require.Len(t, assignments, 2)
	assert.Equal(t, "t1", assignments[0].TaskID)
	assert.Equal(t, "t2", assignments[1].TaskID)
}

func TestAutoAllocate_SkipsUnsatisfiableTasks(t *testing.T) {
	s := newTestService(t)
	// One agent that only satisfies the lower-priority task's requirements.
	s.RegisterAgent(Agent{ID: "a1", Capabilities: []string{"docs"}})
	s.CreateTask(Task{ID: "t-high", Title: "high", RequiredCapabilities: []string{"kernel"}, Priority: 9})
	s.CreateTask(Task{ID: "t-low", Title: "low", RequiredCapabilities: []string{"docs"}, Priority: 2})

	assignments := s.AutoAllocate(0)

	require.Len(t, assignments, 1)
	assert.Equal(t, "t-low", assignments[0].TaskID)

	high, err := s.GetTaskStatus("t-high")
	require.NoError(t, err)
	assert.Equal(t, TaskPending, high.Status)
}

func TestAutoAllocate_EmptyInputs(t *testing.T) {
	s := newTestService(t)
	assert.Empty(t, s.AutoAllocate(0))

	s.RegisterAgent(Agent{ID: "a1", Capabilities: []string{"go"}})
	assert.Empty(t, s.AutoAllocate(0), "no pending tasks")

	s.CreateTask(Task{ID: "t1", Title: "work", RequiredCapabilities: []string{"go"}, Priority: 5})
	_, err := s.UpdateAgentStatus("a1", AgentOffline)
	require.NoError(t, err)
	assert.Empty(t, s.AutoAllocate(0), "no available agents")
}

func TestAutoAllocate_EndToEnd(t *testing.T) {
	s := newTestService(t)
	s.RegisterAgent(Agent{ID: "A1", Capabilities: []string{"python", "testing"}})
	s.CreateTask(Task{ID: "T1", Title: "implement parser", RequiredCapabilities: []string{"python"}, Priority: 5})

	assignments := s.AutoAllocate(0)

	require.Len(t, assignments, 1)
	assert.Equal(t, "T1", assignments[0].TaskID)
	assert.Equal(t, "A1", assignments[0].AgentID)

	task, err := s.GetTaskStatus("T1")
	require.NoError(t, err)
	assert.Equal(t, TaskInProgress, task.Status)

	agent, err := s.Registry().GetAgent("A1")
	require.NoError(t, err)
	assert.Equal(t, AgentBusy, agent.Status)

	signals := s.Registry().SignalsByTarget("T1")
	require.Len(t, signals, 1)
	assert.Equal(t, CategoryState, signals[0].Category)
	assert.Equal(t, 5.0, signals[0].Strength)
}

func TestServiceUpdateTaskStatus(t *testing.T) {
	t.Run("does not free the agent by default", func(t *testing.T) {
		s := newTestService(t)
		s.RegisterAgent(Agent{ID: "a1", Capabilities: []string{"go"}})
		s.CreateTask(Task{ID: "t1", Title: "work", RequiredCapabilities: []string{"go"}, Priority: 5})
		_, err := s.AssignTask("t1", "a1")
		require.NoError(t, err)

		task, err := s.UpdateTaskStatus("t1", TaskCompleted, false)
		require.NoError(t, err)
		assert.Equal(t, TaskCompleted, task.Status)
		require.NotNil(t, task.CompletedAt)

		agent, err := s.Registry().GetAgent("a1")
		require.NoError(t, err)
		assert.Equal(t, AgentBusy, agent.Status)
	})

	t.Run("releases the agent when asked", func(t *testing.T) {
		s := newTestService(t)
		s.RegisterAgent(Agent{ID: "a1", Capabilities: []string{"go"}})
		s.CreateTask(Task{ID: "t1", Title: "work", RequiredCapabilities: []string{"go"}, Priority: 5})
		_, err := s.AssignTask("t1", "a1")
		require.NoError(t, err)

		_, err = s.UpdateTaskStatus("t1", TaskFailed, true)
		require.NoError(t, err)

		agent, err := s.Registry().GetAgent("a1")
		require.NoError(t, err)
		assert.Equal(t, AgentAvailable, agent.Status)
	})

	t.Run("unknown task surfaces NotFound", func(t *testing.T) {
		s := newTestService(t)
		_, err := s.UpdateTaskStatus("missing", TaskCompleted, true)
		assert.Error(t, err)
	})
}

func TestAssignTask_Delegation(t *testing.T) {
	s := newTestService(t)
	s.RegisterAgent(Agent{ID: "a1", Capabilities: []string{"go"}})
	s.CreateTask(Task{ID: "t1", Title: "work", RequiredCapabilities: []string{"go"}, Priority: 5})

	assignment, err := s.AssignTask("t1", "a1")
	require.NoError(t, err)
	assert.Equal(t, "t1", assignment.TaskID)

	// Registry errors surface unchanged.
	_, err = s.AssignTask("t1", "a1")
	assert.Error(t, err)
}
