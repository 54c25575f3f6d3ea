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
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	orcherrors "github.com/hivegrid/orchestrator/pkg/errors"
)

// DefaultReputation is assigned to agents registered without one.
const DefaultReputation = 50

// clampReputation bounds a reputation value to [0, 100].
func clampReputation(rep int) int {
	if rep < 0 {
		return 0
	}
	if rep > 100 {
		return 100
	}
	return rep
}

// Registry is the sole owner of orchestrator state: agents, tasks,
// pools, the assignment history, and pheromone signals. Every public
// method is a single critical section; callers receive copies and can
// never reach internal state by reference.
//
// The registry enforces entity-local invariants (capability containment,
// no reassignment, reputation bounds, signal pruning). It has no
// knowledge of scheduling policy; that lives in Service.
type Registry struct {
	mu sync.Mutex

	agents   map[string]*Agent
	agentIDs []string

	tasks   map[string]*Task
	taskIDs []string

	pools   map[string]*AgentPool
	poolIDs []string

	signals   map[string]*Signal
	signalIDs []string

	// assignments is append-only; records are never mutated or deleted.
	assignments []TaskAssignment

	logger *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Logger is used for structured logging (optional).
	Logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		agents:  make(map[string]*Agent),
		tasks:   make(map[string]*Task),
		pools:   make(map[string]*AgentPool),
		signals: make(map[string]*Signal),
		logger:  logger,
		now:     time.Now,
	}
}

// RegisterAgent upserts an agent by id. Registration always succeeds;
// re-registering an id overwrites the previous agent data. A zero
// reputation is treated as unset and defaults to DefaultReputation,
// any other value is clamped to [0, 100], and an empty status defaults
// to available.
func (r *Registry) RegisterAgent(agent Agent) *Agent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if agent.Reputation == 0 {
		agent.Reputation = DefaultReputation
	}
	agent.Reputation = clampReputation(agent.Reputation)
	if agent.Status == "" {
		agent.Status = AgentAvailable
	}

	stored := agent.clone()
	if _, exists := r.agents[agent.ID]; !exists {
		r.agentIDs = append(r.agentIDs, agent.ID)
	}
	r.agents[agent.ID] = stored

	r.logger.Debug("agent registered",
		slog.String("agent_id", agent.ID),
		slog.String("status", string(agent.Status)),
		slog.Int("capabilities", len(agent.Capabilities)))
	return stored.clone()
}

// UpdateAgentStatus sets an agent's status.
func (r *Registry) UpdateAgentStatus(agentID string, status AgentStatus) (*Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[agentID]
	if !ok {
		return nil, &orcherrors.NotFoundError{Resource: "agent", ID: agentID}
	}
	agent.Status = status
	return agent.clone(), nil
}

// GetAgent returns a copy of the agent, or NotFoundError.
func (r *Registry) GetAgent(agentID string) (*Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[agentID]
	if !ok {
		return nil, &orcherrors.NotFoundError{Resource: "agent", ID: agentID}
	}
	return agent.clone(), nil
}

// ListAgents returns all agents in registration order.
func (r *Registry) ListAgents() []*Agent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Agent, 0, len(r.agentIDs))
	for _, id := range r.agentIDs {
		out = append(out, r.agents[id].clone())
	}
	return out
}

// ListAvailableAgents returns agents with status available, optionally
// restricted to those whose capability set contains capability.
func (r *Registry) ListAvailableAgents(capability string) []*Agent {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Agent
	for _, id := range r.agentIDs {
		agent := r.agents[id]
		if agent.Status != AgentAvailable {
			continue
		}
		if capability != "" && !agent.HasCapability(capability) {
			continue
		}
		out = append(out, agent.clone())
	}
	return out
}

// UpdateAgentBeliefs shallow-merges beliefs into the agent's belief map.
func (r *Registry) UpdateAgentBeliefs(agentID string, beliefs map[string]any) (*Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[agentID]
	if !ok {
		return nil, &orcherrors.NotFoundError{Resource: "agent", ID: agentID}
	}
	if agent.Beliefs == nil {
		agent.Beliefs = make(map[string]any, len(beliefs))
	}
	for k, v := range beliefs {
		agent.Beliefs[k] = v
	}
	return agent.clone(), nil
}

// UpdateAgentDesire upserts a desire by id within the agent's desire
// list: replaced in place when the id exists, appended otherwise.
func (r *Registry) UpdateAgentDesire(agentID string, desire Desire) (*Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[agentID]
	if !ok {
		return nil, &orcherrors.NotFoundError{Resource: "agent", ID: agentID}
	}
	replaced := false
	for i := range agent.Desires {
		if agent.Desires[i].ID == desire.ID {
			agent.Desires[i] = desire
			replaced = true
			break
		}
	}
	if !replaced {
		agent.Desires = append(agent.Desires, desire)
	}
	return agent.clone(), nil
}

// UpdateAgentIntention upserts an intention by id within the agent's
// intention list.
func (r *Registry) UpdateAgentIntention(agentID string, intention Intention) (*Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[agentID]
	if !ok {
		return nil, &orcherrors.NotFoundError{Resource: "agent", ID: agentID}
	}
	replaced := false
	for i := range agent.Intentions {
		if agent.Intentions[i].ID == intention.ID {
			agent.Intentions[i] = intention
			replaced = true
			break
		}
	}
	if !replaced {
		agent.Intentions = append(agent.Intentions, intention)
	}
	return agent.clone(), nil
}

// UpdateAgentReputation applies delta to the agent's reputation,
// clamped to [0, 100].
func (r *Registry) UpdateAgentReputation(agentID string, delta int) (*Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[agentID]
	if !ok {
		return nil, &orcherrors.NotFoundError{Resource: "agent", ID: agentID}
	}
	agent.Reputation = clampReputation(agent.Reputation + delta)
	return agent.clone(), nil
}

// CreateTask stores a task, forcing its status to pending, its
// CreatedAt/UpdatedAt to now, and its signal list to empty. The task's id is not checked for uniqueness;
// re-creating an id overwrites the previous task.
func (r *Registry) CreateTask(task Task) *Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	task.Status = TaskPending
	task.CreatedAt = now
	task.UpdatedAt = now
	task.CompletedAt = nil
	task.Signals = nil

	stored := task.clone()
	if _, exists := r.tasks[task.ID]; !exists {
		r.taskIDs = append(r.taskIDs, task.ID)
	}
	r.tasks[task.ID] = stored

	recordTaskCreated()
	r.logger.Debug("task created",
		slog.String("task_id", task.ID),
		slog.Int("priority", task.Priority))
	return stored.clone()
}

// UpdateTaskStatus sets a task's status, refreshing UpdatedAt. The
// CompletedAt timestamp is set only on a transition to completed and is
// preserved otherwise.
func (r *Registry) UpdateTaskStatus(taskID string, status TaskStatus) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[taskID]
	if !ok {
		return nil, &orcherrors.NotFoundError{Resource: "task", ID: taskID}
	}
	task.Status = status
	task.UpdatedAt = r.now()
	if status == TaskCompleted {
		at := r.now()
		task.CompletedAt = &at
	}
	return task.clone(), nil
}

// GetTask returns a copy of the task, or NotFoundError.
func (r *Registry) GetTask(taskID string) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[taskID]
	if !ok {
		return nil, &orcherrors.NotFoundError{Resource: "task", ID: taskID}
	}
	return task.clone(), nil
}

// ListTasks returns tasks in creation order, optionally filtered by
// status (empty status means no filter).
func (r *Registry) ListTasks(status TaskStatus) []*Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Task
	for _, id := range r.taskIDs {
		task := r.tasks[id]
		if status != "" && task.Status != status {
			continue
		}
		out = append(out, task.clone())
	}
	return out
}

// AssignTask is the core transactional operation. It fails with
// AlreadyAssignedError if the task has an assignee, AgentUnavailableError
// if the agent is not available, and CapabilityMismatchError if the
// agent lacks any required capability. On success the task moves to
// in_progress, the agent to busy, an assignment record is appended, and
// a state-category signal of strength 5.0 is emitted for the task.
func (r *Registry) AssignTask(taskID, agentID string) (*TaskAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[taskID]
	if !ok {
		return nil, &orcherrors.NotFoundError{Resource: "task", ID: taskID}
	}
	agent, ok := r.agents[agentID]
	if !ok {
		return nil, &orcherrors.NotFoundError{Resource: "agent", ID: agentID}
	}

	if task.AssignedTo != "" {
		return nil, &orcherrors.AlreadyAssignedError{TaskID: taskID, AgentID: task.AssignedTo}
	}
	if agent.Status != AgentAvailable {
		return nil, &orcherrors.AgentUnavailableError{AgentID: agentID, Status: string(agent.Status)}
	}
	if missing := agent.MissingCapabilities(task.RequiredCapabilities); len(missing) > 0 {
		return nil, &orcherrors.CapabilityMismatchError{TaskID: taskID, AgentID: agentID, Missing: missing}
	}

	now := r.now()
	task.AssignedTo = agentID
	task.Status = TaskInProgress
	task.UpdatedAt = now
	agent.Status = AgentBusy

	assignment := TaskAssignment{TaskID: taskID, AgentID: agentID, Timestamp: now}
	r.assignments = append(r.assignments, assignment)

	r.createSignalLocked(Signal{
		Type:     "task_assigned",
		Target:   taskID,
		Strength: 5.0,
		Category: CategoryState,
		Message:  fmt.Sprintf("Task %s assigned to agent %s", taskID, agentID),
	})

	recordAssignment()
	r.logger.Info("task assigned",
		slog.String("task_id", taskID),
		slog.String("agent_id", agentID))
	return &assignment, nil
}

// Assignments returns the full assignment history in append order.
func (r *Registry) Assignments() []TaskAssignment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TaskAssignment(nil), r.assignments...)
}

// CreateAgentPool stores a pool after checking that every member
// references a registered agent.
func (r *Registry) CreateAgentPool(pool AgentPool) (*AgentPool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, agentID := range pool.AgentIDs {
		if _, ok := r.agents[agentID]; !ok {
			return nil, &orcherrors.PoolReferenceError{PoolID: pool.ID, AgentID: agentID}
		}
	}
	stored := pool.clone()
	if _, exists := r.pools[pool.ID]; !exists {
		r.poolIDs = append(r.poolIDs, pool.ID)
	}
	r.pools[pool.ID] = stored
	return stored.clone(), nil
}

// GetAgentPool returns a copy of the pool, or NotFoundError.
func (r *Registry) GetAgentPool(poolID string) (*AgentPool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pool, ok := r.pools[poolID]
	if !ok {
		return nil, &orcherrors.NotFoundError{Resource: "pool", ID: poolID}
	}
	return pool.clone(), nil
}

// ListAgentPools returns all pools in creation order.
func (r *Registry) ListAgentPools() []*AgentPool {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*AgentPool, 0, len(r.poolIDs))
	for _, id := range r.poolIDs {
		out = append(out, r.pools[id].clone())
	}
	return out
}

// Counts reports table sizes for diagnostics.
func (r *Registry) Counts() (agents, tasks, pools, signals, assignments int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.agents), len(r.tasks), len(r.pools), len(r.signals), len(r.assignments)
}

// newSignalID generates a unique signal id.
func newSignalID() string {
	return "sig-" + uuid.NewString()
}
