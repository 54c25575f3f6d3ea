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
	"log/slog"
	"sort"

	orcherrors "github.com/hivegrid/orchestrator/pkg/errors"
)

// exactMatchBonus rewards candidates whose capability set is exactly
// the task's requirement set, preferring specialists over generalists.
const exactMatchBonus = 2

// Service is the assignment policy layer. It decides which agent gets
// which task, and drives the allocation loop. All state access goes
// through the registry's public methods; the service never touches
// registry internals.
type Service struct {
	registry *Registry
	logger   *slog.Logger
}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// Registry is the backing state store (required).
	Registry *Registry

	// Logger is used for structured logging (optional).
	Logger *slog.Logger
}

// NewService creates a service over the given registry.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{registry: cfg.Registry, logger: logger}
}

// Registry exposes the backing registry for read paths that need no policy.
func (s *Service) Registry() *Registry {
	return s.registry
}

// RegisterAgent delegates to the registry.
func (s *Service) RegisterAgent(agent Agent) *Agent {
	return s.registry.RegisterAgent(agent)
}

// UpdateAgentStatus delegates to the registry.
func (s *Service) UpdateAgentStatus(agentID string, status AgentStatus) (*Agent, error) {
	return s.registry.UpdateAgentStatus(agentID, status)
}

// ListAvailableAgents delegates to the registry.
func (s *Service) ListAvailableAgents(capability string) []*Agent {
	return s.registry.ListAvailableAgents(capability)
}

// CreateAgentPool delegates to the registry.
func (s *Service) CreateAgentPool(pool AgentPool) (*AgentPool, error) {
	return s.registry.CreateAgentPool(pool)
}

// GetTaskStatus delegates to the registry.
func (s *Service) GetTaskStatus(taskID string) (*Task, error) {
	return s.registry.GetTask(taskID)
}

// CreateTask stores a task with its status forced to pending. Callers
// cannot create tasks in any other initial state.
func (s *Service) CreateTask(task Task) *Task {
	task.Status = TaskPending
	task.AssignedTo = ""
	return s.registry.CreateTask(task)
}

// AssignTask delegates to the registry, surfacing its errors unchanged.
func (s *Service) AssignTask(taskID, agentID string) (*TaskAssignment, error) {
	return s.registry.AssignTask(taskID, agentID)
}

// UpdateTaskStatus sets a task's status and, when releaseAgent is true,
// moves the task's assignee back to available. The registry itself
// never auto-frees a busy agent on completion; this is the explicit
// release path for callers that want it.
func (s *Service) UpdateTaskStatus(taskID string, status TaskStatus, releaseAgent bool) (*Task, error) {
	task, err := s.registry.UpdateTaskStatus(taskID, status)
	if err != nil {
		return nil, err
	}
	if releaseAgent && task.AssignedTo != "" {
		if _, err := s.registry.UpdateAgentStatus(task.AssignedTo, AgentAvailable); err != nil {
			return nil, err
		}
		s.logger.Info("agent released",
			slog.String("agent_id", task.AssignedTo),
			slog.String("task_id", taskID))
	}
	return task, nil
}

// AutoAllocate matches pending tasks to available agents, highest
// priority first. maxAllocations <= 0 means unlimited. Each agent
// receives at most one task per pass; a task with no satisfying
// candidate stays pending; an individual assignment failure (e.g. a
// concurrent caller claimed the agent) is logged and skipped rather
// than aborting the pass.
func (s *Service) AutoAllocate(maxAllocations int) []TaskAssignment {
	pending := s.registry.ListTasks(TaskPending)
	available := s.registry.ListAvailableAgents("")
	if len(pending) == 0 || len(available) == 0 {
		return nil
	}

	// Highest priority first; stable keeps creation order for ties.
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Priority > pending[j].Priority
	})
	if maxAllocations > 0 && len(pending) > maxAllocations {
		pending = pending[:maxAllocations]
	}

	claimed := make(map[string]bool)
	var assignments []TaskAssignment

	for _, task := range pending {
		best := pickAgent(task, available, claimed)
		if best == nil {
			recordAllocationSkipped("no_candidate")
			s.logger.Debug("no candidate for task",
				slog.String("task_id", task.ID),
				slog.Int("priority", task.Priority))
			continue
		}

		assignment, err := s.registry.AssignTask(task.ID, best.ID)
		if err != nil {
			// A concurrent assignment can invalidate a snapshot candidate.
			reason := "assign_failed"
			var unavailable *orcherrors.AgentUnavailableError
			if orcherrors.As(err, &unavailable) {
				reason = "agent_unavailable"
			}
			recordAllocationSkipped(reason)
			s.logger.Warn("allocation failed, skipping task",
				slog.String("task_id", task.ID),
				slog.String("agent_id", best.ID),
				slog.String("error", err.Error()))
			continue
		}

		claimed[best.ID] = true
		assignments = append(assignments, *assignment)
		if maxAllocations > 0 && len(assignments) >= maxAllocations {
			break
		}
	}

	s.logger.Info("auto-allocation pass complete",
		slog.Int("pending", len(pending)),
		slog.Int("assigned", len(assignments)))
	return assignments
}

// pickAgent returns the highest-scoring unclaimed agent that holds every
// capability the task requires, or nil when none qualifies. Ties are
// broken by the order of the agents slice.
func pickAgent(task *Task, agents []*Agent, claimed map[string]bool) *Agent {
	var best *Agent
	bestScore := -1
	for _, agent := range agents {
		if claimed[agent.ID] {
			continue
		}
		if len(agent.MissingCapabilities(task.RequiredCapabilities)) > 0 {
			continue
		}
		score := scoreAgent(task, agent)
		if score > bestScore {
			best = agent
			bestScore = score
		}
	}
	return best
}

// scoreAgent counts the required capabilities the agent holds, plus a
// bonus when the agent carries no superfluous capabilities.
func scoreAgent(task *Task, agent *Agent) int {
	score := 0
	for _, cap := range task.RequiredCapabilities {
		if agent.HasCapability(cap) {
			score++
		}
	}
	if len(agent.Capabilities) == len(task.RequiredCapabilities) {
		score += exactMatchBonus
	}
	return score
}
