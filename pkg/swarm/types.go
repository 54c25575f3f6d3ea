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

import "time"

// AgentStatus represents the lifecycle state of an agent.
type AgentStatus string

const (
	// AgentAvailable means the agent can accept new assignments.
	AgentAvailable AgentStatus = "available"
	// AgentBusy means the agent holds an in-progress assignment.
	AgentBusy AgentStatus = "busy"
	// AgentOffline means the agent is not participating.
	AgentOffline AgentStatus = "offline"
)

// Valid reports whether s is a known agent status.
func (s AgentStatus) Valid() bool {
	switch s {
	case AgentAvailable, AgentBusy, AgentOffline:
		return true
	}
	return false
}

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	// TaskPending means the task awaits assignment.
	TaskPending TaskStatus = "pending"
	// TaskInProgress means the task has been assigned to an agent.
	TaskInProgress TaskStatus = "in_progress"
	// TaskCompleted means the task finished successfully.
	TaskCompleted TaskStatus = "completed"
	// TaskFailed means the task finished unsuccessfully.
	TaskFailed TaskStatus = "failed"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskFailed:
		return true
	}
	return false
}

// IntentionStatus represents the state of a single agent intention.
type IntentionStatus string

const (
	IntentionPlanned    IntentionStatus = "planned"
	IntentionInProgress IntentionStatus = "in_progress"
	IntentionCompleted  IntentionStatus = "completed"
	IntentionFailed     IntentionStatus = "failed"
)

// SignalCategory classifies pheromone signals for filtering and for
// per-category evaporation rates.
type SignalCategory string

const (
	CategoryState        SignalCategory = "state"
	CategoryNeed         SignalCategory = "need"
	CategoryProblem      SignalCategory = "problem"
	CategoryPriority     SignalCategory = "priority"
	CategoryDependency   SignalCategory = "dependency"
	CategoryAnticipatory SignalCategory = "anticipatory"
)

// Valid reports whether c is a known signal category.
func (c SignalCategory) Valid() bool {
	switch c {
	case CategoryState, CategoryNeed, CategoryProblem, CategoryPriority,
		CategoryDependency, CategoryAnticipatory:
		return true
	}
	return false
}

// Desire is a goal an agent wants to achieve (BDI model).
type Desire struct {
	ID          string `json:"id"`
	Priority    int    `json:"priority"`
	Description string `json:"description,omitempty"`
}

// Intention is a committed plan of action toward a desire (BDI model).
type Intention struct {
	ID       string          `json:"id"`
	DesireID string          `json:"desire_id,omitempty"`
	Action   string          `json:"action"`
	Status   IntentionStatus `json:"status"`
}

// Agent is a registered worker. Capabilities drive assignment; the BDI
// and swarm fields are optional metadata carried for callers.
type Agent struct {
	ID           string         `json:"id"`
	Type         string         `json:"type,omitempty"`
	Capabilities []string       `json:"capabilities"`
	Status       AgentStatus    `json:"status"`
	Beliefs      map[string]any `json:"beliefs,omitempty"`
	Desires      []Desire       `json:"desires,omitempty"`
	Intentions   []Intention    `json:"intentions,omitempty"`

	// Reputation is bounded to [0, 100]; 50 at registration when unset.
	Reputation     int    `json:"reputation"`
	Role           string `json:"role,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// HasCapability reports whether the agent's capability set contains cap.
func (a *Agent) HasCapability(cap string) bool {
	for _, c := range a.Capabilities {
		if c == cap {
			return true
		}
	}
	return false
}

// MissingCapabilities returns the members of required absent from the
// agent's capability set, preserving the order of required.
func (a *Agent) MissingCapabilities(required []string) []string {
	var missing []string
	for _, cap := range required {
		if !a.HasCapability(cap) {
			missing = append(missing, cap)
		}
	}
	return missing
}

// clone returns a deep copy so registry internals never escape.
func (a *Agent) clone() *Agent {
	cp := *a
	cp.Capabilities = append([]string(nil), a.Capabilities...)
	cp.Desires = append([]Desire(nil), a.Desires...)
	cp.Intentions = append([]Intention(nil), a.Intentions...)
	if a.Beliefs != nil {
		cp.Beliefs = make(map[string]any, len(a.Beliefs))
		for k, v := range a.Beliefs {
			cp.Beliefs[k] = v
		}
	}
	return &cp
}

// Task is a unit of work flowing pending -> in_progress -> completed|failed.
type Task struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	RequiredCapabilities []string   `json:"required_capabilities"`
	Priority             int        `json:"priority"`
	Status               TaskStatus `json:"status"`
	AssignedTo           string     `json:"assigned_to,omitempty"`

	// Signals is a denormalized copy of the signals targeting this task,
	// kept in sync by the registry on strength updates and pruning.
	Signals []Signal `json:"signals"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (t *Task) clone() *Task {
	cp := *t
	cp.RequiredCapabilities = append([]string(nil), t.RequiredCapabilities...)
	cp.Signals = make([]Signal, len(t.Signals))
	for i := range t.Signals {
		cp.Signals[i] = *t.Signals[i].clone()
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		cp.CompletedAt = &at
	}
	return &cp
}

// AgentPool is a named grouping of registered agents for specialized
// allocation. Membership is validated at creation time only.
type AgentPool struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	AgentIDs []string `json:"agent_ids"`
	Strategy string   `json:"strategy,omitempty"`
}

func (p *AgentPool) clone() *AgentPool {
	cp := *p
	cp.AgentIDs = append([]string(nil), p.AgentIDs...)
	return &cp
}

// TaskAssignment is an immutable record of one successful assignment.
// Records are appended to the history log and never mutated.
type TaskAssignment struct {
	TaskID    string    `json:"task_id"`
	AgentID   string    `json:"agent_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Signal is a pheromone-style event. Strength decays under evaporation
// and signals below the prune floor are removed entirely.
type Signal struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Target    string         `json:"target,omitempty"`
	Strength  float64        `json:"strength"`
	Category  SignalCategory `json:"category"`
	Timestamp time.Time      `json:"timestamp"`
	Message   string         `json:"message,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

func (s *Signal) clone() *Signal {
	cp := *s
	if s.Data != nil {
		cp.Data = make(map[string]any, len(s.Data))
		for k, v := range s.Data {
			cp.Data[k] = v
		}
	}
	return &cp
}
