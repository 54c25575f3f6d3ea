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

// Package errors defines the structured error types returned by the
// orchestrator registry and service layers. Every error is a local,
// recoverable-by-caller condition; none is process-fatal.
package errors

import (
	"fmt"
	"strings"
)

// ValidationError represents user input validation failures.
// Use this for malformed tool arguments or constraint violations
// detected at the transport boundary.
type ValidationError struct {
	// Field identifies which input field failed validation
	Field string

	// Message is the human-readable error description
	Message string

	// Suggestion provides actionable guidance for fixing the error
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NotFoundError represents a resource not found error.
// Use this when a referenced agent, task, pool, or signal does not exist.
type NotFoundError struct {
	// Resource is the type of resource (e.g., "agent", "task", "signal")
	Resource string

	// ID is the identifier that was not found
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// AlreadyAssignedError is returned when an assignment targets a task
// that already has an assignee. Tasks are never reassigned.
type AlreadyAssignedError struct {
	// TaskID is the task that was targeted
	TaskID string

	// AgentID is the agent currently holding the assignment
	AgentID string
}

// Error implements the error interface.
func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("task %s is already assigned to agent %s", e.TaskID, e.AgentID)
}

// AgentUnavailableError is returned when an assignment targets an agent
// whose status is not "available".
type AgentUnavailableError struct {
	// AgentID is the agent that was targeted
	AgentID string

	// Status is the agent's current status
	Status string
}

// Error implements the error interface.
func (e *AgentUnavailableError) Error() string {
	return fmt.Sprintf("agent %s is not available (status: %s)", e.AgentID, e.Status)
}

// CapabilityMismatchError is returned when the target agent lacks one or
// more of the capabilities a task requires.
type CapabilityMismatchError struct {
	// TaskID is the task whose requirements were not met
	TaskID string

	// AgentID is the agent that was evaluated
	AgentID string

	// Missing lists the required capabilities the agent does not have
	Missing []string
}

// Error implements the error interface.
func (e *CapabilityMismatchError) Error() string {
	return fmt.Sprintf("agent %s lacks required capabilities for task %s: %s",
		e.AgentID, e.TaskID, strings.Join(e.Missing, ", "))
}

// PoolReferenceError is returned when an agent pool references an agent
// id that has not been registered.
type PoolReferenceError struct {
	// PoolID is the pool being created
	PoolID string

	// AgentID is the unregistered member reference
	AgentID string
}

// Error implements the error interface.
func (e *PoolReferenceError) Error() string {
	return fmt.Sprintf("pool %s references unregistered agent: %s", e.PoolID, e.AgentID)
}
