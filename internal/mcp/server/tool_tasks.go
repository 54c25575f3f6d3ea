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

package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hivegrid/orchestrator/pkg/swarm"
)

// registerTaskTools registers the task lifecycle and allocation tools
func (s *Server) registerTaskTools() {
	// Tool: create_task
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_task",
		Description: "Create a task. Tasks always start as 'pending' regardless of any status supplied.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Unique task identifier",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Short task title",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Longer task description (optional)",
				},
				"required_capabilities": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Capabilities an agent must hold to take this task",
				},
				"priority": map[string]interface{}{
					"type":        "number",
					"description": "Urgency 1-10, higher is more urgent (default: 1)",
				},
			},
			Required: []string{"id", "title"},
		},
	}, s.handleCreateTask)

	// Tool: get_task_status
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_task_status",
		Description: "Fetch a task, including its assignee and denormalized signal list.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"task_id": map[string]interface{}{
					"type":        "string",
					"description": "Task to fetch",
				},
			},
			Required: []string{"task_id"},
		},
	}, s.handleGetTaskStatus)

	// Tool: list_tasks
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks, optionally filtered by status.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"status": map[string]interface{}{
					"type":        "string",
					"description": "Filter: pending, in_progress, completed, or failed",
				},
			},
		},
	}, s.handleListTasks)

	// Tool: update_task_status
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "update_task_status",
		Description: "Set a task's status. Completing or failing a task does NOT free its agent unless release_agent is true.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"task_id": map[string]interface{}{
					"type":        "string",
					"description": "Task to update",
				},
				"status": map[string]interface{}{
					"type":        "string",
					"description": "New status: pending, in_progress, completed, or failed",
				},
				"release_agent": map[string]interface{}{
					"type":        "boolean",
					"description": "Also move the task's assignee back to 'available' (default: false)",
					"default":     false,
				},
			},
			Required: []string{"task_id", "status"},
		},
	}, s.handleUpdateTaskStatus)

	// Tool: assign_task
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "assign_task",
		Description: "Assign a task to a specific agent. Fails if the task is assigned, the agent is unavailable, or capabilities are missing.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"task_id": map[string]interface{}{
					"type":        "string",
					"description": "Task to assign",
				},
				"agent_id": map[string]interface{}{
					"type":        "string",
					"description": "Agent receiving the task",
				},
			},
			Required: []string{"task_id", "agent_id"},
		},
	}, s.handleAssignTask)

	// Tool: auto_allocate_tasks
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "auto_allocate_tasks",
		Description: "Match pending tasks to available agents by capability, highest priority first. Each agent receives at most one task per pass.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"max_allocations": map[string]interface{}{
					"type":        "number",
					"description": "Cap on assignments this pass (default: unlimited)",
				},
			},
		},
	}, s.handleAutoAllocate)
}

// handleCreateTask implements the create_task tool
func (s *Server) handleCreateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	id, err := request.RequireString("id")
	if err != nil {
		return errorResponse("Missing or invalid 'id' argument"), nil
	}
	title, err := request.RequireString("title")
	if err != nil {
		return errorResponse("Missing or invalid 'title' argument"), nil
	}
	args := request.GetArguments()

	required, err := optStringSlice(args, "required_capabilities")
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	priority, err := optInt(args, "priority")
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	if priority == 0 {
		priority = 1
	}
	if priority < 1 || priority > 10 {
		return errorResponse("'priority' must be between 1 and 10"), nil
	}

	task := s.service.CreateTask(swarm.Task{
		ID:                   id,
		Title:                title,
		Description:          optString(args, "description"),
		RequiredCapabilities: required,
		Priority:             priority,
	})
	return jsonResponse(task), nil
}

// handleGetTaskStatus implements the get_task_status tool
func (s *Server) handleGetTaskStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	taskID, err := request.RequireString("task_id")
	if err != nil {
		return errorResponse("Missing or invalid 'task_id' argument"), nil
	}

	task, err := s.service.GetTaskStatus(taskID)
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	return jsonResponse(task), nil
}

// handleListTasks implements the list_tasks tool
func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	var status swarm.TaskStatus
	if raw := request.GetString("status", ""); raw != "" {
		var err error
		if status, err = decodeTaskStatus(raw); err != nil {
			return errorResponse(err.Error()), nil
		}
	}

	tasks := s.service.Registry().ListTasks(status)
	return jsonResponse(map[string]interface{}{
		"count": len(tasks),
		"tasks": tasks,
	}), nil
}

// handleUpdateTaskStatus implements the update_task_status tool
func (s *Server) handleUpdateTaskStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	taskID, err := request.RequireString("task_id")
	if err != nil {
		return errorResponse("Missing or invalid 'task_id' argument"), nil
	}
	raw, err := request.RequireString("status")
	if err != nil {
		return errorResponse("Missing or invalid 'status' argument"), nil
	}
	status, err := decodeTaskStatus(raw)
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	releaseAgent := request.GetBool("release_agent", false)

	task, err := s.service.UpdateTaskStatus(taskID, status, releaseAgent)
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	return jsonResponse(task), nil
}

// handleAssignTask implements the assign_task tool
func (s *Server) handleAssignTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	taskID, err := request.RequireString("task_id")
	if err != nil {
		return errorResponse("Missing or invalid 'task_id' argument"), nil
	}
	agentID, err := request.RequireString("agent_id")
	if err != nil {
		return errorResponse("Missing or invalid 'agent_id' argument"), nil
	}

	assignment, err := s.service.AssignTask(taskID, agentID)
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	return jsonResponse(assignment), nil
}

// handleAutoAllocate implements the auto_allocate_tasks tool
func (s *Server) handleAutoAllocate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	max, err := optInt(request.GetArguments(), "max_allocations")
	if err != nil {
		return errorResponse(err.Error()), nil
	}

	assignments := s.service.AutoAllocate(max)
	return jsonResponse(map[string]interface{}{
		"count":       len(assignments),
		"assignments": assignments,
	}), nil
}
