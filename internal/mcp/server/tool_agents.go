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

// registerAgentTools registers the agent lifecycle tools
func (s *Server) registerAgentTools() {
	// Tool: register_agent
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "register_agent",
		Description: "Register an agent (or re-register to overwrite). Capabilities drive task assignment; reputation defaults to 50.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Unique, stable agent identifier",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Free-form agent classification (e.g., 'worker', 'reviewer')",
				},
				"capabilities": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Capability tags the agent offers",
				},
				"status": map[string]interface{}{
					"type":        "string",
					"description": "Initial status: available, busy, or offline (default: available)",
				},
				"role": map[string]interface{}{
					"type":        "string",
					"description": "Swarm role (optional)",
				},
				"specialization": map[string]interface{}{
					"type":        "string",
					"description": "Swarm specialization (optional)",
				},
				"reputation": map[string]interface{}{
					"type":        "number",
					"description": "Initial reputation 0-100 (default: 50)",
				},
				"beliefs": map[string]interface{}{
					"type":        "object",
					"description": "Initial belief map (optional)",
				},
			},
			Required: []string{"id", "capabilities"},
		},
	}, s.handleRegisterAgent)

	// Tool: set_agent_status
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "set_agent_status",
		Description: "Set an agent's status. Status transitions are always caller-driven; completing a task does not free its agent.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"agent_id": map[string]interface{}{
					"type":        "string",
					"description": "Agent to update",
				},
				"status": map[string]interface{}{
					"type":        "string",
					"description": "New status: available, busy, or offline",
				},
			},
			Required: []string{"agent_id", "status"},
		},
	}, s.handleSetAgentStatus)

	// Tool: list_available_agents
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_available_agents",
		Description: "List agents with status 'available', optionally filtered to those holding a capability.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"capability": map[string]interface{}{
					"type":        "string",
					"description": "Restrict to agents holding this capability",
				},
			},
		},
	}, s.handleListAvailableAgents)

	// Tool: update_agent_beliefs
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "update_agent_beliefs",
		Description: "Shallow-merge a belief map into an agent's existing beliefs (BDI model).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"agent_id": map[string]interface{}{
					"type":        "string",
					"description": "Agent to update",
				},
				"beliefs": map[string]interface{}{
					"type":        "object",
					"description": "Key/value beliefs to merge",
				},
			},
			Required: []string{"agent_id", "beliefs"},
		},
	}, s.handleUpdateAgentBeliefs)

	// Tool: update_agent_desire
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "update_agent_desire",
		Description: "Upsert a desire by id in an agent's desire list (BDI model).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"agent_id": map[string]interface{}{
					"type":        "string",
					"description": "Agent to update",
				},
				"desire": map[string]interface{}{
					"type":        "object",
					"description": "Desire object: {id, priority, description}",
				},
			},
			Required: []string{"agent_id", "desire"},
		},
	}, s.handleUpdateAgentDesire)

	// Tool: update_agent_intention
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "update_agent_intention",
		Description: "Upsert an intention by id in an agent's intention list (BDI model).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"agent_id": map[string]interface{}{
					"type":        "string",
					"description": "Agent to update",
				},
				"intention": map[string]interface{}{
					"type":        "object",
					"description": "Intention object: {id, desire_id, action, status}",
				},
			},
			Required: []string{"agent_id", "intention"},
		},
	}, s.handleUpdateAgentIntention)

	// Tool: update_agent_reputation
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "update_agent_reputation",
		Description: "Apply a delta to an agent's reputation, clamped to [0, 100].",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"agent_id": map[string]interface{}{
					"type":        "string",
					"description": "Agent to update",
				},
				"delta": map[string]interface{}{
					"type":        "number",
					"description": "Signed reputation change",
				},
			},
			Required: []string{"agent_id", "delta"},
		},
	}, s.handleUpdateAgentReputation)
}

// handleRegisterAgent implements the register_agent tool
func (s *Server) handleRegisterAgent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	id, err := request.RequireString("id")
	if err != nil {
		return errorResponse("Missing or invalid 'id' argument"), nil
	}
	args := request.GetArguments()

	capabilities, err := optStringSlice(args, "capabilities")
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	beliefs, err := optMap(args, "beliefs")
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	reputation, err := optInt(args, "reputation")
	if err != nil {
		return errorResponse(err.Error()), nil
	}

	agent := swarm.Agent{
		ID:             id,
		Type:           optString(args, "type"),
		Capabilities:   capabilities,
		Beliefs:        beliefs,
		Reputation:     reputation,
		Role:           optString(args, "role"),
		Specialization: optString(args, "specialization"),
	}
	if raw := optString(args, "status"); raw != "" {
		status, err := decodeAgentStatus(raw)
		if err != nil {
			return errorResponse(err.Error()), nil
		}
		agent.Status = status
	}

	return jsonResponse(s.service.RegisterAgent(agent)), nil
}

// handleSetAgentStatus implements the set_agent_status tool
func (s *Server) handleSetAgentStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	agentID, err := request.RequireString("agent_id")
	if err != nil {
		return errorResponse("Missing or invalid 'agent_id' argument"), nil
	}
	raw, err := request.RequireString("status")
	if err != nil {
		return errorResponse("Missing or invalid 'status' argument"), nil
	}
	status, err := decodeAgentStatus(raw)
	if err != nil {
		return errorResponse(err.Error()), nil
	}

	agent, err := s.service.UpdateAgentStatus(agentID, status)
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	return jsonResponse(agent), nil
}

// handleListAvailableAgents implements the list_available_agents tool
func (s *Server) handleListAvailableAgents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	capability := request.GetString("capability", "")
	agents := s.service.ListAvailableAgents(capability)
	return jsonResponse(map[string]interface{}{
		"count":  len(agents),
		"agents": agents,
	}), nil
}

// handleUpdateAgentBeliefs implements the update_agent_beliefs tool
func (s *Server) handleUpdateAgentBeliefs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	agentID, err := request.RequireString("agent_id")
	if err != nil {
		return errorResponse("Missing or invalid 'agent_id' argument"), nil
	}
	beliefs, err := optMap(request.GetArguments(), "beliefs")
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	if beliefs == nil {
		return errorResponse("Missing 'beliefs' argument"), nil
	}

	agent, err := s.service.Registry().UpdateAgentBeliefs(agentID, beliefs)
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	return jsonResponse(agent), nil
}

// handleUpdateAgentDesire implements the update_agent_desire tool
func (s *Server) handleUpdateAgentDesire(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	agentID, err := request.RequireString("agent_id")
	if err != nil {
		return errorResponse("Missing or invalid 'agent_id' argument"), nil
	}
	raw, err := optMap(request.GetArguments(), "desire")
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	if raw == nil {
		return errorResponse("Missing 'desire' argument"), nil
	}
	desire, err := decodeDesire(raw)
	if err != nil {
		return errorResponse(err.Error()), nil
	}

	agent, err := s.service.Registry().UpdateAgentDesire(agentID, desire)
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	return jsonResponse(agent), nil
}

// handleUpdateAgentIntention implements the update_agent_intention tool
func (s *Server) handleUpdateAgentIntention(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	agentID, err := request.RequireString("agent_id")
	if err != nil {
		return errorResponse("Missing or invalid 'agent_id' argument"), nil
	}
	raw, err := optMap(request.GetArguments(), "intention")
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	if raw == nil {
		return errorResponse("Missing 'intention' argument"), nil
	}
	intention, err := decodeIntention(raw)
	if err != nil {
		return errorResponse(err.Error()), nil
	}

	agent, err := s.service.Registry().UpdateAgentIntention(agentID, intention)
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	return jsonResponse(agent), nil
}

// handleUpdateAgentReputation implements the update_agent_reputation tool
func (s *Server) handleUpdateAgentReputation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	agentID, err := request.RequireString("agent_id")
	if err != nil {
		return errorResponse("Missing or invalid 'agent_id' argument"), nil
	}
	args := request.GetArguments()
	if _, ok := args["delta"]; !ok {
		return errorResponse("Missing 'delta' argument"), nil
	}
	delta, err := optInt(args, "delta")
	if err != nil {
		return errorResponse(err.Error()), nil
	}

	agent, err := s.service.Registry().UpdateAgentReputation(agentID, delta)
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	return jsonResponse(agent), nil
}
