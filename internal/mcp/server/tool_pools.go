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

// registerPoolTools registers the agent pool tools
func (s *Server) registerPoolTools() {
	// Tool: create_agent_pool
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_agent_pool",
		Description: "Create a named pool of registered agents for specialized allocation. Every member must already be registered.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Unique pool identifier",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Human-readable pool name",
				},
				"agent_ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Registered agent ids in this pool",
				},
				"strategy": map[string]interface{}{
					"type":        "string",
					"description": "Free-form allocation strategy label (optional)",
				},
			},
			Required: []string{"id", "name", "agent_ids"},
		},
	}, s.handleCreateAgentPool)

	// Tool: list_agent_pools
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_agent_pools",
		Description: "List all agent pools.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListAgentPools)
}

// handleCreateAgentPool implements the create_agent_pool tool
func (s *Server) handleCreateAgentPool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	id, err := request.RequireString("id")
	if err != nil {
		return errorResponse("Missing or invalid 'id' argument"), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return errorResponse("Missing or invalid 'name' argument"), nil
	}
	args := request.GetArguments()
	agentIDs, err := optStringSlice(args, "agent_ids")
	if err != nil {
		return errorResponse(err.Error()), nil
	}

	pool, err := s.service.CreateAgentPool(swarm.AgentPool{
		ID:       id,
		Name:     name,
		AgentIDs: agentIDs,
		Strategy: optString(args, "strategy"),
	})
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	return jsonResponse(pool), nil
}

// handleListAgentPools implements the list_agent_pools tool
func (s *Server) handleListAgentPools(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	pools := s.service.Registry().ListAgentPools()
	return jsonResponse(map[string]interface{}{
		"count": len(pools),
		"pools": pools,
	}), nil
}
