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
)

// HealthResult summarizes registry state for diagnostics
type HealthResult struct {
	Server      string `json:"server"`
	Version     string `json:"version"`
	Agents      int    `json:"agents"`
	Tasks       int    `json:"tasks"`
	Pools       int    `json:"pools"`
	Signals     int    `json:"signals"`
	Assignments int    `json:"assignments"`
}

// registerHealthTool registers the orchestrator_health tool
func (s *Server) registerHealthTool() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "orchestrator_health",
		Description: "Report registry table sizes and server version for diagnostics.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleHealth)
}

// handleHealth implements the orchestrator_health tool
func (s *Server) handleHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	agents, tasks, pools, signals, assignments := s.service.Registry().Counts()
	return jsonResponse(HealthResult{
		Server:      s.name,
		Version:     s.version,
		Agents:      agents,
		Tasks:       tasks,
		Pools:       pools,
		Signals:     signals,
		Assignments: assignments,
	}), nil
}
