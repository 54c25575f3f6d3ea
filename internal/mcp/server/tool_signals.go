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

// registerSignalTools registers the pheromone signal tools
func (s *Server) registerSignalTools() {
	// Tool: emit_signal
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "emit_signal",
		Description: "Emit a pheromone signal. If the target matches a task id, the signal is also attached to that task.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Signal type (e.g., 'task_assigned', 'critical_bug_in_feature_x')",
				},
				"target": map[string]interface{}{
					"type":        "string",
					"description": "Signal target, usually a task id (optional)",
				},
				"strength": map[string]interface{}{
					"type":        "number",
					"description": "Initial non-negative strength",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "One of: state, need, problem, priority, dependency, anticipatory",
				},
				"message": map[string]interface{}{
					"type":        "string",
					"description": "Human-readable signal message (optional)",
				},
				"data": map[string]interface{}{
					"type":        "object",
					"description": "Arbitrary extra metadata (optional)",
				},
			},
			Required: []string{"type", "strength", "category"},
		},
	}, s.handleEmitSignal)

	// Tool: get_signals
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_signals",
		Description: "List signals filtered by type, category, or target. Exactly one filter must be provided.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Filter by signal type",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Filter by signal category",
				},
				"target": map[string]interface{}{
					"type":        "string",
					"description": "Filter by signal target",
				},
			},
		},
	}, s.handleGetSignals)

	// Tool: update_signal_strength
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "update_signal_strength",
		Description: "Apply a delta to a signal's strength, floored at zero. The task's denormalized copy stays in sync.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"signal_id": map[string]interface{}{
					"type":        "string",
					"description": "Signal to update",
				},
				"delta": map[string]interface{}{
					"type":        "number",
					"description": "Signed strength change",
				},
			},
			Required: []string{"signal_id", "delta"},
		},
	}, s.handleUpdateSignalStrength)

	// Tool: evaporate_signals
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "evaporate_signals",
		Description: "Run one pheromone evaporation sweep. Signals decaying below 0.05 are pruned. Callers own the cadence; nothing runs on a timer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"rates": map[string]interface{}{
					"type":        "object",
					"description": "Per-category evaporation rates, e.g. {\"state\": 0.1}. Unlisted categories use the configured default.",
				},
			},
		},
	}, s.handleEvaporateSignals)
}

// handleEmitSignal implements the emit_signal tool
func (s *Server) handleEmitSignal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	sigType, err := request.RequireString("type")
	if err != nil {
		return errorResponse("Missing or invalid 'type' argument"), nil
	}
	rawCategory, err := request.RequireString("category")
	if err != nil {
		return errorResponse("Missing or invalid 'category' argument"), nil
	}
	category, err := decodeCategory(rawCategory)
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	args := request.GetArguments()
	if _, ok := args["strength"]; !ok {
		return errorResponse("Missing 'strength' argument"), nil
	}
	strength, err := optFloat(args, "strength")
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	if strength < 0 {
		return errorResponse("'strength' must be non-negative"), nil
	}
	data, err := optMap(args, "data")
	if err != nil {
		return errorResponse(err.Error()), nil
	}

	signal := s.service.Registry().CreateSignal(swarm.Signal{
		Type:     sigType,
		Target:   optString(args, "target"),
		Strength: strength,
		Category: category,
		Message:  optString(args, "message"),
		Data:     data,
	})
	return jsonResponse(signal), nil
}

// handleGetSignals implements the get_signals tool
func (s *Server) handleGetSignals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	sigType := request.GetString("type", "")
	rawCategory := request.GetString("category", "")
	target := request.GetString("target", "")

	filters := 0
	for _, f := range []string{sigType, rawCategory, target} {
		if f != "" {
			filters++
		}
	}
	if filters != 1 {
		return errorResponse("Provide exactly one of 'type', 'category', or 'target'"), nil
	}

	var signals []*swarm.Signal
	switch {
	case sigType != "":
		signals = s.service.Registry().SignalsByType(sigType)
	case rawCategory != "":
		category, err := decodeCategory(rawCategory)
		if err != nil {
			return errorResponse(err.Error()), nil
		}
		signals = s.service.Registry().SignalsByCategory(category)
	default:
		signals = s.service.Registry().SignalsByTarget(target)
	}

	return jsonResponse(map[string]interface{}{
		"count":   len(signals),
		"signals": signals,
	}), nil
}

// handleUpdateSignalStrength implements the update_signal_strength tool
func (s *Server) handleUpdateSignalStrength(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	signalID, err := request.RequireString("signal_id")
	if err != nil {
		return errorResponse("Missing or invalid 'signal_id' argument"), nil
	}
	args := request.GetArguments()
	if _, ok := args["delta"]; !ok {
		return errorResponse("Missing 'delta' argument"), nil
	}
	delta, err := optFloat(args, "delta")
	if err != nil {
		return errorResponse(err.Error()), nil
	}

	signal, err := s.service.Registry().UpdateSignalStrength(signalID, delta)
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	return jsonResponse(signal), nil
}

// handleEvaporateSignals implements the evaporate_signals tool
func (s *Server) handleEvaporateSignals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	rates := s.rates
	raw, err := optMap(request.GetArguments(), "rates")
	if err != nil {
		return errorResponse(err.Error()), nil
	}
	if len(raw) > 0 {
		rates.ByCategory = make(map[swarm.SignalCategory]float64, len(raw))
		for key, value := range raw {
			category, err := decodeCategory(key)
			if err != nil {
				return errorResponse(err.Error()), nil
			}
			rate, ok := value.(float64)
			if !ok || rate < 0 || rate >= 1 {
				return errorResponse("Rates must be numbers in [0, 1)"), nil
			}
			rates.ByCategory[category] = rate
		}
	}

	result := s.service.Registry().ApplyEvaporation(rates)
	return jsonResponse(result), nil
}
