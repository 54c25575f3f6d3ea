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
	"bytes"
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// registerMetricsTool registers the orchestrator_metrics tool. A stdio
// binary has no scrape endpoint, so the counters are surfaced through
// the tool interface instead.
func (s *Server) registerMetricsTool() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "orchestrator_metrics",
		Description: "Return the orchestrator's Prometheus counters in text exposition format.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleMetrics)
}

// handleMetrics implements the orchestrator_metrics tool
func (s *Server) handleMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if resp := s.allow(); resp != nil {
		return resp, nil
	}

	text, err := gatherMetrics()
	if err != nil {
		return errorResponse("Failed to gather metrics: " + err.Error()), nil
	}
	return textResponse(text), nil
}

// gatherMetrics renders the default registry's metric families.
func gatherMetrics() (string, error) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := enc.Encode(family); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
