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

// Package server implements an MCP server that exposes the swarm
// orchestration core as tools.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hivegrid/orchestrator/pkg/swarm"
)

// Server wraps the MCP server and provides orchestration tools
type Server struct {
	mcpServer   *server.MCPServer
	service     *swarm.Service
	name        string
	version     string
	rates       swarm.EvaporationRates
	rateLimiter *RateLimiter
	logger      *slog.Logger
}

// ServerConfig configures the MCP server
type ServerConfig struct {
	// Name is the advertised server name (default: "orchestrator")
	Name string

	// Version is the orchestrator version
	Version string

	// Service is the orchestration service backing the tools (required)
	Service *swarm.Service

	// EvaporationRates are the default rates for evaporate_signals
	// when the caller supplies none
	EvaporationRates swarm.EvaporationRates

	// CallsPerMinute caps total tool calls (default: 120)
	CallsPerMinute int

	// Logger is used for structured logging. Log output must go to
	// stderr to avoid interfering with the MCP stdio protocol.
	Logger *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(config ServerConfig) (*Server, error) {
	if config.Service == nil {
		return nil, fmt.Errorf("server: Service is required")
	}
	if config.Name == "" {
		config.Name = "orchestrator"
	}
	if config.Version == "" {
		config.Version = "dev"
	}
	if config.CallsPerMinute <= 0 {
		config.CallsPerMinute = 120
	}
	if config.EvaporationRates.Default == 0 {
		config.EvaporationRates = swarm.DefaultEvaporationRates()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcpServer:   server.NewMCPServer(config.Name, config.Version),
		service:     config.Service,
		name:        config.Name,
		version:     config.Version,
		rates:       config.EvaporationRates,
		rateLimiter: NewRateLimiter(config.CallsPerMinute),
		logger:      logger,
	}

	s.registerAgentTools()
	s.registerTaskTools()
	s.registerPoolTools()
	s.registerSignalTools()
	s.registerHealthTool()
	s.registerMetricsTool()

	return s, nil
}

// Run starts the MCP server using stdio transport
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting orchestrator MCP server", slog.String("version", s.version))

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down orchestrator MCP server")
	// The mcp-go server doesn't have an explicit shutdown method
	// Returning from ServeStdio() is sufficient
	return nil
}

// allow applies the shared call rate limit; it returns a non-nil error
// response when the call should be rejected.
func (s *Server) allow() *mcp.CallToolResult {
	if !s.rateLimiter.AllowCall() {
		return errorResponse("Rate limit exceeded. Please try again later.")
	}
	return nil
}

// Helper function to create error response
func errorResponse(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}

// Helper function to create success response
func textResponse(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// jsonResponse marshals v as indented JSON into a text response
func jsonResponse(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResponse(fmt.Sprintf("Failed to encode result: %v", err))
	}
	return textResponse(string(data))
}
