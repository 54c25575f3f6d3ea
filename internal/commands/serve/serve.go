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

// Package serve implements the serve command, which runs the MCP server.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hivegrid/orchestrator/internal/config"
	"github.com/hivegrid/orchestrator/internal/log"
	"github.com/hivegrid/orchestrator/internal/mcp/server"
	orcherrors "github.com/hivegrid/orchestrator/pkg/errors"
	"github.com/hivegrid/orchestrator/pkg/swarm"
)

// NewCommand creates the serve command
func NewCommand(version string) *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the orchestrator MCP server",
		Long: `Start the swarm orchestrator MCP (Model Context Protocol) server.

The server runs in stdio mode and exposes the task orchestration core as
tools: agent registration, task creation, capability-based assignment,
auto-allocation, agent pools, and pheromone signals with evaporation.

Configuration example for an MCP client:
  {
    "mcpServers": {
      "orchestrator": {
        "command": "orchestrator",
        "args": ["serve"]
      }
    }
  }

All registry state is in-memory and scoped to the process lifetime;
restarting the server starts from an empty registry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, logLevel, version)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to orchestrator.yaml (optional)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Logging verbosity (debug, info, warn, error); overrides config and env")

	return cmd
}

func runServe(configPath, logLevel, version string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return orcherrors.Wrap(err, "loading config")
	}

	logCfg := log.FromEnv()
	if cfg.Log.Level != "" {
		logCfg.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		logCfg.Format = log.Format(cfg.Log.Format)
	}
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	logger := log.New(logCfg)

	registry := swarm.NewRegistry(swarm.RegistryConfig{
		Logger: log.WithComponent(logger, "registry"),
	})
	service := swarm.NewService(swarm.ServiceConfig{
		Registry: registry,
		Logger:   log.WithComponent(logger, "orchestrator"),
	})

	srv, err := server.NewServer(server.ServerConfig{
		Name:             cfg.Server.Name,
		Version:          version,
		Service:          service,
		EvaporationRates: cfg.EvaporationRates(),
		CallsPerMinute:   cfg.Server.CallsPerMinute,
		Logger:           log.WithComponent(logger, "mcp"),
	})
	if err != nil {
		return orcherrors.Wrap(err, "creating MCP server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived shutdown signal, shutting down gracefully...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}

		cancel()
	}()

	// Blocks until stdin closes or a shutdown signal arrives
	return srv.Run(ctx)
}
