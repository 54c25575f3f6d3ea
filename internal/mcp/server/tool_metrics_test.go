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
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hivegrid/orchestrator/pkg/swarm"
)

func TestGatherMetrics(t *testing.T) {
	svc := newTestService()
	svc.CreateTask(swarm.Task{ID: "m1", Title: "metrics task", Priority: 1})

	text, err := gatherMetrics()
	if err != nil {
		t.Fatalf("gatherMetrics error: %v", err)
	}
	if !strings.Contains(text, "orchestrator_tasks_created_total") {
		t.Errorf("exposition missing task counter:\n%s", text)
	}
}

func TestHandleMetrics(t *testing.T) {
	srv, err := NewServer(ServerConfig{Service: newTestService()})
	if err != nil {
		t.Fatalf("NewServer returned error: %v", err)
	}

	res, err := srv.handleMetrics(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if res.IsError {
		t.Fatalf("orchestrator_metrics failed: %+v", res.Content)
	}

	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	if !strings.Contains(text.Text, "# TYPE") {
		t.Errorf("result is not text exposition format:\n%s", text.Text)
	}
}
