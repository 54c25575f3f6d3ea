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
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestHandleEmitSignal_RequiresStrength(t *testing.T) {
	srv, err := NewServer(ServerConfig{Service: newTestService()})
	if err != nil {
		t.Fatalf("NewServer returned error: %v", err)
	}

	res, err := srv.handleEmitSignal(context.Background(), callRequest(map[string]any{
		"type":     "blocked",
		"category": "problem",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !res.IsError {
		t.Error("emit_signal without strength should be rejected")
	}

	// A zero-strength signal must be explicit, not a decoding accident.
	if len(srv.service.Registry().SignalsByType("blocked")) != 0 {
		t.Error("rejected signal should not be stored")
	}

	res, err = srv.handleEmitSignal(context.Background(), callRequest(map[string]any{
		"type":     "blocked",
		"category": "problem",
		"strength": 2.5,
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if res.IsError {
		t.Fatalf("valid emit_signal rejected: %+v", res.Content)
	}

	signals := srv.service.Registry().SignalsByType("blocked")
	if len(signals) != 1 || signals[0].Strength != 2.5 {
		t.Errorf("stored signals = %+v, want one with strength 2.5", signals)
	}
}
