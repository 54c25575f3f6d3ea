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
	"fmt"

	orcherrors "github.com/hivegrid/orchestrator/pkg/errors"
	"github.com/hivegrid/orchestrator/pkg/swarm"
)

// The MCP transport delivers a loosely-typed argument bag. Everything
// here converts that bag into the typed entities the registry expects,
// so dynamic payloads never travel past the transport boundary.

// optString returns args[key] as a string, tolerating absence.
func optString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// optInt returns args[key] as an int, tolerating absence. JSON numbers
// arrive as float64.
func optInt(args map[string]any, key string) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, &orcherrors.ValidationError{
			Field:   key,
			Message: fmt.Sprintf("expected a number, got %T", v),
		}
	}
	return int(f), nil
}

// optFloat returns args[key] as a float64, tolerating absence.
func optFloat(args map[string]any, key string) (float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, &orcherrors.ValidationError{
			Field:   key,
			Message: fmt.Sprintf("expected a number, got %T", v),
		}
	}
	return f, nil
}

// optStringSlice returns args[key] as a []string, tolerating absence.
func optStringSlice(args map[string]any, key string) ([]string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, &orcherrors.ValidationError{
			Field:   key,
			Message: fmt.Sprintf("expected an array of strings, got %T", v),
		}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, &orcherrors.ValidationError{
				Field:   key,
				Message: fmt.Sprintf("expected string elements, got %T", item),
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// optMap returns args[key] as a map, tolerating absence.
func optMap(args map[string]any, key string) (map[string]any, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &orcherrors.ValidationError{
			Field:   key,
			Message: fmt.Sprintf("expected an object, got %T", v),
		}
	}
	return m, nil
}

// decodeAgentStatus validates a status argument.
func decodeAgentStatus(value string) (swarm.AgentStatus, error) {
	status := swarm.AgentStatus(value)
	if !status.Valid() {
		return "", &orcherrors.ValidationError{
			Field:      "status",
			Message:    fmt.Sprintf("unknown agent status %q", value),
			Suggestion: "use one of: available, busy, offline",
		}
	}
	return status, nil
}

// decodeTaskStatus validates a status argument.
func decodeTaskStatus(value string) (swarm.TaskStatus, error) {
	status := swarm.TaskStatus(value)
	if !status.Valid() {
		return "", &orcherrors.ValidationError{
			Field:      "status",
			Message:    fmt.Sprintf("unknown task status %q", value),
			Suggestion: "use one of: pending, in_progress, completed, failed",
		}
	}
	return status, nil
}

// decodeCategory validates a signal category argument.
func decodeCategory(value string) (swarm.SignalCategory, error) {
	category := swarm.SignalCategory(value)
	if !category.Valid() {
		return "", &orcherrors.ValidationError{
			Field:      "category",
			Message:    fmt.Sprintf("unknown signal category %q", value),
			Suggestion: "use one of: state, need, problem, priority, dependency, anticipatory",
		}
	}
	return category, nil
}

// decodeDesire converts a desire object argument.
func decodeDesire(m map[string]any) (swarm.Desire, error) {
	id := optString(m, "id")
	if id == "" {
		return swarm.Desire{}, &orcherrors.ValidationError{Field: "desire.id", Message: "required"}
	}
	priority, err := optInt(m, "priority")
	if err != nil {
		return swarm.Desire{}, err
	}
	return swarm.Desire{
		ID:          id,
		Priority:    priority,
		Description: optString(m, "description"),
	}, nil
}

// decodeIntention converts an intention object argument.
func decodeIntention(m map[string]any) (swarm.Intention, error) {
	id := optString(m, "id")
	if id == "" {
		return swarm.Intention{}, &orcherrors.ValidationError{Field: "intention.id", Message: "required"}
	}
	status := swarm.IntentionStatus(optString(m, "status"))
	if status == "" {
		status = swarm.IntentionPlanned
	}
	return swarm.Intention{
		ID:       id,
		DesireID: optString(m, "desire_id"),
		Action:   optString(m, "action"),
		Status:   status,
	}, nil
}
