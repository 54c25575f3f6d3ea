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

package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "validation with field",
			err:      &ValidationError{Field: "priority", Message: "must be 1-10"},
			contains: []string{"priority", "must be 1-10"},
		},
		{
			name:     "validation without field",
			err:      &ValidationError{Message: "bad payload"},
			contains: []string{"validation failed", "bad payload"},
		},
		{
			name:     "not found",
			err:      &NotFoundError{Resource: "agent", ID: "a1"},
			contains: []string{"agent", "a1", "not found"},
		},
		{
			name:     "already assigned",
			err:      &AlreadyAssignedError{TaskID: "t1", AgentID: "a1"},
			contains: []string{"t1", "a1", "already assigned"},
		},
		{
			name:     "agent unavailable",
			err:      &AgentUnavailableError{AgentID: "a1", Status: "busy"},
			contains: []string{"a1", "busy", "not available"},
		},
		{
			name:     "capability mismatch",
			err:      &CapabilityMismatchError{TaskID: "t1", AgentID: "a1", Missing: []string{"go", "docker"}},
			contains: []string{"t1", "a1", "go, docker"},
		},
		{
			name:     "pool reference",
			err:      &PoolReferenceError{PoolID: "p1", AgentID: "ghost"},
			contains: []string{"p1", "ghost", "unregistered"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("error %q does not contain %q", msg, want)
				}
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	base := &NotFoundError{Resource: "task", ID: "t1"}
	wrapped := Wrap(base, "allocating")
	if wrapped == nil {
		t.Fatal("Wrap returned nil for non-nil error")
	}

	var notFound *NotFoundError
	if !As(wrapped, &notFound) {
		t.Error("wrapped error should unwrap to NotFoundError")
	}
	if notFound.ID != "t1" {
		t.Errorf("unwrapped ID = %q, want t1", notFound.ID)
	}
}

func TestWrapf(t *testing.T) {
	if Wrapf(nil, "context %s", "x") != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	err := Wrapf(errors.New("boom"), "running pass %d", 3)
	if !strings.Contains(err.Error(), "running pass 3") {
		t.Errorf("Wrapf message = %q", err.Error())
	}
}
