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

package swarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSignal(t *testing.T) {
	r := newTestRegistry(t)
	r.CreateTask(Task{ID: "t1", Title: "work"})

	sig := r.CreateSignal(Signal{
		Type:     "critical_bug_in_feature_x",
		Target:   "t1",
		Strength: 8.0,
		Category: CategoryProblem,
		Message:  "auth flow broken",
		Data:     map[string]any{"component": "auth"},
	})

	assert.NotEmpty(t, sig.ID)
	assert.False(t, sig.Timestamp.IsZero())

	// Denormalized onto the target task.
	task, err := r.GetTask("t1")
	require.NoError(t, err)
	require.Len(t, task.Signals, 1)
	assert.Equal(t, sig.ID, task.Signals[0].ID)

	// A target that is not a task id is stored globally only.
	orphan := r.CreateSignal(Signal{Type: "need_review", Target: "feature-x", Strength: 2.0, Category: CategoryNeed})
	assert.NotEmpty(t, orphan.ID)
	task, err = r.GetTask("t1")
	require.NoError(t, err)
	assert.Len(t, task.Signals, 1)
}

func TestSignalFilters(t *testing.T) {
	r := newTestRegistry(t)
	r.CreateSignal(Signal{Type: "task_assigned", Target: "t1", Strength: 5, Category: CategoryState})
	r.CreateSignal(Signal{Type: "blocked", Target: "t1", Strength: 3, Category: CategoryProblem})
	r.CreateSignal(Signal{Type: "blocked", Target: "t2", Strength: 1, Category: CategoryProblem})

	assert.Len(t, r.SignalsByType("blocked"), 2)
	assert.Len(t, r.SignalsByType("task_assigned"), 1)
	assert.Len(t, r.SignalsByCategory(CategoryProblem), 2)
	assert.Len(t, r.SignalsByTarget("t1"), 2)
	assert.Empty(t, r.SignalsByTarget("t3"))
}

func TestUpdateSignalStrength(t *testing.T) {
	r := newTestRegistry(t)
	r.CreateTask(Task{ID: "t1", Title: "work"})
	sig := r.CreateSignal(Signal{Type: "blocked", Target: "t1", Strength: 3.0, Category: CategoryProblem})

	updated, err := r.UpdateSignalStrength(sig.ID, 2.5)
	require.NoError(t, err)
	assert.InDelta(t, 5.5, updated.Strength, 1e-9)

	// Floored at zero, never negative.
	updated, err = r.UpdateSignalStrength(sig.ID, -100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.Strength)

	// The task's denormalized copy tracks the strength.
	task, err := r.GetTask("t1")
	require.NoError(t, err)
	require.Len(t, task.Signals, 1)
	assert.Equal(t, 0.0, task.Signals[0].Strength)

	_, err = r.UpdateSignalStrength("missing", 1)
	assert.Error(t, err)
}

func TestApplyEvaporation(t *testing.T) {
	t.Run("default rate decays proportionally", func(t *testing.T) {
		r := newTestRegistry(t)
		sig := r.CreateSignal(Signal{Type: "blocked", Strength: 10.0, Category: CategoryProblem})

		result := r.ApplyEvaporation(DefaultEvaporationRates())
		assert.Equal(t, 1, result.Evaporated)
		assert.Equal(t, 0, result.Pruned)

		got, err := r.GetSignal(sig.ID)
		require.NoError(t, err)
		assert.InDelta(t, 9.5, got.Strength, 1e-9)
	})

	t.Run("per-category rate overrides default", func(t *testing.T) {
		r := newTestRegistry(t)
		fast := r.CreateSignal(Signal{Type: "hint", Strength: 10.0, Category: CategoryAnticipatory})
		slow := r.CreateSignal(Signal{Type: "blocked", Strength: 10.0, Category: CategoryProblem})

		r.ApplyEvaporation(EvaporationRates{
			Default:    0.05,
			ByCategory: map[SignalCategory]float64{CategoryAnticipatory: 0.5},
		})

		gotFast, err := r.GetSignal(fast.ID)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, gotFast.Strength, 1e-9)

		gotSlow, err := r.GetSignal(slow.ID)
		require.NoError(t, err)
		assert.InDelta(t, 9.5, gotSlow.Strength, 1e-9)
	})

	t.Run("boundary: strength 1.0 at rate 0.95 survives once, pruned twice", func(t *testing.T) {
		r := newTestRegistry(t)
		r.CreateTask(Task{ID: "t1", Title: "work"})
		sig := r.CreateSignal(Signal{Type: "fading", Target: "t1", Strength: 1.0, Category: CategoryState})

		rates := EvaporationRates{Default: 0.95}

		result := r.ApplyEvaporation(rates)
		assert.Equal(t, 1, result.Evaporated)
		assert.Equal(t, 0, result.Pruned)
		got, err := r.GetSignal(sig.ID)
		require.NoError(t, err)
		assert.InDelta(t, 0.05, got.Strength, 1e-9)

		result = r.ApplyEvaporation(rates)
		assert.Equal(t, 0, result.Evaporated)
		assert.Equal(t, 1, result.Pruned)

		// Gone from the table and from the owning task's list.
		_, err = r.GetSignal(sig.ID)
		assert.Error(t, err)
		task, err := r.GetTask("t1")
		require.NoError(t, err)
		assert.Empty(t, task.Signals)
	})

	t.Run("sweep is caller-driven and idempotent when empty", func(t *testing.T) {
		r := newTestRegistry(t)
		result := r.ApplyEvaporation(DefaultEvaporationRates())
		assert.Zero(t, result.Evaporated)
		assert.Zero(t, result.Pruned)
	})
}
