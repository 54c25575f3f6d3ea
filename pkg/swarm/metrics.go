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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// tasksCreated tracks total tasks created
	tasksCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orchestrator_tasks_created_total",
			Help: "Total tasks created in the registry",
		},
	)

	// assignmentsTotal tracks successful task assignments
	assignmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orchestrator_assignments_total",
			Help: "Total successful task assignments",
		},
	)

	// allocationSkipped tracks tasks skipped during auto-allocation
	allocationSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_allocation_skipped_total",
			Help: "Total allocation skips by reason",
		},
		[]string{"reason"},
	)

	// signalsEmitted tracks signal emissions by category
	signalsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_signals_emitted_total",
			Help: "Total pheromone signals emitted by category",
		},
		[]string{"category"},
	)

	// signalsPruned tracks signals removed by evaporation by category
	signalsPruned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_signals_pruned_total",
			Help: "Total pheromone signals pruned below the strength floor by category",
		},
		[]string{"category"},
	)
)

// recordTaskCreated increments the task creation counter
func recordTaskCreated() {
	tasksCreated.Inc()
}

// recordAssignment increments the assignment counter
func recordAssignment() {
	assignmentsTotal.Inc()
}

// recordAllocationSkipped increments the skip counter for a reason
func recordAllocationSkipped(reason string) {
	allocationSkipped.WithLabelValues(reason).Inc()
}

// recordSignalEmitted increments the emission counter for a category
func recordSignalEmitted(category SignalCategory) {
	signalsEmitted.WithLabelValues(string(category)).Inc()
}

// recordSignalPruned increments the prune counter for a category
func recordSignalPruned(category SignalCategory) {
	signalsPruned.WithLabelValues(string(category)).Inc()
}
