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

// Package swarm implements the task orchestration core: an in-memory
// registry of agents, tasks, pools, and pheromone signals, and the
// capability-based allocation service that schedules pending tasks onto
// available agents.
//
// Registry owns all mutable state and enforces the entity-local
// invariants (capability containment on assignment, no reassignment,
// reputation clamping, signal strength decay and pruning). Service
// layers the assignment policy on top and only ever mutates state
// through the registry's public methods. Both are safe for concurrent
// use; the registry serializes every operation behind one mutex, and no
// operation performs I/O or blocks.
//
// Signal strengths decay via ApplyEvaporation, a caller-driven sweep in
// the ant-colony style: each category decays at its configured rate and
// signals falling below PruneThreshold disappear from the registry and
// from the denormalized copy on their target task. Nothing here runs on
// an internal timer; the embedding process owns the cadence.
package swarm
