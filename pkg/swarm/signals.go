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
	"log/slog"

	orcherrors "github.com/hivegrid/orchestrator/pkg/errors"
)

// PruneThreshold is the strength floor below which a signal is removed
// from the signal table and from its owning task's denormalized list.
const PruneThreshold = 0.05

// DefaultEvaporationRate is applied to categories without an explicit
// rate in EvaporationRates.
const DefaultEvaporationRate = 0.05

// EvaporationRates configures one evaporation sweep. Categories absent
// from ByCategory fall back to Default.
type EvaporationRates struct {
	Default    float64
	ByCategory map[SignalCategory]float64
}

// DefaultEvaporationRates returns the standard sweep configuration.
func DefaultEvaporationRates() EvaporationRates {
	return EvaporationRates{Default: DefaultEvaporationRate}
}

func (e EvaporationRates) rateFor(category SignalCategory) float64 {
	if rate, ok := e.ByCategory[category]; ok {
		return rate
	}
	return e.Default
}

// EvaporationResult summarizes one sweep.
type EvaporationResult struct {
	// Evaporated counts signals whose strength was reduced and kept.
	Evaporated int `json:"evaporated"`
	// Pruned counts signals removed for falling below the threshold.
	Pruned int `json:"pruned"`
}

// CreateSignal stores a signal, generating its id and timestamp. When
// the signal's target matches a known task id, a copy is appended to
// that task's denormalized signal list.
func (r *Registry) CreateSignal(sig Signal) *Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createSignalLocked(sig).clone()
}

// createSignalLocked requires r.mu to be held.
func (r *Registry) createSignalLocked(sig Signal) *Signal {
	sig.ID = newSignalID()
	sig.Timestamp = r.now()

	stored := sig.clone()
	r.signals[sig.ID] = stored
	r.signalIDs = append(r.signalIDs, sig.ID)

	if task, ok := r.tasks[sig.Target]; ok {
		task.Signals = append(task.Signals, *stored.clone())
	}

	recordSignalEmitted(sig.Category)
	r.logger.Debug("signal emitted",
		slog.String("signal_id", sig.ID),
		slog.String("type", sig.Type),
		slog.String("category", string(sig.Category)),
		slog.Float64("strength", sig.Strength))
	return stored
}

// GetSignal returns a copy of the signal, or NotFoundError.
func (r *Registry) GetSignal(signalID string) (*Signal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getSignalLocked(signalID)
}

// SignalsByType returns signals whose type equals sigType, in emission order.
func (r *Registry) SignalsByType(sigType string) []*Signal {
	return r.filterSignals(func(s *Signal) bool { return s.Type == sigType })
}

// SignalsByCategory returns signals in the given category, in emission order.
func (r *Registry) SignalsByCategory(category SignalCategory) []*Signal {
	return r.filterSignals(func(s *Signal) bool { return s.Category == category })
}

// SignalsByTarget returns signals referencing target, in emission order.
func (r *Registry) SignalsByTarget(target string) []*Signal {
	return r.filterSignals(func(s *Signal) bool { return s.Target == target })
}

func (r *Registry) filterSignals(keep func(*Signal) bool) []*Signal {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Signal
	for _, id := range r.signalIDs {
		if sig := r.signals[id]; keep(sig) {
			out = append(out, sig.clone())
		}
	}
	return out
}

// UpdateSignalStrength applies delta to a signal's strength, floored at
// zero, and refreshes the denormalized copy in the owning task.
func (r *Registry) UpdateSignalStrength(signalID string, delta float64) (*Signal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.signals[signalID]
	if !ok {
		return nil, &orcherrors.NotFoundError{Resource: "signal", ID: signalID}
	}
	strength := stored.Strength + delta
	if strength < 0 {
		strength = 0
	}
	r.setSignalStrengthLocked(stored, strength)
	return stored.clone(), nil
}

// ApplyEvaporation runs one decay sweep over every signal. Each signal's
// strength is multiplied by (1 - rate) for its category's rate; signals
// that would fall below PruneThreshold are deleted from the table and
// from their owning task's list instead. The caller owns the cadence;
// the registry never runs this on a timer.
func (r *Registry) ApplyEvaporation(rates EvaporationRates) EvaporationResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result EvaporationResult
	// Iterate a snapshot of ids since pruning mutates the table.
	ids := append([]string(nil), r.signalIDs...)
	for _, id := range ids {
		sig, ok := r.signals[id]
		if !ok {
			continue
		}
		rate := rates.rateFor(sig.Category)
		newStrength := sig.Strength * (1 - rate)
		if newStrength < PruneThreshold {
			r.pruneSignalLocked(sig)
			result.Pruned++
			continue
		}
		r.setSignalStrengthLocked(sig, newStrength)
		result.Evaporated++
	}

	if result.Pruned > 0 || result.Evaporated > 0 {
		r.logger.Debug("evaporation sweep complete",
			slog.Int("evaporated", result.Evaporated),
			slog.Int("pruned", result.Pruned))
	}
	return result
}

func (r *Registry) getSignalLocked(signalID string) (*Signal, error) {
	sig, ok := r.signals[signalID]
	if !ok {
		return nil, &orcherrors.NotFoundError{Resource: "signal", ID: signalID}
	}
	return sig.clone(), nil
}

// setSignalStrengthLocked updates a stored signal's strength and keeps
// the owning task's denormalized copy in sync. Requires r.mu held.
func (r *Registry) setSignalStrengthLocked(sig *Signal, strength float64) {
	sig.Strength = strength
	if task, ok := r.tasks[sig.Target]; ok {
		for i := range task.Signals {
			if task.Signals[i].ID == sig.ID {
				task.Signals[i].Strength = strength
				break
			}
		}
	}
}

// pruneSignalLocked removes a signal from the global table, the emission
// order index, and the owning task's list. Requires r.mu held.
func (r *Registry) pruneSignalLocked(sig *Signal) {
	delete(r.signals, sig.ID)
	for i, id := range r.signalIDs {
		if id == sig.ID {
			r.signalIDs = append(r.signalIDs[:i], r.signalIDs[i+1:]...)
			break
		}
	}
	if task, ok := r.tasks[sig.Target]; ok {
		for i := range task.Signals {
			if task.Signals[i].ID == sig.ID {
				task.Signals = append(task.Signals[:i], task.Signals[i+1:]...)
				break
			}
		}
	}
	recordSignalPruned(sig.Category)
}
