/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package griddb

import "gridcad/internal/schematic"

// Transaction is a revertible mutation of the store. Apply captures whatever
// state it overwrites, so Revert restores the store exactly. A transaction
// must be applied before it can be reverted, and Apply/Revert must alternate.
type Transaction interface {
	Apply(s *Store)
	Revert(s *Store)
}

// ChangeComponent sets, replaces or deletes the component under ID. A nil
// New deletes; the previous value is captured during Apply.
type ChangeComponent struct {
	ID  ID
	New schematic.Component

	old schematic.Component
}

func (t *ChangeComponent) Apply(s *Store) {
	t.old, _ = s.RemoveComponent(t.ID)
	if t.New != nil {
		s.InsertComponent(t.ID, t.New.Clone())
	}
}

func (t *ChangeComponent) Revert(s *Store) {
	s.RemoveComponent(t.ID)
	if t.old != nil {
		s.InsertComponent(t.ID, t.old.Clone())
	}
}

// ChangeNet sets, replaces or deletes the net under ID. A nil New deletes;
// the previous value is captured during Apply.
type ChangeNet struct {
	ID  ID
	New *Net

	old *Net
}

func (t *ChangeNet) Apply(s *Store) {
	t.old, _ = s.RemoveNet(t.ID)
	if t.New != nil {
		s.InsertNet(t.ID, t.New.Clone())
	}
}

func (t *ChangeNet) Revert(s *Store) {
	s.RemoveNet(t.ID)
	if t.old != nil {
		s.InsertNet(t.ID, t.old.Clone())
	}
}

// Combined groups transactions into one atomic history entry. Apply runs them
// in order, Revert in reverse order.
type Combined struct {
	Parts []Transaction
}

func (t *Combined) Apply(s *Store) {
	for _, p := range t.Parts {
		p.Apply(s)
	}
}

func (t *Combined) Revert(s *Store) {
	for i := len(t.Parts) - 1; i >= 0; i-- {
		t.Parts[i].Revert(s)
	}
}

// History is the linear undo/redo stack. Doing a new transaction discards
// the redo branch; when the depth cap is exceeded the oldest entry falls off.
type History struct {
	applied  []Transaction
	reverted []Transaction
	maxDepth int
}

// NewHistory returns a history capped at maxDepth entries. A non-positive
// depth means unlimited.
func NewHistory(maxDepth int) *History {
	return &History{maxDepth: maxDepth}
}

// Do applies the transaction and records it as the newest undoable step.
func (h *History) Do(s *Store, t Transaction) {
	t.Apply(s)
	h.applied = append(h.applied, t)
	h.reverted = h.reverted[:0]
	if h.maxDepth > 0 && len(h.applied) > h.maxDepth {
		n := copy(h.applied, h.applied[len(h.applied)-h.maxDepth:])
		h.applied = h.applied[:n]
	}
}

// Undo reverts the newest applied transaction. Returns false when there is
// nothing to undo.
func (h *History) Undo(s *Store) bool {
	if len(h.applied) == 0 {
		return false
	}
	t := h.applied[len(h.applied)-1]
	h.applied = h.applied[:len(h.applied)-1]
	t.Revert(s)
	h.reverted = append(h.reverted, t)
	return true
}

// Redo re-applies the most recently undone transaction. Returns false when
// there is nothing to redo.
func (h *History) Redo(s *Store) bool {
	if len(h.reverted) == 0 {
		return false
	}
	t := h.reverted[len(h.reverted)-1]
	h.reverted = h.reverted[:len(h.reverted)-1]
	t.Apply(s)
	h.applied = append(h.applied, t)
	return true
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool { return len(h.applied) > 0 }

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool { return len(h.reverted) > 0 }

// Depth returns the number of undoable steps.
func (h *History) Depth() int { return len(h.applied) }

// Clear drops both stacks, for example after loading a document.
func (h *History) Clear() {
	h.applied = nil
	h.reverted = nil
}
