/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package griddb

import (
	"testing"

	"gridcad/internal/geom"
	"gridcad/internal/schematic"
)

func TestChangeComponentCreateUndoRedo(t *testing.T) {
	s := New()
	h := NewHistory(16)

	h.Do(s, &ChangeComponent{ID: 0, New: notGate(geom.P(4, 4))})
	if s.ComponentCount() != 1 {
		t.Fatalf("create failed")
	}
	if !h.Undo(s) {
		t.Fatalf("undo refused")
	}
	if s.ComponentCount() != 0 {
		t.Fatalf("undo left component")
	}
	if len(s.ConnectionsAt(geom.P(3, 5))) != 0 {
		t.Fatalf("undo left dock cells")
	}
	if !h.Redo(s) {
		t.Fatalf("redo refused")
	}
	c, ok := s.Component(0)
	if !ok || c.Pos() != geom.P(4, 4) {
		t.Fatalf("redo restored %v, ok=%v", c, ok)
	}
	if h.Undo(s); h.Undo(s) {
		t.Fatalf("second undo should fail on empty stack")
	}
}

func TestChangeComponentReplaceCapturesOld(t *testing.T) {
	s := New()
	h := NewHistory(16)
	s.InsertComponent(3, notGate(geom.P(0, 0)))

	moved := notGate(geom.P(10, 10))
	h.Do(s, &ChangeComponent{ID: 3, New: moved})
	c, _ := s.Component(3)
	if c.Pos() != geom.P(10, 10) {
		t.Fatalf("replace failed: %v", c.Pos())
	}
	// the store holds its own copy
	moved.SetPos(geom.P(50, 50))
	c, _ = s.Component(3)
	if c.Pos() != geom.P(10, 10) {
		t.Fatalf("store aliases transaction state")
	}

	h.Undo(s)
	c, _ = s.Component(3)
	if c.Pos() != geom.P(0, 0) {
		t.Fatalf("undo restored %v", c.Pos())
	}
	if len(s.ConnectionsAt(geom.P(-1, 1))) != 1 {
		t.Fatalf("dock index not restored")
	}
}

func TestChangeComponentDelete(t *testing.T) {
	s := New()
	h := NewHistory(16)
	s.InsertComponent(1, notGate(geom.P(2, 2)))

	h.Do(s, &ChangeComponent{ID: 1, New: nil})
	if _, ok := s.Component(1); ok {
		t.Fatalf("delete failed")
	}
	h.Undo(s)
	if c, ok := s.Component(1); !ok || c.Pos() != geom.P(2, 2) {
		t.Fatalf("undo of delete failed")
	}
}

func TestChangeNetUndoRedo(t *testing.T) {
	s := New()
	h := NewHistory(16)
	a := s.PushComponent(notGate(geom.P(0, 4)))
	b := s.PushComponent(notGate(geom.P(10, 4)))

	n := &Net{
		Start:  schematic.ConnectionPoint{Component: a, Connection: 1},
		End:    schematic.ConnectionPoint{Component: b, Connection: 0},
		Points: []geom.GridPos{geom.P(3, 5), geom.P(9, 5)},
	}
	h.Do(s, &ChangeNet{ID: 0, New: n})
	if s.NetCount() != 1 || len(s.ConnectedNets(a)) != 1 {
		t.Fatalf("net apply failed")
	}
	h.Undo(s)
	if s.NetCount() != 0 || len(s.ConnectedNets(a)) != 0 {
		t.Fatalf("net undo failed")
	}
	h.Redo(s)
	if _, ok := s.HoveredSegment(geom.PointF{X: 6.0, Y: 5.5}, 0.3); !ok {
		t.Fatalf("net redo did not rebuild segment index")
	}
}

func TestCombinedRevertsInReverse(t *testing.T) {
	s := New()
	h := NewHistory(16)
	a := s.PushComponent(notGate(geom.P(0, 4)))
	b := s.PushComponent(notGate(geom.P(10, 4)))
	netID := s.AddNet(&Net{
		Start:  schematic.ConnectionPoint{Component: a, Connection: 1},
		End:    schematic.ConnectionPoint{Component: b, Connection: 0},
		Points: []geom.GridPos{geom.P(3, 5), geom.P(9, 5)},
	})

	// delete a component and its net as one history entry
	h.Do(s, &Combined{Parts: []Transaction{
		&ChangeNet{ID: netID, New: nil},
		&ChangeComponent{ID: a, New: nil},
	}})
	if s.ComponentCount() != 1 || s.NetCount() != 0 {
		t.Fatalf("combined apply left components=%d nets=%d", s.ComponentCount(), s.NetCount())
	}

	h.Undo(s)
	if s.ComponentCount() != 2 || s.NetCount() != 1 {
		t.Fatalf("combined undo left components=%d nets=%d", s.ComponentCount(), s.NetCount())
	}
	if nets := s.ConnectedNets(a); len(nets) != 1 || nets[0] != netID {
		t.Fatalf("attachment not restored: %v", nets)
	}
}

func TestHistoryDoClearsRedo(t *testing.T) {
	s := New()
	h := NewHistory(16)
	h.Do(s, &ChangeComponent{ID: 0, New: notGate(geom.P(0, 0))})
	h.Do(s, &ChangeComponent{ID: 1, New: notGate(geom.P(10, 0))})
	h.Undo(s)
	if !h.CanRedo() {
		t.Fatalf("redo should be available")
	}
	h.Do(s, &ChangeComponent{ID: 2, New: notGate(geom.P(20, 0))})
	if h.CanRedo() {
		t.Fatalf("new transaction must discard the redo branch")
	}
	if h.Redo(s) {
		t.Fatalf("redo should refuse")
	}
}

func TestHistoryDepthCap(t *testing.T) {
	s := New()
	h := NewHistory(2)
	h.Do(s, &ChangeComponent{ID: 0, New: notGate(geom.P(0, 0))})
	h.Do(s, &ChangeComponent{ID: 1, New: notGate(geom.P(10, 0))})
	h.Do(s, &ChangeComponent{ID: 2, New: notGate(geom.P(20, 0))})
	if h.Depth() != 2 {
		t.Fatalf("depth = %d", h.Depth())
	}
	if !h.Undo(s) || !h.Undo(s) {
		t.Fatalf("two undos should succeed")
	}
	if h.Undo(s) {
		t.Fatalf("oldest entry should have been dropped")
	}
	// the first component is beyond the horizon and stays put
	if _, ok := s.Component(0); !ok {
		t.Fatalf("component beyond undo horizon vanished")
	}
}

func TestHistoryClear(t *testing.T) {
	s := New()
	h := NewHistory(16)
	h.Do(s, &ChangeComponent{ID: 0, New: notGate(geom.P(0, 0))})
	h.Undo(s)
	h.Redo(s)
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Fatalf("clear left stacks")
	}
}
