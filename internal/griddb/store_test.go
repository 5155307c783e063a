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

func notGate(pos geom.GridPos) *schematic.Primitive {
	return &schematic.Primitive{
		Type:     schematic.PrimitiveType{Kind: schematic.KindNot},
		Position: pos,
	}
}

func junction(pos geom.GridPos) *schematic.Primitive {
	return &schematic.Primitive{
		Type:     schematic.PrimitiveType{Kind: schematic.KindPoint},
		Position: pos,
	}
}

func TestStoreComponentRoundTrip(t *testing.T) {
	s := New()
	id := s.PushComponent(notGate(geom.P(10, 10)))
	if id != 0 {
		t.Fatalf("first id = %d", id)
	}
	if s.ComponentCount() != 1 {
		t.Fatalf("count = %d", s.ComponentCount())
	}
	c, ok := s.Component(id)
	if !ok || c.Pos() != geom.P(10, 10) {
		t.Fatalf("lookup failed: %v %v", c, ok)
	}

	removed, ok := s.RemoveComponent(id)
	if !ok || removed.Pos() != geom.P(10, 10) {
		t.Fatalf("remove failed")
	}
	if _, ok := s.RemoveComponent(id); ok {
		t.Fatalf("double remove should fail")
	}
	if len(s.ConnectionsAt(geom.P(9, 11))) != 0 {
		t.Fatalf("dock cells survived removal")
	}
	// ids are never reused
	if next := s.PushComponent(notGate(geom.P(30, 30))); next != 1 {
		t.Fatalf("reused id %d", next)
	}
}

func TestStoreInsertDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate id")
		}
	}()
	s := New()
	s.InsertComponent(5, notGate(geom.P(0, 0)))
	s.InsertComponent(5, notGate(geom.P(20, 20)))
}

func TestFreeCellClearance(t *testing.T) {
	s := New()
	s.PushComponent(notGate(geom.P(10, 10))) // occupies 10..12 x 10..12

	if s.IsFreeCell(geom.P(13, 13), false) {
		t.Fatalf("diagonal neighbor should be blocked")
	}
	if s.IsFreeCell(geom.P(13, 11), false) {
		t.Fatalf("adjacent cell should be blocked")
	}
	if !s.IsFreeCell(geom.P(14, 10), false) {
		t.Fatalf("cell two columns away should be free")
	}

	// overlap-only placement is blocked by containment only
	if !s.IsFreeCell(geom.P(13, 13), true) {
		t.Fatalf("junction beside footprint should be allowed")
	}
	if s.IsFreeCell(geom.P(11, 11), true) {
		t.Fatalf("junction inside footprint should be blocked")
	}
}

func TestFreeCellNearJunction(t *testing.T) {
	s := New()
	s.PushComponent(junction(geom.P(5, 5)))

	// a regular component may sit right next to a junction
	if !s.IsFreeCell(geom.P(6, 5), false) {
		t.Fatalf("cell beside junction should be free")
	}
	if s.IsFreeCell(geom.P(5, 5), false) {
		t.Fatalf("junction cell itself should be blocked")
	}
}

func TestAvailableCellIgnoresSelf(t *testing.T) {
	s := New()
	a := s.PushComponent(notGate(geom.P(0, 0)))
	s.PushComponent(notGate(geom.P(10, 0)))

	// own footprint never blocks a move
	if !s.IsAvailableCell(geom.P(1, 1), a) {
		t.Fatalf("own cell should be available")
	}
	if s.IsAvailableCell(geom.P(9, 0), a) {
		t.Fatalf("cell adjacent to neighbor should be blocked")
	}
	if !s.IsAvailableCell(geom.P(8, 0), a) {
		t.Fatalf("cell with one column of clearance should be available")
	}
	if !s.IsAvailableLocation(geom.P(0, 5), geom.Dim{W: 3, H: 3}, a) {
		t.Fatalf("clear location should be available")
	}
	if s.IsAvailableLocation(geom.P(7, 0), geom.Dim{W: 3, H: 3}, a) {
		t.Fatalf("location touching neighbor should be blocked")
	}
}

func TestHoverQueries(t *testing.T) {
	s := New()
	id := s.PushComponent(notGate(geom.P(10, 10)))

	got, ok := s.HoveredComponent(geom.P(11, 12))
	if !ok || got != id {
		t.Fatalf("hovered = %d, ok=%v", got, ok)
	}
	if _, ok := s.HoveredComponent(geom.P(14, 14)); ok {
		t.Fatalf("empty cell should not hover")
	}

	cps := s.ConnectionsAt(geom.P(9, 11))
	if len(cps) != 1 || cps[0] != (schematic.ConnectionPoint{Component: id, Connection: 0}) {
		t.Fatalf("connections at input dock = %v", cps)
	}

	// one cell off still finds the docked connection
	cp, ok := s.HoveredConnection(geom.P(10, 12))
	if !ok || cp != (schematic.ConnectionPoint{Component: id, Connection: 0}) {
		t.Fatalf("hovered connection = %v, ok=%v", cp, ok)
	}
	if _, ok := s.HoveredConnection(geom.P(20, 20)); ok {
		t.Fatalf("far cell should find nothing")
	}
}

func TestNetIndexing(t *testing.T) {
	s := New()
	a := s.PushComponent(notGate(geom.P(0, 4)))  // output dock (3,5)
	b := s.PushComponent(notGate(geom.P(10, 4))) // input dock (9,5)

	netID := s.AddNet(&Net{
		Start:  schematic.ConnectionPoint{Component: a, Connection: 1},
		End:    schematic.ConnectionPoint{Component: b, Connection: 0},
		Points: []geom.GridPos{geom.P(3, 5), geom.P(9, 5)},
	})
	if netID != 0 || s.NetCount() != 1 {
		t.Fatalf("net id = %d, count = %d", netID, s.NetCount())
	}

	if nets := s.ConnectedNets(a); len(nets) != 1 || nets[0] != netID {
		t.Fatalf("connected nets of a = %v", nets)
	}
	if nets := s.ConnectedNets(b); len(nets) != 1 || nets[0] != netID {
		t.Fatalf("connected nets of b = %v", nets)
	}

	seg, ok := s.HoveredSegment(geom.PointF{X: 6.0, Y: 5.6}, 0.3)
	if !ok || seg.NetID != netID || seg.Index != 0 {
		t.Fatalf("hovered segment = %+v, ok=%v", seg, ok)
	}
	if _, ok := s.HoveredSegment(geom.PointF{X: 6.0, Y: 7.5}, 0.3); ok {
		t.Fatalf("far point should miss")
	}

	segs := s.VisibleNetSegments(geom.GridRect{Min: geom.P(0, 0), Max: geom.P(20, 20)})
	if len(segs) != 1 {
		t.Fatalf("visible segments = %v", segs)
	}

	if _, ok := s.RemoveNet(netID); !ok {
		t.Fatalf("remove net failed")
	}
	if nets := s.ConnectedNets(a); len(nets) != 0 {
		t.Fatalf("net attachment survived removal: %v", nets)
	}
	if _, ok := s.HoveredSegment(geom.PointF{X: 6.0, Y: 5.5}, 0.3); ok {
		t.Fatalf("segment index survived removal")
	}
}

func TestRemoveComponentWithConnectedNets(t *testing.T) {
	s := New()
	a := s.PushComponent(notGate(geom.P(0, 4)))
	b := s.PushComponent(notGate(geom.P(10, 4)))
	c := s.PushComponent(notGate(geom.P(10, 12)))
	n1 := s.AddNet(&Net{
		Start:  schematic.ConnectionPoint{Component: a, Connection: 1},
		End:    schematic.ConnectionPoint{Component: b, Connection: 0},
		Points: []geom.GridPos{geom.P(3, 5), geom.P(9, 5)},
	})
	s.AddNet(&Net{
		Start:  schematic.ConnectionPoint{Component: a, Connection: 1},
		End:    schematic.ConnectionPoint{Component: c, Connection: 0},
		Points: []geom.GridPos{geom.P(3, 5), geom.P(3, 13), geom.P(9, 13)},
	})

	if !s.RemoveComponentWithConnectedNets(a) {
		t.Fatalf("remove failed")
	}
	if s.ComponentCount() != 2 || s.NetCount() != 0 {
		t.Fatalf("cascade left components=%d nets=%d", s.ComponentCount(), s.NetCount())
	}
	if _, ok := s.Net(n1); ok {
		t.Fatalf("net survived cascade")
	}
	if s.RemoveComponentWithConnectedNets(a) {
		t.Fatalf("second remove should fail")
	}
}

func TestVisibleComponentsAndBounds(t *testing.T) {
	s := New()
	if _, ok := s.Bounds(); ok {
		t.Fatalf("empty store has no bounds")
	}
	a := s.PushComponent(notGate(geom.P(0, 0)))
	b := s.PushComponent(notGate(geom.P(20, 20)))

	ids := s.VisibleComponents(geom.GridRect{Min: geom.P(0, 0), Max: geom.P(5, 5)})
	if len(ids) != 1 || ids[0] != a {
		t.Fatalf("visible = %v", ids)
	}
	ids = s.VisibleComponents(geom.GridRect{Min: geom.P(0, 0), Max: geom.P(30, 30)})
	if len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Fatalf("visible = %v", ids)
	}

	bounds, ok := s.Bounds()
	if !ok || bounds.Min != geom.P(0, 0) || bounds.Max != geom.P(22, 22) {
		t.Fatalf("bounds = %+v, ok=%v", bounds, ok)
	}
}

func TestNextIDCounters(t *testing.T) {
	s := New()
	s.InsertComponent(7, notGate(geom.P(0, 0)))
	comp, net := s.NextIDs()
	if comp != 8 || net != 0 {
		t.Fatalf("counters = %d %d", comp, net)
	}
	s.SetNextIDs(3, 5) // must not move the component counter backwards
	comp, net = s.NextIDs()
	if comp != 8 || net != 5 {
		t.Fatalf("counters after restore = %d %d", comp, net)
	}
}
