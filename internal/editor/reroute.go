/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"fmt"
	"log/slog"

	"gridcad/internal/geom"
	"gridcad/internal/griddb"
	"gridcad/internal/schematic"
)

// RotateDirection selects between the two quarter-turn rotations.
type RotateDirection int

const (
	RotateUp RotateDirection = iota
	RotateDown
)

// rebuildNet recomputes a net's waypoints after its dock cells moved by the
// given per-end deltas. Equal deltas translate the whole net; otherwise each
// end is rebuilt locally, absorbing the delta into a spare interior bend when
// the path has one and inserting a new bend when it does not. Returns nil
// when both deltas are zero.
func rebuildNet(n *griddb.Net, startDelta, endDelta geom.GridPos) *griddb.Net {
	zero := geom.GridPos{}
	if startDelta == zero && endDelta == zero {
		return nil
	}
	pts := append([]geom.GridPos(nil), n.Points...)
	if len(pts) >= 2 {
		if startDelta == endDelta {
			for i := range pts {
				pts[i] = pts[i].Add(startDelta)
			}
		} else {
			if startDelta != zero {
				pts = shiftPathStart(pts, startDelta)
			}
			if endDelta != zero {
				pts = shiftPathEnd(pts, endDelta)
			}
		}
	}
	return &griddb.Net{Start: n.Start, End: n.End, Points: griddb.SimplifyPath(pts)}
}

func shiftPathStart(pts []geom.GridPos, d geom.GridPos) []geom.GridPos {
	if pts[0].Y == pts[1].Y {
		// horizontal terminal segment
		if len(pts) >= 4 {
			pts[0] = pts[0].Add(d)
			pts[1] = pts[1].Add(d)
			pts[2] = pts[2].Add(geom.P(d.X, 0))
		} else {
			pts[0].X += d.X
			if d.Y != 0 {
				pts = append([]geom.GridPos{pts[0].Add(geom.P(0, d.Y))}, pts...)
			}
		}
	} else {
		if len(pts) >= 4 {
			pts[0] = pts[0].Add(d)
			pts[1] = pts[1].Add(d)
			pts[2] = pts[2].Add(geom.P(0, d.Y))
		} else {
			pts[0].Y += d.Y
			if d.X != 0 {
				pts = append([]geom.GridPos{pts[0].Add(geom.P(d.X, 0))}, pts...)
			}
		}
	}
	return pts
}

func shiftPathEnd(pts []geom.GridPos, d geom.GridPos) []geom.GridPos {
	n := len(pts)
	if pts[n-1].Y == pts[n-2].Y {
		if n >= 4 {
			pts[n-1] = pts[n-1].Add(d)
			pts[n-2] = pts[n-2].Add(d)
			pts[n-3] = pts[n-3].Add(geom.P(d.X, 0))
		} else {
			pts[n-1].X += d.X
			if d.Y != 0 {
				pts = append(pts, pts[n-1].Add(geom.P(0, d.Y)))
			}
		}
	} else {
		if n >= 4 {
			pts[n-1] = pts[n-1].Add(d)
			pts[n-2] = pts[n-2].Add(d)
			pts[n-3] = pts[n-3].Add(geom.P(0, d.Y))
		} else {
			pts[n-1].Y += d.Y
			if d.X != 0 {
				pts = append(pts, pts[n-1].Add(geom.P(d.X, 0)))
			}
		}
	}
	return pts
}

func dockDelta(oldC, newC schematic.Component, connection int) geom.GridPos {
	oldCell, ok1 := oldC.DockCell(connection)
	newCell, ok2 := newC.DockCell(connection)
	if !ok1 || !ok2 {
		panic(fmt.Sprintf("editor: dock cell %d vanished during reroute", connection))
	}
	return newCell.Sub(oldCell)
}

// netReroutes builds the net updates caused by replacing a component's
// geometry in place, driven by per-connection dock cell deltas.
func (s *Session) netReroutes(id griddb.ID, oldC, newC schematic.Component) []griddb.Transaction {
	var parts []griddb.Transaction
	for _, netID := range s.store.ConnectedNets(id) {
		net, _ := s.store.Net(netID)
		var sd, ed geom.GridPos
		if net.Start.Component == id {
			sd = dockDelta(oldC, newC, net.Start.Connection)
		}
		if net.End.Component == id {
			ed = dockDelta(oldC, newC, net.End.Connection)
		}
		if rebuilt := rebuildNet(net, sd, ed); rebuilt != nil {
			parts = append(parts, &griddb.ChangeNet{ID: netID, New: rebuilt})
		}
	}
	return parts
}

// Move relocates a component, dragging the ends of its nets along.
func (s *Session) Move(id griddb.ID, to geom.GridPos) error {
	c, ok := s.store.Component(id)
	if !ok {
		return fmt.Errorf("move component %d: %w", id, ErrNotFound)
	}
	if to == c.Pos() {
		return nil
	}
	if !s.store.IsAvailableLocation(to, c.Dim(), id) {
		return fmt.Errorf("move component %d to %v: %w", id, to, ErrPlacementConflict)
	}

	delta := to.Sub(c.Pos())
	var parts []griddb.Transaction
	for _, netID := range s.store.ConnectedNets(id) {
		net, _ := s.store.Net(netID)
		var sd, ed geom.GridPos
		if net.Start.Component == id {
			sd = delta
		}
		if net.End.Component == id {
			ed = delta
		}
		if rebuilt := rebuildNet(net, sd, ed); rebuilt != nil {
			parts = append(parts, &griddb.ChangeNet{ID: netID, New: rebuilt})
		}
	}
	moved := c.Clone()
	moved.SetPos(to)
	parts = append(parts, &griddb.ChangeComponent{ID: id, New: moved})
	s.history.Do(s.store, &griddb.Combined{Parts: parts})
	s.log.Debug("component moved", slog.Uint64("id", uint64(id)))
	return nil
}

// Rotate turns a primitive a quarter turn, keeping its footprint anchored at
// its origin. Net ends follow their dock cells; a net with both ends on the
// rotating component has all its waypoints carried through the same
// transform as the footprint.
func (s *Session) Rotate(id griddb.ID, dir RotateDirection) error {
	c, ok := s.store.Component(id)
	if !ok {
		return fmt.Errorf("rotate component %d: %w", id, ErrNotFound)
	}
	prim, ok := c.(*schematic.Primitive)
	if !ok {
		return fmt.Errorf("rotate component %d: %w", id, ErrNotSupported)
	}

	rotated := prim.Clone().(*schematic.Primitive)
	step := geom.Rot90
	if dir == RotateUp {
		rotated.RotateUp()
	} else {
		rotated.RotateDown()
		step = geom.Rot270
	}
	if !s.store.IsAvailableLocation(rotated.Position, rotated.Dim(), id) {
		return fmt.Errorf("rotate component %d: %w", id, ErrPlacementConflict)
	}

	var parts []griddb.Transaction
	for _, netID := range s.store.ConnectedNets(id) {
		net, _ := s.store.Net(netID)
		if net.Start.Component == id && net.End.Component == id {
			pts := make([]geom.GridPos, len(net.Points))
			for i, p := range net.Points {
				pts[i] = step.RotateCell(p, prim.Position, rotated.Dim())
			}
			parts = append(parts, &griddb.ChangeNet{ID: netID, New: &griddb.Net{
				Start:  net.Start,
				End:    net.End,
				Points: griddb.SimplifyPath(pts),
			}})
			continue
		}
		var sd, ed geom.GridPos
		if net.Start.Component == id {
			sd = dockDelta(prim, rotated, net.Start.Connection)
		}
		if net.End.Component == id {
			ed = dockDelta(prim, rotated, net.End.Connection)
		}
		if rebuilt := rebuildNet(net, sd, ed); rebuilt != nil {
			parts = append(parts, &griddb.ChangeNet{ID: netID, New: rebuilt})
		}
	}
	parts = append(parts, &griddb.ChangeComponent{ID: id, New: rotated})
	s.history.Do(s.store, &griddb.Combined{Parts: parts})
	s.log.Debug("component rotated", slog.Uint64("id", uint64(id)))
	return nil
}

// Resize changes the size of a unit or text field. Unit ports keep their
// edge offsets, so docks on the far edges move with the new size and their
// nets are rebuilt.
func (s *Session) Resize(id griddb.ID, size geom.Dim) error {
	c, ok := s.store.Component(id)
	if !ok {
		return fmt.Errorf("resize component %d: %w", id, ErrNotFound)
	}
	if !c.Resizable() {
		return fmt.Errorf("resize component %d: %w", id, ErrNotSupported)
	}

	resized := c.Clone()
	switch rc := resized.(type) {
	case *schematic.Unit:
		rc.Resize(size)
	case *schematic.TextField:
		rc.Resize(size)
	default:
		return fmt.Errorf("resize component %d: %w", id, ErrNotSupported)
	}
	if resized.Dim() == c.Dim() {
		return nil
	}
	if !s.store.IsAvailableLocation(resized.Pos(), resized.Dim(), id) {
		return fmt.Errorf("resize component %d: %w", id, ErrPlacementConflict)
	}

	parts := s.netReroutes(id, c, resized)
	parts = append(parts, &griddb.ChangeComponent{ID: id, New: resized})
	s.history.Do(s.store, &griddb.Combined{Parts: parts})
	s.log.Debug("component resized", slog.Uint64("id", uint64(id)))
	return nil
}
