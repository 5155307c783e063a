/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor is the edit surface over the circuit database. A Session
// owns one document and its undo state; every operation either rejects up
// front and leaves the store untouched, or applies exactly one history entry.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"gridcad/internal/geom"
	"gridcad/internal/griddb"
	"gridcad/internal/log"
	"gridcad/internal/schematic"
)

var (
	// ErrPlacementConflict rejects an insert, move, rotate or resize whose
	// footprint would violate component spacing.
	ErrPlacementConflict = errors.New("placement conflicts with existing components")

	// ErrNotFound rejects operations on ids absent from the store.
	ErrNotFound = errors.New("no such id")

	// ErrBadConnection rejects a connection point that does not resolve.
	ErrBadConnection = errors.New("invalid connection point")

	// ErrNotSupported rejects an operation the component variant cannot do.
	ErrNotSupported = errors.New("operation not supported by this component")
)

// Session binds a store to an undo history. Sessions are single-threaded;
// callers serialize access the same way they serialize the store.
type Session struct {
	store   *griddb.Store
	history *griddb.History
	log     *slog.Logger
}

// NewSession wraps a store with a history capped at undoDepth entries.
func NewSession(store *griddb.Store, undoDepth int) *Session {
	return &Session{
		store:   store,
		history: griddb.NewHistory(undoDepth),
		log:     log.WithComponent("editor"),
	}
}

// Store exposes the underlying database for queries. Mutating it directly
// bypasses the history.
func (s *Session) Store() *griddb.Store { return s.store }

// Undo reverts the newest edit; reports whether there was one.
func (s *Session) Undo() bool {
	ok := s.history.Undo(s.store)
	if ok {
		s.log.Debug("undo")
	}
	return ok
}

// Redo re-applies the most recently undone edit; reports whether there was one.
func (s *Session) Redo() bool {
	ok := s.history.Redo(s.store)
	if ok {
		s.log.Debug("redo")
	}
	return ok
}

// CanUndo reports whether an undo step is available.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether a redo step is available.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Replace swaps in a freshly loaded store. The swap is not undoable and
// drops both history stacks.
func (s *Session) Replace(store *griddb.Store) {
	s.store = store
	s.history.Clear()
	s.log.Info("document replaced",
		slog.Int("components", store.ComponentCount()),
		slog.Int("nets", store.NetCount()))
}

// Place inserts a component at its own position under a fresh id.
func (s *Session) Place(c schematic.Component) (griddb.ID, error) {
	d := c.Dim()
	pos := c.Pos()
	for x := 0; x < d.W; x++ {
		for y := 0; y < d.H; y++ {
			if !s.store.IsFreeCell(pos.Add(geom.P(x, y)), c.OverlapOnly()) {
				return 0, ErrPlacementConflict
			}
		}
	}
	id, _ := s.store.NextIDs()
	// detach from the caller so later mutations cannot leak into a redo
	s.history.Do(s.store, &griddb.ChangeComponent{ID: id, New: c.Clone()})
	s.log.Debug("component placed", slog.Uint64("id", uint64(id)))
	return id, nil
}

// Delete removes a component together with every net attached to it, as one
// undoable step.
func (s *Session) Delete(id griddb.ID) error {
	if _, ok := s.store.Component(id); !ok {
		return fmt.Errorf("delete component %d: %w", id, ErrNotFound)
	}
	parts := make([]griddb.Transaction, 0, 4)
	for _, netID := range s.store.ConnectedNets(id) {
		parts = append(parts, &griddb.ChangeNet{ID: netID})
	}
	parts = append(parts, &griddb.ChangeComponent{ID: id})
	s.history.Do(s.store, &griddb.Combined{Parts: parts})
	s.log.Debug("component deleted",
		slog.Uint64("id", uint64(id)), slog.Int("cascaded_nets", len(parts)-1))
	return nil
}

// dockCellOf resolves a connection point to its dock cell.
func (s *Session) dockCellOf(cp schematic.ConnectionPoint) (geom.GridPos, error) {
	c, ok := s.store.Component(cp.Component)
	if !ok {
		return geom.GridPos{}, fmt.Errorf("component %d: %w", cp.Component, ErrBadConnection)
	}
	cell, ok := c.DockCell(cp.Connection)
	if !ok {
		return geom.GridPos{}, fmt.Errorf("connection %d of component %d: %w",
			cp.Connection, cp.Component, ErrBadConnection)
	}
	return cell, nil
}

// Connect routes a new net from start to end through the anchor cells, using
// the naive midpoint router between consecutive stations.
func (s *Session) Connect(start, end schematic.ConnectionPoint, anchors []geom.GridPos) (griddb.ID, error) {
	if start == end {
		return 0, fmt.Errorf("net endpoints coincide: %w", ErrBadConnection)
	}
	from, err := s.dockCellOf(start)
	if err != nil {
		return 0, err
	}
	to, err := s.dockCellOf(end)
	if err != nil {
		return 0, err
	}

	points := []geom.GridPos{from}
	for _, a := range anchors {
		points = append(points, griddb.FindPath(points[len(points)-1], a)...)
		points = append(points, a)
	}
	points = append(points, griddb.FindPath(points[len(points)-1], to)...)
	points = append(points, to)
	points = griddb.SimplifyPath(points)
	if len(points) < 2 {
		return 0, fmt.Errorf("net endpoints dock at the same cell %v: %w", from, ErrBadConnection)
	}

	_, id := s.store.NextIDs()
	s.history.Do(s.store, &griddb.ChangeNet{ID: id, New: &griddb.Net{
		Start:  start,
		End:    end,
		Points: points,
	}})
	s.log.Debug("net connected",
		slog.Uint64("id", uint64(id)), slog.Int("waypoints", len(points)))
	return id, nil
}

// DeleteNet removes a single net.
func (s *Session) DeleteNet(id griddb.ID) error {
	if _, ok := s.store.Net(id); !ok {
		return fmt.Errorf("delete net %d: %w", id, ErrNotFound)
	}
	s.history.Do(s.store, &griddb.ChangeNet{ID: id})
	s.log.Debug("net deleted", slog.Uint64("id", uint64(id)))
	return nil
}

// MoveSegment drags one segment of a net sideways to the given cell. The
// segment keeps its orientation; terminal segments stay pinned to their dock
// cells by an extra bend.
func (s *Session) MoveSegment(netID griddb.ID, segment int, to geom.GridPos) error {
	net, ok := s.store.Net(netID)
	if !ok {
		return fmt.Errorf("move segment of net %d: %w", netID, ErrNotFound)
	}
	if segment < 0 || segment+1 >= len(net.Points) {
		return fmt.Errorf("segment %d of net %d: %w", segment, netID, ErrNotFound)
	}

	pts := append([]geom.GridPos(nil), net.Points...)
	p1 := pts[segment]
	p2 := pts[segment+1]
	if p1.Y == p2.Y {
		pts[segment] = geom.P(p1.X, to.Y)
		pts[segment+1] = geom.P(p2.X, to.Y)
	} else {
		pts[segment] = geom.P(to.X, p1.Y)
		pts[segment+1] = geom.P(to.X, p2.Y)
	}
	// pin the dock cells before simplifying
	if segment == len(pts)-2 {
		pts = append(pts, p2)
	}
	if segment == 0 {
		pts = append([]geom.GridPos{p1}, pts...)
	}
	pts = griddb.SimplifyPath(pts)

	s.history.Do(s.store, &griddb.ChangeNet{ID: netID, New: &griddb.Net{
		Start:  net.Start,
		End:    net.End,
		Points: pts,
	}})
	return nil
}
