/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package griddb holds the spatially indexed circuit database: components and
// nets keyed by id, mirrored into R-trees for cell-level queries, plus the
// transaction and history machinery that makes every mutation revertible.
//
// The store is not safe for concurrent use; one document is owned by one
// editing goroutine.
package griddb

import (
	"fmt"
	"sort"

	"github.com/tidwall/rtree"

	"gridcad/internal/geom"
	"gridcad/internal/schematic"
)

// ID aliases the document-wide identifier type.
type ID = schematic.ID

// Store is the circuit database. The maps own the data; the R-trees and the
// connection maps are derived indices and must stay in sync with them. A
// mismatch is a programming error and panics.
type Store struct {
	components map[ID]schematic.Component
	compTree   rtree.RTreeGN[int, ID]

	nets    map[ID]*Net
	segTree rtree.RTreeGN[int, segmentRef]

	// connections maps a dock cell to the connection points docked there.
	connections map[geom.GridPos]map[schematic.ConnectionPoint]struct{}
	// connectedNets maps a connection point to the nets attached to it.
	connectedNets map[schematic.ConnectionPoint]map[ID]struct{}

	nextComponentID ID
	nextNetID       ID
}

// New returns an empty store.
func New() *Store {
	return &Store{
		components:    make(map[ID]schematic.Component),
		nets:          make(map[ID]*Net),
		connections:   make(map[geom.GridPos]map[schematic.ConnectionPoint]struct{}),
		connectedNets: make(map[schematic.ConnectionPoint]map[ID]struct{}),
	}
}

func boxOf(r geom.GridRect) (min, max [2]int) {
	return [2]int{r.Min.X, r.Min.Y}, [2]int{r.Max.X, r.Max.Y}
}

// InsertComponent adds a component under an explicit id, registering its
// footprint and dock cells. The id must be unused.
func (s *Store) InsertComponent(id ID, c schematic.Component) {
	if _, exists := s.components[id]; exists {
		panic(fmt.Sprintf("griddb: duplicate component id %d", id))
	}
	for i, cell := range c.DockCells() {
		set := s.connections[cell]
		if set == nil {
			set = make(map[schematic.ConnectionPoint]struct{})
			s.connections[cell] = set
		}
		set[schematic.ConnectionPoint{Component: id, Connection: i}] = struct{}{}
	}
	s.components[id] = c
	minB, maxB := boxOf(c.Bounds())
	s.compTree.Insert(minB, maxB, id)
	if id >= s.nextComponentID {
		s.nextComponentID = id + 1
	}
}

// PushComponent adds a component under the next free id and returns it.
func (s *Store) PushComponent(c schematic.Component) ID {
	id := s.nextComponentID
	s.InsertComponent(id, c)
	return id
}

// RemoveComponent detaches a component and all its index entries. Nets
// attached to it are left alone; see RemoveComponentWithConnectedNets.
func (s *Store) RemoveComponent(id ID) (schematic.Component, bool) {
	c, ok := s.components[id]
	if !ok {
		return nil, false
	}
	for i, cell := range c.DockCells() {
		cp := schematic.ConnectionPoint{Component: id, Connection: i}
		set := s.connections[cell]
		if set == nil {
			panic(fmt.Sprintf("griddb: dock cell index desync for component %d", id))
		}
		delete(set, cp)
		if len(set) == 0 {
			delete(s.connections, cell)
		}
	}
	minB, maxB := boxOf(c.Bounds())
	s.compTree.Delete(minB, maxB, id)
	delete(s.components, id)
	return c, true
}

// Component returns the component stored under id.
func (s *Store) Component(id ID) (schematic.Component, bool) {
	c, ok := s.components[id]
	return c, ok
}

func (s *Store) mustComponent(id ID) schematic.Component {
	c, ok := s.components[id]
	if !ok {
		panic(fmt.Sprintf("griddb: dangling component reference %d", id))
	}
	return c
}

// ComponentIDs returns all component ids in ascending order.
func (s *Store) ComponentIDs() []ID {
	ids := make([]ID, 0, len(s.components))
	for id := range s.components {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ComponentCount returns the number of stored components.
func (s *Store) ComponentCount() int { return len(s.components) }

// InsertNet adds a net under an explicit id, indexing its segments and
// endpoint attachments. The id must be unused.
func (s *Store) InsertNet(id ID, n *Net) {
	if _, exists := s.nets[id]; exists {
		panic(fmt.Sprintf("griddb: duplicate net id %d", id))
	}
	for _, seg := range n.Segments(id) {
		minB, maxB := boxOf(seg.Bounds())
		s.segTree.Insert(minB, maxB, segmentRef{NetID: id, Index: seg.Index})
	}
	for _, cp := range []schematic.ConnectionPoint{n.Start, n.End} {
		set := s.connectedNets[cp]
		if set == nil {
			set = make(map[ID]struct{})
			s.connectedNets[cp] = set
		}
		set[id] = struct{}{}
	}
	s.nets[id] = n
	if id >= s.nextNetID {
		s.nextNetID = id + 1
	}
}

// AddNet adds a net under the next free id and returns it.
func (s *Store) AddNet(n *Net) ID {
	id := s.nextNetID
	s.InsertNet(id, n)
	return id
}

// RemoveNet detaches a net and all its index entries.
func (s *Store) RemoveNet(id ID) (*Net, bool) {
	n, ok := s.nets[id]
	if !ok {
		return nil, false
	}
	for _, seg := range n.Segments(id) {
		minB, maxB := boxOf(seg.Bounds())
		s.segTree.Delete(minB, maxB, segmentRef{NetID: id, Index: seg.Index})
	}
	for _, cp := range []schematic.ConnectionPoint{n.Start, n.End} {
		if set := s.connectedNets[cp]; set != nil {
			delete(set, id)
			if len(set) == 0 {
				delete(s.connectedNets, cp)
			}
		}
	}
	delete(s.nets, id)
	return n, true
}

// Net returns the net stored under id.
func (s *Store) Net(id ID) (*Net, bool) {
	n, ok := s.nets[id]
	return n, ok
}

// NetIDs returns all net ids in ascending order.
func (s *Store) NetIDs() []ID {
	ids := make([]ID, 0, len(s.nets))
	for id := range s.nets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NetCount returns the number of stored nets.
func (s *Store) NetCount() int { return len(s.nets) }

// ConnectedNets returns the ids of nets attached to any connection of the
// component, ascending.
func (s *Store) ConnectedNets(componentID ID) []ID {
	c, ok := s.components[componentID]
	if !ok {
		return nil
	}
	seen := make(map[ID]struct{})
	for i := 0; i < c.ConnectionCount(); i++ {
		cp := schematic.ConnectionPoint{Component: componentID, Connection: i}
		for id := range s.connectedNets[cp] {
			seen[id] = struct{}{}
		}
	}
	ids := make([]ID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// RemoveComponentWithConnectedNets removes the component and every net
// attached to it.
func (s *Store) RemoveComponentWithConnectedNets(id ID) bool {
	if _, ok := s.components[id]; !ok {
		return false
	}
	for _, netID := range s.ConnectedNets(id) {
		s.RemoveNet(netID)
	}
	s.RemoveComponent(id)
	return true
}

// IsFreeCell reports whether a new component may occupy the cell. Regular
// components keep one cell of clearance around their neighbors; overlap-only
// placement (and overlap-only neighbors) block solely on containment.
func (s *Store) IsFreeCell(cell geom.GridPos, overlapOnly bool) bool {
	free := true
	s.searchNear(cell, func(id ID) bool {
		rect := s.mustComponent(id).Bounds()
		if overlapOnly || s.mustComponent(id).OverlapOnly() {
			if rect.Contains(cell) {
				free = false
				return false
			}
			return true
		}
		free = false
		return false
	})
	return free
}

// IsAvailableCell reports whether the cell may be occupied when moving or
// resizing the given existing component.
func (s *Store) IsAvailableCell(cell geom.GridPos, componentID ID) bool {
	moving := s.mustComponent(componentID)
	available := true
	s.searchNear(cell, func(id ID) bool {
		if id == componentID {
			return true
		}
		other := s.mustComponent(id)
		if moving.OverlapOnly() || other.OverlapOnly() {
			if other.Bounds().Contains(cell) {
				available = false
				return false
			}
			return true
		}
		available = false
		return false
	})
	return available
}

// IsAvailableLocation checks IsAvailableCell for every cell of a footprint.
func (s *Store) IsAvailableLocation(origin geom.GridPos, d geom.Dim, componentID ID) bool {
	for x := 0; x < d.W; x++ {
		for y := 0; y < d.H; y++ {
			if !s.IsAvailableCell(origin.Add(geom.P(x, y)), componentID) {
				return false
			}
		}
	}
	return true
}

// searchNear visits component ids whose footprint lies within one cell of
// the given cell (squared distance at most 2).
func (s *Store) searchNear(cell geom.GridPos, visit func(ID) bool) {
	env := geom.GridRect{Min: cell, Max: cell}.Inflate(1)
	minB, maxB := boxOf(env)
	s.compTree.Search(minB, maxB, func(_, _ [2]int, id ID) bool {
		return visit(id)
	})
}

// HoveredComponent returns a component whose footprint covers the cell. With
// overlapping overlap-only footprints the lowest id wins.
func (s *Store) HoveredComponent(cell geom.GridPos) (ID, bool) {
	best := ID(0)
	found := false
	minB, maxB := boxOf(geom.GridRect{Min: cell, Max: cell})
	s.compTree.Search(minB, maxB, func(_, _ [2]int, id ID) bool {
		if !found || id < best {
			best = id
			found = true
		}
		return true
	})
	return best, found
}

// ConnectionsAt returns the connection points docked at the cell, ordered by
// component then connection index.
func (s *Store) ConnectionsAt(cell geom.GridPos) []schematic.ConnectionPoint {
	set := s.connections[cell]
	if len(set) == 0 {
		return nil
	}
	out := make([]schematic.ConnectionPoint, 0, len(set))
	for cp := range set {
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Component != out[j].Component {
			return out[i].Component < out[j].Component
		}
		return out[i].Connection < out[j].Connection
	})
	return out
}

// HoveredConnection scans the 3x3 neighborhood around the cell for a docked
// connection, nearest cells first in row-major order.
func (s *Store) HoveredConnection(cell geom.GridPos) (schematic.ConnectionPoint, bool) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if cps := s.ConnectionsAt(cell.Add(geom.P(dx, dy))); len(cps) > 0 {
				return cps[0], true
			}
		}
	}
	return schematic.ConnectionPoint{}, false
}

// HoveredSegment returns the first net segment within tolerance of a
// continuous point in grid units. Candidates come from the segment index at
// the point's cell; ties resolve to the lowest net id and segment index.
func (s *Store) HoveredSegment(pt geom.PointF, tolerance float64) (NetSegment, bool) {
	cell := geom.P(int(floorf(pt.X)), int(floorf(pt.Y)))
	minB, maxB := boxOf(geom.GridRect{Min: cell, Max: cell})
	var refs []segmentRef
	s.segTree.Search(minB, maxB, func(_, _ [2]int, ref segmentRef) bool {
		refs = append(refs, ref)
		return true
	})
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].NetID != refs[j].NetID {
			return refs[i].NetID < refs[j].NetID
		}
		return refs[i].Index < refs[j].Index
	})
	for _, ref := range refs {
		net, ok := s.nets[ref.NetID]
		if !ok {
			panic(fmt.Sprintf("griddb: segment index references missing net %d", ref.NetID))
		}
		seg, ok := net.Segment(ref.Index, ref.NetID)
		if !ok {
			panic(fmt.Sprintf("griddb: segment index out of range for net %d", ref.NetID))
		}
		if seg.Hit(pt, tolerance) {
			return seg, true
		}
	}
	return NetSegment{}, false
}

func floorf(v float64) float64 {
	f := float64(int(v))
	if v < 0 && v != f {
		return f - 1
	}
	return f
}

// VisibleComponents returns the ids of components intersecting the rectangle,
// ascending.
func (s *Store) VisibleComponents(r geom.GridRect) []ID {
	var ids []ID
	minB, maxB := boxOf(r)
	s.compTree.Search(minB, maxB, func(_, _ [2]int, id ID) bool {
		ids = append(ids, id)
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// VisibleNetSegments returns the net segments intersecting the rectangle,
// ordered by net id then segment index.
func (s *Store) VisibleNetSegments(r geom.GridRect) []NetSegment {
	var refs []segmentRef
	minB, maxB := boxOf(r)
	s.segTree.Search(minB, maxB, func(_, _ [2]int, ref segmentRef) bool {
		refs = append(refs, ref)
		return true
	})
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].NetID != refs[j].NetID {
			return refs[i].NetID < refs[j].NetID
		}
		return refs[i].Index < refs[j].Index
	})
	out := make([]NetSegment, 0, len(refs))
	for _, ref := range refs {
		net := s.nets[ref.NetID]
		seg, _ := net.Segment(ref.Index, ref.NetID)
		out = append(out, seg)
	}
	return out
}

// Bounds returns the envelope of everything in the document; ok is false for
// an empty document.
func (s *Store) Bounds() (geom.GridRect, bool) {
	var out geom.GridRect
	have := false
	if s.compTree.Len() > 0 {
		minB, maxB := s.compTree.Bounds()
		out = geom.GridRect{Min: geom.P(minB[0], minB[1]), Max: geom.P(maxB[0], maxB[1])}
		have = true
	}
	if s.segTree.Len() > 0 {
		minB, maxB := s.segTree.Bounds()
		r := geom.GridRect{Min: geom.P(minB[0], minB[1]), Max: geom.P(maxB[0], maxB[1])}
		if have {
			out = out.Union(r)
		} else {
			out = r
			have = true
		}
	}
	return out, have
}

// NextIDs exposes the id counters for snapshot persistence.
func (s *Store) NextIDs() (component, net ID) {
	return s.nextComponentID, s.nextNetID
}

// SetNextIDs restores the id counters from a snapshot. Counters never move
// backwards past live ids.
func (s *Store) SetNextIDs(component, net ID) {
	if component > s.nextComponentID {
		s.nextComponentID = component
	}
	if net > s.nextNetID {
		s.nextNetID = net
	}
}
