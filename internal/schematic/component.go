/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package schematic defines the closed set of circuit components: built-in
// primitives, user-defined units with named ports, and free text fields.
//
// A component occupies a rectangle of grid cells anchored at its position.
// Each of its connections docks to exactly one cell outside (or on) the
// footprint; the dock cell is where nets attach.
package schematic

import "gridcad/internal/geom"

// ID identifies a component or a net inside one document.
type ID uint64

// ConnectionPoint names one connection of one component.
type ConnectionPoint struct {
	Component  ID  `json:"component"`
	Connection int `json:"connection"`
}

// Component is the closed variant set {*Primitive, *Unit, *TextField}.
type Component interface {
	Pos() geom.GridPos
	SetPos(geom.GridPos)
	// Dim is the occupied footprint, already accounting for rotation.
	Dim() geom.Dim
	Bounds() geom.GridRect
	ConnectionCount() int
	// DockCell returns the cell a net docks to for the given connection
	// index; ok is false when the index is out of range.
	DockCell(i int) (geom.GridPos, bool)
	DockCells() []geom.GridPos
	// OverlapOnly components block placement only on true containment,
	// not within the one-cell clearance band.
	OverlapOnly() bool
	Resizable() bool
	// Clone returns a deep copy; mutating the copy never affects the
	// original.
	Clone() Component

	sealed()
}

func bounds(c Component) geom.GridRect {
	return geom.Rect(c.Pos(), c.Dim())
}

func dockCells(c Component) []geom.GridPos {
	n := c.ConnectionCount()
	cells := make([]geom.GridPos, 0, n)
	for i := 0; i < n; i++ {
		cell, ok := c.DockCell(i)
		if !ok {
			break
		}
		cells = append(cells, cell)
	}
	return cells
}
