/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders documents headlessly to SVG and PDF. It draws the
// grid-exact geometry: footprint outlines, dock markers, labels and net
// polylines. Styled shape rendering stays in the interactive front end.
package export

import (
	"fmt"
	"strings"

	"gridcad/internal/geom"
	"gridcad/internal/griddb"
	"gridcad/internal/schematic"
)

// Options controls page layout for both exporters.
type Options struct {
	// CellSize is the rendered size of one grid cell (SVG user units, PDF
	// points). Zero means 18.
	CellSize float64
	// Margin is the number of empty border cells around the document.
	// Zero means 2.
	Margin int
	// PortLabels draws unit port names next to their dock markers.
	PortLabels bool
}

func (o Options) withDefaults() Options {
	if o.CellSize <= 0 {
		o.CellSize = 18
	}
	if o.Margin <= 0 {
		o.Margin = 2
	}
	return o
}

// layout maps grid cells onto the page.
type layout struct {
	origin geom.GridPos
	cell   float64
	width  float64
	height float64
}

func newLayout(s *griddb.Store, opt Options) layout {
	bounds, ok := s.Bounds()
	if !ok {
		bounds = geom.GridRect{}
	}
	// dock cells stick out one cell past the footprints
	bounds = bounds.Inflate(1 + opt.Margin)
	return layout{
		origin: bounds.Min,
		cell:   opt.CellSize,
		width:  float64(bounds.Max.X-bounds.Min.X+1) * opt.CellSize,
		height: float64(bounds.Max.Y-bounds.Min.Y+1) * opt.CellSize,
	}
}

// corner returns the page position of a cell's top-left corner.
func (l layout) corner(p geom.GridPos) (x, y float64) {
	return float64(p.X-l.origin.X) * l.cell, float64(p.Y-l.origin.Y) * l.cell
}

// center returns the page position of a cell's center, where nets and dock
// markers are drawn.
func (l layout) center(p geom.GridPos) (x, y float64) {
	x, y = l.corner(p)
	return x + l.cell/2, y + l.cell/2
}

// componentLabel is the short text drawn inside a footprint.
func componentLabel(c schematic.Component) string {
	switch v := c.(type) {
	case *schematic.Primitive:
		switch v.Type.Kind {
		case schematic.KindAnd:
			return "AND"
		case schematic.KindOr:
			return "OR"
		case schematic.KindXor:
			return "XOR"
		case schematic.KindNand:
			return "NAND"
		case schematic.KindNot:
			return "NOT"
		case schematic.KindPoint:
			return ""
		case schematic.KindMux:
			return "MUX"
		case schematic.KindInput:
			return "IN"
		case schematic.KindOutput:
			return "OUT"
		case schematic.KindComparator:
			return string(v.Type.Op)
		case schematic.KindAdder:
			return "+"
		case schematic.KindDFF:
			return "DFF"
		}
		return strings.ToUpper(string(v.Type.Kind))
	case *schematic.Unit:
		return ""
	case *schematic.TextField:
		return v.Text
	}
	return ""
}

// portName returns the label for a connection of a unit; empty otherwise.
func portName(c schematic.Component, connection int) string {
	u, ok := c.(*schematic.Unit)
	if !ok || connection < 0 || connection >= len(u.Ports) {
		return ""
	}
	return u.Ports[connection].Name
}

func fmtF(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
