/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package schematic

import (
	"testing"

	"gridcad/internal/geom"
)

func TestGateDimensionsAndDockCells(t *testing.T) {
	tests := []struct {
		name  string
		typ   PrimitiveType
		dim   geom.Dim
		conns int
		docks []geom.GridPos
	}{
		{
			name:  "and2",
			typ:   PrimitiveType{Kind: KindAnd, Inputs: 2},
			dim:   geom.Dim{W: 3, H: 3},
			conns: 3,
			docks: []geom.GridPos{geom.P(3, 1), geom.P(-1, 0), geom.P(-1, 2)},
		},
		{
			name:  "or3",
			typ:   PrimitiveType{Kind: KindOr, Inputs: 3},
			dim:   geom.Dim{W: 3, H: 3},
			conns: 4,
			docks: []geom.GridPos{geom.P(3, 1), geom.P(-1, 0), geom.P(-1, 1), geom.P(-1, 2)},
		},
		{
			name:  "not",
			typ:   PrimitiveType{Kind: KindNot},
			dim:   geom.Dim{W: 3, H: 3},
			conns: 2,
			docks: []geom.GridPos{geom.P(-1, 1), geom.P(3, 1)},
		},
		{
			name:  "mux2",
			typ:   PrimitiveType{Kind: KindMux, Inputs: 2},
			dim:   geom.Dim{W: 1, H: 3},
			conns: 4,
			docks: []geom.GridPos{geom.P(1, 1), geom.P(0, 3), geom.P(-1, 0), geom.P(-1, 2)},
		},
		{
			name:  "mux4",
			typ:   PrimitiveType{Kind: KindMux, Inputs: 4},
			dim:   geom.Dim{W: 2, H: 7},
			conns: 6,
			docks: []geom.GridPos{
				geom.P(2, 3), geom.P(1, 7),
				geom.P(-1, 0), geom.P(-1, 2), geom.P(-1, 4), geom.P(-1, 6),
			},
		},
		{
			name:  "input",
			typ:   PrimitiveType{Kind: KindInput},
			dim:   geom.Dim{W: 2, H: 1},
			conns: 1,
			docks: []geom.GridPos{geom.P(2, 0)},
		},
		{
			name:  "output",
			typ:   PrimitiveType{Kind: KindOutput},
			dim:   geom.Dim{W: 2, H: 1},
			conns: 1,
			docks: []geom.GridPos{geom.P(-1, 0)},
		},
		{
			name:  "point",
			typ:   PrimitiveType{Kind: KindPoint},
			dim:   geom.Dim{W: 1, H: 1},
			conns: 1,
			docks: []geom.GridPos{geom.P(0, 0)},
		},
		{
			name:  "comparator",
			typ:   PrimitiveType{Kind: KindComparator, Op: OpLT},
			dim:   geom.Dim{W: 3, H: 3},
			conns: 3,
			docks: []geom.GridPos{geom.P(-1, 0), geom.P(-1, 2), geom.P(3, 1)},
		},
		{
			name:  "adder plain",
			typ:   PrimitiveType{Kind: KindAdder},
			dim:   geom.Dim{W: 3, H: 3},
			conns: 3,
			docks: []geom.GridPos{geom.P(-1, 0), geom.P(-1, 2), geom.P(3, 1)},
		},
		{
			name:  "adder cin cout",
			typ:   PrimitiveType{Kind: KindAdder, Cin: true, Cout: true},
			dim:   geom.Dim{W: 3, H: 4},
			conns: 5,
			docks: []geom.GridPos{
				geom.P(-1, 1), geom.P(-1, 3), geom.P(3, 2), geom.P(-1, 0), geom.P(3, 3),
			},
		},
		{
			name:  "dff plain",
			typ:   PrimitiveType{Kind: KindDFF},
			dim:   geom.Dim{W: 5, H: 5},
			conns: 3,
			docks: []geom.GridPos{geom.P(0, 3), geom.P(0, 1), geom.P(4, 2)},
		},
		{
			name:  "dff full",
			typ:   PrimitiveType{Kind: KindDFF, DFF: DFFParams{Enable: true, AsyncReset: true, SyncReset: true}},
			dim:   geom.Dim{W: 5, H: 5},
			conns: 6,
			docks: []geom.GridPos{
				geom.P(0, 3), geom.P(0, 1), geom.P(4, 2),
				geom.P(0, 2), geom.P(2, 0), geom.P(0, 4),
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &Primitive{Type: tc.typ}
			if got := p.Dim(); got != tc.dim {
				t.Fatalf("dim = %+v, want %+v", got, tc.dim)
			}
			if got := p.ConnectionCount(); got != tc.conns {
				t.Fatalf("connections = %d, want %d", got, tc.conns)
			}
			cells := p.DockCells()
			if len(cells) != len(tc.docks) {
				t.Fatalf("dock cells = %v, want %v", cells, tc.docks)
			}
			for i, want := range tc.docks {
				if cells[i] != want {
					t.Fatalf("dock[%d] = %v, want %v", i, cells[i], want)
				}
			}
			if _, ok := p.DockCell(tc.conns); ok {
				t.Fatalf("expected out-of-range dock cell to fail")
			}
		})
	}
}

func TestPrimitiveDockCellRotation(t *testing.T) {
	p := &Primitive{Type: PrimitiveType{Kind: KindInput}, Position: geom.P(0, 0)}

	p.Rotation = geom.Rot90
	if got := p.Dim(); got != (geom.Dim{W: 1, H: 2}) {
		t.Fatalf("rotated dim = %+v", got)
	}
	cell, ok := p.DockCell(0)
	if !ok || cell != geom.P(0, 2) {
		t.Fatalf("rot90 dock = %v, ok=%v", cell, ok)
	}

	p.Rotation = geom.Rot180
	cell, _ = p.DockCell(0)
	if cell != geom.P(-1, 0) {
		t.Fatalf("rot180 dock = %v", cell)
	}

	// translation carries through
	p.Rotation = geom.Rot0
	p.Position = geom.P(7, -2)
	cell, _ = p.DockCell(0)
	if cell != geom.P(9, -2) {
		t.Fatalf("translated dock = %v", cell)
	}
}

func TestRotateUpDown(t *testing.T) {
	p := &Primitive{Type: PrimitiveType{Kind: KindNot}}
	p.RotateUp()
	if p.Rotation != geom.Rot90 {
		t.Fatalf("after up: %v", p.Rotation)
	}
	p.RotateDown()
	p.RotateDown()
	if p.Rotation != geom.Rot270 {
		t.Fatalf("after down twice: %v", p.Rotation)
	}
}

func TestConnectionsDiffAdder(t *testing.T) {
	oldType := PrimitiveType{Kind: KindAdder, Cout: true}
	newType := PrimitiveType{Kind: KindAdder, Cin: true, Cout: true}
	diff := ConnectionsDiff(oldType, newType)
	// inputs and output keep their indices; cout moves from 3 to 4
	if len(diff) != 1 {
		t.Fatalf("diff = %v", diff)
	}
	moved, ok := diff[3]
	if !ok || moved == nil || *moved != 4 {
		t.Fatalf("cout mapping = %v", moved)
	}
}

func TestConnectionsDiffDFF(t *testing.T) {
	oldType := PrimitiveType{Kind: KindDFF, DFF: DFFParams{SyncReset: true}}
	newType := PrimitiveType{Kind: KindDFF, DFF: DFFParams{Enable: true}}
	diff := ConnectionsDiff(oldType, newType)
	// the sync reset at index 3 vanishes; clk/d/q stay put
	if len(diff) != 1 {
		t.Fatalf("diff = %v", diff)
	}
	gone, ok := diff[3]
	if !ok || gone != nil {
		t.Fatalf("expected dropped connection, got %v", gone)
	}
}

func TestConnectionsDiffGateShrink(t *testing.T) {
	oldType := PrimitiveType{Kind: KindAnd, Inputs: 3}
	newType := PrimitiveType{Kind: KindAnd, Inputs: 2}
	diff := ConnectionsDiff(oldType, newType)
	if len(diff) != 1 {
		t.Fatalf("diff = %v", diff)
	}
	if gone, ok := diff[3]; !ok || gone != nil {
		t.Fatalf("expected third input dropped, got %v", diff)
	}
}

func TestCustomizable(t *testing.T) {
	if !(PrimitiveType{Kind: KindMux, Inputs: 2}).Customizable() {
		t.Fatalf("mux should be customizable")
	}
	if (PrimitiveType{Kind: KindPoint}).Customizable() {
		t.Fatalf("point should not be customizable")
	}
}
