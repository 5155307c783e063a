/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package schematic

import "gridcad/internal/geom"

// PrimitiveKind selects the built-in component family.
type PrimitiveKind string

const (
	KindAnd        PrimitiveKind = "and"
	KindOr         PrimitiveKind = "or"
	KindXor        PrimitiveKind = "xor"
	KindNand       PrimitiveKind = "nand"
	KindNot        PrimitiveKind = "not"
	KindPoint      PrimitiveKind = "point"
	KindMux        PrimitiveKind = "mux"
	KindInput      PrimitiveKind = "input"
	KindOutput     PrimitiveKind = "output"
	KindComparator PrimitiveKind = "comparator"
	KindAdder      PrimitiveKind = "adder"
	KindDFF        PrimitiveKind = "dff"
)

// CompareOp is the operation shown on a comparator.
type CompareOp string

const (
	OpEQ  CompareOp = "=="
	OpLT  CompareOp = "<"
	OpLTE CompareOp = "<="
	OpGT  CompareOp = ">"
	OpGTE CompareOp = ">="
)

// DFFParams configures the optional ports of a D flip-flop.
type DFFParams struct {
	Enable             bool `json:"enable,omitempty"`
	AsyncReset         bool `json:"async_reset,omitempty"`
	SyncReset          bool `json:"sync_reset,omitempty"`
	AsyncResetInverted bool `json:"async_reset_inverted,omitempty"`
	SyncResetInverted  bool `json:"sync_reset_inverted,omitempty"`
}

// PrimitiveType is a tagged description of a built-in component. Only the
// fields relevant to Kind are meaningful: Inputs for gates and muxes, Op for
// comparators, Cin/Cout for adders, DFF for flip-flops.
type PrimitiveType struct {
	Kind   PrimitiveKind `json:"kind"`
	Inputs int           `json:"inputs,omitempty"`
	Op     CompareOp     `json:"op,omitempty"`
	Cin    bool          `json:"cin,omitempty"`
	Cout   bool          `json:"cout,omitempty"`
	DFF    DFFParams     `json:"dff,omitzero"`
}

// roles of primitive connections, used to match ports across customization
type portRole uint8

const (
	roleInput portRole = iota
	roleOutput
	roleSelect
	roleCin
	roleCout
	roleD
	roleQ
	roleClk
	roleAsyncReset
	roleSyncReset
	roleEnable
)

type portKey struct {
	role  portRole
	index int
}

// gateHeight spreads an even number of inputs over every other cell so the
// output stays centered.
func gateHeight(inputs int) int {
	if inputs%2 == 0 {
		return 2*inputs - 1
	}
	return inputs
}

func gateInputY(inputs, i int) int {
	if inputs%2 == 0 {
		return 2 * i
	}
	return i
}

// dffExtraPorts lists the optional connections in their index order for a
// given parameter combination.
func dffExtraPorts(p DFFParams) []portKey {
	var out []portKey
	if p.SyncReset {
		out = append(out, portKey{role: roleSyncReset})
	}
	if p.AsyncReset {
		out = append(out, portKey{role: roleAsyncReset})
	}
	if p.Enable {
		out = append(out, portKey{role: roleEnable})
	}
	return out
}

// ConnectionCount returns the number of connections of the primitive type.
func (t PrimitiveType) ConnectionCount() int {
	switch t.Kind {
	case KindAnd, KindOr, KindXor, KindNand:
		return t.Inputs + 1
	case KindNot:
		return 2
	case KindMux:
		return t.Inputs + 2
	case KindInput, KindOutput, KindPoint:
		return 1
	case KindComparator:
		return 3
	case KindAdder:
		n := 3
		if t.Cin {
			n++
		}
		if t.Cout {
			n++
		}
		return n
	case KindDFF:
		return 3 + len(dffExtraPorts(t.DFF))
	}
	return 0
}

// rawDim is the footprint before rotation.
func (t PrimitiveType) rawDim() geom.Dim {
	switch t.Kind {
	case KindAnd, KindOr, KindXor, KindNand:
		return geom.Dim{W: 3, H: gateHeight(t.Inputs)}
	case KindNot, KindComparator:
		return geom.Dim{W: 3, H: 3}
	case KindMux:
		w := 1
		if t.Inputs > 3 {
			w = 2
		}
		return geom.Dim{W: w, H: gateHeight(t.Inputs)}
	case KindInput, KindOutput:
		return geom.Dim{W: 2, H: 1}
	case KindPoint:
		return geom.Dim{W: 1, H: 1}
	case KindAdder:
		if t.Cin {
			return geom.Dim{W: 3, H: 4}
		}
		return geom.Dim{W: 3, H: 3}
	case KindDFF:
		return geom.Dim{W: 5, H: 5}
	}
	return geom.Dim{}
}

// portAt maps a connection index to its role.
func (t PrimitiveType) portAt(id int) (portKey, bool) {
	switch t.Kind {
	case KindAnd, KindOr, KindXor, KindNand:
		if id == 0 {
			return portKey{role: roleOutput}, true
		}
		if id <= t.Inputs {
			return portKey{role: roleInput, index: id - 1}, true
		}
	case KindMux:
		switch {
		case id == 0:
			return portKey{role: roleOutput}, true
		case id == 1:
			return portKey{role: roleSelect}, true
		case id <= t.Inputs+1:
			return portKey{role: roleInput, index: id - 2}, true
		}
	case KindNot:
		switch id {
		case 0:
			return portKey{role: roleInput}, true
		case 1:
			return portKey{role: roleOutput}, true
		}
	case KindPoint, KindInput:
		if id == 0 {
			return portKey{role: roleOutput}, true
		}
	case KindOutput:
		if id == 0 {
			return portKey{role: roleInput}, true
		}
	case KindComparator:
		switch id {
		case 0, 1:
			return portKey{role: roleInput, index: id}, true
		case 2:
			return portKey{role: roleOutput}, true
		}
	case KindAdder:
		switch id {
		case 0, 1:
			return portKey{role: roleInput, index: id}, true
		case 2:
			return portKey{role: roleOutput}, true
		case 3:
			if t.Cin {
				return portKey{role: roleCin}, true
			}
			if t.Cout {
				return portKey{role: roleCout}, true
			}
		case 4:
			if t.Cin && t.Cout {
				return portKey{role: roleCout}, true
			}
		}
	case KindDFF:
		switch id {
		case 0:
			return portKey{role: roleClk}, true
		case 1:
			return portKey{role: roleD}, true
		case 2:
			return portKey{role: roleQ}, true
		default:
			extra := dffExtraPorts(t.DFF)
			if id >= 3 && id-3 < len(extra) {
				return extra[id-3], true
			}
		}
	}
	return portKey{}, false
}

// rawDockCell returns the dock cell relative to the footprint origin, before
// rotation. Dock cells of side connections lie one cell outside the body.
func (t PrimitiveType) rawDockCell(id int) (geom.GridPos, bool) {
	port, ok := t.portAt(id)
	if !ok {
		return geom.GridPos{}, false
	}
	switch t.Kind {
	case KindAnd, KindOr, KindXor, KindNand:
		d := t.rawDim()
		if port.role == roleOutput {
			return geom.P(d.W, d.H/2), true
		}
		return geom.P(-1, gateInputY(t.Inputs, port.index)), true
	case KindMux:
		d := t.rawDim()
		switch port.role {
		case roleOutput:
			return geom.P(d.W, d.H/2), true
		case roleSelect:
			if d.W == 1 {
				return geom.P(0, d.H), true
			}
			return geom.P(1, d.H), true
		default:
			return geom.P(-1, gateInputY(t.Inputs, port.index)), true
		}
	case KindNot:
		if port.role == roleInput {
			return geom.P(-1, 1), true
		}
		return geom.P(3, 1), true
	case KindPoint:
		return geom.P(0, 0), true
	case KindInput:
		return geom.P(2, 0), true
	case KindOutput:
		return geom.P(-1, 0), true
	case KindComparator:
		switch {
		case port.role == roleInput && port.index == 0:
			return geom.P(-1, 0), true
		case port.role == roleInput:
			return geom.P(-1, 2), true
		default:
			return geom.P(3, 1), true
		}
	case KindAdder:
		y := 0
		if t.Cin {
			y = 1
		}
		switch port.role {
		case roleInput:
			if port.index == 0 {
				return geom.P(-1, y), true
			}
			return geom.P(-1, 2+y), true
		case roleOutput:
			return geom.P(3, 1+y), true
		case roleCin:
			return geom.P(-1, 0), true
		case roleCout:
			return geom.P(3, 2+y), true
		}
	case KindDFF:
		switch port.role {
		case roleClk:
			return geom.P(0, 3), true
		case roleD:
			return geom.P(0, 1), true
		case roleQ:
			return geom.P(4, 2), true
		case roleAsyncReset:
			return geom.P(2, 0), true
		case roleSyncReset:
			return geom.P(0, 2), true
		case roleEnable:
			return geom.P(0, 4), true
		}
	}
	return geom.GridPos{}, false
}

// Customizable reports whether the type has editable parameters.
func (t PrimitiveType) Customizable() bool {
	switch t.Kind {
	case KindAnd, KindOr, KindXor, KindNand, KindMux, KindDFF, KindAdder, KindComparator:
		return true
	}
	return false
}

// ConnectionsDiff computes the connection index permutation from the old to
// the new type. A nil value means the connection no longer exists; entries
// are present only when the index changed.
func ConnectionsDiff(oldType, newType PrimitiveType) map[int]*int {
	newByPort := make(map[portKey]int)
	for id := 0; id < newType.ConnectionCount(); id++ {
		port, ok := newType.portAt(id)
		if !ok {
			break
		}
		newByPort[port] = id
	}

	diff := make(map[int]*int)
	for id := 0; id < oldType.ConnectionCount(); id++ {
		port, ok := oldType.portAt(id)
		if !ok {
			break
		}
		if newID, found := newByPort[port]; found {
			if newID != id {
				n := newID
				diff[id] = &n
			}
		} else {
			diff[id] = nil
		}
	}
	return diff
}

// Primitive is a built-in component instance.
type Primitive struct {
	Type     PrimitiveType `json:"type"`
	Position geom.GridPos  `json:"pos"`
	Rotation geom.Rotation `json:"rotation"`
}

func (p *Primitive) Pos() geom.GridPos       { return p.Position }
func (p *Primitive) SetPos(pos geom.GridPos) { p.Position = pos }

func (p *Primitive) Dim() geom.Dim {
	return p.Rotation.RotatedDim(p.Type.rawDim())
}

func (p *Primitive) Bounds() geom.GridRect { return bounds(p) }

func (p *Primitive) ConnectionCount() int { return p.Type.ConnectionCount() }

func (p *Primitive) DockCell(i int) (geom.GridPos, bool) {
	raw, ok := p.Type.rawDockCell(i)
	if !ok {
		return geom.GridPos{}, false
	}
	return p.Rotation.RotateCell(p.Position.Add(raw), p.Position, p.Dim()), true
}

func (p *Primitive) DockCells() []geom.GridPos { return dockCells(p) }

func (p *Primitive) OverlapOnly() bool { return p.Type.Kind == KindPoint }

func (p *Primitive) Resizable() bool { return false }

// RotateUp turns the footprint a quarter turn clockwise.
func (p *Primitive) RotateUp() { p.Rotation = p.Rotation.RotatedUp() }

// RotateDown turns the footprint a quarter turn counterclockwise.
func (p *Primitive) RotateDown() { p.Rotation = p.Rotation.RotatedDown() }

func (p *Primitive) Clone() Component {
	cp := *p
	return &cp
}

func (p *Primitive) sealed() {}
