/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package schematic

import (
	"encoding/json"
	"fmt"

	"gridcad/internal/geom"
)

// PortAlign names the unit edge a port sits on.
type PortAlign uint8

const (
	AlignLeft PortAlign = iota
	AlignTop
	AlignRight
	AlignBottom
)

var alignNames = [4]string{"left", "top", "right", "bottom"}

func (a PortAlign) String() string { return alignNames[a&3] }

func (a PortAlign) MarshalJSON() ([]byte, error) { return json.Marshal(a.String()) }

func (a *PortAlign) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for i, name := range alignNames {
		if s == name {
			*a = PortAlign(i)
			return nil
		}
	}
	return fmt.Errorf("unknown port alignment %q", s)
}

// Port is a named connection on a unit edge. Offset counts cells along the
// edge from the unit origin.
type Port struct {
	Name   string    `json:"name"`
	Offset int       `json:"offset"`
	Align  PortAlign `json:"align"`
}

// dockCell is the cell one step outside the aligned edge at the port offset.
func (p Port) dockCell(pos geom.GridPos, d geom.Dim) geom.GridPos {
	switch p.Align {
	case AlignLeft:
		return geom.P(pos.X-1, pos.Y+p.Offset)
	case AlignTop:
		return geom.P(pos.X+p.Offset, pos.Y-1)
	case AlignRight:
		return geom.P(pos.X+d.W, pos.Y+p.Offset)
	default:
		return geom.P(pos.X+p.Offset, pos.Y+d.H)
	}
}

// Unit is a user-defined block with named ports on its edges.
type Unit struct {
	Position geom.GridPos `json:"pos"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Ports    []Port       `json:"ports"`
}

func (u *Unit) Pos() geom.GridPos       { return u.Position }
func (u *Unit) SetPos(pos geom.GridPos) { u.Position = pos }

func (u *Unit) Dim() geom.Dim { return geom.Dim{W: u.Width, H: u.Height} }

func (u *Unit) Bounds() geom.GridRect { return bounds(u) }

func (u *Unit) ConnectionCount() int { return len(u.Ports) }

func (u *Unit) DockCell(i int) (geom.GridPos, bool) {
	if i < 0 || i >= len(u.Ports) {
		return geom.GridPos{}, false
	}
	return u.Ports[i].dockCell(u.Position, u.Dim()), true
}

func (u *Unit) DockCells() []geom.GridPos { return dockCells(u) }

func (u *Unit) OverlapOnly() bool { return false }

func (u *Unit) Resizable() bool { return true }

// Resize sets the unit size, clamped so every port keeps a cell on its edge.
func (u *Unit) Resize(d geom.Dim) {
	minW, minH := 1, 1
	for _, p := range u.Ports {
		switch p.Align {
		case AlignLeft, AlignRight:
			if p.Offset+1 > minH {
				minH = p.Offset + 1
			}
		case AlignTop, AlignBottom:
			if p.Offset+1 > minW {
				minW = p.Offset + 1
			}
		}
	}
	u.Width = max(d.W, minW)
	u.Height = max(d.H, minH)
}

// AddPort appends a port; its connection index is the new last index.
func (u *Unit) AddPort(p Port) { u.Ports = append(u.Ports, p) }

// RemovePort deletes the port at the given connection index. Indices of the
// following ports shift down by one.
func (u *Unit) RemovePort(i int) (Port, bool) {
	if i < 0 || i >= len(u.Ports) {
		return Port{}, false
	}
	p := u.Ports[i]
	u.Ports = append(u.Ports[:i], u.Ports[i+1:]...)
	return p, true
}

func (u *Unit) Clone() Component {
	cp := *u
	cp.Ports = append([]Port(nil), u.Ports...)
	return &cp
}

func (u *Unit) sealed() {}
