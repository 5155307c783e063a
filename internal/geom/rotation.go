/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"encoding/json"
	"fmt"
)

// Rotation is a quarter-turn orientation. The four values form a cyclic
// group under Add.
type Rotation uint8

const (
	Rot0 Rotation = iota
	Rot90
	Rot180
	Rot270
)

var rotationNames = [4]string{"ROT0", "ROT90", "ROT180", "ROT270"}

func (r Rotation) String() string { return rotationNames[r&3] }

// MarshalJSON writes the rotation as its symbolic name.
func (r Rotation) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

func (r *Rotation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for i, name := range rotationNames {
		if s == name {
			*r = Rotation(i)
			return nil
		}
	}
	return fmt.Errorf("unknown rotation %q", s)
}

// RotatedUp returns the next quarter turn.
func (r Rotation) RotatedUp() Rotation { return (r + 1) & 3 }

// RotatedDown returns the previous quarter turn.
func (r Rotation) RotatedDown() Rotation { return (r + 3) & 3 }

// Add composes two rotations.
func (r Rotation) Add(o Rotation) Rotation { return (r + o) & 3 }

func (r Rotation) cos() int {
	switch r & 3 {
	case Rot0:
		return 1
	case Rot180:
		return -1
	default:
		return 0
	}
}

func (r Rotation) sin() int {
	switch r & 3 {
	case Rot90:
		return 1
	case Rot270:
		return -1
	default:
		return 0
	}
}

// RotatedDim swaps width and height on odd quarter turns.
func (r Rotation) RotatedDim(d Dim) Dim {
	if r == Rot90 || r == Rot270 {
		return Dim{W: d.H, H: d.W}
	}
	return d
}

// RotateAbout rotates a cell around a center cell.
func (r Rotation) RotateAbout(p, center GridPos) GridPos {
	dx := p.X - center.X
	dy := p.Y - center.Y
	c := r.cos()
	s := r.sin()
	return GridPos{
		X: center.X + dx*c - dy*s,
		Y: center.Y + dx*s + dy*c,
	}
}

// RotateCell maps an unrotated footprint cell into the rotated footprint.
// The rotation about origin is followed by an offset derived from the rotated
// dimension, so the footprint rectangle stays anchored at origin and always
// extends right and down from it.
func (r Rotation) RotateCell(p, origin GridPos, rotatedDim Dim) GridPos {
	var ofs GridPos
	switch r & 3 {
	case Rot90:
		ofs = GridPos{rotatedDim.W - 1, 0}
	case Rot180:
		ofs = GridPos{rotatedDim.W - 1, rotatedDim.H - 1}
	case Rot270:
		ofs = GridPos{0, rotatedDim.H - 1}
	}
	return r.RotateAbout(p, origin).Add(ofs)
}
