/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom provides the integer grid geometry the circuit database is
// built on: cell addresses, inclusive cell rectangles and the cyclic
// quarter-turn rotation group.
//
// All coordinates are in grid cells. A GridRect spans whole cells, so a
// single-cell rectangle has Min == Max.
package geom

// GridPos is the address of one grid cell.
type GridPos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// P is a shorthand constructor.
func P(x, y int) GridPos { return GridPos{X: x, Y: y} }

func (p GridPos) Add(q GridPos) GridPos { return GridPos{p.X + q.X, p.Y + q.Y} }
func (p GridPos) Sub(q GridPos) GridPos { return GridPos{p.X - q.X, p.Y - q.Y} }

// PointF is a continuous position in grid units, used for cursor hit tests.
type PointF struct {
	X float64
	Y float64
}

// ToPointF returns the cell's top-left corner in grid units.
func (p GridPos) ToPointF() PointF { return PointF{float64(p.X), float64(p.Y)} }

// Dim is a footprint size in whole cells.
type Dim struct {
	W int `json:"w"`
	H int `json:"h"`
}

// GridRect is an inclusive cell-aligned rectangle: both Min and Max cells
// belong to the rectangle.
type GridRect struct {
	Min GridPos
	Max GridPos
}

// Rect builds a rectangle from an origin cell and a footprint size.
func Rect(origin GridPos, d Dim) GridRect {
	return GridRect{Min: origin, Max: GridPos{origin.X + d.W - 1, origin.Y + d.H - 1}}
}

func (r GridRect) Contains(p GridPos) bool {
	return p.X >= r.Min.X && p.Y >= r.Min.Y && p.X <= r.Max.X && p.Y <= r.Max.Y
}

func (r GridRect) Intersects(o GridRect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X && r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// DistanceSq returns the squared exterior distance from the rectangle to a
// cell; zero when the cell lies inside.
func (r GridRect) DistanceSq(p GridPos) int {
	dx := 0
	if p.X < r.Min.X {
		dx = r.Min.X - p.X
	} else if p.X > r.Max.X {
		dx = p.X - r.Max.X
	}
	dy := 0
	if p.Y < r.Min.Y {
		dy = r.Min.Y - p.Y
	} else if p.Y > r.Max.Y {
		dy = p.Y - r.Max.Y
	}
	return dx*dx + dy*dy
}

// Inflate grows the rectangle by n cells on every side.
func (r GridRect) Inflate(n int) GridRect {
	return GridRect{
		Min: GridPos{r.Min.X - n, r.Min.Y - n},
		Max: GridPos{r.Max.X + n, r.Max.Y + n},
	}
}

// Union returns the smallest rectangle covering both.
func (r GridRect) Union(o GridRect) GridRect {
	out := r
	if o.Min.X < out.Min.X {
		out.Min.X = o.Min.X
	}
	if o.Min.Y < out.Min.Y {
		out.Min.Y = o.Min.Y
	}
	if o.Max.X > out.Max.X {
		out.Max.X = o.Max.X
	}
	if o.Max.Y > out.Max.Y {
		out.Max.Y = o.Max.Y
	}
	return out
}
