/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package griddb

import (
	"gridcad/internal/geom"
	"gridcad/internal/schematic"
)

// Net is a rectilinear wire between two connection points. Points holds the
// waypoint cells in order; every consecutive pair shares an axis. The wire is
// drawn through cell centers.
type Net struct {
	Start  schematic.ConnectionPoint `json:"start"`
	End    schematic.ConnectionPoint `json:"end"`
	Points []geom.GridPos            `json:"points"`
}

// Clone returns a deep copy of the net.
func (n *Net) Clone() *Net {
	cp := *n
	cp.Points = append([]geom.GridPos(nil), n.Points...)
	return &cp
}

// Segments derives the per-segment view of the wire. Only the first segment
// carries the start connection and only the last carries the end connection.
func (n *Net) Segments(netID schematic.ID) []NetSegment {
	if len(n.Points) < 2 {
		return nil
	}
	out := make([]NetSegment, 0, len(n.Points)-1)
	for i := 0; i < len(n.Points)-1; i++ {
		seg, _ := n.Segment(i, netID)
		out = append(out, seg)
	}
	return out
}

// Segment returns the i-th segment of the wire.
func (n *Net) Segment(i int, netID schematic.ID) (NetSegment, bool) {
	if i < 0 || i+1 >= len(n.Points) {
		return NetSegment{}, false
	}
	seg := NetSegment{
		Index: i,
		NetID: netID,
		P1:    n.Points[i],
		P2:    n.Points[i+1],
	}
	if i == 0 {
		start := n.Start
		seg.Con1 = &start
	}
	if i == len(n.Points)-2 {
		end := n.End
		seg.Con2 = &end
	}
	return seg, true
}

// NetSegment is one straight piece of a net, a derived view used for spatial
// indexing and hit testing.
type NetSegment struct {
	Index int
	NetID schematic.ID
	P1    geom.GridPos
	P2    geom.GridPos
	// Con1/Con2 are set only on the terminal segments.
	Con1 *schematic.ConnectionPoint
	Con2 *schematic.ConnectionPoint
}

func (s NetSegment) IsHorizontal() bool { return s.P1.Y == s.P2.Y }

// Bounds is the cell-aligned envelope of the segment.
func (s NetSegment) Bounds() geom.GridRect {
	r := geom.GridRect{Min: s.P1, Max: s.P1}
	return r.Union(geom.GridRect{Min: s.P2, Max: s.P2})
}

// Hit reports whether a continuous point in grid units lies on the segment.
// The band extends tolerance grid units from the line through the cell
// centers and is clipped along the segment's long axis.
func (s NetSegment) Hit(pt geom.PointF, tolerance float64) bool {
	ax := float64(s.P1.X) + 0.5
	ay := float64(s.P1.Y) + 0.5
	bx := float64(s.P2.X) + 0.5
	by := float64(s.P2.Y) + 0.5

	if s.IsHorizontal() {
		if pt.X < min(ax, bx) || pt.X > max(ax, bx) {
			return false
		}
	} else {
		if pt.Y < min(ay, by) || pt.Y > max(ay, by) {
			return false
		}
	}

	abx := bx - ax
	aby := by - ay
	apx := pt.X - ax
	apy := pt.Y - ay
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return apx*apx+apy*apy < tolerance*tolerance
	}
	cross := abx*apy - aby*apx
	return (cross*cross)/lenSq < tolerance*tolerance
}

// segmentRef identifies a segment inside the spatial index. Comparable so the
// index can delete by value.
type segmentRef struct {
	NetID schematic.ID
	Index int
}
