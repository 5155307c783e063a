/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package schematic

import "gridcad/internal/geom"

// TextField is a free-floating annotation. It occupies the index so it can be
// hovered and moved, has no connections, and only blocks placement on true
// overlap.
type TextField struct {
	Text     string       `json:"text"`
	Position geom.GridPos `json:"pos"`
	Size     geom.Dim     `json:"size"`
}

func (f *TextField) Pos() geom.GridPos       { return f.Position }
func (f *TextField) SetPos(pos geom.GridPos) { f.Position = pos }

func (f *TextField) Dim() geom.Dim { return f.Size }

func (f *TextField) Bounds() geom.GridRect { return bounds(f) }

func (f *TextField) ConnectionCount() int { return 0 }

func (f *TextField) DockCell(int) (geom.GridPos, bool) { return geom.GridPos{}, false }

func (f *TextField) DockCells() []geom.GridPos { return nil }

func (f *TextField) OverlapOnly() bool { return true }

func (f *TextField) Resizable() bool { return true }

// Resize sets the field extent, clamped to at least one cell.
func (f *TextField) Resize(d geom.Dim) {
	f.Size = geom.Dim{W: max(d.W, 1), H: max(d.H, 1)}
}

func (f *TextField) Clone() Component {
	cp := *f
	return &cp
}

func (f *TextField) sealed() {}
