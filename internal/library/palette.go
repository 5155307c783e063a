/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package library

import (
	"gridcad/internal/geom"
	"gridcad/internal/schematic"
)

// PaletteEntry is one pickable component template. Make returns a fresh
// instance positioned at the origin; the caller moves it into place.
type PaletteEntry struct {
	Name string
	Make func() schematic.Component
}

func primitive(t schematic.PrimitiveType) func() schematic.Component {
	return func() schematic.Component {
		return &schematic.Primitive{Type: t}
	}
}

// Builtin returns the standard palette in display order.
func Builtin() []PaletteEntry {
	return []PaletteEntry{
		{Name: "AND", Make: primitive(schematic.PrimitiveType{Kind: schematic.KindAnd, Inputs: 2})},
		{Name: "OR", Make: primitive(schematic.PrimitiveType{Kind: schematic.KindOr, Inputs: 2})},
		{Name: "XOR", Make: primitive(schematic.PrimitiveType{Kind: schematic.KindXor, Inputs: 2})},
		{Name: "NAND", Make: primitive(schematic.PrimitiveType{Kind: schematic.KindNand, Inputs: 2})},
		{Name: "NOT", Make: primitive(schematic.PrimitiveType{Kind: schematic.KindNot})},
		{Name: "Junction", Make: primitive(schematic.PrimitiveType{Kind: schematic.KindPoint})},
		{Name: "Mux", Make: primitive(schematic.PrimitiveType{Kind: schematic.KindMux, Inputs: 2})},
		{Name: "Input", Make: primitive(schematic.PrimitiveType{Kind: schematic.KindInput})},
		{Name: "Output", Make: primitive(schematic.PrimitiveType{Kind: schematic.KindOutput})},
		{Name: "Comparator", Make: primitive(schematic.PrimitiveType{Kind: schematic.KindComparator, Op: schematic.OpEQ})},
		{Name: "Adder", Make: primitive(schematic.PrimitiveType{Kind: schematic.KindAdder})},
		{Name: "D Flip-Flop", Make: primitive(schematic.PrimitiveType{Kind: schematic.KindDFF})},
		{Name: "Unit", Make: func() schematic.Component {
			return &schematic.Unit{
				Width:  4,
				Height: 4,
				Ports: []schematic.Port{
					{Name: "in", Offset: 1, Align: schematic.AlignLeft},
					{Name: "out", Offset: 1, Align: schematic.AlignRight},
				},
			}
		}},
		{Name: "Text", Make: func() schematic.Component {
			f := &schematic.TextField{Text: "text"}
			f.Resize(geom.Dim{W: 4, H: 1})
			return f
		}},
	}
}
