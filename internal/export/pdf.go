/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"gridcad/internal/griddb"
	"gridcad/internal/schematic"
)

// ExportPDF renders the whole document onto a single custom-sized PDF page
// at outPath. Units are points; one grid cell maps to Options.CellSize pt.
// Built-in Helvetica keeps text vector without embedding fonts.
func ExportPDF(outPath string, s *griddb.Store, opt Options) error {
	opt = opt.withDefaults()
	l := newLayout(s, opt)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: l.width, Ht: l.height},
		OrientationStr: "",
	})
	pdf.SetTitle("GridCAD schematic", true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", opt.CellSize*0.55)

	for _, id := range s.ComponentIDs() {
		c, _ := s.Component(id)
		x, y := l.corner(c.Pos())
		d := c.Dim()
		w := float64(d.W) * l.cell
		h := float64(d.H) * l.cell
		if _, isText := c.(*schematic.TextField); isText {
			pdf.SetDrawColor(153, 153, 153)
			pdf.SetDashPattern([]float64{3, 2}, 0)
			pdf.Rect(x, y, w, h, "D")
			pdf.SetDashPattern([]float64{}, 0)
		} else {
			pdf.SetDrawColor(0, 0, 0)
			pdf.SetFillColor(248, 248, 248)
			pdf.SetLineWidth(1.5)
			pdf.Rect(x, y, w, h, "FD")
		}
		if label := componentLabel(c); label != "" {
			pdf.SetTextColor(0, 0, 0)
			tw := pdf.GetStringWidth(label)
			pdf.Text(x+w/2-tw/2, y+h/2+opt.CellSize*0.2, label)
		}
		for i, cell := range c.DockCells() {
			cx, cy := l.center(cell)
			pdf.SetFillColor(0, 0, 0)
			pdf.Circle(cx, cy, opt.CellSize*0.12, "F")
			if opt.PortLabels {
				if name := portName(c, i); name != "" {
					pdf.SetFontSize(opt.CellSize * 0.4)
					tw := pdf.GetStringWidth(name)
					pdf.Text(cx-tw/2, cy-opt.CellSize*0.25, name)
					pdf.SetFontSize(opt.CellSize * 0.55)
				}
			}
		}
	}

	pdf.SetDrawColor(0, 102, 0)
	pdf.SetLineWidth(1.5)
	for _, id := range s.NetIDs() {
		n, _ := s.Net(id)
		for i := 0; i+1 < len(n.Points); i++ {
			x1, y1 := l.center(n.Points[i])
			x2, y2 := l.center(n.Points[i+1])
			pdf.Line(x1, y1, x2, y2)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
