/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gridcad/internal/griddb"
	"gridcad/internal/schematic"
)

// ExportSVG renders the whole document into a single SVG file at outPath.
func ExportSVG(outPath string, s *griddb.Store, opt Options) error {
	opt = opt.withDefaults()
	l := newLayout(s, opt)

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%s\" height=\"%s\" viewBox=\"0 0 %s %s\">\n",
		fmtF(l.width), fmtF(l.height), fmtF(l.width), fmtF(l.height))
	wf("  <rect x=\"0\" y=\"0\" width=\"%s\" height=\"%s\" fill=\"#ffffff\"/>\n",
		fmtF(l.width), fmtF(l.height))

	fontSize := opt.CellSize * 0.55

	for _, id := range s.ComponentIDs() {
		c, _ := s.Component(id)
		x, y := l.corner(c.Pos())
		d := c.Dim()
		w := float64(d.W) * l.cell
		h := float64(d.H) * l.cell
		if _, isText := c.(*schematic.TextField); isText {
			wf("  <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" fill=\"none\" stroke=\"#999999\" stroke-dasharray=\"3 2\" stroke-width=\"1\"/>\n",
				fmtF(x), fmtF(y), fmtF(w), fmtF(h))
		} else {
			wf("  <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" fill=\"#f8f8f8\" stroke=\"#000000\" stroke-width=\"1.5\"/>\n",
				fmtF(x), fmtF(y), fmtF(w), fmtF(h))
		}
		if label := componentLabel(c); label != "" {
			wf("  <text x=\"%s\" y=\"%s\" font-family=\"sans-serif\" font-size=\"%s\" text-anchor=\"middle\" dominant-baseline=\"central\">%s</text>\n",
				fmtF(x+w/2), fmtF(y+h/2), fmtF(fontSize), escapeText(label))
		}
		for i, cell := range c.DockCells() {
			cx, cy := l.center(cell)
			wf("  <circle cx=\"%s\" cy=\"%s\" r=\"%s\" fill=\"#000000\"/>\n",
				fmtF(cx), fmtF(cy), fmtF(opt.CellSize*0.12))
			if opt.PortLabels {
				if name := portName(c, i); name != "" {
					wf("  <text x=\"%s\" y=\"%s\" font-family=\"sans-serif\" font-size=\"%s\" text-anchor=\"middle\">%s</text>\n",
						fmtF(cx), fmtF(cy-opt.CellSize*0.25), fmtF(fontSize*0.7), escapeText(name))
				}
			}
		}
	}

	for _, id := range s.NetIDs() {
		n, _ := s.Net(id)
		pts := make([]string, 0, len(n.Points))
		for _, p := range n.Points {
			cx, cy := l.center(p)
			pts = append(pts, fmtF(cx)+","+fmtF(cy))
		}
		wf("  <polyline points=\"%s\" fill=\"none\" stroke=\"#006600\" stroke-width=\"1.5\"/>\n",
			strings.Join(pts, " "))
	}

	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("render svg: %w", werr)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
