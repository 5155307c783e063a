/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package griddb

import (
	"testing"

	"gridcad/internal/geom"
)

func pathEq(a, b []geom.GridPos) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSimplifyPath(t *testing.T) {
	tests := []struct {
		name string
		in   []geom.GridPos
		want []geom.GridPos
	}{
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
		{
			name: "duplicates",
			in:   []geom.GridPos{geom.P(0, 0), geom.P(0, 0), geom.P(1, 0)},
			want: []geom.GridPos{geom.P(0, 0), geom.P(1, 0)},
		},
		{
			name: "collinear run",
			in:   []geom.GridPos{geom.P(0, 0), geom.P(2, 0), geom.P(5, 0)},
			want: []geom.GridPos{geom.P(0, 0), geom.P(5, 0)},
		},
		{
			name: "corner kept",
			in:   []geom.GridPos{geom.P(0, 0), geom.P(3, 0), geom.P(3, 2)},
			want: []geom.GridPos{geom.P(0, 0), geom.P(3, 0), geom.P(3, 2)},
		},
		{
			name: "mixed",
			in: []geom.GridPos{
				geom.P(0, 0), geom.P(1, 0), geom.P(1, 0),
				geom.P(1, 2), geom.P(1, 4), geom.P(3, 4),
			},
			want: []geom.GridPos{geom.P(0, 0), geom.P(1, 0), geom.P(1, 4), geom.P(3, 4)},
		},
		{
			name: "all same point",
			in:   []geom.GridPos{geom.P(2, 2), geom.P(2, 2), geom.P(2, 2)},
			want: []geom.GridPos{geom.P(2, 2)},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SimplifyPath(tc.in)
			if !pathEq(got, tc.want) {
				t.Fatalf("simplify = %v, want %v", got, tc.want)
			}
			again := SimplifyPath(got)
			if !pathEq(again, got) {
				t.Fatalf("not idempotent: %v vs %v", again, got)
			}
		})
	}
}

func TestFindPath(t *testing.T) {
	got := FindPath(geom.P(0, 2), geom.P(6, 8))
	want := []geom.GridPos{geom.P(3, 2), geom.P(3, 8)}
	if !pathEq(got, want) {
		t.Fatalf("path = %v, want %v", got, want)
	}

	// same row collapses to a straight run after simplification
	full := append([]geom.GridPos{geom.P(0, 4)}, FindPath(geom.P(0, 4), geom.P(8, 4))...)
	full = append(full, geom.P(8, 4))
	simplified := SimplifyPath(full)
	if !pathEq(simplified, []geom.GridPos{geom.P(0, 4), geom.P(8, 4)}) {
		t.Fatalf("straight run = %v", simplified)
	}
}
