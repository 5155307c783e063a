/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package griddb

import "gridcad/internal/geom"

// SimplifyPath removes consecutive duplicate waypoints, then collapses runs
// of collinear interior points. Endpoints are never removed; the result of a
// second call is always identical to the first.
func SimplifyPath(path []geom.GridPos) []geom.GridPos {
	if len(path) == 0 {
		return nil
	}
	cleaned := make([]geom.GridPos, 0, len(path))
	cleaned = append(cleaned, path[0])
	for _, p := range path[1:] {
		if p != cleaned[len(cleaned)-1] {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) <= 2 {
		return cleaned
	}

	for i := 1; i < len(cleaned)-1; {
		prev := cleaned[i-1]
		curr := cleaned[i]
		next := cleaned[i+1]
		sameX := prev.X == curr.X && curr.X == next.X
		sameY := prev.Y == curr.Y && curr.Y == next.Y
		if sameX || sameY {
			cleaned = append(cleaned[:i], cleaned[i+1:]...)
		} else {
			i++
		}
	}
	return cleaned
}

// FindPath proposes waypoints between two cells: a vertical detour through
// the column halfway between them. The endpoints themselves are not included.
func FindPath(a, b geom.GridPos) []geom.GridPos {
	midX := (a.X + b.X) / 2
	return []geom.GridPos{
		geom.P(midX, a.Y),
		geom.P(midX, b.Y),
	}
}
