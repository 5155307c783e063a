/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"gridcad/internal/geom"
	"gridcad/internal/griddb"
	"gridcad/internal/schematic"
)

// ErrInvalidPort rejects a port whose offset does not fit its unit edge.
var ErrInvalidPort = errors.New("port offset outside the unit edge")

func (s *Session) unit(id griddb.ID) (*schematic.Unit, error) {
	c, ok := s.store.Component(id)
	if !ok {
		return nil, fmt.Errorf("component %d: %w", id, ErrNotFound)
	}
	u, ok := c.(*schematic.Unit)
	if !ok {
		return nil, fmt.Errorf("component %d: %w", id, ErrNotSupported)
	}
	return u, nil
}

func portFits(u *schematic.Unit, p schematic.Port) bool {
	if p.Offset < 0 {
		return false
	}
	switch p.Align {
	case schematic.AlignLeft, schematic.AlignRight:
		return p.Offset < u.Height
	case schematic.AlignTop, schematic.AlignBottom:
		return p.Offset < u.Width
	}
	return false
}

// AddPort appends a port to a unit. Existing nets are unaffected.
func (s *Session) AddPort(id griddb.ID, p schematic.Port) error {
	u, err := s.unit(id)
	if err != nil {
		return err
	}
	if !portFits(u, p) {
		return fmt.Errorf("add port to component %d: %w", id, ErrInvalidPort)
	}
	edited := u.Clone().(*schematic.Unit)
	edited.AddPort(p)
	s.history.Do(s.store, &griddb.ChangeComponent{ID: id, New: edited})
	s.log.Debug("port added",
		slog.Uint64("id", uint64(id)), slog.String("name", p.Name))
	return nil
}

// RenamePort changes a port's label. Existing nets are unaffected.
func (s *Session) RenamePort(id griddb.ID, index int, name string) error {
	u, err := s.unit(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(u.Ports) {
		return fmt.Errorf("rename port %d of component %d: %w", index, id, ErrNotFound)
	}
	edited := u.Clone().(*schematic.Unit)
	edited.Ports[index].Name = name
	s.history.Do(s.store, &griddb.ChangeComponent{ID: id, New: edited})
	return nil
}

// RemovePort deletes a unit port. Nets ending exactly at the removed index
// are deleted; nets ending at a higher index have that endpoint decremented,
// since the remaining ports shift down.
func (s *Session) RemovePort(id griddb.ID, index int) error {
	u, err := s.unit(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(u.Ports) {
		return fmt.Errorf("remove port %d of component %d: %w", index, id, ErrNotFound)
	}

	var parts []griddb.Transaction
	for _, netID := range s.store.ConnectedNets(id) {
		net, _ := s.store.Net(netID)
		remapped := net.Clone()
		dead := false
		for _, cp := range []*schematic.ConnectionPoint{&remapped.Start, &remapped.End} {
			if cp.Component != id {
				continue
			}
			switch {
			case cp.Connection == index:
				dead = true
			case cp.Connection > index:
				cp.Connection--
			}
		}
		if dead {
			parts = append(parts, &griddb.ChangeNet{ID: netID})
		} else if remapped.Start != net.Start || remapped.End != net.End {
			parts = append(parts, &griddb.ChangeNet{ID: netID, New: remapped})
		}
	}

	edited := u.Clone().(*schematic.Unit)
	edited.RemovePort(index)
	parts = append(parts, &griddb.ChangeComponent{ID: id, New: edited})
	s.history.Do(s.store, &griddb.Combined{Parts: parts})
	s.log.Debug("port removed",
		slog.Uint64("id", uint64(id)), slog.Int("index", index), slog.Int("net_edits", len(parts)-1))
	return nil
}

// CustomizePrimitive swaps a primitive's parameterization in place, for
// example changing a gate's input count or toggling a flip-flop's reset.
// Nets whose connection vanished are deleted; the rest have their endpoint
// indices remapped and their geometry rebuilt from the dock cell deltas.
func (s *Session) CustomizePrimitive(id griddb.ID, newType schematic.PrimitiveType) error {
	c, ok := s.store.Component(id)
	if !ok {
		return fmt.Errorf("customize component %d: %w", id, ErrNotFound)
	}
	prim, ok := c.(*schematic.Primitive)
	if !ok || !prim.Type.Customizable() || !newType.Customizable() {
		return fmt.Errorf("customize component %d: %w", id, ErrNotSupported)
	}

	edited := prim.Clone().(*schematic.Primitive)
	edited.Type = newType
	if !s.store.IsAvailableLocation(edited.Position, edited.Dim(), id) {
		return fmt.Errorf("customize component %d: %w", id, ErrPlacementConflict)
	}

	diff := schematic.ConnectionsDiff(prim.Type, newType)
	var parts []griddb.Transaction
	for _, netID := range s.store.ConnectedNets(id) {
		net, _ := s.store.Net(netID)
		remapped := net.Clone()
		dead := false
		var sd, ed geom.GridPos
		for i, cp := range []*schematic.ConnectionPoint{&remapped.Start, &remapped.End} {
			if cp.Component != id {
				continue
			}
			target := cp.Connection
			if mapped, changed := diff[cp.Connection]; changed {
				if mapped == nil {
					dead = true
					break
				}
				target = *mapped
			}
			oldCell, ok1 := prim.DockCell(cp.Connection)
			newCell, ok2 := edited.DockCell(target)
			if !ok1 || !ok2 {
				panic(fmt.Sprintf("editor: connection diff out of range for component %d", id))
			}
			cp.Connection = target
			if i == 0 {
				sd = newCell.Sub(oldCell)
			} else {
				ed = newCell.Sub(oldCell)
			}
		}
		if dead {
			parts = append(parts, &griddb.ChangeNet{ID: netID})
			continue
		}
		rebuilt := rebuildNet(net, sd, ed)
		if rebuilt == nil && remapped.Start == net.Start && remapped.End == net.End {
			continue
		}
		if rebuilt == nil {
			rebuilt = net.Clone()
		}
		rebuilt.Start = remapped.Start
		rebuilt.End = remapped.End
		parts = append(parts, &griddb.ChangeNet{ID: netID, New: rebuilt})
	}

	parts = append(parts, &griddb.ChangeComponent{ID: id, New: edited})
	s.history.Do(s.store, &griddb.Combined{Parts: parts})
	s.log.Debug("primitive customized", slog.Uint64("id", uint64(id)))
	return nil
}
