/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists whole documents as JSON snapshots. Saves are
// transactional (temp file plus rename) and keep timestamped backups; loads
// fall back to the latest backup when the snapshot itself is unreadable.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gridcad/internal/griddb"
	"gridcad/internal/schematic"
)

const (
	// FormatVersion is bumped on breaking snapshot format changes.
	FormatVersion = 1

	BackupsDirName = "backups"
)

// snapshotFile is the on-disk shape of a document. Components are tagged
// envelopes keyed by decimal id; nets are persisted alongside so a reload
// reproduces the full document, not just its components.
type snapshotFile struct {
	FormatVersion   int                        `json:"format_version"`
	NextComponentID schematic.ID               `json:"next_component_id"`
	NextNetID       schematic.ID               `json:"next_net_id"`
	Components      map[string]json.RawMessage `json:"components"`
	Nets            map[string]*griddb.Net     `json:"nets"`
}

// Encode serializes a store into snapshot JSON.
func Encode(s *griddb.Store) ([]byte, error) {
	out := snapshotFile{
		FormatVersion: FormatVersion,
		Components:    make(map[string]json.RawMessage, s.ComponentCount()),
		Nets:          make(map[string]*griddb.Net, s.NetCount()),
	}
	out.NextComponentID, out.NextNetID = s.NextIDs()
	for _, id := range s.ComponentIDs() {
		c, _ := s.Component(id)
		raw, err := schematic.MarshalComponent(c)
		if err != nil {
			return nil, fmt.Errorf("marshal component %d: %w", id, err)
		}
		out.Components[strconv.FormatUint(uint64(id), 10)] = raw
	}
	for _, id := range s.NetIDs() {
		n, _ := s.Net(id)
		out.Nets[strconv.FormatUint(uint64(id), 10)] = n
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode rebuilds a store from snapshot JSON. Every index is reconstructed
// through the normal insert path; net endpoints are validated against the
// decoded components.
func Decode(data []byte) (*griddb.Store, error) {
	var in snapshotFile
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if in.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("unsupported snapshot format version %d", in.FormatVersion)
	}

	store := griddb.New()
	for _, key := range sortedIDKeys(in.Components) {
		id, err := parseID(key)
		if err != nil {
			return nil, fmt.Errorf("component key %q: %w", key, err)
		}
		c, err := schematic.UnmarshalComponent(in.Components[key])
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", id, err)
		}
		store.InsertComponent(id, c)
	}
	for _, key := range sortedIDKeys(in.Nets) {
		id, err := parseID(key)
		if err != nil {
			return nil, fmt.Errorf("net key %q: %w", key, err)
		}
		n := in.Nets[key]
		if n == nil {
			return nil, fmt.Errorf("net %d: empty entry", id)
		}
		for _, cp := range []schematic.ConnectionPoint{n.Start, n.End} {
			c, ok := store.Component(cp.Component)
			if !ok {
				return nil, fmt.Errorf("net %d references missing component %d", id, cp.Component)
			}
			if cp.Connection < 0 || cp.Connection >= c.ConnectionCount() {
				return nil, fmt.Errorf("net %d references connection %d of component %d",
					id, cp.Connection, cp.Component)
			}
		}
		if len(n.Points) < 2 {
			return nil, fmt.Errorf("net %d has %d waypoints", id, len(n.Points))
		}
		store.InsertNet(id, n.Clone())
	}
	store.SetNextIDs(in.NextComponentID, in.NextNetID)
	return store, nil
}

func parseID(key string) (schematic.ID, error) {
	v, err := strconv.ParseUint(key, 10, 64)
	if err != nil {
		return 0, errors.New("not a decimal id")
	}
	return schematic.ID(v), nil
}

func sortedIDKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Save writes the store to path with transactional semantics and keeps a
// timestamped backup of the previous snapshot (if present) in a backups
// directory next to it.
func Save(path string, s *griddb.Store) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("snapshot path is required")
	}
	data, err := Encode(s)
	if err != nil {
		return err
	}
	return writeSnapshot(path, data)
}

func writeSnapshot(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	// Back up the previous snapshot before replacing it.
	if _, statErr := os.Stat(path); statErr == nil {
		bdir := filepath.Join(dir, BackupsDirName)
		if err := os.MkdirAll(bdir, 0o755); err != nil {
			return fmt.Errorf("ensure backups dir: %w", err)
		}
		stamp := time.Now().Format("20060102-150405")
		bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(path), stamp))
		if err := copyFile(path, bpath); err != nil {
			return fmt.Errorf("backup current snapshot: %w", err)
		}
	}

	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, data); err != nil {
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot from path. If the file cannot be read or parsed it
// falls back to the latest timestamped backup.
func Load(path string) (*griddb.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		store, berr := loadFromLatestBackup(path)
		if berr != nil {
			return nil, fmt.Errorf("open snapshot: %w; backup attempt: %v", err, berr)
		}
		return store, nil
	}
	store, derr := Decode(data)
	if derr != nil {
		store, berr := loadFromLatestBackup(path)
		if berr != nil {
			return nil, fmt.Errorf("%w; backup attempt: %v", derr, berr)
		}
		return store, nil
	}
	return store, nil
}

func loadFromLatestBackup(path string) (*griddb.Store, error) {
	bdir := filepath.Join(filepath.Dir(path), BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	base := filepath.Base(path)
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, base+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	data, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	store, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return store, nil
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}
