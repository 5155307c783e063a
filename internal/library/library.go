/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package library provides the component palette: the built-in primitives
// and a user library of named custom units persisted in an embedded SQLite
// database.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	applog "gridcad/internal/log"
	"gridcad/internal/schematic"
	"gridcad/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	LibraryFileName = "library.sqlite"

	// schemaVersion tracks the local SQLite schema for the user library.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// ErrUnitNotFound is returned when a named unit is absent from the library.
var ErrUnitNotFound = errors.New("unit not found in library")

// Library is a handle to the user unit library. Safe to keep open for the
// lifetime of the application.
type Library struct {
	db *sql.DB
}

// Open opens (or creates) the user library database at path, enables WAL
// mode and brings the schema up to date.
func Open(path string) (*Library, error) {
	l := applog.WithOperation(applog.WithComponent("library"), "open").With(
		slog.String("path", path),
	)
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("library path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create library dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create library dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureLibrarySchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure library schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("library ready")
	return &Library{db: db}, nil
}

// Close releases the database handle.
func (l *Library) Close() error { return l.db.Close() }

// SaveUnit stores (or replaces) a named unit template.
func (l *Library) SaveUnit(ctx context.Context, name string, u *schematic.Unit) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("unit name is required")
	}
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal unit: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO units(name, data, updated_at) VALUES(?,?,?)
		 ON CONFLICT(name) DO UPDATE SET data=excluded.data, updated_at=excluded.updated_at`,
		name, string(data), now)
	if err != nil {
		return fmt.Errorf("save unit: %w", err)
	}
	return nil
}

// LoadUnit returns a fresh copy of a named unit template.
func (l *Library) LoadUnit(ctx context.Context, name string) (*schematic.Unit, error) {
	var data string
	err := l.db.QueryRowContext(ctx, `SELECT data FROM units WHERE name=?`, name).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("unit %q: %w", name, ErrUnitNotFound)
	case err != nil:
		return nil, fmt.Errorf("load unit: %w", err)
	}
	var u schematic.Unit
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil, fmt.Errorf("parse unit %q: %w", name, err)
	}
	if u.Ports == nil {
		u.Ports = []schematic.Port{}
	}
	return &u, nil
}

// ListUnits returns the names of all stored units, sorted.
func (l *Library) ListUnits(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT name FROM units ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan unit name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// DeleteUnit removes a named unit template.
func (l *Library) DeleteUnit(ctx context.Context, name string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM units WHERE name=?`, name)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("unit %q: %w", name, ErrUnitNotFound)
	}
	return nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx,
			`INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`,
			schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Update app and timestamp only; keep existing schema for migrations
		if _, err := db.ExecContext(ctx,
			`UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func ensureLibrarySchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS units (
			name       TEXT PRIMARY KEY,
			data       TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure library schema: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Do not downgrade; just continue
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_units_updated_at ON units(updated_at);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE version SET schema=?, updated_at=? WHERE id=1`,
				next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
		default:
			// Unknown future step; break
		}
		cur = next
	}
	return nil
}
