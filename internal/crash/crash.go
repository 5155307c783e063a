/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crash turns panics into crash reports plus an emergency snapshot
// of the open document.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"gridcad/internal/griddb"
	applog "gridcad/internal/log"
	"gridcad/internal/storage"
	"gridcad/internal/telemetry"
	"gridcad/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Document ties the crash handler to the snapshot it may rescue.
// Path may be empty for a document that was never saved.
type Document struct {
	Path  string
	Store *griddb.Store
}

// Recover captures a panic, logs an error with stacktrace, writes an error
// report file, and attempts a crash-safe emergency save of the document.
//
// Usage: defer func(){ crash.Recover(doc) }()
func Recover(doc *Document) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, _ := writeReport(doc, r, stack)
		if doc != nil && doc.Store != nil {
			if path, err := emergencySave(doc); err != nil {
				l.Error("emergency snapshot failed", slog.Any("err", err))
			} else {
				l.Info("emergency snapshot written", slog.String("path", path))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		// Exit with a non-zero code to indicate failure in CLI context.
		exitFn(2)
	}
}

// reportDir is the backups directory next to the snapshot, or the OS temp
// directory for unsaved documents.
func reportDir(doc *Document) string {
	if doc == nil || doc.Path == "" {
		return os.TempDir()
	}
	dir := filepath.Join(filepath.Dir(doc.Path), storage.BackupsDirName)
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

func emergencySave(doc *Document) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(reportDir(doc), fmt.Sprintf("crash-%s.json", stamp))
	if err := storage.Save(path, doc.Store); err != nil {
		return path, err
	}
	return path, nil
}

func writeReport(doc *Document, panicVal any, stack []byte) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	fname := fmt.Sprintf("crash-%s.log", stamp)
	path := filepath.Join(reportDir(doc), fname)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "GridCAD Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if doc != nil {
		_, _ = fmt.Fprintf(&buf, "Snapshot: %s\n", doc.Path)
		if doc.Store != nil {
			_, _ = fmt.Fprintf(&buf, "Components: %d\nNets: %d\n", doc.Store.ComponentCount(), doc.Store.NetCount())
		}
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, err
	}
	_ = f.Sync()

	// optionally upload anonymized crash report (opt-in via env)
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}
