/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"log/slog"

	"gridcad/internal/griddb"
	"gridcad/internal/log"
)

// LoadResult is delivered by LoadAsync: a complete replacement store, or the
// error that prevented building one.
type LoadResult struct {
	Store *griddb.Store
	Err   error
}

// SaveAsync encodes the store synchronously (the store is not safe to read
// from another goroutine) and performs the file IO off the calling
// goroutine. The returned channel delivers exactly one result.
func SaveAsync(path string, s *griddb.Store) <-chan error {
	done := make(chan error, 1)
	data, err := Encode(s)
	if err != nil {
		done <- err
		return done
	}
	go func() {
		err := writeSnapshot(path, data)
		if err != nil {
			log.WithComponent("storage").Error("async save failed",
				slog.String("path", path), slog.Any("err", err))
		}
		done <- err
	}()
	return done
}

// LoadAsync reads and decodes a snapshot off the calling goroutine. The
// resulting store has not been shared and can be swapped in directly.
func LoadAsync(path string) <-chan LoadResult {
	done := make(chan LoadResult, 1)
	go func() {
		store, err := Load(path)
		done <- LoadResult{Store: store, Err: err}
	}()
	return done
}
