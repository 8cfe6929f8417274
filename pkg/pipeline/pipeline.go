// Copyright © 2021 Rak Laptudirm <raklaptudirm@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pipeline drives the concurrent block-hashing pass that turns a
// list of files on disk into v1 piece hashes, a v2 per-file Merkle piece
// layer, or both at once. Hashing of individual blocks is dispatched to
// a worker pool; the driver goroutine remains responsible for ordering
// the results back into pieces, since SHA-1/SHA-256 computation is
// embarrassingly parallel but piece assembly is not.
package pipeline

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultMemoryLimit bounds the number of in-flight hash tasks when the
// caller does not specify one: roughly 64 MiB worth of 16 KiB blocks.
const DefaultMemoryLimit = 64 * 1024 * 1024

// FileSource is one file to be hashed: its path relative to the torrent
// root (used for progress reporting and v2 file tree placement), its
// absolute path on disk, and its length in bytes.
type FileSource struct {
	RelPath string
	AbsPath string
	Length  uint64
}

// ProgressEvent reports incremental hashing progress for one file.
type ProgressEvent struct {
	Path      string
	BytesDone uint64
	Total     uint64
}

// ProgressFunc receives ProgressEvent callbacks from the hashing driver.
// It is called from the driver goroutine only, never concurrently.
type ProgressFunc func(ProgressEvent)

// Options configures a hashing pass.
type Options struct {
	PieceLength uint64
	Workers     int // 0 selects runtime.GOMAXPROCS(0)
	MemoryLimit int // 0 selects DefaultMemoryLimit
	Progress    ProgressFunc
	Logger      zerolog.Logger
}

// memoryLimit returns opts.MemoryLimit, falling back to
// DefaultMemoryLimit when the caller left it unset.
func memoryLimit(opts Options) int {
	if opts.MemoryLimit <= 0 {
		return DefaultMemoryLimit
	}
	return opts.MemoryLimit
}

// jobID tags a single hashing pass's log lines with a correlation id, so
// that the start and end entries of one pass can be matched in a verbose
// run.
func jobID() string {
	return uuid.NewString()
}

// WorkerError reports a fatal fault from the hashing pipeline: an error
// returned while reading or hashing that aborted the pass (a panic is not
// recovered into a WorkerError). It is distinct from a
// metainfo.SchemaError, which reports a malformed torrent rather than a
// fault encountered while building one.
type WorkerError struct {
	Path string
	Err  error
}

func (e *WorkerError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("pipeline: %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("pipeline: %s", e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}
