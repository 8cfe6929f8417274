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

package pipeline

import (
	"context"
	"crypto/sha256"
	"os"
	"strings"

	"github.com/raklaptudirm/mtorrent/pkg/merkle"
	"github.com/raklaptudirm/mtorrent/pkg/metainfo"
)

// V2Result is one file's Merkle output: its pieces root and (for files
// larger than one piece) its concatenated piece layer.
type V2Result struct {
	Length     uint64
	PiecesRoot string
	PieceLayer string
}

// HashV2 reads files in the given order, each independently, and returns
// a FileTree plus the map of pieces root to piece layer BEP-52 requires.
// Files are hashed one at a time: each file's blocks are dispatched to
// the worker pool concurrently, but files themselves are processed in
// sequence so that memory use stays bounded by one file's in-flight
// blocks rather than the whole batch's.
func HashV2(ctx context.Context, files []FileSource, opts Options) (metainfo.FileTree, map[string]string, error) {
	id := jobID()
	log := opts.Logger.With().Str("job", id).Str("mode", "v2").Logger()
	log.Debug().Int("files", len(files)).Msg("starting v2 hashing pass")

	layers := make(map[string]string)
	items := make([]metainfo.FileItem, 0, len(files))
	roots := make([]string, 0, len(files))

	for _, f := range files {
		res, err := hashFileV2(ctx, f, opts)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, metainfo.FileItem{Length: f.Length, Path: splitPath(f.RelPath)})
		roots = append(roots, res.PiecesRoot)
		if res.PieceLayer != "" {
			layers[res.PiecesRoot] = res.PieceLayer
		}
	}

	log.Debug().Int("files", len(files)).Msg("v2 hashing pass complete")
	return metainfo.Unflatten(items, roots), layers, nil
}

func hashFileV2(ctx context.Context, f FileSource, opts Options) (V2Result, error) {
	if f.Length == 0 {
		return V2Result{Length: 0}, nil
	}

	file, err := os.Open(f.AbsPath)
	if err != nil {
		return V2Result{}, &WorkerError{Path: f.RelPath, Err: err}
	}
	defer file.Close()

	capacity := memoryLimit(opts) / merkle.BlockSize
	q := newHashQueue(ctx, opts.Workers, capacity, func(b []byte) []byte {
		h := sha256.Sum256(b)
		return h[:]
	})

	var done uint64
	block := make([]byte, merkle.BlockSize)
	for {
		n, err := file.Read(block)
		if n > 0 {
			if pushErr := q.push(append([]byte{}, block[:n]...)); pushErr != nil {
				return V2Result{}, pushErr
			}
			done += uint64(n)
			if opts.Progress != nil {
				opts.Progress(ProgressEvent{Path: f.RelPath, BytesDone: done, Total: f.Length})
			}
		}
		if err != nil {
			break
		}
	}

	results, err := q.drain()
	if err != nil {
		return V2Result{}, err
	}
	if err := q.close(); err != nil {
		return V2Result{}, &WorkerError{Path: f.RelPath, Err: err}
	}

	tree := merkle.NewTree(opts.PieceLength)
	for _, h := range results {
		var leaf [32]byte
		copy(leaf[:], h)
		tree.AddLeaf(leaf)
	}

	root := tree.Root()
	return V2Result{
		Length:     f.Length,
		PiecesRoot: string(root[:]),
		PieceLayer: string(tree.PieceLayer()),
	}, nil
}

func splitPath(rel string) []string {
	return strings.Split(rel, "/")
}
