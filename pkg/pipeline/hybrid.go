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
	"crypto/sha1"
	"crypto/sha256"
	"os"

	"github.com/raklaptudirm/mtorrent/pkg/merkle"
	"github.com/raklaptudirm/mtorrent/pkg/metainfo"
)

// HybridResult is the combined output of a hybrid hashing pass: the
// v1-view file list (including generated padfiles), the concatenated
// v1 piece hashes, and the v2 file tree and piece layers.
type HybridResult struct {
	Files       []metainfo.FileItem
	Pieces      []byte
	FileTree    metainfo.FileTree
	PieceLayers map[string]string
}

// HashHybrid hashes files in a single pass per file, producing both the
// v1 piece sequence (with generated BEP-47 padfiles aligning each file
// to a piece boundary) and the v2 file tree, from the same block reads.
func HashHybrid(ctx context.Context, files []FileSource, opts Options) (*HybridResult, error) {
	id := jobID()
	log := opts.Logger.With().Str("job", id).Str("mode", "hybrid").Logger()
	log.Debug().Int("files", len(files)).Msg("starting hybrid hashing pass")

	v1q := newHashQueue(ctx, opts.Workers, memoryLimit(opts)/int(opts.PieceLength), func(b []byte) []byte {
		h := sha1.Sum(b)
		return h[:]
	})

	result := &HybridResult{
		FileTree:    make(metainfo.FileTree),
		PieceLayers: make(map[string]string),
	}
	items := make([]metainfo.FileItem, 0, len(files))
	roots := make([]string, 0, len(files))

	for _, f := range files {
		root, layer, err := hashHybridFile(ctx, f, opts, v1q, &result.Files)
		if err != nil {
			return nil, err
		}
		items = append(items, metainfo.FileItem{Length: f.Length, Path: splitPath(f.RelPath)})
		roots = append(roots, root)
		if layer != "" {
			result.PieceLayers[root] = layer
		}
	}
	result.FileTree = metainfo.Unflatten(items, roots)

	pieceHashes, err := v1q.drain()
	if err != nil {
		return nil, err
	}
	if err := v1q.close(); err != nil {
		return nil, &WorkerError{Err: err}
	}

	pieces := make([]byte, 0, len(pieceHashes)*20)
	for _, h := range pieceHashes {
		pieces = append(pieces, h...)
	}
	result.Pieces = pieces

	log.Debug().Int("files", len(files)).Int("pieces", len(pieceHashes)).Msg("hybrid hashing pass complete")
	return result, nil
}

// hashHybridFile reads one file's blocks, dispatching each to the v2
// leaf hasher and accumulating raw bytes into the shared v1 piece
// queue; it appends the file's own FileItem (and a trailing padfile, if
// the file does not end on a piece boundary) to v1Files in order.
func hashHybridFile(ctx context.Context, f FileSource, opts Options, v1q *hashQueue, v1Files *[]metainfo.FileItem) (string, string, error) {
	*v1Files = append(*v1Files, metainfo.FileItem{Length: f.Length, Path: splitPath(f.RelPath)})

	if f.Length == 0 {
		return "", "", nil
	}

	file, err := os.Open(f.AbsPath)
	if err != nil {
		return "", "", &WorkerError{Path: f.RelPath, Err: err}
	}
	defer file.Close()

	v2q := newHashQueue(ctx, opts.Workers, memoryLimit(opts)/merkle.BlockSize, func(b []byte) []byte {
		h := sha256.Sum256(b)
		return h[:]
	})

	var pieceBuf []byte
	var done uint64
	block := make([]byte, merkle.BlockSize)
	for {
		n, readErr := file.Read(block)
		if n > 0 {
			chunk := append([]byte{}, block[:n]...)
			if pushErr := v2q.push(chunk); pushErr != nil {
				return "", "", pushErr
			}

			pieceBuf = append(pieceBuf, chunk...)
			for uint64(len(pieceBuf)) >= opts.PieceLength {
				piece := append([]byte{}, pieceBuf[:opts.PieceLength]...)
				if pushErr := v1q.push(piece); pushErr != nil {
					return "", "", pushErr
				}
				pieceBuf = pieceBuf[opts.PieceLength:]
			}

			done += uint64(n)
			if opts.Progress != nil {
				opts.Progress(ProgressEvent{Path: f.RelPath, BytesDone: done, Total: f.Length})
			}
		}
		if readErr != nil {
			break
		}
	}

	if len(pieceBuf) > 0 {
		padLen := opts.PieceLength - uint64(len(pieceBuf))
		padded := append(append([]byte{}, pieceBuf...), make([]byte, padLen)...)
		if err := v1q.push(padded); err != nil {
			return "", "", err
		}
		*v1Files = append(*v1Files, metainfo.FileItem{Length: padLen, Attr: "p", Path: padPath(f.RelPath)})
	}

	leaves, err := v2q.drain()
	if err != nil {
		return "", "", err
	}
	if err := v2q.close(); err != nil {
		return "", "", &WorkerError{Path: f.RelPath, Err: err}
	}

	tree := merkle.NewTree(opts.PieceLength)
	for _, h := range leaves {
		var leaf [32]byte
		copy(leaf[:], h)
		tree.AddLeaf(leaf)
	}

	root := tree.Root()
	return string(root[:]), string(tree.PieceLayer()), nil
}

// padPath names a generated padfile's path: a leading ".pad" directory
// component followed by the path components of the real file it pads.
func padPath(relPath string) []string {
	return append([]string{".pad"}, splitPath(relPath)...)
}
