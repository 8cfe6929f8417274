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
	"os"
)

// HashV1 reads files in the given order and returns the concatenated
// 20-byte SHA-1 piece hashes BEP-3 requires: a rolling buffer of file
// bytes is cut into piece_length chunks across file boundaries, with
// the final partial piece (if any) hashed once the last file closes.
func HashV1(ctx context.Context, files []FileSource, opts Options) ([]byte, error) {
	id := jobID()
	log := opts.Logger.With().Str("job", id).Str("mode", "v1").Logger()
	log.Debug().Int("files", len(files)).Msg("starting v1 hashing pass")

	q := newHashQueue(ctx, opts.Workers, memoryLimit(opts)/int(max64(opts.PieceLength, 1)), func(b []byte) []byte {
		h := sha1.Sum(b)
		return h[:]
	})

	var buf []byte
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := q.push(buf); err != nil {
			return err
		}
		buf = nil
		return nil
	}

	for _, f := range files {
		file, err := os.Open(f.AbsPath)
		if err != nil {
			return nil, &WorkerError{Path: f.RelPath, Err: err}
		}

		var done uint64
		chunk := make([]byte, opts.PieceLength)
		for {
			n, err := file.Read(chunk)
			if n > 0 {
				buf = append(buf, chunk[:n]...)
				done += uint64(n)
				if opts.Progress != nil {
					opts.Progress(ProgressEvent{Path: f.RelPath, BytesDone: done, Total: f.Length})
				}
				for uint64(len(buf)) >= opts.PieceLength {
					piece := buf[:opts.PieceLength]
					if pushErr := q.push(append([]byte{}, piece...)); pushErr != nil {
						file.Close()
						return nil, pushErr
					}
					buf = buf[opts.PieceLength:]
				}
			}
			if err != nil {
				break
			}
		}
		file.Close()
	}

	if err := flush(); err != nil {
		return nil, err
	}

	results, err := q.drain()
	if err != nil {
		return nil, err
	}
	if err := q.close(); err != nil {
		return nil, &WorkerError{Err: err}
	}

	pieces := make([]byte, 0, len(results)*20)
	for _, h := range results {
		pieces = append(pieces, h...)
	}

	log.Debug().Int("pieces", len(results)).Msg("v1 hashing pass complete")
	return pieces, nil
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
