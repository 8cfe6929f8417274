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

package metainfo

import "fmt"

// PadfileMode controls how a v1 "files" list's BEP-47 padding entries are
// validated when reading an existing torrent. It does not affect
// building: the hybrid builder always emits aligning padfiles, and the v1
// builder emits none.
type PadfileMode int

const (
	// PadfileDefault only checks adjacent (file, padfile) pairs: whenever
	// a non-pad file is immediately followed by a padfile, their lengths
	// must sum to a multiple of the piece length. It does not require
	// every misaligned file to have a padfile at all, since not every v1
	// client pads consistently; it is the mode used when reading torrents
	// of unknown provenance.
	PadfileDefault PadfileMode = iota

	// PadfileStrict requires every non-final file whose length is not a
	// multiple of the piece length to be followed by a padfile that brings
	// the pair to a piece boundary, rejecting the torrent otherwise.
	PadfileStrict

	// PadfileIgnore skips padfile alignment validation entirely,
	// treating padfiles as ordinary (if oddly named) zero-content files.
	PadfileIgnore

	// PadfileForbid rejects any file carrying the pad attr flag.
	PadfileForbid
)

func (m PadfileMode) String() string {
	switch m {
	case PadfileStrict:
		return "strict"
	case PadfileIgnore:
		return "ignore"
	case PadfileForbid:
		return "forbid"
	default:
		return "default"
	}
}

// validatePadfiles checks a v1 file list's padding entries against mode,
// returning a SchemaError tagged KindPadfileMisaligned when the list does
// not comply.
func validatePadfiles(mode PadfileMode, pieceLength uint64, files []FileItem) error {
	if mode == PadfileIgnore {
		return nil
	}

	if mode == PadfileForbid {
		for i, f := range files {
			if f.IsPad() {
				return newSchemaError(KindPadfileMisaligned, fmt.Sprintf("files[%d]", i), "padfile present under forbid mode")
			}
		}
		return nil
	}

	// Default and strict both check every adjacent (file, padfile) pair:
	// a padfile immediately following a non-pad file must bring the pair's
	// combined length to a piece boundary. Strict additionally requires
	// that every non-pad file not already aligned to a piece boundary is
	// in fact followed by such a padfile; default allows a misaligned
	// file to simply have no padfile at all.
	for i := 0; i+1 < len(files); i++ {
		first, second := files[i], files[i+1]
		if first.IsPad() {
			continue
		}

		if second.IsPad() {
			if (first.Length+second.Length)%pieceLength != 0 {
				return newSchemaError(KindPadfileMisaligned, fmt.Sprintf("files[%d]", i+1), "padfile length does not align the next file to a piece boundary")
			}
			continue
		}

		if mode == PadfileStrict && first.Length%pieceLength != 0 {
			return newSchemaError(KindPadfileMisaligned, fmt.Sprintf("files[%d]", i+1), "file does not begin on a piece boundary and is not preceded by an aligning padfile")
		}
	}
	return nil
}
