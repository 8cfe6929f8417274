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

import (
	"path"
	"sort"
	"strconv"
	"strings"
)

// Variant names an InfoDict's shape, decided by the presence of "pieces"
// and/or "file tree" on the wire.
type Variant int

const (
	VariantV1 Variant = iota
	VariantV2
	VariantHybrid
)

func (v Variant) String() string {
	switch v {
	case VariantV1:
		return "v1"
	case VariantV2:
		return "v2"
	case VariantHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// Info is the decoded, validated form of a metainfo "info" dictionary.
// It holds the union of v1 and v2 fields; Variant reports which of them
// are populated. A V1 Info never has FileTree set, a V2 Info never has
// Pieces or Files set, and a Hybrid Info has both.
type Info struct {
	Variant Variant

	Name        string
	PieceLength uint64
	Private     bool
	Source      string

	// v1 fields
	Pieces string // concatenated 20-byte SHA-1 hashes
	Length uint64 // single-file mode; 0 when Files is set
	Files  []FileItem

	// v2 fields
	MetaVersion int
	FileTree    FileTree
}

// SingleFile reports whether the v1 view of this Info describes one
// file directly named by Name, rather than a directory of Files.
func (i *Info) SingleFile() bool {
	return len(i.Files) == 0
}

// TotalLength returns the sum length of all files described by the info
// dict, excluding BEP-47 padfiles. A hybrid or v1 Info sums its v1 Files
// (or returns Length directly in single-file mode); a pure v2 Info, which
// never populates Files, sums its flattened FileTree instead.
func (i *Info) TotalLength() uint64 {
	if i.Variant == VariantV2 {
		var total uint64
		for _, f := range i.FileTree.Flatten() {
			total += f.Length
		}
		return total
	}
	if i.SingleFile() {
		return i.Length
	}
	var total uint64
	for _, f := range i.Files {
		if f.IsPad() {
			continue
		}
		total += f.Length
	}
	return total
}

// NFiles returns the number of files described by the info dict,
// excluding BEP-47 padfiles.
func (i *Info) NFiles() int {
	if i.Variant == VariantV2 {
		return len(i.FileTree.Flatten())
	}
	if i.SingleFile() {
		return 1
	}
	n := 0
	for _, f := range i.Files {
		if !f.IsPad() {
			n++
		}
	}
	return n
}

// infoFromGeneric parses a decoded info dictionary (map[string]any, as
// produced by bencode.Decode) into an Info, discriminating the variant
// by key presence and enforcing the schema's cross-field invariants.
func infoFromGeneric(dict map[string]any, padMode PadfileMode) (*Info, error) {
	scalars, err := decodeScalarInfo(dict)
	if err != nil {
		return nil, err
	}

	_, hasPieces := dict[wirePieces]
	_, hasFileTree := dict[wireFileTree]

	if !hasPieces && !hasFileTree {
		return nil, newSchemaError(KindAmbiguousVariant, "info", "info dict has neither pieces nor file tree")
	}

	info := &Info{
		Name:        scalars.Name,
		PieceLength: scalars.PieceLength,
		Source:      scalars.Source,
	}
	if scalars.Private != nil {
		info.Private = *scalars.Private
	}

	if info.PieceLength == 0 {
		return nil, newSchemaError(KindInvalidPieceLength, "info.piece length", "piece length is missing or zero")
	}

	if hasPieces {
		if err := bindV1(info, dict, scalars); err != nil {
			return nil, err
		}
	}
	if hasFileTree {
		if err := bindV2(info, dict, scalars); err != nil {
			return nil, err
		}
	}

	switch {
	case hasPieces && hasFileTree:
		info.Variant = VariantHybrid
		if err := validateHybridConsistency(info, padMode); err != nil {
			return nil, err
		}
	case hasPieces:
		info.Variant = VariantV1
		if !isPowerOfTwo(info.PieceLength) {
			return nil, newSchemaError(KindInvalidPieceLength, "info.piece length", "v1 piece length must be a power of two")
		}
		if err := validatePadfiles(padMode, info.PieceLength, info.Files); err != nil {
			return nil, err
		}
	default:
		info.Variant = VariantV2
		if err := validateV2PieceLength(info.PieceLength); err != nil {
			return nil, err
		}
	}

	return info, nil
}

func bindV1(info *Info, dict map[string]any, scalars scalarInfoFields) error {
	info.Pieces = scalars.Pieces
	if len(info.Pieces)%20 != 0 {
		return newSchemaError(KindPieceCountMismatch, "info.pieces", "pieces length is not a multiple of 20")
	}

	_, hasLength := dict[wireLength]
	_, hasFiles := dict[wireFiles]

	switch {
	case hasLength && hasFiles:
		return newSchemaError(KindTypeMismatch, "info", "info dict has both length and files")
	case hasLength:
		n, err := optionalInt(dict, "info.length", wireLength)
		if err != nil {
			return err
		}
		info.Length = uint64(n)
	case hasFiles:
		files, err := filesFromGeneric(dict[wireFiles])
		if err != nil {
			return err
		}
		info.Files = files
	default:
		return newSchemaError(KindMissingField, "info", "info dict has neither length nor files")
	}

	// padfiles are real bytes in the v1 view, so they count toward the
	// piece total here even though TotalLength leaves them out
	v1Length := info.Length
	for _, f := range info.Files {
		v1Length += f.Length
	}
	nPieces := len(info.Pieces) / 20
	wantPieces := ceilDiv(v1Length, info.PieceLength)
	if uint64(nPieces) != wantPieces {
		return newSchemaError(KindPieceCountMismatch, "info.pieces", "piece count does not match ceil(total length / piece length)")
	}
	return nil
}

func bindV2(info *Info, dict map[string]any, scalars scalarInfoFields) error {
	if scalars.MetaVersion != 2 {
		return newSchemaError(KindTypeMismatch, "info.meta version", "meta version must be 2")
	}
	info.MetaVersion = scalars.MetaVersion

	tree, err := fileTreeFromGeneric("info.file tree", dict[wireFileTree])
	if err != nil {
		return err
	}
	info.FileTree = tree
	return nil
}

func filesFromGeneric(v any) ([]FileItem, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, newSchemaError(KindTypeMismatch, "info.files", "files must be a list")
	}

	files := make([]FileItem, len(list))
	for i, e := range list {
		dict, ok := e.(map[string]any)
		if !ok {
			return nil, newSchemaError(KindTypeMismatch, "info.files", "file entry must be a dictionary")
		}

		length, err := optionalInt(dict, "info.files.length", wireLength)
		if err != nil {
			return nil, err
		}
		pathList, err := stringList("info.files.path", dict[wirePath])
		if err != nil {
			return nil, err
		}
		attr, err := optionalString(dict, "info.files.attr", wireAttr)
		if err != nil {
			return nil, err
		}

		files[i] = FileItem{Length: uint64(length), Path: pathList, Attr: attr}
	}
	return files, nil
}

// validateV2PieceLength enforces the v2 piece-length invariant: power of
// two, at least 16 KiB, and a multiple of 16 KiB (the third condition is
// implied by the first two, but checked explicitly since BEP-52 states it
// directly).
func validateV2PieceLength(p uint64) error {
	const blockSize = 16 * 1024
	if !isPowerOfTwo(p) || p < blockSize || p%blockSize != 0 {
		return newSchemaError(KindInvalidPieceLength, "info.piece length", "v2 piece length must be a power of two, at least 16 KiB, and a multiple of 16 KiB")
	}
	return nil
}

func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

func ceilDiv(a, b uint64) uint64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// validateHybridConsistency enforces the hybrid invariant: with padfiles
// removed, the v1 files list and the flattened file tree must agree on
// order, path, and length; padfiles must exactly align non-final files
// to a piece boundary (hybrid always applies strict padding).
func validateHybridConsistency(info *Info, _ PadfileMode) error {
	if !isPowerOfTwo(info.PieceLength) {
		return newSchemaError(KindInvalidPieceLength, "info.piece length", "hybrid piece length must be a power of two")
	}
	if err := validateV2PieceLength(info.PieceLength); err != nil {
		return err
	}

	flat := info.FileTree.Flatten()
	v1Files := make([]FileItem, 0, len(info.Files))
	for _, f := range info.Files {
		if !f.IsPad() {
			v1Files = append(v1Files, f)
		}
	}

	if len(v1Files) != len(flat) {
		return newSchemaError(KindV1V2Mismatch, "info", "v1 file count (padfiles excluded) does not match flattened file tree")
	}
	for i := range v1Files {
		a, b := v1Files[i], flat[i]
		if normalizePath(a.FullPath()) != normalizePath(b.FullPath()) || a.Length != b.Length {
			return newSchemaError(KindV1V2Mismatch, "info.files", "v1 file does not match flattened file tree at index "+strconv.Itoa(i))
		}
	}

	if err := validatePadfiles(PadfileStrict, info.PieceLength, info.Files); err != nil {
		return err
	}
	return nil
}

func normalizePath(p string) string {
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// toGeneric serializes an Info back into the map[string]any shape the
// bencode encoder expects, including only the fields its variant
// defines.
func (i *Info) toGeneric() map[string]any {
	out := map[string]any{
		wireName:        i.Name,
		wirePieceLength: int64(i.PieceLength),
	}
	if i.Private {
		out[wirePrivate] = int64(1)
	}
	if i.Source != "" {
		out[wireSource] = i.Source
	}

	if i.Variant == VariantV1 || i.Variant == VariantHybrid {
		out[wirePieces] = i.Pieces
		if i.SingleFile() {
			out[wireLength] = int64(i.Length)
		} else {
			out[wireFiles] = filesToGeneric(i.Files)
		}
	}
	if i.Variant == VariantV2 || i.Variant == VariantHybrid {
		out[wireMetaVersion] = int64(2)
		out[wireFileTree] = i.FileTree.toGeneric()
	}
	return out
}

func filesToGeneric(files []FileItem) []any {
	out := make([]any, len(files))
	for idx, f := range files {
		entry := map[string]any{
			wireLength: int64(f.Length),
			wirePath:   pathToGeneric(f.Path),
		}
		if f.Attr != "" {
			entry[wireAttr] = f.Attr
		}
		out[idx] = entry
	}
	return out
}

func pathToGeneric(p []string) []any {
	out := make([]any, len(p))
	for i, c := range p {
		out[i] = c
	}
	return out
}

// sortedFileNames returns names sorted case-insensitively by POSIX path,
// the canonical v1 traversal order for top-level-first grouping.
func sortedFileNames(names []string) []string {
	out := append([]string{}, names...)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
