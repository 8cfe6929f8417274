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
	"crypto/sha1"
	"crypto/sha256"
	"io"

	"github.com/raklaptudirm/mtorrent/pkg/bencode"
)

// Torrent is the top-level decoded metainfo dictionary: tracker URLs,
// descriptive metadata, the InfoDict, and (for v2/hybrid) the piece
// layers map keyed by each file's pieces root.
type Torrent struct {
	Announce     string
	AnnounceList [][]string
	Comment      string
	CreatedBy    string
	CreationDate int64
	URLList      []string

	// Similar lists the v1 infohashes of torrents that share files with
	// this one (BEP-38); Source tags the torrent to a specific tracker
	// or indexer so that otherwise-identical torrents from different
	// sources hash differently (BEP-38/cross-seeding convention).
	Similar []string
	Source  string
	Private bool

	Info Info

	// PieceLayers maps a v2 pieces root to its concatenated piece-layer
	// hashes, one entry per file whose length exceeds the piece length.
	PieceLayers map[string]string
}

// Read decodes a complete .torrent file from r into a Torrent, validating
// it against the metainfo schema under the given padfile mode.
func Read(r io.Reader, padMode PadfileMode) (*Torrent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IoError{Op: "read", Err: err}
	}
	return Decode(data, padMode)
}

// Decode parses a complete .torrent file's bytes into a Torrent.
func Decode(data []byte, padMode PadfileMode) (*Torrent, error) {
	v, err := bencode.Decode(data)
	if err != nil {
		return nil, err
	}

	dict, ok := v.(map[string]any)
	if !ok {
		return nil, newSchemaError(KindTypeMismatch, "", "top-level metainfo value must be a dictionary")
	}

	infoVal, ok := dict[wireInfo]
	if !ok {
		return nil, newSchemaError(KindMissingField, wireInfo, "missing required field info")
	}
	infoDict, ok := infoVal.(map[string]any)
	if !ok {
		return nil, newSchemaError(KindTypeMismatch, wireInfo, "info must be a dictionary")
	}

	info, err := infoFromGeneric(infoDict, padMode)
	if err != nil {
		return nil, err
	}

	t := &Torrent{Info: *info}

	if t.Announce, err = optionalString(dict, wireAnnounce, wireAnnounce); err != nil {
		return nil, err
	}
	if t.Comment, err = optionalString(dict, wireComment, wireComment); err != nil {
		return nil, err
	}
	if t.CreatedBy, err = optionalString(dict, wireCreatedBy, wireCreatedBy); err != nil {
		return nil, err
	}
	if cd, err := optionalInt(dict, wireCreationDate, wireCreationDate); err != nil {
		return nil, err
	} else {
		t.CreationDate = cd
	}

	if v, ok := dict[wireAnnounceList]; ok {
		list, ok := v.([]any)
		if !ok {
			return nil, newSchemaError(KindTypeMismatch, wireAnnounceList, "must be a list")
		}
		t.AnnounceList = make([][]string, len(list))
		for i, tier := range list {
			tierList, err := stringList(wireAnnounceList, tier)
			if err != nil {
				return nil, err
			}
			t.AnnounceList[i] = tierList
		}
	}

	if v, ok := dict[wireURLList]; ok {
		switch val := v.(type) {
		case string:
			t.URLList = []string{val}
		case []any:
			list, err := stringList(wireURLList, val)
			if err != nil {
				return nil, err
			}
			t.URLList = list
		default:
			return nil, newSchemaError(KindTypeMismatch, wireURLList, "must be a string or a list of strings")
		}
	}

	if v, ok := dict[wireSimilar]; ok {
		list, err := stringList(wireSimilar, v)
		if err != nil {
			return nil, err
		}
		t.Similar = list
	}
	if t.Source, err = optionalString(dict, wireSource, wireSource); err != nil {
		return nil, err
	}

	if v, ok := dict[wirePieceLayers]; ok {
		layersDict, ok := v.(map[string]any)
		if !ok {
			return nil, newSchemaError(KindTypeMismatch, wirePieceLayers, "must be a dictionary")
		}
		t.PieceLayers = make(map[string]string, len(layersDict))
		for root, layer := range layersDict {
			s, ok := layer.(string)
			if !ok {
				return nil, newSchemaError(KindTypeMismatch, wirePieceLayers, "piece layer value must be a byte string")
			}
			t.PieceLayers[root] = s
		}
		if err := t.validatePieceLayers(); err != nil {
			return nil, err
		}
	} else if info.Variant == VariantV2 || info.Variant == VariantHybrid {
		if err := t.validatePieceLayers(); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// validatePieceLayers enforces that every file whose length exceeds the
// piece length has a pieces root present as a key in PieceLayers, with a
// value whose byte length equals 32 * ceil(length / piece_length).
func (t *Torrent) validatePieceLayers() error {
	if t.Info.Variant != VariantV2 && t.Info.Variant != VariantHybrid {
		return nil
	}

	var walk func(tree FileTree, field string) error
	walk = func(tree FileTree, field string) error {
		for name, node := range tree {
			childField := field + "." + name
			if node.Leaf == nil {
				if err := walk(node.Children, childField); err != nil {
					return err
				}
				continue
			}
			if node.Leaf.Length <= t.Info.PieceLength {
				continue
			}
			layer, ok := t.PieceLayers[node.Leaf.PiecesRoot]
			if !ok {
				return newSchemaError(KindMissingPieceRoot, childField, "pieces root missing from piece layers")
			}
			want := 32 * ceilDiv(node.Leaf.Length, t.Info.PieceLength)
			if uint64(len(layer)) != want {
				return newSchemaError(KindPieceLayerSizeMismatch, childField, "piece layer size does not match ceil(length / piece length)")
			}
		}
		return nil
	}
	return walk(t.Info.FileTree, "info.file tree")
}

// Bencode serializes the Torrent back into canonical bencode bytes.
func (t *Torrent) Bencode() ([]byte, error) {
	return bencode.MarshalBytes(t.toGeneric())
}

// DumpMap returns the Torrent's wire-level dictionary. In "binary" mode
// the returned tree is round-tripped through bencode encode/decode first,
// so every value is exactly what a wire decode would produce (strings,
// int64, map[string]any, []any); in "str" mode, and for any other mode
// string, the tree is returned as built, without that round trip.
func (t *Torrent) DumpMap(mode string) (map[string]any, error) {
	dict := t.toGeneric()
	if mode != "binary" {
		return dict, nil
	}

	data, err := bencode.MarshalBytes(dict)
	if err != nil {
		return nil, err
	}
	v, err := bencode.Decode(data)
	if err != nil {
		return nil, err
	}
	out, ok := v.(map[string]any)
	if !ok {
		return nil, newSchemaError(KindTypeMismatch, "", "top-level metainfo value must be a dictionary")
	}
	return out, nil
}

func (t *Torrent) toGeneric() map[string]any {
	dict := map[string]any{
		wireInfo: t.Info.toGeneric(),
	}
	if t.Announce != "" {
		dict[wireAnnounce] = t.Announce
	}
	if t.Comment != "" {
		dict[wireComment] = t.Comment
	}
	if t.CreatedBy != "" {
		dict[wireCreatedBy] = t.CreatedBy
	}
	if t.CreationDate != 0 {
		dict[wireCreationDate] = int64(t.CreationDate)
	}
	if len(t.AnnounceList) > 0 {
		tiers := make([]any, len(t.AnnounceList))
		for i, tier := range t.AnnounceList {
			tiers[i] = stringsToGeneric(tier)
		}
		dict[wireAnnounceList] = tiers
	}
	if len(t.URLList) == 1 {
		dict[wireURLList] = t.URLList[0]
	} else if len(t.URLList) > 1 {
		dict[wireURLList] = stringsToGeneric(t.URLList)
	}
	if len(t.Similar) > 0 {
		dict[wireSimilar] = stringsToGeneric(t.Similar)
	}
	if t.Source != "" {
		dict[wireSource] = t.Source
	}
	if len(t.PieceLayers) > 0 {
		layers := make(map[string]any, len(t.PieceLayers))
		for root, layer := range t.PieceLayers {
			layers[root] = layer
		}
		dict[wirePieceLayers] = layers
	}

	return dict
}

func stringsToGeneric(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// V1Infohash returns SHA-1(bencode(info)), defined for V1 and Hybrid
// torrents.
func (t *Torrent) V1Infohash() ([20]byte, error) {
	var out [20]byte
	if t.Info.Variant == VariantV2 {
		return out, newUsageError(KindContradictoryInputs, "v1 infohash requested for a v2-only torrent")
	}
	b, err := bencode.MarshalBytes(t.Info.toGeneric())
	if err != nil {
		return out, err
	}
	out = sha1.Sum(b)
	return out, nil
}

// V2Infohash returns SHA-256(bencode(info)), defined for V2 and Hybrid
// torrents.
func (t *Torrent) V2Infohash() ([32]byte, error) {
	var out [32]byte
	if t.Info.Variant == VariantV1 {
		return out, newUsageError(KindContradictoryInputs, "v2 infohash requested for a v1-only torrent")
	}
	b, err := bencode.MarshalBytes(t.Info.toGeneric())
	if err != nil {
		return out, err
	}
	out = sha256.Sum256(b)
	return out, nil
}
