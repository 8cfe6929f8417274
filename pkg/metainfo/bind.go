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
	"github.com/mitchellh/mapstructure"
)

// scalarInfoFields is the subset of a decoded info dictionary that maps
// cleanly onto flat Go struct fields: names, lengths, and version
// markers. The recursive "files" and "file tree" entries are parsed by
// hand in filetree.go and info.go instead, since mapstructure has no way
// to express their polymorphic, path-keyed shape.
type scalarInfoFields struct {
	Name        string `mapstructure:"name"`
	PieceLength uint64 `mapstructure:"piece length"`
	Pieces      string `mapstructure:"pieces"`
	MetaVersion int    `mapstructure:"meta version"`
	Private     *bool  `mapstructure:"private"`
	Source      string `mapstructure:"source"`
}

// decodeScalarInfo binds the flat scalar fields of a decoded info dict
// into a scalarInfoFields value, leaving fields absent from dict at their
// zero value rather than erroring: presence/absence of "pieces" and
// "file tree" is what decides the variant, so this step must not reject
// a dict merely for lacking one of them.
func decodeScalarInfo(dict map[string]any) (scalarInfoFields, error) {
	var out scalarInfoFields

	// BEP-27 puts "private" on the wire as an integer; mapstructure only
	// binds it into the bool field once it has been turned into a bool.
	src := make(map[string]any, len(dict))
	for k, v := range dict {
		src[k] = v
	}
	if n, ok := dict[wirePrivate].(int64); ok {
		src[wirePrivate] = n != 0
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: false,
		ErrorUnused:      false,
	})
	if err != nil {
		return out, newSchemaError(KindTypeMismatch, "info", err.Error())
	}
	if err := dec.Decode(src); err != nil {
		return out, newSchemaError(KindTypeMismatch, "info", err.Error())
	}
	return out, nil
}

// requireString fetches a required string-valued key from a generic
// bencode dict, returning a SchemaError tagged KindMissingField or
// KindTypeMismatch as appropriate.
func requireString(dict map[string]any, field, key string) (string, error) {
	v, ok := dict[key]
	if !ok {
		return "", newSchemaError(KindMissingField, field, "missing required field "+key)
	}
	s, ok := v.(string)
	if !ok {
		return "", newSchemaError(KindTypeMismatch, field, key+" must be a string")
	}
	return s, nil
}

// optionalString fetches an optional string-valued key, returning "" when
// absent and a SchemaError only on a type mismatch.
func optionalString(dict map[string]any, field, key string) (string, error) {
	v, ok := dict[key]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", newSchemaError(KindTypeMismatch, field, key+" must be a string")
	}
	return s, nil
}

// optionalInt fetches an optional int64-valued key, returning 0 when
// absent.
func optionalInt(dict map[string]any, field, key string) (int64, error) {
	v, ok := dict[key]
	if !ok {
		return 0, nil
	}
	n, ok := v.(int64)
	if !ok {
		return 0, newSchemaError(KindTypeMismatch, field, key+" must be an integer")
	}
	return n, nil
}

// stringList converts a decoded bencode list of strings into []string,
// used for "announce-list" inner lists, "url-list", and "similar".
func stringList(field string, v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, newSchemaError(KindTypeMismatch, field, "expected a list")
	}
	out := make([]string, len(list))
	for i, e := range list {
		s, ok := e.(string)
		if !ok {
			return nil, newSchemaError(KindTypeMismatch, field, "list entry must be a string")
		}
		out[i] = s
	}
	return out, nil
}
