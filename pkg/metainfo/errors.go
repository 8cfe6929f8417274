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

// Package metainfo implements the BEP-3/BEP-52 torrent metainfo schema: the
// typed v1, v2, and hybrid InfoDict variants, their cross-field invariants,
// and the Torrent value that wraps them.
package metainfo

import "fmt"

// SchemaKind classifies a SchemaError, naming which invariant of the
// metainfo schema model was violated.
type SchemaKind int

const (
	KindMissingField SchemaKind = iota
	KindTypeMismatch
	KindPieceCountMismatch
	KindV1V2Mismatch
	KindPadfileMisaligned
	KindMissingPieceRoot
	KindPieceLayerSizeMismatch
	KindInvalidPieceLength
	KindAmbiguousVariant
)

var schemaKindNames = [...]string{
	KindMissingField:           "missing_field",
	KindTypeMismatch:           "type_mismatch",
	KindPieceCountMismatch:     "piece_count_mismatch",
	KindV1V2Mismatch:           "v1_v2_mismatch",
	KindPadfileMisaligned:      "padfile_misaligned",
	KindMissingPieceRoot:       "missing_piece_root",
	KindPieceLayerSizeMismatch: "piece_layer_size_mismatch",
	KindInvalidPieceLength:     "invalid_piece_length",
	KindAmbiguousVariant:       "ambiguous_variant",
}

func (k SchemaKind) String() string {
	if int(k) < len(schemaKindNames) {
		return schemaKindNames[k]
	}
	return "unknown"
}

// SchemaError reports a missing field, a type mismatch, or a violated
// cross-field invariant in a metainfo dictionary. Field names the offending
// dict key path (e.g. "info.pieces" or "info.file tree.a.b.length").
type SchemaError struct {
	Kind  SchemaKind
	Field string
	msg   string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("metainfo: %s: %s (%s)", e.Field, e.msg, e.Kind)
	}
	return fmt.Sprintf("metainfo: %s (%s)", e.msg, e.Kind)
}

func newSchemaError(kind SchemaKind, field, msg string) *SchemaError {
	return &SchemaError{Kind: kind, Field: field, msg: msg}
}

// UsageKind classifies a UsageError.
type UsageKind int

const (
	KindContradictoryInputs UsageKind = iota
	KindPathOutsideRoot
	KindAbsolutePath
)

// UsageError reports contradictory or invalid caller input to a
// constructor, as distinct from a malformed torrent (SchemaError) or an
// I/O fault (IoError).
type UsageError struct {
	Kind UsageKind
	msg  string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("metainfo: usage error: %s", e.msg)
}

func newUsageError(kind UsageKind, msg string) *UsageError {
	return &UsageError{Kind: kind, msg: msg}
}

// IoError wraps an underlying filesystem or stream fault encountered
// while reading or writing a torrent, tagged with the operation that
// failed.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("metainfo: %s: %s", e.Op, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}
