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

package bencode

import (
	"fmt"

	"github.com/raklaptudirm/mtorrent/pkg/bencode/scanner"
)

// ErrorKind classifies a DecodeError. It mirrors scanner.Kind one to one,
// giving callers of the bencode package a stable public name for each
// failure mode without reaching into the scanner subpackage.
type ErrorKind int

const (
	ErrUnexpectedEOF     = ErrorKind(scanner.KindUnexpectedEOF)
	ErrInvalidInteger    = ErrorKind(scanner.KindInvalidInteger)
	ErrInvalidLength     = ErrorKind(scanner.KindInvalidLength)
	ErrUnorderedDictKeys = ErrorKind(scanner.KindUnorderedDictKeys)
	ErrDuplicateDictKey  = ErrorKind(scanner.KindDuplicateDictKey)
	ErrTrailing          = ErrorKind(scanner.KindTrailing)
	ErrSyntax            = ErrorKind(scanner.KindSyntax)
)

// DecodeError is returned by Decode when the input is malformed bencode
// (Valid only reports a bool). Kind identifies which of the decoder contract's
// failure categories applies; Offset is the byte offset in the input at
// which the error was detected.
type DecodeError struct {
	Kind   ErrorKind
	Offset int
	msg    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bencode: %s", e.msg)
}

// asDecodeError converts a *scanner.SyntaxError into a *DecodeError,
// passing any other error (or nil) through unchanged.
func asDecodeError(err error) error {
	synErr, ok := err.(*scanner.SyntaxError)
	if !ok {
		return err
	}

	return &DecodeError{
		Kind:   ErrorKind(synErr.Kind),
		Offset: synErr.Offset,
		msg:    synErr.Error(),
	}
}
