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

import "strings"

// FileItem is a single entry of a v1 "files" list: a file's length, its
// path relative to the torrent's name directory, and an optional attr
// string carrying single-character flags (BEP-47).
type FileItem struct {
	Length uint64   `bencode:"length"`
	Path   []string `bencode:"path"`
	Attr   string   `bencode:"attr,omitempty"`

	// PathUTF8 and Md5sum are legacy/compat fields some clients still
	// emit; they are round-tripped but never required or generated.
	PathUTF8 []string `bencode:"path.utf-8,omitempty"`
	Md5sum   string   `bencode:"md5sum,omitempty"`
}

// IsPad reports whether this entry is a BEP-47 padding file: one whose
// attr string contains the 'p' flag.
func (f FileItem) IsPad() bool {
	return strings.ContainsRune(f.Attr, 'p')
}

// Hidden reports whether the file's attr string carries the 'h' flag.
func (f FileItem) Hidden() bool {
	return strings.ContainsRune(f.Attr, 'h')
}

// Executable reports whether the file's attr string carries the 'x' flag.
func (f FileItem) Executable() bool {
	return strings.ContainsRune(f.Attr, 'x')
}

// FullPath joins the file's path components with "/", matching how the
// path appears on disk relative to the torrent's root directory.
func (f FileItem) FullPath() string {
	return strings.Join(f.Path, "/")
}
