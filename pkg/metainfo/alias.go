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

// wire keys used by the top-level metainfo dictionary and the info
// sub-dictionary. Field names on the Go side are idiomatic identifiers;
// these constants hold the BEP-3/BEP-52 "key with spaces" wire form that
// Go identifiers cannot spell directly.
const (
	wireAnnounce     = "announce"
	wireAnnounceList = "announce-list"
	wireComment      = "comment"
	wireCreatedBy    = "created by"
	wireCreationDate = "creation date"
	wireInfo         = "info"
	wirePieceLayers  = "piece layers"
	wireURLList      = "url-list"

	wireName        = "name"
	wirePieceLength = "piece length"
	wirePieces      = "pieces"
	wireLength      = "length"
	wireFiles       = "files"
	wirePath        = "path"
	wireAttr        = "attr"
	wireMetaVersion = "meta version"
	wireFileTree    = "file tree"
	wirePiecesRoot  = "pieces root"
	wirePrivate     = "private"
	wireSource      = "source"
	wireSimilar     = "similar"
)

// binaryPreserveKeys enumerates the dictionary keys whose values must never
// be treated as anything but raw bytes: stringifying them for display or
// path-joining purposes is fine, but they are never interpreted as
// human text, unlike "comment" or "created by". Go's string type already
// holds arbitrary bytes, so this set exists to document intent rather than
// to drive different decoding machinery (see DESIGN.md).
var binaryPreserveKeys = map[string]bool{
	wirePieceLayers: true,
	wirePieces:      true,
	wirePiecesRoot:  true,
	wirePath:        true,
}
