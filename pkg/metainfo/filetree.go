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

import "sort"

// FileTreeItem is the leaf value of a v2 "file tree", keyed under the
// empty-string path component. PiecesRoot is the 32-byte SHA-256 merkle
// root of the file's piece layer; it is empty for zero-length files,
// which have no piece layer at all (BEP-52).
type FileTreeItem struct {
	Length     uint64
	PiecesRoot string
}

// FileTreeNode is one entry of a FileTree: either an interior directory,
// in which case Children is non-nil and Leaf is nil, or a file, in which
// case Leaf is non-nil and Children is nil. The two are mutually
// exclusive, mirroring the wire shape where a path component dict holds
// either further path components or a lone "" key.
type FileTreeNode struct {
	Children FileTree
	Leaf     *FileTreeItem
}

// FileTree is the v2 "file tree" field: a recursive dictionary from path
// component to FileTreeNode, terminating in FileTreeItem leaves.
type FileTree map[string]FileTreeNode

// toGeneric converts a FileTree into the map[string]any shape the bencode
// package expects on the wire, recursing into children and emitting leaf
// items under the "" key as a single-entry dict holding "length" and,
// when non-empty, "pieces root".
func (t FileTree) toGeneric() map[string]any {
	out := make(map[string]any, len(t))
	for name, node := range t {
		if node.Leaf != nil {
			leaf := map[string]any{
				wireLength: int64(node.Leaf.Length),
			}
			if node.Leaf.PiecesRoot != "" {
				leaf[wirePiecesRoot] = node.Leaf.PiecesRoot
			}
			out[name] = map[string]any{"": leaf}
			continue
		}
		out[name] = node.Children.toGeneric()
	}
	return out
}

// fileTreeFromGeneric parses the map[string]any produced by decoding a
// wire "file tree" dict into a FileTree. It returns a SchemaError if any
// node is shaped like neither a directory nor a recognized leaf.
func fileTreeFromGeneric(field string, v any) (FileTree, error) {
	dict, ok := v.(map[string]any)
	if !ok {
		return nil, newSchemaError(KindTypeMismatch, field, "file tree node must be a dictionary")
	}

	tree := make(FileTree, len(dict))
	for name, child := range dict {
		childField := field + "." + name
		childDict, ok := child.(map[string]any)
		if !ok {
			return nil, newSchemaError(KindTypeMismatch, childField, "file tree entry must be a dictionary")
		}

		if leafVal, isLeaf := childDict[""]; isLeaf {
			leafDict, ok := leafVal.(map[string]any)
			if !ok {
				return nil, newSchemaError(KindTypeMismatch, childField, "file tree leaf must be a dictionary")
			}

			length, ok := leafDict[wireLength].(int64)
			if !ok {
				return nil, newSchemaError(KindMissingField, childField+".length", "file tree leaf is missing length")
			}

			item := &FileTreeItem{Length: uint64(length)}
			if root, ok := leafDict[wirePiecesRoot].(string); ok {
				item.PiecesRoot = root
			} else if length > 0 {
				return nil, newSchemaError(KindMissingPieceRoot, childField, "non-empty file tree leaf is missing pieces root")
			}

			tree[name] = FileTreeNode{Leaf: item}
			continue
		}

		sub, err := fileTreeFromGeneric(childField, child)
		if err != nil {
			return nil, err
		}
		tree[name] = FileTreeNode{Children: sub}
	}
	return tree, nil
}

// Flatten walks a FileTree in ascending path order and returns it as a
// flat list of FileItem values, the same shape a v1 "files" list takes.
// Hybrid validation compares it against the v1 files list, and the v2
// TotalLength/NFiles accessors sum and count it.
func (t FileTree) Flatten() []FileItem {
	var items []FileItem
	t.flattenInto(nil, &items)
	sort.Slice(items, func(i, j int) bool {
		return items[i].FullPath() < items[j].FullPath()
	})
	return items
}

func (t FileTree) flattenInto(prefix []string, out *[]FileItem) {
	for name, node := range t {
		path := append(append([]string{}, prefix...), name)
		if node.Leaf != nil {
			*out = append(*out, FileItem{
				Length: node.Leaf.Length,
				Path:   path,
			})
			continue
		}
		node.Children.flattenInto(path, out)
	}
}

// Unflatten builds a FileTree from a flat list of FileItem values and a
// parallel slice of piece-layer roots (one per item, empty for zero-length
// files), the inverse of Flatten. It is used when constructing a hybrid
// torrent's v2 info from file metadata gathered in v1 order.
func Unflatten(items []FileItem, piecesRoots []string) FileTree {
	tree := make(FileTree)
	for i, item := range items {
		var root string
		if i < len(piecesRoots) {
			root = piecesRoots[i]
		}
		insert(tree, item.Path, &FileTreeItem{Length: item.Length, PiecesRoot: root})
	}
	return tree
}

func insert(tree FileTree, path []string, leaf *FileTreeItem) {
	if len(path) == 1 {
		tree[path[0]] = FileTreeNode{Leaf: leaf}
		return
	}
	head, rest := path[0], path[1:]
	node, ok := tree[head]
	if !ok || node.Children == nil {
		node = FileTreeNode{Children: make(FileTree)}
	}
	insert(node.Children, rest, leaf)
	tree[head] = node
}
