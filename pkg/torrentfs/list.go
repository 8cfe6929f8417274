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

// Package torrentfs walks a filesystem path into the ordered file lists
// the hashing pipeline consumes, in either of the two traversal orders
// the metainfo schema requires.
package torrentfs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/raklaptudirm/mtorrent/pkg/pipeline"
)

// ignoredNames lists files list/walk never includes: filesystem litter
// that real torrent clients also skip, since publishing it would only
// embarrass the torrent's creator.
var ignoredNames = map[string]bool{
	".DS_Store": true,
	"Thumbs.db": true,
}

// Root describes what was found at a path passed to List: either a
// single file (Files has exactly one entry and Name is its base name)
// or a directory (Files lists every contained file, relative to root,
// and Name is the directory's base name).
type Root struct {
	Name       string
	SingleFile bool
	Files      []pipeline.FileSource
}

// List walks root and returns its Root description. Regular files are
// listed as a single-entry Root; directories are walked recursively,
// skipping ignoredNames, in the order they are encountered on disk (the
// caller is responsible for re-sorting into v1 or v2 traversal order via
// SortV1 or SortV2).
func List(root string) (*Root, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return &Root{
			Name:       info.Name(),
			SingleFile: true,
			Files: []pipeline.FileSource{{
				RelPath: info.Name(),
				AbsPath: root,
				Length:  uint64(info.Size()),
			}},
		}, nil
	}

	var files []pipeline.FileSource
	err = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ignoredNames[d.Name()] {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}

		files = append(files, pipeline.FileSource{
			RelPath: filepath.ToSlash(rel),
			AbsPath: p,
			Length:  uint64(fi.Size()),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Root{
		Name:       filepath.Base(root),
		SingleFile: false,
		Files:      files,
	}, nil
}

// SortV2 orders files by POSIX path, lexicographically: the canonical
// v2 traversal order.
func SortV2(files []pipeline.FileSource) []pipeline.FileSource {
	out := append([]pipeline.FileSource{}, files...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].RelPath < out[j].RelPath
	})
	return out
}

// SortV1 orders files with top-level files first, then directory-nested
// files, each group sorted case-insensitively by POSIX path: the
// canonical v1 traversal order.
func SortV1(files []pipeline.FileSource) []pipeline.FileSource {
	var topLevel, nested []pipeline.FileSource
	for _, f := range files {
		if strings.Contains(f.RelPath, "/") {
			nested = append(nested, f)
		} else {
			topLevel = append(topLevel, f)
		}
	}

	byPathFold := func(fs []pipeline.FileSource) {
		sort.Slice(fs, func(i, j int) bool {
			return strings.ToLower(fs[i].RelPath) < strings.ToLower(fs[j].RelPath)
		})
	}
	byPathFold(topLevel)
	byPathFold(nested)

	return append(topLevel, nested...)
}
