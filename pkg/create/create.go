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

// Package create implements the torrent construction pipeline: given a
// set of files on disk, it drives pkg/pipeline to hash them and
// assembles the result into a pkg/metainfo.Torrent ready to serialize.
package create

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/raklaptudirm/mtorrent/pkg/metainfo"
	"github.com/raklaptudirm/mtorrent/pkg/pipeline"
	"github.com/raklaptudirm/mtorrent/pkg/torrentfs"
)

// Version selects which InfoDict variant Builder.Generate produces.
type Version int

const (
	VersionV1 Version = iota
	VersionV2
	VersionHybrid
)

// Builder holds the inputs to a torrent construction pass, mirroring
// the library's abstract TorrentCreate constructor. Exactly one of
// Files or PathRoot is meant to drive the file list: callers normally
// set PathRoot and let Generate discover Files via torrentfs.List, but
// Files may be set directly by a caller that already has its own
// listing (e.g. for testing).
type Builder struct {
	PathRoot     string
	Files        []pipeline.FileSource
	PieceLength  uint64
	Trackers     []string
	Comment      string
	CreatedBy    string
	CreationDate int64
	URLList      []string
	Similar      []string
	Source       string
	Private      bool

	Workers     int
	MemoryLimit int
	Progress    pipeline.ProgressFunc
	Logger      zerolog.Logger
}

// New returns a Builder for the given path root and piece length, with
// optional tracker URLs. It validates no inputs itself; validation
// happens eagerly in Generate, before any hashing starts, per the
// library's construction-validates-eagerly contract.
func New(pathRoot string, pieceLength uint64, trackers ...string) *Builder {
	return &Builder{
		PathRoot:    pathRoot,
		PieceLength: pieceLength,
		Trackers:    trackers,
	}
}

// resolveFiles returns the Builder's file list in the traversal order
// version requires, discovering it from PathRoot via torrentfs.List if
// Files was not set directly.
func (b *Builder) resolveFiles(version Version) ([]pipeline.FileSource, string, error) {
	if len(b.Files) > 0 {
		files := b.Files
		if version == VersionV1 {
			return torrentfs.SortV1(files), "", nil
		}
		return torrentfs.SortV2(files), "", nil
	}

	if b.PathRoot == "" {
		return nil, "", newUsageError("neither Files nor PathRoot is set")
	}

	root, err := torrentfs.List(b.PathRoot)
	if err != nil {
		return nil, "", &metainfo.IoError{Op: "list", Err: err}
	}

	files := root.Files
	if version == VersionV1 {
		files = torrentfs.SortV1(files)
	} else {
		files = torrentfs.SortV2(files)
	}
	return files, root.Name, nil
}

// Generate runs the hashing pipeline for the requested version and
// assembles a metainfo.Torrent from the result.
func (b *Builder) Generate(ctx context.Context, version Version) (*metainfo.Torrent, error) {
	if len(b.Trackers) > 1 && b.Trackers[0] == "" {
		return nil, newUsageError("contradictory tracker input")
	}
	if !isValidPieceLength(version, b.PieceLength) {
		return nil, newUsageError(fmt.Sprintf("invalid piece length %d for version %v", b.PieceLength, version))
	}

	files, rootName, err := b.resolveFiles(version)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, newUsageError("no files to hash")
	}

	opts := pipeline.Options{
		PieceLength: b.PieceLength,
		Workers:     b.Workers,
		MemoryLimit: b.MemoryLimit,
		Progress:    b.Progress,
		Logger:      b.Logger,
	}

	name := rootName
	if name == "" {
		name = singleRootName(files)
	}

	info := metainfo.Info{
		Name:        name,
		PieceLength: b.PieceLength,
		Private:     b.Private,
		Source:      b.Source,
	}

	switch version {
	case VersionV1:
		pieces, err := pipeline.HashV1(ctx, files, opts)
		if err != nil {
			return nil, err
		}
		info.Variant = metainfo.VariantV1
		info.Pieces = string(pieces)
		setV1Files(&info, files)

	case VersionV2:
		tree, layers, err := pipeline.HashV2(ctx, files, opts)
		if err != nil {
			return nil, err
		}
		info.Variant = metainfo.VariantV2
		info.MetaVersion = 2
		info.FileTree = tree

		return b.assemble(&info, layers), nil

	case VersionHybrid:
		res, err := pipeline.HashHybrid(ctx, files, opts)
		if err != nil {
			return nil, err
		}
		info.Variant = metainfo.VariantHybrid
		info.MetaVersion = 2
		info.Pieces = string(res.Pieces)
		info.Files = res.Files
		info.FileTree = res.FileTree

		return b.assemble(&info, res.PieceLayers), nil

	default:
		return nil, newUsageError("unknown version")
	}

	return b.assemble(&info, nil), nil
}

func (b *Builder) assemble(info *metainfo.Info, layers map[string]string) *metainfo.Torrent {
	t := &metainfo.Torrent{
		Comment:      b.Comment,
		CreatedBy:    b.CreatedBy,
		CreationDate: b.CreationDate,
		URLList:      b.URLList,
		Similar:      b.Similar,
		Source:       b.Source,
		Private:      b.Private,
		Info:         *info,
		PieceLayers:  layers,
	}
	if len(b.Trackers) > 0 {
		t.Announce = b.Trackers[0]
	}
	if len(b.Trackers) > 1 {
		tier := append([]string{}, b.Trackers...)
		t.AnnounceList = [][]string{tier}
	}
	return t
}

// setV1Files populates either Info.Length (single file) or Info.Files
// (directory) from the resolved file list.
func setV1Files(info *metainfo.Info, files []pipeline.FileSource) {
	if len(files) == 1 && !containsSlash(files[0].RelPath) {
		info.Length = files[0].Length
		return
	}
	items := make([]metainfo.FileItem, len(files))
	for i, f := range files {
		items[i] = metainfo.FileItem{Length: f.Length, Path: splitRelPath(f.RelPath)}
	}
	info.Files = items
}

func singleRootName(files []pipeline.FileSource) string {
	if len(files) == 1 {
		return baseName(files[0].RelPath)
	}
	return "torrent"
}

func isValidPieceLength(version Version, p uint64) bool {
	if p == 0 || p&(p-1) != 0 {
		return false
	}
	if version == VersionV1 {
		return true
	}
	const blockSize = 16 * 1024
	return p >= blockSize && p%blockSize == 0
}
