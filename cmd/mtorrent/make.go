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

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/raklaptudirm/mtorrent/pkg/create"
	"github.com/raklaptudirm/mtorrent/pkg/pipeline"
)

// MakeCmd implements the "make" subcommand: it builds a .torrent file
// from a file or directory on disk.
type MakeCmd struct {
	Path     string   `arg:"" help:"File or directory to create a torrent from." type:"path"`
	Tracker  []string `help:"Tracker announce URL. May be repeated." short:"t"`
	PieceLen uint64   `help:"Piece length in bytes. Must be a power of two." default:"262144" name:"piece-size"`
	Comment  string   `help:"Free-form comment stored in the torrent."`
	Creator  string   `help:"Value stored in the torrent's created-by field." default:"mtorrent"`
	Webseed  []string `help:"HTTP webseed URL. May be repeated." name:"webseed"`
	Similar  []string `help:"Infohash of a similar torrent. May be repeated."`
	Version  string   `help:"Metainfo version to generate." enum:"v1,v2,hybrid" default:"hybrid"`
	Progress bool     `help:"Print hashing progress to stderr." default:"true" negatable:""`
	Output   string   `help:"Output .torrent file path." short:"o"`
}

func (c *MakeCmd) Run(log zerolog.Logger) error {
	version, err := parseVersion(c.Version)
	if err != nil {
		return err
	}

	b := create.New(c.Path, c.PieceLen, c.Tracker...)
	b.Comment = c.Comment
	b.CreatedBy = c.Creator
	b.CreationDate = time.Now().Unix()
	b.URLList = c.Webseed
	b.Similar = c.Similar
	b.Logger = log

	if c.Progress {
		b.Progress = func(ev pipeline.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "\rhashing %s: %d/%d bytes", ev.Path, ev.BytesDone, ev.Total)
		}
	}

	start := time.Now()
	tr, err := b.Generate(context.Background(), version)
	if err != nil {
		return err
	}
	if c.Progress {
		fmt.Fprintln(os.Stderr)
	}

	data, err := tr.Bencode()
	if err != nil {
		return err
	}

	output := c.Output
	if output == "" {
		output = tr.Info.Name + ".torrent"
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}

	log.Info().Str("output", output).Str("name", tr.Info.Name).Msg("torrent created")

	duration := time.Since(start)
	totalSize := tr.Info.TotalLength()
	var speed float64
	if duration > 0 {
		speed = float64(totalSize) / duration.Seconds()
	}
	fmt.Printf(
		"Created torrent %s\nTotal size: %s\nTorrent size: %s\nDuration: %s\nSpeed: %s/s\n",
		output,
		humanize.IBytes(totalSize),
		humanize.IBytes(uint64(len(data))),
		duration.Round(time.Millisecond),
		humanize.IBytes(uint64(speed)),
	)
	return nil
}

func parseVersion(s string) (create.Version, error) {
	switch s {
	case "v1":
		return create.VersionV1, nil
	case "v2":
		return create.VersionV2, nil
	case "hybrid":
		return create.VersionHybrid, nil
	default:
		return 0, fmt.Errorf("unknown version %q", s)
	}
}
