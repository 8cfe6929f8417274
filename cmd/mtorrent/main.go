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
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
)

// cli is the root command, recognized by the make subcommand described
// in the library's external interface.
var cli struct {
	Make MakeCmd `cmd:"" help:"Create a .torrent file from a file or directory."`

	Verbose bool `help:"Enable debug logging." short:"v"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("mtorrent"),
		kong.Description("Create BitTorrent metainfo files."),
		kong.UsageOnError(),
	)

	log := newLogger(cli.Verbose)
	err := ctx.Run(log)
	ctx.FatalIfErrorf(err)
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}
