/*
Copyright 2011-2025 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command zarc is the archiver's CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"

	"github.com/zarc-project/zarc/archive"
	"github.com/zarc-project/zarc/block"
	"github.com/zarc-project/zarc/internal/fswalk"
	"github.com/zarc-project/zarc/internal/logging"
	"github.com/zarc-project/zarc/lzw"
	"github.com/zarc-project/zarc/sortinput"
)

func main() {
	app := &cli.App{
		Name:  "zarc",
		Usage: "context-mixing block archiver",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}},
			&cli.StringFlag{Name: "log-file"},
		},
		Commands: []*cli.Command{
			createCommand(),
			extractCommand(),
			appendCommand(),
			extractFilesCommand(),
			listCommand(),
			fvCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "zarc:", err)
		os.Exit(1)
	}
}

func commonConfigFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "mem", Value: 6, Usage: "memory level 0..9"},
		&cli.IntFlag{Name: "blocksize", Value: 1 << 20, Usage: "block size in bytes"},
		&cli.IntFlag{Name: "threads", Value: 0, Usage: "worker count (0 = all usable CPUs)"},
		&cli.StringFlag{Name: "method", Value: "cm", Usage: "cm|lzw-reset|lzw-cull|store"},
		&cli.StringFlag{Name: "align", Value: "file", Usage: "file|fixed"},
		&cli.StringFlag{Name: "sort", Value: "none", Usage: "none|ext|name|len|crtd|accd|mod"},
		&cli.BoolFlag{Name: "clobber"},
		&cli.BoolFlag{Name: "recursive", Aliases: []string{"r"}, Usage: "expand directory inputs recursively"},
		&cli.BoolFlag{Name: "ignore-links"},
		&cli.BoolFlag{Name: "ignore-dotfiles"},
	}
}

// expandInputs resolves each command-line input path through fswalk,
// so a directory argument contributes every regular file beneath it
// instead of being rejected by os.ReadFile.
func expandInputs(c *cli.Context, targets []string) ([]string, error) {
	entries, err := fswalk.ExpandAll(targets, c.Bool("recursive"), c.Bool("ignore-links"), c.Bool("ignore-dotfiles"))
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths, nil
}

func buildConfig(c *cli.Context, mode archive.Mode) (archive.Config, error) {
	cfg := archive.NewConfig()
	cfg.Mode = mode
	cfg.Quiet = c.Bool("quiet")
	cfg.Memory = c.Int("mem")
	cfg.BlockSize = c.Int("blocksize")
	cfg.Threads = c.Int("threads")
	cfg.Clobber = c.Bool("clobber")

	switch c.String("align") {
	case "fixed":
		cfg.Align = archive.AlignFixed
	default:
		cfg.Align = archive.AlignFile
	}

	switch c.String("method") {
	case "lzw-reset":
		cfg.Method = block.MethodLZW
		cfg.LZWStrategy = lzw.StrategyReset
	case "lzw-cull":
		cfg.Method = block.MethodLZW
		cfg.LZWStrategy = lzw.StrategyCull
	case "store":
		cfg.Method = block.MethodStore
	default:
		cfg.Method = block.MethodCM
	}

	switch c.String("sort") {
	case "ext":
		cfg.Sort = sortinput.Ext
	case "name":
		cfg.Sort = sortinput.Name
	case "len":
		cfg.Sort = sortinput.Len
	case "crtd":
		cfg.Sort = sortinput.Created
	case "accd":
		cfg.Sort = sortinput.Accessed
	case "mod":
		cfg.Sort = sortinput.Modified
	default:
		cfg.Sort = sortinput.None
	}

	if cfg.Threads == 0 {
		cfg.Threads = archive.NewConfig().Threads
	}

	return cfg, nil
}

func newLogger(c *cli.Context) {
	logging.New(logging.Options{Quiet: c.Bool("quiet"), LogFile: c.String("log-file")})
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "create a new archive",
		ArgsUsage: "<output> <input...>",
		Flags:     commonConfigFlags(),
		Action: func(c *cli.Context) error {
			newLogger(c)
			if c.NArg() < 2 {
				return fmt.Errorf("create requires an output path and at least one input")
			}
			cfg, err := buildConfig(c, archive.ModeCreate)
			if err != nil {
				return err
			}
			inputs, err := expandInputs(c, c.Args().Tail())
			if err != nil {
				return err
			}
			cfg.OutputDir = c.Args().First()
			cfg.Inputs = inputs

			a := archive.NewArchiver(cfg)
			return a.Create(c.Context)
		},
	}
}

func appendCommand() *cli.Command {
	return &cli.Command{
		Name:      "append",
		Usage:     "append files to an existing archive",
		ArgsUsage: "<archive> <input...>",
		Flags:     commonConfigFlags(),
		Action: func(c *cli.Context) error {
			newLogger(c)
			if c.NArg() < 2 {
				return fmt.Errorf("append requires an archive path and at least one input")
			}
			cfg, err := buildConfig(c, archive.ModeAppend)
			if err != nil {
				return err
			}
			inputs, err := expandInputs(c, c.Args().Tail())
			if err != nil {
				return err
			}
			cfg.ExistingArchive = c.Args().First()
			cfg.Inputs = inputs

			a := archive.NewArchiver(cfg)
			return a.Append(c.Context)
		},
	}
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "extract every file from an archive",
		ArgsUsage: "<archive> [output-dir]",
		Flags:     commonConfigFlags(),
		Action: func(c *cli.Context) error {
			newLogger(c)
			if c.NArg() < 1 {
				return fmt.Errorf("extract requires an archive path")
			}
			cfg, err := buildConfig(c, archive.ModeExtract)
			if err != nil {
				return err
			}
			cfg.ExistingArchive = c.Args().First()
			cfg.OutputDir = c.Args().Get(1)

			e := archive.NewExtractor(cfg)
			return e.Extract(c.Context)
		},
	}
}

func extractFilesCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract-files",
		Usage:     "extract specific files from an archive",
		ArgsUsage: "<archive> <file...>",
		Flags:     commonConfigFlags(),
		Action: func(c *cli.Context) error {
			newLogger(c)
			if c.NArg() < 2 {
				return fmt.Errorf("extract-files requires an archive path and at least one file")
			}
			cfg, err := buildConfig(c, archive.ModeExtractFiles)
			if err != nil {
				return err
			}
			cfg.ExistingArchive = c.Args().First()

			e := archive.NewExtractor(cfg)
			return e.ExtractFiles(c.Context, c.Args().Tail())
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "list the blocks and files in an archive",
		ArgsUsage: "<archive>",
		Action: func(c *cli.Context) error {
			newLogger(c)
			if c.NArg() < 1 {
				return fmt.Errorf("list requires an archive path")
			}
			return archive.List(c.Args().First(), os.Stdout)
		},
	}
}

func fvCommand() *cli.Command {
	return &cli.Command{
		Name:      "fv",
		Usage:     "render an archive's contents as a PPM bitmap",
		ArgsUsage: "<archive>",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "color-scale", Value: 10.0},
			&cli.IntFlag{Name: "image-width", Value: 512},
			&cli.IntFlag{Name: "threads", Value: 0},
		},
		Action: func(c *cli.Context) error {
			newLogger(c)
			if c.NArg() < 1 {
				return fmt.Errorf("fv requires an archive path")
			}
			cfg := archive.NewConfig()
			cfg.Mode = archive.ModeFv
			cfg.ExistingArchive = c.Args().First()
			cfg.Fv = archive.FvOptions{ColorScale: c.Float64("color-scale"), ImageWidth: c.Int("image-width")}
			if t := c.Int("threads"); t > 0 {
				cfg.Threads = t
			}
			return archive.Fv(cfg, os.Stdout)
		},
	}
}
