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

// Package archive assembles the block, pipeline, and LZW/context-mixing
// packages into the five user-facing operations: create, extract,
// append, list, and fv.
package archive

import (
	"fmt"
	"runtime"

	"github.com/zarc-project/zarc/block"
	"github.com/zarc-project/zarc/lzw"
	"github.com/zarc-project/zarc/sortinput"
)

// Mode selects which top-level operation a Config drives.
type Mode int

const (
	ModeCreate Mode = iota
	ModeExtract
	ModeAppend
	ModeExtractFiles
	ModeList
	ModeFv
)

// Align selects how input is cut into blocks: AlignFile starts a new
// block at each file (a file larger than the block size still spans
// several blocks); AlignFixed cuts at fixed block-size boundaries, so a
// block may end mid-file.
type Align int

const (
	AlignFile Align = iota
	AlignFixed
)

// minMemLevel and maxMemLevel bound Config.Memory; memory level k costs
// the predictor 1<<(20+k) bytes for its hash table's base unit (see
// cm.MemUnit), and the same level sizes the LZW dictionary.
const (
	minMemLevel = 0
	maxMemLevel = 9
)

// minBlockSize and maxBlockSize bound Config.BlockSize.
const (
	minBlockSize = 64
	maxBlockSize = 1 << 30 // 1 GiB
	maxThreads   = 128
)

// FvOptions configures the fv subcommand's PPM rendering.
type FvOptions struct {
	ColorScale float64
	ImageWidth int
}

// DefaultFvOptions matches the original visualization tool's defaults.
func DefaultFvOptions() FvOptions {
	return FvOptions{ColorScale: 10.0, ImageWidth: 512}
}

// Config holds every validated setting for one archive operation.
type Config struct {
	Mode       Mode
	Sort       sortinput.Method
	SortLevel  int // ancestor level, only meaningful when Sort == sortinput.ParentDir
	Inputs     []string
	OutputDir  string
	ExistingArchive string // path to an archive being appended to, extracted, listed, or visualized
	Quiet      bool
	Memory     int
	Clobber    bool
	BlockSize  int
	Threads    int
	Align      Align
	Method     block.Method
	LZWStrategy lzw.Strategy
	InsertID   uint32
	Fv         FvOptions
}

// NewConfig returns a Config with the original CLI tool's defaults:
// context-mixing at memory level 6, one block per file-or-blocksize
// chunk, and a worker count matching the host's usable CPUs.
func NewConfig() Config {
	return Config{
		Memory:    6,
		BlockSize: 1 << 20,
		Threads:   runtime.GOMAXPROCS(0),
		Method:    block.MethodCM,
		Align:     AlignFile,
		Fv:        DefaultFvOptions(),
	}
}

// ErrorKind names which validation rule a Config failed, mirroring
// original_source/src/error.rs's ConfigError variants as an idiomatic Go
// error kind rather than a Rust enum.
type ErrorKind int

const (
	ErrInvalidSortCriteria ErrorKind = iota
	ErrOutOfRangeMemory
	ErrInvalidBlockSize
	ErrOutOfRangeThreadCount
	ErrInvalidInput
	ErrInvalidInsertID
	ErrInvalidColorScale
	ErrInvalidImageWidth
)

// Error reports a Config validation failure.
type Error struct {
	Kind  ErrorKind
	Value string
	Err   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrInvalidSortCriteria:
		return fmt.Sprintf("config: %q is not a valid sort criteria", e.Value)
	case ErrOutOfRangeMemory:
		return fmt.Sprintf("config: memory level %s is outside the valid range (%d..%d)", e.Value, minMemLevel, maxMemLevel)
	case ErrInvalidBlockSize:
		return fmt.Sprintf("config: %q is not a valid block size (must be %d..%d bytes)", e.Value, minBlockSize, maxBlockSize)
	case ErrOutOfRangeThreadCount:
		return fmt.Sprintf("config: thread count %s is outside the accepted range (1..%d)", e.Value, maxThreads)
	case ErrInvalidInput:
		return fmt.Sprintf("config: %q is not a valid input path", e.Value)
	case ErrInvalidInsertID:
		return fmt.Sprintf("config: %q is not a valid insert id", e.Value)
	case ErrInvalidColorScale:
		return fmt.Sprintf("config: %q is not a valid color scale", e.Value)
	case ErrInvalidImageWidth:
		return fmt.Sprintf("config: %q is not a valid image width", e.Value)
	default:
		return fmt.Sprintf("config: invalid configuration: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Validate checks every field against the archive format's limits.
// Validate runs once, before any archive I/O, so a malformed flag never
// costs the user a partial write.
func (c *Config) Validate() error {
	if c.Memory < minMemLevel || c.Memory > maxMemLevel {
		return &Error{Kind: ErrOutOfRangeMemory, Value: fmt.Sprintf("%d", c.Memory)}
	}
	if c.BlockSize < minBlockSize || c.BlockSize > maxBlockSize {
		return &Error{Kind: ErrInvalidBlockSize, Value: fmt.Sprintf("%d", c.BlockSize)}
	}
	if c.Threads < 1 || c.Threads > maxThreads {
		return &Error{Kind: ErrOutOfRangeThreadCount, Value: fmt.Sprintf("%d", c.Threads)}
	}
	if (c.Mode == ModeCreate || c.Mode == ModeAppend) && len(c.Inputs) == 0 {
		return &Error{Kind: ErrInvalidInput, Value: "(none given)"}
	}
	if c.Fv.ColorScale <= 0 {
		return &Error{Kind: ErrInvalidColorScale, Value: fmt.Sprintf("%v", c.Fv.ColorScale)}
	}
	if c.Fv.ImageWidth <= 0 {
		return &Error{Kind: ErrInvalidImageWidth, Value: fmt.Sprintf("%d", c.Fv.ImageWidth)}
	}
	return nil
}
