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

package archive

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/zarc-project/zarc/block"
	"github.com/zarc-project/zarc/internal/progress"
	"github.com/zarc-project/zarc/pipeline"
)

// Archiver drives the compress-side operations: Create and Append.
type Archiver struct {
	cfg      Config
	Notifier progress.Notifier
}

// NewArchiver builds an Archiver from a validated Config.
func NewArchiver(cfg Config) *Archiver {
	return &Archiver{cfg: cfg}
}

// Create writes a new archive at cfg.OutputDir containing every file in
// cfg.Inputs.
func (a *Archiver) Create(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	jobs, err := a.buildJobs(a.cfg.Inputs, 0)
	if err != nil {
		return err
	}

	out, err := os.Create(a.cfg.OutputDir)
	if err != nil {
		return &RuntimeError{Kind: ErrIO, Path: a.cfg.OutputDir, Err: err}
	}
	defer out.Close()

	return a.runCompress(ctx, jobs, 0, 0, out)
}

// Append adds every file in cfg.Inputs to the existing archive at
// cfg.ExistingArchive, continuing its block id sequence. An advisory
// file lock is held for the duration so a second process cannot append
// to the same archive concurrently and interleave block ids.
func (a *Archiver) Append(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	lock := flock.New(a.cfg.ExistingArchive + ".lock")
	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return &RuntimeError{Kind: ErrIO, Path: a.cfg.ExistingArchive, Err: err}
	}
	if !locked {
		return &RuntimeError{Kind: ErrIO, Path: a.cfg.ExistingArchive, Err: io.ErrClosedPipe}
	}
	defer lock.Unlock()

	info, err := Scan(a.cfg.ExistingArchive)
	if err != nil {
		return err
	}
	startID := uint32(len(info.Blocks))

	jobs, err := a.buildJobs(a.cfg.Inputs, startID)
	if err != nil {
		return err
	}

	out, err := os.OpenFile(a.cfg.ExistingArchive, os.O_RDWR, 0644)
	if err != nil {
		return &RuntimeError{Kind: ErrIO, Path: a.cfg.ExistingArchive, Err: err}
	}
	defer out.Close()

	if _, err := out.Seek(info.TerminatorOffset, io.SeekStart); err != nil {
		return &RuntimeError{Kind: ErrIO, Path: a.cfg.ExistingArchive, Err: err}
	}

	return a.runCompress(ctx, jobs, startID, 0, out)
}

func (a *Archiver) runCompress(ctx context.Context, jobs []pipeline.CompressJob, startID, offset uint32, out io.Writer) error {
	w := bufio.NewWriter(out)

	a.Notifier.Notify(progress.NewEventFromString(progress.EvtCompressStart, "", time.Time{}))

	pool := pipeline.NewPool(a.cfg.Threads)
	err := pool.Compress(ctx, jobs, startID, offset, func(blk *block.Block) error {
		a.Notifier.Notify(progress.NewBlockEvent(progress.EvtBlockDone, blk.ID, int64(blk.SizeOut), blk.Checksum, progress.Hash32Bits, time.Time{}))
		_, err := blk.WriteTo(w)
		return err
	})
	if err != nil {
		return err
	}

	if _, err := block.Terminator(startID + uint32(len(jobs))).WriteTo(w); err != nil {
		return &RuntimeError{Kind: ErrIO, Err: err}
	}
	if err := w.Flush(); err != nil {
		return &RuntimeError{Kind: ErrIO, Err: err}
	}

	a.Notifier.Notify(progress.NewEventFromString(progress.EvtCompressEnd, "", time.Time{}))
	return nil
}

// buildJobs chunks paths into compress jobs honoring cfg.BlockSize and
// cfg.Align: AlignFile never lets one block span two input files (a
// file larger than BlockSize still becomes several single-file blocks),
// AlignFixed packs file bytes into fixed-size blocks regardless of file
// boundaries.
func (a *Archiver) buildJobs(paths []string, startID uint32) ([]pipeline.CompressJob, error) {
	var jobs []pipeline.CompressJob
	var curData []byte
	var curFiles []block.FileRecord
	id := startID
	created := uint64(time.Now().Unix())

	flush := func() {
		if len(curData) == 0 && len(curFiles) == 0 {
			return
		}
		jobs = append(jobs, pipeline.CompressJob{
			ID:       id,
			Data:     curData,
			Method:   a.cfg.Method,
			Level:    a.cfg.Memory,
			Strategy: a.cfg.LZWStrategy,
			Files:    curFiles,
			Created:  created,
		})
		id++
		curData = nil
		curFiles = nil
	}

	for _, path := range paths {
		if a.cfg.Align == AlignFile && len(curData) > 0 {
			flush()
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &RuntimeError{Kind: ErrFileNotFound, Path: path, Err: err}
		}
		total := uint64(len(data))

		if total == 0 {
			curFiles = append(curFiles, block.FileRecord{Path: path})
			continue
		}

		var off uint64
		for off < total {
			space := a.cfg.BlockSize - len(curData)
			if space <= 0 {
				flush()
				space = a.cfg.BlockSize
			}
			n := uint64(space)
			if remaining := total - off; remaining < n {
				n = remaining
			}

			// SegmentStart/SegmentEnd locate this file's bytes within the
			// block's own decoded payload; FileOffset locates them within
			// the original file. The two coordinate spaces coincide only
			// when a file starts at the beginning of a block.
			segStart := uint64(len(curData))
			fileOffset := off
			curData = append(curData, data[off:off+n]...)
			off += n

			curFiles = append(curFiles, block.FileRecord{
				Path:         path,
				TotalLength:  total,
				SegmentStart: segStart,
				SegmentEnd:   uint64(len(curData)),
				FileOffset:   fileOffset,
			})

			if a.cfg.Align == AlignFile && len(curData) >= a.cfg.BlockSize {
				flush()
			}
		}
	}
	flush()

	return jobs, nil
}
