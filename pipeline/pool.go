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

package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/zarc-project/zarc/block"
)

// Pool is a fixed-size worker pool that codes blocks concurrently while
// a block.Queue restores ascending-id order for the output writer.
// Workers and the producer/writer goroutines are coordinated with an
// errgroup.Group: the first error any of them returns cancels the
// group's context, but a worker already mid-job still finishes or
// returns before the pool unwinds, so Wait always observes a job count
// that matches what was actually dispatched.
type Pool struct {
	Workers int
}

// NewPool builds a pool with the given worker count, defaulting to
// runtime.GOMAXPROCS(0) when workers is not positive.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{Workers: workers}
}

// Compress runs every job in jobs through the pool, delivering finished
// blocks to emit in strict ascending-id order starting at startID.
// offset is added to each delivered block's id, supporting append onto
// an existing archive. Compress returns the first error encountered,
// whether from a worker or from emit, after every in-flight job has
// been drained from the pool.
func (p *Pool) Compress(ctx context.Context, jobs []CompressJob, startID, offset uint32, emit func(*block.Block) error) error {
	g, gctx := errgroup.WithContext(ctx)
	q := block.NewQueue(startID, offset)
	jobCh := make(chan CompressJob)

	g.Go(func() error {
		defer close(jobCh)
		for _, j := range jobs {
			select {
			case jobCh <- j:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < p.Workers; i++ {
		g.Go(func() error {
			for j := range jobCh {
				blk, err := compress(j)
				if err != nil {
					return err
				}
				q.Push(blk)
			}
			return nil
		})
	}

	g.Go(func() error {
		for delivered := 0; delivered < len(jobs); delivered++ {
			blk, err := q.Wait(gctx)
			if err != nil {
				return err
			}
			if err := emit(blk); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

// Decompress mirrors Compress for the decode direction: jobs are blocks
// already read from the archive (in any order the scanner produced
// them), and emit receives their decoded payloads in the same
// ascending-id order the archive was written in.
func (p *Pool) Decompress(ctx context.Context, jobs []DecompressJob, startID, offset uint32, emit func(*block.Block) error) error {
	g, gctx := errgroup.WithContext(ctx)
	q := block.NewQueue(startID, offset)
	jobCh := make(chan DecompressJob)

	g.Go(func() error {
		defer close(jobCh)
		for _, j := range jobs {
			select {
			case jobCh <- j:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < p.Workers; i++ {
		g.Go(func() error {
			for j := range jobCh {
				blk, err := decompress(j)
				if err != nil {
					return err
				}
				q.Push(blk)
			}
			return nil
		})
	}

	g.Go(func() error {
		for delivered := 0; delivered < len(jobs); delivered++ {
			blk, err := q.Wait(gctx)
			if err != nil {
				return err
			}
			if err := emit(blk); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}
