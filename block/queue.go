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

package block

import (
	"container/heap"
	"context"
	"sync"
)

// blockHeap is a container/heap.Interface ordered by ascending block id,
// so the lowest id produced by any worker always surfaces first
// regardless of completion order.
type blockHeap []*Block

func (h blockHeap) Len() int            { return len(h) }
func (h blockHeap) Less(i, j int) bool  { return h[i].ID < h[j].ID }
func (h blockHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *blockHeap) Push(x interface{}) { *h = append(*h, x.(*Block)) }
func (h *blockHeap) Pop() interface{} {
	old := *h
	n := len(old)
	b := old[n-1]
	*h = old[:n-1]
	return b
}

// Queue reorders blocks finished by a pool of concurrent workers back
// into strict ascending-id order before they reach the output writer.
// Workers finish out of order; Queue is the single synchronization point
// that restores the order the archive's format requires, guarded by a
// plain mutex rather than a lock-free structure so the ordering logic
// stays easy to reason about under concurrent Push calls.
type Queue struct {
	mu      sync.Mutex
	heap    blockHeap
	offset  uint32
	nextOut uint32
	ready   chan struct{}
}

// NewQueue builds a queue whose first deliverable block has id start.
// offset is added to every popped block's id before delivery, letting an
// append operation continue an existing archive's id sequence without
// the workers themselves knowing the archive's prior block count.
func NewQueue(start, offset uint32) *Queue {
	q := &Queue{nextOut: start, offset: offset, ready: make(chan struct{}, 1)}
	heap.Init(&q.heap)
	return q
}

// Push adds a finished block to the queue and wakes one Wait call, if
// any is blocked. Safe for concurrent use by any number of workers.
func (q *Queue) Push(b *Block) {
	q.mu.Lock()
	heap.Push(&q.heap, b)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Wait blocks until either the next in-order block is available (per
// TryPop's rule) or ctx is cancelled. It never busy-polls: a writer
// goroutine parks on Wait between blocks instead of spinning.
func (q *Queue) Wait(ctx context.Context) (*Block, error) {
	for {
		if b, ok := q.TryPop(); ok {
			return b, nil
		}
		select {
		case <-q.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// TryPop returns the next block in ascending-id order if it has already
// arrived, applying the queue's offset to its id. It returns ok=false
// when the block the cursor is waiting on has not finished yet, even if
// later blocks are already sitting in the heap.
func (q *Queue) TryPop() (b *Block, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) == 0 {
		return nil, false
	}
	if q.heap[0].ID != q.nextOut {
		return nil, false
	}

	b = heap.Pop(&q.heap).(*Block)
	b.ID += q.offset
	q.nextOut++
	return b, true
}

// Len reports how many finished blocks are currently buffered, whether
// or not they are next in line for delivery.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}
