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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueueRestoresOrder(t *testing.T) {
	q := NewQueue(0, 0)

	// Push out of order; TryPop must only yield in ascending id order.
	q.Push(&Block{ID: 2})
	_, ok := q.TryPop()
	require.False(t, ok, "id 2 cannot pop before ids 0 and 1 arrive")

	q.Push(&Block{ID: 0})
	b, ok := q.TryPop()
	require.True(t, ok)
	require.Equal(t, uint32(0), b.ID)

	_, ok = q.TryPop()
	require.False(t, ok, "id 1 is still missing")

	q.Push(&Block{ID: 1})
	b, ok = q.TryPop()
	require.True(t, ok)
	require.Equal(t, uint32(1), b.ID)

	b, ok = q.TryPop()
	require.True(t, ok)
	require.Equal(t, uint32(2), b.ID)
}

func TestQueueOffsetAppliesOnPop(t *testing.T) {
	q := NewQueue(0, 100)
	q.Push(&Block{ID: 0})

	b, ok := q.TryPop()
	require.True(t, ok)
	require.Equal(t, uint32(100), b.ID, "offset shifts the delivered id for append continuity")
}

func TestQueueWaitBlocksUntilReady(t *testing.T) {
	q := NewQueue(5, 0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan *Block, 1)
	go func() {
		b, err := q.Wait(ctx)
		if err == nil {
			done <- b
		}
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push(&Block{ID: 5})

	select {
	case b := <-done:
		require.Equal(t, uint32(5), b.ID)
	case <-ctx.Done():
		t.Fatal("Wait did not return after the matching block arrived")
	}
}

func TestQueueWaitRespectsContextCancellation(t *testing.T) {
	q := NewQueue(0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
