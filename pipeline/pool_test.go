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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zarc-project/zarc/block"
)

func TestPoolCompressDeliversInAscendingOrder(t *testing.T) {
	pool := NewPool(4)

	var jobs []CompressJob
	for i := uint32(0); i < 50; i++ {
		jobs = append(jobs, CompressJob{ID: i, Data: []byte{byte(i)}, Method: block.MethodStore})
	}

	var gotIDs []uint32
	err := pool.Compress(context.Background(), jobs, 0, 0, func(blk *block.Block) error {
		gotIDs = append(gotIDs, blk.ID)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, gotIDs, 50)
	for i, id := range gotIDs {
		require.Equal(t, uint32(i), id, "blocks must be delivered in strict ascending order despite concurrent workers")
	}
}

func TestPoolCompressAppliesOffset(t *testing.T) {
	pool := NewPool(2)
	jobs := []CompressJob{
		{ID: 0, Data: []byte("a"), Method: block.MethodStore},
		{ID: 1, Data: []byte("b"), Method: block.MethodStore},
	}

	var gotIDs []uint32
	err := pool.Compress(context.Background(), jobs, 0, 10, func(blk *block.Block) error {
		gotIDs = append(gotIDs, blk.ID)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []uint32{10, 11}, gotIDs)
}

func TestPoolCompressPropagatesWorkerError(t *testing.T) {
	pool := NewPool(2)
	jobs := []CompressJob{
		{ID: 0, Data: []byte("a"), Method: block.MethodStore},
		{ID: 1, Data: []byte("b"), Method: block.Method(255)}, // unknown method
	}

	err := pool.Compress(context.Background(), jobs, 0, 0, func(*block.Block) error { return nil })
	require.Error(t, err)
}

func TestPoolCompressPropagatesEmitError(t *testing.T) {
	pool := NewPool(2)
	jobs := []CompressJob{
		{ID: 0, Data: []byte("a"), Method: block.MethodStore},
		{ID: 1, Data: []byte("b"), Method: block.MethodStore},
	}

	wantErr := errors.New("disk full")
	err := pool.Compress(context.Background(), jobs, 0, 0, func(*block.Block) error { return wantErr })
	require.ErrorIs(t, err, wantErr)
}
