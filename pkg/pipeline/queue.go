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

package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// hashFunc computes a block's hash, returning the raw digest bytes (20
// for SHA-1, 32 for SHA-256).
type hashFunc func(block []byte) []byte

// task is one dispatched unit of work: a block tagged with its position
// in traversal order, and a channel its result is delivered on.
type task struct {
	index  int
	result chan taskResult
}

type taskResult struct {
	hash []byte
	err  error
}

// hashQueue dispatches hash tasks to a worker pool bounded by
// concurrency, and reclaims results through a FIFO channel bounded by
// capacity: pushing a new task blocks once capacity in-flight tasks are
// outstanding, which is the pipeline's backpressure mechanism. Tasks are
// always drained in the order they were pushed, so the caller never has
// to re-sort by index.
type hashQueue struct {
	group    *errgroup.Group
	ctx      context.Context
	fifo     chan *task
	hashFn   hashFunc
	nextIdx  int
}

func newHashQueue(ctx context.Context, concurrency, capacity int, hashFn hashFunc) *hashQueue {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	if capacity <= 0 {
		capacity = concurrency * 4
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	return &hashQueue{
		group:  g,
		ctx:    gCtx,
		fifo:   make(chan *task, capacity),
		hashFn: hashFn,
	}
}

// push dispatches block for hashing and enqueues its task handle,
// blocking if the queue is at capacity (backpressure). It returns
// immediately with an error if the pipeline context has already been
// cancelled by an earlier failure.
func (q *hashQueue) push(block []byte) error {
	if err := q.ctx.Err(); err != nil {
		return err
	}

	t := &task{index: q.nextIdx, result: make(chan taskResult, 1)}
	q.nextIdx++

	q.group.Go(func() error {
		defer close(t.result)
		hash := q.hashFn(block)
		select {
		case <-q.ctx.Done():
			return q.ctx.Err()
		default:
		}
		t.result <- taskResult{hash: hash}
		return nil
	})

	select {
	case q.fifo <- t:
	case <-q.ctx.Done():
		return q.ctx.Err()
	}
	return nil
}

// drain pulls every pushed task's result off the FIFO in push order,
// blocking on each head element until it completes. It must be called
// once, after all pushes for the pass are issued, and must finish
// before close is called.
func (q *hashQueue) drain() ([][]byte, error) {
	close(q.fifo)
	results := make([][]byte, 0, len(q.fifo))
	for t := range q.fifo {
		select {
		case r, ok := <-t.result:
			if !ok {
				return nil, q.ctx.Err()
			}
			if r.err != nil {
				return nil, r.err
			}
			results = append(results, r.hash)
		case <-q.ctx.Done():
			return nil, q.ctx.Err()
		}
	}
	return results, nil
}

// close waits for all dispatched hash goroutines to finish and returns
// the first error returned by any of them. A panicking hash goroutine is
// not recovered here and is not turned into an error.
func (q *hashQueue) close() error {
	return q.group.Wait()
}
