// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package fileconv

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type indexedJob struct {
	idx int
	job Job
}

// ConvertAll converts a batch of jobs and returns one result per job in
// input order. Jobs run on a bounded worker pool and fail independently:
// a failure at position k never prevents jobs k+1..n from running.
//
// Canceling the context stops scheduling further jobs; jobs already
// running finish (or time out) normally, and jobs never scheduled report
// the context error.
func (e *Engine) ConvertAll(ctx context.Context, jobs []Job) ([]Result, Summary) {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results, Summary{}
	}

	workers := e.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	// Jobs handed to a worker are shielded from batch cancellation; the
	// per-job timeout still bounds them. Only scheduling observes ctx.
	jobCtx := context.WithoutCancel(ctx)

	queue := make(chan indexedJob)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range queue {
				results[it.idx] = e.Convert(jobCtx, it.job)
			}
		}()
	}

feed:
	for i, job := range jobs {
		select {
		case <-ctx.Done():
			for j := i; j < len(jobs); j++ {
				id := jobs[j].ID
				if id == "" {
					id = uuid.NewString()
				}
				results[j] = Result{
					JobID: id,
					Err:   fmt.Errorf("batch canceled before job was scheduled: %w", ctx.Err()),
				}
			}
			break feed
		case queue <- indexedJob{i, job}:
		}
	}
	close(queue)
	wg.Wait()

	summary := Summarize(results)
	e.logger.Info("batch finished",
		"jobs", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed)
	return results, summary
}
