package feature

import (
	"sync"
	"sync/atomic"
)

// Job pairs an interval's clip samples with its position in the selected
// list. The index keys the output so worker completion order never affects
// report ordering.
type Job struct {
	Index   int
	Samples []float64
}

// MapConcurrent runs fn over jobs with a fixed-size worker pool. Workers
// share nothing mutable: each reads one job and writes one slot. Any worker
// error fails the whole batch (the lowest-index error is returned); a partial
// per-speaker comparison would be misleading.
func MapConcurrent(jobs []Job, workers int, fn func(Job) (Vector, error)) ([]Vector, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]Vector, len(jobs))
	errs := make([]error, len(jobs))
	var failed atomic.Bool

	queue := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				if failed.Load() {
					continue
				}
				v, err := fn(jobs[i])
				if err != nil {
					errs[i] = err
					failed.Store(true)
					continue
				}
				results[i] = v
			}
		}()
	}
	for i := range jobs {
		queue <- i
	}
	close(queue)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
