package testutil

import (
	"sync"

	dErrors "onboard/pkg/domain-errors"
)

// ConcurrentResult tallies the outcomes of RunConcurrent. Failures are keyed
// by domain error code; errors without one count as CodeInternal.
type ConcurrentResult struct {
	Successes int
	Failures  map[dErrors.Code]int
}

// Count returns how many calls failed with code.
func (r *ConcurrentResult) Count(code dErrors.Code) int {
	return r.Failures[code]
}

func (r *ConcurrentResult) Total() int {
	total := r.Successes
	for _, n := range r.Failures {
		total += n
	}
	return total
}

// RunConcurrent calls fn from n goroutines at once and waits for all of them.
func RunConcurrent(n int, fn func(idx int) error) *ConcurrentResult {
	res := &ConcurrentResult{Failures: make(map[dErrors.Code]int)}
	var mu sync.Mutex
	var start, done sync.WaitGroup
	start.Add(1)

	for i := 0; i < n; i++ {
		done.Add(1)
		go func(idx int) {
			defer done.Done()
			start.Wait()
			err := fn(idx)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				res.Successes++
				return
			}
			code, ok := dErrors.CodeOf(err)
			if !ok {
				code = dErrors.CodeInternal
			}
			res.Failures[code]++
		}(i)
	}

	start.Done()
	done.Wait()
	return res
}
