package dynamo

import (
	"golang.org/x/sync/errgroup"
)

// PairCount is the number of unordered pairs among n bodies.
func PairCount(n int) int {
	return n * (n - 1) / 2
}

// PairIndex maps the unordered pair i<j to its slot in a table of
// PairCount(n) entries laid out row by row.
func PairIndex(i, j, n int) int {
	return i*(2*n-i-1)/2 + (j - i - 1)
}

// ParallelFor executes fn over [0, n) split into at most workers chunks of
// at least minChunk items. Small inputs run on the calling goroutine.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if workers <= 1 || n <= minChunk {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)

	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		s, e := start, end
		g.Go(func() error {
			fn(s, e)
			return nil
		})
	}

	_ = g.Wait()
}
