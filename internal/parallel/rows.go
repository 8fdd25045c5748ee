// Package parallel splits row-independent image work across goroutines.
//
// Every filter and transform in this module computes each output row from
// the immutable source alone, so rows can be processed in any order. Rows
// partitions [0, n) into contiguous bands and runs them concurrently; the
// output is identical to a serial pass regardless of the worker count.
package parallel

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// minRowsPerBand keeps tiny images on the calling goroutine.
const minRowsPerBand = 16

var workers atomic.Int32

// SetWorkers sets the maximum number of goroutines used by Rows.
// n <= 0 restores the default of GOMAXPROCS; 1 disables parallelism.
func SetWorkers(n int) {
	if n < 0 {
		n = 0
	}
	workers.Store(int32(n))
}

// Workers returns the effective worker limit.
func Workers() int {
	if n := int(workers.Load()); n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// Rows calls fn over contiguous bands [start, end) covering [0, n) and
// returns once every band is done. fn must only write rows inside its band.
func Rows(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	bands := min(Workers(), (n+minRowsPerBand-1)/minRowsPerBand)
	if bands <= 1 {
		fn(0, n)
		return
	}

	per := (n + bands - 1) / bands
	var g errgroup.Group
	g.SetLimit(bands)
	for start := 0; start < n; start += per {
		s, e := start, min(start+per, n)
		g.Go(func() error {
			fn(s, e)
			return nil
		})
	}
	_ = g.Wait()
}
